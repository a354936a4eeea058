package ledger

import (
	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// Profit 收入减支出
func Profit(income, expense decimal.Decimal) decimal.Decimal {
	return income.Sub(expense)
}

// EstimateTax 按百分比税率估算税额；未启用或利润不为正时为 0
func EstimateTax(profit, ratePercent decimal.Decimal, enabled bool) decimal.Decimal {
	if !enabled || !profit.IsPositive() {
		return decimal.Zero
	}
	return profit.Mul(ratePercent).Div(hundred)
}
