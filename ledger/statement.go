package ledger

import (
	"time"

	"github.com/shopspring/decimal"
)

// Statement 区间报表：期初/期末余额与区间收支
type Statement struct {
	Start            time.Time                  `json:"start"`
	End              time.Time                  `json:"end"`
	Currency         string                     `json:"currency"`
	Opening          Balances                   `json:"opening"`
	Closing          Balances                   `json:"closing"`
	Income           decimal.Decimal            `json:"income"`
	Expenses         decimal.Decimal            `json:"expenses"`
	Profit           decimal.Decimal            `json:"profit"`
	EstimatedTax     decimal.Decimal            `json:"estimated_tax"`
	ExpenseBreakdown map[string]decimal.Decimal `json:"expense_breakdown"`
}

// Statement start 与 end 均按整天计算，两端都含
func (e *Engine) Statement(book *Book, start, end time.Time) Statement {
	start = StartOfDay(start.In(e.location))
	end = end.In(e.location)
	settings := book.Settings

	before := Before(start)
	opening := CashPosition(
		Filter(book.Incomes, before),
		Filter(book.Expenses, before),
		Filter(book.Transfers, before),
		settings.OpeningCash,
	)
	asOf := AsOf(end)
	closing := CashPosition(
		Filter(book.Incomes, asOf),
		Filter(book.Expenses, asOf),
		Filter(book.Transfers, asOf),
		settings.OpeningCash,
	)

	window := Range(start, end)
	incomes := Filter(book.Incomes, window)
	expenses := Filter(book.Expenses, window)

	st := Statement{
		Start:            start,
		End:              end,
		Currency:         settings.Currency,
		Opening:          opening,
		Closing:          closing,
		Income:           SumIncome(incomes),
		Expenses:         SumExpenses(expenses),
		ExpenseBreakdown: ExpenseBreakdown(expenses),
	}
	st.Profit = Profit(st.Income, st.Expenses)
	st.EstimatedTax = EstimateTax(st.Profit, settings.EffectiveTaxRate(), settings.TaxEnabled)
	return st
}
