package ledger

import (
	"github.com/shopspring/decimal"

	"bizbooks/models"
)

// Balances 现金与银行余额及其组成
type Balances struct {
	IncomeCash  decimal.Decimal `json:"income_cash"`
	IncomeBank  decimal.Decimal `json:"income_bank"`
	ExpenseCash decimal.Decimal `json:"expense_cash"`
	ExpenseBank decimal.Decimal `json:"expense_bank"`
	CashToBank  decimal.Decimal `json:"cash_to_bank"`
	BankToCash  decimal.Decimal `json:"bank_to_cash"`
	CashInHand  decimal.Decimal `json:"cash_in_hand"`
	BankBalance decimal.Decimal `json:"bank_balance"`
}

// CashPosition 计算手头现金和银行余额（含内部转账）
//
// 余额允许为负（透支），不做截断。
func CashPosition(incomes []models.Income, expenses []models.Expense, transfers []models.Transfer, openingCash decimal.Decimal) Balances {
	var b Balances
	b.IncomeCash = sumWhere(incomes, incomeAmount, func(i models.Income) bool { return IsCash(i.PaymentMethod) })
	b.IncomeBank = sumWhere(incomes, incomeAmount, func(i models.Income) bool { return IsBank(i.PaymentMethod) })
	b.ExpenseCash = sumWhere(expenses, expenseAmount, func(e models.Expense) bool { return IsCash(e.PaymentMethod) })
	b.ExpenseBank = sumWhere(expenses, expenseAmount, func(e models.Expense) bool { return IsBank(e.PaymentMethod) })
	b.CashToBank = sumWhere(transfers, transferAmount, func(t models.Transfer) bool {
		return t.FromAccount == models.AccountCash && t.ToAccount == models.AccountBank
	})
	b.BankToCash = sumWhere(transfers, transferAmount, func(t models.Transfer) bool {
		return t.FromAccount == models.AccountBank && t.ToAccount == models.AccountCash
	})

	b.CashInHand = openingCash.Add(b.IncomeCash).Sub(b.ExpenseCash).Sub(b.CashToBank).Add(b.BankToCash)
	b.BankBalance = b.IncomeBank.Sub(b.ExpenseBank).Add(b.CashToBank).Sub(b.BankToCash)
	return b
}

// BalanceSheetCash 资产负债表使用的现金及银行合计：期初现金 + 收入 - 支出
//
// 与 CashPosition 不同，这里不区分支付方式也不考虑转账，两者保持各自的口径。
func BalanceSheetCash(incomes []models.Income, expenses []models.Expense, openingCash decimal.Decimal) decimal.Decimal {
	return openingCash.Add(SumIncome(incomes)).Sub(SumExpenses(expenses))
}
