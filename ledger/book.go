// Package ledger 根据原始账务记录推导现金、银行余额、利润、税额、应收和资产负债表。
//
// 包内所有函数都是输入的纯函数：不访问数据库，不读取系统时间（由 Clock 提供），
// 相同输入始终得到相同结果。仪表盘、AI 摘要、导出、命令行报表共用这一套计算。
package ledger

import (
	"github.com/shopspring/decimal"

	"bizbooks/models"
)

// Book 单个账套在一次计算中使用的全部记录
type Book struct {
	Incomes   []models.Income
	Expenses  []models.Expense
	Invoices  []models.Invoice
	Transfers []models.Transfer
	Assets    []models.Asset
	Loans     []models.Loan
	Settings  models.Settings
}

// Empty 账套中没有任何账务记录（设置不算）
func (b *Book) Empty() bool {
	return len(b.Incomes) == 0 && len(b.Expenses) == 0 && len(b.Invoices) == 0 &&
		len(b.Transfers) == 0 && len(b.Assets) == 0 && len(b.Loans) == 0
}

func sumWhere[T any](items []T, amount func(T) decimal.Decimal, keep func(T) bool) decimal.Decimal {
	total := decimal.Zero
	for _, it := range items {
		if keep == nil || keep(it) {
			total = total.Add(amount(it))
		}
	}
	return total
}

func incomeAmount(i models.Income) decimal.Decimal   { return i.Amount }
func expenseAmount(e models.Expense) decimal.Decimal { return e.Amount }
func transferAmount(t models.Transfer) decimal.Decimal {
	return t.Amount
}
func assetAmount(a models.Asset) decimal.Decimal { return a.Amount }
func loanAmount(l models.Loan) decimal.Decimal   { return l.Amount }

// SumIncome 收入合计
func SumIncome(incomes []models.Income) decimal.Decimal {
	return sumWhere(incomes, incomeAmount, nil)
}

// SumExpenses 支出合计
func SumExpenses(expenses []models.Expense) decimal.Decimal {
	return sumWhere(expenses, expenseAmount, nil)
}

// ExpenseBreakdown 按类别汇总支出，无支出时返回空 map 而不是 nil
func ExpenseBreakdown(expenses []models.Expense) map[string]decimal.Decimal {
	out := make(map[string]decimal.Decimal)
	for _, e := range expenses {
		out[e.Category] = out[e.Category].Add(e.Amount)
	}
	return out
}
