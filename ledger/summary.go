package ledger

import (
	"time"

	"github.com/shopspring/decimal"
)

// Summary 仪表盘与 AI 摘要共用的汇总结果
type Summary struct {
	Currency            string                     `json:"currency"`
	GeneratedAt         time.Time                  `json:"generated_at"`
	HasData             bool                       `json:"has_data"`
	CashInHand          decimal.Decimal            `json:"cash_in_hand"`
	BankBalance         decimal.Decimal            `json:"bank_balance"`
	MonthlyIncome       decimal.Decimal            `json:"monthly_income"`
	YearlyIncome        decimal.Decimal            `json:"yearly_income"`
	MonthlyExpenses     decimal.Decimal            `json:"monthly_expenses"`
	YearlyExpenses      decimal.Decimal            `json:"yearly_expenses"`
	MonthlyProfit       decimal.Decimal            `json:"monthly_profit"`
	YearlyProfit        decimal.Decimal            `json:"yearly_profit"`
	PendingPayments     decimal.Decimal            `json:"pending_payments"`
	EstimatedTaxMonthly decimal.Decimal            `json:"estimated_tax_monthly"`
	EstimatedTaxYearly  decimal.Decimal            `json:"estimated_tax_yearly"`
	ExpenseBreakdown    map[string]decimal.Decimal `json:"expense_breakdown"`
}

// Engine 绑定时钟与时区的计算入口
type Engine struct {
	clock    Clock
	location *time.Location
}

// NewEngine 创建计算引擎；loc 为 nil 时使用 UTC
func NewEngine(clock Clock, loc *time.Location) *Engine {
	if loc == nil {
		loc = time.UTC
	}
	if clock == nil {
		clock = SystemClock{Location: loc}
	}
	return &Engine{clock: clock, location: loc}
}

// Location 计算使用的时区
func (e *Engine) Location() *time.Location {
	return e.location
}

// Now 当前时间（引擎时区）
func (e *Engine) Now() time.Time {
	return e.clock.Now().In(e.location)
}

// Summarize 计算仪表盘汇总
//
// 现金/银行余额和待收款基于全部历史；月度与年度数据分别独立计算。
func (e *Engine) Summarize(book *Book) Summary {
	now := e.Now()
	settings := book.Settings
	rate := settings.EffectiveTaxRate()

	month := MonthToDate(now)
	year := YearToDate(now)

	balances := CashPosition(book.Incomes, book.Expenses, book.Transfers, settings.OpeningCash)

	s := Summary{
		Currency:    settings.Currency,
		GeneratedAt: now,
		HasData:     !book.Empty(),
		CashInHand:  balances.CashInHand,
		BankBalance: balances.BankBalance,
	}
	s.MonthlyIncome = SumIncome(Filter(book.Incomes, month))
	s.YearlyIncome = SumIncome(Filter(book.Incomes, year))
	s.MonthlyExpenses = SumExpenses(Filter(book.Expenses, month))
	s.YearlyExpenses = SumExpenses(Filter(book.Expenses, year))
	s.MonthlyProfit = Profit(s.MonthlyIncome, s.MonthlyExpenses)
	s.YearlyProfit = Profit(s.YearlyIncome, s.YearlyExpenses)
	s.EstimatedTaxMonthly = EstimateTax(s.MonthlyProfit, rate, settings.TaxEnabled)
	s.EstimatedTaxYearly = EstimateTax(s.YearlyProfit, rate, settings.TaxEnabled)
	s.PendingPayments = PendingPayments(book.Invoices, nil)
	s.ExpenseBreakdown = ExpenseBreakdown(book.Expenses)
	return s
}

// BalanceSheet 按引擎时区解释截止日
func (e *Engine) BalanceSheet(book *Book, asOf time.Time) BalanceSheet {
	return ComposeBalanceSheet(book, asOf.In(e.location))
}

// BalanceSheetToday 截止今天
func (e *Engine) BalanceSheetToday(book *Book) BalanceSheet {
	return ComposeBalanceSheet(book, e.Now())
}
