package ledger

import (
	"time"

	"github.com/shopspring/decimal"
)

// BalanceEpsilon 资产 = 负债 + 权益 的比较容差
var BalanceEpsilon = decimal.RequireFromString("0.01")

// AssetSection 资产
type AssetSection struct {
	CashAndBank decimal.Decimal `json:"cash_and_bank"`
	Receivables decimal.Decimal `json:"receivables"`
	Equipment   decimal.Decimal `json:"equipment"`
	Total       decimal.Decimal `json:"total"`
}

// LiabilitySection 负债
type LiabilitySection struct {
	Payables decimal.Decimal `json:"payables"`
	Loans    decimal.Decimal `json:"loans"`
	Taxes    decimal.Decimal `json:"taxes"`
	Total    decimal.Decimal `json:"total"`
}

// BalanceSheet 资产负债表
type BalanceSheet struct {
	AsOf           time.Time        `json:"as_of"`
	Currency       string           `json:"currency"`
	Assets         AssetSection     `json:"assets"`
	Liabilities    LiabilitySection `json:"liabilities"`
	OwnersEquity   decimal.Decimal  `json:"owners_equity"`
	OwnerCapital   decimal.Decimal  `json:"owner_capital"`
	RetainedProfit decimal.Decimal  `json:"retained_profit"`
	IsBalanced     bool             `json:"is_balanced"`
}

// ComposeBalanceSheet 按截止日（含当天）编制资产负债表
//
// 所有者权益是资产减负债的差额，留存利润是权益减投入资本的差额，
// 因此 IsBalanced 只用来发现计算被改坏的情况。
func ComposeBalanceSheet(book *Book, asOf time.Time) BalanceSheet {
	window := AsOf(asOf)
	incomes := Filter(book.Incomes, window)
	expenses := Filter(book.Expenses, window)
	assets := Filter(book.Assets, window)
	loans := Filter(book.Loans, window)
	settings := book.Settings

	var bs BalanceSheet
	bs.AsOf = asOf
	bs.Currency = settings.Currency

	incomeSum := SumIncome(incomes)
	expenseSum := SumExpenses(expenses)

	bs.Assets.CashAndBank = BalanceSheetCash(incomes, expenses, settings.OpeningCash)
	bs.Assets.Receivables = PendingPayments(book.Invoices, &asOf)
	bs.Assets.Equipment = sumWhere(assets, assetAmount, nil)
	bs.Assets.Total = bs.Assets.CashAndBank.Add(bs.Assets.Receivables).Add(bs.Assets.Equipment)

	bs.Liabilities.Payables = settings.Payables
	bs.Liabilities.Loans = sumWhere(loans, loanAmount, nil)
	totalProfit := Profit(incomeSum, expenseSum)
	bs.Liabilities.Taxes = EstimateTax(totalProfit, settings.EffectiveTaxRate(), settings.TaxEnabled)
	bs.Liabilities.Total = bs.Liabilities.Payables.Add(bs.Liabilities.Loans).Add(bs.Liabilities.Taxes)

	bs.OwnersEquity = bs.Assets.Total.Sub(bs.Liabilities.Total)
	bs.OwnerCapital = settings.OwnerCapital
	bs.RetainedProfit = bs.OwnersEquity.Sub(bs.OwnerCapital)

	diff := bs.Assets.Total.Sub(bs.Liabilities.Total.Add(bs.OwnersEquity)).Abs()
	bs.IsBalanced = diff.LessThan(BalanceEpsilon)
	return bs
}
