package ledger

import (
	"time"

	"github.com/shopspring/decimal"

	"bizbooks/models"
)

// PendingPayments 未付款发票的 Total 合计
//
// cutoff 为 nil 时统计全部；否则只统计开票日期不晚于 cutoff 当天的发票。
// 使用发票上保存的 Total，不根据明细重算。
func PendingPayments(invoices []models.Invoice, cutoff *time.Time) decimal.Decimal {
	window := AllTime()
	if cutoff != nil {
		window = AsOf(*cutoff)
	}
	return sumWhere(invoices, func(inv models.Invoice) decimal.Decimal { return inv.Total }, func(inv models.Invoice) bool {
		return !inv.IsPaid() && window.Contains(inv.CreatedAt)
	})
}
