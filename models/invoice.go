package models

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

const (
	InvoiceStatusUnpaid = "unpaid"
	InvoiceStatusPaid   = "paid"
)

// Invoice 发票模型
// 创建时 Total = Subtotal + TaxAmount，之后手工修改不再重算
type Invoice struct {
	ID            uint            `json:"id" gorm:"primaryKey"`
	UserID        uint            `json:"user_id" gorm:"index;not null;uniqueIndex:idx_user_invoice_number"`
	InvoiceNumber string          `json:"invoice_number" gorm:"size:50;not null;uniqueIndex:idx_user_invoice_number"`
	ClientID      *uint           `json:"client_id" gorm:"index"`
	ClientName    string          `json:"client_name" gorm:"size:100"`
	ClientEmail   string          `json:"client_email" gorm:"size:100"`
	Items         []InvoiceItem   `json:"items" gorm:"foreignKey:InvoiceID"`
	Subtotal      decimal.Decimal `json:"subtotal" gorm:"type:decimal(14,2);not null;default:0"`
	TaxRate       decimal.Decimal `json:"tax_rate" gorm:"type:decimal(6,2);not null;default:0"`
	TaxAmount     decimal.Decimal `json:"tax_amount" gorm:"type:decimal(14,2);not null;default:0"`
	Total         decimal.Decimal `json:"total" gorm:"type:decimal(14,2);not null;default:0"`
	PaymentMethod string          `json:"payment_method" gorm:"size:50"`
	Status        string          `json:"status" gorm:"size:20;default:unpaid;index"`
	DueDate       *time.Time      `json:"due_date"`
	Notes         string          `json:"notes" gorm:"size:500"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
	DeletedAt     gorm.DeletedAt  `json:"-" gorm:"index"`
}

// InvoiceItem 发票明细
type InvoiceItem struct {
	ID          uint            `json:"id" gorm:"primaryKey"`
	InvoiceID   uint            `json:"invoice_id" gorm:"index;not null"`
	Description string          `json:"description" gorm:"size:255"`
	Price       decimal.Decimal `json:"price" gorm:"type:decimal(14,2);not null;default:0"`
	Quantity    decimal.Decimal `json:"quantity" gorm:"type:decimal(10,2);not null;default:1"`
}

func (Invoice) TableName() string {
	return "invoices"
}

func (InvoiceItem) TableName() string {
	return "invoice_items"
}

// LedgerDate 应收按开票时间计
func (inv Invoice) LedgerDate() time.Time {
	return inv.CreatedAt
}

// IsPaid 状态比较不区分大小写
func (inv Invoice) IsPaid() bool {
	return strings.EqualFold(strings.TrimSpace(inv.Status), InvoiceStatusPaid)
}

// LineTotal 单行金额
func (it InvoiceItem) LineTotal() decimal.Decimal {
	return it.Price.Mul(it.Quantity)
}

// ComputeTotals 根据明细和税率计算 Subtotal / TaxAmount / Total
func (inv *Invoice) ComputeTotals() {
	subtotal := decimal.Zero
	for _, it := range inv.Items {
		subtotal = subtotal.Add(it.LineTotal())
	}
	inv.Subtotal = subtotal.Round(2)
	inv.TaxAmount = inv.Subtotal.Mul(inv.TaxRate).Div(decimal.NewFromInt(100)).Round(2)
	inv.Total = inv.Subtotal.Add(inv.TaxAmount)
}
