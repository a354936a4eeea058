package models

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Expense 支出记录模型
type Expense struct {
	ID            uint            `json:"id" gorm:"primaryKey"`
	UserID        uint            `json:"user_id" gorm:"index;not null"`
	Category      string          `json:"category" gorm:"size:50;not null"`
	Amount        decimal.Decimal `json:"amount" gorm:"type:decimal(14,2);not null;default:0"`
	Date          time.Time       `json:"date" gorm:"index"`
	PaymentMethod string          `json:"payment_method" gorm:"size:50"`
	Receipt       string          `json:"receipt" gorm:"size:255"` // 票据附件地址，内容不解析
	Notes         string          `json:"notes" gorm:"size:500"`
	Recurrence
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`
}

// TableName 设置表名
func (Expense) TableName() string {
	return "expenses"
}

// LedgerDate 账务日期
func (e Expense) LedgerDate() time.Time {
	return e.Date
}

// 默认支出类别
const (
	CategoryRent      = "Rent"
	CategorySalaries  = "Salaries"
	CategoryUtilities = "Utilities"
	CategorySupplies  = "Supplies"
	CategoryTransport = "Transport"
	CategoryMarketing = "Marketing"
	CategoryOther     = "Other"
)

// GetCategories 获取默认支出类别
func GetCategories() []string {
	return []string{
		CategoryRent,
		CategorySalaries,
		CategoryUtilities,
		CategorySupplies,
		CategoryTransport,
		CategoryMarketing,
		CategoryOther,
	}
}
