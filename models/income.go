package models

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Income 收入记录模型
type Income struct {
	ID            uint            `json:"id" gorm:"primaryKey"`
	UserID        uint            `json:"user_id" gorm:"index;not null"`
	ClientID      *uint           `json:"client_id" gorm:"index"`
	ClientName    string          `json:"client_name" gorm:"size:100"`
	ServiceType   string          `json:"service_type" gorm:"size:100"`
	PaymentMethod string          `json:"payment_method" gorm:"size:50"`
	Amount        decimal.Decimal `json:"amount" gorm:"type:decimal(14,2);not null;default:0"`
	Date          time.Time       `json:"date" gorm:"index"`
	Notes         string          `json:"notes" gorm:"size:500"`
	Recurrence
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`
}

func (Income) TableName() string {
	return "incomes"
}

// LedgerDate 账务日期
func (i Income) LedgerDate() time.Time {
	return i.Date
}
