package models

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// 内部账户
const (
	AccountCash = "cash"
	AccountBank = "bank"
)

// Transfer 现金与银行之间的内部转账
type Transfer struct {
	ID          uint            `json:"id" gorm:"primaryKey"`
	UserID      uint            `json:"user_id" gorm:"index;not null"`
	FromAccount string          `json:"from_account" gorm:"size:10;not null"`
	ToAccount   string          `json:"to_account" gorm:"size:10;not null"`
	Amount      decimal.Decimal `json:"amount" gorm:"type:decimal(14,2);not null;default:0"`
	Date        time.Time       `json:"date" gorm:"index"`
	Notes       string          `json:"notes" gorm:"size:255"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
	DeletedAt   gorm.DeletedAt  `json:"-" gorm:"index"`
}

func (Transfer) TableName() string {
	return "transfers"
}

// LedgerDate 账务日期
func (t Transfer) LedgerDate() time.Time {
	return t.Date
}
