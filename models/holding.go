package models

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Asset 资产负债表中的设备/资产，手工录入，不计折旧
type Asset struct {
	ID        uint            `json:"id" gorm:"primaryKey"`
	UserID    uint            `json:"user_id" gorm:"index;not null"`
	Name      string          `json:"name" gorm:"size:100;not null"`
	Amount    decimal.Decimal `json:"amount" gorm:"type:decimal(14,2);not null;default:0"`
	Date      time.Time       `json:"date" gorm:"index"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
	DeletedAt gorm.DeletedAt  `json:"-" gorm:"index"`
}

func (Asset) TableName() string {
	return "assets"
}

func (a Asset) LedgerDate() time.Time {
	return a.Date
}

// Loan 未偿还贷款余额，手工录入，不做摊销
type Loan struct {
	ID        uint            `json:"id" gorm:"primaryKey"`
	UserID    uint            `json:"user_id" gorm:"index;not null"`
	Name      string          `json:"name" gorm:"size:100;not null"`
	Amount    decimal.Decimal `json:"amount" gorm:"type:decimal(14,2);not null;default:0"`
	Date      time.Time       `json:"date" gorm:"index"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
	DeletedAt gorm.DeletedAt  `json:"-" gorm:"index"`
}

func (Loan) TableName() string {
	return "loans"
}

func (l Loan) LedgerDate() time.Time {
	return l.Date
}
