package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// DefaultTaxRate 未设置税率时使用的百分比
var DefaultTaxRate = decimal.NewFromInt(10)

// DefaultCurrency 新账套的默认币种
const DefaultCurrency = "LKR"

// Settings 账套设置，每个用户一条，不删除
type Settings struct {
	ID           uint                `json:"id" gorm:"primaryKey"`
	UserID       uint                `json:"user_id" gorm:"uniqueIndex;not null"`
	Currency     string              `json:"currency" gorm:"size:10;not null;default:LKR"`
	TaxRate      decimal.NullDecimal `json:"tax_rate" gorm:"type:decimal(6,2)"`
	TaxEnabled   bool                `json:"tax_enabled" gorm:"default:false"`
	OpeningCash  decimal.Decimal     `json:"opening_cash" gorm:"type:decimal(14,2);not null;default:0"`
	OwnerCapital decimal.Decimal     `json:"owner_capital" gorm:"type:decimal(14,2);not null;default:0"`
	Payables     decimal.Decimal     `json:"payables" gorm:"type:decimal(14,2);not null;default:0"`
	BankDetails  string              `json:"-" gorm:"type:text"` // secretbox 密文
	CreatedAt    time.Time           `json:"created_at"`
	UpdatedAt    time.Time           `json:"updated_at"`
}

func (Settings) TableName() string {
	return "settings"
}

// DefaultSettings 新账套的默认设置
func DefaultSettings(userID uint) Settings {
	return Settings{
		UserID:   userID,
		Currency: DefaultCurrency,
		TaxRate:  decimal.NewNullDecimal(DefaultTaxRate),
	}
}

// EffectiveTaxRate 未设置时回退到 10%
func (s Settings) EffectiveTaxRate() decimal.Decimal {
	if !s.TaxRate.Valid {
		return DefaultTaxRate
	}
	return s.TaxRate.Decimal
}
