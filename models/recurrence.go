package models

import (
	"fmt"
	"time"
)

// Frequency 周期记录的频率
type Frequency string

const (
	FrequencyMonthly   Frequency = "monthly"
	FrequencyQuarterly Frequency = "quarterly"
	FrequencyYearly    Frequency = "yearly"
)

// Valid 是否为支持的频率
func (f Frequency) Valid() bool {
	switch f {
	case FrequencyMonthly, FrequencyQuarterly, FrequencyYearly:
		return true
	}
	return false
}

// Recurrence 周期标记，仅作描述用途，系统不会自动生成后续记录
type Recurrence struct {
	IsRecurring        bool       `json:"is_recurring" gorm:"default:false"`
	RecurringFrequency Frequency  `json:"recurring_frequency" gorm:"size:20"`
	RecurringEndDate   *time.Time `json:"recurring_end_date"`
}

// Validate 校验周期设置；非周期记录忽略频率与结束日期
func (r Recurrence) Validate() error {
	if !r.IsRecurring {
		return nil
	}
	if !r.RecurringFrequency.Valid() {
		return fmt.Errorf("无效的周期频率: %q", r.RecurringFrequency)
	}
	return nil
}
