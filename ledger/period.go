package ledger

import (
	"time"
)

// Clock 提供"现在"，便于测试固定时间
type Clock interface {
	Now() time.Time
}

// SystemClock 系统时钟，返回指定时区的当前时间
type SystemClock struct {
	Location *time.Location
}

func (c SystemClock) Now() time.Time {
	if c.Location == nil {
		return time.Now().UTC()
	}
	return time.Now().In(c.Location)
}

// FixedClock 固定时间
type FixedClock time.Time

func (c FixedClock) Now() time.Time {
	return time.Time(c)
}

// Dated 带账务日期的记录
type Dated interface {
	LedgerDate() time.Time
}

// Period 半开区间 [from, to)；nil 端表示不设限
type Period struct {
	from *time.Time
	to   *time.Time
}

// AllTime 不按日期过滤，日期缺失的记录也保留
func AllTime() Period {
	return Period{}
}

// MonthToDate now 所在自然月（按 now 的时区）
func MonthToDate(now time.Time) Period {
	start := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	end := start.AddDate(0, 1, 0)
	return Period{from: &start, to: &end}
}

// YearToDate now 所在自然年（按 now 的时区）
func YearToDate(now time.Time) Period {
	start := time.Date(now.Year(), time.January, 1, 0, 0, 0, 0, now.Location())
	end := start.AddDate(1, 0, 0)
	return Period{from: &start, to: &end}
}

// AsOf 截止到 cutoff 当天结束（含当天）
func AsOf(cutoff time.Time) Period {
	end := StartOfDay(cutoff).AddDate(0, 0, 1)
	return Period{to: &end}
}

// Before 严格早于 cutoff
func Before(cutoff time.Time) Period {
	return Period{to: &cutoff}
}

// Range start 当天开始到 end 当天结束（两端都含）
func Range(start, end time.Time) Period {
	from := StartOfDay(start)
	to := StartOfDay(end).AddDate(0, 0, 1)
	return Period{from: &from, to: &to}
}

// StartOfDay t 所在时区的零点
func StartOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// Bounded 是否有日期边界
func (p Period) Bounded() bool {
	return p.from != nil || p.to != nil
}

// Contains 有边界的区间不包含零值日期
func (p Period) Contains(t time.Time) bool {
	if !p.Bounded() {
		return true
	}
	if t.IsZero() {
		return false
	}
	if p.from != nil && t.Before(*p.from) {
		return false
	}
	if p.to != nil && !t.Before(*p.to) {
		return false
	}
	return true
}

// Filter 返回落在区间内的记录，保持原有顺序
func Filter[T Dated](records []T, p Period) []T {
	out := make([]T, 0, len(records))
	for _, r := range records {
		if p.Contains(r.LedgerDate()) {
			out = append(out, r)
		}
	}
	return out
}
