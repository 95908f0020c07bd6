package types

import (
	"time"

	"gorm.io/gorm"
)

// DateRange is an optional inclusive range of UTC calendar days used by the
// reporting endpoints. Nil bounds are open.
type DateRange struct {
	Start *time.Time
	End   *time.Time
}

// DayStart returns midnight UTC of the start day.
func (r DateRange) DayStart() *time.Time {
	if r.Start == nil {
		return nil
	}
	t := truncateDay(*r.Start)
	return &t
}

// DayEnd returns the exclusive upper bound: midnight UTC after the end day.
func (r DateRange) DayEnd() *time.Time {
	if r.End == nil {
		return nil
	}
	t := truncateDay(*r.End).AddDate(0, 0, 1)
	return &t
}

// Inverted reports whether both bounds are set and start is after end.
func (r DateRange) Inverted() bool {
	return r.Start != nil && r.End != nil && truncateDay(*r.Start).After(truncateDay(*r.End))
}

// Scope filters column to the range.
func (r DateRange) Scope(column string) func(*gorm.DB) *gorm.DB {
	return func(q *gorm.DB) *gorm.DB {
		if start := r.DayStart(); start != nil {
			q = q.Where(column+" >= ?", *start)
		}
		if end := r.DayEnd(); end != nil {
			q = q.Where(column+" < ?", *end)
		}
		return q
	}
}

func truncateDay(t time.Time) time.Time {
	u := t.UTC()
	return time.Date(u.Year(), u.Month(), u.Day(), 0, 0, 0, 0, time.UTC)
}
