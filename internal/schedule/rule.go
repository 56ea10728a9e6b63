package schedule

import (
	"fmt"
	"time"
)

// MaxOccurrencesLimit caps a rule's max occurrences.
const MaxOccurrencesLimit = 1000

const (
	PatternDaily   = "daily"
	PatternWeekly  = "weekly"
	PatternMonthly = "monthly"
)

// RecurrenceRule describes how a session repeats. Dates are calendar days;
// only their year, month and day are used.
type RecurrenceRule struct {
	Pattern        string
	Interval       int
	Weekdays       []time.Weekday
	StartDate      time.Time
	EndDate        *time.Time
	MaxOccurrences *int
	Exceptions     []time.Time
}

// InvalidRuleError reports a malformed recurrence rule.
type InvalidRuleError struct {
	Field  string
	Reason string
}

func (e *InvalidRuleError) Error() string {
	return fmt.Sprintf("invalid recurrence rule: %s %s", e.Field, e.Reason)
}

func (r RecurrenceRule) Validate() error {
	switch r.Pattern {
	case PatternDaily, PatternWeekly, PatternMonthly:
	default:
		return &InvalidRuleError{Field: "pattern", Reason: fmt.Sprintf("%q is not one of daily, weekly, monthly", r.Pattern)}
	}
	if r.Interval < 1 {
		return &InvalidRuleError{Field: "interval", Reason: "must be at least 1"}
	}
	for _, wd := range r.Weekdays {
		if wd < time.Sunday || wd > time.Saturday {
			return &InvalidRuleError{Field: "weekdays", Reason: fmt.Sprintf("%d is out of range 0-6", wd)}
		}
	}
	if r.StartDate.IsZero() {
		return &InvalidRuleError{Field: "start_date", Reason: "is required"}
	}
	if r.EndDate != nil && dateOf(*r.EndDate).Before(dateOf(r.StartDate)) {
		return &InvalidRuleError{Field: "end_date", Reason: "is before start_date"}
	}
	if r.MaxOccurrences != nil && (*r.MaxOccurrences < 1 || *r.MaxOccurrences > MaxOccurrencesLimit) {
		return &InvalidRuleError{Field: "max_occurrences", Reason: fmt.Sprintf("must be between 1 and %d", MaxOccurrencesLimit)}
	}
	return nil
}

// dateOf truncates t to midnight UTC of its calendar day.
func dateOf(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
