package schedule

import (
	"fmt"
	"time"

	"github.com/lib/pq"
)

const (
	dateLayout      = "2006-01-02"
	timeOfDayLayout = "15:04"
)

// Schedule is a stored recurrence attached to a template session.
type Schedule struct {
	ID                int            `db:"id" json:"id"`
	TemplateSessionID int            `db:"template_session_id" json:"template_session_id"`
	Pattern           string         `db:"pattern" json:"pattern"`
	Interval          int            `db:"repeat_interval" json:"interval"`
	Weekdays          pq.Int64Array  `db:"weekdays" json:"weekdays"`
	StartTimeOfDay    string         `db:"start_time_of_day" json:"start_time"`
	EndTimeOfDay      string         `db:"end_time_of_day" json:"end_time"`
	StartDate         time.Time      `db:"start_date" json:"start_date"`
	EndDate           *time.Time     `db:"end_date" json:"end_date,omitempty"`
	MaxOccurrences    *int           `db:"max_occurrences" json:"max_occurrences,omitempty"`
	Exceptions        pq.StringArray `db:"exceptions" json:"exceptions"`
	CreatedAt         time.Time      `db:"created_at" json:"created_at"`
	UpdatedAt         time.Time      `db:"updated_at" json:"updated_at"`
}

func (s Schedule) Rule() (RecurrenceRule, error) {
	rule := RecurrenceRule{
		Pattern:        s.Pattern,
		Interval:       s.Interval,
		StartDate:      s.StartDate,
		EndDate:        s.EndDate,
		MaxOccurrences: s.MaxOccurrences,
	}
	for _, wd := range s.Weekdays {
		rule.Weekdays = append(rule.Weekdays, time.Weekday(wd))
	}
	for _, raw := range s.Exceptions {
		d, err := time.Parse(dateLayout, raw)
		if err != nil {
			return RecurrenceRule{}, &InvalidRuleError{Field: "exceptions", Reason: fmt.Sprintf("%q is not a YYYY-MM-DD date", raw)}
		}
		rule.Exceptions = append(rule.Exceptions, d)
	}
	return rule, rule.Validate()
}

// Duration is the length of each occurrence.
func (s Schedule) Duration() (time.Duration, error) {
	start, err := time.Parse(timeOfDayLayout, s.StartTimeOfDay)
	if err != nil {
		return 0, &InvalidRuleError{Field: "start_time", Reason: "must be HH:MM"}
	}
	end, err := time.Parse(timeOfDayLayout, s.EndTimeOfDay)
	if err != nil {
		return 0, &InvalidRuleError{Field: "end_time", Reason: "must be HH:MM"}
	}
	if !end.After(start) {
		return 0, &InvalidRuleError{Field: "end_time", Reason: "must be after start_time"}
	}
	return end.Sub(start), nil
}

// StartAt combines a calendar date with the schedule's time of day in loc.
func (s Schedule) StartAt(date time.Time, loc *time.Location) (time.Time, error) {
	tod, err := time.Parse(timeOfDayLayout, s.StartTimeOfDay)
	if err != nil {
		return time.Time{}, &InvalidRuleError{Field: "start_time", Reason: "must be HH:MM"}
	}
	y, m, d := date.Date()
	return time.Date(y, m, d, tod.Hour(), tod.Minute(), 0, 0, loc), nil
}

type CreateScheduleRequest struct {
	TemplateSessionID int      `json:"template_session_id" binding:"required,min=1"`
	Pattern           string   `json:"pattern" binding:"required,oneof=daily weekly monthly"`
	Interval          int      `json:"interval" binding:"omitempty,min=1,max=52"`
	Weekdays          []int    `json:"weekdays" binding:"omitempty,max=7,dive,min=0,max=6"`
	StartTime         string   `json:"start_time" binding:"required"`
	EndTime           string   `json:"end_time" binding:"required"`
	StartDate         string   `json:"start_date" binding:"required"`
	EndDate           string   `json:"end_date"`
	MaxOccurrences    *int     `json:"max_occurrences" binding:"omitempty,min=1,max=1000"`
	Exceptions        []string `json:"exceptions" binding:"omitempty,dive,len=10"`
}

type WindowRequest struct {
	From string `form:"from" json:"from" binding:"required"`
	To   string `form:"to" json:"to" binding:"required"`
}

type ExpandResult struct {
	ScheduleID  int `json:"schedule_id"`
	Occurrences int `json:"occurrences"`
	Created     int `json:"created"`
}
