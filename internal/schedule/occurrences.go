package schedule

import (
	"time"

	"golang.org/x/exp/slices"
)

// Generate expands rule into the calendar dates falling within [from, to],
// both inclusive. Daily and weekly cursors start at the later of from and the
// rule's start date; monthly dates keep the start date's day of month. The
// rule's end date and max occurrences, counted from its start date, cap the
// window. The result is sorted, free of duplicates and of the rule's exception
// dates. A window with from after to yields an empty result.
func Generate(rule RecurrenceRule, from, to time.Time) ([]time.Time, error) {
	if err := rule.Validate(); err != nil {
		return nil, err
	}

	from, to = dateOf(from), dateOf(to)
	if from.After(to) {
		return []time.Time{}, nil
	}

	start := dateOf(rule.StartDate)
	last := to
	if rule.EndDate != nil {
		if end := dateOf(*rule.EndDate); end.Before(last) {
			last = end
		}
	}
	if rule.MaxOccurrences != nil {
		n := *rule.MaxOccurrences
		if series := expand(rule, start, start, last, n); len(series) == n {
			last = series[n-1]
		}
	}

	cursor := start
	if from.After(cursor) {
		cursor = from
	}
	dates := expand(rule, start, cursor, last, 0)

	slices.SortFunc(dates, func(a, b time.Time) int { return a.Compare(b) })
	dates = slices.CompactFunc(dates, func(a, b time.Time) bool { return a.Equal(b) })

	result := make([]time.Time, 0, len(dates))
	for _, d := range dates {
		if isException(rule.Exceptions, d) {
			continue
		}
		result = append(result, d)
	}
	return result, nil
}

// expand emits the rule's dates from cursor through last in ascending order,
// stopping after limit dates when limit is positive.
func expand(rule RecurrenceRule, start, cursor, last time.Time, limit int) []time.Time {
	switch rule.Pattern {
	case PatternDaily:
		return daily(cursor, last, rule.Interval, limit)
	case PatternWeekly:
		weekdays := rule.Weekdays
		if len(weekdays) == 0 {
			weekdays = []time.Weekday{start.Weekday()}
		}
		return weekly(cursor, last, rule.Interval, weekdays, limit)
	case PatternMonthly:
		return monthly(start, cursor, last, rule.Interval, limit)
	}
	return nil
}

func full(dates []time.Time, limit int) bool {
	return limit > 0 && len(dates) >= limit
}

func daily(cursor, last time.Time, interval, limit int) []time.Time {
	var dates []time.Time
	for d := cursor; !d.After(last) && !full(dates, limit); d = d.AddDate(0, 0, interval) {
		dates = append(dates, d)
	}
	return dates
}

// weekly walks a cursor forward interval weeks at a time and emits, for each
// weekday, the first matching date on or after the cursor.
func weekly(cursor, last time.Time, interval int, weekdays []time.Weekday, limit int) []time.Time {
	var dates []time.Time
	for ; !cursor.After(last); cursor = cursor.AddDate(0, 0, 7*interval) {
		week := make([]time.Time, 0, len(weekdays))
		for _, wd := range weekdays {
			if d := nextWeekday(cursor, wd); !d.After(last) {
				week = append(week, d)
			}
		}
		slices.SortFunc(week, func(a, b time.Time) int { return a.Compare(b) })
		for _, d := range week {
			if full(dates, limit) {
				return dates
			}
			dates = append(dates, d)
		}
	}
	return dates
}

func nextWeekday(from time.Time, wd time.Weekday) time.Time {
	ahead := (int(wd) - int(from.Weekday()) + 7) % 7
	return from.AddDate(0, 0, ahead)
}

// monthly keeps the start date's day of month, clamped to shorter months. It
// jumps straight to the month of cursor instead of walking from start.
func monthly(start, cursor, last time.Time, interval, limit int) []time.Time {
	i := 0
	if months := (cursor.Year()-start.Year())*12 + int(cursor.Month()) - int(start.Month()); months > 0 {
		i = months / interval
	}

	var dates []time.Time
	for ; ; i++ {
		d := addMonthsClamped(start, i*interval)
		if d.Before(cursor) {
			continue
		}
		if d.After(last) || full(dates, limit) {
			return dates
		}
		dates = append(dates, d)
	}
}

func addMonthsClamped(t time.Time, months int) time.Time {
	y, m, d := t.Date()
	total := int(m) - 1 + months
	year := y + total/12
	month := time.Month(total%12 + 1)

	if maxDay := daysIn(year, month); d > maxDay {
		d = maxDay
	}
	return time.Date(year, month, d, 0, 0, 0, 0, time.UTC)
}

func daysIn(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

func isException(exceptions []time.Time, d time.Time) bool {
	for _, e := range exceptions {
		if dateOf(e).Equal(d) {
			return true
		}
	}
	return false
}
