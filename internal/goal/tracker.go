package goal

import (
	"math"
	"time"
)

// Matches reports whether the activity feeds the goal's metric.
func Matches(g Goal, a Activity) bool {
	switch g.GoalType {
	case TypeRunningDistance:
		return a.ActivityType == "running" && a.Distance != nil
	case TypeCyclingDistance:
		return a.ActivityType == "cycling" && a.Distance != nil
	case TypeCalorieBurn:
		return a.Calories != nil
	case TypeWeightLoss:
		return a.Weight != nil
	}
	return false
}

// ApplyActivity folds one activity into the goal. Distance and calorie goals
// accumulate; weight_loss takes the latest weight reading as its value.
// Cancelled and failed goals are returned unchanged.
func ApplyActivity(g Goal, a Activity, now time.Time) Goal {
	if g.Status == StatusCancelled || g.Status == StatusFailed || !Matches(g, a) {
		return g
	}

	value := g.CurrentValue
	switch g.GoalType {
	case TypeRunningDistance, TypeCyclingDistance:
		value += *a.Distance
	case TypeCalorieBurn:
		value += *a.Calories
	case TypeWeightLoss:
		value = *a.Weight
	}

	return SetProgress(g, value, now)
}

// SetProgress stores value and recomputes the percentage. Reaching 100 marks
// the goal completed; completion is never undone.
func SetProgress(g Goal, value float64, now time.Time) Goal {
	g.CurrentValue = value
	if g.TargetValue > 0 {
		g.Percentage = math.Max(0, math.Min(100, value/g.TargetValue*100))
	}

	if g.Percentage >= 100 && g.Status == StatusActive {
		g.Status = StatusCompleted
		completed := now
		g.CompletedAt = &completed
	}
	return g
}

// IsOnTrack compares progress with a straight line from start to target date.
// Goals without a usable time frame count as on track. A goal with zero
// progress is off track from its first elapsed day.
func IsOnTrack(g Goal, today time.Time) bool {
	if g.TargetDate == nil {
		return true
	}

	total := daysBetween(g.StartDate, *g.TargetDate)
	elapsed := daysBetween(g.StartDate, today)
	if total <= 0 || elapsed <= 0 {
		return true
	}

	expected := float64(elapsed) / float64(total) * 100
	return g.Percentage >= expected*0.8
}

// DaysRemaining counts whole days left until the target date, never negative.
func DaysRemaining(g Goal, today time.Time) *int {
	if g.TargetDate == nil {
		return nil
	}
	days := daysBetween(today, *g.TargetDate)
	if days < 0 {
		days = 0
	}
	return &days
}

func NewView(g Goal, today time.Time) View {
	return View{
		Goal:          g,
		OnTrack:       IsOnTrack(g, today),
		DaysRemaining: DaysRemaining(g, today),
	}
}

func daysBetween(from, to time.Time) int {
	a := time.Date(from.Year(), from.Month(), from.Day(), 0, 0, 0, 0, time.UTC)
	b := time.Date(to.Year(), to.Month(), to.Day(), 0, 0, 0, 0, time.UTC)
	return int(b.Sub(a).Hours() / 24)
}
