package goal

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ptr(v float64) *float64 { return &v }

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestApplyActivity_CalorieBurnCompletes(t *testing.T) {
	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	g := Goal{ID: 1, GoalType: TypeCalorieBurn, TargetValue: 1000, Status: StatusActive}

	g = ApplyActivity(g, Activity{ActivityType: "strength", Calories: ptr(600)}, now)
	assert.Equal(t, 600.0, g.CurrentValue)
	assert.InDelta(t, 60.0, g.Percentage, 1e-9)
	assert.Equal(t, StatusActive, g.Status)
	assert.Nil(t, g.CompletedAt)

	g = ApplyActivity(g, Activity{ActivityType: "running", Calories: ptr(500)}, now)
	assert.Equal(t, 1100.0, g.CurrentValue)
	assert.Equal(t, 100.0, g.Percentage)
	assert.Equal(t, StatusCompleted, g.Status)
	require.NotNil(t, g.CompletedAt)
	assert.Equal(t, now, *g.CompletedAt)
}

func TestApplyActivity_DistanceMatchesActivityType(t *testing.T) {
	now := time.Now()
	running := Goal{GoalType: TypeRunningDistance, TargetValue: 42, Status: StatusActive}
	cycling := Goal{GoalType: TypeCyclingDistance, TargetValue: 100, Status: StatusActive}

	run := Activity{ActivityType: "running", Distance: ptr(10)}
	ride := Activity{ActivityType: "cycling", Distance: ptr(25)}

	assert.Equal(t, 10.0, ApplyActivity(running, run, now).CurrentValue)
	assert.Equal(t, 0.0, ApplyActivity(running, ride, now).CurrentValue)
	assert.Equal(t, 25.0, ApplyActivity(cycling, ride, now).CurrentValue)
	assert.Equal(t, 0.0, ApplyActivity(cycling, run, now).CurrentValue)

	assert.Equal(t, 0.0, ApplyActivity(running, Activity{ActivityType: "running"}, now).CurrentValue)
}

func TestApplyActivity_WeightReplaces(t *testing.T) {
	now := time.Now()
	g := Goal{GoalType: TypeWeightLoss, TargetValue: 70, CurrentValue: 90, Status: StatusActive}

	g = ApplyActivity(g, Activity{Weight: ptr(60)}, now)
	assert.Equal(t, 60.0, g.CurrentValue)
	assert.Equal(t, StatusActive, g.Status)

	g = ApplyActivity(g, Activity{Weight: ptr(72)}, now)
	assert.Equal(t, 72.0, g.CurrentValue)
	assert.Equal(t, StatusCompleted, g.Status)

	g = ApplyActivity(g, Activity{Weight: ptr(50)}, now)
	assert.Equal(t, 50.0, g.CurrentValue)
	assert.Equal(t, StatusCompleted, g.Status, "completion is one-way")
}

func TestApplyActivity_IgnoresClosedGoalsAndOtherTypes(t *testing.T) {
	now := time.Now()
	a := Activity{ActivityType: "running", Distance: ptr(5), Calories: ptr(300)}

	cancelled := Goal{GoalType: TypeCalorieBurn, TargetValue: 1000, Status: StatusCancelled}
	assert.Equal(t, cancelled, ApplyActivity(cancelled, a, now))

	flexibility := Goal{GoalType: TypeFlexibility, TargetValue: 10, Status: StatusActive}
	assert.Equal(t, flexibility, ApplyActivity(flexibility, a, now))
}

func TestSetProgress_ZeroTarget(t *testing.T) {
	g := SetProgress(Goal{GoalType: TypeOther, Status: StatusActive}, 5, time.Now())
	assert.Equal(t, 5.0, g.CurrentValue)
	assert.Zero(t, g.Percentage)
	assert.Equal(t, StatusActive, g.Status)
}

func TestIsOnTrack(t *testing.T) {
	target := day(2025, 1, 11)

	tests := []struct {
		name  string
		goal  Goal
		today time.Time
		want  bool
	}{
		{"no target date", Goal{StartDate: day(2025, 1, 1)}, day(2025, 6, 1), true},
		{"target before start", Goal{StartDate: day(2025, 1, 11), TargetDate: &[]time.Time{day(2025, 1, 1)}[0]}, day(2025, 1, 20), true},
		{"nothing elapsed", Goal{StartDate: day(2025, 1, 1), TargetDate: &target}, day(2025, 1, 1), true},
		{"ahead of schedule", Goal{StartDate: day(2025, 1, 1), TargetDate: &target, Percentage: 50}, day(2025, 1, 6), true},
		{"exactly eighty percent of expected", Goal{StartDate: day(2025, 1, 1), TargetDate: &target, Percentage: 40}, day(2025, 1, 6), true},
		{"behind", Goal{StartDate: day(2025, 1, 1), TargetDate: &target, Percentage: 39}, day(2025, 1, 6), false},
		{"no progress after time passed", Goal{StartDate: day(2025, 1, 1), TargetDate: &target}, day(2025, 1, 6), false},
		{"no progress on the first day", Goal{StartDate: day(2025, 1, 1), TargetDate: &target}, day(2025, 1, 2), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsOnTrack(tt.goal, tt.today))
		})
	}
}

func TestDaysRemaining(t *testing.T) {
	target := day(2025, 1, 11)
	g := Goal{StartDate: day(2025, 1, 1), TargetDate: &target}

	assert.Equal(t, 5, *DaysRemaining(g, time.Date(2025, 1, 6, 23, 0, 0, 0, time.UTC)))
	assert.Equal(t, 0, *DaysRemaining(g, day(2025, 2, 1)))
	assert.Nil(t, DaysRemaining(Goal{}, day(2025, 2, 1)))
}
