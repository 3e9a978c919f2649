package scheduler

import (
	"testing"
	"time"

	"assessment-service/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fixedScheduler(at time.Time) *Scheduler {
	s := NewScheduler(nil)
	s.now = func() time.Time { return at }
	return s
}

func TestSchedule_FirstCorrectReview(t *testing.T) {
	now := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	s := fixedScheduler(now)

	state := models.NewItemMemoryState("user-1", "item-1")
	// Response right at the nominal average: no speed adjustment either way.
	next := s.Schedule(state, true, 10000, nil)

	assert.Equal(t, 1, next.Streak)
	assert.Equal(t, 1, next.TotalReviews)
	assert.InDelta(t, models.DefaultEaseFactor, next.EaseFactor, 1e-9)
	assert.Equal(t, 1, next.IntervalDays)
	assert.Equal(t, now, next.LastReviewedAt)
	assert.Equal(t, now.AddDate(0, 0, 1), next.NextDueAt)
}

func TestSchedule_MissResetsStreakAndInterval(t *testing.T) {
	now := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	s := fixedScheduler(now)

	state := models.ItemMemoryState{
		UserID:       "user-1",
		ItemID:       "item-1",
		EaseFactor:   2.5,
		Streak:       7,
		IntervalDays: 40,
		TotalReviews: 12,
	}
	next := s.Schedule(state, false, 4000, nil)

	assert.Equal(t, 0, next.Streak)
	assert.InDelta(t, 2.3, next.EaseFactor, 1e-9)
	assert.Equal(t, 1, next.IntervalDays, "interval after a miss is the base interval")
	assert.Equal(t, 13, next.TotalReviews)
	assert.Equal(t, now.AddDate(0, 0, 1), next.NextDueAt)
}

func TestSchedule_EaseFactorFloor(t *testing.T) {
	s := fixedScheduler(time.Now())

	state := models.ItemMemoryState{EaseFactor: 1.35}
	next := s.Schedule(state, false, 4000, nil)
	assert.InDelta(t, 1.3, next.EaseFactor, 1e-9)

	// Further misses stay pinned at the floor.
	next = s.Schedule(next, false, 4000, nil)
	assert.InDelta(t, 1.3, next.EaseFactor, 1e-9)
}

func TestSchedule_EaseFactorCeiling(t *testing.T) {
	s := fixedScheduler(time.Now())

	// Fast response earns the full speed bonus, which would push past 3.0.
	state := models.ItemMemoryState{EaseFactor: 2.95, Streak: 5}
	next := s.Schedule(state, true, 1000, nil)
	assert.InDelta(t, 3.0, next.EaseFactor, 1e-9)
}

func TestSchedule_IntervalMonotonicInStreak(t *testing.T) {
	s := fixedScheduler(time.Now())

	shorter := s.Schedule(models.ItemMemoryState{EaseFactor: 2.0, Streak: 3}, true, 20000, nil)
	longer := s.Schedule(models.ItemMemoryState{EaseFactor: 2.0, Streak: 6}, true, 20000, nil)

	assert.GreaterOrEqual(t, longer.IntervalDays, shorter.IntervalDays)
}

func TestSchedule_IntervalMonotonicInEase(t *testing.T) {
	s := fixedScheduler(time.Now())

	low := s.Schedule(models.ItemMemoryState{EaseFactor: 1.5, Streak: 4}, true, 10000, nil)
	high := s.Schedule(models.ItemMemoryState{EaseFactor: 2.5, Streak: 4}, true, 10000, nil)

	assert.GreaterOrEqual(t, high.IntervalDays, low.IntervalDays)
}

func TestSchedule_IntervalCapped(t *testing.T) {
	s := fixedScheduler(time.Now())

	next := s.Schedule(models.ItemMemoryState{EaseFactor: 3.0, Streak: 20}, true, 10000, nil)
	assert.Equal(t, 365, next.IntervalDays)
}

func TestSchedule_MetricsNeverFlipTheBranch(t *testing.T) {
	s := fixedScheduler(time.Now())

	stellar := &models.UserPerformanceMetrics{AvgResponseMs: 8000, RetentionRate: 1.0}
	next := s.Schedule(models.ItemMemoryState{EaseFactor: 2.5, Streak: 9}, false, 2000, stellar)
	assert.Equal(t, 0, next.Streak, "a miss resets the streak regardless of metrics")
	assert.Equal(t, 1, next.IntervalDays)

	terrible := &models.UserPerformanceMetrics{AvgResponseMs: 8000, RetentionRate: 0.0}
	next = s.Schedule(models.ItemMemoryState{EaseFactor: 2.0, Streak: 2}, true, 2000, terrible)
	assert.Equal(t, 3, next.Streak, "a correct review extends the streak regardless of metrics")
	assert.GreaterOrEqual(t, next.EaseFactor, 2.0, "metrics scale the reward but never turn it negative")
}

func TestSchedule_RetentionScalesTheReward(t *testing.T) {
	s := fixedScheduler(time.Now())
	state := models.ItemMemoryState{EaseFactor: 2.0, Streak: 1}

	weak := s.Schedule(state, true, 2000, &models.UserPerformanceMetrics{AvgResponseMs: 10000, RetentionRate: 0.0})
	strong := s.Schedule(state, true, 2000, &models.UserPerformanceMetrics{AvgResponseMs: 10000, RetentionRate: 1.0})

	require.Greater(t, strong.EaseFactor, weak.EaseFactor)
	assert.Greater(t, weak.EaseFactor, state.EaseFactor)
}

func TestSchedule_SlowCorrectEarnsLessThanFast(t *testing.T) {
	s := fixedScheduler(time.Now())
	state := models.ItemMemoryState{EaseFactor: 2.0, Streak: 4}

	fast := s.Schedule(state, true, 5000, nil)
	slow := s.Schedule(state, true, 20000, nil)

	assert.Greater(t, fast.EaseFactor, slow.EaseFactor)
	assert.GreaterOrEqual(t, slow.EaseFactor, state.EaseFactor, "slow but correct still never loses ease")
}

func TestSchedule_InputStateUntouched(t *testing.T) {
	s := fixedScheduler(time.Now())

	state := models.ItemMemoryState{EaseFactor: 2.2, Streak: 3, IntervalDays: 7, TotalReviews: 5}
	before := state
	_ = s.Schedule(state, true, 9000, nil)
	assert.Equal(t, before, state)
}
