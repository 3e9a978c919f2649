package scheduler

import (
	"math"
	"time"

	"assessment-service/internal/models"
)

// Params are the scheduler's tuning constants.
type Params struct {
	// BaseIntervalDays is the interval after a miss and the unit the growth
	// curve scales from.
	BaseIntervalDays int
	// MinEase is the floor the ease factor never drops below; MaxEase is a
	// sanity ceiling on growth speed.
	MinEase float64
	MaxEase float64
	// MissPenalty is subtracted from the ease factor on an incorrect review.
	MissPenalty float64
	// StreakBonus is added to the ease factor once the consecutive-correct
	// streak reaches StreakBonusAt.
	StreakBonus   float64
	StreakBonusAt int
	// FastBonus rewards answers faster than FastRatio times the user's
	// rolling average; answers slower than SlowRatio earn no speed reward.
	FastBonus float64
	FastRatio float64
	SlowRatio float64
	// NominalResponseMs stands in for the rolling average when no user
	// metrics are supplied.
	NominalResponseMs float64
	// MaxIntervalDays caps the review interval.
	MaxIntervalDays int
}

func DefaultParams() *Params {
	return &Params{
		BaseIntervalDays:  1,
		MinEase:           1.3,
		MaxEase:           3.0,
		MissPenalty:       0.2,
		StreakBonus:       0.1,
		StreakBonusAt:     3,
		FastBonus:         0.15,
		FastRatio:         0.75,
		SlowRatio:         1.5,
		NominalResponseMs: 10000,
		MaxIntervalDays:   365,
	}
}

// Scheduler computes the next spaced-repetition state for one reviewed item.
// It is pure apart from reading the clock: which item or user it schedules
// for is the caller's concern.
type Scheduler struct {
	params *Params
	now    func() time.Time
}

func NewScheduler(params *Params) *Scheduler {
	if params == nil {
		params = DefaultParams()
	}
	return &Scheduler{params: params, now: time.Now}
}

// Schedule maps the current memory state and one observed response to the
// full replacement state. Metrics, when supplied, only scale the magnitude
// of the ease adjustment; they never change the branch taken and never
// invert interval monotonicity.
func (s *Scheduler) Schedule(state models.ItemMemoryState, wasCorrect bool, responseTimeMs int64, metrics *models.UserPerformanceMetrics) models.ItemMemoryState {
	now := s.now()
	next := state
	next.TotalReviews++
	next.LastReviewedAt = now

	if !wasCorrect {
		next.Streak = 0
		next.EaseFactor = s.clampEase(state.EaseFactor - s.params.MissPenalty)
		next.IntervalDays = s.params.BaseIntervalDays
		next.NextDueAt = now.AddDate(0, 0, next.IntervalDays)
		return next
	}

	next.Streak = state.Streak + 1
	next.EaseFactor = s.clampEase(state.EaseFactor + s.easeReward(next.Streak, responseTimeMs, metrics))
	next.IntervalDays = s.interval(next.Streak, next.EaseFactor)
	next.NextDueAt = now.AddDate(0, 0, next.IntervalDays)
	return next
}

// easeReward sizes the upward ease adjustment for a correct review.
func (s *Scheduler) easeReward(streak int, responseTimeMs int64, metrics *models.UserPerformanceMetrics) float64 {
	reward := 0.0
	if streak >= s.params.StreakBonusAt {
		reward += s.params.StreakBonus
	}

	avg := s.params.NominalResponseMs
	if metrics != nil && metrics.AvgResponseMs > 0 {
		avg = metrics.AvgResponseMs
	}
	ratio := float64(responseTimeMs) / avg
	if ratio <= s.params.FastRatio {
		reward += s.params.FastBonus
	} else if ratio >= s.params.SlowRatio {
		// Slow but correct: keep the streak, skip the speed reward and
		// halve whatever the streak earned.
		reward *= 0.5
	}

	if metrics != nil {
		reward *= retentionScale(metrics.RetentionRate)
	}
	return reward
}

// retentionScale maps a historical retention rate in [0,1] to a reward
// multiplier in [0.5, 1.5].
func retentionScale(rate float64) float64 {
	if rate < 0 {
		rate = 0
	}
	if rate > 1 {
		rate = 1
	}
	return 0.5 + rate
}

// interval grows as base * ease^(streak-1): non-decreasing in streak for a
// fixed ease factor and in ease factor for a fixed streak.
func (s *Scheduler) interval(streak int, ease float64) int {
	days := float64(s.params.BaseIntervalDays) * math.Pow(ease, float64(streak-1))
	rounded := int(math.Round(days))
	if rounded < s.params.BaseIntervalDays {
		rounded = s.params.BaseIntervalDays
	}
	if rounded > s.params.MaxIntervalDays {
		rounded = s.params.MaxIntervalDays
	}
	return rounded
}

func (s *Scheduler) clampEase(ease float64) float64 {
	if ease < s.params.MinEase {
		return s.params.MinEase
	}
	if ease > s.params.MaxEase {
		return s.params.MaxEase
	}
	return ease
}
