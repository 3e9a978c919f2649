package models

import "time"

const DefaultEaseFactor = 2.5

// ItemMemoryState is the per (user, item) spaced-repetition state. It is
// replaced wholesale by the scheduler on every review submission.
type ItemMemoryState struct {
	ID             string    `bson:"_id,omitempty" json:"id"`
	UserID         string    `bson:"user_id" json:"user_id"`
	ItemID         string    `bson:"item_id" json:"item_id"`
	EaseFactor     float64   `bson:"ease_factor" json:"ease_factor"`
	Streak         int       `bson:"streak" json:"streak"`
	IntervalDays   int       `bson:"interval_days" json:"interval_days"`
	TotalReviews   int       `bson:"total_reviews" json:"total_reviews"`
	LastReviewedAt time.Time `bson:"last_reviewed_at" json:"last_reviewed_at"`
	NextDueAt      time.Time `bson:"next_due_at" json:"next_due_at"`
}

// NewItemMemoryState returns the state for an item never reviewed before.
func NewItemMemoryState(userID, itemID string) ItemMemoryState {
	return ItemMemoryState{
		UserID:     userID,
		ItemID:     itemID,
		EaseFactor: DefaultEaseFactor,
	}
}

// UserPerformanceMetrics is a read-only rolling snapshot the caller may hand
// to the scheduler. The scheduler never mutates it.
type UserPerformanceMetrics struct {
	AvgResponseMs float64 `bson:"avg_response_ms" json:"avg_response_ms"`
	RetentionRate float64 `bson:"retention_rate" json:"retention_rate"`
	TotalReviews  int     `bson:"total_reviews" json:"total_reviews"`
	DayStreak     int     `bson:"day_streak" json:"day_streak"`
}
