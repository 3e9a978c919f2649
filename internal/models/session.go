package models

import (
	"fmt"
	"time"
)

// AdaptationStrategy selects which signals drive tier changes.
type AdaptationStrategy string

const (
	StrategyPerformance AdaptationStrategy = "performance"
	StrategyConfidence  AdaptationStrategy = "confidence"
	StrategyCombined    AdaptationStrategy = "combined"
)

func (s AdaptationStrategy) Valid() bool {
	switch s {
	case StrategyPerformance, StrategyConfidence, StrategyCombined:
		return true
	}
	return false
}

// ConfidenceLevel is an optional self-reported label on an answer.
type ConfidenceLevel string

const (
	ConfidenceNone   ConfidenceLevel = ""
	ConfidenceLow    ConfidenceLevel = "low"
	ConfidenceMedium ConfidenceLevel = "medium"
	ConfidenceHigh   ConfidenceLevel = "high"
)

type SessionStatus string

const (
	StatusInProgress SessionStatus = "in_progress"
	StatusCompleted  SessionStatus = "completed"
	StatusAbandoned  SessionStatus = "abandoned"
)

// SessionConfig is supplied at session creation and never changes afterwards.
type SessionConfig struct {
	InitialTier      DifficultyTier     `bson:"initial_tier" json:"initial_tier"`
	Strategy         AdaptationStrategy `bson:"strategy" json:"strategy"`
	PassingThreshold float64            `bson:"passing_threshold" json:"passing_threshold"`
	MaxQuestions     int                `bson:"max_questions" json:"max_questions"`
	TimeLimitSeconds int                `bson:"time_limit_seconds" json:"time_limit_seconds"`
	ShowFeedback     bool               `bson:"show_feedback" json:"show_feedback"`
}

func (c *SessionConfig) Validate() error {
	if c.MaxQuestions <= 0 {
		return fmt.Errorf("max_questions must be positive, got %d", c.MaxQuestions)
	}
	if !c.InitialTier.Valid() {
		return fmt.Errorf("unknown initial tier %q", c.InitialTier)
	}
	if !c.Strategy.Valid() {
		return fmt.Errorf("unknown adaptation strategy %q", c.Strategy)
	}
	if c.PassingThreshold < 0 || c.PassingThreshold > 100 {
		return fmt.Errorf("passing_threshold must be within [0,100], got %v", c.PassingThreshold)
	}
	if c.TimeLimitSeconds < 0 {
		return fmt.Errorf("time_limit_seconds must not be negative, got %d", c.TimeLimitSeconds)
	}
	return nil
}

// AnswerEvent records one scored submission. Append-only.
type AnswerEvent struct {
	ItemID           string          `bson:"item_id" json:"item_id"`
	SelectedOptionID string          `bson:"selected_option_id" json:"selected_option_id"`
	IsCorrect        bool            `bson:"is_correct" json:"is_correct"`
	Tier             DifficultyTier  `bson:"tier" json:"tier"`
	ResponseTimeMs   int64           `bson:"response_time_ms" json:"response_time_ms"`
	Confidence       ConfidenceLevel `bson:"confidence,omitempty" json:"confidence,omitempty"`
	AnsweredAt       time.Time       `bson:"answered_at" json:"answered_at"`
}

// AdaptiveStep is one entry of the session's selection audit trail.
type AdaptiveStep struct {
	ItemID string         `bson:"item_id" json:"item_id"`
	Tier   DifficultyTier `bson:"tier" json:"tier"`
	Reason string         `bson:"reason" json:"reason"`
}

type QuizSession struct {
	ID                   string         `bson:"_id,omitempty" json:"id"`
	UserID               string         `bson:"user_id" json:"user_id"`
	BankID               string         `bson:"bank_id" json:"bank_id"`
	SessionToken         string         `bson:"session_token" json:"session_token"`
	Config               SessionConfig  `bson:"config" json:"config"`
	CurrentTier          DifficultyTier `bson:"current_tier" json:"current_tier"`
	CurrentItemID        string         `bson:"current_item_id" json:"current_item_id"`
	Answers              []AnswerEvent  `bson:"answers" json:"answers"`
	AdaptiveSequence     []AdaptiveStep `bson:"adaptive_sequence" json:"adaptive_sequence"`
	Status               SessionStatus  `bson:"status" json:"status"`
	StartTime            time.Time      `bson:"start_time" json:"start_time"`
	EndTime              time.Time      `bson:"end_time,omitempty" json:"end_time,omitempty"`
	TimeRemainingSeconds int            `bson:"time_remaining_seconds" json:"time_remaining_seconds"`
}

func (s *QuizSession) IsActive() bool {
	return s.Status == StatusInProgress
}

// UsedItemIDs returns every item id the session has presented so far.
func (s *QuizSession) UsedItemIDs() []string {
	ids := make([]string, 0, len(s.AdaptiveSequence))
	for _, step := range s.AdaptiveSequence {
		ids = append(ids, step.ItemID)
	}
	return ids
}
