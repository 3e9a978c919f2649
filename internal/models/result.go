package models

import "time"

// CalibrationBreakdown reports how well self-reported confidence matched
// actual correctness. Shares are percentages of labeled answers.
type CalibrationBreakdown struct {
	LabeledAnswers    int     `bson:"labeled_answers" json:"labeled_answers"`
	OverconfidentPct  float64 `bson:"overconfident_pct" json:"overconfident_pct"`
	UnderconfidentPct float64 `bson:"underconfident_pct" json:"underconfident_pct"`
	AccuratePct       float64 `bson:"accurate_pct" json:"accurate_pct"`
}

// QuizResult is the immutable snapshot synthesized once at session completion.
type QuizResult struct {
	ID                string                 `bson:"_id,omitempty" json:"id"`
	SessionID         string                 `bson:"session_id" json:"session_id"`
	UserID            string                 `bson:"user_id" json:"user_id"`
	BankID            string                 `bson:"bank_id" json:"bank_id"`
	Score             int                    `bson:"score" json:"score"`
	MaxScore          int                    `bson:"max_score" json:"max_score"`
	ScorePercentage   float64                `bson:"score_percentage" json:"score_percentage"`
	TierCounts        map[DifficultyTier]int `bson:"tier_counts" json:"tier_counts"`
	MasteryTier       DifficultyTier         `bson:"mastery_tier" json:"mastery_tier"`
	Calibration       *CalibrationBreakdown  `bson:"calibration,omitempty" json:"calibration,omitempty"`
	Recommendations   []string               `bson:"recommendations" json:"recommendations"`
	NextStepsTopic    string                 `bson:"next_steps_topic" json:"next_steps_topic"`
	Passed            bool                   `bson:"passed" json:"passed"`
	CompletionSeconds float64                `bson:"completion_seconds" json:"completion_seconds"`
	CreatedAt         time.Time              `bson:"created_at,omitempty" json:"created_at,omitempty"`
}
