package results

import (
	"testing"
	"time"

	"assessment-service/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sessionWith(answers []models.AnswerEvent, threshold float64) *models.QuizSession {
	return &models.QuizSession{
		ID:      "s-1",
		UserID:  "user-1",
		BankID:  "bank-1",
		Config:  models.SessionConfig{PassingThreshold: threshold, MaxQuestions: len(answers)},
		Answers: answers,
		Status:  models.StatusCompleted,
	}
}

func scored(correct, total int, tier models.DifficultyTier) []models.AnswerEvent {
	answers := make([]models.AnswerEvent, 0, total)
	for i := 0; i < total; i++ {
		answers = append(answers, models.AnswerEvent{
			ItemID:    "item",
			IsCorrect: i < correct,
			Tier:      tier,
		})
	}
	return answers
}

func TestSynthesize_ScoreAndPercentage(t *testing.T) {
	result := Synthesize(sessionWith(scored(7, 10, models.TierIntermediate), 70))

	assert.Equal(t, 7, result.Score)
	assert.Equal(t, 10, result.MaxScore)
	assert.InDelta(t, 70.0, result.ScorePercentage, 1e-9)
	assert.Equal(t, 10, result.TierCounts[models.TierIntermediate])
}

func TestSynthesize_PassBoundaryIsInclusive(t *testing.T) {
	// Exactly at the threshold passes.
	result := Synthesize(sessionWith(scored(7, 10, models.TierIntermediate), 70))
	assert.True(t, result.Passed)

	result = Synthesize(sessionWith(scored(6, 10, models.TierIntermediate), 70))
	assert.False(t, result.Passed)
}

func TestSynthesize_MasteryNeedsEvidenceAtTier(t *testing.T) {
	// A perfect run that never saw an expert or advanced item caps out at
	// intermediate mastery.
	result := Synthesize(sessionWith(scored(10, 10, models.TierBeginner), 70))
	assert.Equal(t, models.TierIntermediate, result.MasteryTier)
	assert.NotEqual(t, models.TierExpert, result.MasteryTier)
}

func TestSynthesize_MasteryTiers(t *testing.T) {
	testCases := []struct {
		name     string
		correct  int
		total    int
		tier     models.DifficultyTier
		expected models.DifficultyTier
	}{
		{"expert score with expert evidence", 9, 10, models.TierExpert, models.TierExpert},
		{"advanced score with advanced evidence", 8, 10, models.TierAdvanced, models.TierAdvanced},
		{"advanced score without advanced evidence", 8, 10, models.TierIntermediate, models.TierIntermediate},
		{"solid score", 7, 10, models.TierIntermediate, models.TierIntermediate},
		{"weak score", 5, 10, models.TierAdvanced, models.TierBeginner},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			result := Synthesize(sessionWith(scored(tc.correct, tc.total, tc.tier), 70))
			assert.Equal(t, tc.expected, result.MasteryTier)
		})
	}
}

func TestSynthesize_Deterministic(t *testing.T) {
	session := sessionWith(scored(6, 9, models.TierAdvanced), 60)
	session.StartTime = time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	session.EndTime = session.StartTime.Add(4 * time.Minute)

	first := Synthesize(session)
	second := Synthesize(session)
	assert.Equal(t, first, second)
	assert.InDelta(t, 240.0, first.CompletionSeconds, 1e-9)
}

func TestSynthesize_CalibrationBuckets(t *testing.T) {
	answers := []models.AnswerEvent{
		{IsCorrect: false, Confidence: models.ConfidenceHigh},   // overconfident
		{IsCorrect: true, Confidence: models.ConfidenceLow},     // underconfident
		{IsCorrect: true, Confidence: models.ConfidenceHigh},    // accurate
		{IsCorrect: false, Confidence: models.ConfidenceMedium}, // accurate
		{IsCorrect: true},                                       // unlabeled, excluded
	}

	result := Synthesize(sessionWith(answers, 50))
	cal := result.Calibration
	require.NotNil(t, cal)

	assert.Equal(t, 4, cal.LabeledAnswers)
	assert.InDelta(t, 25.0, cal.OverconfidentPct, 1e-9)
	assert.InDelta(t, 25.0, cal.UnderconfidentPct, 1e-9)
	assert.InDelta(t, 50.0, cal.AccuratePct, 1e-9)
	assert.InDelta(t, 100.0, cal.OverconfidentPct+cal.UnderconfidentPct+cal.AccuratePct, 1e-9)
}

func TestSynthesize_NoCalibrationWithoutLabels(t *testing.T) {
	result := Synthesize(sessionWith(scored(3, 5, models.TierIntermediate), 50))
	assert.Nil(t, result.Calibration)
}

func TestSynthesize_RecommendationBands(t *testing.T) {
	testCases := []struct {
		name    string
		correct int
		topic   string
	}{
		{"strong run", 9, "advanced-topics"},
		{"solid run", 7, "targeted-practice"},
		{"weak run", 4, "fundamentals-review"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			result := Synthesize(sessionWith(scored(tc.correct, 10, models.TierIntermediate), 70))
			assert.Equal(t, tc.topic, result.NextStepsTopic)
			require.Len(t, result.Recommendations, 1)
			assert.NotEmpty(t, result.Recommendations[0])
		})
	}
}

func TestSynthesize_EmptyAnswerLog(t *testing.T) {
	result := Synthesize(sessionWith(nil, 70))

	assert.Equal(t, 0, result.Score)
	assert.Equal(t, 0, result.MaxScore)
	assert.Zero(t, result.ScorePercentage)
	assert.Equal(t, models.TierBeginner, result.MasteryTier)
	assert.False(t, result.Passed)
}
