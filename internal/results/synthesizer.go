package results

import "assessment-service/internal/models"

// Recommendation bands keyed by score percentage.
const (
	bandSolid  = 70.0
	bandStrong = 85.0
)

// Synthesize derives the immutable result snapshot from a completed
// session's answer log. It is deterministic: the same session state always
// produces the same result.
func Synthesize(session *models.QuizSession) *models.QuizResult {
	score := 0
	tierCounts := make(map[models.DifficultyTier]int)
	for _, a := range session.Answers {
		if a.IsCorrect {
			score++
		}
		tierCounts[a.Tier]++
	}

	maxScore := len(session.Answers)
	pct := 0.0
	if maxScore > 0 {
		pct = float64(score) / float64(maxScore) * 100
	}

	recommendation, topic := recommend(pct)

	result := &models.QuizResult{
		SessionID:       session.ID,
		UserID:          session.UserID,
		BankID:          session.BankID,
		Score:           score,
		MaxScore:        maxScore,
		ScorePercentage: pct,
		TierCounts:      tierCounts,
		MasteryTier:     masteryTier(pct, tierCounts),
		Calibration:     calibration(session.Answers),
		Recommendations: []string{recommendation},
		NextStepsTopic:  topic,
		Passed:          pct >= session.Config.PassingThreshold,
	}
	if !session.EndTime.IsZero() {
		result.CompletionSeconds = session.EndTime.Sub(session.StartTime).Seconds()
	}
	return result
}

// masteryTier requires both the score bar and evidence the user was actually
// tested at that tier. A perfect run over beginner items stays beginner.
func masteryTier(pct float64, tierCounts map[models.DifficultyTier]int) models.DifficultyTier {
	switch {
	case pct >= 90 && tierCounts[models.TierExpert] > 0:
		return models.TierExpert
	case pct >= 80 && tierCounts[models.TierAdvanced] > 0:
		return models.TierAdvanced
	case pct >= 70:
		return models.TierIntermediate
	default:
		return models.TierBeginner
	}
}

// calibration buckets every labeled answer into exactly one of
// overconfident, underconfident, or accurate. Nil when nothing is labeled.
func calibration(answers []models.AnswerEvent) *models.CalibrationBreakdown {
	labeled, over, under := 0, 0, 0
	for _, a := range answers {
		switch a.Confidence {
		case models.ConfidenceNone:
			continue
		case models.ConfidenceHigh:
			if !a.IsCorrect {
				over++
			}
		case models.ConfidenceLow:
			if a.IsCorrect {
				under++
			}
		}
		labeled++
	}
	if labeled == 0 {
		return nil
	}

	total := float64(labeled)
	return &models.CalibrationBreakdown{
		LabeledAnswers:    labeled,
		OverconfidentPct:  float64(over) / total * 100,
		UnderconfidentPct: float64(under) / total * 100,
		AccuratePct:       float64(labeled-over-under) / total * 100,
	}
}

func recommend(pct float64) (string, string) {
	switch {
	case pct >= bandStrong:
		return "Excellent command of the material. Move on to more advanced topics.", "advanced-topics"
	case pct >= bandSolid:
		return "Solid performance. Targeted practice will close the remaining gaps.", "targeted-practice"
	default:
		return "Review the fundamentals before attempting this assessment again.", "fundamentals-review"
	}
}
