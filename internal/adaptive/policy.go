package adaptive

import (
	"fmt"

	"assessment-service/internal/models"
)

// Config holds the tuning knobs for the tier adaptation policy.
type Config struct {
	// WindowSize is how many of the most recent answers are considered.
	WindowSize int
	// MinPriorAnswers is how many answers must precede the latest one before
	// the policy produces a tier change. Below that the signal is too thin
	// and the current tier is kept.
	MinPriorAnswers int
	// RaiseThreshold and LowerThreshold bound the windowed success rate.
	RaiseThreshold float64
	LowerThreshold float64
	// ConfidenceShare is the fraction of labeled answers that must agree
	// before the confidence rule fires.
	ConfidenceShare float64
}

func DefaultConfig() *Config {
	return &Config{
		WindowSize:      3,
		MinPriorAnswers: 2,
		RaiseThreshold:  0.8,
		LowerThreshold:  0.3,
		ConfidenceShare: 0.7,
	}
}

// Decision is the policy's output: the tier the next item should be drawn
// from and a human-readable reason for the session's audit trail.
type Decision struct {
	Tier   models.DifficultyTier
	Reason string
}

// Policy decides difficulty-tier movement from recent answer history. It is
// stateless; every call depends only on its arguments.
type Policy struct {
	config *Config
}

func NewPolicy(config *Config) *Policy {
	if config == nil {
		config = DefaultConfig()
	}
	return &Policy{config: config}
}

// NextTier maps the session's answer history to the tier for the next item.
// Movement is at most one step and clamped to [beginner, expert].
func (p *Policy) NextTier(answers []models.AnswerEvent, current models.DifficultyTier, strategy models.AdaptationStrategy) Decision {
	if len(answers) <= p.config.MinPriorAnswers {
		return Decision{Tier: current, Reason: "insufficient history, tier unchanged"}
	}

	window := answers
	if len(window) > p.config.WindowSize {
		window = window[len(window)-p.config.WindowSize:]
	}

	if strategy == models.StrategyPerformance || strategy == models.StrategyCombined {
		if d, fired := p.performanceDecision(window, current); fired {
			return d
		}
	}
	if strategy == models.StrategyConfidence || strategy == models.StrategyCombined {
		if d, fired := p.confidenceDecision(window, current); fired {
			return d
		}
	}

	return Decision{Tier: current, Reason: "recent performance steady, tier unchanged"}
}

// performanceDecision applies the windowed success-rate rule. Correctness is
// ground truth, so under the combined strategy it always wins over confidence.
func (p *Policy) performanceDecision(window []models.AnswerEvent, current models.DifficultyTier) (Decision, bool) {
	correct := 0
	for _, a := range window {
		if a.IsCorrect {
			correct++
		}
	}
	rate := float64(correct) / float64(len(window))

	if rate >= p.config.RaiseThreshold {
		next := current.NextUp()
		return Decision{
			Tier:   next,
			Reason: fmt.Sprintf("window success rate %.0f%%, raising tier to %s", rate*100, next),
		}, true
	}
	if rate <= p.config.LowerThreshold {
		next := current.NextDown()
		return Decision{
			Tier:   next,
			Reason: fmt.Sprintf("window success rate %.0f%%, lowering tier to %s", rate*100, next),
		}, true
	}
	return Decision{}, false
}

// confidenceDecision applies the self-reported confidence rule over labeled
// answers in the window.
func (p *Policy) confidenceDecision(window []models.AnswerEvent, current models.DifficultyTier) (Decision, bool) {
	labeled, high, low := 0, 0, 0
	for _, a := range window {
		switch a.Confidence {
		case models.ConfidenceHigh:
			labeled++
			high++
		case models.ConfidenceMedium:
			labeled++
		case models.ConfidenceLow:
			labeled++
			low++
		}
	}
	if labeled == 0 {
		return Decision{}, false
	}

	if float64(high)/float64(labeled) >= p.config.ConfidenceShare {
		next := current.NextUp()
		return Decision{
			Tier:   next,
			Reason: fmt.Sprintf("high confidence on %d/%d labeled answers, raising tier to %s", high, labeled, next),
		}, true
	}
	if float64(low)/float64(labeled) >= p.config.ConfidenceShare {
		next := current.NextDown()
		return Decision{
			Tier:   next,
			Reason: fmt.Sprintf("low confidence on %d/%d labeled answers, lowering tier to %s", low, labeled, next),
		}, true
	}
	return Decision{}, false
}
