package engine

import (
	"fmt"
	"time"

	"assessment-service/internal/adaptive"
	"assessment-service/internal/models"
	"assessment-service/internal/results"
	"assessment-service/internal/selection"

	"github.com/google/uuid"
)

// Submission is one answer handed to the engine by the caller.
type Submission struct {
	ItemID           string                 `json:"item_id"`
	SelectedOptionID string                 `json:"selected_option_id"`
	ResponseTimeMs   int64                  `json:"response_time_ms"`
	Confidence       models.ConfidenceLevel `json:"confidence"`
}

// AnswerFeedback is only populated when the session config asks for
// immediate per-item feedback.
type AnswerFeedback struct {
	IsCorrect       bool   `json:"is_correct"`
	CorrectOptionID string `json:"correct_option_id"`
	Explanation     string `json:"explanation,omitempty"`
}

// AnswerOutcome describes the transition one submission caused.
type AnswerOutcome struct {
	Event     models.AnswerEvent `json:"event"`
	Feedback  *AnswerFeedback    `json:"feedback,omitempty"`
	Completed bool               `json:"completed"`
	Result    *models.QuizResult `json:"result,omitempty"`
	NextItem  *models.AssessableItem `json:"next_item,omitempty"`
	Reason    string             `json:"reason,omitempty"`
}

// Engine is the quiz-session state machine. It performs no I/O; callers load
// the item bank and persist whatever state the engine returns. Distinct
// sessions are independent and may be driven concurrently by the caller.
type Engine struct {
	policy   *adaptive.Policy
	selector *selection.Selector
	now      func() time.Time
}

// NewEngine wires the adaptation policy and the item selector. A nil picker
// selects uniformly at random.
func NewEngine(picker selection.Picker) *Engine {
	return &Engine{
		policy:   adaptive.NewPolicy(nil),
		selector: selection.NewSelector(picker),
		now:      time.Now,
	}
}

// StartSession validates the config against the bank and returns a new
// in-progress session with its first item selected. Validation failures
// never produce a partially-initialized session.
func (e *Engine) StartSession(userID, bankID string, bank []models.AssessableItem, config models.SessionConfig) (*models.QuizSession, *models.AssessableItem, error) {
	if err := config.Validate(); err != nil {
		return nil, nil, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	if !selection.HasEligible(bank, config.InitialTier, nil) {
		return nil, nil, fmt.Errorf("%w: bank %s has no items at tier %s", ErrInvalidConfig, bankID, config.InitialTier)
	}

	first, _ := e.selector.SelectNext(bank, config.InitialTier, nil)

	session := &models.QuizSession{
		ID:           uuid.NewString(),
		UserID:       userID,
		BankID:       bankID,
		SessionToken: uuid.NewString(),
		Config:       config,
		CurrentTier:  config.InitialTier,
		Status:       models.StatusInProgress,
		StartTime:    e.now(),
		Answers:      []models.AnswerEvent{},
		AdaptiveSequence: []models.AdaptiveStep{{
			ItemID: first.ID,
			Tier:   first.Tier,
			Reason: "session start at configured initial tier",
		}},
		CurrentItemID:        first.ID,
		TimeRemainingSeconds: config.TimeLimitSeconds,
	}
	return session, first, nil
}

// SubmitAnswer applies one answer to an in-progress session: score, append,
// adapt, select. Rejections leave the session untouched.
func (e *Engine) SubmitAnswer(session *models.QuizSession, bank []models.AssessableItem, sub Submission) (*AnswerOutcome, error) {
	if !session.IsActive() {
		return nil, ErrSessionNotActive
	}
	if sub.ItemID == "" || sub.ItemID != session.CurrentItemID {
		return nil, fmt.Errorf("%w: got %q, current is %q", ErrStaleSubmission, sub.ItemID, session.CurrentItemID)
	}

	item := findItem(bank, sub.ItemID)
	if item == nil {
		return nil, fmt.Errorf("%w: item %q not in bank %s", ErrStaleSubmission, sub.ItemID, session.BankID)
	}

	responseTime := sub.ResponseTimeMs
	if responseTime < 0 {
		responseTime = 0
	}
	event := models.AnswerEvent{
		ItemID:           item.ID,
		SelectedOptionID: sub.SelectedOptionID,
		IsCorrect:        item.IsCorrectOption(sub.SelectedOptionID),
		Tier:             session.CurrentTier,
		ResponseTimeMs:   responseTime,
		Confidence:       sub.Confidence,
		AnsweredAt:       e.now(),
	}
	session.Answers = append(session.Answers, event)
	e.updateTimeRemaining(session)

	outcome := &AnswerOutcome{Event: event}
	if session.Config.ShowFeedback {
		outcome.Feedback = &AnswerFeedback{
			IsCorrect:       event.IsCorrect,
			CorrectOptionID: item.CorrectOptionID,
			Explanation:     item.Explanation,
		}
	}

	if len(session.Answers) >= session.Config.MaxQuestions {
		outcome.Completed = true
		outcome.Result = e.complete(session)
		outcome.Reason = "maximum question count reached"
		return outcome, nil
	}

	decision := e.policy.NextTier(session.Answers, session.CurrentTier, session.Config.Strategy)
	used := session.UsedItemIDs()

	next, ok := e.selector.SelectNext(bank, decision.Tier, used)
	reason := decision.Reason
	if !ok {
		next, reason = e.fallbackSelect(bank, decision.Tier, used)
	}
	if next == nil {
		// Every fallback tier is exhausted: a normal early completion.
		outcome.Completed = true
		outcome.Result = e.complete(session)
		outcome.Reason = "item bank exhausted at every tier"
		return outcome, nil
	}

	session.CurrentTier = next.Tier
	session.CurrentItemID = next.ID
	session.AdaptiveSequence = append(session.AdaptiveSequence, models.AdaptiveStep{
		ItemID: next.ID,
		Tier:   next.Tier,
		Reason: reason,
	})
	outcome.NextItem = next
	outcome.Reason = reason
	return outcome, nil
}

// Complete terminates an in-progress session from its partial answer log.
// Used by callers that enforce a time limit or an explicit submit.
func (e *Engine) Complete(session *models.QuizSession) (*models.QuizResult, error) {
	if !session.IsActive() {
		return nil, ErrSessionNotActive
	}
	return e.complete(session), nil
}

// Abandon marks the session's caller-cancelled terminal state. No result is
// synthesized.
func (e *Engine) Abandon(session *models.QuizSession) error {
	if !session.IsActive() {
		return ErrSessionNotActive
	}
	session.Status = models.StatusAbandoned
	session.EndTime = e.now()
	session.CurrentItemID = ""
	return nil
}

// fallbackSelect scans the fixed fallback order, skipping the tier that was
// already tried, and returns the first tier with an eligible item.
func (e *Engine) fallbackSelect(bank []models.AssessableItem, tried models.DifficultyTier, used []string) (*models.AssessableItem, string) {
	for _, tier := range selection.FallbackOrder {
		if tier == tried {
			continue
		}
		if item, ok := e.selector.SelectNext(bank, tier, used); ok {
			return item, fmt.Sprintf("no items left at %s, falling back to %s", tried, tier)
		}
	}
	return nil, ""
}

func (e *Engine) complete(session *models.QuizSession) *models.QuizResult {
	session.Status = models.StatusCompleted
	session.EndTime = e.now()
	session.CurrentItemID = ""
	e.updateTimeRemaining(session)
	return results.Synthesize(session)
}

// updateTimeRemaining refreshes the session's time-budget snapshot. The
// engine never enforces the limit; that is the caller's job.
func (e *Engine) updateTimeRemaining(session *models.QuizSession) {
	if session.Config.TimeLimitSeconds <= 0 {
		return
	}
	elapsed := int(e.now().Sub(session.StartTime).Seconds())
	remaining := session.Config.TimeLimitSeconds - elapsed
	if remaining < 0 {
		remaining = 0
	}
	session.TimeRemainingSeconds = remaining
}

func findItem(bank []models.AssessableItem, id string) *models.AssessableItem {
	for i := range bank {
		if bank[i].ID == id {
			return &bank[i]
		}
	}
	return nil
}
