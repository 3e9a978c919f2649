package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"assessment-service/internal/cache"
	"assessment-service/internal/engine"
	"assessment-service/internal/models"
	"assessment-service/internal/repository"
)

// ErrNotSessionOwner rejects calls against a session the user does not own.
var ErrNotSessionOwner = errors.New("session belongs to a different user")

// SessionService drives the assessment engine and persists whatever state it
// returns. The engine never touches storage itself.
type SessionService struct {
	Repo       *repository.SessionRepository
	ItemRepo   *repository.ItemRepository
	ResultRepo *repository.ResultRepository
	eng        *engine.Engine
	active     engine.SessionStore
	banks      *cache.BankCache
}

func NewSessionService(
	repo *repository.SessionRepository,
	itemRepo *repository.ItemRepository,
	resultRepo *repository.ResultRepository,
	banks *cache.BankCache,
) *SessionService {
	return &SessionService{
		Repo:       repo,
		ItemRepo:   itemRepo,
		ResultRepo: resultRepo,
		eng:        engine.NewEngine(nil),
		active:     engine.NewMemoryStore(),
		banks:      banks,
	}
}

// loadBank resolves a bank through the cache, falling back to Mongo.
func (s *SessionService) loadBank(ctx context.Context, bankID string) ([]models.AssessableItem, error) {
	if items, ok := s.banks.GetBank(ctx, bankID); ok {
		return items, nil
	}
	items, err := s.ItemRepo.FindByBankID(ctx, bankID)
	if err != nil {
		return nil, fmt.Errorf("failed to load bank %s: %w", bankID, err)
	}
	s.banks.SetBank(ctx, bankID, items)
	return items, nil
}

func (s *SessionService) StartSession(ctx context.Context, userID, bankID string, config models.SessionConfig) (*models.QuizSession, *models.AssessableItem, error) {
	bank, err := s.loadBank(ctx, bankID)
	if err != nil {
		return nil, nil, err
	}

	session, first, err := s.eng.StartSession(userID, bankID, bank, config)
	if err != nil {
		return nil, nil, err
	}
	if err := s.Repo.Create(ctx, session); err != nil {
		return nil, nil, err
	}
	s.active.Put(session)
	return session, first, nil
}

// SubmitAnswer applies one answer and persists the transition. When the
// session carries a time limit and the budget is gone, the session is
// completed from the partial log instead.
func (s *SessionService) SubmitAnswer(ctx context.Context, sessionID, userID string, sub engine.Submission) (*engine.AnswerOutcome, error) {
	session, err := s.loadSession(ctx, sessionID, userID)
	if err != nil {
		return nil, err
	}

	if expired(session) {
		result, err := s.eng.Complete(session)
		if err != nil {
			return nil, err
		}
		if err := s.persistCompletion(ctx, session, result); err != nil {
			return nil, err
		}
		return &engine.AnswerOutcome{
			Completed: true,
			Result:    result,
			Reason:    "time limit exhausted",
		}, nil
	}

	bank, err := s.loadBank(ctx, session.BankID)
	if err != nil {
		return nil, err
	}
	outcome, err := s.eng.SubmitAnswer(session, bank, sub)
	if err != nil {
		return nil, err
	}

	if outcome.Completed {
		if err := s.persistCompletion(ctx, session, outcome.Result); err != nil {
			return nil, err
		}
	} else {
		if err := s.Repo.Replace(ctx, session); err != nil {
			return nil, err
		}
		s.active.Put(session)
	}
	return outcome, nil
}

// CompleteSession terminates an in-progress session from its partial log,
// the explicit-submit path.
func (s *SessionService) CompleteSession(ctx context.Context, sessionID, userID string) (*models.QuizResult, error) {
	session, err := s.loadSession(ctx, sessionID, userID)
	if err != nil {
		return nil, err
	}
	result, err := s.eng.Complete(session)
	if err != nil {
		return nil, err
	}
	if err := s.persistCompletion(ctx, session, result); err != nil {
		return nil, err
	}
	return result, nil
}

func (s *SessionService) AbandonSession(ctx context.Context, sessionID, userID string) error {
	session, err := s.loadSession(ctx, sessionID, userID)
	if err != nil {
		return err
	}
	if err := s.eng.Abandon(session); err != nil {
		return err
	}
	if err := s.Repo.Replace(ctx, session); err != nil {
		return err
	}
	s.active.Delete(session.ID)
	return nil
}

func (s *SessionService) GetSession(ctx context.Context, sessionID string) (*models.QuizSession, error) {
	if session, ok := s.active.Get(sessionID); ok {
		return session, nil
	}
	return s.Repo.FindByID(ctx, sessionID)
}

func (s *SessionService) GetResult(ctx context.Context, sessionID string) (*models.QuizResult, error) {
	return s.ResultRepo.FindBySessionID(ctx, sessionID)
}

func (s *SessionService) ListUserSessions(ctx context.Context, userID string, limit int64) ([]models.QuizSession, error) {
	return s.Repo.FindByUser(ctx, userID, limit)
}

func (s *SessionService) loadSession(ctx context.Context, sessionID, userID string) (*models.QuizSession, error) {
	session, ok := s.active.Get(sessionID)
	if !ok {
		var err error
		session, err = s.Repo.FindByID(ctx, sessionID)
		if err != nil {
			return nil, err
		}
	}
	if session.UserID != userID {
		return nil, ErrNotSessionOwner
	}
	return session, nil
}

func (s *SessionService) persistCompletion(ctx context.Context, session *models.QuizSession, result *models.QuizResult) error {
	if err := s.Repo.Replace(ctx, session); err != nil {
		return err
	}
	result.CreatedAt = time.Now()
	if err := s.ResultRepo.Create(ctx, result); err != nil {
		return err
	}
	s.active.Delete(session.ID)
	return nil
}

func expired(session *models.QuizSession) bool {
	limit := session.Config.TimeLimitSeconds
	return limit > 0 && time.Since(session.StartTime) > time.Duration(limit)*time.Second
}
