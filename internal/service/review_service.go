package service

import (
	"context"
	"time"

	"assessment-service/internal/models"
	"assessment-service/internal/repository"
	"assessment-service/internal/scheduler"

	"go.mongodb.org/mongo-driver/mongo"
)

// ReviewService runs the spaced-repetition scheduler over persisted memory
// states. Serialization of concurrent reviews of one (user, item) pair is
// handled by the repository's compare-and-swap, not by the scheduler.
type ReviewService struct {
	Repo  *repository.ReviewRepository
	sched *scheduler.Scheduler
}

func NewReviewService(repo *repository.ReviewRepository) *ReviewService {
	return &ReviewService{
		Repo:  repo,
		sched: scheduler.NewScheduler(nil),
	}
}

// SubmitReview records one review of an item and returns the replacement
// memory state.
func (s *ReviewService) SubmitReview(ctx context.Context, userID, itemID string, wasCorrect bool, responseTimeMs int64, metrics *models.UserPerformanceMetrics) (*models.ItemMemoryState, error) {
	existing, err := s.Repo.FindByUserAndItem(ctx, userID, itemID)
	if err == mongo.ErrNoDocuments {
		fresh := models.NewItemMemoryState(userID, itemID)
		next := s.sched.Schedule(fresh, wasCorrect, responseTimeMs, metrics)
		if err := s.Repo.Insert(ctx, &next); err != nil {
			return nil, err
		}
		return &next, nil
	}
	if err != nil {
		return nil, err
	}

	next := s.sched.Schedule(*existing, wasCorrect, responseTimeMs, metrics)
	next.ID = existing.ID
	if err := s.Repo.CompareAndSwap(ctx, &next, existing.LastReviewedAt); err != nil {
		return nil, err
	}
	return &next, nil
}

// DueItems lists memory states due for review now, most overdue first.
func (s *ReviewService) DueItems(ctx context.Context, userID string, limit int64) ([]models.ItemMemoryState, error) {
	return s.Repo.FindDue(ctx, userID, time.Now(), limit)
}
