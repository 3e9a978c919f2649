package service

import (
	"context"
	"fmt"

	"assessment-service/internal/cache"
	"assessment-service/internal/models"
	"assessment-service/internal/repository"

	"github.com/google/uuid"
)

// ItemService manages item-bank content. Banks are immutable from the
// engine's point of view; edits here invalidate the cache so running
// sessions started later see the change.
type ItemService struct {
	Repo  *repository.ItemRepository
	banks *cache.BankCache
}

func NewItemService(repo *repository.ItemRepository, banks *cache.BankCache) *ItemService {
	return &ItemService{Repo: repo, banks: banks}
}

func (s *ItemService) CreateItem(ctx context.Context, item *models.AssessableItem) error {
	if !item.Tier.Valid() {
		return fmt.Errorf("unknown difficulty tier %q", item.Tier)
	}
	if item.BankID == "" {
		return fmt.Errorf("item requires a bank id")
	}
	if !hasOption(item.Options, item.CorrectOptionID) {
		return fmt.Errorf("correct option %q is not among the item's options", item.CorrectOptionID)
	}
	if item.ID == "" {
		item.ID = uuid.NewString()
	}
	if err := s.Repo.Insert(ctx, item); err != nil {
		return err
	}
	s.banks.Invalidate(ctx, item.BankID)
	return nil
}

func (s *ItemService) GetItem(ctx context.Context, id string) (*models.AssessableItem, error) {
	return s.Repo.FindByID(ctx, id)
}

func (s *ItemService) ListBankItems(ctx context.Context, bankID string) ([]models.AssessableItem, error) {
	return s.Repo.FindByBankID(ctx, bankID)
}

func (s *ItemService) DeleteItem(ctx context.Context, id string) error {
	item, err := s.Repo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.Repo.Delete(ctx, id); err != nil {
		return err
	}
	s.banks.Invalidate(ctx, item.BankID)
	return nil
}

func hasOption(options []models.Option, id string) bool {
	for _, o := range options {
		if o.ID == id {
			return true
		}
	}
	return false
}
