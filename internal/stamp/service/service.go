package service

import (
	"context"
	"fmt"

	"github.com/verygoodisland/backend/internal/common/logger"
	"github.com/verygoodisland/backend/internal/observability/metrics"
	"github.com/verygoodisland/backend/internal/stamp/domain"
	"github.com/verygoodisland/backend/internal/stamp/repository"
)

// Issuer grants reward stamps to an account. The user service depends on
// this interface only; it never sees the stamp storage.
type Issuer interface {
	Grant(ctx context.Context, userID int64, name string, count int) error
}

type StampService struct {
	repo repository.Repository
	log  *logger.Logger
}

func NewStampService(repo repository.Repository, log *logger.Logger) *StampService {
	return &StampService{
		repo: repo,
		log:  log,
	}
}

func (s *StampService) Grant(ctx context.Context, userID int64, name string, count int) error {
	if count <= 0 {
		return nil
	}

	if err := s.repo.InsertBatch(ctx, userID, name, count); err != nil {
		s.log.WithFields(ctx, logger.Fields{
			"user_id": userID,
			"stamp":   name,
			"count":   count,
			"action":  "stamp_grant_failed",
		}).Errorf("stamp grant failed: %v", err)
		return fmt.Errorf("failed to grant stamps: %w", err)
	}

	metrics.StarterStampsIssuedTotal.Add(float64(count))
	s.log.WithFields(ctx, logger.Fields{
		"user_id": userID,
		"stamp":   name,
		"count":   count,
		"action":  "stamps_granted",
	}).Info("stamps granted")
	return nil
}

func (s *StampService) ListByUser(ctx context.Context, userID int64) ([]domain.Stamp, error) {
	stamps, err := s.repo.ListByUser(ctx, userID)
	if err != nil {
		s.log.WithFields(ctx, logger.Fields{
			"user_id": userID,
			"action":  "stamp_list_failed",
		}).Errorf("stamp list failed: %v", err)
		return nil, err
	}
	return stamps, nil
}
