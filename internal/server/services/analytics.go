package services

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/planwise/planwise/internal/common"
	"github.com/planwise/planwise/internal/dbx"
	"github.com/planwise/planwise/internal/server/models"
	"github.com/planwise/planwise/internal/server/repositories/repomanager"
)

// AnalyticsService reads the recorded action stream and derives points from
// it. Actions are written by TaskService; this service only aggregates.
type AnalyticsService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
}

func NewAnalyticsService(db *sql.DB, m repomanager.RepositoryManager) *AnalyticsService {
	return &AnalyticsService{db: db, repomanager: m}
}

// CompletedSince counts the user's check actions at or after the cutoff.
func (s *AnalyticsService) CompletedSince(ctx context.Context, userID string, cutoff time.Time) (int, error) {
	n, err := s.repomanager.Actions(s.db).CountByTypeSince(ctx, userID, models.ActionCheck, cutoff)
	if err != nil {
		return 0, common.ErrInternal
	}
	return n, nil
}

// SummarizePoints awards one point for every action in [from, to) that has
// none yet, in a single transaction. Safe to re-run over an overlapping
// window: already scored actions are not returned by the repository, and the
// unique constraint on points backstops a concurrent run.
func (s *AnalyticsService) SummarizePoints(ctx context.Context, from, to time.Time) (int, error) {
	var awarded int

	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.repomanager.Actions(tx)

		unscored, err := repo.ListUnscored(ctx, from, to)
		if err != nil {
			return fmt.Errorf("error listing unscored actions: %w", err)
		}

		for _, a := range unscored {
			err := repo.CreatePoint(ctx, &models.Point{
				ActionID: a.ID,
				UserID:   a.UserID,
				Value:    1,
			})
			if err != nil {
				return fmt.Errorf("error creating point for action %d: %w", a.ID, err)
			}
			awarded++
		}

		return nil
	})

	if err != nil {
		return 0, common.ErrInternal
	}

	return awarded, nil
}
