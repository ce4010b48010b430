package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/planwise/planwise/internal/common"
	"github.com/planwise/planwise/internal/dbx"
	"github.com/planwise/planwise/internal/server/models"
	"github.com/planwise/planwise/internal/server/repositories/repomanager"
)

// NewTag is the input for creating a tag.
type NewTag struct {
	Name    string
	Color   string
	ClassID *int64
}

// TagPatch is a partial tag edit. A nil field means "leave unchanged"; a
// non-nil field is applied even when it carries a zero value, so a client can
// set an empty color or move a tag to position 0.
type TagPatch struct {
	Name    *string
	Color   *string
	ClassID *int64
	Order   *int
}

// TagService owns tag lifecycle: creation with order assignment, partial
// edits, and soft deletion with task repointing. Every multi-step mutation
// runs inside a single transaction.
type TagService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
}

func NewTagService(db *sql.DB, m repomanager.RepositoryManager) *TagService {
	return &TagService{db: db, repomanager: m}
}

// Create inserts a tag at the end of the user's sort order. Reading the
// current maximum and inserting happen in one transaction, so two concurrent
// creates cannot claim the same position.
func (s *TagService) Create(ctx context.Context, userID string, in NewTag) (*models.Tag, error) {
	if in.Name == "" {
		return nil, common.ErrInvalidArgument
	}

	var created *models.Tag

	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.repomanager.Tags(tx)

		ord, err := repo.NextOrder(ctx, userID)
		if err != nil {
			return fmt.Errorf("error getting next order: %w", err)
		}

		created, err = repo.Create(ctx, &models.Tag{
			UserID:  userID,
			ClassID: in.ClassID,
			Name:    in.Name,
			Color:   in.Color,
			Order:   ord,
		})
		if err != nil {
			return fmt.Errorf("error creating tag: %w", err)
		}

		return nil
	})

	if err != nil {
		return nil, common.ErrInternal
	}

	return created, nil
}

// Edit applies a partial update to an owned tag and returns the updated row.
func (s *TagService) Edit(ctx context.Context, userID string, tagID int64, patch TagPatch) (*models.Tag, error) {
	var updated *models.Tag

	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.repomanager.Tags(tx)

		tag, err := repo.FindOwned(ctx, tagID, userID)
		if err != nil {
			return err
		}

		if patch.Name != nil {
			tag.Name = *patch.Name
		}
		if patch.Color != nil {
			tag.Color = *patch.Color
		}
		if patch.ClassID != nil {
			tag.ClassID = patch.ClassID
		}
		if patch.Order != nil {
			tag.Order = *patch.Order
		}

		if err := repo.Update(ctx, tag); err != nil {
			return fmt.Errorf("error updating tag: %w", err)
		}

		updated = tag
		return nil
	})

	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, common.ErrNotFound
		}
		return nil, common.ErrInternal
	}

	return updated, nil
}

// Delete soft-deletes an owned tag and repoints every task that referenced it
// to the no-tag sentinel, in one transaction. Tasks are never deleted here.
func (s *TagService) Delete(ctx context.Context, userID string, tagID int64) error {
	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		if err := s.repomanager.Tags(tx).MarkDeleted(ctx, tagID, userID); err != nil {
			return err
		}

		if err := s.repomanager.Tasks(tx).RepointTag(ctx, tagID, userID); err != nil {
			return fmt.Errorf("error repointing tasks: %w", err)
		}

		return nil
	})

	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return common.ErrNotFound
		}
		return common.ErrInternal
	}

	return nil
}
