package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/planwise/planwise/internal/common"
	"github.com/planwise/planwise/internal/dbx"
	"github.com/planwise/planwise/internal/server/models"
	"github.com/planwise/planwise/internal/server/repositories/repomanager"
)

// NewSubTask is a nested subtask in a task creation request. Nil dates
// inherit the parent's window.
type NewSubTask struct {
	Content   string
	StartDate *time.Time
	EndDate   *time.Time
	Completed bool
	InFocus   bool
}

// NewTask is the input for creating a task. A nil TagID means the no-tag
// sentinel; Subtasks are created alongside the parent, inheriting its tag.
type NewTask struct {
	Content      string
	StartDate    time.Time
	EndDate      time.Time
	TagID        *int64
	ParentTaskID *int64
	Completed    bool
	InFocus      bool
	Subtasks     []NewSubTask
}

// TaskPatch is a partial task edit. A nil field means "leave unchanged"; a
// non-nil field is applied even when it carries a zero value, so completed
// can be flipped back to false and a task can move to position 0.
type TaskPatch struct {
	Content      *string
	StartDate    *time.Time
	EndDate      *time.Time
	TagID        *int64
	ParentTaskID *int64
	Order        *int
	Completed    *bool
	InFocus      *bool
}

// TaskEdit pairs a task id with its patch for batch editing.
type TaskEdit struct {
	ID    int64
	Patch TaskPatch
}

// CreatedTask is a created parent task together with its created subtasks.
type CreatedTask struct {
	Task     *models.Task
	Subtasks []*models.Task
}

// TaskService owns task lifecycle: creation with order assignment, partial
// edits, cascading soft deletion, and the batch variants of each. Task
// mutations also record analytics actions in the same transaction.
type TaskService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
}

func NewTaskService(db *sql.DB, m repomanager.RepositoryManager) *TaskService {
	return &TaskService{db: db, repomanager: m}
}

// Create inserts a task and its nested subtasks in one transaction. The
// parent takes the next free position in the user's sort order and each
// subtask takes the following ones. Subtasks inherit the parent's tag, and
// its dates when their own are absent.
func (s *TaskService) Create(ctx context.Context, userID string, in NewTask) (*CreatedTask, error) {
	if in.Content == "" || in.StartDate.IsZero() || in.EndDate.IsZero() {
		return nil, common.ErrInvalidArgument
	}

	var created *CreatedTask

	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		var err error
		created, err = s.createTree(ctx, tx, userID, in)
		return err
	})

	if err != nil {
		return nil, common.ErrInternal
	}

	return created, nil
}

// BatchCreate inserts several tasks in one transaction, assigning them
// consecutive positions. Either all of them are created or none.
func (s *TaskService) BatchCreate(ctx context.Context, userID string, in []NewTask) ([]*CreatedTask, error) {
	for _, t := range in {
		if t.Content == "" || t.StartDate.IsZero() || t.EndDate.IsZero() {
			return nil, common.ErrInvalidArgument
		}
	}

	created := make([]*CreatedTask, 0, len(in))

	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		for _, t := range in {
			c, err := s.createTree(ctx, tx, userID, t)
			if err != nil {
				return err
			}
			created = append(created, c)
		}
		return nil
	})

	if err != nil {
		return nil, common.ErrInternal
	}

	return created, nil
}

func (s *TaskService) createTree(ctx context.Context, tx dbx.DBTX, userID string, in NewTask) (*CreatedTask, error) {
	repo := s.repomanager.Tasks(tx)

	ord, err := repo.NextOrder(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("error getting next order: %w", err)
	}

	tagID := models.NoTagID
	if in.TagID != nil {
		tagID = *in.TagID
	}

	parent, err := repo.Create(ctx, &models.Task{
		UserID:       userID,
		Content:      in.Content,
		StartDate:    in.StartDate,
		EndDate:      in.EndDate,
		TagID:        tagID,
		ParentTaskID: in.ParentTaskID,
		Order:        ord,
		Completed:    in.Completed,
		InFocus:      in.InFocus,
	})
	if err != nil {
		return nil, fmt.Errorf("error creating task: %w", err)
	}

	if err := s.recordAction(ctx, tx, userID, models.ActionAdd, parent.ID); err != nil {
		return nil, err
	}

	created := &CreatedTask{Task: parent}

	for i, st := range in.Subtasks {
		start := parent.StartDate
		if st.StartDate != nil {
			start = *st.StartDate
		}
		end := parent.EndDate
		if st.EndDate != nil {
			end = *st.EndDate
		}

		sub, err := repo.Create(ctx, &models.Task{
			UserID:       userID,
			Content:      st.Content,
			StartDate:    start,
			EndDate:      end,
			TagID:        parent.TagID,
			ParentTaskID: &parent.ID,
			Order:        ord + 1 + i,
			Completed:    st.Completed,
			InFocus:      st.InFocus,
		})
		if err != nil {
			return nil, fmt.Errorf("error creating subtask: %w", err)
		}

		if err := s.recordAction(ctx, tx, userID, models.ActionAdd, sub.ID); err != nil {
			return nil, err
		}

		created.Subtasks = append(created.Subtasks, sub)
	}

	return created, nil
}

// Edit applies a partial update to an owned task and returns the updated row.
// Flipping the completed flag records a check or uncheck action.
func (s *TaskService) Edit(ctx context.Context, userID string, taskID int64, patch TaskPatch) (*models.Task, error) {
	var updated *models.Task

	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		var err error
		updated, err = s.editOne(ctx, tx, userID, taskID, patch)
		return err
	})

	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, common.ErrNotFound
		}
		return nil, common.ErrInternal
	}

	return updated, nil
}

// BatchEdit applies several partial updates in one transaction. Any unknown
// or foreign task id fails the whole batch.
func (s *TaskService) BatchEdit(ctx context.Context, userID string, edits []TaskEdit) ([]*models.Task, error) {
	updated := make([]*models.Task, 0, len(edits))

	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		for _, e := range edits {
			task, err := s.editOne(ctx, tx, userID, e.ID, e.Patch)
			if err != nil {
				return err
			}
			updated = append(updated, task)
		}
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

func (s *TaskService) editOne(ctx context.Context, tx dbx.DBTX, userID string, taskID int64, patch TaskPatch) (*models.Task, error) {
	repo := s.repomanager.Tasks(tx)

	task, err := repo.FindOwned(ctx, taskID, userID)
	if err != nil {
		return nil, err
	}

	wasCompleted := task.Completed

	if patch.Content != nil {
		task.Content = *patch.Content
	}
	if patch.StartDate != nil {
		task.StartDate = *patch.StartDate
	}
	if patch.EndDate != nil {
		task.EndDate = *patch.EndDate
	}
	if patch.TagID != nil {
		task.TagID = *patch.TagID
	}
	if patch.ParentTaskID != nil {
		task.ParentTaskID = patch.ParentTaskID
	}
	if patch.Order != nil {
		task.Order = *patch.Order
	}
	if patch.Completed != nil {
		task.Completed = *patch.Completed
	}
	if patch.InFocus != nil {
		task.InFocus = *patch.InFocus
	}

	if err := repo.Update(ctx, task); err != nil {
		return nil, fmt.Errorf("error updating task: %w", err)
	}

	if patch.Completed != nil && *patch.Completed != wasCompleted {
		actionType := models.ActionCheck
		if !*patch.Completed {
			actionType = models.ActionUncheck
		}
		if err := s.recordAction(ctx, tx, userID, actionType, task.ID); err != nil {
			return nil, err
		}
	}

	return task, nil
}

// Delete soft-deletes an owned task together with its direct subtasks.
func (s *TaskService) Delete(ctx context.Context, userID string, taskID int64) error {
	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		n, err := s.repomanager.Tasks(tx).MarkDeletedCascade(ctx, taskID, userID)
		if err != nil {
			return fmt.Errorf("error deleting task: %w", err)
		}
		if n == 0 {
			return common.ErrNotFound
		}

		return s.recordAction(ctx, tx, userID, models.ActionDelete, taskID)
	})

	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return common.ErrNotFound
		}
		return common.ErrInternal
	}

	return nil
}

// BatchDelete soft-deletes several owned tasks, each cascading to its direct
// subtasks, in one transaction. Ids that do not resolve to an owned task are
// skipped rather than failing the batch.
func (s *TaskService) BatchDelete(ctx context.Context, userID string, taskIDs []int64) error {
	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.repomanager.Tasks(tx)

		for _, id := range taskIDs {
			n, err := repo.MarkDeletedCascade(ctx, id, userID)
			if err != nil {
				return fmt.Errorf("error deleting task %d: %w", id, err)
			}
			if n == 0 {
				continue
			}
			if err := s.recordAction(ctx, tx, userID, models.ActionDelete, id); err != nil {
				return err
			}
		}
		return nil
	})

	if err != nil {
		return common.ErrInternal
	}

	return nil
}

// Purge physically removes soft-deleted tasks whose end date precedes the
// cutoff. Used by the admin tool, never by the HTTP API.
func (s *TaskService) Purge(ctx context.Context, cutoff time.Time) (int64, error) {
	n, err := s.repomanager.Tasks(s.db).PurgeBefore(ctx, cutoff)
	if err != nil {
		return 0, common.ErrInternal
	}
	return n, nil
}

func (s *TaskService) recordAction(ctx context.Context, tx dbx.DBTX, userID string, t models.ActionType, taskID int64) error {
	extra := fmt.Sprintf(`{"task_id": %d}`, taskID)

	_, err := s.repomanager.Actions(tx).Record(ctx, &models.Action{
		UserID:    userID,
		Type:      t,
		ExtraData: []byte(extra),
	})
	if err != nil {
		return fmt.Errorf("error recording action: %w", err)
	}
	return nil
}
