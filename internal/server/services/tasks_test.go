package services

import (
	"context"
	"testing"
	"time"

	"github.com/planwise/planwise/internal/common"
	"github.com/planwise/planwise/internal/server/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTaskService_Create_AssignsSequentialOrders(t *testing.T) {
	db, rm := newFixture(t)
	svc := NewTaskService(db, rm)

	first := mustCreateTask(t, svc, "u1", "read chapter", NewTask{})
	second := mustCreateTask(t, svc, "u1", "write summary", NewTask{})
	other := mustCreateTask(t, svc, "u2", "own task", NewTask{})

	assert.Equal(t, 0, first.Task.Order)
	assert.Equal(t, 1, second.Task.Order)
	assert.Equal(t, 0, other.Task.Order, "orders are per user, not global")
	assert.Equal(t, models.NoTagID, first.Task.TagID, "no tag defaults to the sentinel")
}

func TestTaskService_Create_SubtasksInheritTagAndDates(t *testing.T) {
	db, rm := newFixture(t)
	tagSvc := NewTagService(db, rm)
	svc := NewTaskService(db, rm)

	tag := mustCreateTag(t, tagSvc, "u1", "math")

	ownStart := time.Date(2026, 2, 2, 10, 0, 0, 0, time.UTC)
	created := mustCreateTask(t, svc, "u1", "project", NewTask{
		TagID: &tag.ID,
		Subtasks: []NewSubTask{
			{Content: "outline"},
			{Content: "draft", StartDate: &ownStart},
		},
	})

	require.Len(t, created.Subtasks, 2)

	outline, draft := created.Subtasks[0], created.Subtasks[1]

	assert.Equal(t, tag.ID, outline.TagID)
	assert.Equal(t, tag.ID, draft.TagID)
	require.NotNil(t, outline.ParentTaskID)
	assert.Equal(t, created.Task.ID, *outline.ParentTaskID)

	assert.Equal(t, created.Task.StartDate, outline.StartDate, "nil dates inherit the parent window")
	assert.Equal(t, created.Task.EndDate, outline.EndDate)
	assert.Equal(t, ownStart, draft.StartDate, "explicit dates win over inheritance")

	assert.Equal(t, created.Task.Order+1, outline.Order)
	assert.Equal(t, created.Task.Order+2, draft.Order)
}

func TestTaskService_Create_MissingFieldsRejected(t *testing.T) {
	db, rm := newFixture(t)
	svc := NewTaskService(db, rm)

	_, err := svc.Create(context.Background(), "u1", NewTask{Content: "no dates"})
	assert.ErrorIs(t, err, common.ErrInvalidArgument)

	_, err = svc.Create(context.Background(), "u1", NewTask{
		StartDate: time.Now(),
		EndDate:   time.Now().Add(time.Hour),
	})
	assert.ErrorIs(t, err, common.ErrInvalidArgument)
}

func TestTaskService_BatchCreate_ConsecutiveOrders(t *testing.T) {
	db, rm := newFixture(t)
	svc := NewTaskService(db, rm)

	mustCreateTask(t, svc, "u1", "existing", NewTask{})

	start := time.Date(2026, 2, 3, 9, 0, 0, 0, time.UTC)
	end := start.Add(8 * time.Hour)
	created, err := svc.BatchCreate(context.Background(), "u1", []NewTask{
		{Content: "one", StartDate: start, EndDate: end},
		{Content: "two", StartDate: start, EndDate: end},
		{Content: "three", StartDate: start, EndDate: end},
	})
	require.NoError(t, err)
	require.Len(t, created, 3)

	assert.Equal(t, 1, created[0].Task.Order)
	assert.Equal(t, 2, created[1].Task.Order)
	assert.Equal(t, 3, created[2].Task.Order)
}

func TestTaskService_Edit_AppliesOnlyPresentFields(t *testing.T) {
	db, rm := newFixture(t)
	svc := NewTaskService(db, rm)

	created := mustCreateTask(t, svc, "u1", "read chapter", NewTask{InFocus: true})

	content := "read chapter 3"
	updated, err := svc.Edit(context.Background(), "u1", created.Task.ID, TaskPatch{Content: &content})
	require.NoError(t, err)

	assert.Equal(t, "read chapter 3", updated.Content)
	assert.True(t, updated.InFocus, "absent fields stay unchanged")
	assert.Equal(t, created.Task.StartDate, updated.StartDate)
}

func TestTaskService_Edit_FalseIsApplied(t *testing.T) {
	db, rm := newFixture(t)
	svc := NewTaskService(db, rm)

	created := mustCreateTask(t, svc, "u1", "read chapter", NewTask{Completed: true, InFocus: true})

	completed := false
	inFocus := false
	updated, err := svc.Edit(context.Background(), "u1", created.Task.ID, TaskPatch{
		Completed: &completed,
		InFocus:   &inFocus,
	})
	require.NoError(t, err)

	assert.False(t, updated.Completed, "explicit false is not ignored")
	assert.False(t, updated.InFocus)
}

func TestTaskService_Edit_Reparents(t *testing.T) {
	db, rm := newFixture(t)
	svc := NewTaskService(db, rm)

	parent := mustCreateTask(t, svc, "u1", "project", NewTask{})
	orphan := mustCreateTask(t, svc, "u1", "loose note", NewTask{})

	updated, err := svc.Edit(context.Background(), "u1", orphan.Task.ID, TaskPatch{
		ParentTaskID: &parent.Task.ID,
	})
	require.NoError(t, err)

	require.NotNil(t, updated.ParentTaskID)
	assert.Equal(t, parent.Task.ID, *updated.ParentTaskID)
	assert.Equal(t, "loose note", updated.Content, "absent fields stay unchanged")
}

func TestTaskService_Edit_CompletedFlipRecordsActions(t *testing.T) {
	db, rm := newFixture(t)
	svc := NewTaskService(db, rm)
	ctx := context.Background()
	cutoff := time.Now().Add(-time.Minute)

	created := mustCreateTask(t, svc, "u1", "read chapter", NewTask{})

	yes, no := true, false

	_, err := svc.Edit(ctx, "u1", created.Task.ID, TaskPatch{Completed: &yes})
	require.NoError(t, err)

	checks, err := rm.Actions(db).CountByTypeSince(ctx, "u1", models.ActionCheck, cutoff)
	require.NoError(t, err)
	assert.Equal(t, 1, checks)

	// completing an already completed task is not another check
	_, err = svc.Edit(ctx, "u1", created.Task.ID, TaskPatch{Completed: &yes})
	require.NoError(t, err)

	checks, err = rm.Actions(db).CountByTypeSince(ctx, "u1", models.ActionCheck, cutoff)
	require.NoError(t, err)
	assert.Equal(t, 1, checks)

	_, err = svc.Edit(ctx, "u1", created.Task.ID, TaskPatch{Completed: &no})
	require.NoError(t, err)

	unchecks, err := rm.Actions(db).CountByTypeSince(ctx, "u1", models.ActionUncheck, cutoff)
	require.NoError(t, err)
	assert.Equal(t, 1, unchecks)
}

func TestTaskService_Edit_ForeignTaskNotFound(t *testing.T) {
	db, rm := newFixture(t)
	svc := NewTaskService(db, rm)

	created := mustCreateTask(t, svc, "u1", "private", NewTask{})

	content := "stolen"
	_, err := svc.Edit(context.Background(), "u2", created.Task.ID, TaskPatch{Content: &content})
	assert.ErrorIs(t, err, common.ErrNotFound)

	kept, findErr := rm.Tasks(db).FindOwned(context.Background(), created.Task.ID, "u1")
	require.NoError(t, findErr)
	assert.Equal(t, "private", kept.Content)
}

func TestTaskService_BatchEdit_AllOrNothingLookup(t *testing.T) {
	db, rm := newFixture(t)
	svc := NewTaskService(db, rm)

	a := mustCreateTask(t, svc, "u1", "a", NewTask{})
	b := mustCreateTask(t, svc, "u1", "b", NewTask{})

	newA, newB := "a2", "b2"
	updated, err := svc.BatchEdit(context.Background(), "u1", []TaskEdit{
		{ID: a.Task.ID, Patch: TaskPatch{Content: &newA}},
		{ID: b.Task.ID, Patch: TaskPatch{Content: &newB}},
	})
	require.NoError(t, err)
	require.Len(t, updated, 2)
	assert.Equal(t, "a2", updated[0].Content)
	assert.Equal(t, "b2", updated[1].Content)

	_, err = svc.BatchEdit(context.Background(), "u1", []TaskEdit{
		{ID: 9999, Patch: TaskPatch{Content: &newA}},
	})
	assert.ErrorIs(t, err, common.ErrNotFound)
}

func TestTaskService_Delete_CascadesOneLevel(t *testing.T) {
	db, rm := newFixture(t)
	svc := NewTaskService(db, rm)
	ctx := context.Background()

	parent := mustCreateTask(t, svc, "u1", "parent", NewTask{})
	child := mustCreateTask(t, svc, "u1", "child", NewTask{ParentTaskID: &parent.Task.ID})
	grandchild := mustCreateTask(t, svc, "u1", "grandchild", NewTask{ParentTaskID: &child.Task.ID})

	require.NoError(t, svc.Delete(ctx, "u1", parent.Task.ID))

	p, err := rm.Tasks(db).FindOwned(ctx, parent.Task.ID, "u1")
	require.NoError(t, err)
	assert.True(t, p.Deleted)

	c, err := rm.Tasks(db).FindOwned(ctx, child.Task.ID, "u1")
	require.NoError(t, err)
	assert.True(t, c.Deleted, "direct subtask is deleted with the parent")

	g, err := rm.Tasks(db).FindOwned(ctx, grandchild.Task.ID, "u1")
	require.NoError(t, err)
	assert.False(t, g.Deleted, "cascade stops at one level")
}

func TestTaskService_Delete_ForeignTaskNotFound(t *testing.T) {
	db, rm := newFixture(t)
	svc := NewTaskService(db, rm)

	created := mustCreateTask(t, svc, "u1", "private", NewTask{})

	err := svc.Delete(context.Background(), "u2", created.Task.ID)
	assert.ErrorIs(t, err, common.ErrNotFound)

	kept, findErr := rm.Tasks(db).FindOwned(context.Background(), created.Task.ID, "u1")
	require.NoError(t, findErr)
	assert.False(t, kept.Deleted)
}

func TestTaskService_BatchDelete_SkipsUnknownIDs(t *testing.T) {
	db, rm := newFixture(t)
	svc := NewTaskService(db, rm)
	ctx := context.Background()

	a := mustCreateTask(t, svc, "u1", "a", NewTask{})
	b := mustCreateTask(t, svc, "u1", "b", NewTask{})

	require.NoError(t, svc.BatchDelete(ctx, "u1", []int64{a.Task.ID, 9999, b.Task.ID}))

	for _, id := range []int64{a.Task.ID, b.Task.ID} {
		task, err := rm.Tasks(db).FindOwned(ctx, id, "u1")
		require.NoError(t, err)
		assert.True(t, task.Deleted)
	}
}

func TestTaskService_Purge_RemovesOldDeletedOnly(t *testing.T) {
	db, rm := newFixture(t)
	svc := NewTaskService(db, rm)
	ctx := context.Background()

	old := mustCreateTask(t, svc, "u1", "old", NewTask{
		StartDate: time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
		EndDate:   time.Date(2025, 1, 2, 0, 0, 0, 0, time.UTC),
	})
	recent := mustCreateTask(t, svc, "u1", "recent", NewTask{})

	require.NoError(t, svc.Delete(ctx, "u1", old.Task.ID))
	require.NoError(t, svc.Delete(ctx, "u1", recent.Task.ID))

	n, err := svc.Purge(ctx, time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	_, err = rm.Tasks(db).FindOwned(ctx, old.Task.ID, "u1")
	assert.ErrorIs(t, err, common.ErrNotFound, "purged row is gone for good")

	still, err := rm.Tasks(db).FindOwned(ctx, recent.Task.ID, "u1")
	require.NoError(t, err)
	assert.True(t, still.Deleted, "recent soft-deleted row survives the purge")
}
