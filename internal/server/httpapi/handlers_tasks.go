package httpapi

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/planwise/planwise/internal/common"
	"github.com/planwise/planwise/internal/server/models"
	"github.com/planwise/planwise/internal/server/services"
)

type createSubtaskRequest struct {
	Content   string     `json:"content"`
	StartDate *time.Time `json:"start_date"`
	EndDate   *time.Time `json:"end_date"`
	Completed bool       `json:"completed"`
	InFocus   bool       `json:"in_focus"`
}

type createTaskRequest struct {
	Content      string                 `json:"content"`
	StartDate    time.Time              `json:"start_date"`
	EndDate      time.Time              `json:"end_date"`
	TagID        *int64                 `json:"tag_id"`
	ParentTaskID *int64                 `json:"parent_task"`
	Completed    bool                   `json:"completed"`
	InFocus      bool                   `json:"in_focus"`
	Subtasks     []createSubtaskRequest `json:"subtasks"`
}

func (r createTaskRequest) toNewTask() services.NewTask {
	in := services.NewTask{
		Content:      r.Content,
		StartDate:    r.StartDate,
		EndDate:      r.EndDate,
		TagID:        r.TagID,
		ParentTaskID: r.ParentTaskID,
		Completed:    r.Completed,
		InFocus:      r.InFocus,
	}
	for _, st := range r.Subtasks {
		in.Subtasks = append(in.Subtasks, services.NewSubTask{
			Content:   st.Content,
			StartDate: st.StartDate,
			EndDate:   st.EndDate,
			Completed: st.Completed,
			InFocus:   st.InFocus,
		})
	}
	return in
}

// createdTaskResponse flattens the parent task and nests its subtasks.
type createdTaskResponse struct {
	*models.Task
	Subtasks []*models.Task `json:"subtasks,omitempty"`
}

func newCreatedTaskResponse(c *services.CreatedTask) createdTaskResponse {
	return createdTaskResponse{Task: c.Task, Subtasks: c.Subtasks}
}

func (s *Server) handleCreateTask(c *gin.Context) {
	var req createTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, common.ErrInvalidArgument)
		return
	}

	created, err := s.tasks.Create(c.Request.Context(), currentUserID(c), req.toNewTask())
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"created": newCreatedTaskResponse(created)})
}

func (s *Server) handleBatchCreateTasks(c *gin.Context) {
	var reqs []createTaskRequest
	if err := c.ShouldBindJSON(&reqs); err != nil {
		writeError(c, common.ErrInvalidArgument)
		return
	}

	in := make([]services.NewTask, 0, len(reqs))
	for _, r := range reqs {
		in = append(in, r.toNewTask())
	}

	created, err := s.tasks.BatchCreate(c.Request.Context(), currentUserID(c), in)
	if err != nil {
		writeError(c, err)
		return
	}

	out := make([]createdTaskResponse, 0, len(created))
	for _, ct := range created {
		out = append(out, newCreatedTaskResponse(ct))
	}

	c.JSON(http.StatusOK, gin.H{"created": out})
}

func (s *Server) handleDeleteTask(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		writeError(c, common.ErrInvalidArgument)
		return
	}

	if err := s.tasks.Delete(c.Request.Context(), currentUserID(c), id); err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"deleted": id})
}

type batchDeleteRequest struct {
	TaskIDs []int64 `json:"task_ids"`
}

func (s *Server) handleBatchDeleteTasks(c *gin.Context) {
	var req batchDeleteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, common.ErrInvalidArgument)
		return
	}

	if err := s.tasks.BatchDelete(c.Request.Context(), currentUserID(c), req.TaskIDs); err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"deleted": req.TaskIDs})
}

// taskPatchRequest uses pointer fields so that only keys present in the body
// are applied; completed=false and _order=0 still count as present.
type taskPatchRequest struct {
	Content      *string    `json:"content"`
	StartDate    *time.Time `json:"start_date"`
	EndDate      *time.Time `json:"end_date"`
	TagID        *int64     `json:"tag_id"`
	ParentTaskID *int64     `json:"parent_task"`
	Order        *int       `json:"_order"`
	Completed    *bool      `json:"completed"`
	InFocus      *bool      `json:"in_focus"`
}

func (r taskPatchRequest) toPatch() services.TaskPatch {
	return services.TaskPatch{
		Content:      r.Content,
		StartDate:    r.StartDate,
		EndDate:      r.EndDate,
		TagID:        r.TagID,
		ParentTaskID: r.ParentTaskID,
		Order:        r.Order,
		Completed:    r.Completed,
		InFocus:      r.InFocus,
	}
}

func (s *Server) handleEditTask(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		writeError(c, common.ErrInvalidArgument)
		return
	}

	var req taskPatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, common.ErrInvalidArgument)
		return
	}

	task, err := s.tasks.Edit(c.Request.Context(), currentUserID(c), id, req.toPatch())
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"task": task})
}

type batchEditItem struct {
	TaskID int64 `json:"task_id"`
	taskPatchRequest
}

func (s *Server) handleBatchEditTasks(c *gin.Context) {
	var reqs []batchEditItem
	if err := c.ShouldBindJSON(&reqs); err != nil {
		writeError(c, common.ErrInvalidArgument)
		return
	}

	edits := make([]services.TaskEdit, 0, len(reqs))
	for _, r := range reqs {
		edits = append(edits, services.TaskEdit{ID: r.TaskID, Patch: r.toPatch()})
	}

	tasks, err := s.tasks.BatchEdit(c.Request.Context(), currentUserID(c), edits)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"tasks": tasks})
}
