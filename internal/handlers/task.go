package handlers

import (
	"context"
	"errors"

	"github.com/cyfrhq/cyfr-api/internal/middleware"
	"github.com/cyfrhq/cyfr-api/internal/models"
	"github.com/cyfrhq/cyfr-api/internal/services"
	"github.com/cyfrhq/cyfr-api/pkg/dto"
	"github.com/google/uuid"
	"github.com/m1z23r/drift/pkg/drift"
)

type TaskHandler struct {
	taskService      TaskServiceInterface
	projectService   ProjectServiceInterface
	workspaceService WorkspaceServiceInterface
}

func NewTaskHandler(taskService TaskServiceInterface, projectService ProjectServiceInterface, workspaceService WorkspaceServiceInterface) *TaskHandler {
	return &TaskHandler{
		taskService:      taskService,
		projectService:   projectService,
		workspaceService: workspaceService,
	}
}

func taskResponse(t *models.Task) dto.TaskResponse {
	return dto.TaskResponse{
		ID:          t.ID,
		WorkspaceID: t.WorkspaceID,
		ProjectID:   t.ProjectID,
		Title:       t.Title,
		Description: t.Description,
		Status:      t.Status,
		Priority:    t.Priority,
		DueDate:     t.DueDate,
		CreatedBy:   t.CreatedBy,
		CreatedAt:   t.CreatedAt,
		Assignees:   t.Assignees,
	}
}

// resolveProject loads a project and checks the caller's workspace membership.
// Responds 404 and returns nil when either step fails.
func (h *TaskHandler) resolveProject(c *drift.Context, ctx context.Context, projectID, userID uuid.UUID) *models.Project {
	project, err := h.projectService.GetByID(ctx, projectID)
	if err != nil {
		c.NotFound("project not found or no access")
		return nil
	}

	canAccess, err := h.workspaceService.CanAccess(ctx, project.WorkspaceID, userID)
	if err != nil || !canAccess {
		c.NotFound("project not found or no access")
		return nil
	}

	return project
}

// resolveTask loads a task and checks the caller's workspace membership.
func (h *TaskHandler) resolveTask(c *drift.Context, ctx context.Context, taskID, userID uuid.UUID) *models.Task {
	task, err := h.taskService.GetByID(ctx, taskID)
	if err != nil {
		c.NotFound("task not found or no access")
		return nil
	}

	canAccess, err := h.workspaceService.CanAccess(ctx, task.WorkspaceID, userID)
	if err != nil || !canAccess {
		c.NotFound("task not found or no access")
		return nil
	}

	return task
}

func (h *TaskHandler) List(c *drift.Context) {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		c.Unauthorized("not authenticated")
		return
	}

	projectID, err := uuid.Parse(c.Param("projectId"))
	if err != nil {
		c.BadRequest("invalid project id")
		return
	}

	ctx := context.Background()

	if h.resolveProject(c, ctx, projectID, userID) == nil {
		return
	}

	tasks, err := h.taskService.GetByProject(ctx, projectID)
	if err != nil {
		c.InternalServerError("failed to get tasks")
		return
	}

	response := make([]dto.TaskResponse, len(tasks))
	for i := range tasks {
		response[i] = taskResponse(&tasks[i])
	}

	_ = c.JSON(200, response)
}

// Create records a new task in the todo lane. Requested assignees outside the
// workspace are skipped, and an assignee write failure does not fail the task.
func (h *TaskHandler) Create(c *drift.Context) {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		c.Unauthorized("not authenticated")
		return
	}

	projectID, err := uuid.Parse(c.Param("projectId"))
	if err != nil {
		c.BadRequest("invalid project id")
		return
	}

	ctx := context.Background()

	project := h.resolveProject(c, ctx, projectID, userID)
	if project == nil {
		return
	}

	var req dto.CreateTaskRequest
	if err := c.BindJSON(&req); err != nil {
		c.BadRequest("invalid request body")
		return
	}

	if req.Title == "" {
		c.BadRequest("title is required")
		return
	}

	priority := models.TaskPriorityNormal
	if req.Priority != nil {
		if !models.ValidTaskPriority(*req.Priority) {
			c.BadRequest("invalid priority")
			return
		}
		priority = *req.Priority
	}

	assignees := make([]uuid.UUID, 0, len(req.Assignees))
	for _, id := range req.Assignees {
		isMember, err := h.workspaceService.IsMember(ctx, project.WorkspaceID, id)
		if err != nil || !isMember {
			continue
		}
		assignees = append(assignees, id)
	}

	task, err := h.taskService.Create(ctx, project.WorkspaceID, projectID, req.Title, req.Description, priority, req.DueDate, userID, assignees)
	if err != nil {
		c.InternalServerError("failed to create task")
		return
	}

	_ = c.JSON(201, taskResponse(task))
}

func (h *TaskHandler) Get(c *drift.Context) {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		c.Unauthorized("not authenticated")
		return
	}

	taskID, err := uuid.Parse(c.Param("taskId"))
	if err != nil {
		c.BadRequest("invalid task id")
		return
	}

	ctx := context.Background()

	task := h.resolveTask(c, ctx, taskID, userID)
	if task == nil {
		return
	}

	_ = c.JSON(200, taskResponse(task))
}

func (h *TaskHandler) UpdateStatus(c *drift.Context) {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		c.Unauthorized("not authenticated")
		return
	}

	taskID, err := uuid.Parse(c.Param("taskId"))
	if err != nil {
		c.BadRequest("invalid task id")
		return
	}

	ctx := context.Background()

	task := h.resolveTask(c, ctx, taskID, userID)
	if task == nil {
		return
	}

	var req dto.UpdateTaskStatusRequest
	if err := c.BindJSON(&req); err != nil {
		c.BadRequest("invalid request body")
		return
	}

	if !models.ValidTaskStatus(req.Status) {
		c.BadRequest("invalid status")
		return
	}

	if err := h.taskService.UpdateStatus(ctx, taskID, req.Status); err != nil {
		if errors.Is(err, services.ErrTaskNotFound) {
			c.NotFound("task not found or no access")
			return
		}
		c.InternalServerError("failed to update task")
		return
	}

	task.Status = req.Status
	_ = c.JSON(200, taskResponse(task))
}

func (h *TaskHandler) Delete(c *drift.Context) {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		c.Unauthorized("not authenticated")
		return
	}

	taskID, err := uuid.Parse(c.Param("taskId"))
	if err != nil {
		c.BadRequest("invalid task id")
		return
	}

	ctx := context.Background()

	if h.resolveTask(c, ctx, taskID, userID) == nil {
		return
	}

	if err := h.taskService.Delete(ctx, taskID); err != nil {
		if errors.Is(err, services.ErrTaskNotFound) {
			c.NotFound("task not found or no access")
			return
		}
		c.InternalServerError("failed to delete task")
		return
	}

	_ = c.JSON(200, map[string]string{"message": "task deleted"})
}

// AddAssignee is idempotent. Assigning a user who already holds the task is a
// no-op success, so concurrent toggles from two sessions converge.
func (h *TaskHandler) AddAssignee(c *drift.Context) {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		c.Unauthorized("not authenticated")
		return
	}

	taskID, err := uuid.Parse(c.Param("taskId"))
	if err != nil {
		c.BadRequest("invalid task id")
		return
	}

	assigneeID, err := uuid.Parse(c.Param("userId"))
	if err != nil {
		c.BadRequest("invalid user id")
		return
	}

	ctx := context.Background()

	task := h.resolveTask(c, ctx, taskID, userID)
	if task == nil {
		return
	}

	isMember, err := h.workspaceService.IsMember(ctx, task.WorkspaceID, assigneeID)
	if err != nil || !isMember {
		c.BadRequest("assignee is not a workspace member")
		return
	}

	if err := h.taskService.AddAssignee(ctx, taskID, assigneeID); err != nil {
		c.InternalServerError("failed to add assignee")
		return
	}

	_ = c.JSON(200, map[string]string{"message": "assignee added"})
}

// RemoveAssignee is idempotent as well. Removing an absent assignee succeeds.
func (h *TaskHandler) RemoveAssignee(c *drift.Context) {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		c.Unauthorized("not authenticated")
		return
	}

	taskID, err := uuid.Parse(c.Param("taskId"))
	if err != nil {
		c.BadRequest("invalid task id")
		return
	}

	assigneeID, err := uuid.Parse(c.Param("userId"))
	if err != nil {
		c.BadRequest("invalid user id")
		return
	}

	ctx := context.Background()

	if h.resolveTask(c, ctx, taskID, userID) == nil {
		return
	}

	if err := h.taskService.RemoveAssignee(ctx, taskID, assigneeID); err != nil {
		c.InternalServerError("failed to remove assignee")
		return
	}

	_ = c.JSON(200, map[string]string{"message": "assignee removed"})
}
