package handlers

import (
	"context"

	"github.com/cyfrhq/cyfr-api/internal/middleware"
	"github.com/cyfrhq/cyfr-api/pkg/dto"
	"github.com/google/uuid"
	"github.com/m1z23r/drift/pkg/drift"
)

type ProjectHandler struct {
	projectService   ProjectServiceInterface
	workspaceService WorkspaceServiceInterface
}

func NewProjectHandler(projectService ProjectServiceInterface, workspaceService WorkspaceServiceInterface) *ProjectHandler {
	return &ProjectHandler{
		projectService:   projectService,
		workspaceService: workspaceService,
	}
}

func (h *ProjectHandler) Create(c *drift.Context) {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		c.Unauthorized("not authenticated")
		return
	}

	workspaceID, err := uuid.Parse(c.Param("workspaceId"))
	if err != nil {
		c.BadRequest("invalid workspace id")
		return
	}

	ctx := context.Background()

	canAccess, err := h.workspaceService.CanAccess(ctx, workspaceID, userID)
	if err != nil || !canAccess {
		c.NotFound("workspace not found or no access")
		return
	}

	var req dto.CreateProjectRequest
	if err := c.BindJSON(&req); err != nil {
		c.BadRequest("invalid request body")
		return
	}

	if req.Name == "" {
		c.BadRequest("name is required")
		return
	}

	project, err := h.projectService.Create(ctx, workspaceID, req.Name, req.Code, req.Description, req.Address, userID)
	if err != nil {
		c.InternalServerError("failed to create project")
		return
	}

	_ = c.JSON(201, dto.ProjectResponse{
		ID:          project.ID,
		WorkspaceID: project.WorkspaceID,
		Name:        project.Name,
		Code:        project.Code,
		Description: project.Description,
		Address:     project.Address,
		Status:      project.Status,
		CreatedAt:   project.CreatedAt,
	})
}

func (h *ProjectHandler) List(c *drift.Context) {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		c.Unauthorized("not authenticated")
		return
	}

	workspaceID, err := uuid.Parse(c.Param("workspaceId"))
	if err != nil {
		c.BadRequest("invalid workspace id")
		return
	}

	ctx := context.Background()

	canAccess, err := h.workspaceService.CanAccess(ctx, workspaceID, userID)
	if err != nil || !canAccess {
		c.NotFound("workspace not found or no access")
		return
	}

	projects, err := h.projectService.GetByWorkspace(ctx, workspaceID)
	if err != nil {
		c.InternalServerError("failed to get projects")
		return
	}

	response := make([]dto.ProjectResponse, len(projects))
	for i, p := range projects {
		response[i] = dto.ProjectResponse{
			ID:          p.ID,
			WorkspaceID: p.WorkspaceID,
			Name:        p.Name,
			Code:        p.Code,
			Description: p.Description,
			Address:     p.Address,
			Status:      p.Status,
			CreatedAt:   p.CreatedAt,
		}
	}

	_ = c.JSON(200, response)
}

// Get resolves access through the project's workspace membership. Missing
// projects and inaccessible projects are indistinguishable to the caller.
func (h *ProjectHandler) Get(c *drift.Context) {
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

	project, err := h.projectService.GetByID(ctx, projectID)
	if err != nil {
		c.NotFound("project not found or no access")
		return
	}

	canAccess, err := h.workspaceService.CanAccess(ctx, project.WorkspaceID, userID)
	if err != nil || !canAccess {
		c.NotFound("project not found or no access")
		return
	}

	_ = c.JSON(200, dto.ProjectResponse{
		ID:          project.ID,
		WorkspaceID: project.WorkspaceID,
		Name:        project.Name,
		Code:        project.Code,
		Description: project.Description,
		Address:     project.Address,
		Status:      project.Status,
		CreatedAt:   project.CreatedAt,
	})
}

func (h *ProjectHandler) Delete(c *drift.Context) {
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

	project, err := h.projectService.GetByID(ctx, projectID)
	if err != nil {
		c.NotFound("project not found or no access")
		return
	}

	canAccess, err := h.workspaceService.CanAccess(ctx, project.WorkspaceID, userID)
	if err != nil || !canAccess {
		c.NotFound("project not found or no access")
		return
	}

	if err := h.projectService.Delete(ctx, projectID); err != nil {
		c.InternalServerError("failed to delete project")
		return
	}

	_ = c.JSON(200, map[string]string{"message": "project deleted"})
}
