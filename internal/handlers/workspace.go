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

type WorkspaceHandler struct {
	workspaceService WorkspaceServiceInterface
	profileService   ProfileServiceInterface
}

func NewWorkspaceHandler(workspaceService WorkspaceServiceInterface, profileService ProfileServiceInterface) *WorkspaceHandler {
	return &WorkspaceHandler{
		workspaceService: workspaceService,
		profileService:   profileService,
	}
}

func (h *WorkspaceHandler) Create(c *drift.Context) {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		c.Unauthorized("not authenticated")
		return
	}

	var req dto.CreateWorkspaceRequest
	if err := c.BindJSON(&req); err != nil {
		c.BadRequest("invalid request body")
		return
	}

	if req.Name == "" {
		c.BadRequest("name is required")
		return
	}

	workspace, err := h.workspaceService.Create(context.Background(), req.Name, req.Description, userID)
	if err != nil {
		c.InternalServerError("failed to create workspace")
		return
	}

	_ = c.JSON(201, dto.WorkspaceResponse{
		ID:          workspace.ID,
		Name:        workspace.Name,
		Description: workspace.Description,
		CreatedBy:   workspace.CreatedBy,
		CreatedAt:   workspace.CreatedAt,
		Role:        models.RoleOwner,
	})
}

func (h *WorkspaceHandler) List(c *drift.Context) {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		c.Unauthorized("not authenticated")
		return
	}

	workspaces, roles, err := h.workspaceService.GetUserWorkspaces(context.Background(), userID)
	if err != nil {
		c.InternalServerError("failed to get workspaces")
		return
	}

	response := make([]dto.WorkspaceResponse, len(workspaces))
	for i, w := range workspaces {
		response[i] = dto.WorkspaceResponse{
			ID:          w.ID,
			Name:        w.Name,
			Description: w.Description,
			CreatedBy:   w.CreatedBy,
			CreatedAt:   w.CreatedAt,
			Role:        roles[i],
		}
	}

	_ = c.JSON(200, response)
}

func (h *WorkspaceHandler) Get(c *drift.Context) {
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

	role, err := h.workspaceService.GetMemberRole(ctx, workspaceID, userID)
	if err != nil {
		c.NotFound("workspace not found or no access")
		return
	}

	workspace, err := h.workspaceService.GetByID(ctx, workspaceID)
	if err != nil {
		c.NotFound("workspace not found or no access")
		return
	}

	_ = c.JSON(200, dto.WorkspaceResponse{
		ID:          workspace.ID,
		Name:        workspace.Name,
		Description: workspace.Description,
		CreatedBy:   workspace.CreatedBy,
		CreatedAt:   workspace.CreatedAt,
		Role:        role,
	})
}

// Delete is owner-gated; projects and tasks cascade with the workspace row.
func (h *WorkspaceHandler) Delete(c *drift.Context) {
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

	isOwner, err := h.workspaceService.IsOwner(ctx, workspaceID, userID)
	if err != nil || !isOwner {
		c.Forbidden("only the workspace owner can delete it")
		return
	}

	if err := h.workspaceService.Delete(ctx, workspaceID); err != nil {
		c.InternalServerError("failed to delete workspace")
		return
	}

	_ = c.JSON(200, map[string]string{"message": "workspace deleted"})
}

// GetMembers returns the assignee candidate set with resolved display names.
// A failed name lookup falls back to per-id placeholders rather than failing
// the whole request.
func (h *WorkspaceHandler) GetMembers(c *drift.Context) {
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

	members, err := h.workspaceService.GetMembers(ctx, workspaceID)
	if err != nil {
		c.InternalServerError("failed to get members")
		return
	}

	ids := make([]uuid.UUID, len(members))
	for i, m := range members {
		ids[i] = m.UserID
	}

	names := make(map[uuid.UUID]string, len(members))
	if profiles, err := h.profileService.GetMany(ctx, ids); err == nil {
		for i := range profiles {
			names[profiles[i].UserID] = profiles[i].DisplayName()
		}
	}

	response := make([]dto.WorkspaceMemberResponse, len(members))
	for i, m := range members {
		name, ok := names[m.UserID]
		if !ok {
			placeholder := models.Profile{UserID: m.UserID}
			name = placeholder.DisplayName()
		}
		response[i] = dto.WorkspaceMemberResponse{
			UserID:      m.UserID,
			Role:        m.Role,
			DisplayName: name,
		}
	}

	_ = c.JSON(200, response)
}

func (h *WorkspaceHandler) AddMember(c *drift.Context) {
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

	isOwner, err := h.workspaceService.IsOwner(ctx, workspaceID, userID)
	if err != nil || !isOwner {
		c.Forbidden("only the workspace owner can add members")
		return
	}

	var req dto.AddMemberRequest
	if err := c.BindJSON(&req); err != nil {
		c.BadRequest("invalid request body")
		return
	}

	if req.UserID == uuid.Nil {
		c.BadRequest("user_id is required")
		return
	}

	if err := h.workspaceService.AddMember(ctx, workspaceID, req.UserID); err != nil {
		c.InternalServerError("failed to add member")
		return
	}

	_ = c.JSON(201, map[string]string{"message": "member added"})
}

func (h *WorkspaceHandler) RemoveMember(c *drift.Context) {
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

	memberID, err := uuid.Parse(c.Param("userId"))
	if err != nil {
		c.BadRequest("invalid user id")
		return
	}

	ctx := context.Background()

	isOwner, err := h.workspaceService.IsOwner(ctx, workspaceID, userID)
	if err != nil || !isOwner {
		c.Forbidden("only the workspace owner can remove members")
		return
	}

	if err := h.workspaceService.RemoveMember(ctx, workspaceID, memberID); err != nil {
		if errors.Is(err, services.ErrCannotRemoveOwner) {
			c.BadRequest("cannot remove workspace owner")
			return
		}
		if errors.Is(err, services.ErrMemberNotFound) {
			c.NotFound("member not found")
			return
		}
		c.InternalServerError("failed to remove member")
		return
	}

	_ = c.JSON(200, map[string]string{"message": "member removed"})
}
