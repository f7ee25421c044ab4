package client

import (
	"context"
	"net/http"

	"github.com/cyfrhq/cyfr-api/pkg/dto"
	"github.com/google/uuid"
)

func (c *Client) ListWorkspaces(ctx context.Context) ([]dto.WorkspaceResponse, error) {
	var workspaces []dto.WorkspaceResponse
	if err := c.do(ctx, http.MethodGet, "/workspaces", nil, &workspaces); err != nil {
		return nil, err
	}
	return workspaces, nil
}

func (c *Client) CreateWorkspace(ctx context.Context, req dto.CreateWorkspaceRequest) (*dto.WorkspaceResponse, error) {
	var workspace dto.WorkspaceResponse
	if err := c.do(ctx, http.MethodPost, "/workspaces", req, &workspace); err != nil {
		return nil, err
	}
	return &workspace, nil
}

func (c *Client) GetWorkspace(ctx context.Context, workspaceID uuid.UUID) (*dto.WorkspaceResponse, error) {
	var workspace dto.WorkspaceResponse
	if err := c.do(ctx, http.MethodGet, "/workspaces/"+workspaceID.String(), nil, &workspace); err != nil {
		return nil, err
	}
	return &workspace, nil
}

func (c *Client) DeleteWorkspace(ctx context.Context, workspaceID uuid.UUID) error {
	return c.do(ctx, http.MethodDelete, "/workspaces/"+workspaceID.String(), nil, nil)
}

func (c *Client) ListMembers(ctx context.Context, workspaceID uuid.UUID) ([]dto.WorkspaceMemberResponse, error) {
	var members []dto.WorkspaceMemberResponse
	if err := c.do(ctx, http.MethodGet, "/workspaces/"+workspaceID.String()+"/members", nil, &members); err != nil {
		return nil, err
	}
	return members, nil
}

// ListMemberIDs is the board.Gateway projection of ListMembers.
func (c *Client) ListMemberIDs(ctx context.Context, workspaceID uuid.UUID) ([]uuid.UUID, error) {
	members, err := c.ListMembers(ctx, workspaceID)
	if err != nil {
		return nil, err
	}
	ids := make([]uuid.UUID, len(members))
	for i, m := range members {
		ids[i] = m.UserID
	}
	return ids, nil
}

func (c *Client) AddMember(ctx context.Context, workspaceID, userID uuid.UUID) error {
	return c.do(ctx, http.MethodPost, "/workspaces/"+workspaceID.String()+"/members", dto.AddMemberRequest{UserID: userID}, nil)
}

func (c *Client) RemoveMember(ctx context.Context, workspaceID, userID uuid.UUID) error {
	return c.do(ctx, http.MethodDelete, "/workspaces/"+workspaceID.String()+"/members/"+userID.String(), nil, nil)
}
