package client

import (
	"context"
	"net/http"

	"github.com/cyfrhq/cyfr-api/pkg/dto"
	"github.com/google/uuid"
)

func (c *Client) ListProjects(ctx context.Context, workspaceID uuid.UUID) ([]dto.ProjectResponse, error) {
	var projects []dto.ProjectResponse
	if err := c.do(ctx, http.MethodGet, "/workspaces/"+workspaceID.String()+"/projects", nil, &projects); err != nil {
		return nil, err
	}
	return projects, nil
}

func (c *Client) CreateProject(ctx context.Context, workspaceID uuid.UUID, req dto.CreateProjectRequest) (*dto.ProjectResponse, error) {
	var project dto.ProjectResponse
	if err := c.do(ctx, http.MethodPost, "/workspaces/"+workspaceID.String()+"/projects", req, &project); err != nil {
		return nil, err
	}
	return &project, nil
}

func (c *Client) GetProject(ctx context.Context, projectID uuid.UUID) (*dto.ProjectResponse, error) {
	var project dto.ProjectResponse
	if err := c.do(ctx, http.MethodGet, "/projects/"+projectID.String(), nil, &project); err != nil {
		return nil, err
	}
	return &project, nil
}

func (c *Client) DeleteProject(ctx context.Context, projectID uuid.UUID) error {
	return c.do(ctx, http.MethodDelete, "/projects/"+projectID.String(), nil, nil)
}
