package client

import (
	"context"
	"net/http"

	"github.com/cyfrhq/cyfr-api/pkg/dto"
	"github.com/google/uuid"
)

func (c *Client) ListTasks(ctx context.Context, projectID uuid.UUID) ([]dto.TaskResponse, error) {
	var tasks []dto.TaskResponse
	if err := c.do(ctx, http.MethodGet, "/projects/"+projectID.String()+"/tasks", nil, &tasks); err != nil {
		return nil, err
	}
	return tasks, nil
}

func (c *Client) CreateTask(ctx context.Context, projectID uuid.UUID, req dto.CreateTaskRequest) (*dto.TaskResponse, error) {
	var task dto.TaskResponse
	if err := c.do(ctx, http.MethodPost, "/projects/"+projectID.String()+"/tasks", req, &task); err != nil {
		return nil, err
	}
	return &task, nil
}

func (c *Client) GetTask(ctx context.Context, taskID uuid.UUID) (*dto.TaskResponse, error) {
	var task dto.TaskResponse
	if err := c.do(ctx, http.MethodGet, "/tasks/"+taskID.String(), nil, &task); err != nil {
		return nil, err
	}
	return &task, nil
}

func (c *Client) UpdateTaskStatus(ctx context.Context, taskID uuid.UUID, status string) error {
	return c.do(ctx, http.MethodPatch, "/tasks/"+taskID.String(), dto.UpdateTaskStatusRequest{Status: status}, nil)
}

func (c *Client) DeleteTask(ctx context.Context, taskID uuid.UUID) error {
	return c.do(ctx, http.MethodDelete, "/tasks/"+taskID.String(), nil, nil)
}

func (c *Client) AddAssignee(ctx context.Context, taskID, userID uuid.UUID) error {
	return c.do(ctx, http.MethodPost, "/tasks/"+taskID.String()+"/assignees/"+userID.String(), nil, nil)
}

func (c *Client) RemoveAssignee(ctx context.Context, taskID, userID uuid.UUID) error {
	return c.do(ctx, http.MethodDelete, "/tasks/"+taskID.String()+"/assignees/"+userID.String(), nil, nil)
}
