package board

import (
	"context"

	"github.com/cyfrhq/cyfr-api/pkg/dto"
	"github.com/google/uuid"
)

// Gateway is the remote store as seen by the board. pkg/client provides the
// HTTP implementation; tests substitute their own.
type Gateway interface {
	GetProject(ctx context.Context, projectID uuid.UUID) (*dto.ProjectResponse, error)
	ListTasks(ctx context.Context, projectID uuid.UUID) ([]dto.TaskResponse, error)
	CreateTask(ctx context.Context, projectID uuid.UUID, req dto.CreateTaskRequest) (*dto.TaskResponse, error)
	UpdateTaskStatus(ctx context.Context, taskID uuid.UUID, status string) error
	DeleteTask(ctx context.Context, taskID uuid.UUID) error
	AddAssignee(ctx context.Context, taskID, userID uuid.UUID) error
	RemoveAssignee(ctx context.Context, taskID, userID uuid.UUID) error
	ListMemberIDs(ctx context.Context, workspaceID uuid.UUID) ([]uuid.UUID, error)
	LookupProfiles(ctx context.Context, ids []uuid.UUID) ([]dto.ProfileResponse, error)
}
