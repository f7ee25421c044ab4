package handlers

import (
	"context"
	"time"

	"github.com/cyfrhq/cyfr-api/internal/models"
	"github.com/cyfrhq/cyfr-api/internal/oauth"
	"github.com/cyfrhq/cyfr-api/internal/services"
	"github.com/google/uuid"
)

// UserServiceInterface defines the methods used by handlers from UserService
type UserServiceInterface interface {
	Register(ctx context.Context, email, password string) (*models.User, error)
	Authenticate(ctx context.Context, email, password string) (*models.User, error)
	FindOrCreateFromOAuth(ctx context.Context, info *oauth.UserInfo) (*models.User, error)
	GetByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
}

// ProfileServiceInterface defines the methods used by handlers from ProfileService
type ProfileServiceInterface interface {
	Get(ctx context.Context, userID uuid.UUID) (*models.Profile, error)
	Upsert(ctx context.Context, userID uuid.UUID, firstName, secondName, phone *string) (*models.Profile, error)
	GetMany(ctx context.Context, userIDs []uuid.UUID) ([]models.Profile, error)
}

// WorkspaceServiceInterface defines the methods used by handlers from WorkspaceService
type WorkspaceServiceInterface interface {
	Create(ctx context.Context, name string, description *string, creatorID uuid.UUID) (*models.Workspace, error)
	GetByID(ctx context.Context, workspaceID uuid.UUID) (*models.Workspace, error)
	GetUserWorkspaces(ctx context.Context, userID uuid.UUID) ([]models.Workspace, []string, error)
	Delete(ctx context.Context, workspaceID uuid.UUID) error
	GetMemberRole(ctx context.Context, workspaceID, userID uuid.UUID) (string, error)
	IsOwner(ctx context.Context, workspaceID, userID uuid.UUID) (bool, error)
	IsMember(ctx context.Context, workspaceID, userID uuid.UUID) (bool, error)
	CanAccess(ctx context.Context, workspaceID, userID uuid.UUID) (bool, error)
	GetMembers(ctx context.Context, workspaceID uuid.UUID) ([]models.WorkspaceMember, error)
	AddMember(ctx context.Context, workspaceID, userID uuid.UUID) error
	RemoveMember(ctx context.Context, workspaceID, userID uuid.UUID) error
}

// ProjectServiceInterface defines the methods used by handlers from ProjectService
type ProjectServiceInterface interface {
	Create(ctx context.Context, workspaceID uuid.UUID, name string, code, description, address *string, creatorID uuid.UUID) (*models.Project, error)
	GetByID(ctx context.Context, projectID uuid.UUID) (*models.Project, error)
	GetByWorkspace(ctx context.Context, workspaceID uuid.UUID) ([]models.Project, error)
	Delete(ctx context.Context, projectID uuid.UUID) error
}

// TaskServiceInterface defines the methods used by handlers from TaskService
type TaskServiceInterface interface {
	GetByProject(ctx context.Context, projectID uuid.UUID) ([]models.Task, error)
	GetByID(ctx context.Context, taskID uuid.UUID) (*models.Task, error)
	Create(ctx context.Context, workspaceID, projectID uuid.UUID, title string, description *string, priority string, dueDate *time.Time, creatorID uuid.UUID, assignees []uuid.UUID) (*models.Task, error)
	UpdateStatus(ctx context.Context, taskID uuid.UUID, status string) error
	Delete(ctx context.Context, taskID uuid.UUID) error
	AddAssignee(ctx context.Context, taskID, userID uuid.UUID) error
	RemoveAssignee(ctx context.Context, taskID, userID uuid.UUID) error
}

// TokenServiceInterface defines the methods used by handlers from TokenService
type TokenServiceInterface interface {
	StoreRefreshToken(ctx context.Context, userID uuid.UUID, tokenHash string, expiresAt time.Time) error
	ValidateRefreshToken(ctx context.Context, tokenHash string) (uuid.UUID, error)
	RevokeRefreshToken(ctx context.Context, tokenHash string) error
	RevokeAllUserTokens(ctx context.Context, userID uuid.UUID) error
}

// JWTServiceInterface defines the methods used by handlers from JWTService
type JWTServiceInterface interface {
	GenerateTokenPair(userID uuid.UUID, email string) (*services.TokenPair, error)
	ValidateRefreshToken(token string) (uuid.UUID, error)
	RefreshExpiry() time.Duration
}
