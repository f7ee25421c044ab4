package testutil

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/cyfrhq/cyfr-api/internal/database"
	"github.com/cyfrhq/cyfr-api/internal/models"
	"github.com/cyfrhq/cyfr-api/internal/oauth"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// Fixtures provides factory methods for creating test data
type Fixtures struct {
	db      *database.DB
	counter int
}

// NewFixtures creates a new fixtures factory
func NewFixtures(db *database.DB) *Fixtures {
	return &Fixtures{db: db}
}

// CreateUser creates a test user with default values
func (f *Fixtures) CreateUser(t *testing.T, opts ...UserOption) *models.User {
	t.Helper()
	f.counter++

	user := &models.User{
		Email:    fmt.Sprintf("user%d@example.com", f.counter),
		Provider: models.ProviderLocal,
	}

	for _, opt := range opts {
		opt(user)
	}

	ctx := context.Background()
	err := f.db.Pool.QueryRow(ctx, `
		INSERT INTO users (email, password_hash, provider, provider_id)
		VALUES ($1, $2, $3, $4)
		RETURNING id, email, password_hash, provider, provider_id, created_at, updated_at
	`, user.Email, user.PasswordHash, user.Provider, user.ProviderID).Scan(
		&user.ID, &user.Email, &user.PasswordHash,
		&user.Provider, &user.ProviderID, &user.CreatedAt, &user.UpdatedAt,
	)
	if err != nil {
		t.Fatalf("failed to create user: %v", err)
	}

	return user
}

// UserOption configures a test user
type UserOption func(*models.User)

// WithEmail sets the user's email
func WithEmail(email string) UserOption {
	return func(u *models.User) {
		u.Email = email
	}
}

// WithPassword stores a bcrypt hash of the given password
func WithPassword(t *testing.T, password string) UserOption {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("failed to hash password: %v", err)
	}
	hashStr := string(hash)
	return func(u *models.User) {
		u.PasswordHash = &hashStr
	}
}

// WithOAuthProvider marks the user as created through an OAuth provider
func WithOAuthProvider(provider, providerID string) UserOption {
	return func(u *models.User) {
		u.Provider = provider
		u.ProviderID = &providerID
		u.PasswordHash = nil
	}
}

// CreateProfile upserts a profile row for the user
func (f *Fixtures) CreateProfile(t *testing.T, userID uuid.UUID, firstName, secondName string) *models.Profile {
	t.Helper()
	ctx := context.Background()

	profile := &models.Profile{}
	err := f.db.Pool.QueryRow(ctx, `
		INSERT INTO profiles (id, first_name, second_name)
		VALUES ($1, $2, $3)
		ON CONFLICT (id) DO UPDATE SET first_name = $2, second_name = $3, updated_at = NOW()
		RETURNING id, first_name, second_name, phone, updated_at
	`, userID, firstName, secondName).Scan(
		&profile.UserID, &profile.FirstName, &profile.SecondName, &profile.Phone, &profile.UpdatedAt,
	)
	if err != nil {
		t.Fatalf("failed to create profile: %v", err)
	}

	return profile
}

// CreateWorkspace creates a test workspace with the creator's owner membership
func (f *Fixtures) CreateWorkspace(t *testing.T, owner *models.User, opts ...WorkspaceOption) *models.Workspace {
	t.Helper()
	f.counter++

	ws := &models.Workspace{
		Name:      fmt.Sprintf("Test Workspace %d", f.counter),
		CreatedBy: owner.ID,
	}

	for _, opt := range opts {
		opt(ws)
	}

	ctx := context.Background()
	tx, err := f.db.Pool.Begin(ctx)
	if err != nil {
		t.Fatalf("failed to begin transaction: %v", err)
	}
	defer tx.Rollback(ctx)

	err = tx.QueryRow(ctx, `
		INSERT INTO workspaces (name, description, created_by)
		VALUES ($1, $2, $3)
		RETURNING id, name, description, created_by, created_at, updated_at
	`, ws.Name, ws.Description, ws.CreatedBy).Scan(
		&ws.ID, &ws.Name, &ws.Description, &ws.CreatedBy, &ws.CreatedAt, &ws.UpdatedAt,
	)
	if err != nil {
		t.Fatalf("failed to create workspace: %v", err)
	}

	_, err = tx.Exec(ctx, `
		INSERT INTO workspace_members (workspace_id, user_id, role)
		VALUES ($1, $2, $3)
	`, ws.ID, owner.ID, models.RoleOwner)
	if err != nil {
		t.Fatalf("failed to add owner as member: %v", err)
	}

	if err := tx.Commit(ctx); err != nil {
		t.Fatalf("failed to commit transaction: %v", err)
	}

	return ws
}

// WorkspaceOption configures a test workspace
type WorkspaceOption func(*models.Workspace)

// WithWorkspaceName sets the workspace name
func WithWorkspaceName(name string) WorkspaceOption {
	return func(w *models.Workspace) {
		w.Name = name
	}
}

// WithWorkspaceDescription sets the workspace description
func WithWorkspaceDescription(description string) WorkspaceOption {
	return func(w *models.Workspace) {
		w.Description = &description
	}
}

// AddWorkspaceMember adds a member role to a workspace
func (f *Fixtures) AddWorkspaceMember(t *testing.T, ws *models.Workspace, user *models.User) {
	t.Helper()
	ctx := context.Background()

	_, err := f.db.Pool.Exec(ctx, `
		INSERT INTO workspace_members (workspace_id, user_id, role)
		VALUES ($1, $2, $3)
		ON CONFLICT (workspace_id, user_id) DO NOTHING
	`, ws.ID, user.ID, models.RoleMember)
	if err != nil {
		t.Fatalf("failed to add workspace member: %v", err)
	}
}

// CreateProject creates a test project in a workspace
func (f *Fixtures) CreateProject(t *testing.T, ws *models.Workspace, creator *models.User, opts ...ProjectOption) *models.Project {
	t.Helper()
	f.counter++

	project := &models.Project{
		WorkspaceID: ws.ID,
		Name:        fmt.Sprintf("Test Project %d", f.counter),
		CreatedBy:   creator.ID,
	}

	for _, opt := range opts {
		opt(project)
	}

	ctx := context.Background()
	err := f.db.Pool.QueryRow(ctx, `
		INSERT INTO projects (workspace_id, name, code, description, address, created_by)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, workspace_id, name, code, description, address, status, created_by, created_at, updated_at
	`, project.WorkspaceID, project.Name, project.Code, project.Description, project.Address, project.CreatedBy).Scan(
		&project.ID, &project.WorkspaceID, &project.Name, &project.Code, &project.Description,
		&project.Address, &project.Status, &project.CreatedBy, &project.CreatedAt, &project.UpdatedAt,
	)
	if err != nil {
		t.Fatalf("failed to create project: %v", err)
	}

	return project
}

// ProjectOption configures a test project
type ProjectOption func(*models.Project)

// WithProjectName sets the project name
func WithProjectName(name string) ProjectOption {
	return func(p *models.Project) {
		p.Name = name
	}
}

// WithProjectCode sets the project code
func WithProjectCode(code string) ProjectOption {
	return func(p *models.Project) {
		p.Code = &code
	}
}

// CreateTask creates a test task in a project
func (f *Fixtures) CreateTask(t *testing.T, project *models.Project, creator *models.User, opts ...TaskOption) *models.Task {
	t.Helper()
	f.counter++

	task := &models.Task{
		WorkspaceID: project.WorkspaceID,
		ProjectID:   project.ID,
		Title:       fmt.Sprintf("Test Task %d", f.counter),
		Status:      models.TaskStatusTodo,
		Priority:    models.TaskPriorityNormal,
		CreatedBy:   creator.ID,
	}

	for _, opt := range opts {
		opt(task)
	}

	ctx := context.Background()
	err := f.db.Pool.QueryRow(ctx, `
		INSERT INTO tasks (workspace_id, project_id, title, description, status, priority, due_date, created_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, workspace_id, project_id, title, description, status, priority, due_date, created_by, created_at, updated_at
	`, task.WorkspaceID, task.ProjectID, task.Title, task.Description, task.Status, task.Priority, task.DueDate, task.CreatedBy).Scan(
		&task.ID, &task.WorkspaceID, &task.ProjectID, &task.Title, &task.Description,
		&task.Status, &task.Priority, &task.DueDate, &task.CreatedBy, &task.CreatedAt, &task.UpdatedAt,
	)
	if err != nil {
		t.Fatalf("failed to create task: %v", err)
	}

	task.Assignees = []uuid.UUID{}
	return task
}

// TaskOption configures a test task
type TaskOption func(*models.Task)

// WithTaskTitle sets the task title
func WithTaskTitle(title string) TaskOption {
	return func(task *models.Task) {
		task.Title = title
	}
}

// WithTaskStatus sets the task status
func WithTaskStatus(status string) TaskOption {
	return func(task *models.Task) {
		task.Status = status
	}
}

// AddTaskAssignee records an assignee for a task
func (f *Fixtures) AddTaskAssignee(t *testing.T, task *models.Task, user *models.User) {
	t.Helper()
	ctx := context.Background()

	_, err := f.db.Pool.Exec(ctx, `
		INSERT INTO task_assignees (task_id, user_id)
		VALUES ($1, $2)
		ON CONFLICT (task_id, user_id) DO NOTHING
	`, task.ID, user.ID)
	if err != nil {
		t.Fatalf("failed to add task assignee: %v", err)
	}
}

// CreateRefreshToken creates a test refresh token
func (f *Fixtures) CreateRefreshToken(t *testing.T, userID uuid.UUID, tokenHash string, expiresAt time.Time) {
	t.Helper()
	ctx := context.Background()

	_, err := f.db.Pool.Exec(ctx, `
		INSERT INTO refresh_tokens (user_id, token_hash, expires_at)
		VALUES ($1, $2, $3)
	`, userID, tokenHash, expiresAt)
	if err != nil {
		t.Fatalf("failed to create refresh token: %v", err)
	}
}

// OAuthUserInfo creates test OAuth user info
func OAuthUserInfo(email, provider, id string) *oauth.UserInfo {
	return &oauth.UserInfo{
		Email:    email,
		ID:       id,
		Provider: provider,
	}
}
