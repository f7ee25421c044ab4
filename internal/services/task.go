package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cyfrhq/cyfr-api/internal/database"
	"github.com/cyfrhq/cyfr-api/internal/models"
	"github.com/google/uuid"
)

var ErrTaskNotFound = errors.New("task not found")

type TaskService struct {
	db *database.DB
}

func NewTaskService(db *database.DB) *TaskService {
	return &TaskService{db: db}
}

// GetByProject returns the project's tasks in creation order, each joined
// with its assignee id set.
func (s *TaskService) GetByProject(ctx context.Context, projectID uuid.UUID) ([]models.Task, error) {
	rows, err := s.db.Pool.Query(ctx, `
		SELECT id, workspace_id, project_id, title, description, status, priority, due_date, created_by, created_at, updated_at
		FROM tasks
		WHERE project_id = $1
		ORDER BY created_at ASC
	`, projectID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tasks []models.Task
	for rows.Next() {
		var t models.Task
		if err := rows.Scan(
			&t.ID, &t.WorkspaceID, &t.ProjectID, &t.Title, &t.Description,
			&t.Status, &t.Priority, &t.DueDate, &t.CreatedBy, &t.CreatedAt, &t.UpdatedAt,
		); err != nil {
			return nil, err
		}
		t.Assignees = []uuid.UUID{}
		tasks = append(tasks, t)
	}
	rows.Close()

	if len(tasks) == 0 {
		return tasks, nil
	}

	taskIDs := make([]uuid.UUID, len(tasks))
	index := make(map[uuid.UUID]int, len(tasks))
	for i, t := range tasks {
		taskIDs[i] = t.ID
		index[t.ID] = i
	}

	assigneeRows, err := s.db.Pool.Query(ctx, `
		SELECT task_id, user_id
		FROM task_assignees
		WHERE task_id = ANY($1)
		ORDER BY created_at
	`, taskIDs)
	if err != nil {
		return nil, err
	}
	defer assigneeRows.Close()

	for assigneeRows.Next() {
		var taskID, userID uuid.UUID
		if err := assigneeRows.Scan(&taskID, &userID); err != nil {
			return nil, err
		}
		if i, ok := index[taskID]; ok {
			tasks[i].Assignees = append(tasks[i].Assignees, userID)
		}
	}

	return tasks, nil
}

func (s *TaskService) GetByID(ctx context.Context, taskID uuid.UUID) (*models.Task, error) {
	var t models.Task
	err := s.db.Pool.QueryRow(ctx, `
		SELECT id, workspace_id, project_id, title, description, status, priority, due_date, created_by, created_at, updated_at
		FROM tasks WHERE id = $1
	`, taskID).Scan(
		&t.ID, &t.WorkspaceID, &t.ProjectID, &t.Title, &t.Description,
		&t.Status, &t.Priority, &t.DueDate, &t.CreatedBy, &t.CreatedAt, &t.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	t.Assignees = []uuid.UUID{}
	rows, err := s.db.Pool.Query(ctx, `
		SELECT user_id FROM task_assignees WHERE task_id = $1 ORDER BY created_at
	`, taskID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var userID uuid.UUID
		if err := rows.Scan(&userID); err != nil {
			return nil, err
		}
		t.Assignees = append(t.Assignees, userID)
	}

	return &t, nil
}

// Create inserts the task with status "todo", then records the initial
// assignees. A failed task insert aborts; a failed assignee insert after a
// successful task insert is accepted, and the task is returned with whatever
// assignees were actually recorded.
func (s *TaskService) Create(ctx context.Context, workspaceID, projectID uuid.UUID, title string, description *string, priority string, dueDate *time.Time, creatorID uuid.UUID, assignees []uuid.UUID) (*models.Task, error) {
	var t models.Task
	err := s.db.Pool.QueryRow(ctx, `
		INSERT INTO tasks (workspace_id, project_id, title, description, status, priority, due_date, created_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, workspace_id, project_id, title, description, status, priority, due_date, created_by, created_at, updated_at
	`, workspaceID, projectID, title, description, models.TaskStatusTodo, priority, dueDate, creatorID).Scan(
		&t.ID, &t.WorkspaceID, &t.ProjectID, &t.Title, &t.Description,
		&t.Status, &t.Priority, &t.DueDate, &t.CreatedBy, &t.CreatedAt, &t.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create task: %w", err)
	}

	t.Assignees = []uuid.UUID{}
	for _, userID := range assignees {
		if err := s.AddAssignee(ctx, t.ID, userID); err != nil {
			continue
		}
		t.Assignees = append(t.Assignees, userID)
	}

	return &t, nil
}

func (s *TaskService) UpdateStatus(ctx context.Context, taskID uuid.UUID, status string) error {
	result, err := s.db.Pool.Exec(ctx, `
		UPDATE tasks SET status = $1, updated_at = NOW() WHERE id = $2
	`, status, taskID)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return ErrTaskNotFound
	}
	return nil
}

func (s *TaskService) Delete(ctx context.Context, taskID uuid.UUID) error {
	result, err := s.db.Pool.Exec(ctx, `DELETE FROM tasks WHERE id = $1`, taskID)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return ErrTaskNotFound
	}
	return nil
}

// AddAssignee is idempotent: assigning an already-assigned user is a no-op,
// so rapid repeated toggles converge instead of erroring.
func (s *TaskService) AddAssignee(ctx context.Context, taskID, userID uuid.UUID) error {
	_, err := s.db.Pool.Exec(ctx, `
		INSERT INTO task_assignees (task_id, user_id)
		VALUES ($1, $2)
		ON CONFLICT (task_id, user_id) DO NOTHING
	`, taskID, userID)
	return err
}

// RemoveAssignee is idempotent for the same reason.
func (s *TaskService) RemoveAssignee(ctx context.Context, taskID, userID uuid.UUID) error {
	_, err := s.db.Pool.Exec(ctx, `
		DELETE FROM task_assignees WHERE task_id = $1 AND user_id = $2
	`, taskID, userID)
	return err
}
