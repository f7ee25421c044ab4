package services

import (
	"context"
	"fmt"

	"github.com/cyfrhq/cyfr-api/internal/database"
	"github.com/cyfrhq/cyfr-api/internal/models"
	"github.com/google/uuid"
)

type ProjectService struct {
	db *database.DB
}

func NewProjectService(db *database.DB) *ProjectService {
	return &ProjectService{db: db}
}

func (s *ProjectService) Create(ctx context.Context, workspaceID uuid.UUID, name string, code, description, address *string, creatorID uuid.UUID) (*models.Project, error) {
	var project models.Project
	err := s.db.Pool.QueryRow(ctx, `
		INSERT INTO projects (workspace_id, name, code, description, address, created_by)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, workspace_id, name, code, description, address, status, created_by, created_at, updated_at
	`, workspaceID, name, code, description, address, creatorID).Scan(
		&project.ID, &project.WorkspaceID, &project.Name, &project.Code,
		&project.Description, &project.Address, &project.Status,
		&project.CreatedBy, &project.CreatedAt, &project.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create project: %w", err)
	}
	return &project, nil
}

func (s *ProjectService) GetByID(ctx context.Context, projectID uuid.UUID) (*models.Project, error) {
	var project models.Project
	err := s.db.Pool.QueryRow(ctx, `
		SELECT id, workspace_id, name, code, description, address, status, created_by, created_at, updated_at
		FROM projects WHERE id = $1
	`, projectID).Scan(
		&project.ID, &project.WorkspaceID, &project.Name, &project.Code,
		&project.Description, &project.Address, &project.Status,
		&project.CreatedBy, &project.CreatedAt, &project.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &project, nil
}

func (s *ProjectService) GetByWorkspace(ctx context.Context, workspaceID uuid.UUID) ([]models.Project, error) {
	rows, err := s.db.Pool.Query(ctx, `
		SELECT id, workspace_id, name, code, description, address, status, created_by, created_at, updated_at
		FROM projects
		WHERE workspace_id = $1
		ORDER BY created_at ASC
	`, workspaceID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var projects []models.Project
	for rows.Next() {
		var p models.Project
		if err := rows.Scan(
			&p.ID, &p.WorkspaceID, &p.Name, &p.Code,
			&p.Description, &p.Address, &p.Status,
			&p.CreatedBy, &p.CreatedAt, &p.UpdatedAt,
		); err != nil {
			return nil, err
		}
		projects = append(projects, p)
	}
	return projects, nil
}

func (s *ProjectService) Delete(ctx context.Context, projectID uuid.UUID) error {
	_, err := s.db.Pool.Exec(ctx, `DELETE FROM projects WHERE id = $1`, projectID)
	return err
}
