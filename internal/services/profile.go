package services

import (
	"context"

	"github.com/cyfrhq/cyfr-api/internal/database"
	"github.com/cyfrhq/cyfr-api/internal/models"
	"github.com/google/uuid"
)

type ProfileService struct {
	db *database.DB
}

func NewProfileService(db *database.DB) *ProfileService {
	return &ProfileService{db: db}
}

func (s *ProfileService) Get(ctx context.Context, userID uuid.UUID) (*models.Profile, error) {
	var profile models.Profile
	err := s.db.Pool.QueryRow(ctx, `
		SELECT id, first_name, second_name, phone, updated_at
		FROM profiles WHERE id = $1
	`, userID).Scan(
		&profile.UserID, &profile.FirstName, &profile.SecondName,
		&profile.Phone, &profile.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &profile, nil
}

// Upsert creates or replaces the profile row keyed by the user id.
func (s *ProfileService) Upsert(ctx context.Context, userID uuid.UUID, firstName, secondName, phone *string) (*models.Profile, error) {
	var profile models.Profile
	err := s.db.Pool.QueryRow(ctx, `
		INSERT INTO profiles (id, first_name, second_name, phone)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (id) DO UPDATE SET
			first_name = EXCLUDED.first_name,
			second_name = EXCLUDED.second_name,
			phone = EXCLUDED.phone,
			updated_at = NOW()
		RETURNING id, first_name, second_name, phone, updated_at
	`, userID, firstName, secondName, phone).Scan(
		&profile.UserID, &profile.FirstName, &profile.SecondName,
		&profile.Phone, &profile.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &profile, nil
}

// GetMany resolves profiles for a set of user ids. Ids without a profile row
// are simply absent from the result; callers render a placeholder for those.
func (s *ProfileService) GetMany(ctx context.Context, userIDs []uuid.UUID) ([]models.Profile, error) {
	if len(userIDs) == 0 {
		return nil, nil
	}

	rows, err := s.db.Pool.Query(ctx, `
		SELECT id, first_name, second_name, phone, updated_at
		FROM profiles WHERE id = ANY($1)
	`, userIDs)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var profiles []models.Profile
	for rows.Next() {
		var p models.Profile
		if err := rows.Scan(&p.UserID, &p.FirstName, &p.SecondName, &p.Phone, &p.UpdatedAt); err != nil {
			return nil, err
		}
		profiles = append(profiles, p)
	}
	return profiles, nil
}
