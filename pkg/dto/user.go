package dto

import "github.com/google/uuid"

type UserResponse struct {
	ID       uuid.UUID `json:"id"`
	Email    string    `json:"email"`
	Provider string    `json:"provider"`
}

type ProfileResponse struct {
	ID         uuid.UUID `json:"id"`
	FirstName  *string   `json:"first_name,omitempty"`
	SecondName *string   `json:"second_name,omitempty"`
	Phone      *string   `json:"phone,omitempty"`
}

type UpsertProfileRequest struct {
	FirstName  *string `json:"first_name,omitempty"`
	SecondName *string `json:"second_name,omitempty"`
	Phone      string  `json:"phone"`
}

type LookupProfilesRequest struct {
	IDs []uuid.UUID `json:"ids"`
}
