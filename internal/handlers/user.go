package handlers

import (
	"context"
	"errors"
	"regexp"
	"strings"

	"github.com/cyfrhq/cyfr-api/internal/middleware"
	"github.com/cyfrhq/cyfr-api/pkg/dto"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/m1z23r/drift/pkg/drift"
)

// Permissive international phone format, e.g. "+971 50 000 00 00".
var phonePattern = regexp.MustCompile(`^\+?[0-9\s\-()]{7,20}$`)

type UserHandler struct {
	userService    UserServiceInterface
	profileService ProfileServiceInterface
}

func NewUserHandler(userService UserServiceInterface, profileService ProfileServiceInterface) *UserHandler {
	return &UserHandler{
		userService:    userService,
		profileService: profileService,
	}
}

func (h *UserHandler) GetMe(c *drift.Context) {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		c.Unauthorized("not authenticated")
		return
	}

	user, err := h.userService.GetByID(context.Background(), userID)
	if err != nil {
		c.NotFound("user not found")
		return
	}

	_ = c.JSON(200, dto.UserResponse{
		ID:       user.ID,
		Email:    user.Email,
		Provider: user.Provider,
	})
}

func (h *UserHandler) GetProfile(c *drift.Context) {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		c.Unauthorized("not authenticated")
		return
	}

	profile, err := h.profileService.Get(context.Background(), userID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			// No profile yet is not an error; the account screen starts blank.
			_ = c.JSON(200, dto.ProfileResponse{ID: userID})
			return
		}
		c.InternalServerError("failed to get profile")
		return
	}

	_ = c.JSON(200, dto.ProfileResponse{
		ID:         profile.UserID,
		FirstName:  profile.FirstName,
		SecondName: profile.SecondName,
		Phone:      profile.Phone,
	})
}

func (h *UserHandler) UpsertProfile(c *drift.Context) {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		c.Unauthorized("not authenticated")
		return
	}

	var req dto.UpsertProfileRequest
	if err := c.BindJSON(&req); err != nil {
		c.BadRequest("invalid request body")
		return
	}

	phone := strings.TrimSpace(req.Phone)
	if phone == "" {
		c.BadRequest("phone is required")
		return
	}
	if !phonePattern.MatchString(phone) {
		c.BadRequest("invalid phone number")
		return
	}

	profile, err := h.profileService.Upsert(context.Background(), userID, req.FirstName, req.SecondName, &phone)
	if err != nil {
		c.InternalServerError("failed to save profile")
		return
	}

	_ = c.JSON(200, dto.ProfileResponse{
		ID:         profile.UserID,
		FirstName:  profile.FirstName,
		SecondName: profile.SecondName,
		Phone:      profile.Phone,
	})
}

// LookupProfiles resolves display data for a batch of user ids. Ids without
// a profile row are omitted; clients render a placeholder for those.
func (h *UserHandler) LookupProfiles(c *drift.Context) {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		c.Unauthorized("not authenticated")
		return
	}

	var req dto.LookupProfilesRequest
	if err := c.BindJSON(&req); err != nil {
		c.BadRequest("invalid request body")
		return
	}

	if len(req.IDs) == 0 {
		_ = c.JSON(200, []dto.ProfileResponse{})
		return
	}

	profiles, err := h.profileService.GetMany(context.Background(), req.IDs)
	if err != nil {
		c.InternalServerError("failed to look up profiles")
		return
	}

	response := make([]dto.ProfileResponse, len(profiles))
	for i, p := range profiles {
		// Phone stays private to the owner; lookups only resolve names.
		response[i] = dto.ProfileResponse{
			ID:         p.UserID,
			FirstName:  p.FirstName,
			SecondName: p.SecondName,
		}
	}

	_ = c.JSON(200, response)
}
