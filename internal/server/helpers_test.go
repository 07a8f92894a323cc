package server

import (
	"errors"
	"testing"

	"teampot/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
)

func TestStatusForAppError(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want int
	}{
		{"not found", models.NewNotFoundError("Scope", 1), fiber.StatusNotFound},
		{"validation", models.NewValidationError("bad"), fiber.StatusBadRequest},
		{"unauthorized", models.NewUnauthorizedError("nope"), fiber.StatusUnauthorized},
		{"forbidden", models.NewForbiddenError("nope"), fiber.StatusForbidden},
		{"not admin", &models.AppError{Code: "NOT_ADMIN", Message: "nope"}, fiber.StatusForbidden},
		{"capacity", &models.AppError{Code: "MAX_TEAMS_REACHED", Message: "full"}, fiber.StatusConflict},
		{"already subscribed", &models.AppError{Code: "TEAM_ALREADY_SUBSCRIBED", Message: "dup"}, fiber.StatusConflict},
		{"plain error", errors.New("boom"), fiber.StatusInternalServerError},
		{"unknown code", &models.AppError{Code: "WAT", Message: "?"}, fiber.StatusInternalServerError},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, statusForAppError(tc.err))
		})
	}
}

func TestHumanizeParam(t *testing.T) {
	assert.Equal(t, "ID", humanizeParam("id"))
	assert.Equal(t, "user ID", humanizeParam("userId"))
	assert.Equal(t, "scope ID", humanizeParam("scopeId"))
	assert.Equal(t, "slug", humanizeParam("slug"))
}
