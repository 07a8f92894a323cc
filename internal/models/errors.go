package models

import (
	"fmt"

	"github.com/gofiber/fiber/v2"
)

// ErrorResponse represents a standardized API error response
type ErrorResponse struct {
	Error   string `json:"error"`
	Code    string `json:"code,omitempty"`
	Details string `json:"details,omitempty"`
}

// AppError represents a custom application error
type AppError struct {
	Code    string
	Message string
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// Predefined error constructors
func NewNotFoundError(resource string, id interface{}) *AppError {
	return &AppError{
		Code:    "NOT_FOUND",
		Message: fmt.Sprintf("%s with ID %v not found", resource, id),
	}
}

func NewValidationError(message string) *AppError {
	return &AppError{
		Code:    "VALIDATION_ERROR",
		Message: message,
	}
}

func NewUnauthorizedError(message string) *AppError {
	return &AppError{
		Code:    "UNAUTHORIZED",
		Message: message,
	}
}

func NewForbiddenError(message string) *AppError {
	return &AppError{
		Code:    "FORBIDDEN",
		Message: message,
	}
}

func NewInternalError(err error) *AppError {
	return &AppError{
		Code:    "INTERNAL_ERROR",
		Message: "Internal server error",
		Err:     err,
	}
}

// Subscription attach rejections. These are invariant violations with
// specific user-facing messages, so they are fixed values rather than
// constructed per call site.
var (
	// ErrMaxTeamsReached rejects attaching a 4th team to a subscription.
	ErrMaxTeamsReached = &AppError{
		Code:    "MAX_TEAMS_REACHED",
		Message: fmt.Sprintf("a subscription covers at most %d teams", MaxScopesPerSubscription),
	}
	// ErrNotAdmin rejects attaching a team the requester does not administer.
	ErrNotAdmin = &AppError{
		Code:    "NOT_ADMIN",
		Message: "only a team admin can add the team to a subscription",
	}
	// ErrTeamAlreadySubscribed rejects attaching a team claimed by any subscription.
	ErrTeamAlreadySubscribed = &AppError{
		Code:    "TEAM_ALREADY_SUBSCRIBED",
		Message: "team is already covered by a subscription",
	}
)

// respondWithError creates a standardized error response
func RespondWithError(c *fiber.Ctx, status int, err error) error {
	var response ErrorResponse

	if appErr, ok := err.(*AppError); ok {
		response = ErrorResponse{
			Error: appErr.Message,
			Code:  appErr.Code,
		}
		if appErr.Err != nil {
			response.Details = appErr.Err.Error()
		}
	} else {
		response = ErrorResponse{
			Error: err.Error(),
		}
	}

	return c.Status(status).JSON(response)
}
