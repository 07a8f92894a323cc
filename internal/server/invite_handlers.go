package server

import (
	"teampot/internal/models"

	"github.com/gofiber/fiber/v2"
)

// CreateInvite handles POST /api/invites
// @Summary Create an invitation
// @Description Create (or reuse) an invitation link for a scope with a default role
// @Tags invites
// @Accept json
// @Produce json
// @Param request body object{scope_id=int,default_role=string} true "Invitation attributes"
// @Success 201 {object} models.Invitation
// @Failure 400 {object} models.ErrorResponse
// @Failure 403 {object} models.ErrorResponse
// @Router /invites [post]
func (s *Server) CreateInvite(c *fiber.Ctx) error {
	userID := currentUserID(c)

	var req struct {
		ScopeID     uint        `json:"scope_id"`
		DefaultRole models.Role `json:"default_role"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}
	if req.ScopeID == 0 {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("scope_id is required"))
	}
	if req.DefaultRole == "" {
		req.DefaultRole = models.RoleMember
	}

	invite, err := s.invitationService.CreateInvite(c.Context(), req.ScopeID, req.DefaultRole, userID)
	if err != nil {
		return s.respondServiceError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(invite)
}

// AcceptInvite handles POST /api/invites/:hash/accept
// @Summary Accept an invitation
// @Description Join the invited scope with the invitation's default role; existing members keep their role
// @Tags invites
// @Produce json
// @Param hash path string true "Invitation hash"
// @Success 200 {object} models.ScopeRole
// @Failure 404 {object} models.ErrorResponse
// @Router /invites/{hash}/accept [post]
func (s *Server) AcceptInvite(c *fiber.Ctx) error {
	userID := currentUserID(c)
	hash := c.Params("hash")

	role, err := s.invitationService.AcceptInvite(c.Context(), hash, userID)
	if err != nil {
		return s.respondServiceError(c, err)
	}
	return c.JSON(role)
}
