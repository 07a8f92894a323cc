package server

import (
	"teampot/internal/models"

	"github.com/gofiber/fiber/v2"
)

// CreateSubscription handles POST /api/subscriptions
// @Summary Create a subscription
// @Description Create (or return) the user's subscription in PENDING state
// @Tags subscriptions
// @Accept json
// @Produce json
// @Param request body object{external_customer_id=string} false "Billing provider linkage"
// @Success 201 {object} models.Subscription
// @Router /subscriptions [post]
func (s *Server) CreateSubscription(c *fiber.Ctx) error {
	userID := currentUserID(c)

	var req struct {
		ExternalCustomerID string `json:"external_customer_id"`
	}
	if err := c.BodyParser(&req); err != nil && len(c.Body()) > 0 {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	sub, err := s.subscriptionService.CreateSubscription(c.Context(), userID, req.ExternalCustomerID)
	if err != nil {
		return s.respondServiceError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(sub)
}

// GetMySubscription handles GET /api/subscriptions/me
// @Summary Get my subscription
// @Tags subscriptions
// @Produce json
// @Success 200 {object} object{subscription=models.Subscription,teams=[]models.SubscriptionScope}
// @Failure 404 {object} models.ErrorResponse
// @Router /subscriptions/me [get]
func (s *Server) GetMySubscription(c *fiber.Ctx) error {
	userID := currentUserID(c)

	sub, err := s.subRepo.GetByUserID(c.Context(), userID)
	if err != nil {
		return s.respondServiceError(c, err)
	}

	teams, err := s.subRepo.ListScopes(c.Context(), sub.ID)
	if err != nil {
		return s.respondServiceError(c, err)
	}

	return c.JSON(fiber.Map{
		"subscription": sub,
		"teams":        teams,
	})
}

// CancelSubscription handles POST /api/subscriptions/cancel
// @Summary Cancel my subscription
// @Description Cancel immediately or at the end of the paid period
// @Tags subscriptions
// @Accept json
// @Produce json
// @Param request body object{at_period_end=bool} false "Cancellation mode"
// @Success 200 {object} models.Subscription
// @Failure 404 {object} models.ErrorResponse
// @Router /subscriptions/cancel [post]
func (s *Server) CancelSubscription(c *fiber.Ctx) error {
	userID := currentUserID(c)

	var req struct {
		AtPeriodEnd bool `json:"at_period_end"`
	}
	if err := c.BodyParser(&req); err != nil && len(c.Body()) > 0 {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	sub, err := s.subscriptionService.Cancel(c.Context(), userID, req.AtPeriodEnd)
	if err != nil {
		return s.respondServiceError(c, err)
	}
	return c.JSON(sub)
}

// AddTeamToSubscription handles POST /api/subscriptions/:id/teams/:scopeId
// @Summary Attach a team to a subscription
// @Description Attach a team; rejected when the cap is reached, the requester is not a team admin, or the team is already covered
// @Tags subscriptions
// @Produce json
// @Param id path int true "Subscription ID"
// @Param scopeId path int true "Team scope ID"
// @Success 200 {object} object{message=string}
// @Failure 403 {object} models.ErrorResponse
// @Failure 409 {object} models.ErrorResponse
// @Router /subscriptions/{id}/teams/{scopeId} [post]
func (s *Server) AddTeamToSubscription(c *fiber.Ctx) error {
	userID := currentUserID(c)

	subID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	scopeID, err := s.parseID(c, "scopeId")
	if err != nil {
		return nil
	}

	if err := s.subscriptionService.AddTeamToSubscription(c.Context(), subID, scopeID, userID); err != nil {
		return s.respondServiceError(c, err)
	}
	return c.JSON(fiber.Map{"message": "team added to subscription"})
}

// RemoveTeamFromSubscription handles DELETE /api/subscriptions/:id/teams/:scopeId
// @Summary Detach a team from a subscription
// @Tags subscriptions
// @Produce json
// @Param id path int true "Subscription ID"
// @Param scopeId path int true "Team scope ID"
// @Success 200 {object} object{message=string}
// @Failure 403 {object} models.ErrorResponse
// @Router /subscriptions/{id}/teams/{scopeId} [delete]
func (s *Server) RemoveTeamFromSubscription(c *fiber.Ctx) error {
	userID := currentUserID(c)

	subID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	scopeID, err := s.parseID(c, "scopeId")
	if err != nil {
		return nil
	}

	if err := s.subscriptionService.RemoveTeamFromSubscription(c.Context(), subID, scopeID, userID); err != nil {
		return s.respondServiceError(c, err)
	}
	return c.JSON(fiber.Map{"message": "team removed from subscription"})
}
