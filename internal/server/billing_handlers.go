package server

import (
	"crypto/subtle"

	"teampot/internal/models"
	"teampot/internal/observability"
	"teampot/internal/service"

	"github.com/gofiber/fiber/v2"
)

// billingEventRequest is the payload posted by the billing provider webhook.
type billingEventRequest struct {
	Event string `json:"event"`
	Data  struct {
		Reference        string `json:"reference"`
		AmountCents      int    `json:"amount_cents"`
		CustomerID       string `json:"customer_id"`
		SubscriptionCode string `json:"subscription_code"`
	} `json:"data"`
}

// BillingEvent handles POST /api/billing/events
// @Summary Billing provider webhook
// @Description Process payment and subscription lifecycle events from the billing provider
// @Tags billing
// @Accept json
// @Produce json
// @Param X-Billing-Signature header string true "Shared webhook secret"
// @Param request body billingEventRequest true "Provider event"
// @Success 200 {object} object{message=string}
// @Failure 401 {object} models.ErrorResponse
// @Router /billing/events [post]
func (s *Server) BillingEvent(c *fiber.Ctx) error {
	secret := s.config.BillingSecret
	if secret != "" {
		signature := c.Get("X-Billing-Signature")
		if subtle.ConstantTimeCompare([]byte(signature), []byte(secret)) != 1 {
			return models.RespondWithError(c, fiber.StatusUnauthorized,
				models.NewUnauthorizedError("Invalid webhook signature"))
		}
	}

	var req billingEventRequest
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	event := service.PaymentEvent{
		Reference:        req.Data.Reference,
		AmountCents:      req.Data.AmountCents,
		CustomerID:       req.Data.CustomerID,
		SubscriptionCode: req.Data.SubscriptionCode,
	}

	var err error
	switch req.Event {
	case "charge.success":
		err = s.subscriptionService.HandlePaymentSucceeded(c.Context(), event)
	case "invoice.payment_failed":
		err = s.subscriptionService.HandlePaymentFailed(c.Context(), event)
	case "subscription.disable":
		err = s.subscriptionService.HandleSubscriptionDisabled(c.Context(), req.Data.SubscriptionCode)
	default:
		// Unknown events are acknowledged so the provider stops retrying.
		observability.BillingEvents.WithLabelValues("ignored").Inc()
		return c.JSON(fiber.Map{"message": "event ignored"})
	}

	if err != nil {
		return s.respondServiceError(c, err)
	}

	observability.BillingEvents.WithLabelValues(req.Event).Inc()
	observability.LogBillingEvent(c.UserContext(), req.Event, req.Data.Reference, nil)
	return c.JSON(fiber.Map{"message": "event processed"})
}
