package server

import (
	"time"

	"teampot/internal/ability"
	"teampot/internal/models"
	"teampot/internal/observability"

	"github.com/gofiber/fiber/v2"
)

// premiumWindow is the lookback used by the premium analytics endpoints.
const premiumWindow = 30 * 24 * time.Hour

// requirePremiumScope validates access and entitlement for a premium endpoint.
// On failure it writes the response and returns errResponseWritten.
func (s *Server) requirePremiumScope(c *fiber.Ctx, scopeID, userID uint) error {
	abilities, err := s.abilityService.ComputeAbilities(c.Context(), userID)
	if err != nil {
		_ = s.respondServiceError(c, err)
		return errResponseWritten
	}
	if abilities.Cannot(ability.ActionAccess, ability.ScopeSubject{ID: scopeID}) {
		_ = models.RespondWithError(c, fiber.StatusNotFound,
			models.NewNotFoundError("Scope", scopeID))
		return errResponseWritten
	}

	entitled, err := s.subscriptionService.HasActiveSubscription(c.Context(), scopeID)
	if err != nil {
		_ = s.respondServiceError(c, err)
		return errResponseWritten
	}
	if !entitled {
		observability.EntitlementChecks.WithLabelValues("denied").Inc()
		_ = models.RespondWithError(c, fiber.StatusPaymentRequired,
			&models.AppError{Code: "SUBSCRIPTION_REQUIRED", Message: "this team needs an active subscription"})
		return errResponseWritten
	}
	observability.EntitlementChecks.WithLabelValues("granted").Inc()
	return nil
}

// GetTeamHealth handles GET /api/scopes/:id/health
// @Summary Team health (premium)
// @Description Summarize recent fines, wins, and payments for an entitled team
// @Tags premium
// @Produce json
// @Param id path int true "Scope ID"
// @Success 200 {object} object{scope_id=int,window_days=int,fines=int,wins=int,payments=int,health=number}
// @Failure 402 {object} models.ErrorResponse
// @Router /scopes/{id}/health [get]
func (s *Server) GetTeamHealth(c *fiber.Ctx) error {
	userID := currentUserID(c)

	scopeID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	if err := s.requirePremiumScope(c, scopeID, userID); err != nil {
		return nil
	}

	since := time.Now().Add(-premiumWindow)
	counts := make(map[models.PostType]int64, 3)
	for _, t := range []models.PostType{models.PostTypeFine, models.PostTypeWin, models.PostTypePayment} {
		var n int64
		if err := s.db.WithContext(c.Context()).
			Model(&models.Post{}).
			Where("scope_id = ? AND type = ? AND created_at >= ?", scopeID, t, since).
			Count(&n).Error; err != nil {
			return s.respondServiceError(c, err)
		}
		counts[t] = n
	}

	// Health is the share of wins among wins and fines. No activity reads
	// as neutral rather than unhealthy.
	health := 0.5
	if total := counts[models.PostTypeWin] + counts[models.PostTypeFine]; total > 0 {
		health = float64(counts[models.PostTypeWin]) / float64(total)
	}

	return c.JSON(fiber.Map{
		"scope_id":    scopeID,
		"window_days": int(premiumWindow.Hours() / 24),
		"fines":       counts[models.PostTypeFine],
		"wins":        counts[models.PostTypeWin],
		"payments":    counts[models.PostTypePayment],
		"health":      health,
	})
}

// GetTeamSentiment handles GET /api/scopes/:id/sentiment
// @Summary Team sentiment trend (premium)
// @Description Weekly win/fine balance over the lookback window for an entitled team
// @Tags premium
// @Produce json
// @Param id path int true "Scope ID"
// @Success 200 {object} object{scope_id=int,weeks=[]object}
// @Failure 402 {object} models.ErrorResponse
// @Router /scopes/{id}/sentiment [get]
func (s *Server) GetTeamSentiment(c *fiber.Ctx) error {
	userID := currentUserID(c)

	scopeID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	if err := s.requirePremiumScope(c, scopeID, userID); err != nil {
		return nil
	}

	now := time.Now()
	weeks := make([]fiber.Map, 0, 4)
	for i := 3; i >= 0; i-- {
		start := now.Add(-time.Duration(i+1) * 7 * 24 * time.Hour)
		end := now.Add(-time.Duration(i) * 7 * 24 * time.Hour)

		var wins, fines int64
		if err := s.db.WithContext(c.Context()).
			Model(&models.Post{}).
			Where("scope_id = ? AND type = ? AND created_at >= ? AND created_at < ?",
				scopeID, models.PostTypeWin, start, end).
			Count(&wins).Error; err != nil {
			return s.respondServiceError(c, err)
		}
		if err := s.db.WithContext(c.Context()).
			Model(&models.Post{}).
			Where("scope_id = ? AND type = ? AND created_at >= ? AND created_at < ?",
				scopeID, models.PostTypeFine, start, end).
			Count(&fines).Error; err != nil {
			return s.respondServiceError(c, err)
		}

		sentiment := "neutral"
		switch {
		case wins > fines:
			sentiment = "positive"
		case fines > wins:
			sentiment = "negative"
		}

		weeks = append(weeks, fiber.Map{
			"start":     start,
			"end":       end,
			"wins":      wins,
			"fines":     fines,
			"sentiment": sentiment,
		})
	}

	return c.JSON(fiber.Map{
		"scope_id": scopeID,
		"weeks":    weeks,
	})
}
