package server

import (
	"teampot/internal/models"

	"github.com/gofiber/fiber/v2"
)

// CreateScopePost handles POST /api/scopes/:id/posts
// @Summary Create a pot entry
// @Description Record a fine, win, or payment addressed to a scope member
// @Tags posts
// @Accept json
// @Produce json
// @Param id path int true "Scope ID"
// @Param request body object{type=string,recipient_id=int,amount_cents=int,note=string} true "Post attributes"
// @Success 201 {object} models.Post
// @Failure 400 {object} models.ErrorResponse
// @Failure 403 {object} models.ErrorResponse
// @Router /scopes/{id}/posts [post]
func (s *Server) CreateScopePost(c *fiber.Ctx) error {
	userID := currentUserID(c)

	scopeID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	var req struct {
		Type        models.PostType `json:"type"`
		RecipientID uint            `json:"recipient_id"`
		AmountCents int             `json:"amount_cents"`
		Note        string          `json:"note"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}
	if req.RecipientID == 0 {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("recipient_id is required"))
	}

	post := &models.Post{
		ScopeID:     scopeID,
		Type:        req.Type,
		AuthorID:    userID,
		RecipientID: req.RecipientID,
		AmountCents: req.AmountCents,
		Note:        req.Note,
	}

	created, err := s.postService.CreatePost(c.Context(), post)
	if err != nil {
		return s.respondServiceError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(created)
}

// GetScopePosts handles GET /api/scopes/:id/posts
// @Summary List a scope's pot entries
// @Description List posts the viewer may read; authors are withheld where the viewer lacks view_author
// @Tags posts
// @Produce json
// @Param id path int true "Scope ID"
// @Param limit query int false "Page size"
// @Param offset query int false "Offset"
// @Success 200 {array} models.Post
// @Failure 404 {object} models.ErrorResponse
// @Router /scopes/{id}/posts [get]
func (s *Server) GetScopePosts(c *fiber.Ctx) error {
	userID := currentUserID(c)

	scopeID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	page := parsePagination(c, 50)
	posts, err := s.postService.ListScopePosts(c.Context(), scopeID, userID, page.Limit, page.Offset)
	if err != nil {
		return s.respondServiceError(c, err)
	}
	return c.JSON(posts)
}
