package server

import (
	"teampot/internal/ability"
	"teampot/internal/models"
	"teampot/internal/observability"

	"github.com/gofiber/fiber/v2"
)

// CreateSpace handles POST /api/scopes/spaces
// @Summary Create a space
// @Description Create a root space; the creator becomes its admin
// @Tags scopes
// @Accept json
// @Produce json
// @Param request body object{name=string,slug=string} true "Space attributes"
// @Success 201 {object} models.Scope
// @Failure 400 {object} models.ErrorResponse
// @Router /scopes/spaces [post]
func (s *Server) CreateSpace(c *fiber.Ctx) error {
	userID := currentUserID(c)

	var req struct {
		Name string `json:"name"`
		Slug string `json:"slug"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	scope, err := s.scopeService.CreateSpace(c.Context(), req.Name, req.Slug, userID)
	if err != nil {
		return s.respondServiceError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(scope)
}

// CreateTeam handles POST /api/scopes/spaces/:id/teams
// @Summary Create a team
// @Description Create a team under a space; requires edit on the space
// @Tags scopes
// @Accept json
// @Produce json
// @Param id path int true "Space ID"
// @Param request body object{name=string,slug=string} true "Team attributes"
// @Success 201 {object} models.Scope
// @Failure 403 {object} models.ErrorResponse
// @Router /scopes/spaces/{id}/teams [post]
func (s *Server) CreateTeam(c *fiber.Ctx) error {
	userID := currentUserID(c)

	spaceID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	var req struct {
		Name string `json:"name"`
		Slug string `json:"slug"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	scope, err := s.scopeService.CreateTeam(c.Context(), spaceID, req.Name, req.Slug, userID)
	if err != nil {
		return s.respondServiceError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(scope)
}

// GetMyScopes handles GET /api/scopes/me
// @Summary List my scopes
// @Description List scopes the user belongs to, including admin standing derived from parent spaces
// @Tags scopes
// @Produce json
// @Success 200 {object} object{roles=[]models.ScopeRole,derived=[]object}
// @Router /scopes/me [get]
func (s *Server) GetMyScopes(c *fiber.Ctx) error {
	userID := currentUserID(c)

	roles, err := s.roleRepo.GetRolesForUser(c.Context(), userID)
	if err != nil {
		return s.respondServiceError(c, err)
	}

	// Scopes where the user is not a member but holds derived admin
	// standing through a parent space.
	superIDs := ability.SuperScopeIDs(roles)
	children, err := s.scopeRepo.GetChildScopes(c.Context(), superIDs)
	if err != nil {
		return s.respondServiceError(c, err)
	}

	explicit := make(map[uint]struct{}, len(roles))
	for _, r := range roles {
		explicit[r.ScopeID] = struct{}{}
	}
	derived := make([]fiber.Map, 0)
	for _, child := range children {
		if _, ok := explicit[child.ID]; ok {
			continue
		}
		derived = append(derived, fiber.Map{
			"scope": child,
			"role":  models.RoleAdmin,
		})
	}

	return c.JSON(fiber.Map{
		"roles":   roles,
		"derived": derived,
	})
}

// GetScopeBySlug handles GET /api/scopes/slug/:slug
// @Summary Get scope by slug
// @Tags scopes
// @Produce json
// @Param slug path string true "Scope slug"
// @Success 200 {object} models.Scope
// @Failure 404 {object} models.ErrorResponse
// @Router /scopes/slug/{slug} [get]
func (s *Server) GetScopeBySlug(c *fiber.Ctx) error {
	userID := currentUserID(c)
	slug := c.Params("slug")

	scope, err := s.scopeRepo.GetBySlug(c.Context(), slug)
	if err != nil {
		return s.respondServiceError(c, err)
	}

	abilities, err := s.abilityService.ComputeAbilities(c.Context(), userID)
	if err != nil {
		return s.respondServiceError(c, err)
	}
	if abilities.Cannot(ability.ActionAccess, ability.ScopeSubject{ID: scope.ID}) {
		// Hide existence from outsiders.
		return models.RespondWithError(c, fiber.StatusNotFound,
			models.NewNotFoundError("Scope", slug))
	}

	return c.JSON(scope)
}

// LeaveSpace handles POST /api/scopes/spaces/:id/leave
// @Summary Leave a space
// @Description Remove the user from the space and every team under it
// @Tags scopes
// @Produce json
// @Param id path int true "Space ID"
// @Success 200 {object} object{message=string}
// @Failure 400 {object} models.ErrorResponse
// @Router /scopes/spaces/{id}/leave [post]
func (s *Server) LeaveSpace(c *fiber.Ctx) error {
	userID := currentUserID(c)

	spaceID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	if err := s.membershipService.LeaveSpace(c.Context(), spaceID, userID); err != nil {
		return s.respondServiceError(c, err)
	}
	return c.JSON(fiber.Map{"message": "left space"})
}

// RemoveMember handles DELETE /api/scopes/:id/members/:userId
// @Summary Remove a member from a scope
// @Description Remove a user's role; cascades content cleanup, admin succession, and empty-scope deletion
// @Tags scopes
// @Produce json
// @Param id path int true "Scope ID"
// @Param userId path int true "User ID"
// @Success 200 {object} object{message=string}
// @Failure 403 {object} models.ErrorResponse
// @Router /scopes/{id}/members/{userId} [delete]
func (s *Server) RemoveMember(c *fiber.Ctx) error {
	actorID := currentUserID(c)

	scopeID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	targetID, err := s.parseID(c, "userId")
	if err != nil {
		return nil
	}

	// Anyone can remove themselves; removing others requires edit.
	if targetID != actorID {
		abilities, err := s.abilityService.ComputeAbilities(c.Context(), actorID)
		if err != nil {
			return s.respondServiceError(c, err)
		}
		if abilities.Cannot(ability.ActionEdit, ability.ScopeSubject{ID: scopeID}) {
			observability.AbilityChecks.WithLabelValues(string(ability.ActionEdit), "deny").Inc()
			return models.RespondWithError(c, fiber.StatusForbidden,
				models.NewForbiddenError("you cannot manage members of this scope"))
		}
		observability.AbilityChecks.WithLabelValues(string(ability.ActionEdit), "allow").Inc()
	}

	if err := s.membershipService.RemoveUserFromScope(c.Context(), scopeID, targetID); err != nil {
		return s.respondServiceError(c, err)
	}
	return c.JSON(fiber.Map{"message": "member removed"})
}

// ChangeMemberRole handles PUT /api/scopes/:id/members/:userId/role
// @Summary Change a member's role
// @Tags scopes
// @Accept json
// @Produce json
// @Param id path int true "Scope ID"
// @Param userId path int true "User ID"
// @Param request body object{role=string} true "New role"
// @Success 200 {object} object{message=string}
// @Failure 400 {object} models.ErrorResponse
// @Failure 403 {object} models.ErrorResponse
// @Router /scopes/{id}/members/{userId}/role [put]
func (s *Server) ChangeMemberRole(c *fiber.Ctx) error {
	actorID := currentUserID(c)

	scopeID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	targetID, err := s.parseID(c, "userId")
	if err != nil {
		return nil
	}

	var req struct {
		Role models.Role `json:"role"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	if err := s.scopeService.ChangeRole(c.Context(), scopeID, targetID, req.Role, actorID); err != nil {
		return s.respondServiceError(c, err)
	}
	return c.JSON(fiber.Map{"message": "role updated"})
}

// SetPostPermission handles PUT /api/scopes/:id/permissions
// @Summary Narrow a post permission
// @Description Restrict which roles may perform a post action for a post type in this scope
// @Tags scopes
// @Accept json
// @Produce json
// @Param id path int true "Scope ID"
// @Param request body object{action=string,post_type=string,roles=[]string} true "Permission override"
// @Success 200 {object} models.ScopePostPermission
// @Failure 400 {object} models.ErrorResponse
// @Failure 403 {object} models.ErrorResponse
// @Router /scopes/{id}/permissions [put]
func (s *Server) SetPostPermission(c *fiber.Ctx) error {
	actorID := currentUserID(c)

	scopeID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	var req struct {
		Action   models.PostAction `json:"action"`
		PostType models.PostType   `json:"post_type"`
		Roles    []models.Role     `json:"roles"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	perm, err := s.scopeService.SetPostPermission(c.Context(), scopeID, req.Action, req.PostType, req.Roles, actorID)
	if err != nil {
		return s.respondServiceError(c, err)
	}
	return c.JSON(perm)
}

// ClearPostPermission handles DELETE /api/scopes/:id/permissions
// @Summary Clear a post permission override
// @Description Restore the role-tier default for a post action and type
// @Tags scopes
// @Produce json
// @Param id path int true "Scope ID"
// @Param action query string true "Post action"
// @Param post_type query string true "Post type"
// @Success 200 {object} object{message=string}
// @Failure 403 {object} models.ErrorResponse
// @Router /scopes/{id}/permissions [delete]
func (s *Server) ClearPostPermission(c *fiber.Ctx) error {
	actorID := currentUserID(c)

	scopeID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	action := models.PostAction(c.Query("action"))
	postType := models.PostType(c.Query("post_type"))

	if err := s.scopeService.ClearPostPermission(c.Context(), scopeID, action, postType, actorID); err != nil {
		return s.respondServiceError(c, err)
	}
	return c.JSON(fiber.Map{"message": "permission override cleared"})
}
