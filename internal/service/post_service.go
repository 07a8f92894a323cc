package service

import (
	"context"

	"teampot/internal/ability"
	"teampot/internal/models"
	"teampot/internal/repository"
)

// PostService writes and reads pot entries under ability control.
type PostService struct {
	postRepo  repository.PostRepository
	roleRepo  repository.RoleRepository
	abilities *AbilityService
}

// NewPostService returns a new PostService.
func NewPostService(postRepo repository.PostRepository, roleRepo repository.RoleRepository, abilities *AbilityService) *PostService {
	return &PostService{
		postRepo:  postRepo,
		roleRepo:  roleRepo,
		abilities: abilities,
	}
}

// CreatePost records a fine, win, or payment addressed to a scope member.
func (s *PostService) CreatePost(ctx context.Context, post *models.Post) (*models.Post, error) {
	if !models.ValidPostType(post.Type) {
		return nil, models.NewValidationError("unknown post type")
	}
	if post.AmountCents < 0 {
		return nil, models.NewValidationError("amount cannot be negative")
	}

	abilities, err := s.abilities.ComputeAbilities(ctx, post.AuthorID)
	if err != nil {
		return nil, err
	}
	if abilities.Cannot(ability.ActionPost, ability.PostSubject{ScopeID: post.ScopeID, Type: post.Type}) {
		return nil, models.NewForbiddenError("you cannot post that here")
	}

	// The recipient has to hold a role in the scope.
	if _, err := s.roleRepo.GetRole(ctx, post.ScopeID, post.RecipientID); err != nil {
		return nil, err
	}

	if err := s.postRepo.Create(ctx, post); err != nil {
		return nil, err
	}
	return s.postRepo.GetByID(ctx, post.ID)
}

// ListScopePosts returns the scope's posts the viewer may read, with the
// author withheld for types the viewer cannot see authors of.
func (s *PostService) ListScopePosts(ctx context.Context, scopeID, viewerID uint, limit, offset int) ([]models.Post, error) {
	abilities, err := s.abilities.ComputeAbilities(ctx, viewerID)
	if err != nil {
		return nil, err
	}
	if abilities.Cannot(ability.ActionAccess, ability.ScopeSubject{ID: scopeID}) {
		return nil, models.NewNotFoundError("Scope", scopeID)
	}

	if limit <= 0 || limit > 100 {
		limit = 50
	}
	posts, err := s.postRepo.GetByScopeID(ctx, scopeID, limit, offset)
	if err != nil {
		return nil, err
	}

	visible := make([]models.Post, 0, len(posts))
	for _, post := range posts {
		subject := ability.PostSubject{ScopeID: scopeID, Type: post.Type}
		if abilities.Cannot(string(models.PostActionRead), subject) {
			continue
		}
		if abilities.Cannot(ability.ActionViewAuthor, subject) {
			post.AuthorID = 0
			post.Author = nil
		}
		visible = append(visible, post)
	}
	return visible, nil
}
