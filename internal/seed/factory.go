// Package seed provides helpers to create test and demo data for the
// application database. These helpers are intended for development and
// testing only.
package seed

import (
	"fmt"
	"math/rand"
	"strings"
	"time"

	"teampot/internal/models"

	"github.com/brianvoe/gofakeit/v6"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// Factory builds domain entities and persists them to the database.
// It is a thin helper used by seed presets and tests.
type Factory struct {
	db   *gorm.DB
	opts Options
	rng  *rand.Rand
}

// NewFactory creates a new Factory bound to the provided Gorm DB.
func NewFactory(db *gorm.DB, opts Options) *Factory {
	gofakeit.Seed(time.Now().UnixNano())
	return &Factory{
		db:   db,
		opts: opts,
		rng:  rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// CreateUser constructs and persists a sample `models.User`.
// Optional override functions may modify the generated user before saving.
func (f *Factory) CreateUser(overrides ...func(*models.User)) (*models.User, error) {
	user := &models.User{
		Username: strings.ToLower(gofakeit.Username()) + fmt.Sprintf("%d", gofakeit.Number(100, 999)),
		Email:    gofakeit.Email(),
	}
	for _, override := range overrides {
		override(user)
	}
	if user.Password == "" {
		hashed, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.DefaultCost)
		if err != nil {
			return nil, fmt.Errorf("failed to hash password: %w", err)
		}
		user.Password = string(hashed)
	}
	if err := f.db.Create(user).Error; err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}
	return user, nil
}

// CreateSpace constructs and persists a root space scope.
func (f *Factory) CreateSpace(overrides ...func(*models.Scope)) (*models.Scope, error) {
	name := gofakeit.Company()
	scope := &models.Scope{
		Name: name,
		Slug: slugify(name) + fmt.Sprintf("%d", gofakeit.Number(10, 99)),
		Kind: models.ScopeKindSpace,
	}
	for _, override := range overrides {
		override(scope)
	}
	if err := f.db.Create(scope).Error; err != nil {
		return nil, fmt.Errorf("failed to create space: %w", err)
	}
	return scope, nil
}

// CreateTeam constructs and persists a team scope under the given space.
func (f *Factory) CreateTeam(space *models.Scope, overrides ...func(*models.Scope)) (*models.Scope, error) {
	name := gofakeit.ProductName()
	scope := &models.Scope{
		Name:          name,
		Slug:          slugify(name) + fmt.Sprintf("%d", gofakeit.Number(10, 99)),
		Kind:          models.ScopeKindTeam,
		ParentScopeID: &space.ID,
	}
	for _, override := range overrides {
		override(scope)
	}
	if err := f.db.Create(scope).Error; err != nil {
		return nil, fmt.Errorf("failed to create team: %w", err)
	}
	return scope, nil
}

// CreateRole grants the user a role in the scope.
func (f *Factory) CreateRole(scope *models.Scope, user *models.User, role models.Role) (*models.ScopeRole, error) {
	sr := &models.ScopeRole{
		ScopeID: scope.ID,
		UserID:  user.ID,
		Role:    role,
	}
	if err := f.db.Create(sr).Error; err != nil {
		return nil, fmt.Errorf("failed to create role: %w", err)
	}
	return sr, nil
}

// BuildPost constructs a post without persisting it. Useful for batching.
// The created_at timestamp is spread over the recent past so seeded teams
// have a believable activity history.
func (f *Factory) BuildPost(scope *models.Scope, author, recipient *models.User, postType models.PostType, overrides ...func(*models.Post)) *models.Post {
	post := &models.Post{
		ScopeID:     scope.ID,
		Type:        postType,
		AuthorID:    author.ID,
		RecipientID: recipient.ID,
		Note:        gofakeit.Sentence(6),
	}

	maxDays := f.opts.MaxDays
	if maxDays <= 0 {
		maxDays = 90
	}
	daysBack := f.rng.Intn(maxDays)
	hoursBack := f.rng.Intn(24)
	minsBack := f.rng.Intn(60)
	post.CreatedAt = time.Now().Add(-time.Duration(daysBack)*24*time.Hour - time.Duration(hoursBack)*time.Hour - time.Duration(minsBack)*time.Minute)

	switch postType {
	case models.PostTypeFine:
		post.AmountCents = gofakeit.Number(1, 40) * 50
		post.Note = fmt.Sprintf("Fine: %s", gofakeit.Sentence(5))
	case models.PostTypePayment:
		post.AmountCents = gofakeit.Number(1, 100) * 100
		post.Note = fmt.Sprintf("Paid %s", gofakeit.BeerName())
	case models.PostTypeWin:
		post.AmountCents = 0
		post.Note = fmt.Sprintf("Win: %s", gofakeit.Sentence(5))
	}

	for _, override := range overrides {
		override(post)
	}
	return post
}

// CreatePost builds and persists a single post.
func (f *Factory) CreatePost(scope *models.Scope, author, recipient *models.User, postType models.PostType, overrides ...func(*models.Post)) (*models.Post, error) {
	post := f.BuildPost(scope, author, recipient, postType, overrides...)
	if err := f.db.Create(post).Error; err != nil {
		return nil, fmt.Errorf("failed to create post: %w", err)
	}
	return post, nil
}

// CreatePostsBatch persists multiple posts in a single DB call when possible.
func (f *Factory) CreatePostsBatch(posts []*models.Post) error {
	if len(posts) == 0 {
		return nil
	}
	return f.db.Create(&posts).Error
}

// CreateInvitation persists an invitation into the scope with the given role.
func (f *Factory) CreateInvitation(scope *models.Scope, creator *models.User, role models.Role) (*models.Invitation, error) {
	inv := &models.Invitation{
		Hash:            strings.ReplaceAll(gofakeit.UUID(), "-", ""),
		ScopeID:         scope.ID,
		DefaultRole:     role,
		CreatedByUserID: creator.ID,
		ExpiresAt:       time.Now().Add(models.InvitationTTL),
	}
	if err := f.db.Create(inv).Error; err != nil {
		return nil, fmt.Errorf("failed to create invitation: %w", err)
	}
	return inv, nil
}

// CreateActiveSubscription persists an active subscription for the user and
// attaches the given teams to it.
func (f *Factory) CreateActiveSubscription(user *models.User, teams ...*models.Scope) (*models.Subscription, error) {
	start := time.Now().Add(-7 * 24 * time.Hour)
	end := start.Add(30 * 24 * time.Hour)
	sub := &models.Subscription{
		UserID:             user.ID,
		Status:             models.SubscriptionStatusActive,
		CurrentPeriodStart: &start,
		CurrentPeriodEnd:   &end,
		ExternalCustomerID: fmt.Sprintf("CUS_%s", gofakeit.LetterN(12)),
	}
	if err := f.db.Create(sub).Error; err != nil {
		return nil, fmt.Errorf("failed to create subscription: %w", err)
	}
	for _, team := range teams {
		link := &models.SubscriptionScope{
			SubscriptionID: sub.ID,
			ScopeID:        team.ID,
			AddedByUserID:  user.ID,
		}
		if err := f.db.Create(link).Error; err != nil {
			return nil, fmt.Errorf("failed to attach team %d: %w", team.ID, err)
		}
	}
	return sub, nil
}

func slugify(name string) string {
	s := strings.ToLower(name)
	var b strings.Builder
	lastDash := true
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			lastDash = false
		default:
			if !lastDash {
				b.WriteByte('-')
				lastDash = true
			}
		}
	}
	out := strings.Trim(b.String(), "-")
	if len(out) > 18 {
		out = strings.Trim(out[:18], "-")
	}
	if out == "" {
		out = "scope"
	}
	return out
}
