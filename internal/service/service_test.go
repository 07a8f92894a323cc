package service

import (
	"fmt"
	"testing"
	"time"

	"teampot/internal/database"
	"teampot/internal/models"
	"teampot/internal/repository"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// newTestDB opens a fresh in-memory database with the full schema.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(database.PersistentModels()...))
	return db
}

// testEnv bundles the repositories and services most tests need.
type testEnv struct {
	db        *gorm.DB
	userRepo  repository.UserRepository
	scopeRepo repository.ScopeRepository
	roleRepo  repository.RoleRepository
	permRepo  repository.PermissionRepository
	postRepo  repository.PostRepository
	invRepo   repository.InvitationRepository
	subRepo   repository.SubscriptionRepository
	abilities *AbilityService
}

func newTestEnv(t *testing.T) *testEnv {
	db := newTestDB(t)
	env := &testEnv{
		db:        db,
		userRepo:  repository.NewUserRepository(db),
		scopeRepo: repository.NewScopeRepository(db),
		roleRepo:  repository.NewRoleRepository(db),
		permRepo:  repository.NewPermissionRepository(db),
		postRepo:  repository.NewPostRepository(db),
		invRepo:   repository.NewInvitationRepository(db),
		subRepo:   repository.NewSubscriptionRepository(db),
	}
	env.abilities = NewAbilityService(env.roleRepo, env.scopeRepo, env.permRepo)
	return env
}

var testUserSeq int

func (e *testEnv) user(t *testing.T) *models.User {
	t.Helper()
	testUserSeq++
	u := &models.User{
		Username: fmt.Sprintf("user%d", testUserSeq),
		Email:    fmt.Sprintf("user%d@example.com", testUserSeq),
		Password: "hashed",
	}
	require.NoError(t, e.db.Create(u).Error)
	return u
}

func (e *testEnv) space(t *testing.T, slug string) *models.Scope {
	t.Helper()
	s := &models.Scope{Name: "Space " + slug, Slug: slug, Kind: models.ScopeKindSpace}
	require.NoError(t, e.db.Create(s).Error)
	return s
}

func (e *testEnv) team(t *testing.T, parent *models.Scope, slug string) *models.Scope {
	t.Helper()
	s := &models.Scope{Name: "Team " + slug, Slug: slug, Kind: models.ScopeKindTeam, ParentScopeID: &parent.ID}
	require.NoError(t, e.db.Create(s).Error)
	return s
}

// role grants a user a role with an explicit creation time so succession
// order is deterministic.
func (e *testEnv) role(t *testing.T, scope *models.Scope, user *models.User, role models.Role, createdAt time.Time) {
	t.Helper()
	r := &models.ScopeRole{ScopeID: scope.ID, UserID: user.ID, Role: role, CreatedAt: createdAt}
	require.NoError(t, e.db.Create(r).Error)
}

func (e *testEnv) post(t *testing.T, scope *models.Scope, author, recipient *models.User, postType models.PostType, amount int) *models.Post {
	t.Helper()
	p := &models.Post{ScopeID: scope.ID, Type: postType, AuthorID: author.ID, RecipientID: recipient.ID, AmountCents: amount}
	require.NoError(t, e.db.Create(p).Error)
	return p
}

func (e *testEnv) roleOf(t *testing.T, scopeID, userID uint) (models.Role, bool) {
	t.Helper()
	var r models.ScopeRole
	err := e.db.Where("scope_id = ? AND user_id = ?", scopeID, userID).First(&r).Error
	if err == gorm.ErrRecordNotFound {
		return "", false
	}
	require.NoError(t, err)
	return r.Role, true
}

func (e *testEnv) scopeExists(t *testing.T, scopeID uint) bool {
	t.Helper()
	var count int64
	require.NoError(t, e.db.Model(&models.Scope{}).Where("id = ?", scopeID).Count(&count).Error)
	return count > 0
}
