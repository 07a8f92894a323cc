package seed

import (
	"testing"

	"teampot/internal/database"
	"teampot/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newSeedTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(database.PersistentModels()...))
	return db
}

func TestSeed_PopulatesAllTables(t *testing.T) {
	db := newSeedTestDB(t)

	err := Seed(db, Options{NumUsers: 8, NumSpaces: 1, TeamsPerSpc: 2, PostsPerTeam: 5})
	require.NoError(t, err)

	var userCount, scopeCount, roleCount, postCount, invCount, subCount int64
	db.Model(&models.User{}).Count(&userCount)
	db.Model(&models.Scope{}).Count(&scopeCount)
	db.Model(&models.ScopeRole{}).Count(&roleCount)
	db.Model(&models.Post{}).Count(&postCount)
	db.Model(&models.Invitation{}).Count(&invCount)
	db.Model(&models.Subscription{}).Count(&subCount)

	assert.Equal(t, int64(8), userCount)
	assert.Equal(t, int64(3), scopeCount, "one space plus two teams")
	assert.GreaterOrEqual(t, roleCount, int64(2))
	assert.Equal(t, int64(10), postCount)
	assert.Equal(t, int64(1), invCount)
	assert.Equal(t, int64(1), subCount)
}

func TestSeed_CleanRemovesPreviousData(t *testing.T) {
	db := newSeedTestDB(t)

	require.NoError(t, Seed(db, Options{NumUsers: 4, NumSpaces: 1, TeamsPerSpc: 1, PostsPerTeam: 3}))
	require.NoError(t, Seed(db, Options{NumUsers: 4, NumSpaces: 1, TeamsPerSpc: 1, PostsPerTeam: 3, ShouldClean: true}))

	var userCount int64
	db.Model(&models.User{}).Count(&userCount)
	assert.Equal(t, int64(4), userCount)
}

func TestFactory_BuildPost_AmountsByType(t *testing.T) {
	db := newSeedTestDB(t)
	f := NewFactory(db, Options{MaxDays: 30})

	author, err := f.CreateUser()
	require.NoError(t, err)
	recipient, err := f.CreateUser()
	require.NoError(t, err)
	space, err := f.CreateSpace()
	require.NoError(t, err)
	team, err := f.CreateTeam(space)
	require.NoError(t, err)

	fine := f.BuildPost(team, author, recipient, models.PostTypeFine)
	assert.Greater(t, fine.AmountCents, 0)

	win := f.BuildPost(team, author, recipient, models.PostTypeWin)
	assert.Zero(t, win.AmountCents)

	assert.False(t, fine.CreatedAt.IsZero())
}

func TestSlugify(t *testing.T) {
	assert.Equal(t, "acme-corp", slugify("Acme Corp"))
	assert.Equal(t, "scope", slugify("!!!"))
	assert.LessOrEqual(t, len(slugify("A Very Long Company Name Indeed LLC")), 18)
}
