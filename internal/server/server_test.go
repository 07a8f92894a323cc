package server

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"teampot/internal/cache"
	"teampot/internal/config"
	"teampot/internal/database"
	"teampot/internal/models"

	"github.com/alicebob/miniredis/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const testBillingSecret = "whsec_test_secret"

// newTestServer spins up a Server on sqlite and miniredis and returns a
// Fiber app with the full route table mounted.
func newTestServer(t *testing.T) (*Server, *fiber.App) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(database.PersistentModels()...))

	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	cache.SetClient(rdb)
	t.Cleanup(func() {
		cache.SetClient(nil)
		_ = rdb.Close()
	})

	cfg := &config.Config{
		JWTSecret:     "unit-test-secret-0123456789abcdef",
		Env:           "test",
		Port:          "0",
		BillingSecret: testBillingSecret,
	}

	srv, err := NewServerWithDeps(cfg, db, rdb)
	require.NoError(t, err)

	app := fiber.New()
	srv.SetupRoutes(app)
	return srv, app
}

var handlerUserSeq int

// seedUser persists a user with the password "password123".
func seedUser(t *testing.T, srv *Server) *models.User {
	t.Helper()
	handlerUserSeq++
	hashed, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.MinCost)
	require.NoError(t, err)
	u := &models.User{
		Username: fmt.Sprintf("htest%d", handlerUserSeq),
		Email:    fmt.Sprintf("htest%d@example.com", handlerUserSeq),
		Password: string(hashed),
	}
	require.NoError(t, srv.db.Create(u).Error)
	return u
}

func bearer(t *testing.T, srv *Server, u *models.User) string {
	t.Helper()
	token, err := srv.generateToken(u.ID, u.Username)
	require.NoError(t, err)
	return "Bearer " + token
}

// doJSON performs a request against the app and returns the response.
func doJSON(t *testing.T, app *fiber.App, method, target, auth string, body any) *http.Response {
	t.Helper()
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	}
	req := httptest.NewRequest(method, target, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if auth != "" {
		req.Header.Set("Authorization", auth)
	}
	resp, err := app.Test(req, int(5*time.Second/time.Millisecond))
	require.NoError(t, err)
	return resp
}

func jsonDecode(resp *http.Response, out any) error {
	return json.NewDecoder(resp.Body).Decode(out)
}

func decodeBody(t *testing.T, resp *http.Response) map[string]any {
	t.Helper()
	defer resp.Body.Close()
	var out map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return out
}

// seedScope creates a scope with explicit roles for handler tests.
func seedScope(t *testing.T, srv *Server, name, slug string, kind models.ScopeKind, parentID *uint) *models.Scope {
	t.Helper()
	s := &models.Scope{Name: name, Slug: slug, Kind: kind, ParentScopeID: parentID}
	require.NoError(t, srv.db.Create(s).Error)
	return s
}

func seedRole(t *testing.T, srv *Server, scope *models.Scope, u *models.User, role models.Role) {
	t.Helper()
	require.NoError(t, srv.db.Create(&models.ScopeRole{
		ScopeID: scope.ID, UserID: u.ID, Role: role,
		CreatedAt: time.Now().Add(-time.Hour),
	}).Error)
}
