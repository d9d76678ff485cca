// Package testutil wires an in-memory database and a fully routed app for
// handler tests. Production code must not import it.
package testutil

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"courier-backend/database"
	"courier-backend/middleware"
	"courier-backend/models/user"
	"courier-backend/routes"
	"courier-backend/storage"
	"courier-backend/utils"
)

// NewDB opens a fresh in-memory sqlite database, migrated. cache=shared on a
// per-test name keeps the database alive across pooled connections.
func NewDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, database.Migrate(db))
	return db
}

// NewApp builds the app with all routes against the given database. Media
// files land in a per-test temp dir.
func NewApp(t *testing.T, db *gorm.DB) *fiber.App {
	t.Helper()
	t.Setenv("MEDIA_ROOT", t.TempDir())
	store, err := storage.NewMediaStore()
	require.NoError(t, err)
	app := fiber.New()
	routes.SetupRoutes(app, db, store)
	return app
}

// TestPassword is the password every NewOperator user logs in with.
const TestPassword = "letmein"

// NewOperator creates a user with an operator profile and a live token.
func NewOperator(t *testing.T, db *gorm.DB, username, unitType, code string) (user.OperatorProfile, string) {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(TestPassword), bcrypt.MinCost)
	require.NoError(t, err)

	u := user.User{Username: username, PasswordHash: string(hash)}
	require.NoError(t, db.Create(&u).Error)

	profile := user.OperatorProfile{
		UserID:          u.ID,
		Type:            unitType,
		Code:            code,
		CodeName:        username + " unit",
		FirstName:       username,
		NextManifestSeq: utils.SeedManifestNumber(code),
		NextDRSSeq:      utils.SeedDRSNumber(code),
	}
	require.NoError(t, db.Create(&profile).Error)

	tok, err := middleware.IssueToken(db, u.ID)
	require.NoError(t, err)
	return profile, tok.Token
}

// DoJSON performs a request against the app and decodes the JSON response.
// A nil body sends no payload; a non-empty token rides the Authorization
// header in the "Token <value>" scheme.
func DoJSON(t *testing.T, app *fiber.App, method, path, token string, body interface{}) (int, map[string]interface{}) {
	t.Helper()

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Token "+token)
	}

	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	decoded := map[string]interface{}{}
	if len(raw) > 0 && strings.Contains(resp.Header.Get("Content-Type"), "json") {
		require.NoError(t, json.Unmarshal(raw, &decoded), "body: %s", raw)
	}
	return resp.StatusCode, decoded
}

// DoRaw performs a request and returns the raw response for non-JSON bodies.
func DoRaw(t *testing.T, app *fiber.App, method, path, token string) (*http.Response, []byte) {
	t.Helper()
	req := httptest.NewRequest(method, path, nil)
	if token != "" {
		req.Header.Set("Authorization", "Token "+token)
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, raw
}
