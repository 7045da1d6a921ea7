package routes

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/example/okeetropics/internal/config"
	"github.com/example/okeetropics/internal/database"
	"github.com/example/okeetropics/internal/metrics"
	"github.com/example/okeetropics/internal/models"
	"github.com/example/okeetropics/internal/utils"
)

// newTestApp builds the full route surface over an in-memory database.
func newTestApp(t *testing.T) (*fiber.App, *gorm.DB, *config.Config) {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))

	cfg := &config.Config{
		JWTSecret:    "test-secret",
		TokenExpires: time.Hour,
	}

	app := fiber.New()
	Register(app, db, cfg, metrics.NewCollector(prometheus.NewRegistry()))

	return app, db, cfg
}

func seedUser(t *testing.T, db *gorm.DB, name, email string, role models.Role) models.User {
	t.Helper()

	hash, err := utils.HashPassword("correct horse")
	require.NoError(t, err)

	user := models.User{
		Name:         name,
		Email:        email,
		PasswordHash: hash,
		Role:         role,
	}
	require.NoError(t, db.Create(&user).Error)
	return user
}

func tokenFor(t *testing.T, cfg *config.Config, user models.User) string {
	t.Helper()

	token, err := utils.GenerateToken(cfg.JWTSecret, utils.TokenIdentity{
		UserID: user.ID,
		Name:   user.Name,
		Role:   user.Role,
	}, cfg.TokenExpires)
	require.NoError(t, err)
	return token
}

func doJSON(t *testing.T, app *fiber.App, method, path, token string, body interface{}) *http.Response {
	t.Helper()

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func decodeData(t *testing.T, resp *http.Response, out interface{}) {
	t.Helper()

	var env struct {
		Success bool            `json:"success"`
		Data    json.RawMessage `json:"data"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&env))
	require.NoError(t, json.Unmarshal(env.Data, out))
}
