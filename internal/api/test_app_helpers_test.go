package api

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/terraincognita07/streaky/internal/db"
	"github.com/terraincognita07/streaky/internal/ratelimit"
	"gorm.io/gorm"
)

const (
	testSecretKey = "0123456789abcdef0123456789abcdef"
	testPassword  = "StrongPass1"
)

var testNow = time.Date(2026, time.March, 5, 12, 0, 0, 0, time.UTC)

type testApp struct {
	app      *fiber.App
	database *gorm.DB
	handler  *Handler
}

func newTestApp(t *testing.T) testApp {
	t.Helper()
	return newTestAppWithLimiter(t, ratelimit.NewMemoryLimiter(8, 15*time.Minute))
}

func newTestAppWithLimiter(t *testing.T, limiter ratelimit.Limiter) testApp {
	t.Helper()

	databasePath := filepath.Join(t.TempDir(), "streaky-api-test.db")
	database, err := db.OpenSQLite(databasePath)
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	sqlDB, err := database.DB()
	if err != nil {
		t.Fatalf("open sql db: %v", err)
	}
	t.Cleanup(func() {
		_ = sqlDB.Close()
	})

	handler, err := NewHandler(database, Options{
		SecretKey:   testSecretKey,
		TokenTTL:    30 * time.Minute,
		Location:    time.UTC,
		Version:     "test",
		Environment: "test",
		Limiter:     limiter,
		Now:         func() time.Time { return testNow },
	})
	if err != nil {
		t.Fatalf("init handler: %v", err)
	}

	app := fiber.New(fiber.Config{ErrorHandler: ErrorHandler})
	app.Use(handler.RequestContext)
	RegisterRoutes(app, handler)
	return testApp{app: app, database: database, handler: handler}
}

func (env testApp) do(t *testing.T, method string, path string, token string, body any) *http.Response {
	t.Helper()

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		reader = bytes.NewReader(raw)
	}

	request := httptest.NewRequest(method, path, reader)
	if body != nil {
		request.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		request.Header.Set("Authorization", "Bearer "+token)
	}

	response, err := env.app.Test(request, -1)
	if err != nil {
		t.Fatalf("%s %s failed: %v", method, path, err)
	}
	return response
}

func (env testApp) doRaw(t *testing.T, method string, path string, token string, rawJSON string) *http.Response {
	t.Helper()

	request := httptest.NewRequest(method, path, strings.NewReader(rawJSON))
	request.Header.Set("Content-Type", "application/json")
	if token != "" {
		request.Header.Set("Authorization", "Bearer "+token)
	}
	response, err := env.app.Test(request, -1)
	if err != nil {
		t.Fatalf("%s %s failed: %v", method, path, err)
	}
	return response
}

func (env testApp) registerAndLogin(t *testing.T, username string) string {
	t.Helper()

	response := env.do(t, http.MethodPost, "/auth/register", "", map[string]string{
		"username": username,
		"password": testPassword,
	})
	expectStatus(t, response, http.StatusCreated)
	return env.login(t, username, testPassword)
}

func (env testApp) login(t *testing.T, username string, password string) string {
	t.Helper()

	form := url.Values{
		"username": {username},
		"password": {password},
	}
	request := httptest.NewRequest(http.MethodPost, "/token", strings.NewReader(form.Encode()))
	request.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	response, err := env.app.Test(request, -1)
	if err != nil {
		t.Fatalf("token request failed: %v", err)
	}
	expectStatus(t, response, http.StatusOK)

	var payload struct {
		AccessToken string `json:"access_token"`
		TokenType   string `json:"token_type"`
	}
	decodeJSON(t, response, &payload)
	if payload.AccessToken == "" || payload.TokenType != "bearer" {
		t.Fatalf("unexpected token payload %+v", payload)
	}
	return payload.AccessToken
}

func (env testApp) createHabit(t *testing.T, token string, name string, goal string) habitResponse {
	t.Helper()

	response := env.do(t, http.MethodPost, "/habits", token, map[string]any{
		"name":      name,
		"goal_type": goal,
	})
	expectStatus(t, response, http.StatusCreated)

	var habit habitResponse
	decodeJSON(t, response, &habit)
	return habit
}

func expectStatus(t *testing.T, response *http.Response, want int) {
	t.Helper()
	if response.StatusCode != want {
		body, _ := io.ReadAll(response.Body)
		_ = response.Body.Close()
		t.Fatalf("expected status %d, got %d: %s", want, response.StatusCode, body)
	}
}

func decodeJSON(t *testing.T, response *http.Response, target any) {
	t.Helper()
	defer response.Body.Close()

	if err := json.NewDecoder(response.Body).Decode(target); err != nil {
		t.Fatalf("decode response: %v", err)
	}
}

func readAPIError(t *testing.T, response *http.Response) (string, string) {
	t.Helper()

	payload := map[string]string{}
	decodeJSON(t, response, &payload)
	return payload["error"], payload["kind"]
}
