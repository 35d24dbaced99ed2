package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/harborwell/reliva/internal/db"
	"github.com/harborwell/reliva/internal/services"
	"gorm.io/gorm"
)

func newTestApp(t *testing.T) (*fiber.App, *gorm.DB) {
	t.Helper()

	databasePath := filepath.Join(t.TempDir(), "reliva-test.db")
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

	catalog := services.NewCatalogService(db.NewSymptomRepository(database))
	if err := catalog.EnsureSeeded(); err != nil {
		t.Fatalf("seed symptom catalog: %v", err)
	}

	handler, err := NewHandler(database, "test-secret-key", false)
	if err != nil {
		t.Fatalf("init handler: %v", err)
	}

	app := fiber.New()
	RegisterRoutes(app, handler)
	return app, database
}

// registerTestUser registers through the API and returns the bearer token.
// The first registration on a fresh database yields the admin account.
func registerTestUser(t *testing.T, app *fiber.App, name string, email string) string {
	t.Helper()

	response := postJSONRequest(t, app, "/api/v1/auth/register", "", map[string]any{
		"name":     name,
		"email":    email,
		"password": "StrongPass1",
	})
	defer response.Body.Close()

	if response.StatusCode != http.StatusCreated {
		t.Fatalf("register %s: expected status 201, got %d", email, response.StatusCode)
	}

	var payload struct {
		Token string `json:"token"`
	}
	if err := json.NewDecoder(response.Body).Decode(&payload); err != nil {
		t.Fatalf("decode register response: %v", err)
	}
	if payload.Token == "" {
		t.Fatal("register response carried no token")
	}
	return payload.Token
}

func postJSONRequest(t *testing.T, app *fiber.App, path string, token string, body any) *http.Response {
	t.Helper()

	encoded, err := json.Marshal(body)
	if err != nil {
		t.Fatalf("marshal request body: %v", err)
	}

	request := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(encoded))
	request.Header.Set("Content-Type", fiber.MIMEApplicationJSON)
	if token != "" {
		request.Header.Set("Authorization", "Bearer "+token)
	}

	response, err := app.Test(request, -1)
	if err != nil {
		t.Fatalf("POST %s failed: %v", path, err)
	}
	return response
}

func getRequest(t *testing.T, app *fiber.App, path string, token string) *http.Response {
	t.Helper()

	request := httptest.NewRequest(http.MethodGet, path, nil)
	if token != "" {
		request.Header.Set("Authorization", "Bearer "+token)
	}

	response, err := app.Test(request, -1)
	if err != nil {
		t.Fatalf("GET %s failed: %v", path, err)
	}
	return response
}

func deleteRequest(t *testing.T, app *fiber.App, path string, token string) *http.Response {
	t.Helper()

	request := httptest.NewRequest(http.MethodDelete, path, nil)
	if token != "" {
		request.Header.Set("Authorization", "Bearer "+token)
	}

	response, err := app.Test(request, -1)
	if err != nil {
		t.Fatalf("DELETE %s failed: %v", path, err)
	}
	return response
}

func decodeJSONBody(t *testing.T, response *http.Response, out any) {
	t.Helper()
	if err := json.NewDecoder(response.Body).Decode(out); err != nil {
		t.Fatalf("decode response body: %v", err)
	}
}
