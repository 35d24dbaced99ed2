package api

import (
	"net/http"
	"testing"
)

func TestRegisterFirstUserIsAdmin(t *testing.T) {
	app, _ := newTestApp(t)

	response := postJSONRequest(t, app, "/api/v1/auth/register", "", map[string]any{
		"name":     "Ada",
		"email":    "ada@example.com",
		"password": "StrongPass1",
	})
	defer response.Body.Close()

	if response.StatusCode != http.StatusCreated {
		t.Fatalf("expected status 201, got %d", response.StatusCode)
	}

	var payload struct {
		Token string `json:"token"`
		User  struct {
			Role string `json:"role"`
		} `json:"user"`
	}
	decodeJSONBody(t, response, &payload)
	if payload.User.Role != "admin" {
		t.Fatalf("first user role = %q, want admin", payload.User.Role)
	}
	if payload.Token == "" {
		t.Fatal("expected a token in the register response")
	}
}

func TestRegisterDuplicateEmailConflicts(t *testing.T) {
	app, _ := newTestApp(t)
	registerTestUser(t, app, "Ada", "ada@example.com")

	response := postJSONRequest(t, app, "/api/v1/auth/register", "", map[string]any{
		"name":     "Imposter",
		"email":    "ada@example.com",
		"password": "StrongPass1",
	})
	defer response.Body.Close()

	if response.StatusCode != http.StatusConflict {
		t.Fatalf("expected status 409, got %d", response.StatusCode)
	}
}

func TestLoginFlow(t *testing.T) {
	app, _ := newTestApp(t)
	registerTestUser(t, app, "Ada", "ada@example.com")

	response := postJSONRequest(t, app, "/api/v1/auth/login", "", map[string]any{
		"email":    "ada@example.com",
		"password": "StrongPass1",
	})
	defer response.Body.Close()

	if response.StatusCode != http.StatusOK {
		t.Fatalf("expected status 200, got %d", response.StatusCode)
	}

	var payload struct {
		Token string `json:"token"`
	}
	decodeJSONBody(t, response, &payload)
	if payload.Token == "" {
		t.Fatal("expected a token in the login response")
	}

	cookies := response.Header.Values("Set-Cookie")
	if len(cookies) == 0 {
		t.Fatal("expected the auth cookie to be set on login")
	}

	protected := getRequest(t, app, "/api/v1/symptoms", payload.Token)
	defer protected.Body.Close()
	if protected.StatusCode != http.StatusOK {
		t.Fatalf("authenticated request: expected status 200, got %d", protected.StatusCode)
	}
}

func TestLoginWrongPasswordUnauthorized(t *testing.T) {
	app, _ := newTestApp(t)
	registerTestUser(t, app, "Ada", "ada@example.com")

	response := postJSONRequest(t, app, "/api/v1/auth/login", "", map[string]any{
		"email":    "ada@example.com",
		"password": "WrongPass1",
	})
	defer response.Body.Close()

	if response.StatusCode != http.StatusUnauthorized {
		t.Fatalf("expected status 401, got %d", response.StatusCode)
	}
}

func TestLoginRateLimited(t *testing.T) {
	app, _ := newTestApp(t)
	registerTestUser(t, app, "Ada", "ada@example.com")

	for attempt := 0; attempt < loginAttemptLimit; attempt++ {
		response := postJSONRequest(t, app, "/api/v1/auth/login", "", map[string]any{
			"email":    "ada@example.com",
			"password": "WrongPass1",
		})
		response.Body.Close()
		if response.StatusCode != http.StatusUnauthorized {
			t.Fatalf("attempt %d: expected status 401, got %d", attempt, response.StatusCode)
		}
	}

	response := postJSONRequest(t, app, "/api/v1/auth/login", "", map[string]any{
		"email":    "ada@example.com",
		"password": "StrongPass1",
	})
	defer response.Body.Close()

	if response.StatusCode != http.StatusTooManyRequests {
		t.Fatalf("expected status 429 after repeated failures, got %d", response.StatusCode)
	}
}

func TestProtectedRouteWithoutTokenUnauthorized(t *testing.T) {
	app, _ := newTestApp(t)

	response := getRequest(t, app, "/api/v1/symptoms", "")
	defer response.Body.Close()

	if response.StatusCode != http.StatusUnauthorized {
		t.Fatalf("expected status 401, got %d", response.StatusCode)
	}

	garbage := getRequest(t, app, "/api/v1/symptoms", "not-a-jwt")
	defer garbage.Body.Close()
	if garbage.StatusCode != http.StatusUnauthorized {
		t.Fatalf("expected status 401 for a malformed token, got %d", garbage.StatusCode)
	}
}
