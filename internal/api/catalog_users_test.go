package api

import (
	"net/http"
	"testing"

	"github.com/harborwell/reliva/internal/models"
)

func TestGetSymptomsReturnsSeededCatalog(t *testing.T) {
	app, _ := newTestApp(t)
	token := registerTestUser(t, app, "Admin", "admin@example.com")

	response := getRequest(t, app, "/api/v1/symptoms", token)
	defer response.Body.Close()
	if response.StatusCode != http.StatusOK {
		t.Fatalf("expected status 200, got %d", response.StatusCode)
	}

	var payload struct {
		Symptoms []struct {
			ID       string `json:"id"`
			Name     string `json:"name"`
			Category string `json:"category"`
			Optional bool   `json:"optional"`
		} `json:"symptoms"`
	}
	decodeJSONBody(t, response, &payload)

	if len(payload.Symptoms) != len(models.DefaultSymptomCatalog()) {
		t.Fatalf("got %d symptoms, want the full default catalog", len(payload.Symptoms))
	}

	var sawOptional bool
	for _, symptom := range payload.Symptoms {
		if symptom.ID == "" || symptom.Name == "" {
			t.Fatalf("symptom %+v missing id or name", symptom)
		}
		if symptom.Category != models.CategoryBehavioral && symptom.Category != models.CategoryPhysical {
			t.Fatalf("symptom %+v has unknown category", symptom)
		}
		if symptom.Optional {
			sawOptional = true
		}
	}
	if !sawOptional {
		t.Fatal("expected at least one optional symptom in the catalog")
	}
}

func TestListUsersAdminOnlyAndExcludesAdmin(t *testing.T) {
	app, _ := newTestApp(t)
	adminToken := registerTestUser(t, app, "Admin", "admin@example.com")
	memberToken := registerTestUser(t, app, "Ada", "ada@example.com")

	forbidden := getRequest(t, app, "/api/v1/users", memberToken)
	defer forbidden.Body.Close()
	if forbidden.StatusCode != http.StatusForbidden {
		t.Fatalf("member list users: expected status 403, got %d", forbidden.StatusCode)
	}

	response := getRequest(t, app, "/api/v1/users", adminToken)
	defer response.Body.Close()
	if response.StatusCode != http.StatusOK {
		t.Fatalf("admin list users: expected status 200, got %d", response.StatusCode)
	}

	var payload struct {
		Users []struct {
			ID    uint   `json:"id"`
			Name  string `json:"name"`
			Email string `json:"email"`
		} `json:"users"`
	}
	decodeJSONBody(t, response, &payload)

	if len(payload.Users) != 1 {
		t.Fatalf("users = %+v, want only the member account", payload.Users)
	}
	if payload.Users[0].Email != "ada@example.com" {
		t.Fatalf("users[0] = %+v, want the member, not the admin", payload.Users[0])
	}
}
