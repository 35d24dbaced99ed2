package api

import (
	"net/http"
	"testing"
)

func TestSaveAndReadSymptomLog(t *testing.T) {
	app, _ := newTestApp(t)
	registerTestUser(t, app, "Admin", "admin@example.com")
	memberToken := registerTestUser(t, app, "Ada", "ada@example.com")

	save := postJSONRequest(t, app, "/api/v1/symptom-logs", memberToken, map[string]any{
		"date": "2026-06-15",
		"scores": []map[string]any{
			{"symptomId": "headache", "score": 6},
			{"symptomId": "night-sweats", "score": nil},
		},
	})
	defer save.Body.Close()
	if save.StatusCode != http.StatusOK {
		t.Fatalf("save: expected status 200, got %d", save.StatusCode)
	}

	read := getRequest(t, app, "/api/v1/symptom-logs/by-date?date=2026-06-15", memberToken)
	defer read.Body.Close()
	if read.StatusCode != http.StatusOK {
		t.Fatalf("read: expected status 200, got %d", read.StatusCode)
	}

	var payload struct {
		Date   string `json:"date"`
		Scores []struct {
			SymptomID string   `json:"symptomId"`
			Score     *float64 `json:"score"`
		} `json:"scores"`
	}
	decodeJSONBody(t, read, &payload)
	if payload.Date != "2026-06-15" || len(payload.Scores) != 2 {
		t.Fatalf("payload = %+v, want the saved date with two scores", payload)
	}
	if payload.Scores[0].Score == nil || *payload.Scores[0].Score != 6 {
		t.Fatalf("scores[0] = %+v, want headache score 6", payload.Scores[0])
	}
	if payload.Scores[1].Score != nil {
		t.Fatalf("scores[1] = %+v, want a null optional score preserved", payload.Scores[1])
	}
}

func TestSaveReplacesEarlierLogForSameDay(t *testing.T) {
	app, _ := newTestApp(t)
	registerTestUser(t, app, "Admin", "admin@example.com")
	memberToken := registerTestUser(t, app, "Ada", "ada@example.com")

	first := postJSONRequest(t, app, "/api/v1/symptom-logs", memberToken, map[string]any{
		"date":   "2026-06-15",
		"scores": []map[string]any{{"symptomId": "headache", "score": 6}},
	})
	first.Body.Close()

	second := postJSONRequest(t, app, "/api/v1/symptom-logs", memberToken, map[string]any{
		"date":   "2026-06-15",
		"scores": []map[string]any{{"symptomId": "fatigue", "score": 2}},
	})
	second.Body.Close()

	read := getRequest(t, app, "/api/v1/symptom-logs/by-date?date=2026-06-15", memberToken)
	defer read.Body.Close()

	var payload struct {
		Scores []struct {
			SymptomID string `json:"symptomId"`
		} `json:"scores"`
	}
	decodeJSONBody(t, read, &payload)
	if len(payload.Scores) != 1 || payload.Scores[0].SymptomID != "fatigue" {
		t.Fatalf("scores = %+v, want only the replacement score list", payload.Scores)
	}
}

func TestReadMissingLogReturnsNotFound(t *testing.T) {
	app, _ := newTestApp(t)
	token := registerTestUser(t, app, "Admin", "admin@example.com")

	response := getRequest(t, app, "/api/v1/symptom-logs/by-date?date=2026-06-15", token)
	defer response.Body.Close()

	if response.StatusCode != http.StatusNotFound {
		t.Fatalf("expected status 404, got %d", response.StatusCode)
	}
}

func TestSaveRejectsInvalidDate(t *testing.T) {
	app, _ := newTestApp(t)
	token := registerTestUser(t, app, "Admin", "admin@example.com")

	response := postJSONRequest(t, app, "/api/v1/symptom-logs", token, map[string]any{
		"date":   "15-06-2026",
		"scores": []map[string]any{{"symptomId": "headache", "score": 6}},
	})
	defer response.Body.Close()

	if response.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d", response.StatusCode)
	}
}

func TestMemberCannotWriteAnotherUsersLog(t *testing.T) {
	app, _ := newTestApp(t)
	registerTestUser(t, app, "Admin", "admin@example.com")
	memberToken := registerTestUser(t, app, "Ada", "ada@example.com")

	response := postJSONRequest(t, app, "/api/v1/symptom-logs", memberToken, map[string]any{
		"userId": 1,
		"date":   "2026-06-15",
		"scores": []map[string]any{{"symptomId": "headache", "score": 6}},
	})
	defer response.Body.Close()

	if response.StatusCode != http.StatusForbidden {
		t.Fatalf("expected status 403, got %d", response.StatusCode)
	}
}

func TestAdminCanWriteForAnotherUser(t *testing.T) {
	app, _ := newTestApp(t)
	adminToken := registerTestUser(t, app, "Admin", "admin@example.com")
	memberToken := registerTestUser(t, app, "Ada", "ada@example.com")

	save := postJSONRequest(t, app, "/api/v1/symptom-logs", adminToken, map[string]any{
		"userId": 2,
		"date":   "2026-06-15",
		"scores": []map[string]any{{"symptomId": "headache", "score": 6}},
	})
	defer save.Body.Close()
	if save.StatusCode != http.StatusOK {
		t.Fatalf("admin save: expected status 200, got %d", save.StatusCode)
	}

	read := getRequest(t, app, "/api/v1/symptom-logs/by-date?date=2026-06-15", memberToken)
	defer read.Body.Close()
	if read.StatusCode != http.StatusOK {
		t.Fatalf("member read: expected status 200, got %d", read.StatusCode)
	}
}

func TestDeleteSymptomLog(t *testing.T) {
	app, _ := newTestApp(t)
	token := registerTestUser(t, app, "Admin", "admin@example.com")

	save := postJSONRequest(t, app, "/api/v1/symptom-logs", token, map[string]any{
		"date":   "2026-06-15",
		"scores": []map[string]any{{"symptomId": "headache", "score": 6}},
	})
	save.Body.Close()

	deleted := deleteRequest(t, app, "/api/v1/symptom-logs?date=2026-06-15", token)
	defer deleted.Body.Close()
	if deleted.StatusCode != http.StatusOK {
		t.Fatalf("delete: expected status 200, got %d", deleted.StatusCode)
	}

	read := getRequest(t, app, "/api/v1/symptom-logs/by-date?date=2026-06-15", token)
	defer read.Body.Close()
	if read.StatusCode != http.StatusNotFound {
		t.Fatalf("read after delete: expected status 404, got %d", read.StatusCode)
	}

	again := deleteRequest(t, app, "/api/v1/symptom-logs?date=2026-06-15", token)
	defer again.Body.Close()
	if again.StatusCode != http.StatusNotFound {
		t.Fatalf("second delete: expected status 404, got %d", again.StatusCode)
	}
}

func TestDatesWithEntriesMostRecentFirst(t *testing.T) {
	app, _ := newTestApp(t)
	token := registerTestUser(t, app, "Admin", "admin@example.com")

	for _, date := range []string{"2026-06-10", "2026-06-15", "2026-06-12"} {
		save := postJSONRequest(t, app, "/api/v1/symptom-logs", token, map[string]any{
			"date":   date,
			"scores": []map[string]any{{"symptomId": "headache", "score": 1}},
		})
		save.Body.Close()
	}

	response := getRequest(t, app, "/api/v1/symptom-logs/dates", token)
	defer response.Body.Close()

	var payload struct {
		DatesWithEntries []string `json:"datesWithEntries"`
	}
	decodeJSONBody(t, response, &payload)

	want := []string{"2026-06-15", "2026-06-12", "2026-06-10"}
	if len(payload.DatesWithEntries) != len(want) {
		t.Fatalf("dates = %v, want %v", payload.DatesWithEntries, want)
	}
	for i, date := range want {
		if payload.DatesWithEntries[i] != date {
			t.Fatalf("dates = %v, want most recent first %v", payload.DatesWithEntries, want)
		}
	}
}

func TestBatchEndpointsRequireAdmin(t *testing.T) {
	app, _ := newTestApp(t)
	registerTestUser(t, app, "Admin", "admin@example.com")
	memberToken := registerTestUser(t, app, "Ada", "ada@example.com")

	dates := postJSONRequest(t, app, "/api/v1/symptom-logs/dates/batch", memberToken, map[string]any{
		"userIds": []uint{2},
	})
	defer dates.Body.Close()
	if dates.StatusCode != http.StatusForbidden {
		t.Fatalf("dates batch as member: expected status 403, got %d", dates.StatusCode)
	}

	logs := postJSONRequest(t, app, "/api/v1/symptom-logs/batch", memberToken, map[string]any{
		"userIds": []uint{2},
		"dates":   []string{"2026-06-15"},
	})
	defer logs.Body.Close()
	if logs.StatusCode != http.StatusForbidden {
		t.Fatalf("logs batch as member: expected status 403, got %d", logs.StatusCode)
	}
}

func TestDatesBatchShape(t *testing.T) {
	app, _ := newTestApp(t)
	adminToken := registerTestUser(t, app, "Admin", "admin@example.com")
	memberToken := registerTestUser(t, app, "Ada", "ada@example.com")

	save := postJSONRequest(t, app, "/api/v1/symptom-logs", memberToken, map[string]any{
		"date":   "2026-06-15",
		"scores": []map[string]any{{"symptomId": "headache", "score": 6}},
	})
	save.Body.Close()

	response := postJSONRequest(t, app, "/api/v1/symptom-logs/dates/batch", adminToken, map[string]any{
		"userIds": []uint{2, 3},
	})
	defer response.Body.Close()
	if response.StatusCode != http.StatusOK {
		t.Fatalf("expected status 200, got %d", response.StatusCode)
	}

	payload := make(map[string][]string)
	decodeJSONBody(t, response, &payload)

	if dates, exists := payload["2"]; !exists || len(dates) != 1 || dates[0] != "2026-06-15" {
		t.Fatalf("payload[2] = %v, want the member's saved date", payload["2"])
	}
	if dates, exists := payload["3"]; !exists || len(dates) != 0 {
		t.Fatalf("payload[3] = %v, want an empty list for the unknown user", payload["3"])
	}
}

func TestLogsBatchShape(t *testing.T) {
	app, _ := newTestApp(t)
	adminToken := registerTestUser(t, app, "Admin", "admin@example.com")
	memberToken := registerTestUser(t, app, "Ada", "ada@example.com")

	save := postJSONRequest(t, app, "/api/v1/symptom-logs", memberToken, map[string]any{
		"date":   "2026-06-15",
		"scores": []map[string]any{{"symptomId": "headache", "score": 6}},
	})
	save.Body.Close()

	response := postJSONRequest(t, app, "/api/v1/symptom-logs/batch", adminToken, map[string]any{
		"userIds": []uint{2},
		"dates":   []string{"2026-06-14", "2026-06-15"},
	})
	defer response.Body.Close()
	if response.StatusCode != http.StatusOK {
		t.Fatalf("expected status 200, got %d", response.StatusCode)
	}

	payload := make(map[string]map[string]struct {
		Symptoms []struct {
			SymptomID string   `json:"symptomId"`
			Score     *float64 `json:"score"`
		} `json:"symptoms"`
	})
	decodeJSONBody(t, response, &payload)

	byDate, exists := payload["2"]
	if !exists {
		t.Fatalf("payload = %v, want an entry for user 2", payload)
	}
	empty, exists := byDate["2026-06-14"]
	if !exists || len(empty.Symptoms) != 0 {
		t.Fatalf("empty day = %+v, want a present record with no symptoms", empty)
	}
	saved, exists := byDate["2026-06-15"]
	if !exists || len(saved.Symptoms) != 1 || saved.Symptoms[0].SymptomID != "headache" {
		t.Fatalf("saved day = %+v, want the headache score", saved)
	}
}
