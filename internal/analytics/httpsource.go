package analytics

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/harborwell/reliva/internal/models"
)

// HTTPSource fetches analytics inputs from a running Reliva API over HTTP,
// authenticating with a bearer token. It implements DataSource for
// deployments where the engine runs outside the server process.
type HTTPSource struct {
	baseURL string
	token   string
	client  *http.Client
}

func NewHTTPSource(baseURL string, token string) *HTTPSource {
	return &HTTPSource{
		baseURL: baseURL,
		token:   token,
		client:  &http.Client{Timeout: 30 * time.Second},
	}
}

type symptomPayload struct {
	ID           string  `json:"id"`
	Name         string  `json:"name"`
	Category     string  `json:"category"`
	DefaultValue float64 `json:"defaultValue"`
	Optional     bool    `json:"optional"`
}

type userPayload struct {
	ID    uint   `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

func (source *HTTPSource) Symptoms(ctx context.Context) ([]models.Symptom, error) {
	var payload struct {
		Symptoms []symptomPayload `json:"symptoms"`
	}
	if err := source.getJSON(ctx, "/api/v1/symptoms", nil, &payload); err != nil {
		return nil, err
	}

	catalog := make([]models.Symptom, 0, len(payload.Symptoms))
	for _, symptom := range payload.Symptoms {
		catalog = append(catalog, models.Symptom{
			Key:          symptom.ID,
			Name:         symptom.Name,
			Category:     symptom.Category,
			DefaultValue: symptom.DefaultValue,
			Optional:     symptom.Optional,
		})
	}
	return catalog, nil
}

func (source *HTTPSource) Users(ctx context.Context) ([]UserRef, error) {
	var payload struct {
		Users []userPayload `json:"users"`
	}
	if err := source.getJSON(ctx, "/api/v1/users", nil, &payload); err != nil {
		return nil, err
	}

	users := make([]UserRef, 0, len(payload.Users))
	for _, user := range payload.Users {
		users = append(users, UserRef{ID: user.ID, Name: user.Name})
	}
	return users, nil
}

func (source *HTTPSource) DatesBatch(ctx context.Context, userIDs []uint) (map[uint][]string, error) {
	request := struct {
		UserIDs []uint `json:"userIds"`
	}{UserIDs: userIDs}

	payload := make(map[string][]string)
	if err := source.postJSON(ctx, "/api/v1/symptom-logs/dates/batch", request, &payload); err != nil {
		return nil, err
	}

	datesByUser := make(map[uint][]string, len(payload))
	for rawID, dates := range payload {
		userID, err := strconv.ParseUint(rawID, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("parse user id %q in dates batch response: %w", rawID, err)
		}
		datesByUser[uint(userID)] = dates
	}
	return datesByUser, nil
}

func (source *HTTPSource) LogsBatch(ctx context.Context, userIDs []uint, dates []string) (map[uint]map[string]LogRecord, error) {
	request := struct {
		UserIDs []uint   `json:"userIds"`
		Dates   []string `json:"dates"`
	}{UserIDs: userIDs, Dates: dates}

	payload := make(map[string]map[string]struct {
		Symptoms []models.ScoreEntry `json:"symptoms"`
	})
	if err := source.postJSON(ctx, "/api/v1/symptom-logs/batch", request, &payload); err != nil {
		return nil, err
	}

	logs := make(map[uint]map[string]LogRecord, len(payload))
	for rawID, byDate := range payload {
		userID, err := strconv.ParseUint(rawID, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("parse user id %q in logs batch response: %w", rawID, err)
		}
		records := make(map[string]LogRecord, len(byDate))
		for date, record := range byDate {
			records[date] = LogRecord{Scores: record.Symptoms}
		}
		logs[uint(userID)] = records
	}
	return logs, nil
}

func (source *HTTPSource) getJSON(ctx context.Context, path string, query url.Values, out any) error {
	target := source.baseURL + path
	if len(query) > 0 {
		target += "?" + query.Encode()
	}
	request, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return err
	}
	return source.do(request, out)
}

func (source *HTTPSource) postJSON(ctx context.Context, path string, body any, out any) error {
	encoded, err := json.Marshal(body)
	if err != nil {
		return err
	}
	request, err := http.NewRequestWithContext(ctx, http.MethodPost, source.baseURL+path, bytes.NewReader(encoded))
	if err != nil {
		return err
	}
	request.Header.Set("Content-Type", "application/json")
	return source.do(request, out)
}

func (source *HTTPSource) do(request *http.Request, out any) error {
	if source.token != "" {
		request.Header.Set("Authorization", "Bearer "+source.token)
	}

	response, err := source.client.Do(request)
	if err != nil {
		return err
	}
	defer response.Body.Close()

	if response.StatusCode != http.StatusOK {
		return fmt.Errorf("%s %s: unexpected status %d", request.Method, request.URL.Path, response.StatusCode)
	}
	return json.NewDecoder(response.Body).Decode(out)
}
