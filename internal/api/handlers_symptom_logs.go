package api

import (
	"errors"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/harborwell/reliva/internal/models"
	"github.com/harborwell/reliva/internal/services"
)

type saveLogRequest struct {
	UserID uint                `json:"userId"`
	Date   string              `json:"date"`
	Scores []models.ScoreEntry `json:"scores"`
}

type datesBatchRequest struct {
	UserIDs []uint `json:"userIds"`
}

type logsBatchRequest struct {
	UserIDs []uint   `json:"userIds"`
	Dates   []string `json:"dates"`
}

func (handler *Handler) SaveSymptomLog(c *fiber.Ctx) error {
	var request saveLogRequest
	if err := c.BodyParser(&request); err != nil {
		return apiError(c, fiber.StatusBadRequest, "invalid request body")
	}

	targetUserID, err := handler.resolveTargetUser(c, request.UserID)
	if err != nil {
		return apiError(c, fiber.StatusForbidden, "cannot write another user's log")
	}

	entry, err := handler.logService.Save(targetUserID, request.Date, request.Scores)
	if err != nil {
		return logServiceError(c, err)
	}
	handler.engine.InvalidateWrite(targetUserID, request.Date)
	return c.JSON(logPayload(entry))
}

func (handler *Handler) DeleteSymptomLog(c *fiber.Ctx) error {
	date := c.Query("date")
	targetUserID, err := handler.resolveTargetUser(c, queryUserID(c))
	if err != nil {
		return apiError(c, fiber.StatusForbidden, "cannot delete another user's log")
	}

	if err := handler.logService.Delete(targetUserID, date); err != nil {
		return logServiceError(c, err)
	}
	handler.engine.InvalidateWrite(targetUserID, date)
	return c.JSON(fiber.Map{"status": "ok"})
}

func (handler *Handler) GetSymptomLogByDate(c *fiber.Ctx) error {
	date := c.Query("date")
	targetUserID, err := handler.resolveTargetUser(c, queryUserID(c))
	if err != nil {
		return apiError(c, fiber.StatusForbidden, "cannot read another user's log")
	}

	entry, err := handler.logService.Get(targetUserID, date)
	if err != nil {
		return logServiceError(c, err)
	}
	return c.JSON(logPayload(entry))
}

func (handler *Handler) GetDatesWithEntries(c *fiber.Ctx) error {
	targetUserID, err := handler.resolveTargetUser(c, queryUserID(c))
	if err != nil {
		return apiError(c, fiber.StatusForbidden, "cannot read another user's dates")
	}

	dates, err := handler.logService.DatesForUser(targetUserID)
	if err != nil {
		return apiError(c, fiber.StatusInternalServerError, "could not load dates")
	}
	return c.JSON(fiber.Map{"datesWithEntries": dates})
}

// GetDatesBatch resolves many users' saved dates in one round trip. Keys are
// stringified user ids so the response is a plain JSON object.
func (handler *Handler) GetDatesBatch(c *fiber.Ctx) error {
	var request datesBatchRequest
	if err := c.BodyParser(&request); err != nil {
		return apiError(c, fiber.StatusBadRequest, "invalid request body")
	}

	datesByUser, err := handler.logService.DatesBatch(request.UserIDs)
	if err != nil {
		return apiError(c, fiber.StatusBadRequest, err.Error())
	}

	payload := make(map[string][]string, len(datesByUser))
	for userID, dates := range datesByUser {
		payload[strconv.FormatUint(uint64(userID), 10)] = dates
	}
	return c.JSON(payload)
}

// GetLogsBatch returns a record for every requested (user, date) pair, with
// an empty symptom list where nothing is saved.
func (handler *Handler) GetLogsBatch(c *fiber.Ctx) error {
	var request logsBatchRequest
	if err := c.BodyParser(&request); err != nil {
		return apiError(c, fiber.StatusBadRequest, "invalid request body")
	}

	logsByUser, err := handler.logService.LogsBatch(request.UserIDs, request.Dates)
	if err != nil {
		return apiError(c, fiber.StatusBadRequest, err.Error())
	}

	payload := make(map[string]map[string]fiber.Map, len(logsByUser))
	for userID, byDate := range logsByUser {
		dateMap := make(map[string]fiber.Map, len(byDate))
		for date, scores := range byDate {
			dateMap[date] = fiber.Map{"symptoms": scores}
		}
		payload[strconv.FormatUint(uint64(userID), 10)] = dateMap
	}
	return c.JSON(payload)
}

// resolveTargetUser applies the ownership rule: members act on their own
// logs only, admins may name any user.
func (handler *Handler) resolveTargetUser(c *fiber.Ctx, requested uint) (uint, error) {
	user := currentUser(c)
	if requested == 0 || requested == user.ID {
		return user.ID, nil
	}
	if !user.IsAdmin() {
		return 0, errors.New("forbidden")
	}
	return requested, nil
}

func queryUserID(c *fiber.Ctx) uint {
	parsed, err := strconv.ParseUint(c.Query("userId"), 10, 64)
	if err != nil {
		return 0
	}
	return uint(parsed)
}

func logPayload(entry models.SymptomLog) fiber.Map {
	return fiber.Map{
		"date":   entry.Date,
		"scores": entry.Scores,
	}
}

func logServiceError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, services.ErrLogNotFound):
		return apiError(c, fiber.StatusNotFound, "no log for that date")
	case errors.Is(err, services.ErrInvalidDateKey),
		errors.Is(err, services.ErrEmptyScores),
		errors.Is(err, services.ErrDuplicateSymptom):
		return apiError(c, fiber.StatusBadRequest, err.Error())
	default:
		return apiError(c, fiber.StatusInternalServerError, "symptom log operation failed")
	}
}
