package api

import (
	"errors"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/harborwell/reliva/internal/analytics"
)

// GetTrends runs the aggregation pipeline for the filter encoded in the
// query string and returns chart points, per-symptom reductions and the
// overall change line in one payload.
func (handler *Handler) GetTrends(c *fiber.Ctx) error {
	filter, err := parseTrendsFilter(c)
	if err != nil {
		return apiError(c, fiber.StatusBadRequest, err.Error())
	}

	result, err := handler.engine.RunPipeline(c.Context(), filter)
	if err != nil {
		var validation *analytics.ValidationError
		switch {
		case errors.As(err, &validation):
			return apiError(c, fiber.StatusBadRequest, validation.Error())
		case errors.Is(err, analytics.ErrSuperseded):
			return apiError(c, fiber.StatusConflict, "request superseded by a newer filter")
		default:
			return apiError(c, fiber.StatusBadGateway, "analytics pipeline failed")
		}
	}

	return c.JSON(fiber.Map{
		"chartData":     result.ChartData,
		"reductionData": result.ReductionData,
		"overallChange": result.OverallChange,
	})
}

func parseTrendsFilter(c *fiber.Ctx) (analytics.Filter, error) {
	filter := analytics.Filter{
		SymptomID: analytics.SymptomAll,
		Range:     analytics.RangeMonth,
	}

	if raw := c.Query("user"); raw != "" && raw != "all" {
		parsed, err := strconv.ParseUint(raw, 10, 64)
		if err != nil {
			return analytics.Filter{}, errors.New("user must be a numeric id or \"all\"")
		}
		filter.UserID = uint(parsed)
	}
	if symptom := c.Query("symptom"); symptom != "" {
		filter.SymptomID = symptom
	}
	if rangeToken := c.Query("range"); rangeToken != "" {
		filter.Range = analytics.RangeToken(rangeToken)
	}

	start, end := c.Query("start"), c.Query("end")
	if (start == "") != (end == "") {
		return analytics.Filter{}, errors.New("start and end must be provided together")
	}
	if start != "" {
		startDay, err := parseQueryDate(start)
		if err != nil {
			return analytics.Filter{}, err
		}
		endDay, err := parseQueryDate(end)
		if err != nil {
			return analytics.Filter{}, err
		}
		if endDay.Before(startDay) {
			return analytics.Filter{}, errors.New("end must not precede start")
		}
		filter.Range = analytics.RangeCustom
		filter.StartDate = &startDay
		filter.EndDate = &endDay
	}
	return filter, nil
}

func parseQueryDate(raw string) (time.Time, error) {
	day, err := time.Parse(analytics.DateKeyFormat, raw)
	if err != nil {
		return time.Time{}, errors.New("dates must use the 2006-01-02 format")
	}
	return day, nil
}
