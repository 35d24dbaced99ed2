package api

import "github.com/gofiber/fiber/v2"

func (handler *Handler) GetSymptoms(c *fiber.Ctx) error {
	symptoms, err := handler.catalogService.ListSymptoms()
	if err != nil {
		return apiError(c, fiber.StatusInternalServerError, "could not load symptoms")
	}

	payload := make([]fiber.Map, 0, len(symptoms))
	for _, symptom := range symptoms {
		payload = append(payload, fiber.Map{
			"id":           symptom.Key,
			"name":         symptom.Name,
			"category":     symptom.Category,
			"defaultValue": symptom.DefaultValue,
			"optional":     symptom.Optional,
		})
	}
	return c.JSON(fiber.Map{"symptoms": payload})
}
