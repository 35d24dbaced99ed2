package api

import "github.com/gofiber/fiber/v2"

// ListUsers returns the member accounts tracked by the analytics views.
// The admin account itself is reference-only and excluded.
func (handler *Handler) ListUsers(c *fiber.Ctx) error {
	users, err := handler.repositories.Users.ListMembers()
	if err != nil {
		return apiError(c, fiber.StatusInternalServerError, "could not load users")
	}

	payload := make([]fiber.Map, 0, len(users))
	for _, user := range users {
		payload = append(payload, fiber.Map{
			"id":    user.ID,
			"name":  user.Name,
			"email": user.Email,
		})
	}
	return c.JSON(fiber.Map{"users": payload})
}
