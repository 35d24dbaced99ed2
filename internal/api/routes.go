package api

import "github.com/gofiber/fiber/v2"

func RegisterRoutes(app *fiber.App, handler *Handler) {
	app.Get("/healthz", handler.Health)

	api := app.Group("/api/v1")

	auth := api.Group("/auth")
	auth.Post("/register", handler.Register)
	auth.Post("/login", handler.Login)
	auth.Post("/logout", handler.AuthRequired, handler.Logout)

	api.Get("/symptoms", handler.AuthRequired, handler.GetSymptoms)
	api.Get("/users", handler.AuthRequired, handler.AdminOnly, handler.ListUsers)

	logs := api.Group("/symptom-logs", handler.AuthRequired)
	logs.Post("", handler.SaveSymptomLog)
	logs.Delete("", handler.DeleteSymptomLog)
	logs.Get("/by-date", handler.GetSymptomLogByDate)
	logs.Get("/dates", handler.GetDatesWithEntries)
	logs.Post("/dates/batch", handler.AdminOnly, handler.GetDatesBatch)
	logs.Post("/batch", handler.AdminOnly, handler.GetLogsBatch)

	apiAnalytics := api.Group("/analytics", handler.AuthRequired, handler.AdminOnly)
	apiAnalytics.Get("/trends", handler.GetTrends)
}
