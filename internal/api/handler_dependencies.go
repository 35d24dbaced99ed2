package api

import (
	"github.com/harborwell/reliva/internal/analytics"
	"github.com/harborwell/reliva/internal/db"
	"github.com/harborwell/reliva/internal/services"
	"gorm.io/gorm"
)

func (handler *Handler) withDependencies(database *gorm.DB) *Handler {
	handler.repositories = db.NewRepositories(database)
	handler.authService = services.NewAuthService(handler.repositories.Users)
	handler.catalogService = services.NewCatalogService(handler.repositories.Symptoms)
	handler.logService = services.NewSymptomLogService(handler.repositories.SymptomLogs)

	source := services.NewStoreSource(handler.repositories.Users, handler.catalogService, handler.logService)
	handler.engine = analytics.NewOrchestrator(analytics.NewCache(), source)
	return handler
}
