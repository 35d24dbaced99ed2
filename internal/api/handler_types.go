package api

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/harborwell/reliva/internal/analytics"
	"github.com/harborwell/reliva/internal/db"
	"github.com/harborwell/reliva/internal/services"
	"gorm.io/gorm"
)

const (
	authCookieName = "reliva_token"
	authTokenTTL   = 7 * 24 * time.Hour

	loginAttemptLimit  = 5
	loginAttemptWindow = 15 * time.Minute
)

type Handler struct {
	db           *gorm.DB
	secretKey    []byte
	cookieSecure bool

	repositories   *db.Repositories
	authService    *services.AuthService
	catalogService *services.CatalogService
	logService     *services.SymptomLogService
	engine         *analytics.Orchestrator

	loginLimiter *attemptLimiter
}

type authClaims struct {
	UserID uint   `json:"uid"`
	Role   string `json:"role"`
	jwt.RegisteredClaims
}
