package api

import (
	"errors"

	"gorm.io/gorm"
)

func NewHandler(database *gorm.DB, secretKey string, cookieSecure bool) (*Handler, error) {
	if database == nil {
		return nil, errors.New("database is required")
	}
	if secretKey == "" {
		return nil, errors.New("secret key is required")
	}

	handler := &Handler{
		db:           database,
		secretKey:    []byte(secretKey),
		cookieSecure: cookieSecure,
		loginLimiter: newAttemptLimiter(),
	}
	return handler.withDependencies(database), nil
}
