package db

import "gorm.io/gorm"

type Repositories struct {
	Users       *UserRepository
	Symptoms    *SymptomRepository
	SymptomLogs *SymptomLogRepository
}

func NewRepositories(database *gorm.DB) *Repositories {
	return &Repositories{
		Users:       NewUserRepository(database),
		Symptoms:    NewSymptomRepository(database),
		SymptomLogs: NewSymptomLogRepository(database),
	}
}
