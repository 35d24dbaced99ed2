package models

import "time"

const (
	RoleAdmin  = "admin"
	RoleMember = "member"
)

type User struct {
	ID           uint      `gorm:"primaryKey"`
	Name         string    `gorm:"not null"`
	Email        string    `gorm:"uniqueIndex;not null"`
	PasswordHash string    `gorm:"not null"`
	Role         string    `gorm:"not null;default:member"`
	CreatedAt    time.Time `gorm:"not null"`
}

func (user *User) IsAdmin() bool {
	return user != nil && user.Role == RoleAdmin
}
