package models

import (
	"time"
)

// User is a row of the identity system's user table. This service only reads
// it and relies on its deletion for cascades.
type User struct {
	ID        string    `gorm:"column:id;primaryKey"`
	Name      string    `gorm:"column:name"`
	Email     string    `gorm:"column:email"`
	Role      string    `gorm:"column:role"` // "admin" or "user"
	CreatedAt time.Time `gorm:"column:createdAt"`
	UpdatedAt time.Time `gorm:"column:updatedAt"`
}

func (User) TableName() string {
	return "user"
}

// IsAdmin returns true if the user has admin role
func (u *User) IsAdmin() bool {
	return u.Role == "admin"
}

// Session is a login session issued by the identity system.
type Session struct {
	ID        string    `gorm:"column:id;primaryKey"`
	UserID    string    `gorm:"column:userId;not null"`
	Token     string    `gorm:"column:token"`
	ExpiresAt time.Time `gorm:"column:expiresAt"`
	CreatedAt time.Time `gorm:"column:createdAt"`
	UpdatedAt time.Time `gorm:"column:updatedAt"`
}

func (Session) TableName() string {
	return "session"
}
