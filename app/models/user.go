package models

import (
	"time"

	"github.com/shashiranjanraj/jwtpizza/pkg/auth"
)

// User is a registered account. Password holds the bcrypt hash.
type User struct {
	ID        uint       `gorm:"primaryKey"                                     json:"id"`
	Name      string     `gorm:"size:255;not null"                              json:"name"`
	Email     string     `gorm:"uniqueIndex;size:255;not null"                  json:"email"`
	Password  string     `gorm:"size:255;not null"                              json:"-"` // hashed, never serialised
	Roles     []UserRole `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"roles"`
	CreatedAt time.Time  `json:"-"`
	UpdatedAt time.Time  `json:"-"`
}

// UserRole grants one role to a user. ObjectID scopes franchisee grants.
type UserRole struct {
	ID       uint   `gorm:"primaryKey"              json:"-"`
	UserID   uint   `gorm:"not null;index"          json:"-"`
	Role     string `gorm:"size:32;not null;index"  json:"role"`
	ObjectID uint   `gorm:"not null;default:0;index" json:"objectId,omitempty"`
}

// Identity is the token-facing view of u.
func (u User) Identity() auth.Identity {
	roles := make([]auth.Role, len(u.Roles))
	for i, r := range u.Roles {
		roles[i] = auth.Role{Role: r.Role, ObjectID: r.ObjectID}
	}
	return auth.Identity{ID: u.ID, Name: u.Name, Email: u.Email, Roles: roles}
}

// RolesFrom converts token roles into rows for u.
func RolesFrom(roles []auth.Role) []UserRole {
	out := make([]UserRole, len(roles))
	for i, r := range roles {
		out[i] = UserRole{Role: r.Role, ObjectID: r.ObjectID}
	}
	return out
}
