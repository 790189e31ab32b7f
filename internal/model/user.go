package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// UserRole enum
type UserRole string

const (
	RoleAdmin UserRole = "ADMIN"
	RoleUser  UserRole = "USER"
)

func (r UserRole) Valid() bool {
	return r == RoleAdmin || r == RoleUser
}

// User is the identity shown as requester or admin on deposit requests
type User struct {
	ID        uuid.UUID      `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	FullName  string         `gorm:"type:varchar(255);not null" json:"full_name"`
	Username  string         `gorm:"type:varchar(100);uniqueIndex;not null" json:"username"`
	Phone     string         `gorm:"type:varchar(20)" json:"phone"`
	Role      UserRole       `gorm:"type:varchar(20);not null;default:'USER'" json:"role"`
	Note      string         `gorm:"type:text" json:"note"`
	CreatedAt time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"` // GORM soft delete
}
