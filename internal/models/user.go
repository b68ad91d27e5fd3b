package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Role string

const (
	RoleUser      Role = "user"
	RoleModerator Role = "moderator"
	RoleAdmin     Role = "admin"
)

type User struct {
	ID        string `gorm:"primaryKey;type:uuid" json:"id"`
	Username  string `gorm:"uniqueIndex;not null;size:150" json:"username"`
	Email     string `gorm:"uniqueIndex;not null;size:254" json:"email"`
	FirstName string `gorm:"size:150" json:"first_name"`
	LastName  string `gorm:"size:150" json:"last_name"`
	Bio       string `gorm:"type:text" json:"bio"`
	Role      Role   `gorm:"size:9;default:'user';not null" json:"role"`

	// Staff/superuser flags confer admin capability independent of Role.
	IsStaff     bool `gorm:"default:false" json:"-"`
	IsSuperuser bool `gorm:"default:false" json:"-"`

	// ConfirmationHash holds the bcrypt hash of the last issued
	// confirmation code; the plaintext code is never stored.
	ConfirmationHash string `gorm:"column:confirmation_hash" json:"-"`

	// Verified flips on the first successful token exchange. It does not
	// gate anything: users are active from signup.
	Verified bool `gorm:"default:false" json:"-"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// BeforeCreate hook to set UUID before creating a User
func (user *User) BeforeCreate(tx *gorm.DB) (err error) {
	if user.ID == "" {
		user.ID = uuid.New().String()
	}
	return
}

func (User) TableName() string {
	return "users"
}
