package models

import (
	"time"

	"github.com/google/uuid"
)

// User rows are provisioned by the identity provider; only the profile
// fields are written here.
type User struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	Name      string    `json:"name"`
	Email     string    `gorm:"index" json:"email"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `gorm:"autoUpdateTime:false" json:"updatedAt"`
}

func (User) TableName() string { return "users" }
