package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// TeamMember is a pharmacist or technician selectable as the person who
// performed a check or scan-out. It is not a login identity.
type TeamMember struct {
	ID          uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	OwnerUserID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_owner_initials,priority:1" json:"ownerUserId"`
	Initials    string    `gorm:"type:varchar(3);not null;uniqueIndex:idx_owner_initials,priority:2" json:"initials"`
	FullName    string    `gorm:"not null" json:"fullName"`
	Email       *string   `json:"email,omitempty"`
	Role        *string   `json:"role,omitempty"`
	IsActive    bool      `gorm:"default:true" json:"isActive"`

	CreatedAt time.Time `gorm:"autoCreateTime:false" json:"createdAt"`
	UpdatedAt time.Time `gorm:"autoUpdateTime:false" json:"updatedAt"`
}

func (TeamMember) TableName() string { return "team_members" }

func (t *TeamMember) BeforeCreate(tx *gorm.DB) (err error) {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	return
}
