package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ScanOutStatus string

const (
	ScannedOut ScanOutStatus = "scanned_out"
	Delivered  ScanOutStatus = "delivered"
)

func (s ScanOutStatus) Valid() bool {
	return s == ScannedOut || s == Delivered
}

// ScanOut tracks a pack leaving the pharmacy until it is delivered.
type ScanOut struct {
	ID                 uuid.UUID     `gorm:"type:uuid;primary_key" json:"id"`
	CustomerID         uuid.UUID     `gorm:"type:uuid;index;not null" json:"customerId"`
	PharmacistInitials string        `gorm:"type:varchar(3);not null" json:"pharmacistInitials"`
	WebsterPackID      string        `gorm:"index;not null" json:"websterPackId"`
	PackType           PackType      `gorm:"type:varchar(20);not null;default:'blister_packs'" json:"packType"`
	Notes              *string       `gorm:"type:text" json:"notes,omitempty"`
	Status             ScanOutStatus `gorm:"type:varchar(20);not null;index" json:"status"`

	CreatedAt time.Time `gorm:"autoCreateTime:false;index" json:"createdAt"`
	UpdatedAt time.Time `gorm:"autoUpdateTime:false" json:"updatedAt"`
}

func (ScanOut) TableName() string { return "scan_outs" }

func (s *ScanOut) BeforeCreate(tx *gorm.DB) (err error) {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return
}
