package models

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type PackType string

const (
	BlisterPacks PackType = "blister_packs"
	SachetRolls  PackType = "sachet_rolls"
)

func (p PackType) Valid() bool {
	return p == BlisterPacks || p == SachetRolls
}

// OrDefault returns blister_packs for an unset pack type.
func (p PackType) OrDefault() PackType {
	if p == "" {
		return BlisterPacks
	}
	return p
}

type PackCheckStatus string

const (
	PackCheckPending PackCheckStatus = "pending"
	PackCheckChecked PackCheckStatus = "checked"
)

func (s PackCheckStatus) Valid() bool {
	return s == PackCheckPending || s == PackCheckChecked
}

// CheckedMedication is a pharmacist's verdict on one medication entry of a pack.
type CheckedMedication struct {
	MedicationID uuid.UUID `json:"medicationId"`
	Name         string    `json:"name"`
	Form         string    `json:"form"`
	Strength     string    `json:"strength"`
	Morning      *int      `json:"morning,omitempty"`
	Afternoon    *int      `json:"afternoon,omitempty"`
	Evening      *int      `json:"evening,omitempty"`
	Night        *int      `json:"night,omitempty"`
	Correct      bool      `json:"correct"`
	Comment      string    `json:"comment,omitempty"`
}

// CheckedMedicationList is stored as a jsonb column.
type CheckedMedicationList []CheckedMedication

func (l CheckedMedicationList) Value() (driver.Value, error) {
	if l == nil {
		return nil, nil
	}
	return json.Marshal(l)
}

func (l *CheckedMedicationList) Scan(value interface{}) error {
	if value == nil {
		*l = nil
		return nil
	}
	var b []byte
	switch v := value.(type) {
	case []byte:
		b = v
	case string:
		b = []byte(v)
	default:
		return errors.New("type assertion to []byte failed")
	}
	return json.Unmarshal(b, l)
}

// PackCheck records one verification event for a Webster pack. Rows are
// never updated after insert.
type PackCheck struct {
	ID                 uuid.UUID             `gorm:"type:uuid;primary_key" json:"id"`
	CustomerID         uuid.UUID             `gorm:"type:uuid;index:idx_pack_checks_customer_pack,priority:1;not null" json:"customerId"`
	PharmacistInitials string                `gorm:"type:varchar(3);not null" json:"pharmacistInitials"`
	WebsterPackID      string                `gorm:"index:idx_pack_checks_customer_pack,priority:2;not null" json:"websterPackId"`
	PackType           PackType              `gorm:"type:varchar(20);not null;default:'blister_packs'" json:"packType"`
	Notes              *string               `gorm:"type:text" json:"notes,omitempty"`
	CheckedMedications CheckedMedicationList `gorm:"type:jsonb" json:"checkedMedications,omitempty"`
	Status             PackCheckStatus       `gorm:"type:varchar(20);not null" json:"status"`

	CreatedAt time.Time `gorm:"autoCreateTime:false;index" json:"createdAt"`
	UpdatedAt time.Time `gorm:"autoUpdateTime:false" json:"updatedAt"`
}

func (PackCheck) TableName() string { return "pack_checks" }

func (p *PackCheck) BeforeCreate(tx *gorm.DB) (err error) {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return
}
