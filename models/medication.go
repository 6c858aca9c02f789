package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type MedicationForm string

const (
	FormTablet    MedicationForm = "tablet"
	FormCapsule   MedicationForm = "capsule"
	FormLiquid    MedicationForm = "liquid"
	FormInjection MedicationForm = "injection"
	FormCream     MedicationForm = "cream"
	FormInhaler   MedicationForm = "inhaler"
	FormPatch     MedicationForm = "patch"
	FormOther     MedicationForm = "other"
)

func (f MedicationForm) Valid() bool {
	switch f {
	case FormTablet, FormCapsule, FormLiquid, FormInjection, FormCream, FormInhaler, FormPatch, FormOther:
		return true
	}
	return false
}

type TimeSlot string

const (
	Morning   TimeSlot = "morning"
	Afternoon TimeSlot = "afternoon"
	Evening   TimeSlot = "evening"
	Night     TimeSlot = "night"
)

// TimeSlots lists the dosing windows in the order packs are laid out.
var TimeSlots = []TimeSlot{Morning, Afternoon, Evening, Night}

// Frequency holds the dose count per time slot. A nil slot means no dose.
type Frequency struct {
	Morning   *int `json:"morning,omitempty"`
	Afternoon *int `json:"afternoon,omitempty"`
	Evening   *int `json:"evening,omitempty"`
	Night     *int `json:"night,omitempty"`
}

// Dose returns the dose for a slot, zero when absent.
func (f Frequency) Dose(slot TimeSlot) int {
	var v *int
	switch slot {
	case Morning:
		v = f.Morning
	case Afternoon:
		v = f.Afternoon
	case Evening:
		v = f.Evening
	case Night:
		v = f.Night
	}
	if v == nil {
		return 0
	}
	return *v
}

type Medication struct {
	ID          uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	OwnerUserID uuid.UUID `gorm:"type:uuid;index;not null" json:"ownerUserId"`
	CustomerID  uuid.UUID `gorm:"type:uuid;index;not null" json:"customerId"`

	Name         string         `gorm:"not null" json:"name"`
	Form         MedicationForm `gorm:"type:varchar(20);not null" json:"form"`
	Strength     string         `gorm:"not null" json:"strength"`
	Frequency    Frequency      `gorm:"embedded;embeddedPrefix:freq_" json:"frequency"`
	Instructions *string        `gorm:"type:text" json:"instructions,omitempty"`
	StartDate    string         `gorm:"not null" json:"startDate"`
	EndDate      *string        `json:"endDate,omitempty"`
	IsActive     bool           `gorm:"default:true;index" json:"isActive"`

	CreatedAt time.Time `gorm:"autoCreateTime:false" json:"createdAt"`
	UpdatedAt time.Time `gorm:"autoUpdateTime:false" json:"updatedAt"`
}

func (Medication) TableName() string { return "medications" }

func (m *Medication) BeforeCreate(tx *gorm.DB) (err error) {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	return
}
