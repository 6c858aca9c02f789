package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type CustomerStatus string

const (
	CustomerActive     CustomerStatus = "active"
	CustomerInHospital CustomerStatus = "in_hospital"
	CustomerDisabled   CustomerStatus = "disabled"
)

func (s CustomerStatus) Valid() bool {
	switch s {
	case CustomerActive, CustomerInHospital, CustomerDisabled:
		return true
	}
	return false
}

// Customer is a patient whose Webster packs the pharmacy prepares.
// CustomerID is the human-facing identifier printed on packs, not the record key.
type Customer struct {
	ID          uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	OwnerUserID uuid.UUID `gorm:"type:uuid;index;not null" json:"ownerUserId"`
	CustomerID  string    `gorm:"column:customer_code;index;not null" json:"customerId"`

	FirstName   string  `gorm:"not null" json:"firstName"`
	LastName    string  `gorm:"not null" json:"lastName"`
	DateOfBirth string  `gorm:"not null" json:"dateOfBirth"`
	Email       string  `gorm:"not null" json:"email"`
	Phone       *string `json:"phone,omitempty"`
	Address     *string `json:"address,omitempty"`
	Company     *string `json:"company,omitempty"`
	Notes       *string `gorm:"type:text" json:"notes,omitempty"`

	Status CustomerStatus `gorm:"type:varchar(20);not null;index" json:"status"`

	CreatedAt time.Time `gorm:"autoCreateTime:false" json:"createdAt"`
	UpdatedAt time.Time `gorm:"autoUpdateTime:false" json:"updatedAt"`
}

func (Customer) TableName() string { return "customers" }

func (c *Customer) BeforeCreate(tx *gorm.DB) (err error) {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return
}

// FullName joins first and last name the way the directory search matches them.
func (c *Customer) FullName() string {
	return c.FirstName + " " + c.LastName
}

// CustomerSummary is the minimal projection joined onto pack checks and scan-outs.
type CustomerSummary struct {
	FirstName  string `json:"firstName"`
	LastName   string `json:"lastName"`
	CustomerID string `json:"customerId"`
}

func (c *Customer) Summary() *CustomerSummary {
	return &CustomerSummary{
		FirstName:  c.FirstName,
		LastName:   c.LastName,
		CustomerID: c.CustomerID,
	}
}
