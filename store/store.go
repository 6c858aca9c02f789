// Package store persists pharmacy records. Lookups mirror the secondary
// indexes the service relies on: by owner, by customer, by customer code
// and by (customer, pack id).
package store

import (
	"context"
	"errors"
	"time"

	"pillflow-backend/models"

	"github.com/google/uuid"
)

var ErrNotFound = errors.New("record not found")

type Users interface {
	GetUser(ctx context.Context, id uuid.UUID) (*models.User, error)
	UpdateUser(ctx context.Context, user *models.User) error
}

type Customers interface {
	CreateCustomer(ctx context.Context, customer *models.Customer) error
	GetCustomer(ctx context.Context, id uuid.UUID) (*models.Customer, error)
	// ListCustomersByCode returns every customer using code, any owner,
	// oldest first.
	ListCustomersByCode(ctx context.Context, code string) ([]models.Customer, error)
	// ListCustomersByOwner returns the owner's customers, oldest first.
	ListCustomersByOwner(ctx context.Context, owner uuid.UUID) ([]models.Customer, error)
	UpdateCustomer(ctx context.Context, customer *models.Customer) error
	DeleteCustomer(ctx context.Context, id uuid.UUID) error
	// DeleteCustomerCascade removes the customer and its medications, pack
	// checks and scan-outs in one transaction.
	DeleteCustomerCascade(ctx context.Context, id uuid.UUID) error
}

type Medications interface {
	CreateMedication(ctx context.Context, medication *models.Medication) error
	GetMedication(ctx context.Context, id uuid.UUID) (*models.Medication, error)
	// ListMedicationsByCustomer returns the customer's medications, newest first.
	ListMedicationsByCustomer(ctx context.Context, customerID uuid.UUID) ([]models.Medication, error)
	CountActiveMedications(ctx context.Context, owner uuid.UUID) (int64, error)
	UpdateMedication(ctx context.Context, medication *models.Medication) error
	DeleteMedication(ctx context.Context, id uuid.UUID) error
}

type TeamMembers interface {
	CreateTeamMember(ctx context.Context, member *models.TeamMember) error
	GetTeamMember(ctx context.Context, id uuid.UUID) (*models.TeamMember, error)
	FindTeamMemberByInitials(ctx context.Context, owner uuid.UUID, initials string) (*models.TeamMember, error)
	// ListTeamMembersByOwner returns the owner's team, newest first.
	ListTeamMembersByOwner(ctx context.Context, owner uuid.UUID) ([]models.TeamMember, error)
	UpdateTeamMember(ctx context.Context, member *models.TeamMember) error
	DeleteTeamMember(ctx context.Context, id uuid.UUID) error
}

// PackCheckFilter narrows ListPackChecks. Zero fields do not filter.
type PackCheckFilter struct {
	OwnerUserID  uuid.UUID // owner of the checked customer
	CreatedSince time.Time
	Limit        int
}

type PackChecks interface {
	CreatePackCheck(ctx context.Context, check *models.PackCheck) error
	// ListPackChecks returns matching checks, newest first.
	ListPackChecks(ctx context.Context, filter PackCheckFilter) ([]models.PackCheck, error)
	// FindPackCheck returns the first check recorded for the pack.
	FindPackCheck(ctx context.Context, customerID uuid.UUID, websterPackID string) (*models.PackCheck, error)
}

// ScanOutFilter narrows ListScanOuts. Zero fields do not filter.
type ScanOutFilter struct {
	OwnerUserID   uuid.UUID // owner of the customer
	Status        models.ScanOutStatus
	CreatedBefore time.Time
	UpdatedSince  time.Time
	Limit         int
}

type ScanOuts interface {
	CreateScanOut(ctx context.Context, scanOut *models.ScanOut) error
	GetScanOut(ctx context.Context, id uuid.UUID) (*models.ScanOut, error)
	// ListScanOuts returns matching scan-outs, newest first.
	ListScanOuts(ctx context.Context, filter ScanOutFilter) ([]models.ScanOut, error)
	UpdateScanOut(ctx context.Context, scanOut *models.ScanOut) error
}

type ReminderLogs interface {
	CreateReminderLog(ctx context.Context, entry *models.DeliveryReminderLog) error
	// ReminderSent reports whether a successful reminder exists for the scan-out.
	ReminderSent(ctx context.Context, scanOutID uuid.UUID) (bool, error)
}

type Store interface {
	Users
	Customers
	Medications
	TeamMembers
	PackChecks
	ScanOuts
	ReminderLogs
}
