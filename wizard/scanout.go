package wizard

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"pillflow-backend/models"
	"pillflow-backend/services"

	"github.com/google/uuid"
)

var (
	// ErrNotConfirmed is returned when the operator declines to send out a
	// pack that has no pack check on record.
	ErrNotConfirmed      = errors.New("scan out cancelled: pack has not been checked")
	ErrCustomerNotActive = errors.New("customer is not active")
)

type ScanOutAPI interface {
	TeamAPI
	ListCustomers(ctx context.Context, search, status string) ([]models.Customer, error)
	CheckPackExists(ctx context.Context, customerID uuid.UUID, websterPackID string) (*services.PackExistence, error)
	CreateScanOut(ctx context.Context, input services.CreateScanOutInput) (uuid.UUID, error)
	UpdateScanOutStatus(ctx context.Context, id uuid.UUID, status models.ScanOutStatus) error
}

// ConfirmFunc asks the operator whether to continue with an unchecked pack.
type ConfirmFunc func(customerID uuid.UUID, websterPackID string) bool

type ScanOut struct {
	api     ScanOutAPI
	confirm ConfirmFunc
}

// NewScanOut returns a scan-out form. A nil confirm declines every
// unchecked pack.
func NewScanOut(api ScanOutAPI, confirm ConfirmFunc) *ScanOut {
	if confirm == nil {
		confirm = func(uuid.UUID, string) bool { return false }
	}
	return &ScanOut{api: api, confirm: confirm}
}

// ActivePharmacists lists the team members that can scan a pack out.
func (s *ScanOut) ActivePharmacists(ctx context.Context) ([]models.TeamMember, error) {
	return ActivePharmacists(ctx, s.api)
}

// EligibleCustomers lists the customers a pack can be sent to.
func (s *ScanOut) EligibleCustomers(ctx context.Context) ([]models.Customer, error) {
	return s.api.ListCustomers(ctx, "", string(models.CustomerActive))
}

// Submit records a pack leaving the pharmacy. The initial status is taken
// as given.
func (s *ScanOut) Submit(ctx context.Context, input services.CreateScanOutInput) (uuid.UUID, error) {
	if input.CustomerID == uuid.Nil || strings.TrimSpace(input.WebsterPackID) == "" || strings.TrimSpace(input.PharmacistInitials) == "" {
		return uuid.Nil, ErrMissingFields
	}
	if input.Status == "" {
		input.Status = models.ScannedOut
	}
	input.PackType = input.PackType.OrDefault()

	if err := s.requireActiveCustomer(ctx, input.CustomerID); err != nil {
		return uuid.Nil, err
	}
	if err := requireActivePharmacist(ctx, s.api, input.PharmacistInitials); err != nil {
		return uuid.Nil, err
	}

	existence, err := s.api.CheckPackExists(ctx, input.CustomerID, input.WebsterPackID)
	if err != nil {
		return uuid.Nil, fmt.Errorf("check pack: %w", err)
	}
	if !existence.IsChecked && !s.confirm(input.CustomerID, input.WebsterPackID) {
		return uuid.Nil, ErrNotConfirmed
	}

	id, err := s.api.CreateScanOut(ctx, input)
	if err != nil {
		return uuid.Nil, fmt.Errorf("save scan out: %w", err)
	}
	return id, nil
}

func (s *ScanOut) requireActiveCustomer(ctx context.Context, id uuid.UUID) error {
	customers, err := s.EligibleCustomers(ctx)
	if err != nil {
		return fmt.Errorf("load customers: %w", err)
	}
	for _, c := range customers {
		if c.ID == id {
			return nil
		}
	}
	return ErrCustomerNotActive
}

// MarkDelivered moves a scanned-out pack to delivered.
func (s *ScanOut) MarkDelivered(ctx context.Context, id uuid.UUID) error {
	return s.api.UpdateScanOutStatus(ctx, id, models.Delivered)
}
