package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"pillflow-backend/events"
	"pillflow-backend/metrics"
	"pillflow-backend/models"
	"pillflow-backend/store"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// HistoryLimit caps the pack-check and scan-out lists.
const HistoryLimit = 50

type PackCheckService struct {
	*deps
}

type CreatePackCheckInput struct {
	CustomerID         uuid.UUID                    `json:"customerId" binding:"required"`
	PharmacistInitials string                       `json:"pharmacistInitials" binding:"required"`
	WebsterPackID      string                       `json:"websterPackId" binding:"required"`
	PackType           models.PackType              `json:"packType"`
	Notes              *string                      `json:"notes"`
	CheckedMedications models.CheckedMedicationList `json:"checkedMedications"`
	Status             models.PackCheckStatus       `json:"status" binding:"required"`
}

// PackCheckView is a pack check with the customer it belongs to, or a nil
// customer when that record is gone.
type PackCheckView struct {
	models.PackCheck
	Customer *models.CustomerSummary `json:"customer"`
}

func (s *PackCheckService) Create(ctx context.Context, input CreatePackCheckInput) (uuid.UUID, error) {
	userID, err := caller(ctx)
	if err != nil {
		return uuid.Nil, err
	}

	packType := input.PackType.OrDefault()
	switch {
	case strings.TrimSpace(input.PharmacistInitials) == "":
		return uuid.Nil, invalid("pharmacistInitials is required")
	case strings.TrimSpace(input.WebsterPackID) == "":
		return uuid.Nil, invalid("websterPackId is required")
	case !packType.Valid():
		return uuid.Nil, invalid("unknown pack type %q", input.PackType)
	case !input.Status.Valid():
		return uuid.Nil, invalid("unknown status %q", input.Status)
	}

	owner := uuid.Nil
	if s.opts.ScopePackChecksToOwner {
		if _, err := s.ownedCustomer(ctx, userID, input.CustomerID); err != nil {
			return uuid.Nil, err
		}
		owner = userID
	} else if customer, err := s.store.GetCustomer(ctx, input.CustomerID); err == nil {
		owner = customer.OwnerUserID
	} else if !errors.Is(err, store.ErrNotFound) {
		return uuid.Nil, fmt.Errorf("load customer: %w", err)
	}

	now := s.now()
	check := &models.PackCheck{
		ID:                 uuid.New(),
		CustomerID:         input.CustomerID,
		PharmacistInitials: input.PharmacistInitials,
		WebsterPackID:      input.WebsterPackID,
		PackType:           packType,
		Notes:              input.Notes,
		CheckedMedications: input.CheckedMedications,
		Status:             input.Status,
		CreatedAt:          now,
		UpdatedAt:          now,
	}
	if err := s.store.CreatePackCheck(ctx, check); err != nil {
		return uuid.Nil, fmt.Errorf("create pack check: %w", err)
	}

	metrics.PackChecksCreated.Inc()
	s.log.Info("pack checked",
		zap.String("id", check.ID.String()),
		zap.String("webster_pack_id", check.WebsterPackID),
		zap.String("pharmacist", check.PharmacistInitials),
		zap.Int("entries", len(check.CheckedMedications)))
	s.publish(ctx, events.PackChecks, events.OpCreate, check.ID, owner)
	return check.ID, nil
}

// Shared reports whether checks are visible to every caller.
func (s *PackCheckService) Shared() bool {
	return !s.opts.ScopePackChecksToOwner
}

// List returns the most recent checks, newest first. Without
// ScopePackChecksToOwner the list spans every owner.
func (s *PackCheckService) List(ctx context.Context) ([]PackCheckView, error) {
	userID, err := caller(ctx)
	if err != nil {
		return nil, err
	}
	filter := store.PackCheckFilter{Limit: HistoryLimit}
	if s.opts.ScopePackChecksToOwner {
		filter.OwnerUserID = userID
	}
	return s.list(ctx, filter)
}

func (s *PackCheckService) list(ctx context.Context, filter store.PackCheckFilter) ([]PackCheckView, error) {
	checks, err := s.store.ListPackChecks(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("list pack checks: %w", err)
	}
	lookup := newCustomerLookup(s.store)
	views := make([]PackCheckView, 0, len(checks))
	for _, check := range checks {
		customer, err := lookup.get(ctx, check.CustomerID)
		if err != nil {
			return nil, err
		}
		view := PackCheckView{PackCheck: check}
		if customer != nil {
			view.Customer = customer.Summary()
		}
		views = append(views, view)
	}
	return views, nil
}

// CountSince counts the caller's checks created at or after since.
func (s *PackCheckService) CountSince(ctx context.Context, userID uuid.UUID, since time.Time) (int, error) {
	checks, err := s.store.ListPackChecks(ctx, store.PackCheckFilter{OwnerUserID: userID, CreatedSince: since})
	if err != nil {
		return 0, fmt.Errorf("count pack checks: %w", err)
	}
	return len(checks), nil
}

// customerLookup memoizes customer reads while joining a history page.
type customerLookup struct {
	store store.Customers
	seen  map[uuid.UUID]*models.Customer
}

func newCustomerLookup(st store.Customers) *customerLookup {
	return &customerLookup{store: st, seen: make(map[uuid.UUID]*models.Customer)}
}

// get returns nil without error for a missing customer.
func (l *customerLookup) get(ctx context.Context, id uuid.UUID) (*models.Customer, error) {
	if c, ok := l.seen[id]; ok {
		return c, nil
	}
	c, err := l.store.GetCustomer(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		c, err = nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load customer: %w", err)
	}
	l.seen[id] = c
	return c, nil
}
