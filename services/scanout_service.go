package services

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"pillflow-backend/events"
	"pillflow-backend/metrics"
	"pillflow-backend/models"
	"pillflow-backend/store"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type ScanOutService struct {
	*deps
}

type CreateScanOutInput struct {
	CustomerID         uuid.UUID            `json:"customerId" binding:"required"`
	PharmacistInitials string               `json:"pharmacistInitials" binding:"required"`
	WebsterPackID      string               `json:"websterPackId" binding:"required"`
	PackType           models.PackType      `json:"packType"`
	Notes              *string              `json:"notes"`
	Status             models.ScanOutStatus `json:"status" binding:"required"`
}

type ScanOutView struct {
	models.ScanOut
	Customer *models.CustomerSummary `json:"customer"`
}

// PackExistence answers whether a pack was checked before it leaves.
type PackExistence struct {
	IsChecked bool              `json:"isChecked"`
	PackCheck *models.PackCheck `json:"packCheck"`
}

func (s *ScanOutService) Create(ctx context.Context, input CreateScanOutInput) (uuid.UUID, error) {
	userID, err := caller(ctx)
	if err != nil {
		return uuid.Nil, err
	}
	if _, err := s.ownedCustomer(ctx, userID, input.CustomerID); err != nil {
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

	now := s.now()
	scanOut := &models.ScanOut{
		ID:                 uuid.New(),
		CustomerID:         input.CustomerID,
		PharmacistInitials: input.PharmacistInitials,
		WebsterPackID:      input.WebsterPackID,
		PackType:           packType,
		Notes:              input.Notes,
		Status:             input.Status,
		CreatedAt:          now,
		UpdatedAt:          now,
	}
	if err := s.store.CreateScanOut(ctx, scanOut); err != nil {
		return uuid.Nil, fmt.Errorf("create scan out: %w", err)
	}

	checked := false
	switch _, err := s.store.FindPackCheck(ctx, input.CustomerID, input.WebsterPackID); {
	case err == nil:
		checked = true
	case !errors.Is(err, store.ErrNotFound):
		s.log.Warn("failed to look up pack check for scan out",
			zap.String("id", scanOut.ID.String()),
			zap.String("webster_pack_id", scanOut.WebsterPackID),
			zap.Error(err))
	}
	metrics.ScanOutsCreated.WithLabelValues(strconv.FormatBool(checked)).Inc()
	s.log.Info("pack scanned out",
		zap.String("id", scanOut.ID.String()),
		zap.String("webster_pack_id", scanOut.WebsterPackID),
		zap.Bool("checked", checked))
	s.publish(ctx, events.ScanOuts, events.OpCreate, scanOut.ID, userID)
	return scanOut.ID, nil
}

// List takes the most recent scan-outs across all owners and keeps the
// caller's, so it can return fewer than HistoryLimit rows even when older
// ones exist.
func (s *ScanOutService) List(ctx context.Context) ([]ScanOutView, error) {
	userID, err := caller(ctx)
	if err != nil {
		return nil, err
	}
	return s.list(ctx, userID)
}

func (s *ScanOutService) list(ctx context.Context, userID uuid.UUID) ([]ScanOutView, error) {
	scanOuts, err := s.store.ListScanOuts(ctx, store.ScanOutFilter{Limit: HistoryLimit})
	if err != nil {
		return nil, fmt.Errorf("list scan outs: %w", err)
	}
	lookup := newCustomerLookup(s.store)
	views := make([]ScanOutView, 0, len(scanOuts))
	for _, scanOut := range scanOuts {
		customer, err := lookup.get(ctx, scanOut.CustomerID)
		if err != nil {
			return nil, err
		}
		if customer == nil || customer.OwnerUserID != userID {
			continue
		}
		views = append(views, ScanOutView{ScanOut: scanOut, Customer: customer.Summary()})
	}
	return views, nil
}

func (s *ScanOutService) UpdateStatus(ctx context.Context, id uuid.UUID, status models.ScanOutStatus) error {
	userID, err := caller(ctx)
	if err != nil {
		return err
	}
	if !status.Valid() {
		return invalid("unknown status %q", status)
	}

	scanOut, err := s.store.GetScanOut(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		return fmt.Errorf("scan out: %w", ErrNotFound)
	}
	if err != nil {
		return fmt.Errorf("load scan out: %w", err)
	}
	customer, err := s.store.GetCustomer(ctx, scanOut.CustomerID)
	if err != nil && !errors.Is(err, store.ErrNotFound) {
		return fmt.Errorf("load customer: %w", err)
	}
	if customer == nil || customer.OwnerUserID != userID {
		return ErrAccessDenied
	}

	if s.opts.EnforceDeliveryDirection && scanOut.Status == models.Delivered && status == models.ScannedOut {
		return fmt.Errorf("%s to %s: %w", scanOut.Status, status, ErrInvalidTransition)
	}

	previous := scanOut.Status
	scanOut.Status = status
	scanOut.UpdatedAt = s.now()
	if err := s.store.UpdateScanOut(ctx, scanOut); err != nil {
		return fmt.Errorf("update scan out: %w", err)
	}
	s.log.Info("scan out status changed",
		zap.String("id", id.String()),
		zap.String("from", string(previous)),
		zap.String("to", string(status)))
	s.publish(ctx, events.ScanOuts, events.OpUpdate, id, userID)
	return nil
}

// CheckPackExists reports the first check recorded for the customer's pack.
func (s *ScanOutService) CheckPackExists(ctx context.Context, customerID uuid.UUID, websterPackID string) (*PackExistence, error) {
	userID, err := caller(ctx)
	if err != nil {
		return nil, err
	}
	if _, err := s.ownedCustomer(ctx, userID, customerID); err != nil {
		return nil, err
	}
	check, err := s.store.FindPackCheck(ctx, customerID, websterPackID)
	if errors.Is(err, store.ErrNotFound) {
		return &PackExistence{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find pack check: %w", err)
	}
	return &PackExistence{IsChecked: true, PackCheck: check}, nil
}
