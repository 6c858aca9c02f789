package store

import (
	"context"
	"testing"
	"time"

	"pillflow-backend/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newCustomer(owner uuid.UUID, code string, at time.Time) *models.Customer {
	return &models.Customer{
		OwnerUserID: owner,
		CustomerID:  code,
		FirstName:   "Ada",
		LastName:    "Lovelace",
		DateOfBirth: "1950-12-10",
		Email:       "ada@example.com",
		Status:      models.CustomerActive,
		CreatedAt:   at,
		UpdatedAt:   at,
	}
}

func TestMemoryStore_CustomerRoundTrip(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	owner := uuid.New()
	c := newCustomer(owner, "C-1", time.Now())

	require.NoError(t, s.CreateCustomer(ctx, c))
	require.NotEqual(t, uuid.Nil, c.ID)

	got, err := s.GetCustomer(ctx, c.ID)
	require.NoError(t, err)
	assert.Equal(t, "C-1", got.CustomerID)

	// mutating the returned copy must not leak into the store
	got.FirstName = "Changed"
	again, err := s.GetCustomer(ctx, c.ID)
	require.NoError(t, err)
	assert.Equal(t, "Ada", again.FirstName)

	got.CustomerID = "C-2"
	require.NoError(t, s.UpdateCustomer(ctx, got))
	byCode, err := s.ListCustomersByCode(ctx, "C-2")
	require.NoError(t, err)
	assert.Len(t, byCode, 1)

	require.NoError(t, s.DeleteCustomer(ctx, c.ID))
	_, err = s.GetCustomer(ctx, c.ID)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, s.DeleteCustomer(ctx, c.ID), ErrNotFound)
}

func TestMemoryStore_OrderingWithEqualTimestamps(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	owner := uuid.New()
	at := time.Date(2026, 1, 5, 9, 0, 0, 0, time.UTC)
	customer := newCustomer(owner, "C-1", at)
	require.NoError(t, s.CreateCustomer(ctx, customer))

	var ids []uuid.UUID
	for i := 0; i < 3; i++ {
		m := &models.Medication{OwnerUserID: owner, CustomerID: customer.ID, Name: "m", CreatedAt: at}
		require.NoError(t, s.CreateMedication(ctx, m))
		ids = append(ids, m.ID)
	}

	meds, err := s.ListMedicationsByCustomer(ctx, customer.ID)
	require.NoError(t, err)
	require.Len(t, meds, 3)
	assert.Equal(t, ids[2], meds[0].ID)
	assert.Equal(t, ids[0], meds[2].ID)
}

func TestMemoryStore_ListScanOutsFilters(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	alice, bob := uuid.New(), uuid.New()
	base := time.Date(2026, 3, 1, 8, 0, 0, 0, time.UTC)

	ca := newCustomer(alice, "A", base)
	cb := newCustomer(bob, "B", base)
	require.NoError(t, s.CreateCustomer(ctx, ca))
	require.NoError(t, s.CreateCustomer(ctx, cb))

	for i, c := range []*models.Customer{ca, cb, ca} {
		status := models.ScannedOut
		if i == 2 {
			status = models.Delivered
		}
		at := base.Add(time.Duration(i) * time.Hour)
		require.NoError(t, s.CreateScanOut(ctx, &models.ScanOut{
			CustomerID: c.ID, WebsterPackID: "WP", Status: status, CreatedAt: at, UpdatedAt: at,
		}))
	}

	all, err := s.ListScanOuts(ctx, ScanOutFilter{})
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, models.Delivered, all[0].Status)

	mine, err := s.ListScanOuts(ctx, ScanOutFilter{OwnerUserID: alice})
	require.NoError(t, err)
	assert.Len(t, mine, 2)

	waiting, err := s.ListScanOuts(ctx, ScanOutFilter{Status: models.ScannedOut, CreatedBefore: base.Add(30 * time.Minute)})
	require.NoError(t, err)
	require.Len(t, waiting, 1)
	assert.Equal(t, ca.ID, waiting[0].CustomerID)

	limited, err := s.ListScanOuts(ctx, ScanOutFilter{Limit: 1})
	require.NoError(t, err)
	assert.Len(t, limited, 1)
}

func TestMemoryStore_FindPackCheckReturnsFirst(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	customerID := uuid.New()

	first := &models.PackCheck{CustomerID: customerID, WebsterPackID: "WP-9", Status: models.PackCheckChecked}
	second := &models.PackCheck{CustomerID: customerID, WebsterPackID: "WP-9", Status: models.PackCheckChecked}
	require.NoError(t, s.CreatePackCheck(ctx, first))
	require.NoError(t, s.CreatePackCheck(ctx, second))

	got, err := s.FindPackCheck(ctx, customerID, "WP-9")
	require.NoError(t, err)
	assert.Equal(t, first.ID, got.ID)

	_, err = s.FindPackCheck(ctx, customerID, "WP-10")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryStore_DeleteCustomerCascade(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	owner := uuid.New()
	keep := newCustomer(owner, "KEEP", time.Now())
	drop := newCustomer(owner, "DROP", time.Now())
	require.NoError(t, s.CreateCustomer(ctx, keep))
	require.NoError(t, s.CreateCustomer(ctx, drop))

	for _, c := range []*models.Customer{keep, drop} {
		require.NoError(t, s.CreateMedication(ctx, &models.Medication{OwnerUserID: owner, CustomerID: c.ID, IsActive: true}))
		require.NoError(t, s.CreatePackCheck(ctx, &models.PackCheck{CustomerID: c.ID, WebsterPackID: "WP"}))
		require.NoError(t, s.CreateScanOut(ctx, &models.ScanOut{CustomerID: c.ID, WebsterPackID: "WP"}))
	}

	require.NoError(t, s.DeleteCustomerCascade(ctx, drop.ID))

	meds, _ := s.ListMedicationsByCustomer(ctx, drop.ID)
	assert.Empty(t, meds)
	_, err := s.FindPackCheck(ctx, drop.ID, "WP")
	assert.ErrorIs(t, err, ErrNotFound)
	scans, _ := s.ListScanOuts(ctx, ScanOutFilter{})
	require.Len(t, scans, 1)
	assert.Equal(t, keep.ID, scans[0].CustomerID)

	n, err := s.CountActiveMedications(ctx, owner)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	assert.ErrorIs(t, s.DeleteCustomerCascade(ctx, drop.ID), ErrNotFound)
}

func TestMemoryStore_TeamMemberByInitials(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	owner := uuid.New()
	require.NoError(t, s.CreateTeamMember(ctx, &models.TeamMember{OwnerUserID: owner, Initials: "JD", FullName: "Jane Doe"}))

	got, err := s.FindTeamMemberByInitials(ctx, owner, "JD")
	require.NoError(t, err)
	assert.Equal(t, "Jane Doe", got.FullName)

	_, err = s.FindTeamMemberByInitials(ctx, uuid.New(), "JD")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryStore_Users(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	u := &models.User{Name: "Owner", Email: "owner@example.com"}
	s.PutUser(ctx, u)

	u.Name = "Renamed"
	require.NoError(t, s.UpdateUser(ctx, u))
	got, err := s.GetUser(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, "Renamed", got.Name)

	assert.ErrorIs(t, s.UpdateUser(ctx, &models.User{ID: uuid.New()}), ErrNotFound)
}

func TestMemoryStore_ReminderSent(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	scanOutID := uuid.New()

	require.NoError(t, s.CreateReminderLog(ctx, &models.DeliveryReminderLog{ScanOutID: scanOutID, Status: "failed"}))
	sent, err := s.ReminderSent(ctx, scanOutID)
	require.NoError(t, err)
	assert.False(t, sent)

	require.NoError(t, s.CreateReminderLog(ctx, &models.DeliveryReminderLog{ScanOutID: scanOutID, Status: "sent"}))
	sent, err = s.ReminderSent(ctx, scanOutID)
	require.NoError(t, err)
	assert.True(t, sent)
}
