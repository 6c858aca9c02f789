package services

import (
	"context"
	"sync"
	"testing"
	"time"

	"pillflow-backend/events"
	"pillflow-backend/models"
	"pillflow-backend/store"
	"pillflow-backend/utils"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

type recordingBus struct {
	mu      sync.Mutex
	changes []events.Change
}

func (b *recordingBus) Publish(ctx context.Context, change events.Change) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.changes = append(b.changes, change)
	return nil
}

func (b *recordingBus) last() events.Change {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.changes[len(b.changes)-1]
}

type fixture struct {
	store *store.MemoryStore
	bus   *recordingBus
	svc   *Services
	now   time.Time
}

// newFixture returns services over an empty memory store. The clock
// advances one second per reading.
func newFixture(t *testing.T, opts Options) *fixture {
	t.Helper()
	f := &fixture{
		store: store.NewMemoryStore(),
		bus:   &recordingBus{},
		now:   time.Date(2024, 3, 14, 9, 0, 0, 0, time.UTC),
	}
	var mu sync.Mutex
	opts.Clock = func() time.Time {
		mu.Lock()
		defer mu.Unlock()
		f.now = f.now.Add(time.Second)
		return f.now
	}
	f.svc = New(f.store, f.bus, nil, opts)
	return f
}

func as(userID uuid.UUID) context.Context {
	return utils.WithCaller(context.Background(), userID)
}

func strPtr(s string) *string { return &s }

func intPtr(n int) *int { return &n }

func boolPtr(b bool) *bool { return &b }

func customerInput(code, first, last string) CustomerInput {
	return CustomerInput{
		CustomerID:  code,
		FirstName:   first,
		LastName:    last,
		DateOfBirth: "1950-01-01",
		Email:       first + "@example.com",
		Status:      models.CustomerActive,
	}
}

func (f *fixture) addCustomer(t *testing.T, owner uuid.UUID, code string) uuid.UUID {
	t.Helper()
	id, err := f.svc.Customers.Create(as(owner), customerInput(code, "Ada", "Lovelace"))
	require.NoError(t, err)
	return id
}

func medicationFields(name string, freq models.Frequency) MedicationFields {
	return MedicationFields{
		Name:      name,
		Form:      models.FormTablet,
		Strength:  "10mg",
		Frequency: freq,
		StartDate: "2024-01-01",
	}
}
