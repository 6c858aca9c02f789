package store

import (
	"context"
	"sort"
	"sync"
	"time"

	"pillflow-backend/models"

	"github.com/google/uuid"
)

type row[T any] struct {
	seq int
	v   T
}

// table keeps rows in insertion order; seq breaks ties between rows created
// within the same instant.
type table[T any] struct {
	rows []row[T]
	seq  int
}

func (t *table[T]) insert(v T) {
	t.seq++
	t.rows = append(t.rows, row[T]{seq: t.seq, v: v})
}

func (t *table[T]) index(match func(*T) bool) int {
	for i := range t.rows {
		if match(&t.rows[i].v) {
			return i
		}
	}
	return -1
}

func (t *table[T]) remove(match func(*T) bool) int {
	kept := t.rows[:0]
	removed := 0
	for _, r := range t.rows {
		if match(&r.v) {
			removed++
			continue
		}
		kept = append(kept, r)
	}
	t.rows = kept
	return removed
}

func (t *table[T]) filter(match func(*T) bool, created func(*T) time.Time, newestFirst bool) []T {
	var hits []row[T]
	for _, r := range t.rows {
		if match == nil || match(&r.v) {
			hits = append(hits, r)
		}
	}
	sort.SliceStable(hits, func(i, j int) bool {
		ci, cj := created(&hits[i].v), created(&hits[j].v)
		if !ci.Equal(cj) {
			if newestFirst {
				return ci.After(cj)
			}
			return ci.Before(cj)
		}
		if newestFirst {
			return hits[i].seq > hits[j].seq
		}
		return hits[i].seq < hits[j].seq
	})
	out := make([]T, len(hits))
	for i, r := range hits {
		out[i] = r.v
	}
	return out
}

// MemoryStore is an in-process Store used for tests and database-less
// development runs. Values are copied in and out, so callers never share
// memory with the store. Nested slices are shallow copied.
type MemoryStore struct {
	mu          sync.RWMutex
	users       table[models.User]
	customers   table[models.Customer]
	medications table[models.Medication]
	team        table[models.TeamMember]
	packChecks  table[models.PackCheck]
	scanOuts    table[models.ScanOut]
	reminders   table[models.DeliveryReminderLog]
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

var _ Store = (*MemoryStore)(nil)

func ensureID(id *uuid.UUID) {
	if *id == uuid.Nil {
		*id = uuid.New()
	}
}

// PutUser inserts or replaces a user row, standing in for the identity
// provider's provisioning.
func (s *MemoryStore) PutUser(ctx context.Context, user *models.User) {
	s.mu.Lock()
	defer s.mu.Unlock()
	ensureID(&user.ID)
	if i := s.users.index(func(u *models.User) bool { return u.ID == user.ID }); i >= 0 {
		s.users.rows[i].v = *user
		return
	}
	s.users.insert(*user)
}

func (s *MemoryStore) GetUser(ctx context.Context, id uuid.UUID) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	i := s.users.index(func(u *models.User) bool { return u.ID == id })
	if i < 0 {
		return nil, ErrNotFound
	}
	u := s.users.rows[i].v
	return &u, nil
}

func (s *MemoryStore) UpdateUser(ctx context.Context, user *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.users.index(func(u *models.User) bool { return u.ID == user.ID })
	if i < 0 {
		return ErrNotFound
	}
	s.users.rows[i].v = *user
	return nil
}

func customerCreated(c *models.Customer) time.Time { return c.CreatedAt }

func (s *MemoryStore) CreateCustomer(ctx context.Context, customer *models.Customer) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	ensureID(&customer.ID)
	s.customers.insert(*customer)
	return nil
}

func (s *MemoryStore) GetCustomer(ctx context.Context, id uuid.UUID) (*models.Customer, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	i := s.customers.index(func(c *models.Customer) bool { return c.ID == id })
	if i < 0 {
		return nil, ErrNotFound
	}
	c := s.customers.rows[i].v
	return &c, nil
}

func (s *MemoryStore) ListCustomersByCode(ctx context.Context, code string) ([]models.Customer, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.customers.filter(func(c *models.Customer) bool { return c.CustomerID == code }, customerCreated, false), nil
}

func (s *MemoryStore) ListCustomersByOwner(ctx context.Context, owner uuid.UUID) ([]models.Customer, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.customers.filter(func(c *models.Customer) bool { return c.OwnerUserID == owner }, customerCreated, false), nil
}

func (s *MemoryStore) UpdateCustomer(ctx context.Context, customer *models.Customer) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.customers.index(func(c *models.Customer) bool { return c.ID == customer.ID })
	if i < 0 {
		return ErrNotFound
	}
	s.customers.rows[i].v = *customer
	return nil
}

func (s *MemoryStore) DeleteCustomer(ctx context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.customers.remove(func(c *models.Customer) bool { return c.ID == id }) == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *MemoryStore) DeleteCustomerCascade(ctx context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.customers.index(func(c *models.Customer) bool { return c.ID == id }) < 0 {
		return ErrNotFound
	}
	s.medications.remove(func(m *models.Medication) bool { return m.CustomerID == id })
	s.packChecks.remove(func(p *models.PackCheck) bool { return p.CustomerID == id })
	s.scanOuts.remove(func(o *models.ScanOut) bool { return o.CustomerID == id })
	s.customers.remove(func(c *models.Customer) bool { return c.ID == id })
	return nil
}

func medicationCreated(m *models.Medication) time.Time { return m.CreatedAt }

func (s *MemoryStore) CreateMedication(ctx context.Context, medication *models.Medication) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	ensureID(&medication.ID)
	s.medications.insert(*medication)
	return nil
}

func (s *MemoryStore) GetMedication(ctx context.Context, id uuid.UUID) (*models.Medication, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	i := s.medications.index(func(m *models.Medication) bool { return m.ID == id })
	if i < 0 {
		return nil, ErrNotFound
	}
	m := s.medications.rows[i].v
	return &m, nil
}

func (s *MemoryStore) ListMedicationsByCustomer(ctx context.Context, customerID uuid.UUID) ([]models.Medication, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.medications.filter(func(m *models.Medication) bool { return m.CustomerID == customerID }, medicationCreated, true), nil
}

func (s *MemoryStore) CountActiveMedications(ctx context.Context, owner uuid.UUID) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var n int64
	for _, r := range s.medications.rows {
		if r.v.OwnerUserID == owner && r.v.IsActive {
			n++
		}
	}
	return n, nil
}

func (s *MemoryStore) UpdateMedication(ctx context.Context, medication *models.Medication) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.medications.index(func(m *models.Medication) bool { return m.ID == medication.ID })
	if i < 0 {
		return ErrNotFound
	}
	s.medications.rows[i].v = *medication
	return nil
}

func (s *MemoryStore) DeleteMedication(ctx context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.medications.remove(func(m *models.Medication) bool { return m.ID == id }) == 0 {
		return ErrNotFound
	}
	return nil
}

func teamCreated(t *models.TeamMember) time.Time { return t.CreatedAt }

func (s *MemoryStore) CreateTeamMember(ctx context.Context, member *models.TeamMember) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	ensureID(&member.ID)
	s.team.insert(*member)
	return nil
}

func (s *MemoryStore) GetTeamMember(ctx context.Context, id uuid.UUID) (*models.TeamMember, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	i := s.team.index(func(t *models.TeamMember) bool { return t.ID == id })
	if i < 0 {
		return nil, ErrNotFound
	}
	t := s.team.rows[i].v
	return &t, nil
}

func (s *MemoryStore) FindTeamMemberByInitials(ctx context.Context, owner uuid.UUID, initials string) (*models.TeamMember, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	i := s.team.index(func(t *models.TeamMember) bool { return t.OwnerUserID == owner && t.Initials == initials })
	if i < 0 {
		return nil, ErrNotFound
	}
	t := s.team.rows[i].v
	return &t, nil
}

func (s *MemoryStore) ListTeamMembersByOwner(ctx context.Context, owner uuid.UUID) ([]models.TeamMember, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.team.filter(func(t *models.TeamMember) bool { return t.OwnerUserID == owner }, teamCreated, true), nil
}

func (s *MemoryStore) UpdateTeamMember(ctx context.Context, member *models.TeamMember) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.team.index(func(t *models.TeamMember) bool { return t.ID == member.ID })
	if i < 0 {
		return ErrNotFound
	}
	s.team.rows[i].v = *member
	return nil
}

func (s *MemoryStore) DeleteTeamMember(ctx context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.team.remove(func(t *models.TeamMember) bool { return t.ID == id }) == 0 {
		return ErrNotFound
	}
	return nil
}

func packCheckCreated(p *models.PackCheck) time.Time { return p.CreatedAt }

// ownedCustomers must be called with s.mu held.
func (s *MemoryStore) ownedCustomers(owner uuid.UUID) map[uuid.UUID]bool {
	ids := make(map[uuid.UUID]bool)
	for _, r := range s.customers.rows {
		if r.v.OwnerUserID == owner {
			ids[r.v.ID] = true
		}
	}
	return ids
}

func (s *MemoryStore) CreatePackCheck(ctx context.Context, check *models.PackCheck) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	ensureID(&check.ID)
	s.packChecks.insert(*check)
	return nil
}

func (s *MemoryStore) ListPackChecks(ctx context.Context, filter PackCheckFilter) ([]models.PackCheck, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var owned map[uuid.UUID]bool
	if filter.OwnerUserID != uuid.Nil {
		owned = s.ownedCustomers(filter.OwnerUserID)
	}
	out := s.packChecks.filter(func(p *models.PackCheck) bool {
		if owned != nil && !owned[p.CustomerID] {
			return false
		}
		if !filter.CreatedSince.IsZero() && p.CreatedAt.Before(filter.CreatedSince) {
			return false
		}
		return true
	}, packCheckCreated, true)
	if filter.Limit > 0 && len(out) > filter.Limit {
		out = out[:filter.Limit]
	}
	return out, nil
}

func (s *MemoryStore) FindPackCheck(ctx context.Context, customerID uuid.UUID, websterPackID string) (*models.PackCheck, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	i := s.packChecks.index(func(p *models.PackCheck) bool {
		return p.CustomerID == customerID && p.WebsterPackID == websterPackID
	})
	if i < 0 {
		return nil, ErrNotFound
	}
	p := s.packChecks.rows[i].v
	return &p, nil
}

func scanOutCreated(o *models.ScanOut) time.Time { return o.CreatedAt }

func (s *MemoryStore) CreateScanOut(ctx context.Context, scanOut *models.ScanOut) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	ensureID(&scanOut.ID)
	s.scanOuts.insert(*scanOut)
	return nil
}

func (s *MemoryStore) GetScanOut(ctx context.Context, id uuid.UUID) (*models.ScanOut, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	i := s.scanOuts.index(func(o *models.ScanOut) bool { return o.ID == id })
	if i < 0 {
		return nil, ErrNotFound
	}
	o := s.scanOuts.rows[i].v
	return &o, nil
}

func (s *MemoryStore) ListScanOuts(ctx context.Context, filter ScanOutFilter) ([]models.ScanOut, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var owned map[uuid.UUID]bool
	if filter.OwnerUserID != uuid.Nil {
		owned = s.ownedCustomers(filter.OwnerUserID)
	}
	out := s.scanOuts.filter(func(o *models.ScanOut) bool {
		if owned != nil && !owned[o.CustomerID] {
			return false
		}
		if filter.Status != "" && o.Status != filter.Status {
			return false
		}
		if !filter.CreatedBefore.IsZero() && !o.CreatedAt.Before(filter.CreatedBefore) {
			return false
		}
		if !filter.UpdatedSince.IsZero() && o.UpdatedAt.Before(filter.UpdatedSince) {
			return false
		}
		return true
	}, scanOutCreated, true)
	if filter.Limit > 0 && len(out) > filter.Limit {
		out = out[:filter.Limit]
	}
	return out, nil
}

func (s *MemoryStore) UpdateScanOut(ctx context.Context, scanOut *models.ScanOut) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.scanOuts.index(func(o *models.ScanOut) bool { return o.ID == scanOut.ID })
	if i < 0 {
		return ErrNotFound
	}
	s.scanOuts.rows[i].v = *scanOut
	return nil
}

func (s *MemoryStore) CreateReminderLog(ctx context.Context, entry *models.DeliveryReminderLog) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	ensureID(&entry.ID)
	s.reminders.insert(*entry)
	return nil
}

func (s *MemoryStore) ReminderSent(ctx context.Context, scanOutID uuid.UUID) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	i := s.reminders.index(func(r *models.DeliveryReminderLog) bool {
		return r.ScanOutID == scanOutID && r.Status == "sent"
	})
	return i >= 0, nil
}
