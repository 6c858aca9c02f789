package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"pillflow-backend/events"
	"pillflow-backend/models"
	"pillflow-backend/store"
	"pillflow-backend/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Options switches between the legacy record-visibility rules and their
// stricter variants. The zero value keeps legacy behavior.
type Options struct {
	// StrictCustomerIDScope checks customerId uniqueness only among the
	// caller's own customers, on create and on update.
	StrictCustomerIDScope bool
	// ScopePackChecksToOwner makes pack checks behave like every other
	// collection: create checks customer ownership, list filters by owner.
	ScopePackChecksToOwner bool
	// CascadeCustomerDelete removes a customer's medications, pack checks
	// and scan-outs together with the customer.
	CascadeCustomerDelete bool
	// EnforceDeliveryDirection refuses to move a delivered pack back to
	// scanned_out.
	EnforceDeliveryDirection bool

	// Clock overrides time.Now, for tests.
	Clock func() time.Time
}

type deps struct {
	store store.Store
	bus   events.Publisher
	log   *zap.Logger
	opts  Options
}

func (d *deps) now() time.Time {
	if d.opts.Clock != nil {
		return d.opts.Clock()
	}
	return time.Now()
}

// publish reports a change to live readers. Delivery is best effort; the
// write already succeeded.
func (d *deps) publish(ctx context.Context, collection string, op events.Op, id, owner uuid.UUID) {
	if d.bus == nil {
		return
	}
	change := events.Change{Collection: collection, Op: op, ID: id, OwnerUserID: owner, At: d.now()}
	if err := d.bus.Publish(ctx, change); err != nil {
		d.log.Warn("failed to publish change",
			zap.String("collection", collection),
			zap.String("id", id.String()),
			zap.Error(err))
	}
}

// ownedCustomer loads a customer and checks that caller owns it.
func (d *deps) ownedCustomer(ctx context.Context, caller, id uuid.UUID) (*models.Customer, error) {
	customer, err := d.store.GetCustomer(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		return nil, notOwned("customer")
	}
	if err != nil {
		return nil, fmt.Errorf("load customer: %w", err)
	}
	if customer.OwnerUserID != caller {
		return nil, notOwned("customer")
	}
	return customer, nil
}

// Services bundles every domain service behind the HTTP API.
type Services struct {
	Users       *UserService
	Customers   *CustomerService
	Medications *MedicationService
	Team        *TeamService
	PackChecks  *PackCheckService
	ScanOuts    *ScanOutService
	Dashboard   *DashboardService
	Export      *ExportService
}

func New(st store.Store, bus events.Publisher, log *zap.Logger, opts Options) *Services {
	if log == nil {
		log = zap.NewNop()
	}
	d := &deps{store: st, bus: bus, log: log, opts: opts}
	packChecks := &PackCheckService{deps: d}
	scanOuts := &ScanOutService{deps: d}
	return &Services{
		Users:       &UserService{deps: d},
		Customers:   &CustomerService{deps: d},
		Medications: &MedicationService{deps: d},
		Team:        &TeamService{deps: d},
		PackChecks:  packChecks,
		ScanOuts:    scanOuts,
		Dashboard:   &DashboardService{deps: d, packChecks: packChecks},
		Export:      &ExportService{packChecks: packChecks, scanOuts: scanOuts},
	}
}

func caller(ctx context.Context) (uuid.UUID, error) {
	return utils.CallerFromContext(ctx)
}
