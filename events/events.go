// Package events carries record change notifications to live readers.
// Readers re-query the collection when a change arrives; the payload only
// says what changed.
package events

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

type Op string

const (
	OpCreate Op = "create"
	OpUpdate Op = "update"
	OpDelete Op = "delete"
)

// Collection names match the table names.
const (
	Users       = "users"
	Customers   = "customers"
	Medications = "medications"
	TeamMembers = "team_members"
	PackChecks  = "pack_checks"
	ScanOuts    = "scan_outs"
)

type Change struct {
	Collection  string    `json:"collection"`
	Op          Op        `json:"op"`
	ID          uuid.UUID `json:"id"`
	OwnerUserID uuid.UUID `json:"ownerUserId"`
	At          time.Time `json:"at"`
}

func (c Change) Marshal() ([]byte, error) {
	return json.Marshal(c)
}

func Unmarshal(b []byte) (Change, error) {
	var c Change
	err := json.Unmarshal(b, &c)
	return c, err
}

type Publisher interface {
	Publish(ctx context.Context, change Change) error
}

// Bus publishes changes and lets readers subscribe to them. The returned
// cancel func must be called to release the subscription.
type Bus interface {
	Publisher
	Subscribe(ctx context.Context) (<-chan Change, func(), error)
	Close() error
}
