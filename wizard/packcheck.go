// Package wizard drives the pack-check and scan-out workflows against the
// API. State lives only in memory until the final submit.
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

type Step int

const (
	StepSelection Step = iota + 1
	StepVerification
	StepConfirmation
)

func (s Step) String() string {
	switch s {
	case StepSelection:
		return "selection"
	case StepVerification:
		return "verification"
	case StepConfirmation:
		return "confirmation"
	}
	return fmt.Sprintf("step(%d)", int(s))
}

var (
	ErrMissingFields     = errors.New("please fill all required fields")
	ErrNoMedications     = errors.New("no medications found for this customer")
	ErrMissingConfirmer  = errors.New("please select your initials to confirm")
	ErrWrongStep         = errors.New("not available in this step")
	ErrEntryOutOfRange   = errors.New("no such medication entry")
	ErrUnknownPharmacist = errors.New("pharmacist is not an active team member")
)

// TeamAPI lists the team members that can sign off a check or scan-out.
type TeamAPI interface {
	ListTeamMembers(ctx context.Context) ([]models.TeamMember, error)
}

// ActivePharmacists returns the active team members, the only ones that can
// be picked as checking or confirming pharmacist.
func ActivePharmacists(ctx context.Context, api TeamAPI) ([]models.TeamMember, error) {
	members, err := api.ListTeamMembers(ctx)
	if err != nil {
		return nil, fmt.Errorf("load team members: %w", err)
	}
	var active []models.TeamMember
	for _, m := range members {
		if m.IsActive {
			active = append(active, m)
		}
	}
	return active, nil
}

// requireActivePharmacist returns ErrUnknownPharmacist unless initials
// belong to an active team member. Initials compare case-insensitively.
func requireActivePharmacist(ctx context.Context, api TeamAPI, initials string) error {
	active, err := ActivePharmacists(ctx, api)
	if err != nil {
		return err
	}
	for _, m := range active {
		if strings.EqualFold(m.Initials, strings.TrimSpace(initials)) {
			return nil
		}
	}
	return fmt.Errorf("%w: %s", ErrUnknownPharmacist, initials)
}

// PackCheckAPI is the part of the API client the wizard needs.
type PackCheckAPI interface {
	TeamAPI
	ListMedications(ctx context.Context, customerID uuid.UUID) ([]models.Medication, error)
	CreatePackCheck(ctx context.Context, input services.CreatePackCheckInput) (uuid.UUID, error)
}

// Selection holds the step one fields.
type Selection struct {
	CustomerID         uuid.UUID
	PharmacistInitials string
	WebsterPackID      string
	PackType           models.PackType
	CheckNotes         string
}

// Entry is one medication dose in one time slot awaiting a verdict.
type Entry struct {
	MedicationID uuid.UUID
	Name         string
	Form         string
	Strength     string
	TimeSlot     models.TimeSlot
	Quantity     int
	Correct      bool
	Comment      string
}

// SlotGroup lists the entries of one time slot. Index refers to the
// position accepted by SetVerdict.
type SlotGroup struct {
	Slot    models.TimeSlot
	Entries []IndexedEntry
}

type IndexedEntry struct {
	Index int
	Entry
}

// PackCheck is the three step verification wizard:
// selection, verification, confirmation.
type PackCheck struct {
	api PackCheckAPI

	step      Step
	selection Selection
	entries   []Entry

	confirmInitials string
	finalNotes      string
}

func NewPackCheck(api PackCheckAPI) *PackCheck {
	w := &PackCheck{api: api}
	w.reset()
	return w
}

func (w *PackCheck) reset() {
	w.step = StepSelection
	w.selection = Selection{PackType: models.BlisterPacks}
	w.entries = nil
	w.confirmInitials = ""
	w.finalNotes = ""
}

func (w *PackCheck) Step() Step { return w.step }

// ActivePharmacists lists the initials that can be picked in selection and
// confirmation.
func (w *PackCheck) ActivePharmacists(ctx context.Context) ([]models.TeamMember, error) {
	return ActivePharmacists(ctx, w.api)
}

func (w *PackCheck) Selection() Selection { return w.selection }

// Select replaces the step one fields. An empty pack type means blister packs.
func (w *PackCheck) Select(sel Selection) error {
	if w.step != StepSelection {
		return ErrWrongStep
	}
	sel.PackType = sel.PackType.OrDefault()
	w.selection = sel
	return nil
}

// Next advances one step. Leaving selection rebuilds the entries from the
// customer's current medications.
func (w *PackCheck) Next(ctx context.Context) error {
	switch w.step {
	case StepSelection:
		sel := w.selection
		if sel.CustomerID == uuid.Nil || strings.TrimSpace(sel.WebsterPackID) == "" || strings.TrimSpace(sel.PharmacistInitials) == "" {
			return ErrMissingFields
		}
		if err := requireActivePharmacist(ctx, w.api, sel.PharmacistInitials); err != nil {
			return err
		}
		medications, err := w.api.ListMedications(ctx, sel.CustomerID)
		if err != nil {
			return fmt.Errorf("load medications: %w", err)
		}
		if len(medications) == 0 {
			return ErrNoMedications
		}
		w.entries = fanOut(medications)
		w.step = StepVerification
	case StepVerification:
		w.step = StepConfirmation
	default:
		return ErrWrongStep
	}
	return nil
}

// Back returns to the previous step, keeping everything entered.
func (w *PackCheck) Back() error {
	switch w.step {
	case StepVerification:
		w.step = StepSelection
	case StepConfirmation:
		w.step = StepVerification
	default:
		return ErrWrongStep
	}
	return nil
}

// fanOut makes one entry per medication and positive slot, medication
// order first, then slot order.
func fanOut(medications []models.Medication) []Entry {
	var entries []Entry
	for _, m := range medications {
		for _, slot := range models.TimeSlots {
			dose := m.Frequency.Dose(slot)
			if dose <= 0 {
				continue
			}
			entries = append(entries, Entry{
				MedicationID: m.ID,
				Name:         m.Name,
				Form:         string(m.Form),
				Strength:     m.Strength,
				TimeSlot:     slot,
				Quantity:     dose,
				Correct:      true,
			})
		}
	}
	return entries
}

func (w *PackCheck) Entries() []Entry {
	out := make([]Entry, len(w.entries))
	copy(out, w.entries)
	return out
}

// Groups returns the entries per time slot, morning to night. Slots with no
// entries are included with an empty list.
func (w *PackCheck) Groups() []SlotGroup {
	groups := make([]SlotGroup, 0, len(models.TimeSlots))
	for _, slot := range models.TimeSlots {
		g := SlotGroup{Slot: slot}
		for i, e := range w.entries {
			if e.TimeSlot == slot {
				g.Entries = append(g.Entries, IndexedEntry{Index: i, Entry: e})
			}
		}
		groups = append(groups, g)
	}
	return groups
}

func (w *PackCheck) SetVerdict(index int, correct bool, comment string) error {
	if w.step != StepVerification {
		return ErrWrongStep
	}
	if index < 0 || index >= len(w.entries) {
		return ErrEntryOutOfRange
	}
	w.entries[index].Correct = correct
	w.entries[index].Comment = comment
	return nil
}

// Confirm records the confirming pharmacist and final notes. The initials
// are independent of the ones chosen in selection.
func (w *PackCheck) Confirm(initials, finalNotes string) error {
	if w.step != StepConfirmation {
		return ErrWrongStep
	}
	w.confirmInitials = initials
	w.finalNotes = finalNotes
	return nil
}

// Input builds the record that Submit sends.
func (w *PackCheck) Input() services.CreatePackCheckInput {
	checked := make(models.CheckedMedicationList, 0, len(w.entries))
	for _, e := range w.entries {
		checked = append(checked, e.persisted())
	}
	in := services.CreatePackCheckInput{
		CustomerID:         w.selection.CustomerID,
		PharmacistInitials: w.selection.PharmacistInitials,
		WebsterPackID:      w.selection.WebsterPackID,
		PackType:           w.selection.PackType,
		CheckedMedications: checked,
		Status:             models.PackCheckChecked,
	}
	notes := w.selection.CheckNotes
	if notes == "" {
		notes = w.finalNotes
	}
	if notes != "" {
		in.Notes = &notes
	}
	return in
}

// persisted sets only the entry's own slot; the other slots are zero.
func (e Entry) persisted() models.CheckedMedication {
	doses := map[models.TimeSlot]*int{}
	for _, slot := range models.TimeSlots {
		n := 0
		if slot == e.TimeSlot {
			n = e.Quantity
		}
		doses[slot] = &n
	}
	return models.CheckedMedication{
		MedicationID: e.MedicationID,
		Name:         e.Name,
		Form:         e.Form,
		Strength:     e.Strength,
		Morning:      doses[models.Morning],
		Afternoon:    doses[models.Afternoon],
		Evening:      doses[models.Evening],
		Night:        doses[models.Night],
		Correct:      e.Correct,
		Comment:      e.Comment,
	}
}

// Submit saves the check and starts over on success. On failure the wizard
// stays in confirmation with its data intact.
func (w *PackCheck) Submit(ctx context.Context) (uuid.UUID, error) {
	if w.step != StepConfirmation {
		return uuid.Nil, ErrWrongStep
	}
	if strings.TrimSpace(w.confirmInitials) == "" {
		return uuid.Nil, ErrMissingConfirmer
	}
	if err := requireActivePharmacist(ctx, w.api, w.confirmInitials); err != nil {
		return uuid.Nil, err
	}
	id, err := w.api.CreatePackCheck(ctx, w.Input())
	if err != nil {
		return uuid.Nil, fmt.Errorf("save pack check: %w", err)
	}
	w.reset()
	return id, nil
}
