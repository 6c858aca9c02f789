package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"pillflow-backend/events"
	"pillflow-backend/models"
	"pillflow-backend/store"

	"github.com/google/uuid"
)

type MedicationService struct {
	*deps
}

type CreateMedicationInput struct {
	CustomerID uuid.UUID `json:"customerId" binding:"required"`
	MedicationFields
}

type UpdateMedicationInput struct {
	MedicationFields
	IsActive *bool `json:"isActive" binding:"required"`
}

type MedicationFields struct {
	Name         string                `json:"name" binding:"required"`
	Form         models.MedicationForm `json:"form" binding:"required"`
	Strength     string                `json:"strength" binding:"required"`
	Frequency    models.Frequency      `json:"frequency"`
	Instructions *string               `json:"instructions"`
	StartDate    string                `json:"startDate" binding:"required"`
	EndDate      *string               `json:"endDate"`
}

func (f *MedicationFields) validate() error {
	switch {
	case strings.TrimSpace(f.Name) == "":
		return invalid("name is required")
	case !f.Form.Valid():
		return invalid("unknown form %q", f.Form)
	case strings.TrimSpace(f.Strength) == "":
		return invalid("strength is required")
	case f.StartDate == "":
		return invalid("startDate is required")
	}
	return validateFrequency(f.Frequency)
}

// validateFrequency requires at least one positive slot and no negative ones.
func validateFrequency(freq models.Frequency) error {
	positive := false
	for _, slot := range models.TimeSlots {
		dose := freq.Dose(slot)
		if dose < 0 {
			return fmt.Errorf("%s dose is negative: %w", slot, ErrInvalidFrequency)
		}
		if dose > 0 {
			positive = true
		}
	}
	if !positive {
		return ErrInvalidFrequency
	}
	return nil
}

func (s *MedicationService) ownedMedication(ctx context.Context, userID, id uuid.UUID) (*models.Medication, error) {
	medication, err := s.store.GetMedication(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		return nil, notOwned("medication")
	}
	if err != nil {
		return nil, fmt.Errorf("load medication: %w", err)
	}
	if medication.OwnerUserID != userID {
		return nil, notOwned("medication")
	}
	return medication, nil
}

func (s *MedicationService) ListForCustomer(ctx context.Context, customerID uuid.UUID) ([]models.Medication, error) {
	userID, err := caller(ctx)
	if err != nil {
		return nil, err
	}
	if _, err := s.ownedCustomer(ctx, userID, customerID); err != nil {
		return nil, err
	}
	medications, err := s.store.ListMedicationsByCustomer(ctx, customerID)
	if err != nil {
		return nil, fmt.Errorf("list medications: %w", err)
	}
	return medications, nil
}

func (s *MedicationService) Create(ctx context.Context, input CreateMedicationInput) (uuid.UUID, error) {
	userID, err := caller(ctx)
	if err != nil {
		return uuid.Nil, err
	}
	if _, err := s.ownedCustomer(ctx, userID, input.CustomerID); err != nil {
		return uuid.Nil, err
	}
	if err := input.validate(); err != nil {
		return uuid.Nil, err
	}

	now := s.now()
	medication := &models.Medication{
		ID:           uuid.New(),
		OwnerUserID:  userID,
		CustomerID:   input.CustomerID,
		Name:         input.Name,
		Form:         input.Form,
		Strength:     input.Strength,
		Frequency:    input.Frequency,
		Instructions: input.Instructions,
		StartDate:    input.StartDate,
		EndDate:      input.EndDate,
		IsActive:     true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.store.CreateMedication(ctx, medication); err != nil {
		return uuid.Nil, fmt.Errorf("create medication: %w", err)
	}
	s.publish(ctx, events.Medications, events.OpCreate, medication.ID, userID)
	return medication.ID, nil
}

func (s *MedicationService) Update(ctx context.Context, id uuid.UUID, input UpdateMedicationInput) error {
	userID, err := caller(ctx)
	if err != nil {
		return err
	}
	medication, err := s.ownedMedication(ctx, userID, id)
	if err != nil {
		return err
	}
	if err := input.validate(); err != nil {
		return err
	}
	if input.IsActive == nil {
		return invalid("isActive is required")
	}

	medication.Name = input.Name
	medication.Form = input.Form
	medication.Strength = input.Strength
	medication.Frequency = input.Frequency
	medication.Instructions = input.Instructions
	medication.StartDate = input.StartDate
	medication.EndDate = input.EndDate
	medication.IsActive = *input.IsActive
	medication.UpdatedAt = s.now()

	if err := s.store.UpdateMedication(ctx, medication); err != nil {
		return fmt.Errorf("update medication: %w", err)
	}
	s.publish(ctx, events.Medications, events.OpUpdate, id, userID)
	return nil
}

func (s *MedicationService) Delete(ctx context.Context, id uuid.UUID) error {
	userID, err := caller(ctx)
	if err != nil {
		return err
	}
	if _, err := s.ownedMedication(ctx, userID, id); err != nil {
		return err
	}
	if err := s.store.DeleteMedication(ctx, id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return notOwned("medication")
		}
		return fmt.Errorf("delete medication: %w", err)
	}
	s.publish(ctx, events.Medications, events.OpDelete, id, userID)
	return nil
}

// Toggle flips IsActive and returns the new value.
func (s *MedicationService) Toggle(ctx context.Context, id uuid.UUID) (bool, error) {
	userID, err := caller(ctx)
	if err != nil {
		return false, err
	}
	medication, err := s.ownedMedication(ctx, userID, id)
	if err != nil {
		return false, err
	}
	medication.IsActive = !medication.IsActive
	medication.UpdatedAt = s.now()
	if err := s.store.UpdateMedication(ctx, medication); err != nil {
		return false, fmt.Errorf("toggle medication: %w", err)
	}
	s.publish(ctx, events.Medications, events.OpUpdate, id, userID)
	return medication.IsActive, nil
}
