package services

import (
	"testing"

	"pillflow-backend/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateFrequency(t *testing.T) {
	cases := []struct {
		name string
		freq models.Frequency
		ok   bool
	}{
		{"empty", models.Frequency{}, false},
		{"all zero", models.Frequency{Morning: intPtr(0), Night: intPtr(0)}, false},
		{"one slot", models.Frequency{Evening: intPtr(2)}, true},
		{"negative", models.Frequency{Morning: intPtr(1), Night: intPtr(-1)}, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := validateFrequency(tc.freq)
			if tc.ok {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, ErrInvalidFrequency)
			}
		})
	}
}

func TestMedicationService_Lifecycle(t *testing.T) {
	f := newFixture(t, Options{})
	owner := uuid.New()
	customer := f.addCustomer(t, owner, "C-1")
	ctx := as(owner)

	first, err := f.svc.Medications.Create(ctx, CreateMedicationInput{
		CustomerID:       customer,
		MedicationFields: medicationFields("Metformin", models.Frequency{Morning: intPtr(1), Evening: intPtr(1)}),
	})
	require.NoError(t, err)
	second, err := f.svc.Medications.Create(ctx, CreateMedicationInput{
		CustomerID:       customer,
		MedicationFields: medicationFields("Atorvastatin", models.Frequency{Night: intPtr(1)}),
	})
	require.NoError(t, err)

	list, err := f.svc.Medications.ListForCustomer(ctx, customer)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, second, list[0].ID)
	assert.Equal(t, first, list[1].ID)
	assert.True(t, list[1].IsActive)

	update := UpdateMedicationInput{
		MedicationFields: medicationFields("Metformin XR", models.Frequency{Morning: intPtr(2)}),
		IsActive:         boolPtr(false),
	}
	update.Instructions = strPtr("with food")
	require.NoError(t, f.svc.Medications.Update(ctx, first, update))

	m, err := f.store.GetMedication(ctx, first)
	require.NoError(t, err)
	assert.Equal(t, "Metformin XR", m.Name)
	assert.Equal(t, 2, m.Frequency.Dose(models.Morning))
	assert.Equal(t, 0, m.Frequency.Dose(models.Evening))
	assert.False(t, m.IsActive)
	assert.Equal(t, "with food", *m.Instructions)

	active, err := f.svc.Medications.Toggle(ctx, first)
	require.NoError(t, err)
	assert.True(t, active)
	toggled, err := f.store.GetMedication(ctx, first)
	require.NoError(t, err)
	assert.Equal(t, "Metformin XR", toggled.Name)
	assert.True(t, toggled.UpdatedAt.After(m.UpdatedAt))

	require.NoError(t, f.svc.Medications.Delete(ctx, second))
	list, err = f.svc.Medications.ListForCustomer(ctx, customer)
	require.NoError(t, err)
	assert.Len(t, list, 1)
}

func TestMedicationService_Rejections(t *testing.T) {
	f := newFixture(t, Options{})
	owner, stranger := uuid.New(), uuid.New()
	customer := f.addCustomer(t, owner, "C-1")

	_, err := f.svc.Medications.Create(as(owner), CreateMedicationInput{
		CustomerID:       customer,
		MedicationFields: medicationFields("Nothing", models.Frequency{}),
	})
	assert.ErrorIs(t, err, ErrInvalidFrequency)

	bad := medicationFields("Odd", models.Frequency{Morning: intPtr(1)})
	bad.Form = "powder"
	_, err = f.svc.Medications.Create(as(owner), CreateMedicationInput{CustomerID: customer, MedicationFields: bad})
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = f.svc.Medications.Create(as(stranger), CreateMedicationInput{
		CustomerID:       customer,
		MedicationFields: medicationFields("Aspirin", models.Frequency{Morning: intPtr(1)}),
	})
	assert.ErrorIs(t, err, ErrAccessDenied)

	id, err := f.svc.Medications.Create(as(owner), CreateMedicationInput{
		CustomerID:       customer,
		MedicationFields: medicationFields("Aspirin", models.Frequency{Morning: intPtr(1)}),
	})
	require.NoError(t, err)

	_, err = f.svc.Medications.ListForCustomer(as(stranger), customer)
	assert.ErrorIs(t, err, ErrAccessDenied)
	_, err = f.svc.Medications.Toggle(as(stranger), id)
	assert.EqualError(t, err, "medication not found or access denied")
	assert.ErrorIs(t, f.svc.Medications.Delete(as(stranger), id), ErrNotFound)
	assert.ErrorIs(t, f.svc.Medications.Update(as(owner), id, UpdateMedicationInput{
		MedicationFields: medicationFields("Aspirin", models.Frequency{Night: intPtr(0)}),
	}), ErrInvalidFrequency)
	assert.ErrorIs(t, f.svc.Medications.Update(as(owner), id, UpdateMedicationInput{
		MedicationFields: medicationFields("Aspirin", models.Frequency{Night: intPtr(1)}),
	}), ErrInvalidInput)
}
