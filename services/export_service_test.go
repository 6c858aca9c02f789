package services

import (
	"bytes"
	"testing"

	"pillflow-backend/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func TestExportService_History(t *testing.T) {
	f := newFixture(t, Options{})
	owner := uuid.New()
	ctx := as(owner)
	customer := f.addCustomer(t, owner, "C-1")

	in := packCheckInput(customer, "W-1")
	in.Notes = strPtr("all good")
	in.CheckedMedications = models.CheckedMedicationList{
		{MedicationID: uuid.New(), Name: "Aspirin", Correct: true},
		{MedicationID: uuid.New(), Name: "Metformin", Correct: false, Comment: "missing"},
	}
	_, err := f.svc.PackChecks.Create(ctx, in)
	require.NoError(t, err)
	_, err = f.svc.ScanOuts.Create(ctx, scanOutInput(customer, "W-1"))
	require.NoError(t, err)

	data, err := f.svc.Export.History(ctx)
	require.NoError(t, err)

	book, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer book.Close()
	assert.Equal(t, []string{PackChecksSheet, ScanOutsSheet}, book.GetSheetList())

	checks, err := book.GetRows(PackChecksSheet)
	require.NoError(t, err)
	require.Len(t, checks, 2)
	assert.Equal(t, packCheckHeader, checks[0])
	assert.Equal(t, "C-1", checks[1][1])
	assert.Equal(t, "Ada Lovelace", checks[1][2])
	assert.Equal(t, "W-1", checks[1][3])
	assert.Equal(t, "2", checks[1][7])
	assert.Equal(t, "1", checks[1][8])
	assert.Equal(t, "all good", checks[1][9])

	scans, err := book.GetRows(ScanOutsSheet)
	require.NoError(t, err)
	require.Len(t, scans, 2)
	assert.Equal(t, "scanned_out", scans[1][6])
}

func TestExportService_RequiresCaller(t *testing.T) {
	f := newFixture(t, Options{})
	_, err := f.svc.Export.History(as(uuid.Nil))
	assert.ErrorIs(t, err, ErrUnauthenticated)
}
