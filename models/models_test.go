package models

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCheckedMedicationListColumn(t *testing.T) {
	two := 2
	list := CheckedMedicationList{{
		MedicationID: uuid.New(),
		Name:         "Metformin",
		Evening:      &two,
		Correct:      true,
	}}

	v, err := list.Value()
	require.NoError(t, err)

	var back CheckedMedicationList
	require.NoError(t, back.Scan(v))
	assert.Equal(t, list, back)

	require.NoError(t, back.Scan(`[{"name":"Aspirin","correct":false}]`))
	require.Len(t, back, 1)
	assert.Equal(t, "Aspirin", back[0].Name)
	assert.Nil(t, back[0].Morning)

	require.NoError(t, back.Scan(nil))
	assert.Nil(t, back)
	assert.Error(t, back.Scan(42))

	v, err = CheckedMedicationList(nil).Value()
	require.NoError(t, err)
	assert.Nil(t, v)
}

func TestFrequencyDose(t *testing.T) {
	one, three := 1, 3
	f := Frequency{Morning: &one, Night: &three}
	assert.Equal(t, 1, f.Dose(Morning))
	assert.Equal(t, 0, f.Dose(Afternoon))
	assert.Equal(t, 0, f.Dose(Evening))
	assert.Equal(t, 3, f.Dose(Night))
	assert.Equal(t, 0, f.Dose("brunch"))
}

func TestEnums(t *testing.T) {
	assert.Equal(t, BlisterPacks, PackType("").OrDefault())
	assert.Equal(t, SachetRolls, SachetRolls.OrDefault())
	assert.False(t, PackType("box").Valid())
	assert.True(t, PackCheckChecked.Valid())
	assert.False(t, PackCheckStatus("done").Valid())
	assert.True(t, FormInhaler.Valid())
	assert.False(t, MedicationForm("pill").Valid())
	assert.True(t, Delivered.Valid())
	assert.False(t, ScanOutStatus("lost").Valid())
}

func TestCustomerSummary(t *testing.T) {
	c := &Customer{FirstName: "Mary", LastName: "Jones", CustomerID: "CUST-1"}
	assert.Equal(t, "Mary Jones", c.FullName())
	assert.Equal(t, &CustomerSummary{FirstName: "Mary", LastName: "Jones", CustomerID: "CUST-1"}, c.Summary())
}
