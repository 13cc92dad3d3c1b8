package validation

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/smokvina/Slavenski-Ljubavni-Pri-atelj/internal/model"
)

var testNow = time.Date(2026, 9, 1, 15, 4, 5, 0, time.UTC)

func validRecord() model.BirthRecord {
	return model.BirthRecord{
		Name:       "Ana Petrović",
		BirthDate:  "1985-08-15",
		BirthTime:  "14:30",
		BirthPlace: "Zagreb, Hrvatska",
	}
}

func TestValidateRecordAllEmpty(t *testing.T) {
	errs := ValidateRecord(model.PersonA, model.BirthRecord{}, testNow)

	require.Len(t, errs, 4)
	assert.NotEmpty(t, errs[model.FieldName])
	assert.NotEmpty(t, errs[model.FieldBirthDate])
	assert.NotEmpty(t, errs[model.FieldBirthTime])
	assert.NotEmpty(t, errs[model.FieldBirthPlace])
}

func TestValidateRecordValid(t *testing.T) {
	errs := ValidateRecord(model.PersonA, validRecord(), testNow)
	assert.Empty(t, errs)
}

func TestValidateRecordBirthTime(t *testing.T) {
	rejected := []string{"24:00", "9:30", "12:60", "12:5", "1230", "ab:cd", "23:5x"}
	for _, tc := range rejected {
		rec := validRecord()
		rec.BirthTime = tc
		errs := ValidateRecord(model.PersonA, rec, testNow)
		assert.Contains(t, errs, model.FieldBirthTime, "time %q should be rejected", tc)
	}

	accepted := []string{"00:00", "09:30", "14:30", "19:59", "20:00", "23:59"}
	for _, tc := range accepted {
		rec := validRecord()
		rec.BirthTime = tc
		errs := ValidateRecord(model.PersonA, rec, testNow)
		assert.NotContains(t, errs, model.FieldBirthTime, "time %q should be accepted", tc)
	}
}

func TestValidateRecordBirthDate(t *testing.T) {
	rec := validRecord()
	rec.BirthDate = "not-a-date"
	errs := ValidateRecord(model.PersonA, rec, testNow)
	assert.Contains(t, errs, model.FieldBirthDate)

	// Tomorrow is rejected.
	rec.BirthDate = testNow.AddDate(0, 0, 1).Format("2006-01-02")
	errs = ValidateRecord(model.PersonA, rec, testNow)
	assert.Contains(t, errs, model.FieldBirthDate)

	// Today itself passes, regardless of the current time of day.
	rec.BirthDate = testNow.Format("2006-01-02")
	errs = ValidateRecord(model.PersonA, rec, testNow)
	assert.NotContains(t, errs, model.FieldBirthDate)
}

func TestValidateRecordPersonWording(t *testing.T) {
	errsA := ValidateRecord(model.PersonA, model.BirthRecord{}, testNow)
	errsB := ValidateRecord(model.PersonB, model.BirthRecord{}, testNow)

	assert.Equal(t, "Ime prve osobe je obavezno.", errsA[model.FieldName])
	assert.Equal(t, "Ime druge osobe je obavezno.", errsB[model.FieldName])
}

func TestValidatePair(t *testing.T) {
	errsA, errsB, ok := ValidatePair(validRecord(), validRecord(), testNow)
	assert.True(t, ok)
	assert.Empty(t, errsA)
	assert.Empty(t, errsB)

	bad := validRecord()
	bad.BirthPlace = ""
	errsA, errsB, ok = ValidatePair(validRecord(), bad, testNow)
	assert.False(t, ok)
	assert.Empty(t, errsA)
	require.Len(t, errsB, 1)
	assert.Equal(t, "Mjesto rođenja za drugu osobu je obavezno.", errsB[model.FieldBirthPlace])
}
