// Package validation holds the birth-data form rules. Everything here is
// pure: no provider access, no session state, current time passed in.
package validation

import (
	"regexp"
	"time"

	"github.com/smokvina/Slavenski-Ljubavni-Pri-atelj/internal/model"
)

// AggregateNotice is shown next to the submit control whenever any field
// fails, in addition to the per-field messages.
const AggregateNotice = "Molimo popunite sva obavezna polja ispravno."

const dateLayout = "2006-01-02"

// 24-hour clock, minutes 00-59. "9:30" needs the leading zero.
var timePattern = regexp.MustCompile(`^([01]\d|2[0-3]):([0-5]\d)$`)

type wording struct {
	nameRequired  string
	dateRequired  string
	dateFormat    string
	dateFuture    string
	timeRequired  string
	timeFormat    string
	placeRequired string
}

var wordingA = wording{
	nameRequired:  "Ime prve osobe je obavezno.",
	dateRequired:  "Datum rođenja za prvu osobu je obavezan.",
	dateFormat:    "Neispravan format datuma za prvu osobu.",
	dateFuture:    "Datum rođenja ne može biti u budućnosti za prvu osobu.",
	timeRequired:  "Vrijeme rođenja za prvu osobu je obavezno.",
	timeFormat:    "Neispravan format vremena (HH:MM) za prvu osobu.",
	placeRequired: "Mjesto rođenja za prvu osobu je obavezno.",
}

var wordingB = wording{
	nameRequired:  "Ime druge osobe je obavezno.",
	dateRequired:  "Datum rođenja za drugu osobu je obavezan.",
	dateFormat:    "Neispravan format datuma za drugu osobu.",
	dateFuture:    "Datum rođenja ne može biti u budućnosti za drugu osobu.",
	timeRequired:  "Vrijeme rođenja za drugu osobu je obavezno.",
	timeFormat:    "Neispravan format vremena (HH:MM) za drugu osobu.",
	placeRequired: "Mjesto rođenja za drugu osobu je obavezno.",
}

// ValidateRecord checks one record against the rules for the given person
// slot and reports every failing field at once.
func ValidateRecord(person string, rec model.BirthRecord, now time.Time) model.FieldErrors {
	w := wordingA
	if person == model.PersonB {
		w = wordingB
	}

	errs := model.FieldErrors{}

	if rec.Name == "" {
		errs[model.FieldName] = w.nameRequired
	}

	if rec.BirthDate == "" {
		errs[model.FieldBirthDate] = w.dateRequired
	} else if birthDate, err := time.Parse(dateLayout, rec.BirthDate); err != nil {
		errs[model.FieldBirthDate] = w.dateFormat
	} else {
		// Compare at start of day so a birth on today's date passes.
		today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
		if birthDate.After(today) {
			errs[model.FieldBirthDate] = w.dateFuture
		}
	}

	if rec.BirthTime == "" {
		errs[model.FieldBirthTime] = w.timeRequired
	} else if !timePattern.MatchString(rec.BirthTime) {
		errs[model.FieldBirthTime] = w.timeFormat
	}

	if rec.BirthPlace == "" {
		errs[model.FieldBirthPlace] = w.placeRequired
	}

	return errs
}

// ValidatePair validates both records independently; ok is true only when
// every field of both passes.
func ValidatePair(a, b model.BirthRecord, now time.Time) (model.FieldErrors, model.FieldErrors, bool) {
	errsA := ValidateRecord(model.PersonA, a, now)
	errsB := ValidateRecord(model.PersonB, b, now)
	return errsA, errsB, len(errsA) == 0 && len(errsB) == 0
}
