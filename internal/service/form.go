package service

import (
	"github.com/smokvina/Slavenski-Ljubavni-Pri-atelj/internal/model"
)

// Example birth data; always passes validation.
var (
	exampleA = model.BirthRecord{
		Name:       "Ana Petrović",
		BirthDate:  "1985-08-15",
		BirthTime:  "14:30",
		BirthPlace: "Zagreb, Hrvatska",
	}
	exampleB = model.BirthRecord{
		Name:       "Marko Horvat",
		BirthDate:  "1983-01-20",
		BirthTime:  "08:00",
		BirthPlace: "Split, Hrvatska",
	}
)

// SetField overwrites one field of one person and unconditionally clears
// that field's error entry. Validity is re-checked only at submit.
func (s *SessionService) SetField(sessionID, person, field, value string) (*model.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	session, err := s.GetSession(sessionID)
	if err != nil {
		return nil, err
	}

	var rec *model.BirthRecord
	var errs model.FieldErrors
	switch person {
	case model.PersonA:
		rec, errs = &session.PersonA, session.ErrorsA
	case model.PersonB:
		rec, errs = &session.PersonB, session.ErrorsB
	default:
		return nil, ErrUnknownPerson
	}

	switch field {
	case model.FieldName:
		rec.Name = value
	case model.FieldBirthDate:
		rec.BirthDate = value
	case model.FieldBirthTime:
		rec.BirthTime = value
	case model.FieldBirthPlace:
		rec.BirthPlace = value
	default:
		return nil, ErrUnknownField
	}

	delete(errs, field)
	session.UpdatedAt = s.now()

	if err := s.store.UpdateSession(session); err != nil {
		return nil, err
	}

	return session, nil
}

// LoadExampleData replaces both records with the fixture and clears every
// field error.
func (s *SessionService) LoadExampleData(sessionID string) (*model.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	session, err := s.GetSession(sessionID)
	if err != nil {
		return nil, err
	}

	session.PersonA = exampleA
	session.PersonB = exampleB
	session.ErrorsA = model.FieldErrors{}
	session.ErrorsB = model.FieldErrors{}
	session.UpdatedAt = s.now()

	if err := s.store.UpdateSession(session); err != nil {
		return nil, err
	}

	return session, nil
}
