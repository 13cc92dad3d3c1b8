package storage

import (
	"github.com/smokvina/Slavenski-Ljubavni-Pri-atelj/internal/model"
)

// Store keeps session state for the lifetime of the process. Nothing is
// ever written to disk: the application promises that no birth data or
// conversation survives the session.
type Store interface {
	CreateSession(session *model.Session) error
	GetSession(sessionID string) (*model.Session, error)
	UpdateSession(session *model.Session) error
	DeleteSession(sessionID string) error
	ListSessions() ([]*model.Session, error)

	Init() error
	Close() error
}
