package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/smokvina/Slavenski-Ljubavni-Pri-atelj/internal/config"
	"github.com/smokvina/Slavenski-Ljubavni-Pri-atelj/internal/gemini"
	"github.com/smokvina/Slavenski-Ljubavni-Pri-atelj/internal/model"
	"github.com/smokvina/Slavenski-Ljubavni-Pri-atelj/internal/render"
	"github.com/smokvina/Slavenski-Ljubavni-Pri-atelj/internal/storage"
	"github.com/smokvina/Slavenski-Ljubavni-Pri-atelj/pkg/logger"
)

// Generator is the session service's view of the provider client; tests
// substitute a mock.
type Generator interface {
	GenerateSynastryAnalysis(ctx context.Context, a, b model.BirthRecord) (string, error)
	GenerateImage(ctx context.Context, prompt string) (string, error)
	StartChat(ctx context.Context, sessionID string) error
	SendChatMessage(ctx context.Context, sessionID, message string) (string, error)
	SearchGrounding(ctx context.Context, query string) (gemini.GroundedAnswer, error)
	MapsGrounding(ctx context.Context, query string) (gemini.GroundedAnswer, error)
	LowLatencyAnswer(ctx context.Context, query string) (string, error)
	DropChat(sessionID string)
}

// SessionService owns all session state transitions. State mutations run
// under one mutex; provider calls never do.
type SessionService struct {
	store    storage.Store
	gen      Generator
	renderer *render.Renderer
	cfg      *config.SessionConfig

	mu  sync.Mutex
	now func() time.Time
}

func NewSessionService(store storage.Store, gen Generator, renderer *render.Renderer, cfg *config.SessionConfig) *SessionService {
	s := &SessionService{
		store:    store,
		gen:      gen,
		renderer: renderer,
		cfg:      cfg,
		now:      time.Now,
	}

	if cfg != nil && cfg.CleanupInterval > 0 {
		go s.cleanupOldSessions()
	}

	return s
}

func (s *SessionService) CreateSession(ctx context.Context, title string) (*model.Session, error) {
	if title == "" {
		title = "Nova seansa " + s.now().Format("2006-01-02 15:04")
	}

	session := &model.Session{
		ID:        uuid.New().String(),
		Title:     title,
		ErrorsA:   model.FieldErrors{},
		ErrorsB:   model.FieldErrors{},
		Messages:  make([]model.ChatMessage, 0),
		ActiveTab: model.TabInput,
		CreatedAt: s.now(),
		UpdatedAt: s.now(),
	}

	if err := s.store.CreateSession(session); err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}

	// Warm up the provider chat handle; a missing credential is reported
	// later, when the user actually talks to the assistant.
	if err := s.gen.StartChat(ctx, session.ID); err != nil {
		logger.Warnf("Chat warm-up for session %s skipped: %v", session.ID, err)
	}

	return session, nil
}

func (s *SessionService) GetSession(sessionID string) (*model.Session, error) {
	session, err := s.store.GetSession(sessionID)
	if err != nil {
		if err == storage.ErrSessionNotFound {
			return nil, fmt.Errorf("%w: %s", storage.ErrSessionNotFound, sessionID)
		}
		return nil, fmt.Errorf("failed to get session: %w", err)
	}

	return session, nil
}

func (s *SessionService) DeleteSession(sessionID string) error {
	if err := s.store.DeleteSession(sessionID); err != nil {
		if err == storage.ErrSessionNotFound {
			return fmt.Errorf("%w: %s", storage.ErrSessionNotFound, sessionID)
		}
		return fmt.Errorf("failed to delete session: %w", err)
	}

	s.gen.DropChat(sessionID)
	return nil
}

func (s *SessionService) ListSessions() ([]*model.Session, error) {
	sessions, err := s.store.ListSessions()
	if err != nil {
		return nil, fmt.Errorf("failed to list sessions: %w", err)
	}

	return sessions, nil
}

func (s *SessionService) ClearSessions() error {
	sessions, err := s.store.ListSessions()
	if err != nil {
		return fmt.Errorf("failed to list sessions: %w", err)
	}

	for _, session := range sessions {
		if err := s.store.DeleteSession(session.ID); err != nil {
			logger.Errorf("Failed to delete session %s: %v", session.ID, err)
			continue
		}
		s.gen.DropChat(session.ID)
	}

	return nil
}

func (s *SessionService) cleanupOldSessions() {
	ticker := time.NewTicker(s.cfg.CleanupInterval)
	defer ticker.Stop()

	for range ticker.C {
		sessions, err := s.store.ListSessions()
		if err != nil {
			logger.Errorf("Failed to list sessions for cleanup: %v", err)
			continue
		}

		cutoff := s.now().Add(-s.cfg.TTL)
		for _, session := range sessions {
			if session.UpdatedAt.Before(cutoff) {
				if err := s.store.DeleteSession(session.ID); err != nil {
					logger.Errorf("Failed to delete expired session %s: %v", session.ID, err)
					continue
				}
				s.gen.DropChat(session.ID)
				logger.Infof("Cleaned up expired session: %s", session.ID)
			}
		}
	}
}
