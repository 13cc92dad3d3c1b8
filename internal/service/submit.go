package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/smokvina/Slavenski-Ljubavni-Pri-atelj/internal/gemini"
	"github.com/smokvina/Slavenski-Ljubavni-Pri-atelj/internal/model"
	"github.com/smokvina/Slavenski-Ljubavni-Pri-atelj/internal/validation"
)

// imagePromptTemplate is derived for the user after a successful analysis;
// both names are interpolated in order.
const imagePromptTemplate = "An artistic representation of %s and %s's love, inspired by Slavic mythology, featuring Lada and Yarilo, in a vibrant, romantic style."

// SubmitAnalysis validates both records and, when they pass, runs the
// long-form analysis. The in-flight flag is cleared on every exit path; a
// failing call leaves the previous analysis text and HTML untouched.
func (s *SessionService) SubmitAnalysis(ctx context.Context, sessionID string) (*model.AnalysisResponse, error) {
	s.mu.Lock()
	session, err := s.GetSession(sessionID)
	if err != nil {
		s.mu.Unlock()
		return nil, err
	}

	errsA, errsB, ok := validation.ValidatePair(session.PersonA, session.PersonB, s.now())
	session.ErrorsA = errsA
	session.ErrorsB = errsB
	if !ok {
		session.Analysis.LastError = validation.AggregateNotice
		session.UpdatedAt = s.now()
		s.store.UpdateSession(session)
		s.mu.Unlock()
		return nil, &ValidationError{
			Notice:  validation.AggregateNotice,
			ErrorsA: errsA,
			ErrorsB: errsB,
		}
	}

	if session.Analysis.InProgress {
		s.mu.Unlock()
		return nil, ErrOperationInFlight
	}
	session.Analysis.InProgress = true
	session.Analysis.LastError = ""
	session.UpdatedAt = s.now()
	s.store.UpdateSession(session)
	personA, personB := session.PersonA, session.PersonB
	s.mu.Unlock()

	text, genErr := s.gen.GenerateSynastryAnalysis(ctx, personA, personB)

	s.mu.Lock()
	defer s.mu.Unlock()
	session, err = s.GetSession(sessionID)
	if err != nil {
		return nil, err
	}

	session.Analysis.InProgress = false
	session.UpdatedAt = s.now()
	if genErr != nil {
		session.Analysis.LastError = genErr.Error()
		s.store.UpdateSession(session)
		return nil, genErr
	}

	session.AnalysisText = text
	session.AnalysisHTML = s.renderer.Render(text)
	session.ImagePrompt = fmt.Sprintf(imagePromptTemplate, personA.Name, personB.Name)
	session.ActiveTab = model.TabResults
	s.store.UpdateSession(session)

	return &model.AnalysisResponse{
		AnalysisText: session.AnalysisText,
		AnalysisHTML: session.AnalysisHTML,
		ImagePrompt:  session.ImagePrompt,
		ActiveTab:    session.ActiveTab,
	}, nil
}

// SubmitImage generates one image from the supplied prompt, falling back
// to the prompt derived from the last analysis.
func (s *SessionService) SubmitImage(ctx context.Context, sessionID, prompt string) (*model.ImageResponse, error) {
	prompt = strings.TrimSpace(prompt)

	s.mu.Lock()
	session, err := s.GetSession(sessionID)
	if err != nil {
		s.mu.Unlock()
		return nil, err
	}

	if prompt == "" {
		prompt = session.ImagePrompt
	}
	if prompt == "" {
		session.Image.LastError = ErrEmptyImagePrompt.Error()
		session.UpdatedAt = s.now()
		s.store.UpdateSession(session)
		s.mu.Unlock()
		return nil, ErrEmptyImagePrompt
	}

	if session.Image.InProgress {
		s.mu.Unlock()
		return nil, ErrOperationInFlight
	}
	session.Image.InProgress = true
	session.Image.LastError = ""
	session.ImagePrompt = prompt
	session.UpdatedAt = s.now()
	s.store.UpdateSession(session)
	s.mu.Unlock()

	dataURI, genErr := s.gen.GenerateImage(ctx, prompt)

	s.mu.Lock()
	defer s.mu.Unlock()
	session, err = s.GetSession(sessionID)
	if err != nil {
		return nil, err
	}

	session.Image.InProgress = false
	session.UpdatedAt = s.now()
	if genErr != nil {
		session.Image.LastError = genErr.Error()
		s.store.UpdateSession(session)
		return nil, genErr
	}

	session.ImageDataURI = dataURI
	s.store.UpdateSession(session)

	return &model.ImageResponse{ImageDataURI: dataURI}, nil
}

// SubmitChat sends one conversational message. Empty input is a silent
// no-op: no transcript change, no provider call, nil response.
func (s *SessionService) SubmitChat(ctx context.Context, sessionID, message string) (*model.ChatMessage, error) {
	trimmed := strings.TrimSpace(message)
	if trimmed == "" {
		return nil, nil
	}

	return s.converse(ctx, sessionID, trimmed, func(ctx context.Context) (gemini.GroundedAnswer, error) {
		text, err := s.gen.SendChatMessage(ctx, sessionID, trimmed)
		return gemini.GroundedAnswer{Text: text}, err
	})
}

// SubmitSearch answers through the web-search grounded path; the user's
// transcript entry carries a "Search: " prefix so the mode stays visible.
func (s *SessionService) SubmitSearch(ctx context.Context, sessionID, query string) (*model.ChatMessage, error) {
	trimmed := strings.TrimSpace(query)
	if trimmed == "" {
		return nil, nil
	}

	return s.converse(ctx, sessionID, "Search: "+trimmed, func(ctx context.Context) (gemini.GroundedAnswer, error) {
		return s.gen.SearchGrounding(ctx, trimmed)
	})
}

// SubmitMaps always succeeds with the client's canned reply.
func (s *SessionService) SubmitMaps(ctx context.Context, sessionID, query string) (*model.ChatMessage, error) {
	trimmed := strings.TrimSpace(query)
	if trimmed == "" {
		return nil, nil
	}

	return s.converse(ctx, sessionID, "Maps: "+trimmed, func(ctx context.Context) (gemini.GroundedAnswer, error) {
		return s.gen.MapsGrounding(ctx, trimmed)
	})
}

// converse appends the optimistic user message, runs the provider call
// without holding the lock, then appends the assistant reply or records
// the error without appending anything.
func (s *SessionService) converse(ctx context.Context, sessionID, userText string, call func(context.Context) (gemini.GroundedAnswer, error)) (*model.ChatMessage, error) {
	s.mu.Lock()
	session, err := s.GetSession(sessionID)
	if err != nil {
		s.mu.Unlock()
		return nil, err
	}

	if session.Chat.InProgress {
		s.mu.Unlock()
		return nil, ErrOperationInFlight
	}

	session.Messages = append(session.Messages, model.ChatMessage{
		ID:        uuid.New().String(),
		Role:      model.RoleUser,
		Content:   userText,
		Timestamp: s.now(),
	})
	session.Chat.InProgress = true
	session.Chat.LastError = ""
	session.UpdatedAt = s.now()
	s.store.UpdateSession(session)
	s.mu.Unlock()

	answer, callErr := call(ctx)

	s.mu.Lock()
	defer s.mu.Unlock()
	session, err = s.GetSession(sessionID)
	if err != nil {
		return nil, err
	}

	session.Chat.InProgress = false
	session.UpdatedAt = s.now()
	if callErr != nil {
		session.Chat.LastError = callErr.Error()
		s.store.UpdateSession(session)
		return nil, callErr
	}

	reply := model.ChatMessage{
		ID:            uuid.New().String(),
		Role:          model.RoleAssistant,
		Content:       answer.Text,
		GroundingURLs: answer.URLs,
		Timestamp:     s.now(),
	}
	session.Messages = append(session.Messages, reply)
	s.store.UpdateSession(session)

	return &reply, nil
}

// SubmitQuick runs the low-latency single-shot query; it never touches the
// transcript and empty input is a user-visible error.
func (s *SessionService) SubmitQuick(ctx context.Context, sessionID, query string) (string, error) {
	trimmed := strings.TrimSpace(query)

	s.mu.Lock()
	session, err := s.GetSession(sessionID)
	if err != nil {
		s.mu.Unlock()
		return "", err
	}

	if trimmed == "" {
		session.Quick.LastError = ErrEmptyQuery.Error()
		session.UpdatedAt = s.now()
		s.store.UpdateSession(session)
		s.mu.Unlock()
		return "", ErrEmptyQuery
	}

	if session.Quick.InProgress {
		s.mu.Unlock()
		return "", ErrOperationInFlight
	}
	session.Quick.InProgress = true
	session.Quick.LastError = ""
	session.QuickAnswer = ""
	session.UpdatedAt = s.now()
	s.store.UpdateSession(session)
	s.mu.Unlock()

	answer, genErr := s.gen.LowLatencyAnswer(ctx, trimmed)

	s.mu.Lock()
	defer s.mu.Unlock()
	session, err = s.GetSession(sessionID)
	if err != nil {
		return "", err
	}

	session.Quick.InProgress = false
	session.UpdatedAt = s.now()
	if genErr != nil {
		session.Quick.LastError = genErr.Error()
		s.store.UpdateSession(session)
		return "", genErr
	}

	session.QuickAnswer = answer
	s.store.UpdateSession(session)

	return answer, nil
}
