package service

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/smokvina/Slavenski-Ljubavni-Pri-atelj/internal/gemini"
	"github.com/smokvina/Slavenski-Ljubavni-Pri-atelj/internal/model"
	"github.com/smokvina/Slavenski-Ljubavni-Pri-atelj/internal/render"
	"github.com/smokvina/Slavenski-Ljubavni-Pri-atelj/internal/storage"
)

type mockGenerator struct {
	mu sync.Mutex

	analysisText string
	analysisErr  error
	imageURI     string
	imageErr     error
	chatReply    string
	chatErr      error
	searchAnswer gemini.GroundedAnswer
	searchErr    error
	mapsAnswer   gemini.GroundedAnswer
	quickAnswer  string
	quickErr     error

	calls   map[string]int
	started map[string]bool
	dropped map[string]bool
}

func newMockGenerator() *mockGenerator {
	return &mockGenerator{
		calls:   make(map[string]int),
		started: make(map[string]bool),
		dropped: make(map[string]bool),
	}
}

func (m *mockGenerator) record(op string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls[op]++
}

func (m *mockGenerator) callCount(op string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls[op]
}

func (m *mockGenerator) GenerateSynastryAnalysis(ctx context.Context, a, b model.BirthRecord) (string, error) {
	m.record("analysis")
	return m.analysisText, m.analysisErr
}

func (m *mockGenerator) GenerateImage(ctx context.Context, prompt string) (string, error) {
	m.record("image")
	return m.imageURI, m.imageErr
}

func (m *mockGenerator) StartChat(ctx context.Context, sessionID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.started[sessionID] = true
	return nil
}

func (m *mockGenerator) SendChatMessage(ctx context.Context, sessionID, message string) (string, error) {
	m.record("chat")
	return m.chatReply, m.chatErr
}

func (m *mockGenerator) SearchGrounding(ctx context.Context, query string) (gemini.GroundedAnswer, error) {
	m.record("search")
	return m.searchAnswer, m.searchErr
}

func (m *mockGenerator) MapsGrounding(ctx context.Context, query string) (gemini.GroundedAnswer, error) {
	m.record("maps")
	return m.mapsAnswer, nil
}

func (m *mockGenerator) LowLatencyAnswer(ctx context.Context, query string) (string, error) {
	m.record("quick")
	return m.quickAnswer, m.quickErr
}

func (m *mockGenerator) DropChat(sessionID string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.dropped[sessionID] = true
}

func newTestService(t *testing.T) (*SessionService, *mockGenerator, *model.Session) {
	t.Helper()

	gen := newMockGenerator()
	svc := NewSessionService(storage.NewMemoryStore(), gen, render.NewRenderer(), nil)

	session, err := svc.CreateSession(context.Background(), "test")
	require.NoError(t, err)

	return svc, gen, session
}

func TestCreateSessionDefaults(t *testing.T) {
	svc, gen, session := newTestService(t)

	assert.NotEmpty(t, session.ID)
	assert.Equal(t, model.TabInput, session.ActiveTab)
	assert.Empty(t, session.Messages)
	assert.True(t, gen.started[session.ID], "chat handle should be warmed up")

	got, err := svc.GetSession(session.ID)
	require.NoError(t, err)
	assert.Equal(t, session.ID, got.ID)
}

func TestSubmitAnalysisValidationFailure(t *testing.T) {
	svc, gen, session := newTestService(t)

	_, err := svc.SubmitAnalysis(context.Background(), session.ID)

	var valErr *ValidationError
	require.ErrorAs(t, err, &valErr)
	assert.Equal(t, "Molimo popunite sva obavezna polja ispravno.", valErr.Notice)
	assert.Len(t, valErr.ErrorsA, 4)
	assert.Len(t, valErr.ErrorsB, 4)
	assert.Zero(t, gen.callCount("analysis"), "provider must not be called on invalid input")

	got, _ := svc.GetSession(session.ID)
	assert.Equal(t, valErr.Notice, got.Analysis.LastError)
	assert.False(t, got.Analysis.InProgress)
}

func TestSetFieldClearsOnlyThatError(t *testing.T) {
	svc, _, session := newTestService(t)

	// A failed submit populates the field errors.
	_, err := svc.SubmitAnalysis(context.Background(), session.ID)
	require.Error(t, err)

	got, err := svc.SetField(session.ID, model.PersonA, model.FieldName, "Ana")
	require.NoError(t, err)

	assert.NotContains(t, got.ErrorsA, model.FieldName)
	assert.Contains(t, got.ErrorsA, model.FieldBirthDate)
	assert.Contains(t, got.ErrorsA, model.FieldBirthTime)
	assert.Contains(t, got.ErrorsA, model.FieldBirthPlace)
	assert.Len(t, got.ErrorsB, 4)
	assert.Equal(t, "Ana", got.PersonA.Name)
}

func TestSetFieldUnknownPersonOrField(t *testing.T) {
	svc, _, session := newTestService(t)

	_, err := svc.SetField(session.ID, "c", model.FieldName, "x")
	assert.ErrorIs(t, err, ErrUnknownPerson)

	_, err = svc.SetField(session.ID, model.PersonA, "shoe_size", "44")
	assert.ErrorIs(t, err, ErrUnknownField)
}

func TestLoadExampleDataThenAnalysis(t *testing.T) {
	svc, gen, session := newTestService(t)
	gen.analysisText = "## Uvod\n\nSusret vatre i vode."

	_, err := svc.LoadExampleData(session.ID)
	require.NoError(t, err)

	resp, err := svc.SubmitAnalysis(context.Background(), session.ID)
	require.NoError(t, err)

	assert.Equal(t, gen.analysisText, resp.AnalysisText)
	assert.Contains(t, resp.AnalysisHTML, "<h2>Uvod</h2>")
	assert.Equal(t, model.TabResults, resp.ActiveTab)
	assert.Contains(t, resp.ImagePrompt, "Ana Petrović")
	assert.Contains(t, resp.ImagePrompt, "Marko Horvat")
	assert.Contains(t, resp.ImagePrompt, "Lada and Yarilo")

	got, _ := svc.GetSession(session.ID)
	assert.False(t, got.Analysis.InProgress)
	assert.Empty(t, got.Analysis.LastError)
}

func TestSubmitAnalysisProviderFailureKeepsPriorResult(t *testing.T) {
	svc, gen, session := newTestService(t)
	gen.analysisText = "stara analiza"

	_, err := svc.LoadExampleData(session.ID)
	require.NoError(t, err)
	_, err = svc.SubmitAnalysis(context.Background(), session.ID)
	require.NoError(t, err)

	gen.analysisErr = gemini.ErrAnalysisFailed
	_, err = svc.SubmitAnalysis(context.Background(), session.ID)
	assert.ErrorIs(t, err, gemini.ErrAnalysisFailed)

	got, _ := svc.GetSession(session.ID)
	assert.Equal(t, "stara analiza", got.AnalysisText)
	assert.NotEmpty(t, got.AnalysisHTML)
	assert.Equal(t, gemini.ErrAnalysisFailed.Error(), got.Analysis.LastError)
	assert.False(t, got.Analysis.InProgress)
}

func TestSubmitImage(t *testing.T) {
	svc, gen, session := newTestService(t)

	// No prompt anywhere: user-visible error, no provider call.
	_, err := svc.SubmitImage(context.Background(), session.ID, "   ")
	assert.ErrorIs(t, err, ErrEmptyImagePrompt)
	assert.Zero(t, gen.callCount("image"))

	gen.imageURI = "data:image/jpeg;base64,ZmFrZQ=="
	resp, err := svc.SubmitImage(context.Background(), session.ID, "Lada i Yarilo")
	require.NoError(t, err)
	assert.Equal(t, gen.imageURI, resp.ImageDataURI)

	got, _ := svc.GetSession(session.ID)
	assert.Equal(t, "Lada i Yarilo", got.ImagePrompt)
	assert.Equal(t, gen.imageURI, got.ImageDataURI)
	assert.False(t, got.Image.InProgress)
}

func TestSubmitImageUsesDerivedPrompt(t *testing.T) {
	svc, gen, session := newTestService(t)
	gen.analysisText = "analiza"
	gen.imageURI = "data:image/jpeg;base64,AAA="

	_, err := svc.LoadExampleData(session.ID)
	require.NoError(t, err)
	_, err = svc.SubmitAnalysis(context.Background(), session.ID)
	require.NoError(t, err)

	// Empty request prompt falls back to the derived one.
	resp, err := svc.SubmitImage(context.Background(), session.ID, "")
	require.NoError(t, err)
	assert.Equal(t, gen.imageURI, resp.ImageDataURI)
}

func TestSubmitChatEmptyIsSilentNoOp(t *testing.T) {
	svc, gen, session := newTestService(t)

	msg, err := svc.SubmitChat(context.Background(), session.ID, "   ")
	require.NoError(t, err)
	assert.Nil(t, msg)
	assert.Zero(t, gen.callCount("chat"))

	got, _ := svc.GetSession(session.ID)
	assert.Empty(t, got.Messages)
}

func TestSubmitChatAppendsBothMessages(t *testing.T) {
	svc, gen, session := newTestService(t)
	gen.chatReply = "Perun je bog groma."

	msg, err := svc.SubmitChat(context.Background(), session.ID, "Tko je Perun?")
	require.NoError(t, err)
	require.NotNil(t, msg)
	assert.Equal(t, model.RoleAssistant, msg.Role)
	assert.Equal(t, gen.chatReply, msg.Content)

	got, _ := svc.GetSession(session.ID)
	require.Len(t, got.Messages, 2)
	assert.Equal(t, model.RoleUser, got.Messages[0].Role)
	assert.Equal(t, "Tko je Perun?", got.Messages[0].Content)
	assert.Equal(t, model.RoleAssistant, got.Messages[1].Role)
	assert.False(t, got.Chat.InProgress)
}

func TestSubmitChatFailureKeepsUserMessage(t *testing.T) {
	svc, gen, session := newTestService(t)
	gen.chatErr = gemini.ErrChatFailed

	_, err := svc.SubmitChat(context.Background(), session.ID, "halo?")
	assert.ErrorIs(t, err, gemini.ErrChatFailed)

	got, _ := svc.GetSession(session.ID)
	require.Len(t, got.Messages, 1)
	assert.Equal(t, model.RoleUser, got.Messages[0].Role)
	assert.Equal(t, gemini.ErrChatFailed.Error(), got.Chat.LastError)
	assert.False(t, got.Chat.InProgress)
}

func TestSubmitSearchPrefixAndGrounding(t *testing.T) {
	svc, gen, session := newTestService(t)
	gen.searchAnswer = gemini.GroundedAnswer{
		Text: "Evo što sam našao.",
		URLs: []string{"https://a.example", "https://b.example"},
	}

	msg, err := svc.SubmitSearch(context.Background(), session.ID, "novosti iz Zagreba")
	require.NoError(t, err)
	require.NotNil(t, msg)
	assert.Equal(t, gen.searchAnswer.URLs, msg.GroundingURLs)

	got, _ := svc.GetSession(session.ID)
	require.Len(t, got.Messages, 2)
	assert.Equal(t, "Search: novosti iz Zagreba", got.Messages[0].Content)
}

func TestSubmitMapsCannedAnswer(t *testing.T) {
	svc, gen, session := newTestService(t)
	gen.mapsAnswer = gemini.GroundedAnswer{Text: "nije podržano", URLs: []string{}}

	msg, err := svc.SubmitMaps(context.Background(), session.ID, "gdje je Split")
	require.NoError(t, err)
	require.NotNil(t, msg)
	assert.Equal(t, "nije podržano", msg.Content)
	assert.Empty(t, msg.GroundingURLs)

	got, _ := svc.GetSession(session.ID)
	assert.Equal(t, "Maps: gdje je Split", got.Messages[0].Content)
}

func TestSubmitQuick(t *testing.T) {
	svc, gen, session := newTestService(t)

	// Empty input is a user-visible error here, unlike chat.
	_, err := svc.SubmitQuick(context.Background(), session.ID, "  ")
	assert.ErrorIs(t, err, ErrEmptyQuery)
	assert.Zero(t, gen.callCount("quick"))

	gen.quickAnswer = "42"
	answer, err := svc.SubmitQuick(context.Background(), session.ID, "koliko?")
	require.NoError(t, err)
	assert.Equal(t, "42", answer)

	got, _ := svc.GetSession(session.ID)
	assert.Equal(t, "42", got.QuickAnswer)
	assert.Empty(t, got.Messages, "quick answers never touch the transcript")
	assert.False(t, got.Quick.InProgress)
}

func TestDuplicateTriggerRejected(t *testing.T) {
	svc, gen, session := newTestService(t)

	// Simulate an in-flight chat call.
	stored, err := svc.GetSession(session.ID)
	require.NoError(t, err)
	stored.Chat.InProgress = true
	require.NoError(t, svc.store.UpdateSession(stored))

	_, err = svc.SubmitChat(context.Background(), session.ID, "drugi pokušaj")
	assert.ErrorIs(t, err, ErrOperationInFlight)
	assert.Zero(t, gen.callCount("chat"))
}

func TestDeleteSessionDropsChatHandle(t *testing.T) {
	svc, gen, session := newTestService(t)

	require.NoError(t, svc.DeleteSession(session.ID))
	assert.True(t, gen.dropped[session.ID])

	_, err := svc.GetSession(session.ID)
	assert.ErrorIs(t, err, storage.ErrSessionNotFound)
}
