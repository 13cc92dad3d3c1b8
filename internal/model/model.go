package model

import (
	"maps"
	"slices"
	"time"
)

// Person identifies which half of the pair a field belongs to.
const (
	PersonA = "a"
	PersonB = "b"
)

// Field names accepted by the set-field operation.
const (
	FieldName       = "name"
	FieldBirthDate  = "birth_date"
	FieldBirthTime  = "birth_time"
	FieldBirthPlace = "birth_place"
)

// Chat roles.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Tabs of the hosting UI; the backend tracks which one is active so the
// client can restore its view from a state snapshot.
const (
	TabInput   = "input"
	TabResults = "results"
)

// BirthRecord holds one person's birth data exactly as entered. The birth
// date and time stay strings; the provider is trusted to derive the chart
// positions from the raw values.
type BirthRecord struct {
	Name       string `json:"name"`
	BirthDate  string `json:"birth_date"`
	BirthTime  string `json:"birth_time"`
	BirthPlace string `json:"birth_place"`
}

// FieldErrors maps a field name to its validation message. A field appears
// only while its most recent validation failed; editing the field removes
// the entry.
type FieldErrors map[string]string

// ChatMessage is one transcript entry. Entries are append-only and never
// mutated once added.
type ChatMessage struct {
	ID            string    `json:"id"`
	Role          string    `json:"role"`
	Content       string    `json:"content"`
	GroundingURLs []string  `json:"grounding_urls,omitempty"`
	Timestamp     time.Time `json:"timestamp"`
}

// OperationState tracks one asynchronous operation kind for a session.
type OperationState struct {
	InProgress bool   `json:"in_progress"`
	LastError  string `json:"last_error,omitempty"`
}

// Session is the full state of one browser session: both birth records,
// their validation errors, every operation's output slot and the chat
// transcript. Nothing here survives the session.
type Session struct {
	ID    string `json:"id"`
	Title string `json:"title"`

	PersonA BirthRecord `json:"person_a"`
	PersonB BirthRecord `json:"person_b"`
	ErrorsA FieldErrors `json:"errors_a"`
	ErrorsB FieldErrors `json:"errors_b"`

	AnalysisText string `json:"analysis_text"`
	AnalysisHTML string `json:"analysis_html"`

	ImagePrompt  string `json:"image_prompt"`
	ImageDataURI string `json:"image_data_uri,omitempty"`

	Messages []ChatMessage `json:"messages"`

	QuickAnswer string `json:"quick_answer"`

	Analysis OperationState `json:"analysis"`
	Image    OperationState `json:"image"`
	Chat     OperationState `json:"chat"`
	Quick    OperationState `json:"quick"`

	ActiveTab string `json:"active_tab"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Clone returns a deep copy. The storage layer only ever hands copies
// across its boundary, so a session being marshaled into a response never
// shares maps or slices with one being mutated by another request.
func (s *Session) Clone() *Session {
	c := *s
	c.ErrorsA = maps.Clone(s.ErrorsA)
	c.ErrorsB = maps.Clone(s.ErrorsB)
	if s.Messages != nil {
		c.Messages = make([]ChatMessage, len(s.Messages))
		for i, m := range s.Messages {
			m.GroundingURLs = slices.Clone(m.GroundingURLs)
			c.Messages[i] = m
		}
	}
	return &c
}
