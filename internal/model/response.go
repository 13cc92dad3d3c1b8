package model

import "time"

type SessionResponse struct {
	SessionID    string    `json:"session_id"`
	Title        string    `json:"title"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
	MessageCount int       `json:"message_count"`
}

// ValidationResponse reports a failed submit: one message per bad field
// plus the aggregate notice shown next to the submit control.
type ValidationResponse struct {
	Notice  string      `json:"notice"`
	ErrorsA FieldErrors `json:"errors_a"`
	ErrorsB FieldErrors `json:"errors_b"`
}

type AnalysisResponse struct {
	AnalysisText string `json:"analysis_text"`
	AnalysisHTML string `json:"analysis_html"`
	ImagePrompt  string `json:"image_prompt"`
	ActiveTab    string `json:"active_tab"`
}

type ImageResponse struct {
	ImageDataURI string `json:"image_data_uri"`
}

type ChatResponse struct {
	SessionID string       `json:"session_id"`
	Message   *ChatMessage `json:"message,omitempty"`
}

type QuickResponse struct {
	Answer string `json:"answer"`
}
