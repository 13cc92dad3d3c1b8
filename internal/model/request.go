package model

type CreateSessionRequest struct {
	Title string `json:"title"`
}

type SetFieldRequest struct {
	Person string `json:"person" binding:"required"`
	Field  string `json:"field" binding:"required"`
	Value  string `json:"value"`
}

type ImageRequest struct {
	Prompt string `json:"prompt"`
}

type ChatRequest struct {
	Message string `json:"message"`
}

type QueryRequest struct {
	Query string `json:"query"`
}
