package ports

import "context"

// ChatRequest is one JSON-mode completion request to the hosted model.
type ChatRequest struct {
	SystemPrompt string
	UserPrompt   string
	Temperature  float64
}

// Contract for requesting structured completions from a hosted language model.
// Implementations must return the raw JSON document produced by the model.
type ChatCompleter interface {
	CompleteJSON(ctx context.Context, req ChatRequest) ([]byte, error)
}

// Contract for converting recorded audio into text.
type Transcriber interface {
	Transcribe(ctx context.Context, audio []byte, contentType string) (string, error)
}
