package core

import "context"

// AIProvider is a chat completion backend.
type AIProvider interface {
	Chat(ctx context.Context, history []Message) (Message, error)
}

// Generator turns a prompt into an answer.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// Embedder maps text to fixed-dimension vectors.
type Embedder interface {
	EncodeQuery(ctx context.Context, text string) ([]float32, error)
	EncodePassage(ctx context.Context, text string) ([]float32, error)
	Dims() int
}

// Fetcher retrieves the raw text behind a URL.
type Fetcher interface {
	Fetch(ctx context.Context, url string) (string, error)
}

// Display renders one turn. Fire-and-forget.
type Display interface {
	Display(sender, message string)
}

// DisplayFunc adapts a function to Display.
type DisplayFunc func(sender, message string)

func (f DisplayFunc) Display(sender, message string) { f(sender, message) }
