package provider

import (
	"context"

	"github.com/felixgeelhaar/recall/internal/memory"
)

// OutputFormat is the response format version requested from the Memory Store.
const OutputFormat = "v1.1"

// Message is a single chat message submitted for memory extraction.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Provider is a Memory Store backend.
type Provider interface {
	// Add submits text as a single user message and returns what the
	// server extracted from it, in server order.
	Add(ctx context.Context, text string) ([]memory.Extraction, error)

	// Search returns the stored memories matching query, in server order.
	Search(ctx context.Context, query string) ([]memory.Memory, error)

	// Name returns the provider identifier (e.g. "mem0", "stub").
	Name() string
}
