package provider

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/felixgeelhaar/recall/internal/memory"
)

// StubProvider is an in-process Memory Store for tests.
// Added text is echoed back unmodified as a stored memory, and Search
// returns stored memories containing the query, oldest first.
type StubProvider struct {
	mu sync.Mutex

	// Extractions, when set, is returned by Add instead of echoing the text.
	Extractions []memory.Extraction
	// Err, when set, is returned by every call.
	Err error

	Added    []string
	Queries  []string
	memories []memory.Memory
}

func NewStubProvider(seed ...memory.Memory) *StubProvider {
	return &StubProvider{memories: append([]memory.Memory(nil), seed...)}
}

func (s *StubProvider) Add(ctx context.Context, text string) ([]memory.Extraction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.Added = append(s.Added, text)
	if s.Err != nil {
		return nil, s.Err
	}

	s.memories = append(s.memories, memory.Memory{
		ID:           fmt.Sprintf("stub-%d", len(s.memories)+1),
		Text:         text,
		OriginUserID: "stub",
	})
	if s.Extractions != nil {
		return append([]memory.Extraction(nil), s.Extractions...), nil
	}
	return []memory.Extraction{{Text: text, Event: memory.EventAdd}}, nil
}

func (s *StubProvider) Search(ctx context.Context, query string) ([]memory.Memory, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.Queries = append(s.Queries, query)
	if s.Err != nil {
		return nil, s.Err
	}

	needle := strings.ToLower(query)
	results := []memory.Memory{}
	for _, m := range s.memories {
		if strings.Contains(strings.ToLower(m.Text), needle) {
			results = append(results, m)
		}
	}
	return results, nil
}

func (s *StubProvider) Name() string {
	return "stub"
}
