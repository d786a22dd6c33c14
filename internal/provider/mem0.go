package provider

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.opentelemetry.io/otel/attribute"

	"github.com/felixgeelhaar/recall/internal/memory"
	"github.com/felixgeelhaar/recall/internal/observe"
)

// DefaultBaseURL is the hosted Mem0 API.
const DefaultBaseURL = "https://api.mem0.ai"

const (
	addPath    = "/v1/memories/"
	searchPath = "/v1/memories/search/"
)

// Mem0Config configures a Mem0Provider.
type Mem0Config struct {
	APIKey  string
	BaseURL string
	UserID  string
	Timeout time.Duration
}

// Mem0Provider talks to a Mem0 compatible Memory Store over HTTP.
type Mem0Provider struct {
	apiKey  string
	baseURL string
	userID  string
	client  *http.Client
	obs     *observe.Observer
}

func NewMem0Provider(cfg Mem0Config, obs *observe.Observer) (*Mem0Provider, error) {
	if cfg.APIKey == "" {
		return nil, errors.New("API key is required")
	}
	if cfg.UserID == "" {
		return nil, errors.New("user id is required")
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if obs == nil {
		obs = observe.Discard()
	}

	return &Mem0Provider{
		apiKey:  cfg.APIKey,
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		userID:  cfg.UserID,
		client:  &http.Client{Timeout: cfg.Timeout},
		obs:     obs,
	}, nil
}

func (p *Mem0Provider) Name() string {
	return "mem0"
}

type addRequest struct {
	Messages     []Message `json:"messages"`
	UserID       string    `json:"user_id"`
	OutputFormat string    `json:"output_format"`
}

type addResponse struct {
	Results []memory.Extraction `json:"results"`
}

type searchRequest struct {
	Query        string `json:"query"`
	UserID       string `json:"user_id"`
	OutputFormat string `json:"output_format"`
}

type searchResponse struct {
	Results *[]memory.Memory `json:"results"`
}

func (p *Mem0Provider) Add(ctx context.Context, text string) (res []memory.Extraction, err error) {
	ctx, span := p.obs.StartSpan(ctx, "memstore.add", attribute.String("memstore.user_id", p.userID))
	defer func() {
		span.SetAttributes(attribute.Int("memstore.results", len(res)))
		p.obs.EndSpan(span, err)
	}()

	reqBody := addRequest{
		Messages:     []Message{{Role: "user", Content: text}},
		UserID:       p.userID,
		OutputFormat: OutputFormat,
	}

	body, err := p.post(ctx, "add", addPath, reqBody)
	if err != nil {
		return nil, err
	}

	var out addResponse
	if err := json.Unmarshal(body, &out); err != nil {
		return nil, fmt.Errorf("add: %w: %v", memory.ErrMalformedResponse, err)
	}
	if out.Results == nil {
		// Nothing extracted is a valid outcome.
		return []memory.Extraction{}, nil
	}
	return out.Results, nil
}

func (p *Mem0Provider) Search(ctx context.Context, query string) (res []memory.Memory, err error) {
	ctx, span := p.obs.StartSpan(ctx, "memstore.search", attribute.String("memstore.user_id", p.userID))
	defer func() {
		span.SetAttributes(attribute.Int("memstore.results", len(res)))
		p.obs.EndSpan(span, err)
	}()

	reqBody := searchRequest{
		Query:        query,
		UserID:       p.userID,
		OutputFormat: OutputFormat,
	}

	body, err := p.post(ctx, "search", searchPath, reqBody)
	if err != nil {
		return nil, err
	}

	var out searchResponse
	if err := json.Unmarshal(body, &out); err != nil {
		return nil, fmt.Errorf("search: %w: %v", memory.ErrMalformedResponse, err)
	}
	if out.Results == nil {
		return nil, fmt.Errorf("search: %w: missing results", memory.ErrMalformedResponse)
	}
	return *out.Results, nil
}

// post sends payload as JSON and returns the body of a 2xx response.
// Non-2xx bodies are never read.
func (p *Mem0Provider) post(ctx context.Context, op, path string, payload any) ([]byte, error) {
	jsonBody, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to marshal request: %w", op, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.baseURL+path, bytes.NewReader(jsonBody))
	if err != nil {
		return nil, fmt.Errorf("%s: failed to build request: %w", op, err)
	}
	req.Header.Set("Authorization", "Token "+p.apiKey)
	req.Header.Set("Content-Type", "application/json")

	start := time.Now()
	resp, err := p.client.Do(req)
	if err != nil {
		p.obs.Log().Warn().Str("op", op).Err(err).Msg("memory store unreachable")
		return nil, &memory.NetworkError{Op: op, Err: err}
	}
	defer resp.Body.Close()

	p.obs.Log().Debug().
		Str("op", op).
		Int("status", resp.StatusCode).
		Int("elapsed_ms", int(time.Since(start).Milliseconds())).
		Msg("memory store responded")

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &memory.UpstreamError{Op: op, StatusCode: resp.StatusCode}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &memory.NetworkError{Op: op, Err: err}
	}
	return body, nil
}
