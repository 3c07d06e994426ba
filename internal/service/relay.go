package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"sync"

	"github.com/katakuxiko/pdfchat/internal/client"
	"github.com/katakuxiko/pdfchat/internal/config"
	"github.com/katakuxiko/pdfchat/internal/model"
	"github.com/katakuxiko/pdfchat/internal/util"
)

// ErrNoBackend is returned when no upstream QA service is configured.
var ErrNoBackend = errors.New("no QA backend configured")

// Backend indexes uploaded PDFs and answers questions. The frontend treats it
// as opaque.
type Backend interface {
	Index(ctx context.Context, name string, data []byte) (json.RawMessage, error)
	Ask(ctx context.Context, question string) (*model.AskResponse, error)
}

// RelayBackend forwards requests to an upstream server that speaks the same
// /chatbot/upload/ and /chatbot/ask/ API.
// Without a configured backend.csrf_token the relay loads the upstream chat
// page once, keeps its csrftoken cookie in the client jar and sends the page
// token. A 403 drops the loaded token and the request is sent once more.
type RelayBackend struct {
	up    *client.Client
	fixed bool
	log   *slog.Logger

	mu     sync.Mutex
	token  string
	loaded bool
}

// NewRelayBackend создаёт backend с настройками из config
func NewRelayBackend(cfg config.BackendConfig, log *slog.Logger) *RelayBackend {
	if log == nil {
		log = util.Discard()
	}
	up := client.New(cfg.URL, client.WithTimeout(cfg.Timeout), client.WithLogger(log))
	return &RelayBackend{up: up, fixed: cfg.CSRFToken != "", token: cfg.CSRFToken, log: log}
}

func (b *RelayBackend) csrfToken(ctx context.Context) (string, error) {
	if b.fixed {
		return b.token, nil
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.loaded {
		return b.token, nil
	}
	tok, err := b.up.LoadPageToken(ctx)
	switch {
	case errors.Is(err, client.ErrTransport):
		return "", fmt.Errorf("load upstream page %s: %w", b.up.BaseURL(), err)
	case err != nil:
		b.log.Warn("upstream page unavailable, sending empty csrf token", "url", b.up.BaseURL(), "error", err)
	case tok == "":
		b.log.Warn("upstream page has no csrf token", "url", b.up.BaseURL())
	}
	b.token, b.loaded = tok, true
	return tok, nil
}

// forget drops a loaded token so the next request loads the page again.
// It reports whether a retry makes sense.
func (b *RelayBackend) forget() bool {
	if b.fixed {
		return false
	}
	b.mu.Lock()
	b.loaded = false
	b.mu.Unlock()
	return true
}

// Index relays the PDF upstream and returns the upstream reply unchanged.
func (b *RelayBackend) Index(ctx context.Context, name string, data []byte) (json.RawMessage, error) {
	file := model.SelectedFile{Name: name, Data: data}
	var res *model.UploadResult
	for attempt := 0; ; attempt++ {
		tok, err := b.csrfToken(ctx)
		if err != nil {
			return nil, fmt.Errorf("relay upload: %w", err)
		}
		res, err = b.up.Upload(ctx, file, tok)
		if err != nil {
			return nil, fmt.Errorf("relay upload to %s: %w", b.up.BaseURL(), err)
		}
		if res.StatusCode != http.StatusForbidden || attempt > 0 || !b.forget() {
			break
		}
	}
	if res.StatusCode >= 400 {
		b.log.Warn("upstream rejected upload", "file", name, "status", res.StatusCode)
	}
	return res.Body, nil
}

// Ask relays the question upstream. Upstream errors reported in the body are
// returned as part of the response, not as an error.
func (b *RelayBackend) Ask(ctx context.Context, question string) (*model.AskResponse, error) {
	for attempt := 0; ; attempt++ {
		tok, err := b.csrfToken(ctx)
		if err != nil {
			return nil, fmt.Errorf("relay ask: %w", err)
		}
		resp, err := b.up.Ask(ctx, question, tok)
		if err != nil {
			return nil, fmt.Errorf("relay ask to %s: %w", b.up.BaseURL(), err)
		}
		if resp.StatusCode != http.StatusForbidden || attempt > 0 || !b.forget() {
			return resp, nil
		}
	}
}

// Unconfigured is the backend used when backend.url is empty.
type Unconfigured struct{}

func (Unconfigured) Index(context.Context, string, []byte) (json.RawMessage, error) {
	return nil, ErrNoBackend
}

func (Unconfigured) Ask(context.Context, string) (*model.AskResponse, error) {
	return nil, ErrNoBackend
}

// NewBackend picks the relay or the unconfigured backend from cfg.
func NewBackend(cfg config.BackendConfig, log *slog.Logger) Backend {
	if cfg.URL == "" {
		return Unconfigured{}
	}
	return NewRelayBackend(cfg, log)
}
