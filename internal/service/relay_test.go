package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/katakuxiko/pdfchat/internal/client"
	"github.com/katakuxiko/pdfchat/internal/config"
	"github.com/katakuxiko/pdfchat/internal/model"
)

func newUpstream(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc(client.UploadPath, func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get(client.CSRFHeader) != "up-token" {
			w.WriteHeader(http.StatusForbidden)
			_, _ = w.Write([]byte(`{"error":"csrf"}`))
			return
		}
		_, hdr, err := r.FormFile("pdf")
		if err != nil {
			w.WriteHeader(http.StatusBadRequest)
			_, _ = w.Write([]byte(`{"error":"no file"}`))
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]string{"status": "success", "name": hdr.Filename})
	})
	mux.HandleFunc(client.AskPath, func(w http.ResponseWriter, r *http.Request) {
		var req model.AskRequest
		_ = json.NewDecoder(r.Body).Decode(&req)
		if req.Question == "boom" {
			w.WriteHeader(http.StatusInternalServerError)
			_ = json.NewEncoder(w).Encode(model.AskResponse{Error: "model unavailable"})
			return
		}
		_ = json.NewEncoder(w).Encode(model.AskResponse{Answer: "echo: " + req.Question})
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func TestRelayBackend(t *testing.T) {
	up := newUpstream(t)
	b := NewBackend(config.BackendConfig{URL: up.URL, CSRFToken: "up-token", Timeout: 5 * time.Second}, nil)

	raw, err := b.Index(context.Background(), "guide.pdf", []byte("%PDF-1.4"))
	if err != nil {
		t.Fatalf("Index: %v", err)
	}
	var body map[string]string
	if err := json.Unmarshal(raw, &body); err != nil || body["name"] != "guide.pdf" {
		t.Errorf("index reply = %s (%v)", raw, err)
	}

	resp, err := b.Ask(context.Background(), "hello")
	if err != nil {
		t.Fatalf("Ask: %v", err)
	}
	if resp.Answer != "echo: hello" {
		t.Errorf("answer = %q", resp.Answer)
	}

	resp, err = b.Ask(context.Background(), "boom")
	if err != nil {
		t.Fatalf("Ask: %v", err)
	}
	if resp.Error != "model unavailable" || resp.StatusCode != http.StatusInternalServerError {
		t.Errorf("reply = %+v", resp)
	}
}

func TestRelayBackendReloadsRejectedToken(t *testing.T) {
	var loads atomic.Int32
	mux := http.NewServeMux()
	mux.HandleFunc(client.PagePath, func(w http.ResponseWriter, r *http.Request) {
		n := loads.Add(1)
		fmt.Fprintf(w, `<input type="hidden" name="csrfmiddlewaretoken" value="tok%d">`, n)
	})
	mux.HandleFunc(client.AskPath, func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get(client.CSRFHeader) != "tok2" {
			w.WriteHeader(http.StatusForbidden)
			_, _ = w.Write([]byte(`{"error":"CSRF token missing or incorrect"}`))
			return
		}
		_ = json.NewEncoder(w).Encode(model.AskResponse{Answer: "ok"})
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	b := NewBackend(config.BackendConfig{URL: srv.URL}, nil)
	for i := 0; i < 2; i++ {
		resp, err := b.Ask(context.Background(), "q")
		if err != nil {
			t.Fatalf("Ask: %v", err)
		}
		if resp.Answer != "ok" {
			t.Errorf("ask %d: reply = %+v", i, resp)
		}
	}
	if n := loads.Load(); n != 2 {
		t.Errorf("page loads = %d, want 2", n)
	}
}

func TestRelayBackendFixedTokenNoReload(t *testing.T) {
	var asks atomic.Int32
	mux := http.NewServeMux()
	mux.HandleFunc(client.PagePath, func(w http.ResponseWriter, r *http.Request) {
		t.Error("page must not be loaded when a token is configured")
	})
	mux.HandleFunc(client.AskPath, func(w http.ResponseWriter, r *http.Request) {
		asks.Add(1)
		w.WriteHeader(http.StatusForbidden)
		_, _ = w.Write([]byte(`{"error":"csrf"}`))
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	b := NewBackend(config.BackendConfig{URL: srv.URL, CSRFToken: "wrong"}, nil)
	resp, err := b.Ask(context.Background(), "q")
	if err != nil {
		t.Fatalf("Ask: %v", err)
	}
	if resp.StatusCode != http.StatusForbidden || asks.Load() != 1 {
		t.Errorf("reply = %+v after %d asks", resp, asks.Load())
	}
}

func TestRelayBackendUnreachable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	b := NewBackend(config.BackendConfig{URL: url}, nil)
	if _, err := b.Ask(context.Background(), "x"); !errors.Is(err, client.ErrTransport) {
		t.Errorf("expected transport error, got %v", err)
	}
}

func TestUnconfiguredBackend(t *testing.T) {
	b := NewBackend(config.BackendConfig{}, nil)
	if _, err := b.Ask(context.Background(), "x"); !errors.Is(err, ErrNoBackend) {
		t.Errorf("expected ErrNoBackend, got %v", err)
	}
	if _, err := b.Index(context.Background(), "a.pdf", nil); !errors.Is(err, ErrNoBackend) {
		t.Errorf("expected ErrNoBackend, got %v", err)
	}
}
