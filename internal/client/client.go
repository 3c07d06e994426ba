// Package client talks to the chatbot upload and ask endpoints.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"html"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/cookiejar"
	"regexp"
	"strings"
	"time"

	"github.com/katakuxiko/pdfchat/internal/model"
	"github.com/katakuxiko/pdfchat/internal/util"
)

const (
	PagePath   = "/chatbot/"
	UploadPath = "/chatbot/upload/"
	AskPath    = "/chatbot/ask/"

	// CSRFHeader carries the page's csrfmiddlewaretoken value.
	CSRFHeader = "X-CSRFToken"
	// UploadField is the multipart field holding the PDF.
	UploadField = "pdf"

	// maxResponseBytes bounds how much of a response body is read.
	maxResponseBytes = 8 << 20
)

var tokenPattern = regexp.MustCompile(`name="csrfmiddlewaretoken"\s+value="([^"]*)"`)

// Client sends uploads and questions to a chatbot server.
type Client struct {
	baseURL string
	http    *http.Client
	log     *slog.Logger
}

type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// WithTimeout sets a per-request timeout. Zero means no timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		hc := *c.http
		hc.Timeout = d
		c.http = &hc
	}
}

func WithLogger(l *slog.Logger) Option {
	return func(c *Client) { c.log = l }
}

// New creates a client for the server at baseURL, e.g. http://localhost:8080.
func New(baseURL string, opts ...Option) *Client {
	// cookiejar.New never fails with nil options.
	jar, _ := cookiejar.New(nil)
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Jar: jar},
		log:     util.Discard(),
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// BaseURL returns the server address the client was built with.
func (c *Client) BaseURL() string { return c.baseURL }

// LoadPageToken fetches the chat page, keeping its cookies, and returns the
// csrfmiddlewaretoken value. A page without the field yields "".
func (c *Client) LoadPageToken(ctx context.Context) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+PagePath, nil)
	if err != nil {
		return "", fmt.Errorf("creating page request: %w", err)
	}
	status, raw, err := c.do(req)
	if err != nil {
		return "", err
	}
	if status != http.StatusOK {
		return "", fmt.Errorf("loading chat page: unexpected status %d", status)
	}
	m := tokenPattern.FindSubmatch(raw)
	if m == nil {
		return "", nil
	}
	return html.UnescapeString(string(m[1])), nil
}

// Upload sends file as multipart field "pdf". The CSRF header is always set,
// even when csrfToken is empty. Any JSON response counts as a completed
// exchange regardless of its status code.
func (c *Client) Upload(ctx context.Context, file model.SelectedFile, csrfToken string) (*model.UploadResult, error) {
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	part, err := mw.CreateFormFile(UploadField, file.Name)
	if err != nil {
		return nil, fmt.Errorf("building multipart body: %w", err)
	}
	if _, err := part.Write(file.Data); err != nil {
		return nil, fmt.Errorf("building multipart body: %w", err)
	}
	if err := mw.Close(); err != nil {
		return nil, fmt.Errorf("building multipart body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+UploadPath, &body)
	if err != nil {
		return nil, fmt.Errorf("creating upload request: %w", err)
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set(CSRFHeader, csrfToken)

	status, raw, err := c.do(req)
	if err != nil {
		return nil, err
	}
	if !json.Valid(raw) {
		return nil, &DecodeError{StatusCode: status, Body: util.TruncateRunes(string(raw), 200)}
	}

	c.log.Debug("upload finished", "file", file.Name, "bytes", len(file.Data), "status", status)
	return &model.UploadResult{StatusCode: status, Body: json.RawMessage(raw)}, nil
}

// Ask posts {"question": question} and decodes the answer or error reply.
func (c *Client) Ask(ctx context.Context, question, csrfToken string) (*model.AskResponse, error) {
	payload, err := json.Marshal(model.AskRequest{Question: question})
	if err != nil {
		return nil, fmt.Errorf("encoding question: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+AskPath, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("creating ask request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(CSRFHeader, csrfToken)

	status, raw, err := c.do(req)
	if err != nil {
		return nil, err
	}

	var resp model.AskResponse
	if err := json.Unmarshal(raw, &resp); err != nil {
		return nil, &DecodeError{StatusCode: status, Body: util.TruncateRunes(string(raw), 200), Err: err}
	}
	resp.StatusCode = status

	c.log.Debug("ask finished", "question", util.TruncateRunes(question, 80), "status", status)
	return &resp, nil
}

func (c *Client) do(req *http.Request) (int, []byte, error) {
	resp, err := c.http.Do(req)
	if err != nil {
		return 0, nil, fmt.Errorf("%w: %s %s: %w", ErrTransport, req.Method, req.URL.Path, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return resp.StatusCode, nil, fmt.Errorf("%w: reading response: %w", ErrTransport, err)
	}
	return resp.StatusCode, raw, nil
}
