// Package page models the chat page as plain Go state: the upload and chat
// forms, the CSRF token, the transcript and the tab panels. Controllers act
// on a Document and report an Outcome.
package page

import (
	"sync"

	"github.com/katakuxiko/pdfchat/internal/config"
	"github.com/katakuxiko/pdfchat/internal/model"
)

// Element ids and names shared by the rendered page and the browser scripts.
const (
	UploadFormID   = "upload-form"
	FileInputID    = "pdf-file"
	ChatFormID     = "chat-form"
	QuestionID     = "question"
	ChatboxID      = "chatbox"
	TaskbarID      = "taskbar"
	CSRFFieldName  = "csrfmiddlewaretoken"
	PanelClassName = "tab-content"
)

// UploadForm holds the file input selection.
type UploadForm struct {
	File *model.SelectedFile
}

// ChatForm holds the question input value.
type ChatForm struct {
	Question string
}

// Document is the view model of one page session.
type Document struct {
	mu sync.Mutex
	// CSRFToken is the hidden csrfmiddlewaretoken value, "" when absent.
	CSRFToken  string
	Upload     UploadForm
	Chat       ChatForm
	Transcript *Transcript
	Tabs       *Tabs
}

// NewDocument builds a document with an empty transcript and the given tabs.
func NewDocument(csrfToken string, tabs *Tabs) *Document {
	return &Document{
		CSRFToken:  csrfToken,
		Transcript: NewTranscript(),
		Tabs:       tabs,
	}
}

// TabsFromConfig converts configured tabs into panels and one button each.
func TabsFromConfig(cfg []config.TabConfig) (*Tabs, error) {
	panels := make([]Panel, 0, len(cfg))
	buttons := make([]Button, 0, len(cfg))
	for _, tc := range cfg {
		label := tc.Label
		if label == "" {
			label = tc.ID
		}
		panels = append(panels, Panel{ID: tc.ID, Visible: tc.Visible})
		buttons = append(buttons, Button{Label: label, Target: tc.ID})
	}
	return NewTabs(panels, buttons)
}

// ContentsFromConfig maps each configured panel id to its content kind.
func ContentsFromConfig(cfg []config.TabConfig) map[string]string {
	out := make(map[string]string, len(cfg))
	for _, tc := range cfg {
		if tc.Content != "" {
			out[tc.ID] = tc.Content
		}
	}
	return out
}

// SelectFile sets the upload form's file input.
func (d *Document) SelectFile(f *model.SelectedFile) {
	d.mu.Lock()
	d.Upload.File = f
	d.mu.Unlock()
}

// SetQuestion sets the question input.
func (d *Document) SetQuestion(q string) {
	d.mu.Lock()
	d.Chat.Question = q
	d.mu.Unlock()
}

func (d *Document) snapshot() (string, *model.SelectedFile, string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.CSRFToken, d.Upload.File, d.Chat.Question
}
