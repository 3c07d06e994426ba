package model

import "encoding/json"

// SelectedFile is a user-chosen file that lives for the duration of one upload.
type SelectedFile struct {
	Name string
	Data []byte
}

// AskRequest is the body of POST /chatbot/ask/.
type AskRequest struct {
	Question string `json:"question"`
}

// AskResponse carries either an answer or a server-reported error.
// StatusCode is the HTTP status the reply arrived with; it is not encoded.
type AskResponse struct {
	Answer     string `json:"answer,omitempty"`
	Error      string `json:"error,omitempty"`
	StatusCode int    `json:"-"`
}

// Reply is the text shown after "Bot: " in the transcript.
func (r AskResponse) Reply() string {
	if r.Answer != "" {
		return r.Answer
	}
	msg := r.Error
	if msg == "" {
		msg = "no answer"
	}
	return "Error: " + msg
}

// UploadResult is the decoded body of an upload response. Its contents are
// not interpreted by the upload controller.
type UploadResult struct {
	StatusCode int
	Body       json.RawMessage
}

// UploadResponse is what the frontend returns for a spooled and relayed PDF.
type UploadResponse struct {
	Status   string          `json:"status"`
	Name     string          `json:"name"`
	Pages    int             `json:"pages"`
	Backend  json.RawMessage `json:"backend,omitempty"`
	Warnings []string        `json:"warnings,omitempty"`
}
