package page

import (
	"context"
	"log/slog"

	"github.com/katakuxiko/pdfchat/internal/model"
	"github.com/katakuxiko/pdfchat/internal/util"
)

// User-facing notices.
const (
	NoticeSelectPDF      = "Please select a PDF."
	NoticeUploadComplete = "PDF indexing complete!"
	noticeUploadFailed   = "Upload failed: "
	noticeAskFailed      = "Ask failed: "
)

// Uploader sends a selected file to the upload endpoint.
type Uploader interface {
	Upload(ctx context.Context, file model.SelectedFile, csrfToken string) (*model.UploadResult, error)
}

// Asker sends a question to the ask endpoint.
type Asker interface {
	Ask(ctx context.Context, question, csrfToken string) (*model.AskResponse, error)
}

// Notifier shows a blocking notice to the user.
type Notifier interface {
	Notify(msg string)
}

// NotifierFunc adapts a function to Notifier.
type NotifierFunc func(msg string)

func (f NotifierFunc) Notify(msg string) { f(msg) }

// OutcomeKind classifies the result of a controller call.
type OutcomeKind int

const (
	// OutcomeSkipped: input was missing and nothing was shown or sent.
	OutcomeSkipped OutcomeKind = iota
	// OutcomeRejected: input was missing and the user was told.
	OutcomeRejected
	// OutcomeDone: the server replied with a JSON body.
	OutcomeDone
	// OutcomeFailed: the request could not complete.
	OutcomeFailed
)

func (k OutcomeKind) String() string {
	switch k {
	case OutcomeSkipped:
		return "skipped"
	case OutcomeRejected:
		return "rejected"
	case OutcomeDone:
		return "done"
	case OutcomeFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Outcome is returned by every controller submit.
type Outcome struct {
	Kind OutcomeKind
	Err  error
	// Upload is set for a completed upload.
	Upload *model.UploadResult
	// Answer is set for a completed ask.
	Answer *model.AskResponse
}

// UploadController handles upload form submissions.
type UploadController struct {
	up     Uploader
	notify Notifier
	log    *slog.Logger
}

func NewUploadController(up Uploader, n Notifier, log *slog.Logger) *UploadController {
	if log == nil {
		log = util.Discard()
	}
	return &UploadController{up: up, notify: n, log: log}
}

// Submit uploads the document's selected file. Without a file it shows one
// notice and sends nothing. Any JSON reply produces the completion notice;
// the payload is not inspected.
func (c *UploadController) Submit(ctx context.Context, doc *Document) Outcome {
	token, file, _ := doc.snapshot()
	if file == nil {
		c.notify.Notify(NoticeSelectPDF)
		return Outcome{Kind: OutcomeRejected}
	}

	res, err := c.up.Upload(ctx, *file, token)
	if err != nil {
		c.log.Error("upload error", "file", file.Name, "error", err)
		c.notify.Notify(noticeUploadFailed + err.Error())
		return Outcome{Kind: OutcomeFailed, Err: err}
	}

	c.log.Debug("upload response", "file", file.Name, "status", res.StatusCode, "body", string(res.Body))
	c.notify.Notify(NoticeUploadComplete)
	return Outcome{Kind: OutcomeDone, Upload: res}
}

// ChatController handles chat form submissions.
type ChatController struct {
	ask    Asker
	notify Notifier
	log    *slog.Logger
}

func NewChatController(a Asker, n Notifier, log *slog.Logger) *ChatController {
	if log == nil {
		log = util.Discard()
	}
	return &ChatController{ask: a, notify: n, log: log}
}

// Submit asks the document's current question and appends the exchange to
// the transcript. An empty question is ignored silently. Transport failures
// leave the transcript untouched and are reported through the notifier.
func (c *ChatController) Submit(ctx context.Context, doc *Document) Outcome {
	token, _, question := doc.snapshot()
	if question == "" {
		return Outcome{Kind: OutcomeSkipped}
	}

	resp, err := c.ask.Ask(ctx, question, token)
	if err != nil {
		c.log.Error("ask error", "question", util.TruncateRunes(question, 80), "error", err)
		c.notify.Notify(noticeAskFailed + err.Error())
		return Outcome{Kind: OutcomeFailed, Err: err}
	}

	doc.Transcript.AppendExchange(question, resp.Reply())
	return Outcome{Kind: OutcomeDone, Answer: resp}
}

// TabController routes button clicks to the document's tabs.
type TabController struct {
	log *slog.Logger
}

func NewTabController(log *slog.Logger) *TabController {
	if log == nil {
		log = util.Discard()
	}
	return &TabController{log: log}
}

// Click shows the panel target and hides the rest.
func (c *TabController) Click(doc *Document, target string) error {
	if err := doc.Tabs.Click(target); err != nil {
		c.log.Warn("tab click ignored", "target", target, "error", err)
		return err
	}
	return nil
}
