package api

import (
	"context"
	"net"
	"testing"

	"github.com/katakuxiko/pdfchat/internal/client"
	"github.com/katakuxiko/pdfchat/internal/model"
	"github.com/katakuxiko/pdfchat/internal/page"
	"github.com/katakuxiko/pdfchat/internal/pdf/pdftest"
)

// TestControllersAgainstServer drives the page controllers through the Go
// client against a live frontend with CSRF enabled.
func TestControllersAgainstServer(t *testing.T) {
	b := &fakeBackend{answer: model.AskResponse{Answer: "Hello"}}
	cfg := testConfig(t, true)
	app := NewApp(cfg, b, nil)

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	go func() { _ = app.Listener(ln) }()
	defer func() { _ = app.Shutdown() }()

	ctx := context.Background()
	c := client.New("http://" + ln.Addr().String())
	token, err := c.LoadPageToken(ctx)
	if err != nil || token == "" {
		t.Fatalf("LoadPageToken: %q %v", token, err)
	}

	tabs, err := page.TabsFromConfig(cfg.Tabs)
	if err != nil {
		t.Fatal(err)
	}
	doc := page.NewDocument(token, tabs)
	var notices []string
	notify := page.NotifierFunc(func(msg string) { notices = append(notices, msg) })

	doc.SelectFile(&model.SelectedFile{Name: "guide.pdf", Data: pdftest.Minimal(1)})
	if out := page.NewUploadController(c, notify, nil).Submit(ctx, doc); out.Kind != page.OutcomeDone {
		t.Fatalf("upload outcome = %v (%v)", out.Kind, out.Err)
	}
	if len(notices) != 1 || notices[0] != page.NoticeUploadComplete {
		t.Errorf("notices = %v", notices)
	}

	doc.SetQuestion("Hi")
	if out := page.NewChatController(c, notify, nil).Submit(ctx, doc); out.Kind != page.OutcomeDone {
		t.Fatalf("ask outcome = %v (%v)", out.Kind, out.Err)
	}
	if got := doc.Transcript.Text(); got != "You: Hi\nBot: Hello\n\n" {
		t.Errorf("transcript = %q", got)
	}
	if indexed, questions := b.seen(); len(indexed) != 1 || len(questions) != 1 {
		t.Errorf("backend saw indexed=%v questions=%v", indexed, questions)
	}
}
