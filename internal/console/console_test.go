package console

import (
	"bytes"
	"strings"
	"testing"

	"github.com/katakuxiko/pdfchat/internal/page"
)

func testDocument(t *testing.T) *page.Document {
	t.Helper()
	tabs, err := page.NewTabs(
		[]page.Panel{{ID: "chat", Visible: true}, {ID: "upload"}},
		[]page.Button{{Label: "Chat", Target: "chat"}, {Label: "Upload", Target: "upload"}},
	)
	if err != nil {
		t.Fatal(err)
	}
	return page.NewDocument("", tabs)
}

func TestScreenShowsTranscriptOnChatTab(t *testing.T) {
	doc := testDocument(t)
	doc.Transcript.AppendExchange("Hi", "Hello")
	contents := map[string]string{"chat": page.ContentChat, "upload": page.ContentUpload}

	out := Screen(doc, contents)
	for _, want := range []string{"Chat", "Upload", "Hi", "Hello"} {
		if !strings.Contains(out, want) {
			t.Errorf("screen missing %q:\n%s", want, out)
		}
	}

	if err := doc.Tabs.Click("upload"); err != nil {
		t.Fatal(err)
	}
	out = Screen(doc, contents)
	if strings.Contains(out, "Hello") {
		t.Error("transcript should be hidden on the upload tab")
	}
	if !strings.Contains(out, "/upload PATH") {
		t.Errorf("expected upload hint:\n%s", out)
	}
}

func TestTranscriptOrder(t *testing.T) {
	doc := testDocument(t)
	doc.Transcript.AppendExchange("one", "1")
	doc.Transcript.AppendExchange("two", "2")

	out := Transcript(doc.Transcript)
	if strings.Index(out, "one") > strings.Index(out, "two") {
		t.Errorf("exchanges out of order:\n%s", out)
	}
}

func TestNotifier(t *testing.T) {
	var buf bytes.Buffer
	n := NewNotifier(&buf)
	n.Notify(page.NoticeSelectPDF)
	if !strings.Contains(buf.String(), page.NoticeSelectPDF) {
		t.Errorf("notice = %q", buf.String())
	}
	if strings.Count(buf.String(), "\n") != 1 {
		t.Errorf("expected one line, got %q", buf.String())
	}
}
