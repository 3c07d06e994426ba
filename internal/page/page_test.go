package page

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/katakuxiko/pdfchat/internal/config"
)

func TestTabsClickShowsExactlyOne(t *testing.T) {
	// Start from a state where several panels are visible.
	tabs, err := NewTabs(
		[]Panel{{ID: "panelA", Visible: true}, {ID: "panelB"}, {ID: "panelC", Visible: true}},
		[]Button{{Target: "panelA"}, {Target: "panelB"}, {Target: "panelC"}},
	)
	if err != nil {
		t.Fatal(err)
	}

	if err := tabs.Click("panelB"); err != nil {
		t.Fatalf("Click: %v", err)
	}
	visible := tabs.Visible()
	if len(visible) != 1 || visible[0] != "panelB" {
		t.Errorf("visible = %v", visible)
	}

	if err := tabs.ClickButton(2); err != nil {
		t.Fatalf("ClickButton: %v", err)
	}
	if !tabs.IsVisible("panelC") || tabs.IsVisible("panelB") {
		t.Errorf("visible = %v", tabs.Visible())
	}
}

func TestTabsUnknownTargetLeavesState(t *testing.T) {
	tabs, _ := NewTabs([]Panel{{ID: "a", Visible: true}, {ID: "b"}}, nil)
	if err := tabs.Click("zzz"); !errors.Is(err, ErrUnknownPanel) {
		t.Fatalf("expected ErrUnknownPanel, got %v", err)
	}
	if v := tabs.Visible(); len(v) != 1 || v[0] != "a" {
		t.Errorf("state changed: %v", v)
	}
	if err := tabs.ClickButton(0); err == nil {
		t.Error("expected out of range error")
	}
}

func TestNewTabsValidation(t *testing.T) {
	if _, err := NewTabs([]Panel{{ID: "a"}, {ID: "a"}}, nil); err == nil {
		t.Error("duplicate panel should fail")
	}
	_, err := NewTabs([]Panel{{ID: "a"}}, []Button{{Label: "x", Target: "b"}})
	if !errors.Is(err, ErrUnknownPanel) {
		t.Errorf("expected ErrUnknownPanel, got %v", err)
	}
}

func TestTranscriptEscapesHTML(t *testing.T) {
	tr := NewTranscript()
	tr.AppendExchange(`<img src=x onerror="alert(1)">`, "a & b")

	if got := tr.Text(); got != "You: <img src=x onerror=\"alert(1)\">\nBot: a & b\n\n" {
		t.Errorf("text = %q", got)
	}
	html := tr.HTML()
	if strings.Contains(html, "<img") {
		t.Errorf("markup must be escaped: %q", html)
	}
	if !strings.Contains(html, "&lt;img src=x onerror=&#34;alert(1)&#34;&gt;") || !strings.Contains(html, "a &amp; b") {
		t.Errorf("html = %q", html)
	}
}

func TestTabsFromConfig(t *testing.T) {
	cfg := config.DefaultConfig()
	tabs, err := TabsFromConfig(cfg.Tabs)
	if err != nil {
		t.Fatalf("TabsFromConfig: %v", err)
	}
	if v := tabs.Visible(); len(v) != 1 || v[0] != "panel-chat" {
		t.Errorf("visible = %v", v)
	}
	contents := ContentsFromConfig(cfg.Tabs)
	if contents["panel-upload"] != ContentUpload {
		t.Errorf("contents = %v", contents)
	}
}

func TestRenderPage(t *testing.T) {
	tabs, err := TabsFromConfig(config.DefaultConfig().Tabs)
	if err != nil {
		t.Fatal(err)
	}
	doc := NewDocument(`tok"en`, tabs)
	doc.Transcript.AppendExchange("<b>hi</b>", "ok")

	var buf bytes.Buffer
	if err := Render(&buf, NewView(doc, ContentsFromConfig(config.DefaultConfig().Tabs))); err != nil {
		t.Fatalf("Render: %v", err)
	}
	out := buf.String()

	for _, want := range []string{
		`name="csrfmiddlewaretoken" value="tok&#34;en"`,
		`id="taskbar"`,
		`data-target="panel-chat"`,
		`data-target="panel-upload"`,
		`id="panel-chat" class="tab-content" style="display: block"`,
		`id="panel-upload" class="tab-content" style="display: none"`,
		`id="upload-form"`,
		`id="pdf-file"`,
		`id="chat-form"`,
		`id="question"`,
		`id="chatbox"`,
		"You: &lt;b&gt;hi&lt;/b&gt;",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("rendered page missing %q", want)
		}
	}
	if strings.Contains(out, "<b>hi</b>") {
		t.Error("transcript must be escaped")
	}
}

func TestRenderPanels(t *testing.T) {
	tabs, _ := NewTabs([]Panel{{ID: "a"}, {ID: "b", Visible: true}}, nil)
	styles := RenderPanels(tabs)
	if styles["a"] != "display: none" || styles["b"] != "display: block" {
		t.Errorf("styles = %v", styles)
	}
}
