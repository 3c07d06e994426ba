// Package console renders the chat page view model to a terminal.
package console

import (
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/charmbracelet/lipgloss"
	"github.com/katakuxiko/pdfchat/internal/page"
)

var (
	activeTab   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("0")).Background(lipgloss.Color("12")).Padding(0, 1)
	inactiveTab = lipgloss.NewStyle().Foreground(lipgloss.Color("8")).Padding(0, 1)
	userLabel   = lipgloss.NewStyle().Foreground(lipgloss.Color("12"))
	botLabel    = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	noticeStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("11")).Bold(true)
	hintStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
)

// TabBar renders one label per button, highlighting the ones whose panel is
// visible.
func TabBar(tabs *page.Tabs) string {
	var parts []string
	for _, b := range tabs.Buttons() {
		label := b.Label
		if label == "" {
			label = b.Target
		}
		if tabs.IsVisible(b.Target) {
			parts = append(parts, activeTab.Render(label))
		} else {
			parts = append(parts, inactiveTab.Render(label))
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, parts...)
}

// Transcript renders transcript lines with colored speaker labels. Text is
// written as-is; terminals do not interpret markup.
func Transcript(t *page.Transcript) string {
	var b strings.Builder
	for _, l := range t.Lines() {
		style := userLabel
		if l.Speaker == page.SpeakerBot {
			style = botLabel
		}
		b.WriteString(style.Render(string(l.Speaker) + ":"))
		b.WriteString(" ")
		b.WriteString(l.Text)
		b.WriteString("\n")
		if l.Speaker == page.SpeakerBot {
			b.WriteString("\n")
		}
	}
	return b.String()
}

// Screen renders the tab bar, then the transcript when the chat panel is
// visible, or a hint for the visible panel otherwise.
func Screen(doc *page.Document, contents map[string]string) string {
	var b strings.Builder
	b.WriteString(TabBar(doc.Tabs))
	b.WriteString("\n\n")
	for _, id := range doc.Tabs.Visible() {
		switch contents[id] {
		case page.ContentChat:
			b.WriteString(Transcript(doc.Transcript))
			b.WriteString(hintStyle.Render("type a question, /upload PATH, /tab ID or /quit"))
		case page.ContentUpload:
			b.WriteString(hintStyle.Render("/upload PATH to send a PDF"))
		default:
			b.WriteString(hintStyle.Render(id))
		}
		b.WriteString("\n")
	}
	return b.String()
}

// Notifier writes notices to w, one per line.
type Notifier struct {
	mu sync.Mutex
	w  io.Writer
}

func NewNotifier(w io.Writer) *Notifier {
	return &Notifier{w: w}
}

func (n *Notifier) Notify(msg string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	fmt.Fprintln(n.w, noticeStyle.Render("! "+msg))
}
