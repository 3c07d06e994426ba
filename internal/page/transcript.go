package page

import (
	"html"
	"strings"
	"sync"
)

// Speaker identifies who a transcript line belongs to.
type Speaker string

const (
	SpeakerUser Speaker = "You"
	SpeakerBot  Speaker = "Bot"
)

// Line is one transcript line. Text is stored raw and escaped on render.
type Line struct {
	Speaker Speaker
	Text    string
}

// Transcript is the append-only record of question/answer exchanges. It is
// safe for concurrent use since overlapping asks may complete in any order.
type Transcript struct {
	mu    sync.RWMutex
	lines []Line
}

func NewTranscript() *Transcript {
	return &Transcript{}
}

// AppendExchange adds "You: <question>\n" followed by "Bot: <reply>\n\n".
func (t *Transcript) AppendExchange(question, reply string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.lines = append(t.lines,
		Line{Speaker: SpeakerUser, Text: question},
		Line{Speaker: SpeakerBot, Text: reply},
	)
}

// Lines returns a copy of the transcript lines.
func (t *Transcript) Lines() []Line {
	t.mu.RLock()
	defer t.mu.RUnlock()
	out := make([]Line, len(t.lines))
	copy(out, t.lines)
	return out
}

func (t *Transcript) Len() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.lines)
}

// Text renders the transcript as plain text, the way it reads in the chatbox.
func (t *Transcript) Text() string {
	return t.render(func(s string) string { return s })
}

// HTML renders the transcript with every user or server supplied character
// escaped, for insertion into a <pre> element.
func (t *Transcript) HTML() string {
	return t.render(html.EscapeString)
}

func (t *Transcript) render(escape func(string) string) string {
	t.mu.RLock()
	defer t.mu.RUnlock()
	var b strings.Builder
	for _, l := range t.lines {
		b.WriteString(string(l.Speaker))
		b.WriteString(": ")
		b.WriteString(escape(l.Text))
		b.WriteString("\n")
		if l.Speaker == SpeakerBot {
			b.WriteString("\n")
		}
	}
	return b.String()
}
