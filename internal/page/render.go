package page

import (
	"embed"
	"html/template"
	"io"
)

//go:embed templates/*.html
var templateFS embed.FS

var pageTmpl = template.Must(template.New("chat.html").Funcs(template.FuncMap{
	"transcript": RenderTranscript,
	"display":    displayStyle,
}).ParseFS(templateFS, "templates/chat.html"))

// Panel content kinds.
const (
	ContentChat   = "chat"
	ContentUpload = "upload"
)

// PanelView is one rendered tab panel.
type PanelView struct {
	ID      string
	Label   string
	Visible bool
	Content string
}

// View is everything the chat page template needs.
type View struct {
	Title      string
	CSRFToken  string
	Panels     []PanelView
	Transcript *Transcript
	ScriptBase string
}

// NewView derives the template view from doc. contents maps panel id to a
// content kind; panels without an entry render empty.
func NewView(doc *Document, contents map[string]string) View {
	v := View{
		Title:      "PDF Chat",
		CSRFToken:  doc.CSRFToken,
		Transcript: doc.Transcript,
		ScriptBase: "/static/chatbot",
	}
	buttons := doc.Tabs.Buttons()
	labels := make(map[string]string, len(buttons))
	for _, b := range buttons {
		labels[b.Target] = b.Label
	}
	for _, p := range doc.Tabs.Panels() {
		v.Panels = append(v.Panels, PanelView{
			ID:      p.ID,
			Label:   labels[p.ID],
			Visible: p.Visible,
			Content: contents[p.ID],
		})
	}
	return v
}

// Render writes the chat page.
func Render(w io.Writer, v View) error {
	return pageTmpl.Execute(w, v)
}

// RenderTranscript returns the escaped transcript for the chatbox element.
func RenderTranscript(t *Transcript) template.HTML {
	if t == nil {
		return ""
	}
	return template.HTML(t.HTML())
}

// RenderPanels returns the inline display style for every panel, keyed by id.
func RenderPanels(t *Tabs) map[string]template.CSS {
	out := make(map[string]template.CSS)
	for _, p := range t.Panels() {
		out[p.ID] = displayStyle(p.Visible)
	}
	return out
}

func displayStyle(visible bool) template.CSS {
	if visible {
		return "display: block"
	}
	return "display: none"
}
