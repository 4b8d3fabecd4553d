package reports

import (
	"bytes"
	"fmt"
	"html/template"
	"strings"
	"unicode"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer/html"

	"herdboard/internal/dom"
)

// NotesSectionClass marks the rendered notes section in a dashboard page
const NotesSectionClass = "dashboard-notes"

// HTMLBuilder handles markdown conversion and the snapshot index page
type HTMLBuilder struct {
	goldmark goldmark.Markdown
	index    *template.Template
}

// NewHTMLBuilder creates an HTML builder
func NewHTMLBuilder() *HTMLBuilder {
	md := goldmark.New(
		goldmark.WithExtensions(extension.GFM),
		goldmark.WithParserOptions(
			parser.WithAutoHeadingID(),
		),
		goldmark.WithRendererOptions(
			html.WithHardWraps(),
		),
	)

	index := template.Must(template.New("index").Funcs(template.FuncMap{
		"title": ToTitleCase,
	}).Parse(snapshotIndexTemplate))

	return &HTMLBuilder{goldmark: md, index: index}
}

// ConvertMarkdownToHTML converts markdown to HTML using goldmark
func (h *HTMLBuilder) ConvertMarkdownToHTML(markdownContent string) (string, error) {
	var buf bytes.Buffer
	if err := h.goldmark.Convert([]byte(markdownContent), &buf); err != nil {
		return "", fmt.Errorf("failed to convert markdown: %w", err)
	}
	return buf.String(), nil
}

// InsertNotes renders markdown and appends it to the page body as a notes section.
// A notes section from an earlier call is replaced.
func (h *HTMLBuilder) InsertNotes(doc *dom.Node, markdownContent string) error {
	if strings.TrimSpace(markdownContent) == "" {
		return nil
	}
	rendered, err := h.ConvertMarkdownToHTML(markdownContent)
	if err != nil {
		return err
	}

	fragment, err := dom.ParseString(`<html><body><section class="` + NotesSectionClass + `">` + rendered + `</section></body></html>`)
	if err != nil {
		return fmt.Errorf("failed to parse notes: %w", err)
	}
	section := fragment.Find(isNotesSection)
	if section == nil {
		return fmt.Errorf("failed to parse notes: section missing")
	}

	body := doc.Find(func(n *dom.Node) bool { return n.Tag() == "body" })
	if body == nil {
		return fmt.Errorf("page has no body")
	}
	if old := body.Find(isNotesSection); old != nil {
		old.Remove()
	}
	body.AppendChild(section)
	return nil
}

func isNotesSection(n *dom.Node) bool {
	class, _ := n.Attr("class")
	return n.Tag() == "section" && class == NotesSectionClass
}

// SnapshotEntry is one line of the snapshot index
type SnapshotEntry struct {
	Tab    string `json:"tab"`
	Path   string `json:"path"`
	Stored string `json:"stored"`
}

// BuildSnapshotIndex renders the list of stored snapshots
func (h *HTMLBuilder) BuildSnapshotIndex(entries []SnapshotEntry) (string, error) {
	var buf bytes.Buffer
	if err := h.index.Execute(&buf, entries); err != nil {
		return "", fmt.Errorf("failed to execute template: %w", err)
	}
	return buf.String(), nil
}

// ToTitleCase converts a string to title case (first letter of each word capitalized)
func ToTitleCase(s string) string {
	words := strings.Fields(strings.ReplaceAll(s, "-", " "))
	for i, word := range words {
		runes := []rune(strings.ToLower(word))
		runes[0] = unicode.ToUpper(runes[0])
		words[i] = string(runes)
	}
	return strings.Join(words, " ")
}

const snapshotIndexTemplate = `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>Dashboard snapshots</title>
</head>
<body>
<h1>Dashboard snapshots</h1>
{{if .}}<ul class="snapshots">
{{range .}}<li><a href="/files/{{.Path}}">{{title .Tab}}</a> <time>{{.Stored}}</time></li>
{{end}}</ul>{{else}}<p>No snapshots stored yet.</p>{{end}}
</body>
</html>
`
