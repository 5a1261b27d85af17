package render

import (
	"bytes"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
)

// ShowNotes renders episode descriptions from markdown to HTML. Raw HTML in
// the source stays escaped: the sheet is remote input.
type ShowNotes struct {
	md goldmark.Markdown
}

func NewShowNotes() *ShowNotes {
	md := goldmark.New(
		goldmark.WithExtensions(
			extension.GFM,
			extension.Linkify,
			extension.Strikethrough,
		),
		goldmark.WithParserOptions(parser.WithAutoHeadingID()),
	)
	return &ShowNotes{md: md}
}

func (r *ShowNotes) Render(src string) (string, error) {
	var buf bytes.Buffer
	if err := r.md.Convert([]byte(src), &buf); err != nil {
		return "", err
	}
	return buf.String(), nil
}
