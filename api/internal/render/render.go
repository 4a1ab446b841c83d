// Package render derives the four textual representations of a model's
// DocTags output: the tagged form itself, Markdown, HTML, and plain text.
// Rendering is a pure function of the input string.
package render

import (
	"bytes"
	stdhtml "html"
	"regexp"
	"strconv"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	ghtml "github.com/yuin/goldmark/renderer/html"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"docling-web/api/internal/doctags"
)

// Outputs holds the four derived representations. Degraded signals that the
// structural parse fell back to a minimal wrapping; it is not an error and
// all four strings are still usable.
type Outputs struct {
	DocTags   string `json:"doctags"`
	Markdown  string `json:"markdown"`
	HTML      string `json:"html"`
	PlainText string `json:"plain_text"`
	Degraded  bool   `json:"degraded"`
}

var md = goldmark.New(
	goldmark.WithExtensions(extension.GFM),
	goldmark.WithRendererOptions(ghtml.WithUnsafe()),
)

// Render derives all four outputs from one raw DocTags string. It has no side
// effects and never fails: unrecognizable input degrades to a minimal
// wrapping of the raw text.
func Render(raw string) Outputs {
	out := Outputs{DocTags: raw}

	doc := doctags.Parse(raw)
	if !doc.Recognized || doc.Empty() {
		text := strings.TrimSpace(raw)
		out.Degraded = true
		out.Markdown = text
		out.HTML = pageShell("<pre>" + stdhtml.EscapeString(text) + "</pre>\n")
		// Plain text must stay free of markup delimiters even here.
		out.PlainText = doctags.StripTags(raw)
		return out
	}

	out.Markdown = ExportMarkdown(doc)
	var body bytes.Buffer
	if err := md.Convert([]byte(out.Markdown), &body); err != nil {
		// goldmark does not fail on text input; keep the degraded contract anyway
		out.Degraded = true
		out.HTML = pageShell("<pre>" + stdhtml.EscapeString(out.Markdown) + "</pre>\n")
		out.PlainText = doctags.StripTags(raw)
		return out
	}
	out.HTML = pageShell(body.String())
	out.PlainText = extractText(out.HTML)
	return out
}

// ExportMarkdown serializes the block model to Markdown with GFM tables.
func ExportMarkdown(doc doctags.Document) string {
	var parts []string
	for _, b := range doc.Blocks {
		switch b.Kind {
		case doctags.KindTitle:
			parts = append(parts, "# "+b.Text)
		case doctags.KindHeading:
			level := b.Level + 1
			if level > 6 {
				level = 6
			}
			parts = append(parts, strings.Repeat("#", level)+" "+b.Text)
		case doctags.KindParagraph, doctags.KindFootnote:
			parts = append(parts, b.Text)
		case doctags.KindCaption:
			parts = append(parts, b.Text)
		case doctags.KindCode:
			parts = append(parts, "```\n"+b.Text+"\n```")
		case doctags.KindFormula:
			parts = append(parts, "$$"+b.Text+"$$")
		case doctags.KindList:
			var sb strings.Builder
			for i, item := range b.Items {
				if i > 0 {
					sb.WriteByte('\n')
				}
				if b.Ordered {
					sb.WriteString(strconv.Itoa(i+1) + ". " + item)
				} else {
					sb.WriteString("- " + item)
				}
			}
			parts = append(parts, sb.String())
		case doctags.KindTable:
			if t := exportTable(b.Rows); t != "" {
				parts = append(parts, t)
			}
		case doctags.KindPicture:
			parts = append(parts, "<!-- image -->")
		case doctags.KindPageBreak:
			parts = append(parts, "---")
		}
	}
	return strings.Join(parts, "\n\n")
}

func exportTable(rows [][]doctags.Cell) string {
	if len(rows) == 0 {
		return ""
	}
	cols := 0
	for _, row := range rows {
		if len(row) > cols {
			cols = len(row)
		}
	}
	if cols == 0 {
		return ""
	}
	line := func(row []doctags.Cell) string {
		cells := make([]string, cols)
		for i := 0; i < cols; i++ {
			if i < len(row) {
				cells[i] = escapeCell(row[i].Text)
			}
		}
		return "| " + strings.Join(cells, " | ") + " |"
	}
	var sb strings.Builder
	sb.WriteString(line(rows[0]))
	sb.WriteByte('\n')
	sb.WriteString("|" + strings.Repeat(" --- |", cols))
	for _, row := range rows[1:] {
		sb.WriteByte('\n')
		sb.WriteString(line(row))
	}
	return sb.String()
}

func escapeCell(s string) string {
	s = strings.ReplaceAll(s, "\n", " ")
	return strings.ReplaceAll(s, "|", "\\|")
}

func pageShell(body string) string {
	var sb strings.Builder
	sb.WriteString("<!DOCTYPE html>\n<html>\n<head>\n<meta charset=\"utf-8\">\n<title>Converted Document</title>\n</head>\n<body>\n")
	sb.WriteString(body)
	sb.WriteString("</body>\n</html>\n")
	return sb.String()
}

var blankRuns = regexp.MustCompile(`\n{3,}`)
var trailingWS = regexp.MustCompile(`[ \t]+\n`)

// extractText walks the rendered HTML and keeps only human-readable text,
// with one blank line between blocks.
func extractText(src string) string {
	doc, err := html.Parse(strings.NewReader(src))
	if err != nil {
		return ""
	}
	var sb strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		switch n.Type {
		case html.TextNode:
			sb.WriteString(n.Data)
			return
		case html.ElementNode:
			switch n.DataAtom {
			case atom.Head, atom.Script, atom.Style:
				return
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
			if c.Type == html.ElementNode {
				switch c.DataAtom {
				case atom.P, atom.H1, atom.H2, atom.H3, atom.H4, atom.H5, atom.H6,
					atom.Li, atom.Tr, atom.Table, atom.Ul, atom.Ol, atom.Pre,
					atom.Blockquote, atom.Br, atom.Hr, atom.Div:
					sb.WriteByte('\n')
				case atom.Td, atom.Th:
					sb.WriteByte(' ')
				}
			}
		}
	}
	walk(doc)
	text := sb.String()
	text = trailingWS.ReplaceAllString(text, "\n")
	text = blankRuns.ReplaceAllString(text, "\n\n")
	return strings.TrimSpace(text)
}
