// Package doctags parses the DocTags markup dialect emitted by document
// vision models into a flat block model that the renderers share.
//
// The tag set is closed and known ahead of time. Unrecognized tags never fail
// the parse: their markers are dropped and their content flows as inline text
// of the surrounding block.
package doctags

import (
	"regexp"
	"strconv"
	"strings"
)

type Kind string

const (
	KindTitle     Kind = "title"
	KindHeading   Kind = "heading"
	KindParagraph Kind = "paragraph"
	KindCaption   Kind = "caption"
	KindFootnote  Kind = "footnote"
	KindCode      Kind = "code"
	KindFormula   Kind = "formula"
	KindList      Kind = "list"
	KindTable     Kind = "table"
	KindPicture   Kind = "picture"
	KindPageBreak Kind = "page_break"
)

// Cell is one table cell. Header marks column/row header cells (ched/rhed).
type Cell struct {
	Text   string
	Header bool
}

// Block is one structural element of the parsed document. Which fields are
// populated depends on Kind.
type Block struct {
	Kind    Kind
	Level   int      // heading level, 1-based
	Text    string   // title/heading/paragraph/caption/footnote/code/formula
	Ordered bool     // list
	Items   []string // list
	Rows    [][]Cell // table
}

// Document is the format-agnostic intermediate model every rendered output is
// derived from.
type Document struct {
	Blocks []Block
	// Recognized reports whether at least one known structural tag was seen.
	// When false the input did not speak the dialect and renderers degrade to
	// a minimal wrapping of the raw text.
	Recognized bool
}

func (d Document) Empty() bool { return len(d.Blocks) == 0 }

var tagRe = regexp.MustCompile(`<(/?)([a-z_][a-z0-9_]*)>`)

// StripTags removes every tag marker from a raw string, keeping the inline
// text. Renderers use it for the plain-text view of input that did not parse
// as the dialect.
func StripTags(raw string) string {
	return strings.TrimSpace(tagRe.ReplaceAllString(raw, ""))
}

// textKinds maps simple text-bearing tags to block kinds.
var textKinds = map[string]Kind{
	"text":        KindParagraph,
	"paragraph":   KindParagraph,
	"title":       KindTitle,
	"caption":     KindCaption,
	"footnote":    KindFootnote,
	"page_header": KindParagraph,
	"page_footer": KindParagraph,
	"code":        KindCode,
	"formula":     KindFormula,
}

type parser struct {
	doc Document

	// current simple block
	kind  Kind
	level int
	open  bool
	text  strings.Builder

	// list state
	inList   bool
	ordered  bool
	items    []string
	itemOpen bool

	// table state
	inTable bool
	rows    [][]Cell
	row     []Cell
	cell    *Cell

	// picture state
	inPicture bool
}

// Parse converts a raw DocTags string into a Document. It never fails:
// arbitrary input yields a document with Recognized=false.
func Parse(raw string) Document {
	p := &parser{}
	src := raw
	for {
		loc := tagRe.FindStringSubmatchIndex(src)
		if loc == nil {
			p.textRun(src)
			break
		}
		p.textRun(src[:loc[0]])
		closing := src[loc[2]:loc[3]] == "/"
		name := src[loc[4]:loc[5]]
		p.tag(name, closing)
		src = src[loc[1]:]
	}
	p.flush()
	p.flushList()
	p.flushTable()
	p.flushPicture()
	return p.doc
}

func (p *parser) textRun(s string) {
	if s == "" {
		return
	}
	switch {
	case p.inTable:
		if p.cell != nil {
			p.cell.Text += s
		}
	case p.inPicture:
		// classifier noise between picture tags, dropped
	case p.inList:
		if p.itemOpen {
			p.items[len(p.items)-1] += s
		}
	default:
		p.text.WriteString(s)
		if !p.open {
			// bare text outside any tag forms an implicit paragraph
			p.kind = KindParagraph
		}
	}
}

func (p *parser) tag(name string, closing bool) {
	if strings.HasPrefix(name, "loc_") {
		return // location tokens carry no text content
	}
	switch name {
	case "doctag":
		p.doc.Recognized = true
		return
	case "page_break":
		if !closing {
			p.doc.Recognized = true
			p.flush()
			p.flushPicture()
			p.doc.Blocks = append(p.doc.Blocks, Block{Kind: KindPageBreak})
		}
		return
	case "picture":
		p.doc.Recognized = true
		if closing {
			p.flushPicture()
			return
		}
		p.flush()
		p.flushList()
		p.flushTable()
		p.flushPicture()
		p.inPicture = true
		return
	case "otsl":
		p.doc.Recognized = true
		if closing {
			p.flushTable()
			return
		}
		p.flush()
		p.flushList()
		p.flushPicture()
		p.inTable = true
		p.rows = nil
		p.row = nil
		p.cell = nil
		return
	case "fcel", "ched", "rhed", "ecel", "lcel", "ucel", "xcel":
		if p.inTable && !closing {
			p.doc.Recognized = true
			p.closeCell()
			header := name == "ched" || name == "rhed"
			p.row = append(p.row, Cell{Header: header})
			if name == "fcel" || name == "ched" || name == "rhed" {
				p.cell = &p.row[len(p.row)-1]
			} else {
				// ecel and span continuations stay empty
				p.cell = nil
			}
		}
		return
	case "nl":
		if p.inTable && !closing {
			p.closeCell()
			if len(p.row) > 0 {
				p.rows = append(p.rows, p.row)
				p.row = nil
			}
		}
		return
	case "unordered_list", "ordered_list":
		p.doc.Recognized = true
		if closing {
			p.flushList()
			return
		}
		p.flush()
		p.flushTable()
		p.flushPicture()
		p.inList = true
		p.ordered = name == "ordered_list"
		return
	case "list_item":
		if p.inList {
			p.doc.Recognized = true
			if closing {
				p.itemOpen = false
				if n := len(p.items); n > 0 {
					p.items[n-1] = strings.TrimSpace(p.items[n-1])
				}
				return
			}
			p.items = append(p.items, "")
			p.itemOpen = true
		}
		return
	}

	if kind, ok := textKinds[name]; ok {
		p.doc.Recognized = true
		if closing {
			if p.open && p.kind == kind {
				p.flush()
			}
			return
		}
		p.flush()
		p.flushList()
		p.flushTable()
		p.flushPicture()
		p.kind = kind
		p.open = true
		return
	}
	if level, ok := headingLevel(name); ok {
		p.doc.Recognized = true
		if closing {
			if p.open && p.kind == KindHeading {
				p.flush()
			}
			return
		}
		p.flush()
		p.flushList()
		p.flushTable()
		p.flushPicture()
		p.kind = KindHeading
		p.level = level
		p.open = true
		return
	}
	// Unknown tag: transparent, content keeps flowing inline.
}

func headingLevel(name string) (int, bool) {
	const prefix = "section_header_level_"
	if !strings.HasPrefix(name, prefix) {
		if name == "section_header" {
			return 1, true
		}
		return 0, false
	}
	n, err := strconv.Atoi(name[len(prefix):])
	if err != nil || n < 1 {
		return 1, true
	}
	if n > 6 {
		n = 6
	}
	return n, true
}

func (p *parser) closeCell() {
	if p.cell != nil {
		p.cell.Text = strings.TrimSpace(p.cell.Text)
		p.cell = nil
	}
}

func (p *parser) flush() {
	text := strings.TrimSpace(p.text.String())
	p.text.Reset()
	wasOpen := p.open
	kind := p.kind
	level := p.level
	p.open = false
	p.kind = ""
	p.level = 0
	if text == "" {
		return
	}
	if !wasOpen {
		kind = KindParagraph
		level = 0
	}
	p.doc.Blocks = append(p.doc.Blocks, Block{Kind: kind, Level: level, Text: text})
}

// flushPicture emits the pending picture block. Opening any other block while
// a picture is still open implicitly closes it, so captions nested inside a
// picture are not lost.
func (p *parser) flushPicture() {
	if !p.inPicture {
		return
	}
	p.inPicture = false
	p.doc.Blocks = append(p.doc.Blocks, Block{Kind: KindPicture})
}

func (p *parser) flushList() {
	if !p.inList {
		return
	}
	p.inList = false
	p.itemOpen = false
	items := make([]string, 0, len(p.items))
	for _, it := range p.items {
		if s := strings.TrimSpace(it); s != "" {
			items = append(items, s)
		}
	}
	p.items = nil
	if len(items) > 0 {
		p.doc.Blocks = append(p.doc.Blocks, Block{Kind: KindList, Ordered: p.ordered, Items: items})
	}
}

func (p *parser) flushTable() {
	if !p.inTable {
		return
	}
	p.inTable = false
	p.closeCell()
	if len(p.row) > 0 {
		p.rows = append(p.rows, p.row)
		p.row = nil
	}
	rows := p.rows
	p.rows = nil
	if len(rows) > 0 {
		p.doc.Blocks = append(p.doc.Blocks, Block{Kind: KindTable, Rows: rows})
	}
}
