// Package markdown styles markdown syntax in a buffer with rich spans. The
// buffer text is left untouched; emphasis, headings, code and links are drawn
// through richspan.Emphasized annotations.
package markdown

import (
	"context"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	extast "github.com/yuin/goldmark/extension/ast"
	"github.com/yuin/goldmark/text"

	"github.com/iw2rmb/inkwell/buffer"
	"github.com/iw2rmb/inkwell/internal/annotate"
	"github.com/iw2rmb/inkwell/richspan"
)

// Kind names the markdown element an annotation came from.
type Kind int

const (
	KindHeading Kind = iota
	KindEmphasis
	KindStrong
	KindCode
	KindCodeBlock
	KindStrikethrough
	KindLink
	KindMarker
)

func (k Kind) String() string {
	switch k {
	case KindHeading:
		return "heading"
	case KindEmphasis:
		return "emphasis"
	case KindStrong:
		return "strong"
	case KindCode:
		return "code"
	case KindCodeBlock:
		return "code-block"
	case KindStrikethrough:
		return "strikethrough"
	case KindLink:
		return "link"
	case KindMarker:
		return "marker"
	default:
		return "unknown"
	}
}

// Theme maps element kinds to emphasis.
type Theme map[Kind]richspan.Emphasis

func DefaultTheme() Theme {
	return Theme{
		KindHeading:       {Bold: true, Foreground: "5"},
		KindEmphasis:      {Italic: true},
		KindStrong:        {Bold: true},
		KindCode:          {Code: true, Foreground: "3"},
		KindCodeBlock:     {Code: true, Foreground: "3"},
		KindStrikethrough: {Strikethrough: true},
		KindLink:          {Foreground: "4"},
		KindMarker:        {Foreground: "8"},
	}
}

// Element is one styled region of the document.
type Element struct {
	Kind  Kind
	Range buffer.Range
}

// Parser wraps goldmark with the GFM extensions.
type Parser struct {
	md goldmark.Markdown
}

func NewParser() *Parser {
	return &Parser{md: goldmark.New(goldmark.WithExtensions(extension.GFM))}
}

// Elements parses lines as one markdown document and returns its styled
// regions ordered by position.
func (p *Parser) Elements(ctx context.Context, lines []string) ([]Element, error) {
	source := []byte(strings.Join(lines, "\n"))
	root := p.md.Parser().Parse(text.NewReader(source))
	m := newPosMap(lines)

	var out []Element
	add := func(k Kind, start, stop int) {
		if start >= stop {
			return
		}
		out = append(out, Element{Kind: k, Range: buffer.Range{Start: m.pos(start), End: m.pos(stop)}})
	}

	err := ast.Walk(root, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		if err := ctx.Err(); err != nil {
			return ast.WalkStop, err
		}

		switch n := n.(type) {
		case *ast.Heading:
			lines := n.Lines()
			if lines.Len() == 0 {
				return ast.WalkSkipChildren, nil
			}
			seg := lines.At(0)
			lineStart := m.lineStartOf(seg.Start)
			add(KindMarker, lineStart, seg.Start)
			add(KindHeading, seg.Start, lines.At(lines.Len()-1).Stop)

		case *ast.FencedCodeBlock, *ast.CodeBlock:
			lines := n.Lines()
			for i := 0; i < lines.Len(); i++ {
				seg := lines.At(i)
				add(KindCodeBlock, seg.Start, trimNewline(source, seg.Start, seg.Stop))
			}
			return ast.WalkSkipChildren, nil

		case *ast.CodeSpan:
			if start, stop, ok := textExtent(n); ok {
				add(KindMarker, markerStart(source, start, '`'), start)
				add(KindCode, start, stop)
				add(KindMarker, stop, markerStop(source, stop, '`'))
			}
			return ast.WalkSkipChildren, nil

		case *ast.Emphasis:
			if start, stop, ok := textExtent(n); ok {
				k := KindEmphasis
				if n.Level >= 2 {
					k = KindStrong
				}
				add(k, start, stop)
				addDelimiters(source, start, stop, n.Level, add)
			}

		case *extast.Strikethrough:
			if start, stop, ok := textExtent(n); ok {
				add(KindStrikethrough, start, stop)
				addDelimiters(source, start, stop, 2, add)
			}

		case *ast.Link:
			if start, stop, ok := textExtent(n); ok {
				add(KindLink, start, stop)
			}
		}
		return ast.WalkContinue, nil
	})
	if err != nil {
		return nil, err
	}

	sort.SliceStable(out, func(i, j int) bool {
		return buffer.ComparePos(out[i].Range.Start, out[j].Range.Start) < 0
	})
	return out, nil
}

// textExtent returns the byte extent of the text descendants of n.
func textExtent(n ast.Node) (start, stop int, ok bool) {
	start, stop = -1, -1
	_ = ast.Walk(n, func(c ast.Node, entering bool) (ast.WalkStatus, error) {
		t, isText := c.(*ast.Text)
		if !entering || !isText {
			return ast.WalkContinue, nil
		}
		if start < 0 || t.Segment.Start < start {
			start = t.Segment.Start
		}
		if t.Segment.Stop > stop {
			stop = t.Segment.Stop
		}
		return ast.WalkContinue, nil
	})
	return start, stop, start >= 0 && stop > start
}

func addDelimiters(source []byte, start, stop, level int, add func(Kind, int, int)) {
	if start-level >= 0 && isDelim(source[start-level:start]) {
		add(KindMarker, start-level, start)
	}
	if stop+level <= len(source) && isDelim(source[stop:stop+level]) {
		add(KindMarker, stop, stop+level)
	}
}

func isDelim(b []byte) bool {
	for _, c := range b {
		if c != '*' && c != '_' && c != '~' {
			return false
		}
	}
	return len(b) > 0
}

func markerStart(source []byte, start int, c byte) int {
	for start > 0 && source[start-1] == c {
		start--
	}
	return start
}

func markerStop(source []byte, stop int, c byte) int {
	for stop < len(source) && source[stop] == c {
		stop++
	}
	return stop
}

func trimNewline(source []byte, start, stop int) int {
	for stop > start && (source[stop-1] == '\n' || source[stop-1] == '\r') {
		stop--
	}
	return stop
}

// posMap converts byte offsets of the joined source to rune positions.
type posMap struct {
	lines  []string
	starts []int
}

func newPosMap(lines []string) posMap {
	starts := make([]int, len(lines))
	off := 0
	for i, l := range lines {
		starts[i] = off
		off += len(l) + 1
	}
	return posMap{lines: lines, starts: starts}
}

func (m posMap) line(off int) int {
	i := sort.Search(len(m.starts), func(i int) bool { return m.starts[i] > off })
	return max(i-1, 0)
}

func (m posMap) lineStartOf(off int) int {
	if len(m.starts) == 0 {
		return 0
	}
	return m.starts[m.line(off)]
}

func (m posMap) pos(off int) buffer.Pos {
	if len(m.lines) == 0 {
		return buffer.Pos{}
	}
	l := m.line(off)
	text := m.lines[l]
	col := min(max(off-m.starts[l], 0), len(text))
	return buffer.Pos{Line: l, Char: utf8.RuneCountInString(text[:col])}
}

// Analyze returns an annotate.AnalyzeFunc producing themed emphasis spans.
func (p *Parser) Analyze(th Theme) annotate.AnalyzeFunc {
	return func(ctx context.Context, snap buffer.Snapshot) ([]annotate.Annotation, error) {
		els, err := p.Elements(ctx, snap.Lines)
		if err != nil {
			return nil, err
		}
		out := make([]annotate.Annotation, 0, len(els))
		for _, el := range els {
			e, ok := th[el.Kind]
			if !ok {
				continue
			}
			out = append(out, annotate.Annotation{Range: el.Range, Style: richspan.Emphasized{Emphasis: e}})
		}
		return out, nil
	}
}
