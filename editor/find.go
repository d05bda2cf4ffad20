package editor

import (
	"context"
	"slices"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/pkg/errors"

	"github.com/iw2rmb/inkwell/buffer"
	"github.com/iw2rmb/inkwell/richspan"
)

// FindOwner tags the rich spans that highlight find matches.
const FindOwner = "find"

const suggestTimeout = 2 * time.Second

type findState struct {
	query         string
	caseSensitive bool
	matches       []buffer.Range
	textVersion   uint64
}

// SetFindQuery highlights every match of query. An empty query clears the
// highlights. The cursor does not move; use FindNext to select a match.
func (m Model) SetFindQuery(query string, caseSensitive bool) Model {
	m.find = findState{query: query, caseSensitive: caseSensitive}
	m.refreshFind()
	m.sync()
	return m
}

// FindMatches returns the matches of the current query.
func (m Model) FindMatches() []buffer.Range {
	if m.find.query != "" && m.find.textVersion != m.buf.TextVersion() {
		return m.buf.FindAll(m.find.query, m.find.caseSensitive)
	}
	return slices.Clone(m.find.matches)
}

func (m *Model) refreshFind() {
	m.reg.RemoveOwner(FindOwner)
	m.find.matches = nil
	m.find.textVersion = m.buf.TextVersion()
	if m.find.query == "" {
		return
	}
	m.find.matches = m.buf.FindAll(m.find.query, m.find.caseSensitive)
	style := richspan.Highlight{Color: m.cfg.Style.FindMatch}
	for _, r := range m.find.matches {
		m.reg.Add(r, style, FindOwner)
	}
}

// FindNext selects the first match at or after the cursor, wrapping to the
// first match, and scrolls it into view.
func (m Model) FindNext() Model {
	if m.find.query == "" {
		return m
	}
	if m.find.textVersion != m.buf.TextVersion() {
		m.refreshFind()
	}
	return m.selectMatch(buffer.FindNearestMatchIndex(m.find.matches, m.buf.Cursor()))
}

// FindPrev selects the last match before the cursor or selection, wrapping
// to the last match.
func (m Model) FindPrev() Model {
	if m.find.query == "" {
		return m
	}
	if m.find.textVersion != m.buf.TextVersion() {
		m.refreshFind()
	}
	if len(m.find.matches) == 0 {
		return m
	}

	from := m.buf.Cursor()
	if r, ok := m.buf.Selection(); ok {
		from = r.Start
	}
	i := len(m.find.matches) - 1
	for k := len(m.find.matches) - 1; k >= 0; k-- {
		if buffer.ComparePos(m.find.matches[k].Start, from) < 0 {
			i = k
			break
		}
	}
	return m.selectMatch(i)
}

func (m Model) selectMatch(i int) Model {
	if i < 0 || i >= len(m.find.matches) {
		return m
	}
	r := m.find.matches[i]
	m.buf.SetSelection(r)
	return m.ScrollIntoView(r.Start)
}

// RequestSuggestions returns a command that looks up spelling suggestions for
// the misspelled word under the cursor. It returns nil when spell checking is
// off or the cursor is not on a misspelling.
func (m Model) RequestSuggestions() tea.Cmd {
	if m.bg.spell == nil {
		return nil
	}
	r, ok := m.bg.spell.WordAt(m.buf.Cursor())
	if !ok {
		return nil
	}
	word := m.buf.TextInRange(r)
	check := m.cfg.Spell.Checker
	log := m.log
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), suggestTimeout)
		defer cancel()
		words, err := check.Suggestions(ctx, word)
		if err != nil {
			err = errors.Wrapf(err, "suggestions for %q", word)
			log.Warn("spelling suggestions failed", "err", err)
		}
		return SuggestionsMsg{Word: word, Range: r, Words: words, Err: err}
	}
}

// ReplaceRange replaces r, clamped to the document, with text as one
// undoable edit. It is ignored in read-only mode.
func (m Model) ReplaceRange(r buffer.Range, text string) Model {
	if m.cfg.ReadOnly {
		return m
	}
	m.buf.Replace(buffer.ClampRange(r, m.buf.LineCount(), m.buf.LineLen), text)
	m.sync()
	return m
}
