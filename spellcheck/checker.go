package spellcheck

import (
	"bufio"
	"context"
	"io"
	"slices"
	"strings"

	"github.com/pkg/errors"
)

// Checker is a spelling backend.
type Checker interface {
	IsCorrectWord(ctx context.Context, word string) (bool, error)
	Suggestions(ctx context.Context, word string) ([]string, error)
}

// WordList is a case-insensitive dictionary checker. Words containing a digit
// are always accepted.
type WordList struct {
	words map[string]struct{}
}

func NewWordList(words ...string) *WordList {
	wl := &WordList{words: make(map[string]struct{}, len(words))}
	for _, w := range words {
		wl.Add(w)
	}
	return wl
}

// LoadWordList reads one word per line. Blank lines and lines starting with
// '#' are skipped.
func LoadWordList(r io.Reader) (*WordList, error) {
	wl := NewWordList()
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		wl.Add(line)
	}
	if err := sc.Err(); err != nil {
		return nil, errors.Wrap(err, "read word list")
	}
	return wl, nil
}

func (wl *WordList) Add(word string) {
	wl.words[strings.ToLower(word)] = struct{}{}
}

func (wl *WordList) Len() int { return len(wl.words) }

func (wl *WordList) IsCorrectWord(ctx context.Context, word string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	if strings.ContainsAny(word, "0123456789") {
		return true, nil
	}
	_, ok := wl.words[strings.ToLower(word)]
	return ok, nil
}

// Suggestions returns dictionary words one edit away from word, sorted.
func (wl *WordList) Suggestions(ctx context.Context, word string) ([]string, error) {
	lower := []rune(strings.ToLower(word))
	var out []string
	for w := range wl.words {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if oneEdit(lower, []rune(w)) {
			out = append(out, w)
		}
	}
	slices.Sort(out)
	return out, nil
}

// oneEdit reports whether b is one insertion, deletion, substitution or
// adjacent transposition away from a.
func oneEdit(a, b []rune) bool {
	la, lb := len(a), len(b)
	if la-lb > 1 || lb-la > 1 {
		return false
	}

	i := 0
	for i < la && i < lb && a[i] == b[i] {
		i++
	}
	if i == la && i == lb {
		return false
	}

	switch {
	case la == lb:
		if slices.Equal(a[i+1:], b[i+1:]) {
			return true
		}
		return i+1 < la && a[i] == b[i+1] && a[i+1] == b[i] && slices.Equal(a[i+2:], b[i+2:])
	case la > lb:
		return slices.Equal(a[i+1:], b[i:])
	default:
		return slices.Equal(a[i:], b[i+1:])
	}
}
