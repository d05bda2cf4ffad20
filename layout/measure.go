package layout

import (
	"github.com/mattn/go-runewidth"
	"github.com/rivo/uniseg"

	"github.com/iw2rmb/inkwell/internal/grapheme"
)

// Measurer produces horizontal advances and row height for text.
type Measurer interface {
	// Advances returns one advance per rune of text. Runes that do not start
	// a cluster may report zero.
	Advances(text []rune) []int
	LineHeight() int
}

// CellMeasurer measures text in terminal cells.
type CellMeasurer struct {
	TabWidth int
}

const defaultTabWidth = 4

func (m CellMeasurer) LineHeight() int { return 1 }

func (m CellMeasurer) Advances(text []rune) []int {
	out := make([]int, len(text))
	if len(text) == 0 {
		return out
	}

	tabWidth := m.TabWidth
	if tabWidth <= 0 {
		tabWidth = defaultTabWidth
	}

	col := 0
	for _, c := range grapheme.Clusters(text) {
		w := cellWidth(c.Text, col, tabWidth)
		out[c.Start] = w
		col += w
	}
	return out
}

func cellWidth(cluster string, col, tabWidth int) int {
	if cluster == "\t" {
		return tabAdvance(col, tabWidth)
	}

	w := runewidth.StringWidth(cluster)
	if w <= 0 {
		w = uniseg.StringWidth(cluster)
	}
	if w < 0 {
		w = 0
	}
	return w
}

func tabAdvance(col, tabWidth int) int {
	if tabWidth <= 0 {
		return 1
	}
	return tabWidth - col%tabWidth
}
