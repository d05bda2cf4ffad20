package richspan

// Segment is the part of a rich span that falls on one visual row.
//
// Start and End are rune offsets within the logical line. X0 and X1 are the
// horizontal offsets of Start and End within the row, Y and Height its
// vertical extent, all in the renderer's units (cells or pixels).
type Segment struct {
	Line   int
	Start  int
	End    int
	X0     int
	X1     int
	Y      int
	Height int
}

// Emphasis describes text attribute changes a rich style asks for.
type Emphasis struct {
	Bold          bool
	Italic        bool
	Strikethrough bool
	Code          bool
	Foreground    string
}

// Canvas is the drawing surface a renderer hands to rich styles.
type Canvas interface {
	Underline(seg Segment, color string, wavy bool)
	Fill(seg Segment, color string)
	Emphasize(seg Segment, e Emphasis)
}

// Style draws a rich span segment.
type Style interface {
	Draw(c Canvas, seg Segment)
}

// WavyUnderline marks text with a wavy underline, e.g. spelling errors.
type WavyUnderline struct {
	Color string
}

func (s WavyUnderline) Draw(c Canvas, seg Segment) { c.Underline(seg, s.Color, true) }

// Highlight fills the segment background, e.g. search matches.
type Highlight struct {
	Color string
}

func (s Highlight) Draw(c Canvas, seg Segment) { c.Fill(seg, s.Color) }

// Emphasized changes text attributes without touching character styles,
// e.g. markdown rendering.
type Emphasized struct {
	Emphasis Emphasis
}

func (s Emphasized) Draw(c Canvas, seg Segment) { c.Emphasize(seg, s.Emphasis) }

// Custom delegates drawing to a function.
type Custom struct {
	Name string
	Fn   func(c Canvas, seg Segment)
}

func (s Custom) Draw(c Canvas, seg Segment) {
	if s.Fn != nil {
		s.Fn(c, seg)
	}
}
