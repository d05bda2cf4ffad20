package editor

import "github.com/pkg/errors"

// ScrollPolicy controls how viewport scrolling is allowed to move relative to
// the cursor.
type ScrollPolicy int

const (
	// ScrollAllowManual allows manual viewport scrolling (for example via mouse
	// wheel) even when the cursor does not move.
	ScrollAllowManual ScrollPolicy = iota
	// ScrollFollowCursorOnly keeps vertical viewport movement cursor-driven.
	// Manual viewport scrolling is ignored.
	ScrollFollowCursorOnly
)

func (p ScrollPolicy) String() string {
	switch p {
	case ScrollAllowManual:
		return "manual"
	case ScrollFollowCursorOnly:
		return "follow"
	default:
		return "unknown"
	}
}

func (p ScrollPolicy) MarshalText() ([]byte, error) { return []byte(p.String()), nil }

func (p *ScrollPolicy) UnmarshalText(b []byte) error {
	switch string(b) {
	case "manual", "":
		*p = ScrollAllowManual
	case "follow":
		*p = ScrollFollowCursorOnly
	default:
		return errors.Errorf("unknown scroll policy %q", b)
	}
	return nil
}
