// ABOUTME: Clip range tracker
// ABOUTME: Records start and end marks against the primary playback position
package clip

import "errors"

var (
	// ErrIncomplete means the start or end mark is unset
	ErrIncomplete = errors.New("clip range incomplete")

	// ErrInverted means the start mark is after the end mark
	ErrInverted = errors.New("clip start is after clip end")
)

// Positioner reports the current playback position in milliseconds
type Positioner interface {
	Position() int64
}

// Range is a start/end pair where either side may be unset
type Range struct {
	start, end       int64
	hasStart, hasEnd bool
}

// Start returns the start mark and whether it is set
func (r Range) Start() (int64, bool) { return r.start, r.hasStart }

// End returns the end mark and whether it is set
func (r Range) End() (int64, bool) { return r.end, r.hasEnd }

// Validate checks that both marks are set and ordered
func (r Range) Validate() error {
	if !r.hasStart || !r.hasEnd {
		return ErrIncomplete
	}
	if r.start > r.end {
		return ErrInverted
	}
	return nil
}

// Tracker captures marks from a position source.
// Marks are not validated or cleared when the source changes.
type Tracker struct {
	pos Positioner
	rng Range
}

// NewTracker creates a tracker reading positions from pos
func NewTracker(pos Positioner) *Tracker {
	return &Tracker{pos: pos}
}

// MarkStart captures the current position as the start and returns it
func (t *Tracker) MarkStart() int64 {
	t.rng.start, t.rng.hasStart = t.pos.Position(), true
	return t.rng.start
}

// MarkEnd captures the current position as the end and returns it
func (t *Tracker) MarkEnd() int64 {
	t.rng.end, t.rng.hasEnd = t.pos.Position(), true
	return t.rng.end
}

// Set replaces both marks
func (t *Tracker) Set(start, end int64) {
	t.rng = Range{start: start, end: end, hasStart: true, hasEnd: true}
}

// Clear unsets both marks
func (t *Tracker) Clear() {
	t.rng = Range{}
}

// Range returns a copy of the current marks
func (t *Tracker) Range() Range {
	return t.rng
}

// Reached reports whether pos is at or past a set end mark
func (t *Tracker) Reached(pos int64) bool {
	return t.rng.hasEnd && pos >= t.rng.end
}
