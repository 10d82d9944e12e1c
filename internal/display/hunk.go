package display

import "github.com/dshills/screenline/internal/textbuf"

// Hunk describes how a region of buffer text is rewritten for display.
// OldStart and OldEnd are buffer coordinates; NewEnd is the screen coordinate
// of the rewritten region's end. Hunk kinds are distinguished by shape:
// a fold collapses a non-empty buffer region to a single glyph, a soft wrap
// has zero old extent and breaks the screen line at that buffer column.
type Hunk struct {
	OldStart textbuf.Point
	OldEnd   textbuf.Point
	NewEnd   textbuf.Point
	NewText  string
}

// IsSoftWrap returns true if the hunk represents a soft line break.
func (h Hunk) IsSoftWrap() bool {
	return h.OldStart == h.OldEnd
}

// IsFold returns true if the hunk collapses a buffer region to the given
// fold character.
func (h Hunk) IsFold(foldCharacter string) bool {
	return h.NewText == foldCharacter && h.OldEnd.After(h.OldStart)
}

// hunkCursor walks the ordered hunk stream in lock-step with the builder's
// buffer cursor. Hunks must be ordered ascending by OldStart, then by list
// position for equal positions.
type hunkCursor struct {
	hunks []Hunk
	index int
}

func newHunkCursor(hunks []Hunk) *hunkCursor {
	return &hunkCursor{hunks: hunks}
}

// advancePastRow drops all hunks that start before the given buffer row.
func (c *hunkCursor) advancePastRow(row int) {
	for c.index < len(c.hunks) && c.hunks[c.index].OldStart.Row < row {
		c.index++
	}
}

// peekAt returns the next hunk starting exactly at (row, column), or nil.
// Hunks on the row that start before the column were jumped over by a fold
// and are skipped.
func (c *hunkCursor) peekAt(row, column int) *Hunk {
	for c.index < len(c.hunks) {
		h := &c.hunks[c.index]
		if h.OldStart.Row == row && h.OldStart.Column < column {
			c.index++
			continue
		}
		if h.OldStart.Row == row && h.OldStart.Column == column {
			return h
		}
		return nil
	}
	return nil
}

// advance consumes the hunk last returned by peekAt.
func (c *hunkCursor) advance() {
	if c.index < len(c.hunks) {
		c.index++
	}
}
