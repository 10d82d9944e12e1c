package display

import (
	"sync"
	"sync/atomic"
	"unicode/utf8"

	"github.com/dshills/screenline/internal/textbuf"
)

// DefaultTabLength is the tab-stop distance used when none is configured.
const DefaultTabLength = 4

// DefaultFoldCharacter is the glyph that replaces folded regions.
const DefaultFoldCharacter = "⋯"

// Layer renders a buffer's rows as screen lines. It owns the rendering
// configuration, the fold set, the tag-code registry, and the screen-line
// identifier counter. Configuration is fixed at construction; folds may be
// created and destroyed between builds.
//
// Builds are sequential: callers that overlap BuildScreenLines invocations
// must serialize them. Fold mutation and the identifier counter are safe to
// share.
type Layer struct {
	buffer *textbuf.Buffer

	tabLength             int
	foldCharacter         string
	invisibles            Invisibles
	showIndentGuides      bool
	softWrapColumn        int
	softWrapHangingIndent int

	registry *TagRegistry

	foldMu     sync.RWMutex
	folds      map[FoldID]textbuf.Range
	nextFoldID FoldID

	screenLineID atomic.Uint64
}

// NewLayer creates a display layer over the buffer.
func NewLayer(buffer *textbuf.Buffer, opts ...Option) *Layer {
	l := &Layer{
		buffer:        buffer,
		tabLength:     DefaultTabLength,
		foldCharacter: DefaultFoldCharacter,
		registry:      NewTagRegistry(),
		folds:         make(map[FoldID]textbuf.Range),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Buffer returns the underlying text buffer.
func (l *Layer) Buffer() *textbuf.Buffer {
	return l.buffer
}

// TabLength returns the configured tab-stop distance.
func (l *Layer) TabLength() int {
	return l.tabLength
}

// FoldCharacter returns the fold placeholder glyph.
func (l *Layer) FoldCharacter() string {
	return l.foldCharacter
}

// TagRegistry returns the registry that issued this layer's tag codes.
func (l *Layer) TagRegistry() *TagRegistry {
	return l.registry
}

// CodeForOpenTag returns the open code for a tag name.
func (l *Layer) CodeForOpenTag(name string) int32 {
	return l.registry.CodeForOpenTag(name)
}

// CodeForCloseTag returns the close code for a tag name.
func (l *Layer) CodeForCloseTag(name string) int32 {
	return l.registry.CodeForCloseTag(name)
}

// EOLInvisible returns the glyph rendered for a line-ending kind, or "" when
// the ending has no configured invisible.
func (l *Layer) EOLInvisible(ending textbuf.LineEnding) string {
	switch ending {
	case textbuf.LineEndingLF:
		return l.invisibles.EOL
	case textbuf.LineEndingCR:
		return l.invisibles.CR
	case textbuf.LineEndingCRLF:
		return l.invisibles.CR + l.invisibles.EOL
	default:
		return ""
	}
}

// BuildScreenLines renders the screen rows in [startRow, endRow). The end
// row is clamped to the screen line count; an empty range yields nil. Each
// call renders from scratch: the layer keeps no cache of prior builds.
func (l *Layer) BuildScreenLines(startRow, endRow int) []ScreenLine {
	return newScreenLineBuilder(l).buildScreenLines(startRow, endRow)
}

// ScreenLineCount returns the number of screen lines the buffer renders to.
func (l *Layer) ScreenLineCount() int {
	count := 0
	l.scanLayout(layoutHooks{
		lineStart: func(int, textbuf.Point) bool {
			count++
			return true
		},
	})
	return count
}

// TranslateScreenPosition converts a screen position to the buffer position
// rendered there. Columns past the end of a screen line resolve to buffer
// positions at or near the line's end; rows past the end clamp to the last
// screen line's start.
func (l *Layer) TranslateScreenPosition(p textbuf.Point) textbuf.Point {
	if p.Row < 0 {
		p = textbuf.Point{}
	}

	result := textbuf.Point{}
	l.scanLayout(layoutHooks{
		lineStart: func(screenRow int, bufferPos textbuf.Point) bool {
			if screenRow > p.Row {
				return false
			}
			result = bufferPos
			return true
		},
		char: func(screenPos, bufferPos textbuf.Point, width int) bool {
			if screenPos.Row > p.Row {
				return false
			}
			if screenPos.Row < p.Row {
				return true
			}
			if screenPos.Column+width > p.Column {
				result = bufferPos
				return false
			}
			result = textbuf.NewPoint(bufferPos.Row, bufferPos.Column+1)
			return true
		},
	})
	return result
}

// ScreenRowForBufferRow returns the first screen row of the screen-line
// group rendering the buffer row. Rows hidden inside a fold report the
// group that collapsed them.
func (l *Layer) ScreenRowForBufferRow(bufferRow int) int {
	row := 0
	l.scanLayout(layoutHooks{
		lineStart: func(screenRow int, bufferPos textbuf.Point) bool {
			if bufferPos.Row > bufferRow {
				return false
			}
			if bufferPos.Column == 0 {
				row = screenRow
			}
			return true
		},
	})
	return row
}

// HunksInNewRange returns the fold and soft-wrap hunks whose rewrites land
// in the screen row range [start.Row, end.Row), ordered ascending by
// OldStart then discovery order.
func (l *Layer) HunksInNewRange(start, end textbuf.Point) []Hunk {
	var hunks []Hunk
	l.scanLayout(layoutHooks{
		lineStart: func(screenRow int, _ textbuf.Point) bool {
			return screenRow < end.Row
		},
		hunk: func(h Hunk) bool {
			row := h.NewEnd.Row
			if h.IsSoftWrap() {
				row-- // the break itself is on the row being ended
			}
			if row >= end.Row {
				return false
			}
			if row >= start.Row {
				hunks = append(hunks, h)
			}
			return true
		},
	})
	return hunks
}

// LeadingWhitespaceLengthForSurroundingLines returns the larger
// leading-whitespace screen width of the nearest non-empty lines above and
// below the buffer row. Empty lines borrow this to continue the surrounding
// indentation's guides.
func (l *Layer) LeadingWhitespaceLengthForSurroundingLines(bufferRow int) int {
	length := 0
	for row := bufferRow - 1; row >= 0; row-- {
		if line := l.buffer.LineForRow(row); line != "" {
			length = l.leadingWhitespaceWidth(line)
			break
		}
	}
	lineCount := l.buffer.LineCount()
	for row := bufferRow + 1; row < lineCount; row++ {
		if line := l.buffer.LineForRow(row); line != "" {
			if w := l.leadingWhitespaceWidth(line); w > length {
				length = w
			}
			break
		}
	}
	return length
}

// leadingWhitespaceWidth returns the screen width of a line's leading run of
// spaces and tabs.
func (l *Layer) leadingWhitespaceWidth(line string) int {
	width := 0
	for _, r := range line {
		switch r {
		case ' ':
			width++
		case '\t':
			width += l.tabLength - width%l.tabLength
		default:
			return width
		}
	}
	return width
}

// nextScreenLineID issues the next screen-line identifier. Identifiers are
// strictly increasing for the lifetime of the layer.
func (l *Layer) nextScreenLineID() uint64 {
	return l.screenLineID.Add(1)
}

// RuneLength returns the length of rendered text in the units used by tag
// length prefixes.
func RuneLength(s string) int {
	return utf8.RuneCountInString(s)
}
