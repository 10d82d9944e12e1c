package display

import (
	"unicode/utf8"

	"github.com/dshills/screenline/internal/textbuf"
)

// layoutHooks receive geometry events from a layout scan. Each hook is
// optional; returning false stops the scan.
type layoutHooks struct {
	// lineStart fires at the first column of every screen line with the
	// buffer position that screen line starts at. Continuation lines of a
	// soft-wrapped buffer line start at the wrap's buffer column.
	lineStart func(screenRow int, bufferPos textbuf.Point) bool

	// hunk fires for every fold and soft-wrap rewrite, ordered ascending by
	// OldStart.
	hunk func(h Hunk) bool

	// char fires for every rendered buffer character with its screen
	// position and screen width (tabs span to the next tab stop).
	char func(screenPos, bufferPos textbuf.Point, width int) bool
}

// scanLayout walks the buffer applying folds and soft wraps, computing the
// same screen geometry the builder renders. The scan recomputes everything
// from the buffer start on each call; the layer deliberately keeps no layout
// cache.
func (l *Layer) scanLayout(hooks layoutHooks) {
	folds := l.mergedFoldRanges()
	foldIdx := 0
	glyphLen := utf8.RuneCountInString(l.foldCharacter)

	lineCount := l.buffer.LineCount()
	screenRow := 0

	for bufferRow := 0; bufferRow < lineCount; bufferRow++ {
		line := []rune(l.buffer.LineForRow(bufferRow))
		wrapIndent := l.wrapIndentForLine(line)

		if hooks.lineStart != nil && !hooks.lineStart(screenRow, textbuf.NewPoint(bufferRow, 0)) {
			return
		}

		bufferColumn := 0
		screenColumn := 0
		segmentStart := 0    // screen column where the current screen line begins
		lastWrapColumn := -1 // buffer column of the latest wrap candidate
		leadingEnd := leadingWhitespaceEnd(line)
		prevWhitespace := false

		for {
			// Determine the next atom to place: a fold placeholder or a
			// single character. Its screen width drives the wrap decision.
			var width int
			var fold *textbuf.Range
			for foldIdx < len(folds) && folds[foldIdx].End.Before(textbuf.NewPoint(bufferRow, bufferColumn)) {
				foldIdx++
			}
			if foldIdx < len(folds) && folds[foldIdx].Start == textbuf.NewPoint(bufferRow, bufferColumn) {
				fold = &folds[foldIdx]
				width = glyphLen
			} else if bufferColumn < len(line) {
				if line[bufferColumn] == '\t' {
					width = l.tabLength - screenColumn%l.tabLength
				} else {
					width = 1
				}
			} else {
				break
			}

			// Soft wrap before the atom that would overflow the wrap column,
			// preferring the latest whitespace boundary on this screen line.
			if l.softWrapColumn > 0 && screenColumn+width > l.softWrapColumn && screenColumn > segmentStart {
				// Candidates recorded on this screen line always lie strictly
				// inside it, so wrapping there makes progress.
				wrapColumn := bufferColumn
				if lastWrapColumn > 0 {
					wrapColumn = lastWrapColumn
				}

				h := Hunk{
					OldStart: textbuf.NewPoint(bufferRow, wrapColumn),
					OldEnd:   textbuf.NewPoint(bufferRow, wrapColumn),
					NewEnd:   textbuf.NewPoint(screenRow+1, wrapIndent),
				}
				if hooks.hunk != nil && !hooks.hunk(h) {
					return
				}

				screenRow++
				if hooks.lineStart != nil && !hooks.lineStart(screenRow, h.OldStart) {
					return
				}

				bufferColumn = wrapColumn
				screenColumn = wrapIndent
				segmentStart = wrapIndent
				lastWrapColumn = -1
				prevWhitespace = false
				continue
			}

			if fold != nil {
				foldIdx++
				h := Hunk{
					OldStart: textbuf.NewPoint(bufferRow, bufferColumn),
					OldEnd:   fold.End,
					NewEnd:   textbuf.NewPoint(screenRow, screenColumn+glyphLen),
					NewText:  l.foldCharacter,
				}
				if hooks.hunk != nil && !hooks.hunk(h) {
					return
				}
				screenColumn += glyphLen
				bufferRow = fold.End.Row
				bufferColumn = fold.End.Column
				line = []rune(l.buffer.LineForRow(bufferRow))
				lastWrapColumn = -1
				leadingEnd = -1 // the glyph counts as a word
				prevWhitespace = false
				continue
			}

			ch := line[bufferColumn]
			whitespace := ch == ' ' || ch == '\t'
			// A word boundary inside the leading indent is not a wrap
			// candidate; indented lines wrap within their content.
			if !whitespace && prevWhitespace && bufferColumn > leadingEnd {
				lastWrapColumn = bufferColumn
			}
			if hooks.char != nil && !hooks.char(textbuf.NewPoint(screenRow, screenColumn), textbuf.NewPoint(bufferRow, bufferColumn), width) {
				return
			}
			screenColumn += width
			bufferColumn++
			prevWhitespace = whitespace
		}

		screenRow++
	}
}

// leadingWhitespaceEnd returns the buffer column of a line's first
// non-whitespace character, or the line length.
func leadingWhitespaceEnd(line []rune) int {
	for i, r := range line {
		if r != ' ' && r != '\t' {
			return i
		}
	}
	return len(line)
}

// wrapIndentForLine returns the continuation indent for soft wraps of a
// buffer line: the screen width of its leading whitespace plus the hanging
// indent, or 0 when that leaves no room to make progress.
func (l *Layer) wrapIndentForLine(line []rune) int {
	indent := 0
	for _, r := range line {
		switch r {
		case ' ':
			indent++
		case '\t':
			indent += l.tabLength - indent%l.tabLength
		default:
			indent += l.softWrapHangingIndent
			if indent >= l.softWrapColumn {
				return 0
			}
			return indent
		}
	}
	return 0
}
