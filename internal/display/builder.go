package display

import (
	"unicode/utf8"

	"github.com/dshills/screenline/internal/textbuf"
)

// screenLineBuilder performs a single build pass over a range of screen
// rows. It reconciles buffer and screen coordinates in one sweep per buffer
// line: folds and soft wraps are consumed from the hunk cursor, tabs expand
// to tab-stop boundaries, whitespace is classified per character, and the
// token emitter keeps the tag stream balanced.
type screenLineBuilder struct {
	layer      *Layer
	emitter    *tokenEmitter
	classifier whitespaceClassifier
	cursor     *hunkCursor

	bufferRow    int
	screenColumn int

	screenLines []ScreenLine
}

func newScreenLineBuilder(l *Layer) *screenLineBuilder {
	return &screenLineBuilder{
		layer:   l,
		emitter: newTokenEmitter(l.registry),
	}
}

// buildScreenLines renders the screen rows in [startRow, endRow).
func (b *screenLineBuilder) buildScreenLines(startRow, endRow int) []ScreenLine {
	if startRow < 0 {
		startRow = 0
	}
	if count := b.layer.ScreenLineCount(); endRow > count {
		endRow = count
	}
	if startRow >= endRow {
		return nil
	}

	// A soft-wrapped continuation row cannot be rendered in isolation: the
	// pass always starts at the first screen row of the owning buffer line
	// and discards any rows before the requested start.
	b.bufferRow = b.layer.TranslateScreenPosition(textbuf.NewPoint(startRow, 0)).Row
	firstScreenRow := b.layer.ScreenRowForBufferRow(b.bufferRow)
	skip := startRow - firstScreenRow

	hunks := b.layer.HunksInNewRange(textbuf.NewPoint(firstScreenRow, 0), textbuf.NewPoint(endRow, 0))
	b.cursor = newHunkCursor(hunks)

	want := skip + (endRow - startRow)
	for len(b.screenLines) < want && b.bufferRow < b.layer.buffer.LineCount() {
		b.buildBufferLine()
	}

	if skip > len(b.screenLines) {
		return nil
	}
	lines := b.screenLines[skip:]
	if len(lines) > endRow-startRow {
		lines = lines[:endRow-startRow]
	}
	return lines
}

// buildBufferLine renders one buffer line, emitting a screen line per soft
// wrap plus one for the line's end. Folds may advance bufferRow past
// collapsed rows.
func (b *screenLineBuilder) buildBufferLine() {
	b.cursor.advancePastRow(b.bufferRow)

	line := []rune(b.layer.buffer.LineForRow(b.bufferRow))
	ending := b.layer.buffer.LineEndingForRow(b.bufferRow)
	b.classifier.reset(line)

	bufferColumn := 0
	for {
		// Drain every hunk anchored at the current buffer position before
		// looking at the character there. A fold may move the position to a
		// later row; the loop re-checks the new position so stacked hunks
		// are never missed.
		for {
			h := b.cursor.peekAt(b.bufferRow, bufferColumn)
			if h == nil {
				break
			}
			switch {
			case h.IsFold(b.layer.foldCharacter):
				b.cursor.advance()
				b.emitFold()
				b.bufferRow = h.OldEnd.Row
				bufferColumn = h.OldEnd.Column
				b.cursor.advancePastRow(b.bufferRow)
				line = []rune(b.layer.buffer.LineForRow(b.bufferRow))
				ending = b.layer.buffer.LineEndingForRow(b.bufferRow)
				b.classifier.resetAfterFold(line)
			case h.IsSoftWrap():
				b.cursor.advance()
				b.emitSoftWrap(h.NewEnd.Column)
			default:
				// Not a rewrite this pass understands; skip it.
				b.cursor.advance()
			}
		}

		if bufferColumn >= len(line) {
			break
		}

		char := line[bufferColumn]
		flags, force := b.classifier.classify(b.layer, char, bufferColumn, b.screenColumn)
		b.emitter.boundary(flags, force)
		b.renderCharacter(char, flags)
		bufferColumn++
	}

	b.emitLineEnding(line, ending)
	b.bufferRow++
}

// emitFold renders the fold placeholder glyph under its own tag. The tag
// stays open until the next character transition closes it.
func (b *screenLineBuilder) emitFold() {
	b.emitter.boundary(FlagFold, true)
	b.emitter.appendText(b.layer.foldCharacter)
	b.screenColumn += utf8.RuneCountInString(b.layer.foldCharacter)
}

// emitSoftWrap finalizes the current screen line and starts the next one
// with the wrap's continuation indent reconstructed as spaces.
func (b *screenLineBuilder) emitSoftWrap(indent int) {
	b.flushScreenLine()

	if indent <= 0 {
		return
	}
	if b.layer.showIndentGuides {
		b.emitIndentGuides(0, indent)
	} else {
		b.emitter.appendSpaces(indent)
	}
	b.screenColumn = indent
}

// emitIndentGuides emits guide tokens as spaces from screen column `from` up
// to `to`, one token per tab-stop-aligned block.
func (b *screenLineBuilder) emitIndentGuides(from, to int) {
	for col := from; col < to; {
		blockLen := b.layer.tabLength - col%b.layer.tabLength
		if col+blockLen > to {
			blockLen = to - col
		}
		b.emitter.boundary(FlagIndentGuide, true)
		b.emitter.appendSpaces(blockLen)
		col += blockLen
	}
}

// renderCharacter appends the rendered form of a buffer character: tab-stop
// expansion for tabs, the configured invisible glyph for decorated
// whitespace, the character itself otherwise.
func (b *screenLineBuilder) renderCharacter(char rune, flags Flags) {
	switch {
	case char == '\t':
		distance := b.layer.tabLength - b.screenColumn%b.layer.tabLength
		if b.layer.invisibles.Tab != "" {
			b.emitter.appendText(b.layer.invisibles.Tab)
			b.emitter.appendSpaces(distance - 1)
		} else {
			b.emitter.appendSpaces(distance)
		}
		b.screenColumn += distance
	case char == ' ' && flags.Has(FlagInvisibleCharacter):
		b.emitter.appendText(b.layer.invisibles.Space)
		b.screenColumn++
	default:
		b.emitter.appendRune(char)
		b.screenColumn++
	}
}

// emitLineEnding renders the end-of-line invisible and, on empty lines,
// continues the surrounding indentation's guides, then finalizes the screen
// line.
func (b *screenLineBuilder) emitLineEnding(line []rune, ending textbuf.LineEnding) {
	emptyLine := len(line) == 0

	if eol := b.layer.EOLInvisible(ending); eol != "" {
		flags := FlagInvisibleCharacter.With(FlagLineEnding)
		if emptyLine && b.layer.showIndentGuides {
			flags = flags.With(FlagIndentGuide)
		}
		b.emitter.boundary(flags, true)
		b.emitter.appendText(eol)
		b.screenColumn += utf8.RuneCountInString(eol)
	}

	if emptyLine && b.layer.showIndentGuides {
		if wsLength := b.layer.LeadingWhitespaceLengthForSurroundingLines(b.bufferRow); wsLength > b.screenColumn {
			b.emitIndentGuides(b.screenColumn, wsLength)
			b.screenColumn = wsLength
		}
	}

	b.flushScreenLine()
}

// flushScreenLine closes any open tag and appends the finished line to the
// output.
func (b *screenLineBuilder) flushScreenLine() {
	b.emitter.finishLine()
	text, codes := b.emitter.take()

	screenLine := ScreenLine{
		ID:       b.layer.nextScreenLineID(),
		LineText: text,
		TagCodes: codes,
	}
	if checkInvariants {
		validateScreenLine(screenLine)
	}

	b.screenLines = append(b.screenLines, screenLine)
	b.screenColumn = 0
}
