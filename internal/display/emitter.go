package display

import (
	"strings"
	"unicode/utf8"
)

// tokenEmitter accumulates the rendered text and tag-code stream for the
// screen line under construction. Lengths are counted in rune units and the
// emitter guarantees that every emitted length prefix covers text appended
// while the corresponding tag set was open.
type tokenEmitter struct {
	registry *TagRegistry

	text     strings.Builder
	tagCodes []int32

	currentTokenFlags  Flags
	currentTokenLength int32
}

func newTokenEmitter(registry *TagRegistry) *tokenEmitter {
	return &tokenEmitter{registry: registry}
}

// boundary transitions from the currently open tag set to flags. The open tag
// closes when the flags change or a boundary is forced; a new tag opens under
// the same conditions. A forced boundary with no tag open and none opening is
// a no-op: bare length prefixes merge.
func (e *tokenEmitter) boundary(flags Flags, force bool) {
	previous := e.currentTokenFlags
	if previous != FlagNone && (flags != previous || force) {
		e.closeTag()
	}
	if flags != FlagNone && (flags != previous || force) {
		e.openTag(flags)
	}
}

// openTag flushes any bare run, then records the open code for flags.
func (e *tokenEmitter) openTag(flags Flags) {
	if e.currentTokenLength > 0 {
		e.tagCodes = append(e.tagCodes, e.currentTokenLength)
		e.currentTokenLength = 0
	}
	e.tagCodes = append(e.tagCodes, e.registry.CodeForOpenTag(flags.TagName()))
	e.currentTokenFlags = flags
}

// closeTag records the open tag's length prefix followed by its close code.
func (e *tokenEmitter) closeTag() {
	if e.currentTokenLength > 0 {
		e.tagCodes = append(e.tagCodes, e.currentTokenLength)
		e.currentTokenLength = 0
	}
	e.tagCodes = append(e.tagCodes, e.registry.CodeForCloseTag(e.currentTokenFlags.TagName()))
	e.currentTokenFlags = FlagNone
}

// closeIfOpen closes the current tag if one is open.
func (e *tokenEmitter) closeIfOpen() {
	if e.currentTokenFlags != FlagNone {
		e.closeTag()
	}
}

// appendText appends rendered text and accounts its rune length to the
// current token.
func (e *tokenEmitter) appendText(s string) {
	e.text.WriteString(s)
	e.currentTokenLength += int32(utf8.RuneCountInString(s))
}

// appendRune appends a single rendered character.
func (e *tokenEmitter) appendRune(r rune) {
	e.text.WriteRune(r)
	e.currentTokenLength++
}

// appendSpaces appends n spaces.
func (e *tokenEmitter) appendSpaces(n int) {
	for i := 0; i < n; i++ {
		e.text.WriteByte(' ')
	}
	e.currentTokenLength += int32(n)
}

// finishLine flushes any pending bare run and guarantees a non-empty tag
// stream so consumers never special-case empty lines.
func (e *tokenEmitter) finishLine() {
	e.closeIfOpen()
	if e.currentTokenLength > 0 {
		e.tagCodes = append(e.tagCodes, e.currentTokenLength)
		e.currentTokenLength = 0
	}
	if len(e.tagCodes) == 0 {
		e.tagCodes = append(e.tagCodes, 0)
	}
}

// take returns the accumulated text and tag codes and resets the emitter for
// the next screen line.
func (e *tokenEmitter) take() (string, []int32) {
	text := e.text.String()
	codes := e.tagCodes
	e.text.Reset()
	e.tagCodes = nil
	e.currentTokenFlags = FlagNone
	e.currentTokenLength = 0
	return text, codes
}
