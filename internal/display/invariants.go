package display

import (
	"fmt"
	"unicode/utf8"
)

// checkInvariants enables screen-line validation after every build. Tests
// turn it on; production builds leave it off.
var checkInvariants = false

// validateScreenLine panics if the line's tag stream is malformed: the
// length prefixes must sum to the text's rune length, and open/close codes
// must balance with LIFO nesting.
func validateScreenLine(line ScreenLine) {
	var sum int32
	var open []int32

	for _, code := range line.TagCodes {
		switch {
		case code >= 0:
			sum += code
		case IsOpenTagCode(code):
			open = append(open, code)
		case IsCloseTagCode(code):
			if len(open) == 0 {
				panic(fmt.Sprintf("display: close code %d with no open tag in screen line %d", code, line.ID))
			}
			top := open[len(open)-1]
			if closeCodeFor(top) != code {
				panic(fmt.Sprintf("display: close code %d does not match open code %d in screen line %d", code, top, line.ID))
			}
			open = open[:len(open)-1]
		}
	}

	if len(open) > 0 {
		panic(fmt.Sprintf("display: %d unclosed tags in screen line %d", len(open), line.ID))
	}
	if textLen := int32(utf8.RuneCountInString(line.LineText)); sum != textLen {
		panic(fmt.Sprintf("display: length prefixes sum to %d but text has %d units in screen line %d", sum, textLen, line.ID))
	}
	if len(line.TagCodes) == 0 {
		panic(fmt.Sprintf("display: empty tag stream in screen line %d", line.ID))
	}
}

// closeCodeFor returns the close code paired with an open code.
func closeCodeFor(openCode int32) int32 {
	return openCode - 1
}
