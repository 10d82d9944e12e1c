package display

import (
	"testing"

	"github.com/dshills/screenline/internal/textbuf"
)

func TestLayerDefaults(t *testing.T) {
	l := NewLayer(textbuf.NewBufferFromString(""))
	if l.TabLength() != DefaultTabLength {
		t.Errorf("expected tab length %d, got %d", DefaultTabLength, l.TabLength())
	}
	if l.FoldCharacter() != DefaultFoldCharacter {
		t.Errorf("expected fold character %q, got %q", DefaultFoldCharacter, l.FoldCharacter())
	}

	// Invalid option values fall back to defaults.
	l = NewLayer(textbuf.NewBufferFromString(""), WithTabLength(0), WithFoldCharacter(""))
	if l.TabLength() != DefaultTabLength {
		t.Errorf("expected tab length %d, got %d", DefaultTabLength, l.TabLength())
	}
	if l.FoldCharacter() != DefaultFoldCharacter {
		t.Errorf("expected fold character %q, got %q", DefaultFoldCharacter, l.FoldCharacter())
	}
}

func TestInvisiblesTruncatedToOneRune(t *testing.T) {
	l := NewLayer(textbuf.NewBufferFromString(""), WithInvisibles(Invisibles{Space: "··", Tab: "»»"}))
	if l.invisibles.Space != "·" {
		t.Errorf("expected space invisible truncated to %q, got %q", "·", l.invisibles.Space)
	}
	if l.invisibles.Tab != "»" {
		t.Errorf("expected tab invisible truncated to %q, got %q", "»", l.invisibles.Tab)
	}
}

func TestScreenLineCount(t *testing.T) {
	tests := []struct {
		name string
		text string
		opts []Option
		want int
	}{
		{"single line", "abc", nil, 1},
		{"two lines", "abc\ndef", nil, 2},
		{"trailing newline", "abc\n", nil, 2},
		{"empty buffer", "", nil, 1},
		{"soft wrapped", "aaaa bbbb cccc", []Option{WithSoftWrap(5, 0)}, 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l := NewLayer(textbuf.NewBufferFromString(tt.text), tt.opts...)
			if got := l.ScreenLineCount(); got != tt.want {
				t.Errorf("expected %d screen lines, got %d", tt.want, got)
			}
		})
	}
}

func TestScreenLineCountWithFold(t *testing.T) {
	l := NewLayer(textbuf.NewBufferFromString("a\nb\nc\nd"))
	if _, err := l.FoldBufferRange(textbuf.NewRange(textbuf.NewPoint(0, 1), textbuf.NewPoint(2, 0))); err != nil {
		t.Fatalf("FoldBufferRange: %v", err)
	}
	// Rows 0-2 collapse into one screen line; row 3 remains.
	if got := l.ScreenLineCount(); got != 2 {
		t.Errorf("expected 2 screen lines, got %d", got)
	}
}

func TestTranslateScreenPosition(t *testing.T) {
	l := NewLayer(textbuf.NewBufferFromString("aaaa bbbb"), WithSoftWrap(5, 0))

	tests := []struct {
		screen textbuf.Point
		want   textbuf.Point
	}{
		{textbuf.NewPoint(0, 0), textbuf.NewPoint(0, 0)},
		{textbuf.NewPoint(0, 3), textbuf.NewPoint(0, 3)},
		{textbuf.NewPoint(1, 0), textbuf.NewPoint(0, 5)},
		{textbuf.NewPoint(1, 2), textbuf.NewPoint(0, 7)},
	}

	for _, tt := range tests {
		if got := l.TranslateScreenPosition(tt.screen); got != tt.want {
			t.Errorf("TranslateScreenPosition(%s): expected %s, got %s", tt.screen, tt.want, got)
		}
	}
}

func TestTranslateScreenPositionWithTab(t *testing.T) {
	l := NewLayer(textbuf.NewBufferFromString("\tx"), WithTabLength(4))

	// Screen columns inside the expanded tab resolve to the tab itself.
	for col := 0; col < 4; col++ {
		if got := l.TranslateScreenPosition(textbuf.NewPoint(0, col)); got != textbuf.NewPoint(0, 0) {
			t.Errorf("column %d: expected (0:0), got %s", col, got)
		}
	}
	if got := l.TranslateScreenPosition(textbuf.NewPoint(0, 4)); got != textbuf.NewPoint(0, 1) {
		t.Errorf("column 4: expected (0:1), got %s", got)
	}
}

func TestTranslateScreenPositionAcrossFold(t *testing.T) {
	l := NewLayer(textbuf.NewBufferFromString("abc\ndef\nghi"))
	if _, err := l.FoldBufferRange(textbuf.NewRange(textbuf.NewPoint(0, 1), textbuf.NewPoint(2, 1))); err != nil {
		t.Fatalf("FoldBufferRange: %v", err)
	}

	// Screen text is "a⋯hi": column 2 is the 'h' at buffer (2:1).
	if got := l.TranslateScreenPosition(textbuf.NewPoint(0, 2)); got != textbuf.NewPoint(2, 1) {
		t.Errorf("expected (2:1), got %s", got)
	}
}

func TestScreenRowForBufferRow(t *testing.T) {
	l := NewLayer(textbuf.NewBufferFromString("aaaa bbbb\nxyz"), WithSoftWrap(5, 0))

	if got := l.ScreenRowForBufferRow(0); got != 0 {
		t.Errorf("buffer row 0: expected screen row 0, got %d", got)
	}
	// Row 0 wraps into two screen lines, so row 1 starts at screen row 2.
	if got := l.ScreenRowForBufferRow(1); got != 2 {
		t.Errorf("buffer row 1: expected screen row 2, got %d", got)
	}
}

func TestScreenRowForBufferRowInsideFold(t *testing.T) {
	l := NewLayer(textbuf.NewBufferFromString("a\nb\nc\nd"))
	if _, err := l.FoldBufferRange(textbuf.NewRange(textbuf.NewPoint(0, 1), textbuf.NewPoint(2, 0))); err != nil {
		t.Fatalf("FoldBufferRange: %v", err)
	}

	// Row 1 is hidden inside the fold; it reports the collapsing group.
	if got := l.ScreenRowForBufferRow(1); got != 0 {
		t.Errorf("expected screen row 0, got %d", got)
	}
	if got := l.ScreenRowForBufferRow(3); got != 1 {
		t.Errorf("expected screen row 1, got %d", got)
	}
}

func TestHunksInNewRange(t *testing.T) {
	l := NewLayer(textbuf.NewBufferFromString("  aaaa"), WithTabLength(2), WithSoftWrap(4, 0))

	hunks := l.HunksInNewRange(textbuf.NewPoint(0, 0), textbuf.NewPoint(2, 0))
	if len(hunks) != 1 {
		t.Fatalf("expected 1 hunk, got %d", len(hunks))
	}
	h := hunks[0]
	if !h.IsSoftWrap() {
		t.Errorf("expected a soft wrap, got %+v", h)
	}
	if h.OldStart != textbuf.NewPoint(0, 4) {
		t.Errorf("expected wrap at (0:4), got %s", h.OldStart)
	}
	if h.NewEnd != textbuf.NewPoint(1, 2) {
		t.Errorf("expected continuation indent (1:2), got %s", h.NewEnd)
	}
}

func TestHunksInNewRangeOrdering(t *testing.T) {
	l := NewLayer(textbuf.NewBufferFromString("abcdef\nxxxx yyyy"), WithSoftWrap(5, 0))
	if _, err := l.FoldBufferRange(textbuf.NewRange(textbuf.NewPoint(0, 1), textbuf.NewPoint(0, 4))); err != nil {
		t.Fatalf("FoldBufferRange: %v", err)
	}

	hunks := l.HunksInNewRange(textbuf.NewPoint(0, 0), textbuf.NewPoint(10, 0))
	if len(hunks) != 2 {
		t.Fatalf("expected 2 hunks, got %d", len(hunks))
	}
	for i := 1; i < len(hunks); i++ {
		if hunks[i].OldStart.Before(hunks[i-1].OldStart) {
			t.Errorf("hunks out of order: %s before %s", hunks[i].OldStart, hunks[i-1].OldStart)
		}
	}
}

func TestHunksInNewRangeWindow(t *testing.T) {
	l := NewLayer(textbuf.NewBufferFromString("aaaa bbbb cccc dddd"), WithSoftWrap(5, 0))

	all := l.HunksInNewRange(textbuf.NewPoint(0, 0), textbuf.NewPoint(10, 0))
	if len(all) != 3 {
		t.Fatalf("expected 3 wraps, got %d", len(all))
	}

	// Only the wrap ending screen row 1 lands in [1, 2).
	window := l.HunksInNewRange(textbuf.NewPoint(1, 0), textbuf.NewPoint(2, 0))
	if len(window) != 1 {
		t.Fatalf("expected 1 hunk in window, got %d", len(window))
	}
	if window[0].OldStart != all[1].OldStart {
		t.Errorf("expected second wrap, got %s", window[0].OldStart)
	}
}

func TestFoldManagement(t *testing.T) {
	l := NewLayer(textbuf.NewBufferFromString("abc\ndef"))

	id, err := l.FoldBufferRange(textbuf.NewRange(textbuf.NewPoint(0, 0), textbuf.NewPoint(1, 1)))
	if err != nil {
		t.Fatalf("FoldBufferRange: %v", err)
	}
	if l.FoldCount() != 1 {
		t.Errorf("expected 1 fold, got %d", l.FoldCount())
	}

	if !l.DestroyFold(id) {
		t.Error("expected DestroyFold to succeed")
	}
	if l.DestroyFold(id) {
		t.Error("expected second DestroyFold to fail")
	}
	if l.FoldCount() != 0 {
		t.Errorf("expected 0 folds, got %d", l.FoldCount())
	}
}

func TestFoldEmptyRangeRejected(t *testing.T) {
	l := NewLayer(textbuf.NewBufferFromString("abc"))
	if _, err := l.FoldBufferRange(textbuf.NewRange(textbuf.NewPoint(0, 1), textbuf.NewPoint(0, 1))); err != ErrEmptyFoldRange {
		t.Errorf("expected ErrEmptyFoldRange, got %v", err)
	}
	// A range that clamps to nothing is also empty.
	if _, err := l.FoldBufferRange(textbuf.NewRange(textbuf.NewPoint(5, 0), textbuf.NewPoint(9, 0))); err != ErrEmptyFoldRange {
		t.Errorf("expected ErrEmptyFoldRange after clamping, got %v", err)
	}
}

func TestOverlappingFoldsMerge(t *testing.T) {
	l := NewLayer(textbuf.NewBufferFromString("abcdefgh"))
	if _, err := l.FoldBufferRange(textbuf.NewRange(textbuf.NewPoint(0, 1), textbuf.NewPoint(0, 4))); err != nil {
		t.Fatalf("FoldBufferRange: %v", err)
	}
	if _, err := l.FoldBufferRange(textbuf.NewRange(textbuf.NewPoint(0, 3), textbuf.NewPoint(0, 6))); err != nil {
		t.Fatalf("FoldBufferRange: %v", err)
	}

	lines := buildAll(t, l)
	if lines[0].LineText != "a⋯gh" {
		t.Errorf("expected merged fold %q, got %q", "a⋯gh", lines[0].LineText)
	}
}

func TestDestroyAllFolds(t *testing.T) {
	l := NewLayer(textbuf.NewBufferFromString("abcdef"))
	l.FoldBufferRange(textbuf.NewRange(textbuf.NewPoint(0, 0), textbuf.NewPoint(0, 2)))
	l.FoldBufferRange(textbuf.NewRange(textbuf.NewPoint(0, 3), textbuf.NewPoint(0, 5)))
	l.DestroyAllFolds()
	if l.FoldCount() != 0 {
		t.Errorf("expected 0 folds, got %d", l.FoldCount())
	}

	lines := buildAll(t, l)
	if lines[0].LineText != "abcdef" {
		t.Errorf("expected unfolded text, got %q", lines[0].LineText)
	}
}

func TestEOLInvisible(t *testing.T) {
	l := NewLayer(textbuf.NewBufferFromString(""), WithInvisibles(Invisibles{EOL: "¬", CR: "¤"}))

	tests := []struct {
		ending textbuf.LineEnding
		want   string
	}{
		{textbuf.LineEndingLF, "¬"},
		{textbuf.LineEndingCR, "¤"},
		{textbuf.LineEndingCRLF, "¤¬"},
		{textbuf.LineEndingNone, ""},
	}
	for _, tt := range tests {
		if got := l.EOLInvisible(tt.ending); got != tt.want {
			t.Errorf("EOLInvisible(%v): expected %q, got %q", tt.ending, tt.want, got)
		}
	}
}

func TestLeadingWhitespaceLengthForSurroundingLines(t *testing.T) {
	l := NewLayer(textbuf.NewBufferFromString("\tx\n\n    yyyy\n"), WithTabLength(4))

	// Row 1 is empty; above has a tab (width 4), below has 4 spaces.
	if got := l.LeadingWhitespaceLengthForSurroundingLines(1); got != 4 {
		t.Errorf("expected 4, got %d", got)
	}

	// The scan skips empty lines to the nearest non-empty neighbors.
	l = NewLayer(textbuf.NewBufferFromString("  a\n\n\n      b"), WithTabLength(2))
	if got := l.LeadingWhitespaceLengthForSurroundingLines(2); got != 6 {
		t.Errorf("expected 6, got %d", got)
	}
}

func TestSoftWrapAtWordBoundary(t *testing.T) {
	l := NewLayer(textbuf.NewBufferFromString("aaa bbb ccc"), WithSoftWrap(5, 0))
	lines := buildAll(t, l)

	want := []string{"aaa ", "bbb ", "ccc"}
	if len(lines) != len(want) {
		t.Fatalf("expected %d screen lines, got %d", len(want), len(lines))
	}
	for i, line := range lines {
		if line.LineText != want[i] {
			t.Errorf("line %d: expected %q, got %q", i, want[i], line.LineText)
		}
	}
}

func TestSoftWrapHardBreakWithoutBoundary(t *testing.T) {
	l := NewLayer(textbuf.NewBufferFromString("abcdefgh"), WithSoftWrap(3, 0))
	lines := buildAll(t, l)

	want := []string{"abc", "def", "gh"}
	if len(lines) != len(want) {
		t.Fatalf("expected %d screen lines, got %d", len(want), len(lines))
	}
	for i, line := range lines {
		if line.LineText != want[i] {
			t.Errorf("line %d: expected %q, got %q", i, want[i], line.LineText)
		}
	}
}

func TestSoftWrapHangingIndent(t *testing.T) {
	l := NewLayer(textbuf.NewBufferFromString("  abcdef"), WithTabLength(2), WithSoftWrap(4, 2))
	lines := buildAll(t, l)

	if len(lines) < 2 {
		t.Fatalf("expected wrapped output, got %d lines", len(lines))
	}
	// Continuations indent by leading whitespace (2) plus hanging indent (2),
	// which meets the wrap column, so the indent collapses to 0.
	if lines[1].LineText[0] == ' ' {
		t.Errorf("expected no continuation indent, got %q", lines[1].LineText)
	}

	l = NewLayer(textbuf.NewBufferFromString("  abcdef"), WithTabLength(2), WithSoftWrap(6, 2))
	lines = buildAll(t, l)
	if len(lines) < 2 {
		t.Fatalf("expected wrapped output, got %d lines", len(lines))
	}
	if lines[1].LineText[:4] != "    " {
		t.Errorf("expected 4-column continuation indent, got %q", lines[1].LineText)
	}
}
