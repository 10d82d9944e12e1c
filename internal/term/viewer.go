// Package term displays rendered screen lines in a terminal.
package term

import (
	"strings"

	"github.com/gdamore/tcell/v2"
	"github.com/mattn/go-runewidth"

	"github.com/dshills/screenline/internal/display"
)

// Viewer is an interactive pager over a display layer. Decoration tags map
// to terminal styles so whitespace, folds, and guides stay visible.
type Viewer struct {
	screen tcell.Screen
	layer  *display.Layer
	topRow int
}

// NewViewer creates a viewer for the layer on a new terminal screen.
func NewViewer(layer *display.Layer) (*Viewer, error) {
	screen, err := tcell.NewScreen()
	if err != nil {
		return nil, err
	}
	return &Viewer{screen: screen, layer: layer}, nil
}

// Run takes over the terminal until the user quits with q, Escape, or
// Ctrl-C.
func (v *Viewer) Run() error {
	if err := v.screen.Init(); err != nil {
		return err
	}
	defer v.screen.Fini()

	v.draw()
	for {
		switch ev := v.screen.PollEvent().(type) {
		case *tcell.EventResize:
			v.screen.Sync()
			v.draw()
		case *tcell.EventKey:
			if v.handleKey(ev) {
				return nil
			}
			v.draw()
		}
	}
}

// handleKey applies a key event and reports whether the viewer should quit.
func (v *Viewer) handleKey(ev *tcell.EventKey) bool {
	_, height := v.screen.Size()
	page := height - 1
	if page < 1 {
		page = 1
	}

	switch ev.Key() {
	case tcell.KeyEscape, tcell.KeyCtrlC:
		return true
	case tcell.KeyUp:
		v.scrollBy(-1)
	case tcell.KeyDown:
		v.scrollBy(1)
	case tcell.KeyPgUp:
		v.scrollBy(-page)
	case tcell.KeyPgDn:
		v.scrollBy(page)
	case tcell.KeyHome:
		v.topRow = 0
	case tcell.KeyEnd:
		v.scrollBy(v.layer.ScreenLineCount())
	case tcell.KeyRune:
		switch ev.Rune() {
		case 'q':
			return true
		case 'k':
			v.scrollBy(-1)
		case 'j':
			v.scrollBy(1)
		case 'g':
			v.topRow = 0
		case 'G':
			v.scrollBy(v.layer.ScreenLineCount())
		}
	}
	return false
}

// scrollBy moves the viewport, clamping so the last screen line stays
// reachable.
func (v *Viewer) scrollBy(delta int) {
	_, height := v.screen.Size()
	maxTop := v.layer.ScreenLineCount() - (height - 1)
	if maxTop < 0 {
		maxTop = 0
	}

	v.topRow += delta
	if v.topRow > maxTop {
		v.topRow = maxTop
	}
	if v.topRow < 0 {
		v.topRow = 0
	}
}

// draw renders the visible screen lines plus a status line.
func (v *Viewer) draw() {
	v.screen.Clear()
	width, height := v.screen.Size()
	if height < 2 {
		v.screen.Show()
		return
	}

	count := v.layer.ScreenLineCount()
	end := v.topRow + height - 1
	if end > count {
		end = count
	}

	lines := v.layer.BuildScreenLines(v.topRow, end)
	for i, line := range lines {
		v.drawLine(i, width, line)
	}
	v.drawStatus(height-1, width, count)
	v.screen.Show()
}

// drawLine renders one screen line with per-segment styles.
func (v *Viewer) drawLine(y, width int, line display.ScreenLine) {
	x := 0
	for _, seg := range v.layer.Segments(line) {
		style := styleForTag(seg.Tag)
		for _, r := range seg.Text {
			if x >= width {
				return
			}
			v.screen.SetContent(x, y, r, nil, style)
			x += runewidth.RuneWidth(r)
		}
	}
}

// drawStatus renders the position indicator on the bottom row.
func (v *Viewer) drawStatus(y, width, count int) {
	status := statusText(v.topRow, count)
	style := tcell.StyleDefault.Reverse(true)
	x := 0
	for _, r := range status {
		if x >= width {
			break
		}
		v.screen.SetContent(x, y, r, nil, style)
		x += runewidth.RuneWidth(r)
	}
	for ; x < width; x++ {
		v.screen.SetContent(x, y, ' ', nil, style)
	}
}

// statusText formats the viewport position for the status line.
func statusText(topRow, count int) string {
	var sb strings.Builder
	sb.WriteString(" screenline  ")
	sb.WriteString("row ")
	sb.WriteString(itoa(topRow + 1))
	sb.WriteString("/")
	sb.WriteString(itoa(count))
	sb.WriteString("  q to quit")
	return sb.String()
}

// itoa avoids pulling fmt into the draw path.
func itoa(n int) string {
	if n == 0 {
		return "0"
	}
	var buf [20]byte
	i := len(buf)
	for n > 0 {
		i--
		buf[i] = byte('0' + n%10)
		n /= 10
	}
	return string(buf[i:])
}

// styleForTag maps a decoration tag name to a terminal style. Compound tags
// match on their most specific part.
func styleForTag(tag string) tcell.Style {
	style := tcell.StyleDefault
	if tag == "" {
		return style
	}
	switch {
	case strings.Contains(tag, "fold-marker"):
		return style.Foreground(tcell.ColorYellow).Bold(true)
	case strings.Contains(tag, "trailing-whitespace"):
		if strings.Contains(tag, "invisible-character") {
			return style.Foreground(tcell.ColorRed).Dim(true)
		}
		return style.Background(tcell.ColorDarkRed)
	case strings.Contains(tag, "eol"):
		return style.Foreground(tcell.ColorTeal).Dim(true)
	case strings.Contains(tag, "invisible-character"):
		return style.Foreground(tcell.ColorTeal).Dim(true)
	case strings.Contains(tag, "indent-guide"):
		return style.Foreground(tcell.ColorGray).Dim(true)
	case strings.Contains(tag, "leading-whitespace"):
		return style.Dim(true)
	default:
		return style
	}
}
