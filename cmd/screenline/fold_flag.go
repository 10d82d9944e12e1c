package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/dshills/screenline/internal/textbuf"
)

// foldList collects repeated -fold flags. Each value has the form
// "R1:C1-R2:C2" in 0-indexed buffer coordinates.
type foldList []textbuf.Range

// String implements flag.Value.
func (f *foldList) String() string {
	parts := make([]string, 0, len(*f))
	for _, r := range *f {
		parts = append(parts, fmt.Sprintf("%d:%d-%d:%d", r.Start.Row, r.Start.Column, r.End.Row, r.End.Column))
	}
	return strings.Join(parts, ",")
}

// Set implements flag.Value.
func (f *foldList) Set(value string) error {
	start, end, ok := strings.Cut(value, "-")
	if !ok {
		return fmt.Errorf("fold %q: expected R1:C1-R2:C2", value)
	}
	from, err := parsePoint(start)
	if err != nil {
		return fmt.Errorf("fold %q: %w", value, err)
	}
	to, err := parsePoint(end)
	if err != nil {
		return fmt.Errorf("fold %q: %w", value, err)
	}
	*f = append(*f, textbuf.NewRange(from, to))
	return nil
}

// parsePoint parses "row:column" into a buffer point.
func parsePoint(s string) (textbuf.Point, error) {
	rowPart, colPart, ok := strings.Cut(s, ":")
	if !ok {
		return textbuf.Point{}, fmt.Errorf("position %q: expected row:column", s)
	}
	row, err := strconv.Atoi(rowPart)
	if err != nil || row < 0 {
		return textbuf.Point{}, fmt.Errorf("position %q: invalid row", s)
	}
	col, err := strconv.Atoi(colPart)
	if err != nil || col < 0 {
		return textbuf.Point{}, fmt.Errorf("position %q: invalid column", s)
	}
	return textbuf.NewPoint(row, col), nil
}
