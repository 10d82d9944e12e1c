package textbuf

import (
	"fmt"
	"math"
)

// Point represents a (row, column) position. Both coordinates are 0-indexed
// and compare lexicographically: row first, then column. Columns are counted
// in rune units.
type Point struct {
	Row    int
	Column int
}

// InfinitePoint is a sentinel greater than any finite point.
var InfinitePoint = Point{Row: math.MaxInt, Column: math.MaxInt}

// NewPoint creates a point from a row and column.
func NewPoint(row, column int) Point {
	return Point{Row: row, Column: column}
}

// String returns a human-readable representation of the point.
func (p Point) String() string {
	return fmt.Sprintf("(%d:%d)", p.Row, p.Column)
}

// Compare returns -1 if p < other, 0 if p == other, 1 if p > other.
func (p Point) Compare(other Point) int {
	if p.Row < other.Row {
		return -1
	}
	if p.Row > other.Row {
		return 1
	}
	if p.Column < other.Column {
		return -1
	}
	if p.Column > other.Column {
		return 1
	}
	return 0
}

// Before returns true if p comes before other.
func (p Point) Before(other Point) bool {
	return p.Compare(other) < 0
}

// After returns true if p comes after other.
func (p Point) After(other Point) bool {
	return p.Compare(other) > 0
}

// IsZero returns true if this is the zero point (0:0).
func (p Point) IsZero() bool {
	return p.Row == 0 && p.Column == 0
}

// MinPoint returns the lesser of two points.
func MinPoint(a, b Point) Point {
	if a.Before(b) {
		return a
	}
	return b
}

// MaxPoint returns the greater of two points.
func MaxPoint(a, b Point) Point {
	if a.After(b) {
		return a
	}
	return b
}
