package display

import (
	"errors"
	"sort"
	"unicode/utf8"

	"github.com/dshills/screenline/internal/textbuf"
)

// Errors returned by fold operations.
var (
	ErrEmptyFoldRange = errors.New("fold range is empty")
)

// FoldID identifies a fold created by FoldBufferRange.
type FoldID uint64

// FoldBufferRange collapses the buffer range to the fold character. The
// range is clamped to the buffer's extent; an empty range (after clamping)
// is rejected.
func (l *Layer) FoldBufferRange(r textbuf.Range) (FoldID, error) {
	r = textbuf.NewRange(l.clampPoint(r.Start), l.clampPoint(r.End))
	if r.IsEmpty() {
		return 0, ErrEmptyFoldRange
	}

	l.foldMu.Lock()
	defer l.foldMu.Unlock()
	l.nextFoldID++
	id := l.nextFoldID
	l.folds[id] = r
	return id, nil
}

// DestroyFold removes a fold. It returns false if the fold does not exist.
func (l *Layer) DestroyFold(id FoldID) bool {
	l.foldMu.Lock()
	defer l.foldMu.Unlock()
	if _, ok := l.folds[id]; !ok {
		return false
	}
	delete(l.folds, id)
	return true
}

// DestroyAllFolds removes every fold.
func (l *Layer) DestroyAllFolds() {
	l.foldMu.Lock()
	defer l.foldMu.Unlock()
	clear(l.folds)
}

// FoldCount returns the number of live folds.
func (l *Layer) FoldCount() int {
	l.foldMu.RLock()
	defer l.foldMu.RUnlock()
	return len(l.folds)
}

// mergedFoldRanges returns the fold set as disjoint ranges in buffer order.
// Overlapping and touching folds merge into one collapsed region.
func (l *Layer) mergedFoldRanges() []textbuf.Range {
	l.foldMu.RLock()
	ranges := make([]textbuf.Range, 0, len(l.folds))
	for _, r := range l.folds {
		ranges = append(ranges, r)
	}
	l.foldMu.RUnlock()

	if len(ranges) < 2 {
		return ranges
	}

	sort.Slice(ranges, func(i, j int) bool {
		return ranges[i].Compare(ranges[j]) < 0
	})

	merged := ranges[:1]
	for _, r := range ranges[1:] {
		last := &merged[len(merged)-1]
		if !r.Start.After(last.End) {
			last.End = textbuf.MaxPoint(last.End, r.End)
		} else {
			merged = append(merged, r)
		}
	}
	return merged
}

// clampPoint clamps a point to a valid buffer position.
func (l *Layer) clampPoint(p textbuf.Point) textbuf.Point {
	lastRow := l.buffer.LineCount() - 1
	if p.Row < 0 {
		return textbuf.Point{}
	}
	if p.Row > lastRow {
		p.Row = lastRow
		p.Column = utf8.RuneCountInString(l.buffer.LineForRow(lastRow))
		return p
	}
	if p.Column < 0 {
		p.Column = 0
	}
	if lineLen := utf8.RuneCountInString(l.buffer.LineForRow(p.Row)); p.Column > lineLen {
		p.Column = lineLen
	}
	return p
}
