// Package textbuf provides the line-oriented text storage consumed by the
// display layer. A Buffer splits source text into lines while preserving
// each line's original ending, and serves lines and ending kinds by row.
package textbuf
