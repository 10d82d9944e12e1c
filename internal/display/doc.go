// Package display renders buffer rows into screen lines.
//
// A Layer owns the rendering configuration (tab length, invisibles, fold
// character, indent guides, soft wrap), the fold set, and the tag-code
// registry. BuildScreenLines transforms a range of screen rows into
// ScreenLine values: the rendered text plus a flat stream of tag codes
// marking where decoration scopes open and close. Folds and soft wraps are
// applied through hunks computed from the layer's layout of the buffer.
package display
