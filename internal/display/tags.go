package display

import (
	"strings"
	"sync"
)

// Flags identifies the decoration scopes applied to a run of rendered text.
type Flags uint16

// Decoration flags.
const (
	FlagNone                 Flags = 0
	FlagInvisibleCharacter   Flags = 1 << iota // Rendered invisible glyph
	FlagHardTab                                // Expanded tab character
	FlagLeadingWhitespace                      // Whitespace before the first printable character
	FlagTrailingWhitespace                     // Whitespace after the last printable character
	FlagLineEnding                             // End-of-line marker
	FlagIndentGuide                            // Indentation guide column
	FlagFold                                   // Fold placeholder glyph
)

// Has returns true if the flag set contains the given flag.
func (f Flags) Has(flag Flags) bool {
	return f&flag != 0
}

// With returns a new flag set with the given flag added.
func (f Flags) With(flag Flags) Flags {
	return f | flag
}

// Without returns a new flag set with the given flag removed.
func (f Flags) Without(flag Flags) Flags {
	return f &^ flag
}

// tagNameParts maps each single flag to its tag name fragment. Assembly order is
// canonical and fixed; changing it changes every emitted tag name.
var tagNameParts = []struct {
	flag Flags
	name string
}{
	{FlagInvisibleCharacter, "invisible-character"},
	{FlagHardTab, "hard-tab"},
	{FlagLeadingWhitespace, "leading-whitespace"},
	{FlagTrailingWhitespace, "trailing-whitespace"},
	{FlagLineEnding, "eol"},
	{FlagIndentGuide, "indent-guide"},
	{FlagFold, "fold-marker"},
}

var (
	tagNameMu    sync.RWMutex
	tagNameCache = map[Flags]string{}
)

// TagName returns the canonical tag name for the flag set: the names of all
// set flags in canonical order, space-separated. The mapping is pure and
// memoized process-wide.
func (f Flags) TagName() string {
	tagNameMu.RLock()
	name, ok := tagNameCache[f]
	tagNameMu.RUnlock()
	if ok {
		return name
	}

	var parts []string
	for _, p := range tagNameParts {
		if f.Has(p.flag) {
			parts = append(parts, p.name)
		}
	}
	name = strings.Join(parts, " ")

	tagNameMu.Lock()
	tagNameCache[f] = name
	tagNameMu.Unlock()
	return name
}

// TagRegistry issues stable integer codes for tag names. Open and close codes
// are negative so consumers can distinguish them from positive length
// prefixes by sign; open codes are odd, close codes even.
type TagRegistry struct {
	mu        sync.RWMutex
	idsByName map[string]int
	namesByID []string
}

// NewTagRegistry creates an empty tag registry.
func NewTagRegistry() *TagRegistry {
	return &TagRegistry{idsByName: make(map[string]int)}
}

// CodeForOpenTag returns the open code for a tag name. Codes are stable for
// the lifetime of the registry.
func (r *TagRegistry) CodeForOpenTag(name string) int32 {
	return -int32(2*r.idForName(name) + 1)
}

// CodeForCloseTag returns the close code for a tag name.
func (r *TagRegistry) CodeForCloseTag(name string) int32 {
	return -int32(2*r.idForName(name) + 2)
}

// TagForCode returns the tag name for an open or close code.
func (r *TagRegistry) TagForCode(code int32) (string, bool) {
	var id int
	switch {
	case IsOpenTagCode(code):
		id = int(-code-1) / 2
	case IsCloseTagCode(code):
		id = int(-code-2) / 2
	default:
		return "", false
	}

	r.mu.RLock()
	defer r.mu.RUnlock()
	if id < 0 || id >= len(r.namesByID) {
		return "", false
	}
	return r.namesByID[id], true
}

// idForName returns the sequential id for a tag name, registering it on
// first use.
func (r *TagRegistry) idForName(name string) int {
	r.mu.RLock()
	id, ok := r.idsByName[name]
	r.mu.RUnlock()
	if ok {
		return id
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if id, ok := r.idsByName[name]; ok {
		return id
	}
	id = len(r.namesByID)
	r.idsByName[name] = id
	r.namesByID = append(r.namesByID, name)
	return id
}

// IsOpenTagCode returns true if the code denotes a tag opening.
func IsOpenTagCode(code int32) bool {
	return code < 0 && (-code)%2 == 1
}

// IsCloseTagCode returns true if the code denotes a tag closing.
func IsCloseTagCode(code int32) bool {
	return code < 0 && (-code)%2 == 0
}
