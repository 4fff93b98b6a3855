package dsv

import (
	"fmt"
	"strconv"
	"strings"
)

// emptyHeaderName replaces blank or whitespace-only header names during
// the rename pass.
const emptyHeaderName = "Empty"

// Header is the resolved column table of one session: the ordered column
// names after renaming plus the lookup keys mapping names and alias names
// onto column positions. A Header is immutable once resolved and is shared
// by every record of its session.
type Header struct {
	names  []string
	index  map[string]int // exact-match lookup; nil when a comparer is set
	keys   []headerKey    // ordered lookup keys for comparer-based search
	equals func(a, b string) bool
}

type headerKey struct {
	name string
	pos  int
}

// resolveHeader builds the session header from the unescaped names of the
// first logical record (or from synthesized names). It applies the rename
// pass or duplicate detection, then binds alias groups.
func resolveHeader(names []string, cfg *Config) (*Header, error) {
	h := &Header{equals: cfg.HeaderEquals}
	if cfg.StrictHeaders {
		h.names = append([]string{}, names...)
	} else {
		h.names = renameHeaders(names, h.equals)
	}
	if h.equals == nil {
		h.index = make(map[string]int, len(h.names))
		for i, name := range h.names {
			if _, dup := h.index[name]; dup {
				return nil, newError("dsv-header-resolve-1", fmt.Errorf("duplicate header %q at position %d: %w", name, i+1, ErrDuplicateHeader))
			}
			h.index[name] = i
		}
	} else {
		for i, name := range h.names {
			for j := 0; j < i; j++ {
				if h.equals(h.names[j], name) {
					return nil, newError("dsv-header-resolve-2", fmt.Errorf("duplicate header %q at position %d: %w", name, i+1, ErrDuplicateHeader))
				}
			}
			h.keys = append(h.keys, headerKey{name: name, pos: i})
		}
	}
	if err := h.bindAliases(cfg.Aliases); err != nil {
		return nil, err
	}
	return h, nil
}

// synthesizeHeader builds a header of n columns named Column1..ColumnN,
// used when the input carries no header record.
func synthesizeHeader(n int, cfg *Config) (*Header, error) {
	names := make([]string, n)
	for i := range names {
		names[i] = "Column" + strconv.Itoa(i+1)
	}
	debugf("Synthesized %d column names", n)
	return resolveHeader(names, cfg)
}

// renameHeaders walks the names left to right, replaces blank names with
// "Empty" and gives every name equal to an earlier final name the lowest
// free numeric suffix starting at 2. The final names are what lookups and
// callers see; renaming is deterministic for a given input.
func renameHeaders(names []string, equals func(a, b string) bool) []string {
	final := make([]string, len(names))
	for i, name := range names {
		if strings.TrimSpace(name) == "" {
			name = emptyHeaderName
		}
		if containsName(final[:i], name, equals) {
			base := name
			for n := 2; ; n++ {
				candidate := base + strconv.Itoa(n)
				if !containsName(final[:i], candidate, equals) {
					name = candidate
					break
				}
			}
			debugf("Renamed duplicate header %q to %q at position %d", names[i], name, i+1)
		}
		final[i] = name
	}
	return final
}

func containsName(names []string, name string, equals func(a, b string) bool) bool {
	for _, n := range names {
		if equals == nil {
			if n == name {
				return true
			}
		} else if equals(n, name) {
			return true
		}
	}
	return false
}

// bindAliases collapses each alias group onto the single concrete header
// it matches. Groups matching nothing are ignored; groups matching more
// than one concrete header fail the session.
func (h *Header) bindAliases(groups []AliasGroup) error {
	for _, group := range groups {
		found := -1
		matches := 0
		for _, alias := range group {
			pos := h.posAmongNames(alias)
			if pos < 0 {
				continue
			}
			matches++
			if matches > 1 {
				return newError("dsv-header-resolve-3", fmt.Errorf("alias group %v matches more than one header: %w", []string(group), ErrMultipleAliasMatches))
			}
			found = pos
		}
		if found < 0 {
			continue
		}
		for _, alias := range group {
			if h.posAmongNames(alias) == found {
				continue
			}
			if h.index != nil {
				if _, exists := h.index[alias]; !exists {
					h.index[alias] = found
				}
				continue
			}
			h.keys = append(h.keys, headerKey{name: alias, pos: found})
		}
		debugf("Alias group %v bound to column %d (%s)", []string(group), found+1, h.names[found])
	}
	return nil
}

// posAmongNames searches the concrete header names only, never alias keys.
func (h *Header) posAmongNames(name string) int {
	for i, n := range h.names {
		if h.equals == nil {
			if n == name {
				return i
			}
		} else if h.equals(n, name) {
			return i
		}
	}
	return -1
}

// Returns a slice of all the column names, after renaming.
func (h *Header) Names() []string {
	names := make([]string, len(h.names))
	copy(names, h.names)
	return names
}

// Returns the number of columns.
func (h *Header) Count() int {
	return len(h.names)
}

// Returns the column position of a name or -1 if not found. Alias names
// resolve to the position of their group's concrete header.
func (h *Header) Pos(name string) int {
	if h.index != nil {
		if pos, ok := h.index[name]; ok {
			return pos
		}
		return -1
	}
	for _, k := range h.keys {
		if h.equals(k.name, name) {
			return k.pos
		}
	}
	return -1
}

// Has reports whether name resolves to a column.
func (h *Header) Has(name string) bool {
	return h.Pos(name) >= 0
}

// Name returns the column name at pos, or an empty string when pos is out
// of range.
func (h *Header) Name(pos int) string {
	if pos < 0 || pos >= len(h.names) {
		return ""
	}
	return h.names[pos]
}
