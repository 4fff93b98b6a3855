package dsv

import (
	"sync"
)

const (
	quoteDouble = '"'
	quoteSingle = '\''
	escapeChar  = '\\'

	defaultSeparator    = ','
	defaultNewlineToken = "\n"
)

// text constrains the record representations the scanning core operates
// on: owning strings and borrowed byte views. The core restricts itself to
// length, byte indexing and conversions, so both representations run the
// exact same state machine.
type text interface {
	~string | ~[]byte
}

// dialect is the compiled quote and escape configuration of a session.
// The separator is not part of it: separators are resolved per session
// (auto-detection inspects the first line), while compiled dialects are
// interned process-wide and shared between sessions.
type dialect struct {
	quoting      bool
	singleQuote  bool
	backslash    bool
	multiline    bool
	newlineToken string
	trim         bool
}

// opener reports whether c opens a quoted field under this dialect.
func (d *dialect) opener(c byte) bool {
	if !d.quoting {
		return false
	}
	return c == quoteDouble || (d.singleQuote && c == quoteSingle)
}

type dialectKey struct {
	quoting      bool
	singleQuote  bool
	backslash    bool
	multiline    bool
	newlineToken string
	trim         bool
}

// dialectCache interns compiled dialects. Each distinct configuration
// tuple is populated once under the write lock; steady-state lookups take
// the read lock only.
var dialectCache = struct {
	sync.RWMutex
	known map[dialectKey]*dialect
}{known: make(map[dialectKey]*dialect)}

// compileDialect returns the shared compiled dialect for cfg.
func compileDialect(cfg *Config) *dialect {
	key := dialectKey{
		quoting:      !cfg.NoEnclosure,
		singleQuote:  cfg.SingleQuotes,
		backslash:    cfg.BackslashEscapes,
		multiline:    cfg.Multiline,
		newlineToken: cfg.NewlineToken,
		trim:         cfg.TrimSpaces,
	}
	if key.newlineToken == "" {
		key.newlineToken = defaultNewlineToken
	}
	dialectCache.RLock()
	d := dialectCache.known[key]
	dialectCache.RUnlock()
	if d != nil {
		return d
	}
	dialectCache.Lock()
	defer dialectCache.Unlock()
	if d := dialectCache.known[key]; d != nil {
		return d
	}
	d = &dialect{
		quoting:      key.quoting,
		singleQuote:  key.singleQuote,
		backslash:    key.backslash,
		multiline:    key.multiline,
		newlineToken: key.newlineToken,
		trim:         key.trim,
	}
	dialectCache.known[key] = d
	return d
}

// detectSeparator scans the first physical line for a separator: the first
// ';' or tab wins, falling back to ','.
func detectSeparator[T text](line T) byte {
	for i := 0; i < len(line); i++ {
		switch line[i] {
		case ';', '\t':
			return line[i]
		}
	}
	return defaultSeparator
}
