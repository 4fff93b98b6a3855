// This go-dsv package offers tools for reading and writing delimited text
// (comma, semicolon or tab separated values). It assembles multiline quoted
// records, resolves header names with renaming and alias support, provides
// flexible record representations like maps, JSON, and Go structs, and
// ships pluggable line sources for readers, in-memory data, legacy code
// pages and locked files.
//
// The package facilitates tokenizing lines under several interacting
// escaping conventions (doubled quotes, optional backslash escapes,
// optional single-quote enclosure), deciding whether a quoted field
// continues onto the next physical line, and accessing fields by column
// name or position with systematic error handling.
//
// Typical use cases include ingesting exports from spreadsheets and legacy
// systems, converting delimited files to modern formats, and building
// applications that consume loosely specified CSV dialects.
package dsv

// Config is a struct containing the configuration for one parse session.
// The zero value is the default dialect: auto-detected separator, headers
// present, double-quote enclosure enabled and everything else disabled.
//
// A Config is evaluated once when a session is created. Changing it
// afterwards has no effect on the running session.
type Config struct {
	Separator        rune                                // The field separator. 0 means auto-detect from the first line (';' or tab, falling back to ',').
	NoHeader         bool                                // If true the first record is data and column names are synthesized as Column1..ColumnN.
	NoEnclosure      bool                                // If true quoted fields are disabled entirely and quote characters are literal text.
	SingleQuotes     bool                                // If true ' encloses fields in addition to ".
	BackslashEscapes bool                                // If true \" inside a quoted field is an escaped literal quote.
	Multiline        bool                                // If true a quoted field may continue across physical lines.
	NewlineToken     string                              // The text joined between continued lines. Defaults to "\n".
	TrimSpaces       bool                                // If true leading and trailing whitespace is trimmed from unescaped values.
	HeaderEquals     func(a, b string) bool              // Header name comparison. Defaults to exact match.
	StrictHeaders    bool                                // If true duplicate header names are an error instead of being renamed.
	Aliases          []AliasGroup                        // Alternate name groups collapsed onto a single column each.
	SkipRows         int                                 // Number of leading physical lines to drop before parsing begins.
	SkipRow          func(line string, ordinal int) bool // Optional predicate dropping a physical line before tokenization.
	StrictColumns    bool                                // If true a record whose field count differs from the header count is an error.
	AllowMissing     bool                                // If true lookups of unknown column names return an empty value instead of an error.
}

// AliasGroup is a set of header names considered synonyms for one column.
// At most one name of the group may exist as a concrete header; the
// remaining names become secondary lookup keys for that column.
type AliasGroup []string
