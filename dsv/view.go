package dsv

import (
	"bytes"
	"fmt"
	"io"
)

/**
 *	################################################################
 *	#						View reader
 *	################################################################
 */

// ViewReader is the borrowing facade over the record-assembly machine: it
// parses an in-memory buffer and its rows reference windows of that buffer
// instead of copying field data. Only fields that need escape collapsing
// allocate. Multiline records stay borrowed as long as the buffer's own
// line breaks equal the configured newline token; otherwise the joined
// record falls back to an owned buffer.
//
// The buffer must not be modified while any RowView of the session is in
// use.
type ViewReader struct {
	cfg       Config
	d         *dialect
	s         *session[[]byte]
	header    *Header
	headerErr error
	resolved  bool
	pending   *RowView

	data []byte
	off  int

	lineStart     int // window of the line most recently pulled
	lineEnd       int
	prevLineStart int
	prevLineEnd   int
	recStart      int // window of the record being joined
	recEnd        int
	joining       bool
	owned         bool
}

// NewViewReader returns a ViewReader parsing data. The Config is copied;
// nil means the default dialect.
func NewViewReader(data []byte, cfg *Config) (*ViewReader, error) {
	v := &ViewReader{data: data}
	if cfg != nil {
		v.cfg = *cfg
	}
	v.d = compileDialect(&v.cfg)
	s, err := newSession(&v.cfg, v.d, v.pullLine, v.joinLines, func(line []byte) string { return string(line) })
	if err != nil {
		return nil, err
	}
	v.s = s
	return v, nil
}

// pullLine yields the next physical line as a window of the buffer.
func (v *ViewReader) pullLine() ([]byte, error) {
	if v.off >= len(v.data) {
		return nil, io.EOF
	}
	start := v.off
	end := start
	for end < len(v.data) && v.data[end] != '\n' {
		end++
	}
	lineEnd := end
	if end < len(v.data) {
		v.off = end + 1
		if lineEnd > start && v.data[lineEnd-1] == '\r' {
			lineEnd--
		}
	} else {
		v.off = end
	}
	v.prevLineStart, v.prevLineEnd = v.lineStart, v.lineEnd
	v.lineStart, v.lineEnd = start, lineEnd
	return v.data[start:lineEnd], nil
}

// joinLines grows the current record by one continuation line. While the
// bytes separating the two windows equal the newline token the join is a
// pure window extension; the first divergence (a \r\n break joined by a
// \n token, say) switches the record to an owned buffer for good.
func (v *ViewReader) joinLines(rec []byte, next []byte) []byte {
	if !v.joining {
		v.joining = true
		v.owned = false
		v.recStart, v.recEnd = v.prevLineStart, v.prevLineEnd
	}
	if !v.owned && string(v.data[v.recEnd:v.lineStart]) == v.d.newlineToken {
		v.recEnd = v.lineEnd
		return v.data[v.recStart:v.recEnd]
	}
	v.owned = true
	joined := make([]byte, 0, len(rec)+len(v.d.newlineToken)+len(next))
	joined = append(joined, rec...)
	joined = append(joined, v.d.newlineToken...)
	joined = append(joined, next...)
	return joined
}

func (v *ViewReader) nextRecord() ([]byte, []span, int, error) {
	v.joining = false
	return v.s.nextRecord()
}

// Header resolves and returns the session header, exactly like
// Reader.Header. Header names are owned strings; they never reference the
// buffer.
func (v *ViewReader) Header() (*Header, error) {
	if err := v.resolve(); err != nil {
		return nil, err
	}
	return v.header, nil
}

func (v *ViewReader) resolve() error {
	if v.resolved {
		return v.headerErr
	}
	v.resolved = true
	rec, spans, ordinal, err := v.nextRecord()
	if err == io.EOF {
		v.header, v.headerErr = resolveHeader(nil, &v.cfg)
		return v.headerErr
	}
	if err != nil {
		v.headerErr = err
		return err
	}
	if v.cfg.NoHeader {
		v.header, v.headerErr = synthesizeHeader(len(spans), &v.cfg)
		if v.headerErr == nil {
			v.pending = &RowView{view: v, raw: rec, spans: spans, ordinal: ordinal}
		}
		return v.headerErr
	}
	names := make([]string, len(spans))
	for i, sp := range spans {
		names[i] = string(v.fieldBytes(rec, sp))
	}
	debugf("Resolving header from record %d: %v", ordinal, names)
	v.header, v.headerErr = resolveHeader(names, &v.cfg)
	return v.headerErr
}

// Next returns the next record view. It returns io.EOF once the buffer is
// exhausted.
func (v *ViewReader) Next() (*RowView, error) {
	if err := v.resolve(); err != nil {
		return nil, err
	}
	if v.pending != nil {
		row := v.pending
		v.pending = nil
		return row, nil
	}
	rec, spans, ordinal, err := v.nextRecord()
	if err != nil {
		return nil, err
	}
	return &RowView{view: v, raw: rec, spans: spans, ordinal: ordinal}, nil
}

// Separator returns the session separator. For an auto-detecting session
// it returns 0 until the first record has been read.
func (v *ViewReader) Separator() rune {
	if !v.s.sepResolved {
		return 0
	}
	return rune(v.s.sep)
}

// fieldBytes unescapes one raw field window, borrowing when possible.
func (v *ViewReader) fieldBytes(rec []byte, sp span) []byte {
	raw := rec[sp.start:sp.end]
	var b []byte
	if bare, ok := bareSpan(raw, v.d); ok {
		b = raw[bare.start:bare.end]
	} else {
		b = unescapeInto(nil, raw, v.d)
	}
	if v.d.trim {
		b = bytes.TrimSpace(b)
	}
	return b
}

/**
 *	################################################################
 *	#						Row view
 *	################################################################
 */

// RowView is one logical record of a ViewReader session. Field accessors
// return windows of the parsed buffer whenever the field needs no escape
// collapsing; the window stays valid as long as the buffer does.
type RowView struct {
	view    *ViewReader
	raw     []byte
	spans   []span
	ordinal int

	values  [][]byte
	checked bool
	invalid error
}

// Ordinal returns the 1-based position of the record's first physical line
// among accepted lines.
func (row *RowView) Ordinal() int {
	return row.ordinal
}

// Raw returns the record text after continuation joins, before unescaping.
func (row *RowView) Raw() []byte {
	return row.raw
}

// ColumnCount returns the number of raw fields the record tokenized into.
func (row *RowView) ColumnCount() int {
	return len(row.spans)
}

// HasColumn reports whether name resolves to a column present in this
// record.
func (row *RowView) HasColumn(name string) bool {
	pos := row.view.header.Pos(name)
	return pos >= 0 && pos < len(row.spans)
}

func (row *RowView) validate() error {
	if row.checked {
		return row.invalid
	}
	row.checked = true
	if row.view.cfg.StrictColumns && len(row.spans) != row.view.header.Count() {
		row.invalid = newError("dsv-view-validate-1", fmt.Errorf("record %d has %d columns, header has %d: %w",
			row.ordinal, len(row.spans), row.view.header.Count(), ErrColumnCountMismatch))
	}
	return row.invalid
}

func (row *RowView) materialize() {
	if row.values != nil {
		return
	}
	values := make([][]byte, len(row.spans))
	for i, sp := range row.spans {
		values[i] = row.view.fieldBytes(row.raw, sp)
	}
	row.values = values
}

// Bytes returns the unescaped field at pos, borrowed from the buffer when
// no escape collapsing was needed.
func (row *RowView) Bytes(pos int) ([]byte, error) {
	if err := row.validate(); err != nil {
		return nil, err
	}
	if pos < 0 || (pos >= len(row.spans) && pos >= row.view.header.Count()) {
		return nil, newError("dsv-view-value-1", fmt.Errorf("no column at position %d: %w", pos, ErrHeaderNotFound))
	}
	if pos >= len(row.spans) {
		return nil, newError("dsv-view-value-2", fmt.Errorf("record %d has %d columns, position %d requested: %w",
			row.ordinal, len(row.spans), pos, ErrRowShorterThanHeader))
	}
	row.materialize()
	return row.values[pos], nil
}

// BytesByName returns the unescaped field of the named column. Unknown
// names are an error unless AllowMissing is set.
func (row *RowView) BytesByName(name string) ([]byte, error) {
	if err := row.validate(); err != nil {
		return nil, err
	}
	pos := row.view.header.Pos(name)
	if pos < 0 {
		if row.view.cfg.AllowMissing {
			return nil, nil
		}
		return nil, newError("dsv-view-value-3", fmt.Errorf("no column named %q: %w", name, ErrHeaderNotFound))
	}
	if pos >= len(row.spans) {
		return nil, newError("dsv-view-value-4", fmt.Errorf("record %d has %d columns, column %q is at position %d: %w",
			row.ordinal, len(row.spans), name, pos, ErrRowShorterThanHeader))
	}
	row.materialize()
	return row.values[pos], nil
}

// Value returns the unescaped field at pos as a string.
func (row *RowView) Value(pos int) (string, error) {
	b, err := row.Bytes(pos)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// ValueByName returns the unescaped field of the named column as a string.
func (row *RowView) ValueByName(name string) (string, error) {
	b, err := row.BytesByName(name)
	if err != nil {
		return "", err
	}
	return string(b), nil
}
