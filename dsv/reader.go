package dsv

import (
	"context"
	"io"
	"strings"
)

/**
 *	################################################################
 *	#						Session core
 *	################################################################
 */

// session is the generic record-assembly state machine shared by the
// owning-string facade (Reader) and the borrowing-view facade
// (ViewReader). It pulls physical lines, applies skip handling, resolves
// an auto-detected separator once, and grows a record while the quoting of
// its last raw field is unterminated. The machine never depends on the
// text representation; pulling and joining are supplied by the facade.
type session[T text] struct {
	cfg  *Config
	d    *dialect
	pull func() (T, error)
	join func(T, T) T
	str  func(T) string

	sep         byte
	sepResolved bool
	pulled      int // physical lines pulled, skipped ones included
	accepted    int // non-skipped lines, continuation lines included
	skipped     int // leading lines dropped by SkipRows
	exhausted   bool
}

func newSession[T text](cfg *Config, d *dialect, pull func() (T, error), join func(T, T) T, str func(T) string) (*session[T], error) {
	s := &session[T]{cfg: cfg, d: d, pull: pull, join: join, str: str}
	switch {
	case cfg.Separator == 0:
		// resolved from the first accepted line
	case cfg.Separator < 0 || cfg.Separator > 0x7F:
		return nil, newErrorf("dsv-session-new-1", "separator %q is not a single byte", cfg.Separator)
	default:
		s.sep = byte(cfg.Separator)
		s.sepResolved = true
	}
	return s, nil
}

// nextRecord assembles the next logical record and returns its text, its
// span table and its 1-based ordinal among accepted lines. It returns
// io.EOF once the source is exhausted.
func (s *session[T]) nextRecord() (T, []span, int, error) {
	var zero T
	if s.exhausted {
		return zero, nil, 0, io.EOF
	}
	rec, err := s.nextAccepted()
	if err != nil {
		return zero, nil, 0, err
	}
	if !s.sepResolved {
		s.sep = detectSeparator(rec)
		s.sepResolved = true
		debugf("Detected separator %q from first accepted line", s.sep)
	}
	ordinal := s.accepted
	spans := splitFields(rec, s.sep, s.d)
	if s.d.multiline {
		for unterminated(rec, spans[len(spans)-1], s.d) {
			next, err := s.pullContinuation()
			if err == io.EOF {
				break // input exhausted mid-continuation: emit as assembled
			}
			if err != nil {
				return zero, nil, 0, err
			}
			rec = s.join(rec, next)
			spans = splitFields(rec, s.sep, s.d)
			debugf("Joined line %d into record %d", s.pulled, ordinal)
		}
	}
	return rec, spans, ordinal, nil
}

// nextAccepted pulls physical lines until one survives skip handling. The
// pulled-line counter advances for every line and is what the SkipRow
// predicate sees; the accepted-line counter advances only for surviving
// lines.
func (s *session[T]) nextAccepted() (T, error) {
	var zero T
	for {
		line, err := s.pull()
		if err != nil {
			if err == io.EOF {
				s.exhausted = true
				return zero, err
			}
			return zero, newError("dsv-session-read-1", err)
		}
		s.pulled++
		if s.skipped < s.cfg.SkipRows {
			s.skipped++
			debugf("Skipped leading line %d", s.pulled)
			continue
		}
		if s.cfg.SkipRow != nil && s.cfg.SkipRow(s.str(line), s.pulled) {
			debugf("Skipped line %d by predicate", s.pulled)
			continue
		}
		s.accepted++
		return line, nil
	}
}

// pullContinuation pulls a line that is record text, not a row candidate:
// skip handling does not apply, both line counters advance.
func (s *session[T]) pullContinuation() (T, error) {
	var zero T
	line, err := s.pull()
	if err != nil {
		if err == io.EOF {
			s.exhausted = true
			return zero, err
		}
		return zero, newError("dsv-session-read-2", err)
	}
	s.pulled++
	s.accepted++
	return line, nil
}

/**
 *	################################################################
 *	#						Reader
 *	################################################################
 */

// Reader parses a stream of physical lines into records under one Config.
// Records own their text; use ViewReader to parse an in-memory buffer
// without copying field data.
type Reader struct {
	cfg       Config
	d         *dialect
	s         *session[string]
	header    *Header
	headerErr error
	resolved  bool
	pending   *Row // headerless mode: first record, already assembled
}

// NewReader returns a Reader pulling physical lines from src. The Config
// is copied; nil means the default dialect.
func NewReader(src LineSource, cfg *Config) (*Reader, error) {
	if src == nil {
		return nil, newErrorf("dsv-reader-new-1", "missing line source")
	}
	r := &Reader{}
	if cfg != nil {
		r.cfg = *cfg
	}
	r.d = compileDialect(&r.cfg)
	s, err := newSession(&r.cfg, r.d, src.ReadLine, r.joinLines, func(line string) string { return line })
	if err != nil {
		return nil, err
	}
	r.s = s
	return r, nil
}

// NewStringReader returns a Reader parsing an in-memory string.
func NewStringReader(data string, cfg *Config) (*Reader, error) {
	return NewReader(NewStringSource(data), cfg)
}

func (r *Reader) joinLines(rec string, next string) string {
	return rec + r.d.newlineToken + next
}

// Header resolves and returns the session header. Resolution runs exactly
// once: with headers present the first logical record is consumed as
// names; without, the first record's field count shapes the synthesized
// names Column1..ColumnN and the record stays the first data record. A
// resolution failure is returned again on every later call.
func (r *Reader) Header() (*Header, error) {
	if err := r.resolve(); err != nil {
		return nil, err
	}
	return r.header, nil
}

func (r *Reader) resolve() error {
	if r.resolved {
		return r.headerErr
	}
	r.resolved = true
	rec, spans, ordinal, err := r.s.nextRecord()
	if err == io.EOF {
		r.header, r.headerErr = resolveHeader(nil, &r.cfg)
		return r.headerErr
	}
	if err != nil {
		r.headerErr = err
		return err
	}
	if r.cfg.NoHeader {
		r.header, r.headerErr = synthesizeHeader(len(spans), &r.cfg)
		if r.headerErr == nil {
			r.pending = &Row{reader: r, raw: rec, spans: spans, ordinal: ordinal}
		}
		return r.headerErr
	}
	names := make([]string, len(spans))
	for i, sp := range spans {
		names[i] = r.fieldValue(rec, sp)
	}
	debugf("Resolving header from record %d: %v", ordinal, names)
	r.header, r.headerErr = resolveHeader(names, &r.cfg)
	return r.headerErr
}

// fieldValue unescapes one raw field window and applies trimming.
func (r *Reader) fieldValue(rec string, sp span) string {
	raw := rec[sp.start:sp.end]
	var v string
	if bare, ok := bareSpan(raw, r.d); ok {
		v = raw[bare.start:bare.end]
	} else {
		v = string(unescapeInto(nil, raw, r.d))
	}
	if r.d.trim {
		v = strings.TrimSpace(v)
	}
	return v
}

// Next returns the next record. It returns io.EOF once the input is
// exhausted. Malformed quoting is never an error; header resolution
// failures poison the session and surface here on every call.
func (r *Reader) Next() (*Row, error) {
	if err := r.resolve(); err != nil {
		return nil, err
	}
	if r.pending != nil {
		row := r.pending
		r.pending = nil
		return row, nil
	}
	rec, spans, ordinal, err := r.s.nextRecord()
	if err != nil {
		return nil, err
	}
	return &Row{reader: r, raw: rec, spans: spans, ordinal: ordinal}, nil
}

// Rows returns all remaining records of the session.
func (r *Reader) Rows() ([]*Row, error) {
	rows := make([]*Row, 0)
	for {
		row, err := r.Next()
		if err == io.EOF {
			return rows, nil
		}
		if err != nil {
			return nil, err
		}
		rows = append(rows, row)
	}
}

// Separator returns the session separator. For an auto-detecting session
// it returns 0 until the first record has been read.
func (r *Reader) Separator() rune {
	if !r.s.sepResolved {
		return 0
	}
	return rune(r.s.sep)
}

/**
 *	################################################################
 *	#						Streaming
 *	################################################################
 */

// StreamRow couples one parsed record with the error that ended the
// stream. Exactly one of the fields is set.
type StreamRow struct {
	Row *Row
	Err error
}

// Stream is an asynchronous sequence of parsed records.
type Stream <-chan *StreamRow

// Stream reads records asynchronously. The channel is closed once the
// input is exhausted; a read or header error is passed over the channel
// before it closes. Cancel ctx to stop early.
func (r *Reader) Stream(ctx context.Context, bufsize int) Stream {
	if ctx == nil {
		ctx = context.Background()
	}
	ch := make(chan *StreamRow, bufsize)
	go func() {
		defer close(ch)
		for {
			row, err := r.Next()
			if err == io.EOF {
				return
			}
			item := &StreamRow{Row: row, Err: err}
			select {
			case ch <- item:
			case <-ctx.Done():
				return
			}
			if err != nil {
				errorf("Stream ended with error: %v", err)
				return
			}
		}
	}()
	return ch
}
