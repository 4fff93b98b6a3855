package dsv

import (
	"encoding/json"
	"fmt"
)

// Row is one logical record: the joined raw text, its span table and a
// reference to the session it belongs to. Unescaped values are computed on
// first access and cached inside the row; rows share nothing with each
// other beyond the immutable header and dialect.
type Row struct {
	reader  *Reader
	raw     string
	spans   []span
	ordinal int

	values  []string // unescaped fields, built on first access
	checked bool     // strict column-count verdict, cached
	invalid error
}

// Ordinal returns the 1-based position of the record's first physical line
// among accepted lines.
func (row *Row) Ordinal() int {
	return row.ordinal
}

// Raw returns the record text after continuation joins, before unescaping.
func (row *Row) Raw() string {
	return row.raw
}

// ColumnCount returns the number of raw fields the record tokenized into,
// which may differ from the header count.
func (row *Row) ColumnCount() int {
	return len(row.spans)
}

// HasColumn reports whether name resolves to a column that is actually
// present in this record. It guards both unknown names and rows shorter
// than the header.
func (row *Row) HasColumn(name string) bool {
	pos := row.reader.header.Pos(name)
	return pos >= 0 && pos < len(row.spans)
}

// validate runs the strict column-count check. The check runs once per
// record, on first field access rather than at assembly time, so untouched
// malformed records never disturb well-formed ones in the same stream.
func (row *Row) validate() error {
	if row.checked {
		return row.invalid
	}
	row.checked = true
	if row.reader.cfg.StrictColumns && len(row.spans) != row.reader.header.Count() {
		row.invalid = newError("dsv-row-validate-1", fmt.Errorf("record %d has %d columns, header has %d: %w",
			row.ordinal, len(row.spans), row.reader.header.Count(), ErrColumnCountMismatch))
	}
	return row.invalid
}

func (row *Row) materialize() {
	if row.values != nil {
		return
	}
	values := make([]string, len(row.spans))
	for i, sp := range row.spans {
		values[i] = row.reader.fieldValue(row.raw, sp)
	}
	row.values = values
}

// Value returns the unescaped field at pos.
func (row *Row) Value(pos int) (string, error) {
	if err := row.validate(); err != nil {
		return "", err
	}
	if pos < 0 || (pos >= len(row.spans) && pos >= row.reader.header.Count()) {
		return "", newError("dsv-row-value-1", fmt.Errorf("no column at position %d: %w", pos, ErrHeaderNotFound))
	}
	if pos >= len(row.spans) {
		return "", newError("dsv-row-value-2", fmt.Errorf("record %d has %d columns, position %d requested: %w",
			row.ordinal, len(row.spans), pos, ErrRowShorterThanHeader))
	}
	row.materialize()
	return row.values[pos], nil
}

// ValueByName returns the unescaped field of the named column. Unknown
// names are an error unless AllowMissing is set, in which case an empty
// value is returned.
func (row *Row) ValueByName(name string) (string, error) {
	if err := row.validate(); err != nil {
		return "", err
	}
	pos := row.reader.header.Pos(name)
	if pos < 0 {
		if row.reader.cfg.AllowMissing {
			return "", nil
		}
		return "", newError("dsv-row-value-3", fmt.Errorf("no column named %q: %w", name, ErrHeaderNotFound))
	}
	if pos >= len(row.spans) {
		return "", newError("dsv-row-value-4", fmt.Errorf("record %d has %d columns, column %q is at position %d: %w",
			row.ordinal, len(row.spans), name, pos, ErrRowShorterThanHeader))
	}
	row.materialize()
	return row.values[pos], nil
}

// Values returns all unescaped fields of the record.
func (row *Row) Values() ([]string, error) {
	if err := row.validate(); err != nil {
		return nil, err
	}
	row.materialize()
	values := make([]string, len(row.values))
	copy(values, row.values)
	return values, nil
}

// ToMap returns the record keyed by column name. Rows shorter than the
// header map the missing columns to empty strings; fields beyond the
// header are dropped.
func (row *Row) ToMap() (map[string]string, error) {
	if err := row.validate(); err != nil {
		return nil, err
	}
	row.materialize()
	out := make(map[string]string, row.reader.header.Count())
	for i, name := range row.reader.header.names {
		if i < len(row.values) {
			out[name] = row.values[i]
		} else {
			out[name] = ""
		}
	}
	return out, nil
}

// ToJSON returns the record as a JSON object keyed by column name.
func (row *Row) ToJSON() ([]byte, error) {
	m, err := row.ToMap()
	if err != nil {
		return nil, newError("dsv-row-tojson-1", err)
	}
	j, err := json.Marshal(m)
	if err != nil {
		return j, newError("dsv-row-tojson-2", err)
	}
	return j, nil
}

// ToStruct fills v with the record's values by marshalling the map
// representation to JSON and unmarshalling it into v, so standard json
// struct tags control the mapping. Every field travels as a JSON string;
// numeric and boolean struct fields need the json ",string" option.
func (row *Row) ToStruct(v interface{}) error {
	jsonRow, err := row.ToJSON()
	if err != nil {
		return newError("dsv-row-tostruct-1", err)
	}
	err = json.Unmarshal(jsonRow, v)
	if err != nil {
		return newError("dsv-row-tostruct-2", err)
	}
	return nil
}
