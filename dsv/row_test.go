package dsv

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/frk/compare"
)

func singleRow(t *testing.T, input string, cfg *Config) *Row {
	t.Helper()
	r, err := NewStringReader(input, cfg)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	row, err := r.Next()
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	return row
}

func TestRowAccess(t *testing.T) {
	row := singleRow(t, "A,B,C\n1,\"x,y\",3", nil)

	if row.ColumnCount() != 3 {
		t.Errorf("Expected 3 columns, got %d", row.ColumnCount())
	}
	if row.Raw() != "1,\"x,y\",3" {
		t.Errorf("Unexpected raw record %q", row.Raw())
	}

	value, err := row.Value(1)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if value != "x,y" {
		t.Errorf("Expected %q, got %q", "x,y", value)
	}

	value, err = row.ValueByName("C")
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if value != "3" {
		t.Errorf("Expected %q, got %q", "3", value)
	}

	values, err := row.Values()
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if e := compare.Compare(values, []string{"1", "x,y", "3"}); e != nil {
		t.Error(e)
	}

	// Values returns a copy
	values[0] = "mutated"
	again, err := row.Value(0)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if again != "1" {
		t.Error("Mutating the returned values changed the row")
	}
}

func TestRowShorterThanHeader(t *testing.T) {
	row := singleRow(t, "A,B,C\n1,2", nil)

	// Positions inside the header but beyond the row
	if _, err := row.Value(2); !errors.Is(err, ErrRowShorterThanHeader) {
		t.Errorf("Expected ErrRowShorterThanHeader, got %v", err)
	}
	if _, err := row.ValueByName("C"); !errors.Is(err, ErrRowShorterThanHeader) {
		t.Errorf("Expected ErrRowShorterThanHeader, got %v", err)
	}

	// Positions outside the header entirely
	if _, err := row.Value(7); !errors.Is(err, ErrHeaderNotFound) {
		t.Errorf("Expected ErrHeaderNotFound, got %v", err)
	}
	if _, err := row.Value(-1); !errors.Is(err, ErrHeaderNotFound) {
		t.Errorf("Expected ErrHeaderNotFound, got %v", err)
	}

	// HasColumn guards both cases
	if !row.HasColumn("A") {
		t.Error("Expected HasColumn to report A")
	}
	if row.HasColumn("C") {
		t.Error("Did not expect HasColumn to report a column the row is missing")
	}
	if row.HasColumn("Z") {
		t.Error("Did not expect HasColumn to report an unknown name")
	}
}

func TestRowUnknownColumn(t *testing.T) {
	row := singleRow(t, "A,B\n1,2", nil)
	if _, err := row.ValueByName("Z"); !errors.Is(err, ErrHeaderNotFound) {
		t.Errorf("Expected ErrHeaderNotFound, got %v", err)
	}

	// AllowMissing softens unknown names to an empty value
	row = singleRow(t, "A,B\n1,2", &Config{AllowMissing: true})
	value, err := row.ValueByName("Z")
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if value != "" {
		t.Errorf("Expected an empty value, got %q", value)
	}

	// It does not soften rows shorter than the header
	row = singleRow(t, "A,B\n1", &Config{AllowMissing: true})
	if _, err := row.ValueByName("B"); !errors.Is(err, ErrRowShorterThanHeader) {
		t.Errorf("Expected ErrRowShorterThanHeader, got %v", err)
	}
}

func TestRowStrictColumns(t *testing.T) {
	r, err := NewStringReader("A,B\n1,2,3\n4,5", &Config{StrictColumns: true})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	// Assembly does not fail; the mismatch surfaces on first access
	bad, err := r.Next()
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	good, err := r.Next()
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	if _, err := bad.Value(0); !errors.Is(err, ErrColumnCountMismatch) {
		t.Errorf("Expected ErrColumnCountMismatch, got %v", err)
	}
	// The verdict is cached
	if _, err := bad.Values(); !errors.Is(err, ErrColumnCountMismatch) {
		t.Errorf("Expected ErrColumnCountMismatch on repeat, got %v", err)
	}
	if _, err := bad.ToMap(); !errors.Is(err, ErrColumnCountMismatch) {
		t.Errorf("Expected ErrColumnCountMismatch from ToMap, got %v", err)
	}

	// A malformed record does not disturb a well formed one
	values, err := good.Values()
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if e := compare.Compare(values, []string{"4", "5"}); e != nil {
		t.Error(e)
	}
}

func TestRowToMap(t *testing.T) {
	row := singleRow(t, "A,B,C\n1,2", nil)

	m, err := row.ToMap()
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	want := map[string]string{"A": "1", "B": "2", "C": ""}
	if e := compare.Compare(m, want); e != nil {
		t.Error(e)
	}

	// Fields beyond the header are dropped
	row = singleRow(t, "A,B\n1,2,3", nil)
	m, err = row.ToMap()
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	want = map[string]string{"A": "1", "B": "2"}
	if e := compare.Compare(m, want); e != nil {
		t.Error(e)
	}
}

func TestRowToJSON(t *testing.T) {
	row := singleRow(t, "name,city\nalice,berlin", nil)

	j, err := row.ToJSON()
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	var m map[string]string
	if err := json.Unmarshal(j, &m); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	want := map[string]string{"name": "alice", "city": "berlin"}
	if e := compare.Compare(m, want); e != nil {
		t.Error(e)
	}
}

func TestRowToStruct(t *testing.T) {
	type person struct {
		Name string `json:"name"`
		City string `json:"city"`
	}

	row := singleRow(t, "name,city\nalice,berlin", nil)

	var p person
	if err := row.ToStruct(&p); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if p.Name != "alice" || p.City != "berlin" {
		t.Errorf("Expected alice from berlin, got %+v", p)
	}
}

func TestRowToStructTypedFields(t *testing.T) {
	// Values travel as JSON strings, the string option converts them
	type order struct {
		ID     int64   `json:"id,string"`
		Total  float64 `json:"total,string"`
		Urgent bool    `json:"urgent,string"`
	}

	row := singleRow(t, "id,total,urgent\n42,19.95,true", nil)

	var o order
	if err := row.ToStruct(&o); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if o.ID != 42 || o.Total != 19.95 || !o.Urgent {
		t.Errorf("Expected order 42 at 19.95 urgent, got %+v", o)
	}
}

func TestRowAliasAccess(t *testing.T) {
	cfg := &Config{Aliases: []AliasGroup{{"ID", "Identifier", "Key"}}}
	row := singleRow(t, "Identifier,Name\n7,alice", cfg)

	value, err := row.ValueByName("ID")
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if value != "7" {
		t.Errorf("Expected %q, got %q", "7", value)
	}

	value, err = row.ValueByName("Key")
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if value != "7" {
		t.Errorf("Expected %q, got %q", "7", value)
	}
}

func TestRowLazyMaterialization(t *testing.T) {
	// Tokenizing the same record text twice yields identical boundaries,
	// and the unescaped values are computed once and reused.
	row := singleRow(t, "A,B\n\"x\",y", nil)

	first, err := row.Values()
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	second, err := row.Values()
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if e := compare.Compare(second, first); e != nil {
		t.Error(e)
	}
}
