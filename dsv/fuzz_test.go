package dsv

import (
	"io"
	"strings"
	"testing"
)

func FuzzReaderViewConsistency(f *testing.F) {
	seeds := []string{
		"",
		"a,b,c\n1,2,3\n",
		"a;b;c\nx;y;z",
		"A,B\n\"x,y\",z\n",
		"A\n\"multi\nline\"\nplain",
		"\"unterminated\n",
		"a\"b,c\n",
		"one\r\ntwo\r\n",
		"'a,b',c\n",
		"A,B\n\"\"\"\",\"x\"\"y\"\n",
		"col\ttab\n1\t2\n",
	}
	for _, seed := range seeds {
		f.Add(seed)
	}

	f.Fuzz(func(t *testing.T, input string) {
		if len(input) > 1<<12 {
			t.Skip()
		}

		for _, multiline := range []bool{false, true} {
			cfg := &Config{Multiline: multiline}

			fromReader, errReader := parseWithReader(input, cfg)
			fromView, errView := parseWithView(input, cfg)

			if !sameParseError(errReader, errView) {
				t.Fatalf("error mismatch (multiline=%v): reader=%v view=%v input=%q",
					multiline, errReader, errView, truncateForMessage(input))
			}
			if errReader == nil && !recordsEqual(fromReader, fromView) {
				t.Fatalf("records mismatch (multiline=%v):\nreader=%v\nview=%v\ninput=%q",
					multiline, fromReader, fromView, truncateForMessage(input))
			}
		}
	})
}

func FuzzWriterRoundTrip(f *testing.F) {
	f.Add("a", "b", "c")
	f.Add("with,comma", "with\"quote", "multi\nline")
	f.Add("", " padded ", "'")
	f.Add("\"", "\"\"", "x\ny\nz")

	f.Fuzz(func(t *testing.T, a, b, c string) {
		fields := []string{a, b, c}
		for _, field := range fields {
			// \r inside a field survives quoting but not the \n line
			// joins on the way back in
			if strings.ContainsRune(field, '\r') {
				t.Skip()
			}
			// a quote run directly before a line break doubles into an
			// even run at the end of a physical line, which line-based
			// parsing reads as a closed field
			if strings.Contains(field, "\"\"\n") {
				t.Skip()
			}
			if len(field) > 1<<10 {
				t.Skip()
			}
		}

		var sb strings.Builder
		w := NewWriter(&sb)
		if err := w.WriteAll(nil, [][]string{fields}); err != nil {
			t.Fatalf("write failed: %v input=%q", err, fields)
		}

		r, err := NewStringReader(sb.String(), &Config{Separator: ',', Multiline: true, NoHeader: true})
		if err != nil {
			t.Fatalf("reader failed: %v", err)
		}
		rows, err := r.Rows()
		if err != nil {
			t.Fatalf("parse failed: %v output=%q", err, sb.String())
		}
		if len(rows) != 1 {
			t.Fatalf("expected 1 record, got %d: output=%q", len(rows), sb.String())
		}
		values, err := rows[0].Values()
		if err != nil {
			t.Fatalf("values failed: %v", err)
		}
		if !recordsEqual([][]string{values}, [][]string{fields}) {
			t.Fatalf("round trip mismatch:\nwrote=%q\nread=%q\noutput=%q", fields, values, sb.String())
		}
	})
}

func parseWithReader(input string, cfg *Config) ([][]string, error) {
	r, err := NewStringReader(input, cfg)
	if err != nil {
		return nil, err
	}
	var out [][]string
	for {
		row, err := r.Next()
		if err == io.EOF {
			return out, nil
		}
		if err != nil {
			return out, err
		}
		values, err := row.Values()
		if err != nil {
			return out, err
		}
		out = append(out, values)
	}
}

func parseWithView(input string, cfg *Config) ([][]string, error) {
	v, err := NewViewReader([]byte(input), cfg)
	if err != nil {
		return nil, err
	}
	var out [][]string
	for {
		row, err := v.Next()
		if err == io.EOF {
			return out, nil
		}
		if err != nil {
			return out, err
		}
		values := make([]string, row.ColumnCount())
		for i := range values {
			value, err := row.Value(i)
			if err != nil {
				return out, err
			}
			values[i] = value
		}
		out = append(out, values)
	}
}

func sameParseError(a, b error) bool {
	if (a == nil) != (b == nil) {
		return false
	}
	return a == nil || a.Error() == b.Error()
}

func recordsEqual(a, b [][]string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if len(a[i]) != len(b[i]) {
			return false
		}
		for j := range a[i] {
			if a[i][j] != b[i][j] {
				return false
			}
		}
	}
	return true
}

func truncateForMessage(s string) string {
	if len(s) <= 128 {
		return s
	}
	return s[:128] + "..."
}
