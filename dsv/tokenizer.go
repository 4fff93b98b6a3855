package dsv

// span marks one raw field as a half-open window into the owning record's
// text. Spans are views, never copies; they stay valid exactly as long as
// the record text they index.
type span struct {
	start int
	end   int
}

// splitFields splits one logical line into raw field spans in a single
// left-to-right pass, tracking whether the scan is inside a quoted region
// and which quote character opened it.
//
// A quote character opens a quoted region only as the first character of a
// field; anywhere else it is literal text. Inside quotes an escaped quote
// (backslash form first, then the doubled form) is skipped as a literal,
// and separators are never special. The final field is emitted regardless
// of quote state; deciding what an unterminated quote means is the
// continuation check's job. Fields are neither trimmed nor unescaped here.
//
// The result holds at least one span, even for an empty line.
func splitFields[T text](line T, sep byte, d *dialect) []span {
	fields := make([]span, 0, 8)
	start := 0
	inQuotes := false
	var quote byte
	for i := 0; i < len(line); i++ {
		c := line[i]
		if inQuotes {
			if d.backslash && c == escapeChar && i+1 < len(line) && line[i+1] == quote {
				i++
				continue
			}
			if c == quote {
				if i+1 < len(line) && line[i+1] == quote {
					i++
					continue
				}
				inQuotes = false
			}
			continue
		}
		switch {
		case c == sep:
			fields = append(fields, span{start: start, end: i})
			start = i + 1
		case i == start && d.opener(c):
			inQuotes = true
			quote = c
		}
	}
	return append(fields, span{start: start, end: len(line)})
}
