package dsv

// bareSpan returns the window of raw holding the field's value when no
// escape collapsing is needed: either the field carries no enclosure at
// all, or it is a tidy quote pair with no quote or escape characters in
// between. ok reports whether this fast path applies; when it does not,
// the value must be built through unescapeInto.
func bareSpan[T text](raw T, d *dialect) (sp span, ok bool) {
	if len(raw) == 0 || !d.opener(raw[0]) {
		return span{start: 0, end: len(raw)}, true
	}
	quote := raw[0]
	if len(raw) < 2 || raw[len(raw)-1] != quote {
		return span{}, false
	}
	for i := 1; i < len(raw)-1; i++ {
		if raw[i] == quote || (d.backslash && raw[i] == escapeChar) {
			return span{}, false
		}
	}
	return span{start: 1, end: len(raw) - 1}, true
}

// unescapeInto appends the unescaped value of an enclosed raw field to
// dst. The scan mirrors splitFields exactly: backslash+quote collapses
// first, then a doubled quote, then a lone quote closes the enclosure.
// Text after a closing quote is kept literally, and a field that never
// closes unescapes leniently to its end; malformed quoting is not an
// error anywhere in the package.
func unescapeInto[T text](dst []byte, raw T, d *dialect) []byte {
	if len(raw) == 0 || !d.opener(raw[0]) {
		return append(dst, []byte(raw)...)
	}
	quote := raw[0]
	closed := false
	for i := 1; i < len(raw); i++ {
		c := raw[i]
		if closed {
			dst = append(dst, c)
			continue
		}
		if d.backslash && c == escapeChar && i+1 < len(raw) && raw[i+1] == quote {
			dst = append(dst, quote)
			i++
			continue
		}
		if c == quote {
			if i+1 < len(raw) && raw[i+1] == quote {
				dst = append(dst, quote)
				i++
				continue
			}
			closed = true
			continue
		}
		dst = append(dst, c)
	}
	return dst
}
