package dsv

// unterminated reports whether the quoting of the raw field at window w of
// line ends mid-quote, so that the logical record must absorb the next
// physical line. The window must be raw, exactly as produced by
// splitFields; unescaping first would destroy the trailing quote run the
// decision is based on.
//
// The rule, applied to the field with its opening quote removed: count the
// trailing run of quote characters, length k. No run at all means the
// field never closed. A backslash directly before the run escapes one
// quote of it, unless that backslash is itself escaped (odd backslash run
// counts). k == 1 is a clean terminator. Exactly two trailing quotes with
// multiline enabled read as a field that starts again on the next line.
// Beyond that, parity decides: even terminates, odd does not.
//
// Pure and total: malformed quoting yields a verdict, never an error.
func unterminated[T text](line T, w span, d *dialect) bool {
	if !d.quoting || w.end <= w.start || !d.opener(line[w.start]) {
		return false
	}
	quote := line[w.start]
	body := w.start + 1

	k := 0
	i := w.end
	for i > body && line[i-1] == quote {
		k++
		i--
	}
	if k == 0 {
		return true
	}
	if d.backslash && i > body && line[i-1] == escapeChar {
		n := 0
		for j := i; j > body && line[j-1] == escapeChar; j-- {
			n++
		}
		if n%2 == 1 {
			k--
			if k == 0 {
				return true
			}
		}
	}
	if k == 1 {
		return false
	}
	if d.multiline && k == 2 {
		return true
	}
	return k%2 == 1
}
