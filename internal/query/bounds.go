package query

// FindStatementRange returns the half-open byte range [start, end) of the
// statement containing cursor in a buffer that may hold several
// semicolon-separated statements. It scans outside of string literals
// (single- or double-quoted, with backslash escapes) so that a semicolon or
// SELECT keyword inside a string is never mistaken for a statement
// boundary.
//
// The start of the range is the most recent word-boundary, case-insensitive
// "SELECT" before cursor with no ';' between it and cursor; failing that,
// just after the last ';' before cursor; failing that, 0. The end of the
// range is just after the first ';' at or after cursor, else len(buf). A
// cursor immediately after a ';' counts as sitting on that ';', so it
// selects the statement the ';' terminates.
func FindStatementRange(buf string, cursor int) (start, end int) {
	n := len(buf)
	cur := cursor
	if cur > n {
		cur = n
	}
	if cur < 0 {
		cur = 0
	}

	var cursorSemicolon int
	haveCursorSemicolon := false
	switch {
	case cur < n && buf[cur] == ';':
		cursorSemicolon, haveCursorSemicolon = cur, true
	case cur > 0 && buf[cur-1] == ';':
		cursorSemicolon, haveCursorSemicolon = cur-1, true
	}
	startLimit := cur
	if haveCursorSemicolon {
		startLimit = cursorSemicolon
	}

	lastStmtStart := 0
	lastSemicolon := -1
	inString := false
	var stringDelim byte
	i := 0
	for i < startLimit {
		b := buf[i]
		if inString {
			if b == '\\' && i+1 < n {
				i += 2
				continue
			}
			if b == stringDelim {
				inString = false
				stringDelim = 0
			}
			i++
			continue
		}
		if b == '\'' || b == '"' {
			inString = true
			stringDelim = b
			i++
			continue
		}
		if b == ';' {
			lastSemicolon = i
			lastStmtStart = i + 1
			if lastStmtStart > n {
				lastStmtStart = n
			}
			i++
			continue
		}
		if isSelectAt(buf, i) {
			if lastSemicolon == -1 || i > lastSemicolon {
				lastStmtStart = i
			}
		}
		i++
	}

	start = lastStmtStart
	if start > n {
		start = n
	}

	end = n
	i = cur
	if haveCursorSemicolon {
		i = cursorSemicolon
	}
	inString = false
	stringDelim = 0
	for i < n {
		b := buf[i]
		if inString {
			if b == '\\' && i+1 < n {
				i += 2
				continue
			}
			if b == stringDelim {
				inString = false
				stringDelim = 0
			}
			i++
			continue
		}
		if b == '\'' || b == '"' {
			inString = true
			stringDelim = b
			i++
			continue
		}
		if b == ';' {
			end = i + 1
			break
		}
		i++
	}

	return start, end
}

// StripTrailingSemicolon trims trailing whitespace and, if present, one
// trailing semicolon plus any whitespace before it.
func StripTrailingSemicolon(s string) string {
	end := len(s)
	for end > 0 && isASCIISpace(s[end-1]) {
		end--
	}
	if end > 0 && s[end-1] == ';' {
		end--
		for end > 0 && isASCIISpace(s[end-1]) {
			end--
		}
	}
	return s[:end]
}

func isASCIISpace(b byte) bool {
	switch b {
	case ' ', '\t', '\n', '\r', '\v', '\f':
		return true
	default:
		return false
	}
}

const selectKeyword = "select"

func isSelectAt(buf string, idx int) bool {
	if idx+len(selectKeyword) > len(buf) {
		return false
	}
	for k := 0; k < len(selectKeyword); k++ {
		a, b := buf[idx+k], selectKeyword[k]
		if toLowerASCII(a) != b {
			return false
		}
	}
	return isWordBoundary(buf, idx, idx+len(selectKeyword))
}

func isWordBoundary(buf string, start, end int) bool {
	prevIsWord := start > 0 && isWordByteASCII(buf[start-1])
	nextIsWord := end < len(buf) && isWordByteASCII(buf[end])
	return !prevIsWord && !nextIsWord
}

func isWordByteASCII(b byte) bool {
	return (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z') || (b >= '0' && b <= '9') || b == '_'
}

func toLowerASCII(b byte) byte {
	if b >= 'A' && b <= 'Z' {
		return b + ('a' - 'A')
	}
	return b
}
