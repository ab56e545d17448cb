package query

import (
	"testing"

	qt "github.com/frankban/quicktest"
)

func TestFindStatementRangePicksQueryAroundCursor(t *testing.T) {
	c := qt.New(t)
	buf := "SELECT key FROM a; SELECT value FROM b; SELECT key FROM c"
	cursor := len("SELECT key FROM a; SELECT va") // somewhere inside the second statement
	start, end := FindStatementRange(buf, cursor)
	c.Assert(buf[start:end], qt.Equals, "SELECT value FROM b;")
}

func TestFindStatementRangeHandlesNoTrailingSemicolon(t *testing.T) {
	c := qt.New(t)
	buf := "SELECT key FROM a; SELECT value FROM b"
	cursor := len(buf) - 2
	start, end := FindStatementRange(buf, cursor)
	c.Assert(buf[start:end], qt.Equals, "SELECT value FROM b")
}

func TestFindStatementRangeIgnoresMarkersInStrings(t *testing.T) {
	c := qt.New(t)
	buf := "SELECT key FROM a WHERE key = 'a;b SELECT x'; SELECT value FROM b"
	cursor := 5
	start, end := FindStatementRange(buf, cursor)
	c.Assert(buf[start:end], qt.Equals, "SELECT key FROM a WHERE key = 'a;b SELECT x';")
}

func TestFindStatementRangeRespectsKeywordBoundaries(t *testing.T) {
	c := qt.New(t)
	// "MYSELECTOR" must not be mistaken for a SELECT boundary: the match has
	// a word byte immediately before it.
	buf := "SELECT key FROM a WHERE key = 'x' AND MYSELECTOR = 1; SELECT value FROM b"
	cursor := len("SELECT key FROM a WHERE key = 'x' AND MYSELECTOR") // just past MYSELECTOR
	start, end := FindStatementRange(buf, cursor)
	c.Assert(buf[start:end], qt.Equals, "SELECT key FROM a WHERE key = 'x' AND MYSELECTOR = 1;")
}

func TestFindStatementRangeNoSemicolonsAtAll(t *testing.T) {
	c := qt.New(t)
	buf := "SELECT key FROM a WHERE key = 'x'"
	start, end := FindStatementRange(buf, 4)
	c.Assert(buf[start:end], qt.Equals, buf)
}

func TestFindStatementRangeCursorAtSemicolon(t *testing.T) {
	c := qt.New(t)
	buf := "SELECT key FROM a; SELECT value FROM b;"
	cursor := len("SELECT key FROM a;")
	start, end := FindStatementRange(buf, cursor)
	c.Assert(buf[start:end], qt.Equals, "SELECT key FROM a;")
}

func TestStripTrailingSemicolon(t *testing.T) {
	c := qt.New(t)
	c.Assert(StripTrailingSemicolon("SELECT key FROM a;"), qt.Equals, "SELECT key FROM a")
	c.Assert(StripTrailingSemicolon("SELECT key FROM a;   \n"), qt.Equals, "SELECT key FROM a")
	c.Assert(StripTrailingSemicolon("SELECT key FROM a"), qt.Equals, "SELECT key FROM a")
	c.Assert(StripTrailingSemicolon("   "), qt.Equals, "")
	c.Assert(StripTrailingSemicolon(";"), qt.Equals, "")
}
