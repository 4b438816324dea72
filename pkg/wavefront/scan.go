package wavefront

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

// statement is one logical line of an OBJ or MTL file: a keyword followed by
// whitespace-separated arguments. Comments are stripped and continuation
// lines are already joined.
type statement struct {
	keyword string
	args    []string
	line    int    // line number of the first physical line
	text    string // joined statement text, for diagnostics
}

// scanner splits raw bytes into statements. Blank and comment-only lines are
// skipped but still advance the line counter. A trailing backslash joins the
// current line with the next before tokenization.
type scanner struct {
	rest []byte
	line int
}

func newScanner(data []byte) *scanner {
	return &scanner{rest: data}
}

// readLine consumes one physical line, without the line terminator.
func (s *scanner) readLine() (string, bool, *ParseError) {
	if len(s.rest) == 0 {
		return "", false, nil
	}
	s.line++

	raw := s.rest
	for i, b := range s.rest {
		if b == '\n' {
			raw = s.rest[:i]
			s.rest = s.rest[i+1:]
			goto done
		}
	}
	s.rest = nil
done:
	if n := len(raw); n > 0 && raw[n-1] == '\r' {
		raw = raw[:n-1]
	}
	if !utf8.Valid(raw) {
		return "", false, &ParseError{
			Kind: ErrDecode,
			Line: s.line,
			Msg:  "invalid UTF-8 sequence",
		}
	}
	return string(raw), true, nil
}

// next returns the next statement. ok is false at end of input.
func (s *scanner) next() (st statement, ok bool, err *ParseError) {
	for {
		line, more, err := s.readLine()
		if err != nil {
			return statement{}, false, err
		}
		if !more {
			return statement{}, false, nil
		}

		first := s.line
		logical := stripComment(line)

		// A trailing backslash joins the next physical line.
		for strings.HasSuffix(logical, "\\") {
			cont, more, err := s.readLine()
			if err != nil {
				return statement{}, false, err
			}
			logical = logical[:len(logical)-1]
			if !more {
				break
			}
			logical += " " + stripComment(cont)
		}

		fields := strings.Fields(logical)
		if len(fields) == 0 {
			continue // blank or comment-only line
		}
		return statement{
			keyword: fields[0],
			args:    fields[1:],
			line:    first,
			text:    strings.TrimSpace(logical),
		}, true, nil
	}
}

// syntaxErr builds a SyntaxError located at the given statement.
func syntaxErr(st statement, format string, args ...any) *ParseError {
	return &ParseError{
		Kind: ErrSyntax,
		Line: st.line,
		Stmt: st.text,
		Msg:  fmt.Sprintf(format, args...),
	}
}

// stripComment drops everything from '#' on, plus trailing whitespace, so a
// continuation backslash is always the last byte when present.
func stripComment(line string) string {
	if i := strings.IndexByte(line, '#'); i >= 0 {
		line = line[:i]
	}
	return strings.TrimRight(line, " \t")
}
