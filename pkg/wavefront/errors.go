package wavefront

import "fmt"

// ErrorKind classifies parse and triangulation failures.
type ErrorKind uint8

const (
	// ErrDecode means the input was not valid UTF-8 text.
	ErrDecode ErrorKind = iota + 1
	// ErrSyntax means a statement could not be parsed (wrong token count,
	// non-numeric value where a number is required).
	ErrSyntax
	// ErrIndexOutOfRange means a face referenced a position, texcoord or
	// normal beyond the pool size at that point in the file.
	ErrIndexOutOfRange
	// ErrMalformedFace means a face had fewer than 3 distinct vertices or
	// mixed slash patterns across its vertex references.
	ErrMalformedFace
	// ErrUndefinedMaterialField means an MTL field statement appeared
	// before any newmtl.
	ErrUndefinedMaterialField
	// ErrTriangulation is reserved for triangulation failures. Parsed
	// meshes cannot trigger it; only hand-built ones can.
	ErrTriangulation
)

// String returns a short description of the error kind.
func (k ErrorKind) String() string {
	switch k {
	case ErrDecode:
		return "decode error"
	case ErrSyntax:
		return "syntax error"
	case ErrIndexOutOfRange:
		return "index out of range"
	case ErrMalformedFace:
		return "malformed face"
	case ErrUndefinedMaterialField:
		return "field before newmtl"
	case ErrTriangulation:
		return "triangulation error"
	default:
		return "unknown error"
	}
}

// ParseError is returned by ParseOBJ, ParseMTL and Triangulate. It carries
// the source line number and the offending statement text.
type ParseError struct {
	Kind ErrorKind
	Line int    // 1-based line number, 0 if not tied to a line
	Stmt string // offending statement text, comment-stripped
	Msg  string
}

func (e *ParseError) Error() string {
	if e.Line == 0 {
		return fmt.Sprintf("%s: %s", e.Kind, e.Msg)
	}
	if e.Stmt == "" {
		return fmt.Sprintf("line %d: %s: %s", e.Line, e.Kind, e.Msg)
	}
	return fmt.Sprintf("line %d: %s: %s in %q", e.Line, e.Kind, e.Msg, e.Stmt)
}
