package introspect

// LiteralKind tags a default value literal
type LiteralKind int

const (
	LiteralNull LiteralKind = iota
	LiteralBool
	LiteralNumber
	LiteralString
	LiteralArray
	LiteralClassConstant
	LiteralConstant
)

// Literal is a parsed default value. Scalars keep their source token in Raw so
// they can be re-emitted exactly as declared.
type Literal struct {
	Kind  LiteralKind
	Raw   string      // token text for null, bool, number and string literals
	Class string      // class reference of a class constant or enum case (may be self/parent)
	Name  string      // constant name, or case/constant name after '::'
	Long  bool        // array declared with array(...) instead of [...]
	Items []ArrayItem // array elements in order
}

// ArrayItem is one element of an array literal
type ArrayItem struct {
	Key   *Literal // nil for list elements
	Value Literal
}
