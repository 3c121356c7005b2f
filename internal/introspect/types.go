package introspect

import "strings"

// Kind tags a type descriptor
type Kind int

const (
	KindBuiltin Kind = iota
	KindNamed
	KindUnion
	KindIntersection
)

// String returns the kind name
func (k Kind) String() string {
	switch k {
	case KindBuiltin:
		return "builtin"
	case KindNamed:
		return "named"
	case KindUnion:
		return "union"
	case KindIntersection:
		return "intersection"
	default:
		return "unknown"
	}
}

// Reserved type names resolved against the declaring class at render time
const (
	SelfType   = "self"
	ParentType = "parent"
	StaticType = "static"
)

// TopType is the universal type; it already admits null.
const TopType = "mixed"

// NullType is the unit type of null.
const NullType = "null"

var builtinNames = map[string]bool{
	"int": true, "float": true, "string": true, "bool": true,
	"array": true, "callable": true, "iterable": true, "object": true,
	"mixed": true, "void": true, "null": true, "never": true,
	"false": true, "true": true,
}

// IsBuiltinName reports whether name is a builtin type keyword
func IsBuiltinName(name string) bool {
	return builtinNames[strings.ToLower(name)]
}

// Type is a type descriptor. Builtin and Named carry Name and Nullable;
// Union and Intersection carry Members, each of them Builtin or Named, in
// declaration order.
type Type struct {
	Kind     Kind
	Name     string
	Nullable bool
	Members  []Type
}

// Builtin returns a builtin type descriptor
func Builtin(name string) Type {
	return Type{Kind: KindBuiltin, Name: strings.ToLower(name)}
}

// Named returns a class type descriptor. A leading namespace separator is dropped.
func Named(name string) Type {
	return Type{Kind: KindNamed, Name: strings.TrimPrefix(name, `\`)}
}

// OrNull returns a copy of t marked nullable
func (t Type) OrNull() Type {
	t.Nullable = true
	return t
}

// Union returns a union descriptor
func Union(members ...Type) Type {
	return Type{Kind: KindUnion, Members: members}
}

// Intersection returns an intersection descriptor
func Intersection(members ...Type) Type {
	return Type{Kind: KindIntersection, Members: members}
}

// IsComposite reports whether t is a union or intersection
func (t Type) IsComposite() bool {
	return t.Kind == KindUnion || t.Kind == KindIntersection
}

// Is reports whether t is the non-composite type called name
func (t Type) Is(name string) bool {
	return !t.IsComposite() && strings.EqualFold(t.Name, name)
}

// Ptr returns a pointer to a copy of t
func (t Type) Ptr() *Type {
	return &t
}
