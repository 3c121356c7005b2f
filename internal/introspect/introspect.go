// Package introspect defines the structural view of module classes that the
// action generator works from. A reflection substrate (the YAML manifest, or a
// test fixture) implements Class and Method; the generator never depends on
// where the metadata came from.
package introspect

// Class is an introspectable module, interface or parent type.
type Class interface {
	// Name is the fully qualified name without a leading separator, e.g. "Acme\Module\Web".
	Name() string
	// Parent returns the immediate parent class, or nil.
	Parent() Class
	// Interfaces returns the directly implemented interfaces in declaration order.
	Interfaces() []Class
	// Method looks up a public method declared on the class or inherited by it.
	Method(name string) (Method, bool)
	// Methods lists public methods: own declarations first, then inherited ones
	// not overridden, in declaration order.
	Methods() []Method
	IsInterface() bool
}

// Method is an introspectable public method.
type Method interface {
	Name() string
	DeclaringClass() Class
	Params() []Param
	// ReturnType is nil when the method declares no return type.
	ReturnType() *Type
	// DocComment is the raw doc block including delimiters, or empty.
	DocComment() string
	IsStatic() bool
}

// Param is one declared method parameter.
type Param struct {
	Name     string
	Type     *Type // nil when untyped
	Optional bool
	Default  *Literal // set when Optional and a default is declared
	Variadic bool
	ByRef    bool
}
