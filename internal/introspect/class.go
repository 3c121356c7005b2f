package introspect

// ClassDef is an in-memory Class built by the manifest loader and by tests.
type ClassDef struct {
	ClassName   string
	ParentClass *ClassDef
	Implements  []*ClassDef // implemented interfaces, or extended ones for an interface
	Interface   bool
	Declared    []*MethodDef
}

// NewClass creates an empty class definition
func NewClass(name string) *ClassDef {
	return &ClassDef{ClassName: Named(name).Name}
}

// NewInterface creates an empty interface definition
func NewInterface(name string) *ClassDef {
	c := NewClass(name)
	c.Interface = true
	return c
}

// WithParent sets the parent class
func (c *ClassDef) WithParent(parent *ClassDef) *ClassDef {
	c.ParentClass = parent
	return c
}

// WithInterfaces appends implemented interfaces
func (c *ClassDef) WithInterfaces(ifaces ...*ClassDef) *ClassDef {
	c.Implements = append(c.Implements, ifaces...)
	return c
}

// AddMethod declares m on the class
func (c *ClassDef) AddMethod(m *MethodDef) *ClassDef {
	m.Owner = c
	c.Declared = append(c.Declared, m)
	return c
}

// Name implements Class
func (c *ClassDef) Name() string { return c.ClassName }

// Parent implements Class
func (c *ClassDef) Parent() Class {
	if c.ParentClass == nil {
		return nil
	}
	return c.ParentClass
}

// Interfaces implements Class
func (c *ClassDef) Interfaces() []Class {
	out := make([]Class, 0, len(c.Implements))
	for _, i := range c.Implements {
		out = append(out, i)
	}
	return out
}

// IsInterface implements Class
func (c *ClassDef) IsInterface() bool { return c.Interface }

// Method implements Class. Own declarations win over inherited ones.
func (c *ClassDef) Method(name string) (Method, bool) {
	if m := c.lookup(name, map[*ClassDef]bool{}); m != nil {
		return m, true
	}
	return nil, false
}

func (c *ClassDef) lookup(name string, seen map[*ClassDef]bool) *MethodDef {
	if seen[c] {
		return nil
	}
	seen[c] = true
	for _, m := range c.Declared {
		if m.MethodName == name {
			return m
		}
	}
	if c.ParentClass != nil {
		if m := c.ParentClass.lookup(name, seen); m != nil {
			return m
		}
	}
	if c.Interface {
		for _, parent := range c.Implements {
			if m := parent.lookup(name, seen); m != nil {
				return m
			}
		}
	}
	return nil
}

// Methods implements Class
func (c *ClassDef) Methods() []Method {
	var out []Method
	names := make(map[string]bool)
	seen := make(map[*ClassDef]bool)
	for cls := c; cls != nil && !seen[cls]; cls = cls.ParentClass {
		seen[cls] = true
		for _, m := range cls.Declared {
			if names[m.MethodName] {
				continue
			}
			names[m.MethodName] = true
			out = append(out, m)
		}
	}
	return out
}

// MethodDef is an in-memory Method
type MethodDef struct {
	MethodName string
	Owner      *ClassDef
	Parameters []Param
	Returns    *Type
	Doc        string
	Static     bool
}

// Name implements Method
func (m *MethodDef) Name() string { return m.MethodName }

// DeclaringClass implements Method
func (m *MethodDef) DeclaringClass() Class {
	if m.Owner == nil {
		return nil
	}
	return m.Owner
}

// Params implements Method
func (m *MethodDef) Params() []Param { return m.Parameters }

// ReturnType implements Method
func (m *MethodDef) ReturnType() *Type { return m.Returns }

// DocComment implements Method
func (m *MethodDef) DocComment() string { return m.Doc }

// IsStatic implements Method
func (m *MethodDef) IsStatic() bool { return m.Static }
