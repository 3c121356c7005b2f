package generator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/toyz/actiongen/internal/errors"
	"github.com/toyz/actiongen/internal/introspect"
	"github.com/toyz/actiongen/internal/models"
	"github.com/toyz/actiongen/internal/typeexpr"
)

// family builds Acme\Base <- Acme\Child, Child implementing Acme\Contract
func family() (base, child, contract *introspect.ClassDef) {
	contract = introspect.NewInterface(`Acme\Contract`)
	base = introspect.NewClass(`Acme\Base`)
	child = introspect.NewClass(`Acme\Child`).WithParent(base).WithInterfaces(contract)
	return base, child, contract
}

func TestClassify(t *testing.T) {
	tests := []struct {
		action   string
		expected models.StepKind
	}{
		{"seeElement", models.StepKindAssertion},
		{"see", models.StepKindAssertion},
		{"amOnPage", models.StepKindCondition},
		{"click", models.StepKindAction},
		{"dontSeeElement", models.StepKindAction},
		{"SeeElement", models.StepKindAction},
		{"AmOnPage", models.StepKindAction},
		{"canSee", models.StepKindAction},
		{"", models.StepKindAction},
	}

	for _, tt := range tests {
		t.Run(tt.action, func(t *testing.T) {
			assert.Equal(t, tt.expected, Classify(tt.action))
		})
	}
}

func TestStringifyType(t *testing.T) {
	_, child, _ := family()

	tests := []struct {
		name     string
		input    introspect.Type
		expected string
	}{
		{"builtin", introspect.Builtin("string"), "string"},
		{"nullable builtin", introspect.Builtin("int").OrNull(), "?int"},
		{"named", introspect.Named(`Acme\User`), `\Acme\User`},
		{"nullable named", introspect.Named(`Acme\User`).OrNull(), `?\Acme\User`},
		{"mixed never nullable", introspect.Builtin("mixed").OrNull(), "mixed"},
		{"null never nullable", introspect.Builtin("null").OrNull(), "null"},
		{"self", introspect.Named("self"), `\Acme\Child`},
		{"nullable self", introspect.Named("self").OrNull(), `?\Acme\Child`},
		{"static", introspect.Named("static"), `\Acme\Child`},
		{"parent", introspect.Named("parent"), `\Acme\Base`},
		{"union keeps order", introspect.Union(introspect.Named(`Acme\Id`), introspect.Builtin("int"), introspect.Builtin("string")), `\Acme\Id|int|string`},
		{"union with self and null", introspect.Union(introspect.Named("self"), introspect.Builtin("int"), introspect.Builtin("null")), `\Acme\Child|int|null`},
		{"intersection", introspect.Intersection(introspect.Named("Countable"), introspect.Named("Traversable")), `\Countable&\Traversable`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := StringifyType(tt.input, child)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, out)
		})
	}
}

func TestStringifyTypeErrors(t *testing.T) {
	base, child, _ := family()

	t.Run("parent without parent", func(t *testing.T) {
		_, err := StringifyType(introspect.Named("parent"), base)
		var renderErr *errors.TypeRenderError
		require.True(t, errors.As(err, &renderErr))
		assert.Equal(t, "parent", renderErr.TypeName)
		assert.Equal(t, `Acme\Base`, renderErr.OwnerType)
	})

	t.Run("parent inside union", func(t *testing.T) {
		_, err := StringifyType(introspect.Union(introspect.Named("parent"), introspect.Builtin("int")), base)
		assert.Equal(t, errors.TypeRenderErrorCode, errors.CodeOf(err))
	})

	t.Run("nested composite", func(t *testing.T) {
		nested := introspect.Union(introspect.Builtin("int"), introspect.Intersection(introspect.Named("A"), introspect.Named("B")))
		_, err := StringifyType(nested, child)
		assert.Equal(t, errors.TypeRenderErrorCode, errors.CodeOf(err))
	})

	t.Run("empty union", func(t *testing.T) {
		_, err := StringifyType(introspect.Union(), child)
		assert.Equal(t, errors.TypeRenderErrorCode, errors.CodeOf(err))
	})

	t.Run("self without class", func(t *testing.T) {
		_, err := StringifyType(introspect.Named("self"), nil)
		assert.Equal(t, errors.TypeRenderErrorCode, errors.CodeOf(err))
	})
}

func TestReturnsValue(t *testing.T) {
	assert.True(t, ReturnsValue(nil))
	assert.True(t, ReturnsValue(introspect.Builtin("bool").Ptr()))
	assert.True(t, ReturnsValue(introspect.Builtin("mixed").OrNull().Ptr()))
	assert.True(t, ReturnsValue(introspect.Union(introspect.Builtin("void"), introspect.Builtin("int")).Ptr()))
	assert.False(t, ReturnsValue(introspect.Builtin("void").Ptr()))
	assert.False(t, ReturnsValue(introspect.Builtin("never").Ptr()))
}

func TestRenderLiteral(t *testing.T) {
	_, child, _ := family()
	parser := typeexpr.NewParser()

	tests := []struct {
		input    string
		expected string
	}{
		{`"body"`, `"body"`},
		{`'it\'s'`, `'it\'s'`},
		{"null", "null"},
		{"NULL", "NULL"},
		{"False", "False"},
		{"-1.5", "-1.5"},
		{"0x1F", "0x1F"},
		{"[]", "[]"},
		{"array()", "array()"},
		{"[1,2,]", "[1, 2]"},
		{"['a'=>1, 'b' => [true]]", "['a' => 1, 'b' => [true]]"},
		{"array('x' => array(1))", "array('x' => array(1))"},
		{"self::MODE", `\Acme\Child::MODE`},
		{"static::MODE", `\Acme\Child::MODE`},
		{"parent::MODE", `\Acme\Base::MODE`},
		{`Acme\Mode::Fast`, `\Acme\Mode::Fast`},
		{`\Acme\Mode::Fast`, `\Acme\Mode::Fast`},
		{"[self::A => Acme\\Mode::B]", `[\Acme\Child::A => \Acme\Mode::B]`},
		{"PHP_EOL", "PHP_EOL"},
		{`Acme\LIMIT`, `\Acme\LIMIT`},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			lit, err := parser.ParseLiteral(tt.input)
			require.NoError(t, err)
			out, err := RenderLiteral(lit, child)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, out)
		})
	}
}

func TestRenderLiteralErrors(t *testing.T) {
	base, _, _ := family()

	_, err := RenderLiteral(introspect.Literal{Kind: introspect.LiteralClassConstant, Class: "parent", Name: "X"}, base)
	assert.Equal(t, errors.TypeRenderErrorCode, errors.CodeOf(err))

	_, err = RenderLiteral(introspect.Literal{Kind: introspect.LiteralString}, base)
	assert.Equal(t, errors.TypeRenderErrorCode, errors.CodeOf(err))

	_, err = RenderLiteral(introspect.Literal{Kind: introspect.LiteralKind(99)}, base)
	assert.Equal(t, errors.TypeRenderErrorCode, errors.CodeOf(err))
}

func TestResolveDoc(t *testing.T) {
	const (
		own   = "/** own */"
		iface = "/** from interface */"
		inher = "/** from parent */"
	)

	build := func(ownDoc, ifaceDoc, parentDoc string, ifaceHasMethod, parentHasMethod bool) (*introspect.MethodDef, *introspect.ClassDef) {
		base, child, contract := family()
		if ifaceHasMethod {
			contract.AddMethod(&introspect.MethodDef{MethodName: "click", Doc: ifaceDoc})
		}
		if parentHasMethod {
			base.AddMethod(&introspect.MethodDef{MethodName: "click", Doc: parentDoc})
		}
		method := &introspect.MethodDef{MethodName: "click", Doc: ownDoc}
		child.AddMethod(method)
		return method, child
	}

	t.Run("own doc wins", func(t *testing.T) {
		m, c := build(own, iface, inher, true, true)
		assert.Equal(t, own, ResolveDoc(m, c))
	})

	t.Run("interface beats parent", func(t *testing.T) {
		m, c := build("", iface, inher, true, true)
		assert.Equal(t, iface, ResolveDoc(m, c))
	})

	t.Run("parent when no interface declares it", func(t *testing.T) {
		m, c := build("", "", inher, false, true)
		assert.Equal(t, inher, ResolveDoc(m, c))
	})

	t.Run("undocumented interface method falls through to parent", func(t *testing.T) {
		m, c := build("", "", inher, true, true)
		assert.Equal(t, inher, ResolveDoc(m, c))
	})

	t.Run("nothing", func(t *testing.T) {
		m, c := build("", "", "", false, false)
		assert.Equal(t, "", ResolveDoc(m, c))
		assert.Equal(t, "*", FormatDoc(ResolveDoc(m, c)))
	})

	t.Run("first interface declaring the method wins", func(t *testing.T) {
		first := introspect.NewInterface(`Acme\First`)
		second := introspect.NewInterface(`Acme\Second`).
			AddMethod(&introspect.MethodDef{MethodName: "click", Doc: "/** second */"})
		third := introspect.NewInterface(`Acme\Third`).
			AddMethod(&introspect.MethodDef{MethodName: "click", Doc: "/** third */"})
		class := introspect.NewClass(`Acme\Web`).WithInterfaces(first, second, third)
		method := &introspect.MethodDef{MethodName: "click"}
		class.AddMethod(method)

		assert.Equal(t, "/** second */", ResolveDoc(method, class))
	})

	t.Run("only one parent level", func(t *testing.T) {
		root := introspect.NewClass(`Acme\Root`).
			AddMethod(&introspect.MethodDef{MethodName: "click", Doc: "/** root */"})
		middle := introspect.NewClass(`Acme\Middle`).WithParent(root)
		leaf := introspect.NewClass(`Acme\Leaf`).WithParent(middle)
		method := &introspect.MethodDef{MethodName: "click"}
		leaf.AddMethod(method)

		// the parent exposes root's method through inheritance
		assert.Equal(t, "/** root */", ResolveDoc(method, leaf))
	})
}

func TestFormatDoc(t *testing.T) {
	assert.Equal(t, "*", FormatDoc(""))
	assert.Equal(t, "*", FormatDoc("/** */"))
	assert.Equal(t, "* Clicks.", FormatDoc("/**\n     * Clicks.\n     */"))
}

func TestIntrospect(t *testing.T) {
	parser := typeexpr.NewParser()
	mustType := func(expr string) *introspect.Type {
		typ, err := parser.ParseType(expr)
		require.NoError(t, err)
		return typ.Ptr()
	}
	mustLiteral := func(expr string) *introspect.Literal {
		lit, err := parser.ParseLiteral(expr)
		require.NoError(t, err)
		return &lit
	}

	base, child, _ := family()
	base.AddMethod(&introspect.MethodDef{
		MethodName: "submitForm",
		Doc:        "/**\n     * Submits.\n     */",
		Parameters: []introspect.Param{
			{Name: "selector", Type: mustType("string|array")},
			{Name: "params", Type: mustType("array"), ByRef: true},
			{Name: "button", Type: mustType("?string"), Optional: true, Default: mustLiteral("null")},
			{Name: "mode", Optional: true, Default: mustLiteral("self::MODE")},
			{Name: "rest", Type: mustType("mixed"), Optional: true, Variadic: true},
		},
		Returns: mustType("self"),
	})

	method, ok := child.Method("submitForm")
	require.True(t, ok)

	sig, err := Introspect(method)
	require.NoError(t, err)

	assert.Equal(t, "submitForm", sig.Name)
	assert.Equal(t, `Acme\Base`, sig.DeclaringType)
	assert.Equal(t, `\Acme\Base`, sig.ReturnType)
	assert.True(t, sig.ReturnsValue)
	assert.Equal(t, "* Submits.", sig.Doc)
	assert.Equal(t, models.StepKindAction, sig.Step)
	assert.Equal(t,
		`string|array $selector, array &$params, ?string $button = null, $mode = \Acme\Base::MODE, mixed ...$rest`,
		sig.ParamList())
}

func TestIntrospectErrors(t *testing.T) {
	base, _, _ := family()

	t.Run("optional without default", func(t *testing.T) {
		method := &introspect.MethodDef{
			MethodName: "click",
			Parameters: []introspect.Param{{Name: "context", Optional: true}},
		}
		base.AddMethod(method)

		_, err := Introspect(method)
		var renderErr *errors.TypeRenderError
		require.True(t, errors.As(err, &renderErr))
		assert.Equal(t, "$context", renderErr.TypeName)
		assert.NotEmpty(t, renderErr.Suggestions())
	})

	t.Run("parent return on root class", func(t *testing.T) {
		method := &introspect.MethodDef{MethodName: "fork", Returns: introspect.Named("parent").Ptr()}
		base.AddMethod(method)

		_, err := Introspect(method)
		assert.Equal(t, errors.TypeRenderErrorCode, errors.CodeOf(err))
	})

	t.Run("detached method", func(t *testing.T) {
		_, err := Introspect(&introspect.MethodDef{MethodName: "orphan"})
		assert.Equal(t, errors.TypeRenderErrorCode, errors.CodeOf(err))
	})
}

func TestStamp(t *testing.T) {
	fingerprint, ok := ParseStamp("<?php  //[STAMP] abc123")
	require.True(t, ok)
	assert.Equal(t, "abc123", fingerprint)

	_, ok = ParseStamp("<?php")
	assert.False(t, ok)

	assert.True(t, IsGenerated("<?php  //[STAMP] "))
	assert.False(t, IsGenerated("<?php // handwritten"))
}
