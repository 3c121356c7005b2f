// Package typeexpr parses the textual type expressions and default value
// literals found in module manifests into introspect descriptors.
package typeexpr

import (
	"strings"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"

	"github.com/toyz/actiongen/internal/errors"
	"github.com/toyz/actiongen/internal/introspect"
)

// Parser parses type expressions and default literals using alecthomas/participle
type Parser struct {
	types    *participle.Parser[typeExpr]
	literals *participle.Parser[literalExpr]
}

// typeExpr is the grammar root of a type expression:
// ?Name, Name, Name|Name|..., Name&Name&...
type typeExpr struct {
	Nullable     bool     `parser:"@'?'?"`
	Head         string   `parser:"@Name"`
	Union        []string `parser:"( ( '|' @Name )+"`
	Intersection []string `parser:"| ( '&' @Name )+ )?"`
}

// literalExpr is the grammar root of a default value literal
type literalExpr struct {
	LongArray  bool           `parser:"(   @'array' '('"`
	LongItems  []*literalItem `parser:"    ( @@ ( ',' @@ )* ','? )? ')'"`
	ShortArray bool           `parser:"  | @'['"`
	ShortItems []*literalItem `parser:"    ( @@ ( ',' @@ )* ','? )? ']'"`
	Scalar     *string        `parser:"  | @(String | Number)"`
	Ref        *literalRef    `parser:"  | @@ )"`
}

// literalItem is an array element; Second is set for key => value pairs
type literalItem struct {
	First  *literalExpr `parser:"@@"`
	Second *literalExpr `parser:"( '=>' @@ )?"`
}

// literalRef is a constant, class constant, enum case or keyword literal
type literalRef struct {
	Name   string  `parser:"@Name"`
	Member *string `parser:"( '::' @Name )?"`
}

const namePattern = `\\?[a-zA-Z_][a-zA-Z0-9_]*(?:\\[a-zA-Z_][a-zA-Z0-9_]*)*`

// NewParser creates a parser for type expressions and default literals
func NewParser() *Parser {
	typeLex := lexer.MustSimple([]lexer.SimpleRule{
		{Name: "Name", Pattern: namePattern},
		{Name: "Punct", Pattern: `[?|&]`},
		{Name: "Whitespace", Pattern: `\s+`},
	})

	literalLex := lexer.MustSimple([]lexer.SimpleRule{
		{Name: "String", Pattern: `'(?:\\.|[^'\\])*'|"(?:\\.|[^"\\])*"`},
		{Name: "Number", Pattern: `-?(?:0[xX][0-9a-fA-F]+|[0-9]+(?:\.[0-9]+)?(?:[eE][-+]?[0-9]+)?|\.[0-9]+)`},
		{Name: "DoubleColon", Pattern: `::`},
		{Name: "Arrow", Pattern: `=>`},
		{Name: "Name", Pattern: namePattern},
		{Name: "Punct", Pattern: `[\[\](),]`},
		{Name: "Whitespace", Pattern: `\s+`},
	})

	return &Parser{
		types: participle.MustBuild[typeExpr](
			participle.Lexer(typeLex),
			participle.Elide("Whitespace"),
		),
		literals: participle.MustBuild[literalExpr](
			participle.Lexer(literalLex),
			participle.Elide("Whitespace"),
			participle.UseLookahead(2),
		),
	}
}

// ParseType parses a type expression such as "?string", "int|string" or "A&B".
// A two-member union with null collapses to a nullable named type.
func (p *Parser) ParseType(expr string) (introspect.Type, error) {
	ast, err := p.types.ParseString("", strings.TrimSpace(expr))
	if err != nil {
		return introspect.Type{}, errors.NewSyntaxError(expr, err)
	}

	head := namedOrBuiltin(ast.Head)

	switch {
	case len(ast.Union) > 0:
		if ast.Nullable {
			return introspect.Type{}, errors.NewSyntaxError(expr, nil).
				WithSuggestion("Write '?T' or 'T|null', not both")
		}
		members := []introspect.Type{head}
		for _, name := range ast.Union {
			members = append(members, namedOrBuiltin(name))
		}
		if len(members) == 2 {
			if members[1].Is(introspect.NullType) && !members[0].Is(introspect.NullType) {
				return members[0].OrNull(), nil
			}
			if members[0].Is(introspect.NullType) && !members[1].Is(introspect.NullType) {
				return members[1].OrNull(), nil
			}
		}
		return introspect.Union(members...), nil

	case len(ast.Intersection) > 0:
		if ast.Nullable {
			return introspect.Type{}, errors.NewSyntaxError(expr, nil).
				WithSuggestion("Intersection types cannot be nullable")
		}
		members := []introspect.Type{head}
		for _, name := range ast.Intersection {
			member := namedOrBuiltin(name)
			if member.Kind == introspect.KindBuiltin {
				return introspect.Type{}, errors.NewSyntaxError(expr, nil).
					WithSuggestion("Intersection members must be class types")
			}
			members = append(members, member)
		}
		return introspect.Intersection(members...), nil
	}

	if ast.Nullable || head.Is(introspect.TopType) || head.Is(introspect.NullType) {
		head = head.OrNull()
	}
	return head, nil
}

// ParseLiteral parses a default value literal
func (p *Parser) ParseLiteral(expr string) (introspect.Literal, error) {
	ast, err := p.literals.ParseString("", strings.TrimSpace(expr))
	if err != nil {
		return introspect.Literal{}, errors.NewSyntaxError(expr, err)
	}
	return ast.literal(), nil
}

func (e *literalExpr) literal() introspect.Literal {
	switch {
	case e.LongArray:
		return introspect.Literal{Kind: introspect.LiteralArray, Long: true, Items: items(e.LongItems)}
	case e.ShortArray:
		return introspect.Literal{Kind: introspect.LiteralArray, Items: items(e.ShortItems)}
	case e.Scalar != nil:
		raw := *e.Scalar
		if strings.HasPrefix(raw, `'`) || strings.HasPrefix(raw, `"`) {
			return introspect.Literal{Kind: introspect.LiteralString, Raw: raw}
		}
		return introspect.Literal{Kind: introspect.LiteralNumber, Raw: raw}
	}

	ref := e.Ref
	if ref.Member != nil {
		return introspect.Literal{Kind: introspect.LiteralClassConstant, Class: ref.Name, Name: *ref.Member}
	}
	switch strings.ToLower(ref.Name) {
	case "null":
		return introspect.Literal{Kind: introspect.LiteralNull, Raw: ref.Name}
	case "true", "false":
		return introspect.Literal{Kind: introspect.LiteralBool, Raw: ref.Name}
	}
	return introspect.Literal{Kind: introspect.LiteralConstant, Name: ref.Name}
}

func items(parsed []*literalItem) []introspect.ArrayItem {
	out := make([]introspect.ArrayItem, 0, len(parsed))
	for _, item := range parsed {
		if item.Second == nil {
			out = append(out, introspect.ArrayItem{Value: item.First.literal()})
			continue
		}
		key := item.First.literal()
		out = append(out, introspect.ArrayItem{Key: &key, Value: item.Second.literal()})
	}
	return out
}

func namedOrBuiltin(name string) introspect.Type {
	lower := strings.ToLower(name)
	switch lower {
	case introspect.SelfType, introspect.ParentType, introspect.StaticType:
		return introspect.Named(lower)
	}
	if introspect.IsBuiltinName(name) {
		return introspect.Builtin(name)
	}
	return introspect.Named(name)
}
