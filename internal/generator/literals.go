package generator

import (
	"strings"

	"github.com/toyz/actiongen/internal/errors"
	"github.com/toyz/actiongen/internal/introspect"
)

// RenderLiteral reproduces a default value as it was declared. Scalars keep
// their token; class constants and enum cases are fully qualified so they
// resolve the same way from the generated namespace.
func RenderLiteral(l introspect.Literal, owner introspect.Class) (string, error) {
	switch l.Kind {
	case introspect.LiteralNull, introspect.LiteralBool, introspect.LiteralNumber, introspect.LiteralString:
		if l.Raw == "" {
			return "", errors.NewTypeRenderError("literal", ownerName(owner), "scalar default has no source token")
		}
		return l.Raw, nil

	case introspect.LiteralArray:
		items := make([]string, 0, len(l.Items))
		for _, item := range l.Items {
			value, err := RenderLiteral(item.Value, owner)
			if err != nil {
				return "", err
			}
			if item.Key != nil {
				key, err := RenderLiteral(*item.Key, owner)
				if err != nil {
					return "", err
				}
				value = key + " => " + value
			}
			items = append(items, value)
		}
		if l.Long {
			return "array(" + strings.Join(items, ", ") + ")", nil
		}
		return "[" + strings.Join(items, ", ") + "]", nil

	case introspect.LiteralClassConstant:
		class, err := resolveClassRef(l.Class, owner)
		if err != nil {
			return "", err
		}
		return `\` + class + "::" + l.Name, nil

	case introspect.LiteralConstant:
		name := strings.TrimPrefix(l.Name, `\`)
		if strings.Contains(name, `\`) {
			return `\` + name, nil
		}
		return name, nil
	}
	return "", errors.NewTypeRenderError("literal", ownerName(owner), "unknown literal kind")
}
