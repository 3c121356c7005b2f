package generator

import (
	"strings"

	"github.com/toyz/actiongen/internal/errors"
	"github.com/toyz/actiongen/internal/introspect"
)

// StringifyType renders a type descriptor as source text, resolving self,
// static and parent against owner, the class declaring the method.
func StringifyType(t introspect.Type, owner introspect.Class) (string, error) {
	switch t.Kind {
	case introspect.KindUnion:
		return stringifyMembers(t, owner, "|")
	case introspect.KindIntersection:
		return stringifyMembers(t, owner, "&")
	}

	name, err := stringifyNamed(t, owner)
	if err != nil {
		return "", err
	}
	// mixed and null already admit null
	if t.Nullable && !t.Is(introspect.TopType) && !t.Is(introspect.NullType) {
		return "?" + name, nil
	}
	return name, nil
}

func stringifyMembers(t introspect.Type, owner introspect.Class, separator string) (string, error) {
	if len(t.Members) == 0 {
		return "", errors.NewTypeRenderError(t.Kind.String(), ownerName(owner), "composite type has no members")
	}
	parts := make([]string, 0, len(t.Members))
	for _, member := range t.Members {
		if member.IsComposite() {
			return "", errors.NewTypeRenderError(member.Kind.String(), ownerName(owner), "nested composite types cannot be rendered")
		}
		part, err := stringifyNamed(member, owner)
		if err != nil {
			return "", err
		}
		parts = append(parts, part)
	}
	return strings.Join(parts, separator), nil
}

func stringifyNamed(t introspect.Type, owner introspect.Class) (string, error) {
	if t.Name == "" {
		return "", errors.NewTypeRenderError("", ownerName(owner), "type has no name")
	}
	if t.Kind == introspect.KindBuiltin {
		return t.Name, nil
	}

	name, err := resolveClassRef(t.Name, owner)
	if err != nil {
		return "", err
	}
	return `\` + name, nil
}

// resolveClassRef resolves self, static and parent to qualified names. Other
// names are returned without a leading separator.
func resolveClassRef(name string, owner introspect.Class) (string, error) {
	switch strings.ToLower(name) {
	case introspect.SelfType, introspect.StaticType:
		if owner == nil {
			return "", errors.NewTypeRenderError(name, "", "'"+name+"' used outside of a class")
		}
		return owner.Name(), nil
	case introspect.ParentType:
		if owner == nil || owner.Parent() == nil {
			return "", errors.MissingParent(ownerName(owner))
		}
		return owner.Parent().Name(), nil
	}
	return strings.TrimPrefix(name, `\`), nil
}

// ReturnsValue reports whether a wrapper for a method returning rt must
// return the delegated result. Only void and never suppress it.
func ReturnsValue(rt *introspect.Type) bool {
	if rt == nil {
		return true
	}
	return !rt.Is("void") && !rt.Is("never")
}

func ownerName(owner introspect.Class) string {
	if owner == nil {
		return ""
	}
	return owner.Name()
}
