package generator

import (
	"github.com/toyz/actiongen/internal/errors"
	"github.com/toyz/actiongen/internal/introspect"
	"github.com/toyz/actiongen/internal/models"
)

// Introspect renders the structural signature of method. Types and defaults
// are scoped to the class declaring the method, which may be an ancestor of
// the module the action belongs to.
func Introspect(method introspect.Method) (models.MethodSignature, error) {
	declaring := method.DeclaringClass()
	if declaring == nil {
		return models.MethodSignature{}, errors.NewTypeRenderError("", "", "method '"+method.Name()+"' has no declaring class")
	}

	params := make([]models.ParamSignature, 0, len(method.Params()))
	for _, p := range method.Params() {
		param, err := introspectParam(p, declaring)
		if err != nil {
			return models.MethodSignature{}, err
		}
		params = append(params, param)
	}

	sig := models.MethodSignature{
		Name:          method.Name(),
		DeclaringType: declaring.Name(),
		Params:        params,
		ReturnsValue:  ReturnsValue(method.ReturnType()),
		Doc:           FormatDoc(ResolveDoc(method, declaring)),
		Step:          Classify(method.Name()),
	}

	if rt := method.ReturnType(); rt != nil {
		rendered, err := StringifyType(*rt, declaring)
		if err != nil {
			return models.MethodSignature{}, err
		}
		sig.ReturnType = rendered
	}
	return sig, nil
}

func introspectParam(p introspect.Param, declaring introspect.Class) (models.ParamSignature, error) {
	param := models.ParamSignature{
		Name:     p.Name,
		Optional: p.Optional,
		Variadic: p.Variadic,
		ByRef:    p.ByRef,
	}

	if p.Type != nil {
		rendered, err := StringifyType(*p.Type, declaring)
		if err != nil {
			return param, err
		}
		param.Type = rendered
	}

	if p.Optional && !p.Variadic {
		if p.Default == nil {
			return param, errors.NewTypeRenderError("$"+p.Name, declaring.Name(),
				"optional parameter '$"+p.Name+"' has no default value").
				WithSuggestionf("Declare a default for '$%s' in the module manifest", p.Name)
		}
		rendered, err := RenderLiteral(*p.Default, declaring)
		if err != nil {
			return param, err
		}
		param.Default = rendered
	}
	return param, nil
}
