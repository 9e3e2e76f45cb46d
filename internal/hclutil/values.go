package hclutil

import (
	"fmt"

	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/convert"
	ctyjson "github.com/zclconf/go-cty/cty/json"
)

// ValueString renders a literal cty.Value as the plain string an application
// element attribute carries. Primitives convert the way HCL would convert
// them to a string; collections and objects are rendered as JSON.
func ValueString(v cty.Value) (string, error) {
	if v.IsNull() {
		return "", nil
	}
	if !v.IsWhollyKnown() {
		return "", fmt.Errorf("value of type %s is not known", v.Type().FriendlyName())
	}

	if v.Type().IsPrimitiveType() {
		str, err := convert.Convert(v, cty.String)
		if err != nil {
			return "", err
		}
		return str.AsString(), nil
	}

	raw, err := ctyjson.Marshal(v, v.Type())
	if err != nil {
		return "", fmt.Errorf("cannot render %s as text: %w", v.Type().FriendlyName(), err)
	}
	return string(raw), nil
}
