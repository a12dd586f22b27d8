package job

import (
	"fmt"

	"github.com/hashicorp/hcl/v2"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/convert"
	"github.com/zclconf/go-cty/cty/gocty"

	"github.com/gogpu/compositor"
)

// ctyToNative converts v to the values compositor.Properties expects:
// float64, bool, string, []any and map[string]any.
func ctyToNative(v cty.Value) (any, error) {
	if v.IsNull() || !v.IsKnown() {
		return nil, nil
	}

	ty := v.Type()
	switch {
	case ty == cty.String:
		return v.AsString(), nil

	case ty == cty.Number:
		var f float64
		if err := gocty.FromCtyValue(v, &f); err != nil {
			return nil, fmt.Errorf("could not convert number to float64: %w", err)
		}
		return f, nil

	case ty == cty.Bool:
		return v.True(), nil

	case ty.IsListType() || ty.IsTupleType() || ty.IsSetType():
		out := make([]any, 0)
		it := v.ElementIterator()
		for it.Next() {
			_, elem := it.Element()
			native, err := ctyToNative(elem)
			if err != nil {
				return nil, err
			}
			out = append(out, native)
		}
		return out, nil

	case ty.IsObjectType() || ty.IsMapType():
		out := make(map[string]any)
		it := v.ElementIterator()
		for it.Next() {
			key, elem := it.Element()
			native, err := ctyToNative(elem)
			if err != nil {
				return nil, fmt.Errorf("in attribute '%s': %w", key.AsString(), err)
			}
			out[key.AsString()] = native
		}
		return out, nil

	default:
		return nil, fmt.Errorf("unsupported value type %s", ty.FriendlyName())
	}
}

// decodeInputs evaluates an inputs object into socket defaults.
func decodeInputs(expr hcl.Expression) (map[string]compositor.Pixel, error) {
	val, diags := expr.Value(nil)
	if diags.HasErrors() {
		return nil, diags
	}
	if val.IsNull() {
		return nil, nil
	}
	if !val.Type().IsObjectType() && !val.Type().IsMapType() {
		return nil, fmt.Errorf("must be an object, got %s", val.Type().FriendlyName())
	}

	out := make(map[string]compositor.Pixel)
	for name, v := range val.AsValueMap() {
		p, err := socketValue(v)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", name, err)
		}
		out[name] = p
	}
	return out, nil
}

// socketValue converts a number or a list of up to four numbers into a
// socket default. A number n becomes (n, n, n, 1), so it reads as n on value
// sockets and as grey on colour sockets. Missing list components keep
// (0, 0, 0, 1).
func socketValue(v cty.Value) (compositor.Pixel, error) {
	if n, err := convert.Convert(v, cty.Number); err == nil {
		var f float32
		if err := gocty.FromCtyValue(n, &f); err != nil {
			return compositor.Pixel{}, err
		}
		return compositor.Pixel{f, f, f, 1}, nil
	}

	list, err := convert.Convert(v, cty.List(cty.Number))
	if err != nil {
		return compositor.Pixel{}, fmt.Errorf("expected a number or a list of numbers, got %s", v.Type().FriendlyName())
	}
	var vals []float32
	if err := gocty.FromCtyValue(list, &vals); err != nil {
		return compositor.Pixel{}, err
	}
	if len(vals) == 0 || len(vals) > 4 {
		return compositor.Pixel{}, fmt.Errorf("expected 1 to 4 components, got %d", len(vals))
	}
	p := compositor.Pixel{0, 0, 0, 1}
	copy(p[:], vals)
	return p, nil
}
