// Conversion between native Go record values and cty values. Records are
// arbitrary decoded JSON, so conversion works structurally instead of
// through implied static types.
package expr

import (
	"encoding/json"
	"fmt"
	"math/big"
	"time"

	"github.com/zclconf/go-cty/cty"
)

// recordToCty converts an input record into a cty object value.
func recordToCty(record map[string]interface{}) (cty.Value, error) {
	if len(record) == 0 {
		return cty.EmptyObjectVal, nil
	}
	attrs := make(map[string]cty.Value, len(record))
	for name, v := range record {
		val, err := nativeToCty(v)
		if err != nil {
			return cty.NilVal, fmt.Errorf("field %q: %w", name, err)
		}
		attrs[name] = val
	}
	return cty.ObjectVal(attrs), nil
}

// nativeToCty converts one decoded-JSON value to cty.
func nativeToCty(v interface{}) (cty.Value, error) {
	switch tv := v.(type) {
	case nil:
		return cty.NullVal(cty.DynamicPseudoType), nil
	case string:
		return cty.StringVal(tv), nil
	case bool:
		return cty.BoolVal(tv), nil
	case int:
		return cty.NumberIntVal(int64(tv)), nil
	case int64:
		return cty.NumberIntVal(tv), nil
	case float64:
		return cty.NumberFloatVal(tv), nil
	case json.Number:
		f, ok := new(big.Float).SetString(tv.String())
		if !ok {
			return cty.NilVal, fmt.Errorf("invalid number %q", tv.String())
		}
		return cty.NumberVal(f), nil
	case time.Time:
		return cty.StringVal(tv.Format(time.RFC3339)), nil
	case []interface{}:
		if len(tv) == 0 {
			return cty.EmptyTupleVal, nil
		}
		elems := make([]cty.Value, len(tv))
		for i, elem := range tv {
			val, err := nativeToCty(elem)
			if err != nil {
				return cty.NilVal, fmt.Errorf("index %d: %w", i, err)
			}
			elems[i] = val
		}
		return cty.TupleVal(elems), nil
	case map[string]interface{}:
		return recordToCty(tv)
	default:
		// Unrecognized host types flatten to their string form rather
		// than failing the whole record.
		return cty.StringVal(fmt.Sprintf("%v", tv)), nil
	}
}

// ctyToNative converts an evaluation result back to its most natural Go
// counterpart.
func ctyToNative(v cty.Value) (interface{}, error) {
	if v.IsNull() || !v.IsKnown() {
		return nil, nil
	}
	ty := v.Type()
	switch {
	case ty == cty.String:
		return v.AsString(), nil
	case ty == cty.Number:
		f, _ := v.AsBigFloat().Float64()
		return f, nil
	case ty == cty.Bool:
		return v.True(), nil
	case ty.IsListType() || ty.IsTupleType() || ty.IsSetType():
		out := make([]interface{}, 0)
		for it := v.ElementIterator(); it.Next(); {
			_, elem := it.Element()
			native, err := ctyToNative(elem)
			if err != nil {
				return nil, err
			}
			out = append(out, native)
		}
		return out, nil
	case ty.IsObjectType() || ty.IsMapType():
		out := make(map[string]interface{})
		for it := v.ElementIterator(); it.Next(); {
			key, elem := it.Element()
			native, err := ctyToNative(elem)
			if err != nil {
				return nil, fmt.Errorf("in attribute %q: %w", key.AsString(), err)
			}
			out[key.AsString()] = native
		}
		return out, nil
	default:
		return nil, fmt.Errorf("unsupported result type %s", ty.FriendlyName())
	}
}
