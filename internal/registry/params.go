package registry

import (
	"errors"
	"fmt"
	"reflect"
	"sort"
	"strings"

	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/convert"
	"github.com/zclconf/go-cty/cty/gocty"
)

// ParamSet is the opaque key/value parameter set of one stage.
type ParamSet = map[string]cty.Value

// ParamTag is the struct tag naming a filter parameter.
const ParamTag = "param"

// ErrUnknownParameter is returned for a key the filter does not declare.
var ErrUnknownParameter = errors.New("unknown parameter")

// paramFields maps parameter names to the settable fields of f.
func paramFields(f any) (map[string]reflect.Value, error) {
	v := reflect.ValueOf(f)
	if v.Kind() != reflect.Ptr || v.IsNil() {
		if v.Kind() == reflect.Struct {
			return nil, fmt.Errorf("filter %T must be a pointer to carry parameters", f)
		}
		return map[string]reflect.Value{}, nil
	}
	v = v.Elem()
	if v.Kind() != reflect.Struct {
		return map[string]reflect.Value{}, nil
	}
	fields := make(map[string]reflect.Value)
	t := v.Type()
	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		if !field.IsExported() {
			continue
		}
		name := strings.Split(field.Tag.Get(ParamTag), ",")[0]
		if name == "" || name == "-" {
			continue
		}
		fields[name] = v.Field(i)
	}
	return fields, nil
}

// ReadParameters decodes params into the tagged fields of f. Values are
// converted to the field's implied cty type first, so a number given as a
// string is accepted. A key with no matching field fails with
// ErrUnknownParameter; fields missing from params keep their defaults.
func ReadParameters(f any, params ParamSet) error {
	fields, err := paramFields(f)
	if err != nil {
		return err
	}
	keys := make([]string, 0, len(params))
	for k := range params {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, key := range keys {
		val := params[key]
		field, ok := fields[key]
		if !ok {
			return fmt.Errorf("%w %q for %T", ErrUnknownParameter, key, f)
		}
		if val.IsNull() {
			continue
		}
		ty, err := gocty.ImpliedType(field.Interface())
		if err != nil {
			return fmt.Errorf("parameter %q: %w", key, err)
		}
		converted, err := convert.Convert(val, ty)
		if err != nil {
			return fmt.Errorf("parameter %q: cannot convert %s to %s: %w", key, val.Type().FriendlyName(), ty.FriendlyName(), err)
		}
		if err := gocty.FromCtyValue(converted, field.Addr().Interface()); err != nil {
			return fmt.Errorf("parameter %q: %w", key, err)
		}
	}
	return nil
}

// WriteParameters encodes the tagged fields of f back into a parameter set.
func WriteParameters(f any) (ParamSet, error) {
	fields, err := paramFields(f)
	if err != nil {
		return nil, err
	}
	out := make(ParamSet, len(fields))
	for name, field := range fields {
		ty, err := gocty.ImpliedType(field.Interface())
		if err != nil {
			return nil, fmt.Errorf("parameter %q: %w", name, err)
		}
		val, err := gocty.ToCtyValue(field.Interface(), ty)
		if err != nil {
			return nil, fmt.Errorf("parameter %q: %w", name, err)
		}
		out[name] = val
	}
	return out, nil
}
