package model

import (
	"encoding"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"reflect"
	"time"
)

// Flatten converts a model instance into its generic JSON form: structs and
// maps become map[string]any, slices become []any and numbers float64.
// Nil members are dropped, as are zero members tagged omitempty.
func (r *Reflector) Flatten(v any) any {
	return flattener{r: r}.value(reflect.ValueOf(v))
}

// Normalize converts raw data to the same generic form as Flatten but keeps
// nil members, so that a null in raw data is still seen by the validator.
func Normalize(v any) any {
	return flattener{r: &Reflector{}, keepNil: true}.value(reflect.ValueOf(v))
}

type flattener struct {
	r       *Reflector
	keepNil bool
}

func (f flattener) value(v reflect.Value) any {
	if !v.IsValid() {
		return nil
	}
	switch x := v.Interface().(type) {
	case json.Number:
		return x
	case time.Time:
		return x.Format(time.RFC3339Nano)
	case time.Duration:
		return float64(x)
	}
	if v.Kind() != reflect.Ptr && v.Kind() != reflect.Interface && v.Type().Implements(textMarshalerType) {
		if text, err := v.Interface().(encoding.TextMarshaler).MarshalText(); err == nil {
			return string(text)
		}
	}

	switch v.Kind() {
	case reflect.Ptr, reflect.Interface:
		if v.IsNil() {
			return nil
		}
		return f.value(v.Elem())
	case reflect.Struct:
		return f.structValue(v)
	case reflect.Map:
		if v.IsNil() {
			return nil
		}
		return f.mapValue(v)
	case reflect.Slice:
		if v.IsNil() {
			return nil
		}
		fallthrough
	case reflect.Array:
		if v.Type().Elem().Kind() == reflect.Uint8 {
			b := make([]byte, v.Len())
			reflect.Copy(reflect.ValueOf(b), v)
			return base64.StdEncoding.EncodeToString(b)
		}
		out := make([]any, v.Len())
		for i := range out {
			out[i] = f.value(v.Index(i))
		}
		return out
	case reflect.Bool:
		return v.Bool()
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return float64(v.Int())
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return float64(v.Uint())
	case reflect.Float32, reflect.Float64:
		return v.Float()
	case reflect.String:
		return v.String()
	}
	return v.Interface()
}

func (f flattener) structValue(v reflect.Value) map[string]any {
	out := make(map[string]any)
	for _, sf := range f.r.fields(v.Type()) {
		fv, ok := fieldByIndex(v, sf.index)
		if !ok {
			continue
		}
		if sf.omitempty && fv.IsZero() {
			continue
		}
		val := f.value(fv)
		if val == nil && !f.keepNil {
			continue
		}
		out[sf.name] = val
	}
	return out
}

// fieldByIndex is reflect.Value.FieldByIndex without the panic on nil embedded pointers.
func fieldByIndex(v reflect.Value, index []int) (reflect.Value, bool) {
	for i, x := range index {
		if i > 0 && v.Kind() == reflect.Ptr {
			if v.IsNil() {
				return reflect.Value{}, false
			}
			v = v.Elem()
		}
		v = v.Field(x)
	}
	return v, true
}

func (f flattener) mapValue(v reflect.Value) any {
	// map[K]struct{} is a set: flatten to its keys.
	if elem := v.Type().Elem(); elem.Kind() == reflect.Struct && elem.NumField() == 0 {
		out := make([]any, 0, v.Len())
		iter := v.MapRange()
		for iter.Next() {
			out = append(out, f.value(iter.Key()))
		}
		return out
	}
	out := make(map[string]any, v.Len())
	iter := v.MapRange()
	for iter.Next() {
		val := f.value(iter.Value())
		if val == nil && !f.keepNil {
			continue
		}
		out[mapKey(iter.Key())] = val
	}
	return out
}

func mapKey(k reflect.Value) string {
	if k.Kind() == reflect.String {
		return k.String()
	}
	if tm, ok := k.Interface().(encoding.TextMarshaler); ok {
		if text, err := tm.MarshalText(); err == nil {
			return string(text)
		}
	}
	return fmt.Sprint(k.Interface())
}
