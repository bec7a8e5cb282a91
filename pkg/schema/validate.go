package schema

import "math"

// check enforces the cross-keyword rules once all options have been applied.
func check(n Node) error {
	switch t := n.(type) {
	case *NumericType:
		return checkNumeric(t, false)
	case *IntegerType:
		return checkNumeric(&t.NumericType, true)
	case *StringType:
		if err := nonNegative("minLength", t.MinLength); err != nil {
			return err
		}
		if err := nonNegative("maxLength", t.MaxLength); err != nil {
			return err
		}
		if t.MinLength != nil && t.MaxLength != nil && *t.MinLength > *t.MaxLength {
			return constraintErr("minLength", "%d exceeds maxLength %d", *t.MinLength, *t.MaxLength)
		}
		if t.Default != nil && len(t.Enum) > 0 && !containsString(t.Enum, *t.Default) {
			return constraintErr("default", "%q is not one of the enum values", *t.Default)
		}
	case *ArrayType:
		if err := nonNegative("minItems", t.MinItems); err != nil {
			return err
		}
		if err := nonNegative("maxItems", t.MaxItems); err != nil {
			return err
		}
		if t.MinItems != nil && t.MaxItems != nil && *t.MinItems > *t.MaxItems {
			return constraintErr("minItems", "%d exceeds maxItems %d", *t.MinItems, *t.MaxItems)
		}
	}
	return nil
}

func checkNumeric(t *NumericType, integral bool) error {
	if t.MultipleOf != nil && *t.MultipleOf <= 0 {
		return constraintErr("multipleOf", "must be greater than 0, got %v", *t.MultipleOf)
	}
	if t.Minimum != nil && t.Maximum != nil && *t.Minimum > *t.Maximum {
		return constraintErr("minimum", "%v exceeds maximum %v", *t.Minimum, *t.Maximum)
	}
	if t.ExclusiveMinimum != nil && t.ExclusiveMaximum != nil && *t.ExclusiveMinimum >= *t.ExclusiveMaximum {
		return constraintErr("exclusiveMinimum", "%v must be below exclusiveMaximum %v", *t.ExclusiveMinimum, *t.ExclusiveMaximum)
	}
	if !integral {
		return nil
	}
	for _, kv := range []struct {
		keyword string
		value   *float64
	}{
		{"default", t.Default},
		{"minimum", t.Minimum},
		{"maximum", t.Maximum},
		{"multipleOf", t.MultipleOf},
		{"exclusiveMinimum", t.ExclusiveMinimum},
		{"exclusiveMaximum", t.ExclusiveMaximum},
	} {
		if kv.value != nil && !isIntegral(*kv.value) {
			return constraintErr(kv.keyword, "integer schema requires an integral value, got %v", *kv.value)
		}
	}
	for _, v := range t.Enum {
		if !isIntegral(v) {
			return constraintErr("enum", "integer schema requires integral values, got %v", v)
		}
	}
	return nil
}

func nonNegative(keyword string, v *int) error {
	if v != nil && *v < 0 {
		return constraintErr(keyword, "must not be negative, got %d", *v)
	}
	return nil
}

func isIntegral(f float64) bool {
	return f == math.Trunc(f) && !math.IsInf(f, 0)
}

func containsString(values []string, s string) bool {
	for _, v := range values {
		if v == s {
			return true
		}
	}
	return false
}
