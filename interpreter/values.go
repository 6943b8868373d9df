package interpreter

import (
	"fmt"
	"strconv"
)

// ToString renders a Lox value the way `print` displays it: numbers
// print without a trailing ".0" and without scientific notation, nil
// prints as "nil", and strings print verbatim.
func ToString(value any) string {
	switch v := value.(type) {
	case nil:
		return "nil"
	case bool:
		if v {
			return "true"
		}
		return "false"
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case string:
		return v
	case fmt.Stringer:
		return v.String()
	default:
		return fmt.Sprint(v)
	}
}

// valuesEqual implements structural, same-tag equality: values of
// different dynamic types are always unequal, even a number and a
// string that print the same way. NaN == NaN follows the host's float
// equality, which is false per IEEE 754 — Lox inherits that rather than
// special-casing it.
func valuesEqual(a, b any) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}

	switch av := a.(type) {
	case float64:
		bv, ok := b.(float64)
		return ok && av == bv
	case string:
		bv, ok := b.(string)
		return ok && av == bv
	case bool:
		bv, ok := b.(bool)
		return ok && av == bv
	default:
		return a == b
	}
}
