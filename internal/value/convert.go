package value

import (
	"strconv"
	"strings"

	"knot/internal/diag"
	"knot/internal/source"
)

// ParseLiteral converts a number token. Integer literals are int, decimal
// literals double; integers too large for int64 fall back to double.
func ParseLiteral(text string) (Value, error) {
	if !strings.ContainsAny(text, ".eE") {
		if n, err := strconv.ParseInt(text, 10, 64); err == nil {
			return IntValue(n), nil
		}
	}
	f, err := strconv.ParseFloat(text, 64)
	if err != nil {
		return Value{}, diag.Newf(diag.LexBadNumber, 0, source.Span{}, "malformed number %q", text)
	}
	return FloatValue(f), nil
}

// Convert implements the conversion built-ins (int(x), str(x), list(x), ...).
func Convert(k Kind, v Value) (Value, error) {
	switch {
	case k.IsNumeric():
		return toNumber(k, v)
	case k == Bool:
		return BoolValue(v.Truthy()), nil
	case k == String:
		return StringValue(v.String()), nil
	case k == List:
		if v.k == Dict {
			return v.Keys(), nil
		}
		items, err := Iterate(v)
		if err != nil {
			return Value{}, err
		}
		return NewList(append([]Value(nil), items...)), nil
	case k == Set:
		items, err := Iterate(v)
		if err != nil {
			return Value{}, err
		}
		return NewSet(items)
	case k == Dict:
		return toDict(v)
	case k == Graph:
		return GraphFrom(v)
	}
	return Value{}, diag.Newf(diag.RunTypeMismatch, 0, source.Span{}, "cannot convert '%s' to '%s'", v.k, k)
}

func toNumber(k Kind, v Value) (Value, error) {
	switch {
	case v.IsNumber():
		switch {
		case k.IsFloat():
			return Floating(k, v.Float()), nil
		case k.IsUnsigned():
			return Unsigned(k, v.uint()), nil
		}
		return Signed(k, v.Int()), nil
	case v.k == String:
		text := strings.TrimSpace(v.s)
		if k.IsInteger() {
			if k.IsUnsigned() {
				if n, err := strconv.ParseUint(text, 10, 64); err == nil {
					return Unsigned(k, n), nil
				}
			} else if n, err := strconv.ParseInt(text, 10, 64); err == nil {
				return Signed(k, n), nil
			}
		}
		f, err := strconv.ParseFloat(text, 64)
		if err != nil {
			return Value{}, diag.Newf(diag.RunValue, 0, source.Span{}, "invalid literal for %s: %s", k, Quote(v.s))
		}
		return Number(k, f), nil
	}
	return Value{}, diag.Newf(diag.RunTypeMismatch, 0, source.Span{}, "cannot convert '%s' to '%s'", v.k, k)
}

func toDict(v Value) (Value, error) {
	switch v.k {
	case Dict:
		return v.Copy(), nil
	case None:
		return NewDict(), nil
	case List:
		d := NewDict()
		for _, it := range v.list() {
			if it.k != List || it.Len() != 2 {
				return Value{}, diag.Newf(diag.RunValue, 0, source.Span{}, "dict() expects [key, value] pairs")
			}
			pair := it.list()
			var err error
			if d, err = d.Put(pair[0], pair[1]); err != nil {
				return Value{}, err
			}
		}
		return d, nil
	}
	return Value{}, diag.Newf(diag.RunTypeMismatch, 0, source.Span{}, "cannot convert '%s' to 'dict'", v.k)
}
