package builtin

import (
	"knot/internal/diag"
	"knot/internal/source"
	"knot/internal/value"
)

func typeErr(format string, args ...any) error {
	return diag.Newf(diag.RunTypeMismatch, 0, source.Span{}, format, args...)
}

func valueErr(format string, args ...any) error {
	return diag.Newf(diag.RunValue, 0, source.Span{}, format, args...)
}

func wantNumber(fn string, v value.Value) (float64, error) {
	if !v.IsNumber() {
		return 0, typeErr("%s() expects a number, got '%s'", fn, v.Kind())
	}
	return v.Float(), nil
}

func wantInt(fn string, v value.Value) (int64, error) {
	if !v.Kind().IsInteger() && v.Kind() != value.Bool {
		return 0, typeErr("%s() expects an integer, got '%s'", fn, v.Kind())
	}
	return v.Int(), nil
}

func wantString(fn string, v value.Value) (string, error) {
	if v.Kind() != value.String {
		return "", typeErr("%s() expects a string, got '%s'", fn, v.Kind())
	}
	return v.Str(), nil
}

func wantKind(fn string, v value.Value, k value.Kind) error {
	if v.Kind() != k {
		return typeErr("%s() expects a %s, got '%s'", fn, k, v.Kind())
	}
	return nil
}

// stringsOf converts a list of strings (join, writelines).
func stringsOf(v value.Value) ([]string, error) {
	items, err := value.Iterate(v)
	if err != nil {
		return nil, err
	}
	out := make([]string, len(items))
	for i, it := range items {
		out[i] = it.String()
	}
	return out, nil
}
