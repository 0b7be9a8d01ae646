package builtin

import (
	"strings"
	"unicode/utf8"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/unicode/norm"

	"knot/internal/value"
)

// Caser хранит состояние, поэтому создаётся на каждый вызов.
func caseMap(newCaser func(language.Tag, ...cases.Option) cases.Caser) Method {
	return strMap(func(s string) string { return newCaser(language.Und).String(s) })
}

// strMethod adapts a pure string function.
func strMethod(fn func(s string, args []value.Value) (value.Value, error)) Method {
	return func(_ *Env, recv value.Value, args []value.Value) (Result, error) {
		v, err := fn(recv.Str(), args)
		return ret(v), err
	}
}

func strMap(f func(string) string) Method {
	return strMethod(func(s string, _ []value.Value) (value.Value, error) {
		return value.StringValue(f(s)), nil
	})
}

func normForm(name string) (norm.Form, bool) {
	switch strings.ToUpper(name) {
	case "NFC":
		return norm.NFC, true
	case "NFD":
		return norm.NFD, true
	case "NFKC":
		return norm.NFKC, true
	case "NFKD":
		return norm.NFKD, true
	}
	return norm.NFC, false
}

// runeIndex converts a byte offset into a character offset.
func runeIndex(s string, byteIdx int) int {
	if byteIdx < 0 {
		return -1
	}
	return utf8.RuneCountInString(s[:byteIdx])
}

func splitList(parts []string) value.Value {
	out := make([]value.Value, len(parts))
	for i, p := range parts {
		out[i] = value.StringValue(p)
	}
	return value.NewList(out)
}

func registerString(r *Registry) {
	t := r.kindTable(value.String)
	t.add("len", 0, strMethod(func(s string, _ []value.Value) (value.Value, error) {
		return value.IntValue(int64(utf8.RuneCountInString(s))), nil
	}))
	t.add("upper", 0, caseMap(cases.Upper))
	t.add("lower", 0, caseMap(cases.Lower))
	t.add("title", 0, caseMap(cases.Title))
	t.add("normalize", 0, strMap(norm.NFC.String))
	t.add("normalize", 1, strMethod(func(s string, args []value.Value) (value.Value, error) {
		form, ok := normForm(args[0].String())
		if !ok {
			return value.Value{}, valueErr("unknown normalization form %s", args[0].Repr())
		}
		return value.StringValue(form.String(s)), nil
	}))
	t.add("strip", 0, strMap(strings.TrimSpace))
	t.add("lstrip", 0, strMap(func(s string) string { return strings.TrimLeft(s, " \t\r\n") }))
	t.add("rstrip", 0, strMap(func(s string) string { return strings.TrimRight(s, " \t\r\n") }))
	t.add("strip", 1, strMethod(func(s string, args []value.Value) (value.Value, error) {
		return value.StringValue(strings.Trim(s, args[0].String())), nil
	}))
	t.add("split", 0, strMethod(func(s string, _ []value.Value) (value.Value, error) {
		return splitList(strings.Fields(s)), nil
	}))
	t.add("split", 1, strMethod(func(s string, args []value.Value) (value.Value, error) {
		sep, err := wantString("split", args[0])
		if err != nil {
			return value.Value{}, err
		}
		if sep == "" {
			return value.Value{}, valueErr("split() separator must not be empty")
		}
		return splitList(strings.Split(s, sep)), nil
	}))
	t.add("replace", 2, strMethod(func(s string, args []value.Value) (value.Value, error) {
		return value.StringValue(strings.ReplaceAll(s, args[0].String(), args[1].String())), nil
	}))
	t.add("find", 1, strMethod(func(s string, args []value.Value) (value.Value, error) {
		return value.IntValue(int64(runeIndex(s, strings.Index(s, args[0].String())))), nil
	}))
	t.add("contains", 1, strMethod(func(s string, args []value.Value) (value.Value, error) {
		return value.BoolValue(strings.Contains(s, args[0].String())), nil
	}))
	t.add("startswith", 1, strMethod(func(s string, args []value.Value) (value.Value, error) {
		return value.BoolValue(strings.HasPrefix(s, args[0].String())), nil
	}))
	t.add("endswith", 1, strMethod(func(s string, args []value.Value) (value.Value, error) {
		return value.BoolValue(strings.HasSuffix(s, args[0].String())), nil
	}))
	t.add("join", 1, strMethod(func(s string, args []value.Value) (value.Value, error) {
		parts, err := stringsOf(args[0])
		if err != nil {
			return value.Value{}, err
		}
		return value.StringValue(strings.Join(parts, s)), nil
	}))
	t.add("chars", 0, strMethod(func(s string, _ []value.Value) (value.Value, error) {
		items, err := value.Iterate(value.StringValue(s))
		return value.NewList(items), err
	}))
	t.add("reverse", 0, strMap(func(s string) string {
		rs := []rune(s)
		for i, j := 0, len(rs)-1; i < j; i, j = i+1, j-1 {
			rs[i], rs[j] = rs[j], rs[i]
		}
		return string(rs)
	}))
	t.add("repeat", 1, strMethod(func(s string, args []value.Value) (value.Value, error) {
		n, err := wantInt("repeat", args[0])
		if err != nil {
			return value.Value{}, err
		}
		return value.Mul(value.StringValue(s), value.IntValue(n))
	}))
	t.add("get", 1, strMethod(func(s string, args []value.Value) (value.Value, error) {
		i, err := wantInt("get", args[0])
		if err != nil {
			return value.Value{}, err
		}
		chars, _ := value.Iterate(value.StringValue(s))
		return value.NewList(chars).At(i)
	}))
}
