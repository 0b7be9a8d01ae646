package diagfmt

import (
	"fmt"
	"strings"
)

// PathMode specifies how file paths are displayed.
type PathMode uint8

const (
	// PathModeAuto keeps the path as loaded.
	PathModeAuto PathMode = iota
	// PathModeAbsolute always uses absolute paths.
	PathModeAbsolute
	PathModeRelative
	PathModeBasename
)

// PrettyOpts configures pretty-printing of diagnostics.
type PrettyOpts struct {
	Color     bool
	Context   int8 // строк контекста перед основной строкой
	PathMode  PathMode
	BaseDir   string // для PathModeRelative, по умолчанию рабочая директория
	ShowNotes bool
}

// JSONOpts configures JSON output of diagnostics.
type JSONOpts struct {
	IncludePositions bool // добавить line/col
	PathMode         PathMode
	BaseDir          string
	Max              int // обрезка вывода, не Bag
	IncludeNotes     bool
}

// TokenFormat selects the token dump encoding of `knot tokenize`.
type TokenFormat string

const (
	TokensPretty TokenFormat = "pretty"
	TokensJSON   TokenFormat = "json"
	TokensYAML   TokenFormat = "yaml"
)

// ParseTokenFormat validates a --format value.
func ParseTokenFormat(s string) (TokenFormat, error) {
	switch f := TokenFormat(strings.ToLower(s)); f {
	case TokensPretty, TokensJSON, TokensYAML:
		return f, nil
	case "":
		return TokensPretty, nil
	}
	return TokensPretty, fmt.Errorf("unknown format %q (expected: pretty|json|yaml)", s)
}
