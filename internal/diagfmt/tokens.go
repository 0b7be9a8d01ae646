package diagfmt

import (
	"fmt"
	"io"

	"github.com/oarkflow/json"
	"gopkg.in/yaml.v3"

	"knot/internal/source"
	"knot/internal/token"
)

// TokenOutput is the serialized form of a token.
type TokenOutput struct {
	Kind     string `json:"kind" yaml:"kind"`
	Text     string `json:"text,omitempty" yaml:"text,omitempty"`
	Line     uint32 `json:"line" yaml:"line"`
	Col      uint32 `json:"col" yaml:"col"`
	Start    uint32 `json:"start" yaml:"start"`
	End      uint32 `json:"end" yaml:"end"`
	Argc     int    `json:"argc,omitempty" yaml:"argc,omitempty"`
	Implicit bool   `json:"implicit,omitempty" yaml:"implicit,omitempty"`
}

func tokenOutputs(tokens []token.Token, fs *source.FileSet) []TokenOutput {
	out := make([]TokenOutput, 0, len(tokens))
	for _, tok := range tokens {
		start, _ := fs.Resolve(tok.Span)
		out = append(out, TokenOutput{
			Kind:     tok.Kind.String(),
			Text:     tok.Text,
			Line:     start.Line,
			Col:      start.Col,
			Start:    tok.Span.Start,
			End:      tok.Span.End,
			Argc:     tok.Argc,
			Implicit: tok.Implicit,
		})
		if tok.Kind == token.EOF {
			break
		}
	}
	return out
}

// FormatTokens dumps tokens in the requested format.
func FormatTokens(w io.Writer, tokens []token.Token, fs *source.FileSet, format TokenFormat) error {
	switch format {
	case TokensJSON:
		return FormatTokensJSON(w, tokens, fs)
	case TokensYAML:
		return FormatTokensYAML(w, tokens, fs)
	default:
		return FormatTokensPretty(w, tokens, fs)
	}
}

// FormatTokensPretty выводит токены в человекочитаемом формате
func FormatTokensPretty(w io.Writer, tokens []token.Token, fs *source.FileSet) error {
	for i, tok := range tokens {
		startPos, endPos := fs.Resolve(tok.Span)
		if _, err := fmt.Fprintf(w, "%3d: %-12s", i+1, tok.Kind.String()); err != nil {
			return err
		}
		if tok.Text != "" {
			fmt.Fprintf(w, " %q", tok.Text)
		}
		fmt.Fprintf(w, " at %d:%d-%d:%d", startPos.Line, startPos.Col, endPos.Line, endPos.Col)
		if tok.Implicit {
			fmt.Fprint(w, " (implicit)")
		}
		fmt.Fprintln(w)
		if tok.Kind == token.EOF {
			break
		}
	}
	return nil
}

// FormatTokensJSON выводит токены в JSON формате
func FormatTokensJSON(w io.Writer, tokens []token.Token, fs *source.FileSet) error {
	data, err := json.MarshalIndent(tokenOutputs(tokens, fs), "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(w, "%s\n", data)
	return err
}

// FormatTokensYAML выводит токены списком YAML
func FormatTokensYAML(w io.Writer, tokens []token.Token, fs *source.FileSet) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(tokenOutputs(tokens, fs)); err != nil {
		return err
	}
	return enc.Close()
}
