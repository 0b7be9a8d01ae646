package token

// Kind represents the category of a source token.
type Kind uint8

const (
	// Invalid indicates an erroneous token.
	Invalid Kind = iota
	// EOF marks the end of the source input.
	EOF
	// Newline is the implicit statement terminator.
	Newline

	Number // 12, 3.5
	String // "..." or '...'
	Ident  // identifiers and folded type names

	KwVar    // var
	KwLet    // let
	KwFn     // fn
	KwIf     // if
	KwElif   // elif
	KwElse   // else
	KwFor    // for
	KwIn     // in
	KwWhile  // while
	KwGive   // give
	KwPass   // pass
	KwRange  // range
	KwFrom   // from
	KwTo     // to
	KwStep   // step
	KwBe     // be
	KwOf     // of
	KwIs     // is
	KwNot    // not
	KwPoints // points
	KwTrue   // true
	KwFalse  // false
	KwNone   // none

	Plus          // +
	Minus         // -
	Star          // *
	Slash         // /
	Percent       // %
	Caret         // ^
	Assign        // =
	EqEq          // ==
	BangEq        // !=
	Lt            // <
	LtEq          // <=
	Gt            // >
	GtEq          // >=
	AndAnd        // &&
	OrOr          // ||
	Bang          // !
	PlusAssign    // +=
	MinusAssign   // -=
	StarAssign    // *=
	SlashAssign   // /=
	PercentAssign // %=
	PlusPlus      // ++
	MinusMinus    // --
	Arrow         // ->
	BiArrow       // <->
	Line          // ---

	LParen    // (
	RParen    // )
	LBracket  // [
	RBracket  // ]
	LBrace    // {
	RBrace    // }
	Comma     // ,
	Dot       // .
	Colon     // :
	Semicolon // ;
	At        // @

	// Synthetic kinds produced by the parser for RPN code.

	Neg        // unary minus
	IsNot      // is not
	NotPoints  // not points
	Call       // free function call marker
	MethodCall // method call marker (receiver below the arguments)
	ListLit    // [a, b, ...]
	SetLit     // {a, b, ...}
	DictLit    // {k -> v, ...}
	Lazy       // embedded logical sub-expression
)

var kindNames = [...]string{
	Invalid: "Invalid", EOF: "EOF", Newline: "Newline",
	Number: "Number", String: "String", Ident: "Ident",
	KwVar: "var", KwLet: "let", KwFn: "fn", KwIf: "if", KwElif: "elif", KwElse: "else",
	KwFor: "for", KwIn: "in", KwWhile: "while", KwGive: "give", KwPass: "pass",
	KwRange: "range", KwFrom: "from", KwTo: "to", KwStep: "step", KwBe: "be", KwOf: "of",
	KwIs: "is", KwNot: "not", KwPoints: "points", KwTrue: "true", KwFalse: "false", KwNone: "none",
	Plus: "+", Minus: "-", Star: "*", Slash: "/", Percent: "%", Caret: "^", Assign: "=",
	EqEq: "==", BangEq: "!=", Lt: "<", LtEq: "<=", Gt: ">", GtEq: ">=", AndAnd: "&&", OrOr: "||",
	Bang: "!", PlusAssign: "+=", MinusAssign: "-=", StarAssign: "*=", SlashAssign: "/=",
	PercentAssign: "%=", PlusPlus: "++", MinusMinus: "--", Arrow: "->", BiArrow: "<->", Line: "---",
	LParen: "(", RParen: ")", LBracket: "[", RBracket: "]", LBrace: "{", RBrace: "}",
	Comma: ",", Dot: ".", Colon: ":", Semicolon: ";", At: "@",
	Neg: "neg", IsNot: "is not", NotPoints: "not points", Call: "call", MethodCall: "method",
	ListLit: "list", SetLit: "set", DictLit: "dict", Lazy: "lazy",
}

// String returns the canonical spelling of the kind.
func (k Kind) String() string {
	if int(k) < len(kindNames) && kindNames[k] != "" {
		return kindNames[k]
	}
	return "Kind(?)"
}

// IsKeyword reports whether k is a reserved word.
func (k Kind) IsKeyword() bool {
	return k >= KwVar && k <= KwNone
}

// IsOperator reports whether k is an operator (lexical or synthetic).
func (k Kind) IsOperator() bool {
	switch k {
	case KwOf, KwIs, KwPoints, KwNot, Neg, IsNot, NotPoints:
		return true
	}
	return k >= Plus && k <= Line
}

// IsCompoundAssign reports whether k is one of += -= *= /= %=.
func (k Kind) IsCompoundAssign() bool {
	return k >= PlusAssign && k <= PercentAssign
}

// BinaryOf maps a compound assignment to its arithmetic operator.
func (k Kind) BinaryOf() Kind {
	switch k {
	case PlusAssign:
		return Plus
	case MinusAssign:
		return Minus
	case StarAssign:
		return Star
	case SlashAssign:
		return Slash
	case PercentAssign:
		return Percent
	}
	return Invalid
}
