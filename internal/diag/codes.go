package diag

import (
	"fmt"
)

type Code uint16

const (
	UnknownCode Code = 0

	// Лексические
	LexUnknownChar              Code = 1001
	LexUnterminatedString       Code = 1002
	LexUnterminatedBlockComment Code = 1003
	LexBadNumber                Code = 1004
	LexBadEscape                Code = 1005

	// Синтаксические
	SynUnexpectedToken    Code = 2001
	SynUnclosedDelimiter  Code = 2002
	SynMismatchedBracket  Code = 2003
	SynExpectTerminator   Code = 2004
	SynExpectIdentifier   Code = 2005
	SynExpectExpression   Code = 2006
	SynExpectColon        Code = 2007
	SynExpectBlockEnd     Code = 2008
	SynDuplicateParam     Code = 2009
	SynEmptyBody          Code = 2010
	SynForBadHeader       Code = 2011
	SynBadOfOperand       Code = 2012
	SynBadAssignTarget    Code = 2013
	SynUnexpectedBlockEnd Code = 2014

	// Времени исполнения
	RunUndefinedVariable Code = 3001
	RunArityMismatch     Code = 3002
	RunStackUnderflow    Code = 3003
	RunDivisionByZero    Code = 3004
	RunUnknownFunction   Code = 3005
	RunWrongArity        Code = 3006
	RunForwardDeclared   Code = 3007
	RunFileHandle        Code = 3008
	RunTypeMismatch      Code = 3009
	RunRecursionLimit    Code = 3010
	RunInterrupted       Code = 3011
	RunUnhashable        Code = 3012
	RunIndexOutOfRange   Code = 3013
	RunAssertion         Code = 3014
	RunUnknownMethod     Code = 3015
	RunValue             Code = 3016

	// Ввод-вывод и проверки
	IOLoadFile   Code = 4001
	FmtRoundTrip Code = 4002
)

var codeDescription = map[Code]string{
	UnknownCode:                 "Unknown error",
	LexUnknownChar:              "Unknown character",
	LexUnterminatedString:       "Unterminated string literal",
	LexUnterminatedBlockComment: "Unterminated block comment",
	LexBadNumber:                "Malformed number",
	LexBadEscape:                "Unknown escape sequence",
	SynUnexpectedToken:          "Unexpected token",
	SynUnclosedDelimiter:        "Unclosed delimiter",
	SynMismatchedBracket:        "Mismatched bracket",
	SynExpectTerminator:         "Expected statement terminator",
	SynExpectIdentifier:         "Expected identifier",
	SynExpectExpression:         "Expected expression",
	SynExpectColon:              "Expected ':'",
	SynExpectBlockEnd:           "Expected ';' to close block",
	SynDuplicateParam:           "Duplicate parameter name",
	SynEmptyBody:                "Empty function body",
	SynForBadHeader:             "Malformed for header",
	SynBadOfOperand:             "Invalid left operand of 'of'",
	SynBadAssignTarget:          "Invalid assignment target",
	SynUnexpectedBlockEnd:       "Unexpected ';'",
	RunUndefinedVariable:        "Undefined variable",
	RunArityMismatch:            "Argument count mismatch",
	RunStackUnderflow:           "Evaluation stack underflow",
	RunDivisionByZero:           "Division by zero",
	RunUnknownFunction:          "Unknown function",
	RunWrongArity:               "Wrong number of arguments",
	RunForwardDeclared:          "Function declared but not defined",
	RunFileHandle:               "File handle misuse",
	RunTypeMismatch:             "Type mismatch",
	RunRecursionLimit:           "Recursion limit exceeded",
	RunInterrupted:              "Interrupted",
	RunUnhashable:               "Unhashable value",
	RunIndexOutOfRange:          "Index out of range",
	RunAssertion:                "Assertion failed",
	RunUnknownMethod:            "Unknown method",
	RunValue:                    "Invalid value",
	IOLoadFile:                  "Failed to load file",
	FmtRoundTrip:                "Formatter round trip mismatch",
}

// ID returns the stable short identifier, e.g. "SYN2004".
func (c Code) ID() string {
	switch ic := int(c); {
	case ic >= 1000 && ic < 2000:
		return fmt.Sprintf("LEX%04d", ic)
	case ic >= 2000 && ic < 3000:
		return fmt.Sprintf("SYN%04d", ic)
	case ic >= 3000 && ic < 4000:
		return fmt.Sprintf("RUN%04d", ic)
	case ic >= 4000 && ic < 5000:
		return fmt.Sprintf("CHK%04d", ic)
	}
	return "E0000"
}

// Kind returns the user-facing error class of the code.
func (c Code) Kind() string {
	switch ic := int(c); {
	case ic >= 1000 && ic < 2000:
		return "LexError"
	case ic >= 2000 && ic < 3000:
		return "SyntaxError"
	case ic >= 3000 && ic < 4000:
		return "RuntimeError"
	case ic >= 4000 && ic < 5000:
		return "CheckError"
	}
	return "Error"
}

func (c Code) Title() string {
	desc, ok := codeDescription[c]
	if !ok {
		return codeDescription[UnknownCode]
	}
	return desc
}

func (c Code) String() string {
	return fmt.Sprintf("[%s]: %s", c.ID(), c.Title())
}
