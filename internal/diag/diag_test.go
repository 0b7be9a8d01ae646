package diag

import (
	"errors"
	"fmt"
	"testing"

	"knot/internal/source"
)

func TestCodeKinds(t *testing.T) {
	cases := []struct {
		code Code
		kind string
		id   string
	}{
		{LexUnterminatedString, "LexError", "LEX1002"},
		{SynExpectTerminator, "SyntaxError", "SYN2004"},
		{RunForwardDeclared, "RuntimeError", "RUN3007"},
		{UnknownCode, "Error", "E0000"},
	}
	for _, tc := range cases {
		if got := tc.code.Kind(); got != tc.kind {
			t.Errorf("%d.Kind() = %q, want %q", tc.code, got, tc.kind)
		}
		if got := tc.code.ID(); got != tc.id {
			t.Errorf("%d.ID() = %q, want %q", tc.code, got, tc.id)
		}
	}
}

func TestErrorMessage(t *testing.T) {
	err := Newf(RunUndefinedVariable, 7, source.Span{}, "undefined variable 'x'")
	if got := err.Error(); got != "RuntimeError (line 7): undefined variable 'x'" {
		t.Fatalf("unexpected message %q", got)
	}
	noLine := Newf(RunValue, 0, source.Span{}, "boom")
	if got := noLine.Error(); got != "RuntimeError: boom" {
		t.Fatalf("unexpected message %q", got)
	}
}

func TestAtLineKeepsExistingLine(t *testing.T) {
	inner := Newf(RunDivisionByZero, 3, source.Span{}, "division by zero")
	wrapped := fmt.Errorf("call f: %w", inner)
	got := AtLine(wrapped, 10, source.Span{})
	var de *Error
	if !errors.As(got, &de) || de.Line != 3 {
		t.Fatalf("line must stay 3, got %+v", got)
	}
	plain := AtLine(errors.New("bad"), 10, source.Span{})
	if !errors.As(plain, &de) || de.Line != 10 || de.Code != RunValue {
		t.Fatalf("plain errors become runtime errors at the given line: %+v", plain)
	}
	if CodeOf(inner) != RunDivisionByZero {
		t.Errorf("CodeOf lost the code")
	}
}

func TestBagLimitAndSort(t *testing.T) {
	b := NewBag(2)
	b.Add(Diagnostic{Severity: SevWarning, Code: SynUnexpectedToken, Primary: source.Span{Start: 9}})
	b.Add(Diagnostic{Severity: SevError, Code: LexUnknownChar, Primary: source.Span{Start: 1}})
	if b.Add(Diagnostic{Severity: SevError}) {
		t.Fatalf("bag must refuse items past its limit")
	}
	b.Sort()
	if b.Items()[0].Code != LexUnknownChar {
		t.Errorf("sort by start offset failed: %+v", b.Items())
	}
	if !b.HasErrors() {
		t.Errorf("HasErrors must be true")
	}
	other := NewBag(0)
	other.Add(Diagnostic{Severity: SevInfo})
	b.Merge(other)
	if b.Len() != 3 {
		t.Errorf("merge lost items: %d", b.Len())
	}
}

func TestBagReporter(t *testing.T) {
	b := NewBag(0)
	var r Reporter = BagReporter{Bag: b}
	ReportError(r, Newf(SynEmptyBody, 2, source.Span{Start: 4, End: 6}, "empty function body"))
	if b.Len() != 1 || b.Items()[0].Severity != SevError || b.Items()[0].Primary.End != 6 {
		t.Fatalf("unexpected bag contents: %+v", b.Items())
	}
}
