package grammar

import (
	"strings"
	"testing"
)

const numbersEBNF = `
number = digits [ "." digits ] [ suffix ] .
digits = digit { digit | "_" } .
digit  = "0" … "9" .
suffix = "i" ( "8" | "16" ) | "λ" .
`

func TestLexicalMatch(t *testing.T) {
	l, err := ParseLexical("numbers.ebnf", strings.NewReader(numbersEBNF))
	if err != nil {
		t.Fatalf("ParseLexical() error = %v", err)
	}
	if err := l.Verify("number"); err != nil {
		t.Fatalf("Verify() error = %v", err)
	}

	tests := []struct {
		input string
		n     int
		ok    bool
	}{
		{"1", 1, true},
		{"1_000", 5, true},
		{"1.5", 3, true},
		{"1.", 1, true},
		{"12i16x", 5, true},
		{"3λ", 3, true},
		{"x", -1, false},
		{"", -1, false},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			n, ok := l.Match("number", []byte(tt.input))
			if n != tt.n || ok != tt.ok {
				t.Errorf("Match(%q) = %d, %v, want %d, %v", tt.input, n, ok, tt.n, tt.ok)
			}
		})
	}

	if !l.MatchAll("number", []byte("7.25i8")) {
		t.Errorf("MatchAll(7.25i8) = false, want true")
	}
	if l.MatchAll("number", []byte("7.")) {
		t.Errorf("MatchAll(7.) = true, want false")
	}
	if !l.Has("digits") || l.Has("letter") {
		t.Errorf("Has() does not reflect the productions")
	}
}

func TestLexicalVerifyReportsUnreachable(t *testing.T) {
	l, err := ParseLexical("x.ebnf", strings.NewReader(`a = "a" . b = "b" .`))
	if err != nil {
		t.Fatalf("ParseLexical() error = %v", err)
	}
	if err := l.Verify("a"); err == nil {
		t.Errorf("Verify() = nil, want an unreachable production error")
	}
}

func TestParseLexicalError(t *testing.T) {
	if _, err := ParseLexical("bad.ebnf", strings.NewReader(`a = "a"`)); err == nil {
		t.Errorf("ParseLexical() error = nil, want a syntax error")
	}
}
