package format

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/dhamidi/able/able"
	"github.com/dhamidi/able/syntax"
)

func mustParse(t *testing.T, src string) *syntax.Tree {
	t.Helper()
	tree, err := able.Parse([]byte(src))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	return tree
}

func TestSExprEncoder(t *testing.T) {
	tests := []struct {
		src  string
		want string
	}{
		{"1 + 2;", "(source_file (expression_statement (binary_expression (integer_literal) (integer_literal))))\n"},
		{"", "(source_file)\n"},
		{"'x'", "(source_file (expression_statement (char_literal)))\n"},
	}
	for _, tt := range tests {
		t.Run(tt.src, func(t *testing.T) {
			var buf bytes.Buffer
			if err := NewSExprEncoder(&buf, Options{}).Encode(mustParse(t, tt.src)); err != nil {
				t.Fatalf("Encode() error = %v", err)
			}
			if got := buf.String(); got != tt.want {
				t.Errorf("Encode() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestSExprPositions(t *testing.T) {
	text, err := NewSExprEncoder(nil, Options{Positions: true}).MarshalTree(mustParse(t, "1"))
	if err != nil {
		t.Fatalf("MarshalTree() error = %v", err)
	}
	want := "(source_file [1:1 - 1:2] (expression_statement [1:1 - 1:2] (integer_literal [1:1 - 1:2])))\n"
	if string(text) != want {
		t.Errorf("MarshalTree() = %q, want %q", text, want)
	}
}

func TestTreeEncoder(t *testing.T) {
	text, err := NewTreeEncoder(nil, Options{}).MarshalTree(mustParse(t, "1;"))
	if err != nil {
		t.Fatalf("MarshalTree() error = %v", err)
	}
	want := "source_file\n  expression_statement\n    integer_literal 1\n    ; ;\n"
	if string(text) != want {
		t.Errorf("MarshalTree() =\n%s\nwant\n%s", text, want)
	}
}

func TestJSONEncoder(t *testing.T) {
	text, err := NewJSONEncoder(nil).MarshalTree(mustParse(t, "1 foo"))
	if err != nil {
		t.Fatalf("MarshalTree() error = %v", err)
	}
	var got struct {
		Root struct {
			Type string `json:"type"`
		} `json:"root"`
		Diagnostics []struct {
			Kind    string `json:"kind"`
			Message string `json:"message"`
		} `json:"diagnostics"`
	}
	if err := json.Unmarshal(text, &got); err != nil {
		t.Fatalf("output is not JSON: %v\n%s", err, text)
	}
	if got.Root.Type != "source_file" {
		t.Errorf("root type = %q, want source_file", got.Root.Type)
	}
	if len(got.Diagnostics) != 1 || got.Diagnostics[0].Kind != "lex error" {
		t.Errorf("diagnostics = %+v, want one lex error", got.Diagnostics)
	}
}

func TestTokenEncoder(t *testing.T) {
	text, err := NewTokenEncoder(nil).MarshalTree(mustParse(t, "1 ;"))
	if err != nil {
		t.Fatalf("MarshalTree() error = %v", err)
	}
	want := "1:1-1:2\tinteger_literal\t\"1\"\n1:3-1:4\t;\t\";\"\n"
	if string(text) != want {
		t.Errorf("MarshalTree() = %q, want %q", text, want)
	}
}

func TestNewEncoder(t *testing.T) {
	for _, name := range Formats() {
		if _, err := NewEncoder(name, &bytes.Buffer{}, Options{}); err != nil {
			t.Errorf("NewEncoder(%q) error = %v", name, err)
		}
	}
	if _, err := NewEncoder("xml", &bytes.Buffer{}, Options{}); err == nil {
		t.Errorf("NewEncoder(xml) error = nil, want an error")
	}
}

func span(src string, start, end int) syntax.Span {
	pos := func(offset int) syntax.Position {
		p := syntax.Position{Offset: offset, Line: 1, Column: 1}
		for _, r := range src[:offset] {
			if r == '\n' {
				p.Line++
				p.Column = 1
			} else {
				p.Column++
			}
		}
		return p
	}
	return syntax.Span{Start: pos(start), End: pos(end)}
}

func TestRenderDiagnostic(t *testing.T) {
	tests := []struct {
		name string
		src  string
		diag syntax.Diagnostic
		want string
	}{
		{
			name: "parse error",
			src:  "a,,b\n",
			diag: syntax.Diagnostic{Kind: syntax.ParseError, Message: `unexpected ","`, Expected: []string{"a"}},
			want: "1:3: parse error: unexpected \",\"; expected a\n  a,,b\n    ^\n",
		},
		{
			name: "wide characters",
			src:  "日本 xy",
			diag: syntax.Diagnostic{Kind: syntax.LexError, Message: "bad"},
			want: "1:4: lex error: bad\n  日本 xy\n       ^~\n",
		},
		{
			name: "tab",
			src:  "\tx",
			diag: syntax.Diagnostic{Kind: syntax.LexError, Message: "bad"},
			want: "1:2: lex error: bad\n  \tx\n  \t^\n",
		},
		{
			name: "second line",
			src:  "1\n2 @",
			diag: syntax.Diagnostic{Kind: syntax.RecoveryExhausted, Message: "gave up", Expected: []string{"a", "b"}},
			want: "2:3: recovery exhausted: gave up; expected one of a, b\n  2 @\n    ^\n",
		},
	}
	spans := map[string][2]int{
		"parse error":     {2, 3},
		"wide characters": {7, 9},
		"tab":             {1, 2},
		"second line":     {4, 5},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := spans[tt.name]
			tt.diag.Span = span(tt.src, s[0], s[1])
			got := NewDiagnosticPrinter(nil, false).Render([]byte(tt.src), tt.diag)
			if got != tt.want {
				t.Errorf("Render() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestPrintLimit(t *testing.T) {
	tree := mustParse(t, "foo\nbar\nbaz")
	if len(tree.Diagnostics) < 2 {
		t.Fatalf("got %d diagnostics, want at least 2", len(tree.Diagnostics))
	}
	var buf bytes.Buffer
	if err := NewDiagnosticPrinter(&buf, false).Print(tree, 1); err != nil {
		t.Fatalf("Print() error = %v", err)
	}
	if got := strings.Count(buf.String(), "lex error"); got != 1 {
		t.Errorf("printed %d diagnostics, want 1:\n%s", got, buf.String())
	}
	if !strings.Contains(buf.String(), "more\n") {
		t.Errorf("Print() did not report the remaining diagnostics:\n%s", buf.String())
	}
}
