package able

import (
	"bytes"
	"flag"
	"fmt"
	"math/rand"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/dhamidi/able/format"
	"github.com/dhamidi/able/syntax"
)

var updateGolden = flag.Bool("update-golden", false, "update golden files")

func mustParse(t *testing.T, src string, opts ...syntax.Option) *syntax.Tree {
	t.Helper()
	tree, err := Parse([]byte(src), opts...)
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	return tree
}

func TestParse(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want string
	}{
		{"empty", "", "(source_file)"},
		{"newline ends a statement", "1\n2",
			"(source_file (expression_statement (integer_literal)) (expression_statement (integer_literal)))"},
		{"trailing operator continues", "1 +\n 2",
			"(source_file (expression_statement (binary_expression (integer_literal) (integer_literal))))"},
		{"leading operator continues", "1\n+ 2",
			"(source_file (expression_statement (binary_expression (integer_literal) (integer_literal))))"},
		{"unary minus starts a statement", "1\n-2",
			"(source_file (expression_statement (integer_literal)) (expression_statement (unary_expression (integer_literal))))"},
		{"precedence", "1 + 2 * 3",
			"(source_file (expression_statement (binary_expression (integer_literal) (binary_expression (integer_literal) (integer_literal)))))"},
		{"left associative", "1 - 2 - 3",
			"(source_file (expression_statement (binary_expression (binary_expression (integer_literal) (integer_literal)) (integer_literal))))"},
		{"unary binds tighter", "-1 * 2",
			"(source_file (expression_statement (binary_expression (unary_expression (integer_literal)) (integer_literal))))"},
		{"semicolons", "true; false; nil",
			"(source_file (expression_statement (boolean_literal)) (expression_statement (boolean_literal)) (expression_statement (nil_literal)))"},
		{"juxtaposed literals", `1.5f32 'x' ""`,
			"(source_file (expression_statement (float_literal)) (expression_statement (char_literal)) (expression_statement (string_literal)))"},
		{"string escapes", `"a\n"`,
			"(source_file (expression_statement (string_literal (escape_sequence))))"},
		{"interpolation", "`a${1 + 2}b`",
			"(source_file (expression_statement (interpolated_string (interpolation_text) (string_interpolation (binary_expression (integer_literal) (integer_literal))) (interpolation_text))))"},
		{"comment inside a statement", "1 ## c\n2",
			"(source_file (expression_statement (integer_literal) (comment)) (expression_statement (integer_literal)))"},
		{"only a comment", "## only", "(source_file (comment))"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tree := mustParse(t, tt.src)
			if got := format.SExpr(tree.Root); got != tt.want {
				t.Errorf("Parse(%q) =\n  %s\nwant\n  %s", tt.src, got, tt.want)
			}
			if len(tree.Diagnostics) != 0 {
				t.Errorf("Parse(%q) diagnostics = %v, want none", tt.src, tree.Diagnostics)
			}
		})
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name     string
		src      string
		want     string
		kinds    []syntax.DiagnosticKind
		messages []string
	}{
		{"unterminated string", `"abc`, "(source_file (ERROR))",
			[]syntax.DiagnosticKind{syntax.LexError}, []string{"unterminated string literal"}},
		{"unknown identifier", "1 foo 2",
			"(source_file (expression_statement (integer_literal)) (ERROR) (expression_statement (integer_literal)))",
			[]syntax.DiagnosticKind{syntax.LexError}, []string{`unexpected identifier "foo"`}},
		{"missing operand", "1 +",
			"(source_file (expression_statement (integer_literal)) (ERROR))",
			[]syntax.DiagnosticKind{syntax.ParseError}, []string{"unexpected end of input"}},
		{"empty interpolation", "`${}`",
			"(source_file (expression_statement (interpolated_string (string_interpolation (ERROR)))))",
			[]syntax.DiagnosticKind{syntax.ParseError}, []string{`unexpected "}"`}},
		{"empty interpolation between text", "`a${}b`",
			"(source_file (expression_statement (interpolated_string (interpolation_text) (string_interpolation (ERROR)) (interpolation_text))))",
			[]syntax.DiagnosticKind{syntax.ParseError}, []string{`unexpected "}"`}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tree := mustParse(t, tt.src)
			if got := format.SExpr(tree.Root); got != tt.want {
				t.Errorf("Parse(%q) =\n  %s\nwant\n  %s", tt.src, got, tt.want)
			}
			if len(tree.Diagnostics) != len(tt.kinds) {
				t.Fatalf("Parse(%q) diagnostics = %v, want %d", tt.src, tree.Diagnostics, len(tt.kinds))
			}
			for i, d := range tree.Diagnostics {
				if d.Kind != tt.kinds[i] || d.Message != tt.messages[i] {
					t.Errorf("diagnostic %d = %s %q, want %s %q", i, d.Kind, d.Message, tt.kinds[i], tt.messages[i])
				}
			}
		})
	}
}

func TestParseMissingOperandExpectsAnExpression(t *testing.T) {
	tree := mustParse(t, "1 +")
	d := tree.Diagnostics[0]
	if !contains(d.Expected, "integer_literal") || contains(d.Expected, "_newline") {
		t.Errorf("expected = %v, want expression starts only", d.Expected)
	}
	if d.Span.Start.Offset != 3 || !d.Span.IsEmpty() {
		t.Errorf("span = %d-%d, want the end of input", d.Span.Start.Offset, d.Span.End.Offset)
	}
}

func TestParseEmptyInterpolationKeepsString(t *testing.T) {
	tree := mustParse(t, "`${}` + 1")
	if len(tree.Diagnostics) != 1 {
		t.Fatalf("diagnostics = %v, want 1", tree.Diagnostics)
	}
	if d := tree.Diagnostics[0]; d.Span.Start.Offset != 3 || d.Span.End.Offset != 4 {
		t.Errorf("span = %d-%d, want 3-4", d.Span.Start.Offset, d.Span.End.Offset)
	}
	errs := errorNodes(tree.Root)
	if len(errs) != 1 || !errs[0].Span.IsEmpty() || errs[0].Span.Start.Offset != 3 {
		t.Errorf("ERROR nodes = %v, want one empty at 3", errs)
	}
	want := "(source_file (expression_statement (binary_expression (interpolated_string (string_interpolation (ERROR))) (integer_literal))))"
	if got := format.SExpr(tree.Root); got != want {
		t.Errorf("tree =\n  %s\nwant\n  %s", got, want)
	}
}

func errorNodes(n *syntax.Node) []*syntax.Node {
	var out []*syntax.Node
	if n.IsError() {
		out = append(out, n)
	}
	for _, child := range n.Children {
		out = append(out, errorNodes(child)...)
	}
	return out
}

func contains(list []string, s string) bool {
	for _, item := range list {
		if item == s {
			return true
		}
	}
	return false
}

func TestParseRootSpan(t *testing.T) {
	for _, src := range []string{"", "  1  ", "\n\n1\n\n", "## c\n", `"abc`, "1 @ @"} {
		t.Run(src, func(t *testing.T) {
			tree := mustParse(t, src)
			span := tree.Root.Span
			if span.Start.Offset != 0 || span.End.Offset != len(src) {
				t.Errorf("root span = %d-%d, want 0-%d", span.Start.Offset, span.End.Offset, len(src))
			}
		})
	}
}

func TestParseIsIdempotent(t *testing.T) {
	p, err := NewParser()
	if err != nil {
		t.Fatalf("NewParser() error = %v", err)
	}
	src := []byte("1 + 2\n`x ${3}` ## c\n\"y\" @")
	first := p.Parse(src)
	second := p.Parse(src)
	if first.Root.StringWithPositions() != second.Root.StringWithPositions() {
		t.Errorf("parsing twice gave different trees:\n%s\n%s", first.Root.StringWithPositions(), second.Root.StringWithPositions())
	}
	if fmt.Sprint(first.Diagnostics) != fmt.Sprint(second.Diagnostics) {
		t.Errorf("parsing twice gave different diagnostics:\n%v\n%v", first.Diagnostics, second.Diagnostics)
	}
}

// checkCoverage verifies that the leaves of tree appear in source order,
// do not overlap and leave only whitespace between them.
func checkCoverage(t *testing.T, tree *syntax.Tree) {
	t.Helper()
	offset := 0
	for _, leaf := range tree.Root.Leaves() {
		span := leaf.Span
		if span.Start.Offset < offset {
			t.Fatalf("leaf %s at %d overlaps the previous one ending at %d", leaf.Type, span.Start.Offset, offset)
		}
		if gap := tree.Source[offset:span.Start.Offset]; !allSpace(gap) {
			t.Fatalf("text %q before %s at %d is not in any leaf", gap, leaf.Type, span.Start.Offset)
		}
		offset = span.End.Offset
	}
	if gap := tree.Source[offset:]; !allSpace(gap) {
		t.Fatalf("trailing text %q is not in any leaf", gap)
	}
}

func allSpace(b []byte) bool {
	for _, r := range string(b) {
		if !isSpace(r) {
			return false
		}
	}
	return true
}

func TestParseCoversInput(t *testing.T) {
	for _, src := range []string{
		"1 + 2 * 3\n-4 ## c\n",
		"`a ${ \"b\" } c`",
		"'\\n' '\\q' 'ab",
		"1 foo 2\n3 +\n4 @ 5",
		"}}} ;; \"unterminated",
		"${ 1 }",
	} {
		t.Run(src, func(t *testing.T) {
			checkCoverage(t, mustParse(t, src))
		})
	}
}

// TestParseTerminates feeds the parser random text over the characters
// that matter to the lexer and the scanner.
func TestParseTerminates(t *testing.T) {
	const alphabet = "1 +-*/;\n\r\t\"'`${}\\#@x.e_u"
	rng := rand.New(rand.NewSource(1))
	p, err := NewParser()
	if err != nil {
		t.Fatalf("NewParser() error = %v", err)
	}
	for i := 0; i < 500; i++ {
		n := rng.Intn(40)
		var b strings.Builder
		for j := 0; j < n; j++ {
			b.WriteByte(alphabet[rng.Intn(len(alphabet))])
		}
		src := b.String()
		tree := p.Parse([]byte(src))
		if tree == nil || tree.Root == nil {
			t.Fatalf("Parse(%q) returned no tree", src)
		}
		if tree.Root.Span.End.Offset != len(src) {
			t.Fatalf("Parse(%q) root ends at %d, want %d", src, tree.Root.Span.End.Offset, len(src))
		}
		checkCoverage(t, tree)
	}
}

func TestParseWithFile(t *testing.T) {
	tree := mustParse(t, "1 @", syntax.WithFile("x.able"))
	if len(tree.Diagnostics) != 1 {
		t.Fatalf("diagnostics = %v, want 1", tree.Diagnostics)
	}
	if got := tree.Diagnostics[0].Span.Start.String(); got != "x.able:1:3" {
		t.Errorf("position = %s, want x.able:1:3", got)
	}
}

func TestGolden(t *testing.T) {
	inputs, err := filepath.Glob(filepath.Join("testdata", "*.able"))
	if err != nil {
		t.Fatalf("glob: %v", err)
	}
	if len(inputs) == 0 {
		t.Fatalf("no inputs in testdata")
	}
	for _, input := range inputs {
		name := strings.TrimSuffix(filepath.Base(input), ".able")
		t.Run(name, func(t *testing.T) {
			src, err := os.ReadFile(input)
			if err != nil {
				t.Fatalf("read input: %v", err)
			}
			tree := mustParse(t, string(src), syntax.WithFile(filepath.Base(input)))

			var got bytes.Buffer
			got.WriteString(format.SExpr(tree.Root))
			got.WriteString("\n")
			for _, d := range tree.Diagnostics {
				fmt.Fprintf(&got, "%s: %s: %s\n", d.Span.Start, d.Kind, d.Message)
			}

			goldenPath := filepath.Join("testdata", name+".golden")
			if *updateGolden {
				if err := os.WriteFile(goldenPath, got.Bytes(), 0644); err != nil {
					t.Fatalf("failed to update golden file: %v", err)
				}
				t.Logf("updated golden file: %s", goldenPath)
				return
			}
			want, err := os.ReadFile(goldenPath)
			if err != nil {
				t.Fatalf("read golden: %v", err)
			}
			if !bytes.Equal(got.Bytes(), want) {
				t.Errorf("%s mismatch\ngot:\n%s\nwant:\n%s", name, got.Bytes(), want)
			}
		})
	}
}
