package lsp

import (
	"strings"
	"testing"

	"github.com/tliron/commonlog"
	protocol "github.com/tliron/glsp/protocol_3_16"

	"github.com/dhamidi/able/able"
)

func TestOffsetAt(t *testing.T) {
	tests := []struct {
		src  string
		pos  protocol.Position
		want int
	}{
		{"abc", protocol.Position{Line: 0, Character: 2}, 2},
		{"a😀b\nc", protocol.Position{Line: 0, Character: 3}, 5},
		{"a😀b\nc", protocol.Position{Line: 1, Character: 0}, 7},
		{"a😀b\nc", protocol.Position{Line: 0, Character: 99}, 6},
		{"a😀b\nc", protocol.Position{Line: 5, Character: 0}, 8},
		{"a\r\nb", protocol.Position{Line: 1, Character: 1}, 4},
		{"a\rb", protocol.Position{Line: 1, Character: 0}, 2},
		{"é1", protocol.Position{Line: 0, Character: 1}, 2},
	}
	for _, tt := range tests {
		t.Run(tt.src, func(t *testing.T) {
			if got := offsetAt([]byte(tt.src), tt.pos); got != tt.want {
				t.Errorf("offsetAt(%q, %v) = %d, want %d", tt.src, tt.pos, got, tt.want)
			}
		})
	}
}

func TestPositionOf(t *testing.T) {
	tests := []struct {
		src    string
		offset int
		want   protocol.Position
	}{
		{"abc", 0, protocol.Position{Line: 0, Character: 0}},
		{"a😀b\nc", 5, protocol.Position{Line: 0, Character: 3}},
		{"a😀b\nc", 7, protocol.Position{Line: 1, Character: 0}},
		{"a\r\nb", 3, protocol.Position{Line: 1, Character: 0}},
		{"a\rb", 2, protocol.Position{Line: 1, Character: 0}},
		{"ab", 10, protocol.Position{Line: 0, Character: 2}},
	}
	for _, tt := range tests {
		t.Run(tt.src, func(t *testing.T) {
			if got := positionOf([]byte(tt.src), tt.offset); got != tt.want {
				t.Errorf("positionOf(%q, %d) = %v, want %v", tt.src, tt.offset, got, tt.want)
			}
		})
	}
}

func TestPositionRoundTrip(t *testing.T) {
	src := []byte("x😀 日本\r\n\tz\n")
	for offset := 0; offset <= len(src); offset++ {
		if offset < len(src) && src[offset]&0xC0 == 0x80 {
			continue
		}
		if offset > 0 && src[offset-1] == '\r' {
			continue
		}
		pos := positionOf(src, offset)
		if got := offsetAt(src, pos); got != offset {
			t.Errorf("offsetAt(positionOf(%d) = %v) = %d", offset, pos, got)
		}
	}
}

func newTestDocuments(t *testing.T) *documents {
	t.Helper()
	lang, err := able.Language()
	if err != nil {
		t.Fatalf("able.Language() error = %v", err)
	}
	return newDocuments(lang, commonlog.GetLogger("able.parser"))
}

func TestDiagnostics(t *testing.T) {
	docs := newTestDocuments(t)
	doc := docs.update("file:///tmp/x.able", "1 foo")
	diags := doc.diagnostics()
	if len(diags) != 1 {
		t.Fatalf("diagnostics = %v, want 1", diags)
	}
	d := diags[0]
	if d.Range.Start != (protocol.Position{Line: 0, Character: 2}) {
		t.Errorf("start = %v, want 0:2", d.Range.Start)
	}
	if !strings.HasPrefix(d.Message, `lex error: unexpected identifier "foo"`) {
		t.Errorf("message = %q", d.Message)
	}
	if d.Severity == nil || *d.Severity != protocol.DiagnosticSeverityError {
		t.Errorf("severity = %v, want error", d.Severity)
	}
	if d.Source == nil || *d.Source != "able" {
		t.Errorf("source = %v, want able", d.Source)
	}

	clean := docs.update("file:///tmp/x.able", "1 + 2")
	if got := clean.diagnostics(); len(got) != 0 {
		t.Errorf("diagnostics after fix = %v, want none", got)
	}
	if got, _ := docs.get("file:///tmp/x.able"); got != clean {
		t.Errorf("get() did not return the latest document")
	}
	if got := clean.tree.Root.Span.Start.File; got != "/tmp/x.able" {
		t.Errorf("file = %q, want /tmp/x.able", got)
	}
}

func TestHover(t *testing.T) {
	docs := newTestDocuments(t)
	doc := docs.update("untitled:1", "1 + 2")

	hover, ok := doc.hover(protocol.Position{Line: 0, Character: 4})
	if !ok {
		t.Fatalf("hover found nothing")
	}
	content, ok := hover.Contents.(protocol.MarkupContent)
	if !ok {
		t.Fatalf("contents = %T, want MarkupContent", hover.Contents)
	}
	want := "`source_file > expression_statement > binary_expression > integer_literal`"
	if content.Value != want {
		t.Errorf("hover = %q, want %q", content.Value, want)
	}
	if hover.Range == nil || hover.Range.Start.Character != 4 || hover.Range.End.Character != 5 {
		t.Errorf("range = %v, want 0:4-0:5", hover.Range)
	}

	if _, ok := doc.hover(protocol.Position{Line: 0, Character: 5}); ok {
		t.Errorf("hover past the end found a node")
	}
}

func TestClose(t *testing.T) {
	docs := newTestDocuments(t)
	docs.update("untitled:1", "1")
	docs.close("untitled:1")
	if _, ok := docs.get("untitled:1"); ok {
		t.Errorf("document is still open after close")
	}
}

func TestURIToPath(t *testing.T) {
	tests := []struct {
		uri  string
		want string
	}{
		{"file:///home/me/a.able", "/home/me/a.able"},
		{"file:///home/me/with%20space.able", "/home/me/with space.able"},
		{"untitled:1", "untitled:1"},
	}
	for _, tt := range tests {
		got, err := uriToPath(tt.uri)
		if err != nil {
			t.Fatalf("uriToPath(%q) error = %v", tt.uri, err)
		}
		if got != tt.want {
			t.Errorf("uriToPath(%q) = %q, want %q", tt.uri, got, tt.want)
		}
	}
}
