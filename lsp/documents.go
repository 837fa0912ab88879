package lsp

import (
	"net/url"
	"path/filepath"
	"strings"
	"sync"

	"github.com/tliron/commonlog"
	protocol "github.com/tliron/glsp/protocol_3_16"

	"github.com/dhamidi/able/syntax"
)

const diagnosticSource = "able"

type document struct {
	uri  protocol.DocumentUri
	tree *syntax.Tree
}

// documents holds the latest parse of every open document.
type documents struct {
	mu   sync.Mutex
	lang syntax.Language
	log  commonlog.Logger
	open map[protocol.DocumentUri]*document
}

func newDocuments(lang syntax.Language, log commonlog.Logger) *documents {
	return &documents{
		lang: lang,
		log:  log,
		open: make(map[protocol.DocumentUri]*document),
	}
}

// update reparses uri from text and returns the new document.
func (d *documents) update(uri protocol.DocumentUri, text string) *document {
	p := syntax.NewParser(d.lang, syntax.WithFile(displayName(uri)), syntax.WithLogger(d.log))
	tree := p.Parse([]byte(text))
	doc := &document{uri: uri, tree: tree}
	d.mu.Lock()
	d.open[uri] = doc
	d.mu.Unlock()
	return doc
}

func (d *documents) get(uri protocol.DocumentUri) (*document, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	doc, ok := d.open[uri]
	return doc, ok
}

func (d *documents) close(uri protocol.DocumentUri) {
	d.mu.Lock()
	delete(d.open, uri)
	d.mu.Unlock()
}

func (doc *document) diagnostics() []protocol.Diagnostic {
	severity := protocol.DiagnosticSeverityError
	source := diagnosticSource
	out := make([]protocol.Diagnostic, 0, len(doc.tree.Diagnostics))
	for _, d := range doc.tree.Diagnostics {
		message := d.Message
		if len(d.Expected) > 0 {
			message += "; " + syntax.ExpectedText(d.Expected)
		}
		out = append(out, protocol.Diagnostic{
			Range:    rangeOf(doc.tree.Source, d.Span),
			Severity: &severity,
			Source:   &source,
			Message:  d.Kind.String() + ": " + message,
		})
	}
	return out
}

// hover describes the innermost node at pos as the path of node types
// leading to it, or returns false when pos is outside every visible node.
func (doc *document) hover(pos protocol.Position) (*protocol.Hover, bool) {
	offset := offsetAt(doc.tree.Source, pos)
	path := doc.tree.Root.DescendantAt(offset)
	if len(path) == 0 {
		return nil, false
	}
	types := make([]string, len(path))
	for i, n := range path {
		types[i] = n.Type
	}
	inner := path[len(path)-1]
	value := "`" + strings.Join(types, " > ") + "`"
	if inner.IsError() {
		for i := len(doc.tree.Diagnostics) - 1; i >= 0; i-- {
			d := doc.tree.Diagnostics[i]
			if d.Span.Start.Offset >= inner.Span.Start.Offset && d.Span.Start.Offset <= inner.Span.End.Offset {
				value += "\n\n" + d.Message
				break
			}
		}
	}
	r := rangeOf(doc.tree.Source, inner.Span)
	return &protocol.Hover{
		Contents: protocol.MarkupContent{
			Kind:  protocol.MarkupKindMarkdown,
			Value: value,
		},
		Range: &r,
	}, true
}

func uriToPath(uri string) (string, error) {
	if strings.HasPrefix(uri, "file://") {
		parsed, err := url.Parse(uri)
		if err != nil {
			return "", err
		}
		return filepath.Clean(parsed.Path), nil
	}
	return uri, nil
}

// displayName is the file name used in diagnostic positions.
func displayName(uri protocol.DocumentUri) string {
	path, err := uriToPath(string(uri))
	if err != nil {
		return string(uri)
	}
	return path
}
