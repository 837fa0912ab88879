package lsp

import (
	"unicode/utf8"

	protocol "github.com/tliron/glsp/protocol_3_16"

	"github.com/dhamidi/able/syntax"
)

// Clients count characters in UTF-16 code units. These helpers convert
// between that and byte offsets into the document.

// offsetAt returns the byte offset of pos in src. Positions past the end
// of a line clamp to the line end; lines past the end of src clamp to
// len(src).
func offsetAt(src []byte, pos protocol.Position) int {
	offset := 0
	for line := protocol.UInteger(0); line < pos.Line; line++ {
		i := indexNewline(src[offset:])
		if i < 0 {
			return len(src)
		}
		offset += i + 1
	}
	units := protocol.UInteger(0)
	for offset < len(src) && units < pos.Character {
		r, size := utf8.DecodeRune(src[offset:])
		if r == '\n' || r == '\r' {
			break
		}
		units += utf16Len(r)
		offset += size
	}
	return offset
}

// positionOf returns the protocol position of the byte offset.
func positionOf(src []byte, offset int) protocol.Position {
	if offset > len(src) {
		offset = len(src)
	}
	var pos protocol.Position
	for i := 0; i < offset; {
		r, size := utf8.DecodeRune(src[i:])
		switch {
		case r == '\n':
			pos.Line++
			pos.Character = 0
		case r == '\r' && (i+1 >= len(src) || src[i+1] != '\n'):
			pos.Line++
			pos.Character = 0
		case r == '\r':
		default:
			pos.Character += utf16Len(r)
		}
		i += size
	}
	return pos
}

func rangeOf(src []byte, span syntax.Span) protocol.Range {
	return protocol.Range{
		Start: positionOf(src, span.Start.Offset),
		End:   positionOf(src, span.End.Offset),
	}
}

func utf16Len(r rune) protocol.UInteger {
	if r >= 0x10000 {
		return 2
	}
	return 1
}

func indexNewline(b []byte) int {
	for i, c := range b {
		switch c {
		case '\n':
			return i
		case '\r':
			if i+1 < len(b) && b[i+1] == '\n' {
				return i + 1
			}
			return i
		}
	}
	return -1
}
