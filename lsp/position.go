// Copyright © 2024 The Lithium authors

package lsp

import (
	"strings"

	protocol "github.com/tliron/glsp/protocol_3_16"

	"github.com/barmalei/lithium/buffer"
)

// safeUint converts a non-negative int to protocol.UInteger, clamping
// negative values to zero.
func safeUint(n int) protocol.UInteger {
	if n < 0 {
		return 0
	}
	return protocol.UInteger(n) // #nosec G115 -- line/col are always small positive ints
}

// toPoint converts a 0-based LSP position to a buffer position.
func toPoint(content string, pos protocol.Position) (buffer.Position, error) {
	return buffer.PointAt(content, int(pos.Line), int(pos.Character))
}

// toPosition converts a buffer position to a 0-based LSP position.
func toPosition(content string, p buffer.Position) protocol.Position {
	line, col := buffer.LineCol(content, p)
	return protocol.Position{Line: safeUint(line), Character: safeUint(col)}
}

// toRange converts a buffer region to an LSP range.
func toRange(content string, r buffer.Region) protocol.Range {
	return protocol.Range{Start: toPosition(content, r.Start), End: toPosition(content, r.End)}
}

// lineRange returns the range of the 1-based line, from its first
// non-blank character to its end.
func lineRange(content string, line int) protocol.Range {
	p, err := buffer.PointAt(content, line-1, 0)
	if err != nil {
		l := safeUint(line - 1)
		return protocol.Range{Start: protocol.Position{Line: l}, End: protocol.Position{Line: l}}
	}
	r := buffer.LineAt(content, p)
	text := content[r.Start:r.End]
	r.Start += buffer.Position(len(text) - len(strings.TrimLeft(text, " \t")))
	return toRange(content, r)
}

// wholeDocument returns the edit replacing content with newText.
func wholeDocument(content, newText string) protocol.TextEdit {
	return protocol.TextEdit{
		Range: protocol.Range{
			Start: protocol.Position{Line: 0, Character: 0},
			End:   toPosition(content, buffer.Position(len(content))),
		},
		NewText: newText,
	}
}

// uriToPath converts a file:// URI to a filesystem path.
func uriToPath(uri string) string {
	if path, ok := strings.CutPrefix(uri, "file://"); ok {
		return path
	}
	return uri
}

// pathToURI converts a filesystem path to a file:// URI.
func pathToURI(path string) string {
	if strings.HasPrefix(path, "/") {
		return "file://" + path
	}
	return path
}
