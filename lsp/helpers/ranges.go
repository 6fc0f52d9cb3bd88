package helpers

import (
	"bennypowers.dev/rrls/internal/parser/css"
	protocol "github.com/tliron/glsp/protocol_3_16"
)

// ToProtocolRange converts a parser range to an LSP range. Both use
// zero-based lines and UTF-16 characters.
func ToProtocolRange(r css.Range) protocol.Range {
	return protocol.Range{
		Start: protocol.Position{Line: r.Start.Line, Character: r.Start.Character},
		End:   protocol.Position{Line: r.End.Line, Character: r.End.Character},
	}
}

// FromProtocolPosition converts an LSP position to a parser position
func FromProtocolPosition(pos protocol.Position) css.Position {
	return css.Position{Line: pos.Line, Character: pos.Character}
}
