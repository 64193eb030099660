package replace

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	protocol "github.com/tliron/glsp/protocol_3_16"

	"github.com/teranos/rankd/proposal"
)

func pos(line, char int) protocol.Position {
	return protocol.Position{Line: protocol.UInteger(line), Character: protocol.UInteger(char)}
}

func TestDocument_Positions(t *testing.T) {
	// "é" is two bytes and one UTF-16 unit, "𝄞" four bytes and two units.
	doc := NewDocument("file:///a.java", 1, "ab\né𝄞x\n")
	assert.Equal(t, 3, doc.Lines())

	tests := []struct {
		offset int
		want   protocol.Position
	}{
		{0, pos(0, 0)},
		{2, pos(0, 2)},
		{3, pos(1, 0)},
		{5, pos(1, 1)},
		{9, pos(1, 3)},
		{10, pos(1, 4)},
		{11, pos(2, 0)},
	}
	for _, tt := range tests {
		got, err := doc.PositionAt(tt.offset)
		require.NoError(t, err)
		assert.Equal(t, tt.want, got, "offset %d", tt.offset)

		back, err := doc.OffsetAt(got)
		require.NoError(t, err)
		assert.Equal(t, tt.offset, back, "round trip of %d", tt.offset)
	}

	_, err := doc.PositionAt(12)
	assert.Error(t, err)
	_, err = doc.OffsetAt(pos(3, 0))
	assert.Error(t, err)

	clamped, err := doc.OffsetAt(pos(0, 40))
	require.NoError(t, err)
	assert.Equal(t, 2, clamped)
}

func TestComputer_ComputeReplacement(t *testing.T) {
	doc := NewDocument("file:///a.java", 1, "int x = fooB;\n")
	c := NewComputer(doc, 11)

	repl, err := c.ComputeReplacement(proposal.Candidate{Completion: "fooBar", ReplaceStart: 8, ReplaceEnd: 12}, 0)
	require.NoError(t, err)
	assert.Equal(t, "fooBar", repl.NewText)
	assert.Equal(t, protocol.InsertTextFormatPlainText, repl.Format)
	assert.Equal(t, protocol.Range{Start: pos(0, 8), End: pos(0, 11)}, repl.Edit.Insert)
	require.NotNil(t, repl.Edit.Replace)
	assert.Equal(t, protocol.Range{Start: pos(0, 8), End: pos(0, 12)}, *repl.Edit.Replace)
}

func TestComputer_InvalidSpan(t *testing.T) {
	doc := NewDocument("file:///a.java", 1, "abc")
	c := NewComputer(doc, 1)
	for _, cand := range []proposal.Candidate{
		{ReplaceStart: -1, ReplaceEnd: 1},
		{ReplaceStart: 2, ReplaceEnd: 1},
		{ReplaceStart: 0, ReplaceEnd: 4},
	} {
		_, err := c.ComputeReplacement(cand, 0)
		assert.Error(t, err)
	}
}
