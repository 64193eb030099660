// Package replace computes the text edits of completion items over an open
// document.
package replace

import (
	"sort"
	"unicode/utf16"
	"unicode/utf8"

	protocol "github.com/tliron/glsp/protocol_3_16"

	"github.com/teranos/rankd/errors"
)

// Document is an immutable snapshot of an open text document. Offsets are
// byte offsets into Text; positions use UTF-16 columns as LSP requires.
type Document struct {
	URI        string
	Version    int32
	Text       string
	lineStarts []int
}

func NewDocument(uri string, version int32, text string) *Document {
	starts := []int{0}
	for i := 0; i < len(text); i++ {
		if text[i] == '\n' {
			starts = append(starts, i+1)
		}
	}
	return &Document{URI: uri, Version: version, Text: text, lineStarts: starts}
}

// Lines is the number of lines; a trailing newline opens an empty last line.
func (d *Document) Lines() int {
	return len(d.lineStarts)
}

// PositionAt converts a byte offset to a protocol position.
func (d *Document) PositionAt(offset int) (protocol.Position, error) {
	if offset < 0 || offset > len(d.Text) {
		return protocol.Position{}, errors.Newf("offset %d outside document of length %d", offset, len(d.Text))
	}
	line := sort.Search(len(d.lineStarts), func(i int) bool { return d.lineStarts[i] > offset }) - 1
	col := 0
	for _, r := range d.Text[d.lineStarts[line]:offset] {
		col += utf16.RuneLen(r)
	}
	return protocol.Position{Line: protocol.UInteger(line), Character: protocol.UInteger(col)}, nil
}

// OffsetAt converts a protocol position to a byte offset. Columns past the
// end of a line clamp to the line end.
func (d *Document) OffsetAt(pos protocol.Position) (int, error) {
	line := int(pos.Line)
	if line >= len(d.lineStarts) {
		return 0, errors.Newf("line %d outside document of %d lines", line, len(d.lineStarts))
	}
	start := d.lineStarts[line]
	end := len(d.Text)
	if line+1 < len(d.lineStarts) {
		end = d.lineStarts[line+1] - 1
	}

	offset := start
	col := 0
	for offset < end && col < int(pos.Character) {
		r, size := utf8.DecodeRuneInString(d.Text[offset:end])
		col += utf16.RuneLen(r)
		offset += size
	}
	return offset, nil
}

// RangeOf converts a byte span to a protocol range.
func (d *Document) RangeOf(start, end int) (protocol.Range, error) {
	if start > end {
		return protocol.Range{}, errors.Newf("inverted span [%d, %d]", start, end)
	}
	s, err := d.PositionAt(start)
	if err != nil {
		return protocol.Range{}, err
	}
	e, err := d.PositionAt(end)
	if err != nil {
		return protocol.Range{}, err
	}
	return protocol.Range{Start: s, End: e}, nil
}
