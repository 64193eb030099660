package replace

import (
	protocol "github.com/tliron/glsp/protocol_3_16"

	"github.com/teranos/rankd/complete"
	"github.com/teranos/rankd/errors"
	"github.com/teranos/rankd/proposal"
)

// Computer replaces each candidate's [ReplaceStart, ReplaceEnd) span with its
// completion text. The insert range stops at the cursor, the replace range
// covers the whole span.
type Computer struct {
	doc    *Document
	offset int
}

func NewComputer(doc *Document, offset int) *Computer {
	return &Computer{doc: doc, offset: offset}
}

func (c *Computer) ComputeReplacement(cand proposal.Candidate, _ rune) (*complete.Replacement, error) {
	start, end := cand.ReplaceStart, cand.ReplaceEnd
	if start < 0 || end < start || end > len(c.doc.Text) {
		return nil, errors.Newf("replace span [%d, %d] invalid for %q", start, end, cand.Completion)
	}

	insertEnd := min(max(c.offset, start), end)
	insert, err := c.doc.RangeOf(start, insertEnd)
	if err != nil {
		return nil, err
	}
	replace, err := c.doc.RangeOf(start, end)
	if err != nil {
		return nil, err
	}

	return &complete.Replacement{
		Format:  protocol.InsertTextFormatPlainText,
		NewText: cand.Completion,
		Edit:    &complete.EditRange{Insert: insert, Replace: &replace},
	}, nil
}
