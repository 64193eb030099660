package complete

import (
	protocol "github.com/tliron/glsp/protocol_3_16"

	"github.com/teranos/rankd/proposal"
)

// Replacement is the text edit computed for one candidate.
type Replacement struct {
	// Format is zero when the computer does not state one.
	Format  protocol.InsertTextFormat
	NewText string
	// Edit is nil when the candidate is inserted at the cursor without a range.
	Edit *EditRange
}

// ReplacementComputer produces the edit a candidate applies to the document.
// matchChar is the character that triggered the request, or zero.
type ReplacementComputer interface {
	ComputeReplacement(c proposal.Candidate, matchChar rune) (*Replacement, error)
}

// insertOnly is used when a request carries no replacement computer.
type insertOnly struct{}

func (insertOnly) ComputeReplacement(c proposal.Candidate, _ rune) (*Replacement, error) {
	return &Replacement{NewText: c.Completion}, nil
}
