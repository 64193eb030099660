// Package complete turns a raw stream of completion candidates into an
// ordered, size-bounded, protocol-ready completion list.
//
// A request flows through a Requestor: candidates are filtered and expanded
// as they are accepted, ranking providers are consulted once for the whole
// batch, the batch is sorted and truncated, and the retained prefix is
// assembled into LSP items. The finished response is cached so that a later
// completionItem/resolve can recover the originating candidate.
package complete

import (
	"strings"

	"github.com/teranos/rankd/errors"
	"github.com/teranos/rankd/proposal"
)

// MatchCaseMode controls case-sensitive filtering of candidates against the typed token.
type MatchCaseMode string

const (
	MatchCaseOff         MatchCaseMode = "off"
	MatchCaseFirstLetter MatchCaseMode = "firstletter"
)

// ParseMatchCaseMode accepts "off" or "firstletter"; empty means off.
func ParseMatchCaseMode(s string) (MatchCaseMode, error) {
	switch MatchCaseMode(strings.ToLower(strings.TrimSpace(s))) {
	case "", MatchCaseOff:
		return MatchCaseOff, nil
	case MatchCaseFirstLetter:
		return MatchCaseFirstLetter, nil
	default:
		return "", errors.NewInvalidRequestError("unknown match case mode %q", s)
	}
}

// DefaultMaxResults bounds the item list when nothing is configured.
const DefaultMaxResults = 50

// Settings are the server-side completion preferences.
type Settings struct {
	// MaxResults caps the returned items; zero or negative disables the cap.
	MaxResults   int
	MatchCase    MatchCaseMode
	IgnoredKinds []proposal.Kind
}

// ClientCapabilities are the completion features the requesting client declared.
type ClientCapabilities struct {
	// TagSupport: deprecation is reported as a tag rather than a boolean.
	TagSupport bool
	// InsertReplaceSupport: edits carry independent insert and replace ranges.
	InsertReplaceSupport bool
	// ItemDefaultsInsertTextFormat: the list may carry a default insert-text format.
	ItemDefaultsInsertTextFormat bool
	// ItemDefaultsEditRange: the list may carry a default edit range.
	ItemDefaultsEditRange bool
}
