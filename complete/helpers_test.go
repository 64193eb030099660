package complete

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	protocol "github.com/tliron/glsp/protocol_3_16"
	"go.uber.org/zap/zaptest"

	"github.com/teranos/rankd/errors"
	"github.com/teranos/rankd/proposal"
	"github.com/teranos/rankd/ranking"
)

// lineEdits places every candidate on line 0 and uses offsets as columns.
type lineEdits struct {
	offset int
	format protocol.InsertTextFormat
	// failOn makes ComputeReplacement fail for these completions.
	failOn map[string]bool
	// panicOn makes ComputeReplacement panic for these completions.
	panicOn map[string]bool
}

func pos(line, char int) protocol.Position {
	return protocol.Position{Line: protocol.UInteger(line), Character: protocol.UInteger(char)}
}

func (l lineEdits) ComputeReplacement(c proposal.Candidate, _ rune) (*Replacement, error) {
	if l.failOn[c.Completion] {
		return nil, errors.New("no edit")
	}
	if l.panicOn[c.Completion] {
		panic("broken candidate " + c.Completion)
	}
	format := l.format
	if format == 0 {
		format = protocol.InsertTextFormatPlainText
	}
	replace := protocol.Range{Start: pos(0, c.ReplaceStart), End: pos(0, c.ReplaceEnd)}
	if strings.Contains(c.Completion, "\n") {
		replace.End = pos(2, 1)
	}
	return &Replacement{
		Format:  format,
		NewText: c.Completion,
		Edit: &EditRange{
			Insert:  protocol.Range{Start: pos(0, c.ReplaceStart), End: pos(0, l.offset)},
			Replace: &replace,
		},
	}, nil
}

func allCaps() ClientCapabilities {
	return ClientCapabilities{
		TagSupport:                   true,
		InsertReplaceSupport:         true,
		ItemDefaultsInsertTextFormat: true,
		ItemDefaultsEditRange:        true,
	}
}

func newTestEngine(t *testing.T, settings Settings, providers ...ranking.Provider) *Engine {
	t.Helper()
	cache, err := NewResponseCache(8)
	require.NoError(t, err)
	e, err := NewEngine(settings, Collaborators{}, ranking.NewRegistry(providers...), cache, nil, zaptest.NewLogger(t).Sugar())
	require.NoError(t, err)
	return e
}

func runCompletion(t *testing.T, e *Engine, req Request, batch ...proposal.Candidate) *List {
	t.Helper()
	r := e.NewRequestor(req)
	require.NoError(t, r.AcceptAll(context.Background(), batch))
	list, err := r.Complete(context.Background())
	require.NoError(t, err)
	return list
}

func keyword(text string, relevance int) proposal.Candidate {
	return proposal.Candidate{
		Kind:         proposal.Keyword,
		Relevance:    relevance,
		Completion:   text,
		ReplaceStart: 0,
		ReplaceEnd:   len(text),
	}
}

func labels(items []Item) []string {
	out := make([]string, len(items))
	for i, it := range items {
		out[i] = it.Label
	}
	return out
}
