package complete

import (
	"fmt"
	"strconv"

	protocol "github.com/tliron/glsp/protocol_3_16"
	"go.uber.org/zap"

	"github.com/teranos/rankd/errors"
	"github.com/teranos/rankd/logger"
	"github.com/teranos/rankd/proposal"
	"github.com/teranos/rankd/ranking"
)

// assembler converts ranked candidates into protocol items for one response.
type assembler struct {
	responseID   int64
	matchChar    rune
	caps         ClientCapabilities
	replacements ReplacementComputer
	defaults     *ItemDefaults
	logger       *zap.SugaredLogger
}

func newAssembler(responseID int64, caps ClientCapabilities, replacements ReplacementComputer, log *zap.SugaredLogger) *assembler {
	if replacements == nil {
		replacements = insertOnly{}
	}
	return &assembler{
		responseID:   responseID,
		caps:         caps,
		replacements: replacements,
		logger:       log,
	}
}

// computeDefaults derives the list defaults from the top candidate. A failed
// replacement leaves the list without defaults.
func (a *assembler) computeDefaults(top proposal.Candidate) *ItemDefaults {
	if !a.caps.ItemDefaultsEditRange && !a.caps.ItemDefaultsInsertTextFormat {
		return nil
	}
	repl, err := a.replacements.ComputeReplacement(top, a.matchChar)
	if err != nil {
		a.logger.Debugw("Computing item defaults failed", logger.FieldError, err)
		return nil
	}
	a.defaults = computeDefaults(repl, a.caps)
	return a.defaults
}

// assembleAll builds the items for ranked[:limit]. Items that fail to build
// are logged and skipped.
func (a *assembler) assembleAll(ranked []proposal.Candidate, aggregations map[int]*ranking.Aggregation) ([]Item, int) {
	items := make([]Item, 0, len(ranked))
	failed := 0
	for i, c := range ranked {
		item, err := a.build(c, i, aggregations[c.Index])
		if err != nil {
			failed++
			a.logger.Warnw("Skipping completion item",
				logger.FieldIndex, i,
				logger.FieldCompletion, c.Completion,
				logger.FieldError, err)
			continue
		}
		items = append(items, item)
	}
	return items, failed
}

// build assembles the item at rank index. Panics are converted to errors so
// one bad candidate cannot fail the list.
func (a *assembler) build(c proposal.Candidate, index int, agg *ranking.Aggregation) (item Item, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = errors.Newf("panic assembling item: %v", r)
		}
	}()

	kind := itemKind(c)
	sortText := fmt.Sprintf("%09d", index)
	item.Label = c.DisplayLabel()
	item.Kind = &kind
	item.SortText = &sortText
	if c.Detail != "" {
		detail := c.Detail
		item.Detail = &detail
	}

	if c.Flags.IsDeprecated() {
		if a.caps.TagSupport {
			item.Tags = []protocol.CompletionItemTag{protocol.CompletionItemTagDeprecated}
		} else {
			deprecated := true
			item.Deprecated = &deprecated
		}
	}

	data := map[string]string{
		DataResponseID: strconv.FormatInt(a.responseID, 10),
		DataProposalID: strconv.Itoa(index),
	}

	repl, err := a.replacements.ComputeReplacement(c, a.matchChar)
	if err != nil {
		return Item{}, errors.Wrap(err, "compute replacement")
	}
	if repl == nil {
		return Item{}, errors.New("replacement computer returned nil")
	}

	if repl.NewText != "" {
		text := repl.NewText
		item.InsertText = &text
		if c.Kind == proposal.TypeRef {
			filter := repl.NewText
			item.FilterText = &filter
		}
	}
	if repl.Format != 0 {
		format := repl.Format
		item.InsertTextFormat = &format
	}

	edit := renderEdit(repl.Edit, a.caps)
	if edit != nil {
		collapseMultiline(edit)
		item.TextEdit = textEdit(edit, repl.NewText)
	}

	if agg != nil {
		if agg.Decorators != "" {
			item.Label = agg.Decorators + " " + item.Label
			if item.FilterText == nil && item.InsertText != nil {
				filter := *item.InsertText
				item.FilterText = &filter
			}
		}
		for k, v := range agg.Data {
			data[k] = v
		}
	}
	item.Data = data

	a.elide(&item, edit, repl.NewText)
	return item, nil
}

// collapseMultiline keeps an edit on one line by moving the end of the span
// that replaces text back to its start.
func collapseMultiline(edit *EditRange) {
	span := &edit.Insert
	if edit.Replace != nil {
		span = edit.Replace
	}
	if span.Start.Line != span.End.Line {
		span.End = span.Start
	}
}

func textEdit(edit *EditRange, newText string) any {
	if edit.Replace != nil {
		return protocol.InsertReplaceEdit{
			NewText: newText,
			Insert:  edit.Insert,
			Replace: *edit.Replace,
		}
	}
	return protocol.TextEdit{Range: edit.Insert, NewText: newText}
}

// elide drops attributes equal to the list defaults. The client rebuilds
// them from the defaults, so the effective insertion is unchanged.
func (a *assembler) elide(item *Item, edit *EditRange, newText string) {
	if a.defaults.empty() {
		return
	}
	if a.defaults.InsertTextFormat != nil && item.InsertTextFormat != nil &&
		*a.defaults.InsertTextFormat == *item.InsertTextFormat {
		item.InsertTextFormat = nil
	}
	if a.defaults.EditRange == nil {
		return
	}
	switch {
	case edit != nil && a.defaults.EditRange.Equal(edit):
		item.TextEdit = nil
		text := newText
		item.TextEditText = &text
	case edit == nil && item.InsertText != nil:
		// The default range applies to items without their own edit.
		text := *item.InsertText
		item.TextEditText = &text
	}
}
