package server

import (
	"context"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"

	"github.com/teranos/rankd/analyzer"
	"github.com/teranos/rankd/complete"
	"github.com/teranos/rankd/errors"
	"github.com/teranos/rankd/logger"
	"github.com/teranos/rankd/replace"
)

// CommandOnDidSelect is attached to resolved items; the client runs it when
// the user accepts the item, and the server records the selection.
const CommandOnDidSelect = "rankd.completion.onDidSelect"

const completionTimeout = 5 * time.Second

// TextDocumentCompletion analyzes the document at the cursor and runs the
// candidates through the engine.
func (ss *session) TextDocumentCompletion(ctx *glsp.Context, params *protocol.CompletionParams) (result any, err error) {
	uri := string(params.TextDocument.URI)
	defer func() {
		if r := recover(); r != nil {
			ss.logger.Errorw("Panic in completion handler", "panic", r, logger.FieldURI, uri)
			result, err = &complete.List{Items: []complete.Item{}}, nil
		}
	}()

	doc := ss.document(uri)
	if doc == nil {
		ss.logger.Debugw("Completion for unopened document", logger.FieldURI, uri)
		return &complete.List{Items: []complete.Item{}}, nil
	}
	offset, err := doc.OffsetAt(params.Position)
	if err != nil {
		return nil, err
	}

	reqCtx, cancel := context.WithTimeout(ss.server.ctx, completionTimeout)
	defer cancel()
	reqCtx = logger.WithRequestID(reqCtx, uuid.NewString())
	return ss.complete(reqCtx, doc, offset, triggerChar(params.Context))
}

func (ss *session) complete(ctx context.Context, doc *replace.Document, offset int, matchChar rune) (*complete.List, error) {
	analysis := analyzer.Analyze(doc, offset)

	engine := ss.server.Engine()
	requestor := engine.NewRequestor(complete.Request{
		Context:      analysis.Context,
		Capabilities: ss.capabilities(),
		Replacements: replace.NewComputer(doc, offset),
		Locator:      analyzer.NewLocator(doc),
		MatchChar:    matchChar,
	})
	if err := requestor.AcceptAll(ctx, analysis.Candidates); err != nil {
		return nil, err
	}
	list, err := requestor.Complete(ctx)
	if err != nil {
		return nil, err
	}

	logger.FromContext(ctx, ss.logger).Debugw("LSP completion result",
		logger.FieldURI, doc.URI,
		logger.FieldToken, analysis.Context.Token,
		logger.FieldTotalCount, len(analysis.Candidates),
		logger.FieldCount, len(list.Items),
		logger.FieldComplete, !list.IsIncomplete,
	)
	return list, nil
}

func triggerChar(c *protocol.CompletionContext) rune {
	if c == nil || c.TriggerCharacter == nil {
		return 0
	}
	for _, r := range *c.TriggerCharacter {
		return r
	}
	return 0
}

// CompletionItemResolve fills the lazily computed parts of an item: detail,
// documentation and the selection command. Items whose response has been
// evicted come back unchanged.
func (ss *session) CompletionItemResolve(ctx *glsp.Context, item *protocol.CompletionItem) (*protocol.CompletionItem, error) {
	rid, pid, ok := itemReference(item.Data)
	if !ok {
		return item, nil
	}
	resp, cand, err := ss.server.cache.Resolve(rid, pid)
	if err != nil {
		ss.logger.Debugw("Resolving item of evicted response", "rid", rid, "pid", pid, logger.FieldError, err)
		return item, nil
	}

	if cand.Detail != "" {
		item.Detail = &cand.Detail
	}
	if cand.Documentation != "" {
		item.Documentation = protocol.MarkupContent{
			Kind:  protocol.MarkupKindMarkdown,
			Value: cand.Documentation,
		}
	}
	item.Command = &protocol.Command{
		Title:     "",
		Command:   CommandOnDidSelect,
		Arguments: []any{strconv.FormatInt(resp.ID, 10), strconv.Itoa(pid)},
	}
	return item, nil
}

// WorkspaceExecuteCommand records accepted items with the history provider.
func (ss *session) WorkspaceExecuteCommand(ctx *glsp.Context, params *protocol.ExecuteCommandParams) (any, error) {
	if params.Command != CommandOnDidSelect {
		return nil, errors.NewInvalidRequestError("unknown command %q", params.Command)
	}
	if len(params.Arguments) != 2 {
		return nil, errors.NewInvalidRequestError("%s takes a response id and a proposal id", CommandOnDidSelect)
	}
	rid, okR := toInt(params.Arguments[0])
	pid, okP := toInt(params.Arguments[1])
	if !okR || !okP {
		return nil, errors.NewInvalidRequestError("%s: malformed arguments %v", CommandOnDidSelect, params.Arguments)
	}

	_, cand, err := ss.server.cache.Resolve(int64(rid), pid)
	if err != nil {
		return nil, err
	}

	hist := ss.server.historyProvider()
	if hist == nil {
		ss.logger.Debugw("Selection not recorded, history disabled", logger.FieldCompletion, cand.Completion)
		return nil, nil
	}

	reqCtx, cancel := context.WithTimeout(ss.server.ctx, completionTimeout)
	defer cancel()
	if err := hist.Record(reqCtx, cand); err != nil {
		return nil, errors.Wrap(err, "failed to record selection")
	}
	ss.logger.Debugw("Selection recorded",
		logger.FieldCompletion, cand.Completion,
		logger.FieldKind, cand.Kind.String(),
	)
	return nil, nil
}

// itemReference extracts the response and proposal ids from item data, which
// arrives as a decoded JSON object.
func itemReference(data any) (int64, int, bool) {
	var rid, pid any
	switch m := data.(type) {
	case map[string]any:
		rid, pid = m[complete.DataResponseID], m[complete.DataProposalID]
	case map[string]string:
		rid, pid = m[complete.DataResponseID], m[complete.DataProposalID]
	default:
		return 0, 0, false
	}
	r, okR := toInt(rid)
	p, okP := toInt(pid)
	return int64(r), p, okR && okP
}

func toInt(v any) (int, bool) {
	switch x := v.(type) {
	case string:
		n, err := strconv.Atoi(x)
		return n, err == nil
	case float64:
		return int(x), x == float64(int(x))
	case int:
		return x, true
	default:
		return 0, false
	}
}
