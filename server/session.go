package server

import (
	"encoding/json"
	"net/http"
	"slices"
	"strings"
	"sync"

	"github.com/gorilla/websocket"
	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"
	glspserver "github.com/tliron/glsp/server"
	"go.uber.org/zap"

	"github.com/teranos/rankd/complete"
	"github.com/teranos/rankd/errors"
	"github.com/teranos/rankd/replace"
	"github.com/teranos/rankd/version"
)

const (
	// maxDocumentsPerClient caps the open-document store of one session.
	maxDocumentsPerClient = 100

	// Item-default names accepted in initializationOptions.completionItemDefaults.
	defaultInsertTextFormat = "insertTextFormat"
	defaultEditRange        = "editRange"
)

// session is the per-connection protocol state.
type session struct {
	server *Server
	id     int64
	logger *zap.SugaredLogger

	mu        sync.RWMutex
	caps      complete.ClientCapabilities
	documents map[string]*replace.Document
}

func (s *Server) newSession() *session {
	id := s.sessions.Add(1)
	return &session{
		server:    s,
		id:        id,
		logger:    s.logger.Named("lsp").With("session", id),
		documents: make(map[string]*replace.Document),
	}
}

// protocolHandler routes LSP methods to the session.
func (ss *session) protocolHandler() *protocol.Handler {
	return &protocol.Handler{
		Initialize:              ss.Initialize,
		Initialized:             ss.Initialized,
		Shutdown:                ss.Shutdown,
		SetTrace:                ss.SetTrace,
		TextDocumentDidOpen:     ss.TextDocumentDidOpen,
		TextDocumentDidChange:   ss.TextDocumentDidChange,
		TextDocumentDidClose:    ss.TextDocumentDidClose,
		TextDocumentCompletion:  ss.TextDocumentCompletion,
		CompletionItemResolve:   ss.CompletionItemResolve,
		WorkspaceExecuteCommand: ss.WorkspaceExecuteCommand,
	}
}

// clientCompletionCapabilities is the subset of the client capabilities the
// engine consults.
type clientCompletionCapabilities struct {
	TextDocument struct {
		Completion struct {
			CompletionItem struct {
				TagSupport           *struct{ ValueSet []int } `json:"tagSupport"`
				InsertReplaceSupport bool                      `json:"insertReplaceSupport"`
			} `json:"completionItem"`
		} `json:"completion"`
	} `json:"textDocument"`
}

type initializationOptions struct {
	CompletionItemDefaults []string `json:"completionItemDefaults"`
}

// decodeCapabilities reads completion capabilities from the initialize
// params. List item defaults postdate the 3.16 capability types, so clients
// announce them through initializationOptions; configuration can also force them.
func decodeCapabilities(params *protocol.InitializeParams, forceDefaults bool) (complete.ClientCapabilities, error) {
	var caps complete.ClientCapabilities

	raw, err := json.Marshal(params.Capabilities)
	if err != nil {
		return caps, errors.Wrap(err, "failed to encode client capabilities")
	}
	var cc clientCompletionCapabilities
	if err := json.Unmarshal(raw, &cc); err != nil {
		return caps, errors.Wrap(err, "failed to decode client capabilities")
	}
	item := cc.TextDocument.Completion.CompletionItem
	if item.TagSupport != nil {
		caps.TagSupport = slices.Contains(item.TagSupport.ValueSet, int(protocol.CompletionItemTagDeprecated))
	}
	caps.InsertReplaceSupport = item.InsertReplaceSupport

	if params.InitializationOptions != nil {
		raw, err := json.Marshal(params.InitializationOptions)
		if err != nil {
			return caps, errors.Wrap(err, "failed to encode initialization options")
		}
		var opts initializationOptions
		if err := json.Unmarshal(raw, &opts); err != nil {
			return caps, errors.Wrap(err, "failed to decode initialization options")
		}
		caps.ItemDefaultsInsertTextFormat = slices.Contains(opts.CompletionItemDefaults, defaultInsertTextFormat)
		caps.ItemDefaultsEditRange = slices.Contains(opts.CompletionItemDefaults, defaultEditRange)
	}
	if forceDefaults {
		caps.ItemDefaultsInsertTextFormat = true
		caps.ItemDefaultsEditRange = true
	}
	return caps, nil
}

// Initialize handles the LSP initialize request
func (ss *session) Initialize(ctx *glsp.Context, params *protocol.InitializeParams) (any, error) {
	caps, err := decodeCapabilities(params, ss.server.Config().Completion.ItemDefaults)
	if err != nil {
		return nil, err
	}
	ss.mu.Lock()
	ss.caps = caps
	ss.mu.Unlock()

	client := "unknown"
	if params.ClientInfo != nil {
		client = params.ClientInfo.Name
	}
	ss.logger.Infow("LSP client initializing",
		"client", client,
		"tag_support", caps.TagSupport,
		"insert_replace", caps.InsertReplaceSupport,
		"default_format", caps.ItemDefaultsInsertTextFormat,
		"default_range", caps.ItemDefaultsEditRange,
	)

	syncKind := protocol.TextDocumentSyncKindIncremental
	return protocol.InitializeResult{
		Capabilities: protocol.ServerCapabilities{
			TextDocumentSync: &protocol.TextDocumentSyncOptions{
				OpenClose: ptr(true),
				Change:    &syncKind,
			},
			CompletionProvider: &protocol.CompletionOptions{
				TriggerCharacters: []string{".", "@", "#"},
				ResolveProvider:   ptr(true),
			},
			ExecuteCommandProvider: &protocol.ExecuteCommandOptions{
				Commands: []string{CommandOnDidSelect},
			},
		},
		ServerInfo: &protocol.InitializeResultServerInfo{
			Name:    Name,
			Version: ptr(version.Get().Version),
		},
	}, nil
}

// Initialized is called after the client receives InitializeResult
func (ss *session) Initialized(ctx *glsp.Context, params *protocol.InitializedParams) error {
	ss.logger.Debugw("LSP client initialized")
	return nil
}

// Shutdown handles the LSP shutdown request
func (ss *session) Shutdown(ctx *glsp.Context) error {
	ss.logger.Infow("LSP client shutting down")
	protocol.SetTraceValue(protocol.TraceValueOff)
	return nil
}

func (ss *session) SetTrace(ctx *glsp.Context, params *protocol.SetTraceParams) error {
	protocol.SetTraceValue(params.Value)
	return nil
}

func (ss *session) capabilities() complete.ClientCapabilities {
	ss.mu.RLock()
	defer ss.mu.RUnlock()
	return ss.caps
}

func (ss *session) document(uri string) *replace.Document {
	ss.mu.RLock()
	defer ss.mu.RUnlock()
	return ss.documents[uri]
}

// TextDocumentDidOpen stores the opened document
func (ss *session) TextDocumentDidOpen(ctx *glsp.Context, params *protocol.DidOpenTextDocumentParams) error {
	ss.mu.Lock()
	defer ss.mu.Unlock()

	uri := string(params.TextDocument.URI)
	if _, exists := ss.documents[uri]; !exists && len(ss.documents) >= maxDocumentsPerClient {
		ss.logger.Warnw("Document limit reached, rejecting document",
			"uri", uri,
			"max_allowed", maxDocumentsPerClient,
		)
		return errors.Newf("document limit reached (%d documents open)", maxDocumentsPerClient)
	}
	ss.documents[uri] = replace.NewDocument(uri, params.TextDocument.Version, params.TextDocument.Text)

	ss.logger.Debugw("Document opened",
		"uri", uri,
		"length", len(params.TextDocument.Text),
		"total_documents", len(ss.documents),
	)
	return nil
}

// TextDocumentDidChange applies full or incremental changes in order
func (ss *session) TextDocumentDidChange(ctx *glsp.Context, params *protocol.DidChangeTextDocumentParams) error {
	ss.mu.Lock()
	defer ss.mu.Unlock()

	uri := string(params.TextDocument.URI)
	doc, ok := ss.documents[uri]
	if !ok {
		return errors.NewNotFoundError("document %s is not open", uri)
	}

	text := doc.Text
	for _, change := range params.ContentChanges {
		switch c := change.(type) {
		case protocol.TextDocumentContentChangeEventWhole:
			text = c.Text
		case protocol.TextDocumentContentChangeEvent:
			current := replace.NewDocument(uri, doc.Version, text)
			start, err := current.OffsetAt(c.Range.Start)
			if err != nil {
				return errors.Wrapf(err, "change start in %s", uri)
			}
			end, err := current.OffsetAt(c.Range.End)
			if err != nil {
				return errors.Wrapf(err, "change end in %s", uri)
			}
			if end < start {
				return errors.NewInvalidRequestError("inverted change range in %s", uri)
			}
			text = text[:start] + c.Text + text[end:]
		}
	}
	ss.documents[uri] = replace.NewDocument(uri, params.TextDocument.Version, text)

	ss.logger.Debugw("Document changed",
		"uri", uri,
		"changes", len(params.ContentChanges),
		"version", params.TextDocument.Version,
	)
	return nil
}

// TextDocumentDidClose drops the document
func (ss *session) TextDocumentDidClose(ctx *glsp.Context, params *protocol.DidCloseTextDocumentParams) error {
	ss.mu.Lock()
	defer ss.mu.Unlock()

	uri := string(params.TextDocument.URI)
	delete(ss.documents, uri)
	ss.logger.Debugw("Document closed", "uri", uri)
	return nil
}

// checkOrigin accepts requests without an Origin header (editors, tests) and
// origins starting with a configured prefix.
func (s *Server) checkOrigin(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	if origin == "" {
		return true
	}
	for _, allowed := range s.Config().Server.AllowedOrigins {
		if strings.HasSuffix(allowed, "*") {
			if strings.HasPrefix(origin, strings.TrimSuffix(allowed, "*")) {
				return true
			}
			continue
		}
		// Prefix match so any port is allowed
		if strings.HasPrefix(origin, allowed) {
			return true
		}
	}
	return false
}

// HandleLSPWebSocket upgrades HTTP to WebSocket and serves one LSP session
func (s *Server) HandleLSPWebSocket(w http.ResponseWriter, r *http.Request) {
	upgrader := websocket.Upgrader{CheckOrigin: s.checkOrigin}
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Warnw("Failed to upgrade WebSocket", "remote", r.RemoteAddr, "error", err)
		return
	}

	s.wg.Add(1)
	defer s.wg.Done()

	ss := s.newSession()
	glspServer := glspserver.NewServer(ss.protocolHandler(), Name, false)
	glspServer.Context = s.ctx

	ss.logger.Infow("Serving LSP over WebSocket", "remote", r.RemoteAddr)

	// Close the socket on shutdown so ServeWebSocket returns
	done := make(chan struct{})
	go func() {
		select {
		case <-s.ctx.Done():
			conn.Close()
		case <-done:
		}
	}()

	glspServer.ServeWebSocket(conn)
	close(done)

	ss.logger.Infow("LSP WebSocket connection closed", "remote", r.RemoteAddr)
}

// ServeStdio serves a single LSP session over stdin and stdout until the
// client disconnects.
func (s *Server) ServeStdio() error {
	ss := s.newSession()
	glspServer := glspserver.NewServer(ss.protocolHandler(), Name, false)
	glspServer.Context = s.ctx

	ss.logger.Infow("Serving LSP over stdio")
	return glspServer.RunStdio()
}

func ptr[T any](v T) *T { return &v }
