package server

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/require"
	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"
	"go.uber.org/zap/zaptest"

	"github.com/teranos/rankd/am"
	"github.com/teranos/rankd/complete"
	rankdtest "github.com/teranos/rankd/internal/testing"
	"github.com/teranos/rankd/replace"
)

const demoURI = "file:///src/Demo.java"

const demoSource = "class Demo {\n    int counter;\n    int count() { return cou }\n}\n"

func testConfig(t *testing.T) *am.Config {
	t.Helper()
	v := viper.New()
	am.SetDefaults(v)
	cfg, err := am.LoadWithViper(v)
	require.NoError(t, err)
	return cfg
}

func newTestServer(t *testing.T, mutate ...func(*am.Config)) *Server {
	t.Helper()
	cfg := testConfig(t)
	for _, m := range mutate {
		m(cfg)
	}
	srv, err := New(cfg, rankdtest.CreateTestDB(t), zaptest.NewLogger(t).Sugar())
	require.NoError(t, err)
	t.Cleanup(func() { srv.Stop() })
	return srv
}

// initializedSession runs initialize with the given JSON params.
func initializedSession(t *testing.T, srv *Server, paramsJSON string) *session {
	t.Helper()
	var params protocol.InitializeParams
	require.NoError(t, json.Unmarshal([]byte(paramsJSON), &params))
	ss := srv.newSession()
	_, err := ss.Initialize(&glsp.Context{}, &params)
	require.NoError(t, err)
	return ss
}

func openDocument(t *testing.T, ss *session, uri, text string) {
	t.Helper()
	require.NoError(t, ss.TextDocumentDidOpen(&glsp.Context{}, &protocol.DidOpenTextDocumentParams{
		TextDocument: protocol.TextDocumentItem{URI: uri, LanguageID: "java", Version: 1, Text: text},
	}))
}

// positionAfter returns the position just after the first occurrence of marker.
func positionAfter(t *testing.T, text, marker string) protocol.Position {
	t.Helper()
	i := strings.Index(text, marker)
	require.GreaterOrEqual(t, i, 0, "marker %q", marker)
	pos, err := replace.NewDocument("", 0, text).PositionAt(i + len(marker))
	require.NoError(t, err)
	return pos
}

func requestCompletion(t *testing.T, ss *session, uri string, pos protocol.Position) *complete.List {
	t.Helper()
	result, err := ss.TextDocumentCompletion(&glsp.Context{}, &protocol.CompletionParams{
		TextDocumentPositionParams: protocol.TextDocumentPositionParams{
			TextDocument: protocol.TextDocumentIdentifier{URI: uri},
			Position:     pos,
		},
	})
	require.NoError(t, err)
	list, ok := result.(*complete.List)
	require.True(t, ok, "unexpected result %T", result)
	return list
}

func itemLabels(list *complete.List) []string {
	out := make([]string, len(list.Items))
	for i, it := range list.Items {
		out[i] = it.Label
	}
	return out
}
