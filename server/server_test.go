package server

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"go.uber.org/zap/zaptest"

	"github.com/teranos/rankd/am"
	"github.com/teranos/rankd/complete"
	"github.com/teranos/rankd/proposal"
	"github.com/teranos/rankd/ranking/fuzzy"
	"github.com/teranos/rankd/ranking/history"
)

func TestEngineSettings(t *testing.T) {
	tests := []struct {
		name    string
		cfg     am.CompletionConfig
		want    complete.Settings
		wantErr bool
	}{
		{
			name: "defaults",
			cfg:  am.CompletionConfig{MaxResults: 50},
			want: complete.Settings{MaxResults: 50, MatchCase: complete.MatchCaseOff, IgnoredKinds: []proposal.Kind{}},
		},
		{
			name: "first letter and ignored kinds",
			cfg:  am.CompletionConfig{MatchCase: "FirstLetter", IgnoredKinds: []string{"keyword", "javadoc_block_tag"}},
			want: complete.Settings{
				MatchCase:    complete.MatchCaseFirstLetter,
				IgnoredKinds: []proposal.Kind{proposal.Keyword, proposal.JavadocBlockTag},
			},
		},
		{name: "bad match case", cfg: am.CompletionConfig{MatchCase: "upper"}, wantErr: true},
		{name: "bad kind", cfg: am.CompletionConfig{IgnoredKinds: []string{"gadget"}}, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := EngineSettings(tt.cfg)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNew_RejectsInvalidConfig(t *testing.T) {
	cfg := testConfig(t)
	cfg.Completion.MatchCase = "sometimes"
	_, err := New(cfg, nil, zaptest.NewLogger(t).Sugar())
	assert.Error(t, err)
}

func providerNames(srv *Server) []string {
	var names []string
	for _, p := range srv.Registry().Providers() {
		names = append(names, p.Name())
	}
	return names
}

func TestNew_Providers(t *testing.T) {
	t.Run("history and fuzzy", func(t *testing.T) {
		srv := newTestServer(t)
		assert.Equal(t, []string{history.Name, fuzzy.Name}, providerNames(srv))
	})

	t.Run("no database disables history", func(t *testing.T) {
		srv, err := New(testConfig(t), nil, zaptest.NewLogger(t).Sugar())
		require.NoError(t, err)
		t.Cleanup(func() { srv.Stop() })
		assert.Equal(t, []string{fuzzy.Name}, providerNames(srv))
		assert.Nil(t, srv.historyProvider())
	})
}

func TestReconfigure_SwapsEngine(t *testing.T) {
	srv := newTestServer(t)
	ss := initializedSession(t, srv, `{"processId": null, "capabilities": {}}`)
	openDocument(t, ss, demoURI, demoSource)
	pos := positionAfter(t, demoSource, "return cou")

	before := requestCompletion(t, ss, demoURI, pos)
	require.Len(t, before.Items, 2)

	cfg := testConfig(t)
	cfg.Completion.MaxResults = 1
	cfg.Ranking.Fuzzy.Enabled = false
	require.NoError(t, srv.Reconfigure(cfg))

	assert.Equal(t, []string{history.Name}, providerNames(srv))
	assert.Equal(t, 1, srv.Engine().Settings().MaxResults)

	after := requestCompletion(t, ss, demoURI, pos)
	require.Len(t, after.Items, 1)
	assert.True(t, after.IsIncomplete)
	// without fuzzy scores the tie falls to text order
	assert.Equal(t, "counter", after.Items[0].Label)

	// items of the earlier response still resolve
	_, _, err := srv.cache.Resolve(mustAtoi(t, before.Items[0].DataMap()[complete.DataResponseID]), 0)
	assert.NoError(t, err)
}

func mustAtoi(t *testing.T, s string) int64 {
	t.Helper()
	n, ok := toInt(s)
	require.True(t, ok, "not a number: %q", s)
	return int64(n)
}

func TestCheckOrigin(t *testing.T) {
	srv := newTestServer(t, func(c *am.Config) {
		c.Server.AllowedOrigins = []string{"http://localhost", "vscode-webview://*"}
	})

	tests := []struct {
		origin string
		want   bool
	}{
		{"", true},
		{"http://localhost:5173", true},
		{"vscode-webview://abc123", true},
		{"https://evil.example", false},
		{"http://127.0.0.1:8080", false},
	}
	for _, tt := range tests {
		t.Run(tt.origin, func(t *testing.T) {
			r := httptest.NewRequest(http.MethodGet, LSPPath, nil)
			if tt.origin != "" {
				r.Header.Set("Origin", tt.origin)
			}
			assert.Equal(t, tt.want, srv.checkOrigin(r))
		})
	}
}

func TestHandler_HealthAndMetrics(t *testing.T) {
	srv := newTestServer(t)
	ts := httptest.NewServer(srv.Handler())
	defer ts.Close()

	resp, err := http.Get(ts.URL + HealthPath)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	ss := initializedSession(t, srv, `{"processId": null, "capabilities": {}}`)
	openDocument(t, ss, demoURI, demoSource)
	requestCompletion(t, ss, demoURI, positionAfter(t, demoSource, "return cou"))

	resp, err = http.Get(ts.URL + am.DefaultMetricsPath)
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	assert.Contains(t, string(body), complete.MetricRequestsTotal+`{status="complete"} 1`)
	assert.Contains(t, string(body), "go_goroutines")
}

func TestHandler_MetricsDisabled(t *testing.T) {
	srv := newTestServer(t, func(c *am.Config) { c.Server.MetricsPath = "" })
	ts := httptest.NewServer(srv.Handler())
	defer ts.Close()

	resp, err := http.Get(ts.URL + am.DefaultMetricsPath)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestWebSocketSession(t *testing.T) {
	// Registered first so it runs after every other cleanup, including the database close.
	ignore := goleak.IgnoreCurrent()
	t.Cleanup(func() { goleak.VerifyNone(t, ignore) })

	srv := newTestServer(t)
	ts := httptest.NewServer(srv.Handler())
	defer ts.Close()

	wsURL := "ws" + strings.TrimPrefix(ts.URL, "http") + LSPPath
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	require.NoError(t, err)
	defer conn.Close()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(10*time.Second)))

	call := func(id int, method string, params any) map[string]any {
		t.Helper()
		require.NoError(t, conn.WriteJSON(map[string]any{"jsonrpc": "2.0", "id": id, "method": method, "params": params}))
		var resp map[string]any
		require.NoError(t, conn.ReadJSON(&resp))
		require.Nil(t, resp["error"], "%s failed: %v", method, resp["error"])
		assert.Equal(t, float64(id), resp["id"])
		return resp
	}
	notify := func(method string, params any) {
		t.Helper()
		require.NoError(t, conn.WriteJSON(map[string]any{"jsonrpc": "2.0", "method": method, "params": params}))
	}

	initResp := call(1, "initialize", map[string]any{"processId": nil, "capabilities": map[string]any{}})
	caps := initResp["result"].(map[string]any)["capabilities"].(map[string]any)
	assert.NotNil(t, caps["completionProvider"])

	notify("initialized", map[string]any{})
	notify("textDocument/didOpen", map[string]any{
		"textDocument": map[string]any{"uri": demoURI, "languageId": "java", "version": 1, "text": demoSource},
	})

	pos := positionAfter(t, demoSource, "return cou")
	resp := call(2, "textDocument/completion", map[string]any{
		"textDocument": map[string]any{"uri": demoURI},
		"position":     map[string]any{"line": pos.Line, "character": pos.Character},
	})
	result := resp["result"].(map[string]any)
	assert.Equal(t, false, result["isIncomplete"])
	items := result["items"].([]any)
	require.Len(t, items, 2)
	assert.Equal(t, "count", items[0].(map[string]any)["label"])

	call(3, "shutdown", nil)
	require.NoError(t, conn.Close())
	ts.Close()
	require.NoError(t, srv.Stop())
}
