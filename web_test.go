package main

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/Seednode/teamswap/swap"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func newTestServer(t *testing.T) (*httptest.Server, *Registry) {
	t.Helper()

	cfg := testConfig(t)

	reg, err := openRegistry(cfg, nil)
	require.NoError(t, err)

	errs := make(chan error, 64)
	srv := httptest.NewServer(newRouter(cfg, reg, errs))

	t.Cleanup(func() {
		srv.Close()
		_ = reg.Close()
	})

	return srv, reg
}

func get(t *testing.T, url string) (*http.Response, string) {
	t.Helper()

	resp, err := http.Get(url)
	require.NoError(t, err)
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	return resp, string(body)
}

func TestHumanReadableSize(t *testing.T) {
	tests := []struct {
		in   int64
		want string
	}{
		{0, "0 B"},
		{999, "999 B"},
		{1000, "1.0 kB"},
		{1536, "1.5 kB"},
		{2_500_000, "2.5 MB"},
		{3_000_000_000, "3.0 GB"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, humanReadableSize(tt.in), tt.in)
	}
}

func TestRouter_Static(t *testing.T) {
	srv, _ := newTestServer(t)

	resp, body := get(t, srv.URL+"/healthz")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "Ok\n", body)

	resp, body = get(t, srv.URL+"/version")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "teamswap v"+releaseVersion+"\n", body)

	resp, body = get(t, srv.URL+"/tools/lol")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, `src="/assets/app.js"`)
	assert.NotContains(t, body, "{{")
	assert.Equal(t, "nosniff", resp.Header.Get("X-Content-Type-Options"))

	resp, _ = get(t, srv.URL+"/assets/app.css")
	assert.Equal(t, "text/css; charset=utf-8", resp.Header.Get("Content-Type"))

	resp, _ = get(t, srv.URL+"/assets/nope.js")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestRouter_ToolAPI(t *testing.T) {
	srv, reg := newTestServer(t)

	resp, body := get(t, srv.URL+"/api/tools")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var list []ToolSummary
	require.NoError(t, json.Unmarshal([]byte(body), &list))
	require.Len(t, list, 2)
	assert.Equal(t, "lol", list[0].Name)
	assert.Equal(t, "pubg", list[1].Name)

	tool, err := reg.Get("pubg")
	require.NoError(t, err)
	require.NoError(t, tool.SetValue(0, swap.Left, "Alpha"))
	require.NoError(t, tool.SetValue(0, swap.Right, "alpha "))

	resp, body = get(t, srv.URL+"/api/tools/pubg")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var view swap.View
	require.NoError(t, json.Unmarshal([]byte(body), &view))
	assert.Equal(t, "Alpha", view.Values[0].Left)
	assert.True(t, view.HasDuplicates)
	assert.Equal(t, swap.DuplicateFlags{Left: true, Right: true}, view.Duplicates[0])
	assert.Len(t, view.Locks, 4)

	resp, body = get(t, srv.URL+"/api/tools/pubg/copy")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	lines := strings.Split(body, "\n")
	require.Len(t, lines, 4)
	assert.Equal(t, "Alpha \talpha", lines[0])
	assert.Equal(t, "왼쪽팀\t오른쪽팀", lines[1])

	resp, _ = get(t, srv.URL+"/api/tools/chess")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestRouter_QR(t *testing.T) {
	srv, _ := newTestServer(t)

	resp, body := get(t, srv.URL+"/tools/lol/qr")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "image/png", resp.Header.Get("Content-Type"))
	assert.True(t, strings.HasPrefix(body, "\x89PNG"))
}

func TestRouter_Theme(t *testing.T) {
	srv, _ := newTestServer(t)

	_, body := get(t, srv.URL+"/api/theme")
	assert.JSONEq(t, `{"theme":"light"}`, body)

	resp, err := http.Post(srv.URL+"/api/theme/toggle", "application/json", nil)
	require.NoError(t, err)
	defer resp.Body.Close()

	var msg ThemeMessage
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&msg))
	assert.Equal(t, "dark", msg.Theme)
}

func dialTool(t *testing.T, srv *httptest.Server, tool string) *websocket.Conn {
	t.Helper()

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/tools/" + tool + "/ws"

	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })

	return conn
}

// readUntil returns the first message of the given type satisfying ok.
func readUntil(t *testing.T, conn *websocket.Conn, typ string, ok func(map[string]json.RawMessage) bool) map[string]json.RawMessage {
	t.Helper()

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(5*time.Second)))

	for {
		var msg map[string]json.RawMessage
		require.NoError(t, conn.ReadJSON(&msg))

		var got string
		require.NoError(t, json.Unmarshal(msg["type"], &got))

		if got == typ && (ok == nil || ok(msg)) {
			return msg
		}
	}
}

func decodeView(t *testing.T, msg map[string]json.RawMessage) swap.View {
	t.Helper()

	var view swap.View
	require.NoError(t, json.Unmarshal(msg["view"], &view))
	return view
}

func TestLive_ValueAndLock(t *testing.T) {
	srv, reg := newTestServer(t)
	conn := dialTool(t, srv, "lol")

	view := decodeView(t, readUntil(t, conn, "state", nil))
	assert.Equal(t, "lol", view.Config.Name)
	assert.Len(t, view.Values, 5)

	require.NoError(t, conn.WriteJSON(ClientMessage{Type: "value", Index: 1, Side: "left", Value: "Oner"}))
	readUntil(t, conn, "state", func(m map[string]json.RawMessage) bool {
		return decodeView(t, m).Values[1].Left == "Oner"
	})

	locked := true
	require.NoError(t, conn.WriteJSON(ClientMessage{Type: "lock", Index: 1, Locked: &locked}))
	readUntil(t, conn, "state", func(m map[string]json.RawMessage) bool {
		return decodeView(t, m).Locks[1]
	})

	tool, err := reg.Get("lol")
	require.NoError(t, err)
	state := tool.State()
	assert.Equal(t, "Oner", state.Values[1].Left)
	assert.True(t, state.Locks[1])
}

func TestLive_Errors(t *testing.T) {
	srv, _ := newTestServer(t)
	conn := dialTool(t, srv, "pubg")

	require.NoError(t, conn.WriteJSON(ClientMessage{Type: "value", Index: 9, Side: "left", Value: "x"}))
	msg := readUntil(t, conn, "error", nil)

	var text string
	require.NoError(t, json.Unmarshal(msg["message"], &text))
	assert.Contains(t, text, swap.ErrRowIndex.Error())

	resp, _ := get(t, srv.URL+"/tools/chess/ws")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestLive_Copy(t *testing.T) {
	srv, reg := newTestServer(t)
	conn := dialTool(t, srv, "pubg")

	tool, err := reg.Get("pubg")
	require.NoError(t, err)
	require.NoError(t, tool.SetValue(0, swap.Left, "Alpha"))

	require.NoError(t, conn.WriteJSON(ClientMessage{Type: "copy"}))
	msg := readUntil(t, conn, "copy_text", nil)

	var text string
	require.NoError(t, json.Unmarshal(msg["text"], &text))
	assert.Equal(t, tool.CopyText(), text)

	ok := false
	require.NoError(t, conn.WriteJSON(ClientMessage{Type: "copy_result", OK: &ok}))
	readUntil(t, conn, "state", func(m map[string]json.RawMessage) bool {
		return decodeView(t, m).Notice == swap.NoticeCopyFailed
	})
}

func TestLive_ShuffleAndClear(t *testing.T) {
	srv, reg := newTestServer(t)
	conn := dialTool(t, srv, "pubg")

	require.NoError(t, conn.WriteJSON(ClientMessage{Type: "shuffle"}))
	readUntil(t, conn, "state", func(m map[string]json.RawMessage) bool {
		return decodeView(t, m).Shuffling
	})

	require.NoError(t, conn.WriteJSON(ClientMessage{Type: "shuffle"}))
	readUntil(t, conn, "busy", nil)

	readUntil(t, conn, "state", func(m map[string]json.RawMessage) bool {
		v := decodeView(t, m)
		return !v.Shuffling && v.ShuffleCount == 1
	})

	require.NoError(t, conn.WriteJSON(ClientMessage{Type: "reset_count"}))
	readUntil(t, conn, "state", func(m map[string]json.RawMessage) bool {
		return decodeView(t, m).ShuffleCount == 0
	})

	tool, err := reg.Get("pubg")
	require.NoError(t, err)
	require.NoError(t, tool.SetValue(3, swap.Right, "Zed"))

	require.NoError(t, conn.WriteJSON(ClientMessage{Type: "clear"}))
	readUntil(t, conn, "state", func(m map[string]json.RawMessage) bool {
		return decodeView(t, m).Values[3].Right == ""
	})
}

func TestServePage_ReturnsWithoutLeaks(t *testing.T) {
	defer goleak.VerifyNone(t, goleak.IgnoreCurrent())

	cfg := testConfig(t)
	cfg.port = 0

	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan error, 1)
	go func() {
		done <- ServePage(ctx, cfg, nil)
	}()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(10 * time.Second):
		t.Fatal("server did not stop")
	}
}
