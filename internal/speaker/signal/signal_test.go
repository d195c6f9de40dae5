package signal

import (
	"context"
	"net/http"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestChannel(t *testing.T) *Channel {
	t.Helper()
	ch, err := NewChannel(filepath.Join(t.TempDir(), "signals"))
	require.NoError(t, err)
	return ch
}

func TestChannel_PublishAndRead(t *testing.T) {
	ch := newTestChannel(t)

	text, err := ch.ReadText()
	require.NoError(t, err)
	assert.Empty(t, text, "missing input file reads as empty text")
	assert.False(t, ch.Triggered())

	require.NoError(t, ch.Publish("Hello there."))
	assert.True(t, ch.Triggered())

	text, err = ch.ReadText()
	require.NoError(t, err)
	assert.Equal(t, "Hello there.", text)

	data, err := os.ReadFile(filepath.Join(ch.Dir(), TriggerFile))
	require.NoError(t, err)
	assert.Equal(t, TriggerPayload, string(data))

	require.NoError(t, ch.AckTrigger())
	assert.False(t, ch.Triggered())
	require.NoError(t, ch.AckTrigger(), "acknowledging twice is fine")
}

func TestChannel_Cancel(t *testing.T) {
	ch := newTestChannel(t)

	assert.False(t, ch.CancelRequested())
	require.NoError(t, ch.RequestCancel())
	assert.True(t, ch.CancelRequested())

	data, err := os.ReadFile(filepath.Join(ch.Dir(), CancelFile))
	require.NoError(t, err)
	assert.Equal(t, CancelPayload, string(data))

	require.NoError(t, ch.AckCancel())
	assert.False(t, ch.CancelRequested())
}

func TestChannel_ResetAndClear(t *testing.T) {
	ch := newTestChannel(t)

	require.NoError(t, ch.Publish("text"))
	require.NoError(t, ch.RequestCancel())

	require.NoError(t, ch.Clear())
	assert.False(t, ch.Triggered())
	assert.True(t, ch.CancelRequested(), "Clear keeps the cancel flag")
	text, _ := ch.ReadText()
	assert.Empty(t, text)

	require.NoError(t, ch.Publish("again"))
	require.NoError(t, ch.Reset())
	assert.False(t, ch.Triggered())
	assert.False(t, ch.CancelRequested())
	text, _ = ch.ReadText()
	assert.Empty(t, text)

	// no temp files left behind
	entries, err := os.ReadDir(ch.Dir())
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestChannel_WriteTextKeepsTrigger(t *testing.T) {
	ch := newTestChannel(t)

	require.NoError(t, ch.WriteText("first"))
	assert.False(t, ch.Triggered())
	require.NoError(t, ch.WriteText("second"))

	text, err := ch.ReadText()
	require.NoError(t, err)
	assert.Equal(t, "second", text)
}

func waitWake(w *Watcher, d time.Duration) bool {
	select {
	case <-w.C():
		return true
	case <-time.After(d):
		return false
	}
}

func TestWatcher_TickerWakes(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	w := NewWatcher(t.TempDir(), 5*time.Millisecond, false)
	require.NoError(t, w.Start(ctx))
	defer w.Stop()

	assert.True(t, waitWake(w, time.Second))
	assert.True(t, waitWake(w, time.Second))
}

func TestWatcher_FileChangeWakes(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	ch := newTestChannel(t)
	w := NewWatcher(ch.Dir(), time.Hour, true)
	require.NoError(t, w.Start(ctx))
	defer w.Stop()

	// unrelated files do not wake
	require.NoError(t, os.WriteFile(filepath.Join(ch.Dir(), "other.txt"), []byte("x"), 0644))
	assert.False(t, waitWake(w, 100*time.Millisecond))

	require.NoError(t, ch.RequestCancel())
	assert.True(t, waitWake(w, 2*time.Second))
}

func TestWatcher_SetInterval(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	w := NewWatcher(t.TempDir(), time.Hour, false)
	require.NoError(t, w.Start(ctx))
	defer w.Stop()

	assert.False(t, waitWake(w, 50*time.Millisecond))
	w.SetInterval(5 * time.Millisecond)
	assert.True(t, waitWake(w, time.Second))
}

type recordingHandler struct {
	mu      sync.Mutex
	spoken  []string
	cancels int
}

func (h *recordingHandler) RemoteSpeak(text string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.spoken = append(h.spoken, text)
}

func (h *recordingHandler) RemoteCancel() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.cancels++
}

func TestWebSocketBridge(t *testing.T) {
	h := &recordingHandler{}
	srv := NewServer("127.0.0.1:0", h)
	require.NoError(t, srv.Start())
	defer srv.Shutdown(context.Background())

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	client, err := Dial(ctx, srv.Addr())
	require.NoError(t, err)
	defer client.Close()

	require.NoError(t, client.Ping())
	require.NoError(t, client.Speak("Hello over the wire."))
	require.NoError(t, client.Cancel())

	h.mu.Lock()
	assert.Equal(t, []string{"Hello over the wire."}, h.spoken)
	assert.Equal(t, 1, h.cancels)
	h.mu.Unlock()

	// unknown types get an error reply
	conn, _, err := websocket.DefaultDialer.DialContext(ctx, "ws://"+srv.Addr()+WSPath, nil)
	require.NoError(t, err)
	defer conn.Close()

	require.NoError(t, conn.WriteJSON(WSMessage{Type: "shout"}))
	var resp WSMessage
	require.NoError(t, conn.ReadJSON(&resp))
	assert.Equal(t, TypeError, resp.Type)
	assert.Contains(t, resp.Error, "shout")
}

func TestWebSocketBridge_RejectsForeignOrigin(t *testing.T) {
	h := &recordingHandler{}
	srv := NewServer("127.0.0.1:0", h)
	require.NoError(t, srv.Start())
	defer srv.Shutdown(context.Background())

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	header := http.Header{"Origin": []string{"https://evil.example.com"}}
	conn, resp, err := websocket.DefaultDialer.DialContext(ctx, "ws://"+srv.Addr()+WSPath, header)
	if conn != nil {
		conn.Close()
	}
	require.Error(t, err)
	require.NotNil(t, resp)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	header.Set("Origin", "http://127.0.0.1:8080")
	conn, _, err = websocket.DefaultDialer.DialContext(ctx, "ws://"+srv.Addr()+WSPath, header)
	require.NoError(t, err)
	conn.Close()
}

func TestLocalOrigin(t *testing.T) {
	tests := []struct {
		origin string
		want   bool
	}{
		{"", true},
		{"http://localhost:3000", true},
		{"http://LOCALHOST", true},
		{"http://127.0.0.1", true},
		{"http://[::1]:9000", true},
		{"https://example.com", false},
		{"http://localhost.example.com", false},
		{"http://192.168.1.10", false},
		{"null", false},
	}

	for _, tt := range tests {
		t.Run(tt.origin, func(t *testing.T) {
			r, err := http.NewRequest(http.MethodGet, "http://127.0.0.1/ws", nil)
			require.NoError(t, err)
			if tt.origin != "" {
				r.Header.Set("Origin", tt.origin)
			}
			assert.Equal(t, tt.want, localOrigin(r))
		})
	}
}
