package pixelwalker

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gorilla/websocket"
)

// mockGameServer simulates the game server's room endpoint.
type mockGameServer struct {
	upgrader websocket.Upgrader
	mu       sync.Mutex
	received [][]byte
	paths    []string
	conn     *websocket.Conn
	conns    int
	onFrame  func([]byte)
	onOpen   func()
}

func newMockGameServer() *mockGameServer {
	return &mockGameServer{
		upgrader: websocket.Upgrader{CheckOrigin: func(r *http.Request) bool { return true }},
	}
}

func (s *mockGameServer) handler(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	s.mu.Lock()
	s.conn = conn
	s.conns++
	s.paths = append(s.paths, r.URL.RequestURI())
	onOpen := s.onOpen
	s.mu.Unlock()

	if onOpen != nil {
		onOpen()
	}

	for {
		mt, data, err := conn.ReadMessage()
		if err != nil {
			return
		}
		if mt != websocket.BinaryMessage {
			continue
		}
		s.mu.Lock()
		s.received = append(s.received, data)
		handler := s.onFrame
		s.mu.Unlock()

		if handler != nil {
			handler(data)
		}
	}
}

func (s *mockGameServer) sendToClient(data []byte) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.conn != nil {
		s.conn.WriteMessage(websocket.BinaryMessage, data)
	}
}

// closeClient ends the current connection with a close frame.
func (s *mockGameServer) closeClient(code int, reason string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.conn == nil {
		return
	}
	msg := websocket.FormatCloseMessage(code, reason)
	s.conn.WriteControl(websocket.CloseMessage, msg, time.Now().Add(time.Second))
	s.conn.Close()
	s.conn = nil
}

func (s *mockGameServer) getReceived() [][]byte {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := make([][]byte, len(s.received))
	copy(cp, s.received)
	return cp
}

func (s *mockGameServer) connCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.conns
}

func (s *mockGameServer) getPaths() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.paths...)
}

func startMockGameServer(t *testing.T) (*mockGameServer, string) {
	t.Helper()
	mock := newMockGameServer()
	server := httptest.NewServer(http.HandlerFunc(mock.handler))
	t.Cleanup(server.Close)
	return mock, "ws" + strings.TrimPrefix(server.URL, "http")
}

type closeEvent struct {
	code   int
	reason string
}

func TestGameSocket_SendBinary(t *testing.T) {
	mock, wsURL := startMockGameServer(t)

	s, err := dialSocket(context.Background(), nil, wsURL+"/room/tok")
	if err != nil {
		t.Fatalf("dialSocket() error: %v", err)
	}
	s.start(nil, nil)
	defer s.close()

	if err := s.send([]byte{0x0a, 0x00}); err != nil {
		t.Fatalf("send() error: %v", err)
	}
	if !waitFor(t, 2*time.Second, func() bool { return len(mock.getReceived()) == 1 }) {
		t.Fatal("server did not receive the frame")
	}
	if got := mock.getReceived()[0]; string(got) != "\x0a\x00" {
		t.Errorf("received %x, want 0a00", got)
	}
	if paths := mock.getPaths(); len(paths) != 1 || paths[0] != "/room/tok" {
		t.Errorf("paths = %v, want [/room/tok]", paths)
	}
}

func TestGameSocket_ReceiveFrames(t *testing.T) {
	mock, wsURL := startMockGameServer(t)

	s, err := dialSocket(context.Background(), nil, wsURL)
	if err != nil {
		t.Fatalf("dialSocket() error: %v", err)
	}
	frames := make(chan []byte, 4)
	s.start(func(b []byte) { frames <- b }, nil)
	defer s.close()

	waitFor(t, time.Second, func() bool { return mock.connCount() == 1 })
	mock.sendToClient([]byte{1})
	mock.sendToClient([]byte{2})

	for want := byte(1); want <= 2; want++ {
		select {
		case b := <-frames:
			if len(b) != 1 || b[0] != want {
				t.Fatalf("frame = %v, want [%d]", b, want)
			}
		case <-time.After(2 * time.Second):
			t.Fatalf("timed out waiting for frame %d", want)
		}
	}
}

func TestGameSocket_ServerCloseReportedOnce(t *testing.T) {
	mock, wsURL := startMockGameServer(t)

	s, err := dialSocket(context.Background(), nil, wsURL)
	if err != nil {
		t.Fatalf("dialSocket() error: %v", err)
	}
	events := make(chan closeEvent, 4)
	s.start(nil, func(code int, reason string) { events <- closeEvent{code, reason} })

	waitFor(t, time.Second, func() bool { return mock.connCount() == 1 })
	mock.closeClient(4001, "world unloaded")

	select {
	case ev := <-events:
		if ev.code != 4001 || ev.reason != "world unloaded" {
			t.Errorf("close = %+v, want 4001 world unloaded", ev)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("close callback not called")
	}

	s.close()
	select {
	case ev := <-events:
		t.Fatalf("close callback called twice: %+v", ev)
	case <-time.After(100 * time.Millisecond):
	}

	if err := s.send([]byte{1}); !errors.Is(err, ErrNotConnected) {
		t.Errorf("send() after close = %v, want ErrNotConnected", err)
	}
}

func TestGameSocket_LocalClose(t *testing.T) {
	_, wsURL := startMockGameServer(t)

	s, err := dialSocket(context.Background(), nil, wsURL)
	if err != nil {
		t.Fatalf("dialSocket() error: %v", err)
	}
	var got []closeEvent
	s.start(nil, func(code int, reason string) { got = append(got, closeEvent{code, reason}) })

	if !s.close() {
		t.Fatal("close() should report the socket closed")
	}
	if len(got) != 1 || got[0].code != websocket.CloseNormalClosure {
		t.Fatalf("close events = %+v, want one normal closure delivered synchronously", got)
	}
}

func TestGameSocket_DialFailure(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	defer server.Close()

	_, err := dialSocket(context.Background(), nil, "ws"+strings.TrimPrefix(server.URL, "http"))
	var connErr *ConnectionError
	if !errors.As(err, &connErr) {
		t.Fatalf("dialSocket() error = %v, want ConnectionError", err)
	}
	if !strings.Contains(connErr.Reason, "404") {
		t.Errorf("Reason = %q, should contain the HTTP status", connErr.Reason)
	}
}

func TestGameSocket_CloseBeforeStart(t *testing.T) {
	_, wsURL := startMockGameServer(t)

	s, err := dialSocket(context.Background(), nil, wsURL)
	if err != nil {
		t.Fatalf("dialSocket() error: %v", err)
	}
	s.close()

	var got []closeEvent
	s.start(nil, func(code int, reason string) { got = append(got, closeEvent{code, reason}) })
	if len(got) != 1 || got[0].code != websocket.CloseNormalClosure || got[0].reason != "client disconnect" {
		t.Fatalf("close events = %+v, want the earlier close reported by start", got)
	}

	s.close()
	if len(got) != 1 {
		t.Errorf("close reported %d times, want once", len(got))
	}
}
