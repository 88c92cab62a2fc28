package pixelwalker

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

// closeGrace bounds the close handshake written by a local close.
const closeGrace = time.Second

// gameSocket implements transport over a gorilla websocket carrying binary
// protobuf frames.
type gameSocket struct {
	url  string
	conn *websocket.Conn
	mu   sync.Mutex // protects conn writes and the close fields

	onClose     func(code int, reason string)
	closeCode   int
	closeReason string

	closeOnce sync.Once
	done      chan struct{}
}

func dialSocket(ctx context.Context, d *websocket.Dialer, url string) (*gameSocket, error) {
	if d == nil {
		d = websocket.DefaultDialer
	}
	conn, resp, err := d.DialContext(ctx, url, nil)
	if err != nil {
		reason := err.Error()
		if resp != nil {
			reason = resp.Status
		}
		return nil, &ConnectionError{URL: url, Reason: reason}
	}
	return &gameSocket{
		url:  url,
		conn: conn,
		done: make(chan struct{}),
	}, nil
}

// start begins reading. A socket closed before start reports its close to
// onClose here instead.
func (s *gameSocket) start(onFrame func([]byte), onClose func(int, string)) {
	s.mu.Lock()
	select {
	case <-s.done:
		code, reason := s.closeCode, s.closeReason
		s.mu.Unlock()
		if onClose != nil {
			onClose(code, reason)
		}
		return
	default:
	}
	s.onClose = onClose
	s.mu.Unlock()
	go s.readLoop(onFrame)
}

func (s *gameSocket) send(data []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	select {
	case <-s.done:
		return ErrNotConnected
	default:
	}
	return s.conn.WriteMessage(websocket.BinaryMessage, data)
}

// close sends a normal close frame, drops the connection and runs the close
// callback before returning.
func (s *gameSocket) close() bool {
	s.mu.Lock()
	select {
	case <-s.done:
		s.mu.Unlock()
		return true
	default:
	}
	msg := websocket.FormatCloseMessage(websocket.CloseNormalClosure, "")
	_ = s.conn.WriteControl(websocket.CloseMessage, msg, time.Now().Add(closeGrace))
	s.mu.Unlock()

	s.conn.Close()
	s.finish(websocket.CloseNormalClosure, "client disconnect")
	return true
}

func (s *gameSocket) readLoop(onFrame func([]byte)) {
	for {
		mt, data, err := s.conn.ReadMessage()
		if err != nil {
			code, reason := websocket.CloseAbnormalClosure, err.Error()
			var ce *websocket.CloseError
			if errors.As(err, &ce) {
				code, reason = ce.Code, ce.Text
			}
			s.conn.Close()
			s.finish(code, reason)
			return
		}

		select {
		case <-s.done:
			return
		default:
		}
		if mt == websocket.BinaryMessage && onFrame != nil {
			onFrame(data)
		}
	}
}

// finish marks the socket closed and reports it, once.
func (s *gameSocket) finish(code int, reason string) {
	s.closeOnce.Do(func() {
		s.mu.Lock()
		s.closeCode, s.closeReason = code, reason
		close(s.done)
		cb := s.onClose
		s.mu.Unlock()
		if cb != nil {
			cb(code, reason)
		}
	})
}
