package pixelwalker

import (
	"context"

	"github.com/gorilla/websocket"
)

// transport is the internal interface for one open game connection.
// The current implementation is a binary websocket (channel.go).
type transport interface {
	// start begins delivering inbound frames to onFrame. onClose is called
	// exactly once, when the connection ends for any reason, including a
	// close that happened before start.
	start(onFrame func(data []byte), onClose func(code int, reason string))

	// send writes one binary frame.
	send(data []byte) error

	// close shuts the connection down and reports whether it is closed
	// when close returns.
	close() bool
}

// dialFunc opens a transport to url. It must give up when ctx is done.
type dialFunc func(ctx context.Context, url string) (transport, error)

func websocketDialer(d *websocket.Dialer) dialFunc {
	return func(ctx context.Context, url string) (transport, error) {
		return dialSocket(ctx, d, url)
	}
}
