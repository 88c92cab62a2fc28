package pixelwalker

import (
	"github.com/gorilla/websocket"

	"github.com/pixelwalker/go-sdk/packet"
)

// SendOption configures send behavior.
type SendOption func(*sendOptions)

type sendOptions struct {
	direct bool
}

func sendDefaults() sendOptions {
	return sendOptions{}
}

// WithDirect writes the packet immediately, skipping both rate-limit
// buckets. A direct chat packet is not counted against the chat cap either.
func WithDirect() SendOption {
	return func(o *sendOptions) {
		o.direct = true
	}
}

// ClientOption configures a Client at construction.
type ClientOption func(*clientOptions)

// Codec converts between socket frames and packets.
type Codec interface {
	Decode(data []byte) (packet.Packet, error)
	Encode(p packet.Packet) ([]byte, error)
}

type clientOptions struct {
	codec   Codec
	metrics *Metrics
	dialer  *websocket.Dialer
}

func clientDefaults() clientOptions {
	return clientOptions{
		codec:  packet.Codec{},
		dialer: websocket.DefaultDialer,
	}
}

// WithCodec replaces the protobuf codec.
func WithCodec(c Codec) ClientOption {
	return func(o *clientOptions) {
		o.codec = c
	}
}

// WithMetrics records client activity in m.
func WithMetrics(m *Metrics) ClientOption {
	return func(o *clientOptions) {
		o.metrics = m
	}
}

// WithDialer sets the websocket dialer used to open game sockets.
func WithDialer(d *websocket.Dialer) ClientOption {
	return func(o *clientOptions) {
		o.dialer = d
	}
}
