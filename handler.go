package pixelwalker

import (
	"errors"
	"sync"

	"github.com/pixelwalker/go-sdk/packet"
)

// Callback is the signature for packet handlers. data is the decoded packet
// value: a pointer to the packet struct for game packets, the raw frame for
// packet.KindUnknown, a packet.Packet for packet.KindRaw and a string for
// packet.KindDebug.
//
// Returning Stop ends the chain for this packet. Any other error ends the
// chain and is reported.
type Callback func(data any) error

// Stop halts the remaining handlers for the current packet.
var Stop = errors.New("stop")

// Handler is a registered callback. Its pointer identity is what Remove
// matches on.
type Handler struct {
	fn Callback
}

// NewHandler wraps fn so it can be registered and later removed.
func NewHandler(fn Callback) *Handler {
	return &Handler{fn: fn}
}

// Handle wraps a handler for one concrete data type. Data of another type is
// ignored.
//
//	client.AddCallback(packet.KindPlayerChat, pixelwalker.Handle(func(p *packet.PlayerChatPacket) error {
//	    ...
//	}))
func Handle[T any](fn func(T) error) *Handler {
	return NewHandler(func(data any) error {
		v, ok := data.(T)
		if !ok {
			return nil
		}
		return fn(v)
	})
}

// Callbacks holds ordered handler lists per packet kind.
type Callbacks struct {
	mu       sync.RWMutex
	handlers map[packet.Kind][]*Handler
}

// NewCallbacks returns an empty registry.
func NewCallbacks() *Callbacks {
	return &Callbacks{
		handlers: make(map[packet.Kind][]*Handler),
	}
}

// Add appends handlers to kind's list in the given order. The same handler
// may be added more than once.
func (r *Callbacks) Add(kind packet.Kind, handlers ...*Handler) *Callbacks {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, h := range handlers {
		if h == nil || h.fn == nil {
			continue
		}
		r.handlers[kind] = append(r.handlers[kind], h)
	}
	return r
}

// On registers fn for kind and returns its handle.
func (r *Callbacks) On(kind packet.Kind, fn Callback) *Handler {
	h := NewHandler(fn)
	r.Add(kind, h)
	return h
}

// Remove deletes the first occurrence of h from kind's list and returns it.
// A nil h clears every handler for kind.
func (r *Callbacks) Remove(kind packet.Kind, h *Handler) (*Handler, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if h == nil {
		delete(r.handlers, kind)
		return nil, false
	}
	list := r.handlers[kind]
	for i, cur := range list {
		if cur != h {
			continue
		}
		next := make([]*Handler, 0, len(list)-1)
		next = append(next, list[:i]...)
		next = append(next, list[i+1:]...)
		if len(next) == 0 {
			delete(r.handlers, kind)
		} else {
			r.handlers[kind] = next
		}
		return cur, true
	}
	return nil, false
}

// Invoke runs kind's handlers in order with data and returns how many ran.
// Handlers added or removed while Invoke runs take effect on the next packet.
// A handler returning Stop is counted and ends the chain without error; any
// other error ends the chain and is returned.
func (r *Callbacks) Invoke(kind packet.Kind, data any) (int, error) {
	r.mu.RLock()
	list := r.handlers[kind]
	r.mu.RUnlock()

	for i, h := range list {
		if err := h.fn(data); err != nil {
			if errors.Is(err, Stop) {
				return i + 1, nil
			}
			return i + 1, err
		}
	}
	return len(list), nil
}

// Len returns the number of handlers registered for kind.
func (r *Callbacks) Len(kind packet.Kind) int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.handlers[kind])
}
