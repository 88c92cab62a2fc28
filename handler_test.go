package pixelwalker

import (
	"errors"
	"fmt"
	"testing"

	"github.com/pixelwalker/go-sdk/packet"
)

func TestCallbacks_InvokeInOrder(t *testing.T) {
	r := NewCallbacks()
	var order []int
	for i := 1; i <= 3; i++ {
		i := i
		r.On(packet.KindPlayerChat, func(any) error {
			order = append(order, i)
			return nil
		})
	}

	n, err := r.Invoke(packet.KindPlayerChat, &packet.PlayerChatPacket{Message: "hi"})
	if err != nil {
		t.Fatalf("Invoke() error: %v", err)
	}
	if n != 3 {
		t.Errorf("Invoke() ran %d handlers, want 3", n)
	}
	if fmt.Sprint(order) != "[1 2 3]" {
		t.Errorf("order = %v, want [1 2 3]", order)
	}
}

func TestCallbacks_InvokeEmpty(t *testing.T) {
	r := NewCallbacks()
	n, err := r.Invoke(packet.KindPing, nil)
	if n != 0 || err != nil {
		t.Errorf("Invoke() on empty list = (%d, %v), want (0, nil)", n, err)
	}
}

func TestCallbacks_StopHaltsChain(t *testing.T) {
	r := NewCallbacks()
	third := false
	r.Add(packet.KindPlayerChat,
		NewHandler(func(any) error { return nil }),
		NewHandler(func(any) error { return Stop }),
		NewHandler(func(any) error { third = true; return nil }),
	)

	n, err := r.Invoke(packet.KindPlayerChat, nil)
	if err != nil {
		t.Fatalf("Stop should not surface as an error, got %v", err)
	}
	if n != 2 {
		t.Errorf("Invoke() ran %d handlers, want 2", n)
	}
	if third {
		t.Error("handler after Stop should not run")
	}
}

func TestCallbacks_WrappedStop(t *testing.T) {
	r := NewCallbacks()
	r.On(packet.KindPing, func(any) error { return fmt.Errorf("done here: %w", Stop) })
	r.On(packet.KindPing, func(any) error { t.Error("should not run"); return nil })

	if n, err := r.Invoke(packet.KindPing, nil); n != 1 || err != nil {
		t.Errorf("Invoke() = (%d, %v), want (1, nil)", n, err)
	}
}

func TestCallbacks_ErrorPropagatesOnce(t *testing.T) {
	r := NewCallbacks()
	boom := errors.New("boom")
	later := 0
	r.On(packet.KindPlayerJoined, func(any) error { return boom })
	r.On(packet.KindPlayerJoined, func(any) error { later++; return nil })

	n, err := r.Invoke(packet.KindPlayerJoined, nil)
	if !errors.Is(err, boom) {
		t.Fatalf("Invoke() error = %v, want boom", err)
	}
	if n != 1 || later != 0 {
		t.Errorf("ran=%d later=%d, want chain to halt at the failing handler", n, later)
	}
}

func TestCallbacks_RemoveByReference(t *testing.T) {
	r := NewCallbacks()
	calls := 0
	fn := func(any) error { calls++; return nil }
	a := NewHandler(fn)
	b := NewHandler(fn)
	r.Add(packet.KindPlayerLeft, a, b, a)

	got, ok := r.Remove(packet.KindPlayerLeft, a)
	if !ok || got != a {
		t.Fatalf("Remove() = (%p, %v), want (%p, true)", got, ok, a)
	}
	if r.Len(packet.KindPlayerLeft) != 2 {
		t.Fatalf("Len() = %d, want 2 after removing the first occurrence", r.Len(packet.KindPlayerLeft))
	}

	if _, ok := r.Remove(packet.KindPlayerLeft, NewHandler(fn)); ok {
		t.Error("Remove() of an unregistered handler should report false")
	}

	r.Invoke(packet.KindPlayerLeft, nil)
	if calls != 2 {
		t.Errorf("calls = %d, want 2", calls)
	}
}

func TestCallbacks_RemoveNilClears(t *testing.T) {
	r := NewCallbacks()
	r.On(packet.KindPing, func(any) error { return nil })
	r.On(packet.KindPing, func(any) error { return nil })
	r.On(packet.KindPlayerChat, func(any) error { return nil })

	if h, ok := r.Remove(packet.KindPing, nil); h != nil || ok {
		t.Errorf("Remove(nil) = (%v, %v), want (nil, false)", h, ok)
	}
	if r.Len(packet.KindPing) != 0 {
		t.Error("Remove(nil) should clear the list")
	}
	if r.Len(packet.KindPlayerChat) != 1 {
		t.Error("Remove(nil) should not touch other kinds")
	}
}

func TestCallbacks_AddNoHandlers(t *testing.T) {
	r := NewCallbacks()
	if r.Add(packet.KindPing) != r {
		t.Error("Add() should return the registry for chaining")
	}
	if r.Len(packet.KindPing) != 0 {
		t.Error("Add() with no handlers should be a no-op")
	}
}

func TestCallbacks_MutationDuringInvoke(t *testing.T) {
	r := NewCallbacks()
	added := 0
	var self *Handler
	self = r.On(packet.KindPing, func(any) error {
		r.Remove(packet.KindPing, self)
		r.On(packet.KindPing, func(any) error { added++; return nil })
		return nil
	})
	r.On(packet.KindPing, func(any) error { return nil })

	n, _ := r.Invoke(packet.KindPing, nil)
	if n != 2 {
		t.Errorf("first Invoke() ran %d, want the 2 handlers of the snapshot", n)
	}
	if added != 0 {
		t.Error("handler added during Invoke should not run for the same packet")
	}

	n, _ = r.Invoke(packet.KindPing, nil)
	if n != 2 || added != 1 {
		t.Errorf("second Invoke() ran %d (added=%d), want 2 (added=1)", n, added)
	}
}

func TestHandle_Typed(t *testing.T) {
	r := NewCallbacks()
	var got string
	r.Add(packet.KindPlayerChat, Handle(func(p *packet.PlayerChatPacket) error {
		got = p.Message
		return nil
	}))

	r.Invoke(packet.KindPlayerChat, &packet.PlayerChatPacket{Message: ".ping"})
	if got != ".ping" {
		t.Errorf("typed handler got %q, want %q", got, ".ping")
	}

	if _, err := r.Invoke(packet.KindPlayerChat, "not a chat packet"); err != nil {
		t.Errorf("mismatched data should be ignored, got %v", err)
	}
}
