package packet

import (
	"errors"
	"fmt"
	"reflect"

	"google.golang.org/protobuf/encoding/protowire"
)

// ErrNotEncodable is returned when a packet cannot be put on the wire.
var ErrNotEncodable = errors.New("packet not encodable")

// Packet is a decoded frame: the case that was set and its value.
// For KindUnknown the value is the raw frame bytes.
type Packet struct {
	Kind  Kind
	Value any
}

// oneof field numbers of the WorldPacket message, indexed by Kind.
var fieldNumbers = [kindCount]protowire.Number{
	KindPing:               1,
	KindPlayerInit:         2,
	KindPlayerInitReceived: 3,
	KindPlayerChat:         4,
	KindPlayerJoined:       5,
	KindPlayerLeft:         6,
	KindSystemMessage:      7,
	KindWorldBlockPlaced:   8,
	KindPlayerFace:         9,
}

func kindForField(num protowire.Number) (Kind, bool) {
	for k, n := range fieldNumbers {
		if n != 0 && n == num {
			return Kind(k), true
		}
	}
	return KindUnknown, false
}

// New returns a fresh zero value for kind.
func New(kind Kind) (Message, error) {
	switch kind {
	case KindPing:
		return new(Ping), nil
	case KindPlayerInit:
		return new(PlayerInitPacket), nil
	case KindPlayerInitReceived:
		return new(PlayerInitReceived), nil
	case KindPlayerChat:
		return new(PlayerChatPacket), nil
	case KindPlayerJoined:
		return new(PlayerJoinedPacket), nil
	case KindPlayerLeft:
		return new(PlayerLeftPacket), nil
	case KindSystemMessage:
		return new(SystemMessagePacket), nil
	case KindWorldBlockPlaced:
		return new(WorldBlockPlacedPacket), nil
	case KindPlayerFace:
		return new(PlayerFacePacket), nil
	}
	return nil, fmt.Errorf("%w: %s", ErrNotEncodable, kind)
}

// Codec converts between frames and packets.
type Codec struct{}

// Decode parses a WorldPacket frame. A frame without a recognizable case
// yields a KindUnknown packet carrying data; only malformed input is an error.
func (Codec) Decode(data []byte) (Packet, error) {
	out := Packet{Kind: KindUnknown, Value: data}
	err := walk(data, func(f field) error {
		kind, ok := kindForField(f.num)
		if !ok {
			return nil
		}
		raw, err := f.bytes()
		if err != nil {
			return err
		}
		m, _ := New(kind)
		if err := m.UnmarshalProto(raw); err != nil {
			return fmt.Errorf("decode %s: %w", kind, err)
		}
		// Last case on the wire wins, as with any oneof.
		out = Packet{Kind: kind, Value: m}
		return nil
	})
	if err != nil {
		return Packet{Kind: KindUnknown, Value: data}, err
	}
	return out, nil
}

// Encode serializes p as a WorldPacket frame. A nil value encodes the zero
// value of the kind. Values may be given as the struct or a pointer to it.
func (Codec) Encode(p Packet) ([]byte, error) {
	if p.Kind.Synthetic() || !p.Kind.Valid() {
		return nil, fmt.Errorf("%w: %s", ErrNotEncodable, p.Kind)
	}
	m, err := asMessage(p.Kind, p.Value)
	if err != nil {
		return nil, err
	}
	return appendMessage(nil, fieldNumbers[p.Kind], m), nil
}

func asMessage(kind Kind, v any) (Message, error) {
	want, err := New(kind)
	if err != nil {
		return nil, err
	}
	if v == nil {
		return want, nil
	}
	wantType := reflect.TypeOf(want)
	rv := reflect.ValueOf(v)
	switch {
	case rv.Type() == wantType:
		if rv.IsNil() {
			return want, nil
		}
		return v.(Message), nil
	case rv.Type() == wantType.Elem():
		ptr := reflect.New(rv.Type())
		ptr.Elem().Set(rv)
		return ptr.Interface().(Message), nil
	}
	return nil, fmt.Errorf("%w: %s does not take %T", ErrNotEncodable, kind, v)
}

// Decode is Codec{}.Decode.
func Decode(data []byte) (Packet, error) { return Codec{}.Decode(data) }

// Encode is Codec{}.Encode.
func Encode(kind Kind, value any) ([]byte, error) {
	return Codec{}.Encode(Packet{Kind: kind, Value: value})
}

// ParamCount returns how many exported fields of value are set.
func ParamCount(value any) int {
	rv := reflect.ValueOf(value)
	for rv.Kind() == reflect.Pointer {
		if rv.IsNil() {
			return 0
		}
		rv = rv.Elem()
	}
	if rv.Kind() != reflect.Struct {
		if rv.IsValid() {
			return 1
		}
		return 0
	}
	n := 0
	t := rv.Type()
	for i := 0; i < rv.NumField(); i++ {
		if t.Field(i).IsExported() && !rv.Field(i).IsZero() {
			n++
		}
	}
	return n
}
