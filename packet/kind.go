// Package packet defines the world packet catalog exchanged with the game
// server and a protobuf wire codec for it.
//
// A frame on the wire is a WorldPacket message holding exactly one case of a
// oneof. Each case is identified here by a Kind; the decoded value for a case
// is a pointer to the matching struct (for example *PlayerChatPacket).
package packet

import "fmt"

// Kind identifies a packet case. The set is closed: external cases mirror the
// server's oneof, and three synthetic kinds (Unknown, Raw, Debug) exist only
// on the client side for event fan-out.
type Kind uint16

const (
	// KindUnknown is used for frames that carry no recognizable case.
	KindUnknown Kind = iota
	// KindRaw fires for every decoded packet before its case handlers.
	KindRaw
	// KindDebug carries human-readable client notices.
	KindDebug

	KindPing
	KindPlayerInit
	KindPlayerInitReceived
	KindPlayerChat
	KindPlayerJoined
	KindPlayerLeft
	KindSystemMessage
	KindWorldBlockPlaced
	KindPlayerFace

	kindCount
)

var kindNames = [...]string{
	KindUnknown:            "unknown",
	KindRaw:                "raw",
	KindDebug:              "debug",
	KindPing:               "ping",
	KindPlayerInit:         "playerInitPacket",
	KindPlayerInitReceived: "playerInitReceived",
	KindPlayerChat:         "playerChatPacket",
	KindPlayerJoined:       "playerJoinedPacket",
	KindPlayerLeft:         "playerLeftPacket",
	KindSystemMessage:      "systemMessagePacket",
	KindWorldBlockPlaced:   "worldBlockPlacedPacket",
	KindPlayerFace:         "playerFacePacket",
}

func (k Kind) String() string {
	if k < kindCount {
		return kindNames[k]
	}
	return fmt.Sprintf("Kind(%d)", k)
}

// Synthetic reports whether k is a client-side event kind with no wire form.
func (k Kind) Synthetic() bool {
	return k == KindUnknown || k == KindRaw || k == KindDebug
}

// Valid reports whether k belongs to the catalog.
func (k Kind) Valid() bool {
	return k < kindCount
}

// ParseKind returns the Kind whose case name is name.
func ParseKind(name string) (Kind, bool) {
	for k, n := range kindNames {
		if n == name {
			return Kind(k), true
		}
	}
	return KindUnknown, false
}

// Kinds returns every external (wire) kind in catalog order.
func Kinds() []Kind {
	out := make([]Kind, 0, kindCount)
	for k := Kind(0); k < kindCount; k++ {
		if !k.Synthetic() {
			out = append(out, k)
		}
	}
	return out
}
