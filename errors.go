package pixelwalker

import (
	"errors"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/pixelwalker/go-sdk/api"
	"github.com/pixelwalker/go-sdk/packet"
)

// Sentinel errors for client state.
var (
	ErrAlreadyConnecting = errors.New("already trying to connect")
	ErrNoJoinKey         = errors.New("unable to secure a join key - are the account details valid?")
	ErrUnableToConnect   = errors.New("unable to (re)connect")
	ErrNotConnected      = errors.New("client is not connected")
	ErrClientClosed      = errors.New("client is closed")

	// ErrNoCredentials is returned when an operation needs the credential
	// collaborator and none was bound. It matches api.ErrNoCredentials.
	ErrNoCredentials = api.ErrNoCredentials
)

// ConnectionError represents a failed attempt to open the game socket.
type ConnectionError struct {
	URL    string
	Reason string
}

func (e *ConnectionError) Error() string {
	return fmt.Sprintf("connection error [%s]: %s", e.URL, e.Reason)
}

// ErrorKind classifies errors that cannot be returned to a caller.
type ErrorKind int

const (
	ErrHandlerFailure   ErrorKind = iota // a packet handler returned an error
	ErrTransportWrite                    // failed to write to the socket
	ErrReconnectFailure                  // rejoining after a server close failed
)

var errorKindNames = [...]string{
	ErrHandlerFailure:   "ErrHandlerFailure",
	ErrTransportWrite:   "ErrTransportWrite",
	ErrReconnectFailure: "ErrReconnectFailure",
}

func (k ErrorKind) String() string {
	if int(k) >= 0 && int(k) < len(errorKindNames) {
		return errorKindNames[k]
	}
	return fmt.Sprintf("ErrorKind(%d)", k)
}

// SDKError is an error the client could not deliver to a direct caller.
// These errors are routed to the ErrorHandler given to NewClient.
type SDKError struct {
	Kind      ErrorKind
	Packet    packet.Kind // packet being handled or sent, if any
	Room      string      // room the session was joined to, if any
	Cause     error
	Timestamp time.Time
}

func (e *SDKError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v (packet=%s room=%s)", e.Kind, e.Cause, e.Packet, e.Room)
	}
	return fmt.Sprintf("%s (packet=%s room=%s)", e.Kind, e.Packet, e.Room)
}

func (e *SDKError) Unwrap() error {
	return e.Cause
}

// ErrorHandler is called for every error that cannot be returned to a
// direct caller. It must be provided when creating a client.
type ErrorHandler func(SDKError)

// LogErrors returns an ErrorHandler that logs every error to logger.
func LogErrors(logger logrus.FieldLogger) ErrorHandler {
	return func(e SDKError) {
		entry := logger.WithFields(logrus.Fields{
			"kind":   e.Kind.String(),
			"packet": e.Packet.String(),
			"room":   e.Room,
		})
		if e.Cause != nil {
			entry = entry.WithError(e.Cause)
		}
		entry.Error("pixelwalker client error")
	}
}
