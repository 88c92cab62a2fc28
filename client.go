package pixelwalker

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/pixelwalker/go-sdk/api"
	"github.com/pixelwalker/go-sdk/packet"
)

// State is the connection state of a Client.
type State int

const (
	StateIdle       State = iota // no socket
	StateConnecting              // join in progress
	StateOpen                    // socket ready
	StateClosing                 // socket closed, rejoin about to start
	StateClosed                  // client closed for good
)

var stateNames = [...]string{
	StateIdle:       "idle",
	StateConnecting: "connecting",
	StateOpen:       "open",
	StateClosing:    "closing",
	StateClosed:     "closed",
}

func (s State) String() string {
	if int(s) >= 0 && int(s) < len(stateNames) {
		return stateNames[s]
	}
	return fmt.Sprintf("State(%d)", s)
}

// joinMode records how the current socket was obtained.
type joinMode int

const (
	joinNone    joinMode = iota
	joinAccount          // join key from the credential collaborator; may rejoin
	joinToken            // raw join token; never rejoins
)

// Credentials is what the client needs from the HTTP API. *api.Client
// implements it. The client never stores account details itself.
type Credentials interface {
	Authenticate(ctx context.Context) (*api.AuthResult, error)
	RoomTypes(ctx context.Context) ([]string, error)
	JoinKey(ctx context.Context, roomType, roomID string) (api.JoinKeyResult, error)
}

// JoinData configures a world that is created by joining it.
type JoinData struct {
	WorldTitle  string `json:"world_title"`
	WorldWidth  int    `json:"world_width,omitempty"`
	WorldHeight int    `json:"world_height,omitempty"`
}

// Client is a game session for one world connection at a time.
type Client struct {
	cfg        Config
	opts       clientOptions
	creds      Credentials
	onError    ErrorHandler
	callbacks  *Callbacks
	dispatcher *dispatcher
	dial       dialFunc
	log        logrus.FieldLogger

	// ctx is canceled by Close and bounds background rejoins.
	ctx    context.Context
	cancel context.CancelFunc

	mu           sync.Mutex
	state        State
	sock         transport
	mode         joinMode
	settings     Settings
	lastRoom     string
	lastJoinData *JoinData
	closed       bool
}

// NewClient creates a game client. creds may be nil when the client is only
// joined with JoinWithToken. The onError handler receives errors that cannot
// be returned to a caller, such as handler failures and failed rejoins.
// The client is not connected until JoinWorld or JoinWithToken is called.
func NewClient(cfg Config, creds Credentials, onError ErrorHandler, opts ...ClientOption) (*Client, error) {
	resolved, err := resolveConfig(cfg)
	if err != nil {
		return nil, err
	}

	if onError == nil {
		return nil, errors.New("ErrorHandler must not be nil")
	}

	o := clientDefaults()
	for _, opt := range opts {
		opt(&o)
	}

	ctx, cancel := context.WithCancel(context.Background())
	c := &Client{
		cfg:        resolved,
		opts:       o,
		creds:      creds,
		onError:    onError,
		callbacks:  NewCallbacks(),
		dispatcher: newDispatcher(resolved),
		dial:       websocketDialer(o.dialer),
		log:        resolved.Logger.WithField("session", uuid.NewString()),
		ctx:        ctx,
		cancel:     cancel,
		settings: Settings{
			Reconnectable:     !resolved.DisableReconnect,
			ReconnectCount:    resolved.ReconnectCount,
			ReconnectInterval: resolved.ReconnectInterval,
			HandlePackets:     append([]AutoHandle(nil), resolved.HandlePackets...),
		},
	}
	return c, nil
}

// Join creates a client and joins roomID with it.
func Join(ctx context.Context, creds Credentials, roomID string, joinData *JoinData, cfg Config, onError ErrorHandler, opts ...ClientOption) (*Client, error) {
	c, err := NewClient(cfg, creds, onError, opts...)
	if err != nil {
		return nil, err
	}
	if err := c.JoinWorld(ctx, roomID, joinData); err != nil {
		c.Close()
		return nil, err
	}
	return c, nil
}

// Init authenticates the credential collaborator. It is only needed when
// the collaborator was created from account details.
func (c *Client) Init(ctx context.Context) error {
	if c.creds == nil {
		return ErrNoCredentials
	}
	_, err := c.creds.Authenticate(ctx)
	return err
}

// JoinWorld connects to roomID. It returns once the socket is open, or with
// ErrUnableToConnect when every attempt failed. roomID is remembered so the
// client can rejoin after the server closes the connection. Joining while
// connected replaces the current socket.
func (c *Client) JoinWorld(ctx context.Context, roomID string, joinData *JoinData) error {
	if c.creds == nil {
		return ErrNoCredentials
	}
	if err := c.beginConnect(); err != nil {
		return err
	}

	target, err := c.resolveJoinURL(ctx, roomID, joinData)
	if err != nil {
		c.abortConnect()
		return err
	}

	c.mu.Lock()
	c.lastRoom = roomID
	c.lastJoinData = joinData
	c.mu.Unlock()

	return c.connect(ctx, target, joinAccount)
}

// JoinWithToken connects with a join token obtained elsewhere. Sessions
// opened this way are never rejoined automatically.
func (c *Client) JoinWithToken(ctx context.Context, token string, joinData *JoinData) error {
	if token == "" {
		return ErrNoJoinKey
	}
	if err := c.beginConnect(); err != nil {
		return err
	}
	target, err := joinURL(c.cfg.GameWSURL, token, joinData)
	if err != nil {
		c.abortConnect()
		return err
	}
	return c.connect(ctx, target, joinToken)
}

func (c *Client) resolveJoinURL(ctx context.Context, roomID string, joinData *JoinData) (string, error) {
	types, err := c.creds.RoomTypes(ctx)
	if err != nil {
		return "", fmt.Errorf("fetch room types: %w", err)
	}
	if len(types) == 0 {
		return "", fmt.Errorf("fetch room types: %w", api.ErrNoRoomTypes)
	}

	key, err := c.creds.JoinKey(ctx, types[0], roomID)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrNoJoinKey, err)
	}
	if key.Token == "" {
		return "", ErrNoJoinKey
	}
	return joinURL(c.cfg.GameWSURL, key.Token, joinData)
}

// joinURL builds <base>/room/<token>[?joinData=<base64 JSON>].
func joinURL(base, token string, joinData *JoinData) (string, error) {
	target := strings.TrimRight(base, "/") + "/room/" + url.PathEscape(token)
	if joinData == nil {
		return target, nil
	}
	raw, err := json.Marshal(joinData)
	if err != nil {
		return "", fmt.Errorf("encode join data: %w", err)
	}
	return target + "?joinData=" + url.QueryEscape(base64.StdEncoding.EncodeToString(raw)), nil
}

func (c *Client) beginConnect() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return ErrClientClosed
	}
	if c.state == StateConnecting {
		return ErrAlreadyConnecting
	}
	c.state = StateConnecting
	return nil
}

func (c *Client) abortConnect() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state != StateConnecting {
		return
	}
	if c.sock != nil {
		c.state = StateOpen
	} else {
		c.state = StateIdle
	}
}

func (c *Client) connect(ctx context.Context, target string, mode joinMode) error {
	t, err := c.open(ctx, target)
	if err != nil {
		c.abortConnect()
		return err
	}

	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		t.close()
		return ErrClientClosed
	}
	old := c.sock
	c.sock = t
	c.mode = mode
	c.state = StateOpen
	room := c.lastRoom
	c.mu.Unlock()

	t.start(c.handleFrame, func(code int, reason string) {
		c.handleClose(t, code, reason)
	})
	if old != nil {
		old.close()
	}

	if mode == joinToken {
		room = ""
	}
	c.log.WithField("room", room).Info("Connected.")
	c.debug("Connected.")
	return nil
}

// handleClose runs once per socket. Sockets that were already replaced are
// ignored.
func (c *Client) handleClose(t transport, code int, reason string) {
	c.mu.Lock()
	if c.sock != t {
		c.mu.Unlock()
		return
	}
	c.sock = nil
	// A join already in progress will install the next socket.
	connecting := c.state == StateConnecting
	rejoin := c.settings.Reconnectable && c.mode == joinAccount && !c.closed && !connecting
	room, joinData := c.lastRoom, c.lastJoinData
	switch {
	case connecting:
	case c.closed:
		c.state = StateClosed
	case rejoin && room != "":
		c.state = StateClosing
	default:
		c.state = StateIdle
	}
	c.mu.Unlock()

	c.debug(fmt.Sprintf("Server closed connection due to %s, code: %d", reason, code))
	if !rejoin {
		return
	}
	if room == "" {
		c.log.Warn("connection closed with no room on record to rejoin")
		c.debug("Unable to rejoin: no room on record.")
		return
	}
	go c.rejoin(room, joinData)
}

func (c *Client) rejoin(room string, joinData *JoinData) {
	err := c.JoinWorld(c.ctx, room, joinData)
	if err == nil || errors.Is(err, ErrClientClosed) || c.ctx.Err() != nil {
		return
	}
	c.onError(SDKError{
		Kind:      ErrReconnectFailure,
		Room:      room,
		Cause:     err,
		Timestamp: time.Now(),
	})
}

// Send encodes value as a kind packet and writes it through the rate-limit
// buckets, or immediately with WithDirect. A nil value sends the zero value.
// When no socket is open the packet is dropped.
func (c *Client) Send(kind packet.Kind, value any, opts ...SendOption) error {
	o := sendDefaults()
	for _, opt := range opts {
		opt(&o)
	}

	c.debug(fmt.Sprintf("Sent %s with %d parameters.", kind, packet.ParamCount(value)))

	data, err := c.opts.codec.Encode(packet.Packet{Kind: kind, Value: value})
	if err != nil {
		return err
	}

	c.mu.Lock()
	closed := c.closed
	c.mu.Unlock()
	if closed {
		return ErrClientClosed
	}

	if o.direct {
		c.write(kind, data, true)
		return nil
	}
	c.dispatcher.dispatch(kind, func() { c.write(kind, data, false) })
	c.opts.metrics.depth(c.dispatcher)
	return nil
}

// write puts data on whatever socket is current when it runs.
func (c *Client) write(kind packet.Kind, data []byte, direct bool) {
	c.mu.Lock()
	t := c.sock
	room := c.lastRoom
	c.mu.Unlock()

	if t == nil {
		c.log.WithField("packet", kind.String()).Debug("no socket, packet dropped")
		return
	}
	if err := t.send(data); err != nil {
		if errors.Is(err, ErrNotConnected) {
			c.log.WithField("packet", kind.String()).Debug("socket closed, packet dropped")
			return
		}
		c.onError(SDKError{
			Kind:      ErrTransportWrite,
			Packet:    kind,
			Room:      room,
			Cause:     err,
			Timestamp: time.Now(),
		})
		return
	}
	c.opts.metrics.sent(kind, direct)
	if !direct {
		c.opts.metrics.depth(c.dispatcher)
	}
}

// handleFrame is called by the socket for each inbound frame, in order.
func (c *Client) handleFrame(data []byte) {
	p, err := c.opts.codec.Decode(data)
	if err != nil {
		c.debug(fmt.Sprintf("Could not decode frame: %v", err))
		p = packet.Packet{Kind: packet.KindUnknown, Value: data}
	}

	c.opts.metrics.received(p.Kind)
	c.debug("Received " + p.Kind.String())

	if p.Kind == packet.KindUnknown {
		c.invoke(packet.KindUnknown, data)
		return
	}
	c.invoke(packet.KindRaw, p)

	settings := c.Settings()
	switch p.Kind {
	case packet.KindPing:
		if settings.handles(AutoPing) {
			c.Send(packet.KindPing, nil, WithDirect())
		}
	case packet.KindPlayerInit:
		if settings.handles(AutoInit) {
			c.Send(packet.KindPlayerInitReceived, nil)
		}
		initPacket, _ := p.Value.(*packet.PlayerInitPacket)
		c.dispatcher.setOwner(initPacket.IsWorldOwner())
	}

	c.invoke(p.Kind, p.Value)
}

func (c *Client) invoke(kind packet.Kind, data any) {
	if _, err := c.callbacks.Invoke(kind, data); err != nil {
		c.opts.metrics.handlerError(kind)
		c.onError(SDKError{
			Kind:      ErrHandlerFailure,
			Packet:    kind,
			Room:      c.LastRoom(),
			Cause:     err,
			Timestamp: time.Now(),
		})
	}
}

// debug logs msg and hands it to the debug callbacks.
func (c *Client) debug(msg string) {
	c.log.Debug(msg)
	c.invoke(packet.KindDebug, msg)
}

// Disconnect closes the socket. reconnect decides whether the client rejoins
// the last room afterwards. It reports whether a socket was closed.
func (c *Client) Disconnect(reconnect bool) bool {
	c.mu.Lock()
	c.settings.Reconnectable = reconnect
	t := c.sock
	c.mu.Unlock()

	if t == nil {
		return false
	}
	return t.close()
}

// Close disconnects without rejoining and stops the send buckets. The
// client cannot be used afterwards.
func (c *Client) Close() error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return nil
	}
	c.closed = true
	c.settings.Reconnectable = false
	c.state = StateClosed
	t := c.sock
	c.mu.Unlock()

	c.cancel()
	if t != nil {
		t.close()
	}
	c.dispatcher.stop()
	return nil
}

// Connected reports whether a socket is open.
func (c *Client) Connected() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state == StateOpen && c.sock != nil
}

// State returns the connection state.
func (c *Client) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Settings returns a copy of the connection settings.
func (c *Client) Settings() Settings {
	c.mu.Lock()
	defer c.mu.Unlock()
	s := c.settings
	s.HandlePackets = append([]AutoHandle(nil), c.settings.HandlePackets...)
	return s
}

// SetReconnectable sets whether the client rejoins after a server close.
func (c *Client) SetReconnectable(v bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.settings.Reconnectable = v
}

// SetReconnectCount sets the attempt budget of later joins. Zero makes
// every join fail with ErrUnableToConnect.
func (c *Client) SetReconnectCount(n int) error {
	if n < 0 {
		return fmt.Errorf("ReconnectCount must not be negative, got %d", n)
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.settings.ReconnectCount = n
	return nil
}

// SetHandlePackets replaces the set of packets answered automatically.
func (c *Client) SetHandlePackets(handles ...AutoHandle) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.settings.HandlePackets = append([]AutoHandle(nil), handles...)
}

// LastRoom returns the room id of the last JoinWorld call.
func (c *Client) LastRoom() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lastRoom
}

// Callbacks returns the client's handler registry.
func (c *Client) Callbacks() *Callbacks {
	return c.callbacks
}

// AddCallback registers handlers for kind and returns the client for chaining.
func (c *Client) AddCallback(kind packet.Kind, handlers ...*Handler) *Client {
	c.callbacks.Add(kind, handlers...)
	return c
}

// OnPacket registers fn for kind and returns its handle for RemoveCallback.
func (c *Client) OnPacket(kind packet.Kind, fn Callback) *Handler {
	return c.callbacks.On(kind, fn)
}

// RemoveCallback removes h from kind, or every handler of kind if h is nil.
func (c *Client) RemoveCallback(kind packet.Kind, h *Handler) (*Handler, bool) {
	return c.callbacks.Remove(kind, h)
}
