package client

import (
	"context"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"pkt.systems/pslog"
	"pkt.systems/todoagent/schema"
)

const (
	dialTimeout  = 10 * time.Second
	writeTimeout = 10 * time.Second
)

// Options configures a Client.
type Options struct {
	// URL is the chat websocket endpoint, e.g. ws://host/ws/chat.
	URL string
	// OnEnvelope receives every decoded server envelope.
	OnEnvelope func(schema.Envelope)
	// OnStateChange observes connection state transitions together with
	// the current reconnect attempt counter.
	OnStateChange func(schema.ConnState, int)
	// BackoffBase and BackoffCap override the reconnection timing.
	// Zero values keep the defaults.
	BackoffBase time.Duration
	BackoffCap  time.Duration
	// MaxAttempts overrides the reconnection attempt bound. Zero keeps
	// the default.
	MaxAttempts int
}

// Client owns the websocket lifecycle for one chat session: it dials,
// reads server envelopes, and on unexpected closure schedules bounded
// exponential-backoff reconnection. An intentional Disconnect never
// triggers auto-reconnect.
type Client struct {
	opts   Options
	dialer *websocket.Dialer
	log    pslog.Logger

	mu          sync.Mutex
	conn        *websocket.Conn
	state       schema.ConnState
	attempts    int
	intentional bool
	retryTimer  *time.Timer
	ctx         context.Context
	notices     []stateNotice
	notifying   bool
}

// stateNotice is one queued OnStateChange delivery.
type stateNotice struct {
	state    schema.ConnState
	attempts int
}

// New constructs a disconnected client.
func New(opts Options) *Client {
	if opts.BackoffBase <= 0 {
		opts.BackoffBase = ReconnectBase
	}
	if opts.BackoffCap <= 0 {
		opts.BackoffCap = ReconnectCap
	}
	if opts.MaxAttempts <= 0 {
		opts.MaxAttempts = MaxReconnectAttempts
	}
	return &Client{
		opts:   opts,
		dialer: &websocket.Dialer{HandshakeTimeout: dialTimeout},
		state:  schema.ConnDisconnected,
	}
}

// State returns the current connection state.
func (c *Client) State() schema.ConnState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Attempts returns the current reconnect attempt counter.
func (c *Client) Attempts() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.attempts
}

// Connect dials the server. Calling it while connected or connecting is
// a no-op. A failed dial schedules automatic reconnection.
func (c *Client) Connect(ctx context.Context) error {
	c.mu.Lock()
	if c.state == schema.ConnConnected || c.state == schema.ConnConnecting {
		c.mu.Unlock()
		return nil
	}
	c.intentional = false
	c.ctx = ctx
	c.log = pslog.Ctx(ctx)
	c.setStateLocked(schema.ConnConnecting)
	c.mu.Unlock()

	return c.dial(ctx)
}

func (c *Client) dial(ctx context.Context) error {
	conn, _, err := c.dialer.DialContext(ctx, c.opts.URL, nil)

	c.mu.Lock()
	if c.intentional {
		c.mu.Unlock()
		if conn != nil {
			_ = conn.Close()
		}
		return nil
	}
	if err != nil {
		c.setStateLocked(schema.ConnErrored)
		c.scheduleReconnectLocked()
		c.mu.Unlock()
		c.log.Warn("dial failed", "url", c.opts.URL, "err", err)
		return err
	}
	c.conn = conn
	c.attempts = 0
	c.setStateLocked(schema.ConnConnected)
	c.mu.Unlock()
	c.log.Info("connected", "url", c.opts.URL)

	go c.readPump(conn)
	return nil
}

// Disconnect cancels any pending reconnection and closes the transport
// without triggering auto-reconnect.
func (c *Client) Disconnect() {
	c.mu.Lock()
	c.intentional = true
	if c.retryTimer != nil {
		c.retryTimer.Stop()
		c.retryTimer = nil
	}
	conn := c.conn
	c.conn = nil
	c.setStateLocked(schema.ConnDisconnected)
	c.mu.Unlock()

	if conn != nil {
		_ = conn.Close()
	}
}

// Send encodes and writes one user utterance.
func (c *Client) Send(message string) error {
	payload, err := schema.EncodeChatRequest(message)
	if err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state != schema.ConnConnected || c.conn == nil {
		return schema.ErrNotConnected
	}
	if err := c.conn.SetWriteDeadline(time.Now().Add(writeTimeout)); err != nil {
		return err
	}
	return c.conn.WriteMessage(websocket.TextMessage, payload)
}

// readPump delivers decoded envelopes until the connection drops, then
// hands over to the reconnection schedule.
func (c *Client) readPump(conn *websocket.Conn) {
	for {
		_, payload, err := conn.ReadMessage()
		if err != nil {
			c.handleClosure(err)
			return
		}
		env, err := schema.DecodeEnvelope(payload)
		if err != nil {
			c.log.Warn("dropping unparsable envelope", "err", err, "bytes", len(payload))
			continue
		}
		if c.opts.OnEnvelope != nil {
			c.opts.OnEnvelope(env)
		}
	}
}

func (c *Client) handleClosure(cause error) {
	c.mu.Lock()
	if c.intentional {
		c.mu.Unlock()
		return
	}
	if c.conn != nil {
		_ = c.conn.Close()
		c.conn = nil
	}
	c.setStateLocked(schema.ConnErrored)
	c.scheduleReconnectLocked()
	c.mu.Unlock()
	c.log.Warn("connection lost", "err", cause)
}

// scheduleReconnectLocked arms the next attempt or, when the bound is
// exhausted, parks the client in a terminal disconnected state.
func (c *Client) scheduleReconnectLocked() {
	if c.attempts >= c.opts.MaxAttempts {
		c.setStateLocked(schema.ConnDisconnected)
		c.log.Warn("reconnect attempts exhausted", "attempts", c.attempts)
		return
	}
	delay := c.reconnectDelayLocked(c.attempts)
	c.attempts++
	attempt := c.attempts
	ctx := c.ctx
	c.retryTimer = time.AfterFunc(delay, func() {
		c.mu.Lock()
		if c.intentional {
			c.mu.Unlock()
			return
		}
		c.setStateLocked(schema.ConnConnecting)
		c.mu.Unlock()
		_ = c.dial(ctx)
	})
	c.log.Info("reconnect scheduled", "attempt", attempt, "delay", delay)
}

func (c *Client) reconnectDelayLocked(attempt int) time.Duration {
	if attempt < 0 {
		attempt = 0
	}
	if attempt > 30 {
		return c.opts.BackoffCap
	}
	delay := c.opts.BackoffBase << uint(attempt)
	if delay > c.opts.BackoffCap {
		return c.opts.BackoffCap
	}
	return delay
}

// setStateLocked records a transition and queues its notification. One
// drainer goroutine delivers queued notifications in transition order;
// a goroutine per transition could reach the observer out of order and
// strand it on a stale state.
func (c *Client) setStateLocked(state schema.ConnState) {
	if c.state == state {
		return
	}
	c.state = state
	if c.opts.OnStateChange == nil {
		return
	}
	c.notices = append(c.notices, stateNotice{state: state, attempts: c.attempts})
	if c.notifying {
		return
	}
	c.notifying = true
	go c.drainNotices()
}

func (c *Client) drainNotices() {
	for {
		c.mu.Lock()
		if len(c.notices) == 0 {
			c.notifying = false
			c.mu.Unlock()
			return
		}
		notice := c.notices[0]
		c.notices = c.notices[1:]
		c.mu.Unlock()
		c.opts.OnStateChange(notice.state, notice.attempts)
	}
}
