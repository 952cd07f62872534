// Package authstream consumes the authentication service's state stream over
// a websocket and fans the resolved identity out to subscribers.
package authstream

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strings"
	"sync"
	"time"

	"profile-sync/internal/domain/profile"
	"profile-sync/internal/pkg/jwt"

	"github.com/cenkalti/backoff/v5"
	"github.com/gorilla/websocket"
)

const MessageTypeAuthState = "auth_state"

// StateMessage is one frame on the stream. An empty token means signed out.
type StateMessage struct {
	Type  string `json:"type"`
	Token string `json:"token"`
}

type TokenVerifier interface {
	ValidateToken(tokenString string) (jwt.Claims, error)
}

type Listener = func(id profile.UserID, signedIn bool)

type Client struct {
	url    string
	header http.Header
	dialer *websocket.Dialer
	tokens TokenVerifier
	logger *log.Logger

	minBackoff time.Duration
	maxBackoff time.Duration

	// deliver serializes publishes with subscribe replays so a listener
	// never sees an older state after a newer one.
	deliver sync.Mutex

	mu        sync.Mutex
	listeners map[uint64]Listener
	nextID    uint64
	current   profile.UserID
	signedIn  bool
	known     bool
}

type Option func(*Client)

func WithHeader(h http.Header) Option {
	return func(c *Client) { c.header = h.Clone() }
}

func WithDialer(d *websocket.Dialer) Option {
	return func(c *Client) { c.dialer = d }
}

func WithBackoff(minBackoff, maxBackoff time.Duration) Option {
	return func(c *Client) {
		c.minBackoff = minBackoff
		c.maxBackoff = maxBackoff
	}
}

func NewClient(url string, tokens TokenVerifier, logger *log.Logger, opts ...Option) *Client {
	c := &Client{
		url:        strings.TrimSpace(url),
		dialer:     websocket.DefaultDialer,
		tokens:     tokens,
		logger:     logger,
		minBackoff: time.Second,
		maxBackoff: 30 * time.Second,
		listeners:  make(map[uint64]Listener),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Subscribe registers fn for every state change. If a state has already been
// received, fn is called with it before Subscribe returns. The returned func
// removes the listener and is safe to call more than once.
func (c *Client) Subscribe(fn Listener) func() {
	if fn == nil {
		return func() {}
	}

	c.deliver.Lock()
	c.mu.Lock()
	c.nextID++
	id := c.nextID
	c.listeners[id] = fn
	current, signedIn, known := c.current, c.signedIn, c.known
	c.mu.Unlock()

	if known {
		fn(current, signedIn)
	}
	c.deliver.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			c.mu.Lock()
			delete(c.listeners, id)
			c.mu.Unlock()
		})
	}
}

// Run keeps the stream connected until ctx is done. A client without a URL
// never emits and returns once ctx is done.
func (c *Client) Run(ctx context.Context) error {
	if c.url == "" {
		c.logf("[AuthStream] disabled | reason=no_url")
		<-ctx.Done()
		return nil
	}

	b := backoff.NewExponentialBackOff()
	b.InitialInterval = c.minBackoff
	b.MaxInterval = c.maxBackoff
	b.Reset()

	for {
		connected, err := c.session(ctx)
		if ctx.Err() != nil {
			return nil
		}
		if connected {
			b.Reset()
		}

		wait := b.NextBackOff()
		if wait == backoff.Stop || wait <= 0 {
			wait = c.maxBackoff
		}
		c.logf("[AuthStream] disconnected | error=%v retry_in=%s", err, wait)

		t := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			t.Stop()
			return nil
		case <-t.C:
		}
	}
}

// session dials once and reads until the connection fails. It reports
// whether the dial succeeded so Run can reset its backoff.
func (c *Client) session(ctx context.Context) (bool, error) {
	conn, _, err := c.dialer.DialContext(ctx, c.url, c.header)
	if err != nil {
		return false, err
	}
	defer conn.Close()
	c.logf("[AuthStream] connected | url=%s", c.url)

	stop := context.AfterFunc(ctx, func() {
		_ = conn.WriteControl(
			websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
			time.Now().Add(time.Second),
		)
		_ = conn.Close()
	})
	defer stop()

	for {
		_, raw, err := conn.ReadMessage()
		if err != nil {
			return true, err
		}
		c.handle(raw)
	}
}

func (c *Client) handle(raw []byte) {
	var msg StateMessage
	if err := json.Unmarshal(raw, &msg); err != nil {
		c.logf("[AuthStream] malformed frame | error=%v", err)
		return
	}
	if msg.Type != MessageTypeAuthState {
		return
	}

	token := strings.TrimSpace(msg.Token)
	if token == "" {
		c.publish("", false)
		return
	}

	if c.tokens == nil {
		c.logf("[AuthStream] token dropped | reason=no_verifier")
		return
	}
	claims, err := c.tokens.ValidateToken(token)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			c.logf("[AuthStream] token rejected | reason=expired")
			return
		}
		c.logf("[AuthStream] token rejected | error=%v", err)
		return
	}
	c.publish(claims.UserID, true)
}

func (c *Client) publish(id profile.UserID, signedIn bool) {
	c.deliver.Lock()
	defer c.deliver.Unlock()

	c.mu.Lock()
	c.current, c.signedIn, c.known = id, signedIn, true
	snapshot := make([]Listener, 0, len(c.listeners))
	for _, fn := range c.listeners {
		snapshot = append(snapshot, fn)
	}
	c.mu.Unlock()

	for _, fn := range snapshot {
		fn(id, signedIn)
	}
}

func (c *Client) logf(format string, args ...any) {
	if c.logger != nil {
		c.logger.Printf(format, args...)
	}
}
