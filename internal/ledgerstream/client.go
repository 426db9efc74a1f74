// Package ledgerstream is the websocket adapter to an XRP Ledger server: it
// correlates request/response traffic by id and fans validated transaction
// stream messages into a single attached handler.
package ledgerstream

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"

	"github.com/gorilla/websocket"

	"github.com/walletwatch/xrpl-wallet-events/internal/xrpl"
	"github.com/walletwatch/xrpl-wallet-events/pkg/common/logger"
)

var ErrClosed = errors.New("ledger stream closed")

// RequestError is a server-side request rejection, e.g. actNotFound.
type RequestError struct {
	Code    string
	Message string
}

func (e *RequestError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("ledger request failed: %s (%s)", e.Code, e.Message)
	}
	return "ledger request failed: " + e.Code
}

type pendingReply struct {
	result json.RawMessage
	err    error
}

// Client is a connected ledger stream. One handler at a time receives
// transaction messages; requests may be issued from any goroutine.
type Client struct {
	conn *websocket.Conn
	log  *slog.Logger

	writeMu sync.Mutex // serializes writes; gorilla allows one writer

	mu      sync.Mutex
	pending map[uint64]chan pendingReply
	handler func(*xrpl.Transaction)

	nextID    atomic.Uint64
	done      chan struct{}
	closeOnce sync.Once
}

// Dial connects to the websocket endpoint and starts the read loop.
func Dial(ctx context.Context, url string) (*Client, error) {
	conn, _, err := websocket.DefaultDialer.DialContext(ctx, url, nil)
	if err != nil {
		return nil, fmt.Errorf("dial ledger %s: %w", url, err)
	}

	c := &Client{
		conn:    conn,
		log:     logger.With("component", "ledgerstream", "url", url),
		pending: make(map[uint64]chan pendingReply),
		done:    make(chan struct{}),
	}
	go c.readLoop()
	return c, nil
}

func (c *Client) Close() error {
	var err error
	c.closeOnce.Do(func() {
		err = c.conn.Close()
	})
	return err
}

// Done is closed when the read loop exits, whether by Close or by a
// connection failure. Reconnection is the caller's concern.
func (c *Client) Done() <-chan struct{} {
	return c.done
}

// AttachTransactionHandler sets the transaction handler, replacing any
// previous one. The handler runs on the read goroutine: transactions are
// processed one at a time, in arrival order.
func (c *Client) AttachTransactionHandler(fn func(*xrpl.Transaction)) {
	c.mu.Lock()
	c.handler = fn
	c.mu.Unlock()
}

func (c *Client) DetachTransactionHandler() {
	c.mu.Lock()
	c.handler = nil
	c.mu.Unlock()
}

// SubscribeAccounts asks the server to stream transactions affecting the
// given accounts.
func (c *Client) SubscribeAccounts(ctx context.Context, accounts []string) error {
	_, err := c.Request(ctx, map[string]any{
		"command":  "subscribe",
		"accounts": accounts,
	})
	return err
}

func (c *Client) UnsubscribeAccounts(ctx context.Context, accounts []string) error {
	_, err := c.Request(ctx, map[string]any{
		"command":  "unsubscribe",
		"accounts": accounts,
	})
	return err
}

// Request issues one command and waits for the matching response. The
// payload must not contain an "id" key; the client owns id assignment.
func (c *Client) Request(ctx context.Context, payload map[string]any) (json.RawMessage, error) {
	id := c.nextID.Add(1)
	payload["id"] = id

	ch := make(chan pendingReply, 1)
	c.mu.Lock()
	c.pending[id] = ch
	c.mu.Unlock()

	c.writeMu.Lock()
	err := c.conn.WriteJSON(payload)
	c.writeMu.Unlock()
	if err != nil {
		c.dropPending(id)
		return nil, fmt.Errorf("write %v request: %w", payload["command"], err)
	}

	select {
	case reply := <-ch:
		return reply.result, reply.err
	case <-c.done:
		return nil, ErrClosed
	case <-ctx.Done():
		c.dropPending(id)
		return nil, ctx.Err()
	}
}

func (c *Client) dropPending(id uint64) {
	c.mu.Lock()
	delete(c.pending, id)
	c.mu.Unlock()
}

// envelope is the part of every server message needed for routing.
type envelope struct {
	ID           uint64          `json:"id"`
	Type         string          `json:"type"`
	Status       string          `json:"status"`
	Error        string          `json:"error"`
	ErrorMessage string          `json:"error_message"`
	Result       json.RawMessage `json:"result"`
}

func (c *Client) readLoop() {
	defer func() {
		c.mu.Lock()
		for id, ch := range c.pending {
			ch <- pendingReply{err: ErrClosed}
			delete(c.pending, id)
		}
		c.mu.Unlock()
		close(c.done)
	}()

	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			c.log.Debug("read loop ended", "err", err)
			return
		}

		var env envelope
		if err := json.Unmarshal(data, &env); err != nil {
			c.log.Warn("unparseable message from ledger", "err", err)
			continue
		}

		switch env.Type {
		case "response":
			c.resolve(env)
		case "transaction":
			c.dispatchTransaction(data)
		default:
			// ledgerClosed and friends: nothing to do at this layer.
		}
	}
}

func (c *Client) resolve(env envelope) {
	c.mu.Lock()
	ch, ok := c.pending[env.ID]
	delete(c.pending, env.ID)
	c.mu.Unlock()
	if !ok {
		c.log.Warn("response for unknown request id", "id", env.ID)
		return
	}

	if env.Status != "success" {
		ch <- pendingReply{err: &RequestError{Code: env.Error, Message: env.ErrorMessage}}
		return
	}
	ch <- pendingReply{result: env.Result}
}

func (c *Client) dispatchTransaction(data []byte) {
	c.mu.Lock()
	handler := c.handler
	c.mu.Unlock()
	if handler == nil {
		return
	}

	tx, err := xrpl.DecodeStreamTransaction(data)
	if err != nil {
		c.log.Warn("dropping undecodable transaction message", "err", err)
		return
	}
	handler(tx)
}
