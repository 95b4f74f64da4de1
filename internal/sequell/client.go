// Crawlspeed - Dungeon Crawl Speedrun Statistics Sync
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/crawlspeed

package sequell

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"
	gobreaker "github.com/sony/gobreaker/v2"
	"golang.org/x/time/rate"

	"github.com/tomtom215/crawlspeed/internal/config"
	"github.com/tomtom215/crawlspeed/internal/logging"
	"github.com/tomtom215/crawlspeed/internal/metrics"
	"github.com/tomtom215/crawlspeed/internal/models"
)

var (
	// ErrNotConnected is returned by Send while the bridge websocket is down.
	ErrNotConnected = errors.New("sequell: not connected")

	// ErrQueueFull is returned when the outbound queue cannot take another message.
	ErrQueueFull = errors.New("sequell: outbound queue full")

	// ErrCircuitOpen is returned while repeated write failures keep the send breaker open.
	ErrCircuitOpen = errors.New("sequell: send circuit open")

	// ErrAlreadyRunning is returned by a second concurrent Run.
	ErrAlreadyRunning = errors.New("sequell: client already running")
)

const (
	defaultReconnectDelay    = 1 * time.Second
	defaultMaxReconnectDelay = 32 * time.Second
	closeGracePeriod         = 1 * time.Second
)

// Client is a websocket client for the Sequell bridge. Outbound messages are queued
// and written by a single writer goroutine, paced by a token bucket. Inbound result
// frames are fanned out to subscribers on the listener goroutine.
type Client struct {
	cfg config.SequellConfig

	// WebSocket connection
	conn   *websocket.Conn
	connMu sync.RWMutex

	outbound chan string
	limiter  *rate.Limiter
	breaker  *gobreaker.CircuitBreaker[struct{}]

	// Subscribers (protected by mutex)
	subMu     sync.RWMutex
	subs      map[uint64]func(models.SequellResult)
	nextSubID uint64

	// Lifecycle management
	running  atomic.Bool
	stopChan chan struct{}
	stopOnce sync.Once

	reconnectDelay    time.Duration
	maxReconnectDelay time.Duration
}

// NewClient creates a client for the bridge at cfg.URL. Call Run to connect.
func NewClient(cfg config.SequellConfig) *Client {
	queueSize := cfg.QueueSize
	if queueSize < 1 {
		queueSize = 1
	}
	burst := cfg.SendBurst
	if burst < 1 {
		burst = 1
	}

	return &Client{
		cfg:               cfg,
		outbound:          make(chan string, queueSize),
		limiter:           rate.NewLimiter(rate.Limit(cfg.SendRate), burst),
		breaker:           newSendBreaker(),
		subs:              make(map[uint64]func(models.SequellResult)),
		stopChan:          make(chan struct{}),
		reconnectDelay:    defaultReconnectDelay,
		maxReconnectDelay: defaultMaxReconnectDelay,
	}
}

// Subscribe registers fn for every result frame. fn runs on the listener goroutine
// and must not block. The returned function removes the subscription and is safe
// to call more than once.
func (c *Client) Subscribe(fn func(models.SequellResult)) (unsubscribe func()) {
	c.subMu.Lock()
	id := c.nextSubID
	c.nextSubID++
	c.subs[id] = fn
	c.subMu.Unlock()

	return func() {
		c.subMu.Lock()
		delete(c.subs, id)
		c.subMu.Unlock()
	}
}

// Send queues message for delivery to the bot. It does not wait for the write.
func (c *Client) Send(ctx context.Context, message string) error {
	if !c.IsConnected() {
		metrics.RecordSequellSendError("not_connected")
		return ErrNotConnected
	}
	if c.breaker.State() == gobreaker.StateOpen {
		metrics.RecordSequellSendError("circuit_open")
		return ErrCircuitOpen
	}

	select {
	case c.outbound <- message:
		metrics.SequellQueueDepth.Set(float64(len(c.outbound)))
		return nil
	case <-ctx.Done():
		return ctx.Err()
	default:
		metrics.RecordSequellSendError("queue_full")
		return ErrQueueFull
	}
}

// LG queues a structured !lg query.
func (c *Client) LG(ctx context.Context, q models.LgQuery) error {
	return c.Send(ctx, FormatLg(q))
}

// Log queues a !log morgue lookup.
func (c *Client) Log(ctx context.Context, q models.LogQuery) error {
	return c.Send(ctx, FormatLog(q))
}

// IsConnected returns true if the WebSocket is connected
func (c *Client) IsConnected() bool {
	c.connMu.RLock()
	defer c.connMu.RUnlock()
	return c.conn != nil
}

// Run connects to the bridge and keeps the connection alive until ctx is cancelled
// or Close is called. It reconnects with exponential backoff (1s doubling to 32s).
func (c *Client) Run(ctx context.Context) error {
	if !c.running.CompareAndSwap(false, true) {
		return ErrAlreadyRunning
	}
	defer c.running.Store(false)

	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	var wg sync.WaitGroup
	wg.Add(3)
	go func() {
		defer wg.Done()
		// Unblocks a pending ReadMessage in listen.
		select {
		case <-runCtx.Done():
		case <-c.stopChan:
		}
		c.closeConnection()
	}()
	go func() {
		defer wg.Done()
		c.writeLoop(runCtx)
	}()
	go func() {
		defer wg.Done()
		c.pingLoop(runCtx)
	}()

	c.listen(runCtx)

	cancel()
	c.closeConnection()
	wg.Wait()

	logging.Info().Msg("[sequell] Client stopped")
	return ctx.Err()
}

// Close stops Run. It is safe to call more than once.
func (c *Client) Close() error {
	c.stopOnce.Do(func() {
		close(c.stopChan)
	})
	c.closeConnection()
	return nil
}

// connect dials the bridge. The caller must not hold connMu.
func (c *Client) connect(ctx context.Context) error {
	dialer := websocket.Dialer{
		HandshakeTimeout:  c.cfg.HandshakeTimeout,
		EnableCompression: true,
	}

	conn, resp, err := dialer.DialContext(ctx, c.cfg.URL, nil)
	if resp != nil && resp.Body != nil {
		if cerr := resp.Body.Close(); cerr != nil {
			logging.Debug().Err(cerr).Msg("Failed to close handshake response body")
		}
	}
	if err != nil {
		if resp != nil {
			return fmt.Errorf("websocket dial failed (status %d): %w", resp.StatusCode, err)
		}
		return fmt.Errorf("websocket dial failed: %w", err)
	}

	readTimeout := c.cfg.ReadTimeout
	conn.SetPongHandler(func(string) error {
		if readTimeout > 0 {
			return conn.SetReadDeadline(time.Now().Add(readTimeout))
		}
		return nil
	})

	c.connMu.Lock()
	c.conn = conn
	c.connMu.Unlock()

	metrics.RecordSequellConnected(true)
	logging.Info().Str("url", c.cfg.URL).Msg("[sequell] Connected")
	return nil
}

func (c *Client) currentConn() *websocket.Conn {
	c.connMu.RLock()
	defer c.connMu.RUnlock()
	return c.conn
}

func (c *Client) stopped(ctx context.Context) bool {
	select {
	case <-ctx.Done():
		return true
	case <-c.stopChan:
		return true
	default:
		return false
	}
}

// listen processes incoming WebSocket messages and owns reconnection
func (c *Client) listen(ctx context.Context) {
	reconnectDelay := c.reconnectDelay
	maxReconnectDelay := c.maxReconnectDelay

	for !c.stopped(ctx) {
		conn := c.currentConn()

		if conn == nil {
			err := c.connect(ctx)
			if err == nil {
				reconnectDelay = c.reconnectDelay // Reset on success
				continue
			}
			if c.stopped(ctx) {
				return
			}

			metrics.SequellReconnects.Inc()
			logging.Warn().Err(err).Dur("delay", reconnectDelay).Msg("[sequell] Connect failed, retrying")
			select {
			case <-time.After(reconnectDelay):
			case <-ctx.Done():
				return
			case <-c.stopChan:
				return
			}
			reconnectDelay *= 2
			if reconnectDelay > maxReconnectDelay {
				reconnectDelay = maxReconnectDelay
			}
			continue
		}

		if c.cfg.ReadTimeout > 0 {
			if err := conn.SetReadDeadline(time.Now().Add(c.cfg.ReadTimeout)); err != nil {
				logging.Debug().Err(err).Msg("Failed to set read deadline")
			}
		}

		_, message, err := conn.ReadMessage()
		if err != nil {
			switch {
			case c.stopped(ctx):
				return
			case websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway):
				logging.Info().Msg("[sequell] Connection closed by bridge")
			default:
				logging.Warn().Err(err).Msg("[sequell] Read error")
			}
			c.closeConnection()
			continue
		}

		c.handleFrame(message)
	}
}

// handleFrame decodes one frame and delivers it to every subscriber.
func (c *Client) handleFrame(data []byte) {
	result, err := decodeResult(data)
	if err != nil {
		if errors.Is(err, errUnknownResultType) {
			metrics.RecordSequellResult("unknown")
		} else {
			metrics.RecordSequellResult("malformed")
		}
		logging.Warn().Err(err).Msg("[sequell] Dropping frame")
		return
	}

	metrics.RecordSequellResult(string(result.Type))

	c.subMu.RLock()
	handlers := make([]func(models.SequellResult), 0, len(c.subs))
	for _, fn := range c.subs {
		handlers = append(handlers, fn)
	}
	c.subMu.RUnlock()

	for _, fn := range handlers {
		fn(result)
	}
}

// writeLoop is the only goroutine that writes data frames to the connection.
func (c *Client) writeLoop(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case <-c.stopChan:
			return
		case message := <-c.outbound:
			metrics.SequellQueueDepth.Set(float64(len(c.outbound)))

			if err := c.limiter.Wait(ctx); err != nil {
				return
			}
			if err := c.write(message); err != nil {
				logging.Warn().Err(err).Str("message", message).Msg("[sequell] Message dropped")
			}
		}
	}
}

func (c *Client) write(message string) error {
	frame, err := encodeSend(message)
	if err != nil {
		return fmt.Errorf("encode frame: %w", err)
	}

	err = c.executeWrite(func() error {
		conn := c.currentConn()
		if conn == nil {
			return ErrNotConnected
		}
		if werr := conn.WriteMessage(websocket.TextMessage, frame); werr != nil {
			c.closeConnection()
			return werr
		}
		return nil
	})

	switch {
	case err == nil:
		metrics.SequellMessagesSent.Inc()
	case errors.Is(err, ErrNotConnected):
		metrics.RecordSequellSendError("not_connected")
	case errors.Is(err, ErrCircuitOpen):
		metrics.RecordSequellSendError("circuit_open")
	default:
		metrics.RecordSequellSendError("write")
	}
	return err
}

// pingLoop sends websocket pings so that dead connections are noticed by the read deadline.
func (c *Client) pingLoop(ctx context.Context) {
	interval := c.cfg.PingInterval
	if interval <= 0 {
		return
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-c.stopChan:
			return
		case <-ticker.C:
			conn := c.currentConn()
			if conn == nil {
				continue
			}
			// WriteControl may run concurrently with the writer goroutine.
			if err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(closeGracePeriod)); err != nil {
				logging.Warn().Err(err).Msg("[sequell] Ping failed")
				c.closeConnection()
			}
		}
	}
}

// closeConnection safely closes the WebSocket connection
func (c *Client) closeConnection() {
	c.connMu.Lock()
	defer c.connMu.Unlock()

	if c.conn == nil {
		return
	}

	if err := c.conn.WriteControl(
		websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
		time.Now().Add(closeGracePeriod),
	); err != nil {
		logging.Debug().Err(err).Msg("Failed to send close message")
	}

	if err := c.conn.Close(); err != nil {
		logging.Debug().Err(err).Msg("Failed to close connection")
	}
	c.conn = nil
	metrics.RecordSequellConnected(false)
}
