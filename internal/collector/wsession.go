package collector

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/url"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

// WSConfig holds configuration for the WebSocket market-data session.
type WSConfig struct {
	// URL of the candle stream server, e.g. "wss://feed.example.com/echo"
	URL string

	// DialTimeout bounds the initial connection attempt. Defaults to 15s.
	DialTimeout time.Duration

	// ReconnectDelay is the initial delay before reconnection attempts.
	// Defaults to 2 seconds if zero.
	ReconnectDelay time.Duration

	// MaxReconnectDelay caps the exponential backoff. Defaults to 30s.
	MaxReconnectDelay time.Duration
}

func (c *WSConfig) defaults() {
	if c.DialTimeout == 0 {
		c.DialTimeout = 15 * time.Second
	}
	if c.ReconnectDelay == 0 {
		c.ReconnectDelay = 2 * time.Second
	}
	if c.MaxReconnectDelay == 0 {
		c.MaxReconnectDelay = 30 * time.Second
	}
}

// candleFrame is one inbound message: the accumulated candle buffer for a
// subscribed (instrument, timeframe).
type candleFrame struct {
	Name       string      `json:"name"`
	Instrument string      `json:"instrument"`
	TF         int         `json:"tf"`
	Candles    []RawCandle `json:"candles"`
}

// subscribeMsg is the outbound start/stop control message.
type subscribeMsg struct {
	Name       string `json:"name"`
	Instrument string `json:"instrument"`
	TF         int    `json:"tf"`
	Count      int    `json:"count,omitempty"`
}

// WSSession implements Session over a JSON WebSocket candle feed. Inbound
// frames replace the buffer for their stream; ReadCandles returns a copy.
// Reconnects automatically with capped exponential backoff.
type WSSession struct {
	cfg WSConfig

	mu        sync.Mutex
	conn      *websocket.Conn
	buffers   map[string][]RawCandle
	connected bool

	cancel context.CancelFunc
}

// NewWSSession creates a session. Returns an error if the URL is unparseable.
func NewWSSession(cfg WSConfig) (*WSSession, error) {
	cfg.defaults()
	if _, err := url.Parse(cfg.URL); err != nil {
		return nil, fmt.Errorf("parse stream url: %w", err)
	}
	return &WSSession{cfg: cfg, buffers: make(map[string][]RawCandle)}, nil
}

// Connect dials the feed and starts the read loop. Blocks only for the
// initial dial; the read loop runs until Close.
func (s *WSSession) Connect(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	s.cancel = cancel

	if err := s.dial(ctx); err != nil {
		cancel()
		return err
	}
	go s.readLoop(ctx)
	return nil
}

func (s *WSSession) dial(ctx context.Context) error {
	dialCtx, cancel := context.WithTimeout(ctx, s.cfg.DialTimeout)
	defer cancel()

	conn, _, err := websocket.DefaultDialer.DialContext(dialCtx, s.cfg.URL, nil)
	if err != nil {
		return fmt.Errorf("dial %s: %w", s.cfg.URL, err)
	}

	s.mu.Lock()
	s.conn = conn
	s.connected = true
	s.mu.Unlock()
	return nil
}

func (s *WSSession) readLoop(ctx context.Context) {
	delay := s.cfg.ReconnectDelay

	for {
		err := s.readOnce(ctx)
		if err == nil {
			return // closed cleanly
		}

		s.mu.Lock()
		s.connected = false
		s.mu.Unlock()

		log.Printf("[WARN] candle feed disconnected (%v), reconnecting in %s", err, delay)
		select {
		case <-ctx.Done():
			return
		case <-time.After(delay):
		}
		delay *= 2
		if delay > s.cfg.MaxReconnectDelay {
			delay = s.cfg.MaxReconnectDelay
		}

		if err := s.dial(ctx); err != nil {
			log.Printf("[WARN] candle feed redial failed: %v", err)
			continue
		}
		delay = s.cfg.ReconnectDelay
	}
}

func (s *WSSession) readOnce(ctx context.Context) error {
	s.mu.Lock()
	conn := s.conn
	s.mu.Unlock()

	for {
		select {
		case <-ctx.Done():
			return nil
		default:
		}

		_, data, err := conn.ReadMessage()
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return err
		}

		var frame candleFrame
		if err := json.Unmarshal(data, &frame); err != nil {
			log.Printf("[WARN] candle feed: malformed frame: %v", err)
			continue
		}
		if frame.Name != "candles" {
			continue
		}

		s.mu.Lock()
		s.buffers[streamKey(frame.Instrument, frame.TF)] = frame.Candles
		s.mu.Unlock()
	}
}

func (s *WSSession) send(msg subscribeMsg) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.conn == nil || !s.connected {
		return ErrNotConnected
	}
	return s.conn.WriteJSON(msg)
}

// StartStream subscribes to a candle buffer and clears any stale data.
func (s *WSSession) StartStream(instrument string, tfSeconds, count int) error {
	s.mu.Lock()
	delete(s.buffers, streamKey(instrument, tfSeconds))
	s.mu.Unlock()
	return s.send(subscribeMsg{Name: "start-candles", Instrument: instrument, TF: tfSeconds, Count: count})
}

// ReadCandles returns a copy of the accumulated buffer for one stream.
func (s *WSSession) ReadCandles(instrument string, tfSeconds int) []RawCandle {
	s.mu.Lock()
	defer s.mu.Unlock()
	buf := s.buffers[streamKey(instrument, tfSeconds)]
	out := make([]RawCandle, len(buf))
	copy(out, buf)
	return out
}

// StopStream unsubscribes and drops the buffer.
func (s *WSSession) StopStream(instrument string, tfSeconds int) error {
	err := s.send(subscribeMsg{Name: "stop-candles", Instrument: instrument, TF: tfSeconds})
	s.mu.Lock()
	delete(s.buffers, streamKey(instrument, tfSeconds))
	s.mu.Unlock()
	return err
}

// Connected reports whether the feed link is currently up.
func (s *WSSession) Connected() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.connected
}

// Close tears the session down.
func (s *WSSession) Close() {
	if s.cancel != nil {
		s.cancel()
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.conn != nil {
		s.conn.Close()
		s.conn = nil
	}
	s.connected = false
}
