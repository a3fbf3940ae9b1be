// Package oddsfeed consumes the bookmaker's websocket tick stream and
// derives the odds-movement signal fed into the draw adjustment.
package oddsfeed

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"
)

// StreamClient handles the WebSocket connection to the odds feed
type StreamClient struct {
	conn            *websocket.Conn
	apiKey          string
	streamURL       string
	mu              sync.RWMutex
	isConnected     bool
	handlers        []TickHandler
	reconnectConfig ReconnectConfig
	lastMessageTime time.Time
	logger          logrus.FieldLogger
}

// ReconnectConfig controls reconnection behavior
type ReconnectConfig struct {
	MaxRetries        int
	InitialBackoff    time.Duration
	MaxBackoff        time.Duration
	BackoffMultiplier float64
}

// TickHandler is called for every odds tick received from the stream
type TickHandler func(tick OddsTick) error

// OddsTick is one 1X2 quote update for a fixture
type OddsTick struct {
	FixtureKey string    `json:"fixture_key"`
	Home       string    `json:"home"`
	Draw       string    `json:"draw"`
	Away       string    `json:"away"`
	QuotedAt   time.Time `json:"quoted_at"`
}

// streamEnvelope wraps stream messages; heartbeats carry no tick.
type streamEnvelope struct {
	Op   string    `json:"op"`
	Tick *OddsTick `json:"tick,omitempty"`
}

// DefaultReconnectConfig returns default reconnection configuration
func DefaultReconnectConfig() ReconnectConfig {
	return ReconnectConfig{
		MaxRetries:        10,
		InitialBackoff:    1 * time.Second,
		MaxBackoff:        30 * time.Second,
		BackoffMultiplier: 1.5,
	}
}

// NewStreamClient creates a new stream client
func NewStreamClient(streamURL, apiKey string, logger logrus.FieldLogger) *StreamClient {
	return &StreamClient{
		apiKey:          apiKey,
		streamURL:       streamURL,
		handlers:        make([]TickHandler, 0),
		reconnectConfig: DefaultReconnectConfig(),
		logger:          logger,
	}
}

// Connect establishes the websocket connection and starts the read loop
func (s *StreamClient) Connect(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.isConnected {
		return fmt.Errorf("already connected")
	}

	s.logger.WithField("url", s.streamURL).Info("Connecting to odds stream")

	dialer := websocket.Dialer{
		HandshakeTimeout: 10 * time.Second,
	}

	conn, _, err := dialer.DialContext(ctx, s.streamURL, nil)
	if err != nil {
		return fmt.Errorf("failed to connect to odds stream: %w", err)
	}

	s.conn = conn
	s.isConnected = true
	s.lastMessageTime = time.Now()

	go s.readMessages()

	return nil
}

// Authenticate sends the authentication message
func (s *StreamClient) Authenticate(ctx context.Context) error {
	return s.sendMessage(map[string]interface{}{
		"op":      "auth",
		"api_key": s.apiKey,
	})
}

// Subscribe subscribes to tick updates for the given fixture keys
func (s *StreamClient) Subscribe(ctx context.Context, fixtureKeys []string) error {
	s.logger.WithField("fixtures", len(fixtureKeys)).Info("Subscribing to odds ticks")
	return s.sendMessage(map[string]interface{}{
		"op":           "subscribe",
		"fixture_keys": fixtureKeys,
		"heartbeat":    true,
	})
}

// AddHandler registers a tick handler
func (s *StreamClient) AddHandler(handler TickHandler) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.handlers = append(s.handlers, handler)
}

// readMessages reads messages from the websocket connection
func (s *StreamClient) readMessages() {
	defer s.Close()

	for {
		var raw json.RawMessage
		if err := s.conn.ReadJSON(&raw); err != nil {
			s.logger.WithError(err).Warn("Odds stream read failed")
			s.mu.Lock()
			s.isConnected = false
			s.mu.Unlock()
			return
		}

		s.mu.Lock()
		s.lastMessageTime = time.Now()
		s.mu.Unlock()

		var envelope streamEnvelope
		if err := json.Unmarshal(raw, &envelope); err != nil {
			s.logger.WithError(err).Warn("Dropping malformed stream message")
			continue
		}
		if envelope.Tick == nil {
			continue
		}

		s.mu.RLock()
		handlers := s.handlers
		s.mu.RUnlock()

		for _, handler := range handlers {
			if err := handler(*envelope.Tick); err != nil {
				s.logger.WithError(err).WithField("fixture_key", envelope.Tick.FixtureKey).
					Warn("Tick handler failed")
			}
		}
	}
}

// sendMessage sends a JSON message to the stream
func (s *StreamClient) sendMessage(msg interface{}) error {
	s.mu.RLock()
	if !s.isConnected || s.conn == nil {
		s.mu.RUnlock()
		return fmt.Errorf("not connected")
	}
	conn := s.conn
	s.mu.RUnlock()

	return conn.WriteJSON(msg)
}

// IsConnected returns whether the stream is connected
func (s *StreamClient) IsConnected() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.isConnected
}

// LastMessageTime returns the time of the last received message
func (s *StreamClient) LastMessageTime() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lastMessageTime
}

// Close closes the stream connection
func (s *StreamClient) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.conn == nil {
		return nil
	}

	s.isConnected = false
	return s.conn.Close()
}
