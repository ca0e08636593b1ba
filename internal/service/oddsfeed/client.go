package oddsfeed

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"PacePulse/internal/domain/models"
	domrepo "PacePulse/internal/domain/repository"
	applogger "PacePulse/pkg/logger"

	"github.com/gorilla/websocket"
)

// Client implements a LineStream backed by the odds feed WebSocket.
type Client struct {
	apiKey         string
	websocketURL   string
	games          []string
	reconnectDelay time.Duration
	pingInterval   time.Duration
	logger         *applogger.Logger

	conn      *websocket.Conn
	connected bool
}

// New creates a new odds feed LineStream.
func New(apiKey, websocketURL string, games []string, reconnectDelay, pingInterval time.Duration, logger *applogger.Logger) domrepo.LineStream {
	return &Client{
		apiKey:         apiKey,
		websocketURL:   websocketURL,
		games:          games,
		reconnectDelay: reconnectDelay,
		pingInterval:   pingInterval,
		logger:         logger,
	}
}

// Connect establishes the WebSocket connection.
func (c *Client) Connect(ctx context.Context) error {
	u := fmt.Sprintf("%s?token=%s", c.websocketURL, c.apiKey)
	conn, _, err := websocket.DefaultDialer.DialContext(ctx, u, nil)
	if err != nil {
		return fmt.Errorf("odds feed connect: %w", err)
	}
	c.conn = conn
	c.connected = true
	c.logInfo("odds feed connected")
	return nil
}

// Subscribe subscribes to the configured games.
func (c *Client) Subscribe(ctx context.Context) error {
	if c.conn == nil || !c.connected {
		return fmt.Errorf("odds feed not connected")
	}
	for _, g := range c.games {
		msg := map[string]string{"type": "subscribe", "gameId": g}
		if err := c.conn.WriteJSON(msg); err != nil {
			return fmt.Errorf("subscribe %s: %w", g, err)
		}
		c.logInfo("odds feed subscribed", applogger.String("game_id", g))
	}
	return nil
}

type feedLine struct {
	GameID       string          `json:"gameId"`
	Total        float64         `json:"total"`
	RateOfChange string          `json:"rateOfChange"`
	T            int64           `json:"t"` // ms
	LiveBox      *models.LiveBox `json:"liveBox"`
}

type feedMessage struct {
	Type string     `json:"type"`
	Data []feedLine `json:"data"`
}

// Read streams LineTick events and errors.
func (c *Client) Read(ctx context.Context) (<-chan *models.LineTick, <-chan error) {
	ticks := make(chan *models.LineTick, 1024)
	errs := make(chan error, 1)

	// ping loop
	go func() {
		ticker := time.NewTicker(c.pingInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if c.conn != nil {
					_ = c.conn.WriteMessage(websocket.PingMessage, nil)
				}
			}
		}
	}()

	// read loop
	go func() {
		defer close(ticks)
		defer close(errs)
		for {
			select {
			case <-ctx.Done():
				return
			default:
				if c.conn == nil {
					errs <- fmt.Errorf("odds feed conn nil")
					return
				}
				_, b, err := c.conn.ReadMessage()
				if err != nil {
					errs <- fmt.Errorf("odds feed read: %w", err)
					return
				}
				var m feedMessage
				if err := json.Unmarshal(b, &m); err != nil {
					// ignore non-line frames
					continue
				}
				if m.Type != "line" {
					continue
				}
				for _, d := range m.Data {
					tick := &models.LineTick{
						GameID:       d.GameID,
						Total:        d.Total,
						RateOfChange: d.RateOfChange,
						Timestamp:    time.UnixMilli(d.T).UTC(),
						LiveBox:      d.LiveBox,
					}
					select {
					case ticks <- tick:
					default:
						// drop on backpressure
					}
				}
			}
		}
	}()

	return ticks, errs
}

// Reconnect closes and reconnects.
func (c *Client) Reconnect(ctx context.Context) error {
	_ = c.Close()
	time.Sleep(c.reconnectDelay)
	if err := c.Connect(ctx); err != nil {
		return err
	}
	return c.Subscribe(ctx)
}

// Close closes the WS connection.
func (c *Client) Close() error {
	c.connected = false
	if c.conn != nil {
		return c.conn.Close()
	}
	return nil
}

// IsConnected indicates status.
func (c *Client) IsConnected() bool { return c.connected }

func (c *Client) logInfo(msg string, fields ...applogger.Field) {
	if c.logger != nil {
		c.logger.Info(msg, fields...)
	}
}
