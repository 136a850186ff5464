/*
Package game contains the core logic for the card-elimination game server.

This file defines the Client struct, representing an active WebSocket connection.
It manages the connection's lifecycle and message communication loops (ReadPump and
WritePump) and hands decoded actions to the Hub for serialized processing.
*/
package game

import (
	"encoding/json"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
	"golang.org/x/time/rate"

	"burnduel/internal/pkg/logx"
	"burnduel/internal/pkg/randx"
)

const (
	// timeout duration for writing to the WebSocket connection.
	writeWait = 10 * time.Second

	// maximum time allowed for the server to wait for a Pong message from the client.
	pongWait = 60 * time.Second

	// frequency at which the server sends a Ping message.
	pingPeriod = (pongWait * 9) / 10

	// maximum allowed size (in bytes) of a message sent by the client.
	maxMessageSize = 4096

	// per-connection inbound action budget. Actions over budget are dropped.
	actionRate  = 10
	actionBurst = 20
)

// Client struct represents an active WebSocket connection.
type Client struct {
	// id is the server-assigned connection identifier.
	id string

	// hub processes every decoded action this connection sends.
	hub *Hub

	// underlying WebSocket connection object.
	conn *websocket.Conn

	// a buffered channel used to queue messages waiting to be sent to the client.
	send chan []byte

	// actions throttles the inbound action rate for this connection.
	actions *rate.Limiter

	// structured logger with client context.
	logger zerolog.Logger
}

// NewClient constructs and returns a new Client instance with a fresh connection id.
func NewClient(hub *Hub, wsConn *websocket.Conn) *Client {
	connID := randx.ConnectionID()

	clientLogger := logx.Logger().With().
		Str("conn_id", connID).
		Logger()

	return &Client{
		id:      connID,
		hub:     hub,
		conn:    wsConn,
		send:    make(chan []byte, 256),
		actions: rate.NewLimiter(actionRate, actionBurst),
		logger:  clientLogger,
	}
}

// ID returns the server-assigned connection identifier.
func (c *Client) ID() string {
	return c.id
}

// ReadPump handles reading messages from the WebSocket connection.
// It handles heartbeats (Pong), envelope parsing, and performs cleanup upon connection closure.
func (c *Client) ReadPump() {
	defer c.cleanupOnDisconnect()

	c.conn.SetReadLimit(maxMessageSize)

	if err := c.conn.SetReadDeadline(time.Now().Add(pongWait)); err != nil {
		c.logger.Error().Err(err).Msg("Failed to set read deadline")
		return
	}

	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, messageBytes, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				c.logger.Info().Err(err).Msg("Error reading message (Client close/going away)")
			}
			break
		}

		if !c.actions.Allow() {
			c.logger.Warn().Msg("Client exceeded action rate budget, dropping message.")
			continue
		}

		c.processInboundMessage(messageBytes)
	}
}

// cleanupOnDisconnect handles the necessary cleanup steps when the client's ReadPump terminates.
func (c *Client) cleanupOnDisconnect() {
	c.logger.Info().Msg("Client connection cleanup starting.")

	c.hub.Disconnect(c)

	if err := c.conn.Close(); err != nil {
		c.logger.Error().Err(err).Msg("Client connection close error")
	}
}

// processInboundMessage decodes a raw byte message into the action envelope
// and dispatches it. Invalid JSON is dropped at the boundary.
func (c *Client) processInboundMessage(messageBytes []byte) {
	var env Envelope
	if err := json.Unmarshal(messageBytes, &env); err != nil {
		c.logger.Warn().Err(err).
			Bytes("message_bytes", messageBytes).
			Msg("Client sent invalid JSON")
		return
	}

	c.hub.Dispatch(c, env)
}

// enqueue attempts to queue wire bytes for delivery to the client.
// The send never blocks: a full queue drops the message with a warning.
func (c *Client) enqueue(data []byte) {
	select {
	case c.send <- data:
	default:
		c.logger.Warn().Int("queue_len", len(c.send)).Msg("Client send channel full, dropping message")
	}
}

// closeSend closes the send channel, terminating WritePump.
func (c *Client) closeSend() {
	select {
	case <-c.send:
	default:
		close(c.send)
	}
}

// WritePump handles writing messages from the Client.send channel to the WebSocket connection.
func (c *Client) WritePump() {
	ticker := time.NewTicker(pingPeriod)

	defer func() {
		ticker.Stop()

		// ensure the connection is closed on exit
		if err := c.conn.Close(); err != nil {
			c.logger.Error().Err(err).Msg("Client connection close error in WritePump")
		}
	}()

	for {
		select {
		case message, ok := <-c.send:
			if !c.writeQueuedMessage(message, ok) {
				return
			}

		case <-ticker.C:
			if !c.writePingMessage() {
				return
			}
		}
	}
}

// writeQueuedMessage handles messages pulled from the send channel, writing them to the WebSocket.
// Returns true if the WritePump loop should continue, false if it should terminate.
func (c *Client) writeQueuedMessage(message []byte, ok bool) bool {
	if err := c.conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
		c.logger.Error().Err(err).Msg("Failed to set write deadline")
		return false
	}

	if !ok {
		if err := c.conn.WriteMessage(websocket.CloseMessage, []byte{}); err != nil {
			c.logger.Error().Err(err).Msg("Error writing close message")
		}
		return false
	}

	if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
		c.logger.Error().Err(err).Msg("Error writing message")
		return false
	}

	return true
}

// writePingMessage sends a periodic WebSocket Ping message to maintain the connection heartbeat.
// Returns false if the WritePump loop should terminate due to write failure.
func (c *Client) writePingMessage() bool {
	if err := c.conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
		c.logger.Error().Err(err).Msg("Failed to set write deadline on ping")
		return false
	}

	if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
		c.logger.Error().Err(err).Msg("Error writing ping")
		return false
	}

	return true
}
