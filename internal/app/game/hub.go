/*
Package game contains the core logic for the card-elimination game server.

This file defines the Hub, the single owner of all process-wide game state: the
connection registry, the matchmaking queue, and the match table. Every inbound
action and every timer callback acquires the Hub mutex for its full duration, so
each multi-step validate-then-commit sequence executes as one indivisible unit.
*/
package game

import (
	"encoding/json"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"burnduel/internal/configs"
	"burnduel/internal/pkg/errs"
	"burnduel/internal/pkg/logx"
)

// Hub coordinates all connections, users, pending offers, and live matches.
type Hub struct {
	// mu serializes every action handler and timer callback.
	mu sync.Mutex

	// clients maps connection id to the live connection.
	clients map[string]*Client

	// users maps connection id to the player record created at login.
	users map[string]*User

	// offers is the ordered matchmaking queue of pending games.
	offers []*Offer

	// matches maps room id to the live or recently finished match.
	matches map[string]*Match

	// config holds the application's read-only configuration settings.
	config *configs.AppConfig

	// schedule creates the pacing and eviction timers. It is a field so tests
	// can drive delayed callbacks deterministically.
	schedule func(d time.Duration, f func()) *time.Timer

	// structured logger with Hub context.
	logger zerolog.Logger
}

// NewHub constructs and returns a new Hub instance.
func NewHub(cfg *configs.AppConfig) *Hub {
	hubLogger := logx.Logger().With().Str("component", "Hub").Logger()

	return &Hub{
		clients:  make(map[string]*Client),
		users:    make(map[string]*User),
		matches:  make(map[string]*Match),
		config:   cfg,
		schedule: time.AfterFunc,
		logger:   hubLogger,
	}
}

// Register adds a freshly upgraded connection to the registry.
// No user record exists until the connection sends a login action.
func (h *Hub) Register(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.clients[c.id] = c

	h.logger.Info().
		Str("conn_id", c.id).
		Int("total_connections", len(h.clients)).
		Msg("Connection registered.")
}

// Dispatch routes one decoded inbound envelope to its action handler.
// The whole handler runs under the Hub lock: no interleaving action can
// observe partially applied state.
func (h *Hub) Dispatch(c *Client, env Envelope) {
	h.mu.Lock()
	defer h.mu.Unlock()

	switch env.Type {
	case TypeLogin:
		var p LoginPayload
		if !h.decodePayload(c, env, &p) {
			return
		}
		h.handleLogin(c, p)

	case TypeGetBalance:
		h.handleGetBalance(c)

	case TypeListGames:
		h.handleListGames(c)

	case TypeCreateGame:
		var p CreateGamePayload
		if !h.decodePayload(c, env, &p) {
			return
		}
		h.handleCreateGame(c, p)

	case TypeJoinGame:
		var p JoinGamePayload
		if !h.decodePayload(c, env, &p) {
			return
		}
		h.handleJoinGame(c, p)

	case TypeCancelPending:
		h.handleCancelPending(c)

	case TypeMakeMove:
		var p MovePayload
		if !h.decodePayload(c, env, &p) {
			return
		}
		h.handleMakeMove(c, p)

	case TypeShuffleDeck:
		var p RoomPayload
		if !h.decodePayload(c, env, &p) {
			return
		}
		h.handleShuffle(c, p.Room)

	case TypeAcceptRevansh:
		var p RoomPayload
		if !h.decodePayload(c, env, &p) {
			return
		}
		h.handleAcceptRevansh(c, p.Room)

	default:
		h.logger.Warn().
			Str("conn_id", c.id).
			Str("msg_type", string(env.Type)).
			Msg("Connection sent unsupported action type.")
	}
}

// decodePayload unmarshals the envelope payload into dst.
// Malformed payloads are dropped silently at the boundary.
func (h *Hub) decodePayload(c *Client, env Envelope, dst any) bool {
	if err := json.Unmarshal(env.Payload, dst); err != nil {
		h.logger.Warn().
			Str("conn_id", c.id).
			Str("msg_type", string(env.Type)).
			Err(err).
			Msg("Connection sent invalid action payload.")
		return false
	}
	return true
}

// handleLogin (re)initializes the user record for the connection with the
// configured starting balance. Calling it twice on the same connection
// discards the prior record, balance included.
func (h *Hub) handleLogin(c *Client, p LoginPayload) {
	name := strings.TrimSpace(p.Name)
	if name == "" {
		h.logger.Warn().Str("conn_id", c.id).Msg("Login rejected: empty display name.")
		return
	}

	h.users[c.id] = &User{
		Name:    name,
		Balance: h.config.StartingBalance,
	}

	h.logger.Info().
		Str("conn_id", c.id).
		Str("name", name).
		Int("balance", h.config.StartingBalance).
		Msg("User logged in.")

	h.sendEvent(c, TypeBalance, BalancePayload{Balance: h.config.StartingBalance})
	h.sendEvent(c, TypeLobby, nil)
}

// handleGetBalance echoes the caller's current balance; no-op without a user record.
func (h *Hub) handleGetBalance(c *Client) {
	user, ok := h.users[c.id]
	if !ok {
		return
	}

	h.sendEvent(c, TypeBalance, BalancePayload{Balance: user.Balance})
}

// Disconnect removes a connection and its user record, cancels the user's
// open offers, and forfeits any live match to the remaining player.
func (h *Hub) Disconnect(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if _, ok := h.clients[c.id]; !ok {
		return
	}
	delete(h.clients, c.id)

	h.removeOffersByCreator(c.id)

	if m := h.matchByParticipant(c.id); m != nil {
		h.handleParticipantLeft(m, c.id)
	}

	delete(h.users, c.id)

	h.logger.Info().
		Str("conn_id", c.id).
		Int("total_connections", len(h.clients)).
		Msg("Connection removed.")
}

// Shutdown stops all match timers and closes every client send queue.
func (h *Hub) Shutdown() {
	h.mu.Lock()
	defer h.mu.Unlock()

	for _, m := range h.matches {
		m.stopTimers()
	}
	h.matches = make(map[string]*Match)
	h.offers = nil

	for _, c := range h.clients {
		c.closeSend()
	}
	h.clients = make(map[string]*Client)
	h.users = make(map[string]*User)

	h.logger.Info().Msg("Hub shutdown complete.")
}

// sendError delivers a user-facing error message for a matchmaking rejection.
func (h *Hub) sendError(c *Client, code int) {
	customErr := errs.NewError(code)
	h.sendEvent(c, TypeErrorMsg, ErrorPayload{Msg: customErr.Message})
}

// sendEvent marshals and queues one event for a single connection.
func (h *Hub) sendEvent(c *Client, msgType MessageType, payload any) {
	if c == nil {
		return
	}

	data, err := newMessage(msgType, payload)
	if err != nil {
		h.logger.Error().
			Str("msg_type", string(msgType)).
			Err(err).
			Msg("Failed to marshal outbound event.")
		return
	}

	c.enqueue(data)
}

// broadcastAll queues one event for every live connection.
func (h *Hub) broadcastAll(msgType MessageType, payload any) {
	data, err := newMessage(msgType, payload)
	if err != nil {
		h.logger.Error().
			Str("msg_type", string(msgType)).
			Err(err).
			Msg("Failed to marshal broadcast event.")
		return
	}

	for _, c := range h.clients {
		c.enqueue(data)
	}
}

// broadcastMatch queues one event for both participants of a match.
func (h *Hub) broadcastMatch(m *Match, msgType MessageType, payload any) {
	data, err := newMessage(msgType, payload)
	if err != nil {
		h.logger.Error().
			Str("room_id", m.roomID).
			Str("msg_type", string(msgType)).
			Err(err).
			Msg("Failed to marshal room event.")
		return
	}

	for _, c := range m.clients {
		if c != nil {
			c.enqueue(data)
		}
	}
}

// matchByParticipant returns the match one of whose participants is the given
// connection, or nil. The match table is small: a linear scan is fine.
func (h *Hub) matchByParticipant(connID string) *Match {
	for _, m := range h.matches {
		if m.playerIndex(connID) >= 0 {
			return m
		}
	}
	return nil
}
