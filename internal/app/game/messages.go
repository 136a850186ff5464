/*
Package game contains the core logic for the card-elimination game server: the connection
registry, the matchmaking lobby, the per-room match engine, and the rematch protocol.

This file defines the closed, tagged set of message variants exchanged with clients.
Inbound actions and outbound events share one envelope shape: a type tag plus a
type-specific JSON payload, validated at the boundary before reaching the engine.
*/
package game

import "encoding/json"

// MessageType identifies one variant of the client/server wire protocol.
type MessageType string

// Inbound action types sent by clients.
const (
	TypeLogin         MessageType = "login"
	TypeGetBalance    MessageType = "get_balance"
	TypeListGames     MessageType = "list_games"
	TypeCreateGame    MessageType = "create_game"
	TypeJoinGame      MessageType = "join_game"
	TypeCancelPending MessageType = "cancel_pending_game"
	TypeMakeMove      MessageType = "make_move"
	TypeShuffleDeck   MessageType = "shuffle_deck"
	TypeAcceptRevansh MessageType = "accept_revansh"
)

// Outbound event types sent by the server.
const (
	TypeBalance      MessageType = "balance"
	TypeLobby        MessageType = "lobby"
	TypeErrorMsg     MessageType = "error_msg"
	TypePendingGames MessageType = "pending_games"
	TypeStartGame    MessageType = "start_game"
	TypeCardOpened   MessageType = "card_opened"
	TypeTurn         MessageType = "turn"
	TypeRoundOver    MessageType = "round_over"
	TypeNewRound     MessageType = "new_round"
	TypeGameOver     MessageType = "game_over"
	TypeDeckShuffled MessageType = "deck_shuffled"
	TypeRevanshOffer MessageType = "revansh_offer"
	TypeOpponentLeft MessageType = "opponent_left"
)

// Envelope is the wire representation of every message in both directions.
type Envelope struct {
	Type    MessageType     `json:"type"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// newMessage marshals an outbound event into its wire bytes.
func newMessage(msgType MessageType, payload any) ([]byte, error) {
	var raw json.RawMessage

	if payload != nil {
		bytes, err := json.Marshal(payload)
		if err != nil {
			return nil, err
		}
		raw = bytes
	}

	return json.Marshal(Envelope{Type: msgType, Payload: raw})
}

// --- Inbound payloads ---

// LoginPayload carries the self-asserted display name for a connection.
type LoginPayload struct {
	Name string `json:"name"`
}

// CreateGamePayload carries the stake and round count for a new offer.
type CreateGamePayload struct {
	Bet    int `json:"bet"`
	Rounds int `json:"rounds"`
}

// JoinGamePayload references the pending game offer to claim.
type JoinGamePayload struct {
	ID string `json:"id"`
}

// MovePayload identifies the match room and the deck slot to open.
type MovePayload struct {
	Room      string `json:"room"`
	CardIndex int    `json:"cardIndex"`
}

// RoomPayload references a match room, used by shuffle and rematch actions.
type RoomPayload struct {
	Room string `json:"room"`
}

// --- Outbound payloads ---

// BalancePayload reports the caller's current chip balance.
type BalancePayload struct {
	Balance int `json:"balance"`
}

// ErrorPayload carries a user-facing error message for matchmaking rejections.
type ErrorPayload struct {
	Msg string `json:"msg"`
}

// OfferInfo is the public view of one pending game in the matchmaking queue.
type OfferInfo struct {
	ID          string `json:"id"`
	CreatorID   string `json:"creatorId"`
	CreatorName string `json:"creatorName"`
	Bet         int    `json:"bet"`
	Rounds      int    `json:"rounds"`
}

// StartGamePayload is the full initial match snapshot sent to both participants,
// both at match creation and at a rematch restart.
type StartGamePayload struct {
	Room          string    `json:"room"`
	Players       [2]string `json:"players"`
	Bet           int       `json:"bet"`
	Rounds        int       `json:"rounds"`
	Connections   [2]string `json:"sockets"`
	CurrentTurnID string    `json:"currentTurnId"`
	ShuffleUsed   [2]bool   `json:"shuffleUsed"`
	RoundWins     [2]int    `json:"roundWins"`
	CurrentRound  int       `json:"currentRound"`
}

// CardOpenedPayload announces which slot was opened, by whom, and the outcome.
type CardOpenedPayload struct {
	CardIndex int    `json:"cardIndex"`
	By        string `json:"by"`
	Value     string `json:"value"`
}

// TurnPayload activates the current turn holder and reports shuffle availability.
type TurnPayload struct {
	CurrentTurnID string  `json:"currentTurnId"`
	ShuffleUsed   [2]bool `json:"shuffleUsed"`
}

// RoundOverPayload announces the winner of one round and the updated tally.
type RoundOverPayload struct {
	Round     int    `json:"round"`
	Winner    string `json:"winner"`
	RoundWins [2]int `json:"roundWins"`
}

// NewRoundPayload announces the next round and its first turn holder.
type NewRoundPayload struct {
	Round         int    `json:"round"`
	CurrentTurnID string `json:"currentTurnId"`
	RoundWins     [2]int `json:"roundWins"`
}

// GameOverPayload announces the match winner and the final tally.
type GameOverPayload struct {
	MatchWinner string `json:"matchWinner"`
	RoundWins   [2]int `json:"roundWins"`
}

// DeckShuffledPayload announces a shuffle use and the updated availability flags.
type DeckShuffledPayload struct {
	By          string  `json:"by"`
	ShuffleUsed [2]bool `json:"shuffleUsed"`
}

// RevanshOfferPayload proposes a double-or-nothing rematch at the doubled stake.
type RevanshOfferPayload struct {
	NextBet int `json:"nextBet"`
}

// OpponentLeftPayload notifies the remaining player that the opponent disconnected.
type OpponentLeftPayload struct {
	Name string `json:"name"`
}
