/*
Package game contains the core logic for the card-elimination game server.

This file implements the per-room match engine: deck state, turn arbitration,
round scoring, match completion, payout, and the pacing and eviction timers.
All mutation happens under the Hub lock; the fixed pacing delays only defer
outbound notifications, never the state commits that gate later validation.
*/
package game

import (
	"math/rand/v2"
	"time"

	"burnduel/internal/pkg/randx"
)

// MatchStatus is the lifecycle state of a match.
type MatchStatus string

const (
	// StatusPlaying marks a match with rounds still being contested.
	StatusPlaying MatchStatus = "playing"

	// StatusFinished marks a decided match awaiting rematch or eviction.
	StatusFinished MatchStatus = "finished"
)

// Match is a live two-player game room. Participant slots are ordered and
// fixed for the match's lifetime: index 0 is the offer creator, index 1 the
// joiner. Invariants: the deck always holds exactly one burn card, the
// round-win counters never exceed the target round count, and currentTurn
// always identifies one of the two participants.
type Match struct {
	roomID  string
	players [2]string
	clients [2]*Client

	stake        int
	rounds       int
	currentRound int
	roundWins    [2]int
	currentTurn  int

	deck        [DeckSize]Card
	opened      [DeckSize]int
	shuffleUsed [2]bool

	status      MatchStatus
	winnerIndex int

	// resolving gates the window between a burn reveal and the next deal.
	resolving bool

	// concluded gates late actions during the post-match payout delay. It is
	// distinct from status so a rematch can clear it when play resumes.
	concluded bool

	rematchAccepted [2]bool

	// pacingTimer defers the round-advance or lobby-return notification.
	pacingTimer *time.Timer

	// evictTimer removes a finished match once the rematch window closes.
	evictTimer *time.Timer
}

// winsNeeded returns the round-win count that decides a match of the given
// length. Ties are structurally impossible because the length is odd.
func winsNeeded(rounds int) int {
	return rounds/2 + 1
}

// decided reports whether the tally ends the match.
func (m *Match) decided() bool {
	need := winsNeeded(m.rounds)
	return m.roundWins[0] == need || m.roundWins[1] == need ||
		m.roundWins[0]+m.roundWins[1] == m.rounds
}

// leaderIndex returns the participant with the higher round-win count.
func (m *Match) leaderIndex() int {
	if m.roundWins[0] >= m.roundWins[1] {
		return 0
	}
	return 1
}

// playerIndex returns the participant slot of the given connection, or -1.
func (m *Match) playerIndex(connID string) int {
	for i, c := range m.clients {
		if c != nil && c.id == connID {
			return i
		}
	}
	return -1
}

// stopTimers cancels any scheduled pacing or eviction callback.
func (m *Match) stopTimers() {
	if m.pacingTimer != nil {
		m.pacingTimer.Stop()
		m.pacingTimer = nil
	}
	if m.evictTimer != nil {
		m.evictTimer.Stop()
		m.evictTimer = nil
	}
}

// dealRound resets the per-round state: fresh deck with a new uniformly
// random burn position, cleared opened-slots, and both shuffles restored.
func (m *Match) dealRound() {
	m.deck = dealDeck()
	m.opened = clearedSlots()
	m.shuffleUsed = [2]bool{}
}

// newMatch constructs the match a claimed offer becomes. The first turn
// holder is chosen uniformly at random.
func (h *Hub) newMatch(offer *Offer, creator, joiner *Client, creatorName, joinerName string) *Match {
	m := &Match{
		roomID:       randx.RoomID(offer.ID),
		players:      [2]string{creatorName, joinerName},
		clients:      [2]*Client{creator, joiner},
		stake:        offer.Stake,
		rounds:       offer.Rounds,
		currentRound: 1,
		currentTurn:  rand.IntN(2),
		status:       StatusPlaying,
		winnerIndex:  -1,
	}
	m.dealRound()
	return m
}

// sendMatchStart delivers the full initial state snapshot to both
// participants, used both at match creation and at a rematch restart.
func (h *Hub) sendMatchStart(m *Match) {
	payload := StartGamePayload{
		Room:          m.roomID,
		Players:       m.players,
		Bet:           m.stake,
		Rounds:        m.rounds,
		Connections:   [2]string{m.clients[0].id, m.clients[1].id},
		CurrentTurnID: m.clients[m.currentTurn].id,
		ShuffleUsed:   m.shuffleUsed,
		RoundWins:     m.roundWins,
		CurrentRound:  m.currentRound,
	}

	for _, c := range m.clients {
		h.sendEvent(c, TypeStartGame, payload)
	}
}

// handleMakeMove opens one deck slot for the current turn holder.
// Out-of-turn, out-of-phase, or already-opened targets are silent no-ops.
func (h *Hub) handleMakeMove(c *Client, p MovePayload) {
	m, ok := h.matches[p.Room]
	if !ok || m.status != StatusPlaying || m.concluded || m.resolving {
		return
	}

	idx := m.playerIndex(c.id)
	if idx == -1 || idx != m.currentTurn {
		return
	}
	if p.CardIndex < 0 || p.CardIndex >= DeckSize {
		return
	}
	if m.opened[p.CardIndex] != slotUnopened {
		return
	}

	m.opened[p.CardIndex] = idx
	card := m.deck[p.CardIndex]

	h.broadcastMatch(m, TypeCardOpened, CardOpenedPayload{
		CardIndex: p.CardIndex,
		By:        m.players[idx],
		Value:     card.wireValue(),
	})

	if card != CardBurn {
		m.currentTurn = 1 - m.currentTurn
		h.broadcastMatch(m, TypeTurn, TurnPayload{
			CurrentTurnID: m.clients[m.currentTurn].id,
			ShuffleUsed:   m.shuffleUsed,
		})
		return
	}

	// Burn: the acting player loses the round.
	winner := 1 - idx
	m.roundWins[winner]++

	h.logger.Info().
		Str("room_id", m.roomID).
		Int("round", m.currentRound).
		Str("round_winner", m.players[winner]).
		Msg("Round resolved.")

	h.broadcastMatch(m, TypeRoundOver, RoundOverPayload{
		Round:     m.currentRound,
		Winner:    m.players[winner],
		RoundWins: m.roundWins,
	})

	if m.decided() {
		h.concludeMatch(m)
		return
	}

	// The pacing delay defers only the next-round notification; the tally
	// above is already committed, and resolving rejects moves meanwhile.
	m.resolving = true
	roomID := m.roomID
	m.pacingTimer = h.schedule(h.config.RoundDelay, func() {
		h.advanceRound(roomID)
	})
}

// advanceRound starts the next round after the pacing delay. The first turn
// of the new round belongs to the winner of the resolved one.
func (h *Hub) advanceRound(roomID string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	m, ok := h.matches[roomID]
	if !ok || m.status != StatusPlaying || m.concluded || !m.resolving {
		return
	}

	m.resolving = false
	m.pacingTimer = nil
	m.currentRound++
	m.dealRound()
	m.currentTurn = 1 - m.currentTurn

	h.broadcastMatch(m, TypeNewRound, NewRoundPayload{
		Round:         m.currentRound,
		CurrentTurnID: m.clients[m.currentTurn].id,
		RoundWins:     m.roundWins,
	})
	h.broadcastMatch(m, TypeTurn, TurnPayload{
		CurrentTurnID: m.clients[m.currentTurn].id,
		ShuffleUsed:   m.shuffleUsed,
	})
}

// concludeMatch settles a decided match: payout to the winner, busy flags
// cleared, result broadcast, rematch offer when both can afford the doubled
// stake, then the paced lobby return and the eviction window.
func (h *Hub) concludeMatch(m *Match) {
	m.status = StatusFinished
	m.concluded = true
	m.winnerIndex = m.leaderIndex()

	winnerClient := m.clients[m.winnerIndex]
	if winner, ok := h.users[winnerClient.id]; ok {
		winner.Balance += m.stake * 2
	}
	for _, c := range m.clients {
		if user, ok := h.users[c.id]; ok {
			user.InMatch = false
		}
	}

	h.logger.Info().
		Str("room_id", m.roomID).
		Str("match_winner", m.players[m.winnerIndex]).
		Int("payout", m.stake*2).
		Msg("Match finished.")

	h.broadcastMatch(m, TypeGameOver, GameOverPayload{
		MatchWinner: m.players[m.winnerIndex],
		RoundWins:   m.roundWins,
	})

	if h.rematchAffordable(m) {
		h.broadcastMatch(m, TypeRevanshOffer, RevanshOfferPayload{NextBet: m.stake * 2})
	}

	roomID := m.roomID
	m.pacingTimer = h.schedule(h.config.RoundDelay, func() {
		h.returnToLobby(roomID)
	})
	m.evictTimer = h.schedule(h.config.RematchWindow, func() {
		h.evictMatch(roomID)
	})
}

// rematchAffordable reports whether both participants hold at least twice
// the current stake after payout.
func (h *Hub) rematchAffordable(m *Match) bool {
	for _, c := range m.clients {
		user, ok := h.users[c.id]
		if !ok || user.Balance < m.stake*2 {
			return false
		}
	}
	return true
}

// returnToLobby pushes fresh balances and the lobby transition to both
// participants after the post-match pacing delay.
func (h *Hub) returnToLobby(roomID string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	m, ok := h.matches[roomID]
	if !ok || m.status != StatusFinished {
		return
	}
	m.pacingTimer = nil

	for _, c := range m.clients {
		if user, ok := h.users[c.id]; ok {
			h.sendEvent(c, TypeBalance, BalancePayload{Balance: user.Balance})
			h.sendEvent(c, TypeLobby, nil)
		}
	}
}

// evictMatch removes a finished match once the rematch window has closed.
func (h *Hub) evictMatch(roomID string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	m, ok := h.matches[roomID]
	if !ok || m.status != StatusFinished {
		return
	}

	m.stopTimers()
	delete(h.matches, roomID)

	h.logger.Info().Str("room_id", roomID).Msg("Finished match evicted.")
}

// handleShuffle spends the actor's once-per-round shuffle: the deck is
// re-dealt with a new random burn position and cleared slots, without
// changing whose turn it is.
func (h *Hub) handleShuffle(c *Client, roomID string) {
	m, ok := h.matches[roomID]
	if !ok || m.status != StatusPlaying || m.concluded || m.resolving {
		return
	}

	idx := m.playerIndex(c.id)
	if idx == -1 || idx != m.currentTurn {
		return
	}
	if m.shuffleUsed[idx] {
		return
	}

	m.shuffleUsed[idx] = true
	m.deck = dealDeck()
	m.opened = clearedSlots()

	h.broadcastMatch(m, TypeDeckShuffled, DeckShuffledPayload{
		By:          m.players[idx],
		ShuffleUsed: m.shuffleUsed,
	})
	h.broadcastMatch(m, TypeTurn, TurnPayload{
		CurrentTurnID: m.clients[m.currentTurn].id,
		ShuffleUsed:   m.shuffleUsed,
	})
}

// handleParticipantLeft settles a match whose participant disconnected.
// A live match forfeits the full pot to the remaining player; a finished
// match is simply evicted. Called with the Hub lock held, before the
// leaver's user record is deleted.
func (h *Hub) handleParticipantLeft(m *Match, leaverID string) {
	idx := m.playerIndex(leaverID)
	if idx == -1 {
		return
	}

	m.stopTimers()

	if m.status == StatusPlaying && !m.concluded {
		remaining := 1 - idx
		m.status = StatusFinished
		m.concluded = true
		m.winnerIndex = remaining

		remainingClient := m.clients[remaining]
		if user, ok := h.users[remainingClient.id]; ok {
			user.Balance += m.stake * 2
			user.InMatch = false

			h.sendEvent(remainingClient, TypeOpponentLeft, OpponentLeftPayload{Name: m.players[idx]})
			h.sendEvent(remainingClient, TypeGameOver, GameOverPayload{
				MatchWinner: m.players[remaining],
				RoundWins:   m.roundWins,
			})
			h.sendEvent(remainingClient, TypeBalance, BalancePayload{Balance: user.Balance})
			h.sendEvent(remainingClient, TypeLobby, nil)
		}

		h.logger.Info().
			Str("room_id", m.roomID).
			Str("leaver", m.players[idx]).
			Str("match_winner", m.players[remaining]).
			Msg("Match forfeited on disconnect.")
	}

	delete(h.matches, m.roomID)
}
