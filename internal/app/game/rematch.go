/*
Package game contains the core logic for the card-elimination game server.

This file implements the double-or-nothing rematch protocol: a two-sided
acceptance gate that, once both participants agree, re-initializes the
finished match with the stake doubled.
*/
package game

import "math/rand/v2"

// handleAcceptRevansh records one participant's rematch acceptance. Repeated
// accepts from the same participant are idempotent; once both flags are set
// the match restarts, provided both balances cover the doubled stake.
func (h *Hub) handleAcceptRevansh(c *Client, roomID string) {
	m, ok := h.matches[roomID]
	if !ok || !m.concluded {
		return
	}

	idx := m.playerIndex(c.id)
	if idx == -1 {
		return
	}

	m.rematchAccepted[idx] = true

	if m.rematchAccepted[0] && m.rematchAccepted[1] {
		h.startRematch(m)
	}
}

// startRematch settles the acceptance gate: both balances are debited by the
// doubled stake, the full round state is re-initialized with a new uniformly
// random first turn, and both participants receive a fresh match snapshot.
// Insufficient balance on either side is a silent no-op.
func (h *Hub) startRematch(m *Match) {
	newStake := m.stake * 2

	userA, okA := h.users[m.clients[0].id]
	userB, okB := h.users[m.clients[1].id]
	if !okA || !okB {
		return
	}
	if userA.Balance < newStake || userB.Balance < newStake {
		return
	}

	userA.Balance -= newStake
	userB.Balance -= newStake
	userA.InMatch = true
	userB.InMatch = true

	m.stopTimers()

	m.stake = newStake
	m.currentRound = 1
	m.roundWins = [2]int{}
	m.rematchAccepted = [2]bool{}
	m.status = StatusPlaying
	m.concluded = false
	m.resolving = false
	m.winnerIndex = -1
	m.currentTurn = rand.IntN(2)
	m.dealRound()

	h.logger.Info().
		Str("room_id", m.roomID).
		Int("stake", m.stake).
		Msg("Rematch started at doubled stake.")

	h.sendMatchStart(m)
}
