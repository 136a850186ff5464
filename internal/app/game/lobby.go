/*
Package game contains the core logic for the card-elimination game server.

This file implements the matchmaking queue: an ordered list of open match offers
supporting create, list, cancel, and atomic claim-by-join. Joining escrows the
stake from both participants and constructs the match in one locked step.
*/
package game

import (
	"burnduel/internal/pkg/errs"
	"burnduel/internal/pkg/randx"
)

// allowedRoundCounts is the fixed set of valid (odd) match lengths.
var allowedRoundCounts = map[int]struct{}{
	1: {},
	3: {},
	5: {},
	7: {},
	9: {},
}

// Offer is a pending game awaiting a second player.
type Offer struct {
	ID          string
	CreatorID   string
	CreatorName string
	Stake       int
	Rounds      int
}

// pendingGames builds the public snapshot of the matchmaking queue.
func (h *Hub) pendingGames() []OfferInfo {
	infos := make([]OfferInfo, 0, len(h.offers))
	for _, o := range h.offers {
		infos = append(infos, OfferInfo{
			ID:          o.ID,
			CreatorID:   o.CreatorID,
			CreatorName: o.CreatorName,
			Bet:         o.Stake,
			Rounds:      o.Rounds,
		})
	}
	return infos
}

// handleListGames sends the current queue snapshot to the requester only.
func (h *Hub) handleListGames(c *Client) {
	h.sendEvent(c, TypePendingGames, h.pendingGames())
}

// handleCreateGame validates and appends a new offer, then broadcasts the
// updated queue to all connections. Stake and round-count violations produce
// a user-facing error message; a missing or busy actor is a silent no-op.
func (h *Hub) handleCreateGame(c *Client, p CreateGamePayload) {
	user, ok := h.users[c.id]
	if !ok || user.InMatch {
		return
	}

	if p.Bet <= 0 {
		h.sendError(c, errs.ErrInvalidStake)
		return
	}
	if user.Balance < p.Bet {
		h.sendError(c, errs.ErrInsufficientBalance)
		return
	}
	if _, ok := allowedRoundCounts[p.Rounds]; !ok {
		h.sendError(c, errs.ErrInvalidRoundCount)
		return
	}

	offer := &Offer{
		ID:          randx.OfferID(),
		CreatorID:   c.id,
		CreatorName: user.Name,
		Stake:       p.Bet,
		Rounds:      p.Rounds,
	}
	h.offers = append(h.offers, offer)

	h.logger.Info().
		Str("offer_id", offer.ID).
		Str("creator", user.Name).
		Int("stake", offer.Stake).
		Int("rounds", offer.Rounds).
		Msg("Offer created.")

	h.broadcastAll(TypePendingGames, h.pendingGames())
}

// handleCancelPending removes the caller's oldest offer if one exists and
// clears the busy flag. Repeated calls with no offer are no-ops.
func (h *Hub) handleCancelPending(c *Client) {
	idx := -1
	for i, o := range h.offers {
		if o.CreatorID == c.id {
			idx = i
			break
		}
	}
	if idx == -1 {
		return
	}

	offerID := h.offers[idx].ID
	h.offers = append(h.offers[:idx], h.offers[idx+1:]...)

	if user, ok := h.users[c.id]; ok {
		user.InMatch = false
	}

	h.logger.Info().
		Str("offer_id", offerID).
		Str("conn_id", c.id).
		Msg("Offer cancelled.")

	h.broadcastAll(TypePendingGames, h.pendingGames())
}

// removeOffersByCreator drops every offer posted by the given connection and,
// if any were removed, broadcasts the updated queue. Used on disconnect.
func (h *Hub) removeOffersByCreator(connID string) {
	kept := h.offers[:0]
	removed := 0
	for _, o := range h.offers {
		if o.CreatorID == connID {
			removed++
			continue
		}
		kept = append(kept, o)
	}
	h.offers = kept

	if removed > 0 {
		h.logger.Info().
			Str("conn_id", connID).
			Int("removed", removed).
			Msg("Offers removed on disconnect.")
		h.broadcastAll(TypePendingGames, h.pendingGames())
	}
}

// handleJoinGame atomically claims an offer: it validates both participants,
// escrows the stake from both balances, marks both busy, removes the offer,
// and constructs the match. No interleaving action can observe a partial join.
func (h *Hub) handleJoinGame(c *Client, p JoinGamePayload) {
	idx := -1
	for i, o := range h.offers {
		if o.ID == p.ID {
			idx = i
			break
		}
	}
	if idx == -1 {
		h.sendError(c, errs.ErrGameNotFound)
		return
	}
	offer := h.offers[idx]

	joiner, ok := h.users[c.id]
	if !ok {
		return
	}
	creator, ok := h.users[offer.CreatorID]
	if !ok {
		return
	}
	creatorClient, ok := h.clients[offer.CreatorID]
	if !ok {
		return
	}
	if joiner.InMatch || creator.InMatch {
		return
	}
	if c.id == offer.CreatorID {
		return
	}
	if joiner.Balance < offer.Stake {
		h.sendError(c, errs.ErrInsufficientBalance)
		return
	}

	// Commit point: escrow both stakes and mark both participants busy.
	joiner.Balance -= offer.Stake
	creator.Balance -= offer.Stake
	joiner.InMatch = true
	creator.InMatch = true

	h.offers = append(h.offers[:idx], h.offers[idx+1:]...)
	h.broadcastAll(TypePendingGames, h.pendingGames())

	m := h.newMatch(offer, creatorClient, c, creator.Name, joiner.Name)
	h.matches[m.roomID] = m

	h.logger.Info().
		Str("room_id", m.roomID).
		Str("creator", creator.Name).
		Str("joiner", joiner.Name).
		Int("stake", m.stake).
		Int("rounds", m.rounds).
		Msg("Match started.")

	h.sendMatchStart(m)
}
