package game

import "testing"

// finishSingleRound plays a one-round match to completion: alice reveals the
// burn card, so bob takes the round, the match, and the pot.
func finishSingleRound(t *testing.T, h *Hub, creator, joiner *Client) *Match {
	t.Helper()

	m := startMatch(t, h, creator, joiner, 100, 1)
	setTurn(h, m, 0)
	rigBurn(h, m, 0)
	h.Dispatch(creator, action(t, TypeMakeMove, MovePayload{Room: m.roomID, CardIndex: 0}))
	drain(t, creator)
	drain(t, joiner)
	return m
}

func TestRematchRequiresConcludedMatch(t *testing.T) {
	h, _ := newTestHub()
	creator := newTestClient(h)
	joiner := newTestClient(h)
	m := startMatch(t, h, creator, joiner, 100, 3)

	h.Dispatch(creator, action(t, TypeAcceptRevansh, RoomPayload{Room: m.roomID}))

	h.mu.Lock()
	defer h.mu.Unlock()
	if m.rematchAccepted != [2]bool{} {
		t.Error("acceptance must be ignored while the match is still playing")
	}
}

func TestRematchAcceptanceIsIdempotentPerPlayer(t *testing.T) {
	h, _ := newTestHub()
	creator := newTestClient(h)
	joiner := newTestClient(h)
	m := finishSingleRound(t, h, creator, joiner)

	// Two accepts from the same participant set the flag once and never
	// trigger a restart on their own.
	h.Dispatch(creator, action(t, TypeAcceptRevansh, RoomPayload{Room: m.roomID}))
	h.Dispatch(creator, action(t, TypeAcceptRevansh, RoomPayload{Room: m.roomID}))

	if msgs := drain(t, creator); hasEvent(msgs, TypeStartGame) {
		t.Error("one-sided acceptance must not restart the match")
	}
	h.mu.Lock()
	accepted := m.rematchAccepted
	status := m.status
	h.mu.Unlock()
	if accepted != [2]bool{true, false} {
		t.Errorf("acceptance flags = %v, want only index 0 set", accepted)
	}
	if status != StatusFinished {
		t.Error("match must stay finished until both accept")
	}
}

func TestRematchRestartsAtDoubledStake(t *testing.T) {
	h, _ := newTestHub()
	creator := newTestClient(h)
	joiner := newTestClient(h)
	m := finishSingleRound(t, h, creator, joiner)

	// Post-payout balances: alice 900, bob 1100.
	h.Dispatch(creator, action(t, TypeAcceptRevansh, RoomPayload{Room: m.roomID}))
	h.Dispatch(joiner, action(t, TypeAcceptRevansh, RoomPayload{Room: m.roomID}))

	for _, c := range []*Client{creator, joiner} {
		snapshot, ok := eventPayload[StartGamePayload](t, drain(t, c), TypeStartGame)
		if !ok {
			t.Fatal("expected a fresh start_game for both participants")
		}
		if snapshot.Bet != 200 || snapshot.CurrentRound != 1 || snapshot.RoundWins != [2]int{} {
			t.Errorf("rematch snapshot: %+v", snapshot)
		}
	}

	if got := userOf(h, creator).Balance; got != 700 {
		t.Errorf("alice balance = %d, want 700 (900 - 200 stake)", got)
	}
	if got := userOf(h, joiner).Balance; got != 900 {
		t.Errorf("bob balance = %d, want 900 (1100 - 200 stake)", got)
	}
	if !userOf(h, creator).InMatch || !userOf(h, joiner).InMatch {
		t.Error("both participants must be busy again for the rematch")
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	if m.status != StatusPlaying || m.concluded {
		t.Error("rematch must return the match to playing state")
	}
	if m.stake != 200 {
		t.Errorf("stake = %d, want doubled to 200", m.stake)
	}
	if m.rematchAccepted != [2]bool{} || m.shuffleUsed != [2]bool{} {
		t.Error("acceptance and shuffle flags must reset for the rematch")
	}
	if m.winnerIndex != -1 {
		t.Error("winner index must reset for the rematch")
	}
}

func TestRematchInsufficientBalanceIsSilent(t *testing.T) {
	h, _ := newTestHub()
	creator := newTestClient(h)
	joiner := newTestClient(h)
	m := finishSingleRound(t, h, creator, joiner)

	h.mu.Lock()
	h.users[creator.id].Balance = 150 // below the doubled stake of 200
	h.mu.Unlock()

	h.Dispatch(creator, action(t, TypeAcceptRevansh, RoomPayload{Room: m.roomID}))
	h.Dispatch(joiner, action(t, TypeAcceptRevansh, RoomPayload{Room: m.roomID}))

	if msgs := drain(t, creator); hasEvent(msgs, TypeStartGame) {
		t.Error("underfunded rematch must not restart")
	}
	if got := userOf(h, joiner).Balance; got != 1100 {
		t.Errorf("bob balance = %d, no debit may happen on a failed rematch", got)
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	if m.status != StatusFinished {
		t.Error("match must stay finished after a failed rematch")
	}
}

func TestRematchFromNonParticipantIsIgnored(t *testing.T) {
	h, _ := newTestHub()
	creator := newTestClient(h)
	joiner := newTestClient(h)
	outsider := newTestClient(h)
	login(t, h, outsider, "eve")
	m := finishSingleRound(t, h, creator, joiner)

	h.Dispatch(outsider, action(t, TypeAcceptRevansh, RoomPayload{Room: m.roomID}))

	h.mu.Lock()
	defer h.mu.Unlock()
	if m.rematchAccepted != [2]bool{} {
		t.Error("a non-participant must not set acceptance flags")
	}
}

func TestFinishedMatchEvictedAfterRematchWindow(t *testing.T) {
	h, sched := newTestHub()
	creator := newTestClient(h)
	joiner := newTestClient(h)
	m := finishSingleRound(t, h, creator, joiner)

	if fired := sched.fire(h.config.RematchWindow); fired != 1 {
		t.Fatalf("expected 1 pending eviction callback, fired %d", fired)
	}

	h.mu.Lock()
	_, exists := h.matches[m.roomID]
	h.mu.Unlock()
	if exists {
		t.Fatal("finished match must be evicted when the rematch window closes")
	}

	// Acceptance after eviction is a silent no-op.
	h.Dispatch(creator, action(t, TypeAcceptRevansh, RoomPayload{Room: m.roomID}))
	if msgs := drain(t, joiner); len(msgs) != 0 {
		t.Errorf("acceptance on an evicted room must stay silent, got %v", msgs)
	}
}

func TestRematchSurvivesEvictionCallbackAfterRestart(t *testing.T) {
	h, sched := newTestHub()
	creator := newTestClient(h)
	joiner := newTestClient(h)
	m := finishSingleRound(t, h, creator, joiner)

	h.Dispatch(creator, action(t, TypeAcceptRevansh, RoomPayload{Room: m.roomID}))
	h.Dispatch(joiner, action(t, TypeAcceptRevansh, RoomPayload{Room: m.roomID}))

	// A stale eviction callback firing after the restart must not tear the
	// live rematch down: the status guard rejects it.
	sched.fire(h.config.RematchWindow)

	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.matches[m.roomID]; !ok {
		t.Fatal("live rematch must survive a stale eviction callback")
	}
	if m.status != StatusPlaying {
		t.Errorf("status = %s, want playing", m.status)
	}
}
