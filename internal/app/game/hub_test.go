package game

import "testing"

func TestLoginInitializesUserRecord(t *testing.T) {
	h, _ := newTestHub()
	c := newTestClient(h)

	login(t, h, c, "alice")

	msgs := drain(t, c)
	balance, ok := eventPayload[BalancePayload](t, msgs, TypeBalance)
	if !ok {
		t.Fatal("expected a balance event at login")
	}
	if balance.Balance != 1000 {
		t.Errorf("starting balance = %d, want 1000", balance.Balance)
	}
	if !hasEvent(msgs, TypeLobby) {
		t.Error("expected a lobby transition at login")
	}
}

func TestLoginIsDestructivePerConnection(t *testing.T) {
	h, _ := newTestHub()
	c := newTestClient(h)
	login(t, h, c, "alice")

	h.mu.Lock()
	h.users[c.id].Balance = 300
	h.mu.Unlock()

	// A second login discards the prior record entirely.
	login(t, h, c, "alice2")

	user := userOf(h, c)
	if user.Name != "alice2" || user.Balance != 1000 || user.InMatch {
		t.Errorf("re-login record = %+v, want fresh state", user)
	}
}

func TestLoginRejectsBlankName(t *testing.T) {
	h, _ := newTestHub()
	c := newTestClient(h)

	h.Dispatch(c, action(t, TypeLogin, LoginPayload{Name: "   "}))

	if userOf(h, c) != nil {
		t.Error("blank display name must not create a user record")
	}
	if msgs := drain(t, c); len(msgs) != 0 {
		t.Errorf("rejected login must stay silent, got %v", msgs)
	}
}

func TestGetBalanceWithoutRecordIsSilent(t *testing.T) {
	h, _ := newTestHub()
	c := newTestClient(h)

	h.Dispatch(c, action(t, TypeGetBalance, nil))

	if msgs := drain(t, c); len(msgs) != 0 {
		t.Errorf("expected no events without a user record, got %v", msgs)
	}
}

func TestUnknownActionTypeIsIgnored(t *testing.T) {
	h, _ := newTestHub()
	c := newTestClient(h)
	login(t, h, c, "alice")
	drain(t, c)

	h.Dispatch(c, Envelope{Type: "fold"})

	if msgs := drain(t, c); len(msgs) != 0 {
		t.Errorf("unsupported action must stay silent, got %v", msgs)
	}
}

func TestDisconnectRemovesOffersAndBroadcasts(t *testing.T) {
	h, _ := newTestHub()
	creator := newTestClient(h)
	watcher := newTestClient(h)
	login(t, h, creator, "alice")
	login(t, h, watcher, "bob")
	h.Dispatch(creator, action(t, TypeCreateGame, CreateGamePayload{Bet: 100, Rounds: 3}))
	drain(t, creator)
	drain(t, watcher)

	h.Disconnect(creator)

	queue, ok := eventPayload[[]OfferInfo](t, drain(t, watcher), TypePendingGames)
	if !ok {
		t.Fatal("expected a queue broadcast after the creator disconnected")
	}
	if len(queue) != 0 {
		t.Errorf("queue = %v, want empty", queue)
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.users[creator.id]; ok {
		t.Error("user record must be deleted on disconnect")
	}
	if _, ok := h.clients[creator.id]; ok {
		t.Error("connection must be deregistered on disconnect")
	}
}

func TestDisconnectForfeitsLiveMatch(t *testing.T) {
	h, _ := newTestHub()
	creator := newTestClient(h)
	joiner := newTestClient(h)
	m := startMatch(t, h, creator, joiner, 100, 3)

	h.Disconnect(creator)

	msgs := drain(t, joiner)
	left, ok := eventPayload[OpponentLeftPayload](t, msgs, TypeOpponentLeft)
	if !ok {
		t.Fatal("expected an opponent_left notification")
	}
	if left.Name != "alice" {
		t.Errorf("leaver = %q, want alice", left.Name)
	}

	gameOver, ok := eventPayload[GameOverPayload](t, msgs, TypeGameOver)
	if !ok {
		t.Fatal("expected game_over on forfeit")
	}
	if gameOver.MatchWinner != "bob" {
		t.Errorf("forfeit winner = %q, want bob", gameOver.MatchWinner)
	}

	// The remaining player takes the full pot and returns to the lobby.
	balance, ok := eventPayload[BalancePayload](t, msgs, TypeBalance)
	if !ok {
		t.Fatal("expected a balance refresh on forfeit")
	}
	if balance.Balance != 1100 {
		t.Errorf("balance = %d, want 1100 (900 escrowed + 200 pot)", balance.Balance)
	}
	if !hasEvent(msgs, TypeLobby) {
		t.Error("expected a lobby transition on forfeit")
	}
	if userOf(h, joiner).InMatch {
		t.Error("remaining player must no longer be busy")
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.matches[m.roomID]; ok {
		t.Error("forfeited match must be evicted")
	}
}

func TestDisconnectAfterMatchEndEvictsQuietly(t *testing.T) {
	h, _ := newTestHub()
	creator := newTestClient(h)
	joiner := newTestClient(h)
	m := startMatch(t, h, creator, joiner, 100, 1)

	setTurn(h, m, 0)
	rigBurn(h, m, 0)
	h.Dispatch(creator, action(t, TypeMakeMove, MovePayload{Room: m.roomID, CardIndex: 0}))
	drain(t, creator)
	drain(t, joiner)

	h.Disconnect(creator)

	if msgs := drain(t, joiner); hasEvent(msgs, TypeGameOver) || hasEvent(msgs, TypeOpponentLeft) {
		t.Errorf("a finished match must evict without a second settlement, got %v", msgs)
	}
	if got := userOf(h, joiner).Balance; got != 1100 {
		t.Errorf("winner balance = %d, payout must not double", got)
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.matches[m.roomID]; ok {
		t.Error("finished match must be evicted when a participant disconnects")
	}
}

func TestShutdownClearsState(t *testing.T) {
	h, _ := newTestHub()
	creator := newTestClient(h)
	joiner := newTestClient(h)
	startMatch(t, h, creator, joiner, 100, 3)

	h.Shutdown()

	h.mu.Lock()
	defer h.mu.Unlock()
	if len(h.matches) != 0 || len(h.clients) != 0 || len(h.users) != 0 || len(h.offers) != 0 {
		t.Error("shutdown must clear all process state")
	}
}
