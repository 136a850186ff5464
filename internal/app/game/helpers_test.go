package game

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/time/rate"

	"burnduel/internal/configs"
	"burnduel/internal/pkg/randx"
)

// fakeScheduler records delayed callbacks instead of arming real timers, so
// tests drive the pacing and eviction windows deterministically.
type fakeScheduler struct {
	pending []scheduledCall
}

type scheduledCall struct {
	delay time.Duration
	fn    func()
}

func (s *fakeScheduler) schedule(d time.Duration, f func()) *time.Timer {
	s.pending = append(s.pending, scheduledCall{delay: d, fn: f})
	// Real timer far in the future: Stop() keeps working, but it never fires.
	return time.NewTimer(time.Hour)
}

// fire runs and clears every pending callback with the given delay.
func (s *fakeScheduler) fire(delay time.Duration) int {
	var kept []scheduledCall
	fired := 0
	for _, call := range s.pending {
		if call.delay == delay {
			call.fn()
			fired++
			continue
		}
		kept = append(kept, call)
	}
	s.pending = kept
	return fired
}

func testConfig() *configs.AppConfig {
	return &configs.AppConfig{
		Environment:     "test",
		StartingBalance: 1000,
		RoundDelay:      2 * time.Second,
		RematchWindow:   time.Minute,
	}
}

func newTestHub() (*Hub, *fakeScheduler) {
	h := NewHub(testConfig())
	sched := &fakeScheduler{}
	h.schedule = sched.schedule
	return h, sched
}

// newTestClient registers a connection without a real socket. The send queue
// is inspected directly; the pumps are never started.
func newTestClient(h *Hub) *Client {
	c := &Client{
		id:      randx.ConnectionID(),
		hub:     h,
		send:    make(chan []byte, 64),
		actions: rate.NewLimiter(actionRate, actionBurst),
		logger:  zerolog.Nop(),
	}
	h.Register(c)
	return c
}

func action(t *testing.T, msgType MessageType, payload any) Envelope {
	t.Helper()

	var raw json.RawMessage
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			t.Fatalf("marshal %s payload: %v", msgType, err)
		}
		raw = data
	}
	return Envelope{Type: msgType, Payload: raw}
}

func login(t *testing.T, h *Hub, c *Client, name string) {
	t.Helper()
	h.Dispatch(c, action(t, TypeLogin, LoginPayload{Name: name}))
}

// drain empties the client's send queue and returns the decoded envelopes.
func drain(t *testing.T, c *Client) []Envelope {
	t.Helper()

	var msgs []Envelope
	for {
		select {
		case data := <-c.send:
			var env Envelope
			if err := json.Unmarshal(data, &env); err != nil {
				t.Fatalf("decode outbound envelope: %v", err)
			}
			msgs = append(msgs, env)
		default:
			return msgs
		}
	}
}

// eventPayload finds the first envelope of the given type and decodes its payload.
func eventPayload[T any](t *testing.T, msgs []Envelope, msgType MessageType) (T, bool) {
	t.Helper()

	var payload T
	for _, env := range msgs {
		if env.Type != msgType {
			continue
		}
		if len(env.Payload) > 0 {
			if err := json.Unmarshal(env.Payload, &payload); err != nil {
				t.Fatalf("decode %s payload: %v", msgType, err)
			}
		}
		return payload, true
	}
	return payload, false
}

func hasEvent(msgs []Envelope, msgType MessageType) bool {
	for _, env := range msgs {
		if env.Type == msgType {
			return true
		}
	}
	return false
}

// startMatch logs in two players, posts an offer from the first, joins with
// the second, and drains both queues. It returns the single live match.
func startMatch(t *testing.T, h *Hub, creator, joiner *Client, stake, rounds int) *Match {
	t.Helper()

	login(t, h, creator, "alice")
	login(t, h, joiner, "bob")

	h.Dispatch(creator, action(t, TypeCreateGame, CreateGamePayload{Bet: stake, Rounds: rounds}))

	h.mu.Lock()
	if len(h.offers) != 1 {
		h.mu.Unlock()
		t.Fatalf("expected 1 offer, got %d", len(h.offers))
	}
	offerID := h.offers[0].ID
	h.mu.Unlock()

	h.Dispatch(joiner, action(t, TypeJoinGame, JoinGamePayload{ID: offerID}))

	h.mu.Lock()
	defer h.mu.Unlock()
	if len(h.matches) != 1 {
		t.Fatalf("expected 1 match, got %d", len(h.matches))
	}
	var m *Match
	for _, match := range h.matches {
		m = match
	}

	drainLocked(t, creator)
	drainLocked(t, joiner)
	return m
}

// drainLocked is drain without re-taking the hub lock (sends never lock).
func drainLocked(t *testing.T, c *Client) {
	t.Helper()
	for {
		select {
		case <-c.send:
		default:
			return
		}
	}
}

// rigBurn moves the burn card to the given slot for a deterministic reveal.
func rigBurn(h *Hub, m *Match, slot int) {
	h.mu.Lock()
	defer h.mu.Unlock()

	m.deck = [DeckSize]Card{}
	m.deck[slot] = CardBurn
}

func userOf(h *Hub, c *Client) *User {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.users[c.id]
}
