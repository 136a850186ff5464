/*
Package game contains the core logic for the card-elimination game server.

This file defines the User record owned by the connection registry. A record exists
only between a connection's first login and its disconnect; balances are volatile.
*/
package game

// User represents the per-connection player record.
type User struct {
	// Name is the self-asserted display name supplied at login.
	Name string

	// Balance is the current chip balance. It never goes negative: every debit
	// is preconditioned on sufficiency inside the same locked handler.
	Balance int

	// InMatch marks the player as a participant of a live match.
	InMatch bool
}
