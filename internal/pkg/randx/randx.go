/*
Package randx provides functions for generating unique identifiers used across the game server.

Connections, pending game offers, and match rooms are all identified by UUID-derived strings.
*/
package randx

import (
	"strings"

	"github.com/google/uuid"
)

// RoomIDPrefix is prepended to an offer id to form the id of the match room it becomes.
const RoomIDPrefix = "room_"

// ConnectionID generates a UUID v4 string identifying a single WebSocket connection.
// Connection ids are server-assigned and never reused for the process lifetime.
func ConnectionID() string {
	return uuid.New().String()
}

// OfferID generates a UUID v4 string identifying a pending game offer.
func OfferID() string {
	return uuid.New().String()
}

// RoomID derives the match room id from the offer id the match was created from.
func RoomID(offerID string) string {
	return RoomIDPrefix + offerID
}

// IsValidRoomID checks that the given string has the room prefix followed by a parseable UUID.
func IsValidRoomID(id string) bool {
	raw, ok := strings.CutPrefix(id, RoomIDPrefix)
	if !ok {
		return false
	}

	_, err := uuid.Parse(raw)
	return err == nil
}
