/*
Package game contains the core logic for the card-elimination game server.

This file defines the round deck: six face-down slots hiding exactly one burn card.
*/
package game

import "math/rand/v2"

// DeckSize is the number of slots in a round deck.
const DeckSize = 6

// Card is the hidden value of one deck slot.
type Card int

const (
	// CardSafe is a neutral card; revealing it only passes the turn.
	CardSafe Card = iota

	// CardBurn is the single losing card; revealing it ends the round for the revealer.
	CardBurn
)

// wireValue returns the card value as it appears in outbound events.
func (c Card) wireValue() string {
	if c == CardBurn {
		return "burn"
	}
	return "safe"
}

// slotUnopened marks an entry of the opened-slots array that no player has acted on yet.
const slotUnopened = -1

// dealDeck returns a fresh deck of DeckSize slots with the burn card at a
// position drawn uniformly at random.
func dealDeck() [DeckSize]Card {
	var deck [DeckSize]Card
	deck[rand.IntN(DeckSize)] = CardBurn
	return deck
}

// clearedSlots returns an opened-slots array with every entry unopened.
func clearedSlots() [DeckSize]int {
	var opened [DeckSize]int
	for i := range opened {
		opened[i] = slotUnopened
	}
	return opened
}
