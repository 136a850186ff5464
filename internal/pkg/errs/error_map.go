/*
Package errs provides custom error types and application-level error code constants.

This file defines the map from error codes to the CustomError struct, used to standardize
responses and internal error handling.
*/
package errs

import "net/http"

// errorMap stores the detailed CustomError struct corresponding to every application error code.
// The key is the error code (int), and the value contains the user message and HTTP status code.
var errorMap = map[int]CustomError{
	// 1xxx: General Request Handling Errors
	ErrInvalidParams:     {Code: ErrInvalidParams, Message: "Invalid request parameters."},
	ErrInvalidJSONFormat: {Code: ErrInvalidJSONFormat, Message: "Unsupported request format."},
	ErrRateLimitExceeded: {Code: ErrRateLimitExceeded, Message: "Too many requests. Please try again later.", Status: http.StatusTooManyRequests},

	// 2xxx: Lobby and Matchmaking Business Logic Errors
	ErrInvalidStake:        {Code: ErrInvalidStake, Message: "Stake must be a positive amount of chips."},
	ErrInsufficientBalance: {Code: ErrInsufficientBalance, Message: "Not enough chips for this stake."},
	ErrInvalidRoundCount:   {Code: ErrInvalidRoundCount, Message: "Invalid number of rounds."},
	ErrGameNotFound:        {Code: ErrGameNotFound, Message: "Game not found."},
	ErrAlreadyInMatch:      {Code: ErrAlreadyInMatch, Message: "You are already in a match."},
	ErrOpponentUnavailable: {Code: ErrOpponentUnavailable, Message: "This game is no longer available."},

	// 5xxx: Internal System Errors
	ErrUnknown: {Code: ErrUnknown, Message: "Something went wrong. Please try again.", Status: http.StatusInternalServerError},
}
