/*
Package errs provides custom error types and application-level error code constants.

These error codes are used to clearly identify specific business or system errors
both internally within the server and in communication with clients.
*/
package errs

// 1xxx: General Request Handling Errors
const (
	// ErrInvalidParams indicates that request parameter validation failed.
	ErrInvalidParams = 1001

	// ErrInvalidJSONFormat indicates that an inbound message could not be parsed as JSON.
	ErrInvalidJSONFormat = 1002

	// ErrRateLimitExceeded indicates that the request rate has exceeded the set limit.
	ErrRateLimitExceeded = 1003
)

// 2xxx: Lobby and Matchmaking Business Logic Errors
const (
	// ErrInvalidStake indicates that the requested stake is not a positive integer.
	ErrInvalidStake = 2101

	// ErrInsufficientBalance indicates that the player's chip balance cannot cover the stake.
	ErrInsufficientBalance = 2102

	// ErrInvalidRoundCount indicates that the requested round count is not one of the allowed odd values.
	ErrInvalidRoundCount = 2103

	// ErrGameNotFound indicates that the referenced pending game does not exist.
	ErrGameNotFound = 2104

	// ErrAlreadyInMatch indicates that the player is already participating in a match.
	ErrAlreadyInMatch = 2105

	// ErrOpponentUnavailable indicates that the offer's creator is no longer able to start the match.
	ErrOpponentUnavailable = 2106
)

// 5xxx: Internal System Errors
const (
	// ErrUnknown represents an unclassified, general server internal error.
	ErrUnknown = 5000
)
