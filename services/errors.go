package services

import (
	"errors"
	"fmt"
)

var (
	ErrCredentialMissing   = errors.New("access token required")
	ErrCredentialNotFound  = errors.New("access token not recognized")
	ErrEventMismatch       = errors.New("game does not belong to this event")
	ErrMalformedSubmission = errors.New("answers must be a non-empty list")
	ErrNoResult            = errors.New("no completed play found for this game")
)

// GameNotPlayableError distinguishes a missing/deactivated game from one that
// exists but is in the wrong lifecycle status. Status is included verbatim so
// clients can render a waiting/closed screen.
type GameNotPlayableError struct {
	Missing bool
	Status  string
}

func (e *GameNotPlayableError) Error() string {
	if e.Missing {
		return "game not found or inactive"
	}
	return fmt.Sprintf("game is not open for play (status '%s')", e.Status)
}

// AlreadyPlayedError carries the prior result so the client can show the
// results screen instead of a bare error.
type AlreadyPlayedError struct {
	ByOrigin bool
	Score    int
	Rank     int
}

func (e *AlreadyPlayedError) Error() string {
	if e.ByOrigin {
		return "this game has already been played from your connection"
	}
	return "you have already played this game"
}
