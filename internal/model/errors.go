package model

import (
	"errors"
	"fmt"
)

// Error kinds. Client-facing errors wrap one of these, so callers can branch
// on the kind with errors.Is and still match the specific rule below.
var (
	ErrNotFound            = errors.New("not found")
	ErrInvalidPhase        = errors.New("invalid phase")
	ErrConstraintViolation = errors.New("constraint violation")
	ErrStorageFailure      = errors.New("storage failure")
)

var (
	// Lookup errors
	ErrSessionNotFound = fmt.Errorf("session %w", ErrNotFound)
	ErrPlayerNotFound  = fmt.Errorf("player %w", ErrNotFound)
	ErrCardNotFound    = fmt.Errorf("card %w", ErrNotFound)
	ErrSecretNotFound  = fmt.Errorf("secret %w", ErrNotFound)
	ErrSetNotFound     = fmt.Errorf("set %w", ErrNotFound)

	// Lifecycle errors
	ErrSessionAlreadyStarted = fmt.Errorf("%w: session already started", ErrInvalidPhase)
	ErrSessionNotInProgress  = fmt.Errorf("%w: session is not in progress", ErrInvalidPhase)
	ErrSessionFull           = fmt.Errorf("%w: session is full", ErrConstraintViolation)
	ErrNotEnoughPlayers      = fmt.Errorf("%w: not enough players to start", ErrConstraintViolation)
	ErrInvalidPlayerLimits   = fmt.Errorf("%w: invalid player limits", ErrConstraintViolation)
	ErrNameRequired          = fmt.Errorf("%w: name is required", ErrConstraintViolation)

	// Card pool errors
	ErrPoolInitialised   = fmt.Errorf("%w: card pool already initialised", ErrConstraintViolation)
	ErrInsufficientCards = fmt.Errorf("%w: not enough cards in the deck", ErrConstraintViolation)
	ErrHandFull          = fmt.Errorf("%w: hand is full", ErrConstraintViolation)
	ErrCardNotInDraft    = fmt.Errorf("%w: card is not in the draft pile", ErrConstraintViolation)
	ErrTooManyCards      = fmt.Errorf("%w: too many cards", ErrConstraintViolation)
	ErrTradeNotInitiated = fmt.Errorf("%w: trade was not initiated", ErrConstraintViolation)
	ErrTradeWithSelf     = fmt.Errorf("%w: cannot trade with yourself", ErrConstraintViolation)

	// Secret errors
	ErrSecretAlreadyRevealed = fmt.Errorf("%w: secret already revealed", ErrConstraintViolation)
	ErrSecretNotRevealed     = fmt.Errorf("%w: secret is not revealed", ErrConstraintViolation)
	ErrSecretsDealt          = fmt.Errorf("%w: secrets already initialised", ErrConstraintViolation)

	// ErrSecretDealExhausted is internal: dealing gave up before finding a
	// deal that keeps the murderer and accomplice apart.
	ErrSecretDealExhausted = errors.New("secret dealing exhausted its attempts")

	// Set errors
	ErrSetSizeMismatch  = fmt.Errorf("%w: set size mismatch", ErrConstraintViolation)
	ErrSetNameMismatch  = fmt.Errorf("%w: detectives are not compatible", ErrConstraintViolation)
	ErrDoubleWildcard   = fmt.Errorf("%w: a set cannot hold two wildcards", ErrConstraintViolation)
	ErrNotDetective     = fmt.Errorf("%w: card is not a detective", ErrConstraintViolation)
	ErrCardInSet        = fmt.Errorf("%w: card is already in a set", ErrConstraintViolation)
	ErrSetOwnerMismatch = fmt.Errorf("%w: cards belong to different players", ErrConstraintViolation)
	ErrTargetNotPlaying = fmt.Errorf("%w: target player's session has not started", ErrInvalidPhase)

	// Event errors
	ErrEventNotPlayable = fmt.Errorf("%w: event has no playable effect", ErrConstraintViolation)
	ErrWrongEventCard   = fmt.Errorf("%w: card does not match the played event", ErrConstraintViolation)

	// Storage errors
	ErrStorageConflict = fmt.Errorf("%w: concurrent update did not settle", ErrStorageFailure)
)
