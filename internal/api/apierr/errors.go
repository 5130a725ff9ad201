package apierr

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/mcoot/sleuthgame-go/internal/model"
)

// APIError represents an API error response
type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// ErrorResponse wraps an APIError
type ErrorResponse struct {
	Error APIError `json:"error"`
}

// Error codes. Rule codes name the violated rule; kind codes are the
// fallbacks for errors that only carry a kind.
const (
	CodeInvalidRequest      = "invalid_request"
	CodeNotFound            = "not_found"
	CodeInvalidPhase        = "invalid_phase"
	CodeConstraintViolation = "constraint_violation"
	CodeStorageFailure      = "storage_failure"
	CodeInternalError       = "internal_error"

	CodeSessionNotFound       = "session_not_found"
	CodePlayerNotFound        = "player_not_found"
	CodeCardNotFound          = "card_not_found"
	CodeSecretNotFound        = "secret_not_found"
	CodeSetNotFound           = "set_not_found"
	CodeSessionAlreadyStarted = "session_already_started"
	CodeSessionNotInProgress  = "session_not_in_progress"
	CodeSessionFull           = "session_full"
	CodeNotEnoughPlayers      = "not_enough_players"
	CodeInvalidPlayerLimits   = "invalid_player_limits"
	CodeNameRequired          = "name_required"
	CodeInsufficientCards     = "insufficient_cards"
	CodeHandFull              = "hand_full"
	CodeCardNotInDraft        = "card_not_in_draft"
	CodeTooManyCards          = "too_many_cards"
	CodeTradeNotInitiated     = "trade_not_initiated"
	CodeTradeWithSelf         = "trade_with_self"
	CodeSecretAlreadyRevealed = "secret_already_revealed"
	CodeSecretNotRevealed     = "secret_not_revealed"
	CodeSetSizeMismatch       = "set_size_mismatch"
	CodeSetNameMismatch       = "set_name_mismatch"
	CodeDoubleWildcard        = "double_wildcard"
	CodeNotDetective          = "not_detective"
	CodeCardInSet             = "card_in_set"
	CodeSetOwnerMismatch      = "set_owner_mismatch"
	CodeTargetNotPlaying      = "target_not_playing"
	CodeEventNotPlayable      = "event_not_playable"
	CodeWrongEventCard        = "wrong_event_card"
	CodeStorageConflict       = "storage_conflict"
)

// httpError combines an HTTP status code with an APIError
type httpError struct {
	status   int
	apiError APIError
}

// Error implements error interface
func (e *httpError) Error() string {
	return e.apiError.Message
}

// rules maps specific errors to their codes, checked before the kinds
var rules = []struct {
	err  error
	code string
}{
	{model.ErrSessionNotFound, CodeSessionNotFound},
	{model.ErrPlayerNotFound, CodePlayerNotFound},
	{model.ErrCardNotFound, CodeCardNotFound},
	{model.ErrSecretNotFound, CodeSecretNotFound},
	{model.ErrSetNotFound, CodeSetNotFound},
	{model.ErrSessionAlreadyStarted, CodeSessionAlreadyStarted},
	{model.ErrSessionNotInProgress, CodeSessionNotInProgress},
	{model.ErrSessionFull, CodeSessionFull},
	{model.ErrNotEnoughPlayers, CodeNotEnoughPlayers},
	{model.ErrInvalidPlayerLimits, CodeInvalidPlayerLimits},
	{model.ErrNameRequired, CodeNameRequired},
	{model.ErrInsufficientCards, CodeInsufficientCards},
	{model.ErrHandFull, CodeHandFull},
	{model.ErrCardNotInDraft, CodeCardNotInDraft},
	{model.ErrTooManyCards, CodeTooManyCards},
	{model.ErrTradeNotInitiated, CodeTradeNotInitiated},
	{model.ErrTradeWithSelf, CodeTradeWithSelf},
	{model.ErrSecretAlreadyRevealed, CodeSecretAlreadyRevealed},
	{model.ErrSecretNotRevealed, CodeSecretNotRevealed},
	{model.ErrSetSizeMismatch, CodeSetSizeMismatch},
	{model.ErrSetNameMismatch, CodeSetNameMismatch},
	{model.ErrDoubleWildcard, CodeDoubleWildcard},
	{model.ErrNotDetective, CodeNotDetective},
	{model.ErrCardInSet, CodeCardInSet},
	{model.ErrSetOwnerMismatch, CodeSetOwnerMismatch},
	{model.ErrTargetNotPlaying, CodeTargetNotPlaying},
	{model.ErrEventNotPlayable, CodeEventNotPlayable},
	{model.ErrWrongEventCard, CodeWrongEventCard},
	{model.ErrStorageConflict, CodeStorageConflict},
}

// WriteError writes an error response to the response writer
func WriteError(w http.ResponseWriter, err error) {
	he := toHTTPError(err)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(he.status)
	_ = json.NewEncoder(w).Encode(ErrorResponse{Error: he.apiError})
}

// StatusOf returns the HTTP status an error is reported with
func StatusOf(err error) int {
	return toHTTPError(err).status
}

// toHTTPError converts an error to an httpError
func toHTTPError(err error) *httpError {
	var he *httpError
	if errors.As(err, &he) {
		return he
	}

	status, fallback := statusForKind(err)
	code := fallback
	for _, rule := range rules {
		if errors.Is(err, rule.err) {
			code = rule.code
			break
		}
	}

	// Storage and unexpected errors do not leak their text
	message := err.Error()
	if status == http.StatusInternalServerError {
		message = "Internal server error"
	}
	return &httpError{status, APIError{code, message}}
}

// statusForKind maps an error kind to its status and fallback code
func statusForKind(err error) (int, string) {
	switch {
	case errors.Is(err, model.ErrNotFound):
		return http.StatusNotFound, CodeNotFound
	case errors.Is(err, model.ErrInvalidPhase):
		return http.StatusConflict, CodeInvalidPhase
	case errors.Is(err, model.ErrConstraintViolation):
		return http.StatusUnprocessableEntity, CodeConstraintViolation
	case errors.Is(err, model.ErrStorageFailure):
		return http.StatusInternalServerError, CodeStorageFailure
	default:
		return http.StatusInternalServerError, CodeInternalError
	}
}

// NewInvalidRequestError creates an invalid request error
func NewInvalidRequestError(message string) error {
	return &httpError{http.StatusBadRequest, APIError{CodeInvalidRequest, message}}
}

// NewInternalError creates an internal server error
func NewInternalError() error {
	return &httpError{http.StatusInternalServerError, APIError{CodeInternalError, "Internal server error"}}
}
