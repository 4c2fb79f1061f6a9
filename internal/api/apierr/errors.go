package apierr

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/mcoot/tetris-showcase/internal/model"
	"github.com/mcoot/tetris-showcase/internal/services/auth"
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

// Common error codes
const (
	CodeInvalidRequest     = "INVALID_REQUEST"
	CodeInvalidCommand     = "INVALID_COMMAND"
	CodeInvalidPlayerCount = "INVALID_PLAYER_COUNT"
	CodeNameRequired       = "NAME_REQUIRED"
	CodeInvalidRecord      = "INVALID_RECORD"
	CodeUnauthorized       = "UNAUTHORIZED"
	CodeSessionNotFound    = "SESSION_NOT_FOUND"
	CodePlayerNotFound     = "PLAYER_NOT_FOUND"
	CodeRecordNotFound     = "RECORD_NOT_FOUND"
	CodeTooManySessions    = "TOO_MANY_SESSIONS"
	CodeInvalidStrategy    = "INVALID_STRATEGY"
	CodePlayerNotActive    = "PLAYER_NOT_ACTIVE"
	CodeInvalidCredentials = "INVALID_CREDENTIALS"
	CodeWeakPassword       = "WEAK_PASSWORD"
	CodeInternalError      = "INTERNAL_ERROR"
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

// WriteError writes an error response to the response writer
func WriteError(w http.ResponseWriter, err error) {
	he := toHTTPError(err)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(he.status)
	_ = json.NewEncoder(w).Encode(ErrorResponse{Error: he.apiError})
}

// toHTTPError converts an error to an httpError
func toHTTPError(err error) *httpError {
	var he *httpError
	if errors.As(err, &he) {
		return he
	}

	// Map model errors
	switch {
	case errors.Is(err, model.ErrSessionNotFound):
		return &httpError{http.StatusNotFound, APIError{CodeSessionNotFound, "Session not found"}}
	case errors.Is(err, model.ErrPlayerNotInSession):
		return &httpError{http.StatusNotFound, APIError{CodePlayerNotFound, "Player is not in this session"}}
	case errors.Is(err, model.ErrInvalidPlayerCount):
		return &httpError{http.StatusBadRequest, APIError{CodeInvalidPlayerCount, "A session needs one or two players"}}
	case errors.Is(err, model.ErrPlayerNameRequired):
		return &httpError{http.StatusBadRequest, APIError{CodeNameRequired, "Player name is required"}}
	case errors.Is(err, model.ErrInvalidCommand):
		return &httpError{http.StatusBadRequest, APIError{CodeInvalidCommand, err.Error()}}
	case errors.Is(err, model.ErrTooManySessions):
		return &httpError{http.StatusServiceUnavailable, APIError{CodeTooManySessions, "Too many live sessions"}}
	case errors.Is(err, model.ErrUnknownStrategy):
		return &httpError{http.StatusBadRequest, APIError{CodeInvalidStrategy, err.Error()}}
	case errors.Is(err, model.ErrPlayerNotActive):
		return &httpError{http.StatusConflict, APIError{CodePlayerNotActive, "Player is paused or the game is over"}}
	case errors.Is(err, model.ErrRecordNotFound):
		return &httpError{http.StatusNotFound, APIError{CodeRecordNotFound, "Leaderboard record not found"}}
	case errors.Is(err, model.ErrInvalidRecord):
		return &httpError{http.StatusBadRequest, APIError{CodeInvalidRecord, err.Error()}}

	// Map auth errors
	case errors.Is(err, auth.ErrInvalidCredentials):
		return &httpError{http.StatusUnauthorized, APIError{CodeInvalidCredentials, "Invalid username or password"}}
	case errors.Is(err, auth.ErrInvalidSession):
		return &httpError{http.StatusUnauthorized, APIError{CodeUnauthorized, "Invalid or expired session"}}
	case errors.Is(err, auth.ErrWeakPassword):
		return &httpError{http.StatusBadRequest, APIError{CodeWeakPassword, "Password must be at least 8 characters"}}

	default:
		return &httpError{http.StatusInternalServerError, APIError{CodeInternalError, "Internal server error"}}
	}
}

// NewInvalidRequestError creates an invalid request error
func NewInvalidRequestError(message string) error {
	return &httpError{http.StatusBadRequest, APIError{CodeInvalidRequest, message}}
}

// NewUnauthorizedError creates an unauthorized error
func NewUnauthorizedError() error {
	return &httpError{http.StatusUnauthorized, APIError{CodeUnauthorized, "Authentication required"}}
}

// NewInternalError creates an internal server error
func NewInternalError() error {
	return &httpError{http.StatusInternalServerError, APIError{CodeInternalError, "Internal server error"}}
}

// WritePanic answers a request whose handler panicked
func WritePanic(w http.ResponseWriter, _ *http.Request, _ error) {
	w.Header().Set("Connection", "close")
	WriteError(w, NewInternalError())
}
