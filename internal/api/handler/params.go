package handler

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/mcoot/tetris-showcase/internal/api/apierr"
	"github.com/mcoot/tetris-showcase/internal/model"
)

// maxBodyBytes caps every JSON request body
const maxBodyBytes = 64 << 10

// WriteError writes the JSON error envelope for err
func WriteError(w http.ResponseWriter, err error) {
	apierr.WriteError(w, err)
}

// NewInvalidRequestError is a 400 INVALID_REQUEST with the given message
func NewInvalidRequestError(message string) error {
	return apierr.NewInvalidRequestError(message)
}

// decodeBody reads a JSON body. With optional set, an empty body leaves v as is.
func decodeBody(w http.ResponseWriter, r *http.Request, v any, optional bool) error {
	err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(v)
	if err == nil || (optional && errors.Is(err, io.EOF)) {
		return nil
	}
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		return NewInvalidRequestError("request body exceeds " + strconv.Itoa(maxBodyBytes) + " bytes")
	}
	return NewInvalidRequestError("invalid request body")
}

func sessionID(r *http.Request) model.SessionID {
	return model.SessionID(mux.Vars(r)["id"])
}

func recordID(r *http.Request) model.RecordID {
	return model.RecordID(mux.Vars(r)["id"])
}

// playerIndex parses the 1-based {n} path segment; range checks happen in the session manager
func playerIndex(r *http.Request) (int, error) {
	n, err := strconv.Atoi(mux.Vars(r)["n"])
	if err != nil {
		return 0, NewInvalidRequestError("player must be a number")
	}
	return n, nil
}
