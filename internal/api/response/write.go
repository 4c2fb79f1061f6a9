package response

import (
	"encoding/json"
	"net/http"
	"strconv"
)

const encodeFailure = `{"error":{"code":"INTERNAL_ERROR","message":"Internal server error"}}`

// JSON encodes data before touching the response, so an unencodable
// value becomes a plain 500 instead of a truncated body
func JSON(w http.ResponseWriter, status int, data any) {
	h := w.Header()
	h.Set("Cache-Control", "no-store")
	if data == nil {
		w.WriteHeader(status)
		return
	}

	body, err := json.Marshal(data)
	if err != nil {
		body, status = []byte(encodeFailure), http.StatusInternalServerError
	}
	body = append(body, '\n')

	h.Set("Content-Type", "application/json")
	h.Set("Content-Length", strconv.Itoa(len(body)))
	w.WriteHeader(status)
	_, _ = w.Write(body)
}

// NoContent writes a 204 No Content response
func NoContent(w http.ResponseWriter) {
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(http.StatusNoContent)
}
