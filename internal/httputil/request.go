package httputil

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
)

// MaxBodyBytes caps JSON request bodies; comments and reports are small
const MaxBodyBytes = 64 << 10

// ErrBodyTooLarge is returned by ParseJSON when the body exceeds MaxBodyBytes
var ErrBodyTooLarge = errors.New("request body too large")

// ParseJSON decodes a single JSON object from the request body into dest.
// Unknown fields are rejected so clients cannot set server-owned fields.
func ParseJSON(w http.ResponseWriter, r *http.Request, dest interface{}) error {
	r.Body = http.MaxBytesReader(w, r.Body, MaxBodyBytes)

	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()

	if err := decoder.Decode(dest); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			return ErrBodyTooLarge
		}
		return fmt.Errorf("invalid JSON: %w", err)
	}

	return nil
}

// RespondParseError writes the problem response for a ParseJSON error
func RespondParseError(w http.ResponseWriter, err error) {
	if errors.Is(err, ErrBodyTooLarge) {
		RespondError(w, http.StatusRequestEntityTooLarge, err.Error())
		return
	}
	RespondError(w, http.StatusBadRequest, err.Error())
}
