package utils

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/andrewpaige1/nodebook-graph/apperrors"
)

// WriteJSON encodes v as the response body with the given status.
func WriteJSON(w http.ResponseWriter, status int, v any) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	return json.NewEncoder(w).Encode(v)
}

// WriteError writes a {"detail": ...} body, the error shape the client parses.
func WriteError(w http.ResponseWriter, status int, detail string) {
	_ = WriteJSON(w, status, map[string]string{"detail": detail})
}

// DecodeJSON reads a single JSON object from the request body into dst.
// Unknown fields and malformed bodies are validation errors.
func DecodeJSON(r *http.Request, dst any) error {
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			return apperrors.Invalid("request body is required")
		}
		return apperrors.Invalid("invalid request body: %v", err)
	}
	return nil
}

// PathID parses the named path value as a positive id.
func PathID(r *http.Request, name string) (uint, error) {
	raw := r.PathValue(name)
	if raw == "" {
		return 0, apperrors.Invalid("%s is required", name)
	}
	return parseID(name, raw)
}

// QueryID parses an optional id query parameter. Missing means zero.
func QueryID(r *http.Request, name string) (uint, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return 0, nil
	}
	return parseID(name, raw)
}

// QueryTime parses an optional RFC 3339 or YYYY-MM-DD query parameter.
func QueryTime(r *http.Request, name string) (time.Time, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return time.Time{}, nil
	}
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return t, nil
	}
	t, err := time.Parse(time.DateOnly, raw)
	if err != nil {
		return time.Time{}, apperrors.Invalid("%s must be an RFC 3339 time or a date", name)
	}
	return t, nil
}

func parseID(name, raw string) (uint, error) {
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || id == 0 {
		return 0, apperrors.Invalid("%s must be a positive integer, got %q", name, raw)
	}
	return uint(id), nil
}
