package http

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
)

const maxJSONBody = 1 << 20

type apiError struct {
	Error   string      `json:"error"`
	Message string      `json:"message"`
	Details interface{} `json:"details,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	if v == nil {
		w.WriteHeader(status)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code, message string, details interface{}) {
	writeJSON(w, status, apiError{
		Error:   code,
		Message: message,
		Details: details,
	})
}

// decodeJSON reads a single JSON object into dst and validates its struct
// tags. It writes the error response itself and reports whether to continue.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst interface{}) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxJSONBody)

	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()

	if err := dec.Decode(dst); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", "invalid json body", map[string]any{"error": err.Error()})
		return false
	}
	if err := dec.Decode(&struct{}{}); err != nil && !errors.Is(err, io.EOF) {
		writeError(w, http.StatusBadRequest, "bad_request", "invalid json body", map[string]any{"error": "extra data after json"})
		return false
	}

	if fields := validateStruct(dst); fields != nil {
		writeError(w, http.StatusBadRequest, "invalid_input", "request validation failed", fields)
		return false
	}
	return true
}

// pathID parses a positive int32 route variable.
func pathID(w http.ResponseWriter, r *http.Request, name string) (int32, bool) {
	id, err := strconv.ParseInt(mux.Vars(r)[name], 10, 32)
	if err != nil || id <= 0 {
		writeError(w, http.StatusBadRequest, "invalid_id", "invalid "+name, nil)
		return 0, false
	}
	return int32(id), true
}

// queryInt32 returns def when the parameter is missing or malformed.
func queryInt32(r *http.Request, name string, def int32) int32 {
	v, err := strconv.ParseInt(r.URL.Query().Get(name), 10, 32)
	if err != nil {
		return def
	}
	return int32(v)
}
