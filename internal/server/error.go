package server

import (
	"encoding/json"
	"errors"
	"net/http"

	"codeberg.org/snonux/wordspeak/internal/audio"
	"codeberg.org/snonux/wordspeak/internal/speechcache"
)

var (
	// ErrInvalidJSON is returned for request bodies that do not decode
	ErrInvalidJSON = errors.New("invalid JSON body")
	// ErrInternal masks errors that are not meant for clients
	ErrInternal = errors.New("internal error")
)

// errorMap is a whitelist that maps errors to status codes.
var errorMap = []struct {
	err  error
	code int
}{
	{speechcache.ErrEmptyText, http.StatusBadRequest},
	{speechcache.ErrInvalidName, http.StatusBadRequest},
	{ErrInvalidJSON, http.StatusBadRequest},
	{speechcache.ErrNotFound, http.StatusNotFound},
	{audio.ErrProviderSuspended, http.StatusServiceUnavailable},
	{speechcache.ErrSynthesis, http.StatusBadGateway},
}

// lookup returns the whitelisted error matching err
func lookup(err error) (error, int, bool) {
	for _, m := range errorMap {
		if errors.Is(err, m.err) {
			return m.err, m.code, true
		}
	}
	return nil, http.StatusInternalServerError, false
}

// ErrorStatusCode returns the HTTP status code for an error object.
func ErrorStatusCode(err error) int {
	_, code, _ := lookup(err)
	return code
}

// Error writes a JSON error response. Unrecognized errors are logged and
// masked from clients.
func (s *Server) Error(w http.ResponseWriter, r *http.Request, err error) {
	public, code, ok := lookup(err)
	if !ok {
		public = ErrInternal
	}

	s.Logger.Error("http error", "method", r.Method, "path", r.URL.Path, "status", code, "error", err)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(&errorResponse{Err: public.Error()})
}

type errorResponse struct {
	Err string `json:"error,omitempty"`
}
