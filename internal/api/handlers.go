package api

import (
	"context"
	"encoding/json"
	"io"
	"net/http"

	"github.com/vytor/sumrunner/internal/errors"
	"github.com/vytor/sumrunner/internal/services"
)

// HealthChecker reports whether a backing store can serve requests.
type HealthChecker interface {
	Ready(ctx context.Context) error
}

type Server struct {
	Sessions services.SessionService
	Progress services.ProgressService
	Settings services.SettingsService
	// Storage is optional; without it the server is always ready.
	Storage HealthChecker
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// decodeJSON reads a JSON body into dst. An empty body leaves dst untouched.
func decodeJSON(r *http.Request, dst interface{}) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil && err != io.EOF {
		return errors.NewBadRequestError("invalid JSON body: " + err.Error())
	}
	return nil
}

// HealthCheckFunc adapts a function to a HealthChecker.
type HealthCheckFunc func(ctx context.Context) error

func (f HealthCheckFunc) Ready(ctx context.Context) error { return f(ctx) }
