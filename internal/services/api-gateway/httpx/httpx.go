package httpx

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/NordCoder/Upkeep/internal/obs"
	"github.com/grpc-ecosystem/grpc-gateway/v2/runtime"
	"go.uber.org/zap"
)

const DefaultMaxBody = 1 << 20

// ErrorBody is the JSON shape of every error answer. Errors is only set for
// validation failures and maps attribute paths to their messages.
type ErrorBody struct {
	Message string              `json:"message"`
	Errors  map[string][]string `json:"errors,omitempty"`
}

// Route is one HTTP endpoint registered on the gateway mux.
type Route struct {
	Method  string
	Pattern string
	Handler runtime.HandlerFunc
}

// Register adds routes to mux using grpc-gateway path templates.
func Register(mux *runtime.ServeMux, routes ...Route) error {
	for _, r := range routes {
		if err := mux.HandlePath(r.Method, r.Pattern, r.Handler); err != nil {
			return fmt.Errorf("register %s %s: %w", r.Method, r.Pattern, err)
		}
	}
	return nil
}

func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v == nil {
		return
	}
	_ = json.NewEncoder(w).Encode(v)
}

func WriteError(w http.ResponseWriter, status int, msg string) {
	WriteJSON(w, status, ErrorBody{Message: msg})
}

// Internal logs err with the trace of r and answers 500 without details.
func Internal(w http.ResponseWriter, r *http.Request, log *zap.Logger, err error) {
	obs.WithTrace(r.Context(), log).Error("request failed",
		zap.String("method", r.Method), zap.String("path", r.URL.Path), zap.Error(err))
	WriteError(w, http.StatusInternalServerError, "internal error")
}

var ErrBadRequest = errors.New("bad request")

// DecodeJSON reads at most maxBody bytes of r into dst. Unknown fields are
// accepted.
func DecodeJSON(r *http.Request, dst any, maxBody int64) error {
	if maxBody <= 0 {
		maxBody = DefaultMaxBody
	}
	body, err := io.ReadAll(io.LimitReader(r.Body, maxBody+1))
	if err != nil {
		return fmt.Errorf("%w: read body: %v", ErrBadRequest, err)
	}
	if int64(len(body)) > maxBody {
		return fmt.Errorf("%w: body exceeds %d bytes", ErrBadRequest, maxBody)
	}
	if len(body) == 0 {
		return fmt.Errorf("%w: empty body", ErrBadRequest)
	}
	if err := json.Unmarshal(body, dst); err != nil {
		return fmt.Errorf("%w: %v", ErrBadRequest, err)
	}
	return nil
}

// PathID parses a positive integer path parameter.
func PathID(params map[string]string, name string) (int64, error) {
	raw, ok := params[name]
	if !ok {
		return 0, fmt.Errorf("%w: missing %s", ErrBadRequest, name)
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("%w: invalid %s %q", ErrBadRequest, name, raw)
	}
	return id, nil
}

// QueryInt returns the integer query parameter name, or def when absent.
func QueryInt(r *http.Request, name string, def int) (int, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return def, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%w: invalid %s %q", ErrBadRequest, name, raw)
	}
	return n, nil
}
