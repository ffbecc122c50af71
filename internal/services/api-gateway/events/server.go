package events

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/NordCoder/Upkeep/internal/domain/event"
	"github.com/NordCoder/Upkeep/internal/services/api-gateway/httpx"
	"go.uber.org/zap"
)

type Server struct {
	log     *zap.Logger
	uc      *Usecase
	maxBody int64
}

func NewServer(log *zap.Logger, uc *Usecase, maxBody int64) *Server {
	return &Server{log: log.With(zap.String("component", "api.events")), uc: uc, maxBody: maxBody}
}

func (s *Server) Routes() []httpx.Route {
	return []httpx.Route{
		{Method: http.MethodPost, Pattern: "/v1/events/{kind}", Handler: s.raise},
	}
}

type raiseResponse struct {
	ID   string     `json:"id"`
	Kind event.Kind `json:"kind"`
}

func (s *Server) raise(w http.ResponseWriter, r *http.Request, params map[string]string) {
	var payload json.RawMessage
	if err := httpx.DecodeJSON(r, &payload, s.maxBody); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	ev, err := s.uc.Raise(r.Context(), event.Kind(params["kind"]), payload)
	switch {
	case errors.Is(err, event.ErrUnknownKind):
		httpx.WriteError(w, http.StatusNotFound, err.Error())
		return
	case errors.Is(err, ErrInvalidPayload):
		httpx.WriteError(w, http.StatusBadRequest, err.Error())
		return
	case err != nil:
		httpx.Internal(w, r, s.log, err)
		return
	}

	s.log.Debug("event raised", zap.String("kind", string(ev.Kind)), zap.String("event_id", ev.ID))
	httpx.WriteJSON(w, http.StatusAccepted, raiseResponse{ID: ev.ID, Kind: ev.Kind})
}
