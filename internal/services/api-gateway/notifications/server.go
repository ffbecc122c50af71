package notifications

import (
	"errors"
	"net/http"

	"github.com/NordCoder/Upkeep/internal/domain/notification"
	"github.com/NordCoder/Upkeep/internal/repository/postgres"
	"github.com/NordCoder/Upkeep/internal/services/api-gateway/httpx"
	"go.uber.org/zap"
)

type Server struct {
	log *zap.Logger
	uc  *Usecase
}

func NewServer(log *zap.Logger, uc *Usecase) *Server {
	return &Server{log: log.With(zap.String("component", "api.notifications")), uc: uc}
}

func (s *Server) Routes() []httpx.Route {
	return []httpx.Route{
		{Method: http.MethodGet, Pattern: "/v1/users/{id}/notifications", Handler: s.list},
		{Method: http.MethodPost, Pattern: "/v1/notifications/{id}/read", Handler: s.markRead},
		{Method: http.MethodGet, Pattern: "/v1/notification-types", Handler: s.types},
	}
}

type listResponse struct {
	Notifications []*notification.Stored `json:"notifications"`
}

func (s *Server) list(w http.ResponseWriter, r *http.Request, params map[string]string) {
	userID, err := httpx.PathID(params, "id")
	if err != nil {
		httpx.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}
	limit, err := httpx.QueryInt(r, "limit", DefaultLimit)
	if err != nil {
		httpx.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	items, err := s.uc.List(r.Context(), userID, limit)
	if err != nil {
		httpx.Internal(w, r, s.log, err)
		return
	}
	if items == nil {
		items = []*notification.Stored{}
	}
	httpx.WriteJSON(w, http.StatusOK, listResponse{Notifications: items})
}

func (s *Server) markRead(w http.ResponseWriter, r *http.Request, params map[string]string) {
	id, err := httpx.PathID(params, "id")
	if err != nil {
		httpx.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}
	switch err := s.uc.MarkRead(r.Context(), id); {
	case errors.Is(err, postgres.ErrNotFound):
		httpx.WriteError(w, http.StatusNotFound, "notification not found")
	case err != nil:
		httpx.Internal(w, r, s.log, err)
	default:
		w.WriteHeader(http.StatusNoContent)
	}
}

type typesResponse struct {
	Categories []notification.Category `json:"categories"`
}

func (s *Server) types(w http.ResponseWriter, _ *http.Request, _ map[string]string) {
	httpx.WriteJSON(w, http.StatusOK, typesResponse{Categories: s.uc.Types()})
}
