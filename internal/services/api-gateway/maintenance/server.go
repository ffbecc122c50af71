package maintenance

import (
	"errors"
	"net/http"

	"github.com/NordCoder/Upkeep/internal/domain/maintenance"
	"github.com/NordCoder/Upkeep/internal/repository/postgres"
	"github.com/NordCoder/Upkeep/internal/services/api-gateway/httpx"
	"go.uber.org/zap"
)

const invalidMessage = "The given data was invalid."

type Server struct {
	log     *zap.Logger
	uc      *Usecase
	maxBody int64
}

func NewServer(log *zap.Logger, uc *Usecase, maxBody int64) *Server {
	return &Server{log: log.With(zap.String("component", "api.maintenance")), uc: uc, maxBody: maxBody}
}

func (s *Server) Routes() []httpx.Route {
	return []httpx.Route{
		{Method: http.MethodPost, Pattern: "/v1/maintenances/{id}/results", Handler: s.submit},
	}
}

type submitRequest struct {
	SubmittedBy int64                `json:"submitted_by"`
	Results     []maintenance.Result `json:"results"`
}

func (s *Server) submit(w http.ResponseWriter, r *http.Request, params map[string]string) {
	id, err := httpx.PathID(params, "id")
	if err != nil {
		httpx.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}
	var req submitRequest
	if err := httpx.DecodeJSON(r, &req, s.maxBody); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}
	if req.SubmittedBy <= 0 {
		httpx.WriteJSON(w, http.StatusUnprocessableEntity, httpx.ErrorBody{
			Message: invalidMessage,
			Errors:  map[string][]string{"submitted_by": {"The submitted by field is required."}},
		})
		return
	}

	sub, err := s.uc.Submit(r.Context(), id, req.SubmittedBy, req.Results)
	var verr *ValidationError
	switch {
	case errors.As(err, &verr):
		s.log.Info("submission rejected", zap.Int64("maintenance_id", id), zap.Int("failures", len(verr.Failures)))
		httpx.WriteJSON(w, http.StatusUnprocessableEntity, httpx.ErrorBody{
			Message: invalidMessage,
			Errors:  maintenance.Group(verr.Failures),
		})
		return
	case errors.Is(err, postgres.ErrNotFound):
		httpx.WriteError(w, http.StatusNotFound, "maintenance not found")
		return
	case err != nil:
		httpx.Internal(w, r, s.log, err)
		return
	}

	s.log.Info("submission stored", zap.Int64("maintenance_id", id), zap.Int64("submission_id", sub.ID))
	httpx.WriteJSON(w, http.StatusCreated, sub)
}
