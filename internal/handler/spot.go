package handler

import (
	"errors"
	"io"
	"net/http"

	"go.uber.org/zap"

	"github.com/rc397/FlavorMap/internal/domain"
	"github.com/rc397/FlavorMap/internal/geo"
	"github.com/rc397/FlavorMap/internal/metrics"
	"github.com/rc397/FlavorMap/internal/service"
)

type listSpotsResponse struct {
	Spots []domain.Spot `json:"spots"`
}

type createSpotResponse struct {
	Spot domain.Spot `json:"spot"`
}

// listSpots handles GET /api/spots.
func (s *Server) listSpots(w http.ResponseWriter, r *http.Request) {
	spots, err := s.spots.List(r.Context())
	if err != nil {
		s.internalError(w, r, "list spots", err)
		return
	}
	if spots == nil {
		spots = []domain.Spot{}
	}
	s.writeJSON(w, http.StatusOK, listSpotsResponse{Spots: spots})
}

// createSpot handles POST /api/spots.
// Decode and validation failures return 400 and never reach the store.
func (s *Server) createSpot(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			s.writeError(w, http.StatusRequestEntityTooLarge, msgBodyTooLarge)
			return
		}
		s.writeError(w, http.StatusBadRequest, msgUnreadableBody)
		return
	}

	in, err := service.DecodeSpotPayload(body)
	if err != nil {
		s.rejectSpot(w, err)
		return
	}

	spot, err := s.spots.Create(r.Context(), in)
	if err != nil {
		if errors.Is(err, domain.ErrValidation) {
			s.rejectSpot(w, err)
			return
		}
		s.internalError(w, r, "create spot", err)
		return
	}
	s.writeJSON(w, http.StatusCreated, createSpotResponse{Spot: spot})
}

// rejectSpot answers 400 with the validation message.
func (s *Server) rejectSpot(w http.ResponseWriter, err error) {
	msg := err.Error()
	field := ""
	var verr *domain.ValidationError
	if errors.As(err, &verr) {
		msg = verr.Message
		field = verr.Field
	}
	metrics.ObserveSpotRejected(field)
	s.logger.Debug("spot rejected", zap.String("field", field), zap.String("reason", msg))
	s.writeError(w, http.StatusBadRequest, msg)
}

// spotsGeoJSON handles GET /api/spots.geojson.
func (s *Server) spotsGeoJSON(w http.ResponseWriter, r *http.Request) {
	spots, err := s.spots.List(r.Context())
	if err != nil {
		s.internalError(w, r, "list spots", err)
		return
	}
	data, err := geo.Marshal(spots)
	if err != nil {
		s.internalError(w, r, "encode geojson", err)
		return
	}
	w.Header().Set("Content-Type", geo.ContentType)
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(data); err != nil {
		s.logger.Warn("write geojson failed", zap.Error(err))
	}
}
