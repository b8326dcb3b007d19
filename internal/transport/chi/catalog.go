package chi

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/oapi-codegen/runtime"
	"go.uber.org/zap"

	"github.com/odhiyaty/odhiyaty/internal/domain"
	logpkg "github.com/odhiyaty/odhiyaty/internal/logger"
)

// ListSheep handles GET /api/sheep. Storage failures yield an empty array.
func (s *Server) ListSheep(w http.ResponseWriter, r *http.Request) {
	var approved *bool
	if err := runtime.BindQueryParameter("form", true, false, "approved", r.URL.Query(), &approved); err != nil {
		logpkg.FromContext(r.Context()).Debug("Ignoring malformed approved parameter", zap.Error(err))
		approved = nil
	}
	writeJSON(w, http.StatusOK, s.svc.Listings.List(r.Context(), approved != nil && *approved))
}

// ListApprovedSheep handles GET /api/sheep/approved.
func (s *Server) ListApprovedSheep(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.svc.Listings.List(r.Context(), true))
}

// GetSheep handles GET /api/sheep/{id}. Errors use a bare {error} body.
func (s *Server) GetSheep(w http.ResponseWriter, r *http.Request) {
	l, err := s.svc.Listings.Get(r.Context(), chi.URLParam(r, "id"))
	switch {
	case err == nil:
		writeJSON(w, http.StatusOK, l)
	case errors.Is(err, domain.ErrNotFound):
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "Sheep not found"})
	case errors.Is(err, domain.ErrListingUnavailable):
		writeJSON(w, http.StatusForbidden, map[string]string{"error": "This listing is not available"})
	default:
		s.logger.Error("Failed to fetch sheep", zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "Failed to fetch sheep"})
	}
}

// Municipalities handles GET /api/municipalities with the data file as stored.
func (s *Server) Municipalities(w http.ResponseWriter, _ *http.Request) {
	raw, err := s.svc.Municipalities.Raw()
	if err != nil {
		s.logger.Error("Failed to load municipalities", zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "Failed to load municipalities data"})
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(raw)
}

type communesResponse struct {
	Wilaya   string   `json:"wilaya"`
	Communes []string `json:"communes"`
}

// WilayaCommunes handles GET /api/municipalities/{wilaya}.
func (s *Server) WilayaCommunes(w http.ResponseWriter, r *http.Request) {
	wilaya := chi.URLParam(r, "wilaya")
	communes, err := s.svc.Municipalities.Communes(wilaya)
	if err != nil {
		s.logger.Error("Failed to load municipalities", zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "Failed to load municipalities data"})
		return
	}
	writeJSON(w, http.StatusOK, communesResponse{Wilaya: wilaya, Communes: communes})
}

// Wilayas handles GET /api/wilayas.
func (s *Server) Wilayas(w http.ResponseWriter, _ *http.Request) {
	wilayas, err := s.svc.Municipalities.Wilayas()
	if err != nil {
		s.logger.Error("Failed to load municipalities", zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "Failed to load municipalities data"})
		return
	}
	writeJSON(w, http.StatusOK, wilayas)
}
