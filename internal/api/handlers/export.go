package handlers

import (
	"context"
	"net/http"

	"github.com/rs/zerolog"

	"github.com/rosanasant/financas-backend/internal/api/middleware"
)

// Exporter produces a download link for a full data snapshot.
type Exporter interface {
	Export(ctx context.Context, userID string) (string, error)
}

// ExportHandler serves data-export requests.
type ExportHandler struct {
	exporter Exporter
	log      zerolog.Logger
}

// NewExportHandler creates a new export handler.
func NewExportHandler(exporter Exporter, log zerolog.Logger) *ExportHandler {
	return &ExportHandler{exporter: exporter, log: log}
}

// Export handles POST /api/export
func (h *ExportHandler) Export(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	userID, ok := middleware.UserIDFromContext(ctx)
	if !ok {
		middleware.WriteError(w, http.StatusUnauthorized, "Missing identity")
		return
	}

	url, err := h.exporter.Export(ctx, userID)
	if err != nil {
		h.log.Error().Err(err).Msg("Export failed")
		middleware.WriteError(w, http.StatusInternalServerError, "Failed to export data")
		return
	}

	middleware.WriteJSON(w, http.StatusOK, map[string]string{"downloadUrl": url})
}
