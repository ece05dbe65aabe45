package handler

import (
	"errors"
	"log"
	"net/http"

	"affiliate-order-sync/internal/cache"
	"affiliate-order-sync/internal/service"
	"affiliate-order-sync/pkg/apierror"
	"affiliate-order-sync/pkg/response"
)

// IngestHandler exposes the ingestion job over HTTP.
type IngestHandler struct {
	ingestService *service.IngestService
}

// NewIngestHandler creates a new ingest handler.
func NewIngestHandler(ingestService *service.IngestService) *IngestHandler {
	return &IngestHandler{
		ingestService: ingestService,
	}
}

// Run handles POST /api/v1/ingest/run. It executes one ingestion run
// synchronously. The trigger takes no input parameters; the date window and
// filters are fixed by configuration.
func (h *IngestHandler) Run(w http.ResponseWriter, r *http.Request) {
	summary, err := h.ingestService.Run(r.Context())
	if err != nil {
		log.Printf("[IngestHandler] Run failed: %v", err)
		response.Error(w, apierror.InternalError("ingestion run failed"))
		return
	}

	message := "Data successfully ingested."
	if summary.NoData {
		message = "No data to process."
	}

	response.OK(w, map[string]interface{}{
		"message": message,
		"summary": summary,
	})
}

// Status handles GET /api/v1/ingest/status. It returns the last recorded run
// summary.
func (h *IngestHandler) Status(w http.ResponseWriter, r *http.Request) {
	summary, err := h.ingestService.LastSummary(r.Context())
	if err != nil {
		if errors.Is(err, cache.ErrCacheMiss) {
			response.Error(w, apierror.NotFound("no ingestion run recorded yet"))
			return
		}
		log.Printf("[IngestHandler] Failed to load last run summary: %v", err)
		response.Error(w, apierror.InternalError("failed to load run status"))
		return
	}

	response.OK(w, summary)
}
