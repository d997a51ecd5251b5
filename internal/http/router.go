// Package httpapi assembles the public router. Transport concerns stay here;
// extraction logic lives in the extraction packages.
package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/TeoSigno88/public-OCR-extractor/internal/extraction/handler"
	"github.com/TeoSigno88/public-OCR-extractor/internal/platform/metrics"
	"github.com/TeoSigno88/public-OCR-extractor/pkg/httputil"
)

// NewRouter mounts the extraction API, the Prometheus scrape endpoint and a
// small root index describing the service.
func NewRouter(h *handler.Handler, httpMetrics *metrics.HTTP) http.Handler {
	r := chi.NewRouter()
	if httpMetrics != nil {
		r.Use(httpMetrics.Middleware)
	}

	h.Register(r)
	r.Method(http.MethodGet, "/metrics", metrics.Handler())
	r.Get("/", handleIndex)

	return r
}

func handleIndex(w http.ResponseWriter, _ *http.Request) {
	httputil.WriteJSON(w, http.StatusOK, map[string]any{
		"service": handler.ServiceName,
		"version": handler.Version,
		"endpoints": map[string]string{
			"POST /api/carta-identita": "extract fields from an identity card image",
			"POST /api/codice-fiscale": "extract and decode a fiscal code card",
			"POST /api/passaporto":     "extract fields from a passport image",
			"POST /api/validate-cf":    "validate a fiscal code string",
			"POST /api/batch":          "extract a batch of images of one document type",
			"POST /api/debug-ocr":      "raw OCR output with quality advice",
			"GET /api/health":          "service health",
			"GET /metrics":             "prometheus metrics",
		},
	})
}
