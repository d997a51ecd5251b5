package handler

//go:generate mockgen -source=handler.go -destination=mocks/mocks.go -package=mocks Service

import (
	"context"
	"encoding/base64"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/TeoSigno88/public-OCR-extractor/internal/extract"
	"github.com/TeoSigno88/public-OCR-extractor/internal/extraction/models"
	"github.com/TeoSigno88/public-OCR-extractor/internal/platform/middleware"
	"github.com/TeoSigno88/public-OCR-extractor/pkg/domerr"
	"github.com/TeoSigno88/public-OCR-extractor/pkg/httputil"
)

// ServiceName and Version identify the service in health responses.
const (
	ServiceName = "ocr-extractor"
	Version     = "1.0.0"
)

// maxUploadBytes bounds request bodies; scans beyond this are misuse.
const maxUploadBytes = 20 << 20

// Service defines the interface for extraction operations.
type Service interface {
	Extract(ctx context.Context, docType extract.DocumentType, image []byte) (*models.ExtractionResult, error)
	ExtractBatch(ctx context.Context, docType extract.DocumentType, images [][]byte) []models.BatchItem
	ValidateCodiceFiscale(ctx context.Context, code string) (bool, *models.ExtractionResult)
	DebugOCR(ctx context.Context, image []byte) (*models.DebugOCRResult, error)
}

// Handler wires extraction endpoints to the extraction service.
type Handler struct {
	service Service
	logger  *slog.Logger
}

// New constructs an extraction handler with its dependencies.
func New(service Service, logger *slog.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

// Register mounts extraction endpoints on the router.
func (h *Handler) Register(r chi.Router) {
	api := chi.NewRouter()
	api.Use(middleware.Recovery(h.logger))
	api.Use(middleware.RequestID)
	api.Use(middleware.Logger(h.logger))
	api.Use(middleware.Timeout(30 * time.Second))
	api.Use(middleware.MaxBody(maxUploadBytes))

	api.Post("/carta-identita", h.handleExtract(extract.TypeCartaIdentita))
	api.Post("/codice-fiscale", h.handleExtract(extract.TypeCodiceFiscale))
	api.Post("/passaporto", h.handleExtract(extract.TypePassaporto))
	api.With(middleware.ContentTypeJSON).Post("/validate-cf", h.handleValidate)
	api.With(middleware.ContentTypeJSON).Post("/batch", h.handleBatch)
	api.Post("/debug-ocr", h.handleDebugOCR)
	api.Get("/health", h.handleHealth)

	r.Mount("/api", api)
}

// handleExtract serves the three per-document-type extraction endpoints.
// The image arrives either as a multipart file upload or as a JSON body
// with a base64 field.
func (h *Handler) handleExtract(docType extract.DocumentType) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		requestID := middleware.GetRequestID(ctx)

		image, err := readImage(r)
		if err != nil {
			h.logger.WarnContext(ctx, "unreadable extraction request",
				"request_id", requestID,
				"document_type", docType,
				"error", err.Error(),
			)
			httputil.WriteError(w, err)
			return
		}

		result, err := h.service.Extract(ctx, docType, image)
		if err != nil {
			h.logger.ErrorContext(ctx, "extraction failed",
				"request_id", requestID,
				"document_type", docType,
				"error", err.Error(),
			)
			httputil.WriteError(w, err)
			return
		}

		httputil.WriteJSON(w, http.StatusOK, map[string]any{
			"success":       true,
			"document_type": result.DocumentType,
			"data":          result.Data,
		})
	}
}

func (h *Handler) handleValidate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req models.ValidateRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		httputil.WriteError(w, err)
		return
	}
	if strings.TrimSpace(req.CodiceFiscale) == "" {
		httputil.WriteError(w, domerr.New(domerr.CodeBadRequest, "codice_fiscale is required"))
		return
	}

	valid, result := h.service.ValidateCodiceFiscale(ctx, req.CodiceFiscale)
	if !valid {
		httputil.WriteJSON(w, http.StatusOK, map[string]any{
			"success": true,
			"valid":   false,
			"message": "invalid fiscal code",
		})
		return
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"valid":   true,
		"data":    result.Data,
	})
}

func (h *Handler) handleBatch(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := middleware.GetRequestID(ctx)

	var req models.BatchRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		httputil.WriteError(w, err)
		return
	}
	docType, err := extract.ParseDocumentType(req.DocumentType)
	if err != nil {
		httputil.WriteError(w, domerr.New(domerr.CodeBadRequest, err.Error()))
		return
	}
	if len(req.Images) == 0 {
		httputil.WriteError(w, domerr.New(domerr.CodeBadRequest, "images must not be empty"))
		return
	}

	images := make([][]byte, len(req.Images))
	for i, enc := range req.Images {
		images[i], err = decodeBase64Image(enc)
		if err != nil {
			httputil.WriteError(w, domerr.New(domerr.CodeBadRequest, "images contains invalid base64 data"))
			return
		}
	}

	items := h.service.ExtractBatch(ctx, docType, images)
	h.logger.InfoContext(ctx, "batch processed",
		"request_id", requestID,
		"document_type", docType,
		"count", len(items),
	)
	httputil.WriteJSON(w, http.StatusOK, map[string]any{
		"success":       true,
		"document_type": string(docType),
		"results":       items,
	})
}

func (h *Handler) handleDebugOCR(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	image, err := readImage(r)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	result, err := h.service.DebugOCR(ctx, image)
	if err != nil {
		h.logger.ErrorContext(ctx, "debug ocr failed",
			"request_id", middleware.GetRequestID(ctx),
			"error", err.Error(),
		)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]any{
		"success":    true,
		"raw_text":   result.RawText,
		"char_count": result.CharCount,
		"word_count": result.WordCount,
		"line_count": result.LineCount,
		"lines":      result.Lines,
		"confidence": result.Confidence,
		"advice":     result.Advice,
	})
}

func (h *Handler) handleHealth(w http.ResponseWriter, _ *http.Request) {
	httputil.WriteJSON(w, http.StatusOK, map[string]string{
		"status":  "healthy",
		"service": ServiceName,
		"version": Version,
	})
}

// readImage accepts a multipart file upload or a JSON base64 payload.
func readImage(r *http.Request) ([]byte, error) {
	contentType := r.Header.Get("Content-Type")
	if strings.HasPrefix(contentType, "multipart/form-data") {
		file, _, err := r.FormFile("file")
		if err != nil {
			return nil, domerr.Wrap(err, domerr.CodeBadRequest, "file field is required")
		}
		defer file.Close()
		data, err := io.ReadAll(file)
		if err != nil {
			return nil, domerr.Wrap(err, domerr.CodeBadRequest, "failed to read uploaded file")
		}
		return data, nil
	}

	var req models.Base64Request
	if err := httputil.DecodeJSON(r, &req); err != nil {
		return nil, err
	}
	if req.Base64 == "" {
		return nil, domerr.New(domerr.CodeBadRequest, "provide a file upload or a base64 field")
	}
	data, err := decodeBase64Image(req.Base64)
	if err != nil {
		return nil, domerr.Wrap(err, domerr.CodeBadRequest, "invalid base64 data")
	}
	return data, nil
}

// decodeBase64Image decodes a base64 image, tolerating a data-URL prefix
/// (data:image/png;base64,...).
func decodeBase64Image(enc string) ([]byte, error) {
	if i := strings.IndexByte(enc, ','); i >= 0 {
		enc = enc[i+1:]
	}
	return base64.StdEncoding.DecodeString(strings.TrimSpace(enc))
}
