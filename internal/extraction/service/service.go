package service

//go:generate mockgen -source=service.go -destination=mocks/mocks.go -package=mocks Engine,Cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"log/slog"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"

	"github.com/TeoSigno88/public-OCR-extractor/internal/extract"
	"github.com/TeoSigno88/public-OCR-extractor/internal/extraction/metrics"
	"github.com/TeoSigno88/public-OCR-extractor/internal/extraction/models"
	"github.com/TeoSigno88/public-OCR-extractor/internal/fiscalcode"
	"github.com/TeoSigno88/public-OCR-extractor/internal/imaging"
	"github.com/TeoSigno88/public-OCR-extractor/internal/ocr"
	"github.com/TeoSigno88/public-OCR-extractor/pkg/domerr"
)

// Engine is the text recognition collaborator.
type Engine interface {
	Name() string
	Recognize(ctx context.Context, in ocr.Input) (ocr.Result, error)
}

// Cache stores serialized extraction results keyed by image digest. A miss
// is (nil, false, nil); cache failures never fail an extraction.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
}

// Service orchestrates the extraction pipeline: decode, preprocess,
// recognize, extract. It is stateless across requests and safe for
// concurrent use.
type Service struct {
	engine     Engine
	cache      Cache
	logger     *slog.Logger
	metrics    *metrics.Metrics
	tracer     trace.Tracer
	imgOpts    imaging.Options
	language   string
	cacheTTL   time.Duration
	batchLimit int
}

type Option func(s *Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) {
		s.metrics = m
	}
}

func WithCache(cache Cache, ttl time.Duration) Option {
	return func(s *Service) {
		s.cache = cache
		s.cacheTTL = ttl
	}
}

func WithImagingOptions(opts imaging.Options) Option {
	return func(s *Service) {
		s.imgOpts = opts
	}
}

func WithLanguage(language string) Option {
	return func(s *Service) {
		s.language = language
	}
}

func WithBatchLimit(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.batchLimit = n
		}
	}
}

// New constructs a Service around a recognition engine.
func New(engine Engine, opts ...Option) *Service {
	s := &Service{
		engine:     engine,
		language:   "ita",
		batchLimit: 4,
		tracer:     otel.Tracer("extraction"),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Extract runs the full pipeline on one encoded image. Unusable OCR output
// degrades to the all-null result shape rather than failing: callers get a
// stable record whose values simply stay null.
func (s *Service) Extract(ctx context.Context, docType extract.DocumentType, image []byte) (*models.ExtractionResult, error) {
	start := time.Now()
	ctx, span := s.tracer.Start(ctx, "extraction.Extract",
		trace.WithAttributes(attribute.String("document_type", string(docType))))
	defer span.End()
	defer s.observeExtraction(start)

	key := cacheKey(docType, image)
	if out, ok := s.cacheGet(ctx, key); ok {
		s.record(docType, "cache_hit")
		return out, nil
	}

	img, err := imaging.Decode(image)
	if err != nil {
		s.record(docType, "invalid_image")
		return nil, domerr.Wrap(err, domerr.CodeUnprocessable, "image cannot be decoded")
	}

	_, preSpan := s.tracer.Start(ctx, "extraction.Preprocess")
	encoded, err := imaging.EncodePNG(imaging.Preprocess(img, s.imgOpts))
	preSpan.End()
	if err != nil {
		s.record(docType, "error")
		return nil, domerr.Wrap(err, domerr.CodeInternal, "failed to encode preprocessed image")
	}

	engineStart := time.Now()
	ocrCtx, ocrSpan := s.tracer.Start(ctx, "extraction.Recognize")
	result, err := s.engine.Recognize(ocrCtx, ocr.Input{Image: encoded, Languages: []string{s.language}})
	ocrSpan.End()
	s.observeEngine(engineStart)
	if err != nil {
		s.record(docType, "engine_error")
		return nil, domerr.Wrap(err, domerr.CodeInternal, "text recognition failed")
	}

	res, err := extract.Extract(docType, result.PlainText)
	if err != nil {
		if !errors.Is(err, extract.ErrEmptyText) {
			s.record(docType, "error")
			return nil, domerr.Wrap(err, domerr.CodeUnprocessable, "extraction failed")
		}
		// Too little text to parse: return the empty shape instead of erroring.
		s.logWarn(ctx, "recognized text too short to parse",
			"document_type", docType,
			"chars", len(strings.TrimSpace(result.PlainText)),
		)
		s.record(docType, "empty")
		return models.FromExtract(res), nil
	}

	out := models.FromExtract(res)
	s.cacheSet(ctx, key, out)
	s.record(docType, "success")
	s.logInfo(ctx, "document extracted",
		"document_type", docType,
		"engine", s.engine.Name(),
		"inconsistencies", len(res.Inconsistencies),
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return out, nil
}

// ExtractBatch runs Extract over several images of the same document type
// with bounded concurrency. Per-image failures land in the corresponding
// item; the batch itself always completes.
func (s *Service) ExtractBatch(ctx context.Context, docType extract.DocumentType, images [][]byte) []models.BatchItem {
	items := make([]models.BatchItem, len(images))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(s.batchLimit)

	for i, image := range images {
		g.Go(func() error {
			res, err := s.Extract(ctx, docType, image)
			if err != nil {
				items[i] = models.BatchItem{Index: i, Error: err.Error()}
				return nil
			}
			items[i] = models.BatchItem{Index: i, Success: true, Data: res.Data}
			return nil
		})
	}
	_ = g.Wait()
	return items
}

// ValidateCodiceFiscale validates and decodes an already extracted code
// without any OCR stage.
func (s *Service) ValidateCodiceFiscale(ctx context.Context, code string) (bool, *models.ExtractionResult) {
	_, span := s.tracer.Start(ctx, "extraction.ValidateCodiceFiscale")
	defer span.End()

	code = strings.ToUpper(strings.TrimSpace(code))
	if !fiscalcode.Validate(code) {
		return false, nil
	}
	return true, models.FromExtract(extract.DecodeFiscalCode(code))
}

// DebugOCR exposes the raw recognition output for an image, with quality
// advice, skipping all field parsing.
func (s *Service) DebugOCR(ctx context.Context, image []byte) (*models.DebugOCRResult, error) {
	ctx, span := s.tracer.Start(ctx, "extraction.DebugOCR")
	defer span.End()

	img, err := imaging.Decode(image)
	if err != nil {
		return nil, domerr.Wrap(err, domerr.CodeUnprocessable, "image cannot be decoded")
	}

	encoded, err := imaging.EncodePNG(imaging.Preprocess(img, s.imgOpts))
	if err != nil {
		return nil, domerr.Wrap(err, domerr.CodeInternal, "failed to encode preprocessed image")
	}

	engineStart := time.Now()
	result, err := s.engine.Recognize(ctx, ocr.Input{Image: encoded, Languages: []string{s.language}})
	s.observeEngine(engineStart)
	if err != nil {
		return nil, domerr.Wrap(err, domerr.CodeInternal, "text recognition failed")
	}

	var lines []string
	for _, line := range strings.Split(result.PlainText, "\n") {
		if strings.TrimSpace(line) != "" {
			lines = append(lines, line)
		}
	}
	bounds := img.Bounds()
	return &models.DebugOCRResult{
		RawText:    result.PlainText,
		CharCount:  len(result.PlainText),
		WordCount:  len(strings.Fields(result.PlainText)),
		LineCount:  len(lines),
		Lines:      lines,
		Confidence: result.Confidence,
		Advice:     qualityAdvice(bounds.Dx(), bounds.Dy(), result.PlainText),
	}, nil
}

func qualityAdvice(width, height int, text string) []string {
	var advice []string
	if width < 1000 || height < 700 {
		advice = append(advice, "low resolution: 1500x1000+ pixels recommended")
	}
	if len(strings.TrimSpace(text)) < 50 {
		advice = append(advice, "very little text recognized: image may be blurry or poorly lit")
	}
	if len(strings.Fields(text)) < 10 {
		advice = append(advice, "few words recognized: try a sharper image")
	}
	if advice == nil {
		return []string{"image quality looks adequate"}
	}
	return append(advice, "use a 300 DPI scan or a well lit, focused photo")
}

func cacheKey(docType extract.DocumentType, image []byte) string {
	sum := sha256.Sum256(image)
	return "extract:" + string(docType) + ":" + hex.EncodeToString(sum[:])
}

func (s *Service) cacheGet(ctx context.Context, key string) (*models.ExtractionResult, bool) {
	if s.cache == nil {
		return nil, false
	}
	raw, ok, err := s.cache.Get(ctx, key)
	if err != nil {
		s.logWarn(ctx, "cache get failed", "error", err)
		return nil, false
	}
	if !ok {
		return nil, false
	}
	var out models.ExtractionResult
	if err := json.Unmarshal(raw, &out); err != nil {
		s.logWarn(ctx, "cache entry corrupt", "error", err)
		return nil, false
	}
	if s.metrics != nil {
		s.metrics.IncrementCacheHit()
	}
	return &out, true
}

func (s *Service) cacheSet(ctx context.Context, key string, out *models.ExtractionResult) {
	if s.cache == nil {
		return
	}
	raw, err := json.Marshal(out)
	if err != nil {
		return
	}
	if err := s.cache.Set(ctx, key, raw, s.cacheTTL); err != nil {
		s.logWarn(ctx, "cache set failed", "error", err)
	}
}

func (s *Service) record(docType extract.DocumentType, outcome string) {
	if s.metrics != nil {
		s.metrics.RecordExtraction(string(docType), outcome)
	}
}

func (s *Service) observeExtraction(start time.Time) {
	if s.metrics != nil {
		s.metrics.ObserveExtraction(start)
	}
}

func (s *Service) observeEngine(start time.Time) {
	if s.metrics != nil {
		s.metrics.ObserveEngine(start)
	}
}

func (s *Service) logInfo(ctx context.Context, msg string, args ...any) {
	if s.logger != nil {
		s.logger.InfoContext(ctx, msg, args...)
	}
}

func (s *Service) logWarn(ctx context.Context, msg string, args ...any) {
	if s.logger != nil {
		s.logger.WarnContext(ctx, msg, args...)
	}
}
