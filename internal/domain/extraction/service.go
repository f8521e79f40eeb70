package extraction

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"sintrom-ocr/internal/domain/audit"
	"sintrom-ocr/internal/platform/logger"
	"sintrom-ocr/internal/ports/ocr"
)

// AllowedContentTypes son los formatos que acepta el servicio de análisis.
var AllowedContentTypes = []string{
	"image/jpeg",
	"image/png",
	"image/heic",
	"application/pdf",
	"application/octet-stream",
}

// AuditRecorder registra metadatos operativos de cada petición.
type AuditRecorder interface {
	Record(ctx context.Context, in audit.RecordInput) (audit.Entry, error)
}

type Service struct {
	engine   *Engine
	analyzer ocr.Analyzer
	decoder  ocr.ResultDecoder
	audit    AuditRecorder
	log      logger.Logger
	now      func() time.Time
}

type ServiceDeps struct {
	Engine   *Engine
	Analyzer ocr.Analyzer      // requerido para Analyze
	Decoder  ocr.ResultDecoder // requerido para AnalyzeResult
	Audit    AuditRecorder     // opcional
	Logger   logger.Logger     // opcional
}

func NewService(deps ServiceDeps) *Service {
	log := deps.Logger
	if log == nil {
		log = logger.Nop()
	}
	return &Service{
		engine:   deps.Engine,
		analyzer: deps.Analyzer,
		decoder:  deps.Decoder,
		audit:    deps.Audit,
		log:      log,
		now:      time.Now,
	}
}

// IsAllowedContentType compara ignorando parámetros ("image/jpeg; charset=...").
func IsAllowedContentType(ct string) bool {
	base := strings.ToLower(strings.TrimSpace(ct))
	if i := strings.IndexByte(base, ';'); i >= 0 {
		base = strings.TrimSpace(base[:i])
	}
	for _, a := range AllowedContentTypes {
		if base == a {
			return true
		}
	}
	return false
}

// Analyze envía la imagen al servicio externo (una sola llamada) y procesa el resultado.
func (s *Service) Analyze(ctx context.Context, in ocr.Input) (Analysis, error) {
	started := s.now()
	rec := audit.RecordInput{
		Source:      audit.SourceUpload,
		ContentType: in.ContentType,
		SizeBytes:   int64(len(in.Content)),
	}

	if !IsAllowedContentType(in.ContentType) {
		err := reject(KindUnsupportedMedia, fmt.Sprintf("Tipo de ficheiro non soportado: %s", in.ContentType))
		s.finish(ctx, rec, started, Analysis{}, err)
		return Analysis{}, err
	}
	if s.analyzer == nil {
		s.finish(ctx, rec, started, Analysis{}, ocr.ErrNotConfigured)
		return Analysis{}, ocr.ErrNotConfigured
	}
	rec.Model = s.analyzer.ModelID()

	doc, err := s.analyzer.Analyze(ctx, in)
	if err != nil {
		if errors.Is(err, ocr.ErrNoDocument) {
			err = ErrNoDocument
		}
		s.finish(ctx, rec, started, Analysis{}, err)
		return Analysis{}, err
	}

	a, err := s.engine.Extract(doc)
	s.finish(ctx, rec, started, a, err)
	return a, err
}

// AnalyzeResult procesa un resultado de análisis ya producido (JSON), sin llamar al servicio externo.
func (s *Service) AnalyzeResult(ctx context.Context, raw []byte) (Analysis, error) {
	started := s.now()
	rec := audit.RecordInput{
		Source:      audit.SourceResult,
		ContentType: "application/json",
		SizeBytes:   int64(len(raw)),
		Model:       s.engine.model,
	}
	if s.decoder == nil {
		s.finish(ctx, rec, started, Analysis{}, ocr.ErrNotConfigured)
		return Analysis{}, ocr.ErrNotConfigured
	}

	doc, err := s.decoder.DecodeResult(raw)
	if err != nil {
		if errors.Is(err, ocr.ErrNoDocument) {
			err = ErrNoDocument
		}
		s.finish(ctx, rec, started, Analysis{}, err)
		return Analysis{}, err
	}

	a, err := s.engine.Extract(doc)
	s.finish(ctx, rec, started, a, err)
	return a, err
}

// finish deja log y auditoría. Un fallo de auditoría nunca tumba la petición.
func (s *Service) finish(ctx context.Context, rec audit.RecordInput, started time.Time, a Analysis, err error) {
	rec.Duration = s.now().Sub(started)
	rec.Outcome, rec.Code = classify(err)
	if err == nil {
		c := a.Metadata.Confidence
		rec.Confidence = &c
		rec.AnalysisID = a.Metadata.AnalysisID
		rec.CalendarLen = len(a.Calendar)
		rec.HistoryLen = len(a.History)
		if a.Metadata.Model != "" {
			rec.Model = a.Metadata.Model
		}
	}

	fields := map[string]any{
		"source":      string(rec.Source),
		"outcome":     string(rec.Outcome),
		"duration_ms": rec.Duration.Milliseconds(),
	}
	if rec.Code != "" {
		fields["code"] = rec.Code
	}
	switch rec.Outcome {
	case audit.OutcomeOK:
		fields["analysis_id"] = rec.AnalysisID
		fields["calendar_days"] = rec.CalendarLen
		s.log.Info("extraction completed", fields)
	case audit.OutcomeRejected:
		s.log.Warn("extraction rejected", fields)
	default:
		fields["error"] = err
		s.log.Error("extraction failed", fields)
	}

	if s.audit == nil {
		return
	}
	if _, aerr := s.audit.Record(ctx, rec); aerr != nil {
		s.log.Warn("audit record failed", map[string]any{"error": aerr})
	}
}

func classify(err error) (audit.Outcome, string) {
	if err == nil {
		return audit.OutcomeOK, ""
	}
	if rj, ok := AsRejection(err); ok {
		return audit.OutcomeRejected, string(rj.Kind)
	}
	switch {
	case errors.Is(err, ocr.ErrInvalidResult):
		return audit.OutcomeRejected, "invalid_result"
	case errors.Is(err, ocr.ErrUpstream):
		return audit.OutcomeUpstreamError, "upstream_error"
	case errors.Is(err, ocr.ErrNotConfigured):
		return audit.OutcomeError, "not_configured"
	default:
		return audit.OutcomeError, "internal_error"
	}
}
