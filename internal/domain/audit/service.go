package audit

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

var (
	ErrInvalidInput = errors.New("invalid input")
)

const (
	DefaultLimit = 50
	MaxLimit     = 500
)

type Service struct {
	repo Repository
	now  func() time.Time
}

func NewService(repo Repository) *Service {
	return &Service{
		repo: repo,
		now:  time.Now,
	}
}

type RecordInput struct {
	Source      Source
	ContentType string
	SizeBytes   int64
	Outcome     Outcome
	Code        string
	Confidence  *float64
	Model       string
	AnalysisID  string
	CalendarLen int
	HistoryLen  int
	Duration    time.Duration
}

func (s *Service) Record(ctx context.Context, in RecordInput) (Entry, error) {
	if strings.TrimSpace(string(in.Outcome)) == "" || strings.TrimSpace(string(in.Source)) == "" {
		return Entry{}, ErrInvalidInput
	}
	if in.SizeBytes < 0 || in.CalendarLen < 0 || in.HistoryLen < 0 {
		return Entry{}, ErrInvalidInput
	}

	e := Entry{
		ID:          uuid.NewString(),
		CreatedAt:   s.now().UTC(),
		Source:      in.Source,
		ContentType: strings.TrimSpace(in.ContentType),
		SizeBytes:   in.SizeBytes,
		Outcome:     in.Outcome,
		Code:        strings.TrimSpace(in.Code),
		Confidence:  in.Confidence,
		Model:       strings.TrimSpace(in.Model),
		AnalysisID:  strings.TrimSpace(in.AnalysisID),
		CalendarLen: in.CalendarLen,
		HistoryLen:  in.HistoryLen,
		DurationMS:  in.Duration.Milliseconds(),
	}

	if err := s.repo.Create(ctx, e); err != nil {
		return Entry{}, err
	}
	return e, nil
}

// ListRecent devuelve las últimas entradas, más nuevas primero.
func (s *Service) ListRecent(ctx context.Context, limit int) ([]Entry, error) {
	if limit <= 0 {
		limit = DefaultLimit
	}
	if limit > MaxLimit {
		limit = MaxLimit
	}
	return s.repo.ListRecent(ctx, limit)
}
