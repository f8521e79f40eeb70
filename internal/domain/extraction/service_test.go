package extraction

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"sintrom-ocr/internal/domain/audit"
	"sintrom-ocr/internal/ports/ocr"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeAnalyzer struct {
	doc   ocr.Document
	err   error
	calls int
}

func (f *fakeAnalyzer) Analyze(_ context.Context, _ ocr.Input) (ocr.Document, error) {
	f.calls++
	return f.doc, f.err
}

func (f *fakeAnalyzer) ModelID() string { return "M2" }

type fakeDecoder struct {
	doc ocr.Document
	err error
}

func (f fakeDecoder) DecodeResult(_ []byte) (ocr.Document, error) { return f.doc, f.err }

type recordingAudit struct {
	mu  sync.Mutex
	in  []audit.RecordInput
	err error
}

func (r *recordingAudit) Record(_ context.Context, in audit.RecordInput) (audit.Entry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.in = append(r.in, in)
	return audit.Entry{}, r.err
}

func (r *recordingAudit) last(t *testing.T) audit.RecordInput {
	t.Helper()
	r.mu.Lock()
	defer r.mu.Unlock()
	require.NotEmpty(t, r.in)
	return r.in[len(r.in)-1]
}

func newTestService(an ocr.Analyzer, dec ocr.ResultDecoder, rec AuditRecorder) *Service {
	e := newTestEngine()
	e.newID = func() string { return "analysis-1" }
	return NewService(ServiceDeps{Engine: e, Analyzer: an, Decoder: dec, Audit: rec})
}

func jpeg() ocr.Input {
	return ocr.Input{Content: []byte("jpeg-bytes"), ContentType: "image/jpeg", Filename: "informe.jpg"}
}

func TestService_AnalyzeOK(t *testing.T) {
	an := &fakeAnalyzer{doc: validDocument("05/04/2025")}
	rec := &recordingAudit{}
	svc := newTestService(an, nil, rec)

	a, err := svc.Analyze(context.Background(), jpeg())
	require.NoError(t, err)
	assert.Len(t, a.Calendar, 13)
	assert.Equal(t, 1, an.calls)

	got := rec.last(t)
	assert.Equal(t, audit.SourceUpload, got.Source)
	assert.Equal(t, audit.OutcomeOK, got.Outcome)
	assert.Empty(t, got.Code)
	assert.Equal(t, "analysis-1", got.AnalysisID)
	assert.Equal(t, 13, got.CalendarLen)
	assert.Equal(t, 1, got.HistoryLen)
	assert.Equal(t, int64(len("jpeg-bytes")), got.SizeBytes)
	require.NotNil(t, got.Confidence)
	assert.InDelta(t, 0.9, *got.Confidence, 1e-9)
}

func TestService_AnalyzeUnsupportedMedia(t *testing.T) {
	an := &fakeAnalyzer{}
	rec := &recordingAudit{}
	svc := newTestService(an, nil, rec)

	in := jpeg()
	in.ContentType = "text/plain"
	_, err := svc.Analyze(context.Background(), in)
	require.ErrorIs(t, err, ErrUnsupportedMedia)

	rj, ok := AsRejection(err)
	require.True(t, ok)
	assert.Contains(t, rj.Detail, "text/plain")
	assert.Zero(t, an.calls, "no debe llamar al servicio externo")
	assert.Equal(t, audit.OutcomeRejected, rec.last(t).Outcome)
	assert.Equal(t, string(KindUnsupportedMedia), rec.last(t).Code)
}

func TestService_AnalyzeAcceptsContentTypeParams(t *testing.T) {
	svc := newTestService(&fakeAnalyzer{doc: validDocument("05/04/2025")}, nil, nil)

	in := jpeg()
	in.ContentType = "Image/JPEG; name=informe.jpg"
	_, err := svc.Analyze(context.Background(), in)
	assert.NoError(t, err)
}

func TestService_AnalyzeNoDocument(t *testing.T) {
	rec := &recordingAudit{}
	svc := newTestService(&fakeAnalyzer{err: fmt.Errorf("decode: %w", ocr.ErrNoDocument)}, nil, rec)

	_, err := svc.Analyze(context.Background(), jpeg())
	require.ErrorIs(t, err, ErrNoDocument)

	rj, ok := AsRejection(err)
	require.True(t, ok)
	assert.Equal(t, "Non se detectou un documento válido na imaxe", rj.Detail)
	assert.Equal(t, string(KindNoDocument), rec.last(t).Code)
}

func TestService_AnalyzeUpstream(t *testing.T) {
	rec := &recordingAudit{}
	svc := newTestService(&fakeAnalyzer{err: fmt.Errorf("%w: status=503", ocr.ErrUpstream)}, nil, rec)

	_, err := svc.Analyze(context.Background(), jpeg())
	require.ErrorIs(t, err, ocr.ErrUpstream)
	assert.Equal(t, audit.OutcomeUpstreamError, rec.last(t).Outcome)
	assert.Equal(t, "upstream_error", rec.last(t).Code)
	assert.Nil(t, rec.last(t).Confidence)
}

func TestService_AnalyzeNotConfigured(t *testing.T) {
	rec := &recordingAudit{}
	svc := newTestService(nil, nil, rec)

	_, err := svc.Analyze(context.Background(), jpeg())
	require.ErrorIs(t, err, ocr.ErrNotConfigured)
	assert.Equal(t, audit.OutcomeError, rec.last(t).Outcome)
	assert.Equal(t, "not_configured", rec.last(t).Code)
}

func TestService_AnalyzeRejectionIsAudited(t *testing.T) {
	rec := &recordingAudit{}
	svc := newTestService(&fakeAnalyzer{doc: validDocument("01/01/2025")}, nil, rec)

	_, err := svc.Analyze(context.Background(), jpeg())
	require.ErrorIs(t, err, ErrInconsistentVisitDates)
	assert.Equal(t, audit.OutcomeRejected, rec.last(t).Outcome)
	assert.Equal(t, string(KindInconsistentVisitDates), rec.last(t).Code)
}

func TestService_AuditFailureDoesNotFailRequest(t *testing.T) {
	rec := &recordingAudit{err: errors.New("db down")}
	svc := newTestService(&fakeAnalyzer{doc: validDocument("05/04/2025")}, nil, rec)

	_, err := svc.Analyze(context.Background(), jpeg())
	assert.NoError(t, err)
}

func TestService_AnalyzeResult(t *testing.T) {
	rec := &recordingAudit{}
	svc := newTestService(nil, fakeDecoder{doc: validDocument("05/04/2025")}, rec)

	a, err := svc.AnalyzeResult(context.Background(), []byte(`{}`))
	require.NoError(t, err)
	assert.Equal(t, "M2", a.Metadata.Model)
	assert.Equal(t, audit.SourceResult, rec.last(t).Source)
	assert.Equal(t, "application/json", rec.last(t).ContentType)

	svc = newTestService(nil, fakeDecoder{err: fmt.Errorf("%w: schema", ocr.ErrInvalidResult)}, rec)
	_, err = svc.AnalyzeResult(context.Background(), []byte(`{}`))
	require.ErrorIs(t, err, ocr.ErrInvalidResult)
	assert.Equal(t, audit.OutcomeRejected, rec.last(t).Outcome)
	assert.Equal(t, "invalid_result", rec.last(t).Code)

	svc = newTestService(nil, nil, rec)
	_, err = svc.AnalyzeResult(context.Background(), []byte(`{}`))
	assert.ErrorIs(t, err, ocr.ErrNotConfigured)
}

func TestClassify(t *testing.T) {
	cases := []struct {
		err     error
		outcome audit.Outcome
		code    string
	}{
		{nil, audit.OutcomeOK, ""},
		{ErrLowGlobalConfidence, audit.OutcomeRejected, string(KindLowGlobalConfidence)},
		{fmt.Errorf("wrap: %w", ErrEmptyCalendar), audit.OutcomeRejected, string(KindEmptyCalendar)},
		{ocr.ErrUpstream, audit.OutcomeUpstreamError, "upstream_error"},
		{errors.New("boom"), audit.OutcomeError, "internal_error"},
	}
	for _, c := range cases {
		o, code := classify(c.err)
		assert.Equal(t, c.outcome, o, "%v", c.err)
		assert.Equal(t, c.code, code, "%v", c.err)
	}
}
