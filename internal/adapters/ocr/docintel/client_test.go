package docintel

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"sync/atomic"
	"testing"
	"time"

	"sintrom-ocr/internal/ports/ocr"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func loadFixture(t *testing.T) []byte {
	t.Helper()
	b, err := os.ReadFile("testdata/analyze_result.json")
	require.NoError(t, err)
	return b
}

// fakeService simula submit (202 + Operation-Location) y N polls "running" antes de "succeeded".
func fakeService(t *testing.T, runningPolls int32, final string) (*httptest.Server, *int32) {
	t.Helper()
	var polls int32
	mux := http.NewServeMux()
	var srv *httptest.Server

	mux.HandleFunc("/documentintelligence/documentModels/M2:analyze", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "secret", r.Header.Get(apiKeyHeader))
		assert.Equal(t, "application/octet-stream", r.Header.Get("Content-Type"))
		assert.Equal(t, DefaultAPIVersion, r.URL.Query().Get("api-version"))
		w.Header().Set("Operation-Location", srv.URL+"/documentintelligence/documentModels/M2/analyzeResults/op-1?api-version="+DefaultAPIVersion)
		w.WriteHeader(http.StatusAccepted)
	})
	mux.HandleFunc("/documentintelligence/documentModels/M2/analyzeResults/op-1", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "secret", r.Header.Get(apiKeyHeader))
		w.Header().Set("Content-Type", "application/json")
		if atomic.AddInt32(&polls, 1) <= runningPolls {
			_, _ = w.Write([]byte(`{"status":"running"}`))
			return
		}
		_, _ = w.Write([]byte(final))
	})

	srv = httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv, &polls
}

func newTestClient(t *testing.T, endpoint string) *Client {
	t.Helper()
	c, err := NewClient(Config{
		Endpoint:     endpoint + "/",
		APIKey:       "secret",
		PollInterval: time.Millisecond,
		MaxPolls:     5,
	}, nil)
	require.NoError(t, err)
	return c
}

func TestClient_AnalyzeSucceeded(t *testing.T) {
	srv, polls := fakeService(t, 2, string(loadFixture(t)))
	c := newTestClient(t, srv.URL)

	doc, err := c.Analyze(context.Background(), ocr.Input{Content: []byte("jpeg-bytes"), ContentType: "image/jpeg"})
	require.NoError(t, err)
	assert.Equal(t, int32(3), atomic.LoadInt32(polls))

	assert.Equal(t, "M2", doc.DocType)
	v, ok := doc.Text("fecha visita")
	require.True(t, ok)
	assert.Equal(t, "14/01/2025", v)

	rows := doc.Table("DOSE")
	require.Len(t, rows, 2)
	cell, ok := rows[1].Cell("SÁBADO")
	require.True(t, ok)
	assert.Equal(t, "CONTROL", cell.Content)
	_, ok = rows[1].Cell("DOMINGO")
	assert.False(t, ok)

	// la fila sin valueObject no llega como fila
	assert.Len(t, doc.Table("RUV"), 1)
}

func TestClient_AnalyzeFailedOperation(t *testing.T) {
	srv, _ := fakeService(t, 0, `{"status":"failed","error":{"code":"InvalidContent","message":"corrupt image"}}`)
	c := newTestClient(t, srv.URL)

	_, err := c.Analyze(context.Background(), ocr.Input{Content: []byte("x")})
	require.ErrorIs(t, err, ocr.ErrUpstream)
	assert.Contains(t, err.Error(), "InvalidContent")
}

func TestClient_AnalyzeNeverFinishes(t *testing.T) {
	srv, polls := fakeService(t, 100, `{}`)
	c := newTestClient(t, srv.URL)

	_, err := c.Analyze(context.Background(), ocr.Input{Content: []byte("x")})
	require.ErrorIs(t, err, ocr.ErrUpstream)
	assert.Equal(t, int32(5), atomic.LoadInt32(polls))
}

func TestClient_AnalyzeSubmitRejected(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"error":{"code":"401","message":"Access denied"}}`))
	}))
	defer srv.Close()
	c := newTestClient(t, srv.URL)

	_, err := c.Analyze(context.Background(), ocr.Input{Content: []byte("x")})
	require.ErrorIs(t, err, ocr.ErrUpstream)
	assert.Contains(t, err.Error(), "status=401")
}

func TestClient_AnalyzeCanceledContext(t *testing.T) {
	srv, _ := fakeService(t, 100, `{}`)
	c, err := NewClient(Config{Endpoint: srv.URL, APIKey: "secret", PollInterval: time.Hour}, nil)
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err = c.Analyze(ctx, ocr.Input{Content: []byte("x")})
	require.ErrorIs(t, err, ocr.ErrUpstream)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestClient_NotConfigured(t *testing.T) {
	c, err := NewClient(Config{}, nil)
	require.NoError(t, err)
	assert.False(t, c.IsConfigured())
	assert.Equal(t, DefaultModelID, c.ModelID())

	_, err = c.Analyze(context.Background(), ocr.Input{Content: []byte("x")})
	assert.ErrorIs(t, err, ocr.ErrNotConfigured)
}

func TestDecode(t *testing.T) {
	doc, err := Decode(loadFixture(t))
	require.NoError(t, err)
	f, ok := doc.Field("inr")
	require.True(t, ok)
	require.NotNil(t, f.Confidence)
	assert.Equal(t, 0.95, *f.Confidence)

	// analyzeResult suelto
	doc, err = Decode([]byte(`{"modelId":"M2","documents":[{"docType":"M2","fields":{"inr":{"type":"string","content":"2.1"}}}]}`))
	require.NoError(t, err)
	v, _ := doc.Text("inr")
	assert.Equal(t, "2.1", v)
	f, _ = doc.Field("inr")
	assert.Nil(t, f.Confidence)
}

func TestDecode_Errors(t *testing.T) {
	_, err := Decode([]byte(`{"status":"succeeded","analyzeResult":{"documents":[]}}`))
	assert.ErrorIs(t, err, ocr.ErrNoDocument)

	_, err = Decode([]byte(`not json`))
	assert.ErrorIs(t, err, ocr.ErrInvalidResult)

	_, err = Decode([]byte(`{"foo":1}`))
	assert.ErrorIs(t, err, ocr.ErrInvalidResult)

	_, err = Decode([]byte(`{"documents":[{"fields":{"inr":{"content":"2.5","confidence":1.7}}}]}`))
	assert.ErrorIs(t, err, ocr.ErrInvalidResult)

	_, err = Decode([]byte(`{"status":"failed","analyzeResult":{"documents":[]},"error":{"code":"X","message":"boom"}}`))
	assert.ErrorIs(t, err, ocr.ErrUpstream)
}
