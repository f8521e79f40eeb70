package docintel

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"sintrom-ocr/internal/platform/httpclient"
	"sintrom-ocr/internal/platform/logger"
	"sintrom-ocr/internal/ports/ocr"

	"github.com/go-resty/resty/v2"
)

const (
	DefaultModelID      = "M2"
	DefaultAPIVersion   = "2024-11-30"
	DefaultPollInterval = time.Second
	DefaultMaxPolls     = 60

	apiKeyHeader = "Ocp-Apim-Subscription-Key"
	analyzePath  = "/documentintelligence/documentModels/{modelId}:analyze"
)

// Config del cliente de Azure Document Intelligence.
// Endpoint y APIKey vienen de env (DOC_INTEL_ENDPOINT, DOC_INTEL_KEY).
type Config struct {
	Endpoint   string
	APIKey     string
	ModelID    string
	APIVersion string

	// Timeout por request HTTP (submit y cada poll).
	Timeout      time.Duration
	PollInterval time.Duration
	MaxPolls     int
	// Retries ante 5xx/429 o error de red. 0 = sin reintentos.
	Retries int

	// Opcional (tests).
	Transport http.RoundTripper
}

// Client implementa ocr.Analyzer y ocr.ResultDecoder.
// Es de sólo lectura tras construirse: se comparte entre peticiones.
type Client struct {
	http         *resty.Client
	endpoint     string
	apiKey       string
	modelID      string
	apiVersion   string
	pollInterval time.Duration
	maxPolls     int
	log          logger.Logger
}

func NewClient(cfg Config, log logger.Logger) (*Client, error) {
	if log == nil {
		log = logger.Nop()
	}
	endpoint := strings.TrimRight(strings.TrimSpace(cfg.Endpoint), "/")

	hc, err := httpclient.New(httpclient.Options{
		BaseURL:   endpoint,
		Timeout:   cfg.Timeout,
		Retries:   cfg.Retries,
		Transport: cfg.Transport,
	})
	if err != nil {
		return nil, err
	}

	c := &Client{
		http:         hc,
		endpoint:     endpoint,
		apiKey:       strings.TrimSpace(cfg.APIKey),
		modelID:      strings.TrimSpace(cfg.ModelID),
		apiVersion:   strings.TrimSpace(cfg.APIVersion),
		pollInterval: cfg.PollInterval,
		maxPolls:     cfg.MaxPolls,
		log:          log.With(map[string]any{"component": "docintel"}),
	}
	if c.modelID == "" {
		c.modelID = DefaultModelID
	}
	if c.apiVersion == "" {
		c.apiVersion = DefaultAPIVersion
	}
	if c.pollInterval <= 0 {
		c.pollInterval = DefaultPollInterval
	}
	if c.maxPolls <= 0 {
		c.maxPolls = DefaultMaxPolls
	}
	return c, nil
}

func (c *Client) IsConfigured() bool {
	return c != nil && c.endpoint != "" && c.apiKey != ""
}

func (c *Client) ModelID() string { return c.modelID }

// DecodeResult convierte un resultado ya producido (JSON de analyzeResults) en Document.
func (c *Client) DecodeResult(raw []byte) (ocr.Document, error) {
	return Decode(raw)
}

// Analyze envía la imagen, espera a que termine la operación y devuelve documents[0].
func (c *Client) Analyze(ctx context.Context, in ocr.Input) (ocr.Document, error) {
	if !c.IsConfigured() {
		return ocr.Document{}, ocr.ErrNotConfigured
	}
	if len(in.Content) == 0 {
		return ocr.Document{}, fmt.Errorf("%w: empty content", ocr.ErrInvalidResult)
	}

	started := time.Now()
	opURL, err := c.submit(ctx, in)
	if err != nil {
		return ocr.Document{}, err
	}

	raw, polls, err := c.poll(ctx, opURL)
	if err != nil {
		return ocr.Document{}, err
	}

	doc, err := Decode(raw)
	if err != nil {
		return ocr.Document{}, err
	}

	c.log.Info("analysis completed", map[string]any{
		"model":       c.modelID,
		"bytes":       len(in.Content),
		"polls":       polls,
		"duration_ms": time.Since(started).Milliseconds(),
		"fields":      len(doc.Fields),
	})
	return doc, nil
}

func (c *Client) submit(ctx context.Context, in ocr.Input) (string, error) {
	// El servicio detecta el formato; igual que el cliente oficial, se envía como octet-stream.
	resp, err := c.http.R().
		SetContext(ctx).
		SetHeader(apiKeyHeader, c.apiKey).
		SetHeader("Content-Type", "application/octet-stream").
		SetPathParam("modelId", c.modelID).
		SetQueryParam("api-version", c.apiVersion).
		SetBody(in.Content).
		Post(analyzePath)
	if err != nil {
		return "", fmt.Errorf("%w: submit: %v", ocr.ErrUpstream, err)
	}
	if err := httpclient.CheckResponse(resp); err != nil {
		c.log.Error("analysis submit rejected", map[string]any{"status": resp.StatusCode()})
		return "", fmt.Errorf("%w: submit: %v", ocr.ErrUpstream, err)
	}

	opURL := strings.TrimSpace(resp.Header().Get("Operation-Location"))
	if opURL == "" {
		return "", fmt.Errorf("%w: submit: missing Operation-Location", ocr.ErrUpstream)
	}
	return opURL, nil
}

func (c *Client) poll(ctx context.Context, opURL string) ([]byte, int, error) {
	wait := c.pollInterval
	for i := 1; i <= c.maxPolls; i++ {
		timer := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil, i - 1, fmt.Errorf("%w: poll: %w", ocr.ErrUpstream, ctx.Err())
		case <-timer.C:
		}

		resp, err := c.http.R().
			SetContext(ctx).
			SetHeader(apiKeyHeader, c.apiKey).
			Get(opURL)
		if err != nil {
			return nil, i, fmt.Errorf("%w: poll: %v", ocr.ErrUpstream, err)
		}
		if err := httpclient.CheckResponse(resp); err != nil {
			return nil, i, fmt.Errorf("%w: poll: %v", ocr.ErrUpstream, err)
		}

		var op analyzeOperation
		if err := json.Unmarshal(resp.Body(), &op); err != nil {
			return nil, i, fmt.Errorf("%w: poll: %v", ocr.ErrUpstream, err)
		}

		switch strings.ToLower(op.Status) {
		case statusSucceeded:
			return resp.Body(), i, nil
		case statusFailed, statusCanceled:
			c.log.Warn("analysis failed", map[string]any{"status": op.Status})
			return nil, i, operationError(op)
		case statusNotStarted, statusRunning:
			wait = retryAfter(resp, c.pollInterval)
		default:
			return nil, i, fmt.Errorf("%w: poll: unknown status %q", ocr.ErrUpstream, op.Status)
		}
	}
	return nil, c.maxPolls, fmt.Errorf("%w: analysis did not finish after %d polls", ocr.ErrUpstream, c.maxPolls)
}

// retryAfter respeta la cabecera Retry-After (segundos) si viene.
func retryAfter(resp *resty.Response, def time.Duration) time.Duration {
	v := strings.TrimSpace(resp.Header().Get("Retry-After"))
	if v == "" {
		return def
	}
	secs, err := strconv.Atoi(v)
	if err != nil || secs <= 0 {
		return def
	}
	d := time.Duration(secs) * time.Second
	if d > 10*def && def > 0 {
		return 10 * def
	}
	return d
}
