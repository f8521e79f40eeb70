package httpclient

import (
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
)

const (
	DefaultTimeout   = 10 * time.Second
	DefaultRetryWait = 500 * time.Millisecond
	maxErrorBody     = 1 << 10
)

// Options para construir un cliente resty común a los adapters.
type Options struct {
	BaseURL string        // opcional; si se define, los requests pueden usar paths relativos
	Timeout time.Duration // por request
	Retries int           // 0 = sin reintentos
	// RetryWait es la espera inicial entre reintentos (backoff de resty).
	RetryWait time.Duration
	Headers   map[string]string
	// Transport permite inyectar un RoundTripper (p.ej. para tests).
	Transport http.RoundTripper
}

// New crea un *resty.Client con timeout, base URL y reintentos sólo ante 5xx/429 o error de red.
func New(opts Options) (*resty.Client, error) {
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	c := resty.New().
		SetTimeout(timeout).
		SetHeader("Accept", "application/json")

	if base := strings.TrimSpace(opts.BaseURL); base != "" {
		if _, err := url.ParseRequestURI(base); err != nil {
			return nil, fmt.Errorf("invalid base url: %w", err)
		}
		c.SetBaseURL(strings.TrimRight(base, "/"))
	}

	if opts.Transport != nil {
		c.SetTransport(opts.Transport)
	}

	for k, v := range opts.Headers {
		if strings.TrimSpace(k) == "" {
			continue
		}
		c.SetHeader(k, v)
	}

	if opts.Retries > 0 {
		wait := opts.RetryWait
		if wait <= 0 {
			wait = DefaultRetryWait
		}
		c.SetRetryCount(opts.Retries).
			SetRetryWaitTime(wait).
			SetRetryMaxWaitTime(8 * wait).
			AddRetryCondition(retryable)
	}

	return c, nil
}

func retryable(resp *resty.Response, err error) bool {
	if err != nil {
		return true
	}
	if resp == nil {
		return false
	}
	code := resp.StatusCode()
	return code == http.StatusTooManyRequests || code >= 500
}

// HTTPError representa una respuesta no-2xx.
type HTTPError struct {
	StatusCode int
	Body       string
}

func (e *HTTPError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("http error: status=%d", e.StatusCode)
	}
	return fmt.Sprintf("http error: status=%d body=%s", e.StatusCode, e.Body)
}

// CheckResponse devuelve *HTTPError si la respuesta no es 2xx (body recortado).
func CheckResponse(resp *resty.Response) error {
	if resp == nil {
		return &HTTPError{}
	}
	if resp.IsSuccess() {
		return nil
	}
	body := strings.TrimSpace(resp.String())
	if len(body) > maxErrorBody {
		body = body[:maxErrorBody]
	}
	return &HTTPError{StatusCode: resp.StatusCode(), Body: body}
}
