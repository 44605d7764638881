// Package fetch retrieves the record list from the remote endpoint.
package fetch

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/go-faster/errors"
	"github.com/go-resty/resty/v2"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/idilsaglam/feedpager/internal/metrics"
	"github.com/idilsaglam/feedpager/internal/model"
)

// Config holds the fetcher configuration.
type Config struct {
	Endpoint string

	// Timeout bounds one request. Zero means no timeout.
	Timeout time.Duration

	// Token, when it returns a non-empty string, is sent as a bearer token.
	Token func() string

	UserAgent string
}

// Client issues a single GET per Fetch. There is no retry and no backoff.
type Client struct {
	rc     *resty.Client
	config Config
	logger zerolog.Logger
}

type Option func(*Client)

// WithHTTPClient sets the underlying http.Client (tests use it to mock transport).
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.rc = resty.NewWithClient(hc) }
}

func WithLogger(l zerolog.Logger) Option {
	return func(c *Client) { c.logger = l }
}

func New(cfg Config, opts ...Option) *Client {
	if cfg.UserAgent == "" {
		cfg.UserAgent = "feedpager"
	}
	c := &Client{
		config: cfg,
		logger: zerolog.Nop(),
	}
	for _, o := range opts {
		o(c)
	}
	if c.rc == nil {
		c.rc = resty.New()
	}
	c.rc.SetTimeout(cfg.Timeout).
		SetHeader("Accept", "application/json").
		SetHeader("User-Agent", cfg.UserAgent)
	return c
}

// Fetch returns every record served by the endpoint.
func (c *Client) Fetch(ctx context.Context) ([]model.Record, error) {
	start := time.Now()
	reqID := uuid.NewString()
	logger := c.logger.With().
		Str("endpoint", c.config.Endpoint).
		Str("request_id", reqID).
		Logger()

	req := c.rc.R().
		SetContext(ctx).
		SetHeader("X-Request-Id", reqID)
	if c.config.Token != nil {
		if tok := c.config.Token(); tok != "" {
			req.SetAuthToken(tok)
		}
	}

	resp, err := req.Get(c.config.Endpoint)
	duration := time.Since(start)
	metrics.FetchDuration.Observe(duration.Seconds())

	if err != nil {
		return nil, c.fail(logger, duration, &FetchError{Endpoint: c.config.Endpoint, Err: err})
	}
	if resp.IsError() || resp.StatusCode() < 200 || resp.StatusCode() > 299 {
		return nil, c.fail(logger, duration, &FetchError{
			Endpoint:   c.config.Endpoint,
			StatusCode: resp.StatusCode(),
			Err:        errors.Errorf("unexpected status %s", resp.Status()),
		})
	}

	recs, err := decode(resp.Body())
	if err != nil {
		return nil, c.fail(logger, duration, &FetchError{
			Endpoint:   c.config.Endpoint,
			StatusCode: resp.StatusCode(),
			Err:        err,
		})
	}

	size := len(resp.Body())
	metrics.FetchTotal.WithLabelValues(metrics.OutcomeOK).Inc()
	metrics.FetchRecords.Set(float64(len(recs)))
	metrics.FetchResponseBytes.Set(float64(size))
	logger.Info().
		Int("status_code", resp.StatusCode()).
		Int("records", len(recs)).
		Str("size", humanize.Bytes(uint64(size))).
		Dur("duration", duration).
		Msg("fetched records")
	return recs, nil
}

func (c *Client) fail(logger zerolog.Logger, duration time.Duration, fe *FetchError) error {
	metrics.FetchTotal.WithLabelValues(metrics.OutcomeFailed).Inc()
	// the caller reports the failure; this is only the request trace
	logger.Debug().Err(fe.Err).
		Bool("canceled", errors.Is(fe.Err, context.Canceled)).
		Int("status_code", fe.StatusCode).
		Dur("duration", duration).
		Msg("fetch failed")
	return fe
}

// decode accepts only a JSON array. null, objects and trailing garbage are
// rejected.
func decode(body []byte) ([]model.Record, error) {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 || trimmed[0] != '[' {
		return nil, errors.New("response body is not a JSON array")
	}
	dec := json.NewDecoder(bytes.NewReader(trimmed))
	var recs []model.Record
	if err := dec.Decode(&recs); err != nil {
		return nil, errors.Wrap(err, "decode records")
	}
	if dec.More() {
		return nil, errors.New("trailing data after JSON array")
	}
	if recs == nil {
		recs = []model.Record{}
	}
	return recs, nil
}
