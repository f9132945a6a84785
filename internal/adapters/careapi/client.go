// Package careapi is a resilient client for the care HTTP JSON API
package careapi

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	perr "careview/internal/platform/errors"
	"careview/internal/platform/logger"

	"github.com/google/uuid"
	"golang.org/x/time/rate"
)

const (
	defaultTimeout   = 10 * time.Second
	defaultUA        = "careview"
	defaultMaxRetry  = 3
	defaultRetryBase = 250 * time.Millisecond
	defaultPingPath  = "/ping/"
	maxRetryWait     = 30 * time.Second
	maxBodyBytes     = 1 << 20
	maxErrBodyBytes  = 2048
)

// Options configures the Client
type Options struct {
	BaseURL   string
	Token     string
	UserAgent string
	Timeout   time.Duration

	// Retry config for transport errors, 429 and gateway responses
	// Zero MaxRetries uses the default, negative disables retries
	MaxRetries int
	RetryBase  time.Duration

	// Client side rate limit in requests per second; zero disables it
	Rate  float64
	Burst int

	PingPath   string
	HTTPClient *http.Client
}

// Client calls the care API with bearer auth, retries and rate limiting
type Client struct {
	http    *http.Client
	base    *url.URL
	opts    Options
	limiter *rate.Limiter
	log     logger.Logger
	now     func() time.Time
	sleep   func(context.Context, time.Duration) error
}

// NewClient creates a new Client with sane defaults
func NewClient(o Options) (*Client, error) {
	if strings.TrimSpace(o.BaseURL) == "" {
		return nil, perr.InvalidArgf("care api base url is required")
	}
	base, err := url.Parse(strings.TrimRight(o.BaseURL, "/"))
	if err != nil || base.Scheme == "" || base.Host == "" {
		return nil, perr.InvalidArgf("care api base url %q is invalid", o.BaseURL)
	}
	if o.UserAgent == "" {
		o.UserAgent = defaultUA
	}
	if o.Timeout <= 0 {
		o.Timeout = defaultTimeout
	}
	if o.MaxRetries < 0 {
		o.MaxRetries = 0
	} else if o.MaxRetries == 0 {
		o.MaxRetries = defaultMaxRetry
	}
	if o.RetryBase <= 0 {
		o.RetryBase = defaultRetryBase
	}
	if o.PingPath == "" {
		o.PingPath = defaultPingPath
	}
	limit := rate.Inf
	if o.Rate > 0 {
		limit = rate.Limit(o.Rate)
		if o.Burst <= 0 {
			o.Burst = 1
		}
	}
	hc := o.HTTPClient
	if hc == nil {
		hc = &http.Client{Timeout: o.Timeout}
	}
	return &Client{
		http:    hc,
		base:    base,
		opts:    o,
		limiter: rate.NewLimiter(limit, o.Burst),
		log:     *logger.Named("careapi"),
		now:     time.Now,
		sleep:   sleepCtx,
	}, nil
}

// BaseURL returns the configured API root
func (c *Client) BaseURL() string { return c.base.String() }

// Do issues a JSON request and decodes a 2xx response into out when out is non-nil
// Mutations carry an Idempotency-Key that stays the same across retries
func (c *Client) Do(ctx context.Context, method, path string, q url.Values, in, out any) error {
	target, err := c.endpoint(path, q)
	if err != nil {
		return err
	}

	var payload []byte
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return perr.Wrapf(err, perr.ErrorCodeJSON, "care api encode %s %s", method, path)
		}
		payload = b
	}
	idem := ""
	if method != http.MethodGet && method != http.MethodHead {
		idem = uuid.NewString()
	}

	attempts := 0
	for {
		if err := c.limiter.Wait(ctx); err != nil {
			return perr.Wrapf(err, perr.ErrorCodeUnavailable, "care api rate limiter")
		}

		req, err := http.NewRequestWithContext(ctx, method, target, bytes.NewReader(payload))
		if err != nil {
			return perr.Wrapf(err, perr.ErrorCodeUnknown, "care api new request failed")
		}
		req.Header.Set("User-Agent", c.opts.UserAgent)
		req.Header.Set("Accept", "application/json")
		if payload != nil {
			req.Header.Set("Content-Type", "application/json")
		}
		if c.opts.Token != "" {
			req.Header.Set("Authorization", "Bearer "+c.opts.Token)
		}
		if idem != "" {
			req.Header.Set("Idempotency-Key", idem)
		}

		start := c.now()
		resp, err := c.http.Do(req)
		lat := c.now().Sub(start)

		if err != nil {
			if ctx.Err() != nil {
				return perr.Wrapf(ctx.Err(), perr.ErrorCodeUnavailable, "care api %s %s", method, path)
			}
			if !c.shouldRetry(attempts) || !perr.IsRetryable(err) {
				return perr.FromUpstreamf(err, "care api %s %s", method, path)
			}
			back := c.backoff(attempts)
			c.log.Warn().Err(err).Dur("retry_in", back).Int("attempt", attempts).Msg("care api transport error retrying")
			if serr := c.sleep(ctx, back); serr != nil {
				return perr.Wrapf(serr, perr.ErrorCodeUnavailable, "care api %s %s", method, path)
			}
			attempts++
			continue
		}

		logger.C(ctx).Debug().
			Str("method", method).
			Str("path", path).
			Int("status", resp.StatusCode).
			Int("attempt", attempts).
			Dur("latency", lat).
			Msg("care api http response")

		if resp.StatusCode >= 200 && resp.StatusCode < 300 {
			return c.decode(resp, method, path, out)
		}

		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrBodyBytes))
		_ = drainAndClose(resp.Body)
		se := &perr.StatusError{Status: resp.StatusCode, Method: method, URL: path, Body: string(body)}

		if perr.IsRetryable(se) && c.shouldRetry(attempts) {
			wait := retryAfter(resp.Header, c.now())
			if wait <= 0 {
				wait = c.backoff(attempts)
			}
			c.log.Warn().Int("status", resp.StatusCode).Dur("retry_in", wait).Int("attempt", attempts).Msg("care api transient status retrying")
			if serr := c.sleep(ctx, wait); serr != nil {
				return perr.Wrapf(serr, perr.ErrorCodeUnavailable, "care api %s %s", method, path)
			}
			attempts++
			continue
		}
		return perr.AttachFieldFromUpstream(perr.FromUpstreamf(se, "care api %s %s", method, path))
	}
}

// endpoint joins an already escaped path onto the base URL
func (c *Client) endpoint(path string, q url.Values) (string, error) {
	u := *c.base
	raw := c.base.EscapedPath() + path
	p, err := url.PathUnescape(raw)
	if err != nil {
		return "", perr.InvalidArgf("care api path %q is invalid", path)
	}
	u.Path, u.RawPath = p, raw
	u.RawQuery = ""
	if len(q) > 0 {
		u.RawQuery = q.Encode()
	}
	return u.String(), nil
}

func (c *Client) decode(resp *http.Response, method, path string, out any) error {
	defer func() {
		if cerr := resp.Body.Close(); cerr != nil {
			c.log.Error().Err(cerr).Str("path", path).Msg("care api close body failed")
		}
	}()
	if out == nil || resp.StatusCode == http.StatusNoContent {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxBodyBytes))
		return nil
	}
	b, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return perr.FromUpstreamf(err, "care api read %s %s", method, path)
	}
	if err := json.Unmarshal(b, out); err != nil {
		return perr.Wrapf(err, perr.ErrorCodeUpstream, "care api decode %s %s", method, path)
	}
	return nil
}

// Ping reports whether the API answers at all. Any status below 500 counts
func (c *Client) Ping(ctx context.Context) error {
	target, err := c.endpoint(c.opts.PingPath, nil)
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return perr.Wrapf(err, perr.ErrorCodeUnknown, "care api new request failed")
	}
	req.Header.Set("User-Agent", c.opts.UserAgent)
	resp, err := c.http.Do(req)
	if err != nil {
		return perr.FromUpstreamf(err, "care api ping")
	}
	_ = drainAndClose(resp.Body)
	if resp.StatusCode >= 500 {
		return perr.FromUpstreamf(&perr.StatusError{Status: resp.StatusCode, Method: http.MethodGet, URL: c.opts.PingPath}, "care api ping")
	}
	return nil
}

func (c *Client) backoff(attempt int) time.Duration {
	d := c.opts.RetryBase << uint(attempt)
	if d <= 0 || d > maxRetryWait {
		return maxRetryWait
	}
	return d
}

func (c *Client) shouldRetry(attempt int) bool {
	return attempt < c.opts.MaxRetries
}

// retryAfter reads a Retry-After header given in seconds or as an HTTP date
func retryAfter(h http.Header, now time.Time) time.Duration {
	v := strings.TrimSpace(h.Get("Retry-After"))
	if v == "" {
		return 0
	}
	if s, err := strconv.Atoi(v); err == nil && s > 0 {
		d := time.Duration(s) * time.Second
		if d > maxRetryWait {
			d = maxRetryWait
		}
		return d
	}
	if t, err := http.ParseTime(v); err == nil && t.After(now) {
		d := t.Sub(now)
		if d > maxRetryWait {
			d = maxRetryWait
		}
		return d
	}
	return 0
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

func drainAndClose(rc io.ReadCloser) error {
	_, _ = io.Copy(io.Discard, io.LimitReader(rc, 512))
	return rc.Close()
}
