// Package price looks up the alpha token price and the network's total daily
// emission, the two scalars that convert USD emission targets into raw
// weights.
package price

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

var log = logrus.WithField("prefix", "price")

const (
	maxAttempts    = 5
	initialBackoff = time.Second
	maxBackoff     = 10 * time.Second
)

// Client fetches price and emission figures.
type Client struct {
	hc               *http.Client
	priceEndpoint    string
	emissionEndpoint string
	backoff          func(attempt int) time.Duration
}

// Opt is a functional option for the Client.
type Opt func(*Client)

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Opt {
	return func(c *Client) { c.hc = hc }
}

// WithBackoff replaces the backoff schedule, for tests.
func WithBackoff(f func(attempt int) time.Duration) Opt {
	return func(c *Client) { c.backoff = f }
}

// NewClient builds a client against the given endpoints.
func NewClient(priceEndpoint, emissionEndpoint string, opts ...Opt) *Client {
	c := &Client{
		hc:               &http.Client{},
		priceEndpoint:    priceEndpoint,
		emissionEndpoint: emissionEndpoint,
		backoff:          defaultBackoff,
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// defaultBackoff doubles from 1s and saturates at 10s.
func defaultBackoff(attempt int) time.Duration {
	d := initialBackoff << uint(attempt)
	if d > maxBackoff {
		d = maxBackoff
	}
	return d
}

// AlphaPriceUSD returns the current alpha price in USD, retrying transient
// failures. The price must be strictly positive.
func (c *Client) AlphaPriceUSD(ctx context.Context) (float64, error) {
	v, err := c.fetchWithRetries(ctx, c.priceEndpoint, "price")
	if err != nil {
		return 0, err
	}
	if v <= 0 {
		return 0, errors.Errorf("non-positive alpha price %v", v)
	}
	return v, nil
}

// TotalDailyAlpha returns the network's total daily alpha emission, retrying
// transient failures. Zero is a legal value.
func (c *Client) TotalDailyAlpha(ctx context.Context) (float64, error) {
	v, err := c.fetchWithRetries(ctx, c.emissionEndpoint, "emission")
	if err != nil {
		return 0, err
	}
	if v < 0 {
		return 0, errors.Errorf("negative daily emission %v", v)
	}
	return v, nil
}

// fetchWithRetries runs up to maxAttempts requests with exponential backoff
// between them, returning the last error on exhaustion.
func (c *Client) fetchWithRetries(ctx context.Context, endpoint, what string) (float64, error) {
	var lastErr error
	for attempt := 0; attempt < maxAttempts; attempt++ {
		if attempt > 0 {
			wait := c.backoff(attempt - 1)
			log.WithFields(logrus.Fields{
				"lookup":  what,
				"attempt": attempt + 1,
				"wait":    wait,
			}).Debug("Retrying lookup")
			select {
			case <-ctx.Done():
				return 0, ctx.Err()
			case <-time.After(wait):
			}
		}
		v, err := c.fetch(ctx, endpoint)
		if err == nil {
			return v, nil
		}
		lastErr = err
	}
	return 0, errors.Wrapf(lastErr, "%s lookup failed after %d attempts", what, maxAttempts)
}

func (c *Client) fetch(ctx context.Context, endpoint string) (float64, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return 0, errors.Wrap(err, "could not build request")
	}
	req.Header.Set("Accept", "application/json")
	resp, err := c.hc.Do(req)
	if err != nil {
		return 0, errors.Wrap(err, "request failed")
	}
	defer func() {
		if err := resp.Body.Close(); err != nil {
			log.WithError(err).Debug("Could not close response body")
		}
	}()
	if resp.StatusCode != http.StatusOK {
		return 0, errors.Errorf("request failed with status %d", resp.StatusCode)
	}
	var body struct {
		Value float64 `json:"value"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return 0, errors.Wrap(err, "could not decode response")
	}
	return body.Value, nil
}
