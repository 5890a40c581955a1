package youtube

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

var log = logrus.WithField("prefix", "youtube")

// ErrMalformedHostname is returned when a client host cannot be parsed.
var ErrMalformedHostname = errors.New("hostname must include port, separated by one colon")

// Client is a wrapper object around the HTTP client shared by the concrete
// data, analytics, and transcript clients.
type Client struct {
	hc      *http.Client
	baseURL *url.URL
}

// ClientOpt is a functional option for the Client type.
type ClientOpt func(*Client)

// WithTimeout sets the timeout of the underlying HTTP client.
func WithTimeout(timeout time.Duration) ClientOpt {
	return func(c *Client) {
		c.hc.Timeout = timeout
	}
}

// WithHTTPClient replaces the underlying HTTP client, for tests.
func WithHTTPClient(hc *http.Client) ClientOpt {
	return func(c *Client) {
		c.hc = hc
	}
}

// NewClient constructs a client against the given base host. `host` can be a
// URL string or a bare `host:port`, in which case https is assumed.
func NewClient(host string, opts ...ClientOpt) (*Client, error) {
	u, err := urlForHost(host)
	if err != nil {
		return nil, err
	}
	c := &Client{
		hc:      &http.Client{},
		baseURL: u,
	}
	for _, o := range opts {
		o(c)
	}
	return c, nil
}

func urlForHost(h string) (*url.URL, error) {
	u, err := url.Parse(h)
	if err == nil && u.Host != "" {
		return u, nil
	}
	if u, err = url.Parse("https://" + h); err == nil && u.Host != "" {
		return u, nil
	}
	return nil, ErrMalformedHostname
}

// getJSON issues an authorized GET against path with the given query values
// and decodes the 200 response body into out.
func (c *Client) getJSON(ctx context.Context, token, path string, query url.Values, out interface{}) error {
	u := c.baseURL.ResolveReference(&url.URL{Path: path, RawQuery: query.Encode()})
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	r, err := c.hc.Do(req)
	if err != nil {
		return err
	}
	defer func() {
		if err := r.Body.Close(); err != nil {
			log.WithError(err).Debug("Could not close response body")
		}
	}()
	if r.StatusCode != http.StatusOK {
		b, _ := io.ReadAll(io.LimitReader(r.Body, 1024))
		return errors.Errorf("request to %s failed with status %d: %s", u.Path, r.StatusCode, string(b))
	}
	if err := json.NewDecoder(r.Body).Decode(out); err != nil {
		return errors.Wrap(err, "error decoding http response body")
	}
	return nil
}
