// Package briefs fetches the campaign catalog the engine scores against.
package briefs

import (
	"context"
	"encoding/json"
	"io"
	"net/http"

	"github.com/bitcast-network/bitcast/types"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

var log = logrus.WithField("prefix", "briefs")

// Provider returns the briefs active for the next cycle. The engine treats a
// fetch error or an empty catalog as the no-briefs fallback.
type Provider interface {
	GetBriefs(ctx context.Context) ([]types.Brief, error)
}

// Client fetches briefs from the catalog endpoint.
type Client struct {
	hc       *http.Client
	endpoint string
}

// Opt is a functional option for the Client.
type Opt func(*Client)

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Opt {
	return func(c *Client) { c.hc = hc }
}

// NewClient builds a catalog client against the given endpoint URL.
func NewClient(endpoint string, opts ...Opt) *Client {
	c := &Client{
		hc:       &http.Client{},
		endpoint: endpoint,
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// GetBriefs fetches and decodes the catalog, applying the documented
// defaults to each brief.
func (c *Client) GetBriefs(ctx context.Context) ([]types.Brief, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.endpoint, nil)
	if err != nil {
		return nil, errors.Wrap(err, "could not build catalog request")
	}
	req.Header.Set("Accept", "application/json")
	resp, err := c.hc.Do(req)
	if err != nil {
		return nil, errors.Wrap(err, "catalog request failed")
	}
	defer func() {
		if err := resp.Body.Close(); err != nil {
			log.WithError(err).Debug("Could not close response body")
		}
	}()
	if resp.StatusCode != http.StatusOK {
		return nil, errors.Errorf("catalog request failed with status %d", resp.StatusCode)
	}
	b, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errors.Wrap(err, "could not read catalog response")
	}

	var wrapped struct {
		Briefs []types.Brief `json:"briefs"`
	}
	briefs := wrapped.Briefs
	if err := json.Unmarshal(b, &wrapped); err != nil || wrapped.Briefs == nil {
		// Some deployments serve a bare list.
		if err := json.Unmarshal(b, &briefs); err != nil {
			return nil, errors.Wrap(err, "could not decode catalog")
		}
	} else {
		briefs = wrapped.Briefs
	}
	for i := range briefs {
		briefs[i].ApplyDefaults()
	}
	log.WithField("count", len(briefs)).Debug("Fetched brief catalog")
	return briefs, nil
}
