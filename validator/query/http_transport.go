package query

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"

	"github.com/bitcast-network/bitcast/types"
	"github.com/pkg/errors"
)

// HTTPTransport requests tokens through a miner gateway that relays to the
// miner identified by uid.
type HTTPTransport struct {
	hc       *http.Client
	endpoint string
}

// NewHTTPTransport builds a transport against the gateway endpoint.
func NewHTTPTransport(endpoint string, hc *http.Client) *HTTPTransport {
	if hc == nil {
		hc = &http.Client{}
	}
	return &HTTPTransport{hc: hc, endpoint: endpoint}
}

// RequestTokens sends the token-request message for one miner.
func (t *HTTPTransport) RequestTokens(ctx context.Context, uid uint64) (*types.TokenReply, error) {
	body, err := json.Marshal(map[string]uint64{"uid": uid})
	if err != nil {
		return nil, errors.Wrap(err, "could not marshal token request")
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, t.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, errors.Wrap(err, "could not build token request")
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	resp, err := t.hc.Do(req)
	if err != nil {
		return nil, errors.Wrap(err, "token request failed")
	}
	defer func() {
		_ = resp.Body.Close()
	}()
	if resp.StatusCode != http.StatusOK {
		return nil, errors.Errorf("token request failed with status %d", resp.StatusCode)
	}
	reply := &types.TokenReply{}
	if err := json.NewDecoder(resp.Body).Decode(reply); err != nil {
		return nil, errors.Wrap(err, "malformed token reply")
	}
	return reply, nil
}
