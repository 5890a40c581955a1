package youtube

import (
	"context"
	"net/url"
	"time"

	"github.com/bitcast-network/bitcast/validator/state"
	gocache "github.com/patrickmn/go-cache"
	"github.com/pkg/errors"
)

const (
	channelCacheTTL = 10 * time.Minute
	dateLayout      = "2006-01-02"
)

// HTTPDataClient implements DataClient over the platform data API. Channel
// lookups are cached briefly since the same token is often used for both the
// channel call and the video listing.
type HTTPDataClient struct {
	c     *Client
	cache *gocache.Cache
}

// NewHTTPDataClient builds a data client against the given host.
func NewHTTPDataClient(host string, opts ...ClientOpt) (*HTTPDataClient, error) {
	c, err := NewClient(host, opts...)
	if err != nil {
		return nil, err
	}
	return &HTTPDataClient{
		c:     c,
		cache: gocache.New(channelCacheTTL, 2*channelCacheTTL),
	}, nil
}

// Channel returns the channel behind the token.
func (d *HTTPDataClient) Channel(ctx context.Context, token string) (*ChannelInfo, error) {
	if cached, ok := d.cache.Get(token); ok {
		return cached.(*ChannelInfo), nil
	}
	state.DataAPICallCount.Inc()
	info := &ChannelInfo{}
	if err := d.c.getJSON(ctx, token, "/v1/channel", url.Values{}, info); err != nil {
		return nil, errors.Wrap(err, "could not fetch channel")
	}
	d.cache.SetDefault(token, info)
	return info, nil
}

// Videos lists the channel's videos published inside the window.
func (d *HTTPDataClient) Videos(ctx context.Context, token string, w Window) ([]*Video, error) {
	state.DataAPICallCount.Inc()
	q := url.Values{}
	q.Set("published_after", w.Start.Format(dateLayout))
	q.Set("published_before", w.End.Format(dateLayout))
	var resp struct {
		Videos []*Video `json:"videos"`
	}
	if err := d.c.getJSON(ctx, token, "/v1/videos", q, &resp); err != nil {
		return nil, errors.Wrap(err, "could not list videos")
	}
	return resp.Videos, nil
}
