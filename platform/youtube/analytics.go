package youtube

import (
	"context"
	"net/url"
	"strings"

	"github.com/bitcast-network/bitcast/validator/state"
	"github.com/pkg/errors"
)

// HTTPAnalyticsClient implements AnalyticsClient over the platform analytics
// API.
type HTTPAnalyticsClient struct {
	c *Client
}

// NewHTTPAnalyticsClient builds an analytics client against the given host.
func NewHTTPAnalyticsClient(host string, opts ...ClientOpt) (*HTTPAnalyticsClient, error) {
	c, err := NewClient(host, opts...)
	if err != nil {
		return nil, err
	}
	return &HTTPAnalyticsClient{c: c}, nil
}

// VideoMetrics queries the metrics for one video over the window. The
// optional dimension list is forwarded verbatim; eco mode passes fewer
// dimensions to cut request volume.
func (a *HTTPAnalyticsClient) VideoMetrics(ctx context.Context, token, videoID string, w Window, dimensions []string) (*Metrics, error) {
	state.AnalyticsAPICallCount.Inc()
	q := url.Values{}
	q.Set("video_id", videoID)
	q.Set("start_date", w.Start.Format(dateLayout))
	q.Set("end_date", w.End.Format(dateLayout))
	if len(dimensions) > 0 {
		q.Set("dimensions", strings.Join(dimensions, ","))
	}
	m := &Metrics{}
	if err := a.c.getJSON(ctx, token, "/v1/analytics/video", q, m); err != nil {
		return nil, errors.Wrapf(err, "could not fetch analytics for video %s", videoID)
	}
	return m, nil
}
