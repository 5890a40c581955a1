package youtube

import (
	"context"
	"net/url"
	"time"

	"github.com/bitcast-network/bitcast/config/params"
	gocache "github.com/patrickmn/go-cache"
	"github.com/pkg/errors"
)

const transcriptCacheTTL = time.Hour

// HTTPTranscriptClient implements TranscriptClient with per-video caching and
// bounded retries. Transcripts are immutable, so cache hits are safe across
// the whole cycle.
type HTTPTranscriptClient struct {
	c          *Client
	cache      *gocache.Cache
	maxRetries int
	retryWait  time.Duration
}

// NewHTTPTranscriptClient builds a transcript client against the given host.
func NewHTTPTranscriptClient(host string, opts ...ClientOpt) (*HTTPTranscriptClient, error) {
	c, err := NewClient(host, opts...)
	if err != nil {
		return nil, err
	}
	return &HTTPTranscriptClient{
		c:          c,
		cache:      gocache.New(transcriptCacheTTL, 2*transcriptCacheTTL),
		maxRetries: params.RewardConfig().TranscriptMaxRetries,
		retryWait:  time.Second,
	}, nil
}

// Transcript fetches the transcript for a video, retrying transient failures
// up to the configured maximum.
func (t *HTTPTranscriptClient) Transcript(ctx context.Context, videoID string) (string, error) {
	if cached, ok := t.cache.Get(videoID); ok {
		return cached.(string), nil
	}
	q := url.Values{}
	q.Set("video_id", videoID)
	var lastErr error
	for attempt := 0; attempt <= t.maxRetries; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return "", ctx.Err()
			case <-time.After(t.retryWait):
			}
		}
		var resp struct {
			Transcript string `json:"transcript"`
		}
		if err := t.c.getJSON(ctx, "", "/v1/transcript", q, &resp); err != nil {
			lastErr = err
			log.WithField("videoID", videoID).WithField("attempt", attempt+1).WithError(err).Debug("Transcript fetch failed")
			continue
		}
		t.cache.SetDefault(videoID, resp.Transcript)
		return resp.Transcript, nil
	}
	return "", errors.Wrapf(lastErr, "transcript unavailable for video %s", videoID)
}
