package youtube

import "context"

// DataClient lists channels and content for an access token.
type DataClient interface {
	Channel(ctx context.Context, token string) (*ChannelInfo, error)
	Videos(ctx context.Context, token string, w Window) ([]*Video, error)
}

// AnalyticsClient runs metric queries with an optional dimension list.
type AnalyticsClient interface {
	VideoMetrics(ctx context.Context, token, videoID string, w Window, dimensions []string) (*Metrics, error)
}

// TranscriptClient fetches the transcript of one video.
type TranscriptClient interface {
	Transcript(ctx context.Context, videoID string) (string, error)
}
