// Package youtube provides the client contracts the YouTube evaluator
// consumes (channel and video data, analytics, transcripts) plus thin HTTP
// implementations of each.
package youtube

import "time"

// Window is a closed date interval for analytics queries.
type Window struct {
	Start time.Time
	End   time.Time
}

// ChannelInfo describes the channel behind an access token.
type ChannelInfo struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Subscribers int64  `json:"subscribers"`
	TotalViews  int64  `json:"total_views"`
}

// Video is one content item listed for a channel.
type Video struct {
	ID              string    `json:"id"`
	Title           string    `json:"title"`
	Description     string    `json:"description"`
	PublishedAt     time.Time `json:"published_at"`
	DurationSeconds int64     `json:"duration_seconds"`
}

// Metrics is the analytics bundle for one video over a window. RevenueKnown
// is false for channels outside the partner program; callers then estimate
// revenue from views.
type Metrics struct {
	Views                 float64 `json:"views"`
	MinutesWatched        float64 `json:"minutes_watched"`
	AverageViewPercentage float64 `json:"average_view_percentage"`
	EstimatedRevenueUSD   float64 `json:"estimated_revenue_usd"`
	RevenueKnown          bool    `json:"revenue_known"`
}
