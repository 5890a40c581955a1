// Package youtube implements the PlatformEvaluator capability for the
// initial content platform. It turns one miner's access tokens into
// per-account results scored against the cycle's briefs.
package youtube

import (
	"context"
	"fmt"
	"time"

	"github.com/bitcast-network/bitcast/config/params"
	yt "github.com/bitcast-network/bitcast/platform/youtube"
	"github.com/bitcast-network/bitcast/types"
	"github.com/bitcast-network/bitcast/validator/state"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

var log = logrus.WithField("prefix", "youtube-evaluator")

// TokenType is the token-type tag this evaluator consumes.
const TokenType = "youtube"

// PlatformName is the stable platform tag.
const PlatformName = "youtube"

// Config wires the platform clients into the evaluator.
type Config struct {
	Data        yt.DataClient
	Analytics   yt.AnalyticsClient
	Transcripts yt.TranscriptClient
	Matcher     Matcher
	Ratio       *state.RatioCache
	Now         func() time.Time
}

// Evaluator scores YouTube accounts. Accounts within one miner are evaluated
// sequentially; the brief-matching calls for one video fan out on a bounded
// worker pool.
type Evaluator struct {
	data        yt.DataClient
	analytics   yt.AnalyticsClient
	transcripts yt.TranscriptClient
	matcher     Matcher
	ratio       *state.RatioCache
	now         func() time.Time
}

// New builds a YouTube evaluator.
func New(cfg Config) *Evaluator {
	e := &Evaluator{
		data:        cfg.Data,
		analytics:   cfg.Analytics,
		transcripts: cfg.Transcripts,
		matcher:     cfg.Matcher,
		ratio:       cfg.Ratio,
		now:         cfg.Now,
	}
	if e.matcher == nil {
		e.matcher = NewKeywordMatcher()
	}
	if e.now == nil {
		e.now = time.Now
	}
	return e
}

// Name returns the stable platform tag.
func (e *Evaluator) Name() string {
	return PlatformName
}

// SupportedTokenTypes lists the token-type tags this evaluator consumes.
func (e *Evaluator) SupportedTokenTypes() []string {
	return []string{TokenType}
}

// CanEvaluate reports whether the response is valid and carries YouTube
// tokens.
func (e *Evaluator) CanEvaluate(resp *types.MinerResponse) bool {
	return resp != nil && resp.Valid && len(resp.TokensByType[TokenType]) > 0
}

// EvaluateAccounts evaluates up to the configured maximum number of accounts
// from the response. One bad account never fails the miner.
func (e *Evaluator) EvaluateAccounts(ctx context.Context, resp *types.MinerResponse, briefs []types.Brief, info *types.MetagraphInfo) (*types.EvaluationResult, error) {
	cfg := params.RewardConfig()
	tokens := resp.TokensByType[TokenType]
	if len(tokens) > cfg.MaxAccountsPerMiner {
		log.WithFields(logrus.Fields{
			"uid":    resp.UID,
			"tokens": len(tokens),
			"max":    cfg.MaxAccountsPerMiner,
		}).Warn("Miner supplied more tokens than allowed, dropping excess")
		tokens = tokens[:cfg.MaxAccountsPerMiner]
	}

	result := &types.EvaluationResult{
		UID:              resp.UID,
		Platform:         e.Name(),
		AggregatedScores: types.ZeroScores(briefs),
		MetagraphInfo:    info,
	}
	for i, token := range tokens {
		accountID := fmt.Sprintf("account_%d", i+1)
		acct := e.evaluateAccount(ctx, accountID, token, briefs, info)
		result.Accounts = append(result.Accounts, acct)
		for briefID, score := range acct.Scores {
			result.AggregatedScores[briefID] += score
		}
	}
	return result, nil
}

// evaluateAccount scores a single account. Panics and errors are contained
// here and become an error AccountResult with zero scores.
func (e *Evaluator) evaluateAccount(ctx context.Context, accountID, token string, briefs []types.Brief, info *types.MetagraphInfo) (acct *types.AccountResult) {
	defer func() {
		if r := recover(); r != nil {
			log.WithField("account", accountID).Errorf("Recovered from panic during account evaluation: %v", r)
			acct = types.ErrorAccountResult(accountID, fmt.Sprintf("panic: %v", r), briefs)
		}
	}()
	if token == "" {
		return types.ErrorAccountResult(accountID, "missing access token", briefs)
	}

	channel, err := e.data.Channel(ctx, token)
	if err != nil {
		return types.ErrorAccountResult(accountID, err.Error(), briefs)
	}
	window := e.scoringWindow()
	videos, err := e.data.Videos(ctx, token, window)
	if err != nil {
		return types.ErrorAccountResult(accountID, err.Error(), briefs)
	}

	cfg := params.RewardConfig()
	stakeGated := info != nil && info.AlphaStake < cfg.MinAlphaStakeThreshold
	if stakeGated {
		log.WithFields(logrus.Fields{
			"account":   accountID,
			"stake":     info.AlphaStake,
			"threshold": cfg.MinAlphaStakeThreshold,
		}).Info("Alpha stake below threshold, forcing zero scores")
	}
	ratio, _ := e.ratioValue()

	scores := types.ZeroScores(briefs)
	items := make(map[string]*types.ContentItem, len(videos))
	var totalViews, totalRevenue float64
	for _, v := range videos {
		item, value := e.evaluateVideo(ctx, token, v, briefs, ratio)
		items[v.ID] = item
		totalViews += item.Metrics["views"]
		totalRevenue += item.Metrics["estimated_revenue_usd"]
		if stakeGated {
			continue
		}
		for _, briefID := range item.MatchedBriefIDs {
			if b := briefByID(briefs, briefID); b != nil && b.AcceptsSubscriberCount(channel.Subscribers) {
				scores[briefID] += value
			}
		}
	}

	return &types.AccountResult{
		AccountID: accountID,
		PlatformData: map[string]interface{}{
			"channel_id":  channel.ID,
			"title":       channel.Title,
			"subscribers": channel.Subscribers,
		},
		ContentItems: items,
		Scores:       scores,
		PerformanceStats: map[string]interface{}{
			"video_count":           len(videos),
			"total_views":           totalViews,
			"estimated_revenue_usd": totalRevenue,
		},
		Success: true,
	}
}

// evaluateVideo fetches analytics and a transcript for one video, matches it
// against the cycle's briefs on a bounded pool, and returns the content item
// plus the video's USD value.
func (e *Evaluator) evaluateVideo(ctx context.Context, token string, v *yt.Video, briefs []types.Brief, ratio float64) (*types.ContentItem, float64) {
	cfg := params.RewardConfig()
	metrics, err := e.analytics.VideoMetrics(ctx, token, v.ID, e.scoringWindow(), e.dimensions())
	if err != nil {
		log.WithField("videoID", v.ID).WithError(err).Debug("Analytics unavailable, scoring video as zero")
		metrics = &yt.Metrics{}
	}
	transcript, err := e.transcripts.Transcript(ctx, v.ID)
	if err != nil {
		log.WithField("videoID", v.ID).WithError(err).Debug("Transcript unavailable")
		transcript = ""
	}

	matched := make([]bool, len(briefs))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(cfg.BriefMatchWorkers)
	for i := range briefs {
		i := i
		g.Go(func() error {
			ok, err := e.matcher.Matches(gctx, v, transcript, briefs[i])
			if err != nil {
				log.WithFields(logrus.Fields{
					"videoID": v.ID,
					"brief":   briefs[i].ID,
				}).WithError(err).Debug("Brief match failed, treating as no match")
				return nil
			}
			matched[i] = ok
			return nil
		})
	}
	_ = g.Wait()

	var matchedIDs []string
	for i, b := range briefs {
		if matched[i] {
			matchedIDs = append(matchedIDs, b.ID)
		}
	}

	value := metrics.EstimatedRevenueUSD
	if !metrics.RevenueKnown {
		value = metrics.Views * ratio
	}
	item := &types.ContentItem{
		Details: types.ContentDetails{
			BitcastContentID: bitcastContentID(v.ID),
			Title:            v.Title,
			PublishedAt:      v.PublishedAt.Format(time.RFC3339),
			DurationSeconds:  v.DurationSeconds,
		},
		MatchedBriefIDs: matchedIDs,
		Metrics: map[string]float64{
			"views":                 metrics.Views,
			"minutes_watched":       metrics.MinutesWatched,
			"estimated_revenue_usd": metrics.EstimatedRevenueUSD,
		},
		Description: v.Description,
		Transcript:  transcript,
	}
	return item, value
}

// scoringWindow is [now − delay − window, now − delay]: recent days are
// excluded so analytics have settled before they are rewarded.
func (e *Evaluator) scoringWindow() yt.Window {
	cfg := params.RewardConfig()
	end := e.now().UTC().AddDate(0, 0, -cfg.RewardDelayDays)
	start := end.AddDate(0, 0, -cfg.RollingWindowDays)
	return yt.Window{Start: start, End: end}
}

// dimensions returns the analytics dimension list; eco mode requests none to
// reduce metric volume.
func (e *Evaluator) dimensions() []string {
	if params.RewardConfig().EcoMode {
		return nil
	}
	return []string{"day"}
}

func (e *Evaluator) ratioValue() (float64, bool) {
	if e.ratio == nil {
		return 0, false
	}
	return e.ratio.Load()
}

func briefByID(briefs []types.Brief, id string) *types.Brief {
	for i := range briefs {
		if briefs[i].ID == id {
			return &briefs[i]
		}
	}
	return nil
}
