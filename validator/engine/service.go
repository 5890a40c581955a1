// Package engine contains the orchestrator of the reward pipeline. One call
// to RunCycle drives a full evaluation cycle: fetch briefs, query and
// evaluate every miner in order, aggregate, transform, distribute, derive
// corrections, and publish telemetry.
package engine

import (
	"context"
	"sync"

	"github.com/bitcast-network/bitcast/briefs"
	"github.com/bitcast-network/bitcast/types"
	"github.com/bitcast-network/bitcast/validator/evaluators"
	"github.com/bitcast-network/bitcast/validator/rewards"
	"github.com/bitcast-network/bitcast/validator/state"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"go.opencensus.io/trace"
)

var log = logrus.WithField("prefix", "engine")

// Querier obtains one fresh MinerResponse per uid. Implementations must not
// parallelize across miners.
type Querier interface {
	QueryOne(ctx context.Context, uid uint64) *types.MinerResponse
}

// MetagraphProvider exposes the per-miner chain snapshot, read-only.
type MetagraphProvider interface {
	Info(uid uint64) *types.MetagraphInfo
}

// Publisher is the telemetry sink. Both methods are best-effort and must not
// return errors.
type Publisher interface {
	PublishAccounts(ctx context.Context, runID string, rs *types.ResultSet)
	PublishCorrections(ctx context.Context, runID string, corrections []types.WeightCorrection)
}

// Config wires the engine's collaborators.
type Config struct {
	Briefs        briefs.Provider
	Query         Querier
	Registry      *evaluators.Registry
	Metagraph     MetagraphProvider
	Publisher     Publisher
	Ratio         *state.RatioCache
	Price         rewards.PriceFunc
	DailyEmission rewards.EmissionFunc
	Reserve       rewards.ReserveAllocator
	NewRunID      func() string
}

// Service is the single-entry coordinator of the reward pipeline.
type Service struct {
	briefs    briefs.Provider
	query     Querier
	registry  *evaluators.Registry
	metagraph MetagraphProvider
	publisher Publisher
	ratio     *state.RatioCache
	price     rewards.PriceFunc
	daily     rewards.EmissionFunc
	reserve   rewards.ReserveAllocator
	newRunID  func() string
}

// New builds the orchestrator.
func New(cfg Config) *Service {
	s := &Service{
		briefs:    cfg.Briefs,
		query:     cfg.Query,
		registry:  cfg.Registry,
		metagraph: cfg.Metagraph,
		publisher: cfg.Publisher,
		ratio:     cfg.Ratio,
		price:     cfg.Price,
		daily:     cfg.DailyEmission,
		reserve:   cfg.Reserve,
		newRunID:  cfg.NewRunID,
	}
	if s.ratio == nil {
		s.ratio = state.NewRatioCache()
	}
	if s.newRunID == nil {
		s.newRunID = uuid.NewString
	}
	return s
}

// RunCycle drives one evaluation cycle over the given miners and returns the
// normalized reward vector plus per-miner stats. It never returns an error:
// failures degrade to the documented fallback vectors.
func (s *Service) RunCycle(ctx context.Context, uids []uint64) ([]float64, []types.MinerStats) {
	ctx, span := trace.StartSpan(ctx, "engine.RunCycle")
	defer span.End()

	if len(uids) == 0 {
		return []float64{}, []types.MinerStats{}
	}
	runID := s.newRunID()
	log := log.WithField("runID", runID)

	briefList, err := s.briefs.GetBriefs(ctx)
	if err != nil {
		log.WithError(err).Error("Could not fetch briefs, emitting fallback rewards")
		state.CycleCount.WithLabelValues("no_briefs").Inc()
		return fallback(uids)
	}
	if len(briefList) == 0 {
		log.Warn("Empty brief catalog, emitting fallback rewards")
		state.CycleCount.WithLabelValues("no_briefs").Inc()
		return fallback(uids)
	}

	rewardVec, stats, corrections, rs, ok := s.runPipeline(ctx, uids, briefList)
	if !ok {
		state.CycleCount.WithLabelValues("error").Inc()
		return fallback(uids)
	}

	s.publishAll(ctx, runID, rs, corrections)
	state.CycleCount.WithLabelValues("success").Inc()
	log.WithField("miners", len(uids)).WithField("briefs", len(briefList)).Info("Reward cycle complete")
	return rewardVec, stats
}

// runPipeline executes steps 2-7 under a recover so that no panic in the
// evaluation or math stages escapes as anything but the error fallback.
func (s *Service) runPipeline(ctx context.Context, uids []uint64, briefList []types.Brief) (rewardVec []float64, stats []types.MinerStats, corrections []types.WeightCorrection, rs *types.ResultSet, ok bool) {
	defer func() {
		if r := recover(); r != nil {
			log.Errorf("Recovered from panic in reward pipeline: %v", r)
			ok = false
		}
	}()

	rs = s.collectResults(ctx, uids, briefList)

	_, aggSpan := trace.StartSpan(ctx, "engine.aggregate")
	matrix := rewards.Aggregate(rs, briefList)
	aggSpan.End()

	// The ratio cache is refreshed after aggregation and before the emission
	// transform; next cycle's evaluators read it.
	s.updateRatioCache(rs)

	_, emSpan := trace.StartSpan(ctx, "engine.transform")
	targets := rewards.Transform(ctx, matrix, briefList, s.price, s.daily)
	emSpan.End()

	_, distSpan := trace.StartSpan(ctx, "engine.distribute")
	var wPre, wPost *types.Matrix
	rewardVec, stats, wPre, wPost = rewards.Distribute(targets, rs, briefList, uids, s.reserve)
	distSpan.End()

	for i := range stats {
		stats[i].Reward = rewardVec[i]
	}
	corrections = rewards.DeriveCorrections(rs, wPre, wPost, briefList)
	return rewardVec, stats, corrections, rs, true
}

// collectResults queries and evaluates each miner strictly in order. The
// sequential loop is a correctness requirement: platform tokens are
// short-lived and must be consumed immediately, never queued behind other
// miners' work.
func (s *Service) collectResults(ctx context.Context, uids []uint64, briefList []types.Brief) *types.ResultSet {
	rs := types.NewResultSet()
	for _, uid := range uids {
		if uid == types.BurnUID {
			rs.Add(types.ZeroEvaluationResult(uid, types.PlatformBurn, briefList, s.info(uid)))
			continue
		}
		resp := s.query.QueryOne(ctx, uid)
		rs.Add(s.evaluateResponse(ctx, resp, briefList))
	}
	return rs
}

// evaluateResponse routes one response through the registry. A miner whose
// evaluator fails or panics yields a zero-score result tagged "error"; a
// response no evaluator recognizes yields one tagged "unknown".
func (s *Service) evaluateResponse(ctx context.Context, resp *types.MinerResponse, briefList []types.Brief) (result *types.EvaluationResult) {
	info := s.info(resp.UID)
	defer func() {
		if r := recover(); r != nil {
			log.WithField("uid", resp.UID).Errorf("Recovered from evaluator panic: %v", r)
			result = types.ZeroEvaluationResult(resp.UID, types.PlatformError, briefList, info)
		}
	}()

	eval, found := s.registry.Select(resp)
	if !found {
		if resp.Valid {
			log.WithField("uid", resp.UID).Warn("No evaluator recognizes miner response")
		}
		return types.ZeroEvaluationResult(resp.UID, types.PlatformUnknown, briefList, info)
	}
	res, err := eval.EvaluateAccounts(ctx, resp, briefList, info)
	if err != nil {
		log.WithFields(logrus.Fields{
			"uid":      resp.UID,
			"platform": eval.Name(),
		}).WithError(err).Error("Evaluator failed for miner")
		return types.ZeroEvaluationResult(resp.UID, types.PlatformError, briefList, info)
	}
	return res
}

// updateRatioCache derives the fleet-wide views-to-revenue ratio from the
// cycle's successful account results and stores it for the next cycle.
func (s *Service) updateRatioCache(rs *types.ResultSet) {
	var views, revenue float64
	for _, uid := range rs.UIDs() {
		res := rs.Get(uid)
		if res == nil {
			continue
		}
		for _, acct := range res.Accounts {
			if !acct.Success {
				continue
			}
			views += statValue(acct.PerformanceStats, "total_views")
			revenue += statValue(acct.PerformanceStats, "estimated_revenue_usd")
		}
	}
	if views > 0 && revenue > 0 {
		ratio := revenue / views
		s.ratio.Store(ratio)
		log.WithField("ratio", ratio).Debug("Updated views-to-revenue ratio")
	}
}

// publishAll runs both telemetry posts concurrently. Publication is
// best-effort; the publisher logs its own failures.
func (s *Service) publishAll(ctx context.Context, runID string, rs *types.ResultSet, corrections []types.WeightCorrection) {
	if s.publisher == nil {
		return
	}
	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		s.publisher.PublishAccounts(ctx, runID, rs)
	}()
	go func() {
		defer wg.Done()
		s.publisher.PublishCorrections(ctx, runID, corrections)
	}()
	wg.Wait()
}

func (s *Service) info(uid uint64) *types.MetagraphInfo {
	if s.metagraph == nil {
		return nil
	}
	return s.metagraph.Info(uid)
}

func statValue(stats map[string]interface{}, key string) float64 {
	if stats == nil {
		return 0
	}
	v, _ := stats[key].(float64)
	return v
}

// fallback returns the degraded reward vector: the whole distribution to the
// burn uid when present, zeros otherwise, with empty per-miner stats.
func fallback(uids []uint64) ([]float64, []types.MinerStats) {
	rewardVec := make([]float64, len(uids))
	stats := make([]types.MinerStats, len(uids))
	for i, uid := range uids {
		if uid == types.BurnUID {
			rewardVec[i] = 1
		}
		stats[i] = types.MinerStats{UID: uid, Scores: map[string]float64{}, Reward: rewardVec[i]}
	}
	return rewardVec, stats
}
