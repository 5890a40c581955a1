package rewards

import (
	"context"
	"math"
	"testing"

	"github.com/bitcast-network/bitcast/config/params"
	"github.com/bitcast-network/bitcast/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func capOf(v float64) *float64 {
	return &v
}

func targetsFromColumns(briefs []types.Brief, cols ...[]float64) []types.EmissionTarget {
	targets := make([]types.EmissionTarget, len(cols))
	for c, col := range cols {
		targets[c] = types.EmissionTarget{BriefID: briefs[c].ID, PerMinerWeights: col}
	}
	return targets
}

func assertSumsToOne(t *testing.T, rewards []float64) {
	t.Helper()
	var sum float64
	for _, r := range rewards {
		require.GreaterOrEqual(t, r, 0.0)
		sum += r
	}
	assert.InDelta(t, 1.0, sum, 1e-10)
}

func TestDistribute_WithinCap(t *testing.T) {
	// One brief, two miners plus burn; column sum stays under the cap so the
	// burn uid absorbs the residual.
	overrideTransformConfig(t, 1, 1, 0.2)
	briefs := makeBriefs("b")
	uids := []uint64{0, 1, 2}
	rs := types.NewResultSet()
	for _, uid := range uids {
		rs.Add(types.ZeroEvaluationResult(uid, "youtube", briefs, nil))
	}
	m := matrixFromColumn([]float64{0, 10, 30})
	targets := Transform(context.Background(), m, briefs, constFn(1), constFn(1000))

	rewards, stats, wPre, wPost := Distribute(targets, rs, briefs, uids, nil)
	require.Len(t, rewards, 3)
	assert.InDelta(t, 0.96, rewards[0], 1e-10)
	assert.InDelta(t, 0.01, rewards[1], 1e-10)
	assert.InDelta(t, 0.03, rewards[2], 1e-10)
	assertSumsToOne(t, rewards)
	require.Len(t, stats, 3)
	assert.InDelta(t, 0.01, wPre.At(1, 0), 1e-10)
	assert.InDelta(t, 0.01, wPost.At(1, 0), 1e-10)
}

func TestDistribute_CapTriggered(t *testing.T) {
	overrideTransformConfig(t, 1, 1, 0.2)
	briefs := makeBriefs("b")
	uids := []uint64{0, 1, 2}
	rs := types.NewResultSet()
	for _, uid := range uids {
		rs.Add(types.ZeroEvaluationResult(uid, "youtube", briefs, nil))
	}
	m := matrixFromColumn([]float64{0, 400, 800})
	targets := Transform(context.Background(), m, briefs, constFn(1), constFn(1000))

	rewards, _, wPre, wPost := Distribute(targets, rs, briefs, uids, nil)
	assert.InDelta(t, 0.4, wPre.At(1, 0), 1e-10)
	assert.InDelta(t, 0.8, wPre.At(2, 0), 1e-10)
	assert.InDelta(t, 1.0/3, wPost.At(1, 0), 1e-10)
	assert.InDelta(t, 2.0/3, wPost.At(2, 0), 1e-10)
	assert.InDelta(t, 0.0, rewards[0], 1e-10)
	assert.InDelta(t, 1.0/3, rewards[1], 1e-10)
	assert.InDelta(t, 2.0/3, rewards[2], 1e-10)
	assertSumsToOne(t, rewards)
}

func TestDistribute_TwoBriefsEqualWeight(t *testing.T) {
	briefs := makeBriefs("b1", "b2")
	briefs[0].Cap = capOf(0.5)
	briefs[1].Cap = capOf(0.5)
	uids := []uint64{0, 1}
	rs := types.NewResultSet()
	for _, uid := range uids {
		rs.Add(types.ZeroEvaluationResult(uid, "youtube", briefs, nil))
	}
	targets := targetsFromColumns(briefs, []float64{0, 0.6}, []float64{0, 0.4})

	rewards, _, _, wPost := Distribute(targets, rs, briefs, uids, nil)
	assert.InDelta(t, 0.5, wPost.At(1, 0), 1e-10)
	assert.InDelta(t, 0.4, wPost.At(1, 1), 1e-10)
	assert.InDelta(t, 0.45, rewards[1], 1e-10)
	assert.InDelta(t, 0.55, rewards[0], 1e-10)
	assertSumsToOne(t, rewards)
}

func TestDistribute_ZeroCapZerosColumn(t *testing.T) {
	// An explicit cap of 0 is a legal value, not an unset cap: the brief's
	// whole column is scaled to zero and the burn uid absorbs everything.
	briefs := makeBriefs("b")
	briefs[0].Cap = capOf(0)
	uids := []uint64{0, 1}
	rs := types.NewResultSet()
	for _, uid := range uids {
		rs.Add(types.ZeroEvaluationResult(uid, "youtube", briefs, nil))
	}
	targets := targetsFromColumns(briefs, []float64{0, 0.4})

	rewards, _, wPre, wPost := Distribute(targets, rs, briefs, uids, nil)
	assert.InDelta(t, 0.4, wPre.At(1, 0), 1e-10)
	assert.LessOrEqual(t, wPost.ColumnSum(0), 1e-10)
	assert.Equal(t, 0.0, rewards[1])
	assert.Equal(t, 1.0, rewards[0])
	assertSumsToOne(t, rewards)
}

func TestDistribute_CapHoldsBeforeFloor(t *testing.T) {
	// With the floor disabled, every column of wPost respects its cap.
	briefs := makeBriefs("b1", "b2")
	briefs[0].Cap = capOf(0.3)
	uids := []uint64{1, 2}
	rs := types.NewResultSet()
	for _, uid := range uids {
		rs.Add(types.ZeroEvaluationResult(uid, "youtube", briefs, nil))
	}
	targets := targetsFromColumns(briefs, []float64{0.4, 0.2}, []float64{0.1, 0.1})

	_, _, _, wPost := Distribute(targets, rs, briefs, uids, nil)
	for c, b := range briefs {
		assert.LessOrEqual(t, wPost.ColumnSum(c), b.CapValue()+1e-10, "brief %s", b.ID)
	}
}

func TestDistribute_FloorMayExceedCap(t *testing.T) {
	// The minimum-emission floor runs after per-brief caps and may push a
	// column back above its cap. Accepted ordering.
	params.SetupTestConfigCleanup(t)
	cfg := params.RewardConfig().Copy()
	cfg.MinTotalEmission = 0.9
	params.OverrideRewardConfig(cfg)

	briefs := makeBriefs("b")
	briefs[0].Cap = capOf(0.3)
	uids := []uint64{1}
	rs := types.NewResultSet()
	rs.Add(types.ZeroEvaluationResult(1, "youtube", briefs, nil))
	targets := targetsFromColumns(briefs, []float64{0.6})

	_, _, _, wPost := Distribute(targets, rs, briefs, uids, nil)
	// Cap scaled 0.6 -> 0.3, floor scaled 0.3 -> 0.9.
	assert.InDelta(t, 0.9, wPost.ColumnSum(0), 1e-10)
	assert.Greater(t, wPost.ColumnSum(0), *briefs[0].Cap)
}

func TestDistribute_GlobalNormalization(t *testing.T) {
	briefs := makeBriefs("b1", "b2")
	briefs[0].Cap = capOf(1)
	briefs[1].Cap = capOf(1)
	uids := []uint64{1, 2}
	rs := types.NewResultSet()
	for _, uid := range uids {
		rs.Add(types.ZeroEvaluationResult(uid, "youtube", briefs, nil))
	}
	targets := targetsFromColumns(briefs, []float64{0.5, 0.4}, []float64{0.4, 0.3})

	_, _, _, wPost := Distribute(targets, rs, briefs, uids, nil)
	assert.InDelta(t, 1.0, wPost.Sum(), 1e-10)
}

func TestDistribute_NonUniformWeights(t *testing.T) {
	briefs := makeBriefs("b1", "b2")
	briefs[0].Weight = 300
	briefs[1].Weight = 100
	uids := []uint64{0, 1}
	rs := types.NewResultSet()
	for _, uid := range uids {
		rs.Add(types.ZeroEvaluationResult(uid, "youtube", briefs, nil))
	}
	targets := targetsFromColumns(briefs, []float64{0, 0.4}, []float64{0, 0.4})

	rewards, _, _, _ := Distribute(targets, rs, briefs, uids, nil)
	// 0.4*(300/400) + 0.4*(100/400) = 0.4.
	assert.InDelta(t, 0.4, rewards[1], 1e-10)
	assertSumsToOne(t, rewards)
}

func TestDistribute_BurnOnly(t *testing.T) {
	briefs := makeBriefs("b")
	uids := []uint64{0}
	rs := types.NewResultSet()
	rs.Add(types.ZeroEvaluationResult(0, types.PlatformBurn, briefs, nil))
	targets := targetsFromColumns(briefs, []float64{0})

	rewards, stats, _, _ := Distribute(targets, rs, briefs, uids, nil)
	require.Len(t, rewards, 1)
	assert.Equal(t, 1.0, rewards[0])
	require.Len(t, stats, 1)
	assert.Equal(t, uint64(0), stats[0].UID)
}

func TestDistribute_NoBurnUIDReturnsRowSums(t *testing.T) {
	briefs := makeBriefs("b")
	uids := []uint64{1, 2}
	rs := types.NewResultSet()
	for _, uid := range uids {
		rs.Add(types.ZeroEvaluationResult(uid, "youtube", briefs, nil))
	}
	targets := targetsFromColumns(briefs, []float64{0.2, 0.3})

	rewards, _, _, _ := Distribute(targets, rs, briefs, uids, nil)
	assert.InDelta(t, 0.2, rewards[0], 1e-10)
	assert.InDelta(t, 0.3, rewards[1], 1e-10)
}

func TestDistribute_ReserveAllocator(t *testing.T) {
	briefs := makeBriefs("b")
	uids := []uint64{0, 7}
	rs := types.NewResultSet()
	for _, uid := range uids {
		rs.Add(types.ZeroEvaluationResult(uid, "youtube", briefs, nil))
	}
	targets := targetsFromColumns(briefs, []float64{0, 0.25})

	reserve := func(rewards []float64, uids []uint64) []float64 {
		// Shift half the burn mass to uid 7.
		out := append([]float64(nil), rewards...)
		shift := out[0] / 2
		out[0] -= shift
		out[1] += shift
		return out
	}
	rewards, _, _, _ := Distribute(targets, rs, briefs, uids, reserve)
	assert.InDelta(t, 0.375, rewards[0], 1e-10)
	assert.InDelta(t, 0.625, rewards[1], 1e-10)
	assertSumsToOne(t, rewards)
}

func TestDistribute_StatsCarryScoresAndEmissions(t *testing.T) {
	briefs := makeBriefs("b")
	uids := []uint64{0, 1}
	rs := types.NewResultSet()
	rs.Add(types.ZeroEvaluationResult(0, types.PlatformBurn, briefs, nil))
	rs.Add(&types.EvaluationResult{
		UID:              1,
		Platform:         "youtube",
		AggregatedScores: map[string]float64{"b": 12},
		MetagraphInfo:    &types.MetagraphInfo{UID: 1, AlphaStake: 500},
	})
	targets := targetsFromColumns(briefs, []float64{0, 0.5})

	_, stats, _, wPost := Distribute(targets, rs, briefs, uids, nil)
	require.Len(t, stats, 2)
	assert.Equal(t, 12.0, stats[1].Scores["b"])
	require.NotNil(t, stats[1].Metagraph)
	assert.InDelta(t, wPost.ColumnSum(0), stats[1].BriefEmissionPercentages["b"], 1e-12)
	assert.NotNil(t, stats[0].Scores)
}

func TestDistribute_StatsEmissionMapsAreIndependent(t *testing.T) {
	briefs := makeBriefs("b")
	uids := []uint64{0, 1}
	rs := types.NewResultSet()
	for _, uid := range uids {
		rs.Add(types.ZeroEvaluationResult(uid, "youtube", briefs, nil))
	}
	targets := targetsFromColumns(briefs, []float64{0, 0.5})

	_, stats, _, wPost := Distribute(targets, rs, briefs, uids, nil)
	require.Len(t, stats, 2)
	stats[0].BriefEmissionPercentages["b"] = -1
	assert.InDelta(t, wPost.ColumnSum(0), stats[1].BriefEmissionPercentages["b"], 1e-12)
}

func TestDistribute_EmptyInputs(t *testing.T) {
	rewards, stats, wPre, wPost := Distribute(nil, types.NewResultSet(), nil, nil, nil)
	assert.Empty(t, rewards)
	assert.Empty(t, stats)
	assert.Equal(t, 0, wPre.Rows())
	assert.Equal(t, 0, wPost.Rows())
	assert.False(t, math.IsNaN(wPre.Sum()))
}
