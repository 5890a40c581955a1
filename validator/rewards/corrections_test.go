package rewards

import (
	"testing"

	"github.com/bitcast-network/bitcast/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func resultWithContent(uid uint64, contentKey string, item *types.ContentItem) *types.EvaluationResult {
	return &types.EvaluationResult{
		UID:      uid,
		Platform: "youtube",
		Accounts: []*types.AccountResult{
			{
				AccountID:    "account_1",
				ContentItems: map[string]*types.ContentItem{contentKey: item},
				Scores:       map[string]float64{},
				Success:      true,
			},
		},
	}
}

func TestDeriveCorrections_ScalingFactors(t *testing.T) {
	briefs := makeBriefs("b1", "b2")
	rs := types.NewResultSet()
	rs.Add(resultWithContent(1, "vid-1", &types.ContentItem{
		Details:         types.ContentDetails{BitcastContentID: "c"},
		MatchedBriefIDs: []string{"b1", "b2"},
	}))

	wPre := types.NewMatrix(1, 2)
	wPre.Set(0, 0, 1.0)
	wPre.Set(0, 1, 0.5)
	wPost := types.NewMatrix(1, 2)
	wPost.Set(0, 0, 0.6)
	wPost.Set(0, 1, 0.3)

	corrections := DeriveCorrections(rs, wPre, wPost, briefs)
	require.Len(t, corrections, 2)
	assert.Equal(t, types.WeightCorrection{ContentID: "c", BriefID: "b1", ScalingFactor: 0.6}, corrections[0])
	assert.Equal(t, "b2", corrections[1].BriefID)
	assert.InDelta(t, 0.6, corrections[1].ScalingFactor, 1e-10)
}

func TestDeriveCorrections_RawKeyWhenNoBitcastID(t *testing.T) {
	briefs := makeBriefs("b1")
	rs := types.NewResultSet()
	rs.Add(resultWithContent(1, "vid-raw", &types.ContentItem{
		MatchedBriefIDs: []string{"b1"},
	}))

	wPre := types.NewMatrix(1, 1)
	wPre.Set(0, 0, 1.0)
	wPost := wPre.Clone()

	corrections := DeriveCorrections(rs, wPre, wPost, briefs)
	require.Len(t, corrections, 1)
	assert.Equal(t, "vid-raw", corrections[0].ContentID)
	assert.Equal(t, 1.0, corrections[0].ScalingFactor)
}

func TestDeriveCorrections_ZeroWhenPreIsZero(t *testing.T) {
	briefs := makeBriefs("b1")
	rs := types.NewResultSet()
	rs.Add(resultWithContent(1, "vid", &types.ContentItem{MatchedBriefIDs: []string{"b1"}}))

	wPre := types.NewMatrix(1, 1)
	wPost := types.NewMatrix(1, 1)
	wPost.Set(0, 0, 0.4)

	corrections := DeriveCorrections(rs, wPre, wPost, briefs)
	require.Len(t, corrections, 1)
	assert.Equal(t, 0.0, corrections[0].ScalingFactor)
}

func TestDeriveCorrections_ClampsToMax(t *testing.T) {
	briefs := makeBriefs("b1")
	rs := types.NewResultSet()
	rs.Add(resultWithContent(1, "vid", &types.ContentItem{MatchedBriefIDs: []string{"b1"}}))

	wPre := types.NewMatrix(1, 1)
	wPre.Set(0, 0, 0.01)
	wPost := types.NewMatrix(1, 1)
	wPost.Set(0, 0, 0.5)

	corrections := DeriveCorrections(rs, wPre, wPost, briefs)
	require.Len(t, corrections, 1)
	assert.Equal(t, 10.0, corrections[0].ScalingFactor)
}

func TestDeriveCorrections_SkipsBriefsOutsideCycle(t *testing.T) {
	briefs := makeBriefs("b1")
	rs := types.NewResultSet()
	rs.Add(resultWithContent(1, "vid", &types.ContentItem{
		MatchedBriefIDs: []string{"retired-brief", "b1"},
	}))

	wPre := types.NewMatrix(1, 1)
	wPre.Set(0, 0, 1)
	wPost := wPre.Clone()

	corrections := DeriveCorrections(rs, wPre, wPost, briefs)
	require.Len(t, corrections, 1)
	assert.Equal(t, "b1", corrections[0].BriefID)
}

func TestDeriveCorrections_SkipsRowsOutsideMatrices(t *testing.T) {
	briefs := makeBriefs("b1")
	rs := types.NewResultSet()
	rs.Add(resultWithContent(1, "vid-1", &types.ContentItem{MatchedBriefIDs: []string{"b1"}}))
	rs.Add(resultWithContent(2, "vid-2", &types.ContentItem{MatchedBriefIDs: []string{"b1"}}))

	// Matrices only have one row; the second miner is skipped.
	wPre := types.NewMatrix(1, 1)
	wPre.Set(0, 0, 1)
	wPost := wPre.Clone()

	corrections := DeriveCorrections(rs, wPre, wPost, briefs)
	require.Len(t, corrections, 1)
}
