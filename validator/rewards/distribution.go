package rewards

import (
	"github.com/bitcast-network/bitcast/config/params"
	"github.com/bitcast-network/bitcast/types"
	"github.com/sirupsen/logrus"
)

// ReserveAllocator may shift reward mass from the burn uid to a community
// reserve uid. It must preserve the sum and non-negativity.
type ReserveAllocator func(rewards []float64, uids []uint64) []float64

// Distribute turns the per-brief emission targets into the final per-miner
// reward vector. It returns the rewards, per-miner stats, and the weight
// matrices before and after constraint enforcement.
//
// Constraint ordering is deliberate and load-bearing: per-brief caps first,
// then the global minimum-emission floor (which may legally push a column
// back above its cap), then global normalization.
func Distribute(targets []types.EmissionTarget, rs *types.ResultSet, briefs []types.Brief, uids []uint64, reserve ReserveAllocator) (rewards []float64, stats []types.MinerStats, wPre, wPost *types.Matrix) {
	cfg := params.RewardConfig()

	// Stage A: assemble the pre-constraint matrix from the target columns.
	wPre = types.NewMatrix(len(uids), len(briefs))
	for c := range targets {
		if c >= len(briefs) {
			break
		}
		for i, w := range targets[c].PerMinerWeights {
			if i >= len(uids) {
				break
			}
			wPre.Set(i, c, w)
		}
	}

	// Stage B: constraint enforcement on a copy.
	w := wPre.Clone()
	for c, b := range briefs {
		capValue := b.CapValue()
		if s := w.ColumnSum(c); s > capValue && s > 0 {
			log.WithFields(logrus.Fields{
				"brief": b.ID,
				"sum":   s,
				"cap":   capValue,
			}).Info("Brief emission exceeds cap, scaling down")
			w.ScaleColumn(c, capValue/s)
		}
	}
	if total := w.Sum(); total > 0 && total < cfg.MinTotalEmission {
		log.WithFields(logrus.Fields{
			"total": total,
			"floor": cfg.MinTotalEmission,
		}).Info("Total emission below floor, scaling up")
		w.Scale(cfg.MinTotalEmission / total)
	}
	if total := w.Sum(); total > 1 {
		log.WithField("total", total).Info("Total emission exceeds 1, normalizing")
		w.Scale(1 / total)
	}
	wPost = w.Clone()

	// Stage C: cross-brief mixing by brief weight. With uniform weights the
	// matrix is divided by the brief count, which preserves the per-brief cap
	// semantics; non-uniform weights intentionally do not.
	if len(briefs) > 0 {
		uniform := true
		var weightSum float64
		for _, b := range briefs {
			if b.Weight != briefs[0].Weight {
				uniform = false
			}
			weightSum += b.Weight
		}
		if uniform {
			w.Scale(1 / float64(len(briefs)))
		} else if weightSum > 0 {
			for c, b := range briefs {
				w.ScaleColumn(c, b.Weight/weightSum)
			}
		}
	}

	// Stage D: row sums, with the burn uid absorbing the residual so the
	// vector sums to exactly 1.
	rewards = make([]float64, len(uids))
	for i := range uids {
		rewards[i] = w.RowSum(i)
	}
	if burnIdx := indexOf(uids, types.BurnUID); burnIdx >= 0 {
		var others float64
		for i, r := range rewards {
			if i != burnIdx {
				others += r
			}
		}
		rewards[burnIdx] = 1 - others
	}

	// Stage E: optional community reserve reallocation.
	if reserve != nil {
		rewards = reserve(rewards, uids)
	}

	// Stage F: stats assembly. The caller fills in the reward field before
	// publication.
	briefEmissions := make(map[string]float64, len(briefs))
	for c, b := range briefs {
		briefEmissions[b.ID] = wPost.ColumnSum(c)
	}
	stats = make([]types.MinerStats, len(uids))
	for i, uid := range uids {
		// Each stat gets its own copy; these maps are handed to publishers
		// and callers that may mutate them.
		perStat := make(map[string]float64, len(briefEmissions))
		for id, v := range briefEmissions {
			perStat[id] = v
		}
		s := types.MinerStats{
			UID:                      uid,
			Scores:                   map[string]float64{},
			BriefEmissionPercentages: perStat,
		}
		if res := rs.Get(uid); res != nil {
			if res.AggregatedScores != nil {
				s.Scores = res.AggregatedScores
			}
			s.Metagraph = res.MetagraphInfo
			s.Accounts = res.Accounts
		}
		stats[i] = s
	}
	return rewards, stats, wPre, wPost
}

func indexOf(uids []uint64, uid uint64) int {
	for i, u := range uids {
		if u == uid {
			return i
		}
	}
	return -1
}
