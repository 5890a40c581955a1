// Package rewards contains the pure transform stages of the reward pipeline:
// score aggregation, the emission transform, constrained distribution, and
// weight-corrections derivation. Everything here is deterministic; the only
// I/O is the price and emission lookups injected into the transform.
package rewards

import (
	"github.com/bitcast-network/bitcast/types"
)

// Aggregate collapses a ResultSet into the (miners × briefs) score matrix.
// Row order equals the ResultSet's insertion order, column order the input
// brief order. The cell is the sum of per-account scores for that brief;
// missing briefs and negative scores both contribute zero.
func Aggregate(rs *types.ResultSet, briefs []types.Brief) *types.Matrix {
	m := types.NewMatrix(rs.Len(), len(briefs))
	for i, uid := range rs.UIDs() {
		res := rs.Get(uid)
		if res == nil {
			continue
		}
		for c, b := range briefs {
			var sum float64
			if len(res.Accounts) > 0 {
				for _, acct := range res.Accounts {
					sum += acct.Scores[b.ID]
				}
			} else {
				sum = res.AggregatedScores[b.ID]
			}
			if sum > 0 {
				m.Set(i, c, sum)
			}
		}
	}
	return m
}
