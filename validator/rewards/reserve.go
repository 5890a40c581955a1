package rewards

import (
	"github.com/bitcast-network/bitcast/config/params"
	"github.com/bitcast-network/bitcast/types"
)

// CommunityReserve returns the default ReserveAllocator. When a community
// reserve uid is configured, the burn uid's reward is reassigned to it; with
// the reserve uid unset (equal to the burn uid) or either uid absent from the
// cycle, the vector is returned untouched. Sum and non-negativity are
// preserved either way.
func CommunityReserve() ReserveAllocator {
	return func(rewards []float64, uids []uint64) []float64 {
		reserveUID := params.RewardConfig().CommunityReserveUID
		if reserveUID == types.BurnUID {
			return rewards
		}
		burnIdx := indexOf(uids, types.BurnUID)
		reserveIdx := indexOf(uids, reserveUID)
		if burnIdx < 0 || reserveIdx < 0 {
			return rewards
		}
		out := append([]float64(nil), rewards...)
		out[reserveIdx] += out[burnIdx]
		out[burnIdx] = 0
		return out
	}
}
