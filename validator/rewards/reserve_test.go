package rewards

import (
	"testing"

	"github.com/bitcast-network/bitcast/config/params"
	"github.com/stretchr/testify/assert"
)

func overrideReserveUID(t *testing.T, uid uint64) {
	params.SetupTestConfigCleanup(t)
	cfg := params.RewardConfig().Copy()
	cfg.CommunityReserveUID = uid
	params.OverrideRewardConfig(cfg)
}

func TestCommunityReserve_ShiftsBurnMass(t *testing.T) {
	overrideReserveUID(t, 7)
	allocate := CommunityReserve()

	out := allocate([]float64{0.9, 0.1, 0}, []uint64{0, 1, 7})
	assert.Equal(t, []float64{0, 0.1, 0.9}, out)
	assertSumsToOne(t, out)
}

func TestCommunityReserve_UnconfiguredIsNoOp(t *testing.T) {
	// The default reserve uid equals the burn uid, so nothing moves.
	params.SetupTestConfigCleanup(t)
	allocate := CommunityReserve()

	in := []float64{0.9, 0.1}
	out := allocate(in, []uint64{0, 1})
	assert.Equal(t, in, out)
}

func TestCommunityReserve_ReserveUIDAbsent(t *testing.T) {
	overrideReserveUID(t, 9)
	allocate := CommunityReserve()

	in := []float64{0.9, 0.1}
	out := allocate(in, []uint64{0, 1})
	assert.Equal(t, in, out)
}

func TestCommunityReserve_NoBurnUID(t *testing.T) {
	overrideReserveUID(t, 2)
	allocate := CommunityReserve()

	in := []float64{0.5, 0.5}
	out := allocate(in, []uint64{1, 2})
	assert.Equal(t, in, out)
}

func TestCommunityReserve_DoesNotMutateInput(t *testing.T) {
	overrideReserveUID(t, 1)
	allocate := CommunityReserve()

	in := []float64{0.7, 0.3}
	allocate(in, []uint64{0, 1})
	assert.Equal(t, []float64{0.7, 0.3}, in)
}
