package types

// BurnUID is the distinguished miner uid that is never queried or evaluated
// and absorbs residual rewards so the distribution sums to 1.
const BurnUID uint64 = 0

// Platform tags attached to evaluation results that did not come from a real
// platform evaluator.
const (
	PlatformBurn    = "burn"
	PlatformUnknown = "unknown"
	PlatformError   = "error"
)

// TokenReply is the raw payload a miner returns to a token request.
type TokenReply struct {
	TokensByType map[string][]string `json:"tokens_by_type"`
}

// MinerResponse is one miner's reply to a query. Invalid responses carry the
// error string in place of tokens.
type MinerResponse struct {
	UID          uint64
	Valid        bool
	Error        string
	TokensByType map[string][]string
}

// InvalidMinerResponse builds the response recorded when a miner could not be
// queried.
func InvalidMinerResponse(uid uint64, errMsg string) *MinerResponse {
	return &MinerResponse{UID: uid, Valid: false, Error: errMsg}
}

// MetagraphInfo is a read-only per-miner snapshot of chain state consumed by
// evaluators and attached to stats.
type MetagraphInfo struct {
	UID        uint64  `json:"uid"`
	Hotkey     string  `json:"hotkey,omitempty"`
	Stake      float64 `json:"stake"`
	AlphaStake float64 `json:"alpha_stake"`
	Incentive  float64 `json:"incentive"`
	Emission   float64 `json:"emission"`
}
