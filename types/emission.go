package types

// EmissionTarget is the per-brief USD-denominated emission bundle produced by
// the emission transform.
type EmissionTarget struct {
	BriefID         string             `json:"brief_id"`
	USDTarget       float64            `json:"usd_target"`
	PerMinerWeights []float64          `json:"per_miner_weights"`
	ScalingFactors  map[string]float64 `json:"scaling_factors"`
}

// WeightCorrection records the scaling one content item suffered for one
// brief when distribution constraints were enforced.
type WeightCorrection struct {
	ContentID     string  `json:"content_id"`
	BriefID       string  `json:"brief_id"`
	ScalingFactor float64 `json:"scaling_factor"`
}

// MinerStats is the per-miner record returned to the caller alongside the
// reward vector. Reward is filled in by the caller before publication.
type MinerStats struct {
	UID                      uint64             `json:"uid"`
	Reward                   float64            `json:"reward"`
	Scores                   map[string]float64 `json:"scores"`
	Metagraph                *MetagraphInfo     `json:"metagraph,omitempty"`
	BriefEmissionPercentages map[string]float64 `json:"brief_emission_percentages,omitempty"`
	Accounts                 []*AccountResult   `json:"accounts,omitempty"`
}
