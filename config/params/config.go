// Package params defines the configurable constants of the bitcast reward
// engine and the process-global configuration accessors used across services.
package params

import "time"

// EngineConfig contains the tunable constants of one validator process. A
// single instance is active at a time; services read it through the
// RewardConfig accessor at call time so overrides take effect.
type EngineConfig struct {
	// Evaluator gating and sizing.
	MinAlphaStakeThreshold float64 `yaml:"MIN_ALPHA_STAKE_THRESHOLD"`
	MaxAccountsPerMiner    int     `yaml:"MAX_ACCOUNTS_PER_MINER"`
	EcoMode                bool    `yaml:"ECO_MODE"`
	RewardDelayDays        int     `yaml:"REWARD_DELAY"`
	RollingWindowDays      int     `yaml:"ROLLING_WINDOW"`
	TranscriptMaxRetries   int     `yaml:"TRANSCRIPT_MAX_RETRIES"`
	BriefMatchWorkers      int     `yaml:"BRIEF_MATCH_WORKERS"`

	// Emission transform.
	ScalingFactorDedicated float64 `yaml:"SCALING_FACTOR_DEDICATED"`
	ScalingFactorAdRead    float64 `yaml:"SCALING_FACTOR_AD_READ"`
	SmoothingExponent      float64 `yaml:"SMOOTHING_EXPONENT"`

	// Reward distribution.
	MinTotalEmission    float64 `yaml:"MIN_TOTAL_EMISSION"`
	CorrectionClampMax  float64 `yaml:"CORRECTION_CLAMP_MAX"`
	CommunityReserveUID uint64  `yaml:"COMMUNITY_RESERVE_UID"`

	// Transport.
	QueryTimeout   time.Duration `yaml:"QUERY_TIMEOUT"`
	PublishTimeout time.Duration `yaml:"PUBLISH_TIMEOUT"`

	// Publication. StatsEndpoint is recognized for operators running the
	// external stats sink; the core engine does not post to it.
	EnableDataPublish   bool   `yaml:"ENABLE_DATA_PUBLISH"`
	AccountsEndpoint    string `yaml:"ACCOUNTS_ENDPOINT"`
	CorrectionsEndpoint string `yaml:"CORRECTIONS_ENDPOINT"`
	StatsEndpoint       string `yaml:"STATS_ENDPOINT"`
}

// MainnetRewardConfig returns the production defaults.
func MainnetRewardConfig() *EngineConfig {
	return &EngineConfig{
		MinAlphaStakeThreshold: 100,
		MaxAccountsPerMiner:    5,
		EcoMode:                false,
		RewardDelayDays:        3,
		RollingWindowDays:      14,
		TranscriptMaxRetries:   3,
		BriefMatchWorkers:      5,

		ScalingFactorDedicated: 1.0,
		ScalingFactorAdRead:    0.2,
		SmoothingExponent:      0.85,

		MinTotalEmission:    0.0,
		CorrectionClampMax:  10.0,
		CommunityReserveUID: 0,

		QueryTimeout:   30 * time.Second,
		PublishTimeout: 60 * time.Second,

		EnableDataPublish: true,
	}
}

var rewardConfig = MainnetRewardConfig()

// RewardConfig retrieves the active engine configuration.
func RewardConfig() *EngineConfig {
	return rewardConfig
}

// OverrideRewardConfig replaces the active configuration. Not safe to call
// concurrently with readers; intended for startup and tests.
func OverrideRewardConfig(c *EngineConfig) {
	rewardConfig = c
}

// Copy returns a value copy of the configuration.
func (c *EngineConfig) Copy() *EngineConfig {
	cp := *c
	return &cp
}
