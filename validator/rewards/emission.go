package rewards

import (
	"context"
	"math"

	"github.com/bitcast-network/bitcast/config/params"
	"github.com/bitcast-network/bitcast/types"
)

// PriceFunc returns the alpha token price in USD.
type PriceFunc func(ctx context.Context) (float64, error)

// EmissionFunc returns the total daily alpha emission.
type EmissionFunc func(ctx context.Context) (float64, error)

// Transform turns the score matrix into per-brief emission targets. Each
// brief column is scaled by its format factor and boost, smoothed with the
// configured exponent under a mean-preserving rescale, summed into a USD
// target, and finally divided by price × daily emission to obtain raw
// weights. If either lookup fails the raw weights are all zero and the burn
// uid will absorb the whole distribution downstream.
func Transform(ctx context.Context, m *types.Matrix, briefs []types.Brief, price PriceFunc, daily EmissionFunc) []types.EmissionTarget {
	cfg := params.RewardConfig()
	usd := m.Clone()
	for c, b := range briefs {
		factor := formatScalingFactor(b.Format)
		col := usd.Column(c)
		for i := range col {
			col[i] = math.Max(col[i], 0) * factor * b.Boost
		}
		col = smooth(col, cfg.SmoothingExponent)
		usd.SetColumn(c, col)
	}

	divisor, ok := weightDivisor(ctx, price, daily)
	targets := make([]types.EmissionTarget, len(briefs))
	for c, b := range briefs {
		weights := make([]float64, m.Rows())
		if ok {
			for i := range weights {
				weights[i] = usd.At(i, c) / divisor
			}
		}
		targets[c] = types.EmissionTarget{
			BriefID:         b.ID,
			USDTarget:       usd.ColumnSum(c),
			PerMinerWeights: weights,
			ScalingFactors: map[string]float64{
				"boost_factor":     b.Boost,
				"smoothing_factor": cfg.SmoothingExponent,
				"format_factor":    formatScalingFactor(b.Format),
			},
		}
	}
	return targets
}

// smooth applies x^alpha elementwise, then rescales so the column mean is
// preserved. An all-zero column stays all zero.
func smooth(col []float64, alpha float64) []float64 {
	p := make([]float64, len(col))
	var sumScaled, sumP float64
	for i, v := range col {
		v = math.Max(v, 0)
		p[i] = math.Pow(v, alpha)
		sumScaled += v
		sumP += p[i]
	}
	if sumP <= 0 {
		return p
	}
	// Means share the same denominator, so the ratio of sums is the ratio
	// of means.
	rescale := sumScaled / sumP
	for i := range p {
		p[i] *= rescale
	}
	return p
}

func formatScalingFactor(format types.BriefFormat) float64 {
	cfg := params.RewardConfig()
	switch format {
	case types.BriefFormatDedicated:
		return cfg.ScalingFactorDedicated
	case types.BriefFormatAdRead:
		return cfg.ScalingFactorAdRead
	default:
		log.WithField("format", format).Warn("Unknown brief format, falling back to dedicated scaling")
		return cfg.ScalingFactorDedicated
	}
}

// weightDivisor fetches price × daily emission. ok is false when either
// lookup fails or the product is not positive.
func weightDivisor(ctx context.Context, price PriceFunc, daily EmissionFunc) (float64, bool) {
	p, err := price(ctx)
	if err != nil {
		log.WithError(err).Error("Could not fetch alpha price, raw weights will be zero")
		return 0, false
	}
	d, err := daily(ctx)
	if err != nil {
		log.WithError(err).Error("Could not fetch daily emission, raw weights will be zero")
		return 0, false
	}
	divisor := p * d
	if divisor <= 0 {
		log.WithField("price", p).WithField("dailyAlpha", d).Error("Non-positive weight divisor, raw weights will be zero")
		return 0, false
	}
	return divisor, true
}
