package rewards

import (
	"github.com/bitcast-network/bitcast/config/params"
	"github.com/bitcast-network/bitcast/types"
	"github.com/sirupsen/logrus"
)

// DeriveCorrections records, for every (content item, brief) pair matched in
// the cycle, the scaling that pair's weight suffered between the pre- and
// post-constraint matrices. The same pair may appear once per miner whose
// results contain the item; no deduplication happens here.
func DeriveCorrections(rs *types.ResultSet, wPre, wPost *types.Matrix, briefs []types.Brief) []types.WeightCorrection {
	clampMax := params.RewardConfig().CorrectionClampMax
	columns := make(map[string]int, len(briefs))
	for c, b := range briefs {
		columns[b.ID] = c
	}

	var corrections []types.WeightCorrection
	for i, uid := range rs.UIDs() {
		res := rs.Get(uid)
		if res == nil {
			continue
		}
		if i >= wPre.Rows() || i >= wPost.Rows() {
			log.WithField("uid", uid).Warn("Result row outside weight matrices, skipping corrections")
			continue
		}
		for _, acct := range res.Accounts {
			for contentKey, item := range acct.ContentItems {
				contentID := item.Details.BitcastContentID
				if contentID == "" {
					contentID = contentKey
				}
				for _, briefID := range item.MatchedBriefIDs {
					c, ok := columns[briefID]
					if !ok {
						// Brief not part of this cycle.
						continue
					}
					factor := 0.0
					if pre := wPre.At(i, c); pre > 0 {
						factor = wPost.At(i, c) / pre
					}
					if factor < 0 {
						factor = 0
					}
					if factor > clampMax {
						log.WithFields(logrus.Fields{
							"content": contentID,
							"brief":   briefID,
							"factor":  factor,
						}).Debug("Clamping correction factor")
						factor = clampMax
					}
					corrections = append(corrections, types.WeightCorrection{
						ContentID:     contentID,
						BriefID:       briefID,
						ScalingFactor: factor,
					})
				}
			}
		}
	}
	return corrections
}
