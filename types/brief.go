// Package types holds the plain value types passed between the reward engine
// stages. Everything here is owned by the cycle that created it and discarded
// at cycle end.
package types

// BriefFormat enumerates the known content formats a brief can ask for.
type BriefFormat string

const (
	// BriefFormatDedicated is a video produced entirely for the brief.
	BriefFormatDedicated BriefFormat = "dedicated"
	// BriefFormatAdRead is a sponsored segment inside unrelated content.
	BriefFormatAdRead BriefFormat = "ad-read"
)

// Default attribute values applied to briefs that omit them.
const (
	DefaultBriefWeight = 100.0
	DefaultBriefBoost  = 1.0
	DefaultBriefCap    = 1.0
)

// SubsRange bounds the subscriber count of channels eligible for a brief.
// Either side may be nil, meaning unbounded.
type SubsRange struct {
	Min *int64 `json:"min"`
	Max *int64 `json:"max"`
}

// Brief is one campaign definition. Immutable within a cycle. Cap is a
// pointer because zero is a legal value (it zeroes the brief's column at
// distribution time) and must stay distinguishable from an absent cap.
type Brief struct {
	ID        string      `json:"id"`
	Weight    float64     `json:"weight"`
	Format    BriefFormat `json:"format"`
	Boost     float64     `json:"boost"`
	Cap       *float64    `json:"cap,omitempty"`
	StartDate string      `json:"start_date"`
	SubsRange *SubsRange  `json:"subs_range,omitempty"`
}

// ApplyDefaults fills in the documented defaults for unset attributes.
// Catalog clients call this right after decoding.
func (b *Brief) ApplyDefaults() {
	if b.Weight <= 0 {
		b.Weight = DefaultBriefWeight
	}
	if b.Boost <= 0 {
		b.Boost = DefaultBriefBoost
	}
	if b.Cap == nil {
		v := DefaultBriefCap
		b.Cap = &v
	}
	if b.Format == "" {
		b.Format = BriefFormatDedicated
	}
}

// CapValue returns the brief's emission cap, applying the default when unset
// and clamping negatives to zero.
func (b *Brief) CapValue() float64 {
	if b.Cap == nil {
		return DefaultBriefCap
	}
	if *b.Cap < 0 {
		return 0
	}
	return *b.Cap
}

// AcceptsSubscriberCount reports whether a channel with the given subscriber
// count falls inside the brief's subs range.
func (b *Brief) AcceptsSubscriberCount(subs int64) bool {
	if b.SubsRange == nil {
		return true
	}
	if b.SubsRange.Min != nil && subs < *b.SubsRange.Min {
		return false
	}
	if b.SubsRange.Max != nil && subs > *b.SubsRange.Max {
		return false
	}
	return true
}
