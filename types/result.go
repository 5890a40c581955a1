package types

// ContentDetails carries the identifying fields of one content item. The
// BitcastContentID, when present, replaces the raw platform content key in
// weight-correction records.
type ContentDetails struct {
	BitcastContentID string `json:"bitcastContentId,omitempty"`
	Title            string `json:"title,omitempty"`
	PublishedAt      string `json:"publishedAt,omitempty"`
	DurationSeconds  int64  `json:"durationSeconds,omitempty"`
}

// ContentItem is one piece of content evaluated for an account, with the
// briefs it matched and the raw metrics behind its scores. Description and
// Transcript are stripped before publication.
type ContentItem struct {
	Details         ContentDetails     `json:"details"`
	MatchedBriefIDs []string           `json:"matched_brief_ids,omitempty"`
	Metrics         map[string]float64 `json:"metrics,omitempty"`
	Description     string             `json:"description,omitempty"`
	Transcript      string             `json:"transcript,omitempty"`
}

// AccountResult is the outcome of evaluating one claimed account. On failure
// Success is false and every score is zero.
type AccountResult struct {
	AccountID        string                  `json:"account_id"`
	PlatformData     map[string]interface{}  `json:"platform_data,omitempty"`
	ContentItems     map[string]*ContentItem `json:"content_items,omitempty"`
	Scores           map[string]float64      `json:"scores"`
	PerformanceStats map[string]interface{}  `json:"performance_stats,omitempty"`
	Success          bool                    `json:"success"`
	Error            string                  `json:"error,omitempty"`
}

// ZeroScores returns a score map with a zero entry for every brief.
func ZeroScores(briefs []Brief) map[string]float64 {
	scores := make(map[string]float64, len(briefs))
	for _, b := range briefs {
		scores[b.ID] = 0
	}
	return scores
}

// ErrorAccountResult builds the result recorded for an account that could not
// be evaluated.
func ErrorAccountResult(accountID, errMsg string, briefs []Brief) *AccountResult {
	return &AccountResult{
		AccountID: accountID,
		Scores:    ZeroScores(briefs),
		Success:   false,
		Error:     errMsg,
	}
}

// EvaluationResult is one miner's aggregated outcome. Accounts preserves the
// order tokens appeared in the miner's response.
type EvaluationResult struct {
	UID              uint64
	Platform         string
	Accounts         []*AccountResult
	AggregatedScores map[string]float64
	MetagraphInfo    *MetagraphInfo
}

// ZeroEvaluationResult builds a result with zero scores for every brief,
// used for the burn uid and for miners no evaluator recognized.
func ZeroEvaluationResult(uid uint64, platform string, briefs []Brief, info *MetagraphInfo) *EvaluationResult {
	return &EvaluationResult{
		UID:              uid,
		Platform:         platform,
		AggregatedScores: ZeroScores(briefs),
		MetagraphInfo:    info,
	}
}

// ResultSet maps uid to EvaluationResult for the cycle's miners, preserving
// insertion order. Exactly one entry per requested uid.
type ResultSet struct {
	uids    []uint64
	results map[uint64]*EvaluationResult
}

// NewResultSet returns an empty ResultSet.
func NewResultSet() *ResultSet {
	return &ResultSet{results: make(map[uint64]*EvaluationResult)}
}

// Add appends the result for a uid not seen before; a duplicate uid replaces
// the existing entry without disturbing row order.
func (rs *ResultSet) Add(res *EvaluationResult) {
	if _, ok := rs.results[res.UID]; !ok {
		rs.uids = append(rs.uids, res.UID)
	}
	rs.results[res.UID] = res
}

// Get returns the result for uid, or nil.
func (rs *ResultSet) Get(uid uint64) *EvaluationResult {
	return rs.results[uid]
}

// UIDs returns the uids in insertion order. The returned slice is shared;
// callers must not mutate it.
func (rs *ResultSet) UIDs() []uint64 {
	return rs.uids
}

// Len returns the number of entries.
func (rs *ResultSet) Len() int {
	return len(rs.uids)
}
