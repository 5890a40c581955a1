package youtube

import (
	"context"
	"strings"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/crypto"
	yt "github.com/bitcast-network/bitcast/platform/youtube"
	"github.com/bitcast-network/bitcast/types"
)

// Matcher decides whether one video satisfies one brief. Implementations may
// call out to external services; the evaluator bounds their concurrency.
type Matcher interface {
	Matches(ctx context.Context, v *yt.Video, transcript string, brief types.Brief) (bool, error)
}

// KeywordMatcher matches a brief when its campaign tag appears in the video
// description or transcript. It is the offline fallback for the hosted
// matching service.
type KeywordMatcher struct{}

// NewKeywordMatcher returns a KeywordMatcher.
func NewKeywordMatcher() *KeywordMatcher {
	return &KeywordMatcher{}
}

// Matches reports whether the brief tag occurs in the video text.
func (m *KeywordMatcher) Matches(_ context.Context, v *yt.Video, transcript string, brief types.Brief) (bool, error) {
	tag := strings.ToLower(brief.ID)
	if tag == "" {
		return false, nil
	}
	haystack := strings.ToLower(v.Description + " " + transcript)
	return strings.Contains(haystack, tag), nil
}

// bitcastContentID derives the network-level content id for a platform video
// id. The same video always maps to the same id, across miners and cycles.
func bitcastContentID(videoID string) string {
	h := crypto.Keccak256([]byte(PlatformName + ":" + videoID))
	return hexutil.Encode(h[:16])
}
