package evaluators

import (
	"context"
	"testing"

	"github.com/bitcast-network/bitcast/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubEvaluator struct {
	name      string
	tokenType string
}

func (s *stubEvaluator) Name() string { return s.name }

func (s *stubEvaluator) CanEvaluate(resp *types.MinerResponse) bool {
	return resp != nil && resp.Valid && len(resp.TokensByType[s.tokenType]) > 0
}

func (s *stubEvaluator) SupportedTokenTypes() []string { return []string{s.tokenType} }

func (s *stubEvaluator) EvaluateAccounts(_ context.Context, resp *types.MinerResponse, briefs []types.Brief, info *types.MetagraphInfo) (*types.EvaluationResult, error) {
	return types.ZeroEvaluationResult(resp.UID, s.name, briefs, info), nil
}

func responseWith(tokenType string) *types.MinerResponse {
	return &types.MinerResponse{
		UID:          1,
		Valid:        true,
		TokensByType: map[string][]string{tokenType: {"tok"}},
	}
}

func TestRegistry_PriorityOrderWins(t *testing.T) {
	r := NewRegistry("video", "audio")
	// Both evaluators recognize the same token type; priority decides.
	require.NoError(t, r.Register(&stubEvaluator{name: "audio", tokenType: "t"}))
	require.NoError(t, r.Register(&stubEvaluator{name: "video", tokenType: "t"}))

	e, ok := r.Select(responseWith("t"))
	require.True(t, ok)
	assert.Equal(t, "video", e.Name())
}

func TestRegistry_FallsBackToInsertionOrder(t *testing.T) {
	r := NewRegistry("video")
	require.NoError(t, r.Register(&stubEvaluator{name: "second", tokenType: "s"}))
	require.NoError(t, r.Register(&stubEvaluator{name: "third", tokenType: "s"}))

	// "video" is not registered, so insertion order decides.
	e, ok := r.Select(responseWith("s"))
	require.True(t, ok)
	assert.Equal(t, "second", e.Name())
}

func TestRegistry_NoMatch(t *testing.T) {
	r := NewRegistry()
	require.NoError(t, r.Register(&stubEvaluator{name: "video", tokenType: "v"}))

	_, ok := r.Select(responseWith("unrecognized"))
	assert.False(t, ok)

	_, ok = r.Select(&types.MinerResponse{UID: 1, Valid: false})
	assert.False(t, ok)
}

func TestRegistry_DuplicateRegistration(t *testing.T) {
	r := NewRegistry()
	require.NoError(t, r.Register(&stubEvaluator{name: "video", tokenType: "v"}))
	err := r.Register(&stubEvaluator{name: "video", tokenType: "v"})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrAlreadyRegistered)
}

func TestRegistry_Platforms(t *testing.T) {
	r := NewRegistry()
	require.NoError(t, r.Register(&stubEvaluator{name: "a", tokenType: "a"}))
	require.NoError(t, r.Register(&stubEvaluator{name: "b", tokenType: "b"}))
	assert.Equal(t, []string{"a", "b"}, r.Platforms())
}
