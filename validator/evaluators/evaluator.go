// Package evaluators defines the platform-evaluator capability and the
// registry the orchestrator uses to route miner responses to the evaluator
// that recognizes their tokens.
package evaluators

import (
	"context"

	"github.com/bitcast-network/bitcast/types"
)

// PlatformEvaluator scores the accounts a miner claims on one content
// platform. Implementations apply all platform-specific transformations
// (stake gating, eligibility filters) before returning scores; downstream
// stages treat scores as opaque non-negative reals.
type PlatformEvaluator interface {
	// Name returns the stable platform tag.
	Name() string
	// CanEvaluate reports whether this evaluator recognizes the token types
	// present in a valid response.
	CanEvaluate(resp *types.MinerResponse) bool
	// SupportedTokenTypes lists the token-type tags this evaluator consumes.
	// Descriptive only; CanEvaluate is authoritative.
	SupportedTokenTypes() []string
	// EvaluateAccounts evaluates up to the configured maximum number of
	// accounts from the response. A failure of one account must not fail the
	// miner; a returned error means the whole miner could not be evaluated.
	EvaluateAccounts(ctx context.Context, resp *types.MinerResponse, briefs []types.Brief, info *types.MetagraphInfo) (*types.EvaluationResult, error)
}
