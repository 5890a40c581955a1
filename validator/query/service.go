// Package query obtains fresh proof-of-access tokens from miners, strictly
// one miner at a time. Platform tokens are short-lived, so responses must be
// consumed immediately after the query returns; the service deliberately
// offers no batch or concurrent API.
package query

import (
	"context"
	"time"

	"github.com/bitcast-network/bitcast/config/params"
	"github.com/bitcast-network/bitcast/types"
	"github.com/sirupsen/logrus"
)

var log = logrus.WithField("prefix", "query")

// Transport sends a token-request message to one miner and returns its raw
// reply. Implementations wrap the network stack of the host chain.
type Transport interface {
	RequestTokens(ctx context.Context, uid uint64) (*types.TokenReply, error)
}

// Service queries miners for access tokens.
type Service struct {
	transport Transport
	timeout   time.Duration
}

// New builds a query service over the given transport. The per-query timeout
// comes from the active engine configuration.
func New(transport Transport) *Service {
	return &Service{
		transport: transport,
		timeout:   params.RewardConfig().QueryTimeout,
	}
}

// QueryOne requests tokens from a single miner. It never returns an error:
// transport failures, timeouts, and malformed replies all produce an invalid
// MinerResponse carrying the error string.
func (s *Service) QueryOne(ctx context.Context, uid uint64) *types.MinerResponse {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	reply, err := s.transport.RequestTokens(ctx, uid)
	if err != nil {
		log.WithField("uid", uid).WithError(err).Warn("Miner query failed")
		return types.InvalidMinerResponse(uid, err.Error())
	}
	if reply == nil || len(reply.TokensByType) == 0 {
		log.WithField("uid", uid).Warn("Miner returned no tokens")
		return types.InvalidMinerResponse(uid, "empty token reply")
	}
	return &types.MinerResponse{
		UID:          uid,
		Valid:        true,
		TokensByType: reply.TokensByType,
	}
}
