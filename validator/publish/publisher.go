package publish

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"time"

	"github.com/bitcast-network/bitcast/config/params"
	"github.com/bitcast-network/bitcast/types"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

var log = logrus.WithField("prefix", "publish")

// PayloadTypeCorrections tags the weight-corrections batch envelope.
const PayloadTypeCorrections = "weight_corrections"

var (
	publishSuccessCount = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "bitcast",
		Name:      "publish_success_total",
		Help:      "Accepted telemetry publications, labeled by stream.",
	}, []string{"stream"})
	publishFailCount = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "bitcast",
		Name:      "publish_failures_total",
		Help:      "Failed telemetry publications, labeled by stream.",
	}, []string{"stream"})
)

// Envelope is the signed wire format accepted by both telemetry endpoints.
// Payload holds the canonical JSON bytes the signature covers; Time is the
// exact timestamp string embedded in the signed message.
type Envelope struct {
	PayloadType string          `json:"payload_type"`
	RunID       string          `json:"run_id"`
	MinerUID    *uint64         `json:"miner_uid,omitempty"`
	Payload     json.RawMessage `json:"payload"`
	Time        string          `json:"time"`
	Signer      string          `json:"signer"`
	ValiHotkey  string          `json:"vali_hotkey"`
	Signature   string          `json:"signature"`
}

// Publisher posts signed telemetry. It carries its own timeout, independent
// of the per-miner query timeout, and never propagates errors.
type Publisher struct {
	hc             *http.Client
	signer         Signer
	now            func() time.Time
	accountsURL    string
	correctionsURL string
	enabled        bool
}

// Opt is a functional option for the Publisher.
type Opt func(*Publisher)

// WithClock replaces the timestamp source, for tests.
func WithClock(now func() time.Time) Opt {
	return func(p *Publisher) { p.now = now }
}

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Opt {
	return func(p *Publisher) { p.hc = hc }
}

// WithEndpoints overrides the accounts and corrections endpoints.
func WithEndpoints(accounts, corrections string) Opt {
	return func(p *Publisher) {
		p.accountsURL = accounts
		p.correctionsURL = corrections
	}
}

// New builds a publisher for the given signer. Endpoints, timeout, and the
// enable switch default to the active engine configuration.
func New(signer Signer, opts ...Opt) *Publisher {
	cfg := params.RewardConfig()
	p := &Publisher{
		hc:             &http.Client{Timeout: cfg.PublishTimeout},
		signer:         signer,
		now:            time.Now,
		accountsURL:    cfg.AccountsEndpoint,
		correctionsURL: cfg.CorrectionsEndpoint,
		enabled:        cfg.EnableDataPublish,
	}
	for _, o := range opts {
		o(p)
	}
	return p
}

// Enabled reports whether publication is switched on.
func (p *Publisher) Enabled() bool {
	return p.enabled
}

// PublishAccounts posts one envelope per account result, fanning out across
// miners and accounts concurrently. Failures are logged and counted, never
// returned.
func (p *Publisher) PublishAccounts(ctx context.Context, runID string, rs *types.ResultSet) {
	if !p.enabled {
		return
	}
	g, gctx := errgroup.WithContext(ctx)
	for _, uid := range rs.UIDs() {
		res := rs.Get(uid)
		if res == nil {
			continue
		}
		for _, acct := range res.Accounts {
			uid, platform, acct := uid, res.Platform, acct
			g.Go(func() error {
				p.publishAccount(gctx, runID, uid, platform, acct)
				return nil
			})
		}
	}
	_ = g.Wait()
}

func (p *Publisher) publishAccount(ctx context.Context, runID string, uid uint64, platform string, acct *types.AccountResult) {
	payload := map[string]interface{}{
		"account_id": acct.AccountID,
		"account_data": map[string]interface{}{
			"platform_data":     acct.PlatformData,
			"content_items":     stripContentItems(acct.ContentItems),
			"scores":            acct.Scores,
			"performance_stats": acct.PerformanceStats,
			"success":           acct.Success,
			"error":             acct.Error,
		},
	}
	env, err := p.envelope(platform, runID, &uid, payload)
	if err != nil {
		log.WithField("uid", uid).WithError(err).Error("Could not build account envelope")
		publishFailCount.WithLabelValues("accounts").Inc()
		return
	}
	if err := p.post(ctx, p.accountsURL, env); err != nil {
		log.WithFields(logrus.Fields{
			"uid":     uid,
			"account": acct.AccountID,
		}).WithError(err).Warn("Account publication failed")
		publishFailCount.WithLabelValues("accounts").Inc()
		return
	}
	publishSuccessCount.WithLabelValues("accounts").Inc()
}

// PublishCorrections posts the weight-corrections batch as a single
// envelope.
func (p *Publisher) PublishCorrections(ctx context.Context, runID string, corrections []types.WeightCorrection) {
	if !p.enabled {
		return
	}
	env, err := p.envelope(PayloadTypeCorrections, runID, nil, corrections)
	if err != nil {
		log.WithError(err).Error("Could not build corrections envelope")
		publishFailCount.WithLabelValues("corrections").Inc()
		return
	}
	if err := p.post(ctx, p.correctionsURL, env); err != nil {
		log.WithError(err).Warn("Corrections publication failed")
		publishFailCount.WithLabelValues("corrections").Inc()
		return
	}
	publishSuccessCount.WithLabelValues("corrections").Inc()
}

// envelope canonicalizes the payload, signs signer:time:payload, and builds
// the wire envelope. The timestamp in the signed message and in the envelope
// is the same string.
func (p *Publisher) envelope(payloadType, runID string, minerUID *uint64, payload interface{}) (*Envelope, error) {
	canonical, err := CanonicalJSON(payload)
	if err != nil {
		return nil, err
	}
	ts := p.now().UTC().Format(time.RFC3339)
	signerID := p.signer.SignerID()
	msg := signerID + ":" + ts + ":" + string(canonical)
	sig, err := p.signer.Sign([]byte(msg))
	if err != nil {
		return nil, err
	}
	return &Envelope{
		PayloadType: payloadType,
		RunID:       runID,
		MinerUID:    minerUID,
		Payload:     canonical,
		Time:        ts,
		Signer:      signerID,
		ValiHotkey:  signerID,
		Signature:   hexutil.Encode(sig),
	}, nil
}

// post sends the envelope and checks for the expected 202 acknowledgment
// with a success status body.
func (p *Publisher) post(ctx context.Context, endpoint string, env *Envelope) error {
	body, err := json.Marshal(env)
	if err != nil {
		return errors.Wrap(err, "could not marshal envelope")
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return errors.Wrap(err, "could not build request")
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := p.hc.Do(req)
	if err != nil {
		return errors.Wrap(err, "request failed")
	}
	defer func() {
		if err := resp.Body.Close(); err != nil {
			log.WithError(err).Debug("Could not close response body")
		}
	}()

	switch resp.StatusCode {
	case http.StatusAccepted:
	case http.StatusBadRequest:
		return errors.New("endpoint rejected payload as malformed (400)")
	case http.StatusUnauthorized:
		return errors.New("endpoint rejected signature (401)")
	case http.StatusForbidden:
		return errors.New("signer not allowed by endpoint (403)")
	default:
		return errors.Errorf("unexpected status %d", resp.StatusCode)
	}

	var ack struct {
		Status string `json:"status"`
	}
	b, err := io.ReadAll(io.LimitReader(resp.Body, 4096))
	if err != nil {
		return errors.Wrap(err, "could not read acknowledgment")
	}
	if err := json.Unmarshal(b, &ack); err != nil {
		return errors.Wrap(err, "could not decode acknowledgment")
	}
	if ack.Status != "success" {
		return errors.Errorf("acknowledgment status %q", ack.Status)
	}
	return nil
}

// stripContentItems deep-copies the items with descriptions and transcripts
// removed; raw text never leaves the validator.
func stripContentItems(items map[string]*types.ContentItem) map[string]*types.ContentItem {
	if items == nil {
		return nil
	}
	out := make(map[string]*types.ContentItem, len(items))
	for k, item := range items {
		cp := *item
		cp.Description = ""
		cp.Transcript = ""
		out[k] = &cp
	}
	return out
}
