// The validator binary wires the reward engine to its external collaborators
// and runs one evaluation cycle per interval.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/bitcast-network/bitcast/briefs"
	"github.com/bitcast-network/bitcast/config/params"
	"github.com/bitcast-network/bitcast/platform/youtube"
	"github.com/bitcast-network/bitcast/price"
	"github.com/bitcast-network/bitcast/validator/engine"
	"github.com/bitcast-network/bitcast/validator/evaluators"
	ytEval "github.com/bitcast-network/bitcast/validator/evaluators/youtube"
	"github.com/bitcast-network/bitcast/validator/flags"
	"github.com/bitcast-network/bitcast/validator/publish"
	"github.com/bitcast-network/bitcast/validator/query"
	"github.com/bitcast-network/bitcast/validator/rewards"
	"github.com/bitcast-network/bitcast/validator/state"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"
	prefixed "github.com/x-cray/logrus-prefixed-formatter"
)

var log = logrus.WithField("prefix", "main")

func main() {
	app := &cli.App{
		Name:  "bitcast-validator",
		Usage: "Computes periodic reward allocations for the bitcast content-validation network",
		Flags: []cli.Flag{
			flags.VerbosityFlag,
			flags.HotkeyFlag,
			flags.UIDsFlag,
			flags.CycleIntervalFlag,
			flags.BriefsEndpointFlag,
			flags.PriceEndpointFlag,
			flags.EmissionEndpointFlag,
			flags.MinerGatewayFlag,
			flags.DataAPIFlag,
			flags.AnalyticsAPIFlag,
			flags.TranscriptAPIFlag,
			flags.AccountsEndpointFlag,
			flags.CorrectionsEndpointFlag,
			flags.StatsEndpointFlag,
			flags.EcoModeFlag,
			flags.DisablePublishFlag,
		},
		Before: func(ctx *cli.Context) error {
			logrus.SetFormatter(&prefixed.TextFormatter{
				FullTimestamp:   true,
				TimestampFormat: "2006-01-02 15:04:05",
			})
			level, err := logrus.ParseLevel(ctx.String(flags.VerbosityFlag.Name))
			if err != nil {
				return err
			}
			logrus.SetLevel(level)
			return nil
		},
		Action: run,
	}
	if err := app.Run(os.Args); err != nil {
		log.WithError(err).Fatal("Validator exited with error")
	}
}

func run(cliCtx *cli.Context) error {
	cfg := params.RewardConfig().Copy()
	cfg.EcoMode = cliCtx.Bool(flags.EcoModeFlag.Name)
	if cliCtx.Bool(flags.DisablePublishFlag.Name) {
		cfg.EnableDataPublish = false
	}
	if v := cliCtx.String(flags.AccountsEndpointFlag.Name); v != "" {
		cfg.AccountsEndpoint = v
	}
	if v := cliCtx.String(flags.CorrectionsEndpointFlag.Name); v != "" {
		cfg.CorrectionsEndpoint = v
	}
	if v := cliCtx.String(flags.StatsEndpointFlag.Name); v != "" {
		cfg.StatsEndpoint = v
	}
	params.OverrideRewardConfig(cfg)

	svc, err := buildEngine(cliCtx)
	if err != nil {
		return err
	}

	uids := make([]uint64, 0)
	for _, v := range cliCtx.Int64Slice(flags.UIDsFlag.Name) {
		if v < 0 {
			return errors.Errorf("negative uid %d", v)
		}
		uids = append(uids, uint64(v))
	}
	if len(uids) == 0 {
		return errors.New("no uids supplied")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	interval := cliCtx.Duration(flags.CycleIntervalFlag.Name)
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	log.WithField("interval", interval).WithField("miners", len(uids)).Info("Starting reward cycles")
	for {
		rewards, _ := svc.RunCycle(ctx, uids)
		var total float64
		for _, r := range rewards {
			total += r
		}
		log.WithField("total", total).Info("Cycle rewards computed")
		select {
		case <-ctx.Done():
			log.Info("Shutting down")
			return nil
		case <-ticker.C:
		}
	}
}

func buildEngine(cliCtx *cli.Context) (*engine.Service, error) {
	keyHex := cliCtx.String(flags.HotkeyFlag.Name)
	if keyHex == "" {
		return nil, errors.New("a hotkey is required")
	}
	key, err := crypto.HexToECDSA(keyHex)
	if err != nil {
		return nil, errors.Wrap(err, "could not parse hotkey")
	}

	dataClient, err := youtube.NewHTTPDataClient(cliCtx.String(flags.DataAPIFlag.Name))
	if err != nil {
		return nil, errors.Wrap(err, "could not build data client")
	}
	analyticsClient, err := youtube.NewHTTPAnalyticsClient(cliCtx.String(flags.AnalyticsAPIFlag.Name))
	if err != nil {
		return nil, errors.Wrap(err, "could not build analytics client")
	}
	transcriptClient, err := youtube.NewHTTPTranscriptClient(cliCtx.String(flags.TranscriptAPIFlag.Name))
	if err != nil {
		return nil, errors.Wrap(err, "could not build transcript client")
	}

	ratio := state.NewRatioCache()
	registry := evaluators.NewRegistry(ytEval.PlatformName)
	if err := registry.Register(ytEval.New(ytEval.Config{
		Data:        dataClient,
		Analytics:   analyticsClient,
		Transcripts: transcriptClient,
		Ratio:       ratio,
	})); err != nil {
		return nil, err
	}

	priceClient := price.NewClient(
		cliCtx.String(flags.PriceEndpointFlag.Name),
		cliCtx.String(flags.EmissionEndpointFlag.Name),
	)
	transport := query.NewHTTPTransport(cliCtx.String(flags.MinerGatewayFlag.Name), nil)

	return engine.New(engine.Config{
		Briefs:        briefs.NewClient(cliCtx.String(flags.BriefsEndpointFlag.Name)),
		Query:         query.New(transport),
		Registry:      registry,
		Publisher:     publish.New(publish.NewKeySigner(key)),
		Ratio:         ratio,
		Price:         priceClient.AlphaPriceUSD,
		DailyEmission: priceClient.TotalDailyAlpha,
		Reserve:       rewards.CommunityReserve(),
	}), nil
}
