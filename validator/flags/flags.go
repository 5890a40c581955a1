// Package flags defines the command-line options of the validator binary.
package flags

import (
	"time"

	"github.com/urfave/cli/v2"
)

var (
	// VerbosityFlag sets the logging level.
	VerbosityFlag = &cli.StringFlag{
		Name:  "verbosity",
		Usage: "Logging verbosity (trace, debug, info, warn, error)",
		Value: "info",
	}
	// HotkeyFlag supplies the validator's signing key.
	HotkeyFlag = &cli.StringFlag{
		Name:  "hotkey",
		Usage: "Hex-encoded secp256k1 hotkey used to sign telemetry",
	}
	// UIDsFlag lists the miner uids to evaluate each cycle.
	UIDsFlag = &cli.Int64SliceFlag{
		Name:  "uids",
		Usage: "Ordered miner uids to evaluate, including the burn uid 0",
	}
	// CycleIntervalFlag sets how often a cycle runs.
	CycleIntervalFlag = &cli.DurationFlag{
		Name:  "cycle-interval",
		Usage: "Time between reward cycles",
		Value: 6 * time.Hour,
	}
	// BriefsEndpointFlag points at the campaign catalog.
	BriefsEndpointFlag = &cli.StringFlag{
		Name:  "briefs-endpoint",
		Usage: "URL of the brief catalog",
	}
	// PriceEndpointFlag points at the alpha price lookup.
	PriceEndpointFlag = &cli.StringFlag{
		Name:  "price-endpoint",
		Usage: "URL of the alpha price lookup",
	}
	// EmissionEndpointFlag points at the daily emission lookup.
	EmissionEndpointFlag = &cli.StringFlag{
		Name:  "emission-endpoint",
		Usage: "URL of the total daily alpha lookup",
	}
	// MinerGatewayFlag points at the miner token-request gateway.
	MinerGatewayFlag = &cli.StringFlag{
		Name:  "miner-gateway",
		Usage: "URL of the miner token-request gateway",
	}
	// DataAPIFlag points at the platform data API.
	DataAPIFlag = &cli.StringFlag{
		Name:  "data-api",
		Usage: "Host of the platform data API",
	}
	// AnalyticsAPIFlag points at the platform analytics API.
	AnalyticsAPIFlag = &cli.StringFlag{
		Name:  "analytics-api",
		Usage: "Host of the platform analytics API",
	}
	// TranscriptAPIFlag points at the transcript service.
	TranscriptAPIFlag = &cli.StringFlag{
		Name:  "transcript-api",
		Usage: "Host of the transcript service",
	}
	// AccountsEndpointFlag overrides the per-account telemetry endpoint.
	AccountsEndpointFlag = &cli.StringFlag{
		Name:  "accounts-endpoint",
		Usage: "URL of the per-account telemetry endpoint",
	}
	// CorrectionsEndpointFlag overrides the weight-corrections endpoint.
	CorrectionsEndpointFlag = &cli.StringFlag{
		Name:  "corrections-endpoint",
		Usage: "URL of the weight-corrections endpoint",
	}
	// StatsEndpointFlag overrides the stats sink endpoint.
	StatsEndpointFlag = &cli.StringFlag{
		Name:  "stats-endpoint",
		Usage: "URL of the stats sink",
	}
	// EcoModeFlag reduces analytics request volume.
	EcoModeFlag = &cli.BoolFlag{
		Name:  "eco-mode",
		Usage: "Request fewer analytics dimensions per video",
	}
	// DisablePublishFlag turns off telemetry publication.
	DisablePublishFlag = &cli.BoolFlag{
		Name:  "disable-data-publish",
		Usage: "Do not publish per-account telemetry or weight corrections",
	}
)
