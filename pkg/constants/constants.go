// Package constants provides shared constants for the zus-calculator application.
package constants

import "time"

// Pension amount bounds, in złoty.
const (
	// MinAmount is the smallest target pension the calculator accepts
	MinAmount = 500

	// MaxAmount is the largest target pension the calculator accepts
	MaxAmount = 50000

	// DefaultAmount is the target pension shown on a fresh start
	DefaultAmount = 3000

	// SliderStep is the granularity of the amount slider
	SliderStep = 100

	// CurrencySymbol is appended to every displayed amount
	CurrencySymbol = "zł"
)

// OptionsRevealDelay is how long the simulator waits after a successful
// simulation before showing the offer buttons.
const OptionsRevealDelay = 1000 * time.Millisecond

// Output format constants
const (
	// OutputFormatPretty is the human-readable output format
	OutputFormatPretty = "pretty"

	// OutputFormatCSV is the CSV output format
	OutputFormatCSV = "csv"
)

// Front-end constants
const (
	// FrontendTUI is the interactive terminal front-end
	FrontendTUI = "tui"

	// FrontendWeb is the browser front-end served over HTTP
	FrontendWeb = "web"
)

// Configuration file constants
const (
	// DefaultConfigFile is the default configuration file name
	DefaultConfigFile = "config.yaml"

	// DefaultServerConfigFile is the default server configuration file name
	DefaultServerConfigFile = "server-config.yaml"
)

// Server configuration defaults
const (
	// DefaultServerAddress is the default HTTP listen address for the web UI
	DefaultServerAddress = ":8080"

	// DefaultMaxFormSizeBytes is the default maximum size of a submitted form (64 KB)
	DefaultMaxFormSizeBytes int64 = 64 * 1024

	// DefaultSessionTTL is how long an idle browser session is kept
	DefaultSessionTTL = 30 * time.Minute

	// DefaultSweepSchedule is the cron schedule of the idle session sweep
	DefaultSweepSchedule = "@every 1m"

	// SessionCookieName names the cookie carrying the browser session id
	SessionCookieName = "zus_session"
)

// PercentageMultiplier is used for percentage conversions
const PercentageMultiplier = 100.0
