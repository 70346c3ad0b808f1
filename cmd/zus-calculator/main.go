package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/iwvelando/zus-calculator/internal/config"
	"github.com/iwvelando/zus-calculator/internal/pension"
	"github.com/iwvelando/zus-calculator/internal/server"
	"github.com/iwvelando/zus-calculator/internal/tui"
	"github.com/iwvelando/zus-calculator/pkg/constants"
	"github.com/iwvelando/zus-calculator/pkg/output"
	"github.com/iwvelando/zus-calculator/pkg/validation"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// version is overridden at build time with -ldflags "-X main.version=...".
var version = "dev"

// cli carries the persistent flags and the configuration they load.
type cli struct {
	configPath string
	logLevel   string
	conf       *config.Configuration
}

func newRootCmd() *cobra.Command {
	c := &cli{}

	root := &cobra.Command{
		Use:           "zus-calculator",
		Short:         "ZUS pension calculator with terminal and browser front-ends",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return c.load()
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			if c.conf.UI.Frontend == constants.FrontendWeb {
				return c.runServe(cmd, constants.DefaultServerConfigFile, "")
			}
			return c.runTUI(cmd)
		},
	}

	root.PersistentFlags().StringVar(&c.configPath, "config", constants.DefaultConfigFile, "path to configuration file")
	root.PersistentFlags().StringVar(&c.logLevel, "log-level", "", "log level override (debug, info, warn, error)")

	root.AddCommand(c.tuiCmd(), c.serveCmd(), c.summaryCmd(), c.configCmd())
	return root
}

func (c *cli) load() error {
	conf, err := config.LoadConfiguration(c.configPath)
	if err != nil {
		return fmt.Errorf("failed to load configuration at %s: %w", c.configPath, err)
	}
	if err := validation.ValidateLogLevel(c.logLevel); err != nil {
		return err
	}
	c.conf = conf
	return nil
}

func (c *cli) tuiCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "tui",
		Short: "Run the terminal front-end",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runTUI(cmd)
		},
	}
}

func (c *cli) runTUI(cmd *cobra.Command) error {
	logger, err := initializeTUILogger(c.conf.Logging, c.logLevel)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	defer func() {
		_ = logger.Sync()
	}()

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger.Info("starting terminal UI",
		zap.String("op", "main.runTUI"),
		zap.Bool("altScreen", c.conf.UI.AltScreen),
		zap.Bool("mouse", c.conf.UI.Mouse),
	)
	return tui.Run(ctx, logger, tui.Options{
		AltScreen: c.conf.UI.AltScreen,
		Mouse:     c.conf.UI.Mouse,
	})
}

func (c *cli) serveCmd() *cobra.Command {
	var serverConfigPath, address string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the browser front-end",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runServe(cmd, serverConfigPath, address)
		},
	}
	cmd.Flags().StringVar(&serverConfigPath, "server-config", constants.DefaultServerConfigFile, "path to server configuration file")
	cmd.Flags().StringVar(&address, "address", "", "listen address override (e.g. :8080)")
	return cmd
}

func (c *cli) runServe(cmd *cobra.Command, serverConfigPath, address string) error {
	serverConf, err := server.LoadConfig(serverConfigPath)
	if err != nil {
		return fmt.Errorf("failed to load server configuration at %s: %w", serverConfigPath, err)
	}
	if address != "" {
		serverConf.Address = address
	}

	// Server logging settings win over the application's.
	loggingConf := c.conf.Logging
	if serverConf.Logging != (config.LoggingConfig{}) {
		loggingConf = serverConf.Logging
	}
	logger, err := initializeLogger(loggingConf, c.logLevel)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	defer func() {
		_ = logger.Sync()
	}()

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := server.Serve(ctx, serverConf, logger, version); err != nil {
		logger.Error("server stopped with error",
			zap.String("op", "main.runServe"),
			zap.Error(err),
		)
		return err
	}
	return nil
}

func (c *cli) summaryCmd() *cobra.Command {
	var (
		amount       int
		breakdown    bool
		category     string
		outputFormat string
	)
	cmd := &cobra.Command{
		Use:   "summary",
		Short: "Print what the dashboard and simulator show for an amount",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			logger, err := initializeLogger(c.conf.Logging, c.logLevel)
			if err != nil {
				return fmt.Errorf("failed to initialize logger: %w", err)
			}
			defer func() {
				_ = logger.Sync()
			}()

			// Determine output format (CLI override takes precedence over config)
			format := c.conf.Output.Format
			if outputFormat != "" {
				format = outputFormat
			}
			if format == "" {
				format = constants.OutputFormatPretty
			}
			if err := validation.ValidateOutputFormat(format); err != nil {
				return err
			}

			cat, err := pension.ParseCategory(category)
			if err != nil {
				return err
			}

			snap, err := output.Capture(amount, breakdown, cat)
			if err != nil {
				return fmt.Errorf("failed to capture screens: %w", err)
			}
			logger.Debug("screens captured",
				zap.String("op", "main.summary"),
				zap.Int("amount", snap.Amount),
				zap.Bool("breakdown", snap.Breakdown),
				zap.String("category", snap.Category.String()),
			)

			switch format {
			case constants.OutputFormatPretty:
				output.PrettyFormat(cmd.OutOrStdout(), snap)
			case constants.OutputFormatCSV:
				output.CsvFormat(cmd.OutOrStdout(), snap)
			}
			return nil
		},
	}
	cmd.Flags().IntVar(&amount, "amount", constants.DefaultAmount, "target pension in zł")
	cmd.Flags().BoolVar(&breakdown, "breakdown", false, "show the low-activity breakdown")
	cmd.Flags().StringVar(&category, "category", "A", "low-activity category (A or B)")
	cmd.Flags().StringVar(&outputFormat, "output-format", "", "type of output override: pretty, csv")
	return cmd
}

func (c *cli) configCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Print the effective configuration as YAML",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := c.conf.YAML()
			if err != nil {
				return fmt.Errorf("failed to render configuration: %w", err)
			}
			_, err = cmd.OutOrStdout().Write(data)
			return err
		},
	}
}

func main() {
	if err := newRootCmd().ExecuteContext(context.Background()); err != nil {
		fmt.Fprintf(os.Stderr, "{\"op\": \"main\", \"level\": \"fatal\", \"msg\": %q}\n", err.Error())
		os.Exit(1)
	}
}
