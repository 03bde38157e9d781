package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/oshokin/frb/fred"
	"github.com/oshokin/frb/internal/config"
	"github.com/oshokin/frb/internal/logger"
	"github.com/oshokin/frb/internal/version"
)

var (
	//nolint:gochecknoglobals // It is required for configuration initialization before the application starts.
	configFilenameFromFlag string

	//nolint:gochecknoglobals,lll // It is initialized once during the application's startup and shared across the command execution logic.
	appConfig *config.Config

	//nolint:gochecknoglobals,lll // Cobra command requires a global definition for proper command-line parsing and execution.
	rootCmd = &cobra.Command{
		Use:   "frb <family> <operation> [arguments]",
		Short: "Query the Federal Reserve Economic Data (FRED) API.",
		Long: `frb is a CLI client for the FRED web service of the Federal Reserve Bank of St. Louis.
It covers every endpoint of five resource families:
- category
- release
- series
- source
- tag

Required parameters are positional arguments, optional ones are passed with --param name=value.
Responses are printed as raw XML or JSON, or reshaped into records, tables,
delimited text (csv, tab, pipe) or bare value rows.`,
		Version:          version.Short(),
		PersistentPreRun: initConfig,
	}
)

// Execute executes the root command.
func Execute() {
	signals := []os.Signal{syscall.SIGHUP, syscall.SIGINT, syscall.SIGTERM}
	ctx, stop := signal.NotifyContext(context.Background(), signals...)

	defer func() {
		_ = logger.Logger().Sync()
	}()

	defer stop()

	go func() {
		defer stop()

		err := rootCmd.ExecuteContext(ctx)
		cobra.CheckErr(err)
	}()

	<-ctx.Done()
}

//nolint:gochecknoinits // Cobra requires the init function to set up flags before the command is executed.
func init() {
	rootCmd.PersistentFlags().StringVarP(
		&configFilenameFromFlag,
		"config",
		"c",
		"",
		fmt.Sprintf("path to the configuration file (default is '%s')",
			config.DefaultConfigFilename))

	rootCmd.AddCommand(newFamilyCommands()...)
}

// addQueryFlags registers the flags shared by every endpoint command.
func addQueryFlags(flags *pflag.FlagSet) {
	flags.StringP(
		"format",
		"f",
		"",
		"response format: "+strings.Join(fred.FormatNames(), ", ")+".")

	flags.StringP(
		"api-key",
		"k",
		"",
		"FRED API key, overrides the configured one.")

	flags.Bool(
		"insecure",
		false,
		"skip TLS certificate verification.")

	flags.StringToString(
		"proxy",
		nil,
		"proxy per URL scheme, for example: https=http://127.0.0.1:3128.")

	flags.String(
		"timeout",
		"",
		"request timeout, for example: 30s.")

	flags.StringArrayP(
		"param",
		"p",
		nil,
		"optional endpoint parameter as name=value, may be repeated.")

	flags.Bool(
		"no-cache",
		false,
		"bypass the response cache.")

	flags.String(
		"log-level",
		"",
		"log level: debug, info, warn, error.")
}

func initConfig(cmd *cobra.Command, _ []string) {
	var err error

	appConfig, err = config.LoadConfig(configFilenameFromFlag)
	if err != nil {
		logger.Fatalf(cmd.Context(), "Failed to load configuration: %v", err)
	}

	if parsedLogLevel, ok := logger.ParseLogLevel(appConfig.LogLevel); ok {
		logger.SetLevel(parsedLogLevel)
	}
}

func bindFlagsToConfig(flags *pflag.FlagSet, cfg *config.Config) error {
	if flag := flags.Lookup("format"); flag != nil && flag.Changed {
		cfg.ResponseFormat, _ = flags.GetString("format")
	}

	if flag := flags.Lookup("api-key"); flag != nil && flag.Changed {
		cfg.APIKey, _ = flags.GetString("api-key")
	}

	if flag := flags.Lookup("insecure"); flag != nil && flag.Changed {
		insecure, _ := flags.GetBool("insecure")
		cfg.SSLVerify = !insecure
	}

	if flag := flags.Lookup("proxy"); flag != nil && flag.Changed {
		cfg.Proxy, _ = flags.GetStringToString("proxy")
	}

	if flag := flags.Lookup("timeout"); flag != nil && flag.Changed {
		cfg.Timeout, _ = flags.GetString("timeout")
	}

	if flag := flags.Lookup("log-level"); flag != nil && flag.Changed {
		cfg.LogLevel, _ = flags.GetString("log-level")
	}

	if err := config.ValidateConfig(cfg); err != nil {
		return err
	}

	logger.SetLevel(cfg.ParsedLogLevel)

	return nil
}
