package cli

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/smokyabdulrahman/ramadan-compass/internal/api"
	"github.com/smokyabdulrahman/ramadan-compass/internal/clock"
	"github.com/smokyabdulrahman/ramadan-compass/internal/config"
	"github.com/smokyabdulrahman/ramadan-compass/internal/geo"
	"github.com/smokyabdulrahman/ramadan-compass/internal/notify"
	"github.com/smokyabdulrahman/ramadan-compass/internal/proxy"
	"github.com/smokyabdulrahman/ramadan-compass/internal/shell"
)

// Global flags shared across all subcommands.
var (
	FlagCity       string
	FlagCountry    string
	FlagLatitude   float64
	FlagLongitude  float64
	FlagJSON       bool
	FlagTimeFormat string
	FlagProxyURL   string
	FlagMQTTBroker string
	FlagMQTTTopic  string
	FlagVerbose    bool
)

// loadedConfig holds the config loaded during PersistentPreRunE.
// Available to all subcommand handlers.
var loadedConfig *config.Config

// logger writes diagnostics to stderr. Command output goes to stdout.
var logger = zerolog.Nop()

// NewRootCmd creates the root command for the ramadan-compass CLI.
// The version parameter is set by the calling binary via ldflags.
func NewRootCmd(version string) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:     "ramadan-compass",
		Short:   "Suhoor and Iftar countdown",
		Long:    "Shows today's Suhoor and Iftar times for your location and counts down to the next one.",
		Version: version,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			logger = newLogger(cmd, FlagVerbose)

			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}
			loadedConfig = cfg
			return nil
		},
		// Default action: show today's boundaries.
		RunE:          runToday,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.SetVersionTemplate("{{.Name}} version {{.Version}}\n")

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&FlagCity, "city", "", "Override city (takes precedence over config)")
	pf.StringVar(&FlagCountry, "country", "", "Override country")
	pf.Float64Var(&FlagLatitude, "latitude", 0, "Override latitude")
	pf.Float64Var(&FlagLongitude, "longitude", 0, "Override longitude")
	pf.BoolVar(&FlagJSON, "json", false, "Output as JSON (where supported)")
	pf.StringVar(&FlagTimeFormat, "time-format", "", "Time format: 12h or 24h (overrides config)")
	pf.StringVar(&FlagProxyURL, "proxy-url", "", "Prayer proxy base URL (default: call Al Adhan directly)")
	pf.StringVar(&FlagMQTTBroker, "mqtt-broker", "", "MQTT broker that receives Suhoor/Iftar transitions")
	pf.StringVar(&FlagMQTTTopic, "mqtt-topic", "", "MQTT topic for transitions (default: "+config.DefaultMQTTTopic+")")
	pf.BoolVarP(&FlagVerbose, "verbose", "v", false, "Log debug output to stderr")

	rootCmd.AddCommand(newTodayCmd())
	rootCmd.AddCommand(newNextCmd())
	rootCmd.AddCommand(newWatchCmd())
	rootCmd.AddCommand(newConfigCmd())

	return rootCmd
}

func newLogger(cmd *cobra.Command, verbose bool) zerolog.Logger {
	level := zerolog.WarnLevel
	if verbose {
		level = zerolog.DebugLevel
	}
	out := zerolog.ConsoleWriter{Out: cmd.ErrOrStderr(), TimeFormat: time.Kitchen}
	return zerolog.New(out).Level(level).With().Timestamp().Logger()
}

// effectiveConfig returns the merged configuration values,
// applying the priority: CLI flags > config file > defaults.
// It uses cobra's Changed() to detect whether a flag was explicitly set.
func effectiveConfig(cmd *cobra.Command) *config.Config {
	var cfg config.Config
	if loadedConfig != nil {
		cfg = *loadedConfig
	}
	defaults := config.Defaults()

	flags := cmd.Flags()
	root := cmd.Root().PersistentFlags()

	if flagWasSet(flags, root, "city") {
		cfg.City = FlagCity
	}
	if flagWasSet(flags, root, "country") {
		cfg.Country = FlagCountry
	}
	if flagWasSet(flags, root, "latitude") {
		lat := FlagLatitude
		cfg.Latitude = &lat
	}
	if flagWasSet(flags, root, "longitude") {
		lon := FlagLongitude
		cfg.Longitude = &lon
	}
	// A city on the command line beats coordinates from the file.
	if flagWasSet(flags, root, "city") && !flagWasSet(flags, root, "latitude") && !flagWasSet(flags, root, "longitude") {
		cfg.Latitude, cfg.Longitude = nil, nil
	}
	if flagWasSet(flags, root, "proxy-url") {
		cfg.ProxyURL = FlagProxyURL
	}
	if flagWasSet(flags, root, "mqtt-broker") {
		cfg.MQTTBroker = FlagMQTTBroker
	}
	if flagWasSet(flags, root, "mqtt-topic") {
		cfg.MQTTTopic = FlagMQTTTopic
	}
	if cfg.MQTTTopic == "" {
		cfg.MQTTTopic = defaults.MQTTTopic
	}

	// Time format: CLI flag > config > default ("24h").
	if flagWasSet(flags, root, "time-format") {
		cfg.TimeFormat = FlagTimeFormat
	}
	if cfg.TimeFormat == "" {
		cfg.TimeFormat = defaults.TimeFormat
	}

	return &cfg
}

// flagWasSet checks if a flag was explicitly set on either the local or persistent flag set.
func flagWasSet(local, persistent *pflag.FlagSet, name string) bool {
	if f := local.Lookup(name); f != nil && f.Changed {
		return true
	}
	if f := persistent.Lookup(name); f != nil && f.Changed {
		return true
	}
	return false
}

// validate rejects flag values that config.Set would also reject.
func validate(cfg *config.Config) error {
	if err := config.ValidateTimeFormat(cfg.TimeFormat); err != nil {
		return err
	}
	if cfg.Latitude != nil {
		if _, err := config.ParseLatitude(fmt.Sprint(*cfg.Latitude)); err != nil {
			return err
		}
	}
	if cfg.Longitude != nil {
		if _, err := config.ParseLongitude(fmt.Sprint(*cfg.Longitude)); err != nil {
			return err
		}
	}
	if cfg.City != "" && cfg.Country == "" && !cfg.HasCoordinates() {
		return fmt.Errorf("--country is required when using --city")
	}
	if (cfg.Latitude == nil) != (cfg.Longitude == nil) {
		return fmt.Errorf("--latitude and --longitude must be given together")
	}
	return nil
}

// buildShell wires the fetcher, locator and notifier selected by cfg.
// The returned func releases the notifier.
func buildShell(cfg *config.Config) (*shell.Shell, func(), error) {
	var fetcher proxy.Fetcher
	if cfg.ProxyURL != "" {
		fetcher = proxy.NewClient(cfg.ProxyURL)
		logger.Debug().Str("proxy", cfg.ProxyURL).Msg("using prayer proxy")
	} else {
		svc := proxy.NewService(api.NewClient())
		svc.Logger = logger
		fetcher = svc
	}

	sh := &shell.Shell{
		Fetcher:  fetcher,
		Locator:  geo.NewLocator(),
		Clock:    clock.Real{},
		Notifier: notify.Nop{},
		Logger:   logger,
	}
	if cfg.MQTTBroker == "" {
		return sh, func() {}, nil
	}

	clientID := fmt.Sprintf("ramadan-compass-%d", os.Getpid())
	m, err := notify.Dial(cfg.MQTTBroker, cfg.MQTTTopic, clientID, logger)
	if err != nil {
		return nil, nil, fmt.Errorf("connect to mqtt broker: %w", err)
	}
	sh.Notifier = m
	return sh, m.Close, nil
}

// resolve fetches timings for the configured location.
// Priority: coordinates > city > device location.
func resolve(ctx context.Context, sh *shell.Shell, cfg *config.Config) (shell.State, error) {
	var st shell.State
	switch {
	case cfg.HasCoordinates():
		st = sh.SearchCoordinates(ctx, st, *cfg.Latitude, *cfg.Longitude)
	case cfg.HasCity():
		st = sh.SearchCity(ctx, st, cfg.City, cfg.Country)
	default:
		logger.Debug().Msg("no location configured, detecting from IP")
		st = sh.UseDeviceLocation(ctx, st)
	}

	if st.Err != "" {
		return st, fmt.Errorf("%s", st.Err)
	}
	if st.Timings == nil || st.Next == nil {
		return st, fmt.Errorf("no prayer times available")
	}
	return st, nil
}

// setup merges and validates the config and builds the shell for a command.
func setup(cmd *cobra.Command) (*config.Config, *shell.Shell, func(), error) {
	cfg := effectiveConfig(cmd)
	if err := validate(cfg); err != nil {
		return nil, nil, nil, err
	}
	sh, closeFn, err := buildShell(cfg)
	if err != nil {
		return nil, nil, nil, err
	}
	return cfg, sh, closeFn, nil
}
