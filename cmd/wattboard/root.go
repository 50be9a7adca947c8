package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jgoulah/wattboard/internal/config"
	"github.com/jgoulah/wattboard/internal/energyapi"
	"github.com/jgoulah/wattboard/internal/logger"
	"github.com/jgoulah/wattboard/internal/period"
)

var (
	cfgFile  string
	baseURL  string
	timezone string
	logLevel string
)

var rootCmd = &cobra.Command{
	Use:   "wattboard",
	Short: "Household energy usage dashboard",
	Long: `Wattboard shows per-device household energy usage from an energy API.
It renders daily, weekly and monthly stacked bar charts in the terminal,
lists usage insights and can publish the current breakdown to MQTT.`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./config.yaml)")
	rootCmd.PersistentFlags().StringVar(&baseURL, "base-url", "", "energy API base URL (overrides config)")
	rootCmd.PersistentFlags().StringVar(&timezone, "timezone", "", "IANA timezone sent with trend queries (overrides config)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level: debug, info, warn, error")
}

// getConfigPath returns the config file path
func getConfigPath() string {
	if cfgFile != "" {
		return cfgFile
	}
	return config.DefaultConfigPath()
}

// loadConfig loads the configuration file and applies flag overrides
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(getConfigPath())
	if err != nil {
		return nil, err
	}
	if baseURL != "" {
		cfg.BaseURL = baseURL
	}
	if timezone != "" {
		cfg.Timezone = timezone
	}
	if logLevel != "" {
		cfg.Log.Level = logLevel
	}
	return cfg, nil
}

// saveConfig saves the configuration file
func saveConfig(cfg *config.Config) error {
	return config.Save(getConfigPath(), cfg)
}

// app bundles what every command needs once config is loaded
type app struct {
	cfg      *config.Config
	client   *energyapi.Client
	nav      *period.Navigator
	timezone string
	log      *zap.Logger
}

// setup loads config, initializes logging and builds the API client.
// logFile, when set, wins over the configured log destination.
func setup(logFile string) (*app, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}

	logCfg := logger.Config{Level: cfg.Log.Level, Format: cfg.Log.Format, File: cfg.Log.File}
	if logCfg.Level == "" {
		logCfg.Level = logger.DefaultConfig().Level
	}
	if logFile != "" && logCfg.File == "" {
		logCfg.File = logFile
	}
	if err := logger.Initialize(logCfg); err != nil {
		return nil, fmt.Errorf("initializing logger: %w", err)
	}

	loc, err := cfg.GetLocation()
	if err != nil {
		return nil, err
	}

	timeout, err := cfg.GetRequestTimeout()
	if err != nil {
		return nil, err
	}

	client := energyapi.New(cfg.GetBaseURL(), energyapi.WithTimeout(timeout))
	logger.Get().Debug("configured energy API",
		zap.String("base_url", client.BaseURL()),
		zap.String("timezone", cfg.GetTimezone()),
		zap.Duration("timeout", timeout))

	return &app{
		cfg:      cfg,
		client:   client,
		nav:      period.NewNavigator(loc),
		timezone: cfg.GetTimezone(),
		log:      logger.Get(),
	}, nil
}

func timestamp() string {
	return time.Now().Format("2006-01-02 15:04:05 MST")
}
