package commands

import (
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"

	"github.com/spf13/cast"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/cleared-dev/txnenrich/internal/buildinfo"
	"github.com/cleared-dev/txnenrich/internal/config"
	"github.com/cleared-dev/txnenrich/internal/industry"
	"github.com/cleared-dev/txnenrich/internal/logging"
)

// envPrefix prefixes every environment override, e.g. TXNENRICH_ENRICH_WORKERS.
const envPrefix = "TXNENRICH"

// app carries state shared by all subcommands of one root command.
type app struct {
	v       *viper.Viper
	repo    string
	cfgFile string
}

// NewRootCommand creates the root CLI command with all subcommands registered.
func NewRootCommand() *cobra.Command {
	a := &app{v: viper.New()}

	rootCmd := &cobra.Command{
		Use:     "txnenrich",
		Short:   "Enrich card transactions with brand and industry labels",
		Version: fmt.Sprintf("%s (commit: %s, built: %s)", buildinfo.Version, buildinfo.Commit, buildinfo.Date),
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		SilenceUsage:      true,
		PersistentPreRunE: a.initConfig,
	}

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&a.repo, "repo", ".", "project directory")
	pf.StringVar(&a.cfgFile, "config", "", "config file (default: <repo>/"+config.FileName+")")
	pf.String("log-level", "info", "log level (debug, info, warn, error)")
	pf.String("log-format", "text", "log format (text, json)")
	_ = a.v.BindPFlag("logging.level", pf.Lookup("log-level"))
	_ = a.v.BindPFlag("logging.format", pf.Lookup("log-format"))

	rootCmd.AddCommand(newInitCommand())
	rootCmd.AddCommand(newEnrichCommand(a))
	rootCmd.AddCommand(newPredictCommand(a))
	rootCmd.AddCommand(newIndustryCommand(a))
	rootCmd.AddCommand(newGenerateCommand(a))
	rootCmd.AddCommand(newTrainCommand(a))

	return rootCmd
}

// initConfig layers defaults, the project config file, environment
// variables and flags, then sets up logging.
func (a *app) initConfig(cmd *cobra.Command, _ []string) error {
	absRepo, err := filepath.Abs(a.repo)
	if err != nil {
		return fmt.Errorf("resolving path: %w", err)
	}
	a.repo = absRepo

	cfg := config.Default()

	path := a.cfgFile
	if path == "" {
		path = filepath.Join(a.repo, config.FileName)
	}
	loaded, err := config.Load(path)
	switch {
	case err == nil:
		cfg = loaded
	case errors.Is(err, fs.ErrNotExist) && a.cfgFile == "":
	default:
		return err
	}

	for key, value := range map[string]any{
		"enrich.threshold":     cfg.Enrich.Threshold,
		"enrich.workers":       cfg.Enrich.Workers,
		"enrich.output_format": cfg.Enrich.OutputFormat,
		"model.path":           cfg.Model.Path,
		"industry.brands_path": cfg.Industry.BrandsPath,
		"industry.mcc_path":    cfg.Industry.MCCPath,
		"input.encoding":       cfg.Input.Encoding,
		"logging.level":        cfg.Logging.Level,
		"logging.format":       cfg.Logging.Format,
	} {
		a.v.SetDefault(key, value)
	}

	a.v.SetEnvPrefix(envPrefix)
	a.v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	a.v.AutomaticEnv()
	_ = a.v.BindEnv("enrich.threshold", envPrefix+"_ENRICH_THRESHOLD", envPrefix+"_THRESHOLD")
	_ = a.v.BindEnv("model.path", envPrefix+"_MODEL_PATH", envPrefix+"_MODEL")

	logging.Setup(logging.ParseLevel(a.v.GetString("logging.level")), a.v.GetString("logging.format"), cmd.ErrOrStderr())
	return nil
}

// settings returns the effective configuration after all overlays.
func (a *app) settings() (*config.Config, error) {
	// Viper's typed getters swallow parse errors, so numeric keys are cast here.
	threshold, err := cast.ToFloat64E(a.v.Get("enrich.threshold"))
	if err != nil {
		return nil, fmt.Errorf("invalid configuration: enrich.threshold: %w", err)
	}
	workers, err := cast.ToIntE(a.v.Get("enrich.workers"))
	if err != nil {
		return nil, fmt.Errorf("invalid configuration: enrich.workers: %w", err)
	}
	cfg := &config.Config{
		Enrich: config.EnrichConfig{
			Threshold:    threshold,
			Workers:      workers,
			OutputFormat: a.v.GetString("enrich.output_format"),
		},
		Model:    config.ModelConfig{Path: a.v.GetString("model.path")},
		Industry: config.IndustryConfig{BrandsPath: a.v.GetString("industry.brands_path"), MCCPath: a.v.GetString("industry.mcc_path")},
		Input:    config.InputConfig{Encoding: a.v.GetString("input.encoding")},
		Logging:  config.LoggingConfig{Level: a.v.GetString("logging.level"), Format: a.v.GetString("logging.format")},
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// path resolves p against the project directory.
func (a *app) path(p string) string {
	if p == "" || filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(a.repo, p)
}

// resolver loads the industry tables named by cfg, or the project defaults.
func (a *app) resolver(cfg *config.Config) (*industry.Resolver, error) {
	if cfg.Industry.BrandsPath == "" && cfg.Industry.MCCPath == "" {
		return industry.Load(a.repo)
	}
	brands, mccs := a.path(cfg.Industry.BrandsPath), a.path(cfg.Industry.MCCPath)
	if brands == "" {
		brands = filepath.Join(a.repo, "industry", "brands.csv")
	}
	if mccs == "" {
		mccs = filepath.Join(a.repo, "industry", "mcc.csv")
	}
	return industry.LoadFiles(brands, mccs)
}

// bindFlags ties command flags to config keys so an explicit flag wins over
// file and environment values. Several commands share keys, so binding
// happens when a command runs rather than when it is built.
func (a *app) bindFlags(cmd *cobra.Command, flags map[string]string) {
	for key, flag := range flags {
		if f := cmd.Flags().Lookup(flag); f != nil {
			_ = a.v.BindPFlag(key, f)
		}
	}
}
