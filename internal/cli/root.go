package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/justyntemme/bookfinder/internal/catalog"
	"github.com/justyntemme/bookfinder/internal/config"
	"github.com/justyntemme/bookfinder/internal/logger"
)

// globalOptions are the persistent flags shared by every command
type globalOptions struct {
	configPath string
	catalogURL string
	logFile    string
	logLevel   string
}

// env carries what PersistentPreRunE resolved to the subcommands
type env struct {
	opts globalOptions
	cfg  *config.Config
}

// NewRootCmd builds the bookfinder command tree. Running it without a
// subcommand starts the interactive UI.
func NewRootCmd() *cobra.Command {
	e := &env{}
	var dark bool

	cmd := &cobra.Command{
		Use:   "bookfinder",
		Short: "Search the Open Library catalog from your terminal",
		Long: `Bookfinder searches the Open Library catalog by title and shows the
results as a paginated grid. Selecting a book opens its details along with
other books by the same author.

Without a subcommand the interactive UI starts. The search and recommend
subcommands print results for scripting.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return e.load()
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTUI(cmd.Context(), e, dark)
		},
	}

	pf := cmd.PersistentFlags()
	pf.StringVar(&e.opts.configPath, "config", "", "Config file (default: <user config dir>/bookfinder/config.toml)")
	pf.StringVar(&e.opts.catalogURL, "catalog-url", "", "Catalog base URL")
	pf.StringVar(&e.opts.logFile, "log-file", "", "Write logs to this file")
	pf.StringVar(&e.opts.logLevel, "log-level", "", "Log level (debug, info, warn, error)")
	cmd.Flags().BoolVar(&dark, "dark", false, "Start in dark mode")

	cmd.AddCommand(newTUICmd(e))
	cmd.AddCommand(newSearchCmd(e))
	cmd.AddCommand(newRecommendCmd(e))
	cmd.AddCommand(newConfigCmd(e))

	return cmd
}

// load reads the config file and environment, then applies flag overrides
func (e *env) load() error {
	cfg, err := config.Load(e.opts.configPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	if e.opts.catalogURL != "" {
		cfg.CatalogURL = e.opts.catalogURL
	}
	if e.opts.logFile != "" {
		cfg.LogFile = e.opts.logFile
	}
	if e.opts.logLevel != "" {
		cfg.LogLevel = e.opts.logLevel
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("config: %w", err)
	}

	e.cfg = cfg
	return nil
}

// logger returns the logger for a command. The interactive UI owns the
// terminal, so it only ever logs to a file.
func (e *env) logger(tui bool) (*zap.Logger, error) {
	if tui {
		return logger.ForTUI(e.cfg.LogLevel, e.cfg.LogFile)
	}
	return logger.New(e.cfg.LogLevel, e.cfg.LogFile)
}

// client builds a catalog client from the resolved config
func (e *env) client(log *zap.Logger) *catalog.Client {
	opts := []catalog.Option{
		catalog.WithTimeout(e.cfg.Timeout.Std()),
		catalog.WithCoversURL(e.cfg.CoversURL),
		catalog.WithLogger(log),
	}
	if e.cfg.UserAgent != "" {
		opts = append(opts, catalog.WithUserAgent(e.cfg.UserAgent))
	}
	return catalog.NewClient(e.cfg.CatalogURL, opts...)
}
