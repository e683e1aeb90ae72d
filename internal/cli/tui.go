package cli

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/justyntemme/bookfinder/internal/covers"
	"github.com/justyntemme/bookfinder/internal/ui"
	"github.com/justyntemme/bookfinder/internal/ui/terminal"
)

func newTUICmd(e *env) *cobra.Command {
	var dark bool

	cmd := &cobra.Command{
		Use:   "tui",
		Short: "Start the interactive search UI",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTUI(cmd.Context(), e, dark)
		},
	}
	cmd.Flags().BoolVar(&dark, "dark", false, "Start in dark mode")

	return cmd
}

// runTUI wires the catalog client and cover cache into the Bubble Tea app
func runTUI(ctx context.Context, e *env, dark bool) error {
	log, err := e.logger(true)
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	client := e.client(log)
	loader, err := covers.NewLoader(client, e.cfg.CoverCacheSize, log)
	if err != nil {
		return err
	}

	mode := terminal.DetectTerminalMode()
	log.Info("starting ui",
		zap.String("catalog", client.BaseURL()),
		zap.Stringer("images", mode),
	)

	app := ui.NewApp(ctx, ui.Options{
		Catalog:  client,
		Covers:   loader,
		DarkMode: e.cfg.DarkMode || dark,
		Timeout:  e.cfg.Timeout.Std(),
		TermMode: mode,
		Log:      log,
	})

	p := tea.NewProgram(app, tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("running program: %w", err)
	}
	return nil
}
