package cli

import (
	"log/slog"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/docwatch/docwatch/internal/config"
	"github.com/docwatch/docwatch/internal/dash"
	"github.com/docwatch/docwatch/internal/docreq"
	"github.com/docwatch/docwatch/internal/proxy"
	"github.com/docwatch/docwatch/internal/render"
	"github.com/docwatch/docwatch/internal/store"
)

// DashOptions holds flags for the dash command.
type DashOptions struct {
	*RootOptions
	Config string
}

// NewDashCommand creates the dash command.
func NewDashCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &DashOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "dash",
		Short: "Open the monitoring dashboard",
		Long: `Open the terminal dashboard over document-processing requests.

Requests, batches, and errors are fetched from the upstream API page by page;
reference collections are loaded once from the local database and filtered,
sorted, and paginated in memory.

Example:
  DOCWATCH_API_KEY=secret docwatch dash --config ./docwatch.yaml`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDash(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Config, "config", "docwatch.yaml", "path to configuration file")

	return cmd
}

func runDash(opts *DashOptions, cmd *cobra.Command) error {
	// The TUI owns the terminal; stray log lines would corrupt it.
	slog.SetDefault(slog.New(slog.DiscardHandler))

	cfg, err := config.Load(opts.Config)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to load configuration", err)
	}

	st, err := store.Open(cfg.Database.Path)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to open database", err)
	}
	defer st.Close()

	apiKey, err := cfg.Credentials()
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to resolve upstream credentials", err)
	}
	tokens := proxy.NewCachingTokenSource(proxy.APIKeyRefresh(cfg.Upstream.TokenURL, apiKey, nil))
	client := docreq.NewClient(cfg.Upstream.BaseURL, tokens, nil)

	settings := dash.Settings{
		PageSize:        cfg.Table.DefaultPageSize,
		PageSizeOptions: cfg.Table.PageSizeOptions,
		MaxSortDepth:    cfg.Table.MaxSortDepth,
		SingleInitial:   cfg.Table.SingleInitial(),
		MultiInitial:    cfg.Table.MultiInitial(),
	}
	model := dash.NewModel(client, st, settings, render.DefaultStyles())

	program := tea.NewProgram(model, tea.WithAltScreen(), tea.WithOutput(cmd.OutOrStdout()))
	if _, err := program.Run(); err != nil {
		return WrapExitError(ExitFailure, "dashboard error", err)
	}
	return nil
}
