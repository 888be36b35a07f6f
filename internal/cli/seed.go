package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/docwatch/docwatch/internal/config"
	"github.com/docwatch/docwatch/internal/docreq"
	"github.com/docwatch/docwatch/internal/store"
)

// SeedOptions holds flags for the seed command.
type SeedOptions struct {
	*RootOptions
	Config string
}

// SeedResult reports how many entries each collection received.
type SeedResult struct {
	Inserted map[string]int `json:"inserted"`
	Total    int            `json:"total"`
}

// NewSeedCommand creates the seed command.
func NewSeedCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &SeedOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "seed [fixtures.yaml]",
		Short: "Seed reference collections",
		Long: `Seed the local reference collections with initial entries.

Without an argument the built-in fixtures are used. A YAML file may instead
map collection names to entries:

  document_types:
    - {code: INV, label: Invoice, active: true}

Collections that already hold rows are left untouched, so seeding is safe
to repeat.`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSeed(opts, args, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Config, "config", "docwatch.yaml", "path to configuration file")

	return cmd
}

func runSeed(opts *SeedOptions, args []string, cmd *cobra.Command) error {
	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}

	cfg, err := config.Load(opts.Config)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to load configuration", err)
	}

	fixtures := defaultFixtures()
	if len(args) == 1 {
		fixtures, err = loadFixtures(args[0])
		if err != nil {
			return WrapExitError(ExitCommandError, "failed to load fixtures", err)
		}
	}

	st, err := store.Open(cfg.Database.Path)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to open database", err)
	}
	defer st.Close()

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	result := SeedResult{Inserted: map[string]int{}}
	for _, kind := range store.Kinds() {
		entries := fixtures[string(kind)]
		if len(entries) == 0 {
			continue
		}
		n, err := st.Seed(ctx, kind, entries)
		if err != nil {
			return WrapExitError(ExitFailure, fmt.Sprintf("failed to seed %s", kind), err)
		}
		formatter.VerboseLog("Seeded %s: %d of %d entries", kind, n, len(entries))
		result.Inserted[string(kind)] = n
		result.Total += n
	}

	if opts.Format == "json" {
		return formatter.Success(result)
	}
	for _, kind := range store.Kinds() {
		if n, ok := result.Inserted[string(kind)]; ok {
			fmt.Fprintf(formatter.Writer, "%s: %d inserted\n", kind, n)
		}
	}
	fmt.Fprintf(formatter.Writer, "✓ Seeded %d entries\n", result.Total)
	return nil
}

// loadFixtures reads a YAML map of collection name to entries and rejects
// names outside the known collections.
func loadFixtures(path string) (map[string][]docreq.ReferenceEntry, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var fixtures map[string][]docreq.ReferenceEntry
	if err := yaml.Unmarshal(raw, &fixtures); err != nil {
		return nil, fmt.Errorf("parse fixtures: %w", err)
	}

	known := map[string]bool{}
	for _, kind := range store.Kinds() {
		known[string(kind)] = true
	}
	for name := range fixtures {
		if !known[name] {
			return nil, fmt.Errorf("unknown collection %q", name)
		}
	}
	return fixtures, nil
}

// defaultFixtures covers the three collections with the entries a fresh
// install needs to render the dashboard.
func defaultFixtures() map[string][]docreq.ReferenceEntry {
	return map[string][]docreq.ReferenceEntry{
		string(store.DocumentTypes): {
			{Code: "INV", Label: "Invoice", Active: true},
			{Code: "PO", Label: "Purchase Order", Active: true},
			{Code: "RCT", Label: "Receipt", Active: true},
			{Code: "CON", Label: "Contract", Active: true},
		},
		string(store.Departments): {
			{Code: "FIN", Label: "Finance", Active: true},
			{Code: "OPS", Label: "Operations", Active: true},
			{Code: "HR", Label: "Human Resources", Active: true},
		},
		string(store.Statuses): {
			{Code: "pending", Label: "Pending", Active: true},
			{Code: "processing", Label: "Processing", Active: true},
			{Code: "completed", Label: "Completed", Active: true},
			{Code: "failed", Label: "Failed", Active: true},
		},
	}
}
