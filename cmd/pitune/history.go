package main

import (
	"fmt"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/ledpi/pitune/pkg/pitune/config"
	"github.com/ledpi/pitune/pkg/pitune/history"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "View past tune runs",
	Long: `View the history of tune runs.

Each run is recorded with its per-step outcomes so you can see when the
system was tuned and what changed.`,
	Args: cobra.NoArgs,
	RunE: runHistory,
}

var historyShowCmd = &cobra.Command{
	Use:   "show [id]",
	Short: "Show details of a specific run",
	Long:  `Display the per-step outcomes of a specific tune run by its ID.`,
	Args:  cobra.ExactArgs(1),
	RunE:  runHistoryShow,
}

var historyPruneCmd = &cobra.Command{
	Use:   "prune",
	Short: "Remove old history entries",
	Long:  `Remove history entries older than the retention period.`,
	Args:  cobra.NoArgs,
	RunE:  runHistoryPrune,
}

var historyLimit int

func init() {
	historyCmd.Flags().IntVarP(&historyLimit, "limit", "n", 20, "maximum number of entries to show")

	historyCmd.AddCommand(historyShowCmd)
	historyCmd.AddCommand(historyPruneCmd)
	rootCmd.AddCommand(historyCmd)
}

// getStore returns a history store with the configured directory.
func getStore() (*history.Store, *config.Config, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, nil, err
	}

	path := cfg.History.Path
	if path == "" {
		path = config.DefaultHistoryDir()
	}

	store, err := history.New(path)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to initialize history: %w", err)
	}
	return store, cfg, nil
}

// runHistory lists recent tune runs.
func runHistory(cmd *cobra.Command, args []string) error {
	store, _, err := getStore()
	if err != nil {
		return err
	}

	entries, err := store.List(historyLimit)
	if err != nil {
		return fmt.Errorf("failed to list history: %w", err)
	}

	if len(entries) == 0 {
		printInfo("No history entries found.")
		printInfo("Run 'pitune tune' to apply the tuning steps.")
		return nil
	}

	fmt.Printf("\n%-42s  %-14s  %-8s  %s\n", "ID", "WHEN", "MODE", "OUTCOMES")
	fmt.Println(strings.Repeat("-", 90))

	for _, entry := range entries {
		mode := "apply"
		if entry.DryRun {
			mode = "dry-run"
		}
		fmt.Printf("%-42s  %-14s  %-8s  %s\n",
			entry.ID,
			humanize.Time(entry.Timestamp),
			mode,
			summaryLine(entry.Summary),
		)
	}

	fmt.Println(strings.Repeat("-", 90))
	fmt.Println("Use 'pitune history show <id>' for details on a specific run.")

	return nil
}

// runHistoryShow displays the per-step outcomes of a run.
func runHistoryShow(cmd *cobra.Command, args []string) error {
	store, _, err := getStore()
	if err != nil {
		return err
	}

	entry, err := store.Get(args[0])
	if err != nil {
		return err
	}

	fmt.Println("\nTune Run Details")
	fmt.Println(strings.Repeat("=", 60))
	fmt.Printf("ID:        %s\n", entry.ID)
	fmt.Printf("Timestamp: %s\n", entry.Timestamp.Format("2006-01-02 15:04:05 MST"))
	fmt.Printf("Duration:  %s\n", entry.Duration)
	fmt.Printf("Dry run:   %v\n", entry.DryRun)
	fmt.Printf("Summary:   %s\n", summaryLine(entry.Summary))

	fmt.Println("\nSteps:")
	fmt.Println(strings.Repeat("-", 60))
	for _, res := range entry.Results {
		detail := res.Detail
		if res.Err != "" {
			detail = res.Err
		}
		fmt.Printf("%-10s %-16s %s\n", res.Outcome, res.Name, detail)
	}

	return nil
}

// runHistoryPrune removes entries past the retention period.
func runHistoryPrune(cmd *cobra.Command, args []string) error {
	store, cfg, err := getStore()
	if err != nil {
		return err
	}

	retentionDays := cfg.History.RetentionDays
	if retentionDays <= 0 {
		retentionDays = config.DefaultRetentionDays
	}

	printInfo("Pruning history entries older than %d days...", retentionDays)

	removed, err := store.Prune(retentionDays)
	if err != nil {
		return fmt.Errorf("failed to prune history: %w", err)
	}

	printInfo("Removed %d entries.", removed)
	return nil
}

// summaryLine renders an outcome summary like "2 applied, 3 unchanged".
func summaryLine(s history.Summary) string {
	parts := []string{}
	if s.Applied > 0 {
		parts = append(parts, fmt.Sprintf("%d applied", s.Applied))
	}
	if s.Unchanged > 0 {
		parts = append(parts, fmt.Sprintf("%d unchanged", s.Unchanged))
	}
	if s.Skipped > 0 {
		parts = append(parts, fmt.Sprintf("%d skipped", s.Skipped))
	}
	if s.Failed > 0 {
		parts = append(parts, fmt.Sprintf("%d failed", s.Failed))
	}
	if len(parts) == 0 {
		return "no steps"
	}
	return strings.Join(parts, ", ")
}
