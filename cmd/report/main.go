package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"starter-coach-be/internal/config"
	"starter-coach-be/internal/constant"
	"starter-coach-be/internal/entity"
	"starter-coach-be/internal/repository/implementation"
	"starter-coach-be/pkg/dashboard"
	"starter-coach-be/pkg/database"
	"starter-coach-be/pkg/eventlog"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		_, _ = fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var logDir string
	var noColor bool

	root := &cobra.Command{
		Use:           "report",
		Short:         "Inspect the starter coach completion log",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(_ *cobra.Command, _ []string) {
			if noColor {
				color.NoColor = true
			}
		},
	}
	root.PersistentFlags().StringVar(&logDir, "log-dir", "", "event log directory (default: LOG_DIR)")
	root.PersistentFlags().BoolVar(&noColor, "no-color", false, "disable colored output")

	root.AddCommand(newSummaryCmd(&logDir))
	root.AddCommand(newDaysCmd(&logDir))
	return root
}

// openLog returns the CSV store, or the PostgreSQL log when backend is
// "postgres".
func openLog(backend, logDir string) (eventlog.EventLog, error) {
	if backend != config.LogBackendPostgres {
		return openStore(logDir)
	}
	dsn := config.Load().Database.Connection
	if dsn == "" {
		return nil, fmt.Errorf("--backend postgres requires DB_CONNECTION_STRING")
	}
	db, err := database.NewGormDBFromDSN(dsn)
	if err != nil {
		return nil, err
	}
	return implementation.NewCompletionEventRepository(db, nil), nil
}

func openStore(logDir string) (*eventlog.FileStore, error) {
	if logDir == "" {
		return eventlog.NewFileStore(config.Load().EventLog.Dir, nil)
	}
	// A directory typed on the command line is relative to the shell.
	dir, err := filepath.Abs(logDir)
	if err != nil {
		return nil, err
	}
	return eventlog.NewFileStore(dir, nil)
}

func newSummaryCmd(logDir *string) *cobra.Command {
	var date, backend string
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "summary",
		Short: "Print the completion summary of one UTC day",
		RunE: func(cmd *cobra.Command, _ []string) error {
			day := time.Now().UTC()
			if date != "" {
				parsed, err := time.ParseInLocation(constant.DateLayout, date, time.UTC)
				if err != nil {
					return fmt.Errorf("invalid --date %q: expected YYYY-MM-DD", date)
				}
				day = parsed
			}

			store, err := openLog(backend, *logDir)
			if err != nil {
				return err
			}
			table, ok := store.ReadAll(context.Background(), day)
			summary := dashboard.NewAggregator().Summarize(table)

			if asJSON {
				return writeJSON(cmd.OutOrStdout(), entity.TruncateDay(day), ok, summary)
			}
			renderSummary(cmd.OutOrStdout(), entity.TruncateDay(day), ok, summary)
			return nil
		},
	}
	cmd.Flags().StringVar(&date, "date", "", "UTC day as YYYY-MM-DD (default: today)")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print JSON instead of tables")
	cmd.Flags().StringVar(&backend, "backend", config.LogBackendFile, "log backend: file|postgres")
	return cmd
}

func newDaysCmd(logDir *string) *cobra.Command {
	return &cobra.Command{
		Use:   "days",
		Short: "List the days that have a partition file",
		RunE: func(cmd *cobra.Command, _ []string) error {
			store, err := openStore(*logDir)
			if err != nil {
				return err
			}
			entries, err := os.ReadDir(store.Dir())
			if err != nil {
				return err
			}
			for _, e := range entries {
				if e.IsDir() {
					continue
				}
				if day, ok := eventlog.ParsePartitionFileName(e.Name()); ok {
					_, _ = fmt.Fprintln(cmd.OutOrStdout(), day.Format(constant.DateLayout))
				}
			}
			return nil
		},
	}
}

func writeJSON(w io.Writer, day time.Time, hasLogs bool, summary dashboard.Summary) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(map[string]interface{}{
		"date":     day.Format(constant.DateLayout),
		"has_logs": hasLogs,
		"summary":  summary,
	})
}
