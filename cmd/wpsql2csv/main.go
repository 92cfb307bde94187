// Command wpsql2csv converts a Wikipedia MySQL dump file into CSV, with
// optional column selection and row filtering.
//
//	wpsql2csv enwiki-20200920-page.sql.gz --keep-columns page_id,page_title \
//	    --allow page_namespace=0
package main

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/kwnlp/wpsql2csv/internal/config"
	"github.com/kwnlp/wpsql2csv/internal/domain/schema"
	"github.com/kwnlp/wpsql2csv/internal/dumpfile"
	"github.com/kwnlp/wpsql2csv/internal/filter"
	"github.com/kwnlp/wpsql2csv/internal/logging"
	"github.com/kwnlp/wpsql2csv/internal/pipeline"
)

var (
	flagOut           string
	flagKeepColumns   []string
	flagDropColumns   []string
	flagAllow         []string
	flagBlock         []string
	flagMaxStatements int64
	flagProgressEvery int64
)

var rootCmd = &cobra.Command{
	Use:   "wpsql2csv <dump-file>",
	Short: "Convert Wikipedia SQL dump files to CSV",
	Long: `wpsql2csv streams a MediaWiki SQL dump (WIKI-YYYYMMDD-TABLE.sql[.gz]),
parses its INSERT statements and writes the rows as CSV. Columns can be
selected with --keep-columns or --drop-columns, and rows filtered with
repeatable --allow/--block predicates of the form column=value1|value2.`,
	Args:          cobra.ExactArgs(1),
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return run(args[0])
	},
}

func init() {
	rootCmd.Flags().StringVarP(&flagOut, "out", "o", "", "output CSV path (default <basename>.csv)")
	rootCmd.Flags().StringSliceVar(&flagKeepColumns, "keep-columns", nil, "comma-separated columns to keep")
	rootCmd.Flags().StringSliceVar(&flagDropColumns, "drop-columns", nil, "comma-separated columns to drop")
	rootCmd.Flags().StringArrayVar(&flagAllow, "allow", nil, "allowlist predicate column=v1|v2 (repeatable)")
	rootCmd.Flags().StringArrayVar(&flagBlock, "block", nil, "blocklist predicate column=v1|v2 (repeatable)")
	rootCmd.Flags().Int64Var(&flagMaxStatements, "max-statements", 0, "stop after N INSERT statements (0 = no limit)")
	rootCmd.Flags().Int64Var(&flagProgressEvery, "progress-every", -1, "log progress every N rows (-1 = use config)")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func run(dumpPath string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	level, err := cfg.Level()
	if err != nil {
		return err
	}

	logger, closeFn := logging.SetupLogger(cfg.SeqURL, level)
	defer closeFn()
	slog.SetDefault(logger)

	df, err := dumpfile.Parse(dumpPath)
	if err != nil {
		return err
	}

	ts, err := schema.Lookup(df.Table)
	if err != nil {
		return err
	}

	allowlists, err := parsePredicates(flagAllow, "--allow")
	if err != nil {
		return err
	}
	blocklists, err := parsePredicates(flagBlock, "--block")
	if err != nil {
		return err
	}

	spec := filter.Spec{
		KeepColumnNames: flagKeepColumns,
		DropColumnNames: flagDropColumns,
		Allowlists:      allowlists,
		Blocklists:      blocklists,
	}

	progressEvery := cfg.ProgressEvery
	if flagProgressEvery >= 0 {
		progressEvery = flagProgressEvery
	}

	conv, err := pipeline.NewConverter(ts, spec, pipeline.Options{
		MaxStatements: flagMaxStatements,
		ProgressEvery: progressEvery,
		Logger:        logger,
	})
	if err != nil {
		return err
	}

	in, err := df.Open()
	if err != nil {
		return err
	}
	defer in.Close()

	outPath := flagOut
	if outPath == "" {
		outPath = df.DefaultOutputName()
	}
	out, err := os.Create(outPath)
	if err != nil {
		return fmt.Errorf("create output file: %w", err)
	}

	slog.Info("writing CSV",
		slog.String("dump", df.Path),
		slog.String("wiki", df.Wiki),
		slog.String("date", df.Date),
		slog.String("out", outPath),
	)

	stats, runErr := conv.Run(in, out)
	if closeErr := out.Close(); runErr == nil {
		runErr = closeErr
	}
	if runErr != nil {
		// leave the partial file in place for diagnosis, but say so
		slog.Error("conversion failed", "error", runErr, "rows_written", stats.RowsWritten)
		return runErr
	}

	return nil
}

// parsePredicates turns repeated column=v1|v2 flags into per-column lists
func parsePredicates(entries []string, flagName string) (map[string][]string, error) {
	if len(entries) == 0 {
		return nil, nil
	}
	lists := make(map[string][]string, len(entries))
	for _, entry := range entries {
		column, values, ok := strings.Cut(entry, "=")
		if !ok || column == "" || values == "" {
			return nil, fmt.Errorf("%s %q must have the form column=value1|value2", flagName, entry)
		}
		lists[column] = append(lists[column], strings.Split(values, "|")...)
	}
	return lists, nil
}
