package commands

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/MarcSchuh/DKBParsing/internal/config"
	"github.com/MarcSchuh/DKBParsing/internal/importer"
	"github.com/MarcSchuh/DKBParsing/internal/match"
	"github.com/MarcSchuh/DKBParsing/internal/model"
	"github.com/MarcSchuh/DKBParsing/internal/render"
	"github.com/MarcSchuh/DKBParsing/internal/runlog"
	"github.com/MarcSchuh/DKBParsing/internal/suggest"
)

func newParseCommand(opts *rootOptions) *cobra.Command {
	var startDate string
	var endDate string
	var format string
	var source string
	var workers int
	var exportPath string

	cmd := &cobra.Command{
		Use:   "parse <csv-file>",
		Short: "Categorize a bank CSV export",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runParse(cmd, opts, parseOptions{
				csvPath:    args[0],
				startDate:  startDate,
				endDate:    endDate,
				format:     format,
				source:     source,
				workers:    workers,
				exportPath: exportPath,
			})
		},
	}

	cmd.Flags().StringVar(&startDate, "start-date", "", "drop transactions before this date (DD.MM.YY)")
	cmd.Flags().StringVar(&endDate, "end-date", "", "drop transactions after this date (DD.MM.YY)")
	cmd.Flags().StringVar(&format, "format", "", "output format: excel, summary, household or all (defaults to the configured one)")
	cmd.Flags().StringVar(&source, "source", "dkb", "source bank format of the CSV export")
	cmd.Flags().IntVar(&workers, "workers", 1, "number of concurrent matching workers")
	cmd.Flags().StringVar(&exportPath, "export-uncategorized", "", "write uncategorized transactions and manual assignments to this JSON file")

	return cmd
}

type parseOptions struct {
	csvPath    string
	startDate  string
	endDate    string
	format     string
	source     string
	workers    int
	exportPath string
}

func runParse(cmd *cobra.Command, opts *rootOptions, po parseOptions) error {
	log := newLogger(cmd, opts)

	cfg, err := loadConfig(opts.configPath)
	if err != nil {
		return err
	}

	format := po.format
	if format == "" {
		format = cfg.OutputFormat
	}
	if !config.ValidFormat(format) {
		return fmt.Errorf("unknown output format %q (choose from %s)", format, strings.Join(config.OutputFormats, ", "))
	}

	start, end, err := parseDateRange(po.startDate, po.endDate)
	if err != nil {
		return err
	}

	dkb := importer.NewDKBParser(log)
	if cfg.CSV.Delimiter != "" {
		dkb.Delimiter = []rune(cfg.CSV.Delimiter)[0]
	}
	dkb.SkipRows = cfg.CSV.SkipRows
	if cfg.CSV.Encoding != "" {
		dkb.Encoding = cfg.CSV.Encoding
	}

	registry := importer.NewRegistry()
	registry.Register(dkb)
	parser := registry.Get(po.source)
	if parser == nil {
		return fmt.Errorf("unknown source format %q", po.source)
	}

	f, err := os.Open(po.csvPath)
	if err != nil {
		return fmt.Errorf("opening export: %w", err)
	}
	defer f.Close()

	txns, skipped, err := parser.Parse(f)
	if err != nil {
		return fmt.Errorf("parsing %s: %w", po.csvPath, err)
	}
	txns = importer.FilterByDateRange(txns, start, end)

	cats, assigns, err := openStores(cfg, log)
	if err != nil {
		return err
	}

	engine := match.NewEngine(cats, assigns, log)
	engine.Workers = po.workers
	result, err := engine.Run(txns)
	if err != nil {
		return err
	}

	var warnings []string
	if skipped > 0 {
		warnings = append(warnings, fmt.Sprintf("%d malformed rows skipped", skipped))
	}

	if err := renderResult(cmd.OutOrStdout(), cfg, format, result, warnings); err != nil {
		return err
	}

	entry := runlog.NewEntry(filepath.Base(po.csvPath))
	entry.Transactions = len(result.Parsed)
	entry.Categorized = len(result.Parsed) - len(result.Uncategorized)
	entry.Uncategorized = len(result.Uncategorized)
	entry.Skipped = skipped
	entry.TotalIncome = result.TotalIncome
	entry.TotalExpenses = result.TotalExpenses
	if err := runlog.Append(cfg.RunLogFile, []runlog.Entry{entry}); err != nil {
		log.Warn().Err(err).Str("path", cfg.RunLogFile).Msg("failed to append run log")
	}

	if po.exportPath != "" {
		payload, err := suggest.BuildPayload(suggest.Request{
			ManualAssignments: assigns.All(),
			Uncategorized:     result.Uncategorized,
		})
		if err != nil {
			return err
		}
		if err := os.WriteFile(po.exportPath, payload, 0o644); err != nil {
			return fmt.Errorf("writing uncategorized export: %w", err)
		}
		log.Info().
			Str("path", po.exportPath).
			Int("transactions", len(result.Uncategorized)).
			Msg("wrote suggestion payload")
	}

	return nil
}

func parseDateRange(startDate, endDate string) (time.Time, time.Time, error) {
	var start, end time.Time
	var err error
	if startDate != "" {
		start, err = time.Parse(model.DateKeyFormat, startDate)
		if err != nil {
			return time.Time{}, time.Time{}, fmt.Errorf("parsing --start-date: %w", err)
		}
	}
	if endDate != "" {
		end, err = time.Parse(model.DateKeyFormat, endDate)
		if err != nil {
			return time.Time{}, time.Time{}, fmt.Errorf("parsing --end-date: %w", err)
		}
	}
	return start, end, nil
}

func renderResult(w io.Writer, cfg *config.Config, format string, result model.ParsingResult, warnings []string) error {
	var views []string

	if format == "excel" || format == "all" {
		views = append(views, render.Spreadsheet{CategoryOrder: cfg.CategoryOrder}.Render(result))
	}
	if format == "summary" || format == "all" {
		views = append(views, render.Summary{Warnings: warnings}.Render(result))
	}
	if format == "household" || format == "all" {
		if cfg.TemplateFile == "" {
			return fmt.Errorf("household output needs template_file in the configuration")
		}
		household, err := render.LoadTemplate(cfg.TemplateFile)
		if err != nil {
			return err
		}
		view, err := household.Render(result)
		if err != nil {
			return err
		}
		views = append(views, view)
	}

	_, err := io.WriteString(w, strings.Join(views, "\n"))
	return err
}
