package commands

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"github.com/cleared-dev/txnenrich/internal/brand"
	"github.com/cleared-dev/txnenrich/internal/config"
	"github.com/cleared-dev/txnenrich/internal/enrich"
	"github.com/cleared-dev/txnenrich/internal/export"
	"github.com/cleared-dev/txnenrich/internal/importer"
	"github.com/cleared-dev/txnenrich/internal/industry"
	"github.com/cleared-dev/txnenrich/internal/model"
	"github.com/cleared-dev/txnenrich/internal/runlog"
)

const outputDir = "output"

func newEnrichCommand(a *app) *cobra.Command {
	var (
		input    string
		output   string
		progress bool
		keep     bool
	)

	cmd := &cobra.Command{
		Use:   "enrich",
		Short: "Add brand and industry predictions to transaction files",
		Long: `Enrich reads transactions (CSV or XLSX) and writes them back with
cleaned_merchant, brand_pred, industry_t1_pred and industry_t2_pred columns.

With --input, one file is enriched. Without it, every file in <repo>/import/
is enriched into <repo>/output/, moved to import/processed/ and recorded in
logs/enrich-log.csv.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a.bindFlags(cmd, map[string]string{
				"enrich.threshold":     "threshold",
				"enrich.workers":       "workers",
				"enrich.output_format": "format",
				"model.path":           "model",
				"input.encoding":       "encoding",
			})
			cfg, err := a.settings()
			if err != nil {
				return err
			}

			r := &enrichRun{
				app:      a,
				cfg:      cfg,
				out:      cmd.OutOrStdout(),
				errOut:   cmd.ErrOrStderr(),
				progress: progress,
				// An explicit --format wins over the output file extension.
				format: formatOverride(cmd, cfg),
			}
			if input != "" {
				_, err := r.file(cmd.Context(), a.path(input), a.path(output))
				return err
			}
			return r.batch(cmd.Context(), keep)
		},
	}

	cmd.Flags().StringVarP(&input, "input", "i", "", "input file, relative to --repo (default: every file in <repo>/import)")
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: <repo>/output/<name>-enriched.<format>)")
	cmd.Flags().Float64("threshold", brand.DefaultThreshold, "minimum confidence for accepting a brand prediction")
	cmd.Flags().Int("workers", 1, "rows processed concurrently")
	cmd.Flags().String("format", "csv", "output format (csv, xlsx)")
	cmd.Flags().String("model", brand.DefaultModelPath, "brand classifier artifact")
	cmd.Flags().String("encoding", "utf-8", "CSV input encoding (utf-8, windows-1252, iso-8859-1, windows-1251)")
	cmd.Flags().BoolVar(&progress, "progress", false, "show a progress bar")
	cmd.Flags().BoolVar(&keep, "keep", false, "leave batch inputs in import/ instead of moving them to import/processed/")

	return cmd
}

func formatOverride(cmd *cobra.Command, cfg *config.Config) string {
	if cmd.Flags().Changed("format") {
		return cfg.Enrich.OutputFormat
	}
	return ""
}

// enrichRun holds what every file of one enrich invocation shares.
type enrichRun struct {
	app      *app
	cfg      *config.Config
	out      io.Writer
	errOut   io.Writer
	progress bool
	format   string

	classifier *brand.Adapter
	resolver   *industry.Resolver
	readers    *importer.Registry
}

func (r *enrichRun) setup() error {
	if r.resolver != nil {
		return nil
	}
	resolver, err := r.app.resolver(r.cfg)
	if err != nil {
		return fmt.Errorf("loading industry tables: %w", err)
	}
	r.resolver = resolver
	r.classifier = brand.Shared(r.app.path(r.cfg.Model.Path))
	r.readers = importer.DefaultRegistry(r.cfg.Input.Encoding)
	return nil
}

// file enriches one input file and returns the run summary.
func (r *enrichRun) file(ctx context.Context, inPath, outPath string) (enrich.Summary, error) {
	if err := r.setup(); err != nil {
		return enrich.Summary{}, err
	}

	format := r.format
	if outPath == "" {
		if format == "" {
			format = r.cfg.Enrich.OutputFormat
		}
		outPath = defaultOutputPath(r.app.repo, inPath, format)
	}

	table, err := r.readers.ReadFile(inPath)
	if err != nil {
		return enrich.Summary{}, err
	}

	opts := []enrich.Option{
		enrich.WithThreshold(r.cfg.Enrich.Threshold),
		enrich.WithWorkers(r.cfg.Enrich.Workers),
	}
	if r.progress && len(table.Rows) > 0 {
		bar := newProgressBar(r.errOut, len(table.Rows), filepath.Base(inPath))
		defer func() { _ = bar.Finish() }()
		opts = append(opts, enrich.WithProgress(func(int, int) { _ = bar.Add(1) }))
	}
	pipeline, err := enrich.New(r.classifier, r.resolver, opts...)
	if err != nil {
		return enrich.Summary{}, err
	}

	enriched, err := pipeline.Run(ctx, table)
	if err != nil {
		return enrich.Summary{}, fmt.Errorf("%s: %w", filepath.Base(inPath), err)
	}
	if err := export.WriteFile(outPath, format, enriched); err != nil {
		return enrich.Summary{}, err
	}

	summary := enrich.Summarize(enriched.Rows)
	slog.Info("enriched file", "input", inPath, "output", outPath, "rows", summary.Rows)
	fmt.Fprintf(r.out, "Enriched %s -> %s\n", inPath, outPath)
	printSummary(r.out, summary)
	return summary, nil
}

// batch enriches every file in import/.
func (r *enrichRun) batch(ctx context.Context, keep bool) error {
	files, err := importer.Scan(r.app.repo)
	if err != nil {
		return err
	}
	if len(files) == 0 {
		fmt.Fprintln(r.out, "No files to enrich in import/")
		return nil
	}

	for _, f := range files {
		format := r.format
		if format == "" {
			format = r.cfg.Enrich.OutputFormat
		}
		outPath := defaultOutputPath(r.app.repo, f.Path, format)

		summary, err := r.file(ctx, f.Path, outPath)
		if err != nil {
			return fmt.Errorf("enriching %s: %w", f.Name, err)
		}

		entry := runlog.NewEntry(relPath(r.app.repo, f.Path), relPath(r.app.repo, outPath))
		entry.Rows = summary.Rows
		entry.Predicted = summary.Predicted
		entry.Other = summary.Other
		entry.Unknown = summary.Unknown
		entry.Threshold = r.cfg.Enrich.Threshold
		if err := runlog.Append(r.app.repo, []runlog.Entry{entry}); err != nil {
			return fmt.Errorf("writing run log: %w", err)
		}

		if !keep {
			if err := importer.MarkProcessed(r.app.repo, f.Name); err != nil {
				return err
			}
		}
	}
	return nil
}

func defaultOutputPath(repo, inPath, format string) string {
	base := strings.TrimSuffix(filepath.Base(inPath), filepath.Ext(inPath))
	return filepath.Join(repo, outputDir, base+"-enriched."+strings.ToLower(format))
}

func relPath(root, path string) string {
	if rel, err := filepath.Rel(root, path); err == nil {
		return filepath.ToSlash(rel)
	}
	return path
}

func newProgressBar(w io.Writer, total int, name string) *progressbar.ProgressBar {
	return progressbar.NewOptions(total,
		progressbar.OptionSetWriter(w),
		progressbar.OptionShowCount(),
		progressbar.OptionSetWidth(40),
		progressbar.OptionSetDescription("Enriching "+name),
		progressbar.OptionShowElapsedTimeOnFinish(),
		progressbar.OptionOnCompletion(func() { fmt.Fprintln(w) }),
	)
}

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("86"))
	mutedStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
)

func printSummary(w io.Writer, s enrich.Summary) {
	fmt.Fprintln(w, headerStyle.Render("Summary"))
	fmt.Fprintf(w, "  rows:      %d\n", s.Rows)
	fmt.Fprintf(w, "  brand:     %d predicted, %d other, %d unknown\n", s.Predicted, s.Other, s.Unknown)
	fmt.Fprintf(w, "  industry:  %d by brand, %d by MCC, %d unresolved\n",
		s.BySource[model.SourceBrand], s.BySource[model.SourceMCC], s.BySource[model.SourceNone])
	if s.BadAmounts > 0 {
		fmt.Fprintf(w, "  %s\n", mutedStyle.Render(fmt.Sprintf("%d rows with unparseable AMOUNT", s.BadAmounts)))
	}
	if len(s.Spend) == 0 {
		return
	}
	fmt.Fprintln(w, headerStyle.Render("Spend by industry"))
	for _, line := range s.Spend {
		fmt.Fprintf(w, "  %-20s %-4s %14s  %s\n", line.Industry, line.Currency, line.Total.StringFixed(2),
			mutedStyle.Render(fmt.Sprintf("(%d)", line.Count)))
	}
}
