package main

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/usestring/exemplar-mcp/internal/config"
	"github.com/usestring/exemplar-mcp/internal/inference"
	"github.com/usestring/exemplar-mcp/internal/logging"
	"github.com/usestring/exemplar-mcp/internal/source"
	"github.com/usestring/exemplar-mcp/pkg/contenttype"
	"github.com/usestring/exemplar-mcp/pkg/document"
	"github.com/usestring/exemplar-mcp/pkg/jsoncompact"
)

// errConflicts is returned with --fail-on-conflict.
var errConflicts = errors.New("conflicting fields found")

type inferFlags struct {
	typeLabel      string
	ignore         []string
	selectExpr     string
	format         string
	recordPath     string
	driver         string
	dsn            string
	query          string
	compact        bool
	failOnConflict bool
	output         string
	noColor        bool
	logLevel       string
}

func newInferCmd() *cobra.Command {
	f := &inferFlags{}

	cmd := &cobra.Command{
		Use:   "infer [files...]",
		Short: "Merge sample documents into one example value",
		Long: `Reads documents from files (or stdin when none are given, or "-"), or from
the first column of SQL query rows, and prints the merged example as JSON.
Conflicting fields are listed on stderr.`,
		Example: `  exemplar infer --type Post posts/*.json
  curl -s https://api.example.com/posts | exemplar infer --type Post --select '.data[]'
  exemplar infer --driver sqlite --dsn app.db --query 'SELECT body FROM posts'`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ignore := f.ignore
			if !cmd.Flags().Changed("ignore") {
				ignore = nil
			} else if ignore == nil {
				ignore = []string{}
			}
			return runInfer(cmd.Context(), cmd.InOrStdin(), cmd.OutOrStdout(), cmd.ErrOrStderr(), f, ignore, args)
		},
	}

	flags := cmd.Flags()
	flags.StringVarP(&f.typeLabel, "type", "t", "Document", "Type label prefixed to conflict selectors")
	flags.StringSliceVar(&f.ignore, "ignore", nil, "Top-level fields to ignore (default from EXEMPLAR_IGNORE_FIELDS; pass \"\" for none)")
	flags.StringVarP(&f.selectExpr, "select", "s", "", "jq expression selecting documents from each payload")
	flags.StringVarP(&f.format, "format", "f", "", "Input format: json, ndjson, yaml, xml, html, csv, tsv, form or a media type (default from file extension)")
	flags.StringVar(&f.recordPath, "record-path", "", "XPath selecting record elements in XML or HTML input")
	flags.StringVar(&f.driver, "driver", "", "SQL driver: sqlite, pgx or mysql")
	flags.StringVar(&f.dsn, "dsn", "", "SQL data source name")
	flags.StringVar(&f.query, "query", "", "SQL query whose first column holds one JSON document per row")
	flags.BoolVar(&f.compact, "compact", false, "Shorten long arrays and strings in the output")
	flags.BoolVar(&f.failOnConflict, "fail-on-conflict", false, "Exit with an error when any field conflicts")
	flags.StringVarP(&f.output, "output", "o", "example", "Output: example (the example value) or report (example with conflicts and summary)")
	flags.BoolVar(&f.noColor, "no-color", false, "Disable colored output")
	flags.StringVar(&f.logLevel, "log-level", "error", "Log level (debug, info, warn, error)")

	return cmd
}

func runInfer(ctx context.Context, stdin io.Reader, stdout, stderr io.Writer, f *inferFlags, ignore, args []string) error {
	if ctx == nil {
		ctx = context.Background()
	}
	if f.output != "example" && f.output != "report" {
		return fmt.Errorf("invalid --output %q: use example or report", f.output)
	}

	cleanup, err := logging.Setup(logging.Config{Level: f.logLevel, Format: "text", Output: stderr})
	if err != nil {
		return fmt.Errorf("failed to setup logging: %w", err)
	}
	defer cleanup()

	cfg := config.Load()
	loaded, err := loadDocuments(ctx, stdin, cfg, f, args)
	if err != nil {
		return err
	}
	for _, w := range loaded.Warnings {
		fmt.Fprintf(stderr, "warning: %s\n", w)
	}

	engine := inference.NewEngine(nil, nil, cfg)
	res := engine.InferDocuments(ctx, loaded.Documents, f.typeLabel, ignore)

	example := document.ObjectValue(res.Example)
	if f.compact {
		example = jsoncompact.CompactValue(example, cfg.CompactOptions())
	}

	var payload any = example
	if f.output == "report" {
		out := res.Output(cfg.CompactOptions())
		out.Example = example
		payload = out
	}
	if err := writeJSON(stdout, payload); err != nil {
		return err
	}

	for _, tr := range res.Truncated {
		fmt.Fprintf(stderr, "warning: %s left out beyond depth %d\n", tr.Selector, tr.Depth)
	}
	if len(res.Conflicts) > 0 {
		if f.noColor {
			color.NoColor = true
		}
		renderConflicts(stderr, res, cfg.CompactOptions())
		if f.failOnConflict {
			return fmt.Errorf("%w: %s", errConflicts, res.Summary)
		}
	}
	return nil
}

func loadDocuments(ctx context.Context, stdin io.Reader, cfg *config.Config, f *inferFlags, args []string) (*source.Result, error) {
	opts := source.Options{
		RecordPath:   f.recordPath,
		Select:       f.selectExpr,
		MaxDocuments: cfg.MaxDocumentsPerCall,
		Workers:      cfg.LoadWorkers,
	}
	if f.format != "" {
		opts.Category = contenttype.Classify(f.format)
		if !contenttype.IsDocumentSource(opts.Category) {
			return nil, fmt.Errorf("unsupported --format %q", f.format)
		}
		if ct := strings.ToLower(f.format); ct == "tsv" || strings.Contains(ct, "tab-separated") {
			opts.Comma = '\t'
		}
	}

	if f.driver != "" || f.query != "" {
		if len(args) > 0 {
			return nil, fmt.Errorf("files and --query cannot be combined")
		}
		return loadSQL(ctx, cfg, f, opts)
	}

	if len(args) == 0 || (len(args) == 1 && args[0] == "-") {
		data, err := io.ReadAll(stdin)
		if err != nil {
			return nil, fmt.Errorf("failed to read stdin: %w", err)
		}
		return source.Decode(data, opts.Category, opts)
	}
	return source.LoadFiles(ctx, args, opts)
}

func loadSQL(ctx context.Context, cfg *config.Config, f *inferFlags, opts source.Options) (*source.Result, error) {
	if f.driver == "" || f.dsn == "" || f.query == "" {
		return nil, fmt.Errorf("--driver, --dsn and --query are required for SQL input")
	}

	db, err := sql.Open(f.driver, f.dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s database: %w", f.driver, err)
	}
	defer db.Close()

	if cfg.SQLQueryTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, cfg.SQLQueryTimeout)
		defer cancel()
	}
	return source.LoadSQL(ctx, db, opts, f.query)
}

func writeJSON(w io.Writer, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to encode output: %w", err)
	}
	var buf bytes.Buffer
	if err := json.Indent(&buf, data, "", "  "); err != nil {
		return fmt.Errorf("failed to encode output: %w", err)
	}
	buf.WriteByte('\n')
	_, err = w.Write(buf.Bytes())
	return err
}
