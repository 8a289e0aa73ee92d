package source

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/usestring/exemplar-mcp/pkg/contenttype"
)

const defaultWorkers = 8

// LoadFiles reads and decodes paths concurrently. Documents keep the order
// of paths. The codec comes from opts.Category, else from each file's
// extension, else JSON. MaxDocuments applies to the combined result.
func LoadFiles(ctx context.Context, paths []string, opts Options) (*Result, error) {
	results := make([]*Result, len(paths))

	workers := opts.Workers
	if workers <= 0 {
		workers = defaultWorkers
	}

	fileOpts := opts
	fileOpts.MaxDocuments = 0

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	for i, path := range paths {
		i, path := i, path // Capture loop variables

		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}

			data, err := os.ReadFile(path)
			if err != nil {
				return fmt.Errorf("failed to read %s: %w", path, err)
			}

			category := opts.Category
			if category == contenttype.Unknown {
				category = contenttype.FromPath(path)
			}
			o := fileOpts
			if o.Comma == 0 && strings.EqualFold(filepath.Ext(path), ".tsv") {
				o.Comma = '\t'
			}

			res, err := Decode(data, category, o)
			if err != nil {
				return fmt.Errorf("failed to decode %s: %w", path, err)
			}

			slog.Debug("loaded documents",
				slog.String("path", path),
				slog.String("category", string(category)),
				slog.Int("documents", len(res.Documents)),
			)
			results[i] = res
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	merged := &Result{}
	for i, res := range results {
		merged.Documents = append(merged.Documents, res.Documents...)
		for _, w := range res.Warnings {
			merged.Warnings = append(merged.Warnings, paths[i]+": "+w)
		}
	}

	if opts.MaxDocuments > 0 && len(merged.Documents) > opts.MaxDocuments {
		return nil, fmt.Errorf("%w: %d documents, limit is %d", ErrTooManyDocuments, len(merged.Documents), opts.MaxDocuments)
	}
	return merged, nil
}
