package source

import (
	"context"
	"fmt"
	"os"

	"golang.org/x/sync/errgroup"
)

// Open returns the source for path. With FormatAuto directories open as
// FS and files are parsed by extension.
func Open(ctx context.Context, path string, format Format, opts Options) (Source, error) {
	if format == FormatAuto || format == "" {
		info, err := os.Stat(path)
		if err != nil {
			return nil, err
		}
		if info.IsDir() {
			return NewFS(ctx, path, opts), nil
		}
		format = formatFromExt(path)
		if format == "" {
			return nil, fmt.Errorf("%s: cannot detect format from extension, use --format", path)
		}
	}

	if format == FormatDir {
		return NewFS(ctx, path, opts), nil
	}
	return ReadDocument(path, format)
}

// OpenAll opens every path concurrently and returns the sources in the
// order of paths. The first failure cancels the rest.
func OpenAll(ctx context.Context, paths []string, format Format, opts Options) (Forest, error) {
	sources := make(Forest, len(paths))
	g, ctx := errgroup.WithContext(ctx)
	for i, path := range paths {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			src, err := Open(ctx, path, format, opts)
			if err != nil {
				return err
			}
			sources[i] = src
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return sources, nil
}
