package trajectory

import (
	"context"
	"path/filepath"
	"strings"

	"golang.org/x/sync/errgroup"
)

func isSQLite(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".sqlite", ".sqlite3", ".db":
		return true
	}
	return false
}

// LoadFile picks the loader from the file extension.
func LoadFile(ctx context.Context, path string, opts TextOptions) (*Data, error) {
	if isSQLite(path) {
		return LoadSQLite(ctx, path)
	}
	return LoadText(path, opts)
}

// LoadFiles loads all files concurrently and merges them into one recording.
func LoadFiles(ctx context.Context, paths []string, opts TextOptions) (*Data, error) {
	datas := make([]*Data, len(paths))

	g, gctx := errgroup.WithContext(ctx)
	for i, path := range paths {
		g.Go(func() error {
			d, err := LoadFile(gctx, path, opts)
			if err != nil {
				return err
			}
			datas[i] = d
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	if len(datas) == 1 {
		return datas[0], nil
	}
	return Merge(datas...)
}
