package main

import (
	"encoding/json"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"tabular/internal/catalog"
	_ "tabular/internal/catalog/mssql"
	_ "tabular/internal/catalog/postgres"
	_ "tabular/internal/catalog/sqlite"
	"tabular/internal/format"
)

var (
	scanKind      string
	scanDSN       string
	scanRecursive bool
)

var scanCmd = &cobra.Command{
	Use:   "scan <path>",
	Short: "Profile files and record the results in a catalog",
	Long: `Reads every supported file under the given path, infers schema and
quality, and stores one profile per file in the configured catalog so
repeated scans can be compared over time.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		repo, err := catalog.Open(ctx, catalog.Config{Kind: scanKind, DSN: scanDSN})
		if err != nil {
			return err
		}
		defer repo.Close()

		if err := repo.EnsureSchema(ctx); err != nil {
			return err
		}

		svc, closeMetrics := newService(ctx)
		defer closeMetrics()

		paths, err := discover(args[0], scanRecursive)
		if err != nil {
			return err
		}

		scanned := 0
		for _, path := range paths {
			res, err := svc.Read(ctx, path, readOptions())
			if err != nil {
				slog.Warn("skipping file", "path", path, "error", err)
				continue
			}

			schemaJSON, err := json.Marshal(res.Schema)
			if err != nil {
				return err
			}

			p := &catalog.Profile{
				Path:         path,
				Format:       string(res.Schema.Format),
				RowCount:     res.Schema.RowCount,
				ColumnCount:  len(res.Schema.Columns),
				SchemaJSON:   string(schemaJSON),
				Completeness: res.Quality.Completeness,
				Uniqueness:   res.Quality.Uniqueness,
				Validity:     res.Quality.Validity,
				Consistency:  res.Quality.Consistency,
				IssueCount:   len(res.Quality.Issues),
			}
			id, err := repo.Save(ctx, p)
			if err != nil {
				return fmt.Errorf("save profile for %s: %w", path, err)
			}

			scanned++
			fmt.Printf("%-48s rows=%s completeness=%.2f (profile %d)\n",
				path, humanize.Comma(int64(p.RowCount)), p.Completeness, id)
		}

		fmt.Printf("\nScanned %d of %d files\n", scanned, len(paths))
		return nil
	},
}

// discover lists supported files at path. A file path returns itself; a
// directory returns its supported children, recursing when asked.
func discover(path string, recursive bool) ([]string, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}
	if !info.IsDir() {
		return []string{path}, nil
	}

	var out []string
	err = filepath.WalkDir(path, func(sub string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if !recursive && sub != path {
				return fs.SkipDir
			}
			return nil
		}
		if _, err := format.Detect(sub); err == nil {
			out = append(out, sub)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func init() {
	addReadFlags(scanCmd)
	scanCmd.Flags().StringVar(&scanKind, "catalog", "sqlite", "catalog backend (sqlite, postgres, mssql)")
	scanCmd.Flags().StringVar(&scanDSN, "dsn", "tabular.db", "catalog connection string")
	scanCmd.Flags().BoolVar(&scanRecursive, "recursive", false, "descend into subdirectories")
	rootCmd.AddCommand(scanCmd)
}
