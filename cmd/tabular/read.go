package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
)

var readAsJSON bool

var readCmd = &cobra.Command{
	Use:   "read <file>",
	Short: "Read a file and report its schema and quality",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, closeMetrics := newService(cmd.Context())
		defer closeMetrics()

		res, err := svc.Read(cmd.Context(), args[0], readOptions())
		if err != nil {
			return err
		}

		if readAsJSON {
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(res)
		}

		sch := res.Schema
		fmt.Printf("File: %s (%s, %s)\n", args[0], sch.Format, humanize.Bytes(uint64(sch.FileSize)))
		fmt.Printf("Rows: %s  Columns: %d\n", humanize.Comma(int64(sch.RowCount)), len(sch.Columns))
		fmt.Println()
		for _, c := range sch.Columns {
			nullable := ""
			if c.Nullable {
				nullable = " nullable"
			}
			fmt.Printf("  %-24s %-10s%s  nulls=%d\n", c.Name, c.Type, nullable, c.NullCount)
		}

		q := res.Quality
		fmt.Println()
		fmt.Printf("Completeness: %.2f  Uniqueness: %.2f  Validity: %.2f  Consistency: %.2f\n",
			q.Completeness, q.Uniqueness, q.Validity, q.Consistency)
		for _, issue := range q.Issues {
			fmt.Printf("  [%s] %s\n", issue.Severity, issue.Message)
		}
		return nil
	},
}

func init() {
	addReadFlags(readCmd)
	readCmd.Flags().BoolVar(&readAsJSON, "json", false, "emit JSON instead of a summary")
	rootCmd.AddCommand(readCmd)
}
