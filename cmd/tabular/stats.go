package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
)

var statsAsJSON bool

var statsCmd = &cobra.Command{
	Use:   "stats <file>",
	Short: "Report file statistics without a full parse",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, closeMetrics := newService(cmd.Context())
		defer closeMetrics()

		st, err := svc.FileStatistics(cmd.Context(), args[0], readOptions())
		if err != nil {
			return err
		}

		if statsAsJSON {
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(st)
		}

		fmt.Printf("File: %s (%s)\n", st.Path, st.Format)
		fmt.Printf("Size: %s  Estimated memory: %s\n",
			humanize.Bytes(uint64(st.FileSize)), humanize.Bytes(uint64(st.EstimatedMemory)))
		fmt.Printf("Rows: %s  Columns: %d\n", humanize.Comma(int64(st.RowCount)), st.ColumnCount)
		if st.SampleSchema != nil {
			fmt.Println("\nSampled schema:")
			for _, c := range st.SampleSchema.Columns {
				fmt.Printf("  %-24s %s\n", c.Name, c.Type)
			}
		}
		return nil
	},
}

func init() {
	addReadFlags(statsCmd)
	statsCmd.Flags().BoolVar(&statsAsJSON, "json", false, "emit JSON instead of a summary")
	rootCmd.AddCommand(statsCmd)
}
