package main

import (
	"fmt"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
)

var sheetsCmd = &cobra.Command{
	Use:   "sheets <file>",
	Short: "List workbook sheets with their dimensions",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, closeMetrics := newService(cmd.Context())
		defer closeMetrics()

		infos, err := svc.ListSheets(args[0])
		if err != nil {
			return err
		}
		for _, info := range infos {
			fmt.Printf("%-32s %s rows x %d columns\n",
				info.Name, humanize.Comma(int64(info.RowCount)), info.ColumnCount)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(sheetsCmd)
}
