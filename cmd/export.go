package cmd

import (
	"bytes"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/KaramelBytes/paludash/internal/export"
)

var (
	exportIndicator string
	exportOutput    string
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Write the raw dataset as CSV, or one indicator as an Excel workbook",
	Long: `Without --indicator, write the loaded dataset back as UTF-8 CSV (default
data.csv). With --indicator, write every month and structure of that indicator
to one workbook (default <indicator>.xlsx).`,
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := requireConfig()
		if err != nil {
			return err
		}
		cache, err := newCache(c)
		if err != nil {
			return err
		}
		snap, err := cache.Get(cmd.Context())
		if err != nil {
			return fmt.Errorf("load dataset: %w", err)
		}

		path := exportOutput
		var data []byte
		if exportIndicator == "" {
			if path == "" {
				path = "data.csv"
			}
			var buf bytes.Buffer
			if err := export.CSV(snap.Table, &buf); err != nil {
				return err
			}
			data = buf.Bytes()
		} else {
			if path == "" {
				path = exportIndicator + ".xlsx"
			}
			opt, err := reportOptions(c)
			if err != nil {
				return err
			}
			buf, err := export.IndicatorXLSX(snap.Table, snap.Index, exportIndicator, opt)
			if err != nil {
				return err
			}
			data = buf.Bytes()
		}
		if err := export.WriteFile(path, data); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "✓ Wrote %s\n", path)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(exportCmd)
	exportCmd.Flags().StringVarP(&exportIndicator, "indicator", "i", "", "indicator to export as a workbook")
	exportCmd.Flags().StringVarP(&exportOutput, "output", "o", "", "output file path")
}
