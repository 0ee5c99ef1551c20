package cmd

import (
	"fmt"
	"strconv"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/KaramelBytes/paludash/internal/chart"
	"github.com/KaramelBytes/paludash/internal/dataset"
	"github.com/KaramelBytes/paludash/internal/export"
	"github.com/KaramelBytes/paludash/internal/indicator"
	"github.com/KaramelBytes/paludash/internal/report"
)

var (
	viewIndicator string
	viewMonth     string
	viewStructure string
	viewOutput    string
	viewChart     string
	viewTop       int
)

var viewCmd = &cobra.Command{
	Use:   "view",
	Short: "Print the units of one indicator, month and structure, highest first",
	Long: `Print the units of one (indicator, month, structure) selection sorted by
value, highest first. Omitted selectors default to the first available option.
With --output the view is also written as an Excel workbook; with --chart as a
PNG bar chart.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := requireConfig()
		if err != nil {
			return err
		}
		cache, err := newCache(c)
		if err != nil {
			return err
		}
		opt, err := reportOptions(c)
		if err != nil {
			return err
		}
		snap, err := cache.Get(cmd.Context())
		if err != nil {
			return fmt.Errorf("load dataset: %w", err)
		}
		if snap.Table.Len() == 0 {
			return fmt.Errorf("%s: %w", c.DataPath, dataset.ErrEmptyDataset)
		}
		if snap.Index.Len() == 0 {
			return indicator.ErrNoIndicators
		}
		sel, err := resolveSelection(snap.Index, indicator.Selection{Indicator: viewIndicator, Month: viewMonth, Structure: viewStructure})
		if err != nil {
			return err
		}
		v, err := report.Build(snap.Table, snap.Index, sel, opt)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		fmt.Fprintln(out, v.Title())
		table := tablewriter.NewWriter(out)
		table.SetHeader([]string{"#", v.NameColumn, v.ValueColumn})
		table.SetAutoWrapText(false)
		table.SetColumnAlignment([]int{tablewriter.ALIGN_RIGHT, tablewriter.ALIGN_LEFT, tablewriter.ALIGN_RIGHT})
		for i, r := range v.Rows {
			if viewTop > 0 && i >= viewTop {
				break
			}
			table.Append([]string{strconv.Itoa(i + 1), r.Name, strconv.FormatFloat(r.Value, 'f', -1, 64)})
		}
		table.Render()
		s := report.Summarize(v)
		fmt.Fprintf(out, "units: %d  total: %g  mean: %.2f  median: %g  max: %g\n", s.Count, s.Total, s.Mean, s.Median, s.Max)

		if viewOutput != "" {
			path := viewOutput
			if path == "auto" {
				path = export.LocalFilename(sel)
			}
			buf, err := export.ViewXLSX(v)
			if err != nil {
				return err
			}
			if err := export.WriteFile(path, buf.Bytes()); err != nil {
				return err
			}
			fmt.Fprintf(out, "✓ Wrote %s\n", path)
		}
		if viewChart != "" {
			png, err := chart.Bar(v, chart.Size{Width: c.ChartWidthIn, Height: c.ChartHeightIn})
			if err != nil {
				return err
			}
			if err := export.WriteFile(viewChart, png); err != nil {
				return err
			}
			fmt.Fprintf(out, "✓ Wrote %s\n", viewChart)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(viewCmd)
	viewCmd.Flags().StringVarP(&viewIndicator, "indicator", "i", "", "indicator name")
	viewCmd.Flags().StringVarP(&viewMonth, "month", "m", "", "month label, e.g. \"Janvier 2024\"")
	viewCmd.Flags().StringVarP(&viewStructure, "structure", "s", "", "structure (reporting level)")
	viewCmd.Flags().StringVarP(&viewOutput, "output", "o", "", "write the view to this .xlsx file; \"auto\" names it <indicator>_<month>_<structure>.xlsx")
	viewCmd.Flags().StringVar(&viewChart, "chart", "", "write the bar chart to this .png file")
	viewCmd.Flags().IntVar(&viewTop, "top", 0, "print only the first N units (0 = all)")
}

// resolveSelection fills the selectors left empty with the first available
// option. A selector given explicitly must exist in the index.
func resolveSelection(ix *indicator.Index, want indicator.Selection) (indicator.Selection, error) {
	sel := ix.Normalize(want)
	if (want.Indicator != "" && want.Indicator != sel.Indicator) ||
		(want.Month != "" && want.Month != sel.Month) ||
		(want.Structure != "" && want.Structure != sel.Structure) {
		return sel, fmt.Errorf("%w: %q / %q / %q", indicator.ErrUnknownSelection, want.Indicator, want.Month, want.Structure)
	}
	return sel, nil
}
