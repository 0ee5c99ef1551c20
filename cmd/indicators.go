package cmd

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
)

var indicatorsShowUnmatched bool

var indicatorsCmd = &cobra.Command{
	Use:   "indicators",
	Short: "List the indicators recognized in the dataset",
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
		out := cmd.OutOrStdout()
		ix := snap.Index
		if ix.Len() == 0 {
			fmt.Fprintf(cmd.ErrOrStderr(), "⚠ Warning: no indicator column recognized in %s\n", c.DataPath)
			return nil
		}

		table := tablewriter.NewWriter(out)
		table.SetHeader([]string{"Indicateur", "Mois", "Structures", "Colonnes"})
		table.SetAutoWrapText(false)
		for _, ind := range ix.Indicators() {
			months := ix.Months(ind)
			table.Append([]string{
				ind,
				monthRange(months),
				strings.Join(ix.Structures(ind, ""), ", "),
				strconv.Itoa(len(ix.Entries(ind))),
			})
		}
		table.Render()
		fmt.Fprintf(out, "%d units, %d indicators, %d unrecognized columns\n", snap.Table.Len(), ix.Len(), len(ix.Unmatched))
		if indicatorsShowUnmatched {
			for _, col := range ix.Unmatched {
				fmt.Fprintf(out, "- %s\n", col)
			}
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(indicatorsCmd)
	indicatorsCmd.Flags().BoolVar(&indicatorsShowUnmatched, "unmatched", false, "also list the columns that are not indicators")
}

func monthRange(months []string) string {
	switch len(months) {
	case 0:
		return ""
	case 1:
		return months[0]
	default:
		return fmt.Sprintf("%s .. %s (%d)", months[0], months[len(months)-1], len(months))
	}
}
