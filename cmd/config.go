package cmd

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	cfgpkg "github.com/KaramelBytes/paludash/internal/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "View or set Paludash configuration",
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show effective configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := requireConfig()
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "data_path: %s\n", c.DataPath)
		if c.SheetName != "" {
			fmt.Fprintf(out, "sheet_name: %s\n", c.SheetName)
		}
		if c.Delimiter != "" {
			fmt.Fprintf(out, "delimiter: %q\n", c.Delimiter)
		}
		if c.DecimalSeparator != "" {
			fmt.Fprintf(out, "decimal_separator: %q\n", c.DecimalSeparator)
		}
		fmt.Fprintf(out, "name_column: %s\n", c.NameColumn)
		fmt.Fprintf(out, "meta_columns: %s\n", strings.Join(c.MetaColumns, ","))
		fmt.Fprintf(out, "latitude_column: %s\n", c.LatitudeColumn)
		fmt.Fprintf(out, "longitude_column: %s\n", c.LongitudeColumn)
		fmt.Fprintf(out, "listen_addr: %s\n", c.ListenAddr)
		fmt.Fprintf(out, "tile_url: %s\n", c.TileURL)
		fmt.Fprintf(out, "chart_width_in: %g\n", c.ChartWidthIn)
		fmt.Fprintf(out, "chart_height_in: %g\n", c.ChartHeightIn)
		fmt.Fprintf(out, "log_level: %s\n", c.LogLevel)
		fmt.Fprintf(out, "log_format: %s\n", c.LogFormat)
		return nil
	},
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a config value and save to disk",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		key, val := args[0], args[1]
		c, err := requireConfig()
		if err != nil {
			return err
		}
		switch key {
		case "data_path":
			c.DataPath = val
		case "sheet_name":
			c.SheetName = val
		case "delimiter":
			prev := c.Delimiter
			c.Delimiter = val
			if _, err := c.DelimiterRune(); err != nil {
				c.Delimiter = prev
				return err
			}
		case "decimal_separator":
			prev := c.DecimalSeparator
			c.DecimalSeparator = val
			if _, err := c.DecimalRune(); err != nil {
				c.DecimalSeparator = prev
				return err
			}
		case "name_column":
			c.NameColumn = val
		case "meta_columns":
			var cols []string
			for _, s := range strings.Split(val, ",") {
				if s = strings.TrimSpace(s); s != "" {
					cols = append(cols, s)
				}
			}
			if len(cols) == 0 {
				cols = append(cols, cfgpkg.DefaultMetaColumns...)
			}
			c.MetaColumns = cols
		case "latitude_column":
			c.LatitudeColumn = val
		case "longitude_column":
			c.LongitudeColumn = val
		case "listen_addr":
			c.ListenAddr = val
		case "tile_url":
			c.TileURL = val
		case "chart_width_in", "chart_height_in":
			f, err := strconv.ParseFloat(val, 64)
			if err != nil || f <= 0 {
				return fmt.Errorf("invalid positive float for %s: %v", key, val)
			}
			if key == "chart_width_in" {
				c.ChartWidthIn = f
			} else {
				c.ChartHeightIn = f
			}
		case "log_level":
			switch strings.ToLower(val) {
			case "debug", "info", "warn", "error":
				c.LogLevel = strings.ToLower(val)
			default:
				return fmt.Errorf("invalid log_level: %s (use debug, info, warn or error)", val)
			}
		case "log_format":
			switch strings.ToLower(val) {
			case "text", "json":
				c.LogFormat = strings.ToLower(val)
			default:
				return fmt.Errorf("invalid log_format: %s (use text or json)", val)
			}
		default:
			return fmt.Errorf("unknown key: %s", key)
		}
		if err := cfgpkg.Save(c, cfgFile); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "Saved config")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configSetCmd)
}
