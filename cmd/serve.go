package cmd

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/KaramelBytes/paludash/internal/chart"
	"github.com/KaramelBytes/paludash/internal/web"
)

var serveAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the dashboard web server",
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := requireConfig()
		if err != nil {
			return err
		}
		if cmd.Flags().Changed("addr") && serveAddr != "" {
			c.ListenAddr = serveAddr
		}
		log := newLogger(c, os.Stderr)

		cache, err := newCache(c)
		if err != nil {
			return err
		}
		opt, err := reportOptions(c)
		if err != nil {
			return err
		}
		// Load once up front so a bad path fails at startup.
		snap, err := cache.Get(cmd.Context())
		if err != nil {
			return fmt.Errorf("load dataset: %w", err)
		}
		if snap.Index.Len() == 0 {
			fmt.Fprintf(os.Stderr, "⚠ Warning: no indicator column recognized in %s\n", c.DataPath)
		}
		log.Info("dataset loaded", "path", c.DataPath, "units", snap.Table.Len(), "indicators", len(snap.Index.Indicators()), "unmatched", len(snap.Index.Unmatched))

		srv, err := web.New(cache, web.Settings{
			NameColumn:       opt.NameColumn,
			LatitudeColumn:   c.LatitudeColumn,
			LongitudeColumn:  c.LongitudeColumn,
			DecimalSeparator: opt.DecimalSeparator,
			TileURL:          c.TileURL,
			ChartSize:        chart.Size{Width: c.ChartWidthIn, Height: c.ChartHeightIn},
		}, log)
		if err != nil {
			return err
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()
		fmt.Printf("✓ Dashboard on http://%s\n", displayAddr(c.ListenAddr))
		return srv.ListenAndServe(ctx, c.ListenAddr)
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "listen address (overrides config)")
}

// displayAddr turns ":8501" into "localhost:8501".
func displayAddr(addr string) string {
	if len(addr) > 0 && addr[0] == ':' {
		return "localhost" + addr
	}
	return addr
}
