package main

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/spf13/cobra"

	"OilLens/internal/collector"
	"OilLens/internal/export"
)

var exportCmd = &cobra.Command{
	Use:   "export <command>",
	Short: "Write a dashboard view as CSV or Parquet.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		format, _ := cmd.Flags().GetString("format")
		path, _ := cmd.Flags().GetString("out")
		if format != "csv" && format != "parquet" {
			return fmt.Errorf("unsupported format %q, want csv or parquet", format)
		}

		req, err := requestFromFlags(args[0], cmd.Flags())
		if err != nil {
			return err
		}
		v, err := runOnce(cmd.Context(), req)
		if err != nil {
			return err
		}

		out, err := createOutput(path)
		if err != nil {
			return err
		}
		if format == "parquet" {
			err = v.WriteParquet(out)
		} else {
			err = v.WriteCSV(out)
		}
		if cerr := out.Close(); err == nil {
			err = cerr
		}
		if err != nil {
			return fmt.Errorf("export %s: %w", v.Command, err)
		}
		if path != "" && path != "-" {
			log.Printf("[INFO] wrote %d points to %s", v.Points(), path)
		}
		return nil
	},
}

var fetchCmd = &cobra.Command{
	Use:   "fetch",
	Short: "Download daily Brent closes from Yahoo Finance as a source table.",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		rng, _ := cmd.Flags().GetString("range")
		symbol, _ := cmd.Flags().GetString("symbol")
		path, _ := cmd.Flags().GetString("out")

		proxy := ""
		if cfg, err := loadConfig(); err == nil {
			proxy = cfg.Proxy
		}

		ctx := cmd.Context()
		if ctx == nil {
			ctx = context.Background()
		}
		ctx, cancel := context.WithTimeout(ctx, time.Minute)
		defer cancel()

		series, err := collector.NewYahooQuoteFetcher(symbol, proxy).FetchHistory(ctx, rng)
		if err != nil {
			return err
		}
		out, err := createOutput(path)
		if err != nil {
			return err
		}
		err = export.WriteCSV(out, series)
		if cerr := out.Close(); err == nil {
			err = cerr
		}
		if err != nil {
			return fmt.Errorf("write history: %w", err)
		}
		log.Printf("[INFO] fetched %d closes for %s", series.Len(), symbol)
		return nil
	},
}

func init() {
	addRequestFlags(exportCmd.Flags())
	exportCmd.Flags().String("format", "csv", "csv or parquet")
	exportCmd.Flags().String("out", "-", "output file, - for stdout")

	fetchCmd.Flags().String("range", "10y", "history range accepted by the chart API (1y, 5y, max)")
	fetchCmd.Flags().String("symbol", "BZ=F", "ticker symbol")
	fetchCmd.Flags().String("out", "-", "output file, - for stdout")
}
