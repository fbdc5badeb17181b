package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/Sternrassler/medshield-admin/pkg/model"
	"github.com/Sternrassler/medshield-admin/pkg/pagination"
	"github.com/spf13/cobra"
)

func newExportCmd(a *app) *cobra.Command {
	var (
		filter      model.FilterCriteria
		out         string
		concurrency int
	)

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export every cluster of a filter set as JSON",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if !filter.HasRequired() {
				return codeError(2, "--phase and --role are required")
			}
			if a.cfg.Token == "" {
				return codeError(2, "a bearer token is required (--token or MEDSHIELD_TOKEN)")
			}

			workers := a.cfg.Export.MaxConcurrency
			if cmd.Flags().Changed("concurrency") {
				workers = concurrency
			}

			fetcher := pagination.NewBatchFetcher(
				a.client.WithRetries(a.cfg.Export.MaxAttempts),
				pagination.Config{
					MaxConcurrency: workers,
					Timeout:        a.cfg.RequestTimeout,
				},
			)

			start := time.Now()
			clusters, err := fetcher.FetchAll(a.tokenContext(cmd.Context()), filter)
			if err != nil {
				return fmt.Errorf("export: %w", err)
			}

			if out == "" {
				err = writeClusters(cmd.OutOrStdout(), clusters)
			} else {
				err = writeFile(out, clusters)
			}
			if err != nil {
				return err
			}

			a.logger.Info().
				Str("phase", filter.Phase).
				Str("role", filter.Role).
				Int("clusters", len(clusters)).
				Dur("duration", time.Since(start)).
				Msg("Export complete")
			return nil
		},
	}

	filterFlags(cmd, &filter, true)
	cmd.Flags().StringVarP(&out, "output", "o", "", "Write JSON to this file instead of stdout")
	cmd.Flags().IntVar(&concurrency, "concurrency", 0, "Parallel page fetches (overrides config)")
	return cmd
}

func writeClusters(w io.Writer, clusters []model.DocumentCluster) error {
	if clusters == nil {
		clusters = []model.DocumentCluster{}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(clusters); err != nil {
		return fmt.Errorf("encode clusters: %w", err)
	}
	return nil
}

// writeFile writes clusters to path. A failed close is reported, since the
// file may be truncated.
func writeFile(path string, clusters []model.DocumentCluster) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create output: %w", err)
	}
	return writeAndClose(f, clusters)
}

func writeAndClose(wc io.WriteCloser, clusters []model.DocumentCluster) error {
	if err := writeClusters(wc, clusters); err != nil {
		wc.Close()
		return err
	}
	if err := wc.Close(); err != nil {
		return fmt.Errorf("close output: %w", err)
	}
	return nil
}
