package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/geoknoesis/cimxml-go/internal/config"
	"github.com/geoknoesis/cimxml-go/internal/watch"
	"github.com/geoknoesis/cimxml-go/rdf"
)

func newWatchCmd(a *app) *cobra.Command {
	var (
		header   headerFlags
		output   string
		format   string
		debounce time.Duration
	)
	cmd := &cobra.Command{
		Use:   "watch input -o output",
		Short: "Re-convert an RDF file whenever it changes",
		Long: `Converts input once, then again after every change until interrupted.
The header configuration is re-read on each run.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if output == "" {
				return fmt.Errorf("--output is required")
			}
			f, ok := rdf.ParseFormat(format)
			if !ok {
				return fmt.Errorf("unknown format %q", format)
			}
			overrides := header.overrides(cmd)
			input := args[0]

			run := func(ctx context.Context, _ string) error {
				cfg, err := config.Resolve(a.configPath, overrides)
				if err != nil {
					return err
				}
				return convertOne(ctx, a.logger, input, output, f, cfg, nil)
			}

			ctx := cmd.Context()
			if err := run(ctx, input); err != nil {
				return err
			}
			files := []string{input}
			if a.configPath != "" {
				files = append(files, a.configPath)
			}
			w, err := watch.New(files, run, watch.WithDebounce(debounce), watch.WithLogger(a.logger))
			if err != nil {
				return err
			}
			if err := w.Start(ctx); err != nil {
				return err
			}
			a.logger.Info("watching", zap.Strings("files", files), zap.String("output", output))
			<-ctx.Done()
			w.Stop()
			return nil
		},
	}
	header.register(cmd)
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file")
	cmd.Flags().StringVarP(&format, "format", "f", "auto", "input format: auto, ntriples, nquads, jsonld")
	cmd.Flags().DurationVar(&debounce, "debounce", watch.DefaultDebounce, "quiet period before re-converting")
	return cmd
}
