// Command cimxml converts RDF graphs (N-Triples, N-Quads, JSON-LD or a SQL
// triple table) into CIM/XML documents.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// app carries the global flags and the logger shared by every subcommand.
type app struct {
	verbose    bool
	configPath string
	logger     *zap.Logger
	newLogger  func(verbose bool) (*zap.Logger, error)
}

func buildLogger(verbose bool) (*zap.Logger, error) {
	config := zap.NewProductionConfig()
	if verbose {
		config.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	}
	return config.Build()
}

func newRootCmd(a *app) *cobra.Command {
	if a.newLogger == nil {
		a.newLogger = buildLogger
	}
	root := &cobra.Command{
		Use:   "cimxml",
		Short: "Serialize RDF graphs as IEC 61970-552 CIM/XML",
		Long: `cimxml reads RDF triples and writes CIM/XML documents: RDF/XML with the
iec61970-552 processing instruction and an md:FullModel header.

Header values come from a YAML file (--config), CIMXML_* environment
variables and flags, in increasing order of precedence.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			logger, err := a.newLogger(a.verbose)
			if err != nil {
				return fmt.Errorf("failed to initialize logger: %w", err)
			}
			a.logger = logger
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if a.logger != nil {
				_ = a.logger.Sync()
			}
		},
	}
	root.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "enable debug logging")
	root.PersistentFlags().StringVar(&a.configPath, "config", "", "YAML file with header and serializer settings")

	root.AddCommand(
		newConvertCmd(a),
		newLoadCmd(a),
		newDumpCmd(a),
		newWatchCmd(a),
	)
	return root
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd(&app{}).ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
