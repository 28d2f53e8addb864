package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/geoknoesis/cimxml-go/graph"
	"github.com/geoknoesis/cimxml-go/graph/sqlstore"
	"github.com/geoknoesis/cimxml-go/rdf"
)

type dbFlags struct {
	db     string
	driver string
	table  string
}

func (d *dbFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&d.db, "db", "", "database DSN, or file path for sqlite")
	cmd.Flags().StringVar(&d.driver, "driver", string(sqlstore.SQLite), "database driver: sqlite, postgres, mysql")
	cmd.Flags().StringVar(&d.table, "table", sqlstore.DefaultTable, "triple table name")
	_ = cmd.MarkFlagRequired("db")
}

func newLoadCmd(a *app) *cobra.Command {
	var (
		dbf    dbFlags
		format string
	)
	cmd := &cobra.Command{
		Use:   "load --db DSN input...",
		Short: "Load RDF files into a SQL triple table",
		Long: `Loads triples into a database table that convert --db can serialize.
Duplicate triples are stored once.

Example:
  cimxml load --db model.db equipment.nt topology.nt`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			f, ok := rdf.ParseFormat(format)
			if !ok {
				return fmt.Errorf("unknown format %q", format)
			}
			store, err := sqlstore.Open(ctx, dbf.driver, dbf.db,
				sqlstore.WithTable(dbf.table), sqlstore.WithLogger(a.logger), sqlstore.WithContext(ctx))
			if err != nil {
				return err
			}
			defer store.Close()

			for _, input := range args {
				n, err := loadInto(cmd, store, input, f)
				if err != nil {
					return err
				}
				a.logger.Info("loaded file", zap.String("input", input), zap.Int("triples", n))
			}
			total, err := store.Len()
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%d triples in %s\n", total, dbf.db)
			return nil
		},
	}
	dbf.register(cmd)
	cmd.Flags().StringVarP(&format, "format", "f", "auto", "input format: auto, ntriples, nquads, jsonld")
	return cmd
}

func loadInto(cmd *cobra.Command, store graph.Adder, input string, format rdf.Format) (int, error) {
	f, err := os.Open(input)
	if err != nil {
		return 0, err
	}
	defer f.Close()
	if format == rdf.FormatAuto {
		if byExt, ok := rdf.FormatFromPath(input); ok {
			format = byExt
		}
	}
	n, err := graph.Load(cmd.Context(), store, f, format)
	if err != nil {
		return n, fmt.Errorf("%s: %w", input, err)
	}
	return n, nil
}

func newDumpCmd(a *app) *cobra.Command {
	var dbf dbFlags
	cmd := &cobra.Command{
		Use:   "dump --db DSN",
		Short: "Write the triples of a SQL triple table as N-Triples",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			store, err := sqlstore.Open(ctx, dbf.driver, dbf.db,
				sqlstore.WithTable(dbf.table), sqlstore.WithLogger(a.logger), sqlstore.WithContext(ctx))
			if err != nil {
				return err
			}
			defer store.Close()

			triples, err := store.Match(graph.Pattern{})
			if err != nil {
				return err
			}
			enc, err := rdf.NewTripleEncoder(cmd.OutOrStdout(), rdf.FormatNTriples)
			if err != nil {
				return err
			}
			for _, t := range triples {
				if err := enc.Write(t); err != nil {
					return err
				}
			}
			if err := enc.Close(); err != nil {
				return err
			}
			a.logger.Debug("dumped triples", zap.Int("count", len(triples)))
			return nil
		},
	}
	dbf.register(cmd)
	return cmd
}
