package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/geoknoesis/cimxml-go/cimxml"
	"github.com/geoknoesis/cimxml-go/graph"
	"github.com/geoknoesis/cimxml-go/graph/sqlstore"
	"github.com/geoknoesis/cimxml-go/internal/config"
	"github.com/geoknoesis/cimxml-go/rdf"
)

// headerFlags are the serializer settings settable from the command line.
type headerFlags struct {
	profile       string
	about         string
	newID         bool
	scenarioTime  string
	created       string
	description   string
	modelVersion  string
	authority     string
	xmlBase       string
	encoding      string
	maxDepth      int
	emitDatatypes bool
}

func (h *headerFlags) register(cmd *cobra.Command) {
	f := cmd.Flags()
	f.StringVar(&h.profile, "profile", "", "md:Model.profile URI")
	f.StringVar(&h.about, "about", "", "rdf:about of the md:FullModel block")
	f.BoolVar(&h.newID, "new-id", false, "use a fresh urn:uuid as rdf:about")
	f.StringVar(&h.scenarioTime, "scenario-time", "", "md:Model.scenarioTime")
	f.StringVar(&h.created, "created", "", "md:Model.created")
	f.StringVar(&h.description, "description", "", "md:Model.description")
	f.StringVar(&h.modelVersion, "model-version", "", "md:Model.version")
	f.StringVar(&h.authority, "authority", "", "md:Model.modelingAuthoritySet")
	f.StringVar(&h.xmlBase, "xml-base", "", "xml:base of the document")
	f.StringVar(&h.encoding, "encoding", "", "output encoding (IANA name, default UTF-8)")
	f.IntVar(&h.maxDepth, "max-depth", cimxml.DefaultMaxDepth, "maximum nesting depth for inlined subjects")
	f.BoolVar(&h.emitDatatypes, "emit-datatypes", false, "write rdf:datatype on typed literals")
}

// overrides returns the configuration keys whose flags were set explicitly.
func (h *headerFlags) overrides(cmd *cobra.Command) map[string]any {
	out := map[string]any{}
	set := func(flag, key string, value any) {
		if cmd.Flags().Changed(flag) {
			out[key] = value
		}
	}
	set("profile", cimxml.KeyProfileURI, h.profile)
	set("about", cimxml.KeyAbout, h.about)
	set("scenario-time", cimxml.KeyScenarioTime, h.scenarioTime)
	set("created", cimxml.KeyCreated, h.created)
	set("description", cimxml.KeyDescription, h.description)
	set("model-version", cimxml.KeyVersion, h.modelVersion)
	set("authority", cimxml.KeyModelingAuthoritySet, h.authority)
	set("xml-base", cimxml.KeyXMLBase, h.xmlBase)
	set("encoding", cimxml.KeyEncoding, h.encoding)
	set("max-depth", cimxml.KeyMaxDepth, h.maxDepth)
	set("emit-datatypes", cimxml.KeyEmitDatatypes, h.emitDatatypes)
	if h.newID {
		out[cimxml.KeyAbout] = uuid.New().URN()
	}
	return out
}

type convertOptions struct {
	header headerFlags
	output string
	format string
	jobs   int
	db     string
	driver string
}

func newConvertCmd(a *app) *cobra.Command {
	var opts convertOptions
	cmd := &cobra.Command{
		Use:   "convert [input...]",
		Short: "Convert RDF files or a SQL triple table to CIM/XML",
		Long: `Converts each input to a CIM/XML document.

With one input the document goes to --output, or stdout when unset. With
several inputs --output names a directory (default: next to each input) and
inputs are converted in parallel.

With --db and no inputs the triples stored in the database are serialized.

Example:
  cimxml convert --profile http://iec.ch/TC57/ns/CIM/CoreEquipment-EU/3.0 model.nt
  cimxml convert --config header.yaml -o out/ a.nt b.jsonld`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Resolve(a.configPath, opts.header.overrides(cmd))
			if err != nil {
				return err
			}
			format, ok := rdf.ParseFormat(opts.format)
			if !ok {
				return fmt.Errorf("unknown format %q", opts.format)
			}
			ctx := cmd.Context()
			switch {
			case opts.db != "" && len(args) == 0:
				return convertDatabase(ctx, a.logger, opts, cfg, cmd.OutOrStdout())
			case len(args) == 0:
				return fmt.Errorf("no input files")
			case len(args) == 1 && !isDir(opts.output):
				return convertOne(ctx, a.logger, args[0], opts.output, format, cfg, cmd.OutOrStdout())
			default:
				return convertMany(ctx, a.logger, args, opts, format, cfg)
			}
		},
	}
	opts.header.register(cmd)
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file, or directory for several inputs")
	cmd.Flags().StringVarP(&opts.format, "format", "f", "auto", "input format: auto, ntriples, nquads, jsonld")
	cmd.Flags().IntVarP(&opts.jobs, "jobs", "j", runtime.NumCPU(), "parallel conversions")
	cmd.Flags().StringVar(&opts.db, "db", "", "serialize the triples stored in this database")
	cmd.Flags().StringVar(&opts.driver, "driver", string(sqlstore.SQLite), "database driver: sqlite, postgres, mysql")
	return cmd
}

// convertMany converts every input concurrently, bounded by --jobs.
func convertMany(ctx context.Context, logger *zap.Logger, inputs []string, opts convertOptions, format rdf.Format, cfg cimxml.Config) error {
	if opts.output != "" {
		if err := os.MkdirAll(opts.output, 0o755); err != nil {
			return err
		}
	}
	jobs := opts.jobs
	if jobs < 1 {
		jobs = 1
	}

	eg, ctx := errgroup.WithContext(ctx)
	eg.SetLimit(jobs)
	for _, input := range inputs {
		input := input
		eg.Go(func() error {
			select {
			case <-ctx.Done():
				return ctx.Err()
			default:
				return convertOne(ctx, logger, input, outputPath(input, opts.output), format, cfg, nil)
			}
		})
	}
	return eg.Wait()
}

// outputPath derives the document name for input: the input name with an
// .xml extension, placed in dir when set.
func outputPath(input, dir string) string {
	name := strings.TrimSuffix(filepath.Base(input), filepath.Ext(input)) + ".xml"
	if dir == "" {
		return filepath.Join(filepath.Dir(input), name)
	}
	return filepath.Join(dir, name)
}

// convertOne loads input into an in-memory graph and serializes it to output,
// or to stdout when output is empty.
func convertOne(ctx context.Context, logger *zap.Logger, input, output string, format rdf.Format, cfg cimxml.Config, stdout io.Writer) error {
	g, err := loadFile(ctx, input, format)
	if err != nil {
		return err
	}
	n, _ := g.Len()
	logger.Info("loaded graph", zap.String("input", input), zap.Int("triples", n))
	return writeDocument(logger.With(zap.String("input", input)), g, output, cfg, stdout)
}

func convertDatabase(ctx context.Context, logger *zap.Logger, opts convertOptions, cfg cimxml.Config, stdout io.Writer) error {
	store, err := sqlstore.Open(ctx, opts.driver, opts.db, sqlstore.WithLogger(logger), sqlstore.WithContext(ctx))
	if err != nil {
		return err
	}
	defer store.Close()
	return writeDocument(logger.With(zap.String("db", opts.db)), store, opts.output, cfg, stdout)
}

func loadFile(ctx context.Context, path string, format rdf.Format) (*graph.Graph, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	if format == rdf.FormatAuto {
		if byExt, ok := rdf.FormatFromPath(path); ok {
			format = byExt
		}
	}
	g := graph.New()
	if _, err := graph.Load(ctx, g, f, format); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return g, nil
}

func writeDocument(logger *zap.Logger, store graph.Store, output string, cfg cimxml.Config, stdout io.Writer) error {
	opts := []cimxml.Option{cimxml.WithLogger(logger)}
	if output == "" {
		if stdout == nil {
			stdout = os.Stdout
		}
		return cimxml.Serialize(stdout, store, cfg, opts...)
	}

	f, err := os.Create(output)
	if err != nil {
		return err
	}
	bw := bufio.NewWriter(f)
	if err := cimxml.Serialize(bw, store, cfg, opts...); err != nil {
		_ = f.Close()
		_ = os.Remove(output)
		return err
	}
	if err := bw.Flush(); err != nil {
		_ = f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	logger.Info("wrote document", zap.String("output", output))
	return nil
}

func isDir(path string) bool {
	if path == "" {
		return false
	}
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}
