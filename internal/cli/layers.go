package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/ppiankov/layergraph/internal/pipeline"
	"github.com/ppiankov/layergraph/internal/rdf"
	"github.com/ppiankov/layergraph/internal/validate"
	"github.com/spf13/cobra"
)

var (
	outPath    string
	outputDir  string
	reportPath string
	daContext  string
	shapesPath string
	layerName  string
	runTimeout time.Duration
)

var daCmd = &cobra.Command{
	Use:   "da <spans>",
	Short: "Build the DA layer (blocks, observations, quantities)",
	Long: `Build the dimensional analysis layer for one span file and check it
against the DA shapes. Output is written even when it does not conform;
the exit status is then 2.

Example:
  layergraph da manual.yaml -o manual.da.ttl
  layergraph da parse.nt --format ntriples -o da.nt`,
	Args: cobra.ExactArgs(1),
	RunE: runDA,
}

var meaningCmd = &cobra.Command{
	Use:   "meaning <spans>",
	Short: "Build the Meaning layer (claims, procedures)",
	Long: `Build the meaning layer for one span file. With --da, the given DA graph
(N-Triples) is copied into the output first so claims and procedures sit
next to the analysis they were derived alongside. Write that graph with
"layergraph da --format ntriples"; Turtle and JSON cannot be read back.

Example:
  layergraph meaning manual.yaml -o manual.meaning.ttl
  layergraph meaning manual.yaml --da manual.da.nt`,
	Args: cobra.ExactArgs(1),
	RunE: runMeaning,
}

var runCmd = &cobra.Command{
	Use:   "run <spans>",
	Short: "Build, validate and write both layers",
	Long: `Run the full pipeline for one span file and write <name>.da.<ext> and
<name>.meaning.<ext> into the output directory. Results are cached by
input content and configuration.

Example:
  layergraph run manual.yaml --output-dir out --report out/manual.report.json`,
	Args: cobra.ExactArgs(1),
	RunE: runRun,
}

var validateCmd = &cobra.Command{
	Use:   "validate <graph.nt>",
	Short: "Check an N-Triples graph against shapes",
	Long: `Check a graph against a YAML shapes file, or against the built-in shapes
of --layer when --shapes is not given. Exit status is 2 when the graph
does not conform.`,
	Args: cobra.ExactArgs(1),
	RunE: runValidate,
}

func init() {
	rootCmd.AddCommand(daCmd, meaningCmd, runCmd, validateCmd)

	for _, c := range []*cobra.Command{daCmd, meaningCmd} {
		c.Flags().StringVarP(&outPath, "out", "o", "-", "output path (- for stdout)")
	}
	meaningCmd.Flags().StringVar(&daContext, "da", "", "DA graph to include as context; N-Triples only (write it with: layergraph da --format ntriples)")

	runCmd.Flags().StringVar(&outputDir, "output-dir", ".", "directory for the layer files")
	runCmd.Flags().StringVar(&reportPath, "report", "", "write the run report as JSON to this path")
	runCmd.Flags().DurationVar(&runTimeout, "timeout", 2*time.Minute, "overall timeout")

	validateCmd.Flags().StringVar(&shapesPath, "shapes", "", "YAML shapes file (default: built-in shapes for --layer)")
	validateCmd.Flags().StringVar(&layerName, "layer", pipeline.LayerDA, "built-in shapes to use: da or meaning")
}

// newPipeline loads the configuration and builds a pipeline
func newPipeline() (*pipeline.Pipeline, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	return pipeline.NewPipeline(cfg, pipeline.WithLogger(newLogger(cfg)))
}

func runDA(cmd *cobra.Command, args []string) error {
	p, err := newPipeline()
	if err != nil {
		return err
	}
	src, err := p.Loader().Load(args[0])
	if err != nil {
		return err
	}
	if verbose {
		fmt.Fprintf(cmd.ErrOrStderr(), "Loaded %d spans from %s\n", src.Repo.Len(), src.Path)
	}

	g, report, err := p.BuildDA(src.Repo)
	if err != nil {
		return err
	}
	if verbose {
		fmt.Fprintf(cmd.ErrOrStderr(), "✓ %d blocks, %d observations, %d quantities (%d dropped)\n",
			report.Blocks, report.Observations, report.Quantities, report.Dropped)
	}
	return writeChecked(cmd, p, pipeline.LayerDA, g, outPath)
}

func runMeaning(cmd *cobra.Command, args []string) error {
	p, err := newPipeline()
	if err != nil {
		return err
	}
	src, err := p.Loader().Load(args[0])
	if err != nil {
		return err
	}

	var da *rdf.Graph
	if daContext != "" {
		if da, err = readNTriples(daContext); err != nil {
			return fmt.Errorf("da context: %w", err)
		}
	}

	g, report, err := p.BuildMeaning(src.Repo, da)
	if err != nil {
		return err
	}
	if verbose {
		fmt.Fprintf(cmd.ErrOrStderr(), "✓ %d claims, %d procedures (%d steps)\n",
			report.Claims, report.Procedures, report.Steps)
	}
	return writeChecked(cmd, p, pipeline.LayerMeaning, g, outPath)
}

// writeChecked serializes g, writes it, then reports its validation outcome
func writeChecked(cmd *cobra.Command, p *pipeline.Pipeline, layer string, g *rdf.Graph, path string) error {
	data, err := rdf.Serialize(g, p.Format())
	if err != nil {
		return fmt.Errorf("serialize %s: %w", layer, err)
	}
	renderer := pipeline.NewRenderer(cmd.OutOrStdout())
	if err := renderer.WriteFile(path, data); err != nil {
		return err
	}
	if verbose && path != "-" {
		fmt.Fprintf(cmd.ErrOrStderr(), "✓ Wrote %s\n", path)
	}

	vr := p.Check(layer, g)
	if vr == nil || vr.Conforms {
		return nil
	}
	fmt.Fprint(cmd.ErrOrStderr(), vr.Report())
	return &validate.NonConformanceError{Layer: layer, Result: *vr}
}

func runRun(cmd *cobra.Command, args []string) error {
	ctx, cancel := context.WithTimeout(context.Background(), runTimeout)
	defer cancel()

	p, err := newPipeline()
	if err != nil {
		return err
	}

	res, runErr := p.RunFile(ctx, args[0])
	if res == nil {
		return runErr
	}

	renderer := pipeline.NewRenderer(cmd.OutOrStdout())
	paths, err := renderer.WriteLayers(res, outputDir, p.Format())
	if err != nil {
		return err
	}
	if verbose {
		for _, path := range paths {
			fmt.Fprintf(cmd.ErrOrStderr(), "✓ Wrote %s\n", path)
		}
	}
	if reportPath != "" {
		if err := renderer.WriteReport(res.Report, reportPath); err != nil {
			return err
		}
	}
	renderer.RenderSummary(res.Report)
	pipeline.NewRenderer(cmd.ErrOrStderr()).RenderChecks(res.Checks)
	return runErr
}

func runValidate(cmd *cobra.Command, args []string) error {
	g, err := readNTriples(args[0])
	if err != nil {
		return err
	}
	shapes, err := validate.Resolve(layerName, shapesPath)
	if err != nil {
		return err
	}

	res := validate.NewShapeChecker().Check(g, shapes)
	fmt.Fprint(cmd.OutOrStdout(), res.Report())
	if !res.Conforms {
		return &validate.NonConformanceError{Layer: shapes.Name, Result: res}
	}
	return nil
}

// readNTriples reads a graph file; only N-Triples can be read back
func readNTriples(path string) (*rdf.Graph, error) {
	if f, err := rdf.ParseFormat(strings.TrimPrefix(filepath.Ext(path), ".")); err == nil && f != rdf.FormatNTriples {
		return nil, fmt.Errorf("%s: %s graphs cannot be read back, write it with --format ntriples", path, f)
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer func() { _ = f.Close() }()
	return parseNTriples(f, path)
}

func parseNTriples(r io.Reader, name string) (*rdf.Graph, error) {
	g, err := rdf.ParseNTriples(r)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	return g, nil
}
