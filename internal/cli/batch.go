package cli

import (
	"context"
	"fmt"
	"runtime"
	"time"

	"github.com/ppiankov/layergraph/internal/pipeline"
	"github.com/ppiankov/layergraph/internal/worker"
	"github.com/spf13/cobra"
)

var (
	concurrency  int
	patternsFrom string
	batchOutDir  string
	batchTimeout time.Duration
)

// batchCmd represents the batch command
var batchCmd = &cobra.Command{
	Use:   "batch [pattern...]",
	Short: "Build both layers for many span files in parallel",
	Long: `Batch runs the full pipeline over every file matched by the given glob
patterns (doublestar syntax, so ** crosses directories):
- Documents are processed concurrently with a bounded worker pool
- Each document writes <name>.da.<ext> and <name>.meaning.<ext>, where
  <name> keeps the input's directories below the deepest shared one
- Failing documents are reported and do not stop the batch

Example:
  layergraph batch 'parses/**/*.yaml' --output-dir out
  layergraph batch --from inputs.txt --concurrency 8 --timeout 5m`,
	RunE: runBatch,
}

func init() {
	rootCmd.AddCommand(batchCmd)

	batchCmd.Flags().IntVar(&concurrency, "concurrency", 0, "number of concurrent workers (default: concurrency.workers, else CPU count)")
	batchCmd.Flags().StringVar(&patternsFrom, "from", "", "read patterns from a file (one per line, # comments)")
	batchCmd.Flags().StringVar(&batchOutDir, "output-dir", "./layergraph-out", "output directory for layer files")
	batchCmd.Flags().DurationVar(&batchTimeout, "timeout", 10*time.Minute, "total timeout for batch processing")
}

func runBatch(cmd *cobra.Command, args []string) error {
	patterns := append([]string(nil), args...)
	if patternsFrom != "" {
		more, err := worker.ReadPatternsFromFile(patternsFrom)
		if err != nil {
			return err
		}
		patterns = append(patterns, more...)
	}
	if len(patterns) == 0 {
		return fmt.Errorf("no input patterns (pass patterns or --from)")
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	workers := concurrency
	if workers <= 0 {
		workers = cfg.Concurrency.Workers
	}
	if workers <= 0 {
		workers = runtime.NumCPU()
	}

	logger := newLogger(cfg)
	p, err := pipeline.NewPipeline(cfg, pipeline.WithLogger(logger))
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), batchTimeout)
	defer cancel()

	stderr := cmd.ErrOrStderr()
	fmt.Fprintf(stderr, "\n")
	fmt.Fprintf(stderr, "═══════════════════════════════════════════════════════════\n")
	fmt.Fprintf(stderr, "  Layergraph Batch\n")
	fmt.Fprintf(stderr, "═══════════════════════════════════════════════════════════\n")
	fmt.Fprintf(stderr, "\n")
	fmt.Fprintf(stderr, "  Patterns:     %d\n", len(patterns))
	fmt.Fprintf(stderr, "  Workers:      %d\n", workers)
	fmt.Fprintf(stderr, "  Output dir:   %s\n", batchOutDir)
	fmt.Fprintf(stderr, "  Format:       %s\n", p.Format())
	fmt.Fprintf(stderr, "  Timeout:      %v\n", batchTimeout)
	fmt.Fprintf(stderr, "\n")

	processor := worker.NewBatchProcessor(p, workers, logger)
	results, err := processor.ProcessPatterns(ctx, patterns)
	if err != nil {
		return fmt.Errorf("expand patterns: %w", err)
	}

	paths := make([]string, len(results))
	for i, r := range results {
		paths[i] = r.Path
	}
	names, clashes := pipeline.OutputNames(paths)

	renderer := pipeline.NewRenderer(cmd.OutOrStdout())
	var ok, nonConforming, failed int
	for _, r := range results {
		if r.Result == nil {
			failed++
			fmt.Fprintf(stderr, "✗ %s: %v\n", r.Path, r.Error)
			continue
		}
		if owner, clash := clashes[r.Path]; clash {
			failed++
			fmt.Fprintf(stderr, "✗ %s: output name already used by %s\n", r.Path, owner)
			continue
		}
		r.Result.Name = names[r.Path]
		if _, werr := renderer.WriteLayers(r.Result, batchOutDir, p.Format()); werr != nil {
			failed++
			fmt.Fprintf(stderr, "✗ %s: %v\n", r.Path, werr)
			continue
		}
		if r.Error != nil {
			nonConforming++
			fmt.Fprintf(stderr, "⚠ %s: %v\n", r.Path, r.Error)
			continue
		}
		ok++
		rep := r.Result.Report
		fmt.Fprintf(stderr, "✓ %s (%d blocks, %d claims, %d procedures, %v)\n",
			r.Path, rep.Blocks, rep.Claims, rep.Procedures, r.Duration.Round(time.Millisecond))
	}

	fmt.Fprintf(stderr, "\n")
	fmt.Fprintf(stderr, "═══════════════════════════════════════════════════════════\n")
	fmt.Fprintf(stderr, "  Batch Complete\n")
	fmt.Fprintf(stderr, "═══════════════════════════════════════════════════════════\n")
	fmt.Fprintf(stderr, "\n")
	if len(results) > 0 {
		fmt.Fprintf(stderr, "  Batch:          %s\n", results[0].BatchID)
	}
	fmt.Fprintf(stderr, "  Total:          %d documents\n", len(results))
	fmt.Fprintf(stderr, "  Conforming:     %d\n", ok)
	fmt.Fprintf(stderr, "  Non-conforming: %d\n", nonConforming)
	fmt.Fprintf(stderr, "  Failures:       %d\n", failed)
	fmt.Fprintf(stderr, "  Output:         %s\n", batchOutDir)
	fmt.Fprintf(stderr, "\n")

	switch {
	case failed > 0:
		return fmt.Errorf("%d of %d documents failed", failed, len(results))
	case nonConforming > 0:
		return errBatchNonConformance
	}
	return nil
}
