package worker

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/google/uuid"
	"github.com/ppiankov/layergraph/internal/pipeline"
)

// Runner runs the pipeline over one input file
type Runner interface {
	RunFile(ctx context.Context, path string) (*pipeline.Result, error)
}

// DocumentJob runs one input file
type DocumentJob struct {
	Path   string
	Runner Runner
}

// Execute runs the document through the pipeline
func (j *DocumentJob) Execute(ctx context.Context) Result {
	start := time.Now()
	res, err := j.Runner.RunFile(ctx, j.Path)
	return &DocumentResult{
		Path:     j.Path,
		Result:   res,
		Error:    err,
		Duration: time.Since(start),
	}
}

// DocumentResult is the outcome of one document. Result may be set even
// when Error is, for output that failed validation.
type DocumentResult struct {
	BatchID  string // Shared by every document of one ProcessPaths call
	Path     string
	Result   *pipeline.Result
	Error    error
	Duration time.Duration
}

// GetError returns the error from the document run
func (r *DocumentResult) GetError() error {
	return r.Error
}

// BatchProcessor runs many independent documents concurrently
type BatchProcessor struct {
	runner      Runner
	concurrency int
	logger      *slog.Logger
}

// NewBatchProcessor creates a batch processor; a nil logger discards logs
func NewBatchProcessor(runner Runner, concurrency int, logger *slog.Logger) *BatchProcessor {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &BatchProcessor{
		runner:      runner,
		concurrency: concurrency,
		logger:      logger,
	}
}

// ProcessPaths runs every path and returns results in input order
func (b *BatchProcessor) ProcessPaths(ctx context.Context, paths []string) []*DocumentResult {
	if len(paths) == 0 {
		return []*DocumentResult{}
	}

	batchID := uuid.NewString()
	log := b.logger.With("batch", batchID)
	log.Info("batch started", "documents", len(paths), "workers", b.concurrency)

	pool := NewPool(ctx, b.concurrency)
	pool.Start()
	for _, path := range paths {
		pool.Submit(&DocumentJob{Path: path, Runner: b.runner})
	}
	results := pool.Wait()

	out := make([]*DocumentResult, len(paths))
	failed := 0
	for i := range paths {
		var dr *DocumentResult
		if i < len(results) {
			dr, _ = results[i].(*DocumentResult)
		}
		if dr == nil {
			err := ctx.Err()
			if err == nil {
				err = fmt.Errorf("not processed")
			}
			dr = &DocumentResult{Path: paths[i], Error: err}
		}
		dr.BatchID = batchID
		if dr.Error != nil {
			failed++
			log.Warn("document failed", "path", dr.Path, "error", dr.Error)
		} else {
			log.Debug("document done", "path", dr.Path, "duration", dr.Duration)
		}
		out[i] = dr
	}
	log.Info("batch finished", "documents", len(paths), "failed", failed)
	return out
}

// ProcessPatterns expands glob patterns and runs every match
func (b *BatchProcessor) ProcessPatterns(ctx context.Context, patterns []string) ([]*DocumentResult, error) {
	paths, err := ExpandPatterns(patterns)
	if err != nil {
		return nil, err
	}
	return b.ProcessPaths(ctx, paths), nil
}

// ExpandPatterns expands doublestar patterns ("docs/**/*.yaml") into file
// paths. Matches keep pattern order, each pattern's matches are sorted, and
// duplicates are dropped. A pattern without glob syntax must name an existing file.
func ExpandPatterns(patterns []string) ([]string, error) {
	var out []string
	seen := make(map[string]bool)
	for _, pattern := range patterns {
		pattern = filepath.Clean(pattern)
		matches, err := doublestar.FilepathGlob(pattern, doublestar.WithFilesOnly())
		if err != nil {
			return nil, fmt.Errorf("expand %q: %w", pattern, err)
		}
		if len(matches) == 0 && !hasMeta(pattern) {
			return nil, fmt.Errorf("no such file: %s", pattern)
		}
		sort.Strings(matches)
		for _, m := range matches {
			if !seen[m] {
				seen[m] = true
				out = append(out, m)
			}
		}
	}
	return out, nil
}

func hasMeta(pattern string) bool {
	return strings.ContainsAny(pattern, "*?[{")
}

// ReadPatternsFromFile reads one pattern per line, skipping blanks and # comments
func ReadPatternsFromFile(filePath string) ([]string, error) {
	file, err := os.Open(filePath)
	if err != nil {
		return nil, fmt.Errorf("open file: %w", err)
	}
	defer func() { _ = file.Close() }()

	var patterns []string
	seen := make(map[string]bool)

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if !seen[line] {
			seen[line] = true
			patterns = append(patterns, line)
		}
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scan file: %w", err)
	}

	return patterns, nil
}
