package pipeline

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/ppiankov/layergraph/internal/model"
	"github.com/ppiankov/layergraph/internal/rdf"
)

// Renderer writes pipeline output to files and a human summary to a writer
type Renderer struct {
	out io.Writer
}

// NewRenderer creates a renderer that prints summaries to out
func NewRenderer(out io.Writer) *Renderer {
	return &Renderer{out: out}
}

// WriteFile writes data to path, creating parent directories.
// A path of "-" writes to the summary writer instead.
func (r *Renderer) WriteFile(path string, data []byte) error {
	if path == "-" {
		_, err := r.out.Write(data)
		return err
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create output dir: %w", err)
		}
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

// LayerPaths returns "<dir>/<name>.da<ext>" and "<dir>/<name>.meaning<ext>"
func LayerPaths(dir, name string, format rdf.Format) (daPath, meaningPath string) {
	ext := rdf.FormatRegistry[format].Extension
	return filepath.Join(dir, name+"."+LayerDA+ext), filepath.Join(dir, name+"."+LayerMeaning+ext)
}

// WriteLayers writes both layers of res into dir and returns the paths written
func (r *Renderer) WriteLayers(res *Result, dir string, format rdf.Format) ([]string, error) {
	daPath, mPath := LayerPaths(dir, res.Name, format)
	if err := r.WriteFile(daPath, res.DA); err != nil {
		return nil, err
	}
	if err := r.WriteFile(mPath, res.Meaning); err != nil {
		return nil, err
	}
	return []string{daPath, mPath}, nil
}

// WriteReport writes the report as indented JSON
func (r *Renderer) WriteReport(report *model.Report, path string) error {
	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal report: %w", err)
	}
	return r.WriteFile(path, append(data, '\n'))
}

// RenderSummary prints a short per-document summary
func (r *Renderer) RenderSummary(report *model.Report) {
	w := r.out
	_, _ = fmt.Fprintf(w, "\n%s\n", report.Source)
	_, _ = fmt.Fprintf(w, "  document:     %s\n", report.Document)
	_, _ = fmt.Fprintf(w, "  spans:        %d\n", report.Spans)
	_, _ = fmt.Fprintf(w, "  blocks:       %d\n", report.Blocks)
	_, _ = fmt.Fprintf(w, "  observations: %d\n", report.Observations)
	_, _ = fmt.Fprintf(w, "  quantities:   %d (dropped %d)\n", report.Quantities, report.Dropped)
	_, _ = fmt.Fprintf(w, "  claims:       %d\n", report.Claims)
	_, _ = fmt.Fprintf(w, "  procedures:   %d (%d steps)\n", report.Procedures, report.Steps)
	_, _ = fmt.Fprintf(w, "  triples:      da=%d meaning=%d\n", report.Triples.DA, report.Triples.Meaning)
	for _, v := range report.Validation {
		status := "conforms"
		if !v.Conforms {
			status = fmt.Sprintf("FAILS (%d violations)", v.Violations)
		}
		_, _ = fmt.Fprintf(w, "  %-13s %s\n", v.Layer+":", status)
	}
	if report.Cached {
		_, _ = fmt.Fprintln(w, "  (from cache)")
	}
}

// RenderChecks prints the full validation report of every failing layer
func (r *Renderer) RenderChecks(checks []LayerCheck) {
	for _, c := range checks {
		if c.Result.Conforms {
			continue
		}
		_, _ = fmt.Fprintf(r.out, "\n[%s]\n%s", c.Layer, c.Result.Report())
	}
}
