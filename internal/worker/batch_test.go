package worker

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/ppiankov/layergraph/internal/model"
	"github.com/ppiankov/layergraph/internal/pipeline"
)

// mockRunner implements Runner
type mockRunner struct {
	failOn string
}

func (m *mockRunner) RunFile(ctx context.Context, path string) (*pipeline.Result, error) {
	// Later paths finish first to exercise ordering
	time.Sleep(time.Duration(10-len(path)%10) * time.Millisecond)
	if m.failOn != "" && strings.Contains(path, m.failOn) {
		return nil, errors.New("run error")
	}
	return &pipeline.Result{
		Source: path,
		Report: &model.Report{Source: path},
	}, nil
}

func TestBatchProcessor_ProcessPaths(t *testing.T) {
	processor := NewBatchProcessor(&mockRunner{failOn: "bad"}, 3, nil)

	paths := []string{"a.yaml", "bb.yaml", "bad.yaml", "dddd.yaml", "e.nt"}
	results := processor.ProcessPaths(context.Background(), paths)

	if len(results) != len(paths) {
		t.Fatalf("expected %d results, got %d", len(paths), len(results))
	}
	for i, res := range results {
		if res.Path != paths[i] {
			t.Errorf("result %d: expected path %s, got %s", i, paths[i], res.Path)
		}
		if res.Path == "bad.yaml" {
			if res.Error == nil {
				t.Error("expected error for bad.yaml")
			}
			continue
		}
		if res.Error != nil {
			t.Errorf("unexpected error for %s: %v", res.Path, res.Error)
		}
		if res.Result == nil || res.Result.Report.Source != res.Path {
			t.Errorf("missing report for %s", res.Path)
		}
	}
}

func TestBatchProcessor_BatchID(t *testing.T) {
	processor := NewBatchProcessor(&mockRunner{failOn: "bad"}, 2, nil)

	first := processor.ProcessPaths(context.Background(), []string{"a.yaml", "bad.yaml", "c.yaml"})
	id := first[0].BatchID
	if _, err := uuid.Parse(id); err != nil {
		t.Fatalf("batch id %q is not a uuid: %v", id, err)
	}
	for _, res := range first {
		if res.BatchID != id {
			t.Errorf("%s: expected batch id %s, got %s", res.Path, id, res.BatchID)
		}
	}

	second := processor.ProcessPaths(context.Background(), []string{"a.yaml"})
	if second[0].BatchID == id {
		t.Error("expected a new batch id for a second batch")
	}
}

func TestBatchProcessor_Empty(t *testing.T) {
	processor := NewBatchProcessor(&mockRunner{}, 2, nil)
	if results := processor.ProcessPaths(context.Background(), nil); len(results) != 0 {
		t.Errorf("expected no results, got %d", len(results))
	}
}

func TestBatchProcessor_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	processor := NewBatchProcessor(&mockRunner{}, 2, nil)
	results := processor.ProcessPaths(ctx, []string{"a.yaml", "b.yaml"})
	if len(results) != 2 {
		t.Fatalf("expected 2 results, got %d", len(results))
	}
	for _, res := range results {
		if !errors.Is(res.Error, context.Canceled) {
			t.Errorf("expected context.Canceled for %s, got %v", res.Path, res.Error)
		}
	}
}

func TestExpandPatterns(t *testing.T) {
	dir := t.TempDir()
	files := []string{"a.yaml", "b.yaml", "sub/c.yaml", "sub/deep/d.yaml", "notes.txt"}
	for _, f := range files {
		path := filepath.Join(dir, f)
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(path, []byte("spans: []\n"), 0o644); err != nil {
			t.Fatal(err)
		}
	}

	got, err := ExpandPatterns([]string{
		filepath.Join(dir, "**", "*.yaml"),
		filepath.Join(dir, "a.yaml"),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []string{
		filepath.Join(dir, "a.yaml"),
		filepath.Join(dir, "b.yaml"),
		filepath.Join(dir, "sub", "c.yaml"),
		filepath.Join(dir, "sub", "deep", "d.yaml"),
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("expected %v, got %v", want, got)
	}

	if _, err := ExpandPatterns([]string{filepath.Join(dir, "missing.yaml")}); err == nil {
		t.Error("expected error for a missing literal path")
	}

	none, err := ExpandPatterns([]string{filepath.Join(dir, "*.nt")})
	if err != nil || len(none) != 0 {
		t.Errorf("expected no matches and no error, got %v, %v", none, err)
	}
}

func TestReadPatternsFromFile(t *testing.T) {
	content := `
# comment
docs/*.yaml

docs/*.yaml
other/**/*.nt
`
	tmpfile, err := os.CreateTemp(t.TempDir(), "patterns*.txt")
	if err != nil {
		t.Fatal(err)
	}
	if _, err := tmpfile.WriteString(content); err != nil {
		t.Fatal(err)
	}
	_ = tmpfile.Close()

	patterns, err := ReadPatternsFromFile(tmpfile.Name())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []string{"docs/*.yaml", "other/**/*.nt"}
	if !reflect.DeepEqual(patterns, want) {
		t.Errorf("expected %v, got %v", want, patterns)
	}

	if _, err := ReadPatternsFromFile(filepath.Join(t.TempDir(), "missing.txt")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestBatchProcessor_RealPipeline(t *testing.T) {
	cfg := model.DefaultConfig()
	cfg.Cache.Enabled = false
	p, err := pipeline.NewPipeline(cfg)
	if err != nil {
		t.Fatal(err)
	}

	dir := t.TempDir()
	doc := `document: http://x/doc
spans:
  - id: http://x/s1
    text: "Caution: sharp edges"
    page: 0
    bbox: [0, 0, 100, 10]
`
	for _, name := range []string{"one.yaml", "two.yaml"} {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(doc), 0o644); err != nil {
			t.Fatal(err)
		}
	}

	results, err := NewBatchProcessor(p, 2, nil).ProcessPatterns(context.Background(), []string{filepath.Join(dir, "*.yaml")})
	if err != nil {
		t.Fatal(err)
	}
	if len(results) != 2 {
		t.Fatalf("expected 2 results, got %d", len(results))
	}
	for _, r := range results {
		if r.Error != nil {
			t.Fatalf("%s: %v", r.Path, r.Error)
		}
	}
	if string(results[0].Result.DA) != string(results[1].Result.DA) {
		t.Error("identical inputs should serialize identically")
	}
	if results[0].Result.Name != "one" || results[1].Result.Name != "two" {
		t.Errorf("unexpected names %s, %s", results[0].Result.Name, results[1].Result.Name)
	}
}
