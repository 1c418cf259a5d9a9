package pipeline

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/ppiankov/layergraph/internal/rdf"
	"github.com/ppiankov/layergraph/internal/spans"
)

// Source is one loaded input document
type Source struct {
	Path string
	Name string // Base name without extension, used for derived output files
	Raw  []byte // Exact bytes parsed, part of the cache key
	Repo *spans.Repository
}

// Loader reads span inputs from disk
type Loader struct {
	fallbackNS rdf.Namespace
}

// NewLoader creates a loader; fallbackNS types spans from inputs that name no namespace
func NewLoader(fallbackNS string) *Loader {
	return &Loader{fallbackNS: rdf.Namespace(fallbackNS)}
}

// Load reads and parses one input file
func (l *Loader) Load(path string) (*Source, error) {
	repo, raw, err := spans.LoadFile(path, l.fallbackNS)
	if err != nil {
		return nil, fmt.Errorf("load: %w", err)
	}
	return &Source{
		Path: path,
		Name: SourceName(path),
		Raw:  raw,
		Repo: repo,
	}, nil
}

// SourceName derives an output base name from an input path:
// "docs/manual.spans.yaml" -> "manual.spans"
func SourceName(path string) string {
	base := filepath.Base(path)
	if ext := filepath.Ext(base); ext != "" && len(ext) < len(base) {
		base = strings.TrimSuffix(base, ext)
	}
	if base == "" || base == "." || base == string(filepath.Separator) {
		return "document"
	}
	return base
}

// OutputNames maps each input path to an output name relative to the
// deepest directory all paths share, so "docs/a/manual.yaml" and
// "docs/b/manual.yaml" become "a/manual" and "b/manual". A path whose name
// is already taken by an earlier path (same stem, different extension) is
// left out of names and reported in clashes, keyed to the earlier path.
func OutputNames(paths []string) (names, clashes map[string]string) {
	names = make(map[string]string, len(paths))
	clashes = make(map[string]string)
	owners := make(map[string]string, len(paths))
	root := commonDir(paths)

	for _, p := range paths {
		name := SourceName(p)
		if rel, err := filepath.Rel(root, filepath.Clean(p)); err == nil && !strings.HasPrefix(rel, "..") {
			name = filepath.Join(filepath.Dir(rel), SourceName(rel))
		}
		if owner, taken := owners[name]; taken {
			clashes[p] = owner
			continue
		}
		owners[name] = p
		names[p] = name
	}
	return names, clashes
}

func commonDir(paths []string) string {
	sep := string(filepath.Separator)
	var common []string
	for i, p := range paths {
		parts := strings.Split(filepath.Dir(filepath.Clean(p)), sep)
		if i == 0 {
			common = parts
			continue
		}
		n := 0
		for n < len(common) && n < len(parts) && common[n] == parts[n] {
			n++
		}
		common = common[:n]
	}
	switch {
	case len(common) == 0:
		return "."
	case len(common) == 1 && common[0] == "":
		return sep
	}
	return strings.Join(common, sep)
}
