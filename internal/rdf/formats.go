package rdf

import (
	"fmt"
	"io"
	"sort"
	"strings"
)

// Format specifies the output serialization format.
type Format string

const (
	// FormatTurtle produces Turtle (.ttl) output.
	FormatTurtle Format = "turtle"

	// FormatNTriples produces N-Triples (.nt) output.
	FormatNTriples Format = "ntriples"

	// FormatJSON produces a flat JSON triple list (.json).
	FormatJSON Format = "json"
)

// FormatInfo provides metadata about an export format.
type FormatInfo struct {
	Name        Format
	MIMEType    string
	Extension   string
	Description string
}

// FormatRegistry contains metadata for all supported formats.
var FormatRegistry = map[Format]FormatInfo{
	FormatTurtle: {
		Name:        FormatTurtle,
		MIMEType:    "text/turtle",
		Extension:   ".ttl",
		Description: "Turtle - Terse RDF Triple Language",
	},
	FormatNTriples: {
		Name:        FormatNTriples,
		MIMEType:    "application/n-triples",
		Extension:   ".nt",
		Description: "N-Triples - Line-based RDF format",
	},
	FormatJSON: {
		Name:        FormatJSON,
		MIMEType:    "application/json",
		Extension:   ".json",
		Description: "JSON - prefixes plus ordered triple list",
	},
}

// ParseFormat resolves a format name or file extension
func ParseFormat(s string) (Format, error) {
	key := strings.ToLower(strings.TrimSpace(s))
	for name, info := range FormatRegistry {
		if key == string(name) || key == info.Extension || "."+key == info.Extension {
			return name, nil
		}
	}
	switch key {
	case "ttl":
		return FormatTurtle, nil
	case "nt", "n-triples":
		return FormatNTriples, nil
	}
	return "", fmt.Errorf("unsupported format: %q (supported: %s)", s, strings.Join(FormatNames(), ", "))
}

// FormatNames returns the supported format names, sorted
func FormatNames() []string {
	names := make([]string, 0, len(FormatRegistry))
	for name := range FormatRegistry {
		names = append(names, string(name))
	}
	sort.Strings(names)
	return names
}

// Write serializes the graph in the given format
func Write(w io.Writer, g *Graph, format Format) error {
	switch format {
	case FormatTurtle:
		return WriteTurtle(w, g)
	case FormatNTriples:
		return WriteNTriples(w, g)
	case FormatJSON:
		return WriteJSON(w, g)
	default:
		return fmt.Errorf("unsupported format: %s", format)
	}
}

// Serialize returns the graph serialized in the given format
func Serialize(g *Graph, format Format) ([]byte, error) {
	var sb strings.Builder
	if err := Write(&sb, g, format); err != nil {
		return nil, err
	}
	return []byte(sb.String()), nil
}

// escapeLiteral escapes a literal body for Turtle and N-Triples
func escapeLiteral(s string) string {
	var sb strings.Builder
	for _, r := range s {
		switch r {
		case '\\':
			sb.WriteString(`\\`)
		case '"':
			sb.WriteString(`\"`)
		case '\n':
			sb.WriteString(`\n`)
		case '\r':
			sb.WriteString(`\r`)
		case '\t':
			sb.WriteString(`\t`)
		default:
			sb.WriteRune(r)
		}
	}
	return sb.String()
}
