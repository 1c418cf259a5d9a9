package rdf

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// WriteNTriples writes one triple per line in insertion order
func WriteNTriples(w io.Writer, g *Graph) error {
	bw := bufio.NewWriter(w)
	for _, t := range g.triples {
		fmt.Fprintf(bw, "%s %s %s .\n", ntTerm(t.S), ntTerm(t.P), ntTerm(t.O))
	}
	return bw.Flush()
}

func ntTerm(t Term) string {
	switch t.Kind {
	case KindIRI:
		return "<" + t.Value + ">"
	case KindBlank:
		return "_:" + t.Value
	default:
		lit := `"` + escapeLiteral(t.Value) + `"`
		if t.Lang != "" {
			return lit + "@" + t.Lang
		}
		if t.Datatype != "" {
			return lit + "^^<" + t.Datatype + ">"
		}
		return lit
	}
}

// ParseNTriples reads an N-Triples document into a new graph.
// Blank lines and # comments are skipped.
func ParseNTriples(r io.Reader) (*Graph, error) {
	g := NewGraph()
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), 16*1024*1024)

	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		t, err := parseNTLine(line)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", lineNo, err)
		}
		g.Add(t.S, t.P, t.O)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scan: %w", err)
	}
	return g, nil
}

type ntLexer struct {
	s   string
	pos int
}

func parseNTLine(line string) (Triple, error) {
	lx := &ntLexer{s: line}
	s, err := lx.term()
	if err != nil {
		return Triple{}, fmt.Errorf("subject: %w", err)
	}
	if s.Kind == KindLiteral {
		return Triple{}, fmt.Errorf("subject: literal not allowed")
	}
	p, err := lx.term()
	if err != nil {
		return Triple{}, fmt.Errorf("predicate: %w", err)
	}
	if p.Kind != KindIRI {
		return Triple{}, fmt.Errorf("predicate: IRI required")
	}
	o, err := lx.term()
	if err != nil {
		return Triple{}, fmt.Errorf("object: %w", err)
	}
	lx.skipSpace()
	if lx.pos >= len(lx.s) || lx.s[lx.pos] != '.' {
		return Triple{}, fmt.Errorf("missing terminating '.'")
	}
	return Triple{S: s, P: p, O: o}, nil
}

func (lx *ntLexer) skipSpace() {
	for lx.pos < len(lx.s) && (lx.s[lx.pos] == ' ' || lx.s[lx.pos] == '\t') {
		lx.pos++
	}
}

func (lx *ntLexer) term() (Term, error) {
	lx.skipSpace()
	if lx.pos >= len(lx.s) {
		return Term{}, fmt.Errorf("unexpected end of line")
	}
	switch {
	case lx.s[lx.pos] == '<':
		v, err := lx.iri()
		if err != nil {
			return Term{}, err
		}
		return IRI(v), nil
	case strings.HasPrefix(lx.s[lx.pos:], "_:"):
		start := lx.pos + 2
		end := start
		for end < len(lx.s) && lx.s[end] != ' ' && lx.s[end] != '\t' {
			end++
		}
		lx.pos = end
		return Blank(lx.s[start:end]), nil
	case lx.s[lx.pos] == '"':
		return lx.literal()
	default:
		return Term{}, fmt.Errorf("unexpected character %q at column %d", lx.s[lx.pos], lx.pos+1)
	}
}

func (lx *ntLexer) iri() (string, error) {
	end := strings.IndexByte(lx.s[lx.pos+1:], '>')
	if end < 0 {
		return "", fmt.Errorf("unterminated IRI")
	}
	v := lx.s[lx.pos+1 : lx.pos+1+end]
	lx.pos += end + 2
	return v, nil
}

func (lx *ntLexer) literal() (Term, error) {
	var sb strings.Builder
	i := lx.pos + 1
	closed := false
	for i < len(lx.s) {
		c := lx.s[i]
		if c == '\\' && i+1 < len(lx.s) {
			switch lx.s[i+1] {
			case 'n':
				sb.WriteByte('\n')
			case 'r':
				sb.WriteByte('\r')
			case 't':
				sb.WriteByte('\t')
			case '"':
				sb.WriteByte('"')
			case '\\':
				sb.WriteByte('\\')
			case 'u', 'U':
				width := 4
				if lx.s[i+1] == 'U' {
					width = 8
				}
				if i+2+width > len(lx.s) {
					return Term{}, fmt.Errorf("truncated unicode escape")
				}
				code, err := strconv.ParseUint(lx.s[i+2:i+2+width], 16, 32)
				if err != nil {
					return Term{}, fmt.Errorf("unicode escape: %w", err)
				}
				sb.WriteRune(rune(code))
				i += 2 + width
				continue
			default:
				sb.WriteByte(lx.s[i+1])
			}
			i += 2
			continue
		}
		if c == '"' {
			closed = true
			i++
			break
		}
		sb.WriteByte(c)
		i++
	}
	if !closed {
		return Term{}, fmt.Errorf("unterminated literal")
	}
	lx.pos = i

	t := Term{Kind: KindLiteral, Value: sb.String()}
	switch {
	case strings.HasPrefix(lx.s[lx.pos:], "^^<"):
		lx.pos += 2
		dt, err := lx.iri()
		if err != nil {
			return Term{}, fmt.Errorf("datatype: %w", err)
		}
		t.Datatype = dt
	case strings.HasPrefix(lx.s[lx.pos:], "@"):
		start := lx.pos + 1
		end := start
		for end < len(lx.s) && lx.s[end] != ' ' && lx.s[end] != '\t' && lx.s[end] != '.' {
			end++
		}
		t.Lang = lx.s[start:end]
		lx.pos = end
	}
	return t, nil
}
