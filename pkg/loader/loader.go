// Package loader reads the line-oriented SUT text format into a model
// and writes models back out in canonical form.
//
// The grammar, one declaration per line:
//
//	<vertex>:[<succ1>,<succ2>,...]    outgoing edges of <vertex>
//	Constraint[<from> - <to> - <TYPE>]
//
// Blank lines and lines starting with '#' are skipped. The vertex named
// START (or Start) is the start vertex; a vertex declared with an empty
// successor list is an end vertex, as is any successor whose name
// begins with END or end.
package loader

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/cpt-tools/pathcov/pkg/model"
)

// LoadFile reads and parses a SUT file. I/O failures come back as
// *LoadError, grammar and validation failures as *ParseError.
func LoadFile(path string) (*model.SUT, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, &LoadError{Path: path, Err: err}
	}
	defer f.Close()
	return Parse(f, path)
}

// Parse reads the SUT grammar from r. name labels errors; it is usually
// the file path.
func Parse(r io.Reader, name string) (*model.SUT, error) {
	sut := model.NewSUT()
	scanner := bufio.NewScanner(r)

	// Constraints may reference vertices declared on later lines, so
	// their existence is validated after the scan.
	type pendingConstraint struct {
		c    model.Constraint
		line int
	}
	var pending []pendingConstraint

	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		if strings.HasPrefix(line, "Constraint") {
			c, err := parseConstraint(line, name, lineNo)
			if err != nil {
				return nil, err
			}
			pending = append(pending, pendingConstraint{c: c, line: lineNo})
			continue
		}

		if err := parseVertexLine(sut, line, name, lineNo); err != nil {
			return nil, err
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, &LoadError{Path: name, Err: err}
	}

	if _, ok := sut.Start(); !ok {
		return nil, &ParseError{File: name, Msg: "no start vertex (expected a START line)"}
	}
	if len(sut.Ends()) == 0 {
		return nil, &ParseError{File: name, Msg: "no end vertices"}
	}
	for _, pc := range pending {
		if !sut.Graph().HasVertex(pc.c.From) {
			return nil, &ParseError{File: name, Line: pc.line,
				Msg: fmt.Sprintf("constraint references unknown vertex %q", pc.c.From)}
		}
		if !sut.Graph().HasVertex(pc.c.To) {
			return nil, &ParseError{File: name, Line: pc.line,
				Msg: fmt.Sprintf("constraint references unknown vertex %q", pc.c.To)}
		}
		sut.AddConstraint(pc.c)
	}
	return sut, nil
}

func parseConstraint(line, file string, lineNo int) (model.Constraint, error) {
	lb, rb := strings.Index(line, "["), strings.Index(line, "]")
	if lb < 0 || rb <= lb {
		return model.Constraint{}, &ParseError{File: file, Line: lineNo,
			Msg: "malformed constraint: expected Constraint[from - to - TYPE]"}
	}
	tokens := strings.Split(line[lb+1:rb], "-")
	if len(tokens) != 3 {
		return model.Constraint{}, &ParseError{File: file, Line: lineNo,
			Msg: fmt.Sprintf("malformed constraint: expected 3 tokens, got %d", len(tokens))}
	}
	from := strings.TrimSpace(tokens[0])
	to := strings.TrimSpace(tokens[1])
	if from == "" || to == "" {
		return model.Constraint{}, &ParseError{File: file, Line: lineNo,
			Msg: "malformed constraint: empty vertex name"}
	}
	typ, err := model.ParseConstraintType(strings.TrimSpace(tokens[2]))
	if err != nil {
		return model.Constraint{}, &ParseError{File: file, Line: lineNo, Msg: err.Error()}
	}
	return model.Constraint{From: model.Vertex(from), To: model.Vertex(to), Type: typ}, nil
}

func parseVertexLine(sut *model.SUT, line, file string, lineNo int) error {
	parts := strings.SplitN(line, ":", 2)
	if len(parts) != 2 {
		return &ParseError{File: file, Line: lineNo, Msg: "missing ':' in vertex declaration"}
	}
	from := strings.TrimSpace(parts[0])
	if from == "" {
		return &ParseError{File: file, Line: lineNo, Msg: "empty vertex name"}
	}

	if from == "START" || from == "Start" {
		sut.SetStart(model.Vertex(from))
	}
	sut.AddVertex(model.Vertex(from))

	succList := strings.TrimSpace(parts[1])
	if !strings.HasPrefix(succList, "[") || !strings.HasSuffix(succList, "]") {
		return &ParseError{File: file, Line: lineNo,
			Msg: "successor list must be enclosed in brackets"}
	}
	inner := strings.TrimSpace(succList[1 : len(succList)-1])
	if inner == "" {
		// An empty successor list additionally marks the vertex as an
		// end.
		sut.AddEnd(model.Vertex(from))
		return nil
	}

	for _, tok := range strings.Split(inner, ",") {
		to := strings.TrimSpace(tok)
		if to == "" {
			return &ParseError{File: file, Line: lineNo, Msg: "empty successor name"}
		}
		if to == from {
			return &ParseError{File: file, Line: lineNo,
				Msg: fmt.Sprintf("self-loop on vertex %q", from)}
		}
		if strings.HasPrefix(to, "END") || strings.HasPrefix(to, "end") {
			sut.AddEnd(model.Vertex(to))
		}
		sut.AddVertex(model.Vertex(to))
		sut.AddEdge(model.Vertex(from), model.Vertex(to))
	}
	return nil
}
