// Package analysis drives the generators over one SUT file or a
// directory batch and collects timed metric reports.
package analysis

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/cpt-tools/pathcov/pkg/generator"
	"github.com/cpt-tools/pathcov/pkg/loader"
	"github.com/cpt-tools/pathcov/pkg/metrics"
	"github.com/cpt-tools/pathcov/pkg/model"
)

// Result is one generator's output on one SUT.
type Result struct {
	Generator string         `json:"generator"`
	Paths     []model.Path   `json:"paths"`
	Report    metrics.Report `json:"report"`
}

// FileResult groups the three generator results for one SUT file, in
// report order: CPC, Filter, Edge.
type FileResult struct {
	Name    string     `json:"name"`
	SUT     *model.SUT `json:"-"`
	Results []Result   `json:"results"`
}

// RunSUT runs all three generators against sut and computes metrics.
func RunSUT(name string, sut *model.SUT) *FileResult {
	gens := []generator.Generator{
		generator.NewCPCGenerator(sut),
		generator.NewFilterGenerator(sut),
		generator.NewEdgeGenerator(sut),
	}
	fr := &FileResult{Name: name, SUT: sut}
	for _, g := range gens {
		start := time.Now()
		paths := g.Generate()
		elapsed := time.Since(start)
		fr.Results = append(fr.Results, Result{
			Generator: g.Name(),
			Paths:     paths,
			Report:    metrics.Compute(sut, paths, elapsed),
		})
	}
	return fr
}

// RunFile loads and analyzes a single SUT file.
func RunFile(path string) (*FileResult, error) {
	sut, err := loader.LoadFile(path)
	if err != nil {
		return nil, err
	}
	return RunSUT(filepath.Base(path), sut), nil
}

// RunDir analyzes every *.txt file in dir. A file that fails to load or
// parse is logged and skipped; the rest of the batch continues. The
// batch is tagged with a run ID for log correlation.
func RunDir(dir string) ([]*FileResult, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, &loader.LoadError{Path: dir, Err: err}
	}

	log := slog.With("runID", uuid.New().String())
	var results []*FileResult
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".txt") {
			continue
		}
		path := filepath.Join(dir, entry.Name())
		fr, err := RunFile(path)
		if err != nil {
			log.Error("skipping SUT file", "file", path, "err", err)
			continue
		}
		log.Debug("analyzed SUT file", "file", path)
		results = append(results, fr)
	}
	if len(results) == 0 {
		return nil, fmt.Errorf("no loadable .txt file in %s", dir)
	}
	log.Info("batch complete", "cases", len(results))
	return results, nil
}

// Summary aggregates one generator's reports across a batch.
type Summary struct {
	Generator     string  `json:"generator"`
	ValidRate     float64 `json:"validRate"`
	AvgSize       float64 `json:"avgSize"`
	AvgTotalEdges float64 `json:"avgTotalEdges"`
	AvgStdDev     float64 `json:"avgStdDev"`
	AvgEfficiency float64 `json:"avgEfficiency"`
	AvgCoverage   float64 `json:"avgCoverage"`
	AvgTimeMS     float64 `json:"avgTimeMs"`
}

// Summarize computes per-generator batch aggregates, preserving the
// CPC/Filter/Edge report order.
func Summarize(results []*FileResult) []Summary {
	if len(results) == 0 {
		return nil
	}
	n := float64(len(results))
	summaries := make([]Summary, len(results[0].Results))
	for i := range summaries {
		summaries[i].Generator = results[0].Results[i].Generator
	}
	for _, fr := range results {
		for i, r := range fr.Results {
			s := &summaries[i]
			if r.Report.Valid > 0 {
				s.ValidRate++
			}
			s.AvgSize += float64(r.Report.Size)
			s.AvgTotalEdges += float64(r.Report.TotalEdges)
			s.AvgStdDev += r.Report.LengthStdDev
			s.AvgEfficiency += r.Report.EdgeEfficiency
			s.AvgCoverage += r.Report.EdgeCoverage
			s.AvgTimeMS += r.Report.TimeMS
		}
	}
	for i := range summaries {
		s := &summaries[i]
		s.ValidRate /= n
		s.AvgSize /= n
		s.AvgTotalEdges /= n
		s.AvgStdDev /= n
		s.AvgEfficiency /= n
		s.AvgCoverage /= n
		s.AvgTimeMS /= n
	}
	return summaries
}
