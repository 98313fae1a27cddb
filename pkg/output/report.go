// Package output renders analysis results: colorized console reports
// and the per-case metrics CSV.
package output

import (
	"fmt"
	"io"

	"github.com/fatih/color"

	"github.com/cpt-tools/pathcov/pkg/analysis"
	"github.com/cpt-tools/pathcov/pkg/model"
)

// Printer writes console reports. Writes go to a single writer so the
// -log tee captures everything.
type Printer struct {
	w        io.Writer
	showPath bool
}

// NewPrinter creates a report printer. showPath enables path dumps.
func NewPrinter(w io.Writer, showPath bool) *Printer {
	return &Printer{w: w, showPath: showPath}
}

// PrintSUTInfo prints the SUT summary block.
func (p *Printer) PrintSUTInfo(sut *model.SUT) {
	p.header("SUT Info")
	fmt.Fprintln(p.w, sut)
	fmt.Fprintln(p.w)
}

// PrintResult prints one generator's metric block, with paths first if
// enabled.
func (p *Printer) PrintResult(r analysis.Result) {
	p.header(r.Generator + " Result")
	if p.showPath {
		fmt.Fprintln(p.w, "Path:")
		for _, path := range r.Paths {
			fmt.Fprintf(p.w, "  %s\n", path)
		}
		fmt.Fprintln(p.w)
	}
	m := r.Report
	if m.Valid > 0 {
		color.New(color.FgGreen).Fprintf(p.w, "valid(T) = %d\n", m.Valid)
	} else {
		color.New(color.FgRed).Fprintf(p.w, "valid(T) = %d\n", m.Valid)
	}
	fmt.Fprintf(p.w, "|T| = %d\n", m.Size)
	fmt.Fprintf(p.w, "l(T) = %d\n", m.TotalEdges)
	fmt.Fprintf(p.w, "u_edges(T) = %d\n", m.UniqueEdges)
	fmt.Fprintf(p.w, "avg(|t|) = %g\n", m.AverageLength)
	fmt.Fprintf(p.w, "s(T) = %g\n", m.LengthStdDev)
	fmt.Fprintf(p.w, "eff_edges(T) = %g\n", m.EdgeEfficiency)
	fmt.Fprintf(p.w, "cov_cp_positive(T) = %g\n", m.CovPositive)
	fmt.Fprintf(p.w, "cov_cp_once(T) = %g\n", m.CovOnce)
	// Violation rate: lower is better.
	fmt.Fprintf(p.w, "cov_cp_negative(T) = %g\n", m.CovNegative)
	fmt.Fprintf(p.w, "cov_cp_only-once(T) = %g\n", m.CovMaxOnce)
	fmt.Fprintf(p.w, "edge_cov(T) = %g\n", m.EdgeCoverage)
	fmt.Fprintf(p.w, "t[ms] = %g\n", m.TimeMS)
	fmt.Fprintln(p.w)
}

// PrintBatch prints per-file path dumps (if enabled) and the aggregate
// block for one generator across a batch.
func (p *Printer) PrintBatch(results []*analysis.FileResult, genIndex int, summary analysis.Summary) {
	p.header(summary.Generator + " Result")
	if p.showPath {
		for _, fr := range results {
			fmt.Fprintf(p.w, "===== %s =====\n", fr.Name)
			for _, path := range fr.Results[genIndex].Paths {
				fmt.Fprintf(p.w, "  %s\n", path)
			}
			fmt.Fprintln(p.w)
		}
	}
	fmt.Fprintf(p.w, "Valid rate = %g\n", summary.ValidRate)
	fmt.Fprintf(p.w, "Avg |T| = %g\n", summary.AvgSize)
	fmt.Fprintf(p.w, "Avg l(T) = %g\n", summary.AvgTotalEdges)
	fmt.Fprintf(p.w, "Avg s(T) = %g\n", summary.AvgStdDev)
	fmt.Fprintf(p.w, "Avg eff_edges(T) = %g\n", summary.AvgEfficiency)
	fmt.Fprintf(p.w, "Avg edge_cov(T) = %g\n", summary.AvgCoverage)
	fmt.Fprintf(p.w, "Avg t[ms] = %g\n", summary.AvgTimeMS)
	fmt.Fprintln(p.w)
}

func (p *Printer) header(title string) {
	color.New(color.Bold).Fprintf(p.w, "===== %s =====\n", title)
}
