package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/spf13/pflag"

	"github.com/cpt-tools/pathcov/pkg/analysis"
	"github.com/cpt-tools/pathcov/pkg/config"
	"github.com/cpt-tools/pathcov/pkg/loader"
	"github.com/cpt-tools/pathcov/pkg/logging"
	"github.com/cpt-tools/pathcov/pkg/output"
	"github.com/cpt-tools/pathcov/pkg/pubsub"
	"github.com/cpt-tools/pathcov/pkg/viz"
	"github.com/cpt-tools/pathcov/pkg/watcher"
	"github.com/cpt-tools/pathcov/pkg/web"
)

func main() {
	flags := pflag.NewFlagSet("pathcov", pflag.ExitOnError)
	flags.String("file", "", "path to a single SUT file")
	flags.String("dir", "", "directory of SUT *.txt files (batch mode)")
	flags.String("log", "", "copy stdout and log output to this file (stderr is not copied)")
	flags.Bool("showpath", false, "dump generated test paths")
	flags.String("todot", "", "export the SUT graph as DOT to this path")
	flags.String("topng", "", "render the SUT graph as PNG to this path")
	flags.String("csv", "", "write per-case metrics CSV (batch mode)")
	flags.Bool("web", false, "serve results over HTTP")
	flags.Int("port", 8080, "web server port")
	flags.Bool("watch", false, "re-run analysis when SUT files change (with -web and -dir)")
	flags.Bool("verbose", false, "enable debug logging")
	if err := flags.Parse(normalizeArgs(os.Args[1:])); err != nil {
		os.Exit(1)
	}

	cfg, err := config.Load(flags)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	var out io.Writer = os.Stdout
	if cfg.Log != "" {
		logFile, err := os.Create(cfg.Log)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: cannot create log file: %v\n", err)
			os.Exit(1)
		}
		defer logFile.Close()
		out = io.MultiWriter(os.Stdout, logFile)
	}
	logging.Setup(out, cfg.Verbose)

	printer := output.NewPrinter(out, cfg.ShowPath)

	switch {
	case cfg.Web:
		runWeb(cfg)
	case cfg.BatchMode():
		os.Exit(runBatch(cfg, printer, out))
	case cfg.File != "":
		os.Exit(runFile(cfg, printer, out))
	default:
		fmt.Fprintln(os.Stderr, "Error: either -file or -dir is required")
		flags.Usage()
		os.Exit(1)
	}
}

// normalizeArgs accepts the legacy single-dash flag spelling
// (-file x) alongside the GNU style (--file x). No shorthand flags are
// defined, so multi-character single-dash tokens are unambiguous.
func normalizeArgs(args []string) []string {
	out := make([]string, 0, len(args))
	for _, a := range args {
		if len(a) > 2 && a[0] == '-' && a[1] != '-' {
			a = "-" + a
		}
		out = append(out, a)
	}
	return out
}

// runFile analyzes a single SUT file. Exit code 1 for load failures, 2
// for parse/validation failures.
func runFile(cfg *config.Config, printer *output.Printer, out io.Writer) int {
	sut, err := loader.LoadFile(cfg.File)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		var parseErr *loader.ParseError
		if errors.As(err, &parseErr) {
			return 2
		}
		return 1
	}

	printer.PrintSUTInfo(sut)
	fr := analysis.RunSUT(cfg.File, sut)
	for _, r := range fr.Results {
		printer.PrintResult(r)
	}

	if cfg.ToDot != "" || cfg.ToPNG != "" {
		dotPath := cfg.ToDot
		if dotPath == "" {
			dotPath = "./temp.dot"
		}
		if err := viz.WriteDOTFile(dotPath, sut); err != nil {
			slog.Error("DOT export failed", "err", err)
			return 1
		}
		if cfg.ToPNG != "" {
			if err := viz.RenderPNG(dotPath, cfg.ToPNG); err != nil {
				slog.Error("PNG rendering failed", "err", err)
				return 1
			}
		}
	}
	return 0
}

// runBatch analyzes every *.txt file in the configured directory.
func runBatch(cfg *config.Config, printer *output.Printer, out io.Writer) int {
	results, err := analysis.RunDir(cfg.Dir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}

	fmt.Fprintf(out, "Number of cases: %d\n", len(results))
	for i, summary := range analysis.Summarize(results) {
		printer.PrintBatch(results, i, summary)
	}

	if cfg.CSV != "" {
		csvFile, err := os.Create(cfg.CSV)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: cannot create CSV file: %v\n", err)
			return 1
		}
		defer csvFile.Close()
		if err := output.WriteCSV(csvFile, results); err != nil {
			fmt.Fprintf(os.Stderr, "Error: writing CSV: %v\n", err)
			return 1
		}
		slog.Info("wrote metrics CSV", "path", cfg.CSV)
	}
	return 0
}

// runWeb serves results over HTTP, re-running the analysis on file
// changes when -watch is set together with -dir; in single-file mode
// -watch has no effect.
func runWeb(cfg *config.Config) {
	server := web.NewServer()
	go func() {
		if err := server.Start(cfg.Port); err != nil {
			slog.Error("web server failed", "err", err)
			os.Exit(1)
		}
	}()

	analyze := func() {
		server.PublishStatus(pubsub.BatchStatus{State: "loading", Message: "loading SUT files"})
		var results []*analysis.FileResult
		var err error
		if cfg.BatchMode() {
			results, err = analysis.RunDir(cfg.Dir)
		} else {
			var fr *analysis.FileResult
			fr, err = analysis.RunFile(cfg.File)
			if fr != nil {
				results = []*analysis.FileResult{fr}
			}
		}
		if err != nil {
			slog.Error("analysis failed", "err", err)
			server.PublishStatus(pubsub.BatchStatus{State: "failed", Message: err.Error()})
			return
		}
		server.SetResults(results)
		server.PublishStatus(pubsub.BatchStatus{
			State: "complete", Message: "analysis complete", Cases: len(results),
		})
	}
	analyze()

	if cfg.Watch && cfg.BatchMode() {
		ctx := context.Background()
		fw, err := watcher.NewFileWatcher(cfg.Dir)
		if err != nil {
			slog.Error("cannot create watcher", "err", err)
			os.Exit(1)
		}
		if err := fw.Start(ctx); err != nil {
			slog.Error("cannot start watcher", "err", err)
			os.Exit(1)
		}
		debouncer := watcher.NewDebouncer(fw.Events(), 500*time.Millisecond, 5*time.Second)
		debouncer.Start(ctx)
		go func() {
			for range debouncer.Output() {
				slog.Info("SUT files changed, re-running analysis")
				analyze()
			}
		}()
	}

	select {}
}
