package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/brewin-lang/brewin/brewin"
	"github.com/charmbracelet/lipgloss"
	"github.com/google/go-cmp/cmp"
	"golang.org/x/sync/errgroup"
	"gopkg.in/yaml.v3"
)

// conformSuite is the layout of one YAML case file.
type conformSuite struct {
	Cases []conformCase `yaml:"cases"`
}

type conformCase struct {
	Name   string        `yaml:"name"`
	Source string        `yaml:"source"`
	File   string        `yaml:"file"`
	Input  []string      `yaml:"input"`
	Output []string      `yaml:"output"`
	Error  *conformError `yaml:"error"`

	suite string
}

type conformError struct {
	Kind string `yaml:"kind"`
	Line int    `yaml:"line"`
}

type conformResult struct {
	Case     conformCase
	Passed   bool
	Detail   string
	Duration time.Duration
}

var (
	passStyle    = lipgloss.NewStyle().Foreground(successColor).Bold(true)
	failStyle    = lipgloss.NewStyle().Foreground(errorColor).Bold(true)
	summaryStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(accentColor).
			Padding(0, 1)
)

func conformCommand(args []string) error {
	fs := flag.NewFlagSet("conform", flag.ContinueOnError)
	fs.SetOutput(new(flagErrorSink))
	jobs := fs.Int("j", runtime.NumCPU(), "number of cases to run concurrently")
	verbose := fs.Bool("v", false, "report passing cases as well as failures")
	var only stringList
	fs.Var(&only, "only", "run only the named case (repeatable)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if len(fs.Args()) == 0 {
		return errors.New("brewin conform: case file or directory required")
	}

	files, err := collectSourceFiles(fs.Args(), ".yaml", ".yml")
	if err != nil {
		return err
	}
	cases, err := loadConformCases(files)
	if err != nil {
		return err
	}
	if len(only) > 0 {
		cases = filterCases(cases, only)
	}

	results, err := runConformCases(cases, *jobs)
	if err != nil {
		return err
	}
	failed := writeConformReport(os.Stdout, results, *verbose)
	if failed > 0 {
		return fmt.Errorf("brewin conform: %d of %d case(s) failed", failed, len(results))
	}
	return nil
}

func loadConformCases(files []string) ([]conformCase, error) {
	var cases []conformCase
	for _, path := range files {
		f, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("open %s: %w", path, err)
		}
		var suite conformSuite
		dec := yaml.NewDecoder(f)
		dec.KnownFields(true)
		err = dec.Decode(&suite)
		f.Close()
		if err != nil && !errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("decode %s: %w", path, err)
		}
		for i, c := range suite.Cases {
			if c.Name == "" {
				c.Name = fmt.Sprintf("case %d", i+1)
			}
			c.suite = path
			if c.File != "" {
				if c.Source != "" {
					return nil, fmt.Errorf("%s: case %q sets both source and file", path, c.Name)
				}
				data, err := os.ReadFile(filepath.Join(filepath.Dir(path), c.File))
				if err != nil {
					return nil, fmt.Errorf("%s: case %q: %w", path, c.Name, err)
				}
				c.Source = string(data)
			}
			if c.Error != nil {
				if _, ok := brewin.ParseErrorKind(c.Error.Kind); !ok {
					return nil, fmt.Errorf("%s: case %q: unknown error kind %q", path, c.Name, c.Error.Kind)
				}
			}
			cases = append(cases, c)
		}
	}
	return cases, nil
}

func filterCases(cases []conformCase, names []string) []conformCase {
	keep := make(map[string]struct{}, len(names))
	for _, name := range names {
		keep[name] = struct{}{}
	}
	out := cases[:0]
	for _, c := range cases {
		if _, ok := keep[c.Name]; ok {
			out = append(out, c)
		}
	}
	return out
}

// runConformCases runs every case on its own engine, at most jobs at a time.
// Results keep the order of cases.
func runConformCases(cases []conformCase, jobs int) ([]conformResult, error) {
	if jobs < 1 {
		jobs = 1
	}
	results := make([]conformResult, len(cases))
	var g errgroup.Group
	g.SetLimit(jobs)
	for i, c := range cases {
		i, c := i, c
		g.Go(func() error {
			results[i] = runConformCase(c)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

func runConformCase(c conformCase) conformResult {
	started := time.Now()
	var stdout strings.Builder
	logger, _ := newLogger(io.Discard, "error")
	engine := brewin.NewEngine(brewin.Config{
		Stdin:  strings.NewReader(strings.Join(c.Input, "\n")),
		Stdout: &stdout,
		Logger: logger,
	})
	runErr := engine.Execute(c.Source)
	result := conformResult{Case: c, Duration: time.Since(started)}

	var problems []string
	got := outputLines(stdout.String())
	want := c.Output
	if want == nil {
		want = []string{}
	}
	if diff := cmp.Diff(want, got); diff != "" {
		problems = append(problems, "output mismatch (-want +got):\n"+diff)
	}
	problems = append(problems, checkConformError(c.Error, runErr)...)

	result.Passed = len(problems) == 0
	result.Detail = strings.Join(problems, "\n")
	return result
}

func checkConformError(want *conformError, err error) []string {
	if want == nil {
		if err != nil {
			return []string{"unexpected error: " + err.Error()}
		}
		return nil
	}
	kind, _ := brewin.ParseErrorKind(want.Kind)
	if err == nil {
		return []string{fmt.Sprintf("expected %s, program completed", kind)}
	}
	var be *brewin.Error
	if !errors.As(err, &be) {
		return []string{"unexpected host error: " + err.Error()}
	}
	var problems []string
	if be.Kind != kind {
		problems = append(problems, fmt.Sprintf("expected %s, got %s: %s", kind, be.Kind, be.Message))
	}
	if want.Line > 0 && be.Line() != want.Line {
		problems = append(problems, fmt.Sprintf("expected error on line %d, got line %d", want.Line, be.Line()))
	}
	return problems
}

func outputLines(s string) []string {
	s = strings.TrimSuffix(s, "\n")
	if s == "" {
		return []string{}
	}
	return strings.Split(s, "\n")
}

// writeConformReport prints one line per failing case (every case when
// verbose) and a summary box. It returns the number of failures.
func writeConformReport(w io.Writer, results []conformResult, verbose bool) int {
	failed := 0
	var total time.Duration
	for _, r := range results {
		total += r.Duration
		label := fmt.Sprintf("%s (%s)", r.Case.Name, filepath.Base(r.Case.suite))
		if r.Passed {
			if verbose {
				fmt.Fprintf(w, "%s %s %s\n", passStyle.Render("PASS"), label, mutedStyle.Render(r.Duration.Round(time.Microsecond).String()))
			}
			continue
		}
		failed++
		fmt.Fprintf(w, "%s %s\n", failStyle.Render("FAIL"), label)
		for _, line := range strings.Split(r.Detail, "\n") {
			fmt.Fprintf(w, "    %s\n", line)
		}
	}

	status := passStyle.Render("ok")
	if failed > 0 {
		status = failStyle.Render("FAILED")
	}
	summary := fmt.Sprintf("%s  %d passed, %d failed, %d total  %s",
		status, len(results)-failed, failed, len(results), mutedStyle.Render(total.Round(time.Millisecond).String()))
	fmt.Fprintln(w, summaryStyle.Render(summary))
	return failed
}
