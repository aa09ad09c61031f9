package main

import (
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/brewin-lang/brewin/brewin"
)

const sourceExt = ".brewin"

// fmtOutcome is the result of formatting one file.
type fmtOutcome struct {
	path      string
	formatted string
	changed   bool
	mode      fs.FileMode
}

func fmtCommand(args []string) error {
	fs := flag.NewFlagSet("fmt", flag.ContinueOnError)
	fs.SetOutput(new(flagErrorSink))
	write := fs.Bool("w", false, "write result to source files instead of stdout")
	check := fs.Bool("check", false, "fail if any source file needs formatting")
	list := fs.Bool("l", false, "list files whose formatting differs")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() == 0 {
		return errors.New("brewin fmt: path required")
	}

	files, err := collectSourceFiles(fs.Args())
	if err != nil {
		return err
	}

	var pending []string
	for _, path := range files {
		outcome, err := formatFile(path)
		if err != nil {
			return err
		}
		if outcome.changed {
			pending = append(pending, path)
		}
		switch {
		case *list:
			if outcome.changed {
				fmt.Println(path)
			}
		case *write:
			if outcome.changed {
				if err := os.WriteFile(path, []byte(outcome.formatted), outcome.mode); err != nil {
					return fmt.Errorf("write %s: %w", path, err)
				}
			}
		case !*check:
			fmt.Print(outcome.formatted)
		}
	}

	if *check && len(pending) > 0 {
		return fmt.Errorf("brewin fmt: %d file(s) need formatting: %s", len(pending), strings.Join(pending, ", "))
	}
	return nil
}

func formatFile(path string) (fmtOutcome, error) {
	info, err := os.Stat(path)
	if err != nil {
		return fmtOutcome{}, fmt.Errorf("stat %s: %w", path, err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return fmtOutcome{}, fmt.Errorf("read %s: %w", path, err)
	}
	formatted, err := brewin.Format(string(data))
	if err != nil {
		return fmtOutcome{}, fmt.Errorf("format %s: %w", path, err)
	}
	return fmtOutcome{
		path:      path,
		formatted: formatted,
		changed:   formatted != string(data),
		mode:      info.Mode().Perm(),
	}, nil
}

// collectSourceFiles expands targets into sorted absolute paths of files with
// the given extensions (.brewin when none are given). Directories are walked
// recursively; files named explicitly are kept only when their extension
// matches.
func collectSourceFiles(targets []string, exts ...string) ([]string, error) {
	if len(exts) == 0 {
		exts = []string{sourceExt}
	}
	var files []string
	add := func(path string) error {
		if !slices.Contains(exts, filepath.Ext(path)) {
			return nil
		}
		abs, err := filepath.Abs(path)
		if err != nil {
			return fmt.Errorf("resolve %s: %w", path, err)
		}
		files = append(files, abs)
		return nil
	}

	for _, target := range targets {
		err := filepath.WalkDir(target, func(path string, entry fs.DirEntry, walkErr error) error {
			if walkErr != nil {
				return walkErr
			}
			if entry.IsDir() {
				return nil
			}
			return add(path)
		})
		if err != nil {
			return nil, fmt.Errorf("collect %s: %w", target, err)
		}
	}

	slices.Sort(files)
	return slices.Compact(files), nil
}
