// ABOUTME: guardgen injects admin guards into functions marked //admin:require
// ABOUTME: Rewrites Go files or directories, printing or writing the result

package main

import (
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/fatih/color"

	"github.com/2389/multiadmin/internal/guardgen"
)

const defaultConfigFile = "guardgen.toml"

type result struct {
	path  string
	out   []byte
	funcs []string
}

func main() {
	var (
		configPath string
		write      bool
		list       bool
	)
	flag.StringVar(&configPath, "config", "", "TOML config file (defaults to ./guardgen.toml when present)")
	flag.BoolVar(&write, "w", false, "write result to the source files instead of stdout")
	flag.BoolVar(&list, "l", false, "list rewritten files and functions")
	flag.Usage = usage
	flag.Parse()

	if flag.NArg() == 0 {
		usage()
		os.Exit(2)
	}

	cfg, err := loadConfig(configPath)
	if err != nil {
		fatal(err)
	}

	files, err := collectFiles(flag.Args())
	if err != nil {
		fatal(err)
	}

	// Rewrite everything in memory first so a failure leaves every file untouched.
	var results []result
	for _, path := range files {
		src, err := os.ReadFile(path)
		if err != nil {
			fatal(fmt.Errorf("reading %s: %w", path, err))
		}
		out, funcs, err := guardgen.Source(path, src, cfg)
		if err != nil {
			fatal(err)
		}
		if len(funcs) > 0 {
			results = append(results, result{path: path, out: out, funcs: funcs})
		}
	}

	for _, r := range results {
		switch {
		case write:
			info, err := os.Stat(r.path)
			if err != nil {
				fatal(err)
			}
			if err := os.WriteFile(r.path, r.out, info.Mode().Perm()); err != nil {
				fatal(fmt.Errorf("writing %s: %w", r.path, err))
			}
		case !list:
			os.Stdout.Write(r.out)
		}

		if list || write {
			fmt.Fprintf(os.Stderr, "%s %s: %s\n",
				color.GreenString("guarded"), r.path, strings.Join(r.funcs, ", "))
		}
	}
}

// loadConfig uses the explicit path, then ./guardgen.toml, then built-in defaults.
func loadConfig(path string) (guardgen.Config, error) {
	if path != "" {
		return guardgen.LoadConfig(path)
	}
	if _, err := os.Stat(defaultConfigFile); err == nil {
		return guardgen.LoadConfig(defaultConfigFile)
	} else if !errors.Is(err, fs.ErrNotExist) {
		return guardgen.Config{}, fmt.Errorf("checking %s: %w", defaultConfigFile, err)
	}
	return guardgen.DefaultConfig(), nil
}

// collectFiles expands directory arguments into their non-test .go files.
func collectFiles(args []string) ([]string, error) {
	var files []string
	for _, arg := range args {
		info, err := os.Stat(arg)
		if err != nil {
			return nil, err
		}
		if !info.IsDir() {
			files = append(files, arg)
			continue
		}

		err = filepath.WalkDir(arg, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			name := d.Name()
			if d.IsDir() {
				if path != arg && (name == "testdata" || name == "vendor" || strings.HasPrefix(name, ".") || strings.HasPrefix(name, "_")) {
					return filepath.SkipDir
				}
				return nil
			}
			if strings.HasSuffix(name, ".go") && !strings.HasSuffix(name, "_test.go") {
				files = append(files, path)
			}
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("walking %s: %w", arg, err)
		}
	}
	return files, nil
}

func usage() {
	fmt.Fprintf(os.Stderr, `Usage: guardgen [flags] <file or dir>...

Injects an admin check at the top of every function annotated with //admin:require.
Without -w the rewritten files are printed to stdout.

Flags:
`)
	flag.PrintDefaults()
}

func fatal(err error) {
	fmt.Fprintf(os.Stderr, "%s %v\n", color.RedString("guardgen:"), err)
	os.Exit(1)
}
