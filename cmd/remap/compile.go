package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"remap/internal/diag"
	"remap/internal/expr"
	"remap/internal/parser"
	"remap/internal/pipeline"
	"remap/internal/source"
)

// compiledScript bundles everything later stages need from one script.
type compiledScript struct {
	Files   *source.FileSet
	Program *expr.Program
	Bag     *diag.Bag
}

// compileScript loads, parses, and validates one script file. The bag
// carries every diagnostic either phase produced; the program is nil
// when any of them is an error.
func compileScript(path string, maxDiagnostics int) (*compiledScript, error) {
	files := source.NewFileSet()
	id, err := files.Load(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load %s: %w", path, err)
	}

	bag := diag.NewBag(maxDiagnostics)
	raw := parser.Parse(id, files.Get(id).Content, bag)

	out := &compiledScript{Files: files, Bag: bag}
	if bag.HasErrors() {
		return out, nil
	}
	if prog, ok := expr.Compile(raw, expr.NewTypeState(), bag); ok {
		out.Program = prog
	}
	return out, nil
}

// resolveColor turns the --color flag into a concrete choice for w.
func resolveColor(mode string, w *os.File) bool {
	switch mode {
	case "on":
		return true
	case "off":
		return false
	default:
		return isTerminal(w)
	}
}

func rootFlags(cmd *cobra.Command) (colorMode string, quiet bool, maxDiagnostics int, err error) {
	pf := cmd.Root().PersistentFlags()
	if colorMode, err = pf.GetString("color"); err != nil {
		return "", false, 0, fmt.Errorf("failed to get color flag: %w", err)
	}
	if quiet, err = pf.GetBool("quiet"); err != nil {
		return "", false, 0, fmt.Errorf("failed to get quiet flag: %w", err)
	}
	if maxDiagnostics, err = pf.GetInt("max-diagnostics"); err != nil {
		return "", false, 0, fmt.Errorf("failed to get max-diagnostics flag: %w", err)
	}
	return colorMode, quiet, maxDiagnostics, nil
}

// reportDiagnostics renders the bag to stderr and says whether the
// script is usable.
func reportDiagnostics(cs *compiledScript, colorMode string) bool {
	if cs.Bag.Len() > 0 {
		r := diag.NewRenderer(cs.Files, resolveColor(colorMode, os.Stderr))
		r.RenderBag(os.Stderr, cs.Bag)
	}
	return cs.Program != nil
}

func openRejects(path string, format pipeline.Format) (pipeline.Encoder, func() error, error) {
	if path == "" {
		return nil, func() error { return nil }, nil
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create rejects file: %w", err)
	}
	return pipeline.NewEncoder(format, f), f.Close, nil
}
