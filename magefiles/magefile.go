//go:build mage

// Package main contains Mage build targets for research-notebook developer tooling.
package main

import (
	"bytes"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/magefile/mage/mg"
	"github.com/magefile/mage/sh"
	"github.com/pkg/errors"
)

// projectDirs lists the working directories the CLI expects.
var projectDirs = []string{
	"corpus",
	".secrets",
	"output",
}

// Init creates the project directory structure.
func Init() error {
	for _, dir := range projectDirs {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return errors.Wrapf(err, "creating %s", dir)
		}
		fmt.Println("  ", dir)
	}
	fmt.Println("Project directories initialized.")
	return nil
}

const (
	binDir  = "bin"
	binName = "research-notebook"
	cmdPkg  = "./cmd/research-notebook"

	// buildTags enables the SQLite FTS5 module the corpus needs.
	buildTags = "sqlite_fts5"
)

// Build compiles the CLI binary into bin/.
func Build() error {
	if err := os.MkdirAll(binDir, 0o755); err != nil {
		return errors.Wrapf(err, "creating %s", binDir)
	}
	out := filepath.Join(binDir, binName)
	version, err := sh.Output("git", "describe", "--tags", "--always", "--dirty")
	if err != nil {
		version = "dev"
	}
	ldflags := "-X main.version=" + version
	if err := sh.RunV("go", "build", "-tags", buildTags, "-ldflags", ldflags, "-o", out, cmdPkg); err != nil {
		return errors.Wrap(err, "go build")
	}
	fmt.Printf("Built %s\n", out)
	return nil
}

// Test runs the unit tests with the race detector.
func Test() error {
	return sh.RunV("go", "test", "-race", "-tags", buildTags, "./...")
}

// Vet runs go vet with the build tags.
func Vet() error {
	return sh.RunV("go", "vet", "-tags", buildTags, "./...")
}

// Check runs Vet and Test.
func Check() {
	mg.SerialDeps(Vet, Test)
}

// Corpus builds the CLI and indexes every Markdown and text file under dir.
func Corpus(dir string) error {
	mg.Deps(Build)

	var files []string
	err := filepath.Walk(dir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		switch filepath.Ext(path) {
		case ".md", ".txt":
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return errors.Wrapf(err, "walking %s", dir)
	}
	if len(files) == 0 {
		return errors.Errorf("no .md or .txt files under %s", dir)
	}
	return sh.RunV(filepath.Join(binDir, binName), append([]string{"corpus", "add"}, files...)...)
}

// sourceRoots are the trees Stats counts; bin/ and vendored reference code
// stay out of the totals.
var sourceRoots = []string{"cmd", "internal", "pkg"}

// docFiles are the project documents whose word counts Stats reports.
var docFiles = []string{"DESIGN.md", "SPEC_FULL.md"}

// Stats prints non-blank Go lines per package, split into production and
// test code, followed by the word count of the project documents.
func Stats() error {
	prod := map[string]int{}
	test := map[string]int{}
	for _, root := range sourceRoots {
		if err := countGoLines(root, prod, test); err != nil {
			return err
		}
	}

	pkgs := make([]string, 0, len(prod)+len(test))
	for pkg := range prod {
		pkgs = append(pkgs, pkg)
	}
	for pkg := range test {
		if _, ok := prod[pkg]; !ok {
			pkgs = append(pkgs, pkg)
		}
	}
	sort.Strings(pkgs)

	var prodTotal, testTotal int
	fmt.Printf("%-32s %8s %8s\n", "package", "prod", "test")
	for _, pkg := range pkgs {
		fmt.Printf("%-32s %8d %8d\n", pkg, prod[pkg], test[pkg])
		prodTotal += prod[pkg]
		testTotal += test[pkg]
	}
	fmt.Printf("%-32s %8d %8d\n", "total", prodTotal, testTotal)

	for _, name := range docFiles {
		data, err := os.ReadFile(name)
		if os.IsNotExist(err) {
			continue
		}
		if err != nil {
			return errors.Wrapf(err, "reading %s", name)
		}
		fmt.Printf("Words (%s): %d\n", name, len(strings.Fields(string(data))))
	}
	return nil
}

// countGoLines adds the non-blank lines of every Go file under root to prod
// or test, keyed by the file's package directory.
func countGoLines(root string, prod, test map[string]int) error {
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if os.IsNotExist(err) {
				return nil
			}
			return err
		}
		if d.IsDir() || filepath.Ext(path) != ".go" {
			return nil
		}
		data, err := os.ReadFile(path)
		if err != nil {
			return errors.Wrapf(err, "reading %s", path)
		}
		n := 0
		for _, line := range bytes.Split(data, []byte("\n")) {
			if len(bytes.TrimSpace(line)) > 0 {
				n++
			}
		}
		pkg := filepath.ToSlash(filepath.Dir(path))
		if strings.HasSuffix(path, "_test.go") {
			test[pkg] += n
		} else {
			prod[pkg] += n
		}
		return nil
	})
	return errors.Wrapf(err, "walking %s", root)
}
