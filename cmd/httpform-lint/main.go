package main

import (
	"flag"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"

	httpforms "github.com/steveAllen0112/http-aware-forms"
	"github.com/steveAllen0112/http-aware-forms/pkg/formspec"
)

type violation struct {
	file  string
	issue formspec.Issue
}

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	flags := flag.NewFlagSet("httpform-lint", flag.ContinueOnError)
	flags.SetOutput(stderr)
	flags.Usage = func() {
		fmt.Fprintf(flags.Output(), "Usage: %s [paths...]\n", filepath.Base(os.Args[0]))
		fmt.Fprintf(flags.Output(), "\nLint form descriptions (.json, .yaml, .yml, .hcl, .html) for header declarations that will misbehave.\n")
	}
	if err := flags.Parse(args); err != nil {
		return 2
	}

	paths := flags.Args()
	if len(paths) == 0 {
		paths = []string{"forms"}
	}

	files, err := collect(paths)
	if err != nil {
		fmt.Fprintf(stderr, "lint: %v\n", err)
		return 1
	}

	formatters := httpforms.NewFormatters(nil)
	env := formspec.Environ()
	var violations []violation
	for _, file := range files {
		data, err := os.ReadFile(file)
		if err != nil {
			fmt.Fprintf(stderr, "lint %s: %v\n", file, err)
			return 1
		}
		forms, err := formspec.ParseFile(file, data, env)
		if err != nil {
			fmt.Fprintf(stderr, "lint %s: %v\n", file, err)
			return 1
		}
		for _, form := range forms {
			for _, issue := range formspec.Lint(form, formatters) {
				violations = append(violations, violation{file: file, issue: issue})
			}
		}
	}

	if len(violations) == 0 {
		fmt.Fprintf(stdout, "%d file(s) clean\n", len(files))
		return 0
	}
	sort.SliceStable(violations, func(i, j int) bool {
		if violations[i].file != violations[j].file {
			return violations[i].file < violations[j].file
		}
		return violations[i].issue.Form < violations[j].issue.Form
	})
	for _, v := range violations {
		fmt.Fprintf(stderr, "%s: %s\n", v.file, v.issue)
	}
	return 1
}

// collect expands directories into the form description files they hold.
func collect(paths []string) ([]string, error) {
	var files []string
	for _, root := range paths {
		info, err := os.Stat(root)
		if err != nil {
			return nil, err
		}
		if !info.IsDir() {
			files = append(files, root)
			continue
		}
		err = filepath.WalkDir(root, func(path string, entry fs.DirEntry, walkErr error) error {
			if walkErr != nil {
				return walkErr
			}
			if !entry.IsDir() && isDescription(path) {
				files = append(files, path)
			}
			return nil
		})
		if err != nil {
			return nil, err
		}
	}
	return files, nil
}

func isDescription(path string) bool {
	switch filepath.Ext(path) {
	case ".json", ".yaml", ".yml", ".hcl", ".html", ".htm":
		return true
	}
	return false
}
