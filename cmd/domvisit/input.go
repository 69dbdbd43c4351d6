package main

import (
	"fmt"
	"io"
	"os"

	"github.com/reoring/domvisit/convert"
)

// jobsFor opens each path lazily; no paths or "-" means stdin.
func jobsFor(paths []string) []convert.Job {
	if len(paths) == 0 {
		paths = []string{"-"}
	}
	jobs := make([]convert.Job, len(paths))
	for i, p := range paths {
		jobs[i] = convert.Job{Name: p, Open: opener(p)}
	}
	return jobs
}

func opener(path string) func() (io.ReadCloser, error) {
	if path == "-" {
		return func() (io.ReadCloser, error) { return io.NopCloser(os.Stdin), nil }
	}
	return func() (io.ReadCloser, error) {
		f, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("open: %w", err)
		}
		return f, nil
	}
}
