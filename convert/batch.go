package convert

import (
	"bytes"
	"fmt"
	"io"
	"sync"

	"github.com/panjf2000/ants/v2"
)

// Job is one input of a batch.
type Job struct {
	Name string
	Open func() (io.ReadCloser, error)
}

// Result holds the output of one Job.
type Result struct {
	Name   string
	Output []byte
	Err    error
}

// Batch converts every job on a pool of workers and returns the results in
// job order. Each job gets its own source, adapter and writer.
func Batch(jobs []Job, from, to Format, workers int, opts ...Options) ([]Result, error) {
	opt := pick(opts)
	if workers <= 0 {
		workers = 1
	}
	results := make([]Result, len(jobs))

	pool, err := ants.NewPool(workers)
	if err != nil {
		return nil, fmt.Errorf("convert: worker pool: %w", err)
	}
	defer pool.Release()

	var wg sync.WaitGroup
	for i, job := range jobs {
		i, job := i, job // per-iteration copies (go 1.22 loopvar semantics under go 1.21)
		results[i].Name = job.Name
		wg.Add(1)
		task := func() {
			defer wg.Done()
			defer func() {
				if p := recover(); p != nil {
					results[i].Err = fmt.Errorf("convert %s: panic: %v", job.Name, p)
					if opt.Logger != nil {
						opt.Logger.Errorf("%s", results[i].Err)
					}
				}
			}()
			results[i].Output, results[i].Err = runJob(job, from, to, opt)
		}
		if err := pool.Submit(task); err != nil {
			wg.Done()
			results[i].Err = err
		}
	}
	wg.Wait()
	return results, nil
}

func runJob(job Job, from, to Format, opt Options) ([]byte, error) {
	if opt.Logger != nil {
		opt.Logger.Debugf("converting %s from %s to %s", job.Name, from, to)
	}
	rc, err := job.Open()
	if err != nil {
		return nil, err
	}
	defer rc.Close()
	var out bytes.Buffer
	if err := Convert(rc, &out, from, to, opt); err != nil {
		return nil, fmt.Errorf("%s: %w", job.Name, err)
	}
	return out.Bytes(), nil
}
