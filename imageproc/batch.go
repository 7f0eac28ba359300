package imageproc

import (
	"fmt"
	"sync"
)

// Outcome is the result of one batch item.
type Outcome struct {
	Index      int
	InputPath  string
	OutputPath string
	Result     Result
	Err        error
}

// OK reports whether the item succeeded.
func (o Outcome) OK() bool { return o.Err == nil }

// Code returns the item's ErrorCode.
func (o Outcome) Code() ErrorCode { return CodeOf(o.Err) }

// BatchResult holds one Outcome per requested item, in index order.
type BatchResult struct {
	Outcomes []Outcome
}

// Succeeded is the aggregate success count older callers expect.
func (r BatchResult) Succeeded() int {
	n := 0
	for _, o := range r.Outcomes {
		if o.OK() {
			n++
		}
	}
	return n
}

// Failed returns the outcomes that did not succeed.
func (r BatchResult) Failed() []Outcome {
	var failed []Outcome
	for _, o := range r.Outcomes {
		if !o.OK() {
			failed = append(failed, o)
		}
	}
	return failed
}

// BatchCompress compresses inPaths[i] to outPaths[i] for every i in
// [0, count). Failures do not stop the batch. Indices past the end of
// either slice fail with InvalidParams; count <= 0 yields an empty result.
func (p *Processor) BatchCompress(inPaths, outPaths []string, count int, cfg *CompressConfig) BatchResult {
	if count <= 0 {
		return BatchResult{}
	}

	outcomes := make([]Outcome, count)
	paired := min(count, len(inPaths), len(outPaths))
	for i := paired; i < count; i++ {
		outcomes[i] = Outcome{Index: i, Err: &Error{Code: InvalidParams, Op: opCompress,
			Err: fmt.Errorf("batch item %d has no path pair (%d inputs, %d outputs)", i, len(inPaths), len(outPaths))}}
	}

	var wg sync.WaitGroup
	sem := make(chan struct{}, p.workers)

	for i := 0; i < paired; i++ {
		sem <- struct{}{} // acquire
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()
			defer func() { <-sem }() // release

			o := Outcome{Index: idx, InputPath: inPaths[idx], OutputPath: outPaths[idx]}
			o.Result, o.Err = p.CompressFile(o.InputPath, o.OutputPath, cfg)
			outcomes[idx] = o
		}(i)
	}
	wg.Wait()

	p.log.Debug().Int("count", count).Int("paired", paired).Int("workers", p.workers).Msg("batch done")
	return BatchResult{Outcomes: outcomes}
}

// BatchCompressCount returns only the number of items that succeeded.
func (p *Processor) BatchCompressCount(inPaths, outPaths []string, count int, cfg *CompressConfig) int {
	return p.BatchCompress(inPaths, outPaths, count, cfg).Succeeded()
}
