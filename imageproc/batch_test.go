package imageproc

import (
	"fmt"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBatchCompress_MixedOutcomes(t *testing.T) {
	dir := t.TempDir()
	ins := []string{
		writeJPEG(t, dir, "a.jpg", 80, 60),
		filepath.Join(dir, "missing.jpg"),
		writeJPEG(t, dir, "c.jpg", 60, 80),
	}
	outs := []string{
		filepath.Join(dir, "a.out.jpg"),
		filepath.Join(dir, "b.out.jpg"),
		filepath.Join(dir, "c.out.jpg"),
	}

	res := BatchCompress(ins, outs, 3, cfg(80, 40, 40, true))
	require.Len(t, res.Outcomes, 3)
	assert.Equal(t, 2, res.Succeeded())

	for i, o := range res.Outcomes {
		assert.Equal(t, i, o.Index)
		assert.Equal(t, ins[i], o.InputPath)
	}
	assert.True(t, res.Outcomes[0].OK())
	assert.Equal(t, FileNotFound, res.Outcomes[1].Code())
	assert.True(t, res.Outcomes[2].OK())

	failed := res.Failed()
	require.Len(t, failed, 1)
	assert.Equal(t, 1, failed[0].Index)

	assert.Equal(t, 40, decodeFile(t, outs[0]).X)
	assert.Equal(t, 40, decodeFile(t, outs[2]).Y)
}

func TestBatchCompress_CountLimitsWork(t *testing.T) {
	dir := t.TempDir()
	ins := []string{writeJPEG(t, dir, "a.jpg", 10, 10), writeJPEG(t, dir, "b.jpg", 10, 10)}
	outs := []string{filepath.Join(dir, "a.out.jpg"), filepath.Join(dir, "b.out.jpg")}

	assert.Equal(t, 1, BatchCompressCount(ins, outs, 1, cfg(80, 5, 5, true)))
	assert.FileExists(t, outs[0])
	assert.NoFileExists(t, outs[1])
}

func TestBatchCompress_EmptyCount(t *testing.T) {
	for _, n := range []int{0, -3} {
		res := BatchCompress([]string{"a.jpg"}, []string{"b.jpg"}, n, cfg(80, 5, 5, true))
		assert.Empty(t, res.Outcomes)
		assert.Equal(t, 0, res.Succeeded())
	}
}

func TestBatchCompress_CountBeyondSlices(t *testing.T) {
	dir := t.TempDir()
	ins := []string{writeJPEG(t, dir, "a.jpg", 10, 10)}
	outs := []string{filepath.Join(dir, "a.out.jpg"), filepath.Join(dir, "extra.jpg")}

	res := BatchCompress(ins, outs, 3, cfg(80, 5, 5, true))
	require.Len(t, res.Outcomes, 3)
	assert.True(t, res.Outcomes[0].OK())
	assert.Equal(t, InvalidParams, res.Outcomes[1].Code())
	assert.Equal(t, InvalidParams, res.Outcomes[2].Code())
	assert.Equal(t, 1, res.Succeeded())
}

func TestBatchCompress_LargeCountShortSlices(t *testing.T) {
	dir := t.TempDir()
	ins := []string{writeJPEG(t, dir, "a.jpg", 10, 10)}
	outs := []string{filepath.Join(dir, "a.out.jpg")}

	const n = 50000
	res := New(WithWorkers(2)).BatchCompress(ins, outs, n, cfg(80, 5, 5, true))
	require.Len(t, res.Outcomes, n)
	assert.Equal(t, 1, res.Succeeded())
	assert.Len(t, res.Failed(), n-1)
	for _, i := range []int{1, 2, n / 2, n - 1} {
		assert.Equal(t, i, res.Outcomes[i].Index)
		assert.Equal(t, InvalidParams, res.Outcomes[i].Code())
	}
}

func TestBatchCompress_InvalidConfigFailsEveryItem(t *testing.T) {
	dir := t.TempDir()
	ins := []string{writeJPEG(t, dir, "a.jpg", 10, 10), writeJPEG(t, dir, "b.jpg", 10, 10)}
	outs := []string{filepath.Join(dir, "a.out.jpg"), filepath.Join(dir, "b.out.jpg")}

	res := BatchCompress(ins, outs, 2, nil)
	assert.Equal(t, 0, res.Succeeded())
	for _, o := range res.Outcomes {
		assert.Equal(t, InvalidParams, o.Code())
	}
}

func TestBatchCompress_ParallelMatchesSequential(t *testing.T) {
	dir := t.TempDir()
	const n = 12
	ins := make([]string, n)
	seqOuts := make([]string, n)
	parOuts := make([]string, n)
	for i := range ins {
		ins[i] = writeJPEG(t, dir, fmt.Sprintf("in%02d.jpg", i), 30+i, 20+2*i)
		seqOuts[i] = filepath.Join(dir, fmt.Sprintf("seq%02d.jpg", i))
		parOuts[i] = filepath.Join(dir, fmt.Sprintf("par%02d.jpg", i))
	}
	c := cfg(75, 25, 25, true)

	seq := New().BatchCompress(ins, seqOuts, n, c)
	par := New(WithWorkers(4)).BatchCompress(ins, parOuts, n, c)

	require.Equal(t, n, seq.Succeeded())
	require.Equal(t, n, par.Succeeded())
	for i := 0; i < n; i++ {
		assert.Equal(t, seq.Outcomes[i].Result, par.Outcomes[i].Result, "item %d", i)
	}
}
