package profiler

import (
	"bytes"
	"os"
	"testing"
	"time"

	"github.com/Carmen-Shannon/oxy-shade/common"
	"github.com/stretchr/testify/assert"
)

func TestRecordReportsAtInterval(t *testing.T) {
	var out bytes.Buffer
	common.SetLogOutput(&out)
	t.Cleanup(func() { common.SetLogOutput(os.Stderr) })

	p := NewProfiler(WithInterval(time.Hour))
	assert.False(t, p.Record(3, 1024))
	assert.Empty(t, out.String())

	p = NewProfiler(WithInterval(0))
	assert.True(t, p.Record(4, 2048))
	stats := p.Last()
	assert.Equal(t, 1, stats.Frames)
	assert.Equal(t, 4.0, stats.DrawsPerFrame)
	assert.Equal(t, 2048.0, stats.BytesPerFrame)
	assert.Contains(t, out.String(), "frames/s")

	assert.True(t, p.Record(2, 0))
	assert.Equal(t, 2.0, p.Last().DrawsPerFrame)
}
