package profiler

import (
	"runtime"
	"sync"
	"time"

	"github.com/Carmen-Shannon/oxy-shade/common"
)

// Stats summarizes the frames prepared during one reporting interval.
type Stats struct {
	Frames         int
	FramesPerSec   float64
	DrawsPerFrame  float64
	BytesPerFrame  float64
	HeapMB         float64
	AllocRateMBSec float64
	GCCount        uint32
}

// Profiler tracks frame preparation rate, upload volume and memory statistics.
// Outputs stats to the log at a configurable interval.
type Profiler struct {
	mu sync.Mutex

	frameCount     int
	drawCount      int
	byteCount      uint64
	lastTime       time.Time
	updateInterval time.Duration
	memStats       runtime.MemStats
	lastTotalAlloc uint64
	last           Stats
}

// ProfilerOption configures a Profiler.
type ProfilerOption func(*Profiler)

// WithInterval sets how often stats are logged.
//
// Parameters:
//   - d: the reporting interval
//
// Returns:
//   - ProfilerOption: a function that sets the interval
func WithInterval(d time.Duration) ProfilerOption {
	return func(p *Profiler) {
		p.updateInterval = d
	}
}

// NewProfiler creates a new Profiler. The update interval defaults to 1 second.
//
// Parameters:
//   - options: functional options
//
// Returns:
//   - *Profiler: the newly created profiler instance
func NewProfiler(options ...ProfilerOption) *Profiler {
	p := &Profiler{
		lastTime:       time.Now(),
		updateInterval: time.Second,
	}
	for _, opt := range options {
		opt(p)
	}
	return p
}

// Record should be called once per prepared frame. Logs statistics when the update
// interval has elapsed.
//
// Parameters:
//   - draws: the number of draws in the frame
//   - bytes: the number of bytes the frame writes
//
// Returns:
//   - bool: true if stats were logged by this call
func (p *Profiler) Record(draws, bytes int) bool {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.frameCount++
	p.drawCount += draws
	p.byteCount += uint64(bytes)

	now := time.Now()
	elapsed := now.Sub(p.lastTime)
	if elapsed < p.updateInterval {
		return false
	}
	seconds := max(elapsed.Seconds(), 1e-9)

	runtime.ReadMemStats(&p.memStats)
	allocDelta := p.memStats.TotalAlloc - p.lastTotalAlloc
	frames := float64(p.frameCount)

	p.last = Stats{
		Frames:         p.frameCount,
		FramesPerSec:   frames / seconds,
		DrawsPerFrame:  float64(p.drawCount) / frames,
		BytesPerFrame:  float64(p.byteCount) / frames,
		HeapMB:         float64(p.memStats.Alloc) / 1024 / 1024,
		AllocRateMBSec: float64(allocDelta) / 1024 / 1024 / seconds,
		GCCount:        p.memStats.NumGC,
	}
	common.LogInfo("frames/s: %.2f | draws/frame: %.1f | upload: %.1f KB/frame | heap: %.2f MB | alloc rate: %.2f MB/s | gc: %d",
		p.last.FramesPerSec, p.last.DrawsPerFrame, p.last.BytesPerFrame/1024, p.last.HeapMB, p.last.AllocRateMBSec, p.last.GCCount)

	p.frameCount = 0
	p.drawCount = 0
	p.byteCount = 0
	p.lastTime = now
	p.lastTotalAlloc = p.memStats.TotalAlloc
	return true
}

// Last returns the stats of the most recent report.
func (p *Profiler) Last() Stats {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.last
}
