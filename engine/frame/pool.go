package frame

import (
	"sync"
	"time"

	"github.com/Carmen-Shannon/automation/tools/worker"
)

// drawPool runs draw preparation on a fixed set of workers that all share one task
// queue. Closing the stop channel ends every worker at once; id-addressed stop
// signals can be consumed by the wrong worker and leave others running.
type drawPool struct {
	tasks     chan worker.Task
	stop      chan int
	workers   []worker.Worker
	closeOnce sync.Once
}

func newDrawPool(size, queue int) *drawPool {
	p := &drawPool{
		tasks: make(chan worker.Task, queue),
		stop:  make(chan int),
	}
	for i := range size {
		w := worker.NewWorker(i, p.tasks, p.stop, time.Second, func(int) {})
		w.Start()
		p.workers = append(p.workers, w)
	}
	return p
}

func (p *drawPool) submit(t worker.Task) {
	p.tasks <- t
}

// close stops every worker. Queued tasks that no worker has picked up are dropped.
func (p *drawPool) close() {
	p.closeOnce.Do(func() {
		close(p.stop)
	})
}
