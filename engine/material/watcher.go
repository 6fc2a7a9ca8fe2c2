package material

import (
	"errors"
	"sync"

	"github.com/Carmen-Shannon/oxy-shade/common"
	"github.com/fsnotify/fsnotify"
)

// Watcher reloads a Library whenever a material file in its directory is created,
// written, renamed or removed.
type Watcher struct {
	library *Library
	dir     string

	fsnotify *fsnotify.Watcher
	done     chan struct{}
	reloads  chan error

	closeOnce sync.Once
	wg        sync.WaitGroup
}

// NewWatcher loads dir into library and starts watching it. A validation failure in
// the initial load is logged, not returned; a read or decode failure is returned.
//
// Parameters:
//   - library: the library to keep current
//   - dir: the directory holding the material files
//
// Returns:
//   - *Watcher: the running watcher
//   - error: non-nil if the initial load or the watch could not be set up
func NewWatcher(library *Library, dir string) (*Watcher, error) {
	if err := library.LoadDir(dir); err != nil {
		if !errors.Is(err, common.ErrMaterialValidation) {
			return nil, err
		}
		common.LogWarn("materials in %s: %v", dir, err)
	}

	fsWatch, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := fsWatch.Add(dir); err != nil {
		fsWatch.Close()
		return nil, err
	}

	w := &Watcher{
		library:  library,
		dir:      dir,
		fsnotify: fsWatch,
		done:     make(chan struct{}),
		reloads:  make(chan error, 8),
	}
	w.wg.Add(1)
	go w.run()
	return w, nil
}

// Reloads delivers the result of each reload, nil on success. Results are dropped
// while the channel is full.
func (w *Watcher) Reloads() <-chan error {
	return w.reloads
}

// Close stops watching. The library keeps its last published contents.
//
// Returns:
//   - error: the error from closing the underlying watch
func (w *Watcher) Close() error {
	var err error
	w.closeOnce.Do(func() {
		close(w.done)
		w.wg.Wait()
		err = w.fsnotify.Close()
		close(w.reloads)
	})
	return err
}

func (w *Watcher) run() {
	defer w.wg.Done()
	for {
		select {
		case e, ok := <-w.fsnotify.Events:
			if !ok {
				return
			}
			if _, material := FormatFor(e.Name); !material {
				continue
			}
			if e.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Remove|fsnotify.Rename) == 0 {
				continue
			}
			w.reload(e.Name)

		case err, ok := <-w.fsnotify.Errors:
			if !ok {
				return
			}
			common.LogError("material watcher: %v", err)

		case <-w.done:
			return
		}
	}
}

func (w *Watcher) reload(trigger string) {
	err := w.library.LoadDir(w.dir)
	switch {
	case err == nil:
		common.LogInfo("reloaded materials after change to %s", trigger)
	case errors.Is(err, common.ErrMaterialValidation):
		common.LogWarn("reloaded materials after change to %s: %v", trigger, err)
	default:
		common.LogError("kept previous materials, reload after change to %s failed: %v", trigger, err)
	}
	select {
	case w.reloads <- err:
	default:
	}
}
