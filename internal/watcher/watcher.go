package watcher

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/e-illusion/ICPT-S/internal/report"
	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog"
)

// DefaultDebounce is how long a path must stay quiet before it is processed.
const DefaultDebounce = 500 * time.Millisecond

// Processor compresses one file that appeared under the watched directory.
type Processor interface {
	ProcessFile(path string) (report.Item, error)
}

// Options tunes a Watcher.
type Options struct {
	// Debounce defaults to DefaultDebounce.
	Debounce time.Duration
	// Skip is a directory under the watched tree that is never entered,
	// usually the output directory.
	Skip string
	// Match selects the files to process. Nil accepts everything.
	Match func(path string) bool
	// Logger defaults to a no-op logger.
	Logger *zerolog.Logger
}

// Watcher compresses images as they are written into a directory tree.
type Watcher struct {
	root     string
	skip     string
	proc     Processor
	match    func(string) bool
	debounce time.Duration
	log      zerolog.Logger

	fs      *fsnotify.Watcher
	results chan report.Item

	mu       sync.Mutex
	timers   map[string]*time.Timer
	inflight sync.WaitGroup
	done     chan struct{}
}

// New watches root and every directory below it.
func New(root string, proc Processor, opts Options) (*Watcher, error) {
	fsWatcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create fsnotify watcher: %w", err)
	}

	w := &Watcher{
		root:     root,
		proc:     proc,
		match:    opts.Match,
		debounce: opts.Debounce,
		log:      zerolog.Nop(),
		fs:       fsWatcher,
		results:  make(chan report.Item, 64),
		timers:   make(map[string]*time.Timer),
		done:     make(chan struct{}),
	}
	if w.debounce <= 0 {
		w.debounce = DefaultDebounce
	}
	if w.match == nil {
		w.match = func(string) bool { return true }
	}
	if opts.Logger != nil {
		w.log = *opts.Logger
	}
	if opts.Skip != "" {
		if w.skip, err = filepath.Abs(opts.Skip); err != nil {
			fsWatcher.Close()
			return nil, err
		}
	}

	if err := w.addTree(root); err != nil {
		fsWatcher.Close()
		return nil, err
	}
	return w, nil
}

// Results delivers one report item per processed file. It is closed when
// Run returns.
func (w *Watcher) Results() <-chan report.Item {
	return w.results
}

// Run handles events until ctx is cancelled, then waits for in-flight
// files to finish.
func (w *Watcher) Run(ctx context.Context) error {
	defer w.shutdown()

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-w.fs.Events:
			if !ok {
				return nil
			}
			w.handle(event)

		case err, ok := <-w.fs.Errors:
			if !ok {
				return nil
			}
			w.log.Warn().Err(err).Msg("watcher error")
		}
	}
}

func (w *Watcher) handle(event fsnotify.Event) {
	if !event.Has(fsnotify.Create) && !event.Has(fsnotify.Write) {
		return
	}
	// Skip temp files.
	if strings.HasPrefix(filepath.Base(event.Name), ".") {
		return
	}

	info, err := os.Stat(event.Name)
	if err != nil {
		return
	}
	if info.IsDir() {
		if event.Has(fsnotify.Create) {
			// Files may have landed before the watch was added.
			if err := w.addTree(event.Name); err != nil {
				w.log.Warn().Err(err).Str("dir", event.Name).Msg("failed to watch directory")
			}
			w.scheduleTree(event.Name)
		}
		return
	}
	if w.match(event.Name) {
		w.schedule(event.Name)
	}
}

// schedule (re)starts the quiet period for path.
func (w *Watcher) schedule(path string) {
	w.mu.Lock()
	defer w.mu.Unlock()

	select {
	case <-w.done:
		return
	default:
	}

	if timer, exists := w.timers[path]; exists && timer.Stop() {
		w.startTimer(path)
		return
	}
	w.inflight.Add(1)
	w.startTimer(path)
}

// startTimer must be called with w.mu held.
func (w *Watcher) startTimer(path string) {
	var t *time.Timer
	t = time.AfterFunc(w.debounce, func() {
		w.mu.Lock()
		if w.timers[path] == t {
			delete(w.timers, path)
		}
		w.mu.Unlock()
		w.fire(path)
	})
	w.timers[path] = t
}

func (w *Watcher) fire(path string) {
	defer w.inflight.Done()

	item, err := w.proc.ProcessFile(path)
	if err != nil {
		w.log.Warn().Err(err).Str("src", path).Msg("skipped")
		return
	}
	if item.OK() {
		w.log.Info().Str("src", item.Source).Str("dst", item.Output.Path).Int64("bytes", item.Output.Size).Msg("compressed")
	} else {
		w.log.Warn().Str("src", item.Source).Str("code", item.Status).Msg(item.Error)
	}

	select {
	case w.results <- item:
	case <-w.done:
	}
}

func (w *Watcher) shutdown() {
	w.mu.Lock()
	close(w.done)
	for path, timer := range w.timers {
		if timer.Stop() {
			w.inflight.Done()
		}
		delete(w.timers, path)
	}
	w.mu.Unlock()

	w.inflight.Wait()
	w.fs.Close()
	close(w.results)
}

func (w *Watcher) addTree(dir string) error {
	return filepath.WalkDir(dir, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if path != dir && strings.HasPrefix(d.Name(), ".") {
			return filepath.SkipDir
		}
		if w.skipped(path) {
			return filepath.SkipDir
		}
		if err := w.fs.Add(path); err != nil {
			return fmt.Errorf("failed to watch folder %s: %w", path, err)
		}
		w.log.Debug().Str("dir", path).Msg("watching")
		return nil
	})
}

func (w *Watcher) scheduleTree(dir string) {
	_ = filepath.WalkDir(dir, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if d.IsDir() {
			if path != dir && (strings.HasPrefix(d.Name(), ".") || w.skipped(path)) {
				return filepath.SkipDir
			}
			return nil
		}
		if w.match(path) && !strings.HasPrefix(d.Name(), ".") {
			w.schedule(path)
		}
		return nil
	})
}

func (w *Watcher) skipped(path string) bool {
	if w.skip == "" {
		return false
	}
	abs, err := filepath.Abs(path)
	return err == nil && abs == w.skip
}
