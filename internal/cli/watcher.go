package cli

import (
	"context"
	"path/filepath"
	"sync"
	"time"

	crdb "github.com/cockroachdb/errors"
	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// BuildCallback receives the outcome of every build the watcher runs
type BuildCallback func(BuildSummary, error)

// Watcher rebuilds whenever the suite configuration or the manifest changes
type Watcher struct {
	builder  *Builder
	reporter *DiagnosticReporter
	logger   *zap.Logger
	watcher  *fsnotify.Watcher
	debounce time.Duration

	mu        sync.Mutex
	files     map[string]bool // cleaned absolute paths of the inputs
	dirs      map[string]bool // watched parent directories
	timer     *time.Timer
	callbacks []BuildCallback

	rebuild chan struct{}
}

// NewWatcher creates a watcher driving builder
func NewWatcher(builder *Builder, reporter *DiagnosticReporter, logger *zap.Logger) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, crdb.Wrap(err, "failed to create file watcher")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Watcher{
		builder:  builder,
		reporter: reporter,
		logger:   logger,
		watcher:  fsw,
		debounce: builder.opts.DebouncePeriod(),
		files:    make(map[string]bool),
		dirs:     make(map[string]bool),
		rebuild:  make(chan struct{}, 1),
	}, nil
}

// OnBuild registers a callback run after every build
func (w *Watcher) OnBuild(callback BuildCallback) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.callbacks = append(w.callbacks, callback)
}

// Run builds once, then rebuilds after every burst of changes until ctx is
// done. Failed builds are reported and watching goes on; only a first build
// that cannot even determine its inputs stops the watcher.
func (w *Watcher) Run(ctx context.Context) error {
	defer w.stop()

	// The configuration file is watched even when it cannot be loaded yet
	if err := w.track([]string{w.builder.opts.Config()}); err != nil {
		return err
	}
	w.build()

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-w.watcher.Events:
			if !ok {
				return nil
			}
			if !w.relevant(event) {
				continue
			}
			w.logger.Debug("watched file changed",
				zap.String("file", event.Name),
				zap.String("op", event.Op.String()))
			w.schedule()

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return nil
			}
			w.logger.Warn("file watcher error", zap.Error(err))

		case <-w.rebuild:
			w.build()
		}
	}
}

// build runs one build, reports it and picks up new inputs
func (w *Watcher) build() {
	summary, err := w.builder.Build()
	if err != nil {
		w.logger.Error("rebuild failed", zap.Error(err))
		if w.reporter != nil {
			w.reporter.ReportError(err)
		}
	} else if w.reporter != nil {
		w.reporter.ReportSuccess(summary)
	}
	if trackErr := w.track(summary.WatchedFiles); trackErr != nil {
		w.logger.Warn("cannot watch build inputs", zap.Error(trackErr))
	}

	w.mu.Lock()
	callbacks := make([]BuildCallback, len(w.callbacks))
	copy(callbacks, w.callbacks)
	w.mu.Unlock()

	for _, callback := range callbacks {
		callback(summary, err)
	}
}

// track watches the parent directory of each file. Editors often replace a
// file instead of writing it in place, which a watch on the file itself
// would not survive.
func (w *Watcher) track(files []string) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	for _, file := range files {
		abs, err := filepath.Abs(file)
		if err != nil {
			return crdb.Wrapf(err, "failed to resolve %s", file)
		}
		w.files[abs] = true

		dir := filepath.Dir(abs)
		if w.dirs[dir] {
			continue
		}
		if err := w.watcher.Add(dir); err != nil {
			return crdb.Wrapf(err, "failed to watch %s", dir)
		}
		w.dirs[dir] = true
		w.logger.Debug("watching directory", zap.String("dir", dir))
	}
	return nil
}

// relevant reports whether event touches one of the inputs
func (w *Watcher) relevant(event fsnotify.Event) bool {
	if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
		return false
	}
	abs, err := filepath.Abs(event.Name)
	if err != nil {
		return false
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	return w.files[abs]
}

// schedule debounces a burst of events into one rebuild
func (w *Watcher) schedule() {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.timer != nil {
		w.timer.Stop()
	}
	w.timer = time.AfterFunc(w.debounce, func() {
		select {
		case w.rebuild <- struct{}{}:
		default:
		}
	})
}

func (w *Watcher) stop() {
	w.mu.Lock()
	if w.timer != nil {
		w.timer.Stop()
	}
	w.mu.Unlock()

	if err := w.watcher.Close(); err != nil {
		w.logger.Warn("failed to close file watcher", zap.Error(err))
	}
}
