// Package watch monitors an inbox directory for files whose text looks like
// a schedule.
package watch

import (
	"context"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/wexinc/gantt/internal/detect"
	gerrors "github.com/wexinc/gantt/internal/errors"
	"github.com/wexinc/gantt/internal/logging"
)

const defaultDebounce = 300 * time.Millisecond

// Detection is a file whose content passed the schedule classifier.
type Detection struct {
	Path       string
	Text       string
	Signals    detect.Signals
	Preview    detect.Preview
	DetectedAt time.Time
}

// Handler receives detections, one at a time. Errors are logged and do not
// stop the watcher.
type Handler func(ctx context.Context, d Detection) error

// Options configures a Watcher.
type Options struct {
	Dir string
	// Extensions limits which files are read. Empty accepts every file.
	Extensions []string
	// Debounce is how long a file must be quiet before it is read.
	Debounce time.Duration
	// Threshold is the classifier confidence needed for a detection.
	Threshold float64
}

// Watcher reads files dropped into a directory and reports the ones that
// look like schedules. Content identical to the previous file read is
// skipped.
type Watcher struct {
	opts    Options
	handler Handler
	now     func() time.Time
	ready   chan struct{}

	mu       sync.Mutex
	lastText string

	// handlerMu keeps debounce timers for different files from running the
	// handler at the same time.
	handlerMu sync.Mutex
}

// New creates a watcher for opts.Dir.
func New(opts Options, handler Handler) (*Watcher, error) {
	if opts.Dir == "" {
		return nil, gerrors.New(gerrors.ErrWatch, "watch directory is required")
	}
	if handler == nil {
		return nil, gerrors.New(gerrors.ErrWatch, "watch handler is required")
	}
	if opts.Debounce <= 0 {
		opts.Debounce = defaultDebounce
	}
	exts := make([]string, 0, len(opts.Extensions))
	for _, ext := range opts.Extensions {
		exts = append(exts, strings.ToLower(ext))
	}
	opts.Extensions = exts

	return &Watcher{
		opts:    opts,
		handler: handler,
		now:     time.Now,
		ready:   make(chan struct{}),
	}, nil
}

// Ready is closed once the directory is being watched.
func (w *Watcher) Ready() <-chan struct{} {
	return w.ready
}

// accepts reports whether a file name passes the extension filter.
func (w *Watcher) accepts(name string) bool {
	if strings.HasPrefix(filepath.Base(name), ".") {
		return false
	}
	if len(w.opts.Extensions) == 0 {
		return true
	}
	return slices.Contains(w.opts.Extensions, strings.ToLower(filepath.Ext(name)))
}

// Run scans files already in the directory, then watches for new and
// changed files until ctx is cancelled.
func (w *Watcher) Run(ctx context.Context) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return gerrors.WatchFailed(w.opts.Dir, err)
	}
	defer func() { _ = watcher.Close() }()

	if err := watcher.Add(w.opts.Dir); err != nil {
		return gerrors.WatchFailed(w.opts.Dir, err)
	}

	if err := w.scanExisting(ctx); err != nil {
		return gerrors.WatchFailed(w.opts.Dir, err)
	}

	logging.Info("watching inbox", "dir", w.opts.Dir, "debounce", w.opts.Debounce)
	close(w.ready)

	var mu sync.Mutex
	pending := make(map[string]*time.Timer)

	for {
		select {
		case <-ctx.Done():
			mu.Lock()
			for _, t := range pending {
				t.Stop()
			}
			mu.Unlock()
			logging.Info("inbox watcher stopped", "dir", w.opts.Dir)
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !event.Has(fsnotify.Create) && !event.Has(fsnotify.Write) {
				continue
			}
			if !w.accepts(event.Name) {
				continue
			}

			path := event.Name
			mu.Lock()
			if t, exists := pending[path]; exists {
				t.Stop()
			}
			pending[path] = time.AfterFunc(w.opts.Debounce, func() {
				if _, err := w.Check(ctx, path); err != nil {
					logging.Error("check inbox file", "file", filepath.Base(path), "error", err)
				}
				mu.Lock()
				delete(pending, path)
				mu.Unlock()
			})
			mu.Unlock()

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logging.Error("watcher error", "error", err)
		}
	}
}

// scanExisting checks the files already present, in name order.
func (w *Watcher) scanExisting(ctx context.Context) error {
	entries, err := os.ReadDir(w.opts.Dir)
	if err != nil {
		return err
	}
	for _, e := range entries {
		if e.IsDir() || !w.accepts(e.Name()) {
			continue
		}
		select {
		case <-ctx.Done():
			return nil
		default:
		}
		path := filepath.Join(w.opts.Dir, e.Name())
		if _, err := w.Check(ctx, path); err != nil {
			logging.Error("check existing file", "file", e.Name(), "error", err)
		}
	}
	return nil
}

// Check reads one file and calls the handler when its text looks like a
// schedule. It reports whether the handler was called. Empty files and text
// identical to the previous file read are skipped.
func (w *Watcher) Check(ctx context.Context, path string) (bool, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, err
	}
	text := string(data)

	w.mu.Lock()
	if text == "" || text == w.lastText {
		w.mu.Unlock()
		return false, nil
	}
	w.lastText = text
	w.mu.Unlock()

	signals := detect.DetectSignals(text)
	if !detect.IsLikelySchedule(text, w.opts.Threshold) {
		logging.Debug("inbox file is not a schedule", "file", filepath.Base(path), "confidence", signals.Confidence)
		return false, nil
	}

	d := Detection{
		Path:       path,
		Text:       text,
		Signals:    signals,
		Preview:    detect.ExtractPreview(text),
		DetectedAt: w.now(),
	}
	logging.Info("schedule detected", "file", filepath.Base(path), "tasks", d.Preview.TaskCount, "confidence", d.Preview.Confidence)
	w.handlerMu.Lock()
	defer w.handlerMu.Unlock()
	if err := w.handler(ctx, d); err != nil {
		return true, err
	}
	return true, nil
}
