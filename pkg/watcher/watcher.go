// Package watcher re-runs the trait calculation when its input files change.
package watcher

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/ritzau/glytrait/pkg/logging"
)

// Kind is the role of a watched file
type Kind int

const (
	KindInput Kind = iota
	KindFormula
	KindStructure
	KindConfig
)

func (k Kind) String() string {
	switch k {
	case KindInput:
		return "input"
	case KindFormula:
		return "formula file"
	case KindStructure:
		return "structure file"
	case KindConfig:
		return "config"
	default:
		return "unknown"
	}
}

// ChangeEvent reports a change to one watched file
type ChangeEvent struct {
	Kind      Kind
	Path      string
	Timestamp time.Time
}

// FileWatcher watches a fixed set of files. fsnotify watches their parent
// directories so files replaced by editors are still seen.
type FileWatcher struct {
	watcher *fsnotify.Watcher
	files   map[string]Kind
	events  chan ChangeEvent
}

// NewFileWatcher creates a watcher for files, keyed by path. Empty paths are
// skipped.
func NewFileWatcher(files map[string]Kind) (*FileWatcher, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create fsnotify watcher: %w", err)
	}

	fw := &FileWatcher{
		watcher: w,
		files:   make(map[string]Kind, len(files)),
		events:  make(chan ChangeEvent, 100),
	}
	dirs := make(map[string]bool)
	for path, kind := range files {
		if path == "" {
			continue
		}
		abs, err := filepath.Abs(path)
		if err != nil {
			w.Close()
			return nil, err
		}
		fw.files[abs] = kind
		dirs[filepath.Dir(abs)] = true
	}
	for dir := range dirs {
		if err := w.Add(dir); err != nil {
			w.Close()
			return nil, fmt.Errorf("failed to watch %s: %w", dir, err)
		}
	}
	logging.Info("Watching files", "files", len(fw.files), "directories", len(dirs))
	return fw, nil
}

// Start forwards changes of the watched files until ctx is done, then closes
// the watcher and the event channel
func (fw *FileWatcher) Start(ctx context.Context) {
	go fw.processEvents(ctx)
}

func (fw *FileWatcher) processEvents(ctx context.Context) {
	defer close(fw.events)
	defer fw.watcher.Close()

	for {
		select {
		case <-ctx.Done():
			return

		case event, ok := <-fw.watcher.Events:
			if !ok {
				return
			}
			// a removal is followed by a create when a file is replaced
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}
			kind, ok := fw.files[filepath.Clean(event.Name)]
			if !ok {
				continue
			}
			logging.Trace("File changed", "path", event.Name, "kind", kind, "op", event.Op)
			select {
			case fw.events <- ChangeEvent{Kind: kind, Path: event.Name, Timestamp: time.Now()}:
			case <-ctx.Done():
				return
			}

		case err, ok := <-fw.watcher.Errors:
			if !ok {
				return
			}
			logging.Error("Watcher error", "error", err)
		}
	}
}

// Events returns the channel of file changes
func (fw *FileWatcher) Events() <-chan ChangeEvent {
	return fw.events
}

// Timing configures batching of changes
type Timing struct {
	QuietPeriod time.Duration // wait this long after the last change
	MaxWait     time.Duration // but never longer than this after the first
}

// DefaultTiming suits editors that save in several writes
var DefaultTiming = Timing{QuietPeriod: 300 * time.Millisecond, MaxWait: 2 * time.Second}

// Watch calls onBatch for every batch of changes to files until ctx is done.
// Batches are handled one at a time.
func Watch(ctx context.Context, files map[string]Kind, timing Timing, onBatch func(context.Context, Batch)) error {
	fw, err := NewFileWatcher(files)
	if err != nil {
		return err
	}
	fw.Start(ctx)

	d := NewDebouncer(fw.Events(), timing.QuietPeriod, timing.MaxWait)
	d.Start(ctx)
	for batch := range d.Output() {
		onBatch(ctx, batch)
	}
	return ctx.Err()
}
