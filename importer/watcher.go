package importer

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/sirupsen/logrus"
)

// settleDelay gives the OS time to finish writing a freshly created file
// before the pairing scan reads it.
const settleDelay = 500 * time.Millisecond

// Watcher monitors the import directory and runs a pairing scan whenever a
// media or transcript file appears. Scans are bounded by a semaphore so a
// burst of drops cannot pile up goroutines.
type Watcher struct {
	dir       string
	importer  *Importer
	log       *logrus.Logger
	watcher   *fsnotify.Watcher
	semaphore chan struct{}
	wg        sync.WaitGroup
}

// NewWatcher creates a Watcher over dir. maxConcurrent bounds simultaneous
// scans; values below 1 default to 1.
func NewWatcher(dir string, im *Importer, log *logrus.Logger, maxConcurrent int) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}
	if err := fsw.Add(dir); err != nil {
		fsw.Close()
		return nil, fmt.Errorf("watch %s: %w", dir, err)
	}
	if maxConcurrent < 1 {
		maxConcurrent = 1
	}
	return &Watcher{
		dir:       dir,
		importer:  im,
		log:       log,
		watcher:   fsw,
		semaphore: make(chan struct{}, maxConcurrent),
	}, nil
}

// Start blocks, ingesting new pairs until ctx is cancelled.
func (w *Watcher) Start(ctx context.Context) error {
	w.log.WithField("dir", w.dir).Info("Import watcher started")

	for {
		select {
		case <-ctx.Done():
			w.wg.Wait()
			w.log.Info("Import watcher stopped")
			return ctx.Err()

		case event, ok := <-w.watcher.Events:
			if !ok {
				return fmt.Errorf("watcher events channel closed")
			}
			if event.Op&fsnotify.Create != fsnotify.Create {
				continue
			}
			if !w.isCandidate(event.Name) {
				continue
			}
			w.log.WithField("file", event.Name).Info("New file detected")

			select {
			case w.semaphore <- struct{}{}:
				w.wg.Add(1)
				go func() {
					defer w.wg.Done()
					defer func() { <-w.semaphore }()

					time.Sleep(settleDelay)
					if _, err := w.importer.ScanDir(w.dir); err != nil {
						w.log.WithError(err).Error("Import scan failed")
					}
				}()
			case <-ctx.Done():
				return ctx.Err()
			}

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return fmt.Errorf("watcher errors channel closed")
			}
			w.log.WithError(err).Error("Watcher error")
		}
	}
}

// Stop closes the underlying filesystem watcher.
func (w *Watcher) Stop() error {
	return w.watcher.Close()
}

func (w *Watcher) isCandidate(path string) bool {
	return IsMediaFile(path) || strings.EqualFold(filepath.Ext(path), ".txt")
}
