package viewer

import (
	"fmt"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"

	"github.com/Faultbox/meshview/internal/logger"
)

// meshWatcher signals changes of one file. fsnotify watches the parent
// directory so editors that replace the file by rename are seen too.
type meshWatcher struct {
	watcher *fsnotify.Watcher
	target  string
	changed chan struct{}
	done    chan struct{}
	log     *zap.Logger
}

func watchMesh(path string) (*meshWatcher, error) {
	target, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("creating file watcher: %w", err)
	}
	if err := watcher.Add(filepath.Dir(target)); err != nil {
		watcher.Close()
		return nil, fmt.Errorf("watching %s: %w", filepath.Dir(target), err)
	}

	mw := &meshWatcher{
		watcher: watcher,
		target:  target,
		changed: make(chan struct{}, 1),
		done:    make(chan struct{}),
		log:     logger.Named("watcher"),
	}
	go mw.loop()
	return mw, nil
}

func (mw *meshWatcher) loop() {
	defer close(mw.done)
	for {
		select {
		case event, ok := <-mw.watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != mw.target {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
				continue
			}
			mw.log.Debug("mesh file changed", zap.String("op", event.Op.String()))
			// Coalesce: one pending signal is enough.
			select {
			case mw.changed <- struct{}{}:
			default:
			}
		case err, ok := <-mw.watcher.Errors:
			if !ok {
				return
			}
			mw.log.Warn("file watcher error", zap.Error(err))
		}
	}
}

// Changed delivers a value after the file changed.
func (mw *meshWatcher) Changed() <-chan struct{} {
	return mw.changed
}

// Close stops the watcher and waits for its goroutine.
func (mw *meshWatcher) Close() error {
	err := mw.watcher.Close()
	<-mw.done
	return err
}
