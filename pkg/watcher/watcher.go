package watcher

import (
	"log"

	"github.com/fsnotify/fsnotify"
	"github.com/pkg/errors"
)

type Loader interface {
	Load(path string) error
}

// Watcher reloads a file through the loader whenever it changes on disk.
type Watcher struct {
	stop chan struct{}
	done chan error
}

func LoadAndWatch(path string, loader Loader) (*Watcher, error) {
	err := loader.Load(path)
	if err != nil {
		return nil, errors.Wrap(err, "failed to load file")
	}
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, errors.Wrap(err, "failed to create watcher")
	}
	err = fsw.Add(path)
	if err != nil {
		return nil, errors.Wrap(err, "failed to add file to watcher")
	}
	stop := make(chan struct{})
	done := make(chan error)
	go func() {
		for {
			select {
			case event := <-fsw.Events:
				// editors either write in place or replace the file
				if event.Op&(fsnotify.Write|fsnotify.Create) != 0 {
					if err := loader.Load(path); err != nil {
						log.Println(errors.Wrap(err, "failed to reload file"))
					}
				}
			case err := <-fsw.Errors:
				log.Println(errors.Wrap(err, "failed to watch file"))
			case <-stop:
				done <- fsw.Close()
				return
			}
		}
	}()
	return &Watcher{stop: stop, done: done}, nil
}

func (w *Watcher) Close() error {
	close(w.stop)
	return <-w.done
}
