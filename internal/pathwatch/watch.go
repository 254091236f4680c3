// Package pathwatch provides file system change notifications.
package pathwatch

import (
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/pkg/errors"
)

// A Watcher keeps track of a set of paths and sends notifications on user-provided
// channels whenever the file or directory at one of them changes in any way.
// The specific nature of the change is not reported; it is up to the user to determine
// what happened. Watching a directory also reports changes to the files directly inside it.
//
// Notifications are sent without blocking: if an observer's channel is full, the
// notification is dropped, so a channel with a buffer of one coalesces bursts of changes.
//
// Paths whose directory does not exist yet are polled until it does.
//
// Any errors that the Watcher encounters while monitoring the paths are delivered on the
// channel returned by Error.
type Watcher struct {
	fs      *fsnotify.Watcher
	files   map[string]*watchedPath
	dirs    map[string]int // reference counts of the directories watched through fs
	errors  chan error
	control chan func()
}

type watchedPath struct {
	observers []chan<- struct{}
	// dir is the directory watched for this path, or empty if the path is polled.
	dir      string
	lastInfo os.FileInfo
}

// NewWatcher starts a new watcher.
// When no longer in use, the user should call Close to release resources associated with it.
func NewWatcher() (*Watcher, error) {
	fs, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, errors.Wrap(err, "pathwatch")
	}
	w := &Watcher{
		fs:      fs,
		files:   map[string]*watchedPath{},
		dirs:    map[string]int{},
		errors:  make(chan error, 10),
		control: make(chan func(), 10),
	}
	go w.run()
	return w, nil
}

// Normally we don't want a notification when we add a file, since it's redundant,
// but for testing we need it in order to be able to reliably detect modifications without
// races.
var notifyOnAdd = false

// Add begins sending change notifications for a path on the given channel.
// Multiple calls to Add for the same path, but different channels, are permitted;
// in that case, the notifications will be sent on all of them.
func (w *Watcher) Add(path string, ch chan<- struct{}) {
	path = filepath.Clean(path)
	w.control <- func() {
		wp, ok := w.files[path]
		if !ok {
			wp = &watchedPath{}
			w.files[path] = wp
			w.track(path, wp)
		}
		wp.observers = append(wp.observers, ch)
		if notifyOnAdd {
			ch <- struct{}{}
		}
	}
}

// Remove stops sending change notifications for a path on the given channel.
// It does not cancel other calls to Add made for the same path, but different
// channels.
func (w *Watcher) Remove(path string, ch chan<- struct{}) {
	path = filepath.Clean(path)
	w.control <- func() {
		wp, ok := w.files[path]
		if !ok {
			return
		}
		for i, ob := range wp.observers {
			if ob != ch {
				continue
			}
			if len(wp.observers) == 1 {
				delete(w.files, path)
				w.releaseDir(wp.dir)
			} else {
				n := len(wp.observers) - 1
				wp.observers[i] = wp.observers[n]
				wp.observers = wp.observers[:n]
			}
			return
		}
	}
}

// Errors returns a channel on which the Watcher delivers errors it encounters.
func (w *Watcher) Errors() <-chan error { return w.errors }

// Close stops delivering change notifications for any paths and releases all resources
// associated with the watcher.
func (w *Watcher) Close() { w.control <- nil }

// track starts watching the directory of path, or path itself if it is a directory.
// If that fails, path is polled.
func (w *Watcher) track(path string, wp *watchedPath) {
	dir := path
	if info, err := os.Stat(path); err != nil || !info.IsDir() {
		dir = filepath.Dir(path)
	}
	if err := w.addDir(dir); err != nil {
		wp.dir = ""
		wp.lastInfo, _ = os.Stat(path)
		return
	}
	wp.dir = dir
}

func (w *Watcher) addDir(dir string) error {
	if w.dirs[dir] == 0 {
		if err := w.fs.Add(dir); err != nil {
			return err
		}
	}
	w.dirs[dir]++
	return nil
}

func (w *Watcher) releaseDir(dir string) {
	if dir == "" {
		return
	}
	w.dirs[dir]--
	if w.dirs[dir] <= 0 {
		delete(w.dirs, dir)
		// The watch is already gone if the directory was deleted.
		_ = w.fs.Remove(dir)
	}
}

func (w *Watcher) run() {
	tick := time.NewTicker(time.Second / 8)
	defer tick.Stop()
	for {
		select {
		case ev, ok := <-w.fs.Events:
			if !ok {
				return
			}
			w.dispatch(ev)
		case err, ok := <-w.fs.Errors:
			if !ok {
				return
			}
			w.sendError(err)
		case <-tick.C:
			w.poll()
		case f := <-w.control:
			if f == nil {
				if err := w.fs.Close(); err != nil {
					w.sendError(err)
				}
				return
			}
			f()
		}
	}
}

func (w *Watcher) dispatch(ev fsnotify.Event) {
	if ev.Op == fsnotify.Chmod {
		return
	}
	name := filepath.Clean(ev.Name)
	for path, wp := range w.files {
		if wp.dir == "" {
			continue
		}
		switch {
		case name == path:
		case path == wp.dir && filepath.Dir(name) == path:
		case name == wp.dir:
		default:
			continue
		}
		notify(wp)
		if name == wp.dir && ev.Op&(fsnotify.Remove|fsnotify.Rename) != 0 {
			// The directory is gone, and its watch with it.
			delete(w.dirs, wp.dir)
			wp.dir = ""
			wp.lastInfo, _ = os.Stat(path)
		}
	}
}

// poll checks the paths that could not be watched directly, and moves them over to a
// directory watch once their directory exists.
func (w *Watcher) poll() {
	for path, wp := range w.files {
		if wp.dir != "" {
			continue
		}
		info, err := os.Stat(path)
		if err != nil && !os.IsNotExist(err) {
			w.sendError(err)
			continue
		}
		if !fileInfoEqual(wp.lastInfo, info) {
			notify(wp)
			wp.lastInfo = info
		}
		w.track(path, wp)
	}
}

func notify(wp *watchedPath) {
	for _, ob := range wp.observers {
		select {
		case ob <- struct{}{}:
		default:
		}
	}
}

func (w *Watcher) sendError(err error) {
	select {
	case w.errors <- errors.Wrap(err, "pathwatch"):
	default:
	}
}

func fileInfoEqual(a, b os.FileInfo) bool {
	if a == nil && b == nil {
		return true
	}
	if a == nil || b == nil {
		return false
	}
	return a.ModTime().Equal(b.ModTime()) && a.Size() == b.Size()
}
