package settings

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog"
	"gopkg.in/yaml.v3"
)

// snapshot is the on-disk layout:
//
//	users:
//	  1000:
//	    status_bar_battery_status_percent_style: 1
type snapshot struct {
	Users map[int]map[string]int `yaml:"users"`
}

func (s snapshot) get(user int, key string) (int, bool) {
	v, ok := s.Users[user][key]
	return v, ok
}

// changedKeys lists the keys whose value differs for any user, sorted.
func changedKeys(a, b snapshot) []string {
	seen := map[string]bool{}
	compare := func(x, y snapshot) {
		for user, values := range x.Users {
			for key, v := range values {
				if w, ok := y.get(user, key); !ok || w != v {
					seen[key] = true
				}
			}
		}
	}
	compare(a, b)
	compare(b, a)

	keys := make([]string, 0, len(seen))
	for k := range seen {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// File is a Store persisted as yaml. Run watches the file and notifies
// watchers of every key whose value changed on disk.
type File struct {
	path     string
	dispatch func(func())
	log      zerolog.Logger

	mu   sync.RWMutex
	snap snapshot
	obs  observers
}

// FileOption configures a File.
type FileOption func(*File)

// WithDispatcher routes change notifications through dispatch, typically
// onto the UI thread.
func WithDispatcher(dispatch func(func())) FileOption {
	return func(f *File) { f.dispatch = dispatch }
}

// WithLogger sets the logger used for reload diagnostics.
func WithLogger(log zerolog.Logger) FileOption {
	return func(f *File) { f.log = log }
}

// OpenFile loads path. A missing file is an empty store.
func OpenFile(path string, opts ...FileOption) (*File, error) {
	f := &File{
		path:     path,
		dispatch: func(fn func()) { fn() },
		log:      zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(f)
	}

	snap, err := f.read()
	if err != nil {
		return nil, err
	}
	f.snap = snap
	return f, nil
}

// Path returns the backing file.
func (f *File) Path() string { return f.path }

func (f *File) read() (snapshot, error) {
	snap := snapshot{Users: map[int]map[string]int{}}
	data, err := os.ReadFile(f.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return snap, nil
		}
		return snap, err
	}
	if err := yaml.Unmarshal(data, &snap); err != nil {
		return snap, fmt.Errorf("parse %s: %w", f.path, err)
	}
	if snap.Users == nil {
		snap.Users = map[int]map[string]int{}
	}
	return snap, nil
}

func (f *File) Int(key string, def int, user int) int {
	f.mu.RLock()
	defer f.mu.RUnlock()
	if v, ok := f.snap.get(user, key); ok {
		return v
	}
	return def
}

// Lookup returns the stored value and whether one exists.
func (f *File) Lookup(key string, user int) (int, bool) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.snap.get(user, key)
}

func (f *File) Watch(uri URI, fn func(URI)) func() {
	return f.obs.add(uri, fn)
}

// Put stores value for user, writes the file and notifies the watchers of key.
func (f *File) Put(user int, key string, value int) error {
	if !Known(key) {
		return fmt.Errorf("%w: %q", ErrUnknownKey, key)
	}
	f.mu.Lock()
	if f.snap.Users[user] == nil {
		f.snap.Users[user] = map[string]int{}
	}
	f.snap.Users[user][key] = value
	data, err := yaml.Marshal(f.snap)
	f.mu.Unlock()
	if err != nil {
		return err
	}

	if err := writeAtomic(f.path, data); err != nil {
		return fmt.Errorf("write %s: %w", f.path, err)
	}
	uri := URIFor(key)
	f.dispatch(func() { f.obs.notify(uri) })
	return nil
}

func writeAtomic(path string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	tmp, err := os.CreateTemp(filepath.Dir(path), ".settings-*.yaml")
	if err != nil {
		return err
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return err
	}
	return os.Rename(tmp.Name(), path)
}

// reload re-reads the file and returns the keys that changed. A parse error
// keeps the previous snapshot.
func (f *File) reload() ([]string, error) {
	next, err := f.read()
	if err != nil {
		return nil, err
	}

	f.mu.Lock()
	prev := f.snap
	f.snap = next
	f.mu.Unlock()

	return changedKeys(prev, next), nil
}

// Run watches the directory holding the file until ctx is done. The
// directory is watched rather than the file so editors that replace the file
// by rename keep being observed.
func (f *File) Run(ctx context.Context) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer w.Close()

	dir := filepath.Dir(f.path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}
	if err := w.Add(dir); err != nil {
		return fmt.Errorf("watch %s: %w", dir, err)
	}
	f.log.Debug().Str("file", f.path).Msg("watching settings")

	for {
		select {
		case <-ctx.Done():
			return nil
		case e, ok := <-w.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(e.Name) != filepath.Clean(f.path) {
				continue
			}
			if !e.Has(fsnotify.Write) && !e.Has(fsnotify.Create) && !e.Has(fsnotify.Rename) && !e.Has(fsnotify.Remove) {
				continue
			}
			f.log.Debug().Str("op", e.Op.String()).Msg("settings file changed")
			keys, err := f.reload()
			if err != nil {
				f.log.Warn().Err(err).Msg("failed to reload settings")
				continue
			}
			for _, key := range keys {
				uri := URIFor(key)
				f.dispatch(func() { f.obs.notify(uri) })
			}
		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			f.log.Warn().Err(err).Msg("settings watcher error")
		}
	}
}
