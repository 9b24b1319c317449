package cli

import (
	"context"
	"io/fs"
	"os"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/toyz/mvcgen/internal/errors"
	"github.com/toyz/mvcgen/internal/parser"
	"github.com/toyz/mvcgen/internal/utils"
)

// BuildFunc runs one build. Its error is reported, never fatal to watching.
type BuildFunc func(ctx context.Context) error

// Watcher rebuilds whenever a Go source file under the watched patterns
// changes. Bursts of events within the debounce window trigger one build.
type Watcher struct {
	scanner     *DirectoryScanner
	debounce    time.Duration
	diagnostics *utils.DiagnosticSystem
	build       BuildFunc
}

// NewWatcher creates a watcher calling build after each debounced change
func NewWatcher(debounce time.Duration, diagnostics *utils.DiagnosticSystem, build BuildFunc) *Watcher {
	return &Watcher{
		scanner:     NewDirectoryScanner(),
		debounce:    debounce,
		diagnostics: diagnostics,
		build:       build,
	}
}

// Watch builds once, then keeps rebuilding until ctx is done
func (w *Watcher) Watch(ctx context.Context, patterns []string) error {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return errors.WrapFileSystemError("watch", strings.Join(patterns, " "), err)
	}
	defer fw.Close()

	dirs, err := w.scanner.ScanDirectories(patterns)
	if err != nil {
		return err
	}
	for _, dir := range dirs {
		if err := fw.Add(dir); err != nil {
			return errors.WrapFileSystemError("watch", dir, err)
		}
		w.diagnostics.Debug("watching %s", dir)
	}
	w.diagnostics.Info("watching %d directories", len(dirs))

	w.rebuild(ctx)

	var fire <-chan time.Time
	for {
		select {
		case <-ctx.Done():
			return nil

		case ev, ok := <-fw.Events:
			if !ok {
				return nil
			}
			if ev.Has(fsnotify.Create) && watchableDir(ev.Name) {
				if err := fw.Add(ev.Name); err != nil {
					w.diagnostics.Warn("cannot watch %s: %v", ev.Name, err)
				}
				continue
			}
			if !relevant(ev) {
				continue
			}
			w.diagnostics.Debug("%s %s", ev.Op, ev.Name)
			fire = time.After(w.debounce)

		case err, ok := <-fw.Errors:
			if !ok {
				return nil
			}
			w.diagnostics.Warn("watch error: %v", err)

		case <-fire:
			fire = nil
			w.rebuild(ctx)
		}
	}
}

func (w *Watcher) rebuild(ctx context.Context) {
	if err := w.build(ctx); err != nil {
		w.diagnostics.Error("%v", err)
	}
}

// relevant reports whether an event touches a hand-written Go file
func relevant(ev fsnotify.Event) bool {
	if ev.Op == fsnotify.Chmod {
		return false
	}
	name := ev.Name
	return strings.HasSuffix(name, ".go") && !parser.IsGeneratedFile(name)
}

// watchableDir reports whether path is a directory the scanner would visit
func watchableDir(path string) bool {
	info, err := os.Stat(path)
	if err != nil || !info.IsDir() {
		return false
	}
	return utils.DefaultDirectoryFilter()(path, fs.FileInfoToDirEntry(info))
}
