package system

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"github.com/dmitrijs2005/biztoolkit/internal/logging"
	"github.com/fsnotify/fsnotify"
	"gopkg.in/yaml.v3"
)

// Appearance is the content of an appearance file:
//
//	reduced_motion: true
//	color_scheme: dark
type Appearance struct {
	ReducedMotion bool   `yaml:"reduced_motion"`
	ColorScheme   string `yaml:"color_scheme"`
}

func (a Appearance) dark() bool {
	return a.ColorScheme == "dark"
}

// ReadAppearance parses the appearance file at path. A missing file is the
// zero Appearance.
func ReadAppearance(path string) (Appearance, error) {
	b, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return Appearance{}, nil
	}
	if err != nil {
		return Appearance{}, err
	}

	var a Appearance
	if err := yaml.Unmarshal(b, &a); err != nil {
		return Appearance{}, fmt.Errorf("parse %s: %w", path, err)
	}
	switch a.ColorScheme {
	case "", "light", "dark":
	default:
		return Appearance{}, fmt.Errorf("parse %s: unknown color_scheme %q", path, a.ColorScheme)
	}
	return a, nil
}

// FileEnvironment mirrors an appearance file into media queries and
// follows changes to it.
type FileEnvironment struct {
	*StaticEnvironment

	path    string
	logger  logging.Logger
	watcher *fsnotify.Watcher

	stopCh    chan struct{}
	doneCh    chan struct{}
	closeOnce sync.Once
}

// NewFileEnvironment loads path and starts watching it. The directory must
// exist; the file itself may appear later.
func NewFileEnvironment(path string, logger logging.Logger) (*FileEnvironment, error) {
	if logger == nil {
		logger = logging.Nop()
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}

	a, err := ReadAppearance(abs)
	if err != nil {
		return nil, err
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	// editors replace files by rename, so watch the directory
	if err := watcher.Add(filepath.Dir(abs)); err != nil {
		_ = watcher.Close()
		return nil, fmt.Errorf("watch %s: %w", filepath.Dir(abs), err)
	}

	e := &FileEnvironment{
		StaticEnvironment: NewStaticEnvironment(),
		path:              abs,
		logger:            logger,
		watcher:           watcher,
		stopCh:            make(chan struct{}),
		doneCh:            make(chan struct{}),
	}
	e.apply(a)

	go e.run()
	return e, nil
}

// Close stops watching and waits for the watcher goroutine to exit.
func (e *FileEnvironment) Close() error {
	var err error
	e.closeOnce.Do(func() {
		close(e.stopCh)
		<-e.doneCh
		err = e.watcher.Close()
	})
	return err
}

func (e *FileEnvironment) apply(a Appearance) {
	e.Set(QueryReducedMotion, a.ReducedMotion)
	e.Set(QueryDarkScheme, a.dark())
}

func (e *FileEnvironment) run() {
	defer close(e.doneCh)
	ctx := context.Background()

	for {
		select {
		case <-e.stopCh:
			return

		case event, ok := <-e.watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != e.path {
				continue
			}
			if !event.Has(fsnotify.Create) && !event.Has(fsnotify.Write) &&
				!event.Has(fsnotify.Remove) && !event.Has(fsnotify.Rename) {
				continue
			}
			e.reload(ctx)

		case err, ok := <-e.watcher.Errors:
			if !ok {
				return
			}
			e.logger.Error(ctx, "appearance watcher error", "error", err)
		}
	}
}

func (e *FileEnvironment) reload(ctx context.Context) {
	a, err := ReadAppearance(e.path)
	if err != nil {
		// keep the last good values while the file is half written or broken
		e.logger.Warn(ctx, "ignoring appearance file", "path", e.path, "error", err)
		return
	}
	e.logger.Debug(ctx, "appearance changed", "reduced_motion", a.ReducedMotion, "color_scheme", a.ColorScheme)
	e.apply(a)
}
