package scssbuild

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/afero"
)

// WatchDebounce is how long Watch waits after the last change before rebuilding.
var WatchDebounce = 100 * time.Millisecond

// Watch builds once, then rebuilds whenever a stylesheet under the asset
// directory or a load path changes. Partial directories are watched too.
// Every build result is passed to onBuild. Watch returns when ctx is done.
func Watch(ctx context.Context, config Config, onBuild func(*BuildResult, error)) error {
	if config.Fs != nil {
		if _, ok := config.Fs.(*afero.OsFs); !ok {
			return errors.New("watch requires the OS filesystem")
		}
	}
	config = withDefaults(config)
	log := config.Logger.With().Str("component", "watch").Logger()

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer w.Close()

	for _, root := range append([]string{config.AssetDir}, config.LoadPaths...) {
		if err := watchTree(config.Fs, w, root); err != nil {
			return err
		}
	}

	onBuild(Build(config))

	timer := time.NewTimer(time.Hour)
	timer.Stop()
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if ev.Has(fsnotify.Create) {
				if info, err := os.Stat(ev.Name); err == nil && info.IsDir() {
					if err := watchTree(config.Fs, w, ev.Name); err != nil {
						log.Warn().Err(err).Str("dir", ev.Name).Msg("cannot watch new directory")
					}
				}
			}
			if !triggersRebuild(ev, config.OutputDir) {
				continue
			}
			log.Debug().Str("path", ev.Name).Str("op", ev.Op.String()).Msg("change detected")
			timer.Reset(WatchDebounce)
		case <-timer.C:
			log.Info().Msg("rebuilding stylesheets")
			onBuild(Build(config))
		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			log.Error().Err(err).Msg("watcher error")
		}
	}
}

// watchTree adds root and every directory below it. A missing root is skipped.
func watchTree(fsys afero.Fs, w *fsnotify.Watcher, root string) error {
	if _, err := fsys.Stat(root); os.IsNotExist(err) {
		return nil
	}
	err := afero.Walk(fsys, root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if !info.IsDir() {
			return nil
		}
		return w.Add(path)
	})
	if err != nil {
		return fmt.Errorf("watch %s: %w", root, err)
	}
	return nil
}

// triggersRebuild ignores attribute changes, writes into the output tree and
// files that are not stylesheets. Extensionless paths may be directories.
func triggersRebuild(ev fsnotify.Event, outputDir string) bool {
	if ev.Op == fsnotify.Chmod {
		return false
	}
	if outputDir != "" {
		if rel, err := filepath.Rel(outputDir, ev.Name); err == nil && !strings.HasPrefix(rel, "..") {
			return false
		}
	}
	switch filepath.Ext(ev.Name) {
	case "", ".scss", ".sass", ".css":
		return true
	}
	return false
}
