package config

import (
	"bytes"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"sync"

	"github.com/fsnotify/fsnotify"
)

// Watcher watches a config file for changes and reloads it.
// Only logging settings and the driver tick interval take effect live;
// changes to anything else are reported as needing a restart.
type Watcher struct {
	path     string
	config   *Config
	mu       sync.RWMutex
	watcher  *fsnotify.Watcher
	onChange func(*Config)
	done     chan struct{}
}

// NewWatcher loads and validates the file at path, then watches it.
func NewWatcher(path string, onChange func(*Config)) (*Watcher, error) {
	cfg, err := Load(path)
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	fsWatcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}

	w := &Watcher{
		path:     path,
		config:   cfg,
		watcher:  fsWatcher,
		onChange: onChange,
		done:     make(chan struct{}),
	}

	// Watch the directory so editors that replace the file are still seen.
	dir := filepath.Dir(path)
	if err := fsWatcher.Add(dir); err != nil {
		fsWatcher.Close()
		return nil, fmt.Errorf("watch %s: %w", dir, err)
	}

	go w.watch()

	return w, nil
}

// Config returns the current configuration.
func (w *Watcher) Config() *Config {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.config
}

func (w *Watcher) watch() {
	filename := filepath.Base(w.path)

	for {
		select {
		case <-w.done:
			return
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if filepath.Base(event.Name) != filename {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create) != 0 {
				w.reload()
			}
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			slog.Warn("config watcher error", slog.String("error", err.Error()))
		}
	}
}

func (w *Watcher) reload() {
	data, err := os.ReadFile(w.path)
	if err != nil {
		slog.Error("failed to read config",
			slog.String("path", w.path),
			slog.String("error", err.Error()),
		)
		return
	}
	// Writers truncate before writing; the empty file is not a new config.
	if len(bytes.TrimSpace(data)) == 0 {
		slog.Debug("ignoring empty config file", slog.String("path", w.path))
		return
	}

	cfg, err := parse(data)
	if err != nil {
		slog.Error("failed to reload config",
			slog.String("path", w.path),
			slog.String("error", err.Error()),
		)
		return
	}

	if err := cfg.Validate(); err != nil {
		slog.Error("invalid config after reload",
			slog.String("path", w.path),
			slog.String("error", err.Error()),
		)
		return
	}

	w.mu.Lock()
	prev := w.config
	w.config = cfg
	w.mu.Unlock()

	if fields := RestartRequired(prev, cfg); len(fields) > 0 {
		slog.Warn("config changes need a restart to apply",
			slog.Any("fields", fields),
		)
	}
	slog.Info("config reloaded", slog.String("path", w.path))

	if w.onChange != nil {
		w.onChange(cfg)
	}
}

// RestartRequired lists the settings that differ between prev and next
// but are only read at startup.
func RestartRequired(prev, next *Config) []string {
	var fields []string
	if prev.HTTP.Listen != next.HTTP.Listen {
		fields = append(fields, "http.listen")
	}
	if prev.HTTP.StaticDir != next.HTTP.StaticDir {
		fields = append(fields, "http.static_dir")
	}
	if !slices.Equal(prev.HTTP.StaticExclude, next.HTTP.StaticExclude) {
		fields = append(fields, "http.static_exclude")
	}
	if !slices.Equal(prev.HTTP.CORSOrigins, next.HTTP.CORSOrigins) {
		fields = append(fields, "http.cors_origins")
	}
	if prev.Driver.Mode != next.Driver.Mode {
		fields = append(fields, "driver.mode")
	}
	if prev.Clock != next.Clock {
		fields = append(fields, "clock")
	}
	if prev.MCP != next.MCP {
		fields = append(fields, "mcp")
	}
	return fields
}

// Close stops watching and cleans up.
func (w *Watcher) Close() error {
	close(w.done)
	return w.watcher.Close()
}
