// ============================================================================
// venn - Mengenalgebra für interaktive Statistik-Visualisierungen
// ============================================================================
//
// Package:     exercise
// Description: YAML exercise loader with hot-reload support
// Author:      Mike Stoffels
// Created:     2026-09-30
// License:     MIT
// ============================================================================

package exercise

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/msto63/venn/pkg/core/logging"
	"gopkg.in/yaml.v3"
)

// debounceDelay is how long a file must be quiet before it is reloaded
const debounceDelay = 200 * time.Millisecond

// Loader loads exercise definitions from a directory into a Registry and
// keeps them in sync with the files
type Loader struct {
	dir      string
	registry *Registry
	logger   *logging.Logger
	onChange func(id string) // called after an exercise was loaded, replaced or removed
}

// NewLoader creates a new exercise loader
func NewLoader(dir string, registry *Registry) *Loader {
	return &Loader{
		dir:      dir,
		registry: registry,
		logger:   logging.New("exercise-loader"),
	}
}

// SetOnChange sets the callback invoked when an exercise changes
func (l *Loader) SetOnChange(fn func(id string)) {
	l.onChange = fn
}

// Dir returns the exercises directory
func (l *Loader) Dir() string {
	return l.dir
}

// LoadAll loads all YAML files from the directory. Invalid files are
// logged and skipped; a missing directory is not an error.
func (l *Loader) LoadAll() (int, error) {
	if _, err := os.Stat(l.dir); os.IsNotExist(err) {
		l.logger.Info("Exercise directory does not exist, using built-in exercises only", "dir", l.dir)
		return 0, nil
	}

	files, err := filepath.Glob(filepath.Join(l.dir, "*.yaml"))
	if err != nil {
		return 0, fmt.Errorf("failed to list exercise files: %w", err)
	}
	ymlFiles, _ := filepath.Glob(filepath.Join(l.dir, "*.yml"))
	files = append(files, ymlFiles...)

	loaded := 0
	for _, file := range files {
		e, err := LoadFile(file)
		if err != nil {
			l.logger.Warn("Failed to load exercise file", "file", file, "error", err)
			continue
		}

		l.registry.Put(e)
		loaded++
		l.logger.Info("Exercise loaded", "id", e.ID, "title", e.Title, "file", filepath.Base(file))
	}

	l.logger.Info("Exercises loaded from directory", "count", loaded, "dir", l.dir)
	return loaded, nil
}

// LoadFile reads, defaults and validates a single exercise file
func LoadFile(path string) (*Exercise, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}

	e, err := Decode(data)
	if err != nil {
		return nil, err
	}

	e.SourceFile = path
	e.LoadedAt = time.Now()
	return e, nil
}

// Decode parses and validates an exercise from YAML
func Decode(data []byte) (*Exercise, error) {
	var e Exercise
	if err := unmarshal(data, &e); err != nil {
		return nil, err
	}

	e.Defaults()

	if err := e.Validate(); err != nil {
		return nil, err
	}
	return &e, nil
}

// unmarshal decodes YAML; out-of-range set elements keep their
// ErrInvalidExercise classification
func unmarshal(data []byte, e *Exercise) error {
	err := yaml.Unmarshal(data, e)
	switch {
	case err == nil:
		return nil
	case errors.Is(err, ErrInvalidExercise):
		return err
	default:
		return fmt.Errorf("%w: %v", ErrInvalidYAML, err)
	}
}

// CheckFile reads an exercise file like LoadFile but reports the outcome of
// every example instead of rejecting the file at the first mismatch
func CheckFile(path string) (*Exercise, []ExampleResult, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read file: %w", err)
	}

	var e Exercise
	if err := unmarshal(data, &e); err != nil {
		return nil, nil, err
	}
	e.Defaults()

	if err := e.validateDefinition(); err != nil {
		return nil, nil, err
	}
	e.SourceFile = path
	return &e, e.CheckExamples(), nil
}

// Watch reloads exercises as files change until ctx is cancelled. It
// blocks; run it in its own goroutine.
func (l *Loader) Watch(ctx context.Context) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	defer watcher.Close()

	if err := watcher.Add(l.dir); err != nil {
		return fmt.Errorf("failed to watch directory: %w", err)
	}

	l.logger.Info("Started watching for exercise changes", "dir", l.dir)

	// Writes are reloaded once the file has been quiet for debounceDelay,
	// so an editor's create+write sequence yields one reload of the final
	// content.
	pending := make(map[string]*time.Timer)
	reload := make(chan string)
	defer func() {
		for _, timer := range pending {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			l.logger.Info("Stopping exercise watcher")
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !isYAMLFile(event.Name) {
				continue
			}

			name := event.Name
			if timer, exists := pending[name]; exists {
				timer.Stop()
				delete(pending, name)
			}

			switch {
			case event.Op&(fsnotify.Create|fsnotify.Write) != 0:
				pending[name] = time.AfterFunc(debounceDelay, func() {
					select {
					case reload <- name:
					case <-ctx.Done():
					}
				})
			case event.Op&(fsnotify.Remove|fsnotify.Rename) != 0:
				l.handleRemove(name)
			}

		case name := <-reload:
			delete(pending, name)
			l.handleReload(name)

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			l.logger.Error("Watcher error", "error", err)
		}
	}
}

// handleReload loads a created or modified file
func (l *Loader) handleReload(path string) {
	fileName := filepath.Base(path)

	e, err := LoadFile(path)
	if err != nil {
		l.logger.Error("Failed to reload exercise", "file", fileName, "error", err)
		return
	}

	// The id inside a file may have changed
	if prev, ok := l.registry.removeSource(path); ok && prev != e.ID {
		l.notify(prev)
	}
	l.registry.Put(e)
	l.logger.Info("Exercise reloaded", "id", e.ID, "file", fileName)
	l.notify(e.ID)
}

// handleRemove drops the exercise loaded from a deleted or renamed file
func (l *Loader) handleRemove(path string) {
	if id, ok := l.registry.removeSource(path); ok {
		l.logger.Info("Exercise removed", "id", id, "file", filepath.Base(path))
		l.notify(id)
	}
}

func (l *Loader) notify(id string) {
	if l.onChange != nil {
		l.onChange(id)
	}
}

func isYAMLFile(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	return ext == ".yaml" || ext == ".yml"
}

// IsNotFound reports whether err means an unknown exercise
func IsNotFound(err error) bool {
	return errors.Is(err, ErrExerciseNotFound)
}
