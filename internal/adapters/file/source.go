package file

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"gopkg.in/yaml.v3"
)

// Source implements ports.CatalogSource by reading a JSON or YAML file.
// The format is chosen by extension: .yaml and .yml decode as YAML, anything else as JSON.
type Source struct {
	Path string
	// Debounce coalesces bursts of write events into one Watch signal.
	Debounce time.Duration
}

// NewSource creates a Source for path.
func NewSource(path string) *Source {
	return &Source{Path: path, Debounce: 100 * time.Millisecond}
}

// Load reads and decodes the file.
func (s *Source) Load(ctx context.Context) (any, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(s.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog file: %w", err)
	}
	return Decode(s.Path, data)
}

// Decode parses data as YAML or JSON depending on the extension of name.
func Decode(name string, data []byte) (any, error) {
	var doc any
	switch strings.ToLower(filepath.Ext(name)) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &doc); err != nil {
			return nil, fmt.Errorf("failed to parse yaml catalog %s: %w", name, err)
		}
	default:
		if err := json.Unmarshal(data, &doc); err != nil {
			return nil, fmt.Errorf("failed to parse json catalog %s: %w", name, err)
		}
	}
	return doc, nil
}

// Watch signals when the file is written, created or replaced.
// The parent directory is watched so editors that save via rename are detected.
func (s *Source) Watch(ctx context.Context) (<-chan struct{}, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create watcher: %w", err)
	}
	abs, err := filepath.Abs(s.Path)
	if err != nil {
		_ = watcher.Close()
		return nil, err
	}
	if err := watcher.Add(filepath.Dir(abs)); err != nil {
		_ = watcher.Close()
		return nil, fmt.Errorf("failed to watch %s: %w", filepath.Dir(abs), err)
	}

	ch := make(chan struct{}, 1)
	go func() {
		defer close(ch)
		defer watcher.Close()

		var pending <-chan time.Time
		for {
			select {
			case <-ctx.Done():
				return
			case ev, ok := <-watcher.Events:
				if !ok {
					return
				}
				if filepath.Clean(ev.Name) != abs {
					continue
				}
				if ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
					continue
				}
				pending = time.After(s.Debounce)
			case <-pending:
				pending = nil
				select {
				case ch <- struct{}{}:
				default:
				}
			case _, ok := <-watcher.Errors:
				if !ok {
					return
				}
			}
		}
	}()
	return ch, nil
}
