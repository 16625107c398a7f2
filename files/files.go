// Package files is the read/write boundary used for manifests, scenes,
// shader sources, meshes, and textures.
package files

import (
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"github.com/pkg/errors"
)

type FS interface {
	ReadAll(path string) ([]byte, error)
	WriteAll(path string, data []byte) error
}

// OS resolves relative paths against Root. An empty Root means the
// working directory.
type OS struct {
	Root string
}

func (o OS) resolve(path string) string {
	if o.Root == "" || filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(o.Root, path)
}

func (o OS) ReadAll(path string) ([]byte, error) {
	data, err := os.ReadFile(o.resolve(path))
	if err != nil {
		return nil, errors.Wrapf(err, "read %s", path)
	}
	return data, nil
}

// WriteAll creates parent directories as needed.
func (o OS) WriteAll(path string, data []byte) error {
	full := o.resolve(path)
	if dir := filepath.Dir(full); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return errors.Wrapf(err, "create directory for %s", path)
		}
	}
	if err := os.WriteFile(full, data, 0o644); err != nil {
		return errors.Wrapf(err, "write %s", path)
	}
	return nil
}

// Memory is an in-process FS. The zero value is ready to use.
type Memory struct {
	mu    sync.Mutex
	files map[string][]byte
}

func NewMemory() *Memory {
	return &Memory{files: make(map[string][]byte)}
}

func (m *Memory) ReadAll(path string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	data, ok := m.files[filepath.Clean(path)]
	if !ok {
		return nil, errors.Wrapf(fs.ErrNotExist, "read %s", path)
	}
	return append([]byte(nil), data...), nil
}

func (m *Memory) WriteAll(path string, data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.files == nil {
		m.files = make(map[string][]byte)
	}
	m.files[filepath.Clean(path)] = append([]byte(nil), data...)
	return nil
}

// Paths lists stored paths in sorted order.
func (m *Memory) Paths() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]string, 0, len(m.files))
	for p := range m.files {
		out = append(out, p)
	}
	sort.Strings(out)
	return out
}
