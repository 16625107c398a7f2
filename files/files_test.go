package files

import (
	"errors"
	"io/fs"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOSWriteCreatesDirectories(t *testing.T) {
	root := t.TempDir()
	o := OS{Root: root}

	require.NoError(t, o.WriteAll(filepath.Join("nested", "dir", "scene.json"), []byte("{}")))
	data, err := o.ReadAll("nested/dir/scene.json")
	require.NoError(t, err)
	assert.Equal(t, "{}", string(data))
}

func TestOSReadMissingIsNotExist(t *testing.T) {
	o := OS{Root: t.TempDir()}
	_, err := o.ReadAll("missing.json")
	require.Error(t, err)
	assert.True(t, errors.Is(err, fs.ErrNotExist))
}

func TestMemoryCopiesData(t *testing.T) {
	m := NewMemory()
	buf := []byte("abc")
	require.NoError(t, m.WriteAll("./a.txt", buf))
	buf[0] = 'x'

	got, err := m.ReadAll("a.txt")
	require.NoError(t, err)
	assert.Equal(t, "abc", string(got))
	assert.Equal(t, []string{"a.txt"}, m.Paths())

	_, err = m.ReadAll("b.txt")
	assert.True(t, errors.Is(err, fs.ErrNotExist))
}
