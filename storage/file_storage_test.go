package storage

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"task-management-backend/utils"
)

func TestSaveAndRemove(t *testing.T) {
	fs, err := NewFileStorage(filepath.Join(t.TempDir(), "uploads"), PDFExtensions...)
	require.NoError(t, err)

	name, err := fs.Save(strings.NewReader("%PDF-1.4"), "../../etc/Tugas 1.PDF")
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(name, ".pdf"))
	assert.NotContains(t, name, "/")
	assert.NotContains(t, name, "Tugas")
	assert.True(t, fs.Exists(name))

	data, err := os.ReadFile(fs.Path(name))
	require.NoError(t, err)
	assert.Equal(t, "%PDF-1.4", string(data))

	fs.Remove(name)
	assert.False(t, fs.Exists(name))

	// hapus kedua kali tidak panic / tidak error
	fs.Remove(name)
	fs.Remove("")
}

func TestSaveRejectsExtension(t *testing.T) {
	fs, err := NewFileStorage(t.TempDir(), ImageExtensions...)
	require.NoError(t, err)

	_, err = fs.Save(strings.NewReader("x"), "malware.exe")
	assert.True(t, utils.IsKind(err, utils.KindBadRequest))

	entries, err := os.ReadDir(fs.Dir())
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestSaveGeneratesDistinctNames(t *testing.T) {
	fs, err := NewFileStorage(t.TempDir())
	require.NoError(t, err)

	seen := map[string]bool{}
	for i := 0; i < 50; i++ {
		name, err := fs.Save(strings.NewReader("x"), "a.pdf")
		require.NoError(t, err)
		assert.False(t, seen[name], "nama file duplikat: %s", name)
		seen[name] = true
	}
}

func TestPathStripsDirectories(t *testing.T) {
	fs, err := NewFileStorage(t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(fs.Dir(), "passwd"), fs.Path("../../etc/passwd"))
	assert.False(t, fs.Exists(".."))
	assert.False(t, fs.Exists(""))
}
