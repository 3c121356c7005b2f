package fileops

import (
	stderrors "errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/toyz/actiongen/internal/errors"
)

func TestWriteFileAtomic(t *testing.T) {
	fo := NewFileOps()
	target := filepath.Join(t.TempDir(), "nested", "AcceptanceActions.php")

	require.NoError(t, fo.WriteFileAtomic(target, []byte("first\n"), 0o644))
	content, err := fo.ReadFile(target)
	require.NoError(t, err)
	assert.Equal(t, "first\n", content)

	require.NoError(t, fo.WriteFileAtomic(target, []byte("second\n"), 0o644))
	content, err = fo.ReadFile(target)
	require.NoError(t, err)
	assert.Equal(t, "second\n", content)

	// no temporary files are left behind
	entries, err := fo.ReadDir(filepath.Dir(target))
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "AcceptanceActions.php", entries[0].Name())
}

func TestWriteFileAtomicFailureKeepsPreviousFile(t *testing.T) {
	fo := NewFileOps()
	dir := t.TempDir()
	target := filepath.Join(dir, "out")

	// a directory in the way makes the rename fail
	require.NoError(t, os.MkdirAll(filepath.Join(target, "child"), 0o755))

	err := fo.WriteFileAtomic(target, []byte("x"), 0o644)
	require.Error(t, err)
	assert.Equal(t, errors.FileSystemErrorCode, errors.CodeOf(err))
	assert.True(t, fo.IsDir(target))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestReadFirstLine(t *testing.T) {
	fo := NewFileOps()
	dir := t.TempDir()

	multi := filepath.Join(dir, "multi")
	require.NoError(t, os.WriteFile(multi, []byte("<?php  //[STAMP] abc\r\nnamespace x;\n"), 0o644))
	line, err := fo.ReadFirstLine(multi)
	require.NoError(t, err)
	assert.Equal(t, "<?php  //[STAMP] abc", line)

	single := filepath.Join(dir, "single")
	require.NoError(t, os.WriteFile(single, []byte("only"), 0o644))
	line, err = fo.ReadFirstLine(single)
	require.NoError(t, err)
	assert.Equal(t, "only", line)

	empty := filepath.Join(dir, "empty")
	require.NoError(t, os.WriteFile(empty, nil, 0o644))
	line, err = fo.ReadFirstLine(empty)
	require.NoError(t, err)
	assert.Equal(t, "", line)

	_, err = fo.ReadFirstLine(filepath.Join(dir, "missing"))
	assert.True(t, stderrors.Is(err, os.ErrNotExist))
}

func TestRemoveFileAndPredicates(t *testing.T) {
	fo := NewFileOps()
	dir := t.TempDir()
	path := filepath.Join(dir, "f")
	require.NoError(t, os.WriteFile(path, []byte("x"), 0o644))

	assert.True(t, fo.Exists(path))
	assert.True(t, fo.IsFile(path))
	assert.False(t, fo.IsDir(path))
	assert.True(t, fo.IsDir(dir))

	require.NoError(t, fo.RemoveFile(path))
	assert.False(t, fo.Exists(path))

	err := fo.RemoveFile(path)
	assert.Equal(t, errors.FileSystemErrorCode, errors.CodeOf(err))

	_, err = fo.ReadFile("")
	assert.Error(t, err)
}

func TestResolveRelative(t *testing.T) {
	pv := NewPathValidator()
	assert.Equal(t, filepath.Join("cfg", "manifest.yml"), pv.ResolveRelative("cfg", "manifest.yml"))
	assert.Equal(t, "/abs/manifest.yml", pv.ResolveRelative("cfg", "/abs/manifest.yml"))
	assert.Equal(t, "", pv.ResolveRelative("cfg", ""))
}
