package janitor

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/amankumarsingh77/hls-transcode-queue/pkg/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJanitor_RemoveFileAndDirectory(t *testing.T) {
	dir := t.TempDir()
	source := filepath.Join(dir, "clip1.mp4")
	require.NoError(t, os.WriteFile(source, []byte("raw"), 0o644))

	outDir := filepath.Join(dir, "clip1")
	require.NoError(t, os.MkdirAll(filepath.Join(outDir, "v0"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(outDir, "master.m3u8"), []byte("#EXTM3U"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(outDir, "v0", "fileSequence0.ts"), []byte("ts"), 0o644))

	j := NewJanitor(logger.NewNopLogger())
	require.NoError(t, j.Remove(source, outDir))

	assert.NoFileExists(t, source)
	assert.NoDirExists(t, outDir)
}

func TestJanitor_RemoveIsIdempotent(t *testing.T) {
	dir := t.TempDir()
	target := filepath.Join(dir, "gone.mp4")
	require.NoError(t, os.WriteFile(target, []byte("raw"), 0o644))

	j := NewJanitor(logger.NewNopLogger())
	require.NoError(t, j.Remove(target))
	assert.NoError(t, j.Remove(target))
	assert.NoError(t, j.Remove(filepath.Join(dir, "never-existed")))
	assert.NoError(t, j.Remove(""))
}
