package source

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/onwyhq/onwy/internal/testutil"
)

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o600))
}

func TestIngestFolder(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "notes.md", "markdown body")
	writeFile(t, dir, "readme.txt", "plain text body")
	writeFile(t, dir, "faq.csv", "content\ncsv row body\n")
	writeFile(t, dir, "ignored.jpg", "binary junk")
	require.NoError(t, os.Mkdir(filepath.Join(dir, "sub"), 0o750))

	// The fake pdftotext serves any .pdf in the folder.
	writeFile(t, dir, "doc.pdf", "%PDF")
	runner := &mockRunner{out: []byte("pdf page body")}

	store := &recordingStore{}
	l, err := NewLoader(store, testutil.DiscardLogger(), WithCommandRunner(runner))
	require.NoError(t, err)

	result, err := l.IngestFolder(context.Background(), dir)
	require.NoError(t, err)

	assert.Equal(t, 4, result.Succeeded)
	assert.Zero(t, result.Failed)
	assert.ElementsMatch(t,
		[]string{"markdown body", "plain text body", "csv row body", "pdf page body"},
		store.contents)
}

func TestIngestFolder_FileFailureIsolated(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "good.txt", "good body")
	writeFile(t, dir, "bad.pdf", "%PDF")

	runner := &mockRunner{err: os.ErrPermission}
	store := &recordingStore{}
	l, err := NewLoader(store, testutil.DiscardLogger(), WithCommandRunner(runner))
	require.NoError(t, err)

	result, err := l.IngestFolder(context.Background(), dir)
	require.NoError(t, err, "a failing file must not abort the folder")

	assert.Equal(t, 1, result.Succeeded)
	assert.Equal(t, 1, result.Failed)
	assert.Equal(t, []string{"bad.pdf"}, result.FailedUnits)
	assert.Equal(t, []string{"good body"}, store.contents)
}

func TestIngestFolder_MissingDir(t *testing.T) {
	l, err := NewLoader(&recordingStore{}, testutil.DiscardLogger())
	require.NoError(t, err)

	_, err = l.IngestFolder(context.Background(), filepath.Join(t.TempDir(), "absent"))
	assert.Error(t, err)
}

func TestIngestFolder_EmptyDir(t *testing.T) {
	l, err := NewLoader(&recordingStore{}, testutil.DiscardLogger())
	require.NoError(t, err)

	result, err := l.IngestFolder(context.Background(), t.TempDir())
	require.NoError(t, err)
	assert.Zero(t, result.Succeeded)
	assert.Zero(t, result.Failed)
}
