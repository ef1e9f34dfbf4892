package archive

import (
	"archive/tar"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/ulikunitz/xz"
)

func TestReleaseWriter(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "hello.txt")
	require.NoError(t, os.WriteFile(src, []byte("hello"), 0644))

	info, err := os.Stat(src)
	require.NoError(t, err)

	archivePath := filepath.Join(dir, "out.tar.xz")
	w, err := NewReleaseWriter(archivePath)
	require.NoError(t, err)

	f, err := os.Open(src)
	require.NoError(t, err)
	require.NoError(t, w.WriteFile("data/hello.txt", info, f))
	f.Close()
	require.NoError(t, w.Close())

	hdl, err := os.Open(archivePath)
	require.NoError(t, err)
	defer hdl.Close()

	xzr, err := xz.NewReader(hdl)
	require.NoError(t, err)

	tr := tar.NewReader(xzr)
	hdr, err := tr.Next()
	require.NoError(t, err)
	require.Equal(t, "data/hello.txt", hdr.Name)

	content, err := io.ReadAll(tr)
	require.NoError(t, err)
	require.Equal(t, "hello", string(content))

	_, err = tr.Next()
	require.Equal(t, io.EOF, err)
}

func TestReleaseWriterBadTarget(t *testing.T) {
	_, err := NewReleaseWriter(filepath.Join(t.TempDir(), "missing", "out.tar.xz"))
	require.Error(t, err)
}
