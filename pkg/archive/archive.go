// Package archive writes release archives as xz-compressed tarballs.
package archive

import (
	"archive/tar"
	"io"
	"os"

	"github.com/rotisserie/eris"
	"github.com/ulikunitz/xz"
)

// ReleaseWriter writes .tar.xz release archives.
type ReleaseWriter struct {
	hdl *os.File
	xz  *xz.Writer
	tw  *tar.Writer
}

// NewReleaseWriter creates the archive file and opens it for writing.
func NewReleaseWriter(filename string) (*ReleaseWriter, error) {
	hdl, err := os.Create(filename)
	if err != nil {
		return nil, eris.Wrapf(err, "Failed to create %s", filename)
	}

	xzw, err := xz.NewWriter(hdl)
	if err != nil {
		hdl.Close()
		return nil, eris.Wrap(err, "Failed to initialize the xz stream")
	}

	return &ReleaseWriter{
		hdl: hdl,
		xz:  xzw,
		tw:  tar.NewWriter(xzw),
	}, nil
}

// WriteFile stores the reader's content under the given archive path.
func (w *ReleaseWriter) WriteFile(name string, info os.FileInfo, reader io.Reader) error {
	hdr, err := tar.FileInfoHeader(info, "")
	if err != nil {
		return eris.Wrapf(err, "Failed to build the header for %s", name)
	}
	hdr.Name = name

	if err := w.tw.WriteHeader(hdr); err != nil {
		return eris.Wrapf(err, "Failed to write the header for %s", name)
	}

	if _, err := io.Copy(w.tw, reader); err != nil {
		return eris.Wrapf(err, "Failed to pack %s", name)
	}

	return nil
}

// Close finishes the tar index and the xz stream and closes the file.
func (w *ReleaseWriter) Close() error {
	if err := w.tw.Close(); err != nil {
		w.hdl.Close()
		return eris.Wrap(err, "Failed to finish the tar stream")
	}

	if err := w.xz.Close(); err != nil {
		w.hdl.Close()
		return eris.Wrap(err, "Failed to finish the xz stream")
	}

	return w.hdl.Close()
}
