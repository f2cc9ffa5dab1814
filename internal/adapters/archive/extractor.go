// Package archive implements source staging: unpacking vendored source
// archives into a task's working directory.
package archive

import (
	"archive/tar"
	"compress/bzip2"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/klauspost/compress/zip"
	"github.com/klauspost/compress/zstd"
	"github.com/klauspost/pgzip"
	"github.com/ulikunitz/xz"
	"go.trai.ch/fab/internal/core/domain"
	"go.trai.ch/fab/internal/core/ports"
	"go.trai.ch/zerr"
)

// Extractor unpacks vendored source archives. The archive itself is a
// read-only input and is never mutated.
type Extractor struct{}

// NewExtractor creates a new Extractor.
func NewExtractor() *Extractor {
	return &Extractor{}
}

var _ ports.Extractor = (*Extractor)(nil)

// Extract fully unpacks the archive under dest, preserving the archive's
// internal layout (the top-level source directory is kept, not stripped).
func (e *Extractor) Extract(archive, dest string) error {
	if strings.HasSuffix(archive, ".zip") {
		return extractZip(archive, dest)
	}
	return extractTar(archive, dest)
}

func extractTar(archive, dest string) error {
	f, err := os.Open(archive) //nolint:gosec // vendored archive path from the manifest
	if err != nil {
		return zerr.With(zerr.Wrap(err, "failed to open archive"), "archive", archive)
	}
	defer f.Close() //nolint:errcheck // read-only file

	var r io.Reader = f
	switch {
	case strings.HasSuffix(archive, ".tar.gz") || strings.HasSuffix(archive, ".tgz"):
		gz, err := pgzip.NewReader(f)
		if err != nil {
			return zerr.With(zerr.Wrap(err, "failed to create gzip reader"), "archive", archive)
		}
		defer gz.Close() //nolint:errcheck // read side
		r = gz
	case strings.HasSuffix(archive, ".tar.bz2"):
		r = bzip2.NewReader(f)
	case strings.HasSuffix(archive, ".tar.xz"):
		xzr, err := xz.NewReader(f)
		if err != nil {
			return zerr.With(zerr.Wrap(err, "failed to create xz reader"), "archive", archive)
		}
		r = xzr
	case strings.HasSuffix(archive, ".tar.zst"):
		zr, err := zstd.NewReader(f)
		if err != nil {
			return zerr.With(zerr.Wrap(err, "failed to create zstd reader"), "archive", archive)
		}
		defer zr.Close()
		r = zr
	case strings.HasSuffix(archive, ".tar"):
		// no compression
	default:
		return zerr.With(domain.ErrUnsupportedArchive, "archive", archive)
	}

	absDest, err := filepath.Abs(dest)
	if err != nil {
		return zerr.Wrap(err, "failed to resolve destination")
	}
	if err := os.MkdirAll(absDest, domain.DirPerm); err != nil {
		return zerr.With(zerr.Wrap(err, "failed to create destination"), "dest", absDest)
	}

	tr := tar.NewReader(r)
	for {
		hdr, err := tr.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return zerr.With(zerr.Wrap(err, "failed to read tar header"), "archive", archive)
		}

		// PAX headers carry metadata, not content.
		if hdr.Typeflag == tar.TypeXHeader || hdr.Typeflag == tar.TypeXGlobalHeader {
			continue
		}

		target, err := secureJoin(absDest, hdr.Name)
		if err != nil {
			return err
		}

		if err := writeTarEntry(tr, hdr, target); err != nil {
			return err
		}
	}

	return nil
}

func writeTarEntry(tr *tar.Reader, hdr *tar.Header, target string) error {
	if err := os.MkdirAll(filepath.Dir(target), domain.DirPerm); err != nil {
		return zerr.With(zerr.Wrap(err, "failed to create parent directory"), "path", target)
	}

	switch hdr.Typeflag {
	case tar.TypeDir:
		if err := os.MkdirAll(target, os.FileMode(hdr.Mode)); err != nil { //nolint:gosec // mode from archive
			return zerr.With(zerr.Wrap(err, "failed to create directory"), "path", target)
		}
	case tar.TypeReg:
		out, err := os.OpenFile(target, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, os.FileMode(hdr.Mode)) //nolint:gosec // path checked by secureJoin
		if err != nil {
			return zerr.With(zerr.Wrap(err, "failed to create file"), "path", target)
		}
		if _, err := io.Copy(out, tr); err != nil { //nolint:gosec // vendored input, size bounded by archive
			_ = out.Close()
			return zerr.With(zerr.Wrap(err, "failed to write file"), "path", target)
		}
		if err := out.Close(); err != nil {
			return zerr.With(zerr.Wrap(err, "failed to close file"), "path", target)
		}
		// Preserve timestamps so freshness checks see the archive's ages, not
		// the extraction time.
		if err := os.Chtimes(target, hdr.AccessTime, hdr.ModTime); err != nil {
			return zerr.With(zerr.Wrap(err, "failed to set times"), "path", target)
		}
	case tar.TypeSymlink:
		if err := os.Symlink(hdr.Linkname, target); err != nil && !os.IsExist(err) {
			return zerr.With(zerr.Wrap(err, "failed to create symlink"), "path", target)
		}
	default:
		// Hard links, devices and the like do not occur in vendored source
		// drops; skip rather than fail.
	}
	return nil
}

func extractZip(archive, dest string) error {
	r, err := zip.OpenReader(archive)
	if err != nil {
		return zerr.With(zerr.Wrap(err, "failed to open zip archive"), "archive", archive)
	}
	defer r.Close() //nolint:errcheck // read-only archive

	absDest, err := filepath.Abs(dest)
	if err != nil {
		return zerr.Wrap(err, "failed to resolve destination")
	}
	if err := os.MkdirAll(absDest, domain.DirPerm); err != nil {
		return zerr.With(zerr.Wrap(err, "failed to create destination"), "dest", absDest)
	}

	for _, f := range r.File {
		target, err := secureJoin(absDest, f.Name)
		if err != nil {
			return err
		}

		if f.FileInfo().IsDir() {
			if err := os.MkdirAll(target, domain.DirPerm); err != nil {
				return zerr.With(zerr.Wrap(err, "failed to create directory"), "path", target)
			}
			continue
		}

		if err := writeZipEntry(f, target); err != nil {
			return err
		}
	}
	return nil
}

func writeZipEntry(f *zip.File, target string) error {
	if err := os.MkdirAll(filepath.Dir(target), domain.DirPerm); err != nil {
		return zerr.With(zerr.Wrap(err, "failed to create parent directory"), "path", target)
	}

	out, err := os.OpenFile(target, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, f.Mode()) //nolint:gosec // path checked by secureJoin
	if err != nil {
		return zerr.With(zerr.Wrap(err, "failed to create file"), "path", target)
	}
	defer out.Close() //nolint:errcheck // error surfaced by Copy below

	rc, err := f.Open()
	if err != nil {
		return zerr.With(zerr.Wrap(err, "failed to open zip entry"), "path", target)
	}
	defer rc.Close() //nolint:errcheck // read side

	if _, err := io.Copy(out, rc); err != nil { //nolint:gosec // vendored input
		return zerr.With(zerr.Wrap(err, "failed to write file"), "path", target)
	}
	return nil
}

// secureJoin joins name under dest, rejecting path-traversal entries.
func secureJoin(dest, name string) (string, error) {
	target := filepath.Join(dest, name) //nolint:gosec // checked below
	if target != dest && !strings.HasPrefix(target, dest+string(os.PathSeparator)) {
		return "", zerr.With(zerr.New("illegal path in archive"), "entry", name)
	}
	return target, nil
}
