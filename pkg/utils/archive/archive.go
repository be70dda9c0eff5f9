// Package archive builds the distribution archives uploaded as release
// assets, and unpacks git tree exports.
package archive

import (
	"archive/tar"
	"archive/zip"
	"context"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/klauspost/compress/gzip"
	"github.com/m-mizutani/goerr/v2"

	"github.com/laurentbartholdi/ReleaseTools/pkg/domain/types"
	"github.com/laurentbartholdi/ReleaseTools/pkg/utils/cmdx"
)

// TarGz packs dir/root into a gzip-compressed tarball at out. Entries keep
// the root/ prefix, matching what the hosting platform serves for source
// archives.
func TarGz(dir, root, out string) error {
	f, err := os.Create(out)
	if err != nil {
		return goerr.Wrap(err, "failed to create archive file", goerr.V("path", out))
	}
	defer f.Close()

	gz := gzip.NewWriter(f)
	if err := writeTar(gz, dir, root); err != nil {
		return err
	}
	if err := gz.Close(); err != nil {
		return goerr.Wrap(err, "failed to finish gzip stream", goerr.V("path", out))
	}
	return f.Close()
}

// TarBz2 packs dir/root into a bzip2-compressed tarball at out. There is no
// bzip2 compressor in the Go ecosystem stack this tool uses, so the tarball
// is written first and the bzip2 tool compresses it in place.
func TarBz2(ctx context.Context, runner cmdx.Runner, dir, root, out string) error {
	tarPath := strings.TrimSuffix(out, ".bz2")
	if tarPath == out {
		return goerr.New("bzip2 output must end in .bz2", goerr.V("path", out))
	}

	// bzip2 runs with its own working directory, so the tar path must
	// resolve the same way from there and from here.
	tarPath, err := filepath.Abs(tarPath)
	if err != nil {
		return goerr.Wrap(err, "failed to resolve archive path", goerr.V("path", out))
	}

	f, err := os.Create(tarPath)
	if err != nil {
		return goerr.Wrap(err, "failed to create archive file", goerr.V("path", tarPath))
	}
	if err := writeTar(f, dir, root); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return goerr.Wrap(err, "failed to finish tar file", goerr.V("path", tarPath))
	}

	// bzip2 -f replaces file.tar with file.tar.bz2.
	if _, err := runner.Run(ctx, dir, "bzip2", "-f", tarPath); err != nil {
		return goerr.Wrap(err, "bzip2 failed", goerr.V("path", tarPath))
	}
	return nil
}

// Zip packs dir/root into a zip archive at out.
func Zip(dir, root, out string) error {
	f, err := os.Create(out)
	if err != nil {
		return goerr.Wrap(err, "failed to create archive file", goerr.V("path", out))
	}
	defer f.Close()

	zw := zip.NewWriter(f)
	base := filepath.Join(dir, root)

	err = filepath.WalkDir(base, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(dir, path)
		if err != nil {
			return err
		}
		name := filepath.ToSlash(rel)

		info, err := d.Info()
		if err != nil {
			return err
		}
		hdr, err := zip.FileInfoHeader(info)
		if err != nil {
			return err
		}
		hdr.Name = name
		if d.IsDir() {
			hdr.Name += "/"
			_, err := zw.CreateHeader(hdr)
			return err
		}
		hdr.Method = zip.Deflate

		w, err := zw.CreateHeader(hdr)
		if err != nil {
			return err
		}
		src, err := os.Open(path)
		if err != nil {
			return err
		}
		defer src.Close()
		_, err = io.Copy(w, src)
		return err
	})
	if err != nil {
		return goerr.Wrap(err, "failed to build zip archive", goerr.V("path", out))
	}

	if err := zw.Close(); err != nil {
		return goerr.Wrap(err, "failed to finish zip archive", goerr.V("path", out))
	}
	return f.Close()
}

// writeTar streams dir/root as a tar archive into w.
func writeTar(w io.Writer, dir, root string) error {
	tw := tar.NewWriter(w)
	base := filepath.Join(dir, root)

	err := filepath.WalkDir(base, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(dir, path)
		if err != nil {
			return err
		}
		name := filepath.ToSlash(rel)

		info, err := d.Info()
		if err != nil {
			return err
		}

		var link string
		if info.Mode()&os.ModeSymlink != 0 {
			if link, err = os.Readlink(path); err != nil {
				return err
			}
		}

		hdr, err := tar.FileInfoHeader(info, link)
		if err != nil {
			return err
		}
		hdr.Name = name
		if d.IsDir() {
			hdr.Name += "/"
		}

		if err := tw.WriteHeader(hdr); err != nil {
			return err
		}
		if !info.Mode().IsRegular() {
			return nil
		}

		src, err := os.Open(path)
		if err != nil {
			return err
		}
		defer src.Close()
		_, err = io.Copy(tw, src)
		return err
	})
	if err != nil {
		return goerr.Wrap(err, "failed to build tar archive",
			goerr.V("dir", dir), goerr.V("root", root),
			goerr.T(types.ErrTagExternalTool))
	}

	return tw.Close()
}
