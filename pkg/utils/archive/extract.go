package archive

import (
	"archive/tar"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/m-mizutani/goerr/v2"
)

// ExtractTar unpacks a tar file below destDir. Entry paths are checked
// against path traversal before anything touches the filesystem.
func ExtractTar(tarPath, destDir string) error {
	f, err := os.Open(tarPath)
	if err != nil {
		return goerr.Wrap(err, "failed to open tar file", goerr.V("path", tarPath))
	}
	defer f.Close()

	tr := tar.NewReader(f)
	for {
		hdr, err := tr.Next()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return goerr.Wrap(err, "failed to read tar entry", goerr.V("path", tarPath))
		}
		if err := extractEntry(tr, hdr, destDir); err != nil {
			return err
		}
	}
}

// StripMetadata removes version control metadata files from an exported
// tree so they do not end up in distribution archives.
func StripMetadata(exportDir string) error {
	for _, name := range []string{".gitignore", ".gitattributes", ".gitmodules", ".github", ".hgignore"} {
		path := filepath.Join(exportDir, name)
		if err := os.RemoveAll(path); err != nil {
			return goerr.Wrap(err, "failed to remove metadata file", goerr.V("path", path))
		}
	}
	return nil
}

func extractEntry(tr *tar.Reader, hdr *tar.Header, destDir string) error {
	destPath := filepath.Join(destDir, hdr.Name)
	if !strings.HasPrefix(destPath, filepath.Clean(destDir)+string(os.PathSeparator)) {
		return goerr.New("invalid entry path in tar file",
			goerr.V("entry", hdr.Name), goerr.V("dest", destPath))
	}

	switch hdr.Typeflag {
	case tar.TypeDir:
		return os.MkdirAll(destPath, hdr.FileInfo().Mode())

	case tar.TypeSymlink:
		if err := os.MkdirAll(filepath.Dir(destPath), 0755); err != nil {
			return goerr.Wrap(err, "failed to create parent directory", goerr.V("path", destPath))
		}
		return os.Symlink(hdr.Linkname, destPath)

	case tar.TypeReg:
		if err := os.MkdirAll(filepath.Dir(destPath), 0755); err != nil {
			return goerr.Wrap(err, "failed to create parent directory", goerr.V("path", destPath))
		}
		out, err := os.OpenFile(destPath, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, hdr.FileInfo().Mode())
		if err != nil {
			return goerr.Wrap(err, "failed to create file", goerr.V("path", destPath))
		}
		defer out.Close()
		if _, err := io.Copy(out, tr); err != nil {
			return goerr.Wrap(err, "failed to write file content", goerr.V("path", destPath))
		}
		return out.Close()

	default:
		// pax headers and other exotica are skipped
		return nil
	}
}
