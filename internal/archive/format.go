// SPDX-License-Identifier: MPL-2.0

package archive

import (
	"archive/tar"
	"archive/zip"
	"compress/gzip"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
)

type (
	// Packer turns a staged directory tree into a single archive file.
	// Implementations are registered under their format identifier; adding
	// a format means adding an implementation, not runtime introspection.
	Packer interface {
		// Extension returns the file extension including the leading dot,
		// e.g. ".zip" or ".tar.gz".
		Extension() string

		// Pack archives the contents of stagingRoot into basePath+Extension()
		// and returns the path of the produced file. A failed pack must not
		// leave a partial archive behind.
		Pack(stagingRoot, basePath string) (string, error)
	}

	// zipPacker writes ZIP archives with deflate compression. ZIP has no
	// symlink entry support here: a staged symlink is stored as the file it
	// resolves to.
	zipPacker struct{}

	// tarGzPacker writes gzip-compressed tarballs. Staged symlinks are
	// preserved as symlink entries.
	tarGzPacker struct{}
)

// DefaultPackers returns the registry of supported formats. "tar.gz" is an
// alias for "targz"; both map to the same packer.
func DefaultPackers() map[string]Packer {
	tgz := tarGzPacker{}
	return map[string]Packer{
		"zip":    zipPacker{},
		"targz":  tgz,
		"tar.gz": tgz,
	}
}

// formatNames returns the sorted registry keys, for error messages.
func formatNames(packers map[string]Packer) []string {
	names := make([]string, 0, len(packers))
	for name := range packers {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// Extension implements Packer for zipPacker.
func (zipPacker) Extension() string { return ".zip" }

// Pack implements Packer for zipPacker.
func (p zipPacker) Pack(stagingRoot, basePath string) (string, error) {
	outPath := basePath + p.Extension()

	outFile, err := os.Create(outPath)
	if err != nil {
		return "", fmt.Errorf("failed to create archive file: %w", err)
	}

	zipWriter := zip.NewWriter(outFile)

	walkErr := filepath.WalkDir(stagingRoot, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}

		relPath, err := filepath.Rel(stagingRoot, path)
		if err != nil {
			return fmt.Errorf("failed to get relative path: %w", err)
		}
		if relPath == "." {
			return nil
		}
		// Forward slashes for ZIP member names regardless of host OS.
		zipPath := filepath.ToSlash(relPath)

		if d.IsDir() {
			if _, err := zipWriter.Create(zipPath + "/"); err != nil {
				return fmt.Errorf("failed to create directory entry: %w", err)
			}
			return nil
		}

		// Stat (not Lstat) so a staged symlink is archived as the content
		// of its target.
		fileInfo, err := os.Stat(path)
		if err != nil {
			return fmt.Errorf("failed to stat %s: %w", path, err)
		}

		fileData, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("failed to read file %s: %w", path, err)
		}

		header, err := zip.FileInfoHeader(fileInfo)
		if err != nil {
			return fmt.Errorf("failed to create file header: %w", err)
		}
		header.Name = zipPath
		header.Method = zip.Deflate

		writer, err := zipWriter.CreateHeader(header)
		if err != nil {
			return fmt.Errorf("failed to create ZIP entry: %w", err)
		}
		if _, err := writer.Write(fileData); err != nil {
			return fmt.Errorf("failed to write file data: %w", err)
		}

		return nil
	})

	closeErr := errors.Join(zipWriter.Close(), outFile.Close())
	if err := errors.Join(walkErr, closeErr); err != nil {
		os.Remove(outPath)
		return "", fmt.Errorf("failed to pack zip archive: %w", err)
	}

	return outPath, nil
}

// Extension implements Packer for tarGzPacker.
func (tarGzPacker) Extension() string { return ".tar.gz" }

// Pack implements Packer for tarGzPacker.
func (p tarGzPacker) Pack(stagingRoot, basePath string) (string, error) {
	outPath := basePath + p.Extension()

	outFile, err := os.Create(outPath)
	if err != nil {
		return "", fmt.Errorf("failed to create archive file: %w", err)
	}

	gzipWriter := gzip.NewWriter(outFile)
	tarWriter := tar.NewWriter(gzipWriter)

	walkErr := filepath.WalkDir(stagingRoot, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}

		relPath, err := filepath.Rel(stagingRoot, path)
		if err != nil {
			return fmt.Errorf("failed to get relative path: %w", err)
		}
		if relPath == "." {
			return nil
		}

		fileInfo, err := d.Info()
		if err != nil {
			return fmt.Errorf("failed to get file info: %w", err)
		}

		link := ""
		if fileInfo.Mode()&fs.ModeSymlink != 0 {
			if link, err = os.Readlink(path); err != nil {
				return fmt.Errorf("failed to read symlink %s: %w", path, err)
			}
		}

		header, err := tar.FileInfoHeader(fileInfo, link)
		if err != nil {
			return fmt.Errorf("failed to create tar header: %w", err)
		}
		header.Name = filepath.ToSlash(relPath)
		if d.IsDir() {
			header.Name += "/"
		}
		// Strip environment-specific owner data so identical inputs pack
		// identically across machines.
		header.Uid = 0
		header.Gid = 0
		header.Uname = ""
		header.Gname = ""

		if err := tarWriter.WriteHeader(header); err != nil {
			return fmt.Errorf("failed to write tar header: %w", err)
		}

		if !fileInfo.Mode().IsRegular() {
			return nil
		}

		f, err := os.Open(path)
		if err != nil {
			return fmt.Errorf("failed to open %s: %w", path, err)
		}
		defer f.Close()

		if _, err := io.Copy(tarWriter, f); err != nil {
			return fmt.Errorf("failed to write file data: %w", err)
		}
		return nil
	})

	closeErr := errors.Join(tarWriter.Close(), gzipWriter.Close(), outFile.Close())
	if err := errors.Join(walkErr, closeErr); err != nil {
		os.Remove(outPath)
		return "", fmt.Errorf("failed to pack tar.gz archive: %w", err)
	}

	return outPath, nil
}
