// SPDX-License-Identifier: MPL-2.0

package wheel

import (
	"archive/zip"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// Unpack extracts the archive at zipFname into outDir, creating it if
// needed. File modes and modification times are restored, so a later Pack
// reproduces the original metadata. Entries that would escape outDir are
// rejected.
func Unpack(zipFname, outDir string) error {
	reader, err := zip.OpenReader(zipFname)
	if err != nil {
		return fmt.Errorf("opening archive %s: %w", zipFname, err)
	}
	defer reader.Close()

	if err := os.MkdirAll(outDir, 0755); err != nil {
		return fmt.Errorf("creating %s: %w", outDir, err)
	}

	for _, file := range reader.File {
		destPath := filepath.Join(outDir, filepath.FromSlash(file.Name))

		// Validate path doesn't escape the destination (security check)
		relPath, err := filepath.Rel(outDir, destPath)
		if err != nil || strings.HasPrefix(relPath, "..") {
			return fmt.Errorf("archive member %s escapes %s", file.Name, outDir)
		}

		if file.FileInfo().IsDir() {
			if err := os.MkdirAll(destPath, 0755); err != nil {
				return fmt.Errorf("creating directory %s: %w", destPath, err)
			}
			continue
		}

		if err := os.MkdirAll(filepath.Dir(destPath), 0755); err != nil {
			return fmt.Errorf("creating parent directory for %s: %w", destPath, err)
		}
		if err := extractFile(file, destPath); err != nil {
			return fmt.Errorf("extracting %s: %w", file.Name, err)
		}
	}
	return nil
}

// extractFile writes a single archive member to destPath with its recorded
// mode and modification time.
func extractFile(file *zip.File, destPath string) error {
	rc, err := file.Open()
	if err != nil {
		return err
	}
	defer rc.Close()

	destFile, err := os.OpenFile(destPath, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, file.Mode())
	if err != nil {
		return err
	}
	if _, err := io.Copy(destFile, rc); err != nil {
		destFile.Close()
		return err
	}
	if err := destFile.Close(); err != nil {
		return err
	}
	// OpenFile's permission argument is narrowed by the umask
	if err := os.Chmod(destPath, file.Mode().Perm()); err != nil {
		return err
	}
	if mod := file.Modified; !mod.IsZero() {
		if err := os.Chtimes(destPath, mod, mod); err != nil {
			return err
		}
	}
	return nil
}

// Pack archives the contents of srcDir into a wheel at zipFname. Members
// are stored relative to srcDir with forward slashes and Deflate
// compression; only files are written, matching the layout installers
// expect, so empty directories do not survive a round trip.
func Pack(srcDir, zipFname string) error {
	zipFile, err := os.Create(zipFname)
	if err != nil {
		return fmt.Errorf("creating archive %s: %w", zipFname, err)
	}

	zipWriter := zip.NewWriter(zipFile)
	err = filepath.WalkDir(srcDir, func(path string, d os.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if d.IsDir() {
			return nil
		}
		relPath, err := filepath.Rel(srcDir, path)
		if err != nil {
			return fmt.Errorf("relativizing %s: %w", path, err)
		}
		info, err := d.Info()
		if err != nil {
			return fmt.Errorf("stating %s: %w", path, err)
		}
		header, err := zip.FileInfoHeader(info)
		if err != nil {
			return fmt.Errorf("building header for %s: %w", path, err)
		}
		header.Name = filepath.ToSlash(relPath)
		header.Method = zip.Deflate

		writer, err := zipWriter.CreateHeader(header)
		if err != nil {
			return fmt.Errorf("adding %s: %w", relPath, err)
		}
		data, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("reading %s: %w", path, err)
		}
		if _, err := writer.Write(data); err != nil {
			return fmt.Errorf("writing %s: %w", relPath, err)
		}
		return nil
	})
	if err != nil {
		zipWriter.Close()
		zipFile.Close()
		os.Remove(zipFname)
		return fmt.Errorf("packing %s: %w", srcDir, err)
	}
	if err := zipWriter.Close(); err != nil {
		zipFile.Close()
		return fmt.Errorf("finishing archive %s: %w", zipFname, err)
	}
	if err := zipFile.Close(); err != nil {
		return fmt.Errorf("closing archive %s: %w", zipFname, err)
	}
	return nil
}

// InWheel expands wheelFname into a scratch directory, passes that
// directory to fn, and removes it on every exit path. Use it for read-only
// inspection of wheel contents.
func InWheel(wheelFname string, fn func(dir string) error) error {
	tmpDir, err := os.MkdirTemp("", "delocate-wheel-")
	if err != nil {
		return fmt.Errorf("creating scratch directory: %w", err)
	}
	defer os.RemoveAll(tmpDir)

	if err := Unpack(wheelFname, tmpDir); err != nil {
		return err
	}
	return fn(tmpDir)
}

// InWheelWrite expands inWheel into a scratch directory, passes it to fn,
// and repacks the possibly modified contents to outWheel when fn succeeds.
// The scratch directory is removed on every exit path.
func InWheelWrite(inWheel, outWheel string, fn func(dir string) error) error {
	tmpDir, err := os.MkdirTemp("", "delocate-wheel-")
	if err != nil {
		return fmt.Errorf("creating scratch directory: %w", err)
	}
	defer os.RemoveAll(tmpDir)

	if err := Unpack(inWheel, tmpDir); err != nil {
		return err
	}
	if err := fn(tmpDir); err != nil {
		return err
	}
	return Pack(tmpDir, outWheel)
}
