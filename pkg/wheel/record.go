// SPDX-License-Identifier: MPL-2.0

package wheel

import (
	"crypto/sha256"
	"encoding/base64"
	"encoding/csv"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// DistInfoError reports a wheel tree whose top level does not hold exactly
// one *.dist-info directory.
type DistInfoError struct {
	Dir   string
	Found int
}

func (e *DistInfoError) Error() string {
	return fmt.Sprintf("%s: expected exactly one *.dist-info directory, found %d", e.Dir, e.Found)
}

// RewriteRecord regenerates the RECORD file of the unpacked wheel tree at
// bdistDir, hashing every file in the tree. Any RECORD.jws signature is
// removed since the rewrite invalidates it. RECORD's own row carries empty
// hash and size fields.
func RewriteRecord(bdistDir string) error {
	infoDir, err := distInfoDir(bdistDir)
	if err != nil {
		return err
	}
	recordPath := filepath.Join(infoDir, "RECORD")
	sigPath := filepath.Join(infoDir, "RECORD.jws")
	if err := os.Remove(sigPath); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("removing %s: %w", sigPath, err)
	}

	// Create RECORD up front so the walk below sees it and emits its row.
	recordFile, err := os.Create(recordPath)
	if err != nil {
		return fmt.Errorf("creating %s: %w", recordPath, err)
	}

	writer := csv.NewWriter(recordFile)
	writer.UseCRLF = true

	err = filepath.WalkDir(bdistDir, func(path string, d os.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if d.IsDir() {
			return nil
		}
		relPath, err := filepath.Rel(bdistDir, path)
		if err != nil {
			return fmt.Errorf("relativizing %s: %w", path, err)
		}
		name := filepath.ToSlash(relPath)
		if path == recordPath {
			return writer.Write([]string{name, "", ""})
		}
		data, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("reading %s: %w", path, err)
		}
		digest := sha256.Sum256(data)
		row := []string{
			name,
			"sha256=" + base64.RawURLEncoding.EncodeToString(digest[:]),
			strconv.Itoa(len(data)),
		}
		return writer.Write(row)
	})
	if err != nil {
		recordFile.Close()
		return fmt.Errorf("rewriting record for %s: %w", bdistDir, err)
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		recordFile.Close()
		return fmt.Errorf("writing %s: %w", recordPath, err)
	}
	if err := recordFile.Close(); err != nil {
		return fmt.Errorf("closing %s: %w", recordPath, err)
	}
	return nil
}

func distInfoDir(bdistDir string) (string, error) {
	entries, err := os.ReadDir(bdistDir)
	if err != nil {
		return "", fmt.Errorf("listing %s: %w", bdistDir, err)
	}
	var found []string
	for _, entry := range entries {
		if entry.IsDir() && strings.HasSuffix(entry.Name(), ".dist-info") {
			found = append(found, filepath.Join(bdistDir, entry.Name()))
		}
	}
	if len(found) != 1 {
		return "", &DistInfoError{Dir: bdistDir, Found: len(found)}
	}
	return found[0], nil
}
