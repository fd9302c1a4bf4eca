// SPDX-License-Identifier: MPL-2.0

package cueutil

import (
	"fmt"
	"strings"

	"cuelang.org/go/cue/errors"
)

// FormatError rewrites a CUE error into "<file>: <path>: <message>" form,
// one line per underlying error, with paths in JSON index notation
// ("exclude_prefixes[1]", "ui.verbose") instead of CUE's flat selector
// list. A non-CUE error is wrapped with the file name only.
func FormatError(err error, filePath string) error {
	if err == nil {
		return nil
	}
	errs := errors.Errors(err)
	if len(errs) == 0 {
		return fmt.Errorf("%s: %w", filePath, err)
	}
	lines := make([]string, 0, len(errs))
	for _, e := range errs {
		lines = append(lines, formatOne(e))
	}
	if len(lines) == 1 {
		return fmt.Errorf("%s: %s", filePath, lines[0])
	}
	return fmt.Errorf("%s: validation failed:\n  %s", filePath, strings.Join(lines, "\n  "))
}

func formatOne(e errors.Error) string {
	path := jsonPath(errors.Path(e))
	msg := e.Error()
	// CUE repeats the selector path inside some messages; strip it so the
	// formatted line carries the path once.
	if path != "" && strings.HasPrefix(msg, path) {
		msg = strings.TrimSpace(strings.TrimPrefix(strings.TrimPrefix(msg, path), ":"))
	}
	if path == "" {
		return msg
	}
	return fmt.Sprintf("%s: %s", path, msg)
}

// jsonPath renders CUE's selector list in JSON path notation: numeric
// selectors attach to the preceding element as "[n]", the rest join with
// dots.
func jsonPath(parts []string) string {
	var b strings.Builder
	for i, part := range parts {
		if i > 0 && isIndex(part) {
			b.WriteString("[")
			b.WriteString(part)
			b.WriteString("]")
			continue
		}
		if i > 0 {
			b.WriteString(".")
		}
		b.WriteString(part)
	}
	return b.String()
}

func isIndex(s string) bool {
	if s == "" {
		return false
	}
	for _, c := range s {
		if c < '0' || c > '9' {
			return false
		}
	}
	return true
}

// CheckFileSize rejects data larger than maxSize bytes. Unify applies it
// automatically; it is exported for callers that size-check a file before
// handing it to the evaluator.
func CheckFileSize(data []byte, maxSize int64, filename string) error {
	if int64(len(data)) > maxSize {
		return fmt.Errorf("%s: %d byte document exceeds the %d byte limit",
			filename, len(data), maxSize)
	}
	return nil
}
