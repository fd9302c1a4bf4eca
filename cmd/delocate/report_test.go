// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"bytes"
	"strings"
	"testing"

	"github.com/noxdafox/delocate/pkg/delocate"
)

func TestPrintCopied(t *testing.T) {
	t.Parallel()

	t.Run("empty result", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		printCopied(&buf, delocate.CopiedLibs{}, "/tree/.dylibs")

		out := buf.String()
		if !strings.Contains(out, "Nothing to vendor") {
			t.Errorf("output = %q, want nothing-to-vendor notice", out)
		}
		if strings.Contains(out, "Vendored") {
			t.Errorf("empty result should not report vendored libraries: %q", out)
		}
	})

	t.Run("single library", func(t *testing.T) {
		t.Parallel()

		copied := delocate.CopiedLibs{
			"/usr/local/lib/libfoo.dylib": {"/tree/ext.so": true},
		}

		var buf bytes.Buffer
		printCopied(&buf, copied, "/tree/.dylibs")

		out := buf.String()
		for _, want := range []string{"Vendored 1 library into", "/tree/.dylibs", "libfoo.dylib", "required by 1 file)"} {
			if !strings.Contains(out, want) {
				t.Errorf("output missing %q: %q", want, out)
			}
		}
	})

	t.Run("multiple libraries sorted with requirer counts", func(t *testing.T) {
		t.Parallel()

		copied := delocate.CopiedLibs{
			"/usr/local/lib/libz.1.dylib": {
				"/tree/ext.so": true,
			},
			"/usr/local/lib/liba.dylib": {
				"/tree/ext.so":   true,
				"/tree/other.so": true,
			},
		}

		var buf bytes.Buffer
		printCopied(&buf, copied, "/tree/.dylibs")

		out := buf.String()
		if !strings.Contains(out, "Vendored 2 libraries into") {
			t.Errorf("output = %q, want plural vendored header", out)
		}
		if !strings.Contains(out, "required by 2 files") {
			t.Errorf("output = %q, want plural requirer count", out)
		}
		if strings.Index(out, "liba.dylib") > strings.Index(out, "libz.1.dylib") {
			t.Errorf("libraries not sorted: %q", out)
		}
	})
}
