// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"github.com/noxdafox/delocate/internal/config"
	"github.com/noxdafox/delocate/pkg/delocate"
)

// buildLibFilter returns the inspection filter for the tree walk. With
// inspectAll set, every file is opened and non-Mach-O files simply record no
// dependencies; otherwise only files carrying one of the configured suffixes
// are inspected.
func buildLibFilter(cfg *config.Config, inspectAll bool) delocate.FilterFunc {
	if inspectAll {
		return nil
	}
	return delocate.SuffixFilter(cfg.InspectSuffixStrings()...)
}

// buildCopyFilter returns the vendoring filter. The configured system
// prefixes plus any extra prefixes given on the command line are excluded
// from copying.
func buildCopyFilter(cfg *config.Config, extraExcludes []string) delocate.FilterFunc {
	prefixes := append(cfg.ExcludePrefixStrings(), extraExcludes...)
	return delocate.ExcludePrefixes(prefixes...)
}
