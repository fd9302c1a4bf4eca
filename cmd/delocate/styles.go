// SPDX-License-Identifier: MPL-2.0

package cmd

import "github.com/charmbracelet/lipgloss"

// Styles shared by all command output. The palette assumes a dark terminal;
// lipgloss degrades it gracefully on terminals with reduced color support.
var (
	// TitleStyle marks top-level headings such as the program name.
	TitleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#7C3AED"))

	// SubtitleStyle is for secondary text: descriptions, requiring-file
	// annotations, and placeholder values.
	SubtitleStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#6B7280"))

	// SuccessStyle colors positive outcomes and resolved values.
	SuccessStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#10B981"))

	// ErrorStyle colors failure banners.
	ErrorStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#EF4444"))

	// WarningStyle colors non-fatal warnings.
	WarningStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#F59E0B"))

	// LibStyle highlights library paths and install names.
	LibStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#3B82F6"))

	// VerboseStyle dims supplementary detail shown only with --verbose.
	VerboseStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#9CA3AF"))
)

// Status icons rendered once and reused across command output.
var (
	successIcon = SuccessStyle.Render("✓")
	infoIcon    = SubtitleStyle.Render("•")
)
