// ============================================================================
// venn - Mengenalgebra für interaktive Statistik-Visualisierungen
// ============================================================================
//
// Package:     vennshell
// Description: Styles for the venn shell
// Author:      Mike Stoffels
// Created:     2026-10-07
// License:     MIT
// ============================================================================

package vennshell

import (
	"github.com/charmbracelet/lipgloss"
)

// Color palette, shared with the other terminal tools
var (
	ColorPrimary   = lipgloss.Color("#8B5CF6") // Violet
	ColorSecondary = lipgloss.Color("#06B6D4") // Cyan
	ColorSuccess   = lipgloss.Color("#10B981") // Emerald
	ColorError     = lipgloss.Color("#EF4444") // Red
	ColorDimmed    = lipgloss.Color("#374151") // Dark Gray

	ColorBgPanel  = lipgloss.Color("#1E293B") // Slate 800
	ColorBgResult = lipgloss.Color("#3B0764") // Purple 950

	ColorText      = lipgloss.Color("#F8FAFC") // Slate 50
	ColorTextMuted = lipgloss.Color("#94A3B8") // Slate 400
	ColorTextDim   = lipgloss.Color("#64748B") // Slate 500

	// One color per circle
	ColorAtomA = lipgloss.Color("#F59E0B") // Amber
	ColorAtomB = lipgloss.Color("#06B6D4") // Cyan
	ColorAtomC = lipgloss.Color("#EC4899") // Pink
)

// Header styles
var (
	LogoStyle = lipgloss.NewStyle().
			Foreground(ColorPrimary).
			Bold(true)

	ExerciseStyle = lipgloss.NewStyle().
			Foreground(ColorText).
			Bold(true)

	SubHeaderStyle = lipgloss.NewStyle().
			Foreground(ColorTextMuted).
			Italic(true)

	TitlePanelStyle = lipgloss.NewStyle().
			Border(lipgloss.DoubleBorder()).
			BorderForeground(ColorPrimary).
			Padding(0, 2)
)

// Input and result styles
var (
	PromptStyle = lipgloss.NewStyle().
			Foreground(ColorPrimary).
			Bold(true)

	CaretStyle = lipgloss.NewStyle().
			Foreground(ColorError).
			Bold(true)

	ErrorStyle = lipgloss.NewStyle().
			Foreground(ColorError)

	ResultLabelStyle = lipgloss.NewStyle().
				Foreground(ColorTextMuted).
				Width(10)

	ResultStyle = lipgloss.NewStyle().
			Foreground(ColorSuccess).
			Bold(true)

	ExplainedStyle = lipgloss.NewStyle().
			Foreground(ColorSecondary)
)

// Region table styles
var (
	RegionHeaderStyle = lipgloss.NewStyle().
				Foreground(ColorTextMuted).
				Bold(true)

	RegionRowStyle = lipgloss.NewStyle().
			Foreground(ColorTextDim)

	RegionHitStyle = lipgloss.NewStyle().
			Foreground(ColorText).
			Background(ColorBgResult).
			Bold(true)

	AtomAStyle = lipgloss.NewStyle().Foreground(ColorAtomA).Bold(true)
	AtomBStyle = lipgloss.NewStyle().Foreground(ColorAtomB).Bold(true)
	AtomCStyle = lipgloss.NewStyle().Foreground(ColorAtomC).Bold(true)
)

// Panel styles
var (
	PanelStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(ColorDimmed).
			Padding(0, 1)

	TranscriptPanelStyle = lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder()).
				BorderForeground(ColorDimmed).
				Padding(0, 1)
)

// Help styles
var (
	HelpStyle = lipgloss.NewStyle().
			Foreground(ColorTextMuted)

	HelpKeyStyle = lipgloss.NewStyle().
			Foreground(ColorPrimary).
			Bold(true)

	HelpDescStyle = lipgloss.NewStyle().
			Foreground(ColorTextMuted)

	StatusBarStyle = lipgloss.NewStyle().
			Background(ColorBgPanel).
			Foreground(ColorText).
			Padding(0, 1)
)

// Logo
const Logo = "venn"

// Membership marks
const (
	MarkIn  = "●"
	MarkOut = "·"
)

// RenderKeyHint renders a keyboard shortcut hint
func RenderKeyHint(key, description string) string {
	return HelpKeyStyle.Render(key) + " " + HelpDescStyle.Render(description)
}

// RenderMark renders a membership mark in the given style
func RenderMark(in bool, style lipgloss.Style) string {
	if in {
		return style.Render(MarkIn)
	}
	return RegionRowStyle.Render(MarkOut)
}
