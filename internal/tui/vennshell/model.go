// ============================================================================
// venn - Mengenalgebra für interaktive Statistik-Visualisierungen
// ============================================================================
//
// Package:     vennshell
// Description: Interactive shell with live evaluation and region table
// Author:      Mike Stoffels
// Created:     2026-10-07
// License:     MIT
// ============================================================================

package vennshell

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/msto63/venn/internal/venn/service"
	"github.com/msto63/venn/pkg/setalgebra"
)

const (
	prompt          = "› "
	submitTimeout   = 5 * time.Second
	maxRegionRows   = 12
	minTranscript   = 3
	headerHeight    = 4
	inputHeight     = 3
	helpHeight      = 2
	panelChrome     = 2
	previewBaseRows = 3
)

// Config holds shell configuration
type Config struct {
	Evaluator  Evaluator
	Exercises  []service.ExerciseInfo
	ExerciseID string
	Version    string
}

type transcriptEntry struct {
	input      string
	exerciseID string
	result     *service.EvaluateResult
	err        error
}

// Model is the Bubbletea model of the shell
type Model struct {
	width  int
	height int
	ready  bool
	busy   bool

	input      textinput.Model
	transcript viewport.Model
	entries    []transcriptEntry

	exercises []service.ExerciseInfo
	tables    []*setalgebra.AtomTable
	current   int
	preview   *service.EvaluateResult

	evaluator Evaluator
	version   string
}

// New creates the shell model
func New(cfg Config) (Model, error) {
	if cfg.Evaluator == nil {
		return Model{}, errors.New("evaluator is required")
	}
	if len(cfg.Exercises) == 0 {
		return Model{}, errors.New("at least one exercise is required")
	}

	tables := make([]*setalgebra.AtomTable, len(cfg.Exercises))
	current := 0
	for i, info := range cfg.Exercises {
		table, err := info.Table()
		if err != nil {
			return Model{}, err
		}
		tables[i] = table
		if info.ID == cfg.ExerciseID {
			current = i
		}
	}

	ti := textinput.New()
	ti.Prompt = prompt
	ti.PromptStyle = PromptStyle
	ti.Placeholder = "z. B. (A | B) & C'"
	ti.CharLimit = setalgebra.MaxExpressionLength
	ti.Focus()

	return Model{
		input:     ti,
		exercises: cfg.Exercises,
		tables:    tables,
		current:   current,
		evaluator: cfg.Evaluator,
		version:   cfg.Version,
	}, nil
}

// Init initializes the model
func (m Model) Init() tea.Cmd {
	return textinput.Blink
}

// Update handles messages
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKeyPress(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.input.Width = msg.Width - lipgloss.Width(prompt) - 4
		if !m.ready {
			m.transcript = viewport.New(msg.Width-4, m.transcriptHeight())
			m.ready = true
		} else {
			m.transcript.Width = msg.Width - 4
			m.transcript.Height = m.transcriptHeight()
		}
		m.updateTranscript()
		return m, nil

	case submittedMsg:
		m.busy = false
		m.entries = append(m.entries, transcriptEntry{
			input:      msg.input,
			exerciseID: msg.exerciseID,
			result:     msg.result,
			err:        msg.err,
		})
		if msg.err == nil && msg.result != nil && !msg.result.Failed() {
			m.input.SetValue("")
			m.preview = nil
		}
		m.updateTranscript()
		m.transcript.GotoBottom()
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// handleKeyPress handles keyboard input
func (m Model) handleKeyPress(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyCtrlC, tea.KeyEsc:
		return m, tea.Quit

	case tea.KeyEnter:
		value := m.input.Value()
		if strings.TrimSpace(value) == "" || m.busy {
			return m, nil
		}
		m.busy = true
		return m, m.submit(m.exercises[m.current].ID, value)

	case tea.KeyTab:
		m.selectExercise(m.current + 1)
		return m, nil

	case tea.KeyShiftTab:
		m.selectExercise(m.current - 1 + len(m.exercises))
		return m, nil

	case tea.KeyCtrlL:
		m.entries = nil
		m.updateTranscript()
		return m, nil

	case tea.KeyPgUp:
		m.transcript.ViewUp()
		return m, nil

	case tea.KeyPgDown:
		m.transcript.ViewDown()
		return m, nil

	case tea.KeyRunes:
		msg.Runes = translateRunes(msg.Runes)
	}

	before := m.input.Value()
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	if m.input.Value() != before {
		m.refreshPreview()
	}
	return m, cmd
}

// submit evaluates value through the evaluator
func (m Model) submit(exerciseID, value string) tea.Cmd {
	evaluator := m.evaluator
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), submitTimeout)
		defer cancel()

		res, err := evaluator.Evaluate(ctx, exerciseID, value)
		return submittedMsg{exerciseID: exerciseID, input: value, result: res, err: err}
	}
}

// selectExercise switches to exercise i (modulo the count); the region
// table and with it the transcript height depend on the exercise
func (m *Model) selectExercise(i int) {
	m.current = i % len(m.exercises)
	if m.ready {
		m.transcript.Height = m.transcriptHeight()
	}
	m.refreshPreview()
}

// refreshPreview evaluates the current input locally
func (m *Model) refreshPreview() {
	value := m.input.Value()
	if strings.TrimSpace(value) == "" {
		m.preview = nil
		return
	}
	info := m.exercises[m.current]
	m.preview = service.EvaluateTable(info.ID, m.tables[m.current], info.Labels, value)
}

func (m Model) transcriptHeight() int {
	rows := previewBaseRows
	if n := len(m.exercises[m.current].Universe); n > maxRegionRows {
		rows += maxRegionRows + 1
	} else {
		rows += n
	}
	h := m.height - headerHeight - inputHeight - helpHeight - (rows + panelChrome) - panelChrome
	if h < minTranscript {
		h = minTranscript
	}
	return h
}

// View renders the UI
func (m Model) View() string {
	if !m.ready {
		return "Lade venn-Shell..."
	}

	var b strings.Builder
	b.WriteString(m.renderHeader())
	b.WriteString("\n")
	b.WriteString(m.input.View())
	b.WriteString("\n")
	b.WriteString(m.renderCaret())
	b.WriteString("\n")
	b.WriteString(PanelStyle.Width(m.width - 2).Render(m.renderPreview()))
	b.WriteString("\n")
	b.WriteString(TranscriptPanelStyle.Width(m.width - 2).Render(m.transcript.View()))
	b.WriteString("\n")
	b.WriteString(m.renderHelpBar())
	return b.String()
}

func (m Model) renderHeader() string {
	info := m.exercises[m.current]
	header := lipgloss.JoinHorizontal(lipgloss.Center,
		LogoStyle.Render(Logo),
		"   ",
		ExerciseStyle.Render(info.Title),
		"  ",
		SubHeaderStyle.Render(fmt.Sprintf("(%s, %d/%d)", info.ID, m.current+1, len(m.exercises))),
	)
	return TitlePanelStyle.Width(m.width - 4).Render(header)
}

// renderCaret points at the offending symbol of a parse error
func (m Model) renderCaret() string {
	if m.preview == nil || m.preview.Error == nil {
		return ""
	}
	col := lipgloss.Width(prompt) + setalgebra.RawColumn(m.input.Value(), m.preview.Error.Position)
	return strings.Repeat(" ", col) + CaretStyle.Render("^") + " " + ErrorStyle.Render(m.preview.Error.Message)
}

func (m Model) renderPreview() string {
	if m.preview == nil {
		return SubHeaderStyle.Render("Ausdruck eingeben; Ergebnis und Regionen erscheinen beim Tippen.")
	}
	if m.preview.Failed() {
		return ErrorStyle.Render(m.preview.Error.Kind) + "\n" + m.renderRegions(nil)
	}

	var b strings.Builder
	b.WriteString(ResultLabelStyle.Render("Ergebnis") + ResultStyle.Render(m.preview.Result) + "\n")
	b.WriteString(ResultLabelStyle.Render("Lesart") + ExplainedStyle.Render(m.preview.Explained) + "\n")
	b.WriteString(m.renderRegions(m.preview.Regions))
	return b.String()
}

// renderRegions renders the membership table; regions nil renders the
// header only
func (m Model) renderRegions(regions []service.Region) string {
	var b strings.Builder
	b.WriteString(RegionHeaderStyle.Render(fmt.Sprintf("%-6s %-14s ", "Elem.", "Region")))
	b.WriteString(AtomAStyle.Render("A") + " " + AtomBStyle.Render("B") + " " + AtomCStyle.Render("C"))

	shown := regions
	if len(shown) > maxRegionRows {
		shown = shown[:maxRegionRows]
	}
	for _, r := range shown {
		line := fmt.Sprintf("%-6d %-14s ", r.Element, truncateString(r.Label, 14))
		marks := RenderMark(r.InA, AtomAStyle) + " " + RenderMark(r.InB, AtomBStyle) + " " + RenderMark(r.InC, AtomCStyle)
		b.WriteString("\n")
		if r.InResult {
			b.WriteString(RegionHitStyle.Render(line) + marks + "  " + ResultStyle.Render(MarkIn))
		} else {
			b.WriteString(RegionRowStyle.Render(line) + marks)
		}
	}
	if rest := len(regions) - len(shown); rest > 0 {
		b.WriteString("\n" + SubHeaderStyle.Render(fmt.Sprintf("… %d weitere", rest)))
	}
	return b.String()
}

func (m Model) renderHelpBar() string {
	items := []string{
		RenderKeyHint("Enter", "Auswerten"),
		RenderKeyHint("Tab", "Aufgabe"),
		RenderKeyHint("| & 0", "∪ ∩ ∅"),
		RenderKeyHint("Ctrl+L", "Leeren"),
		RenderKeyHint("Esc", "Beenden"),
	}
	status := ""
	if m.busy {
		status = "  " + SubHeaderStyle.Render("werte aus...")
	}
	if m.version != "" {
		status += "  " + HelpDescStyle.Render("v"+m.version)
	}
	return HelpStyle.Render(strings.Join(items, "  ") + status)
}

// updateTranscript renders submitted expressions into the viewport
func (m *Model) updateTranscript() {
	var b strings.Builder
	for _, e := range m.entries {
		b.WriteString(PromptStyle.Render(prompt) + e.input)
		b.WriteString(SubHeaderStyle.Render("  [" + e.exerciseID + "]"))
		b.WriteString("\n  ")
		switch {
		case e.err != nil:
			b.WriteString(ErrorStyle.Render("Fehler: " + e.err.Error()))
		case e.result == nil:
			b.WriteString(ErrorStyle.Render("Fehler: keine Antwort"))
		case e.result.Failed():
			b.WriteString(ErrorStyle.Render(e.result.Error.Message))
		default:
			b.WriteString(ResultStyle.Render(e.result.Result))
			b.WriteString("  " + ExplainedStyle.Render(e.result.Explained))
		}
		b.WriteString("\n")
	}
	m.transcript.SetContent(b.String())
}

// translateRunes maps keyboard-friendly stand-ins onto the set symbols
func translateRunes(runes []rune) []rune {
	out := make([]rune, len(runes))
	for i, r := range runes {
		switch r {
		case '|', '+':
			r = '∪'
		case '&', '*':
			r = '∩'
		case '0':
			r = '∅'
		case '`', '´', '’':
			r = '\''
		case 'a', 'b', 'c', 'u':
			r = unicode.ToUpper(r)
		}
		out[i] = r
	}
	return out
}

func truncateString(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max-1]) + "~"
}

// Run starts the shell
func Run(cfg Config) error {
	m, err := New(cfg)
	if err != nil {
		return err
	}
	_, err = tea.NewProgram(m, tea.WithAltScreen()).Run()
	return err
}
