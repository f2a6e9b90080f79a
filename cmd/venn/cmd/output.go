package cmd

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"
	"github.com/mattn/go-isatty"

	"github.com/msto63/venn/internal/tui/vennshell"
	"github.com/msto63/venn/internal/venn/exercise"
	"github.com/msto63/venn/internal/venn/service"
	"github.com/msto63/venn/internal/venn/store"
	"github.com/msto63/venn/pkg/setalgebra"
)

// printer writes command output, styled only when w is a terminal
type printer struct {
	w     io.Writer
	color bool
}

func newPrinter(w io.Writer) *printer {
	color := false
	if f, ok := w.(*os.File); ok && os.Getenv("NO_COLOR") == "" {
		color = isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
	}
	return &printer{w: w, color: color}
}

func (p *printer) style(s lipgloss.Style, text string) string {
	if !p.color {
		return text
	}
	return s.Render(text)
}

func (p *printer) printf(format string, args ...interface{}) {
	fmt.Fprintf(p.w, format, args...)
}

// result prints an evaluation. A parse error is printed with a caret under
// the offending symbol of the raw input.
func (p *printer) result(input string, res *service.EvaluateResult, explain, regions bool) {
	if res.Failed() {
		col := setalgebra.RawColumn(input, res.Error.Position)
		p.printf("  %s\n", input)
		p.printf("  %s%s %s\n", strings.Repeat(" ", col), p.style(vennshell.CaretStyle, "^"), p.style(vennshell.ErrorStyle, res.Error.Message))
		return
	}

	p.printf("%s\n", p.style(vennshell.ResultStyle, res.Result))
	if explain {
		p.printf("  Lesart:   %s\n", p.style(vennshell.ExplainedStyle, res.Explained))
		if res.Canonical != res.Explained {
			p.printf("  Eingabe:  %s\n", res.Canonical)
		}
	}
	if regions {
		p.regions(res.Regions)
	}
}

func (p *printer) regions(regions []service.Region) {
	mark := func(in bool) string {
		if in {
			return vennshell.MarkIn
		}
		return vennshell.MarkOut
	}

	p.printf("\n  %-6s %-16s A B C\n", "Elem.", "Region")
	for _, r := range regions {
		line := fmt.Sprintf("  %-6d %-16s %s %s %s", r.Element, r.Label, mark(r.InA), mark(r.InB), mark(r.InC))
		if r.InResult {
			line = p.style(vennshell.RegionHitStyle, line+"  "+vennshell.MarkIn)
		}
		p.printf("%s\n", line)
	}
}

// examples prints the outcome of an exercise's examples and returns the
// number of failures
func (p *printer) examples(results []exercise.ExampleResult) int {
	failed := 0
	for _, r := range results {
		if r.Passed {
			p.printf("  %s %-24s = %s\n", p.style(vennshell.ResultStyle, "[+]"), r.Expression, r.Got)
			continue
		}
		failed++
		p.printf("  %s %-24s %s\n", p.style(vennshell.ErrorStyle, "[-]"), r.Expression, r.Reason())
	}
	return failed
}

func (p *printer) exercises(infos []service.ExerciseInfo, defaultID string) {
	for _, info := range infos {
		marker := " "
		if info.ID == defaultID {
			marker = "*"
		}
		origin := "Datei"
		if info.Builtin {
			origin = "eingebaut"
		}
		p.printf("%s %-20s %-32s |U|=%-4d %d Beispiele (%s)\n",
			marker, info.ID, info.Title, len(info.Universe), len(info.Examples), origin)
	}
}

func (p *printer) history(entries []*store.Evaluation, now time.Time) {
	if len(entries) == 0 {
		p.printf("Keine Einträge.\n")
		return
	}
	for _, e := range entries {
		when := humanize.RelTime(e.Timestamp, now, "her", "ab jetzt")
		outcome := p.style(vennshell.ResultStyle, e.Result)
		if e.Failed() {
			outcome = p.style(vennshell.ErrorStyle, fmt.Sprintf("%s @%d", e.ErrorKind, e.ErrorPosition))
		}
		p.printf("%-16s %-12s %-9s %-28s %s\n", when, e.ExerciseID, e.Source, e.Expression, outcome)
	}
}

func (p *printer) stats(stats *service.Stats) {
	p.printf("Aufgaben:        %d\n", stats.Exercises)
	p.printf("Cache:           %s Einträge, %s Treffer, %s Fehlgriffe\n",
		humanize.Comma(int64(stats.Cache.Size)), humanize.Comma(stats.Cache.Hits), humanize.Comma(stats.Cache.Misses))
	if stats.History == nil {
		p.printf("Verlauf:         deaktiviert\n")
		return
	}
	h := stats.History
	p.printf("Auswertungen:    %s (davon %s fehlerhaft)\n", humanize.Comma(h.Total), humanize.Comma(h.Errors))
	if !h.Last.IsZero() {
		p.printf("Letzte:          %s\n", humanize.Time(h.Last))
	}
	for _, top := range h.TopExpressions {
		p.printf("  %-28s %s×\n", top.Expression, humanize.Comma(top.Count))
	}
}
