package cmd

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/msto63/venn/internal/venn/store"
)

var (
	historyExercise string
	historyErrors   bool
	historyLimit    int
	historySince    time.Duration
	historyStats    bool
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Zeigt den Auswertungsverlauf",
	Long: `Zeigt die zuletzt ausgewerteten Ausdrücke aus dem Verlauf.

Beispiele:
  venn history --errors --limit 20
  venn history --exercise kurse --since 24h
  venn history --stats`,
	RunE: runHistory,
}

func init() {
	rootCmd.AddCommand(historyCmd)

	historyCmd.Flags().StringVarP(&historyExercise, "exercise", "e", "", "Nur Einträge dieser Aufgabe")
	historyCmd.Flags().BoolVar(&historyErrors, "errors", false, "Nur fehlerhafte Ausdrücke")
	historyCmd.Flags().IntVarP(&historyLimit, "limit", "n", 25, "Maximale Anzahl Einträge")
	historyCmd.Flags().DurationVar(&historySince, "since", 0, "Nur Einträge der letzten Zeitspanne (z. B. 24h)")
	historyCmd.Flags().BoolVar(&historyStats, "stats", false, "Statistik statt Einträgen anzeigen")
}

func runHistory(cmd *cobra.Command, args []string) error {
	rt, err := openRuntime(appConfig, true)
	if err != nil {
		return err
	}
	defer rt.Close()

	p := newPrinter(cmd.OutOrStdout())
	ctx := cmd.Context()

	if historyStats {
		stats, err := rt.service.Stats(ctx)
		if err != nil {
			return err
		}
		p.stats(stats)
		return nil
	}

	filter := store.Filter{
		ExerciseID: historyExercise,
		OnlyErrors: historyErrors,
		Limit:      historyLimit,
	}
	if historySince > 0 {
		filter.Since = time.Now().Add(-historySince)
	}

	entries, err := rt.service.History(ctx, filter)
	if err != nil {
		return err
	}
	p.history(entries, time.Now())
	return nil
}
