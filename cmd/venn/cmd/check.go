package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/msto63/venn/internal/venn/exercise"
)

var checkCmd = &cobra.Command{
	Use:   "check <datei.yaml>...",
	Short: "Prüft Aufgabendateien",
	Long: `Prüft Aufgabendateien: Universum, Mengen A, B, C und alle
Beispiele werden ausgewertet und mit dem erwarteten Ergebnis
verglichen.

Der Befehl endet mit einem Fehler, sobald eine Datei ungültig ist
oder ein Beispiel nicht stimmt.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runCheck,
}

func init() {
	rootCmd.AddCommand(checkCmd)
}

func runCheck(cmd *cobra.Command, args []string) error {
	p := newPrinter(cmd.OutOrStdout())

	failedFiles := 0
	for _, path := range args {
		ex, results, err := exercise.CheckFile(path)
		if err != nil {
			failedFiles++
			p.printf("%s: %v\n", path, err)
			continue
		}

		p.printf("%s: %s (%s)\n", path, ex.Title, ex.ID)
		if failed := p.examples(results); failed > 0 {
			failedFiles++
			p.printf("  %d von %d Beispielen falsch\n", failed, len(results))
		}
	}

	if failedFiles > 0 {
		return fmt.Errorf("%d von %d Dateien fehlerhaft", failedFiles, len(args))
	}
	return nil
}
