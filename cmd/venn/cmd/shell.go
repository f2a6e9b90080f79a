// ============================================================================
// venn - Mengenalgebra für interaktive Statistik-Visualisierungen
// ============================================================================
//
// Package:     cmd
// Description: CLI command for the interactive venn shell
// Author:      Mike Stoffels
// Created:     2026-10-08
// License:     MIT
// ============================================================================

package cmd

import (
	"io"

	"github.com/spf13/cobra"

	"github.com/msto63/venn/internal/tui/vennshell"
	"github.com/msto63/venn/internal/venn/server"
	"github.com/msto63/venn/internal/venn/service"
	coreGrpc "github.com/msto63/venn/pkg/core/grpc"
	"github.com/msto63/venn/pkg/core/logging"
	"github.com/msto63/venn/pkg/core/version"
)

var (
	shellExercise string
	shellRemote   string
)

var shellCmd = &cobra.Command{
	Use:     "shell",
	Aliases: []string{"repl", "tui"},
	Short:   "Startet die interaktive venn-Shell",
	Long: `Startet die interaktive venn-Shell.

Der Ausdruck wird bei jedem Tastendruck ausgewertet; Ergebnis,
Gruppierung und Regionentabelle werden sofort angezeigt. Mit Enter
wird der Ausdruck in den Verlauf übernommen.

Tastenkuerzel:
  | oder +      ∪ (Vereinigung)
  & oder *      ∩ (Schnitt)
  0             ∅ (leere Menge)
  a, b, c, u    A, B, C, U
  Enter         Auswerten und speichern
  Tab           Nächste Aufgabe
  Shift+Tab     Vorherige Aufgabe
  PgUp/PgDn     Verlauf scrollen
  Ctrl+L        Verlauf leeren
  Esc/Ctrl+C    Beenden`,
	RunE: runShell,
}

func init() {
	rootCmd.AddCommand(shellCmd)

	shellCmd.Flags().StringVarP(&shellExercise, "exercise", "e", "", "Aufgabe beim Start")
	shellCmd.Flags().StringVar(&shellRemote, "remote", "", "Über einen laufenden venn-Server auswerten (host:port)")
}

func runShell(cmd *cobra.Command, args []string) error {
	// Log lines would tear up the alternate screen.
	if !verbose {
		logging.Configure("", "", io.Discard)
	}

	cfg := vennshell.Config{
		ExerciseID: shellExercise,
		Version:    version.Version,
	}

	if shellRemote != "" {
		client, err := server.NewClient(coreGrpc.DefaultClientConfig(shellRemote))
		if err != nil {
			return err
		}
		defer client.Close()

		resp, err := client.ListExercises(cmd.Context())
		if err != nil {
			printError("Server nicht erreichbar", err)
			return err
		}
		cfg.Evaluator = client
		cfg.Exercises = resp.Exercises
		if cfg.ExerciseID == "" {
			cfg.ExerciseID = resp.Default
		}
		return vennshell.Run(cfg)
	}

	rt, err := openRuntime(appConfig, true)
	if err != nil {
		return err
	}
	defer rt.Close()

	cfg.Evaluator = vennshell.LocalEvaluator{Service: rt.service}
	cfg.Exercises = service.DescribeAll(rt.service.Exercises())
	if cfg.ExerciseID == "" {
		cfg.ExerciseID = rt.service.DefaultExercise()
	}
	return vennshell.Run(cfg)
}
