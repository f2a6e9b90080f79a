package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/msto63/venn/internal/venn/server"
	"github.com/msto63/venn/internal/venn/service"
	"github.com/msto63/venn/internal/venn/store"
	coreGrpc "github.com/msto63/venn/pkg/core/grpc"
)

// errInvalidExpression is returned after a parse error has been printed
var errInvalidExpression = errors.New("ungültiger Ausdruck")

var (
	evalExercise string
	evalExplain  bool
	evalRegions  bool
	evalJSON     bool
	evalRemote   string
)

var evalCmd = &cobra.Command{
	Use:   "eval <ausdruck>",
	Short: "Wertet einen Mengenausdruck aus",
	Long: `Wertet einen Mengenausdruck gegen eine Aufgabe aus.

Mehrere Argumente werden mit Leerzeichen verbunden; Leerraum im
Ausdruck wird ignoriert.

Beispiele:
  venn eval "A∪B∩C"
  venn eval --explain "(A∪B)'∩C"
  venn eval --exercise kurse --regions "A∩B'"
  venn eval --remote localhost:9310 "A∪B"`,
	Args: cobra.MinimumNArgs(1),
	RunE: runEval,
}

func init() {
	rootCmd.AddCommand(evalCmd)

	evalCmd.Flags().StringVarP(&evalExercise, "exercise", "e", "", "Aufgabe (default: aus der Konfiguration)")
	evalCmd.Flags().BoolVar(&evalExplain, "explain", false, "Gruppierung des Ausdrucks anzeigen")
	evalCmd.Flags().BoolVar(&evalRegions, "regions", false, "Regionentabelle anzeigen")
	evalCmd.Flags().BoolVar(&evalJSON, "json", false, "Ergebnis als JSON ausgeben")
	evalCmd.Flags().StringVar(&evalRemote, "remote", "", "Über einen laufenden venn-Server auswerten (host:port)")
}

func runEval(cmd *cobra.Command, args []string) error {
	input := strings.Join(args, " ")

	ctx, cancel := context.WithTimeout(cmd.Context(), 10*time.Second)
	defer cancel()

	res, err := evaluateOnce(ctx, input)
	if err != nil {
		return err
	}

	if evalJSON {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		if err := enc.Encode(res); err != nil {
			return err
		}
	} else {
		p := newPrinter(cmd.OutOrStdout())
		if res.Failed() {
			p = newPrinter(cmd.ErrOrStderr())
		}
		p.result(input, res, evalExplain, evalRegions)
	}

	if res.Failed() {
		return errInvalidExpression
	}
	return nil
}

// evaluateOnce evaluates in-process, or through the server given by --remote
func evaluateOnce(ctx context.Context, input string) (*service.EvaluateResult, error) {
	if evalRemote != "" {
		client, err := server.NewClient(coreGrpc.DefaultClientConfig(evalRemote))
		if err != nil {
			return nil, err
		}
		defer client.Close()
		return client.Evaluate(ctx, evalExercise, input)
	}

	rt, err := openRuntime(appConfig, true)
	if err != nil {
		return nil, err
	}
	defer rt.Close()

	return rt.service.Evaluate(ctx, service.EvaluateRequest{
		ExerciseID: evalExercise,
		Expression: input,
		Source:     store.SourceCLI,
	})
}
