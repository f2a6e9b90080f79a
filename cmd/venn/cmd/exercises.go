package cmd

import (
	"encoding/json"

	"github.com/spf13/cobra"

	"github.com/msto63/venn/internal/venn/service"
)

var exercisesJSON bool

var exercisesCmd = &cobra.Command{
	Use:     "exercises",
	Aliases: []string{"ls"},
	Short:   "Listet die verfügbaren Aufgaben",
	Long: `Listet die eingebauten und die aus dem Aufgabenverzeichnis
geladenen Aufgaben. Die Standardaufgabe ist mit * markiert.`,
	RunE: runExercises,
}

func init() {
	rootCmd.AddCommand(exercisesCmd)
	exercisesCmd.Flags().BoolVar(&exercisesJSON, "json", false, "Als JSON ausgeben")
}

func runExercises(cmd *cobra.Command, args []string) error {
	rt, err := openRuntime(appConfig, false)
	if err != nil {
		return err
	}
	defer rt.Close()

	infos := service.DescribeAll(rt.service.Exercises())
	if exercisesJSON {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(infos)
	}

	newPrinter(cmd.OutOrStdout()).exercises(infos, rt.service.DefaultExercise())
	return nil
}
