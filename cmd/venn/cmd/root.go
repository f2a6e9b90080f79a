package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/msto63/venn/pkg/core/config"
	"github.com/msto63/venn/pkg/core/logging"
)

var (
	cfgFile   string
	verbose   bool
	appConfig *config.Config
)

var rootCmd = &cobra.Command{
	Use:   "venn",
	Short: "venn - Mengenalgebra für Venn-Diagramme",
	Long: `venn wertet Mengenausdrücke über den Mengen A, B, C, dem
Universum U und der leeren Menge ∅ aus.

Operatoren:
  ∪   Vereinigung   (Eingabehilfe: | oder +)
  ∩   Schnitt       (Eingabehilfe: & oder *)
  '   Komplement    (nachgestellt)
  ( ) Klammern

Es gibt keine Operatorrangfolge: Ausdrücke werden von rechts
gruppiert, A∪B∩C bedeutet also A∪(B∩C).`,
	SilenceUsage:      true,
	PersistentPreRunE: setup,
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "Config-Datei (default: ./configs/config.toml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Verbose Output")
}

// setup loads the configuration and configures logging. One-shot commands
// only log warnings unless --verbose is set.
func setup(cmd *cobra.Command, args []string) error {
	cfg, err := loadAppConfig()
	if err != nil {
		return err
	}
	appConfig = cfg

	level := cfg.General.LogLevel
	switch {
	case verbose:
		level = "debug"
	case cmd.Name() != serveCmdName:
		level = "warn"
	}
	logging.Configure(level, cfg.General.LogFormat, os.Stderr)
	return nil
}

// loadAppConfig loads --config, else the first default location, else
// built-in defaults
func loadAppConfig() (*config.Config, error) {
	if cfgFile != "" {
		return config.Load(cfgFile)
	}
	if path := config.FindConfigFile(); path != "" {
		return config.Load(path)
	}
	return config.Default(), nil
}

func printError(msg string, err error) {
	fmt.Fprintf(os.Stderr, "Fehler: %s: %v\n", msg, err)
}
