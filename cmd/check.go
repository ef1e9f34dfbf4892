package cmd

import (
	"github.com/spf13/cobra"

	"github.com/haiseskibidi/autogun-build-tools/pkg"
	"github.com/haiseskibidi/autogun-build-tools/pkg/python"
)

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Checks that a supported Python interpreter is available",
	Long: `Looks for a Python interpreter, prints what it reports and verifies that it
matches the required series. Exits with 1 if the check fails.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		_, cfg, err := loadProject()
		if err != nil {
			return err
		}

		py, err := python.Discover(cfg.Python.Interpreter)
		if err != nil {
			return err
		}

		pkg.PrintTask("Interpreter")
		pkg.PrintSubtask(py.Path)
		pkg.PrintSubtask(py.RawVersion)
		if py.Version != nil {
			pkg.PrintSubtask("Parsed version: " + py.Version.String())
		}

		return gateInterpreter(py, cfg.Python.Series)
	},
}

func init() {
	rootCmd.AddCommand(checkCmd)
}
