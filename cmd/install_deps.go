package cmd

import (
	"github.com/spf13/cobra"

	"github.com/haiseskibidi/autogun-build-tools/pkg"
	"github.com/haiseskibidi/autogun-build-tools/pkg/pip"
	"github.com/haiseskibidi/autogun-build-tools/pkg/python"
)

var installDepsCmd = &cobra.Command{
	Use:   "install-deps",
	Short: "Installs the Python packages the build needs",
	Long: `Asks pip about every package listed in pybuild.yml and installs the ones
that are missing. Install failures are not fatal here; a broken environment
surfaces when the build runs.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		_, cfg, err := loadProject()
		if err != nil {
			return err
		}

		py, err := python.Discover(cfg.Python.Interpreter)
		if err != nil {
			return err
		}

		pkg.PrintTask("Checking required packages")
		pip.EnsureInstalled(newContext(), py, cfg.Packages)

		return nil
	},
}

func init() {
	rootCmd.AddCommand(installDepsCmd)
}
