package cmd

import (
	"github.com/spf13/cobra"

	"github.com/haiseskibidi/autogun-build-tools/pkg"
	"github.com/haiseskibidi/autogun-build-tools/pkg/builder"
)

var cleanCmd = &cobra.Command{
	Use:   "clean",
	Short: "Removes the build residue directories",
	Long:  `Removes the directories listed under clean in pybuild.yml (build/, dist/ and __pycache__/ by default).`,
	RunE: func(cmd *cobra.Command, args []string) error {
		root, cfg, err := loadProject()
		if err != nil {
			return err
		}

		pkg.PrintTask("Cleaning previous builds")
		builder.Clean(newContext(), root, cfg.Clean)

		return nil
	},
}

func init() {
	rootCmd.AddCommand(cleanCmd)
}
