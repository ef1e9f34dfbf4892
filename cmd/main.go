package cmd

import (
	"context"
	"errors"
	"os"

	"github.com/rotisserie/eris"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/haiseskibidi/autogun-build-tools/pkg"
	"github.com/haiseskibidi/autogun-build-tools/pkg/builder"
	"github.com/haiseskibidi/autogun-build-tools/pkg/config"
)

var rootCmd = &cobra.Command{
	Use:   "pybuild",
	Short: "Build wrapper for the AutoGun desktop app",
	Long: `pybuild prepares and runs a PyInstaller build: it checks that the expected
Python version is available, makes sure the packaging tool is installed and
then hands off to the build step. Run without arguments it behaves like the
classic one-shot build wrapper and exits with the build's own exit code.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runBuild(buildOptions{})
	},
}

// Execute runs the CLI and translates errors into the process exit status. A
// failed version gate exits with 1, a failed build with the build's own exit
// code.
func Execute() {
	err := rootCmd.Execute()
	if err == nil {
		return
	}

	var exitErr *builder.ExitError
	if errors.As(err, &exitErr) {
		os.Exit(exitErr.Code)
	}

	pkg.PrintError(eris.ToString(err, os.Getenv("PYBUILD_DEBUG") != ""))
	os.Exit(1)
}

func newContext() context.Context {
	logger := zerolog.New(NewConsoleWriter())
	return pkg.WithLogger(context.Background(), &logger)
}

func loadProject() (string, *config.Config, error) {
	root, err := pkg.GetProjectRoot()
	if err != nil {
		return "", nil, err
	}

	cfg, err := config.Load(root)
	if err != nil {
		return "", nil, err
	}

	return root, cfg, nil
}
