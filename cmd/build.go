package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/haiseskibidi/autogun-build-tools/pkg"
	"github.com/haiseskibidi/autogun-build-tools/pkg/builder"
	"github.com/haiseskibidi/autogun-build-tools/pkg/pip"
	"github.com/haiseskibidi/autogun-build-tools/pkg/python"
)

var buildCmd = &cobra.Command{
	Use:   "build",
	Short: "Runs the full build pipeline",
	Long: `Checks the Python version, makes sure the required packages are installed
and then builds the executable. This is the same pipeline that runs when
pybuild is invoked without a subcommand.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		skipGate, err := cmd.Flags().GetBool("skip-gate")
		if err != nil {
			return err
		}

		skipDeps, err := cmd.Flags().GetBool("skip-deps")
		if err != nil {
			return err
		}

		return runBuild(buildOptions{SkipGate: skipGate, SkipDeps: skipDeps})
	},
}

func init() {
	rootCmd.AddCommand(buildCmd)
	buildCmd.Flags().Bool("skip-gate", false, "Skip the Python version check")
	buildCmd.Flags().Bool("skip-deps", false, "Skip the package install step")
}

type buildOptions struct {
	SkipGate bool
	SkipDeps bool
}

// runBuild is the classic wrapper pipeline: version gate, dependency ensure
// step, delegate invocation. Each step blocks until its subprocess finishes.
func runBuild(opts buildOptions) error {
	ctx := newContext()

	root, cfg, err := loadProject()
	if err != nil {
		return err
	}

	pkg.PrintTask("Checking the Python version")
	py, err := python.Discover(cfg.Python.Interpreter)
	if err != nil {
		return err
	}
	pkg.PrintSubtask(py.RawVersion + " (" + py.Path + ")")

	if !opts.SkipGate {
		if err := gateInterpreter(py, cfg.Python.Series); err != nil {
			return err
		}
	}

	if !opts.SkipDeps {
		pkg.PrintTask("Checking required packages")
		pip.EnsureInstalled(ctx, py, cfg.Packages)
	}

	if cfg.Delegate != "" {
		return builder.RunDelegate(ctx, root, py, cfg.Delegate)
	}

	return builder.Run(ctx, root, py, cfg)
}

// gateInterpreter enforces the version gate: the interpreter has to report
// the required series and must not belong to a known-broken one. The
// returned ExitError maps to exit code 1 without running any further step.
func gateInterpreter(py *python.Interpreter, series string) error {
	if py.SupportsSeries(series) && !py.Unsupported() {
		return nil
	}

	pkg.PrintError(py.RawVersion + " is not supported, Python " + series + " is required")
	fmt.Println()
	fmt.Printf("Use Python %s:\n", series)
	fmt.Printf("  1. Activate the project venv: venv312\\Scripts\\activate (source venv312/bin/activate on Linux)\n")
	fmt.Println("  2. Run pybuild again")

	return builder.NewExitError(1)
}
