package builder

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/rotisserie/eris"
	"mvdan.cc/sh/v3/expand"
	"mvdan.cc/sh/v3/interp"
	"mvdan.cc/sh/v3/syntax"

	"github.com/haiseskibidi/autogun-build-tools/pkg"
	"github.com/haiseskibidi/autogun-build-tools/pkg/config"
	"github.com/haiseskibidi/autogun-build-tools/pkg/python"
)

// RunHook executes a configured hook snippet through the embedded shell
// interpreter so hooks behave the same on every platform. Empty hooks are a
// no-op.
func RunHook(ctx context.Context, root, name, script string, env map[string]string) error {
	if script == "" {
		return nil
	}

	pkg.PrintTask("Running " + name + " hook")

	file, err := syntax.NewParser().Parse(strings.NewReader(script), name)
	if err != nil {
		return eris.Wrapf(err, "Failed to parse the %s hook", name)
	}

	envVars := os.Environ()
	for key, value := range env {
		envVars = append(envVars, fmt.Sprintf("%s=%s", key, value))
	}

	runner, err := interp.New(
		interp.Dir(root),
		interp.Env(expand.ListEnviron(envVars...)),
		interp.StdIO(nil, os.Stdout, os.Stderr),
		interp.Params("-e"),
	)
	if err != nil {
		return eris.Wrap(err, "Failed to initialize the hook runner")
	}

	if err := runner.Run(ctx, file); err != nil {
		return eris.Wrapf(err, "The %s hook failed", name)
	}

	return nil
}

func hookEnv(root string, py *python.Interpreter, cfg *config.Config) map[string]string {
	return map[string]string{
		"PYBUILD_ROOT":   root,
		"PYBUILD_APP":    cfg.App,
		"PYBUILD_PYTHON": py.Path,
	}
}
