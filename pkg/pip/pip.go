// Package pip wraps the interpreter's pip module for package queries and
// installs.
package pip

import (
	"context"
	"os"

	"github.com/rotisserie/eris"

	"github.com/haiseskibidi/autogun-build-tools/pkg"
	"github.com/haiseskibidi/autogun-build-tools/pkg/python"
)

// IsInstalled asks pip whether the given package is present. Any query
// failure counts as "not installed".
func IsInstalled(py *python.Interpreter, name string) bool {
	return py.Command("-m", "pip", "show", name).Run() == nil
}

// Install runs pip install for a single package, streaming pip's output to
// the console.
func Install(py *python.Interpreter, name string) error {
	cmd := py.Command("-m", "pip", "install", name)
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr

	if err := cmd.Run(); err != nil {
		return eris.Wrapf(err, "Failed to install %s", name)
	}

	return nil
}

// EnsureInstalled installs every listed package that pip does not already
// know about. Each missing package gets exactly one install attempt and a
// failed attempt does not abort: the old wrapper never verified the install
// and let the compile step surface the problem instead.
func EnsureInstalled(ctx context.Context, py *python.Interpreter, names []string) {
	for _, name := range names {
		if IsInstalled(py, name) {
			pkg.PrintSubtask(name + " is already installed")
			continue
		}

		pkg.PrintSubtask("Installing " + name)
		if err := Install(py, name); err != nil {
			pkg.Log(ctx).Warn().Err(err).Msgf("Install of %s failed, the build will probably fail as well", name)
		}
	}
}
