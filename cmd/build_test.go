package cmd

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/haiseskibidi/autogun-build-tools/pkg/builder"
)

func chdir(t *testing.T, dir string) {
	t.Helper()

	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(wd) })
}

func setupProject(t *testing.T, interpreterScript, configExtra string) string {
	t.Helper()

	root := t.TempDir()
	t.Setenv("PIP_TEST_LOG", filepath.Join(root, "pip.log"))

	py := filepath.Join(root, "python")
	require.NoError(t, os.WriteFile(py, []byte(interpreterScript), 0755))

	cfg := "python:\n  interpreter: " + py + "\n" + configExtra
	require.NoError(t, os.WriteFile(filepath.Join(root, "pybuild.yml"), []byte(cfg), 0644))

	chdir(t, root)
	return root
}

func TestRunBuildGateFailureStopsPipeline(t *testing.T) {
	root := setupProject(t, `#!/bin/sh
if [ "$1" = "--version" ]; then
	echo "Python 3.10.0"
	exit 0
fi
echo "$@" >> "$PIP_TEST_LOG"
exit 0
`, "")

	err := runBuild(buildOptions{})
	require.Error(t, err)

	var exitErr *builder.ExitError
	require.ErrorAs(t, err, &exitErr)
	require.Equal(t, 1, exitErr.Code)

	// neither the package check nor the build ran
	_, statErr := os.Stat(filepath.Join(root, "pip.log"))
	require.True(t, os.IsNotExist(statErr))
}

func TestRunBuildDelegateExitCodePassedThrough(t *testing.T) {
	setupProject(t, `#!/bin/sh
if [ "$1" = "--version" ]; then
	echo "Python 3.12.1"
	exit 0
fi
if [ "$3" = "show" ]; then
	exit 0
fi
if [ "$1" = "build_pyinstaller.py" ]; then
	exit 7
fi
exit 0
`, "delegate: build_pyinstaller.py\n")

	err := runBuild(buildOptions{})
	require.Error(t, err)

	var exitErr *builder.ExitError
	require.ErrorAs(t, err, &exitErr)
	require.Equal(t, 7, exitErr.Code)
}

func TestRunBuildDelegateSuccess(t *testing.T) {
	setupProject(t, `#!/bin/sh
if [ "$1" = "--version" ]; then
	echo "Python 3.12.1"
	exit 0
fi
exit 0
`, "delegate: build_pyinstaller.py\n")

	require.NoError(t, runBuild(buildOptions{}))
}

func TestRunBuildInstallsMissingPackage(t *testing.T) {
	root := setupProject(t, `#!/bin/sh
if [ "$1" = "--version" ]; then
	echo "Python 3.12.1"
	exit 0
fi
if [ "$3" = "show" ]; then
	exit 1
fi
if [ "$3" = "install" ]; then
	echo "install $4" >> "$PIP_TEST_LOG"
	exit 0
fi
exit 0
`, "delegate: build_pyinstaller.py\n")

	require.NoError(t, runBuild(buildOptions{}))

	data, err := os.ReadFile(filepath.Join(root, "pip.log"))
	require.NoError(t, err)
	require.Equal(t, "install pyinstaller\n", string(data))
}

func TestRunBuildSkipFlags(t *testing.T) {
	root := setupProject(t, `#!/bin/sh
if [ "$1" = "--version" ]; then
	echo "Python 3.10.0"
	exit 0
fi
if [ "$3" = "show" ] || [ "$3" = "install" ]; then
	echo "$3" >> "$PIP_TEST_LOG"
	exit 0
fi
exit 0
`, "delegate: build_pyinstaller.py\n")

	// the wrong interpreter passes when the gate is skipped
	require.NoError(t, runBuild(buildOptions{SkipGate: true, SkipDeps: true}))

	_, statErr := os.Stat(filepath.Join(root, "pip.log"))
	require.True(t, os.IsNotExist(statErr))
}
