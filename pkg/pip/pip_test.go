package pip

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/haiseskibidi/autogun-build-tools/pkg"
	"github.com/haiseskibidi/autogun-build-tools/pkg/python"
)

// Fake interpreter: answers the version query, records install invocations
// and reports the given exit status for pip show.
const fakePip = `#!/bin/sh
if [ "$1" = "--version" ]; then
	echo "Python 3.12.1"
	exit 0
fi
if [ "$3" = "install" ]; then
	echo "install $4" >> "$PIP_TEST_LOG"
	exit 0
fi
exit %d
`

func fakeInterpreter(t *testing.T, showExit int) (*python.Interpreter, string) {
	t.Helper()

	dir := t.TempDir()
	logPath := filepath.Join(dir, "pip.log")
	t.Setenv("PIP_TEST_LOG", logPath)

	path := filepath.Join(dir, "python")
	require.NoError(t, os.WriteFile(path, []byte(fmt.Sprintf(fakePip, showExit)), 0755))

	py, err := python.Discover(path)
	require.NoError(t, err)

	return py, logPath
}

func testContext() context.Context {
	logger := zerolog.Nop()
	return pkg.WithLogger(context.Background(), &logger)
}

func TestEnsureInstalledInstallsMissing(t *testing.T) {
	py, logPath := fakeInterpreter(t, 1)

	EnsureInstalled(testContext(), py, []string{"pyinstaller"})

	data, err := os.ReadFile(logPath)
	require.NoError(t, err)
	require.Equal(t, "install pyinstaller\n", string(data))
}

func TestEnsureInstalledSkipsPresent(t *testing.T) {
	py, logPath := fakeInterpreter(t, 0)

	EnsureInstalled(testContext(), py, []string{"pyinstaller"})

	_, err := os.Stat(logPath)
	require.True(t, os.IsNotExist(err))
}

func TestEnsureInstalledOneAttemptPerPackage(t *testing.T) {
	py, logPath := fakeInterpreter(t, 1)

	EnsureInstalled(testContext(), py, []string{"pyinstaller", "wheel"})

	data, err := os.ReadFile(logPath)
	require.NoError(t, err)
	require.Equal(t,
		[]string{"install pyinstaller", "install wheel"},
		strings.Split(strings.TrimSpace(string(data)), "\n"))
}
