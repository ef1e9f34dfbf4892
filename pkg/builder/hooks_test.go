package builder

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRunHookSeesEnv(t *testing.T) {
	root := t.TempDir()

	err := RunHook(testContext(), root, "pre_build",
		"echo \"$PYBUILD_APP\" > hook.txt",
		map[string]string{"PYBUILD_APP": "Demo"})
	require.NoError(t, err)

	data, err := os.ReadFile(filepath.Join(root, "hook.txt"))
	require.NoError(t, err)
	require.Equal(t, "Demo\n", string(data))
}

func TestRunHookFailure(t *testing.T) {
	require.Error(t, RunHook(testContext(), t.TempDir(), "pre_build", "exit 1", nil))
}

func TestRunHookParseError(t *testing.T) {
	require.Error(t, RunHook(testContext(), t.TempDir(), "pre_build", "if then fi", nil))
}

func TestRunHookEmpty(t *testing.T) {
	require.NoError(t, RunHook(testContext(), t.TempDir(), "post_build", "", nil))
}
