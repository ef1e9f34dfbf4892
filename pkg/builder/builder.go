// Package builder implements the build pipeline: cleanup, the PyInstaller
// invocation and collection of the finished artifact.
package builder

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"sort"
	"strings"
	"time"

	"github.com/aidarkhanov/nanoid"
	"github.com/dustin/go-humanize"
	"github.com/rotisserie/eris"

	"github.com/haiseskibidi/autogun-build-tools/pkg"
	"github.com/haiseskibidi/autogun-build-tools/pkg/config"
	"github.com/haiseskibidi/autogun-build-tools/pkg/python"
)

// ExitError carries a subprocess exit status through to the process exit.
type ExitError struct {
	Code int
}

func (e *ExitError) Error() string {
	return fmt.Sprintf("exit status %d", e.Code)
}

func NewExitError(code int) *ExitError {
	return &ExitError{Code: code}
}

// RunDelegate invokes an external build script with no arguments. The
// script's exit status is passed through unchanged.
func RunDelegate(ctx context.Context, root string, py *python.Interpreter, script string) error {
	pkg.PrintTask("Running build script " + script)

	cmd := py.Command(script)
	cmd.Dir = root
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr

	err := cmd.Run()
	if err == nil {
		return nil
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return NewExitError(exitErr.ExitCode())
	}

	return eris.Wrapf(err, "Failed to run %s", script)
}

// Run executes the in-process pipeline: hooks, cleanup, compile, collect.
// A non-zero PyInstaller exit becomes an ExitError with the same code.
func Run(ctx context.Context, root string, py *python.Interpreter, cfg *config.Config) error {
	env := hookEnv(root, py, cfg)
	if err := RunHook(ctx, root, "pre_build", cfg.Hooks.PreBuild, env); err != nil {
		return err
	}

	pkg.PrintTask("Cleaning previous builds")
	Clean(ctx, root, cfg.Clean)

	pkg.PrintTask("Compiling with PyInstaller")
	code, err := Compile(ctx, root, py, cfg)
	if err != nil {
		return err
	}

	if code == 0 {
		if err := Collect(ctx, root, cfg); err != nil {
			return err
		}
	} else {
		printFailureHints(cfg)
	}

	// The compile result stays authoritative even if the post hook fails.
	if err := RunHook(ctx, root, "post_build", cfg.Hooks.PostBuild, env); err != nil {
		pkg.Log(ctx).Warn().Err(err).Msg("The post_build hook failed")
	}

	if code != 0 {
		return NewExitError(code)
	}

	return nil
}

// CompileArgs builds the PyInstaller invocation. A <app>.spec file at the
// project root wins over the fallback flag set.
func CompileArgs(root string, cfg *config.Config) []string {
	specFile := cfg.App + ".spec"
	if _, err := os.Stat(filepath.Join(root, specFile)); err == nil {
		return []string{"-m", "PyInstaller", "--clean", "--noconfirm", specFile}
	}

	args := []string{"-m", "PyInstaller", "--onefile", "--windowed", "--name=" + cfg.App}
	for _, name := range cfg.HiddenImports {
		args = append(args, "--hidden-import="+name)
	}

	sources := make([]string, 0, len(cfg.Data))
	for src := range cfg.Data {
		sources = append(sources, src)
	}
	sort.Strings(sources)

	for _, src := range sources {
		// PyInstaller expects the platform list separator between source and
		// destination.
		args = append(args, fmt.Sprintf("--add-data=%s%c%s", src, os.PathListSeparator, cfg.Data[src]))
	}

	return append(args, cfg.Entry)
}

// Compile runs PyInstaller with output streamed to the console and returns
// its exit status.
func Compile(ctx context.Context, root string, py *python.Interpreter, cfg *config.Config) (int, error) {
	args := CompileArgs(root, cfg)
	pkg.Log(ctx).Debug().Msgf("Running %s %s", py.Path, strings.Join(args, " "))

	cmd := py.Command(args...)
	cmd.Dir = root
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr

	err := cmd.Run()
	if err == nil {
		return 0, nil
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return exitErr.ExitCode(), nil
	}

	return -1, eris.Wrap(err, "Failed to run PyInstaller")
}

// Clean removes the configured build residue directories. Removal errors are
// logged and otherwise ignored, matching the old script.
func Clean(ctx context.Context, root string, dirs []string) {
	for _, dir := range dirs {
		path := filepath.Join(root, dir)
		if _, err := os.Stat(path); err != nil {
			continue
		}

		pkg.PrintSubtask("Removing " + dir + "/")
		if err := os.RemoveAll(path); err != nil {
			pkg.Log(ctx).Warn().Err(err).Msgf("Failed to remove %s", path)
		}
	}
}

// Stamp records the result of a successful build next to the artifact.
type Stamp struct {
	RunID    string    `json:"run_id"`
	BuiltAt  time.Time `json:"built_at"`
	Artifact string    `json:"artifact"`
	Size     int64     `json:"size"`
}

// ArtifactName returns the platform file name of the built executable.
func ArtifactName(cfg *config.Config) string {
	if runtime.GOOS == "windows" {
		return cfg.App + ".exe"
	}

	return cfg.App
}

// Collect copies the finished executable from dist/ into the project root,
// replacing any previous artifact, and writes the build stamp.
func Collect(ctx context.Context, root string, cfg *config.Config) error {
	name := ArtifactName(cfg)
	distPath := filepath.Join(root, "dist", name)

	info, err := os.Stat(distPath)
	if err != nil {
		return eris.Wrapf(err, "The build artifact %s is missing", distPath)
	}

	pkg.PrintTask("Copying " + name + " to the project root")
	if err := copyFile(distPath, filepath.Join(root, name), info.Mode()); err != nil {
		return err
	}

	stamp := Stamp{
		RunID:    nanoid.New(),
		BuiltAt:  time.Now().UTC(),
		Artifact: name,
		Size:     info.Size(),
	}
	data, err := json.Marshal(stamp)
	if err == nil {
		err = os.WriteFile(filepath.Join(root, "pybuild.stamp"), data, os.FileMode(0660))
	}
	if err != nil {
		pkg.Log(ctx).Warn().Err(err).Msg("Failed to write the build stamp")
	}

	pkg.PrintSubtask(fmt.Sprintf("%s (%s)", name, humanize.Bytes(uint64(info.Size()))))
	pkg.PrintSubtask("Keep the config/ and data/ directories next to the executable")

	return nil
}

func copyFile(src, dest string, mode os.FileMode) error {
	in, err := os.Open(src)
	if err != nil {
		return eris.Wrapf(err, "Failed to open %s", src)
	}
	defer in.Close()

	out, err := os.OpenFile(dest, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, mode|0755)
	if err != nil {
		return eris.Wrapf(err, "Failed to create %s", dest)
	}

	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return eris.Wrapf(err, "Failed to copy %s", src)
	}

	return out.Close()
}

func printFailureHints(cfg *config.Config) {
	pkg.PrintError("Compilation failed!")
	fmt.Println("\nCommon causes:")
	fmt.Println("  1. Not all dependencies are installed (pip install -r requirements.txt)")
	fmt.Printf("  2. The active Python is not a %s release\n", cfg.Python.Series)
	fmt.Println("  3. A dynamically imported module is missing from hidden_imports")
}
