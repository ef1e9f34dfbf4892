// Package python locates a Python interpreter and checks its version.
package python

import (
	"os/exec"
	"strings"

	"github.com/Masterminds/semver/v3"
	"github.com/rotisserie/eris"
)

// Interpreter describes a located Python binary.
type Interpreter struct {
	Path string
	// Args select the interpreter when Path is a launcher, e.g. "-3.12" for
	// the Windows py launcher.
	Args []string
	// RawVersion is the first line the interpreter printed for --version.
	RawVersion string
	// Version is the parsed form of RawVersion, nil if it did not parse.
	Version *semver.Version
}

// Discovery order. An explicit path (config or $PYBUILD_PYTHON) is tried
// first.
var candidates = [][]string{
	{"py", "-3.12"},
	{"python3.12"},
	{"python3"},
	{"python"},
}

// Discover returns the first interpreter that can be found on PATH and
// answers a version query.
func Discover(explicit string) (*Interpreter, error) {
	list := candidates
	if explicit != "" {
		list = append([][]string{{explicit}}, list...)
	}

	for _, c := range list {
		path, err := exec.LookPath(c[0])
		if err != nil {
			continue
		}

		intp := &Interpreter{Path: path, Args: c[1:]}
		if err := intp.queryVersion(); err != nil {
			continue
		}

		return intp, nil
	}

	return nil, eris.New("No usable Python interpreter found")
}

// Command builds a command for this interpreter with the given arguments.
func (i *Interpreter) Command(args ...string) *exec.Cmd {
	return exec.Command(i.Path, append(append([]string{}, i.Args...), args...)...)
}

func (i *Interpreter) queryVersion() error {
	// Old interpreters print the version banner on stderr.
	out, err := i.Command("--version").CombinedOutput()
	if err != nil {
		return eris.Wrapf(err, "Failed to run %s --version", i.Path)
	}

	line := strings.TrimSpace(string(out))
	if pos := strings.IndexByte(line, '\n'); pos > -1 {
		line = strings.TrimSpace(line[:pos])
	}
	i.RawVersion = line

	fields := strings.Fields(line)
	if len(fields) > 0 {
		if version, err := semver.NewVersion(fields[len(fields)-1]); err == nil {
			i.Version = version
		}
	}

	return nil
}

// SupportsSeries reports whether the version banner contains the required
// marker. This is a plain substring check, not a range comparison; it
// matches what the old wrapper did.
func (i *Interpreter) SupportsSeries(series string) bool {
	return strings.Contains(i.RawVersion, series)
}

// Unsupported reports whether the interpreter belongs to a series that
// PyInstaller builds of this project are known to break on (3.13 and newer).
func (i *Interpreter) Unsupported() bool {
	if i.Version == nil {
		return false
	}

	return i.Version.Major() > 3 || (i.Version.Major() == 3 && i.Version.Minor() >= 13)
}
