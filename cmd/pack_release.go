package cmd

import (
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/rotisserie/eris"
	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"github.com/haiseskibidi/autogun-build-tools/pkg"
	"github.com/haiseskibidi/autogun-build-tools/pkg/archive"
	"github.com/haiseskibidi/autogun-build-tools/pkg/builder"
)

var packReleaseCmd = &cobra.Command{
	Use:   "pack-release [output]",
	Short: "Packs the built executable and its data directories into a .tar.xz archive",
	Long: `Collects the executable from the project root together with the directories
listed under release_dirs (config/ and data/ by default) and writes them into
a single .tar.xz archive. Run a build first.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		root, cfg, err := loadProject()
		if err != nil {
			return err
		}

		name := builder.ArtifactName(cfg)
		if _, err := os.Stat(filepath.Join(root, name)); err != nil {
			return eris.Wrapf(err, "%s not found, run a build first", name)
		}

		output := cfg.App + "-" + time.Now().Format("20060102") + ".tar.xz"
		if len(args) > 0 {
			output = args[0]
		}

		entries, total, err := collectReleaseEntries(root, name, cfg.ReleaseDirs)
		if err != nil {
			return err
		}

		pkg.PrintTask("Packing " + output)
		writer, err := archive.NewReleaseWriter(filepath.Join(root, output))
		if err != nil {
			return err
		}

		bar := getProgressBar(total, "Packing")
		for _, entry := range entries {
			f, err := os.Open(entry.path)
			if err != nil {
				writer.Close()
				return eris.Wrapf(err, "Failed to open %s", entry.path)
			}

			err = writer.WriteFile(entry.name, entry.info, io.TeeReader(f, bar))
			f.Close()
			if err != nil {
				writer.Close()
				return err
			}
		}

		if err := writer.Close(); err != nil {
			return err
		}

		pkg.PrintSubtask(output)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(packReleaseCmd)
}

func getProgressBar(length int64, desc string) *progressbar.ProgressBar {
	if os.Getenv("CI") == "true" {
		// progress output just clutters CI logs
		return progressbar.NewOptions64(length, progressbar.OptionSetVisibility(false))
	}

	return progressbar.DefaultBytes(length, desc)
}

type releaseEntry struct {
	path string
	name string
	info os.FileInfo
}

// collectReleaseEntries gathers the executable plus everything below the
// release directories. Missing directories are skipped; the app has to run
// without them anyway.
func collectReleaseEntries(root, exeName string, dirs []string) ([]releaseEntry, int64, error) {
	exePath := filepath.Join(root, exeName)
	exeInfo, err := os.Stat(exePath)
	if err != nil {
		return nil, 0, eris.Wrapf(err, "Failed to check %s", exePath)
	}

	entries := []releaseEntry{{path: exePath, name: exeName, info: exeInfo}}
	total := exeInfo.Size()

	for _, dir := range dirs {
		dirPath := filepath.Join(root, dir)
		if _, err := os.Stat(dirPath); err != nil {
			if eris.Is(err, os.ErrNotExist) {
				continue
			}
			return nil, 0, eris.Wrapf(err, "Failed to check %s", dirPath)
		}

		err := filepath.Walk(dirPath, func(path string, info os.FileInfo, err error) error {
			if err != nil {
				return err
			}
			if info.IsDir() {
				return nil
			}

			rel, err := filepath.Rel(root, path)
			if err != nil {
				return err
			}

			entries = append(entries, releaseEntry{path: path, name: filepath.ToSlash(rel), info: info})
			total += info.Size()
			return nil
		})
		if err != nil {
			return nil, 0, eris.Wrapf(err, "Failed to walk %s", dirPath)
		}
	}

	return entries, total, nil
}
