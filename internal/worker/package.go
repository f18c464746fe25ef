package worker

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/amankumarsingh77/hls-transcode-queue/internal/videojobs"
)

// verifyPackagedOutput checks for the master playlist and at least one segment.
func verifyPackagedOutput(outputDir string) error {
	if _, err := os.Stat(filepath.Join(outputDir, videojobs.ManifestName)); err != nil {
		return fmt.Errorf("required file %s not found in output: %w", videojobs.ManifestName, err)
	}
	segments, err := filepath.Glob(filepath.Join(outputDir, "v*", "*.ts"))
	if err != nil {
		return fmt.Errorf("failed to check for segment files: %w", err)
	}
	if len(segments) == 0 {
		return fmt.Errorf("no segment files found in output")
	}
	return nil
}

// listArtifacts returns every regular file under root, in lexical order.
func listArtifacts(root string) ([]string, error) {
	var files []string
	err := filepath.WalkDir(root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.Type().IsRegular() {
			files = append(files, p)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list artifacts in %s: %w", root, err)
	}
	return files, nil
}
