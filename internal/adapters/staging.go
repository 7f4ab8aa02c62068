package adapters

import (
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/ZanzyTHEbar/errbuilder-go"

	"fomod-packager/internal/ports"
)

type StagingAdapter struct{}

func NewStagingAdapter() StagingAdapter {
	return StagingAdapter{}
}

func (a StagingAdapter) Reset(dir string) error {
	if dir == "" {
		return errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("staging directory is empty")
	}
	if info, err := os.Stat(dir); err == nil && !info.IsDir() {
		return errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("staging path is not a directory: " + dir)
	}
	if err := os.RemoveAll(dir); err != nil {
		return errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("failed to remove staging directory").
			WithCause(err)
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("failed to create staging directory").
			WithCause(err)
	}
	return nil
}

// CopyTree copies regular files and directories below srcDir into destDir.
// Symlinks and other special files are skipped.
func (a StagingAdapter) CopyTree(srcDir string, destDir string) error {
	info, err := os.Stat(srcDir)
	if err != nil {
		return errbuilder.New().
			WithCode(errbuilder.CodeNotFound).
			WithMsg("template directory not found").
			WithCause(err)
	}
	if !info.IsDir() {
		return errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("template path is not a directory: " + srcDir)
	}
	err = filepath.WalkDir(srcDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(srcDir, path)
		if err != nil {
			return err
		}
		target := filepath.Join(destDir, rel)
		switch {
		case d.IsDir():
			return os.MkdirAll(target, 0o755)
		case d.Type().IsRegular():
			return copyFile(path, target)
		default:
			return nil
		}
	})
	if err != nil {
		return errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("failed to copy template tree").
			WithCause(err)
	}
	return nil
}

func (a StagingAdapter) CopyFile(src string, dest string) error {
	if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
		return errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("failed to create staged file directory").
			WithCause(err)
	}
	if err := copyFile(src, dest); err != nil {
		return errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("failed to stage " + filepath.Base(src)).
			WithCause(err)
	}
	return nil
}

func (a StagingAdapter) Remove(dir string) error {
	if err := os.RemoveAll(dir); err != nil {
		return errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("failed to remove staging directory").
			WithCause(err)
	}
	return nil
}

func copyFile(srcPath string, destPath string) error {
	srcFile, err := os.Open(srcPath)
	if err != nil {
		return err
	}
	defer srcFile.Close()
	destFile, err := os.Create(destPath)
	if err != nil {
		return err
	}
	if _, err := io.Copy(destFile, srcFile); err != nil {
		destFile.Close()
		return err
	}
	return destFile.Close()
}

var _ ports.StagingPort = StagingAdapter{}
