package adapters

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/ZanzyTHEbar/errbuilder-go"

	"fomod-packager/internal/ports"
	"fomod-packager/internal/types"
)

// ReleaseStoreAdapter treats every .zip file in a directory as a release.
// Name parsing is left to the caller.
type ReleaseStoreAdapter struct{}

func NewReleaseStoreAdapter() ReleaseStoreAdapter {
	return ReleaseStoreAdapter{}
}

func (a ReleaseStoreAdapter) ListReleases(dir string) ([]types.ReleaseArchive, error) {
	if strings.TrimSpace(dir) == "" {
		return nil, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("release directory is empty")
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return []types.ReleaseArchive{}, nil
		}
		return nil, errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("failed to read release directory").
			WithCause(err)
	}
	var releases []types.ReleaseArchive
	for _, entry := range entries {
		if entry.IsDir() || !strings.EqualFold(filepath.Ext(entry.Name()), ".zip") {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			return nil, errbuilder.New().
				WithCode(errbuilder.CodeInternal).
				WithMsg("failed to read release info").
				WithCause(err)
		}
		releases = append(releases, types.ReleaseArchive{
			Path:    filepath.Join(dir, entry.Name()),
			ModTime: info.ModTime().UTC(),
		})
	}
	return releases, nil
}

func (a ReleaseStoreAdapter) DeleteRelease(path string) error {
	if strings.TrimSpace(path) == "" {
		return errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("release path is empty")
	}
	if err := os.Remove(path); err != nil {
		if os.IsNotExist(err) {
			return errbuilder.New().
				WithCode(errbuilder.CodeNotFound).
				WithMsg("release not found")
		}
		return errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("failed to delete release").
			WithCause(err)
	}
	return nil
}

var _ ports.ReleaseStorePort = ReleaseStoreAdapter{}
