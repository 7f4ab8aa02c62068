package ports

import "fomod-packager/internal/types"

// ReleaseStorePort enumerates and removes packaged archives.
type ReleaseStorePort interface {
	ListReleases(dir string) ([]types.ReleaseArchive, error)
	DeleteRelease(path string) error
}
