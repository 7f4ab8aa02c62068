package ports

import (
	"context"

	"fomod-packager/internal/types"
)

type ArchiveWriterPort interface {
	// CreateArchive compresses the whole of srcDir into destPath.
	CreateArchive(ctx context.Context, srcDir string, destPath string) error
}

type ArchiveReaderPort interface {
	ListEntries(path string) ([]types.ArchiveEntry, error)
	ReadEntry(path string, name string) ([]byte, error)
}
