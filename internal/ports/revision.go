package ports

import "context"

type RevisionPort interface {
	// ShortRevision returns the first length characters of the commit id
	// ref resolves to in repoDir.
	ShortRevision(ctx context.Context, repoDir string, ref string, length int) (string, error)
}
