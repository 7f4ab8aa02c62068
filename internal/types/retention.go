package types

import "time"

// ReleaseArchive is a packaged archive found in the release output directory.
type ReleaseArchive struct {
	Path     string
	Package  string
	Version  string
	Revision string
	ModTime  time.Time
}

type ReleaseRetentionPolicy struct {
	KeepLast        int
	KeepDays        int
	ProtectVersions []string
	DryRun          bool
}

type ReleasePrunePlan struct {
	Keep   []ReleaseArchive
	Delete []ReleaseArchive
}

// ArchiveEntry is one member of a packaged archive.
type ArchiveEntry struct {
	Name string
	Size uint64
	Dir  bool
}
