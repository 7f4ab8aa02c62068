package ports

// StagingPort performs the file-system work on a staging tree.
type StagingPort interface {
	// Reset removes dir entirely and recreates it empty.
	Reset(dir string) error
	CopyTree(srcDir string, destDir string) error
	// CopyFile overwrites dest, creating parent directories as needed.
	CopyFile(src string, dest string) error
	Remove(dir string) error
}
