package ports

import (
	"io"

	"fomod-packager/internal/types"
)

// DescriptorPort reads and writes the installer description kept in the
// fomod directory of a package tree.
type DescriptorPort interface {
	// Parse loads fomod/ModuleConfig.xml (required) and fomod/info.xml
	// (optional) below packageDir.
	Parse(packageDir string) (types.PackageDescriptor, error)

	// Write serializes the descriptor into packageDir/fomod, replacing any
	// existing description files.
	Write(descriptor types.PackageDescriptor, packageDir string) error

	// DecodeInfo reads the metadata block of an info.xml stream.
	DecodeInfo(r io.Reader) (types.DescriptorMetadata, error)
}
