package app

import "fomod-packager/internal/types"

// PackageRequest carries one pipeline run. Empty directory overrides fall
// back to the project paths.
type PackageRequest struct {
	Project     types.Project
	Releases    types.ReleaseMap
	StagingDir  string
	OutputDir   string
	NoRevision  bool
	KeepStaging bool
}

type PackageResult struct {
	ArchivePath    string
	StagingDir     string
	Name           string
	Version        string
	Revision       string
	Stage          types.PipelineStage
	Staged         []types.StagedCopy
	LayoutWarnings []types.LayoutWarning
	Warnings       []types.ValidationWarning
}

type BuildRequest struct {
	Project        types.Project
	Configurations []string
	Rebuild        bool
	Clean          bool
	Parallel       bool
	SkipBuild      bool
	NoPackage      bool
	StagingDir     string
	OutputDir      string
	NoRevision     bool
	KeepStaging    bool
}

type BuildResult struct {
	Artifacts types.ReleaseMap
	Package   *PackageResult
}

type TemplateRequest struct {
	Project   types.Project
	OutputDir string
	Force     bool
}

type TemplateResult struct {
	Dir      string
	Warnings []types.ValidationWarning
}

type ValidateRequest struct {
	Project      types.Project
	TemplateDir  string
	CheckSources bool
}

type ValidateResult struct {
	Name     string
	Version  string
	Warnings []types.ValidationWarning
}

type InspectRequest struct {
	ArchivePath string
}

type InspectResult struct {
	ArchivePath string
	Name        string
	Version     string
	Revision    string
	Metadata    types.DescriptorMetadata
	Entries     []types.ArchiveEntry
}

type PruneRequest struct {
	OutputDir       string
	KeepLast        int
	KeepDays        int
	ProtectVersions []string
	DryRun          bool
}

type PruneResult struct {
	KeepCount   int
	DeleteCount int
	Deleted     []string
	DryRun      bool
}
