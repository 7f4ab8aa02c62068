package types

// BuildArtifact is one compiled variant handed over by the build step.
type BuildArtifact struct {
	ConfigName string
	BinaryPath string
}

// ReleaseMap keys build artifacts by configuration name.
type ReleaseMap map[string]BuildArtifact

// StagedCopy is one binary copy planned by the release layout.
type StagedCopy struct {
	ConfigName string
	OptionName string
	Source     string
	Target     string
}

type LayoutWarning struct {
	ConfigName string
	OptionName string
	Reason     string
}

type LayoutPlan struct {
	Copies   []StagedCopy
	Warnings []LayoutWarning
}
