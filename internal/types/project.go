package types

import "path/filepath"

// Project is the packaging configuration loaded once at the CLI boundary
// and handed to the pipeline. Relative paths are resolved against Root.
type Project struct {
	APIVersion string           `yaml:"api_version"`
	Root       string           `yaml:"-"`
	Package    PackageInfo      `yaml:"package"`
	Paths      ProjectPaths     `yaml:"paths"`
	Version    VersionDefines   `yaml:"version"`
	Binaries   BinaryMapping    `yaml:"binaries"`
	Revision   RevisionSettings `yaml:"revision"`
	Build      BuildSettings    `yaml:"build"`
	Layout     TemplateLayout   `yaml:"layout"`
}

type PackageInfo struct {
	Name        string `yaml:"name"`
	Author      string `yaml:"author"`
	Description string `yaml:"description"`
	Website     string `yaml:"website,omitempty"`
}

type ProjectPaths struct {
	Template string `yaml:"template"`
	Staging  string `yaml:"staging"`
	Output   string `yaml:"output"`
}

// VersionDefines names the header and the three defines the release
// version is assembled from.
type VersionDefines struct {
	Header   string `yaml:"header"`
	Major    string `yaml:"major"`
	Minor    string `yaml:"minor"`
	Revision string `yaml:"revision"`
}

// BinaryMapping is the translation table from build configuration names to
// the options of the wizard page that selects the plugin binary.
type BinaryMapping struct {
	Page    string            `yaml:"page"`
	Options map[string]string `yaml:"options"`
}

type RevisionSettings struct {
	Enabled bool   `yaml:"enabled"`
	Repo    string `yaml:"repo,omitempty"`
	Ref     string `yaml:"ref,omitempty"`
	Length  int    `yaml:"length,omitempty"`
}

type BuildSettings struct {
	Tool           string   `yaml:"tool"`
	Solution       string   `yaml:"solution"`
	Output         string   `yaml:"output"`
	Artifact       string   `yaml:"artifact"`
	Configurations []string `yaml:"configurations"`
	Rebuild        bool     `yaml:"rebuild,omitempty"`
	Clean          bool     `yaml:"clean,omitempty"`
	Parallel       bool     `yaml:"parallel,omitempty"`
}

// TemplateLayout describes the installer tree the template command writes.
type TemplateLayout struct {
	PageOrder   Order                 `yaml:"order,omitempty"`
	Pages       []Page                `yaml:"pages"`
	Files       []FileEntry           `yaml:"files,omitempty"`
	Conditional []ConditionalFileRule `yaml:"conditional,omitempty"`
}

const (
	DefaultBinaryPage     = "Plugin"
	DefaultRevisionLength = 8
)

// DefaultBinaryOptions is the stock configuration-to-option table.
func DefaultBinaryOptions() map[string]string {
	return map[string]string{
		"Dep-Generic": "Generic x64",
		"Dep-AVX":     "AVX",
		"Dep-AVX2":    "AVX2",
	}
}

func DefaultProject() Project {
	return Project{
		APIVersion: "v1",
		Paths: ProjectPaths{
			Template: "package",
			Staging:  "staging",
			Output:   "releases",
		},
		Version: VersionDefines{
			Major:    "PLUGIN_VERSION_MAJOR",
			Minor:    "PLUGIN_VERSION_MINOR",
			Revision: "PLUGIN_VERSION_REVISION",
		},
		Binaries: BinaryMapping{
			Page:    DefaultBinaryPage,
			Options: DefaultBinaryOptions(),
		},
		Revision: RevisionSettings{
			Ref:    "HEAD",
			Length: DefaultRevisionLength,
		},
		Build: BuildSettings{
			Tool:     "msbuild",
			Output:   "tmp",
			Artifact: "CBP.dll",
		},
	}
}

// ResolvePath anchors a relative project path at the project root.
func (p Project) ResolvePath(path string) string {
	if path == "" || filepath.IsAbs(path) || p.Root == "" {
		return path
	}
	return filepath.Join(p.Root, path)
}
