package adapters

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"gopkg.in/yaml.v3"

	"fomod-packager/internal/ports"
	"fomod-packager/internal/types"
)

const supportedAPIVersion = "v1"

type SpecFileAdapter struct{}

func NewSpecFileAdapter() SpecFileAdapter {
	return SpecFileAdapter{}
}

func (a SpecFileAdapter) LoadProject(path string) (types.Project, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return types.Project{}, errbuilder.New().
			WithCode(errbuilder.CodeNotFound).
			WithMsg("project file not found").
			WithCause(err)
	}
	var project types.Project
	if err := yaml.Unmarshal(data, &project); err != nil {
		return types.Project{}, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("failed to parse project yaml").
			WithCause(err)
	}
	if v := strings.TrimSpace(project.APIVersion); v != "" && v != supportedAPIVersion {
		return types.Project{}, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("unsupported project api_version: " + v)
	}
	absPath, err := filepath.Abs(path)
	if err != nil {
		return types.Project{}, errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("failed to resolve project path").
			WithCause(err)
	}
	project.Root = filepath.Dir(absPath)
	applyProjectDefaults(&project)
	return project, nil
}

// applyProjectDefaults fills every unset field from types.DefaultProject.
// Maps are replaced, never merged, so a project table fully overrides the
// stock one.
func applyProjectDefaults(project *types.Project) {
	defaults := types.DefaultProject()
	if project.APIVersion == "" {
		project.APIVersion = defaults.APIVersion
	}
	setDefault(&project.Paths.Template, defaults.Paths.Template)
	setDefault(&project.Paths.Staging, defaults.Paths.Staging)
	setDefault(&project.Paths.Output, defaults.Paths.Output)
	setDefault(&project.Version.Major, defaults.Version.Major)
	setDefault(&project.Version.Minor, defaults.Version.Minor)
	setDefault(&project.Version.Revision, defaults.Version.Revision)
	setDefault(&project.Binaries.Page, defaults.Binaries.Page)
	if len(project.Binaries.Options) == 0 {
		project.Binaries.Options = defaults.Binaries.Options
	}
	setDefault(&project.Revision.Ref, defaults.Revision.Ref)
	if project.Revision.Length <= 0 {
		project.Revision.Length = defaults.Revision.Length
	}
	setDefault(&project.Build.Tool, defaults.Build.Tool)
	setDefault(&project.Build.Output, defaults.Build.Output)
	setDefault(&project.Build.Artifact, defaults.Build.Artifact)
}

func setDefault(value *string, fallback string) {
	if strings.TrimSpace(*value) == "" {
		*value = fallback
	}
}

var _ ports.ProjectSpecPort = SpecFileAdapter{}
