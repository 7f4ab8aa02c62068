// Package testutil provides shared test helpers used across integration
// and unit test packages.
package testutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"fomod-packager/internal/adapters"
	"fomod-packager/internal/types"
)

// Fixture is a complete packaging project below a temporary root: a
// template with fomod files and base configuration, a version header and
// one built binary per stock build configuration.
type Fixture struct {
	Root     string
	Project  types.Project
	Releases types.ReleaseMap
}

const fixtureHeader = `#pragma once

#define PLUGIN_VERSION_MAJOR 3
#define PLUGIN_VERSION_MINOR 4 // bumped for SE
#define PLUGIN_VERSION_REVISION 1
`

// FixtureDescriptor is the installer tree written into the fixture
// template.
func FixtureDescriptor() types.PackageDescriptor {
	dll := `SKSE\Plugins\cbp.dll`
	option := func(name, description, source string) types.Option {
		return types.Option{
			Name:        name,
			Description: description,
			Files:       []types.FileEntry{{Source: source, Destination: dll}},
			Type:        types.OptionTypeOptional,
		}
	}
	return types.PackageDescriptor{
		Metadata: types.DescriptorMetadata{Name: "CBP-A", Author: "SlavicPotato", Description: "CBP-A"},
		Pages: []types.Page{{
			Name: types.DefaultBinaryPage,
			Groups: []types.Group{{
				Name: "DLL",
				Type: types.GroupTypeSelectExactlyOne,
				Options: []types.Option{
					option("Generic x64", "For any x64 cpu", `00_binaries\generic\cbp.dll`),
					option("AVX", "For Intel Sandy Bridge / AMD Bulldozer or later", `00_binaries\avx\cbp.dll`),
					option("AVX2", "For Intel Haswell / AMD Excavator or later", `00_binaries\avx2\cbp.dll`),
				},
			}},
		}},
		RequiredFiles: []types.FileEntry{
			{Source: `03_baseconf\CBP.ini`, Destination: `SKSE\Plugins\CBP.ini`},
		},
		ConditionalFiles: []types.ConditionalFileRule{{
			Conditions: []types.FileCondition{
				{File: `SKSE\Plugins\CBP\Profiles\Node\UNP.json`, State: types.FileStateMissing},
			},
			Files: []types.FileEntry{
				{Source: `03_baseconf\CBP\Profiles\Node\UNP.json`, Destination: `SKSE\Plugins\CBP\Profiles\Node\UNP.json`},
			},
		}},
	}
}

func NewFixture(t *testing.T) Fixture {
	t.Helper()
	root := t.TempDir()
	project := types.DefaultProject()
	project.Root = root
	project.Package = types.PackageInfo{Name: "CBP-A", Author: "SlavicPotato", Description: "CBP-A"}
	project.Version.Header = filepath.Join("src", "version.h")
	project.Build.Solution = "CBP.sln"
	project.Build.Artifact = "cbp.dll"
	project.Build.Configurations = []string{"Dep-Generic", "Dep-AVX", "Dep-AVX2"}
	descriptor := FixtureDescriptor()
	project.Layout = types.TemplateLayout{
		Pages:       descriptor.Pages,
		Files:       descriptor.RequiredFiles,
		Conditional: descriptor.ConditionalFiles,
	}

	template := project.ResolvePath(project.Paths.Template)
	require.NoError(t, adapters.NewFomodXMLAdapter().Write(descriptor, template))
	WriteFile(t, filepath.Join(template, "03_baseconf", "CBP.ini"), "[General]\n")
	WriteFile(t, filepath.Join(template, "03_baseconf", "CBP", "Profiles", "Node", "UNP.json"), "{}\n")
	WriteFile(t, project.ResolvePath(project.Version.Header), fixtureHeader)

	releases := types.ReleaseMap{}
	for _, config := range project.Build.Configurations {
		path := filepath.Join(root, "build", config, "cbp.dll")
		WriteFile(t, path, "binary "+config)
		releases[config] = types.BuildArtifact{ConfigName: config, BinaryPath: path}
	}
	return Fixture{Root: root, Project: project, Releases: releases}
}

// WriteFile creates path with its parent directories.
func WriteFile(t *testing.T, path string, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

// WriteProjectFile serializes the fixture project as fomod.yaml in the
// fixture root and returns its path. Paths stay relative to the root.
func (f Fixture) WriteProjectFile(t *testing.T) string {
	t.Helper()
	data, err := yaml.Marshal(f.Project)
	require.NoError(t, err)
	path := filepath.Join(f.Root, "fomod.yaml")
	require.NoError(t, os.WriteFile(path, data, 0o644))
	return path
}
