package core

import (
	"context"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fomod-packager/internal/types"
)

func validDescriptor() types.PackageDescriptor {
	return types.PackageDescriptor{
		Metadata: types.DescriptorMetadata{Name: "CBP", Author: "Modder", Version: "3.4.1"},
		Pages: []types.Page{{
			Name: "Plugin",
			Groups: []types.Group{{
				Name: "Binary",
				Type: types.GroupTypeSelectExactlyOne,
				Options: []types.Option{
					binaryOption("Generic x64", "bin/generic/CBP.dll"),
					binaryOption("AVX", `bin\avx\CBP.dll`),
				},
			}},
		}},
		RequiredFiles: []types.FileEntry{{Source: "core", Destination: "SKSE/Plugins/CBP", Folder: true}},
		ConditionalFiles: []types.ConditionalFileRule{{
			Conditions: []types.FileCondition{{File: "CBPConfig.txt", State: types.FileStateMissing}},
			Files:      []types.FileEntry{{Source: "defaults/CBPConfig.txt", Destination: "SKSE/Plugins/CBPConfig.txt"}},
		}},
	}
}

func packageFS() fstest.MapFS {
	return fstest.MapFS{
		"bin/generic/CBP.dll":    {Data: []byte("generic")},
		"bin/avx/CBP.dll":        {Data: []byte("avx")},
		"core/readme.txt":        {Data: []byte("core")},
		"defaults/CBPConfig.txt": {Data: []byte("cfg")},
	}
}

func titles(warnings []types.ValidationWarning) []string {
	out := make([]string, 0, len(warnings))
	for _, warning := range warnings {
		out = append(out, warning.Title)
	}
	return out
}

func TestValidatorAcceptsValidDescriptor(t *testing.T) {
	warnings := NewValidator(true).Validate(validDescriptor(), packageFS())
	assert.Empty(t, warnings)
}

func TestValidatorCriticalRules(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*types.PackageDescriptor)
		title  string
	}{
		{name: "empty name", mutate: func(d *types.PackageDescriptor) { d.Metadata.Name = "" }, title: "Missing name"},
		{name: "no pages", mutate: func(d *types.PackageDescriptor) { d.Pages = nil }, title: "No pages"},
		{name: "page without groups", mutate: func(d *types.PackageDescriptor) { d.Pages[0].Groups = nil }, title: "No groups"},
		{name: "group without options", mutate: func(d *types.PackageDescriptor) { d.Pages[0].Groups[0].Options = nil }, title: "No options"},
		{name: "empty group name", mutate: func(d *types.PackageDescriptor) { d.Pages[0].Groups[0].Name = "" }, title: "Missing name"},
		{name: "duplicate option", mutate: func(d *types.PackageDescriptor) {
			d.Pages[0].Groups[0].Options[1].Name = "Generic x64"
		}, title: "Duplicate option"},
		{name: "option without files", mutate: func(d *types.PackageDescriptor) {
			d.Pages[0].Groups[0].Options[0].Files = nil
		}, title: "No files"},
		{name: "file without source", mutate: func(d *types.PackageDescriptor) {
			d.Pages[0].Groups[0].Options[0].Files[0].Source = ""
		}, title: "Missing source"},
		{name: "source not in package", mutate: func(d *types.PackageDescriptor) {
			d.Pages[0].Groups[0].Options[0].Files[0].Source = "bin/avx2/CBP.dll"
		}, title: "Missing source"},
		{name: "source escapes package", mutate: func(d *types.PackageDescriptor) {
			d.RequiredFiles[0].Source = "../core"
		}, title: "Invalid source"},
		{name: "folder is a file", mutate: func(d *types.PackageDescriptor) {
			d.RequiredFiles[0].Source = "core/readme.txt"
		}, title: "Source is not a folder"},
		{name: "two required in exactly one", mutate: func(d *types.PackageDescriptor) {
			d.Pages[0].Groups[0].Options[0].Type = types.OptionTypeRequired
			d.Pages[0].Groups[0].Options[1].Type = types.OptionTypeRequired
		}, title: "Conflicting required options"},
		{name: "all not usable", mutate: func(d *types.PackageDescriptor) {
			d.Pages[0].Groups[0].Options[0].Type = types.OptionTypeNotUsable
			d.Pages[0].Groups[0].Options[1].Type = types.OptionTypeNotUsable
		}, title: "No usable options"},
		{name: "rule without conditions", mutate: func(d *types.PackageDescriptor) {
			d.ConditionalFiles[0].Conditions = nil
		}, title: "No conditions"},
		{name: "condition without file", mutate: func(d *types.PackageDescriptor) {
			d.ConditionalFiles[0].Conditions[0].File = ""
		}, title: "Missing condition file"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			descriptor := validDescriptor()
			tt.mutate(&descriptor)
			warnings := NewValidator(true).Validate(descriptor, packageFS())
			require.True(t, types.HasCritical(warnings), "warnings: %v", warnings)
			assert.Contains(t, titles(warnings), tt.title)
		})
	}
}

func TestValidatorAdvisoryRules(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*types.PackageDescriptor)
		title  string
	}{
		{name: "empty version", mutate: func(d *types.PackageDescriptor) { d.Metadata.Version = "" }, title: "Missing version"},
		{name: "unorderable version", mutate: func(d *types.PackageDescriptor) { d.Metadata.Version = "v3.4.1" }, title: "Unorderable version"},
		{name: "empty author", mutate: func(d *types.PackageDescriptor) { d.Metadata.Author = "" }, title: "Missing author"},
		{name: "duplicate page", mutate: func(d *types.PackageDescriptor) {
			d.Pages = append(d.Pages, d.Clone().Pages[0])
		}, title: "Duplicate page"},
		{name: "select all with optional", mutate: func(d *types.PackageDescriptor) {
			d.Pages[0].Groups[0].Type = types.GroupTypeSelectAll
		}, title: "Optional options in SelectAll"},
		{name: "empty destination", mutate: func(d *types.PackageDescriptor) {
			d.Pages[0].Groups[0].Options[0].Files[0].Destination = ""
		}, title: "Missing destination"},
		{name: "unknown group type", mutate: func(d *types.PackageDescriptor) {
			d.Pages[0].Groups[0].Type = "SelectSome"
		}, title: "Unknown group type"},
		{name: "unknown state", mutate: func(d *types.PackageDescriptor) {
			d.ConditionalFiles[0].Conditions[0].State = "Gone"
		}, title: "Unknown file state"},
		{name: "unsupported element", mutate: func(d *types.PackageDescriptor) {
			d.Unsupported = []string{"config/moduleImage"}
		}, title: "Unsupported element"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			descriptor := validDescriptor()
			tt.mutate(&descriptor)
			warnings := NewValidator(true).Validate(descriptor, packageFS())
			require.NotEmpty(t, warnings)
			assert.False(t, types.HasCritical(warnings), "warnings: %v", warnings)
			assert.Contains(t, titles(warnings), tt.title)
		})
	}
}

func TestValidatorSkipsSourcesWhenDisabled(t *testing.T) {
	warnings := NewValidator(false).Validate(validDescriptor(), fstest.MapFS{})
	assert.Empty(t, warnings)
}

func TestValidatorCheck(t *testing.T) {
	_, err := NewValidator(false).Check(context.Background(), validDescriptor(), nil)
	require.NoError(t, err)

	advisory := validDescriptor()
	advisory.Metadata.Author = ""
	warnings, err := NewValidator(false).Check(context.Background(), advisory, nil)
	require.NoError(t, err)
	require.Len(t, warnings, 1)
	assert.Equal(t, "Metadata: Missing author - package author is empty", warnings[0].String())

	critical := validDescriptor()
	critical.Pages = nil
	warnings, err = NewValidator(false).Check(context.Background(), critical, nil)
	require.Error(t, err)
	assert.True(t, types.IsKind(err, types.ErrorKindValidation))
	assert.Equal(t, "CRITICAL: Descriptor: No pages - the installer has no pages", warnings[0].String())
}
