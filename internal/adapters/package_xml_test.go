package adapters

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fomod-packager/internal/types"
)

const testModuleConfig = `<?xml version="1.0" encoding="UTF-8"?>
<config xmlns:xsi="http://www.w3.org/2001/XMLSchema-instance" xsi:noNamespaceSchemaLocation="http://qconsulting.ca/fo3/ModConfig5.0.xsd">
  <moduleName>CBP Physics</moduleName>
  <requiredInstallFiles>
    <folder source="core" destination="SKSE/Plugins/CBP"/>
    <file source="readme.txt" destination="Docs/readme.txt" priority="1"/>
  </requiredInstallFiles>
  <installSteps order="Explicit">
    <installStep name="Plugin">
      <optionalFileGroups order="Explicit">
        <group name="Instruction set" type="SelectExactlyOne">
          <plugins order="Explicit">
            <plugin name="Generic x64">
              <description>Runs everywhere</description>
              <image path="images/generic.png"/>
              <files>
                <file source="bin/generic/CBP.dll" destination="SKSE/Plugins/CBP.dll"/>
              </files>
              <typeDescriptor><type name="Recommended"/></typeDescriptor>
            </plugin>
            <plugin name="AVX2">
              <description>Haswell and newer</description>
              <files>
                <file source="bin/avx2/CBP.dll" destination="SKSE/Plugins/CBP.dll"/>
              </files>
              <typeDescriptor><type name="Optional"/></typeDescriptor>
            </plugin>
          </plugins>
        </group>
      </optionalFileGroups>
    </installStep>
  </installSteps>
  <conditionalFileInstalls>
    <patterns>
      <pattern>
        <dependencies operator="And">
          <fileDependency file="CBPConfig.txt" state="Missing"/>
        </dependencies>
        <files>
          <file source="defaults/CBPConfig.txt" destination="SKSE/Plugins/CBPConfig.txt"/>
        </files>
      </pattern>
    </patterns>
  </conditionalFileInstalls>
</config>
`

const testInfoXML = `<fomod>
  <Name> CBP Physics </Name>
  <Author>Modder</Author>
  <Version>3.4.1</Version>
  <Description>Physics for everyone</Description>
  <Website>https://example.invalid/cbp</Website>
</fomod>
`

func writeFomodFiles(t *testing.T, dir string, moduleConfig string, info string) {
	t.Helper()
	fomod := filepath.Join(dir, FomodDir)
	require.NoError(t, os.MkdirAll(fomod, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(fomod, ModuleConfigName), []byte(moduleConfig), 0o644))
	if info != "" {
		require.NoError(t, os.WriteFile(filepath.Join(fomod, InfoXMLName), []byte(info), 0o644))
	}
}

func sampleDescriptor() types.PackageDescriptor {
	return types.PackageDescriptor{
		Metadata: types.DescriptorMetadata{
			Name:        "CBP Physics",
			Author:      "Modder",
			Version:     "3.4.1",
			Description: "Physics for everyone",
			Website:     "https://example.invalid/cbp",
		},
		PageOrder: types.OrderExplicit,
		Pages: []types.Page{{
			Name:       "Plugin",
			GroupOrder: types.OrderExplicit,
			Groups: []types.Group{{
				Name:        "Instruction set",
				Type:        types.GroupTypeSelectExactlyOne,
				OptionOrder: types.OrderExplicit,
				Options: []types.Option{
					{
						Name:        "Generic x64",
						Description: "Runs everywhere",
						Image:       "images/generic.png",
						Files: []types.FileEntry{
							{Source: "bin/generic/CBP.dll", Destination: "SKSE/Plugins/CBP.dll"},
						},
						Type: types.OptionTypeRecommended,
					},
					{
						Name:        "AVX2",
						Description: "Haswell and newer",
						Files: []types.FileEntry{
							{Source: "bin/avx2/CBP.dll", Destination: "SKSE/Plugins/CBP.dll"},
						},
						Type: types.OptionTypeOptional,
					},
				},
			}},
		}},
		RequiredFiles: []types.FileEntry{
			{Source: "core", Destination: "SKSE/Plugins/CBP", Folder: true},
			{Source: "readme.txt", Destination: "Docs/readme.txt", Priority: 1},
		},
		ConditionalFiles: []types.ConditionalFileRule{{
			Operator: types.ConditionOperatorAnd,
			Conditions: []types.FileCondition{
				{File: "CBPConfig.txt", State: types.FileStateMissing},
			},
			Files: []types.FileEntry{
				{Source: "defaults/CBPConfig.txt", Destination: "SKSE/Plugins/CBPConfig.txt"},
			},
		}},
	}
}

func TestFomodXMLParse(t *testing.T) {
	dir := t.TempDir()
	writeFomodFiles(t, dir, testModuleConfig, testInfoXML)

	descriptor, err := NewFomodXMLAdapter().Parse(dir)
	require.NoError(t, err)

	if diff := cmp.Diff(sampleDescriptor(), descriptor); diff != "" {
		t.Fatalf("descriptor mismatch (-want +got):\n%s", diff)
	}
}

func TestFomodXMLParseWithoutInfoFallsBackToModuleName(t *testing.T) {
	dir := t.TempDir()
	writeFomodFiles(t, dir, testModuleConfig, "")

	descriptor, err := NewFomodXMLAdapter().Parse(dir)
	require.NoError(t, err)
	assert.Equal(t, "CBP Physics", descriptor.Metadata.Name)
	assert.Empty(t, descriptor.Metadata.Version)
}

func TestFomodXMLParseReportsUnsupportedElements(t *testing.T) {
	config := strings.NewReplacer(
		"<moduleName>CBP Physics</moduleName>",
		"<moduleName>CBP Physics</moduleName>\n  <moduleImage path=\"images/logo.png\"/>",
		"<installStep name=\"Plugin\">",
		"<installStep name=\"Plugin\"><visible><flagDependency flag=\"x\" value=\"On\"/></visible>",
		"<description>Haswell and newer</description>",
		"<description>Haswell and newer</description><conditionFlags><flag name=\"avx2\">On</flag></conditionFlags>",
		"<typeDescriptor><type name=\"Recommended\"/></typeDescriptor>",
		"<typeDescriptor><dependencyType><defaultType name=\"Optional\"/></dependencyType></typeDescriptor>",
	).Replace(testModuleConfig)
	dir := t.TempDir()
	writeFomodFiles(t, dir, config, testInfoXML)

	descriptor, err := NewFomodXMLAdapter().Parse(dir)
	require.NoError(t, err)
	want := []string{
		"config/moduleImage",
		"installStep 'Plugin'/visible",
		"plugin 'Plugin/Instruction set/Generic x64'/typeDescriptor/dependencyType",
		"plugin 'Plugin/Instruction set/AVX2'/conditionFlags",
	}
	if diff := cmp.Diff(want, descriptor.Unsupported); diff != "" {
		t.Fatalf("unsupported elements mismatch (-want +got):\n%s", diff)
	}

	out := t.TempDir()
	require.NoError(t, NewFomodXMLAdapter().Write(descriptor, out))
	written, err := os.ReadFile(filepath.Join(out, FomodDir, ModuleConfigName))
	require.NoError(t, err)
	assert.NotContains(t, string(written), "conditionFlags")
	assert.NotContains(t, string(written), "moduleImage")
}

func TestFomodXMLParseMissingModuleConfig(t *testing.T) {
	_, err := NewFomodXMLAdapter().Parse(t.TempDir())
	require.Error(t, err)
	assert.Contains(t, err.Error(), ModuleConfigName)
}

func TestFomodXMLParseCorruptModuleConfig(t *testing.T) {
	dir := t.TempDir()
	writeFomodFiles(t, dir, "<config><moduleName>broken", "")

	_, err := NewFomodXMLAdapter().Parse(dir)
	require.Error(t, err)
}

func TestFomodXMLWriteThenParse(t *testing.T) {
	dir := t.TempDir()
	adapter := NewFomodXMLAdapter()
	require.NoError(t, adapter.Write(sampleDescriptor(), dir))

	parsed, err := adapter.Parse(dir)
	require.NoError(t, err)
	if diff := cmp.Diff(sampleDescriptor(), parsed); diff != "" {
		t.Fatalf("descriptor mismatch after write (-want +got):\n%s", diff)
	}
}

func TestFomodXMLWriteIsDeterministic(t *testing.T) {
	adapter := NewFomodXMLAdapter()
	first := t.TempDir()
	second := t.TempDir()
	require.NoError(t, adapter.Write(sampleDescriptor(), first))
	require.NoError(t, adapter.Write(sampleDescriptor(), second))

	for _, name := range []string{InfoXMLName, ModuleConfigName} {
		a, err := os.ReadFile(filepath.Join(first, FomodDir, name))
		require.NoError(t, err)
		b, err := os.ReadFile(filepath.Join(second, FomodDir, name))
		require.NoError(t, err)
		assert.Equal(t, string(a), string(b), name)
	}
}

func TestFomodXMLWriteAppliesDefaults(t *testing.T) {
	descriptor := types.PackageDescriptor{
		Metadata: types.DescriptorMetadata{Name: "Minimal"},
		Pages: []types.Page{{
			Name: "Plugin",
			Groups: []types.Group{{
				Name: "Binary",
				Type: types.GroupTypeSelectAny,
				Options: []types.Option{{
					Name:  "Only",
					Files: []types.FileEntry{{Source: "a.dll", Destination: "a.dll"}},
				}},
			}},
		}},
		ConditionalFiles: []types.ConditionalFileRule{{
			Conditions: []types.FileCondition{{File: "a.ini", State: types.FileStateMissing}},
			Files:      []types.FileEntry{{Source: "a.ini", Destination: "a.ini"}},
		}},
	}
	dir := t.TempDir()
	require.NoError(t, NewFomodXMLAdapter().Write(descriptor, dir))

	content, err := os.ReadFile(filepath.Join(dir, FomodDir, ModuleConfigName))
	require.NoError(t, err)
	text := string(content)
	assert.True(t, strings.HasPrefix(text, `<?xml version="1.0" encoding="UTF-8"?>`))
	assert.Contains(t, text, `<installSteps order="Explicit">`)
	assert.Contains(t, text, `<type name="Optional">`)
	assert.Contains(t, text, `<dependencies operator="And">`)
	assert.NotContains(t, text, "requiredInstallFiles")
}

func TestFomodXMLDecodeInfo(t *testing.T) {
	metadata, err := NewFomodXMLAdapter().DecodeInfo(strings.NewReader(testInfoXML))
	require.NoError(t, err)
	assert.Equal(t, "CBP Physics", metadata.Name)
	assert.Equal(t, "3.4.1", metadata.Version)

	_, err = NewFomodXMLAdapter().DecodeInfo(strings.NewReader("not xml"))
	require.Error(t, err)
}
