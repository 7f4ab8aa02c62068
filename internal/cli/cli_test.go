package cli

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fomod-packager/internal/types"
	"fomod-packager/tests/testutil"
)

// ---------- Command tree tests ----------

func TestRootCommandHasSubcommands(t *testing.T) {
	root := newRootCommand()
	names := make([]string, 0, len(root.Commands()))
	for _, cmd := range root.Commands() {
		names = append(names, cmd.Name())
	}
	expected := []string{"package", "build", "template", "validate", "inspect", "prune"}
	for _, name := range expected {
		assert.Contains(t, names, name, "missing subcommand: %s", name)
	}
}

func TestRootCommandVersion(t *testing.T) {
	root := newRootCommand()
	assert.Equal(t, "dev", root.Version)
}

func TestRootPersistentFlags(t *testing.T) {
	root := newRootCommand()
	for _, name := range []string{"config", "log-level", "project"} {
		assert.NotNil(t, root.PersistentFlags().Lookup(name), "missing flag: %s", name)
	}
	assert.Equal(t, "fomod.yaml", root.PersistentFlags().Lookup("project").DefValue)
}

func TestPackageCommandFlags(t *testing.T) {
	cmd := newPackageCommand()
	for _, name := range []string{"artifact", "staging", "output", "no-revision", "keep-staging"} {
		assert.NotNil(t, cmd.Flags().Lookup(name), "missing flag: %s", name)
	}
}

func TestBuildCommandFlags(t *testing.T) {
	cmd := newBuildCommand()
	flags := []string{
		"config-name", "rebuild", "clean", "parallel", "skip-build", "no-package",
		"staging", "output", "no-revision", "keep-staging",
	}
	for _, name := range flags {
		assert.NotNil(t, cmd.Flags().Lookup(name), "missing flag: %s", name)
	}
}

func TestPruneCommandFlags(t *testing.T) {
	cmd := newPruneCommand()
	for _, name := range []string{"releases", "keep-last", "keep-days", "protect-version", "dry-run"} {
		assert.NotNil(t, cmd.Flags().Lookup(name), "missing flag: %s", name)
	}
	assert.Equal(t, "false", cmd.Flags().Lookup("dry-run").DefValue)
}

func TestValidateCommandFlags(t *testing.T) {
	cmd := newValidateCommand()
	assert.NotNil(t, cmd.Flags().Lookup("template-dir"))
	assert.NotNil(t, cmd.Flags().Lookup("check-sources"))
}

// ---------- Command runs ----------

func executeRoot(t *testing.T, args ...string) error {
	t.Helper()
	root := newRootCommand()
	root.SetArgs(append(args, "--log-level", "error"))
	return root.Execute()
}

func TestPackageCommandWritesArchive(t *testing.T) {
	fixture := testutil.NewFixture(t)
	projectFile := fixture.WriteProjectFile(t)

	args := []string{"package", "--project", projectFile}
	for _, config := range fixture.Project.Build.Configurations {
		args = append(args, "--artifact", config+"="+fixture.Releases[config].BinaryPath)
	}
	require.NoError(t, executeRoot(t, args...))

	archive := filepath.Join(fixture.Root, "releases", "CBP-A_3.4.1.zip")
	info, err := os.Stat(archive)
	require.NoError(t, err)
	assert.True(t, info.Mode().IsRegular())
	_, err = os.Stat(filepath.Join(fixture.Root, "staging"))
	assert.True(t, os.IsNotExist(err), "staging should be removed after success")

	require.NoError(t, executeRoot(t, "inspect", archive))
}

func TestPackageCommandWithoutArtifactsIsInvalidArgument(t *testing.T) {
	fixture := testutil.NewFixture(t)
	projectFile := fixture.WriteProjectFile(t)

	err := executeRoot(t, "package", "--project", projectFile)
	require.Error(t, err)
	assert.Equal(t, 2, exitCodeForError(err))
}

func TestPackageCommandMissingArtifactExitCode(t *testing.T) {
	fixture := testutil.NewFixture(t)
	projectFile := fixture.WriteProjectFile(t)

	err := executeRoot(t, "package", "--project", projectFile,
		"--artifact", "Dep-AVX="+filepath.Join(fixture.Root, "missing.dll"))
	require.Error(t, err)
	assert.Equal(t, 5, exitCodeForError(err))
}

func TestValidateCommandOnFixture(t *testing.T) {
	fixture := testutil.NewFixture(t)
	projectFile := fixture.WriteProjectFile(t)

	require.NoError(t, executeRoot(t, "validate", "--project", projectFile))

	err := executeRoot(t, "validate", "--project", projectFile, "--check-sources")
	require.Error(t, err)
	assert.Equal(t, 3, exitCodeForError(err))
}

func TestTemplateCommandRequiresForce(t *testing.T) {
	fixture := testutil.NewFixture(t)
	projectFile := fixture.WriteProjectFile(t)

	err := executeRoot(t, "template", "--project", projectFile)
	require.Error(t, err)
	assert.Equal(t, 2, exitCodeForError(err))

	require.NoError(t, executeRoot(t, "template", "--project", projectFile, "--force"))
}

func TestMissingProjectFileExitCode(t *testing.T) {
	err := executeRoot(t, "validate", "--project", filepath.Join(t.TempDir(), "fomod.yaml"))
	require.Error(t, err)
	assert.Equal(t, 5, exitCodeForError(err))
}

func TestUnknownFlagIsInvalidArgument(t *testing.T) {
	err := executeRoot(t, "prune", "--keep-forever")
	require.Error(t, err)
	assert.Equal(t, 2, exitCodeForError(err))
}

// ---------- Helper function tests ----------

func TestResolveString(t *testing.T) {
	tests := []struct {
		name     string
		cmd      *cobra.Command
		value    string
		expected string
	}{
		{
			name:     "nil cmd with value returns value",
			cmd:      nil,
			value:    "explicit",
			expected: "explicit",
		},
		{
			name:     "nil cmd empty value returns empty",
			cmd:      nil,
			value:    "",
			expected: "",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := resolveString(tt.cmd, tt.value, "test_key", "test-flag")
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestResolveStrings(t *testing.T) {
	got := resolveStrings(nil, []string{"a", "b"}, "test_key", "test-flag")
	assert.Equal(t, []string{"a", "b"}, got)
}

func TestResolveBoolAndInt(t *testing.T) {
	assert.True(t, resolveBool(nil, true, "test_key", "test-flag"))
	assert.False(t, resolveBool(nil, false, "test_key", "test-flag"))
	assert.Equal(t, 42, resolveInt(nil, 42, "test_key", "test-flag"))
}

func TestFlagChanged(t *testing.T) {
	assert.False(t, flagChanged(nil, "anything"), "nil cmd should return false")

	cmd := &cobra.Command{Use: "test"}
	cmd.Flags().String("myflag", "", "test flag")
	assert.False(t, flagChanged(cmd, "myflag"), "unchanged flag")
	assert.False(t, flagChanged(cmd, "nonexistent"), "nonexistent flag")
	require.NoError(t, cmd.Flags().Set("myflag", "val"))
	assert.True(t, flagChanged(cmd, "myflag"))
}

// ---------- Exit code tests ----------

func TestExitCodeForError(t *testing.T) {
	kindErr := func(kind types.ErrorKind, code errbuilder.ErrCode) error {
		return types.NewKindError(kind, code, "failed", nil)
	}
	tests := []struct {
		name     string
		err      error
		expected int
	}{
		{
			name:     "invalid argument",
			err:      errbuilder.New().WithCode(errbuilder.CodeInvalidArgument).WithMsg("bad input"),
			expected: 2,
		},
		{
			name:     "already exists",
			err:      errbuilder.New().WithCode(errbuilder.CodeAlreadyExists).WithMsg("dup"),
			expected: 2,
		},
		{
			name:     "structural",
			err:      kindErr(types.ErrorKindStructural, errbuilder.CodeFailedPrecondition),
			expected: 3,
		},
		{
			name:     "validation",
			err:      kindErr(types.ErrorKindValidation, errbuilder.CodeFailedPrecondition),
			expected: 3,
		},
		{
			name:     "parse wins over not found code",
			err:      kindErr(types.ErrorKindParse, errbuilder.CodeNotFound),
			expected: 4,
		},
		{
			name:     "missing field",
			err:      kindErr(types.ErrorKindMissingField, errbuilder.CodeFailedPrecondition),
			expected: 4,
		},
		{
			name:     "artifact not found",
			err:      kindErr(types.ErrorKindArtifactNotFound, errbuilder.CodeNotFound),
			expected: 5,
		},
		{
			name:     "build",
			err:      kindErr(types.ErrorKindBuild, errbuilder.CodeInternal),
			expected: 6,
		},
		{
			name:     "archive",
			err:      kindErr(types.ErrorKindArchive, errbuilder.CodeInternal),
			expected: 7,
		},
		{
			name:     "not found generic",
			err:      errbuilder.New().WithCode(errbuilder.CodeNotFound).WithMsg("file missing"),
			expected: 5,
		},
		{
			name:     "failed precondition without kind",
			err:      errbuilder.New().WithCode(errbuilder.CodeFailedPrecondition).WithMsg("no revision"),
			expected: 1,
		},
		{
			name:     "unknown error",
			err:      assert.AnError,
			expected: 1,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, exitCodeForError(tt.err))
		})
	}
}

func TestErrorMessage(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected string
	}{
		{
			name:     "errbuilder with msg",
			err:      errbuilder.New().WithCode(errbuilder.CodeInternal).WithMsg("something broke"),
			expected: "something broke",
		},
		{
			name:     "kind error",
			err:      types.NewKindError(types.ErrorKindBuild, errbuilder.CodeInternal, "build failed", nil),
			expected: "build failed",
		},
		{
			name:     "plain error",
			err:      assert.AnError,
			expected: assert.AnError.Error(),
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, errorMessage(tt.err))
		})
	}
}
