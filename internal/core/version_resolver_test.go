package core

import (
	"context"
	"errors"
	"testing"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fomod-packager/internal/types"
)

type testHeader struct {
	defines map[string]string
	err     error
}

func (h testHeader) Defines(string) (map[string]string, error) {
	return h.defines, h.err
}

func TestVersionResolverAssemblesVersion(t *testing.T) {
	header := testHeader{defines: map[string]string{
		"PLUGIN_VERSION_MAJOR":    "3",
		"PLUGIN_VERSION_MINOR":    "4",
		"PLUGIN_VERSION_REVISION": "1",
		"UNRELATED":               "x",
	}}
	resolver := NewVersionResolver(header, types.DefaultProject().Version)

	version, err := resolver.Resolve(context.Background(), "version.h")
	require.NoError(t, err)
	assert.Equal(t, "3.4.1", version)
}

func TestVersionResolverKeepsValuesVerbatim(t *testing.T) {
	header := testHeader{defines: map[string]string{
		"MAJ": "01",
		"MIN": "beta",
		"REV": "0x2",
	}}
	resolver := NewVersionResolver(header, types.VersionDefines{Major: "MAJ", Minor: "MIN", Revision: "REV"})

	version, err := resolver.Resolve(context.Background(), "version.h")
	require.NoError(t, err)
	assert.Equal(t, "01.beta.0x2", version)
}

func TestVersionResolverReportsEveryMissingDefine(t *testing.T) {
	header := testHeader{defines: map[string]string{
		"PLUGIN_VERSION_MAJOR": "3",
		"PLUGIN_VERSION_MINOR": "",
	}}
	resolver := NewVersionResolver(header, types.VersionDefines{})

	_, err := resolver.Resolve(context.Background(), "version.h")
	require.Error(t, err)
	assert.True(t, types.IsKind(err, types.ErrorKindMissingField))
	assert.Contains(t, err.Error(), "PLUGIN_VERSION_MINOR")
	assert.Contains(t, err.Error(), "PLUGIN_VERSION_REVISION")
	assert.NotContains(t, err.Error(), "PLUGIN_VERSION_MAJOR")
}

func TestVersionResolverPropagatesParseErrors(t *testing.T) {
	parseErr := types.NewKindError(types.ErrorKindParse, errbuilder.CodeInvalidArgument, "unterminated block comment in header", nil)
	resolver := NewVersionResolver(testHeader{err: parseErr}, types.VersionDefines{})

	_, err := resolver.Resolve(context.Background(), "version.h")
	require.Error(t, err)
	assert.True(t, errors.Is(err, parseErr))
	assert.True(t, types.IsKind(err, types.ErrorKindParse))
}

func TestVersionResolverRequiresInputs(t *testing.T) {
	_, err := VersionResolver{}.Resolve(context.Background(), "version.h")
	require.Error(t, err)

	_, err = NewVersionResolver(testHeader{}, types.VersionDefines{}).Resolve(context.Background(), " ")
	require.Error(t, err)
}
