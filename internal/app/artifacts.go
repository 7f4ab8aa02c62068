package app

import (
	"path/filepath"
	"strings"

	"github.com/ZanzyTHEbar/errbuilder-go"

	"fomod-packager/internal/types"
)

// ParseArtifacts reads "NAME=PATH" or "NAME|PATH" pairs into a release
// map. Relative paths are made absolute against the working directory.
func ParseArtifacts(values []string) (types.ReleaseMap, error) {
	releases := types.ReleaseMap{}
	for _, value := range values {
		name, path, ok := splitArtifact(value)
		if !ok {
			return nil, errbuilder.New().
				WithCode(errbuilder.CodeInvalidArgument).
				WithMsg("artifact must be NAME=PATH or NAME|PATH: " + value)
		}
		if _, dup := releases[name]; dup {
			return nil, errbuilder.New().
				WithCode(errbuilder.CodeInvalidArgument).
				WithMsg("artifact listed twice: " + name)
		}
		absPath, err := filepath.Abs(path)
		if err != nil {
			return nil, errbuilder.New().
				WithCode(errbuilder.CodeInvalidArgument).
				WithMsg("invalid artifact path: " + path).
				WithCause(err)
		}
		releases[name] = types.BuildArtifact{ConfigName: name, BinaryPath: absPath}
	}
	return releases, nil
}

func splitArtifact(value string) (string, string, bool) {
	idx := strings.IndexAny(value, "=|")
	if idx < 0 {
		return "", "", false
	}
	name := strings.TrimSpace(value[:idx])
	path := strings.TrimSpace(value[idx+1:])
	if name == "" || path == "" {
		return "", "", false
	}
	return name, path, true
}
