package core

import (
	"context"
	"fmt"
	"strings"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/rs/zerolog/log"

	"fomod-packager/internal/ports"
	"fomod-packager/internal/types"
)

// VersionResolver assembles "major.minor.revision" from three defines of a
// version header.
type VersionResolver struct {
	Header  ports.HeaderDefinesPort
	Defines types.VersionDefines
}

func NewVersionResolver(header ports.HeaderDefinesPort, defines types.VersionDefines) VersionResolver {
	return VersionResolver{
		Header:  header,
		Defines: defines,
	}
}

func (r VersionResolver) Resolve(ctx context.Context, headerPath string) (string, error) {
	if r.Header == nil {
		return "", errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("version resolver requires a header port")
	}
	if strings.TrimSpace(headerPath) == "" {
		return "", errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("version header path is required")
	}
	defines, err := r.Header.Defines(headerPath)
	if err != nil {
		return "", err
	}

	names := r.defineNames()
	values := make([]string, 0, len(names))
	var missing []string
	for _, name := range names {
		value := strings.TrimSpace(defines[name])
		if value == "" {
			missing = append(missing, name)
			continue
		}
		values = append(values, value)
	}
	if len(missing) > 0 {
		return "", types.NewKindError(types.ErrorKindMissingField, errbuilder.CodeFailedPrecondition,
			fmt.Sprintf("version header %s is missing defines: %s", headerPath, strings.Join(missing, ", ")), nil)
	}
	version := strings.Join(values, ".")
	log.Ctx(ctx).Debug().
		Str("header", headerPath).
		Str("version", version).
		Msg("resolved version")
	return version, nil
}

func (r VersionResolver) defineNames() []string {
	fallback := types.DefaultProject().Version
	major, minor, revision := r.Defines.Major, r.Defines.Minor, r.Defines.Revision
	if major == "" {
		major = fallback.Major
	}
	if minor == "" {
		minor = fallback.Minor
	}
	if revision == "" {
		revision = fallback.Revision
	}
	return []string{major, minor, revision}
}
