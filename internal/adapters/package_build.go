package adapters

import (
	"context"
	"fmt"
	"os/exec"
	"strings"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/rs/zerolog/log"

	"fomod-packager/internal/ports"
	"fomod-packager/internal/shared"
	"fomod-packager/internal/types"
)

// BuildToolAdapter drives an MSBuild-compatible command line.
type BuildToolAdapter struct {
	Tool string
}

func NewBuildToolAdapter(tool string) BuildToolAdapter {
	return BuildToolAdapter{Tool: tool}
}

func (a BuildToolAdapter) Build(ctx context.Context, invocation ports.BuildInvocation) error {
	if strings.TrimSpace(a.Tool) == "" {
		return errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("build tool is not configured")
	}
	if strings.TrimSpace(invocation.Solution) == "" {
		return errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("solution path is empty")
	}
	if strings.TrimSpace(invocation.Configuration) == "" {
		return errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("build configuration is empty")
	}
	args := BuildArgs(invocation)
	log.Ctx(ctx).Debug().
		Str("tool", a.Tool).
		Strs("args", args).
		Msg("invoking build tool")
	cmd := exec.CommandContext(ctx, a.Tool, args...)
	output, err := cmd.CombinedOutput()
	if err != nil {
		return types.NewKindError(types.ErrorKindBuild, errbuilder.CodeInternal,
			fmt.Sprintf("build failed for configuration %s", invocation.Configuration),
			shared.CommandError(output, err))
	}
	log.Ctx(ctx).Debug().
		Str("configuration", invocation.Configuration).
		Msg(strings.TrimSpace(string(output)))
	return nil
}

// BuildArgs renders the command line for one configuration:
//
//	<solution> -p:Configuration=<name>;OutDir=<dir> [-t:Rebuild | -t:Clean;Rebuild] [-m]
func BuildArgs(invocation ports.BuildInvocation) []string {
	args := []string{
		invocation.Solution,
		fmt.Sprintf("-p:Configuration=%s;OutDir=%s", invocation.Configuration, invocation.OutDir),
	}
	switch {
	case invocation.Clean:
		args = append(args, "-t:Clean;Rebuild")
	case invocation.Rebuild:
		args = append(args, "-t:Rebuild")
	}
	if invocation.Parallel {
		args = append(args, "-m")
	}
	return args
}

var _ ports.BuildToolPort = BuildToolAdapter{}
