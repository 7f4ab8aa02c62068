package app

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/rs/zerolog/log"

	"fomod-packager/internal/ports"
	"fomod-packager/internal/types"
)

// Build compiles every configuration into its own directory below the
// build output, checks that each produced the artifact and packages the
// result. With SkipBuild the existing outputs are packaged as they are.
func (s Service) Build(ctx context.Context, req BuildRequest) (BuildResult, error) {
	project := req.Project
	configs := buildConfigurations(req.Configurations, project)
	if len(configs) == 0 {
		return BuildResult{}, invalidArgument("no build configurations configured")
	}
	outputRoot := project.ResolvePath(project.Build.Output)
	if strings.TrimSpace(outputRoot) == "" {
		return BuildResult{}, invalidArgument("build output directory is required")
	}
	artifactName := strings.TrimSpace(project.Build.Artifact)
	if artifactName == "" {
		return BuildResult{}, invalidArgument("build artifact name is required")
	}

	if !req.SkipBuild {
		if err := s.runBuilds(ctx, req, configs, outputRoot); err != nil {
			return BuildResult{}, err
		}
	}

	artifacts := types.ReleaseMap{}
	for _, config := range configs {
		path := filepath.Join(outputRoot, config, artifactName)
		info, err := os.Stat(path)
		if err != nil || !info.Mode().IsRegular() {
			return BuildResult{}, types.NewKindError(types.ErrorKindArtifactNotFound, errbuilder.CodeNotFound,
				fmt.Sprintf("configuration %s did not produce %s", config, path), err)
		}
		artifacts[config] = types.BuildArtifact{ConfigName: config, BinaryPath: path}
	}
	result := BuildResult{Artifacts: artifacts}
	if req.NoPackage {
		return result, nil
	}

	packaged, err := s.Package(ctx, PackageRequest{
		Project:     project,
		Releases:    artifacts,
		StagingDir:  req.StagingDir,
		OutputDir:   req.OutputDir,
		NoRevision:  req.NoRevision,
		KeepStaging: req.KeepStaging,
	})
	result.Package = &packaged
	if err != nil {
		return result, err
	}
	return result, nil
}

func (s Service) runBuilds(ctx context.Context, req BuildRequest, configs []string, outputRoot string) error {
	project := req.Project
	solution := project.ResolvePath(project.Build.Solution)
	if strings.TrimSpace(solution) == "" {
		return invalidArgument("build solution is required")
	}
	if s.BuildTool == nil {
		return invalidArgument("no build tool configured")
	}
	if err := checkBuildOutput(req, outputRoot); err != nil {
		return err
	}
	tool := s.BuildTool(project.Build.Tool)
	if err := s.Staging.Reset(outputRoot); err != nil {
		return err
	}
	for _, config := range configs {
		log.Ctx(ctx).Info().
			Str("configuration", config).
			Str("tool", project.Build.Tool).
			Msg("building")
		err := tool.Build(ctx, ports.BuildInvocation{
			Solution:      solution,
			Configuration: config,
			OutDir:        filepath.Join(outputRoot, config),
			Rebuild:       req.Rebuild || project.Build.Rebuild,
			Clean:         req.Clean || project.Build.Clean,
			Parallel:      req.Parallel || project.Build.Parallel,
		})
		if err != nil {
			return err
		}
	}
	return nil
}

// checkBuildOutput refuses a build output directory whose reset would
// delete project inputs or packaging directories.
func checkBuildOutput(req BuildRequest, outputRoot string) error {
	project := req.Project
	protected := []struct {
		what string
		path string
	}{
		{"project root", project.Root},
		{"solution", project.ResolvePath(project.Build.Solution)},
		{"template directory", project.ResolvePath(project.Paths.Template)},
		{"version header", project.ResolvePath(project.Version.Header)},
		{"staging directory", firstNonEmpty(req.StagingDir, project.ResolvePath(project.Paths.Staging))},
		{"release output directory", firstNonEmpty(req.OutputDir, project.ResolvePath(project.Paths.Output))},
	}
	for _, entry := range protected {
		if strings.TrimSpace(entry.path) == "" {
			continue
		}
		if pathWithin(outputRoot, entry.path) {
			return invalidArgument(fmt.Sprintf("build output directory %s would delete the %s %s",
				outputRoot, entry.what, entry.path))
		}
	}
	return nil
}

// buildConfigurations picks the explicit list, then the project list, then
// every configuration of the translation table in sorted order.
func buildConfigurations(explicit []string, project types.Project) []string {
	var configs []string
	switch {
	case len(explicit) > 0:
		configs = explicit
	case len(project.Build.Configurations) > 0:
		configs = project.Build.Configurations
	default:
		for name := range project.Binaries.Options {
			configs = append(configs, name)
		}
		sort.Strings(configs)
	}
	seen := map[string]bool{}
	out := make([]string, 0, len(configs))
	for _, config := range configs {
		config = strings.TrimSpace(config)
		if config == "" || seen[config] {
			continue
		}
		seen[config] = true
		out = append(out, config)
	}
	return out
}
