package cli

import (
	"context"
	"fmt"
	"sort"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"fomod-packager/internal/app"
)

type buildOptions struct {
	Configurations []string
	Rebuild        bool
	Clean          bool
	Parallel       bool
	SkipBuild      bool
	NoPackage      bool
	StagingDir     string
	OutputDir      string
	NoRevision     bool
	KeepStaging    bool
}

func newBuildCommand() *cobra.Command {
	opts := buildOptions{}
	cmd := &cobra.Command{
		Use:   "build",
		Short: "Build every configuration and package the binaries",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runBuild(cmd.Context(), cmd, opts)
		},
	}
	cmd.Flags().StringSliceVar(&opts.Configurations, "config-name", nil, "Build configurations (defaults to the project list)")
	cmd.Flags().BoolVar(&opts.Rebuild, "rebuild", false, "Rebuild instead of an incremental build")
	cmd.Flags().BoolVar(&opts.Clean, "clean", false, "Clean before rebuilding")
	cmd.Flags().BoolVar(&opts.Parallel, "parallel", false, "Let the build tool use all cores")
	cmd.Flags().BoolVar(&opts.SkipBuild, "skip-build", false, "Package existing build outputs without building")
	cmd.Flags().BoolVar(&opts.NoPackage, "no-package", false, "Stop after the build")
	addPipelineFlags(cmd, &opts.StagingDir, &opts.OutputDir, &opts.NoRevision, &opts.KeepStaging)

	_ = viper.BindPFlag("configurations", cmd.Flags().Lookup("config-name"))
	_ = viper.BindPFlag("rebuild", cmd.Flags().Lookup("rebuild"))
	_ = viper.BindPFlag("clean", cmd.Flags().Lookup("clean"))
	_ = viper.BindPFlag("parallel", cmd.Flags().Lookup("parallel"))
	_ = viper.BindPFlag("skip_build", cmd.Flags().Lookup("skip-build"))
	_ = viper.BindPFlag("no_package", cmd.Flags().Lookup("no-package"))
	return cmd
}

func runBuild(ctx context.Context, cmd *cobra.Command, opts buildOptions) error {
	service := newAppService()
	project, err := loadProject(service)
	if err != nil {
		return err
	}
	result, err := service.Build(ctx, app.BuildRequest{
		Project:        project,
		Configurations: resolveStrings(cmd, opts.Configurations, "configurations", "config-name"),
		Rebuild:        resolveBool(cmd, opts.Rebuild, "rebuild", "rebuild"),
		Clean:          resolveBool(cmd, opts.Clean, "clean", "clean"),
		Parallel:       resolveBool(cmd, opts.Parallel, "parallel", "parallel"),
		SkipBuild:      resolveBool(cmd, opts.SkipBuild, "skip_build", "skip-build"),
		NoPackage:      resolveBool(cmd, opts.NoPackage, "no_package", "no-package"),
		StagingDir:     resolveString(cmd, opts.StagingDir, "staging", "staging"),
		OutputDir:      resolveString(cmd, opts.OutputDir, "output", "output"),
		NoRevision:     resolveBool(cmd, opts.NoRevision, "no_revision", "no-revision"),
		KeepStaging:    resolveBool(cmd, opts.KeepStaging, "keep_staging", "keep-staging"),
	})
	if err != nil {
		return err
	}

	configs := make([]string, 0, len(result.Artifacts))
	for config := range result.Artifacts {
		configs = append(configs, config)
	}
	sort.Strings(configs)
	for _, config := range configs {
		fmt.Printf("built %s: %s\n", config, result.Artifacts[config].BinaryPath)
	}
	if result.Package != nil {
		printPackageResult(*result.Package)
	}
	return nil
}
