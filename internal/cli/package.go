package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"fomod-packager/internal/app"
)

type packageOptions struct {
	Artifacts   []string
	StagingDir  string
	OutputDir   string
	NoRevision  bool
	KeepStaging bool
}

func newPackageCommand() *cobra.Command {
	opts := packageOptions{}
	cmd := &cobra.Command{
		Use:   "package",
		Short: "Package pre-built plugin binaries into a FOMOD archive",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runPackage(cmd.Context(), cmd, opts)
		},
	}
	cmd.Flags().StringArrayVar(&opts.Artifacts, "artifact", nil, "Build artifact as CONFIG=PATH (repeatable)")
	addPipelineFlags(cmd, &opts.StagingDir, &opts.OutputDir, &opts.NoRevision, &opts.KeepStaging)
	_ = viper.BindPFlag("artifacts", cmd.Flags().Lookup("artifact"))
	return cmd
}

// addPipelineFlags registers the flags shared by every command that ends in
// a packaging run.
func addPipelineFlags(cmd *cobra.Command, staging *string, output *string, noRevision *bool, keepStaging *bool) {
	cmd.Flags().StringVar(staging, "staging", "", "Staging directory (defaults to the project setting)")
	cmd.Flags().StringVar(output, "output", "", "Release output directory (defaults to the project setting)")
	cmd.Flags().BoolVar(noRevision, "no-revision", false, "Omit the source revision from the archive name")
	cmd.Flags().BoolVar(keepStaging, "keep-staging", false, "Keep the staging directory after a successful run")
	_ = viper.BindPFlag("staging", cmd.Flags().Lookup("staging"))
	_ = viper.BindPFlag("output", cmd.Flags().Lookup("output"))
	_ = viper.BindPFlag("no_revision", cmd.Flags().Lookup("no-revision"))
	_ = viper.BindPFlag("keep_staging", cmd.Flags().Lookup("keep-staging"))
}

func runPackage(ctx context.Context, cmd *cobra.Command, opts packageOptions) error {
	service := newAppService()
	project, err := loadProject(service)
	if err != nil {
		return err
	}
	releases, err := app.ParseArtifacts(resolveStrings(cmd, opts.Artifacts, "artifacts", "artifact"))
	if err != nil {
		return err
	}
	result, err := service.Package(ctx, app.PackageRequest{
		Project:     project,
		Releases:    releases,
		StagingDir:  resolveString(cmd, opts.StagingDir, "staging", "staging"),
		OutputDir:   resolveString(cmd, opts.OutputDir, "output", "output"),
		NoRevision:  resolveBool(cmd, opts.NoRevision, "no_revision", "no-revision"),
		KeepStaging: resolveBool(cmd, opts.KeepStaging, "keep_staging", "keep-staging"),
	})
	if err != nil {
		return err
	}
	printPackageResult(result)
	return nil
}

func printPackageResult(result app.PackageResult) {
	for _, staged := range result.Staged {
		fmt.Printf("staged %s: %s\n", staged.ConfigName, staged.Target)
	}
	if len(result.LayoutWarnings) > 0 || len(result.Warnings) > 0 {
		fmt.Printf("warnings: %d\n", len(result.LayoutWarnings)+len(result.Warnings))
	}
	fmt.Printf("packaged: %s\n", result.ArchivePath)
}
