package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"fomod-packager/internal/app"
)

type pruneOptions struct {
	OutputDir       string
	KeepLast        int
	KeepDays        int
	ProtectVersions []string
	DryRun          bool
}

func newPruneCommand() *cobra.Command {
	opts := pruneOptions{}
	cmd := &cobra.Command{
		Use:   "prune",
		Short: "Prune old release archives based on retention policy",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runPrune(cmd.Context(), cmd, opts)
		},
	}
	cmd.Flags().StringVar(&opts.OutputDir, "releases", "", "Release directory (defaults to the project output)")
	cmd.Flags().IntVar(&opts.KeepLast, "keep-last", 0, "Keep the newest N releases per package")
	cmd.Flags().IntVar(&opts.KeepDays, "keep-days", 0, "Keep releases newer than N days")
	cmd.Flags().StringSliceVar(&opts.ProtectVersions, "protect-version", nil, "Never prune these versions")
	cmd.Flags().BoolVar(&opts.DryRun, "dry-run", false, "Only report prune actions without deleting")

	_ = viper.BindPFlag("releases", cmd.Flags().Lookup("releases"))
	_ = viper.BindPFlag("keep_last", cmd.Flags().Lookup("keep-last"))
	_ = viper.BindPFlag("keep_days", cmd.Flags().Lookup("keep-days"))
	_ = viper.BindPFlag("protect_versions", cmd.Flags().Lookup("protect-version"))
	_ = viper.BindPFlag("dry_run", cmd.Flags().Lookup("dry-run"))
	return cmd
}

func runPrune(ctx context.Context, cmd *cobra.Command, opts pruneOptions) error {
	service := newAppService()
	outputDir := resolveString(cmd, opts.OutputDir, "releases", "releases")
	if strings.TrimSpace(outputDir) == "" {
		project, err := loadProject(service)
		if err != nil {
			return err
		}
		outputDir = project.ResolvePath(project.Paths.Output)
	}
	result, err := service.PruneReleases(ctx, app.PruneRequest{
		OutputDir:       outputDir,
		KeepLast:        resolveInt(cmd, opts.KeepLast, "keep_last", "keep-last"),
		KeepDays:        resolveInt(cmd, opts.KeepDays, "keep_days", "keep-days"),
		ProtectVersions: resolveStrings(cmd, opts.ProtectVersions, "protect_versions", "protect-version"),
		DryRun:          resolveBool(cmd, opts.DryRun, "dry_run", "dry-run"),
	})
	if err != nil {
		return err
	}
	if result.DryRun {
		fmt.Printf("dry-run: keep=%d delete=%d\n", result.KeepCount, result.DeleteCount)
		return nil
	}
	fmt.Printf("pruned releases: %d\n", result.DeleteCount)
	return nil
}
