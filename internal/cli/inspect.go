package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"fomod-packager/internal/app"
)

type inspectOptions struct {
	ArchivePath string
}

func newInspectCommand() *cobra.Command {
	opts := inspectOptions{}
	cmd := &cobra.Command{
		Use:   "inspect",
		Short: "List the contents and packaged version of a release archive",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 1 && !flagChanged(cmd, "archive") {
				opts.ArchivePath = args[0]
				_ = cmd.Flags().Set("archive", args[0])
			}
			return runInspect(cmd.Context(), cmd, opts)
		},
	}
	cmd.Flags().StringVar(&opts.ArchivePath, "archive", "", "Release archive path")
	_ = viper.BindPFlag("archive", cmd.Flags().Lookup("archive"))
	return cmd
}

func runInspect(ctx context.Context, cmd *cobra.Command, opts inspectOptions) error {
	service := newAppService()
	result, err := service.Inspect(ctx, app.InspectRequest{
		ArchivePath: resolveString(cmd, opts.ArchivePath, "archive", "archive"),
	})
	if err != nil {
		return err
	}

	fmt.Printf("archive: %s\n", result.ArchivePath)
	name, version := result.Metadata.Name, result.Metadata.Version
	if name == "" {
		name, version = result.Name, result.Version
	}
	fmt.Printf("name: %s\n", name)
	fmt.Printf("version: %s\n", version)
	if result.Revision != "" {
		fmt.Printf("revision: %s\n", result.Revision)
	}
	fmt.Printf("entries: %d\n", len(result.Entries))
	for _, entry := range result.Entries {
		fmt.Printf("- %s (%d bytes)\n", entry.Name, entry.Size)
	}
	return nil
}
