package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"fomod-packager/internal/app"
)

type templateOptions struct {
	OutputDir string
	Force     bool
}

func newTemplateCommand() *cobra.Command {
	opts := templateOptions{}
	cmd := &cobra.Command{
		Use:   "template",
		Short: "Generate the installer template from the project layout",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runTemplate(cmd.Context(), cmd, opts)
		},
	}
	cmd.Flags().StringVar(&opts.OutputDir, "template-dir", "", "Template directory (defaults to the project setting)")
	cmd.Flags().BoolVar(&opts.Force, "force", false, "Overwrite an existing installer config")
	_ = viper.BindPFlag("template_dir", cmd.Flags().Lookup("template-dir"))
	_ = viper.BindPFlag("force", cmd.Flags().Lookup("force"))
	return cmd
}

func runTemplate(ctx context.Context, cmd *cobra.Command, opts templateOptions) error {
	service := newAppService()
	project, err := loadProject(service)
	if err != nil {
		return err
	}
	result, err := service.Template(ctx, app.TemplateRequest{
		Project:   project,
		OutputDir: resolveString(cmd, opts.OutputDir, "template_dir", "template-dir"),
		Force:     resolveBool(cmd, opts.Force, "force", "force"),
	})
	if err != nil {
		return err
	}
	fmt.Printf("wrote template: %s\n", result.Dir)
	return nil
}
