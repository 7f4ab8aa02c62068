package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"fomod-packager/internal/app"
)

type validateOptions struct {
	TemplateDir  string
	CheckSources bool
}

func newValidateCommand() *cobra.Command {
	opts := validateOptions{}
	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Validate the installer template",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runValidate(cmd.Context(), cmd, opts)
		},
	}
	cmd.Flags().StringVar(&opts.TemplateDir, "template-dir", "", "Template directory (defaults to the project setting)")
	cmd.Flags().BoolVar(&opts.CheckSources, "check-sources", false, "Require every source path to exist in the template")
	_ = viper.BindPFlag("template_dir", cmd.Flags().Lookup("template-dir"))
	_ = viper.BindPFlag("check_sources", cmd.Flags().Lookup("check-sources"))
	return cmd
}

func runValidate(ctx context.Context, cmd *cobra.Command, opts validateOptions) error {
	service := newAppService()
	project, err := loadProject(service)
	if err != nil {
		return err
	}
	result, err := service.Validate(ctx, app.ValidateRequest{
		Project:      project,
		TemplateDir:  resolveString(cmd, opts.TemplateDir, "template_dir", "template-dir"),
		CheckSources: resolveBool(cmd, opts.CheckSources, "check_sources", "check-sources"),
	})
	for _, warning := range result.Warnings {
		fmt.Println(warning.String())
	}
	if err != nil {
		return err
	}
	fmt.Printf("validated: %s %s\n", result.Name, result.Version)
	return nil
}

func resolveString(cmd *cobra.Command, value string, key string, flagName string) string {
	if cmd == nil {
		if value != "" {
			return value
		}
		return viper.GetString(key)
	}
	if flagChanged(cmd, flagName) {
		return value
	}
	return viper.GetString(key)
}

func resolveStrings(cmd *cobra.Command, values []string, key string, flagName string) []string {
	if cmd == nil {
		if len(values) > 0 {
			return values
		}
		return viper.GetStringSlice(key)
	}
	if flagChanged(cmd, flagName) {
		return values
	}
	return viper.GetStringSlice(key)
}

func resolveBool(cmd *cobra.Command, value bool, key string, flagName string) bool {
	if cmd == nil {
		return value
	}
	if flagChanged(cmd, flagName) {
		return value
	}
	return viper.GetBool(key)
}

func resolveInt(cmd *cobra.Command, value int, key string, flagName string) int {
	if cmd == nil {
		return value
	}
	if flagChanged(cmd, flagName) {
		return value
	}
	return viper.GetInt(key)
}

func flagChanged(cmd *cobra.Command, name string) bool {
	if cmd == nil || strings.TrimSpace(name) == "" {
		return false
	}
	if flag := cmd.Flags().Lookup(name); flag != nil {
		return flag.Changed
	}
	if flag := cmd.PersistentFlags().Lookup(name); flag != nil {
		return flag.Changed
	}
	return false
}
