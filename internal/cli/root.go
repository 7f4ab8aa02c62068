package cli

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"fomod-packager/internal/app"
	"fomod-packager/internal/types"
)

// version is set at build time via ldflags.
var version = "dev"

const envPrefix = "FOMOD_PACKAGER"

type RootConfig struct {
	ConfigFile  string
	LogLevel    string
	ProjectFile string
}

func Execute() {
	root := newRootCommand()
	if err := root.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %s\n", errorMessage(err))
		os.Exit(exitCodeForError(err))
	}
}

func newRootCommand() *cobra.Command {
	cfg := RootConfig{}
	cmd := &cobra.Command{
		Use:           "fomod-packager",
		Short:         "Build and package plugin releases as FOMOD installers",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if err := initConfig(cfg.ConfigFile); err != nil {
				return err
			}
			setupLogging(viper.GetString("log_level"))
			return nil
		},
	}
	cmd.PersistentFlags().StringVar(&cfg.ConfigFile, "config", "", "Config file path")
	cmd.PersistentFlags().StringVar(&cfg.LogLevel, "log-level", "info", "Log level")
	cmd.PersistentFlags().StringVar(&cfg.ProjectFile, "project", "fomod.yaml", "Project file path")
	_ = viper.BindPFlag("log_level", cmd.PersistentFlags().Lookup("log-level"))
	_ = viper.BindPFlag("project", cmd.PersistentFlags().Lookup("project"))
	cmd.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg(err.Error())
	})

	cmd.AddCommand(newPackageCommand())
	cmd.AddCommand(newBuildCommand())
	cmd.AddCommand(newTemplateCommand())
	cmd.AddCommand(newValidateCommand())
	cmd.AddCommand(newInspectCommand())
	cmd.AddCommand(newPruneCommand())
	return cmd
}

func initConfig(configFile string) error {
	viper.SetEnvPrefix(envPrefix)
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()

	if configFile != "" {
		viper.SetConfigFile(configFile)
		if err := viper.ReadInConfig(); err != nil {
			return errbuilder.New().
				WithCode(errbuilder.CodeInvalidArgument).
				WithMsg("failed to read config file").
				WithCause(err)
		}
		return nil
	}

	viper.SetConfigName("fomod-packager")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("$HOME/.config/fomod-packager")
	// a missing default config file is fine
	_ = viper.ReadInConfig()
	return nil
}

func setupLogging(level string) {
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	zerolog.DefaultContextLogger = &log.Logger
	switch level {
	case "debug":
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	case "warn":
		zerolog.SetGlobalLevel(zerolog.WarnLevel)
	case "error":
		zerolog.SetGlobalLevel(zerolog.ErrorLevel)
	default:
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}
}

func newAppService() app.Service {
	return app.NewService()
}

// loadProject reads the project file named by --project, the config file or
// FOMOD_PACKAGER_PROJECT.
func loadProject(service app.Service) (types.Project, error) {
	path := strings.TrimSpace(viper.GetString("project"))
	if path == "" {
		return types.Project{}, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("project file is required")
	}
	return service.LoadProject(path)
}

// exitCodeForError maps pipeline error kinds first and falls back to the
// errbuilder code for errors raised outside the pipeline.
func exitCodeForError(err error) int {
	switch types.KindOf(err) {
	case types.ErrorKindStructural, types.ErrorKindValidation:
		return 3
	case types.ErrorKindParse, types.ErrorKindMissingField:
		return 4
	case types.ErrorKindArtifactNotFound:
		return 5
	case types.ErrorKindBuild:
		return 6
	case types.ErrorKindArchive:
		return 7
	}
	switch errbuilder.CodeOf(err) {
	case errbuilder.CodeInvalidArgument, errbuilder.CodeAlreadyExists:
		return 2
	case errbuilder.CodePermissionDenied:
		return 3
	case errbuilder.CodeNotFound:
		return 5
	default:
		return 1
	}
}

func errorMessage(err error) string {
	var builder *errbuilder.ErrBuilder
	if errors.As(err, &builder) && strings.TrimSpace(builder.Msg) != "" {
		return builder.Msg
	}
	return err.Error()
}
