package core

import (
	"context"
	"fmt"
	"io/fs"
	"path"
	"path/filepath"
	"sort"
	"strings"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/rs/zerolog/log"

	"fomod-packager/internal/ports"
	"fomod-packager/internal/types"
)

// ReleaseLayout places build artifacts where the options of the binary
// selection page expect them.
type ReleaseLayout struct {
	Staging  ports.StagingPort
	Binaries types.BinaryMapping
}

func NewReleaseLayout(staging ports.StagingPort, binaries types.BinaryMapping) ReleaseLayout {
	return ReleaseLayout{
		Staging:  staging,
		Binaries: binaries,
	}
}

// Plan computes the copies for releases without touching the file system.
func (l ReleaseLayout) Plan(releases types.ReleaseMap, descriptor types.PackageDescriptor, stagingRoot string) (types.LayoutPlan, error) {
	pageName := l.Binaries.Page
	if pageName == "" {
		pageName = types.DefaultBinaryPage
	}
	page, ok := descriptor.FindPage(pageName)
	if !ok {
		return types.LayoutPlan{}, types.NewKindError(types.ErrorKindStructural, errbuilder.CodeFailedPrecondition,
			fmt.Sprintf("binary page %q not found in descriptor", pageName), nil)
	}
	if len(page.Groups) != 1 {
		return types.LayoutPlan{}, types.NewKindError(types.ErrorKindStructural, errbuilder.CodeFailedPrecondition,
			fmt.Sprintf("binary page %q must have exactly one group, found %d", pageName, len(page.Groups)), nil)
	}
	group := page.Groups[0]
	options := make(map[string]types.Option, len(group.Options))
	for _, option := range group.Options {
		if _, seen := options[option.Name]; !seen {
			options[option.Name] = option
		}
	}

	configNames := make([]string, 0, len(releases))
	for name := range releases {
		configNames = append(configNames, name)
	}
	sort.Strings(configNames)

	plan := types.LayoutPlan{}
	bound := map[string]string{}
	for _, configName := range configNames {
		artifact := releases[configName]
		optionName, ok := l.Binaries.Options[configName]
		if !ok {
			plan.Warnings = append(plan.Warnings, types.LayoutWarning{
				ConfigName: configName,
				Reason:     "build configuration has no option mapping",
			})
			continue
		}
		option, ok := options[optionName]
		if !ok {
			plan.Warnings = append(plan.Warnings, types.LayoutWarning{
				ConfigName: configName,
				OptionName: optionName,
				Reason:     fmt.Sprintf("option is not part of page %q", pageName),
			})
			continue
		}
		if previous, dup := bound[optionName]; dup {
			plan.Warnings = append(plan.Warnings, types.LayoutWarning{
				ConfigName: configName,
				OptionName: optionName,
				Reason:     "option already bound to build configuration " + previous,
			})
			continue
		}
		if len(option.Files) != 1 {
			return types.LayoutPlan{}, types.NewKindError(types.ErrorKindStructural, errbuilder.CodeFailedPrecondition,
				fmt.Sprintf("option %q must have exactly one file entry, found %d", optionName, len(option.Files)), nil)
		}
		target, err := stagedTarget(stagingRoot, option.Files[0], artifact.BinaryPath)
		if err != nil {
			return types.LayoutPlan{}, types.NewKindError(types.ErrorKindStructural, errbuilder.CodeFailedPrecondition,
				fmt.Sprintf("option %q: %v", optionName, err), nil)
		}
		plan.Copies = append(plan.Copies, types.StagedCopy{
			ConfigName: configName,
			OptionName: optionName,
			Source:     artifact.BinaryPath,
			Target:     target,
		})
		bound[optionName] = configName
	}

	for _, option := range group.Options {
		if _, ok := bound[option.Name]; !ok {
			plan.Warnings = append(plan.Warnings, types.LayoutWarning{
				OptionName: option.Name,
				Reason:     "no build artifact for option",
			})
		}
	}
	return plan, nil
}

// stagedTarget resolves a descriptor file source inside the staging root.
// Sources may use either separator.
func stagedTarget(stagingRoot string, file types.FileEntry, binaryPath string) (string, error) {
	source := strings.TrimSpace(strings.ReplaceAll(file.Source, `\`, "/"))
	if source == "" {
		return "", fmt.Errorf("file source is empty")
	}
	rel := path.Clean(source)
	if !fs.ValidPath(rel) {
		return "", fmt.Errorf("file source %q escapes the package root", file.Source)
	}
	if file.Folder {
		return filepath.Join(stagingRoot, filepath.FromSlash(rel), filepath.Base(binaryPath)), nil
	}
	if rel == "." {
		return "", fmt.Errorf("file source %q names the package root", file.Source)
	}
	return filepath.Join(stagingRoot, filepath.FromSlash(rel)), nil
}

// Stage plans the layout and copies every artifact into the staging tree.
func (l ReleaseLayout) Stage(ctx context.Context, releases types.ReleaseMap, descriptor types.PackageDescriptor, stagingRoot string) (types.LayoutPlan, error) {
	if l.Staging == nil {
		return types.LayoutPlan{}, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("release layout requires a staging port")
	}
	plan, err := l.Plan(releases, descriptor, stagingRoot)
	if err != nil {
		return types.LayoutPlan{}, err
	}
	logger := log.Ctx(ctx)
	for _, warning := range plan.Warnings {
		logger.Warn().
			Str("config", warning.ConfigName).
			Str("option", warning.OptionName).
			Msg(warning.Reason)
	}
	for _, staged := range plan.Copies {
		if err := l.Staging.CopyFile(staged.Source, staged.Target); err != nil {
			return types.LayoutPlan{}, err
		}
		logger.Debug().
			Str("config", staged.ConfigName).
			Str("option", staged.OptionName).
			Str("target", staged.Target).
			Msg("staged artifact")
	}
	return plan, nil
}
