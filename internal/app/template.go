package app

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/rs/zerolog/log"

	"fomod-packager/internal/adapters"
	"fomod-packager/internal/core"
	"fomod-packager/internal/types"
)

// Template writes the installer template described by the project layout.
// Binaries are not present yet, so sources are not checked.
func (s Service) Template(ctx context.Context, req TemplateRequest) (TemplateResult, error) {
	project := req.Project
	layout := project.Layout
	if len(layout.Pages) == 0 {
		return TemplateResult{}, invalidArgument("project layout defines no pages")
	}
	dir := firstNonEmpty(req.OutputDir, project.ResolvePath(project.Paths.Template))
	if strings.TrimSpace(dir) == "" {
		return TemplateResult{}, invalidArgument("template directory is required")
	}
	configPath := filepath.Join(dir, adapters.FomodDir, adapters.ModuleConfigName)
	if _, err := os.Stat(configPath); err == nil && !req.Force {
		return TemplateResult{}, errbuilder.New().
			WithCode(errbuilder.CodeAlreadyExists).
			WithMsg("template already exists: " + configPath)
	}

	descriptor := types.PackageDescriptor{
		Metadata: types.DescriptorMetadata{
			Name:        project.Package.Name,
			Author:      project.Package.Author,
			Description: project.Package.Description,
			Website:     project.Package.Website,
		},
		PageOrder:        layout.PageOrder,
		Pages:            layout.Pages,
		RequiredFiles:    layout.Files,
		ConditionalFiles: layout.Conditional,
	}.Clone()

	warnings, err := core.NewValidator(false).Check(ctx, descriptor, nil)
	if err != nil {
		return TemplateResult{Warnings: warnings}, err
	}
	if err := s.Descriptor.Write(descriptor, dir); err != nil {
		return TemplateResult{Warnings: warnings}, err
	}
	log.Ctx(ctx).Info().
		Str("dir", dir).
		Int("pages", len(descriptor.Pages)).
		Msg("template written")
	return TemplateResult{Dir: dir, Warnings: warnings}, nil
}
