package app

import (
	"context"
	"os"
	"strings"

	"fomod-packager/internal/core"
)

// Validate parses the template, stamps the project metadata onto it the way
// packaging would and reports every finding.
func (s Service) Validate(ctx context.Context, req ValidateRequest) (ValidateResult, error) {
	project := req.Project
	dir := firstNonEmpty(req.TemplateDir, project.ResolvePath(project.Paths.Template))
	if strings.TrimSpace(dir) == "" {
		return ValidateResult{}, invalidArgument("template directory is required")
	}
	descriptor, err := s.Descriptor.Parse(dir)
	if err != nil {
		return ValidateResult{}, err
	}

	builder := core.NewDescriptorBuilder(descriptor)
	pkg := project.Package
	if pkg.Name != "" {
		builder = builder.WithName(pkg.Name)
	}
	if pkg.Author != "" {
		builder = builder.WithAuthor(pkg.Author)
	}
	if pkg.Description != "" {
		builder = builder.WithDescription(pkg.Description)
	}
	if pkg.Website != "" {
		builder = builder.WithWebsite(pkg.Website)
	}
	if header := project.ResolvePath(project.Version.Header); header != "" {
		version, err := core.NewVersionResolver(s.Header, project.Version).Resolve(ctx, header)
		if err != nil {
			return ValidateResult{}, err
		}
		builder = builder.WithVersion(version)
	}
	descriptor, err = builder.Build(ctx)
	if err != nil {
		return ValidateResult{}, err
	}

	result := ValidateResult{
		Name:    descriptor.Metadata.Name,
		Version: descriptor.Metadata.Version,
	}
	warnings, err := core.NewValidator(req.CheckSources).Check(ctx, descriptor, os.DirFS(dir))
	result.Warnings = warnings
	if err != nil {
		return result, err
	}
	return result, nil
}
