package core

import (
	"context"
	"strings"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/rs/zerolog/log"

	"fomod-packager/internal/types"
)

// DescriptorBuilder stamps metadata onto a parsed template without
// touching it. Every With call returns a new builder; the first rejected
// value is reported by Build.
type DescriptorBuilder struct {
	base     types.PackageDescriptor
	metadata types.DescriptorMetadata
	err      error
}

func NewDescriptorBuilder(base types.PackageDescriptor) DescriptorBuilder {
	return DescriptorBuilder{
		base:     base.Clone(),
		metadata: base.Metadata,
	}
}

func (b DescriptorBuilder) WithName(name string) DescriptorBuilder {
	return b.set("name", name, func(m *types.DescriptorMetadata, v string) { m.Name = v })
}

func (b DescriptorBuilder) WithAuthor(author string) DescriptorBuilder {
	return b.set("author", author, func(m *types.DescriptorMetadata, v string) { m.Author = v })
}

func (b DescriptorBuilder) WithVersion(version string) DescriptorBuilder {
	return b.set("version", version, func(m *types.DescriptorMetadata, v string) { m.Version = v })
}

func (b DescriptorBuilder) WithDescription(description string) DescriptorBuilder {
	return b.set("description", description, func(m *types.DescriptorMetadata, v string) { m.Description = v })
}

func (b DescriptorBuilder) WithWebsite(website string) DescriptorBuilder {
	return b.set("website", website, func(m *types.DescriptorMetadata, v string) { m.Website = v })
}

func (b DescriptorBuilder) set(field string, value string, apply func(*types.DescriptorMetadata, string)) DescriptorBuilder {
	if b.err != nil {
		return b
	}
	value = strings.TrimSpace(value)
	if value == "" {
		b.err = types.NewKindError(types.ErrorKindMissingField, errbuilder.CodeInvalidArgument,
			"descriptor "+field+" must not be empty", nil)
		return b
	}
	apply(&b.metadata, value)
	return b
}

// Build returns a fresh descriptor carrying the stamped metadata.
func (b DescriptorBuilder) Build(ctx context.Context) (types.PackageDescriptor, error) {
	if b.err != nil {
		return types.PackageDescriptor{}, b.err
	}
	descriptor := b.base.Clone()
	descriptor.Metadata = b.metadata
	log.Ctx(ctx).Debug().
		Str("name", descriptor.Metadata.Name).
		Str("version", descriptor.Metadata.Version).
		Msg("descriptor metadata stamped")
	return descriptor, nil
}
