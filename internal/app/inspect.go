package app

import (
	"bytes"
	"context"
	"path"
	"strings"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/rs/zerolog/log"

	"fomod-packager/internal/adapters"
	"fomod-packager/internal/core"
)

func (s Service) Inspect(ctx context.Context, req InspectRequest) (InspectResult, error) {
	archivePath := strings.TrimSpace(req.ArchivePath)
	if archivePath == "" {
		return InspectResult{}, invalidArgument("archive path is required")
	}
	entries, err := s.Archives.ListEntries(archivePath)
	if err != nil {
		return InspectResult{}, err
	}
	result := InspectResult{
		ArchivePath: archivePath,
		Entries:     entries,
	}
	if name, version, revision, ok := core.ParseArchiveFileName(archivePath); ok {
		result.Name = name
		result.Version = version
		result.Revision = revision
	}

	info, err := s.Archives.ReadEntry(archivePath, path.Join(adapters.FomodDir, adapters.InfoXMLName))
	if err != nil {
		if errbuilder.CodeOf(err) == errbuilder.CodeNotFound {
			log.Ctx(ctx).Warn().Str("archive", archivePath).Msg("archive has no fomod info")
			return result, nil
		}
		return InspectResult{}, err
	}
	metadata, err := s.Descriptor.DecodeInfo(bytes.NewReader(info))
	if err != nil {
		return InspectResult{}, err
	}
	result.Metadata = metadata
	return result, nil
}
