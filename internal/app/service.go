package app

import (
	"time"

	"fomod-packager/internal/adapters"
	"fomod-packager/internal/ports"
	"fomod-packager/internal/types"
)

type Service struct {
	Projects   ports.ProjectSpecPort
	Descriptor ports.DescriptorPort
	Header     ports.HeaderDefinesPort
	Staging    ports.StagingPort
	Archive    ports.ArchiveWriterPort
	Archives   ports.ArchiveReaderPort
	Releases   ports.ReleaseStorePort
	Revision   ports.RevisionPort
	BuildTool  func(tool string) ports.BuildToolPort
	Clock      func() time.Time
}

func NewService() Service {
	archive := adapters.NewZipArchiveAdapter()
	return Service{
		Projects:   adapters.NewSpecFileAdapter(),
		Descriptor: adapters.NewFomodXMLAdapter(),
		Header:     adapters.NewHeaderDefinesAdapter(),
		Staging:    adapters.NewStagingAdapter(),
		Archive:    archive,
		Archives:   archive,
		Releases:   adapters.NewReleaseStoreAdapter(),
		Revision:   adapters.NewGitRevisionAdapter(),
		BuildTool: func(tool string) ports.BuildToolPort {
			return adapters.NewBuildToolAdapter(tool)
		},
		Clock: time.Now,
	}
}

func (s Service) LoadProject(path string) (types.Project, error) {
	return s.Projects.LoadProject(path)
}
