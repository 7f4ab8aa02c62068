package ports

import "fomod-packager/internal/types"

type ProjectSpecPort interface {
	LoadProject(path string) (types.Project, error)
}
