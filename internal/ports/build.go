package ports

import "context"

type BuildInvocation struct {
	Solution      string
	Configuration string
	OutDir        string
	Rebuild       bool
	Clean         bool
	Parallel      bool
}

// BuildToolPort runs the external compiler for one configuration. A nil
// error means OutDir now holds the configuration's artifact.
type BuildToolPort interface {
	Build(ctx context.Context, invocation BuildInvocation) error
}
