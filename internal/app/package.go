package app

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	assert "github.com/ZanzyTHEbar/assert-lib"
	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/rs/zerolog/log"

	"fomod-packager/internal/core"
	"fomod-packager/internal/types"
)

// packageRun holds the state of one pass through the packaging pipeline.
type packageRun struct {
	svc     Service
	req     PackageRequest
	project types.Project
	stage   types.PipelineStage

	templateDir string
	stagingDir  string
	outputDir   string
	headerPath  string
	touched     bool

	descriptor types.PackageDescriptor
	result     PackageResult
}

type pipelineStep struct {
	stage types.PipelineStage
	run   func(context.Context) error
}

// Package turns a release map into a validated installer archive:
//
//	init -> clean_staging -> load_template -> stage_artifacts ->
//	stamp_metadata -> validate -> serialize -> archive -> done
//
// Any step may end the run in failed. Staging is removed on failure except
// when the archive step fails, where it is kept for inspection.
func (s Service) Package(ctx context.Context, req PackageRequest) (PackageResult, error) {
	run := &packageRun{
		svc:     s,
		req:     req,
		project: req.Project,
		stage:   types.StageInit,
	}
	log.Ctx(ctx).Info().Str("stage", string(types.StageInit)).Msg("pipeline started")
	if err := run.init(); err != nil {
		return run.fail(ctx, err)
	}
	steps := []pipelineStep{
		{types.StageCleanStaging, run.cleanStaging},
		{types.StageLoadTemplate, run.loadTemplate},
		{types.StageStageArtifacts, run.stageArtifacts},
		{types.StageStampMetadata, run.stampMetadata},
		{types.StageValidate, run.validate},
		{types.StageSerialize, run.serialize},
		{types.StageArchive, run.archive},
	}
	for _, step := range steps {
		run.enter(ctx, step.stage)
		if err := step.run(ctx); err != nil {
			return run.fail(ctx, err)
		}
	}
	run.enter(ctx, types.StageDone)
	run.finish(ctx)
	return run.result, nil
}

func (r *packageRun) enter(ctx context.Context, stage types.PipelineStage) {
	log.Ctx(ctx).Info().
		Str("from", string(r.stage)).
		Str("stage", string(stage)).
		Msg("pipeline stage")
	r.stage = stage
	r.result.Stage = stage
}

func (r *packageRun) init() error {
	if len(r.req.Releases) == 0 {
		return errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("at least one build artifact is required")
	}
	for name, artifact := range r.req.Releases {
		if strings.TrimSpace(artifact.BinaryPath) == "" {
			return types.NewKindError(types.ErrorKindArtifactNotFound, errbuilder.CodeNotFound,
				fmt.Sprintf("build artifact for %s has no path", name), nil)
		}
		info, err := os.Stat(artifact.BinaryPath)
		if err != nil {
			return types.NewKindError(types.ErrorKindArtifactNotFound, errbuilder.CodeNotFound,
				fmt.Sprintf("build artifact for %s not found: %s", name, artifact.BinaryPath), err)
		}
		if !info.Mode().IsRegular() {
			return types.NewKindError(types.ErrorKindArtifactNotFound, errbuilder.CodeNotFound,
				fmt.Sprintf("build artifact for %s is not a regular file: %s", name, artifact.BinaryPath), nil)
		}
	}

	r.templateDir = r.project.ResolvePath(r.project.Paths.Template)
	r.stagingDir = firstNonEmpty(r.req.StagingDir, r.project.ResolvePath(r.project.Paths.Staging))
	r.outputDir = firstNonEmpty(r.req.OutputDir, r.project.ResolvePath(r.project.Paths.Output))
	r.headerPath = r.project.ResolvePath(r.project.Version.Header)
	switch {
	case strings.TrimSpace(r.templateDir) == "":
		return invalidArgument("template directory is required")
	case strings.TrimSpace(r.stagingDir) == "":
		return invalidArgument("staging directory is required")
	case strings.TrimSpace(r.outputDir) == "":
		return invalidArgument("output directory is required")
	case strings.TrimSpace(r.headerPath) == "":
		return invalidArgument("version header is required")
	}
	if pathWithin(r.stagingDir, r.templateDir) || pathWithin(r.templateDir, r.stagingDir) {
		return invalidArgument("staging and template directories must not overlap")
	}
	if pathWithin(r.stagingDir, r.outputDir) {
		return invalidArgument("output directory must not be inside the staging directory")
	}
	if pathWithin(r.stagingDir, r.headerPath) {
		return invalidArgument("version header must not be inside the staging directory")
	}
	for name, artifact := range r.req.Releases {
		if pathWithin(r.stagingDir, artifact.BinaryPath) {
			return invalidArgument(fmt.Sprintf("build artifact for %s must not be inside the staging directory: %s",
				name, artifact.BinaryPath))
		}
	}
	r.result.StagingDir = r.stagingDir
	return nil
}

func (r *packageRun) cleanStaging(ctx context.Context) error {
	r.touched = true
	return r.svc.Staging.Reset(r.stagingDir)
}

func (r *packageRun) loadTemplate(ctx context.Context) error {
	if err := r.svc.Staging.CopyTree(r.templateDir, r.stagingDir); err != nil {
		return err
	}
	descriptor, err := r.svc.Descriptor.Parse(r.stagingDir)
	if err != nil {
		return err
	}
	r.descriptor = descriptor
	return nil
}

func (r *packageRun) stageArtifacts(ctx context.Context) error {
	layout := core.NewReleaseLayout(r.svc.Staging, r.project.Binaries)
	plan, err := layout.Stage(ctx, r.req.Releases, r.descriptor, r.stagingDir)
	if err != nil {
		return err
	}
	r.result.Staged = plan.Copies
	r.result.LayoutWarnings = plan.Warnings
	return nil
}

func (r *packageRun) stampMetadata(ctx context.Context) error {
	version, err := core.NewVersionResolver(r.svc.Header, r.project.Version).Resolve(ctx, r.headerPath)
	if err != nil {
		return err
	}
	pkg := r.project.Package
	builder := core.NewDescriptorBuilder(r.descriptor).
		WithName(pkg.Name).
		WithAuthor(pkg.Author).
		WithDescription(pkg.Description).
		WithVersion(version)
	if pkg.Website != "" {
		builder = builder.WithWebsite(pkg.Website)
	}
	descriptor, err := builder.Build(ctx)
	if err != nil {
		return err
	}
	r.descriptor = descriptor
	r.result.Name = descriptor.Metadata.Name
	r.result.Version = descriptor.Metadata.Version

	if r.project.Revision.Enabled && !r.req.NoRevision {
		if r.svc.Revision == nil {
			return invalidArgument("revision suffix enabled but no revision source configured")
		}
		repo := firstNonEmpty(r.project.ResolvePath(r.project.Revision.Repo), r.project.Root)
		revision, err := r.svc.Revision.ShortRevision(ctx, repo, r.project.Revision.Ref, r.project.Revision.Length)
		if err != nil {
			return err
		}
		r.result.Revision = revision
	}
	return nil
}

func (r *packageRun) validate(ctx context.Context) error {
	assert.NotEmpty(ctx, r.descriptor.Metadata.Version, "version must be stamped before validation")
	warnings, err := core.NewValidator(true).Check(ctx, r.descriptor, os.DirFS(r.stagingDir))
	r.result.Warnings = warnings
	return err
}

func (r *packageRun) serialize(ctx context.Context) error {
	return r.svc.Descriptor.Write(r.descriptor, r.stagingDir)
}

func (r *packageRun) archive(ctx context.Context) error {
	name, err := core.ArchiveFileName(r.descriptor.Metadata.Name, r.descriptor.Metadata.Version, r.result.Revision)
	if err != nil {
		return types.NewKindError(types.ErrorKindArchive, errbuilder.CodeInvalidArgument,
			"failed to name archive", err)
	}
	dest := filepath.Join(r.outputDir, name)
	if err := r.svc.Archive.CreateArchive(ctx, r.stagingDir, dest); err != nil {
		return types.NewKindError(types.ErrorKindArchive, errbuilder.CodeInternal,
			"failed to create archive "+dest, err)
	}
	r.result.ArchivePath = dest
	return nil
}

func (r *packageRun) finish(ctx context.Context) {
	logger := log.Ctx(ctx)
	if r.req.KeepStaging {
		logger.Info().Str("staging", r.stagingDir).Msg("staging kept")
		return
	}
	if err := r.svc.Staging.Remove(r.stagingDir); err != nil {
		logger.Warn().Err(err).Str("staging", r.stagingDir).Msg("failed to remove staging")
		return
	}
	r.result.StagingDir = ""
}

// fail moves the run to the failed stage. Cleanup problems are logged and
// never replace err.
func (r *packageRun) fail(ctx context.Context, err error) (PackageResult, error) {
	failedAt := r.stage
	logger := log.Ctx(ctx)
	logger.Error().
		Err(err).
		Str("from", string(failedAt)).
		Str("stage", string(types.StageFailed)).
		Msg("pipeline failed")
	r.stage = types.StageFailed
	r.result.Stage = types.StageFailed

	switch {
	case !r.touched:
	case failedAt == types.StageArchive:
		logger.Warn().Str("staging", r.stagingDir).Msg("staging preserved for inspection")
	default:
		if cleanupErr := r.svc.Staging.Remove(r.stagingDir); cleanupErr != nil {
			logger.Warn().Err(cleanupErr).Str("staging", r.stagingDir).Msg("failed to remove staging")
		} else {
			r.result.StagingDir = ""
		}
	}
	return r.result, err
}

func firstNonEmpty(values ...string) string {
	for _, value := range values {
		if strings.TrimSpace(value) != "" {
			return value
		}
	}
	return ""
}

func invalidArgument(msg string) error {
	return errbuilder.New().
		WithCode(errbuilder.CodeInvalidArgument).
		WithMsg(msg)
}

// pathWithin reports whether path is root or lies below it.
func pathWithin(root string, path string) bool {
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return false
	}
	absPath, err := filepath.Abs(path)
	if err != nil {
		return false
	}
	rel, err := filepath.Rel(absRoot, absPath)
	if err != nil {
		return false
	}
	return rel == "." || (rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator)))
}
