package app

import (
	"context"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"fomod-packager/internal/core"
	"fomod-packager/internal/types"
)

func (s Service) PruneReleases(ctx context.Context, req PruneRequest) (PruneResult, error) {
	outputDir := strings.TrimSpace(req.OutputDir)
	if outputDir == "" {
		return PruneResult{}, invalidArgument("output directory is required")
	}
	if req.KeepLast <= 0 && req.KeepDays <= 0 {
		return PruneResult{}, invalidArgument("keep-last or keep-days must be positive")
	}
	releases, err := s.Releases.ListReleases(outputDir)
	if err != nil {
		return PruneResult{}, err
	}
	releases = annotateReleases(releases)
	policy := types.ReleaseRetentionPolicy{
		KeepLast:        req.KeepLast,
		KeepDays:        req.KeepDays,
		ProtectVersions: req.ProtectVersions,
		DryRun:          req.DryRun,
	}
	plan := BuildReleasePrunePlan(releases, policy, timeNow(s.Clock))
	if policy.DryRun {
		for _, release := range plan.Delete {
			log.Ctx(ctx).Info().Str("release", release.Path).Msg("would delete")
		}
		return PruneResult{
			KeepCount:   len(plan.Keep),
			DeleteCount: len(plan.Delete),
			DryRun:      true,
		}, nil
	}
	var deleted []string
	for _, release := range plan.Delete {
		if err := s.Releases.DeleteRelease(release.Path); err != nil {
			return PruneResult{}, err
		}
		log.Ctx(ctx).Info().Str("release", release.Path).Msg("deleted")
		deleted = append(deleted, release.Path)
	}
	return PruneResult{
		KeepCount:   len(plan.Keep),
		DeleteCount: len(deleted),
		Deleted:     deleted,
	}, nil
}

func timeNow(clock func() time.Time) time.Time {
	if clock == nil {
		return time.Now().UTC()
	}
	return clock().UTC()
}

func annotateReleases(releases []types.ReleaseArchive) []types.ReleaseArchive {
	for i := range releases {
		name, version, revision, ok := core.ParseArchiveFileName(releases[i].Path)
		if !ok {
			continue
		}
		releases[i].Package = name
		releases[i].Version = version
		releases[i].Revision = revision
	}
	return releases
}
