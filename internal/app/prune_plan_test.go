package app

import (
	"sort"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"fomod-packager/internal/types"
)

func releasePaths(releases []types.ReleaseArchive) []string {
	out := make([]string, 0, len(releases))
	for _, release := range releases {
		out = append(out, release.Path)
	}
	sort.Strings(out)
	return out
}

func release(path string, pkg string, version string, modTime time.Time) types.ReleaseArchive {
	return types.ReleaseArchive{Path: path, Package: pkg, Version: version, ModTime: modTime}
}

func TestBuildReleasePrunePlanKeepLastOrdersByVersion(t *testing.T) {
	now := time.Date(2026, 2, 2, 12, 0, 0, 0, time.UTC)
	releases := []types.ReleaseArchive{
		release("CBP_1.10.0.zip", "CBP", "1.10.0", now.Add(-5*time.Hour)),
		release("CBP_1.9.0.zip", "CBP", "1.9.0", now.Add(-1*time.Hour)),
		release("CBP_1.2.0.zip", "CBP", "1.2.0", now.Add(-9*time.Hour)),
		release("Other_0.1.zip", "Other", "0.1", now.Add(-9*time.Hour)),
	}

	plan := BuildReleasePrunePlan(releases, types.ReleaseRetentionPolicy{KeepLast: 2}, now)

	require.Equal(t, []string{"CBP_1.10.0.zip", "CBP_1.9.0.zip", "Other_0.1.zip"}, releasePaths(plan.Keep))
	require.Equal(t, []string{"CBP_1.2.0.zip"}, releasePaths(plan.Delete))
}

func TestBuildReleasePrunePlanKeepDays(t *testing.T) {
	now := time.Date(2026, 2, 2, 12, 0, 0, 0, time.UTC)
	releases := []types.ReleaseArchive{
		release("CBP_2.0.0.zip", "CBP", "2.0.0", now.AddDate(0, 0, -10)),
		release("CBP_1.0.0.zip", "CBP", "1.0.0", now.AddDate(0, 0, -1)),
	}

	plan := BuildReleasePrunePlan(releases, types.ReleaseRetentionPolicy{KeepDays: 3}, now)

	require.Equal(t, []string{"CBP_1.0.0.zip"}, releasePaths(plan.Keep))
	require.Equal(t, []string{"CBP_2.0.0.zip"}, releasePaths(plan.Delete))
}

func TestBuildReleasePrunePlanProtectsVersionsAndUnknownNames(t *testing.T) {
	now := time.Date(2026, 2, 2, 12, 0, 0, 0, time.UTC)
	releases := []types.ReleaseArchive{
		release("CBP_3.0.0.zip", "CBP", "3.0.0", now),
		release("CBP_2.0.0.zip", "CBP", "2.0.0", now),
		release("CBP_1.0.0.zip", "CBP", "1.0.0", now),
		release("notes.zip", "", "", now),
	}
	policy := types.ReleaseRetentionPolicy{KeepLast: 1, ProtectVersions: []string{" 1.0.0 "}}

	plan := BuildReleasePrunePlan(releases, policy, now)

	require.Equal(t, []string{"CBP_1.0.0.zip", "CBP_3.0.0.zip", "notes.zip"}, releasePaths(plan.Keep))
	require.Equal(t, []string{"CBP_2.0.0.zip"}, releasePaths(plan.Delete))
}

func TestBuildReleasePrunePlanSameVersionPrefersNewest(t *testing.T) {
	now := time.Date(2026, 2, 2, 12, 0, 0, 0, time.UTC)
	releases := []types.ReleaseArchive{
		release("CBP_1.0.0-aaaaaaaa.zip", "CBP", "1.0.0", now.Add(-time.Hour)),
		release("CBP_1.0.0-bbbbbbbb.zip", "CBP", "1.0.0", now),
		release("CBP_v-next.zip", "CBP", "v-next", now.Add(time.Hour)),
	}

	plan := BuildReleasePrunePlan(releases, types.ReleaseRetentionPolicy{KeepLast: 1}, now)

	require.Equal(t, []string{"CBP_1.0.0-bbbbbbbb.zip"}, releasePaths(plan.Keep))
}
