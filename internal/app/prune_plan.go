package app

import (
	"sort"
	"strings"
	"time"

	debversion "github.com/knqyf263/go-deb-version"

	"fomod-packager/internal/types"
)

// BuildReleasePrunePlan decides which release archives survive a policy.
// Archives are grouped per package and ordered newest version first.
// Archives whose name cannot be parsed are always kept.
func BuildReleasePrunePlan(releases []types.ReleaseArchive, policy types.ReleaseRetentionPolicy, now time.Time) types.ReleasePrunePlan {
	if now.IsZero() {
		now = time.Now().UTC()
	}
	normalized := normalizeRetentionPolicy(policy)
	protected := normalizeSet(normalized.ProtectVersions)

	keep := map[string]struct{}{}
	grouped := map[string][]types.ReleaseArchive{}
	for _, release := range releases {
		if strings.TrimSpace(release.Package) == "" {
			keep[release.Path] = struct{}{}
			continue
		}
		if _, ok := protected[strings.ToLower(release.Version)]; ok {
			keep[release.Path] = struct{}{}
		}
		if normalized.KeepDays > 0 && !release.ModTime.IsZero() {
			cutoff := now.AddDate(0, 0, -normalized.KeepDays)
			if !release.ModTime.Before(cutoff) {
				keep[release.Path] = struct{}{}
			}
		}
		key := strings.ToLower(release.Package)
		grouped[key] = append(grouped[key], release)
	}

	if normalized.KeepLast > 0 {
		for _, group := range grouped {
			sorted := append([]types.ReleaseArchive(nil), group...)
			sort.SliceStable(sorted, func(i, j int) bool {
				return newerRelease(sorted[i], sorted[j])
			})
			limit := min(normalized.KeepLast, len(sorted))
			for i := 0; i < limit; i++ {
				keep[sorted[i].Path] = struct{}{}
			}
		}
	}

	plan := types.ReleasePrunePlan{}
	for _, release := range releases {
		if _, ok := keep[release.Path]; ok {
			plan.Keep = append(plan.Keep, release)
		} else {
			plan.Delete = append(plan.Delete, release)
		}
	}
	return plan
}

// newerRelease orders by version, then modification time, then path.
// Versions that do not parse sort after those that do.
func newerRelease(a types.ReleaseArchive, b types.ReleaseArchive) bool {
	va, errA := debversion.NewVersion(a.Version)
	vb, errB := debversion.NewVersion(b.Version)
	switch {
	case errA == nil && errB == nil:
		if cmp := va.Compare(vb); cmp != 0 {
			return cmp > 0
		}
	case errA == nil:
		return true
	case errB == nil:
		return false
	}
	if !a.ModTime.Equal(b.ModTime) {
		return a.ModTime.After(b.ModTime)
	}
	return a.Path < b.Path
}

func normalizeRetentionPolicy(policy types.ReleaseRetentionPolicy) types.ReleaseRetentionPolicy {
	normalized := policy
	if normalized.KeepLast < 0 {
		normalized.KeepLast = 0
	}
	if normalized.KeepDays < 0 {
		normalized.KeepDays = 0
	}
	return normalized
}

func normalizeSet(values []string) map[string]struct{} {
	set := map[string]struct{}{}
	for _, value := range values {
		key := strings.ToLower(strings.TrimSpace(value))
		if key == "" {
			continue
		}
		set[key] = struct{}{}
	}
	return set
}
