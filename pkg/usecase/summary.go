package usecase

import "github.com/m-mizutani/npm-release/pkg/domain/model"

// SummarizeReleases merges per-package results in submission order. nil entries are
// skipped packages; the result is nil when every package was skipped.
func SummarizeReleases(releases []*model.ReleaseInfo) *model.ReleaseSummary {
	var summary *model.ReleaseSummary

	for _, info := range releases {
		if info == nil {
			continue
		}
		if summary == nil {
			summary = &model.ReleaseSummary{
				Name:    info.Name,
				Channel: info.Channel,
				URLs:    []string{},
			}
		}
		if info.URL != "" {
			summary.URLs = append(summary.URLs, info.URL)
		}
	}

	return summary
}

// GetReleaseInfo describes a package released on distTag. The npmjs.com URL is only
// set for the default registry.
func GetReleaseInfo(pkg *model.PackageManifest, rc *model.RunContext, distTag, registry string) *model.ReleaseInfo {
	info := &model.ReleaseInfo{
		Name:    "npm package (@" + distTag + " dist-tag)",
		Channel: distTag,
	}
	if isDefaultRegistry(registry, rc) && rc.NextRelease != nil {
		info.URL = "https://www.npmjs.com/package/" + pkg.Name + "/v/" + rc.NextRelease.Version
	}
	return info
}
