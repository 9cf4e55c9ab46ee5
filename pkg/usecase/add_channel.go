package usecase

import (
	"context"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/npm-release/pkg/domain/interfaces"
	"github.com/m-mizutani/npm-release/pkg/domain/model"
)

// AddChannelNpm points the dist-tag of the release channel at the released version
// of pkg. Skipped packages yield nil.
func AddChannelNpm(ctx context.Context, client interfaces.RegistryClient, npmrcPath string, opts model.Options, rc *model.RunContext, pkg *model.PackageManifest) (*model.ReleaseInfo, error) {
	logger := rc.Log()

	if reason := skipReason(opts, pkg); reason != "" {
		logger.Info("Skip adding to npm channel", "package", pkg.Name, "reason", reason)
		return nil, nil
	}
	if rc.NextRelease == nil {
		return nil, goerr.New("next release is not set", goerr.T(model.ErrTagNoNextRelease), goerr.V("package", pkg.Name))
	}

	registry, err := GetRegistry(pkg, rc)
	if err != nil {
		return nil, err
	}
	version := rc.NextRelease.Version
	distTag := GetChannel(rc.NextRelease.Channel)
	nameAtVersion := pkg.Name + "@" + version

	logger.Info("Adding version to npm channel", "package", nameAtVersion, "dist_tag", distTag)

	if err := client.AddDistTag(ctx, rc.NpmExec(npmrcPath, GetLegacyToken(rc.Env)), nameAtVersion, distTag, registry); err != nil {
		return nil, goerr.Wrap(err, "failed to add dist-tag",
			goerr.V("package", nameAtVersion),
			goerr.V("dist_tag", distTag),
			goerr.V("registry", registry))
	}

	logger.Info("Added package to dist-tag",
		"package", nameAtVersion,
		"dist_tag", distTag,
		"registry", registry,
	)

	return GetReleaseInfo(pkg, rc, distTag, registry), nil
}
