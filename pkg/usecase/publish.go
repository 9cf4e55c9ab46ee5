package usecase

import (
	"context"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/npm-release/pkg/domain/interfaces"
	"github.com/m-mizutani/npm-release/pkg/domain/model"
	"github.com/m-mizutani/npm-release/pkg/domain/types"
)

// skipReason returns why pkg must not be published or tagged, or "" to proceed
func skipReason(opts model.Options, pkg *model.PackageManifest) string {
	switch {
	case opts.PublishDisabled():
		return "npmPublish is false"
	case pkg.Private:
		return "package.json's private property is true"
	default:
		return ""
	}
}

// PublishNpm publishes pkg on the dist-tag of the release channel. It returns nil
// without running npm when the package is skipped. rc.Cwd must be the package
// directory.
func PublishNpm(ctx context.Context, client interfaces.RegistryClient, npmrcPath string, opts model.Options, rc *model.RunContext, pkg *model.PackageManifest) (*model.ReleaseInfo, error) {
	logger := rc.Log()

	if reason := skipReason(opts, pkg); reason != "" {
		logger.Info("Skip publishing to npm registry", "package", pkg.Name, "reason", reason)
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

	args := model.PublishArgs{
		Dir:      pkg.Path,
		DistTag:  distTag,
		Registry: registry,
	}
	if pkg.IsScoped() {
		args.Access = opts.Access
		if args.Access == "" {
			args.Access = types.DefaultAccess
		}
	}

	logger.Info("Publishing to npm registry",
		"package", pkg.Name,
		"version", version,
		"dist_tag", distTag,
	)

	if err := client.Publish(ctx, rc.NpmExec(npmrcPath, GetLegacyToken(rc.Env)), args); err != nil {
		return nil, goerr.Wrap(err, "failed to publish package",
			goerr.V("package", pkg.Name),
			goerr.V("version", version),
			goerr.V("registry", registry))
	}

	logger.Info("Published package",
		"package", pkg.Name+"@"+version,
		"dist_tag", distTag,
		"registry", registry,
	)

	return GetReleaseInfo(pkg, rc, distTag, registry), nil
}
