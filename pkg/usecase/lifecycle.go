package usecase

import (
	"context"

	"github.com/m-mizutani/npm-release/pkg/domain/interfaces"
	"github.com/m-mizutani/npm-release/pkg/domain/model"
	"github.com/m-mizutani/npm-release/pkg/utils/async"
)

// Lifecycle runs the plugin steps against one repository. It owns the
// verified/prepared state, so a caller keeps one Lifecycle per release run and
// calls it sequentially; the state is never reset.
type Lifecycle struct {
	client    interfaces.RegistryClient
	npmrcPath string
	state     model.LifecycleState
}

// NewLifecycle creates a Lifecycle that writes the generated npm config to npmrcPath
func NewLifecycle(client interfaces.RegistryClient, npmrcPath string) *Lifecycle {
	return &Lifecycle{
		client:    client,
		npmrcPath: npmrcPath,
		state:     model.StateUnverified,
	}
}

// State returns the current lifecycle state
func (l *Lifecycle) State() model.LifecycleState {
	return l.state
}

// VerifyConditions validates the plugin configuration, resolves the packages and,
// when anything may be published, verifies registry credentials for the root
// package. It does nothing once verified.
func (l *Lifecycle) VerifyConditions(ctx context.Context, raw model.RawConfig, rc *model.RunContext) error {
	if l.state >= model.StateVerified {
		return nil
	}

	if err := VerifyPluginConfig(raw); err != nil {
		return err
	}

	cfg := model.ParsePluginConfig(raw)
	set, err := GetAllPkgInfo(rc, cfg)
	if err != nil {
		return err
	}

	if RequiresNpmAuth(set, cfg) {
		if err := VerifyNpmAuth(ctx, l.client, l.npmrcPath, rc, set.Root); err != nil {
			return err
		}
	} else {
		rc.Log().Info("Skip npm authentication as no package will be published")
	}

	l.state = model.StateVerified
	return nil
}

// Prepare bumps the version of every package concurrently, verifying first when
// needed. The state becomes Prepared only when every package succeeded.
func (l *Lifecycle) Prepare(ctx context.Context, raw model.RawConfig, rc *model.RunContext) error {
	if l.state < model.StateVerified {
		if err := l.VerifyConditions(ctx, raw, rc); err != nil {
			return err
		}
	}

	cfg := model.ParsePluginConfig(raw)
	set, err := GetAllPkgInfo(rc, cfg)
	if err != nil {
		return err
	}

	shared := rc.WithSyncOutput()
	err = async.Each(set.All(), func(_ int, pkg *model.PackageManifest) error {
		return PrepareNpm(ctx, l.client, l.npmrcPath, cfg.For(pkg.Name), shared.WithCwd(pkg.Path), pkg)
	})
	if err != nil {
		return err
	}

	l.state = model.StatePrepared
	return nil
}

// Publish publishes every package concurrently, preparing first when needed. Packages
// already published are not rolled back when a sibling fails.
func (l *Lifecycle) Publish(ctx context.Context, raw model.RawConfig, rc *model.RunContext) (*model.ReleaseSummary, error) {
	if l.state < model.StatePrepared {
		if err := l.Prepare(ctx, raw, rc); err != nil {
			return nil, err
		}
	}

	return l.fanOut(raw, rc, func(opts model.Options, pkgCtx *model.RunContext, pkg *model.PackageManifest) (*model.ReleaseInfo, error) {
		return PublishNpm(ctx, l.client, l.npmrcPath, opts, pkgCtx, pkg)
	})
}

// AddChannel tags every package concurrently. It only requires verification.
func (l *Lifecycle) AddChannel(ctx context.Context, raw model.RawConfig, rc *model.RunContext) (*model.ReleaseSummary, error) {
	if l.state < model.StateVerified {
		if err := l.VerifyConditions(ctx, raw, rc); err != nil {
			return nil, err
		}
	}

	return l.fanOut(raw, rc, func(opts model.Options, pkgCtx *model.RunContext, pkg *model.PackageManifest) (*model.ReleaseInfo, error) {
		return AddChannelNpm(ctx, l.client, l.npmrcPath, opts, pkgCtx, pkg)
	})
}

type releaseFunc func(opts model.Options, rc *model.RunContext, pkg *model.PackageManifest) (*model.ReleaseInfo, error)

func (l *Lifecycle) fanOut(raw model.RawConfig, rc *model.RunContext, fn releaseFunc) (*model.ReleaseSummary, error) {
	cfg := model.ParsePluginConfig(raw)
	set, err := GetAllPkgInfo(rc, cfg)
	if err != nil {
		return nil, err
	}

	shared := rc.WithSyncOutput()
	releases, err := async.Map(set.All(), func(_ int, pkg *model.PackageManifest) (*model.ReleaseInfo, error) {
		return fn(cfg.For(pkg.Name), shared.WithCwd(pkg.Path), pkg)
	})
	if err != nil {
		return nil, err
	}

	return SummarizeReleases(releases), nil
}
