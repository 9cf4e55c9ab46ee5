package interfaces

import (
	"context"

	"github.com/m-mizutani/npm-release/pkg/domain/model"
)

// LifecycleUseCase is the plugin surface called by the release orchestrator
type LifecycleUseCase interface {
	// VerifyConditions validates configuration and, when needed, registry credentials
	VerifyConditions(ctx context.Context, raw model.RawConfig, rc *model.RunContext) error

	// Prepare bumps the version of every package and optionally packs a tarball
	Prepare(ctx context.Context, raw model.RawConfig, rc *model.RunContext) error

	// Publish publishes every publishable package. A nil summary means nothing was
	// released.
	Publish(ctx context.Context, raw model.RawConfig, rc *model.RunContext) (*model.ReleaseSummary, error)

	// AddChannel moves every publishable package to the release channel
	AddChannel(ctx context.Context, raw model.RawConfig, rc *model.RunContext) (*model.ReleaseSummary, error)

	// State returns the current lifecycle state
	State() model.LifecycleState
}
