package interfaces

import (
	"context"

	"github.com/m-mizutani/npm-release/pkg/domain/model"
)

// RegistryClient performs every registry interaction of the plugin. The npm
// implementation shells out to the npm binary.
type RegistryClient interface {
	// Version writes version into package.json in exec.Dir
	Version(ctx context.Context, exec model.NpmExec, version string) error

	// Pack creates a tarball of pkgDir in exec.Dir and returns its file name
	Pack(ctx context.Context, exec model.NpmExec, pkgDir string) (string, error)

	// Publish publishes the package in args.Dir
	Publish(ctx context.Context, exec model.NpmExec, args model.PublishArgs) error

	// AddDistTag points distTag at nameAtVersion
	AddDistTag(ctx context.Context, exec model.NpmExec, nameAtVersion, distTag, registry string) error

	// WhoAmI fails when the credentials in exec.UserConfig are rejected by registry
	WhoAmI(ctx context.Context, exec model.NpmExec, registry string) error
}
