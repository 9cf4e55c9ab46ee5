package usecase

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"syscall"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/npm-release/pkg/domain/interfaces"
	"github.com/m-mizutani/npm-release/pkg/domain/model"
)

// PrepareNpm writes the next version into package.json of pkg and, when tarballDir
// is set and the package is not private, packs it into tarballDir. rc.Cwd must be the
// package directory.
func PrepareNpm(ctx context.Context, client interfaces.RegistryClient, npmrcPath string, opts model.Options, rc *model.RunContext, pkg *model.PackageManifest) error {
	if rc.NextRelease == nil {
		return goerr.New("next release is not set", goerr.T(model.ErrTagNoNextRelease), goerr.V("package", pkg.Name))
	}
	logger := rc.Log()
	version := rc.NextRelease.Version
	exec := rc.NpmExec(npmrcPath, GetLegacyToken(rc.Env))

	logger.Info("Write version to package.json", "version", version, "dir", pkg.Path)
	if err := client.Version(ctx, exec, version); err != nil {
		return goerr.Wrap(err, "failed to update package version",
			goerr.V("package", pkg.Name),
			goerr.V("version", version))
	}

	if opts.TarballDir == "" || pkg.Private {
		return nil
	}

	logger.Info("Creating npm package", "package", pkg.Name, "version", version)
	tarball, err := client.Pack(ctx, exec, pkg.Path)
	if err != nil {
		return goerr.Wrap(err, "failed to pack package", goerr.V("package", pkg.Name))
	}

	return moveTarball(filepath.Join(rc.Cwd, tarball), filepath.Join(rc.Cwd, opts.TarballDir, tarball))
}

func moveTarball(src, dst string) error {
	if filepath.Clean(src) == filepath.Clean(dst) {
		return nil
	}
	if err := os.MkdirAll(filepath.Dir(dst), 0755); err != nil {
		return goerr.Wrap(err, "failed to create tarball directory", goerr.V("path", dst))
	}
	err := renameFile(src, dst)
	if err == nil {
		return nil
	}
	if !errors.Is(err, syscall.EXDEV) {
		return goerr.Wrap(err, "failed to move tarball", goerr.V("src", src), goerr.V("dst", dst))
	}

	// tarballDir is on another device
	if err := copyFile(src, dst); err != nil {
		return err
	}
	if err := os.Remove(src); err != nil {
		return goerr.Wrap(err, "failed to remove packed tarball", goerr.V("src", src))
	}
	return nil
}

var renameFile = os.Rename

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return goerr.Wrap(err, "failed to open tarball", goerr.V("src", src))
	}
	defer in.Close()

	info, err := in.Stat()
	if err != nil {
		return goerr.Wrap(err, "failed to stat tarball", goerr.V("src", src))
	}

	out, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, info.Mode().Perm())
	if err != nil {
		return goerr.Wrap(err, "failed to create tarball", goerr.V("dst", dst))
	}
	if _, err := io.Copy(out, in); err != nil {
		_ = out.Close()
		return goerr.Wrap(err, "failed to copy tarball", goerr.V("src", src), goerr.V("dst", dst))
	}
	if err := out.Close(); err != nil {
		return goerr.Wrap(err, "failed to write tarball", goerr.V("dst", dst))
	}
	return nil
}
