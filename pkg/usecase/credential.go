package usecase

import (
	"context"
	"encoding/base64"
	"os"
	"path/filepath"
	"strings"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/npm-release/pkg/domain/interfaces"
	"github.com/m-mizutani/npm-release/pkg/domain/model"
	"github.com/m-mizutani/npm-release/pkg/domain/types"
	"github.com/m-mizutani/npm-release/pkg/infra/npmrc"
)

// GetRegistry resolves the registry of pkg: publishConfig.registry, then
// NPM_CONFIG_REGISTRY, then the npm config chain for the package scope
func GetRegistry(pkg *model.PackageManifest, rc *model.RunContext) (string, error) {
	if pkg.PublishConfig.Registry != "" {
		return pkg.PublishConfig.Registry, nil
	}
	if registry := rc.Getenv(types.EnvNpmConfigRegistry); registry != "" {
		return registry, nil
	}

	cfg, err := npmrc.Load(rc.Cwd, rc.Env, filepath.Join(rc.Cwd, npmrc.FileName))
	if err != nil {
		return "", err
	}
	return cfg.Registry(pkg.Scope()), nil
}

// DefaultRegistry is DEFAULT_NPM_REGISTRY or the public registry
func DefaultRegistry(rc *model.RunContext) string {
	if registry := rc.Getenv(types.EnvDefaultNpmRegistry); registry != "" {
		return registry
	}
	return types.DefaultRegistry
}

func isDefaultRegistry(registry string, rc *model.RunContext) bool {
	return npmrc.SameRegistry(registry, DefaultRegistry(rc))
}

// GetLegacyToken derives LEGACY_TOKEN from NPM_USERNAME and NPM_PASSWORD when
// NPM_EMAIL is also set. The result is meant for the npm subprocess environment.
func GetLegacyToken(env map[string]string) map[string]string {
	creds := model.CredentialsFromEnv(env)
	if !creds.HasLegacy() {
		return map[string]string{}
	}

	token := base64.StdEncoding.EncodeToString([]byte(creds.Username + ":" + creds.Password))
	return map[string]string{types.EnvLegacyToken: token}
}

// SetAuth writes the merged npm config chain to npmrcPath and, unless it already
// holds credentials for registry, appends a line referencing the credentials in the
// environment. Secrets are written only as ${VAR} placeholders.
func SetAuth(npmrcPath, registry string, rc *model.RunContext) error {
	logger := rc.Log()
	logger.Info("Verify authentication for registry", "registry", registry)

	explicit := rc.Getenv(types.EnvNpmConfigUserconfig)
	if explicit == "" {
		explicit = filepath.Join(rc.Cwd, npmrc.FileName)
	}

	cfg, err := npmrc.Load(rc.Cwd, rc.Env, explicit)
	if err != nil {
		return err
	}
	if files := cfg.Files(); len(files) > 0 {
		logger.Info("Reading npm config", "files", strings.Join(files, ", "))
	}

	current := cfg.Content()
	if cfg.HasAuthToken(registry) {
		return writeNpmrc(npmrcPath, current)
	}

	prefix := ""
	if current != "" {
		prefix = current + "\n"
	}

	creds := model.CredentialsFromEnv(rc.Env)
	logger.Debug("Resolved credentials from environment", "credentials", creds)

	switch {
	case creds.HasLegacy():
		if err := writeNpmrc(npmrcPath, prefix+"_auth = ${"+types.EnvLegacyToken+"}\nemail = ${"+types.EnvNpmEmail+"}"); err != nil {
			return err
		}
		logger.Info("Wrote NPM_USERNAME, NPM_PASSWORD and NPM_EMAIL", "path", npmrcPath)

	case creds.HasToken():
		if err := writeNpmrc(npmrcPath, prefix+npmrc.Nerf(registry)+":_authToken = ${"+types.EnvNpmToken+"}"); err != nil {
			return err
		}
		logger.Info("Wrote NPM_TOKEN", "path", npmrcPath)

	default:
		return goerr.New("no npm token specified",
			goerr.T(model.ErrTagNoToken),
			goerr.V("registry", registry))
	}

	return nil
}

func writeNpmrc(path, content string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return goerr.Wrap(err, "failed to create npm config directory", goerr.V("path", path))
	}
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		return goerr.Wrap(err, "failed to write npm config", goerr.V("path", path))
	}
	return nil
}

// VerifyNpmAuth writes npmrcPath for the registry of pkg and, when that registry is
// the default registry, checks the credentials with `npm whoami`. Other registries are
// trusted as configured.
func VerifyNpmAuth(ctx context.Context, client interfaces.RegistryClient, npmrcPath string, rc *model.RunContext, pkg *model.PackageManifest) error {
	registry, err := GetRegistry(pkg, rc)
	if err != nil {
		return err
	}

	if err := SetAuth(npmrcPath, registry, rc); err != nil {
		return err
	}

	if !isDefaultRegistry(registry, rc) {
		rc.Log().Info("Skip npm whoami for non-default registry", "registry", registry)
		return nil
	}

	exec := rc.NpmExec(npmrcPath, GetLegacyToken(rc.Env))
	if err := client.WhoAmI(ctx, exec, registry); err != nil {
		return goerr.Wrap(err, "invalid npm token",
			goerr.T(model.ErrTagInvalidToken),
			goerr.V("registry", registry))
	}

	return nil
}

// RequiresNpmAuth is false only when every package is private and npmPublish is never
// set to true
func RequiresNpmAuth(set *model.PackageSet, cfg *model.PluginConfig) bool {
	if !set.Root.Private {
		return true
	}
	for _, sub := range set.Subs {
		if !sub.Private {
			return true
		}
	}
	return cfg.AnyPublishEnabled()
}
