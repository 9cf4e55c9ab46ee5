package usecase

import (
	"errors"
	"sort"
	"strings"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/npm-release/pkg/domain/model"
)

// CollectConfigErrors checks npmPublish, tarballDir and pkgRoot of a flat config, or
// of every entry of a per-package config, and returns one error per violation. The
// default entry is checked first, then the package entries by name.
func CollectConfigErrors(raw model.RawConfig) []error {
	if !raw.IsPerPackage() {
		return validateOptions(raw)
	}

	keys := make([]string, 0, len(raw))
	for key := range raw {
		if key != model.KeyDefault {
			keys = append(keys, key)
		}
	}
	sort.Strings(keys)
	keys = append([]string{model.KeyDefault}, keys...)

	var errs []error
	for _, key := range keys {
		sub, ok := raw[key].(map[string]any)
		if !ok {
			continue
		}
		for _, err := range validateOptions(sub) {
			errs = append(errs, goerr.Wrap(err, "invalid package configuration", goerr.V("package", key)))
		}
	}
	return errs
}

// VerifyPluginConfig returns a single EINVALIDCONFIG error joining every violation,
// or nil when the configuration is valid
func VerifyPluginConfig(raw model.RawConfig) error {
	errs := CollectConfigErrors(raw)
	if len(errs) == 0 {
		return nil
	}

	return goerr.Wrap(errors.Join(errs...), "invalid plugin configuration",
		goerr.T(model.ErrTagInvalidConfig),
		goerr.V("count", len(errs)),
	)
}

func validateOptions(m map[string]any) []error {
	var errs []error

	if v, ok := m[model.KeyNpmPublish]; ok && v != nil {
		if _, isBool := v.(bool); !isBool {
			errs = append(errs, goerr.New("npmPublish must be a boolean",
				goerr.T(model.ErrTagInvalidNpmPublish),
				goerr.V(model.KeyNpmPublish, v)))
		}
	}
	if v, ok := m[model.KeyTarballDir]; ok && v != nil && !isNonEmptyString(v) {
		errs = append(errs, goerr.New("tarballDir must be a non-empty string",
			goerr.T(model.ErrTagInvalidTarballDir),
			goerr.V(model.KeyTarballDir, v)))
	}
	if v, ok := m[model.KeyPkgRoot]; ok && v != nil && !isNonEmptyString(v) {
		errs = append(errs, goerr.New("pkgRoot must be a non-empty string",
			goerr.T(model.ErrTagInvalidPkgRoot),
			goerr.V(model.KeyPkgRoot, v)))
	}

	return errs
}

func isNonEmptyString(v any) bool {
	s, ok := v.(string)
	return ok && strings.TrimSpace(s) != ""
}
