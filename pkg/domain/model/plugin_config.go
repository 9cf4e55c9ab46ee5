package model

import "strings"

// Plugin configuration keys
const (
	KeyNpmPublish = "npmPublish"
	KeyTarballDir = "tarballDir"
	KeyPkgRoot    = "pkgRoot"
	KeyAccess     = "access"
	KeyDefault    = "default"
)

// RawConfig is the plugin configuration as supplied by the orchestrator, before any
// type checking
type RawConfig map[string]any

// IsPerPackage reports whether the configuration is keyed by package name. The
// presence of a "default" key selects this variant.
func (c RawConfig) IsPerPackage() bool {
	_, ok := c[KeyDefault]
	return ok
}

// Options are the effective settings for one package
type Options struct {
	// NpmPublish is nil when unset
	NpmPublish *bool
	TarballDir string
	PkgRoot    string
	Access     string
}

// PublishDisabled is true only when npmPublish is explicitly false
func (o Options) PublishDisabled() bool {
	return o.NpmPublish != nil && !*o.NpmPublish
}

// PublishEnabled is true only when npmPublish is explicitly true
func (o Options) PublishEnabled() bool {
	return o.NpmPublish != nil && *o.NpmPublish
}

// OptionsFromMap decodes Options, ignoring values of the wrong type. Run the
// validator first to report them.
func OptionsFromMap(m map[string]any) Options {
	var opts Options
	if v, ok := m[KeyNpmPublish].(bool); ok {
		opts.NpmPublish = &v
	}
	if v, ok := m[KeyTarballDir].(string); ok {
		opts.TarballDir = strings.TrimSpace(v)
	}
	if v, ok := m[KeyPkgRoot].(string); ok {
		opts.PkgRoot = strings.TrimSpace(v)
	}
	if v, ok := m[KeyAccess].(string); ok {
		opts.Access = v
	}
	return opts
}

// PluginConfig is either a flat set of Options applied to every package, or a
// per-package mapping with a default entry.
type PluginConfig struct {
	perPackage bool

	// flat is the whole object read as Options. For the per-package variant it is the
	// last-resort fallback and the source of the root pkgRoot.
	flat     Options
	defaults *Options
	packages map[string]Options
}

// ParsePluginConfig resolves the flat/per-package variant once
func ParsePluginConfig(raw RawConfig) *PluginConfig {
	cfg := &PluginConfig{
		perPackage: raw.IsPerPackage(),
		flat:       OptionsFromMap(raw),
		packages:   make(map[string]Options),
	}
	if !cfg.perPackage {
		return cfg
	}

	for key, value := range raw {
		sub, ok := value.(map[string]any)
		if !ok {
			continue
		}
		opts := OptionsFromMap(sub)
		if key == KeyDefault {
			cfg.defaults = &opts
			continue
		}
		cfg.packages[key] = opts
	}
	return cfg
}

// IsPerPackage reports the configuration variant
func (c *PluginConfig) IsPerPackage() bool {
	return c.perPackage
}

// RootPkgRoot is the pkgRoot used to locate the root manifest
func (c *PluginConfig) RootPkgRoot() string {
	return c.flat.PkgRoot
}

// For returns the effective options of the named package: an exact name entry,
// else the default entry, else the whole object read as flat options.
func (c *PluginConfig) For(name string) Options {
	if !c.perPackage {
		return c.flat
	}
	if opts, ok := c.packages[name]; ok {
		return opts
	}
	if c.defaults != nil {
		return *c.defaults
	}
	return c.flat
}

// AnyPublishEnabled reports whether npmPublish is true at the top level or in any
// per-package entry
func (c *PluginConfig) AnyPublishEnabled() bool {
	if c.flat.PublishEnabled() {
		return true
	}
	if c.defaults != nil && c.defaults.PublishEnabled() {
		return true
	}
	for _, opts := range c.packages {
		if opts.PublishEnabled() {
			return true
		}
	}
	return false
}
