package types

// Environment variables read from the run context
const (
	EnvNpmToken            = "NPM_TOKEN"
	EnvNpmUsername         = "NPM_USERNAME"
	EnvNpmPassword         = "NPM_PASSWORD"
	EnvNpmEmail            = "NPM_EMAIL"
	EnvNpmConfigUserconfig = "NPM_CONFIG_USERCONFIG"
	EnvNpmConfigRegistry   = "NPM_CONFIG_REGISTRY"
	EnvDefaultNpmRegistry  = "DEFAULT_NPM_REGISTRY"

	// EnvLegacyToken is injected into the npm subprocess environment only; it is
	// never written to disk.
	EnvLegacyToken = "LEGACY_TOKEN"
)

// DefaultRegistry is the public npm registry
const DefaultRegistry = "https://registry.npmjs.org/"

// DefaultAccess is passed to `npm publish --access` for scoped packages
const DefaultAccess = "restricted"

// DefaultDistTag is used when a release has no channel
const DefaultDistTag = "latest"
