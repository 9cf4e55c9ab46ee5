package model

import "github.com/m-mizutani/npm-release/pkg/domain/types"

// Credentials are the registry credentials found in the run environment. Secret
// fields are masked by the log handler.
type Credentials struct {
	Token    string `masq:"secret"`
	Username string
	Password string `masq:"secret"`
	Email    string
}

// CredentialsFromEnv reads credentials from the run environment
func CredentialsFromEnv(env map[string]string) Credentials {
	return Credentials{
		Token:    env[types.EnvNpmToken],
		Username: env[types.EnvNpmUsername],
		Password: env[types.EnvNpmPassword],
		Email:    env[types.EnvNpmEmail],
	}
}

// HasLegacy reports whether username, password and email are all present
func (c Credentials) HasLegacy() bool {
	return c.Username != "" && c.Password != "" && c.Email != ""
}

// HasToken reports whether a bearer token is present
func (c Credentials) HasToken() bool {
	return c.Token != ""
}
