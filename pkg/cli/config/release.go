package config

import (
	"encoding/json"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/Masterminds/semver/v3"
	"github.com/google/uuid"
	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/npm-release/pkg/domain/model"
	"github.com/pelletier/go-toml/v2"
	"github.com/urfave/cli/v3"
	"gopkg.in/yaml.v3"
)

// Release holds the settings of one release run started from the command line
type Release struct {
	Cwd         string
	ConfigPath  string
	NpmrcPath   string
	NextVersion string
	Channel     string
}

// Flags returns CLI flags for release configuration
func (c *Release) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "cwd",
			Usage:       "Repository directory",
			Value:       ".",
			Destination: &c.Cwd,
			Sources:     cli.EnvVars("NPM_RELEASE_CWD"),
		},
		&cli.StringFlag{
			Name:        "config",
			Aliases:     []string{"c"},
			Usage:       "Plugin configuration file (.json, .toml, .yaml)",
			Destination: &c.ConfigPath,
			Sources:     cli.EnvVars("NPM_RELEASE_CONFIG"),
		},
		&cli.StringFlag{
			Name:        "npmrc",
			Usage:       "Path of the generated npm config (default: unique temporary file)",
			Destination: &c.NpmrcPath,
			Sources:     cli.EnvVars("NPM_RELEASE_NPMRC"),
		},
		&cli.StringFlag{
			Name:        "next-version",
			Usage:       "Version to release",
			Destination: &c.NextVersion,
			Sources:     cli.EnvVars("NPM_RELEASE_NEXT_VERSION"),
			Validator: func(v string) error {
				if _, err := semver.StrictNewVersion(v); err != nil {
					return goerr.Wrap(err, "invalid next version", goerr.V("version", v))
				}
				return nil
			},
		},
		&cli.StringFlag{
			Name:        "channel",
			Usage:       "Release channel (empty for the default dist-tag)",
			Destination: &c.Channel,
			Sources:     cli.EnvVars("NPM_RELEASE_CHANNEL"),
		},
	}
}

// Npmrc returns the generated npm config path, allocating a unique temporary path
// on first use
func (c *Release) Npmrc() string {
	if c.NpmrcPath == "" {
		c.NpmrcPath = filepath.Join(os.TempDir(), "npm-release-"+uuid.NewString(), ".npmrc")
	}
	return c.NpmrcPath
}

// LoadPluginConfig decodes the plugin configuration file into an untyped mapping.
// No file yields an empty configuration.
func (c *Release) LoadPluginConfig() (model.RawConfig, error) {
	raw := model.RawConfig{}
	if c.ConfigPath == "" {
		return raw, nil
	}

	data, err := os.ReadFile(c.ConfigPath)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to read plugin config", goerr.V("path", c.ConfigPath))
	}

	var decodeErr error
	switch ext := strings.ToLower(filepath.Ext(c.ConfigPath)); ext {
	case ".json":
		decodeErr = json.Unmarshal(data, &raw)
	case ".toml":
		decodeErr = toml.Unmarshal(data, &raw)
	case ".yaml", ".yml":
		decodeErr = yaml.Unmarshal(data, &raw)
	default:
		return nil, goerr.New("unsupported plugin config format",
			goerr.T(model.ErrTagInvalidConfig),
			goerr.V("path", c.ConfigPath),
			goerr.V("ext", ext))
	}
	if decodeErr != nil {
		return nil, goerr.Wrap(decodeErr, "failed to decode plugin config",
			goerr.T(model.ErrTagInvalidConfig),
			goerr.V("path", c.ConfigPath))
	}
	if raw == nil {
		raw = model.RawConfig{}
	}

	return raw, nil
}

// RunContext builds the context of a command-line run from the process environment
func (c *Release) RunContext(logger *slog.Logger, stdout, stderr io.Writer) (*model.RunContext, error) {
	cwd, err := filepath.Abs(c.Cwd)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to resolve working directory", goerr.V("cwd", c.Cwd))
	}

	rc := &model.RunContext{
		Cwd:    cwd,
		Env:    environ(),
		Stdout: stdout,
		Stderr: stderr,
		Logger: logger,
	}
	if c.NextVersion != "" {
		rc.NextRelease = &model.NextRelease{
			Version: c.NextVersion,
			Channel: c.Channel,
		}
	}
	return rc, nil
}

func environ() map[string]string {
	env := make(map[string]string)
	for _, kv := range os.Environ() {
		if k, v, ok := strings.Cut(kv, "="); ok {
			env[k] = v
		}
	}
	return env
}
