package npmrc

import (
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/npm-release/pkg/domain/types"
	"gopkg.in/ini.v1"
)

// FileName is the npm configuration file name looked up in project directories
const FileName = ".npmrc"

// Config is the merged npm configuration chain. Files found later override
// earlier ones.
type Config struct {
	files    []string
	contents []string
	values   map[string]string
	env      map[string]string
}

// Load discovers and parses the npm configuration chain for cwd: the user files under
// $HOME, the nearest .npmrc walking up from cwd, then explicit. HOME is taken from env
// so the lookup only sees what the run context exposes.
func Load(cwd string, env map[string]string, explicit string) (*Config, error) {
	cfg := &Config{
		values: make(map[string]string),
		env:    env,
	}

	for _, path := range discover(cwd, env, explicit) {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, goerr.Wrap(err, "failed to read npm config", goerr.V("path", path))
		}

		values, err := parse(data)
		if err != nil {
			return nil, goerr.Wrap(err, "failed to parse npm config", goerr.V("path", path))
		}

		cfg.files = append(cfg.files, path)
		cfg.contents = append(cfg.contents, string(data))
		for k, v := range values {
			cfg.values[k] = v
		}
	}

	return cfg, nil
}

func discover(cwd string, env map[string]string, explicit string) []string {
	var candidates []string
	if home := env["HOME"]; home != "" {
		candidates = append(candidates,
			filepath.Join(home, FileName),
			filepath.Join(home, ".config", "npm", "config"),
		)
	}
	if found := findUp(cwd, FileName); found != "" {
		candidates = append(candidates, found)
	}
	if explicit != "" {
		candidates = append(candidates, explicit)
	}

	seen := make(map[string]struct{})
	var files []string
	for _, path := range candidates {
		abs, err := filepath.Abs(path)
		if err != nil {
			continue
		}
		if _, ok := seen[abs]; ok {
			continue
		}
		if info, err := os.Stat(abs); err != nil || info.IsDir() {
			continue
		}
		seen[abs] = struct{}{}
		files = append(files, abs)
	}
	return files
}

func findUp(dir, name string) string {
	if dir == "" {
		return ""
	}
	dir, err := filepath.Abs(dir)
	if err != nil {
		return ""
	}

	for {
		path := filepath.Join(dir, name)
		if info, err := os.Stat(path); err == nil && !info.IsDir() {
			return path
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return ""
		}
		dir = parent
	}
}

func parse(data []byte) (map[string]string, error) {
	file, err := ini.LoadSources(ini.LoadOptions{
		KeyValueDelimiters:      "=",
		IgnoreInlineComment:     true,
		AllowBooleanKeys:        true,
		SkipUnrecognizableLines: true,
	}, data)
	if err != nil {
		return nil, err
	}

	values := make(map[string]string)
	for _, key := range file.Section(ini.DefaultSection).Keys() {
		values[key.Name()] = key.Value()
	}
	return values, nil
}

var envRef = regexp.MustCompile(`\$\{([^${}?]+)\??\}`)

func (c *Config) expand(value string) string {
	return envRef.ReplaceAllStringFunc(value, func(ref string) string {
		name := envRef.FindStringSubmatch(ref)[1]
		return c.env[name]
	})
}

// Files returns the discovered configuration files in discovery order
func (c *Config) Files() []string {
	return c.files
}

// Content returns the contents of every discovered file joined by newlines
func (c *Config) Content() string {
	return strings.Join(c.contents, "\n")
}

// Get returns the value of key with ${VAR} references expanded
func (c *Config) Get(key string) string {
	return strings.TrimSpace(c.expand(c.values[key]))
}

// Registry returns the registry configured for scope ("@scope" or an unscoped
// name), falling back to the top-level registry and then the public registry. The
// result always ends with a slash.
func (c *Config) Registry(scope string) string {
	registry := ""
	if strings.HasPrefix(scope, "@") {
		registry = c.Get(scope + ":registry")
	}
	if registry == "" {
		registry = c.Get("registry")
	}
	if registry == "" {
		registry = types.DefaultRegistry
	}
	if !strings.HasSuffix(registry, "/") {
		registry += "/"
	}
	return registry
}

// HasAuthToken reports whether credentials for registry resolve to a non-empty value
func (c *Config) HasAuthToken(registry string) bool {
	nerfed := Nerf(registry)
	for _, base := range []string{nerfed, strings.TrimSuffix(nerfed, "/")} {
		if c.Get(base+":_authToken") != "" || c.Get(base+":_auth") != "" {
			return true
		}
		if c.Get(base+":username") != "" && c.Get(base+":_password") != "" {
			return true
		}
	}
	return c.Get("_auth") != ""
}
