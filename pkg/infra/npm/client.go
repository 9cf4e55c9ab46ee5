package npm

import (
	"bytes"
	"context"
	"io"
	"maps"
	"os"
	"os/exec"
	"sort"
	"strings"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/npm-release/pkg/domain/interfaces"
	"github.com/m-mizutani/npm-release/pkg/domain/model"
)

type client struct {
	bin string
}

// Option is a functional option for the npm client
type Option func(*client)

// WithBinary sets the npm executable. Defaults to "npm" looked up in PATH.
func WithBinary(bin string) Option {
	return func(c *client) {
		c.bin = bin
	}
}

// NewClient creates a RegistryClient that shells out to the npm binary
func NewClient(opts ...Option) interfaces.RegistryClient {
	c := &client{
		bin: "npm",
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Version runs `npm version <version> --no-git-tag-version --allow-same-version`
func (c *client) Version(ctx context.Context, x model.NpmExec, version string) error {
	_, err := c.run(ctx, x, false,
		"version", version,
		"--userconfig", x.UserConfig,
		"--no-git-tag-version",
		"--allow-same-version",
	)
	return err
}

// Pack runs `npm pack <pkgDir>` and returns the tarball name printed on the last
// line of stdout
func (c *client) Pack(ctx context.Context, x model.NpmExec, pkgDir string) (string, error) {
	out, err := c.run(ctx, x, true,
		"pack", pkgDir,
		"--userconfig", x.UserConfig,
	)
	if err != nil {
		return "", err
	}

	lines := strings.Split(strings.TrimSpace(out), "\n")
	tarball := strings.TrimSpace(lines[len(lines)-1])
	if tarball == "" {
		return "", goerr.New("npm pack printed no tarball name",
			goerr.T(model.ErrTagNpmCommand),
			goerr.V("dir", pkgDir))
	}
	return tarball, nil
}

// Publish runs `npm publish <dir> --tag <distTag> --registry <registry> [--access <access>]`
func (c *client) Publish(ctx context.Context, x model.NpmExec, args model.PublishArgs) error {
	argv := []string{
		"publish", args.Dir,
		"--userconfig", x.UserConfig,
		"--tag", args.DistTag,
		"--registry", args.Registry,
	}
	if args.Access != "" {
		argv = append(argv, "--access", args.Access)
	}

	_, err := c.run(ctx, x, false, argv...)
	return err
}

// AddDistTag runs `npm dist-tag add <name>@<version> <distTag>`
func (c *client) AddDistTag(ctx context.Context, x model.NpmExec, nameAtVersion, distTag, registry string) error {
	_, err := c.run(ctx, x, false,
		"dist-tag", "add", nameAtVersion, distTag,
		"--userconfig", x.UserConfig,
		"--registry", registry,
	)
	return err
}

// WhoAmI runs `npm whoami`
func (c *client) WhoAmI(ctx context.Context, x model.NpmExec, registry string) error {
	_, err := c.run(ctx, x, false,
		"whoami",
		"--userconfig", x.UserConfig,
		"--registry", registry,
	)
	return err
}

// run streams stdout and stderr into the caller's writers while the process runs.
// When capture is set, stdout is also buffered and returned.
func (c *client) run(ctx context.Context, x model.NpmExec, capture bool, args ...string) (string, error) {
	cmd := exec.CommandContext(ctx, c.bin, args...)
	cmd.Dir = x.Dir
	cmd.Env = environ(x.Env)

	var out bytes.Buffer
	stdout, stderr := writerOrDiscard(x.Stdout), writerOrDiscard(x.Stderr)
	if capture {
		stdout = io.MultiWriter(stdout, &out)
	}
	cmd.Stdout = stdout
	cmd.Stderr = stderr

	if err := cmd.Run(); err != nil {
		return "", goerr.Wrap(err, "npm command failed",
			goerr.T(model.ErrTagNpmCommand),
			goerr.V("command", args[0]),
			goerr.V("dir", x.Dir),
		)
	}

	return out.String(), nil
}

// environ layers env over the process environment, as npm expects HOME, PATH and
// the rest of the caller's shell to be present
func environ(env map[string]string) []string {
	merged := make(map[string]string, len(env))
	for _, kv := range os.Environ() {
		if k, v, ok := strings.Cut(kv, "="); ok {
			merged[k] = v
		}
	}
	maps.Copy(merged, env)

	list := make([]string, 0, len(merged))
	for k, v := range merged {
		list = append(list, k+"="+v)
	}
	sort.Strings(list)
	return list
}

func writerOrDiscard(w io.Writer) io.Writer {
	if w == nil {
		return io.Discard
	}
	return w
}
