package cli_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/gt"
	"github.com/m-mizutani/npm-release/pkg/cli"
	"github.com/m-mizutani/npm-release/pkg/domain/model"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	gt.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	gt.NoError(t, os.WriteFile(path, []byte(content), 0644))
}

func TestRun_Verify(t *testing.T) {
	t.Run("private package needs no credentials", func(t *testing.T) {
		cwd := t.TempDir()
		writeFile(t, filepath.Join(cwd, "package.json"), `{"name":"root","private":true}`)

		err := cli.Run(context.Background(), []string{
			"npm-release", "--log-level", "error",
			"verify", "--cwd", cwd, "--npmrc", filepath.Join(t.TempDir(), ".npmrc"),
		})
		gt.NoError(t, err)
	})

	t.Run("invalid plugin config", func(t *testing.T) {
		cwd := t.TempDir()
		writeFile(t, filepath.Join(cwd, "package.json"), `{"name":"root","private":true}`)
		cfgPath := filepath.Join(cwd, "release.json")
		writeFile(t, cfgPath, `{"npmPublish": 42}`)

		err := cli.Run(context.Background(), []string{
			"npm-release", "--log-level", "error",
			"verify", "--cwd", cwd, "--config", cfgPath,
		})
		gt.True(t, goerr.HasTag(err, model.ErrTagInvalidConfig))
	})
}

func TestRun_InvalidLogLevel(t *testing.T) {
	err := cli.Run(context.Background(), []string{"npm-release", "--log-level", "verbose", "verify"})
	gt.Error(t, err)
}

func TestRun_PublishRequiresVersion(t *testing.T) {
	cwd := t.TempDir()
	writeFile(t, filepath.Join(cwd, "package.json"), `{"name":"root","private":true}`)

	err := cli.Run(context.Background(), []string{
		"npm-release", "--log-level", "error",
		"publish", "--cwd", cwd,
	})
	gt.True(t, goerr.HasTag(err, model.ErrTagNoNextRelease))
}
