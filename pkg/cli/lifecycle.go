package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/fatih/color"
	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/npm-release/pkg/cli/config"
	"github.com/m-mizutani/npm-release/pkg/domain/model"
	"github.com/m-mizutani/npm-release/pkg/infra/npm"
	"github.com/m-mizutani/npm-release/pkg/usecase"
	"github.com/urfave/cli/v3"
)

type stepFunc func(ctx context.Context, lc *usecase.Lifecycle, raw model.RawConfig, rc *model.RunContext) (*model.ReleaseSummary, error)

// lifecycleCommand builds a command that runs one lifecycle step, and every step
// it depends on, in a fresh Lifecycle
func lifecycleCommand(name, usage string, needsVersion bool, run stepFunc) *cli.Command {
	var releaseCfg config.Release

	return &cli.Command{
		Name:  name,
		Usage: usage,
		Flags: releaseCfg.Flags(),
		Action: func(ctx context.Context, c *cli.Command) error {
			logger := slog.Default()

			if needsVersion && releaseCfg.NextVersion == "" {
				return goerr.New("--next-version is required", goerr.T(model.ErrTagNoNextRelease))
			}

			raw, err := releaseCfg.LoadPluginConfig()
			if err != nil {
				return err
			}

			// npm output goes to stderr so stdout only carries the summary
			rc, err := releaseCfg.RunContext(logger, os.Stderr, os.Stderr)
			if err != nil {
				return err
			}

			lc := usecase.NewLifecycle(npm.NewClient(), releaseCfg.Npmrc())
			logger.Debug("Starting lifecycle step",
				"step", name,
				"cwd", rc.Cwd,
				"npmrc", releaseCfg.Npmrc(),
			)

			summary, err := run(ctx, lc, raw, rc)
			if err != nil {
				return err
			}

			logger.Info("Lifecycle step completed", "step", name, "state", lc.State().String())
			if needsVersion {
				printSummary(c.Root().Writer, summary)
			}
			return nil
		},
	}
}

func printSummary(w io.Writer, summary *model.ReleaseSummary) {
	if w == nil {
		w = os.Stdout
	}
	if summary == nil {
		fmt.Fprintln(w, color.YellowString("No package was released"))
		return
	}

	fmt.Fprintf(w, "%s %s\n", color.GreenString("Released"), summary.Name)
	for _, url := range summary.URLs {
		fmt.Fprintf(w, "  %s\n", color.CyanString(url))
	}
}

func cmdVerify() *cli.Command {
	return lifecycleCommand("verify", "Validate plugin configuration and registry credentials", false,
		func(ctx context.Context, lc *usecase.Lifecycle, raw model.RawConfig, rc *model.RunContext) (*model.ReleaseSummary, error) {
			return nil, lc.VerifyConditions(ctx, raw, rc)
		})
}

func cmdPrepare() *cli.Command {
	return lifecycleCommand("prepare", "Write the next version into package.json and pack tarballs", false,
		func(ctx context.Context, lc *usecase.Lifecycle, raw model.RawConfig, rc *model.RunContext) (*model.ReleaseSummary, error) {
			if rc.NextRelease == nil {
				return nil, goerr.New("--next-version is required", goerr.T(model.ErrTagNoNextRelease))
			}
			return nil, lc.Prepare(ctx, raw, rc)
		})
}

func cmdPublish() *cli.Command {
	return lifecycleCommand("publish", "Publish every publishable package", true,
		func(ctx context.Context, lc *usecase.Lifecycle, raw model.RawConfig, rc *model.RunContext) (*model.ReleaseSummary, error) {
			return lc.Publish(ctx, raw, rc)
		})
}

func cmdAddChannel() *cli.Command {
	return lifecycleCommand("add-channel", "Point the channel dist-tag at the released version", true,
		func(ctx context.Context, lc *usecase.Lifecycle, raw model.RawConfig, rc *model.RunContext) (*model.ReleaseSummary, error) {
			return lc.AddChannel(ctx, raw, rc)
		})
}
