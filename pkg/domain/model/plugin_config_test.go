package model_test

import (
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/m-mizutani/npm-release/pkg/domain/model"
)

func TestParsePluginConfig_Flat(t *testing.T) {
	cfg := model.ParsePluginConfig(model.RawConfig{
		"npmPublish": false,
		"tarballDir": " dist ",
		"pkgRoot":    "build",
		"access":     "public",
	})

	gt.False(t, cfg.IsPerPackage())
	gt.Value(t, cfg.RootPkgRoot()).Equal("build")

	opts := cfg.For("any-package")
	gt.True(t, opts.PublishDisabled())
	gt.False(t, opts.PublishEnabled())
	gt.Value(t, opts.TarballDir).Equal("dist")
	gt.Value(t, opts.Access).Equal("public")
	gt.False(t, cfg.AnyPublishEnabled())
}

func TestParsePluginConfig_PerPackage(t *testing.T) {
	raw := model.RawConfig{
		"default": map[string]any{"npmPublish": true, "tarballDir": "out"},
		"pkgA":    map[string]any{"npmPublish": false},
	}
	cfg := model.ParsePluginConfig(raw)

	gt.True(t, cfg.IsPerPackage())
	gt.True(t, cfg.For("pkgA").PublishDisabled())
	gt.Value(t, cfg.For("pkgA").TarballDir).Equal("")
	gt.True(t, cfg.For("pkgB").PublishEnabled())
	gt.Value(t, cfg.For("pkgB").TarballDir).Equal("out")
	gt.True(t, cfg.AnyPublishEnabled())
}

func TestParsePluginConfig_PerPackageFallback(t *testing.T) {
	// a non-object default falls back to the whole object read as flat options
	cfg := model.ParsePluginConfig(model.RawConfig{
		"default":    true,
		"npmPublish": false,
		"pkgRoot":    "dist",
	})

	gt.True(t, cfg.IsPerPackage())
	gt.True(t, cfg.For("unknown").PublishDisabled())
	gt.Value(t, cfg.RootPkgRoot()).Equal("dist")
}

func TestPluginConfig_AnyPublishEnabled(t *testing.T) {
	testCases := map[string]struct {
		raw      model.RawConfig
		expected bool
	}{
		"empty":               {raw: model.RawConfig{}, expected: false},
		"top-level true":      {raw: model.RawConfig{"npmPublish": true}, expected: true},
		"wrong type":          {raw: model.RawConfig{"npmPublish": "true"}, expected: false},
		"package entry true":  {raw: model.RawConfig{"default": map[string]any{}, "a": map[string]any{"npmPublish": true}}, expected: true},
		"package entry false": {raw: model.RawConfig{"default": map[string]any{}, "a": map[string]any{"npmPublish": false}}, expected: false},
	}

	for name, tc := range testCases {
		t.Run(name, func(t *testing.T) {
			gt.Value(t, model.ParsePluginConfig(tc.raw).AnyPublishEnabled()).Equal(tc.expected)
		})
	}
}
