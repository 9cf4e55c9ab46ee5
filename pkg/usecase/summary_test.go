package usecase_test

import (
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/m-mizutani/npm-release/pkg/domain/model"
	"github.com/m-mizutani/npm-release/pkg/usecase"
)

func TestSummarizeReleases(t *testing.T) {
	t.Run("nothing released", func(t *testing.T) {
		gt.Value(t, usecase.SummarizeReleases(nil)).Nil()
		gt.Value(t, usecase.SummarizeReleases([]*model.ReleaseInfo{nil, nil})).Nil()
	})

	t.Run("skipped packages are ignored", func(t *testing.T) {
		summary := usecase.SummarizeReleases([]*model.ReleaseInfo{
			nil,
			{Name: "n", URL: "u", Channel: "c"},
		})
		gt.Value(t, summary).Equal(&model.ReleaseSummary{Name: "n", URLs: []string{"u"}, Channel: "c"})
	})

	t.Run("urls keep submission order", func(t *testing.T) {
		summary := usecase.SummarizeReleases([]*model.ReleaseInfo{
			{Name: "npm package (@latest dist-tag)", URL: "https://www.npmjs.com/package/a/v/1.0.0", Channel: "latest"},
			{Name: "npm package (@latest dist-tag)", Channel: "latest"},
			{Name: "npm package (@latest dist-tag)", URL: "https://www.npmjs.com/package/b/v/1.0.0", Channel: "latest"},
		})
		gt.Value(t, summary.URLs).Equal([]string{
			"https://www.npmjs.com/package/a/v/1.0.0",
			"https://www.npmjs.com/package/b/v/1.0.0",
		})
	})

	t.Run("released without urls", func(t *testing.T) {
		summary := usecase.SummarizeReleases([]*model.ReleaseInfo{{Name: "n", Channel: "c"}})
		gt.Value(t, summary.URLs).Equal([]string{})
	})
}

func TestGetReleaseInfo(t *testing.T) {
	pkg := &model.PackageManifest{Name: "@scope/package"}
	next := &model.NextRelease{Version: "1.0.0"}

	t.Run("default registry", func(t *testing.T) {
		info := usecase.GetReleaseInfo(pkg, newRunContext(t.TempDir(), nil, next), "latest", "https://registry.npmjs.org/")
		gt.Value(t, info).Equal(&model.ReleaseInfo{
			Name:    "npm package (@latest dist-tag)",
			URL:     "https://www.npmjs.com/package/@scope/package/v/1.0.0",
			Channel: "latest",
		})
	})

	t.Run("custom registry", func(t *testing.T) {
		info := usecase.GetReleaseInfo(pkg, newRunContext(t.TempDir(), nil, next), "next", "https://custom.example/")
		gt.Value(t, info).Equal(&model.ReleaseInfo{
			Name:    "npm package (@next dist-tag)",
			Channel: "next",
		})
	})
}
