package usecase

import (
	"encoding/json"
	"errors"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/npm-release/pkg/domain/model"
	"gopkg.in/yaml.v3"
)

// Monorepo manifest files consulted when a private root declares no workspaces
const (
	ManifestFile      = "package.json"
	LernaFile         = "lerna.json"
	PnpmWorkspaceFile = "pnpm-workspace.yaml"
)

// GetPkgInfo reads package.json in dir
func GetPkgInfo(dir string) (*model.PackageManifest, error) {
	path := filepath.Join(dir, ManifestFile)

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, goerr.New("missing package.json",
				goerr.T(model.ErrTagNoManifest),
				goerr.V("dir", dir))
		}
		return nil, goerr.Wrap(err, "failed to read package.json", goerr.V("path", path))
	}

	var pkg model.PackageManifest
	if err := json.Unmarshal(data, &pkg); err != nil {
		return nil, goerr.Wrap(err, "malformed package.json",
			goerr.T(model.ErrTagMalformedManifest),
			goerr.V("path", path))
	}

	if !pkg.Private && pkg.Name == "" {
		return nil, goerr.New("missing name in package.json",
			goerr.T(model.ErrTagNoPackageName),
			goerr.V("path", path))
	}

	pkg.Path = dir
	return &pkg, nil
}

// GetAllPkgInfo resolves the root package at pkgRoot (or the working directory) and,
// when the root is private, every workspace package
func GetAllPkgInfo(rc *model.RunContext, cfg *model.PluginConfig) (*model.PackageSet, error) {
	cwd, err := filepath.Abs(rc.Cwd)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to resolve working directory", goerr.V("cwd", rc.Cwd))
	}

	rootPath := cwd
	if pkgRoot := cfg.RootPkgRoot(); pkgRoot != "" {
		rootPath = pkgRoot
		if !filepath.IsAbs(rootPath) {
			rootPath = filepath.Join(cwd, pkgRoot)
		}
	}

	root, err := GetPkgInfo(rootPath)
	if err != nil {
		return nil, err
	}

	set := &model.PackageSet{Root: root}
	if !root.Private {
		return set, nil
	}

	patterns, err := workspacePatterns(cwd, root)
	if err != nil {
		return nil, err
	}

	dirs, err := expandWorkspaces(cwd, patterns)
	if err != nil {
		return nil, err
	}

	for _, dir := range dirs {
		sub, err := GetPkgInfo(filepath.Join(cwd, filepath.FromSlash(dir)))
		if err != nil {
			return nil, goerr.Wrap(err, "failed to load workspace package", goerr.V("workspace", dir))
		}
		set.Subs = append(set.Subs, sub)
	}

	rc.Log().Debug("Resolved packages",
		"root", root.Name,
		"patterns", patterns,
		"sub_packages", len(set.Subs),
	)

	return set, nil
}

// workspacePatterns returns the workspace globs of root, else of lerna.json, else of
// pnpm-workspace.yaml
func workspacePatterns(cwd string, root *model.PackageManifest) ([]string, error) {
	if len(root.Workspaces) > 0 {
		return root.Workspaces, nil
	}

	var lerna struct {
		Packages []string `json:"packages"`
	}
	if found, err := loadOptional(filepath.Join(cwd, LernaFile), func(data []byte) error {
		return json.Unmarshal(data, &lerna)
	}); err != nil {
		return nil, err
	} else if found && len(lerna.Packages) > 0 {
		return lerna.Packages, nil
	}

	var pnpm struct {
		Packages []string `yaml:"packages"`
	}
	if found, err := loadOptional(filepath.Join(cwd, PnpmWorkspaceFile), func(data []byte) error {
		return yaml.Unmarshal(data, &pnpm)
	}); err != nil {
		return nil, err
	} else if found {
		return pnpm.Packages, nil
	}

	return nil, nil
}

func loadOptional(path string, decode func([]byte) error) (bool, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return false, nil
		}
		return false, goerr.Wrap(err, "failed to read monorepo manifest", goerr.V("path", path))
	}
	if err := decode(data); err != nil {
		return false, goerr.Wrap(err, "malformed monorepo manifest",
			goerr.T(model.ErrTagMalformedManifest),
			goerr.V("path", path))
	}
	return true, nil
}

// expandWorkspaces matches every pattern against directories relative to cwd, which
// may reach outside it ("../shared/*"). A pattern prefixed with "!" removes earlier
// matches. Wildcards do not match dot-directories; a pattern naming one literally
// does. Results are cwd-relative, slash-separated, in first-match order.
func expandWorkspaces(cwd string, patterns []string) ([]string, error) {
	var dirs []string
	seen := make(map[string]struct{})

	for _, pattern := range patterns {
		exclude := strings.HasPrefix(pattern, "!")
		pattern = path.Clean(strings.TrimPrefix(pattern, "!"))

		matches, err := globDirs(cwd, pattern)
		if err != nil {
			return nil, err
		}

		if exclude {
			excluded := make(map[string]struct{}, len(matches))
			for _, m := range matches {
				excluded[m] = struct{}{}
			}
			kept := dirs[:0]
			for _, d := range dirs {
				if _, ok := excluded[d]; ok {
					delete(seen, d)
					continue
				}
				kept = append(kept, d)
			}
			dirs = kept
			continue
		}

		for _, m := range matches {
			if _, ok := seen[m]; ok {
				continue
			}
			seen[m] = struct{}{}
			dirs = append(dirs, m)
		}
	}

	return dirs, nil
}

func globDirs(cwd, pattern string) ([]string, error) {
	matches, err := doublestar.FilepathGlob(filepath.Join(cwd, filepath.FromSlash(pattern)))
	if err != nil {
		return nil, goerr.Wrap(err, "failed to expand workspace glob", goerr.V("pattern", pattern))
	}

	literalDots := make(map[string]struct{})
	for _, seg := range strings.Split(pattern, "/") {
		if strings.HasPrefix(seg, ".") {
			literalDots[seg] = struct{}{}
		}
	}

	var dirs []string
	for _, m := range matches {
		info, err := os.Stat(m)
		if err != nil {
			return nil, goerr.Wrap(err, "failed to stat workspace", goerr.V("path", m))
		}
		if !info.IsDir() {
			continue
		}

		rel, err := filepath.Rel(cwd, m)
		if err != nil {
			return nil, goerr.Wrap(err, "failed to relativize workspace", goerr.V("path", m))
		}
		rel = filepath.ToSlash(rel)
		if hiddenByWildcard(rel, literalDots) {
			continue
		}
		dirs = append(dirs, rel)
	}
	return dirs, nil
}

func hiddenByWildcard(rel string, literalDots map[string]struct{}) bool {
	for _, seg := range strings.Split(rel, "/") {
		if seg == "." || seg == ".." || !strings.HasPrefix(seg, ".") {
			continue
		}
		if _, ok := literalDots[seg]; !ok {
			return true
		}
	}
	return false
}
