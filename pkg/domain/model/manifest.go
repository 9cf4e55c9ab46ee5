package model

import (
	"encoding/json"
	"strings"
)

// PublishConfig is the publishConfig section of package.json
type PublishConfig struct {
	Registry string `json:"registry,omitempty"`
}

// Workspaces holds the workspace globs of package.json. Both the array form and the
// object form ({"packages": [...]}) are accepted.
type Workspaces []string

// UnmarshalJSON implements json.Unmarshaler
func (w *Workspaces) UnmarshalJSON(data []byte) error {
	var list []string
	if err := json.Unmarshal(data, &list); err == nil {
		*w = list
		return nil
	}

	var obj struct {
		Packages []string `json:"packages"`
	}
	if err := json.Unmarshal(data, &obj); err != nil {
		return err
	}
	*w = obj.Packages
	return nil
}

// PackageManifest is one package.json plus the directory it was read from
type PackageManifest struct {
	Name          string        `json:"name"`
	Version       string        `json:"version"`
	Private       bool          `json:"private"`
	PublishConfig PublishConfig `json:"publishConfig"`
	Workspaces    Workspaces    `json:"workspaces"`

	// Path is the absolute directory holding package.json
	Path string `json:"-"`
}

// Scope returns the "@scope" prefix of the package name, or the whole name when
// the package is unscoped.
func (m *PackageManifest) Scope() string {
	scope, _, _ := strings.Cut(m.Name, "/")
	return scope
}

// IsScoped reports whether the package name carries a scope marker
func (m *PackageManifest) IsScoped() bool {
	return strings.Contains(m.Name, "@")
}

// PackageSet is the root package and, for a private root, the workspace packages
type PackageSet struct {
	Root *PackageManifest
	Subs []*PackageManifest
}

// All returns the root followed by the sub-packages in discovery order
func (s *PackageSet) All() []*PackageManifest {
	all := make([]*PackageManifest, 0, len(s.Subs)+1)
	all = append(all, s.Root)
	return append(all, s.Subs...)
}
