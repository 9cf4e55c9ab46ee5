package model

// ReleaseInfo is the outcome of publishing or tagging one package. A nil
// *ReleaseInfo means no action was taken for the package.
type ReleaseInfo struct {
	Name    string `json:"name"`
	URL     string `json:"url,omitempty"`
	Channel string `json:"channel"`
}

// ReleaseSummary merges the ReleaseInfo of every package in one call. A nil
// *ReleaseSummary means nothing was released.
type ReleaseSummary struct {
	Name    string   `json:"name"`
	URLs    []string `json:"urls"`
	Channel string   `json:"channel"`
}

// PublishArgs are the per-package arguments of `npm publish`
type PublishArgs struct {
	Dir      string
	DistTag  string
	Registry string

	// Access is passed as --access when not empty
	Access string
}
