package npmrc

import (
	"net/url"
	"strings"
)

// Nerf strips the scheme, credentials, query and last path segment from a registry
// URL so it can key per-registry settings: "https://r.example.com/a/b" becomes
// "//r.example.com/a/".
func Nerf(registry string) string {
	u, err := url.Parse(registry)
	if err != nil || u.Host == "" {
		return registry
	}

	dir := "/"
	if i := strings.LastIndex(u.Path, "/"); i >= 0 {
		dir = u.Path[:i+1]
	}
	return "//" + u.Host + dir
}

// NormalizeURL lower-cases scheme and host and strips "www.", default ports, the
// fragment and trailing slashes so equivalent registry URLs compare equal.
func NormalizeURL(raw string) string {
	s := strings.TrimSpace(raw)
	if !strings.Contains(s, "://") {
		s = "http://" + s
	}

	u, err := url.Parse(s)
	if err != nil {
		return strings.TrimRight(raw, "/")
	}

	u.Scheme = strings.ToLower(u.Scheme)
	host := strings.TrimPrefix(strings.ToLower(u.Hostname()), "www.")
	port := u.Port()
	if (u.Scheme == "http" && port == "80") || (u.Scheme == "https" && port == "443") {
		port = ""
	}
	if port != "" {
		host += ":" + port
	}
	u.Host = host
	u.Fragment = ""
	u.RawFragment = ""
	u.Path = strings.TrimRight(u.Path, "/")
	u.RawPath = ""

	return u.String()
}

// SameRegistry reports whether a and b normalize to the same URL
func SameRegistry(a, b string) bool {
	return NormalizeURL(a) == NormalizeURL(b)
}
