package model

import "github.com/m-mizutani/goerr/v2"

// Error kinds. Each fatal error carries exactly one of these tags.
var (
	ErrTagInvalidNpmPublish = goerr.NewTag("EINVALIDNPMPUBLISH")
	ErrTagInvalidTarballDir = goerr.NewTag("EINVALIDTARBALLDIR")
	ErrTagInvalidPkgRoot    = goerr.NewTag("EINVALIDPKGROOT")
	ErrTagInvalidConfig     = goerr.NewTag("EINVALIDCONFIG")

	ErrTagNoManifest        = goerr.NewTag("ENOPKG")
	ErrTagNoPackageName     = goerr.NewTag("ENOPKGNAME")
	ErrTagMalformedManifest = goerr.NewTag("EMALFORMEDPKG")

	ErrTagNoToken      = goerr.NewTag("ENONPMTOKEN")
	ErrTagInvalidToken = goerr.NewTag("EINVALIDNPMTOKEN")

	ErrTagNoNextRelease = goerr.NewTag("ENONEXTRELEASE")
	ErrTagNpmCommand    = goerr.NewTag("ENPMCOMMAND")
)

// ErrorCode returns the kind string of err, or "EUNKNOWN" if it carries no known tag.
// The compound configuration error is checked first so its code wins over any tag of
// a wrapped cause.
func ErrorCode(err error) string {
	switch {
	case err == nil:
		return ""
	case goerr.HasTag(err, ErrTagInvalidConfig):
		return "EINVALIDCONFIG"
	case goerr.HasTag(err, ErrTagInvalidNpmPublish):
		return "EINVALIDNPMPUBLISH"
	case goerr.HasTag(err, ErrTagInvalidTarballDir):
		return "EINVALIDTARBALLDIR"
	case goerr.HasTag(err, ErrTagInvalidPkgRoot):
		return "EINVALIDPKGROOT"
	case goerr.HasTag(err, ErrTagNoManifest):
		return "ENOPKG"
	case goerr.HasTag(err, ErrTagNoPackageName):
		return "ENOPKGNAME"
	case goerr.HasTag(err, ErrTagMalformedManifest):
		return "EMALFORMEDPKG"
	case goerr.HasTag(err, ErrTagNoToken):
		return "ENONPMTOKEN"
	case goerr.HasTag(err, ErrTagInvalidToken):
		return "EINVALIDNPMTOKEN"
	case goerr.HasTag(err, ErrTagNoNextRelease):
		return "ENONEXTRELEASE"
	case goerr.HasTag(err, ErrTagNpmCommand):
		return "ENPMCOMMAND"
	default:
		return "EUNKNOWN"
	}
}
