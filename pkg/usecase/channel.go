package usecase

import (
	"strings"

	"github.com/Masterminds/semver/v3"
	"github.com/m-mizutani/npm-release/pkg/domain/types"
)

// GetChannel maps a release channel to an npm dist-tag. A channel that parses as a
// semver range is prefixed with "release-" so it cannot be mistaken for a version.
func GetChannel(channel string) string {
	if channel == "" {
		return types.DefaultDistTag
	}
	if isSemverRange(channel) {
		return "release-" + channel
	}
	return channel
}

// isSemverRange accepts the range grammar npm understands. Comma-joined comparators
// parse as a constraint but are not an npm range.
func isSemverRange(s string) bool {
	if strings.Contains(s, ",") {
		return false
	}
	_, err := semver.NewConstraint(s)
	return err == nil
}
