// Package version exposes the build version of the sieve binary.
package version

import (
	"github.com/Masterminds/semver/v3"
)

// version is set at build time via
// -ldflags "-X github.com/rshade/sieve/pkg/version.version=v1.2.3".
var version = "0.0.0-dev" //nolint:gochecknoglobals // Overridden by ldflags

// GetVersion returns the build version.
func GetVersion() string {
	return version
}

// IsRelease reports whether the build version is a valid semantic version
// without a pre-release suffix.
func IsRelease() bool {
	return isRelease(version)
}

func isRelease(v string) bool {
	parsed, err := semver.NewVersion(v)
	if err != nil {
		return false
	}
	return parsed.Prerelease() == ""
}
