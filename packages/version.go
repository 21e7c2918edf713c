package packages

import "strings"

// UpstreamVersion strips the epoch, everything up to and including the
// first colon, from a full Debian version string. "2:1.4-1" becomes
// "1.4-1"; versions without an epoch are returned unchanged.
func UpstreamVersion(version string) string {
	if _, upstream, found := strings.Cut(version, ":"); found {
		return upstream
	}
	return version
}

// PackageVersion is the "<name>-<upstream version>" identifier. The top
// level directory of an orig archive must be a prefix of it.
func PackageVersion(name, version string) string {
	return name + "-" + UpstreamVersion(version)
}
