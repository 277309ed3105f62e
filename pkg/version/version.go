// Package version records the build identity of the hygro binaries.
package version

// Version is the release version. Override at build time with:
//
//	-ldflags "-X github.com/hygrosense/hygro-go/pkg/version.Version=v1.2.0"
var Version = "dev"

// Commit is the VCS revision the binary was built from.
var Commit = ""

// String returns the version, with the commit appended when known.
func String() string {
	if Commit == "" {
		return Version
	}
	return Version + " (" + Commit + ")"
}
