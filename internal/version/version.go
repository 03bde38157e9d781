// Package version exposes build metadata injected at link time.
package version

// Build metadata, overridden with -ldflags "-X".
//
//nolint:gochecknoglobals // Values are injected by the linker.
var (
	// Version is the semantic version of the build.
	Version = "0.1.0"
	// Commit is the VCS revision of the build.
	Commit = "none"
	// BuildTime is the build timestamp.
	BuildTime = "unknown"
)

// Short returns the version number only.
func Short() string {
	return Version
}

// Full returns the version, commit and build time.
func Full() string {
	return "version: " + Version + ", commit: " + Commit + ", built at: " + BuildTime
}
