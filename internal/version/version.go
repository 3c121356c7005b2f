// Package version holds the generator version tag. It is mixed into every
// fingerprint, so generated files are rebuilt after an upgrade.
package version

// Version is overridden at build time with -ldflags "-X github.com/toyz/actiongen/internal/version.Version=v1.2.3"
var Version = "v0.1.0"
