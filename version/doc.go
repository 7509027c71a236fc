// Package version reports the build identity of the fileflow binary.
//
// Version, git commit, branch and build time are set at compile time
// via -ldflags; anything left unset is filled from the module build info:
//
//	go build -ldflags "-X github.com/kbukum/fileflow/version.Version=1.0.0" ./cmd/fileflow
package version
