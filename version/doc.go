// Package version reports the iocapture build.
//
// Version, commit, branch and build time are set at link time:
//
//	go build -ldflags "-X github.com/kbukum/iocapture/version.Version=1.0.0" ./cmd/iocapture
//
// Values left empty are filled from the module build info when available.
package version
