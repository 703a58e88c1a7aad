// Package version reports which textforge build is running.
//
// Version and BuildTime can be stamped at link time:
//
//	go build -ldflags "-X github.com/kbukum/textforge/version.Version=0.3.0" ./cmd/textforge
//
// The commit and dirty flag come from the VCS settings embedded by the Go
// toolchain when they are not stamped.
package version
