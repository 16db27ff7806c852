// Package buildinfo provides build information for kiwi.
//
// Version, Commit and BuildTime are injected via ldflags:
//
//	go build -ldflags "-X github.com/yndnr/kiwi/internal/infra/buildinfo.Version=v0.1.0"
//
// Values left unset fall back to what the Go toolchain embedded in the
// binary (module version, vcs.revision, vcs.time).
package buildinfo
