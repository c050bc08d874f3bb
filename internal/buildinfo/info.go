// Package buildinfo carries release metadata stamped in by the linker, e.g.
//
//	go build -ldflags "-X github.com/bankqif/bankqif/internal/buildinfo.Version=v0.3.0"
package buildinfo

// Release metadata; the defaults identify a local development build.
var (
	Version = "dev"
	Commit  = "none"
	Date    = "unknown"
)
