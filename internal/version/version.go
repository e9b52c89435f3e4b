// Package version holds facetsearch build metadata injected via ldflags:
//
//	go build -ldflags "-X github.com/kailas-cloud/facetsearch/internal/version.Version=v0.1.0" ./cmd/facetsearch
package version

//nolint:revive // Set via ldflags at build time.
var (
	Version = "dev"
	Commit  = "unknown"
	Date    = "unknown"
)

// String returns a one-line build description.
func String() string {
	return Version + " (" + Commit + ", " + Date + ")"
}
