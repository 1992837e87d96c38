// Package version holds build metadata for prdchat, injected at link time:
//
//	go build -ldflags "-X github.com/tessro/prdchat/internal/version.Version=v0.1.0"
package version

var (
	// Version is the release version.
	Version = "dev"
	// Commit is the git commit the binary was built from.
	Commit = "unknown"
	// Date is the build timestamp.
	Date = "unknown"
)
