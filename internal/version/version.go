package version

// Version contains the application version information.
// Set via ldflags in release builds:
// go build -ldflags "-X github.com/vividigit/sitebuilder/internal/version.Version=v1.0.0".
var Version = "unknown"

// BuildInfo contains additional build metadata.
var (
	BuildTime = "unknown"
	GitCommit = "unknown"
)
