/*
Package version provides build information for sales-pipeline.

Version values are set via ldflags during build:

	go build -ldflags "-X github.com/khanglvm/sales-pipeline/internal/version.Version=v1.0.0 \
	  -X github.com/khanglvm/sales-pipeline/internal/version.Commit=$(git rev-parse --short HEAD) \
	  -X github.com/khanglvm/sales-pipeline/internal/version.Date=$(date -u +%Y-%m-%d)"

If not set via ldflags, defaults to "dev" build. The version is reported by
the version command and attached to exported telemetry as service.version.
*/
package version

// Version information (set via ldflags during build)
var (
	// Version is the current version (e.g., v1.0.1)
	Version = "dev"
	// Commit is the git commit hash (short form)
	Commit = "none"
	// Date is the build date in UTC (YYYY-MM-DD)
	Date = "unknown"
)

// GetVersion returns version information as a formatted string
func GetVersion() string {
	return FormatVersion(Version, Commit, Date)
}

// FormatVersion formats version components into a display string
func FormatVersion(version, commit, date string) string {
	if version == "dev" {
		return version + " (development build)"
	}
	return version + " (commit: " + commit + ", built: " + date + ")"
}

// GetVersionComponents returns individual version components
func GetVersionComponents() (version, commit, date string) {
	return Version, Commit, Date
}
