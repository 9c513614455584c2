package version

import (
	"fmt"
	"runtime"
)

// Build variables injected with -ldflags, for example
// -X 'github.com/chainview/chainview/pkg/version.Version=v0.3.0'
var (
	Version    = "dev"
	CommitHash = "unknown"
	BuildDate  = "unknown"
)

// Info is build information in a structured format.
type Info struct {
	Version    string `json:"version"`
	CommitHash string `json:"commit_hash"`
	BuildDate  string `json:"build_date"`
	GoVersion  string `json:"go_version"`
	Platform   string `json:"platform"`
}

// Get returns the current build information.
func Get() Info {
	return Info{
		Version:    Version,
		CommitHash: CommitHash,
		BuildDate:  BuildDate,
		GoVersion:  runtime.Version(),
		Platform:   runtime.GOOS + "/" + runtime.GOARCH,
	}
}

func (i Info) String() string {
	return fmt.Sprintf("chainview %s (commit %s, built %s, %s %s)",
		i.Version, i.CommitHash, i.BuildDate, i.GoVersion, i.Platform)
}
