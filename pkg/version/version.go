package version

import "fmt"

// Semantic version of the TokenSentry agent.
const (
	Major = 0
	Minor = 1
	Patch = 0
)

// GetVersion returns the dotted version string.
func GetVersion() string {
	return fmt.Sprintf("%d.%d.%d", Major, Minor, Patch)
}

// UserAgent returns the value sent in outbound HTTP User-Agent headers.
func UserAgent() string {
	return "tokensentry/" + GetVersion()
}
