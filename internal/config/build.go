package config

import "fmt"

// Build arguments, injected via -ldflags at compile time.
var (
	ModuleNameBuildArg = ModuleName
	CommitBuildArg     = "unknown"
	BuildDateBuildArg  = "unknown"
)

// GetFormattedBuildArgs returns "<module> @ <commit> (<build date>)".
func GetFormattedBuildArgs() string {
	return fmt.Sprintf("%v @ %v (%v)", ModuleNameBuildArg, CommitBuildArg, BuildDateBuildArg)
}
