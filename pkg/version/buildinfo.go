package version

import (
	"runtime/debug"
)

const path = "github.com/covidactnow/datapublic"

// The version comes from the build information of the binary. Builds
// outside a module, and `go run`, report "(devel)" or nothing.
func init() {
	info, ok := debug.ReadBuildInfo()
	if !ok || info == nil {
		return
	}
	if info.Main.Path == path {
		version = info.Main.Version
		return
	}
	for _, mod := range info.Deps {
		if mod != nil && mod.Path == path {
			version = mod.Version
		}
	}
}
