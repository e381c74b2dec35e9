package datapublic

import (
	"github.com/covidactnow/datapublic/pkg/version"
)

// Version is the current datapublic module version.
var Version string

func init() {
	Version = version.Get()
}
